package app

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/corey/cefr/internal/adapters/socket"
	"github.com/corey/cefr/internal/config"
)

// Paths holds the resolved filesystem locations used by the CLI and daemon.
type Paths struct {
	Store  string // bbolt file holding imported lexicons
	Socket string // daemon Unix socket
}

// NewPaths resolves paths from cfg. Unset entries fall back to the user cache
// directory (store) and a socket keyed by configPath, so daemons started from
// different config files do not collide.
func NewPaths(cfg *config.Config, configPath string) (*Paths, error) {
	p := &Paths{Store: cfg.Store.Path, Socket: cfg.Daemon.Socket}
	if p.Store == "" {
		dir, err := os.UserCacheDir()
		if err != nil {
			return nil, fmt.Errorf("resolve store path: %w", err)
		}
		p.Store = DefaultStorePath(dir)
	}
	if p.Socket == "" {
		p.Socket = socket.SocketPath(configPath)
	}
	return p, nil
}

// DefaultStorePath is the store location under a cache directory.
func DefaultStorePath(cacheDir string) string {
	return filepath.Join(cacheDir, "cefr", "lexicons.db")
}

// EnsureDirs creates the parent directories of the store and socket. Idempotent.
func (p *Paths) EnsureDirs() error {
	for _, d := range []string{filepath.Dir(p.Store), filepath.Dir(p.Socket)} {
		if err := os.MkdirAll(d, 0755); err != nil {
			return err
		}
	}
	return nil
}
