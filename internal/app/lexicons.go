package app

import (
	"context"
	"fmt"
	"io"

	"github.com/corey/cefr/internal/adapters/ahocorasick"
	"github.com/corey/cefr/internal/adapters/bbolt"
	"github.com/corey/cefr/internal/adapters/sqlite"
	"github.com/corey/cefr/internal/config"
	"github.com/corey/cefr/internal/domain/lexicon"
	"github.com/corey/cefr/internal/ports"
)

// ImportTarget names where imported rows are written.
type ImportTarget struct {
	Kind  string // config.SourceBolt or config.SourceSQLite
	Name  string // bolt snapshot name
	Path  string // sqlite database file
	Table string // sqlite table (default "lexicon")
}

// ImportStats reports what an import stored.
type ImportStats struct {
	Rows    int    `json:"rows"`
	Skipped int    `json:"skipped"`
	Words   int    `json:"words"`
	Phrases int    `json:"phrases"`
	Target  string `json:"target"`
}

// Import parses lexicon CSV from r and stores the rows in t. The rows must
// build into a usable lexicon first, so a stored snapshot always loads.
func (a *App) Import(ctx context.Context, r io.Reader, t ImportTarget) (ImportStats, error) {
	rows, skipped, err := lexicon.ParseRows(r)
	if err != nil {
		return ImportStats{}, fmt.Errorf("parse rows: %w", err)
	}
	lex, err := lexicon.Build(rows, ahocorasick.Build)
	if err != nil {
		return ImportStats{}, fmt.Errorf("build lexicon: %w", err)
	}
	st := lex.Stats()
	stats := ImportStats{Rows: len(rows), Skipped: skipped, Words: st.Words, Phrases: st.Phrases}

	switch t.Kind {
	case config.SourceBolt:
		if t.Name == "" {
			return ImportStats{}, fmt.Errorf("bolt import requires a name")
		}
		err = a.withStore(func(s *bbolt.Store) error { return s.SaveLexicon(t.Name, rows) })
		stats.Target = "bolt:" + t.Name
	case config.SourceSQLite:
		if t.Path == "" {
			return ImportStats{}, fmt.Errorf("sqlite import requires a path")
		}
		table := t.Table
		if table == "" {
			table = sqlite.DefaultTable
		}
		err = writeSQLite(ctx, t.Path, table, rows)
		stats.Target = "sqlite:" + t.Path
	default:
		return ImportStats{}, fmt.Errorf("import target must be bolt or sqlite (got %q)", t.Kind)
	}
	if err != nil {
		return ImportStats{}, err
	}
	a.log.Info("lexicon imported", "target", stats.Target, "rows", stats.Rows, "skipped", stats.Skipped)
	return stats, nil
}

func writeSQLite(ctx context.Context, path, table string, rows []ports.Row) error {
	src, err := sqlite.Open(ctx, path, table)
	if err != nil {
		return err
	}
	defer src.Close()
	return src.WriteRows(ctx, rows)
}

// ListLexicons describes the snapshots in the store.
func (a *App) ListLexicons() ([]ports.LexiconInfo, error) {
	var out []ports.LexiconInfo
	err := a.withStore(func(s *bbolt.Store) error {
		var err error
		out, err = s.ListLexicons()
		return err
	})
	return out, err
}

// DeleteLexicon removes a snapshot from the store.
func (a *App) DeleteLexicon(name string) error {
	return a.withStore(func(s *bbolt.Store) error { return s.DeleteLexicon(name) })
}

// withStore opens the store for the duration of fn. The store is never held
// open across calls so the CLI and a running daemon can share it.
func (a *App) withStore(fn func(*bbolt.Store) error) error {
	if err := a.Paths.EnsureDirs(); err != nil {
		return fmt.Errorf("create dirs: %w", err)
	}
	s, err := bbolt.NewStore(a.Paths.Store)
	if err != nil {
		return err
	}
	defer s.Close()
	return fn(s)
}
