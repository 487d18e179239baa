package config

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

// ErrInvalid wraps every validation failure.
var ErrInvalid = errors.New("invalid configuration")

var (
	sources    = []string{SourceEmbedded, SourceCSV, SourceSQLite, SourceBolt, SourceIndex}
	logLevels  = []string{"debug", "info", "warn", "error"}
	logFormats = []string{"text", "json"}
)

// Validate checks cross-field rules. Load calls it automatically.
func (c *Config) Validate() error {
	if err := c.Lexicon.validate(c.Index); err != nil {
		return fmt.Errorf("%w: lexicon: %v", ErrInvalid, err)
	}
	if (c.Index.FSTPath == "") != (c.Index.DataPath == "") {
		return fmt.Errorf("%w: index: fst_path and data_path must be set together", ErrInvalid)
	}
	if !slices.Contains(logLevels, strings.ToLower(c.Log.Level)) {
		return fmt.Errorf("%w: log.level must be one of %s (got %q)", ErrInvalid, strings.Join(logLevels, ", "), c.Log.Level)
	}
	if !slices.Contains(logFormats, strings.ToLower(c.Log.Format)) {
		return fmt.Errorf("%w: log.format must be text or json (got %q)", ErrInvalid, c.Log.Format)
	}
	return nil
}

func (l *LexiconConfig) validate(ix IndexConfig) error {
	l.Source = strings.ToLower(strings.TrimSpace(l.Source))
	if !slices.Contains(sources, l.Source) {
		return fmt.Errorf("source must be one of %s (got %q)", strings.Join(sources, ", "), l.Source)
	}
	switch l.Source {
	case SourceCSV, SourceSQLite:
		if l.Path == "" {
			return fmt.Errorf("source %s requires path", l.Source)
		}
	case SourceBolt:
		if l.Name == "" {
			return fmt.Errorf("source bolt requires name")
		}
	case SourceIndex:
		if ix.FSTPath == "" {
			return fmt.Errorf("source index requires index.fst_path and index.data_path")
		}
	}
	if l.Watch && l.Source != SourceCSV && l.Source != SourceSQLite {
		return fmt.Errorf("watch requires a csv or sqlite source (got %s)", l.Source)
	}
	if l.Debounce < 0 {
		return fmt.Errorf("debounce must be >= 0 (got %v)", l.Debounce)
	}
	return nil
}

// WatchPaths lists the files whose changes should trigger a lexicon rebuild.
func (c *Config) WatchPaths() []string {
	if !c.Lexicon.Watch {
		return nil
	}
	return []string{c.Lexicon.Path}
}
