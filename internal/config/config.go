// Package config loads the cefr configuration from an optional YAML file
// and CEFR_* environment variables.
package config

import "time"

// Lexicon source kinds.
const (
	SourceEmbedded = "embedded"
	SourceCSV      = "csv"
	SourceSQLite   = "sqlite"
	SourceBolt     = "bolt"
	SourceIndex    = "index"
)

// Config is the root configuration.
type Config struct {
	Lexicon   LexiconConfig  `yaml:"lexicon"`
	Index     IndexConfig    `yaml:"index"`
	Store     StoreConfig    `yaml:"store"`
	Wordlists WordlistConfig `yaml:"wordlists"`
	Daemon    DaemonConfig   `yaml:"daemon"`
	Log       LogConfig      `yaml:"log"`
}

// LexiconConfig selects where the active lexicon comes from.
type LexiconConfig struct {
	Source   string        `yaml:"source"   env:"CEFR_LEXICON_SOURCE"   env-default:"embedded"`
	Path     string        `yaml:"path"     env:"CEFR_LEXICON_PATH"`
	Table    string        `yaml:"table"    env:"CEFR_LEXICON_TABLE"    env-default:"lexicon"`
	Name     string        `yaml:"name"     env:"CEFR_LEXICON_NAME"     env-default:"default"`
	Watch    bool          `yaml:"watch"    env:"CEFR_LEXICON_WATCH"    env-default:"false"`
	Debounce time.Duration `yaml:"debounce" env:"CEFR_LEXICON_DEBOUNCE" env-default:"200ms"`
}

// IndexConfig locates the compact dictionary files.
type IndexConfig struct {
	FSTPath  string `yaml:"fst_path"  env:"CEFR_INDEX_FST"`
	DataPath string `yaml:"data_path" env:"CEFR_INDEX_DATA"`
}

// StoreConfig locates the bbolt database holding imported lexicons. An empty
// path means the user cache directory.
type StoreConfig struct {
	Path string `yaml:"path" env:"CEFR_STORE_PATH"`
}

// WordlistConfig points at a directory of word list YAML files replacing the
// built-in lists. Empty means built-in.
type WordlistConfig struct {
	Dir string `yaml:"dir" env:"CEFR_WORDLISTS_DIR"`
}

// DaemonConfig holds daemon settings. An empty socket path is derived from
// the config file path.
type DaemonConfig struct {
	Socket string `yaml:"socket" env:"CEFR_DAEMON_SOCKET"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `yaml:"level"  env:"CEFR_LOG_LEVEL"  env-default:"warn"`
	Format string `yaml:"format" env:"CEFR_LOG_FORMAT" env-default:"text"`
}
