// Package app wires configuration, lexicon sources, the analyzer and the
// daemon server together.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"sync/atomic"
	"time"

	"github.com/corey/cefr/internal/adapters/ahocorasick"
	"github.com/corey/cefr/internal/adapters/bbolt"
	fsw "github.com/corey/cefr/internal/adapters/fsnotify"
	"github.com/corey/cefr/internal/adapters/fstindex"
	"github.com/corey/cefr/internal/adapters/htmltext"
	"github.com/corey/cefr/internal/adapters/socket"
	"github.com/corey/cefr/internal/adapters/sqlite"
	"github.com/corey/cefr/internal/config"
	"github.com/corey/cefr/internal/domain/analyzer"
	"github.com/corey/cefr/internal/domain/lexicon"
	"github.com/corey/cefr/internal/domain/wordlist"
	"github.com/corey/cefr/internal/ports"
	"github.com/corey/cefr/lexdata"
)

// ErrLexiconNotFound is returned when the configured bolt lexicon name has
// no stored snapshot.
var ErrLexiconNotFound = errors.New("lexicon not found in store")

// App is the top-level container wiring all components together.
type App struct {
	Config   *config.Config
	Paths    *Paths
	Lists    *wordlist.Lists
	Provider *lexicon.Provider
	Server   *socket.Server
	Watcher  *fsw.Watcher // nil unless lexicon.watch is set and Start succeeded

	log     *slog.Logger
	bound   atomic.Pointer[bound]
	started time.Time
}

// bound pairs the active dictionary with the analyzer built over it.
type bound struct {
	active lexicon.Active
	an     *analyzer.Analyzer
}

var _ socket.Backend = (*App)(nil)

// Options holds initialization parameters for the App.
type Options struct {
	ConfigPath string       // keys the default socket path
	Logger     *slog.Logger // default: slog.Default()
}

// New creates an App with all dependencies wired. Does not build the lexicon
// or start services.
func New(cfg *config.Config, opts Options) (*App, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config required")
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	paths, err := NewPaths(cfg, opts.ConfigPath)
	if err != nil {
		return nil, err
	}

	lists, err := loadLists(cfg.Wordlists)
	if err != nil {
		return nil, fmt.Errorf("load word lists: %w", err)
	}

	a := &App{
		Config: cfg,
		Paths:  paths,
		Lists:  lists,
		log:    logger,
	}
	a.Provider = lexicon.NewProvider(a.SourceName(), a.buildLexicon)
	a.Server = socket.NewServer(a, paths.Socket, logger)
	return a, nil
}

func loadLists(cfg config.WordlistConfig) (*wordlist.Lists, error) {
	if cfg.Dir == "" {
		return wordlist.Default()
	}
	return wordlist.Load(os.DirFS(cfg.Dir), ".")
}

// SourceName labels the configured lexicon source.
func (a *App) SourceName() string {
	lc := a.Config.Lexicon
	switch lc.Source {
	case config.SourceCSV, config.SourceSQLite:
		return lc.Source + ":" + lc.Path
	case config.SourceBolt:
		return "bolt:" + lc.Name
	case config.SourceIndex:
		return "index:" + a.Config.Index.FSTPath
	default:
		return lexdata.Name
	}
}

// buildLexicon produces a dictionary from the configured source.
func (a *App) buildLexicon() (ports.Dictionary, error) {
	lc := a.Config.Lexicon
	var (
		lex *lexicon.Lexicon
		err error
	)
	switch lc.Source {
	case config.SourceCSV:
		lex, err = loadCSV(lc.Path)
	case config.SourceSQLite:
		lex, err = loadSQLite(lc.Path, lc.Table)
	case config.SourceBolt:
		lex, err = a.loadBolt(lc.Name)
	case config.SourceIndex:
		r, err := fstindex.Open(a.Config.Index.FSTPath, a.Config.Index.DataPath)
		if err != nil {
			return nil, err
		}
		return r, nil
	default:
		lex, err = lexicon.Load(lexdata.Open(), ahocorasick.Build)
	}
	if err != nil {
		return nil, err
	}
	return lex, nil
}

func loadCSV(path string) (*lexicon.Lexicon, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open lexicon: %w", err)
	}
	defer f.Close()
	return lexicon.Load(f, ahocorasick.Build)
}

func loadSQLite(path, table string) (*lexicon.Lexicon, error) {
	// Opening would create an empty database, so a typo must fail here.
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("open lexicon: %w", err)
	}
	ctx := context.Background()
	src, err := sqlite.Open(ctx, path, table)
	if err != nil {
		return nil, err
	}
	defer src.Close()
	rows, err := src.Rows(ctx)
	if err != nil {
		return nil, err
	}
	return lexicon.Build(rows, ahocorasick.Build)
}

func (a *App) loadBolt(name string) (*lexicon.Lexicon, error) {
	store, err := bbolt.NewStore(a.Paths.Store)
	if err != nil {
		return nil, err
	}
	defer store.Close()
	rows, err := store.LoadLexicon(name)
	if err != nil {
		return nil, err
	}
	if rows == nil {
		return nil, fmt.Errorf("%w: %s", ErrLexiconNotFound, name)
	}
	return lexicon.Build(rows, ahocorasick.Build)
}

// current returns the active dictionary with its analyzer, building the
// default dictionary on first use. The analyzer is rebuilt only after the
// dictionary has been swapped.
func (a *App) current() (*bound, error) {
	if _, err := a.Provider.Get(); err != nil {
		return nil, err
	}
	act, _ := a.Provider.Current()
	if b := a.bound.Load(); b != nil && b.active.Dict == act.Dict {
		return b, nil
	}
	b := &bound{active: act, an: analyzer.New(act.Dict, a.Lists)}
	a.bound.Store(b)
	return b, nil
}

// Analyze scores text (or the visible text of an HTML document).
func (a *App) Analyze(p socket.AnalyzeParams) (socket.AnalyzeResult, error) {
	b, err := a.current()
	if err != nil {
		return socket.AnalyzeResult{}, err
	}
	text := p.Text
	if p.HTML {
		if text, err = htmltext.ExtractString(text); err != nil {
			return socket.AnalyzeResult{}, fmt.Errorf("extract html: %w", err)
		}
	}
	start := time.Now()
	res := b.an.Analyze(text)
	return socket.AnalyzeResult{
		Result:  res,
		Lexicon: b.active.Name,
		Elapsed: time.Since(start).Round(time.Microsecond).String(),
	}, nil
}

// Lookup resolves a single word, retrying with its stem when the word itself
// is not in the dictionary.
func (a *App) Lookup(p socket.LookupParams) (socket.LookupResult, error) {
	b, err := a.current()
	if err != nil {
		return socket.LookupResult{}, err
	}
	dict := b.active.Dict
	word := strings.TrimSpace(p.Word)

	res := socket.LookupResult{Word: word, Entries: dict.LookupAll(word)}
	res.Best, res.Found = dict.Lookup(word, p.Hint)
	if res.Found {
		return res, nil
	}
	if stem := analyzer.Stem(word); stem != strings.ToLower(word) {
		if e, ok := dict.Lookup(stem, p.Hint); ok {
			res.Best, res.Found, res.Stemmed = e, true, stem
			res.Entries = dict.LookupAll(stem)
		}
	}
	return res, nil
}

// Stats describes the active lexicon without building one.
func (a *App) Stats() socket.LexiconStats {
	act, ok := a.Provider.Current()
	if !ok {
		return socket.LexiconStats{Name: a.SourceName()}
	}
	return dictStats(act)
}

func dictStats(act lexicon.Active) socket.LexiconStats {
	s := socket.LexiconStats{Name: act.Name}
	switch d := act.Dict.(type) {
	case *lexicon.Lexicon:
		st := d.Stats()
		s.Words, s.Entries, s.Phrases = st.Words, st.Entries, st.Phrases
	case *fstindex.Resolver:
		s.Words = d.Len()
		s.Entries = d.Len()
	}
	return s
}

// Reload rebuilds the lexicon from the configured source and swaps it in.
// On failure the previous lexicon stays active.
func (a *App) Reload() (socket.ReloadResult, error) {
	start := time.Now()
	name := a.SourceName()
	if err := a.Provider.Load(name, a.buildLexicon); err != nil {
		return socket.ReloadResult{}, err
	}
	act, _ := a.Provider.Current()
	res := socket.ReloadResult{
		Lexicon:   dictStats(act),
		ElapsedMs: time.Since(start).Milliseconds(),
	}
	a.log.Info("lexicon reloaded",
		slog.String("name", name),
		slog.Int("words", res.Lexicon.Words),
		slog.Int64("elapsed_ms", res.ElapsedMs),
	)
	return res, nil
}

// onLexiconChanged is the watcher callback for the lexicon source file.
func (a *App) onLexiconChanged(path string) {
	a.log.Debug("lexicon source changed", slog.String("path", path))
	if _, err := a.Reload(); err != nil {
		if errors.Is(err, lexicon.ErrLoadBusy) {
			a.log.Debug("reload skipped, load in progress", slog.String("path", path))
			return
		}
		a.log.Warn("reload failed, keeping previous lexicon",
			slog.String("path", path),
			slog.Any("err", err),
		)
	}
}

// Start builds the lexicon, then begins the daemon (socket server and, when
// configured, the lexicon watcher). A lexicon that fails to build is fatal.
func (a *App) Start() error {
	a.started = time.Now()
	if _, err := a.current(); err != nil {
		return fmt.Errorf("load lexicon: %w", err)
	}
	stats := a.Stats()
	a.log.Info("lexicon ready",
		slog.String("name", stats.Name),
		slog.Int("words", stats.Words),
		slog.Int("phrases", stats.Phrases),
		slog.Duration("elapsed", time.Since(a.started)),
	)

	if err := a.Paths.EnsureDirs(); err != nil {
		return fmt.Errorf("create dirs: %w", err)
	}
	if err := a.Server.Start(); err != nil {
		return fmt.Errorf("start server: %w", err)
	}

	// Watcher is non-fatal: the daemon still serves the loaded lexicon.
	if paths := a.Config.WatchPaths(); len(paths) > 0 {
		if err := a.startWatcher(paths); err != nil {
			a.log.Warn("lexicon watcher unavailable", slog.Any("err", err))
		}
	}
	return nil
}

func (a *App) startWatcher(paths []string) error {
	w, err := fsw.NewWatcher(a.Config.Lexicon.Debounce)
	if err != nil {
		return err
	}
	w.OnError(func(err error) {
		a.log.Warn("lexicon watcher error", slog.Any("err", err))
	})
	if err := w.Watch(paths, a.onLexiconChanged); err != nil {
		w.Stop()
		return err
	}
	a.Watcher = w
	a.log.Info("watching lexicon source", slog.Any("paths", paths))
	return nil
}

// Stop shuts down the watcher and server. Idempotent.
func (a *App) Stop() error {
	if a.Watcher != nil {
		a.Watcher.Stop()
	}
	return a.Server.Stop()
}

// Run starts the daemon and blocks until ctx is done or a client requests
// shutdown.
func (a *App) Run(ctx context.Context) error {
	if err := a.Start(); err != nil {
		return err
	}
	select {
	case <-ctx.Done():
		a.log.Info("shutdown signal received")
	case <-a.Server.ShutdownCh():
		a.log.Info("shutdown requested by client")
	}
	return a.Stop()
}
