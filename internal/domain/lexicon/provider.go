package lexicon

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/corey/cefr/internal/ports"
)

// ErrLoadBusy is returned by Provider.Load when another load is in progress.
var ErrLoadBusy = errors.New("lexicon: load already in progress")

// Active is the dictionary currently served, with the name of its source.
type Active struct {
	Name string
	Dict ports.Dictionary
}

// Provider owns the shared dictionary reference. The default dictionary is
// built at most once, on first Get. Later loads swap the whole reference, so
// a reader sees either the old or the new dictionary, never a partial one.
type Provider struct {
	name   string
	init   func() (ports.Dictionary, error)
	once   sync.Once
	err    error
	active atomic.Pointer[Active]
	loadMu sync.Mutex
}

// NewProvider returns a provider whose default dictionary is produced by init
// on first use.
func NewProvider(name string, init func() (ports.Dictionary, error)) *Provider {
	return &Provider{name: name, init: init}
}

// Get returns the active dictionary, building the default one if nothing has
// been installed yet. A failed default build is sticky: every later Get
// returns the same error until Replace or Load installs a dictionary.
func (p *Provider) Get() (ports.Dictionary, error) {
	p.once.Do(func() {
		d, err := p.init()
		if err != nil {
			p.err = fmt.Errorf("build %s lexicon: %w", p.name, err)
			return
		}
		p.active.CompareAndSwap(nil, &Active{Name: p.name, Dict: d})
	})
	if a := p.active.Load(); a != nil {
		return a.Dict, nil
	}
	return nil, p.err
}

// Current returns the active dictionary and its name without triggering the
// default build. ok is false when nothing is installed.
func (p *Provider) Current() (Active, bool) {
	a := p.active.Load()
	if a == nil {
		return Active{}, false
	}
	return *a, true
}

// Replace installs d as the active dictionary.
func (p *Provider) Replace(name string, d ports.Dictionary) {
	// Consume the once so a later Get does not build over d.
	p.once.Do(func() {})
	p.active.Store(&Active{Name: name, Dict: d})
}

// Load builds a dictionary with build and installs it. Only one load runs at
// a time; a concurrent call fails fast with ErrLoadBusy. On error the active
// dictionary is left untouched.
func (p *Provider) Load(name string, build func() (ports.Dictionary, error)) error {
	if !p.loadMu.TryLock() {
		return ErrLoadBusy
	}
	defer p.loadMu.Unlock()

	d, err := build()
	if err != nil {
		return fmt.Errorf("load %s lexicon: %w", name, err)
	}
	p.Replace(name, d)
	return nil
}
