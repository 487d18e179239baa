// Package wordlist loads the closed word classes (clause markers, participles,
// names, titles, contractions) from YAML files in an fs.FS.
package wordlist

import (
	"fmt"
	"io/fs"
	"sort"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/corey/cefr/wordlists"
)

// Set is a membership set over strings. Lookups are exact; callers normalize case.
type Set map[string]struct{}

// Has reports whether s is in the set.
func (s Set) Has(word string) bool {
	_, ok := s[word]
	return ok
}

func newSet(words []string) Set {
	s := make(Set, len(words))
	for _, w := range words {
		s[w] = struct{}{}
	}
	return s
}

// Suffix is a contraction suffix ("n't") and the token it expands to ("not").
type Suffix struct {
	Suffix    string
	Expansion string
}

// Lists holds every closed class used by the analyzers.
type Lists struct {
	Subordinators        Set
	Coordinators         Set
	Enumerators          Set
	BeVerbs              Set
	SubjectPronouns      Set
	IrregularParticiples Set
	InfinitiveMarkers    Set
	Articles             Set
	CommonNames          Set // case-sensitive
	Titles               Set // case-sensitive
	AbstractSuffixes     []string

	Contractions        map[string][]string
	ContractionSuffixes []Suffix // longest suffix first
}

// listFile is the YAML schema of one word-list file. Every key is optional;
// a list may be defined in only one file.
type listFile struct {
	Lists               map[string][]string `yaml:"lists"`
	Contractions        map[string][]string `yaml:"contractions"`
	ContractionSuffixes map[string]string   `yaml:"contraction_suffixes"`
}

var requiredLists = []string{
	"subordinators", "coordinators", "enumerators", "be_verbs", "subject_pronouns",
	"irregular_participles", "infinitive_markers", "articles", "common_names", "titles",
	"abstract_suffixes",
}

// Load reads all YAML files from dir in sorted order and builds the lists.
// Returns an error if a file fails to parse, a list or contraction is defined
// twice, or a required list is missing.
func Load(fsys fs.FS, dir string) (*Lists, error) {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return nil, fmt.Errorf("read word list dir %q: %w", dir, err)
	}

	// Sort for deterministic load order
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Name() < entries[j].Name()
	})

	lists := make(map[string][]string)
	seenList := make(map[string]string) // list name -> source file
	contractions := make(map[string][]string)
	seenContraction := make(map[string]string)
	suffixes := make(map[string]string)

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".yaml") {
			continue
		}

		path := entry.Name()
		if dir != "." && dir != "" {
			path = dir + "/" + entry.Name()
		}
		data, err := fs.ReadFile(fsys, path)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", path, err)
		}

		var lf listFile
		if err := yaml.Unmarshal(data, &lf); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}

		for name, words := range lf.Lists {
			if prev, ok := seenList[name]; ok {
				return nil, fmt.Errorf("duplicate list %q (first in %s, again in %s)", name, prev, entry.Name())
			}
			seenList[name] = entry.Name()
			lists[name] = words
		}
		for word, expansion := range lf.Contractions {
			key := strings.ToLower(word)
			if prev, ok := seenContraction[key]; ok {
				return nil, fmt.Errorf("duplicate contraction %q (first in %s, again in %s)", word, prev, entry.Name())
			}
			if len(expansion) == 0 || len(expansion) > 2 {
				return nil, fmt.Errorf("%s: contraction %q must expand to one or two tokens", entry.Name(), word)
			}
			seenContraction[key] = entry.Name()
			contractions[key] = expansion
		}
		for suffix, expansion := range lf.ContractionSuffixes {
			suffixes[strings.ToLower(suffix)] = expansion
		}
	}

	for _, name := range requiredLists {
		if _, ok := lists[name]; !ok {
			return nil, fmt.Errorf("missing word list %q", name)
		}
	}

	l := &Lists{
		Subordinators:        newSet(lower(lists["subordinators"])),
		Coordinators:         newSet(lower(lists["coordinators"])),
		Enumerators:          newSet(lower(lists["enumerators"])),
		BeVerbs:              newSet(lower(lists["be_verbs"])),
		SubjectPronouns:      newSet(lower(lists["subject_pronouns"])),
		IrregularParticiples: newSet(lower(lists["irregular_participles"])),
		InfinitiveMarkers:    newSet(lower(lists["infinitive_markers"])),
		Articles:             newSet(lower(lists["articles"])),
		CommonNames:          newSet(lists["common_names"]),
		Titles:               newSet(lists["titles"]),
		AbstractSuffixes:     lower(lists["abstract_suffixes"]),
		Contractions:         contractions,
	}

	for s, exp := range suffixes {
		l.ContractionSuffixes = append(l.ContractionSuffixes, Suffix{Suffix: s, Expansion: exp})
	}
	sort.Slice(l.ContractionSuffixes, func(i, j int) bool {
		a, b := l.ContractionSuffixes[i].Suffix, l.ContractionSuffixes[j].Suffix
		if len(a) != len(b) {
			return len(a) > len(b)
		}
		return a < b
	})

	return l, nil
}

func lower(words []string) []string {
	out := make([]string, len(words))
	for i, w := range words {
		out[i] = strings.ToLower(w)
	}
	return out
}

var defaultLists = sync.OnceValues(func() (*Lists, error) {
	return Load(wordlists.FS, ".")
})

// Default returns the embedded word lists, parsed once per process.
func Default() (*Lists, error) {
	return defaultLists()
}

// HasAbstractSuffix reports whether word ends in one of the abstract-noun suffixes.
func (l *Lists) HasAbstractSuffix(word string) bool {
	for _, s := range l.AbstractSuffixes {
		if strings.HasSuffix(word, s) {
			return true
		}
	}
	return false
}
