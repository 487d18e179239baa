package wordlist

import (
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault_Loads(t *testing.T) {
	l, err := Default()
	require.NoError(t, err)

	assert.True(t, l.Subordinators.Has("although"))
	assert.True(t, l.Subordinators.Has("whereas"))
	assert.True(t, l.Coordinators.Has("but"))
	assert.True(t, l.BeVerbs.Has("were"))
	assert.True(t, l.BeVerbs.Has("'re"))
	assert.True(t, l.SubjectPronouns.Has("they"))
	assert.True(t, l.IrregularParticiples.Has("written"))
	assert.True(t, l.InfinitiveMarkers.Has("to"))
	assert.True(t, l.Articles.Has("an"))
	assert.True(t, l.Titles.Has("Mr"))
	assert.True(t, l.CommonNames.Has("John"))
	assert.False(t, l.CommonNames.Has("Brown"), "homograph surnames stay out of the name set")
	assert.False(t, l.CommonNames.Has("john"), "name set is case-sensitive")
}

func TestDefault_Contractions(t *testing.T) {
	l, err := Default()
	require.NoError(t, err)

	assert.Equal(t, []string{"will", "not"}, l.Contractions["won't"])
	assert.Equal(t, []string{"it", "is"}, l.Contractions["it's"])
	_, ok := l.Contractions["john's"]
	assert.False(t, ok)

	require.NotEmpty(t, l.ContractionSuffixes)
	// Longest suffix first so "n't" is tried before "'m".
	for i := 1; i < len(l.ContractionSuffixes); i++ {
		assert.GreaterOrEqual(t, len(l.ContractionSuffixes[i-1].Suffix), len(l.ContractionSuffixes[i].Suffix))
	}
}

func TestHasAbstractSuffix(t *testing.T) {
	l, err := Default()
	require.NoError(t, err)
	for _, w := range []string{"information", "development", "happiness", "ability", "realism"} {
		assert.True(t, l.HasAbstractSuffix(w), w)
	}
	assert.False(t, l.HasAbstractSuffix("table"))
}

func TestLoad_DuplicateList(t *testing.T) {
	fsys := fstest.MapFS{
		"a.yaml": {Data: []byte("lists:\n  titles: [Mr]\n")},
		"b.yaml": {Data: []byte("lists:\n  titles: [Dr]\n")},
	}
	_, err := Load(fsys, ".")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate list")
}

func TestLoad_MissingList(t *testing.T) {
	fsys := fstest.MapFS{
		"a.yaml": {Data: []byte("lists:\n  titles: [Mr]\n")},
	}
	_, err := Load(fsys, ".")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing word list")
}

func TestLoad_BadContraction(t *testing.T) {
	fsys := fstest.MapFS{
		"a.yaml": {Data: []byte("contractions:\n  \"y'all'd've\": [you, all, would, have]\n")},
	}
	_, err := Load(fsys, ".")
	require.Error(t, err)
}

func TestLoad_MalformedYAML(t *testing.T) {
	fsys := fstest.MapFS{
		"a.yaml": {Data: []byte("lists: [unclosed\n")},
	}
	_, err := Load(fsys, ".")
	require.Error(t, err)
}

func TestLoad_SkipsNonYAML(t *testing.T) {
	fsys := fstest.MapFS{
		"README.md": {Data: []byte("lists: [not yaml at all\n")},
		"a.yaml":    {Data: []byte("lists:\n  titles: [Mr]\n")},
	}
	_, err := Load(fsys, ".")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing word list", "README.md must not be parsed")
}
