package cefr

import (
	"bytes"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/corey/cefr/internal/adapters/fstindex"
	"github.com/corey/cefr/lexdata"
)

const miniCSV = `lemma,pos,level,abstract
the,determiner,A1,
cat,noun,A1,
sit,verb,A1,
mat,noun,A2,
look after,verb,A2,
`

// restoreDefault puts the embedded lexicon back after a test swaps it.
func restoreDefault(t *testing.T) {
	t.Helper()
	t.Cleanup(func() {
		require.NoError(t, LoadLexicon(lexdata.Name, lexdata.Open()))
	})
}

func TestAnalyze_Empty(t *testing.T) {
	for _, in := range []string{"", "  \n ", "..."} {
		res := Analyze(in)
		assert.Equal(t, A1, res.Level, "%q", in)
		assert.Zero(t, res.WordCount)
		assert.Zero(t, res.SentenceCount)
	}
}

func TestAnalyze_Subordinate(t *testing.T) {
	res := Analyze("Although he was tired, he finished the difficult assignment.")
	assert.Equal(t, 1, res.SentenceCount)
	assert.Positive(t, res.Syntax.ClauseDensity)
	assert.Equal(t, 1, res.Syntax.Subordinators)
	assert.GreaterOrEqual(t, res.AdjustedScore, 0.0)
}

func TestDefault_IsShared(t *testing.T) {
	a, err := Default()
	require.NoError(t, err)
	b, err := Default()
	require.NoError(t, err)
	assert.Same(t, a, b)
}

func TestNew_CustomLexicon(t *testing.T) {
	e, err := New(strings.NewReader(miniCSV))
	require.NoError(t, err)

	entry, ok := e.Lookup("mats")
	require.True(t, ok)
	assert.Equal(t, A2, entry.Level)

	res := e.Analyze("The cat will look after the mat.")
	assert.Equal(t, 1, res.SentenceCount)
}

func TestNew_RequiresPhrases(t *testing.T) {
	_, err := New(strings.NewReader("lemma,pos,level\ncat,noun,A1\n"))
	assert.Error(t, err)
}

func TestLoadLexicon_Swaps(t *testing.T) {
	restoreDefault(t)

	_, ok := Lookup("freedom")
	require.True(t, ok, "embedded lexicon knows freedom")

	require.NoError(t, LoadLexicon("mini", strings.NewReader(miniCSV)))
	assert.Equal(t, "mini", LexiconName())

	_, ok = Lookup("freedom")
	assert.False(t, ok)
	entry, ok := Lookup("mat")
	require.True(t, ok)
	assert.Equal(t, A2, entry.Level)
}

func TestLoadLexicon_FailureKeepsCurrent(t *testing.T) {
	restoreDefault(t)
	require.NoError(t, LoadLexicon("mini", strings.NewReader(miniCSV)))

	err := LoadLexicon("broken", strings.NewReader("lemma,pos,level\n"))
	require.Error(t, err)
	assert.Equal(t, "mini", LexiconName())
}

func TestLoadLexicon_ConcurrentAnalyze(t *testing.T) {
	restoreDefault(t)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 20; j++ {
				res := Analyze("The cat sat on the mat.")
				assert.Equal(t, 1, res.SentenceCount)
			}
		}()
	}
	for i := 0; i < 5; i++ {
		err := LoadLexicon("mini", strings.NewReader(miniCSV))
		if err != nil {
			assert.ErrorIs(t, err, ErrLoadBusy)
		}
	}
	wg.Wait()
}

func buildIndex(t *testing.T) (fst, data []byte) {
	t.Helper()
	var fstBuf, dataBuf bytes.Buffer
	_, err := fstindex.Build([]fstindex.Entry{
		{Word: "Book", Record: Record{Phonetic: "bʊk", Definition: "n. a written work", Tag: "zk"}},
		{Word: "cat", Record: Record{Definition: "n. a small animal", Tag: "zk"}},
		{Word: "went", Record: Record{Definition: "v. past of go", Exchange: "0:go"}},
	}, &fstBuf, &dataBuf, fstindex.BuildOptions{Gzip: true})
	require.NoError(t, err)
	return fstBuf.Bytes(), dataBuf.Bytes()
}

func TestLoadIndex_LookupOffset(t *testing.T) {
	fst, gz := buildIndex(t)
	require.NoError(t, LoadIndex(fst))

	data, err := ReadData(bytes.NewReader(gz))
	require.NoError(t, err)

	off, ok := LookupOffset("BOOK")
	require.True(t, ok)
	rec, err := ReadRecord(data, off)
	require.NoError(t, err)
	assert.Equal(t, "bʊk", rec.Phonetic)

	off, ok = LookupOffset("went")
	require.True(t, ok)
	rec, err = ReadRecord(data, off)
	require.NoError(t, err)
	assert.Equal(t, "0:go", rec.Exchange)

	_, ok = LookupOffset("dog")
	assert.False(t, ok)

	// Malformed bytes leave the loaded index in place.
	require.Error(t, LoadIndex([]byte("not an fst")))
	_, ok = LookupOffset("cat")
	assert.True(t, ok)
}

func TestLoadIndex_CorruptBody(t *testing.T) {
	fst, _ := buildIndex(t)
	require.NoError(t, LoadIndex(fst))

	err := LoadIndex(fst[:len(fst)-3])
	assert.ErrorIs(t, err, ErrBadIndex)
	assert.ErrorContains(t, err, "load index")

	_, ok := LookupOffset("went")
	assert.True(t, ok, "truncated bytes must not replace the index")
}

func TestLoadIndex_CallerBufferReuse(t *testing.T) {
	fst, _ := buildIndex(t)
	buf := bytes.Clone(fst)
	require.NoError(t, LoadIndex(buf))
	want, ok := LookupOffset("cat")
	require.True(t, ok)

	copy(buf, make([]byte, len(buf)))
	got, ok := LookupOffset("cat")
	assert.True(t, ok)
	assert.Equal(t, want, got)
}

func TestReadRecord_BadOffset(t *testing.T) {
	_, gz := buildIndex(t)
	data, err := ReadData(bytes.NewReader(gz))
	require.NoError(t, err)

	_, err = ReadRecord(data, uint64(len(data)+10))
	assert.ErrorIs(t, err, ErrBadRecord)
}
