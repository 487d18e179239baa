package fstindex

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/corey/cefr/internal/ports"
)

const dumpJSONL = `{"word":"perceive","phonetic":"pə'si:v","definition":"vt. to become aware of","translation":"察觉","tag":"cet4 cet6 ky toefl","exchange":"d:perceived/p:perceived/3:perceives/i:perceiving"}
{"word":"Went","definition":"v. past of go","tag":"zk gk","exchange":"0:go/1:p"}

{"word":"book","definition":"n. a written work\nv. to reserve","tag":"zk gk cet4"}
{"word":"BOOK","definition":"n. duplicate that must lose","tag":"gre"}
{"word":"cat","definition":"n. a small animal","tag":""}
{"phonetic":"no word here"}
{"word":"ubiquitous","definition":"a. found everywhere","tag":"gre toefl"}
`

func buildFixture(t *testing.T, gz bool) (*Resolver, BuildStats) {
	t.Helper()
	entries, err := ReadJSONL(strings.NewReader(dumpJSONL))
	require.NoError(t, err)

	var fstBuf, dataBuf bytes.Buffer
	stats, err := Build(entries, &fstBuf, &dataBuf, BuildOptions{Gzip: gz})
	require.NoError(t, err)

	ix, err := ParseIndex(fstBuf.Bytes())
	require.NoError(t, err)
	data, err := ReadData(&dataBuf)
	require.NoError(t, err)
	return NewResolver(ix, data), stats
}

func TestReadJSONL(t *testing.T) {
	entries, err := ReadJSONL(strings.NewReader(dumpJSONL))
	require.NoError(t, err)
	require.Len(t, entries, 6, "blank line and wordless object skipped")
	assert.Equal(t, "perceive", entries[0].Word)
	assert.Equal(t, "cet4 cet6 ky toefl", entries[0].Record.Tag)

	_, err = ReadJSONL(strings.NewReader("{not json}\n"))
	assert.Error(t, err)
}

func TestBuild_Stats(t *testing.T) {
	_, stats := buildFixture(t, false)
	assert.Equal(t, 6, stats.Input)
	assert.Equal(t, 5, stats.Keys)
	assert.Equal(t, 1, stats.Duplicates)
	assert.Greater(t, stats.DataBytes, uint64(0))
}

func TestRoundTrip_ExactRecordBytes(t *testing.T) {
	entries, err := ReadJSONL(strings.NewReader(dumpJSONL))
	require.NoError(t, err)

	for _, gz := range []bool{false, true} {
		r, stats := buildFixture(t, gz)
		assert.Equal(t, 5, r.Len())
		assert.Equal(t, uint64(len(r.data)), stats.DataBytes, "offsets count decompressed bytes")

		seen := map[string]bool{}
		for _, e := range entries {
			key := strings.ToLower(e.Word)
			if seen[key] {
				continue
			}
			seen[key] = true

			want, err := json.Marshal(e.Record)
			require.NoError(t, err)

			off, ok := r.index.LookupOffset(e.Word)
			require.True(t, ok, key)
			raw, err := RawRecord(r.data, off)
			require.NoError(t, err)
			assert.Equal(t, want, raw, "gzip=%v key=%s", gz, key)
		}
		require.NoError(t, r.Verify())
	}
}

func TestBuild_FirstDuplicateWins(t *testing.T) {
	r, _ := buildFixture(t, false)
	rec, ok, err := r.Record("Book")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "zk gk cet4", rec.Tag)
}

func TestRecord_JSONArray(t *testing.T) {
	b, err := json.Marshal(Record{Phonetic: "p", Definition: "d", Tag: "t"})
	require.NoError(t, err)
	assert.JSONEq(t, `["p","d","","t",""]`, string(b))

	var rec Record
	require.NoError(t, json.Unmarshal([]byte(`["x","n. thing"]`), &rec))
	assert.Equal(t, Record{Phonetic: "x", Definition: "n. thing"}, rec)

	assert.Error(t, json.Unmarshal([]byte(`["1","2","3","4","5","6"]`), &rec))
	assert.Error(t, json.Unmarshal([]byte(`{"word":"x"}`), &rec))
}

func TestRawRecord_Bounds(t *testing.T) {
	var buf bytes.Buffer
	_, err := writeRecord(&buf, []byte(`["a"]`))
	require.NoError(t, err)
	data := buf.Bytes()

	raw, err := RawRecord(data, 0)
	require.NoError(t, err)
	assert.Equal(t, `["a"]`, string(raw))

	for _, tc := range []struct {
		name string
		data []byte
		off  uint64
	}{
		{"offset past end", data, uint64(len(data)) + 10},
		{"no room for prefix", data, uint64(len(data)) - 2},
		{"truncated payload", data[:len(data)-1], 0},
	} {
		_, err := RawRecord(tc.data, tc.off)
		assert.True(t, errors.Is(err, ErrBadRecord), tc.name)
	}

	_, err = ReadRecord([]byte{3, 0, 0, 0, 'b', 'a', 'd'}, 0)
	assert.ErrorIs(t, err, ErrBadRecord)
}

func TestResolver_Entries(t *testing.T) {
	r, _ := buildFixture(t, true)

	book := r.LookupAll("books")
	require.Len(t, book, 2)
	assert.Equal(t, ports.POSNoun, book[0].POS)
	assert.Equal(t, ports.POSVerb, book[1].POS)
	assert.Equal(t, ports.LevelA2, book[0].Level, "zk is the lowest tag")

	e, ok := r.Lookup("book", "VB")
	require.True(t, ok)
	assert.Equal(t, ports.POSVerb, e.POS)

	went := r.LookupAll("went")
	require.Len(t, went, 1)
	assert.Equal(t, "go", went[0].Lemma)

	perceive := r.LookupAll("Perceive")
	require.Len(t, perceive, 1)
	assert.Equal(t, "perceive", perceive[0].Lemma, "no exchange lemma falls back to the key")
	assert.Equal(t, ports.LevelB1, perceive[0].Level)

	cat := r.LookupAll("cats")
	require.Len(t, cat, 1)
	assert.Equal(t, ports.LevelUnknown, cat[0].Level)

	assert.Nil(t, r.LookupAll("zzz"))
	assert.Nil(t, r.LookupAll(""))
	assert.Nil(t, r.MatchPhrases("look after"))
}

func TestTagLevel(t *testing.T) {
	assert.Equal(t, ports.LevelC2, TagLevel("gre"))
	assert.Equal(t, ports.LevelC1, TagLevel("gre toefl"))
	assert.Equal(t, ports.LevelA2, TagLevel("toefl zk"))
	assert.Equal(t, ports.LevelUnknown, TagLevel("foo"))
	assert.Equal(t, ports.LevelUnknown, TagLevel(""))
}

func TestDefinitionPOS(t *testing.T) {
	got := DefinitionPOS(`n. thing\nvt. do\nadj. good\nplain line\nad. well`)
	assert.Equal(t, []ports.PartOfSpeech{ports.POSNoun, ports.POSVerb, ports.POSAdj, ports.POSAdv}, got)
	assert.Empty(t, DefinitionPOS(""))
}

func TestExchangeLemma(t *testing.T) {
	assert.Equal(t, "go", ExchangeLemma("p:went/0:go/1:p"))
	assert.Equal(t, "", ExchangeLemma("p:perceived"))
}

func TestHolder(t *testing.T) {
	var h Holder
	_, ok := h.LookupOffset("book")
	assert.False(t, ok)
	_, err := h.Index()
	assert.ErrorIs(t, err, ErrNotLoaded)

	r, _ := buildFixture(t, false)
	var fstBuf bytes.Buffer
	entries, err := ReadJSONL(strings.NewReader(dumpJSONL))
	require.NoError(t, err)
	_, err = Build(entries, &fstBuf, &bytes.Buffer{}, BuildOptions{})
	require.NoError(t, err)

	require.NoError(t, h.LoadIndex(fstBuf.Bytes()))
	off, ok := h.LookupOffset("BOOK")
	require.True(t, ok)
	want, _ := r.index.LookupOffset("book")
	assert.Equal(t, want, off)

	// A malformed load leaves the active index in place.
	assert.Error(t, h.LoadIndex([]byte("garbage")))
	_, ok = h.LookupOffset("book")
	assert.True(t, ok)
}

func TestHolder_CorruptBodyKeepsActive(t *testing.T) {
	entries, err := ReadJSONL(strings.NewReader(dumpJSONL))
	require.NoError(t, err)
	var fstBuf bytes.Buffer
	_, err = Build(entries, &fstBuf, &bytes.Buffer{}, BuildOptions{})
	require.NoError(t, err)
	good := fstBuf.Bytes()

	flipped := bytes.Clone(good)
	flipped[len(flipped)-1] ^= 0x40

	zeroed := make([]byte, len(good))
	copy(zeroed, good[:16])

	tests := []struct {
		name string
		data []byte
	}{
		{"truncated tail", good[:len(good)-3]},
		{"flipped root address", flipped},
		{"header then zeros", zeroed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var h Holder
			require.NoError(t, h.LoadIndex(good))

			err := h.LoadIndex(tt.data)
			assert.ErrorIs(t, err, ErrBadIndex)

			_, ok := h.LookupOffset("ubiquitous")
			assert.True(t, ok, "previous index still active")

			_, err = ParseIndex(tt.data)
			assert.Error(t, err)
		})
	}
}

func TestHolder_CopiesInput(t *testing.T) {
	entries, err := ReadJSONL(strings.NewReader(dumpJSONL))
	require.NoError(t, err)
	var fstBuf bytes.Buffer
	_, err = Build(entries, &fstBuf, &bytes.Buffer{}, BuildOptions{})
	require.NoError(t, err)

	buf := bytes.Clone(fstBuf.Bytes())
	var h Holder
	require.NoError(t, h.LoadIndex(buf))
	want, ok := h.LookupOffset("cat")
	require.True(t, ok)

	for i := range buf {
		buf[i] = 0
	}
	got, ok := h.LookupOffset("cat")
	assert.True(t, ok, "reusing the caller's buffer must not change the index")
	assert.Equal(t, want, got)
}

func TestHolder_ConcurrentLoadIsBusy(t *testing.T) {
	var h Holder
	h.loadMu.Lock()
	assert.ErrorIs(t, h.LoadIndex(nil), ErrIndexBusy)
	h.loadMu.Unlock()

	var fstBuf bytes.Buffer
	entries, err := ReadJSONL(strings.NewReader(dumpJSONL))
	require.NoError(t, err)
	_, err = Build(entries, &fstBuf, &bytes.Buffer{}, BuildOptions{})
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := h.LoadIndex(fstBuf.Bytes()); err != nil {
				assert.ErrorIs(t, err, ErrIndexBusy)
			}
			h.LookupOffset("cat")
		}()
	}
	wg.Wait()
	_, ok := h.LookupOffset("cat")
	assert.True(t, ok)
}

func TestOpen(t *testing.T) {
	dir := t.TempDir()
	entries, err := ReadJSONL(strings.NewReader(dumpJSONL))
	require.NoError(t, err)

	fstPath := filepath.Join(dir, "dict.fst")
	dataPath := filepath.Join(dir, "dict.data.gz")
	var fstBuf, dataBuf bytes.Buffer
	_, err = Build(entries, &fstBuf, &dataBuf, BuildOptions{Gzip: true})
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(fstPath, fstBuf.Bytes(), 0o644))
	require.NoError(t, os.WriteFile(dataPath, dataBuf.Bytes(), 0o644))

	r, err := Open(fstPath, dataPath)
	require.NoError(t, err)
	assert.Equal(t, 5, r.Len())

	_, err = Open(filepath.Join(dir, "missing.fst"), dataPath)
	assert.Error(t, err)
}
