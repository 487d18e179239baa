package fstindex

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/blevesearch/vellum"
	"github.com/klauspost/compress/gzip"
)

// Entry is a dictionary word with its record, before indexing.
type Entry struct {
	Word   string
	Record Record
}

// sourceLine is one line of the JSONL dump the builder consumes.
type sourceLine struct {
	Word        string `json:"word"`
	Phonetic    string `json:"phonetic"`
	Definition  string `json:"definition"`
	Translation string `json:"translation"`
	Tag         string `json:"tag"`
	Exchange    string `json:"exchange"`
}

// ReadJSONL parses a dump with one JSON object per line. Blank lines and
// objects without a word are skipped.
func ReadJSONL(r io.Reader) ([]Entry, error) {
	var out []Entry
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), 16*1024*1024)
	line := 0
	for sc.Scan() {
		line++
		b := bytes.TrimSpace(sc.Bytes())
		if len(b) == 0 {
			continue
		}
		var src sourceLine
		if err := json.Unmarshal(b, &src); err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		if src.Word == "" {
			continue
		}
		out = append(out, Entry{
			Word: src.Word,
			Record: Record{
				Phonetic:    src.Phonetic,
				Definition:  src.Definition,
				Translation: src.Translation,
				Tag:         src.Tag,
				Exchange:    src.Exchange,
			},
		})
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("scan dump: %w", err)
	}
	return out, nil
}

// BuildOptions controls Build output.
type BuildOptions struct {
	// Gzip compresses the whole data blob.
	Gzip bool
}

// BuildStats summarizes a build.
type BuildStats struct {
	Input      int    `json:"input"`
	Keys       int    `json:"keys"`
	Duplicates int    `json:"duplicates"`
	DataBytes  uint64 `json:"data_bytes"`
}

// Build writes the FST to fstW and the record blob to dataW. Keys are the
// lowercased words in byte order; when several entries share a key the first
// in input order wins. Offsets count bytes of the uncompressed blob.
func Build(entries []Entry, fstW, dataW io.Writer, opts BuildOptions) (BuildStats, error) {
	stats := BuildStats{Input: len(entries)}

	type keyed struct {
		key string
		rec Record
	}
	sorted := make([]keyed, 0, len(entries))
	for _, e := range entries {
		sorted = append(sorted, keyed{key: strings.ToLower(e.Word), rec: e.Record})
	}
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].key < sorted[j].key })

	fb, err := vellum.New(fstW, nil)
	if err != nil {
		return stats, fmt.Errorf("fst builder: %w", err)
	}

	var (
		out io.Writer = dataW
		zw  *gzip.Writer
	)
	if opts.Gzip {
		zw, err = gzip.NewWriterLevel(dataW, gzip.BestCompression)
		if err != nil {
			return stats, fmt.Errorf("gzip writer: %w", err)
		}
		out = zw
	}
	bw := bufio.NewWriter(out)

	var offset uint64
	for i, e := range sorted {
		if i > 0 && e.key == sorted[i-1].key {
			stats.Duplicates++
			continue
		}
		payload, err := json.Marshal(e.rec)
		if err != nil {
			return stats, fmt.Errorf("encode %q: %w", e.key, err)
		}
		if err := fb.Insert([]byte(e.key), offset); err != nil {
			return stats, fmt.Errorf("insert %q: %w", e.key, err)
		}
		n, err := writeRecord(bw, payload)
		if err != nil {
			return stats, fmt.Errorf("write %q: %w", e.key, err)
		}
		offset += uint64(n)
		stats.Keys++
	}

	if err := bw.Flush(); err != nil {
		return stats, fmt.Errorf("flush data: %w", err)
	}
	if zw != nil {
		if err := zw.Close(); err != nil {
			return stats, fmt.Errorf("close gzip: %w", err)
		}
	}
	if err := fb.Close(); err != nil {
		return stats, fmt.Errorf("finish fst: %w", err)
	}
	stats.DataBytes = offset
	return stats, nil
}
