package lexicon

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/corey/cefr/internal/ports"
)

// ParseRows reads lexicon rows (lemma,pos,level[,abstract]) from CSV. The
// first record is a header and is skipped. Records with fewer than three
// fields or an empty lemma are skipped and counted. Only I/O and quoting
// errors are returned.
func ParseRows(r io.Reader) (rows []ports.Row, skipped int, err error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	cr.ReuseRecord = true
	cr.Comment = '#'

	header := true
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, skipped, fmt.Errorf("read lexicon csv: %w", err)
		}
		if header {
			header = false
			continue
		}
		row, ok := ParseRecord(rec)
		if !ok {
			skipped++
			continue
		}
		rows = append(rows, row)
	}
	return rows, skipped, nil
}

// ParseRecord converts one source record into a Row.
func ParseRecord(fields []string) (ports.Row, bool) {
	if len(fields) < 3 {
		return ports.Row{}, false
	}
	lemma := strings.TrimSpace(fields[0])
	if lemma == "" {
		return ports.Row{}, false
	}
	row := ports.Row{
		Lemma: lemma,
		POS:   ports.ParsePOS(fields[1]),
		Level: ports.ParseLevel(fields[2]),
	}
	if len(fields) > 3 {
		row.Abstract = ParseFlag(fields[3])
	}
	return row, true
}

// ParseFlag reads a boolean column: true, yes, y, 1 and x are true.
func ParseFlag(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "yes", "y", "1", "x":
		return true
	}
	return false
}

// Load parses CSV rows and builds a lexicon from them.
func Load(r io.Reader, build ports.MatcherBuilder) (*Lexicon, error) {
	rows, _, err := ParseRows(r)
	if err != nil {
		return nil, err
	}
	return Build(rows, build)
}
