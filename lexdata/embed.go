// Package lexdata embeds the default CEFR lexicon used when no other source
// is configured.
package lexdata

import (
	"bytes"
	_ "embed"
	"io"
)

//go:embed dictionary.csv
var dictionary []byte

// Name is the label reported for the embedded lexicon.
const Name = "embedded"

// Open returns a reader over the embedded CSV (lemma,pos,level,abstract).
func Open() io.Reader {
	return bytes.NewReader(dictionary)
}
