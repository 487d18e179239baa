package fstindex

import (
	"bytes"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io"

	"github.com/klauspost/compress/gzip"
)

// Record is one dictionary entry in the data blob. It is serialized as a JSON
// array [phonetic, definition, translation, tag, exchange].
type Record struct {
	Phonetic    string `json:"phonetic"`
	Definition  string `json:"definition"`
	Translation string `json:"translation"`
	Tag         string `json:"tag"`
	Exchange    string `json:"exchange"`
}

// MarshalJSON encodes the record as a five element array.
func (r Record) MarshalJSON() ([]byte, error) {
	return json.Marshal([5]string{r.Phonetic, r.Definition, r.Translation, r.Tag, r.Exchange})
}

// UnmarshalJSON accepts the array form. Missing trailing fields are empty.
func (r *Record) UnmarshalJSON(b []byte) error {
	var fields []string
	if err := json.Unmarshal(b, &fields); err != nil {
		return err
	}
	if len(fields) > 5 {
		return fmt.Errorf("record has %d fields, want at most 5", len(fields))
	}
	dst := []*string{&r.Phonetic, &r.Definition, &r.Translation, &r.Tag, &r.Exchange}
	for i, f := range fields {
		*dst[i] = f
	}
	return nil
}

const lengthPrefix = 4

var gzipMagic = []byte{0x1f, 0x8b}

// ReadData returns the decompressed data blob. Plain blobs are returned as is;
// gzip input is detected by its magic bytes.
func ReadData(r io.Reader) ([]byte, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read data: %w", err)
	}
	if !bytes.HasPrefix(raw, gzipMagic) {
		return raw, nil
	}
	zr, err := gzip.NewReader(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("gzip header: %w", err)
	}
	defer zr.Close()
	out, err := io.ReadAll(zr)
	if err != nil {
		return nil, fmt.Errorf("gunzip data: %w", err)
	}
	return out, nil
}

// RawRecord returns the JSON bytes of the record at offset, exactly as
// written by the builder.
func RawRecord(data []byte, offset uint64) ([]byte, error) {
	if offset > uint64(len(data)) || uint64(len(data))-offset < lengthPrefix {
		return nil, fmt.Errorf("%w: offset %d beyond %d bytes", ErrBadRecord, offset, len(data))
	}
	n := uint64(binary.LittleEndian.Uint32(data[offset:]))
	start := offset + lengthPrefix
	if uint64(len(data))-start < n {
		return nil, fmt.Errorf("%w: length %d at offset %d overruns data", ErrBadRecord, n, offset)
	}
	return data[start : start+n], nil
}

// ReadRecord decodes the record at offset.
func ReadRecord(data []byte, offset uint64) (Record, error) {
	raw, err := RawRecord(data, offset)
	if err != nil {
		return Record{}, err
	}
	var rec Record
	if err := json.Unmarshal(raw, &rec); err != nil {
		return Record{}, fmt.Errorf("%w: %v", ErrBadRecord, err)
	}
	return rec, nil
}

// writeRecord appends one length-prefixed record and returns the bytes written.
func writeRecord(w io.Writer, payload []byte) (int, error) {
	var prefix [lengthPrefix]byte
	binary.LittleEndian.PutUint32(prefix[:], uint32(len(payload)))
	if _, err := w.Write(prefix[:]); err != nil {
		return 0, err
	}
	if _, err := w.Write(payload); err != nil {
		return 0, err
	}
	return lengthPrefix + len(payload), nil
}
