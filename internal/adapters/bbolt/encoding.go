// Binary encoding for lexicon snapshots.
//
// Rows are stored in a compact little-endian format rather than JSON; a large
// word list is the dominant blob. Snapshot metadata is small and uses gob.
//
//	rowCount: uint32
//	per row:
//	  lemmaLen: uint16
//	  lemma:    [lemmaLen]byte
//	  posLen:   uint8
//	  pos:      [posLen]byte
//	  level:    uint8
//	  flags:    uint8 (bit 0 = abstract)
package bbolt

import (
	"bytes"
	"encoding/binary"
	"encoding/gob"
	"fmt"
	"math"

	"github.com/corey/cefr/internal/ports"
)

const flagAbstract = 1 << 0

// encodeRows encodes rows in order. A single buffer is pre-allocated to avoid
// repeated growth.
func encodeRows(rows []ports.Row) ([]byte, error) {
	totalSize := 4
	for _, r := range rows {
		totalSize += 2 + len(r.Lemma) + 1 + len(r.POS) + 2
	}

	buf := make([]byte, totalSize)
	offset := 0

	binary.LittleEndian.PutUint32(buf[offset:], uint32(len(rows)))
	offset += 4

	for i, r := range rows {
		if len(r.Lemma) > math.MaxUint16 {
			return nil, fmt.Errorf("row %d: lemma too long: %d bytes", i, len(r.Lemma))
		}
		if len(r.POS) > math.MaxUint8 {
			return nil, fmt.Errorf("row %d: pos too long: %d bytes", i, len(r.POS))
		}
		if r.Level < 0 || r.Level > math.MaxUint8 {
			return nil, fmt.Errorf("row %d: level out of range: %d", i, r.Level)
		}

		binary.LittleEndian.PutUint16(buf[offset:], uint16(len(r.Lemma)))
		offset += 2
		offset += copy(buf[offset:], r.Lemma)

		buf[offset] = byte(len(r.POS))
		offset++
		offset += copy(buf[offset:], r.POS)

		buf[offset] = byte(r.Level)
		offset++
		var flags byte
		if r.Abstract {
			flags |= flagAbstract
		}
		buf[offset] = flags
		offset++
	}

	return buf, nil
}

// decodeRows decodes an encoded snapshot. Every read is bounds-checked to
// avoid panics on corrupt data.
func decodeRows(data []byte) ([]ports.Row, error) {
	if len(data) < 4 {
		return nil, fmt.Errorf("row blob too short: %d bytes", len(data))
	}

	offset := 0
	count := binary.LittleEndian.Uint32(data[offset:])
	offset += 4

	// Each row needs at least 5 bytes; reject counts the blob cannot hold.
	if uint64(count)*5 > uint64(len(data)-4) {
		return nil, fmt.Errorf("row count %d exceeds blob size %d", count, len(data))
	}
	rows := make([]ports.Row, 0, count)

	for i := uint32(0); i < count; i++ {
		if offset+2 > len(data) {
			return nil, fmt.Errorf("truncated at row %d lemma length (offset %d)", i, offset)
		}
		lemmaLen := int(binary.LittleEndian.Uint16(data[offset:]))
		offset += 2
		if offset+lemmaLen > len(data) {
			return nil, fmt.Errorf("truncated at row %d lemma (offset %d, need %d)", i, offset, lemmaLen)
		}
		lemma := string(data[offset : offset+lemmaLen])
		offset += lemmaLen

		if offset+1 > len(data) {
			return nil, fmt.Errorf("truncated at row %d pos length (offset %d)", i, offset)
		}
		posLen := int(data[offset])
		offset++
		if offset+posLen+2 > len(data) {
			return nil, fmt.Errorf("truncated at row %d pos (offset %d, need %d)", i, offset, posLen+2)
		}
		pos := string(data[offset : offset+posLen])
		offset += posLen

		level := ports.Level(data[offset])
		flags := data[offset+1]
		offset += 2

		rows = append(rows, ports.Row{
			Lemma:    lemma,
			POS:      ports.PartOfSpeech(pos),
			Level:    level,
			Abstract: flags&flagAbstract != 0,
		})
	}

	if offset != len(data) {
		return nil, fmt.Errorf("%d trailing bytes after %d rows", len(data)-offset, count)
	}
	return rows, nil
}

// encodeGob encodes a value using gob.
func encodeGob(v interface{}) ([]byte, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// decodeGob decodes gob-encoded data into target. Target must be a pointer.
func decodeGob(data []byte, target interface{}) error {
	return gob.NewDecoder(bytes.NewReader(data)).Decode(target)
}
