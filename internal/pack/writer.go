package pack

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/vovakirdan/tileworld/internal/lzss"
	"github.com/vovakirdan/tileworld/internal/tworld"
)

// Write serializes a pack. firstSecret is the zero-based index of the
// first secret level; pass len(levels) for a pack without secret levels.
// Level passwords must be exactly four characters.
func Write(w io.Writer, name string, firstSecret int, levels []*tworld.Level) error {
	if len(levels) == 0 || len(levels) > 255 {
		return fmt.Errorf("pack: level count %d out of range", len(levels))
	}
	if firstSecret < 0 || firstSecret > len(levels) {
		return fmt.Errorf("pack: first secret level %d out of range", firstSecret)
	}

	records := make([][]byte, len(levels))
	for i, level := range levels {
		rec, err := encodeRecord(level)
		if err != nil {
			return fmt.Errorf("pack: level %d: %w", i+1, err)
		}
		records[i] = rec
	}

	var out []byte
	out = append(out, 'T', 'W', byte(len(levels)), byte(firstSecret))

	// cumulative offset deltas from pack start
	addr := headerLen + 2*len(levels) + NameLen
	prev := 0
	for _, rec := range records {
		delta := addr - prev
		if delta > maxRecordSize {
			return fmt.Errorf("pack: record offset delta %d too large", delta)
		}
		out = binary.LittleEndian.AppendUint16(out, uint16(delta))
		prev = addr
		addr += len(rec)
	}

	nameField := make([]byte, NameLen)
	copy(nameField, name)
	nameField[NameLen-1] = 0
	out = append(out, nameField...)

	for _, rec := range records {
		out = append(out, rec...)
	}

	_, err := w.Write(out)
	return err
}

func encodeRecord(level *tworld.Level) ([]byte, error) {
	if len(level.Password) != passwordLen {
		return nil, fmt.Errorf("password %q must be %d characters", level.Password, passwordLen)
	}
	if len(level.TrapLinks) > maxLinkCount || len(level.ClonerLinks) > maxLinkCount {
		return nil, fmt.Errorf("too many links")
	}

	grid := lzss.Encode(tworld.EncodeLayers(&level.BottomLayer, &level.TopLayer))
	if len(grid) > maxRecordSize {
		return nil, fmt.Errorf("compressed grid too large")
	}

	rec := make([]byte, recData, recData+len(grid)+metaIndexLen)
	rec[recFlags] = 0
	binary.LittleEndian.PutUint16(rec[recTimeLimit:], level.TimeLimit)
	binary.LittleEndian.PutUint16(rec[recChips:], level.RequiredChips)
	binary.LittleEndian.PutUint16(rec[recDataLen:], uint16(len(grid)))
	rec = append(rec, grid...)

	// metadata index entries are patched in as the blobs are appended
	metaIndex := len(rec)
	rec = append(rec, make([]byte, metaIndexLen)...)

	setMeta := func(n int) error {
		if len(rec) > maxRecordSize {
			return fmt.Errorf("record too large")
		}
		binary.LittleEndian.PutUint16(rec[metaIndex+2*n:], uint16(len(rec)))
		return nil
	}

	if err := setMeta(0); err != nil {
		return nil, err
	}
	rec = append(rec, level.Password...)
	rec = append(rec, 0)

	if err := setMeta(1); err != nil {
		return nil, err
	}
	rec = append(rec, level.Title...)
	rec = append(rec, 0)

	if level.Hint != "" {
		if err := setMeta(2); err != nil {
			return nil, err
		}
		rec = append(rec, level.Hint...)
		rec = append(rec, 0)
	}

	if err := setMeta(3); err != nil {
		return nil, err
	}
	rec = appendLinks(rec, level.TrapLinks)

	if err := setMeta(4); err != nil {
		return nil, err
	}
	rec = appendLinks(rec, level.ClonerLinks)

	if len(rec) > maxRecordSize {
		return nil, fmt.Errorf("record too large")
	}
	return rec, nil
}

func appendLinks(rec []byte, links []tworld.Link) []byte {
	rec = append(rec, byte(len(links)))
	for _, link := range links {
		btn := uint16(link.ButtonY)*tworld.GridWidth + uint16(link.ButtonX)
		target := uint16(link.TargetY)*tworld.GridWidth + uint16(link.TargetX)
		rec = binary.LittleEndian.AppendUint16(rec, btn)
		rec = binary.LittleEndian.AppendUint16(rec, target)
	}
	return rec
}
