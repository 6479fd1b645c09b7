// Package pack reads and writes level pack files.
//
// A pack starts with the signature "TW", a level count byte and the index
// of the first secret level, followed by one cumulative 16-bit offset
// delta per level (the accumulated value is the level record's offset
// from the start of the pack) and a fixed size pack name. A level record
// holds a flags byte, the time limit, the required chip count and the
// LZSS compressed grid layers, then a small index locating the password,
// title, hint and the trap and cloner link tables within the record.
package pack

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"os"

	"github.com/vovakirdan/tileworld/internal/lzss"
	"github.com/vovakirdan/tileworld/internal/tworld"
)

const (
	// NameLen is the fixed byte size of the pack name field.
	NameLen = 12

	headerLen = 4

	// level record layout
	recFlags      = 0
	recTimeLimit  = 1
	recChips      = 3
	recDataLen    = 5
	recData       = 7
	metaIndexLen  = 10 // five 16-bit offsets
	passwordLen   = 4
	maxLinkCount  = 255
	maxRecordSize = 0xffff
)

var errTruncated = errors.New("pack: truncated file")

// Pack is a parsed level pack. Level records are decoded on demand;
// metadata accessors read the raw record without decompressing the grid.
type Pack struct {
	Name        string
	LevelCount  int
	FirstSecret int

	data  []byte
	index []int
}

// Load reads a pack file.
func Load(path string) (*Pack, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("pack: %w", err)
	}
	return Parse(data)
}

// Parse validates pack data and reads the level index.
func Parse(data []byte) (*Pack, error) {
	if len(data) < headerLen {
		return nil, errTruncated
	}
	if data[0] != 'T' || data[1] != 'W' {
		return nil, errors.New("pack: bad signature")
	}

	p := &Pack{
		LevelCount:  int(data[2]),
		FirstSecret: int(data[3]),
		data:        data,
	}
	if p.FirstSecret > p.LevelCount {
		p.FirstSecret = p.LevelCount
	}

	pos := headerLen
	if pos+2*p.LevelCount+NameLen > len(data) {
		return nil, errTruncated
	}
	addr := 0
	for i := 0; i < p.LevelCount; i++ {
		addr += int(binary.LittleEndian.Uint16(data[pos:]))
		p.index = append(p.index, addr)
		pos += 2
	}
	p.Name = cstring(data[pos : pos+NameLen])

	for i, off := range p.index {
		if off+recData+metaIndexLen > len(data) {
			return nil, fmt.Errorf("pack: level %d record out of bounds", i+1)
		}
	}
	return p, nil
}

// cstring trims a NUL-padded byte field.
func cstring(b []byte) string {
	if i := bytes.IndexByte(b, 0); i >= 0 {
		b = b[:i]
	}
	return string(b)
}

// record returns the raw bytes of a level record, extending to the end of
// the pack (records do not store their own size).
func (p *Pack) record(number int) ([]byte, error) {
	if number < 1 || number > p.LevelCount {
		return nil, fmt.Errorf("pack: no level %d", number)
	}
	return p.data[p.index[number-1]:], nil
}

// metaOffset reads entry n of a record's metadata index. The index sits
// after the compressed grid data; offsets are relative to record start.
func metaOffset(rec []byte, n int) (int, error) {
	dataLen := int(binary.LittleEndian.Uint16(rec[recDataLen:]))
	pos := recData + dataLen + 2*n
	if pos+2 > len(rec) {
		return 0, errTruncated
	}
	return int(binary.LittleEndian.Uint16(rec[pos:])), nil
}

func (p *Pack) metaString(number, n int) (string, error) {
	rec, err := p.record(number)
	if err != nil {
		return "", err
	}
	off, err := metaOffset(rec, n)
	if err != nil {
		return "", err
	}
	if off == 0 {
		// unset entry (levels without a hint)
		return "", nil
	}
	if off >= len(rec) {
		return "", errTruncated
	}
	end := bytes.IndexByte(rec[off:], 0)
	if end < 0 {
		return "", errTruncated
	}
	return string(rec[off : off+end]), nil
}

// Password returns a level's password without decoding the level.
func (p *Pack) Password(number int) (string, error) {
	return p.metaString(number, 0)
}

// Title returns a level's title without decoding the level.
func (p *Pack) Title(number int) (string, error) {
	return p.metaString(number, 1)
}

// IsSecret reports whether a level is a secret level.
func (p *Pack) IsSecret(number int) bool {
	return number-1 >= p.FirstSecret
}

func readLinks(rec []byte, off int) ([]tworld.Link, error) {
	if off == 0 {
		return nil, nil
	}
	if off >= len(rec) {
		return nil, errTruncated
	}
	count := int(rec[off])
	off++
	if off+4*count > len(rec) {
		return nil, errTruncated
	}
	links := make([]tworld.Link, 0, count)
	for i := 0; i < count; i++ {
		btn := binary.LittleEndian.Uint16(rec[off:])
		target := binary.LittleEndian.Uint16(rec[off+2:])
		links = append(links, tworld.Link{
			ButtonX: int8(btn % tworld.GridWidth),
			ButtonY: int8(btn / tworld.GridWidth),
			TargetX: int8(target % tworld.GridWidth),
			TargetY: int8(target / tworld.GridWidth),
		})
		off += 4
	}
	return links, nil
}

// Level decodes a full level record, including the grid layers.
func (p *Pack) Level(number int) (*tworld.Level, error) {
	rec, err := p.record(number)
	if err != nil {
		return nil, err
	}

	dataLen := int(binary.LittleEndian.Uint16(rec[recDataLen:]))
	if recData+dataLen > len(rec) {
		return nil, errTruncated
	}
	grid, err := lzss.Decode(rec[recData : recData+dataLen])
	if err != nil {
		return nil, fmt.Errorf("pack: level %d: %w", number, err)
	}
	if len(grid) != 2*tworld.EncodedLayerSize {
		return nil, fmt.Errorf("pack: level %d: bad grid data size %d", number, len(grid))
	}

	level := &tworld.Level{
		Number:        number,
		TimeLimit:     binary.LittleEndian.Uint16(rec[recTimeLimit:]),
		RequiredChips: binary.LittleEndian.Uint16(rec[recChips:]),
	}
	tworld.DecodeLayers(grid, &level.BottomLayer, &level.TopLayer)

	if level.Password, err = p.Password(number); err != nil {
		return nil, err
	}
	if level.Title, err = p.Title(number); err != nil {
		return nil, err
	}
	if level.Hint, err = p.metaString(number, 2); err != nil {
		return nil, err
	}

	trapOff, err := metaOffset(rec, 3)
	if err != nil {
		return nil, err
	}
	if level.TrapLinks, err = readLinks(rec, trapOff); err != nil {
		return nil, err
	}
	clonerOff, err := metaOffset(rec, 4)
	if err != nil {
		return nil, err
	}
	if level.ClonerLinks, err = readLinks(rec, clonerOff); err != nil {
		return nil, err
	}

	return level, nil
}
