// Package tws reads Tile World solution (.tws) files. Solutions record
// the initial conditions and the full input sequence of a verified level
// completion; the verify command replays them against the simulation as
// its correctness oracle.
package tws

import (
	"errors"
	"fmt"
	"os"

	"github.com/vovakirdan/tileworld/internal/tworld"
)

var (
	// ErrNoSolution is returned when a file has no solution for a level.
	ErrNoSolution = errors.New("tws: no solution for level")

	errTruncated = errors.New("tws: truncated file")
)

var signature = [4]byte{0x35, 0x33, 0x9b, 0x99}

// The eight direction encodings used by move records: the four cardinal
// masks followed by the four diagonal combinations.
var directions = [8]tworld.DirMask{
	tworld.MaskNorth,
	tworld.MaskWest,
	tworld.MaskSouth,
	tworld.MaskEast,
	tworld.MaskNorth | tworld.MaskWest,
	tworld.MaskSouth | tworld.MaskWest,
	tworld.MaskNorth | tworld.MaskEast,
	tworld.MaskSouth | tworld.MaskEast,
}

// Move is one input event: hold Direction starting Delta ticks after the
// previous event.
type Move struct {
	Delta     uint32
	Direction tworld.DirMask
}

// Solution is the replay data for one level.
type Solution struct {
	TotalTime       uint32
	Stepping        uint8
	InitialSlideDir tworld.Direction
	Seed            uint32
	Moves           []Move
}

// Iterator yields one input mask per tick.
type Iterator struct {
	moves []Move
	index int
	time  uint32
}

// Inputs returns a tick iterator over the solution's moves. Once the
// iterator is exhausted the caller keeps stepping with a zero mask until
// the solution's total time is reached.
func (s *Solution) Inputs() *Iterator {
	return &Iterator{moves: s.Moves}
}

// Next returns the input mask for the next tick. ok turns false after the
// last move fires.
func (it *Iterator) Next() (mask tworld.DirMask, ok bool) {
	if it.index >= len(it.moves) {
		return 0, false
	}
	if it.time >= it.moves[it.index].Delta {
		it.time -= it.moves[it.index].Delta
		mask = it.moves[it.index].Direction
		it.index++
		if it.index == len(it.moves) {
			// the last move still counts for this tick
			it.time++
			return mask, true
		}
	}
	it.time++
	return mask, true
}

// File is a parsed solution file.
type File struct {
	data []byte
}

// Load reads and validates a solution file.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("tws: %w", err)
	}
	return Parse(data)
}

// Parse validates solution file data.
func Parse(data []byte) (*File, error) {
	if len(data) < 8 {
		return nil, errTruncated
	}
	if [4]byte(data[0:4]) != signature {
		return nil, errors.New("tws: bad signature")
	}
	if data[4] != 1 {
		return nil, errors.New("tws: only the Lynx ruleset is supported")
	}
	return &File{data: data}, nil
}

type reader struct {
	data []byte
	pos  int
}

func (r *reader) read(n int) (uint32, error) {
	if r.pos+n > len(r.data) {
		return 0, errTruncated
	}
	var v uint32
	for i := 0; i < n; i++ {
		v |= uint32(r.data[r.pos]) << (i * 8)
		r.pos++
	}
	return v, nil
}

// Solution finds and decodes the solution record for a level number.
func (f *File) Solution(levelNumber int) (*Solution, error) {
	r := &reader{data: f.data, pos: 8}

	end := 0
	for {
		if r.pos >= len(r.data) {
			return nil, fmt.Errorf("%w %d", ErrNoSolution, levelNumber)
		}
		offset, err := r.read(4)
		if err != nil {
			return nil, err
		}
		if offset == 0 {
			// padding record
			continue
		}
		end = r.pos + int(offset)
		number, err := r.read(2)
		if err != nil {
			return nil, err
		}
		if int(number) == levelNumber {
			break
		}
		r.pos = end
	}
	if end > len(f.data) {
		return nil, errTruncated
	}

	r.pos += 5
	initial, err := r.read(1)
	if err != nil {
		return nil, err
	}
	seed, err := r.read(4)
	if err != nil {
		return nil, err
	}
	totalTime, err := r.read(4)
	if err != nil {
		return nil, err
	}

	sol := &Solution{
		TotalTime:       totalTime,
		Stepping:        uint8(initial>>3) & 0x7,
		InitialSlideDir: tworld.Direction(initial & 0x7),
		Seed:            seed,
	}

	for r.pos < end {
		b := f.data[r.pos]
		var moves []Move
		switch {
		case b&0x3 == 0x0:
			moves, err = r.readMoveType3()
		case b&0x3 == 0x1:
			moves, err = r.readMoveType1(1)
		case b&0x3 == 0x2:
			moves, err = r.readMoveType1(2)
		case b&0x10 != 0:
			moves, err = r.readMoveType4(int(b>>2)&0x3 + 2)
		default:
			moves, err = r.readMoveType2()
		}
		if err != nil {
			return nil, err
		}
		if len(sol.Moves) == 0 {
			// the first move's delta is stored one tick high
			moves[0].Delta--
		}
		sol.Moves = append(sol.Moves, moves...)
	}
	if r.pos != end {
		return nil, errors.New("tws: malformed move encoding")
	}
	return sol, nil
}

func (r *reader) readMoveType1(length int) ([]Move, error) {
	move, err := r.read(length)
	if err != nil {
		return nil, err
	}
	return []Move{{
		Delta:     move>>5 + 1,
		Direction: directions[move>>2&0x7],
	}}, nil
}

func (r *reader) readMoveType2() ([]Move, error) {
	move, err := r.read(4)
	if err != nil {
		return nil, err
	}
	return []Move{{
		Delta:     (move>>5 + 1) & 0x7fffff,
		Direction: directions[move>>2&0x3],
	}}, nil
}

func (r *reader) readMoveType3() ([]Move, error) {
	move, err := r.read(1)
	if err != nil {
		return nil, err
	}
	return []Move{
		{Delta: 4, Direction: directions[move>>2&0x3]},
		{Delta: 4, Direction: directions[move>>4&0x3]},
		{Delta: 4, Direction: directions[move>>6&0x3]},
	}, nil
}

func (r *reader) readMoveType4(length int) ([]Move, error) {
	move, err := r.read(length)
	if err != nil {
		return nil, err
	}
	dir := tworld.DirMask(move >> 5 & 0x1ff)
	valid := false
	for _, d := range directions {
		if d == dir {
			valid = true
			break
		}
	}
	if !valid {
		return nil, errors.New("tws: unsupported type 4 move encoding (mouse)")
	}
	return []Move{{
		Delta:     move>>14 + 1,
		Direction: dir,
	}}, nil
}
