// Package lzss implements the LZSS variant used by level pack files.
//
// The stream is a sequence of tokens. Every group of 8 tokens is preceded
// by a type byte whose bits, LSB first, mark the corresponding token as a
// literal byte (0) or a back reference (1). A back reference has two
// encodings, told apart by bit 0 of its first byte:
//
//   - 2 bytes (bit 0 = 1): 8-bit distance (stored -1), 7-bit length
//     (stored -3), assembled little-endian with the distance in the high
//     bits.
//   - 1 byte (bit 0 = 0): 5-bit distance (stored -1), 2-bit length
//     (stored -2), distance in the high bits.
//
// The window is 256 bytes. Distances always refer to already decoded
// output; references may overlap their own destination.
package lzss

import (
	"errors"
	"fmt"
)

const (
	distanceBits1 = 5
	distanceBits2 = 8

	lengthBits1 = 7 - distanceBits1
	lengthBits2 = 15 - distanceBits2

	lengthMask1 = 1<<lengthBits1 - 1
	lengthMask2 = 1<<lengthBits2 - 1

	breakeven1 = 2
	breakeven2 = 3

	maxDistance1 = 1 << distanceBits1
	maxLength1   = lengthMask1 + breakeven1
	maxLength2   = lengthMask2 + breakeven2

	windowSize = 1 << distanceBits2
)

var errTruncated = errors.New("lzss: truncated stream")

// Decode decompresses a complete token stream. The output size is implied
// by the stream; src must contain exactly the compressed bytes, nothing
// more.
func Decode(src []byte) ([]byte, error) {
	var out []byte
	var typeByte byte
	typeBits := 0

	i := 0
	for i < len(src) {
		if typeBits == 0 {
			typeByte = src[i]
			typeBits = 8
			i++
			if i == len(src) {
				return nil, errTruncated
			}
		}

		if typeByte&1 != 0 {
			var length, distance int
			if src[i]&0x1 != 0 {
				// two byte encoding
				if i+1 == len(src) {
					return nil, errTruncated
				}
				backref := (int(src[i]) | int(src[i+1])<<8) >> 1
				length = backref&lengthMask2 + breakeven2
				distance = backref>>lengthBits2 + 1
				i += 2
			} else {
				backref := int(src[i]) >> 1
				length = backref&lengthMask1 + breakeven1
				distance = backref>>lengthBits1 + 1
				i++
			}
			start := len(out) - distance
			if start < 0 {
				return nil, fmt.Errorf("lzss: reference before start of output (distance %d)", distance)
			}
			for j := 0; j < length; j++ {
				out = append(out, out[start+j])
			}
		} else {
			out = append(out, src[i])
			i++
		}
		typeByte >>= 1
		typeBits--
	}
	return out, nil
}

// Encode compresses src into a token stream that Decode reverses exactly.
// Matches are greedy, preferring the closest occurrence, and may extend
// over their own output for run-length style repeats.
func Encode(src []byte) []byte {
	var out []byte
	typeBits := 8
	typePos := 0

	appendTokenType := func(bit byte) {
		if typeBits == 8 {
			typeBits = 0
			typePos = len(out)
			out = append(out, 0)
		}
		out[typePos] |= bit << typeBits
		typeBits++
	}

	i := 0
	for i < len(src) {
		winStart := i - windowSize
		if winStart < 0 {
			winStart = 0
		}
		winLen := i - winStart

		// longest match in the window, closest occurrence wins ties
		maxSeqPos := -1
		maxSeq := 0
		for j := winLen - 1; j >= 0; j-- {
			seqLen := 0
			k := j
			for src[winStart+k] == src[i+seqLen] {
				seqLen++
				k++
				if seqLen == maxLength2 || i+seqLen == len(src) {
					break
				}
				if k == winLen {
					// self-overlapping match, restart from the match head
					k = j
				}
			}
			if seqLen > maxSeq {
				maxSeqPos = j
				maxSeq = seqLen
				if seqLen == len(src)-i {
					break
				}
			}
		}

		distance := winLen - maxSeqPos
		singleByte := maxSeq <= maxLength1 && distance <= maxDistance1
		if singleByte && maxSeq >= breakeven1 || maxSeq >= breakeven2 {
			appendTokenType(1)
			if singleByte {
				out = append(out, byte((distance-1)<<(lengthBits1+1)|(maxSeq-breakeven1)<<1))
			} else {
				backref := (distance-1)<<(lengthBits2+1) | (maxSeq-breakeven2)<<1 | 0x1
				out = append(out, byte(backref), byte(backref>>8))
			}
			i += maxSeq
		} else {
			appendTokenType(0)
			out = append(out, src[i])
			i++
		}
	}
	return out
}
