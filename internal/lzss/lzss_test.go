package lzss

import (
	"bytes"
	"testing"
)

func TestDecodeLiterals(t *testing.T) {
	out, err := Decode([]byte{0x00, 'a', 'b', 'c'})
	if err != nil {
		t.Fatalf("Decode() failed: %v", err)
	}
	if string(out) != "abc" {
		t.Errorf("Decode() = %q, want %q", out, "abc")
	}
}

// A run of one byte compresses into a literal plus a self-overlapping
// two byte back reference.
func TestDecodeRun(t *testing.T) {
	out, err := Decode([]byte{0x02, 'a', 0x21, 0x00})
	if err != nil {
		t.Fatalf("Decode() failed: %v", err)
	}
	want := bytes.Repeat([]byte{'a'}, 20)
	if !bytes.Equal(out, want) {
		t.Errorf("Decode() = %q, want 20 * 'a'", out)
	}
}

// The short back reference form: one byte, 5-bit distance, 2-bit length.
func TestDecodeShortBackref(t *testing.T) {
	out, err := Decode([]byte{0x04, 'a', 'b', 0x08})
	if err != nil {
		t.Fatalf("Decode() failed: %v", err)
	}
	if string(out) != "abab" {
		t.Errorf("Decode() = %q, want %q", out, "abab")
	}
}

func TestDecodeEmpty(t *testing.T) {
	out, err := Decode(nil)
	if err != nil {
		t.Fatalf("Decode(nil) failed: %v", err)
	}
	if len(out) != 0 {
		t.Errorf("Decode(nil) = %q, want empty", out)
	}
}

func TestDecodeErrors(t *testing.T) {
	// a type byte with nothing after it
	if _, err := Decode([]byte{0x01}); err == nil {
		t.Error("Decode() accepted a truncated stream")
	}
	// two byte back reference cut short
	if _, err := Decode([]byte{0x01, 0x21}); err == nil {
		t.Error("Decode() accepted a cut off back reference")
	}
	// reference past the start of the output
	if _, err := Decode([]byte{0x01, 0x08}); err == nil {
		t.Error("Decode() accepted a reference before the output start")
	}
}

func TestEncodeVectors(t *testing.T) {
	tests := []struct {
		name string
		src  []byte
		want []byte
	}{
		{"literals", []byte("abc"), []byte{0x00, 'a', 'b', 'c'}},
		{"run", bytes.Repeat([]byte{'a'}, 20), []byte{0x02, 'a', 0x21, 0x00}},
		{"short backref", []byte("abab"), []byte{0x04, 'a', 'b', 0x08}},
		{"empty", nil, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Encode(tt.src)
			if !bytes.Equal(got, tt.want) {
				t.Errorf("Encode(%q) = %#v, want %#v", tt.src, got, tt.want)
			}
		})
	}
}

// More than eight tokens need a second type byte.
func TestEncodeSecondTypeByte(t *testing.T) {
	src := []byte("abcdefghij")
	want := []byte{0x00, 'a', 'b', 'c', 'd', 'e', 'f', 'g', 'h', 0x00, 'i', 'j'}
	if got := Encode(src); !bytes.Equal(got, want) {
		t.Errorf("Encode(%q) = %#v, want %#v", src, got, want)
	}
}

func TestRoundTrip(t *testing.T) {
	inputs := [][]byte{
		[]byte("the quick brown fox jumps over the lazy dog"),
		bytes.Repeat([]byte("ab"), 300),
		bytes.Repeat([]byte{0x00}, 1536),
		[]byte("aaaabaaaabaaaabcccc"),
	}

	// layer-like data: long runs with sparse structure
	grid := make([]byte, 1536)
	for i := 64; i < 96; i++ {
		grid[i] = byte(i % 7)
	}
	inputs = append(inputs, grid)

	for i, src := range inputs {
		enc := Encode(src)
		dec, err := Decode(enc)
		if err != nil {
			t.Fatalf("input %d: Decode() failed: %v", i, err)
		}
		if !bytes.Equal(dec, src) {
			t.Fatalf("input %d did not survive the round trip", i)
		}
		if len(src) > 64 && len(enc) >= len(src) {
			t.Errorf("input %d: repetitive data did not compress (%d -> %d)",
				i, len(src), len(enc))
		}
	}
}
