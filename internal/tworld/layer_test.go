package tworld

import "testing"

// Four 6-bit codes pack into three bytes, little-endian within the bit
// stream: codes 1, 2, 3, 4 give 1 | 2<<6 | 3<<12 | 4<<18.
func TestPackedTileLayout(t *testing.T) {
	data := make([]byte, 3)
	setPackedTile(data, 0, 1)
	setPackedTile(data, 1, 2)
	setPackedTile(data, 2, 3)
	setPackedTile(data, 3, 4)

	want := []byte{0x81, 0x30, 0x10}
	for i := range want {
		if data[i] != want[i] {
			t.Fatalf("packed bytes = %x, want %x", data, want)
		}
	}

	for i, code := range []uint8{1, 2, 3, 4} {
		if got := packedTile(data, i); got != code {
			t.Errorf("packedTile(%d) = %d, want %d", i, got, code)
		}
	}
}

func TestPackedTileAllOffsets(t *testing.T) {
	// every tile index hits one of four bit offsets; check a full cycle
	// with distinct codes, twice over to catch neighbor clobbering
	data := make([]byte, EncodedLayerSize)
	for i := 0; i < GridSize; i++ {
		setPackedTile(data, i, uint8(i*7%0x40))
	}
	for i := 0; i < GridSize; i++ {
		if got := packedTile(data, i); got != uint8(i*7%0x40) {
			t.Fatalf("packedTile(%d) = %d, want %d", i, got, uint8(i*7%0x40))
		}
	}
}

func TestEncodeDecodeLayers(t *testing.T) {
	var bottom [GridSize]Tile
	var top [GridSize]Actor
	for i := 0; i < GridSize; i++ {
		bottom[i] = Tile(i % 0x40)
		top[i] = Actor((i * 3) % 0x40)
	}

	data := EncodeLayers(&bottom, &top)
	if len(data) != 2*EncodedLayerSize {
		t.Fatalf("EncodeLayers returned %d bytes, want %d", len(data), 2*EncodedLayerSize)
	}

	var gotBottom [GridSize]Tile
	var gotTop [GridSize]Actor
	DecodeLayers(data, &gotBottom, &gotTop)

	if gotBottom != bottom {
		t.Error("bottom layer did not survive the round trip")
	}
	if gotTop != top {
		t.Error("top layer did not survive the round trip")
	}
}
