package tworld

// Packed layer codec. Level packs store both grid layers as a little-endian
// bit stream of 6-bit tile codes, four tiles per three bytes. The packed
// form exists only at the serialization boundary; the simulation always
// works on unpacked one-byte-per-tile grids.

// packedTile reads the 6-bit code at tile index i from a packed bit stream.
func packedTile(data []byte, i int) uint8 {
	bit := i * EncodedBitsPerTile
	v := uint16(data[bit/8]) >> (bit % 8)
	if bit%8 > 2 {
		v |= uint16(data[bit/8+1]) << (8 - bit%8)
	}
	return uint8(v) & 0x3f
}

// setPackedTile writes the 6-bit code at tile index i into a packed bit
// stream. Codes above 0x3f are silently truncated.
func setPackedTile(data []byte, i int, code uint8) {
	bit := i * EncodedBitsPerTile
	v := uint16(code&0x3f) << (bit % 8)
	mask := uint16(0x3f) << (bit % 8)
	data[bit/8] = data[bit/8]&^byte(mask) | byte(v)
	if bit%8 > 2 {
		data[bit/8+1] = data[bit/8+1]&^byte(mask>>8) | byte(v>>8)
	}
}

// DecodeLayers unpacks the two concatenated packed layers of a level
// (bottom then top) into runtime grids. data must hold exactly
// 2*EncodedLayerSize bytes.
func DecodeLayers(data []byte, bottom *[GridSize]Tile, top *[GridSize]Actor) {
	for i := 0; i < GridSize; i++ {
		bottom[i] = Tile(packedTile(data, i))
	}
	for i := 0; i < GridSize; i++ {
		top[i] = Actor(packedTile(data, GridSize+i))
	}
}

// EncodeLayers packs the two layers of a level into the stored bit stream
// form, bottom layer first.
func EncodeLayers(bottom *[GridSize]Tile, top *[GridSize]Actor) []byte {
	data := make([]byte, 2*EncodedLayerSize)
	for i := 0; i < GridSize; i++ {
		setPackedTile(data, i, uint8(bottom[i]))
	}
	for i := 0; i < GridSize; i++ {
		setPackedTile(data, GridSize+i, uint8(top[i]))
	}
	return data
}
