package tworld

// The two pseudo-random generators used by the simulation. Both must match
// the historical generators bit for bit, since solution files record only
// an initial seed and replays depend on every draw.

// lynxPRNG is the byte shift-register generator consumed by walkers.
// Its state starts at zero on every level restart.
type lynxPRNG struct {
	value1, value2 uint8
}

func (p *lynxPRNG) next() uint8 {
	n := (p.value1 >> 2) - p.value1
	if p.value1&0x02 == 0 {
		n--
	}
	p.value1 = p.value1>>1 | p.value2&0x80
	p.value2 = p.value2<<1 | n&0x01
	return p.value1 ^ p.value2
}

// twPRNG is the 31-bit linear congruential generator consumed by blobs.
// Solution files seed it explicitly.
type twPRNG struct {
	value uint32
}

func (p *twPRNG) next() uint32 {
	p.value = (p.value*1103515245 + 12345) & 0x7fffffff
	return p.value
}
