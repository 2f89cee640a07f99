package sampler

import (
	"encoding/binary"
	"math/bits"
)

// zeroStateReplacement seeds the generator when the caller's seed is all
// zero, a state xoshiro can never leave.
var zeroStateReplacement = [4]uint64{
	0x9E3779B97F4A7C15,
	0xBF58476D1CE4E5B9,
	0x94D049BB133111EB,
	0x2545F4914F6CDD1D,
}

// Xoshiro256 is the xoshiro256** generator.
type Xoshiro256 struct {
	s [4]uint64
}

// NewXoshiro256 loads the state from seed as four little-endian words.
func NewXoshiro256(seed [32]byte) *Xoshiro256 {
	x := &Xoshiro256{}
	var or uint64
	for i := range x.s {
		x.s[i] = binary.LittleEndian.Uint64(seed[8*i:])
		or |= x.s[i]
	}
	if or == 0 {
		x.s = zeroStateReplacement
	}
	return x
}

// Uint64 returns the next output word.
func (x *Xoshiro256) Uint64() uint64 {
	s := &x.s
	out := bits.RotateLeft64(s[1]*5, 7) * 9
	t := s[1] << 17
	s[2] ^= s[0]
	s[3] ^= s[1]
	s[1] ^= s[2]
	s[0] ^= s[3]
	s[2] ^= t
	s[3] = bits.RotateLeft64(s[3], 45)
	return out
}

// unit returns a double in (0,1) from the top 53 bits of the next word.
func (x *Xoshiro256) unit() float64 {
	u := float64(x.Uint64()>>11) / (1 << 53)
	if u == 0 {
		u = 1.0 / (1 << 53)
	}
	return u
}
