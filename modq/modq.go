// Package modq implements arithmetic modulo the NTT-friendly prime
// Q = 998244353 = 119·2^23 + 1 on 32-bit words.
package modq

const (
	// Q is the field modulus.
	Q uint32 = 998244353
	// Generator is a primitive root modulo Q.
	Generator uint32 = 3
	// MaxLogN is the largest power of two dividing Q-1.
	MaxLogN = 23
)

// Reduce maps an arbitrary 64-bit value into [0,Q).
func Reduce(x uint64) uint32 {
	return uint32(x % uint64(Q))
}

// Add returns a+b mod Q for a,b in [0,Q).
func Add(a, b uint32) uint32 {
	s := a + b
	if s >= Q {
		s -= Q
	}
	return s
}

// Sub returns a-b mod Q for a,b in [0,Q).
func Sub(a, b uint32) uint32 {
	if a < b {
		return a + Q - b
	}
	return a - b
}

// Neg returns -a mod Q.
func Neg(a uint32) uint32 {
	if a == 0 {
		return 0
	}
	return Q - a
}

// Mul returns a*b mod Q through a 64-bit product.
func Mul(a, b uint32) uint32 {
	return uint32(uint64(a) * uint64(b) % uint64(Q))
}

// Pow returns base^exp mod Q (right-to-left square and multiply).
func Pow(base uint32, exp uint64) uint32 {
	res := uint32(1)
	b := base % Q
	for exp > 0 {
		if exp&1 == 1 {
			res = Mul(res, b)
		}
		b = Mul(b, b)
		exp >>= 1
	}
	return res
}

// Inv returns the multiplicative inverse of a (a != 0) via Fermat.
func Inv(a uint32) uint32 {
	return Pow(a, uint64(Q-2))
}

// FromInt64 embeds a signed integer into [0,Q).
func FromInt64(v int64) uint32 {
	r := v % int64(Q)
	if r < 0 {
		r += int64(Q)
	}
	return uint32(r)
}

// Center lifts a residue to the symmetric range (-Q/2, Q/2].
func Center(a uint32) int64 {
	v := int64(a)
	if v > int64(Q/2) {
		v -= int64(Q)
	}
	return v
}
