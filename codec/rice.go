package codec

import (
	"fmt"

	"vSIS-Codec/bitstream"
)

const (
	// RiceMaxQuotient is the longest unary run a pipeline decoder accepts.
	RiceMaxQuotient = 2000
	// MaxRiceParam is the largest parameter the 3-bit header field holds.
	MaxRiceParam = 7
)

// WriteRice appends v as q = v>>r one-bits, a zero terminator and the low r
// bits of v.
func WriteRice(w *bitstream.Writer, v uint32, r uint) error {
	if r > MaxRiceParam {
		return invalidf("rice parameter %d > %d", r, MaxRiceParam)
	}
	q := v >> r
	for q >= 64 {
		if err := w.WriteBits(^uint64(0), 64); err != nil {
			return err
		}
		q -= 64
	}
	// q ones followed by the terminator in one call.
	if err := w.WriteBits((uint64(1)<<q-1)<<1, uint(q)+1); err != nil {
		return err
	}
	return w.WriteBits(uint64(v)&(1<<r-1), r)
}

// ReadRice reads one value written by WriteRice. A unary run longer than
// maxQuotient fails with ErrCorruptBitstream.
func ReadRice(rd *bitstream.Reader, r uint, maxQuotient uint32) (uint32, error) {
	if r > MaxRiceParam {
		return 0, invalidf("rice parameter %d > %d", r, MaxRiceParam)
	}
	var q uint32
	for {
		bit, err := rd.ReadBit()
		if err != nil {
			return 0, readErr("rice quotient", err)
		}
		if bit == 0 {
			break
		}
		q++
		if q > maxQuotient {
			return 0, fmt.Errorf("%w: rice quotient exceeds %d", ErrCorruptBitstream, maxQuotient)
		}
	}
	low, err := rd.ReadBits(r)
	if err != nil {
		return 0, readErr("rice remainder", err)
	}
	return q<<r | uint32(low), nil
}

// RiceLen returns the encoded length of v in bits.
func RiceLen(v uint32, r uint) int {
	return int(v>>r) + 1 + int(r)
}

// riceParamFor returns the smallest parameter >= nominal whose quotient for
// maxGap stays within RiceMaxQuotient.
func riceParamFor(maxGap uint32, nominal uint) uint {
	r := nominal
	for r < MaxRiceParam && maxGap>>r > RiceMaxQuotient {
		r++
	}
	return r
}
