package ntt

import (
	"fmt"

	"github.com/tuneinsight/lattigo/v4/ring"

	"vSIS-Codec/modq"
)

// RingConvolve computes the negacyclic product of a and b through a lattigo
// ring of degree len(a) over the single modulus Q. It is an independent
// implementation used to cross-check ConvolveNegacyclic.
func RingConvolve(a, b []uint32) ([]uint32, error) {
	if len(a) != len(b) {
		return nil, fmt.Errorf("ntt: operand lengths %d and %d differ", len(a), len(b))
	}
	dbg("[NTT] RingConvolve begin N=%d\n", len(a))
	r, err := ring.NewRing(len(a), []uint64{uint64(modq.Q)})
	if err != nil {
		return nil, fmt.Errorf("ntt: build ring: %w", err)
	}
	pa := r.NewPoly()
	pb := r.NewPoly()
	for i := range a {
		pa.Coeffs[0][i] = uint64(a[i] % modq.Q)
		pb.Coeffs[0][i] = uint64(b[i] % modq.Q)
	}
	r.MForm(pa, pa)
	r.MForm(pb, pb)
	r.NTT(pa, pa)
	r.NTT(pb, pb)
	res := r.NewPoly()
	r.MulCoeffsMontgomery(pa, pb, res)
	r.InvNTT(res, res)
	r.InvMForm(res, res)
	out := make([]uint32, len(a))
	for i, v := range res.Coeffs[0] {
		out[i] = uint32(v)
	}
	dbg("[NTT] RingConvolve done\n")
	return out, nil
}
