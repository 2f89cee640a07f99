package bench

import (
	"testing"

	"vSIS-Codec/modq"
	"vSIS-Codec/ntt"
)

func rampInput(n int) []uint32 {
	a := make([]uint32, n)
	for i := range a {
		a[i] = uint32(i%100) + 1
	}
	return a
}

func BenchmarkNTTForwardInverse(b *testing.B) {
	ctx, err := ntt.NewContext(ntt.N)
	if err != nil {
		b.Fatal(err)
	}
	a := rampInput(ntt.N)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if err := ctx.Forward(a); err != nil {
			b.Fatal(err)
		}
		if err := ctx.Inverse(a); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkConvolveNegacyclic(b *testing.B) {
	ctx, err := ntt.NewContext(1024)
	if err != nil {
		b.Fatal(err)
	}
	x, y := rampInput(1024), rampInput(1024)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := ctx.ConvolveNegacyclic(x, y); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkRingConvolve(b *testing.B) {
	x, y := rampInput(1024), rampInput(1024)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := ntt.RingConvolve(x, y); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkNaiveNegacyclic(b *testing.B) {
	x, y := rampInput(1024), rampInput(1024)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = ntt.NaiveNegacyclic(x, y)
	}
}

func BenchmarkModMul(b *testing.B) {
	x := uint32(123456789)
	for i := 0; i < b.N; i++ {
		x = modq.Mul(x, 998244)
	}
	_ = x
}
