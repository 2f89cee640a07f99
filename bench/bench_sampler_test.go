package bench

import (
	"testing"

	"vSIS-Codec/sampler"
)

func BenchmarkGaussian(b *testing.B) {
	seed := sampler.DeriveSeed("bench-gaussian")
	opts := &sampler.GaussianOpts{Length: 1024, Sigma: 2, TailBound: 6}
	for i := 0; i < b.N; i++ {
		if _, err := sampler.Gaussian(seed, opts); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkBoundedFromPRNG(b *testing.B) {
	prng, err := sampler.NewPRNG(sampler.DeriveSeed("bench-bounded"))
	if err != nil {
		b.Fatal(err)
	}
	for i := 0; i < b.N; i++ {
		if _, err := sampler.BoundedFromPRNG(prng, 1024, sampler.Bounds{Min: -7, Max: 7}); err != nil {
			b.Fatal(err)
		}
	}
}
