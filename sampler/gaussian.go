package sampler

import (
	"errors"
	"fmt"
	"math"
)

var (
	// ErrInvalidOpts reports a negative length, σ or tail bound.
	ErrInvalidOpts = errors.New("sampler: invalid options")
	// ErrTooManyRejections reports a tail bound so tight that no pair was
	// accepted within MaxRedraws consecutive attempts.
	ErrTooManyRejections = errors.New("sampler: tail bound rejects every draw")
)

// MaxRedraws caps consecutive rejected pairs.
const MaxRedraws = 1 << 16

// GaussianOpts configures Gaussian. Zero fields take the defaults of
// ApplyDefaults.
type GaussianOpts struct {
	Length    int     // number of outputs (default 64)
	Mean      float64 // centre
	Sigma     float64 // standard deviation (default 1)
	TailBound float64 // reject pairs beyond Mean ± TailBound·Sigma; 0 disables
}

// ApplyDefaults fills unset fields.
func (o *GaussianOpts) ApplyDefaults() {
	if o.Length == 0 {
		o.Length = 64
	}
	if o.Sigma == 0 {
		o.Sigma = 1
	}
}

// Validate rejects negative or non-finite settings.
func (o *GaussianOpts) Validate() error {
	switch {
	case o.Length < 0:
		return fmt.Errorf("%w: length %d", ErrInvalidOpts, o.Length)
	case !(o.Sigma > 0) || math.IsInf(o.Sigma, 0):
		return fmt.Errorf("%w: sigma %v", ErrInvalidOpts, o.Sigma)
	case o.TailBound < 0 || math.IsNaN(o.TailBound) || math.IsInf(o.TailBound, 0):
		return fmt.Errorf("%w: tail bound %v", ErrInvalidOpts, o.TailBound)
	case math.IsNaN(o.Mean) || math.IsInf(o.Mean, 0):
		return fmt.Errorf("%w: mean %v", ErrInvalidOpts, o.Mean)
	}
	return nil
}

// Gaussian draws opts.Length rounded samples of N(Mean, Sigma²) from a
// xoshiro256** stream keyed by seed. Samples come in Box–Muller pairs; with
// a tail bound a pair is redrawn whole when either member falls outside.
func Gaussian(seed [32]byte, opts *GaussianOpts) ([]int64, error) {
	var o GaussianOpts
	if opts != nil {
		o = *opts
	}
	o.ApplyDefaults()
	if err := o.Validate(); err != nil {
		return nil, err
	}
	rng := NewXoshiro256(seed)
	out := make([]int64, 0, o.Length+1)
	lo, hi := o.Mean-o.TailBound*o.Sigma, o.Mean+o.TailBound*o.Sigma
	rejected := 0
	for len(out) < o.Length {
		z0, z1 := boxMuller(rng.unit(), rng.unit())
		x0, x1 := o.Mean+o.Sigma*z0, o.Mean+o.Sigma*z1
		if o.TailBound > 0 && (x0 < lo || x0 > hi || x1 < lo || x1 > hi) {
			rejected++
			if rejected > MaxRedraws {
				return nil, fmt.Errorf("%w: bound %v", ErrTooManyRejections, o.TailBound)
			}
			continue
		}
		rejected = 0
		out = append(out, RoundAwayFromZero(x0), RoundAwayFromZero(x1))
	}
	dbg("[Gaussian] n=%d mean=%v sigma=%v bound=%v\n", o.Length, o.Mean, o.Sigma, o.TailBound)
	return out[:o.Length], nil
}

func boxMuller(u1, u2 float64) (float64, float64) {
	r := math.Sqrt(-2 * math.Log(u1))
	theta := 2 * math.Pi * u2
	return r * math.Cos(theta), r * math.Sin(theta)
}

// RoundAwayFromZero rounds to the nearest integer, ties away from zero.
func RoundAwayFromZero(x float64) int64 {
	if math.IsNaN(x) {
		return 0
	}
	if x >= 0 {
		return int64(math.Floor(x + 0.5))
	}
	return -int64(math.Floor(-x + 0.5))
}
