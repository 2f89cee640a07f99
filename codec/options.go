package codec

import (
	"fmt"

	"vSIS-Codec/measure"
)

const (
	// DefaultSparseTotal is the rANS normalisation total of the sparse-batch
	// pipeline.
	DefaultSparseTotal = 256
	// DefaultDenseTotal is the rANS normalisation total of the dense-batch
	// pipeline. The extra precision suits concentrated distributions.
	DefaultDenseTotal = 1024
)

// Options configures the pipelines. A nil *Options means defaults. Encoder
// and decoder must agree on SparseTotal and DenseTotal; they are not stored
// in the blob.
type Options struct {
	SparseTotal uint32 // 256, 1024 or 4096
	DenseTotal  uint32 // 256, 1024 or 4096
	// Measure, when set, receives the bit size of every blob section under
	// "codec/<pipeline>/<section>".
	Measure *measure.Recorder
}

// ApplyDefaults fills unset fields.
func (o *Options) ApplyDefaults() {
	if o.SparseTotal == 0 {
		o.SparseTotal = DefaultSparseTotal
	}
	if o.DenseTotal == 0 {
		o.DenseTotal = DefaultDenseTotal
	}
}

// Validate checks that both totals are supported.
func (o *Options) Validate() error {
	for _, m := range []uint32{o.SparseTotal, o.DenseTotal} {
		if !validTotal(m) {
			return fmt.Errorf("%w: normalisation total %d not in {256,1024,4096}", ErrInvalidArgument, m)
		}
	}
	return nil
}

func resolveOptions(opts *Options) (Options, error) {
	var o Options
	if opts != nil {
		o = *opts
	}
	o.ApplyDefaults()
	if err := o.Validate(); err != nil {
		return Options{}, err
	}
	return o, nil
}

// sizes tracks section sizes of one blob and reports them on commit.
type sizes struct {
	rec      *measure.Recorder
	pipeline string
	marks    []section
}

type section struct {
	name string
	bits int
}

func newSizes(o Options, pipeline string) *sizes {
	return &sizes{rec: o.Measure, pipeline: pipeline}
}

func (s *sizes) add(name string, bits int) {
	if s.rec == nil {
		return
	}
	s.marks = append(s.marks, section{name, bits})
}

func (s *sizes) commit(totalBytes int) {
	if s.rec == nil {
		return
	}
	prefix := "codec/" + s.pipeline + "/"
	for _, m := range s.marks {
		s.rec.Add(prefix+m.name, int64(m.bits))
	}
	s.rec.Add(prefix+"total", int64(totalBytes)*8)
	s.rec.Add(prefix+"blobs", 1)
}
