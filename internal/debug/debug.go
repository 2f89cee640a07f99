// Package debug holds the process-wide trace switch shared by the codec,
// NTT and sampler packages. Tracing is off until SetOutput is called with a
// non-nil writer.
package debug

import (
	"fmt"
	"io"
	"sync/atomic"
)

type sink struct {
	w io.Writer
}

var current atomic.Value

func init() {
	current.Store(sink{})
}

// SetOutput routes trace lines to w. A nil writer turns tracing off.
func SetOutput(w io.Writer) {
	current.Store(sink{w: w})
}

// Enabled reports whether trace output is currently routed anywhere.
func Enabled() bool {
	return current.Load().(sink).w != nil
}

// Printf writes one formatted trace line when tracing is on.
func Printf(f string, a ...any) {
	s := current.Load().(sink)
	if s.w == nil {
		return
	}
	fmt.Fprintf(s.w, f, a...)
}
