package codec

import "vSIS-Codec/internal/debug"

func dbg(f string, a ...any) {
	debug.Printf(f, a...)
}
