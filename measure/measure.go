// Package measure accumulates named size counters. The codec pipelines
// report how many bits each section of an encoded blob took (header,
// positions, values) into a Recorder supplied through their options.
package measure

import (
	"sort"
	"sync"
)

// Recorder is a set of named counters. The zero value is ready to use and a
// nil *Recorder silently drops every update.
type Recorder struct {
	mu sync.Mutex
	m  map[string]uint64
}

// NewRecorder returns an empty recorder.
func NewRecorder() *Recorder {
	return &Recorder{m: make(map[string]uint64)}
}

// Enabled reports whether updates on r are kept.
func (r *Recorder) Enabled() bool { return r != nil }

// Add increases the counter called name by n. Non-positive n is ignored.
func (r *Recorder) Add(name string, n int64) {
	if r == nil || n <= 0 {
		return
	}
	r.mu.Lock()
	if r.m == nil {
		r.m = make(map[string]uint64)
	}
	r.m[name] += uint64(n)
	r.mu.Unlock()
}

// Get returns the current value of one counter.
func (r *Recorder) Get(name string) uint64 {
	if r == nil {
		return 0
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.m[name]
}

// Snapshot returns a copy of every counter.
func (r *Recorder) Snapshot() map[string]uint64 {
	out := make(map[string]uint64)
	if r == nil {
		return out
	}
	r.mu.Lock()
	for k, v := range r.m {
		out[k] = v
	}
	r.mu.Unlock()
	return out
}

// SnapshotAndReset returns every counter and clears the recorder.
func (r *Recorder) SnapshotAndReset() map[string]uint64 {
	if r == nil {
		return make(map[string]uint64)
	}
	r.mu.Lock()
	out := r.m
	r.m = make(map[string]uint64)
	r.mu.Unlock()
	if out == nil {
		out = make(map[string]uint64)
	}
	return out
}

// Keys returns the sorted counter names of a snapshot.
func Keys(snap map[string]uint64) []string {
	keys := make([]string, 0, len(snap))
	for k := range snap {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// BytesForBits rounds a bit count up to whole bytes.
func BytesForBits(bits uint64) uint64 {
	return (bits + 7) / 8
}
