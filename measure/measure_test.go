package measure

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRecorderAccumulates(t *testing.T) {
	r := NewRecorder()
	r.Add("codec/sparse/header", 40)
	r.Add("codec/sparse/header", 2)
	r.Add("codec/sparse/values", 0)
	r.Add("codec/sparse/values", -3)
	assert.Equal(t, uint64(42), r.Get("codec/sparse/header"))
	assert.Equal(t, map[string]uint64{"codec/sparse/header": 42}, r.Snapshot())

	snap := r.SnapshotAndReset()
	assert.Equal(t, uint64(42), snap["codec/sparse/header"])
	assert.Empty(t, r.Snapshot())
}

func TestNilRecorderIsInert(t *testing.T) {
	var r *Recorder
	assert.False(t, r.Enabled())
	r.Add("x", 5)
	assert.Equal(t, uint64(0), r.Get("x"))
	assert.Empty(t, r.SnapshotAndReset())
}

func TestZeroValueRecorder(t *testing.T) {
	var r Recorder
	r.Add("a", 1)
	assert.Equal(t, uint64(1), r.Get("a"))
}

func TestConcurrentAdds(t *testing.T) {
	r := NewRecorder()
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 1000; j++ {
				r.Add("n", 1)
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, uint64(8000), r.Get("n"))
}

func TestKeysAndBytes(t *testing.T) {
	assert.Equal(t, []string{"a", "b", "c"}, Keys(map[string]uint64{"c": 1, "a": 2, "b": 3}))
	assert.Equal(t, uint64(0), BytesForBits(0))
	assert.Equal(t, uint64(1), BytesForBits(1))
	assert.Equal(t, uint64(2), BytesForBits(9))
}
