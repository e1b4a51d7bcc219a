package status

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMetricMapStablePointer(t *testing.T) {
	r := NewRegistry()
	a := r.Counters.Get("applied")
	a.Add(3)
	assert.Same(t, a, r.Counters.Get("applied"))
	assert.Equal(t, int64(3), r.Counters.Get("applied").Load())
	assert.True(t, r.Counters.Has("applied"))
	assert.False(t, r.Counters.Has("filtered"))
}

func TestSnapshotOrder(t *testing.T) {
	r := NewRegistry()
	r.Counters.Get("tick").Store(12)
	r.Counters.Get("applied").Store(4)
	r.Gauges.Get("max_speed").Set(2.5)
	r.Flags.Get("paused").Store(true)

	want := []Sample{
		{"applied", "4"},
		{"tick", "12"},
		{"max_speed", "2.500"},
		{"paused", "true"},
	}
	assert.Equal(t, want, r.Snapshot())
	assert.Equal(t, 4, r.TotalCount())
}

func TestAtomicFloatMaxConcurrent(t *testing.T) {
	var g AtomicFloat
	var wg sync.WaitGroup
	for i := range 50 {
		wg.Add(1)
		go func(v float64) {
			defer wg.Done()
			g.Max(v)
		}(float64(i))
	}
	wg.Wait()
	assert.Equal(t, 49.0, g.Get())
	assert.Equal(t, 49.0, g.Max(10))
}
