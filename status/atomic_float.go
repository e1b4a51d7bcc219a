package status

import (
	"math"
	"sync/atomic"
)

// AtomicFloat is a float64 gauge stored as bits, zero value reads 0
type AtomicFloat struct {
	bits atomic.Uint64
}

func (f *AtomicFloat) Set(v float64) { f.bits.Store(math.Float64bits(v)) }

func (f *AtomicFloat) Get() float64 { return math.Float64frombits(f.bits.Load()) }

// Max raises the gauge to v if v is larger, returning the stored value
func (f *AtomicFloat) Max(v float64) float64 {
	for {
		old := f.bits.Load()
		cur := math.Float64frombits(old)
		if v <= cur {
			return cur
		}
		if f.bits.CompareAndSwap(old, math.Float64bits(v)) {
			return v
		}
	}
}
