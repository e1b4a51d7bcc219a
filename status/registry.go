// Package status holds process wide counters and gauges read by reports and the sandbox HUD.
package status

import (
	"strconv"
	"sync/atomic"
)

// Registry groups metrics by kind
// Writers cache the pointer from Get during setup and update atomics afterwards
type Registry struct {
	Counters *MetricMap[atomic.Int64]
	Gauges   *MetricMap[AtomicFloat]
	Flags    *MetricMap[atomic.Bool]
}

func NewRegistry() *Registry {
	return &Registry{
		Counters: NewMetricMap[atomic.Int64](),
		Gauges:   NewMetricMap[AtomicFloat](),
		Flags:    NewMetricMap[atomic.Bool](),
	}
}

// Sample is one formatted metric
type Sample struct {
	Key   string
	Value string
}

// Snapshot returns counters, then gauges, then flags, each in key order
func (r *Registry) Snapshot() []Sample {
	out := make([]Sample, 0, r.TotalCount())
	r.Counters.Range(func(k string, v *atomic.Int64) {
		out = append(out, Sample{k, strconv.FormatInt(v.Load(), 10)})
	})
	r.Gauges.Range(func(k string, v *AtomicFloat) {
		out = append(out, Sample{k, strconv.FormatFloat(v.Get(), 'f', 3, 64)})
	})
	r.Flags.Range(func(k string, v *atomic.Bool) {
		out = append(out, Sample{k, strconv.FormatBool(v.Load())})
	})
	return out
}

func (r *Registry) TotalCount() int {
	return r.Counters.Count() + r.Gauges.Count() + r.Flags.Count()
}
