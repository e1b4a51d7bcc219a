package forcefield

import (
	"context"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
)

const instrumentationName = "github.com/lixenwraith/forcefield/forcefield"

type fieldMetrics struct {
	candidates metric.Int64Counter
	filtered   metric.Int64Counter
	skipped    metric.Int64Counter
	applied    metric.Int64Counter
	attrs      metric.AddOption
}

// newFieldMetrics registers counters on m, or the global meter when m is nil
// Registration failure falls back to no-op instruments
func newFieldMetrics(m metric.Meter, name string, log zerolog.Logger) *fieldMetrics {
	if m == nil {
		m = otel.Meter(instrumentationName)
	}
	fm := &fieldMetrics{
		attrs: metric.WithAttributeSet(attribute.NewSet(attribute.String("field", name))),
	}

	var err error
	if fm.candidates, err = m.Int64Counter("forcefield.candidates",
		metric.WithDescription("Actors returned by the broadphase query")); err != nil {
		return noopFieldMetrics(fm, log, err)
	}
	if fm.filtered, err = m.Int64Counter("forcefield.filtered",
		metric.WithDescription("Candidates rejected by class, whitelist or ragdoll rules")); err != nil {
		return noopFieldMetrics(fm, log, err)
	}
	if fm.skipped, err = m.Int64Counter("forcefield.skipped",
		metric.WithDescription("Accepted candidates outside the zone or without a usable direction")); err != nil {
		return noopFieldMetrics(fm, log, err)
	}
	if fm.applied, err = m.Int64Counter("forcefield.applied",
		metric.WithDescription("Candidates that received force, velocity or impulse")); err != nil {
		return noopFieldMetrics(fm, log, err)
	}
	return fm
}

func noopFieldMetrics(fm *fieldMetrics, log zerolog.Logger, err error) *fieldMetrics {
	log.Warn().Err(err).Msg("metric registration failed, field metrics disabled")
	m := noop.NewMeterProvider().Meter(instrumentationName)
	fm.candidates, _ = m.Int64Counter("forcefield.candidates")
	fm.filtered, _ = m.Int64Counter("forcefield.filtered")
	fm.skipped, _ = m.Int64Counter("forcefield.skipped")
	fm.applied, _ = m.Int64Counter("forcefield.applied")
	return fm
}

func (fm *fieldMetrics) record(s Stats) {
	ctx := context.Background()
	fm.candidates.Add(ctx, int64(s.Candidates), fm.attrs)
	fm.filtered.Add(ctx, int64(s.Filtered), fm.attrs)
	fm.skipped.Add(ctx, int64(s.Skipped), fm.attrs)
	fm.applied.Add(ctx, int64(s.Applied), fm.attrs)
}
