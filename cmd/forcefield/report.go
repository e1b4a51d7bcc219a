package main

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/lixenwraith/forcefield/forcefield"
	"github.com/lixenwraith/forcefield/sim"
	"github.com/lixenwraith/forcefield/status"
)

// fieldTotals accumulates one field's stats across a run
type fieldTotals struct {
	name  string
	apply forcefield.ApplyType
	forcefield.Stats
}

// summary observes a simulation and prints a run report
type summary struct {
	fields  []fieldTotals
	index   map[string]int
	ticks   int64
	simTime time.Duration
	start   time.Time
}

func newSummary() *summary {
	return &summary{index: make(map[string]int), start: time.Now()}
}

// observe is registered with Simulation.OnTick
func (s *summary) observe(r sim.TickReport) {
	s.ticks++
	s.simTime = r.Now
	for _, fr := range r.Fields {
		i, ok := s.index[fr.Name]
		if !ok {
			i = len(s.fields)
			s.index[fr.Name] = i
			s.fields = append(s.fields, fieldTotals{name: fr.Name, apply: fr.Apply})
		}
		t := &s.fields[i]
		t.Candidates += fr.Stats.Candidates
		t.Filtered += fr.Stats.Filtered
		t.Skipped += fr.Stats.Skipped
		t.Applied += fr.Stats.Applied
	}
}

func (s *summary) write(w io.Writer, scenario string, endTick int64, reg *status.Registry) {
	fmt.Fprintf(w, "%s: %s ticks to tick %s, %s simulated in %s\n",
		scenario,
		humanize.Comma(s.ticks),
		humanize.Comma(endTick),
		s.simTime.Round(time.Millisecond),
		time.Since(s.start).Round(time.Millisecond),
	)

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "FIELD\tAPPLY\tCANDIDATES\tFILTERED\tSKIPPED\tAPPLIED")
	for _, t := range s.fields {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
			t.name, t.apply,
			humanize.Comma(int64(t.Candidates)),
			humanize.Comma(int64(t.Filtered)),
			humanize.Comma(int64(t.Skipped)),
			humanize.Comma(int64(t.Applied)),
		)
	}
	tw.Flush()

	if reg == nil {
		return
	}
	for _, smp := range reg.Snapshot() {
		fmt.Fprintf(w, "  %-20s %s\n", smp.Key, smp.Value)
	}
}
