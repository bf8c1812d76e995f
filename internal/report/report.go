// Package report renders pool sizing and usage for humans.
package report

import (
	"io"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/joshuapare/meshkit/mesh"
	"github.com/joshuapare/meshkit/mesh/plan"
)

// Sizes writes the planned budget and per-kind maxima. detected is the host
// memory in bytes, 0 when unknown.
func Sizes(w io.Writer, caps plan.Capacities, detected uint64) error {
	p := message.NewPrinter(language.English)

	rows := []struct {
		label string
		value int64
	}{
		{"MAXIMUM MEMORY AUTHORIZED (MB)", caps.BudgetMB()},
		{"MAXIMUM NUMBER OF POINTS", int64(caps.Points)},
		{"MAXIMUM NUMBER OF XPOINTS", int64(caps.XPoints)},
		{"MAXIMUM NUMBER OF TRIANGLES", int64(caps.Triangles)},
		{"MAXIMUM NUMBER OF EDGES", int64(caps.Edges)},
	}

	if detected > 0 {
		if _, err := p.Fprintf(w, "  %-34s %d\n", "DETECTED MEMORY (MB)", detected/plan.MB); err != nil {
			return err
		}
	} else {
		if _, err := p.Fprintf(w, "  %-34s %s\n", "DETECTED MEMORY (MB)", "unknown"); err != nil {
			return err
		}
	}
	for _, r := range rows {
		if _, err := p.Fprintf(w, "  %-34s %d\n", r.label, r.value); err != nil {
			return err
		}
	}
	if caps.Defaulted {
		if _, err := p.Fprintf(w, "  (default capacities, no budget requested)\n"); err != nil {
			return err
		}
	}
	return nil
}

// Usage writes one line per pool with live count, capacity, high-water mark
// and storage size.
func Usage(w io.Writer, stats []mesh.PoolStats) error {
	p := message.NewPrinter(language.English)
	if _, err := p.Fprintf(w, "  %-9s %12s %12s %12s %14s\n",
		"POOL", "LIVE", "CAPACITY", "HIGH-WATER", "BYTES"); err != nil {
		return err
	}
	for _, s := range stats {
		if !s.Enabled {
			if _, err := p.Fprintf(w, "  %-9s %12s\n", s.Kind, "disabled"); err != nil {
				return err
			}
			continue
		}
		if _, err := p.Fprintf(w, "  %-9s %12d %12d %12d %14d\n",
			s.Kind, s.Live, s.Capacity, s.HighWater, s.Bytes); err != nil {
			return err
		}
	}
	return nil
}
