package meshkit

import (
	"log/slog"

	"github.com/joshuapare/meshkit/mesh"
	"github.com/joshuapare/meshkit/mesh/memprobe"
	"github.com/joshuapare/meshkit/mesh/plan"
)

// Options configures Build.
type Options struct {
	// BudgetMB is the requested memory budget in megabytes.
	// Zero or negative selects the automatic budget.
	BudgetMB int64

	// Probe reports the host memory.
	// If nil, memprobe.Default() is used.
	Probe memprobe.Probe

	// Planner overrides the planner configuration.
	// If nil, mesh.PlanConfig() is used.
	Planner *plan.Config

	// Logger receives planner and mesh diagnostics.
	// If nil, diagnostics are discarded.
	Logger *slog.Logger
}

func (o *Options) withDefaults() Options {
	var out Options
	if o != nil {
		out = *o
	}
	if out.Probe == nil {
		out.Probe = memprobe.Default()
	}
	if out.Planner == nil {
		cfg := mesh.PlanConfig()
		out.Planner = &cfg
	}
	return out
}
