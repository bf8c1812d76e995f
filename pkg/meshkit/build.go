package meshkit

import (
	"fmt"

	"github.com/joshuapare/meshkit/mesh"
	"github.com/joshuapare/meshkit/mesh/memprobe"
	"github.com/joshuapare/meshkit/mesh/plan"
)

// Result is the outcome of Build.
type Result struct {
	Mesh       *mesh.Mesh
	Capacities plan.Capacities

	// DetectedBytes is the host memory the plan was made against, 0 when
	// the probe could not tell.
	DetectedBytes uint64
}

// Build probes the host memory, plans capacities for a mesh with the given
// loaded counts and allocates its pools. Ids 1..loaded[kind] of each pool are
// live on return, ready for the reader to fill.
func Build(loaded plan.Counts, opts *Options) (*Result, error) {
	o := opts.withDefaults()

	planner, err := plan.New(*o.Planner, o.Logger)
	if err != nil {
		return nil, fmt.Errorf("meshkit: %w", err)
	}

	detected := memprobe.Detect(o.Probe, o.Logger)

	caps, err := planner.Compute(o.BudgetMB, loaded, detected)
	if err != nil {
		return nil, err
	}

	pools, err := mesh.Initialize(caps, loaded)
	if err != nil {
		return nil, err
	}

	return &Result{
		Mesh:          mesh.New(pools, o.Logger),
		Capacities:    caps,
		DetectedBytes: detected,
	}, nil
}
