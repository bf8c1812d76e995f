/*
Package meshkit sizes and allocates the entity storage of a surface mesh in
one call.

# Quick Start

Build storage for a mesh whose reader already parsed 12,000 points and
23,900 triangles, with an automatic memory budget:

	res, err := meshkit.Build(plan.Counts{Points: 12000, Triangles: 23900}, nil)
	if err != nil {
	    log.Fatal(err)
	}
	m := res.Mesh

Ask for a specific budget:

	res, err := meshkit.Build(loaded, &meshkit.Options{BudgetMB: 512})

# Pipeline

Build runs three steps:

 1. probe the host memory (memprobe.Default unless Options.Probe is set)
 2. plan capacities against the budget (plan.Planner)
 3. allocate the pools (mesh.Initialize)

# Error Handling

A budget too small for the loaded mesh fails with *plan.InsufficientMemoryError,
whose MinimumMB field is a budget that will succeed:

	var ime *plan.InsufficientMemoryError
	if errors.As(err, &ime) {
	    res, err = meshkit.Build(loaded, &meshkit.Options{BudgetMB: ime.MinimumMB})
	}

Storage that cannot be allocated fails with *mesh.OutOfMemoryError.
*/
package meshkit
