package main

import (
	"errors"
	"os"

	"github.com/spf13/cobra"

	"github.com/joshuapare/meshkit/internal/report"
	"github.com/joshuapare/meshkit/mesh"
	"github.com/joshuapare/meshkit/mesh/memprobe"
	"github.com/joshuapare/meshkit/mesh/plan"
)

var (
	planMem    int64
	planLoaded plan.Counts
)

func init() {
	cmd := newPlanCmd()
	cmd.Flags().Int64Var(&planMem, "mem", 0, "Memory budget in MB (0 = automatic)")
	addCountFlags(cmd, &planLoaded)
	rootCmd.AddCommand(cmd)
}

// addCountFlags registers the loaded-entity count flags shared by commands.
func addCountFlags(cmd *cobra.Command, c *plan.Counts) {
	cmd.Flags().IntVar(&c.Points, "points", 0, "Points already loaded")
	cmd.Flags().IntVar(&c.XPoints, "xpoints", 0, "Extended points already loaded")
	cmd.Flags().IntVar(&c.Triangles, "triangles", 0, "Triangles already loaded")
	cmd.Flags().IntVar(&c.Edges, "edges", 0, "Edges already loaded")
}

func newPlanCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Compute pool capacities for a memory budget",
		Long: `The plan command computes the maximum number of points, extended
points, triangles and edges that fit in a memory budget, for a mesh that
already holds the given counts.

Example:
  meshctl plan
  meshctl plan --mem 512 --points 120000 --triangles 239000
  meshctl plan --mem 64 --points 900000 --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPlan(budget(cmd, planMem), planLoaded)
		},
	}
	return cmd
}

type planOutput struct {
	Capacities    plan.Capacities `json:"capacities"`
	DetectedBytes uint64          `json:"detected_bytes"`
	VertexBytes   int64           `json:"vertex_bytes"`
	MinimumMB     int64           `json:"minimum_mb"`
}

func runPlan(budgetMB int64, loaded plan.Counts) error {
	planner, err := newPlanner(mesh.PlanConfig())
	if err != nil {
		return err
	}

	printVerbose("Probing host memory\n")
	detected := memprobe.Detect(probe(), appLog)

	caps, err := planner.Compute(budgetMB, loaded, detected)
	if err != nil {
		var ime *plan.InsufficientMemoryError
		if errors.As(err, &ime) {
			printError("asking for %d MB of memory is not enough to load the mesh, you need at least %d MB\n",
				ime.RequestedMB, ime.MinimumMB)
		}
		return err
	}

	if jsonOut {
		return printJSON(planOutput{
			Capacities:    caps,
			DetectedBytes: detected,
			VertexBytes:   planner.Config().VertexBytes(),
			MinimumMB:     planner.MinimumMB(loaded),
		})
	}
	if quiet {
		return nil
	}
	return report.Sizes(os.Stdout, caps, detected)
}
