package main

import (
	"errors"
	"fmt"
	"math/rand"
	"os"

	"github.com/spf13/cobra"

	"github.com/joshuapare/meshkit/internal/report"
	"github.com/joshuapare/meshkit/mesh"
	"github.com/joshuapare/meshkit/mesh/plan"
	"github.com/joshuapare/meshkit/mesh/pool"
	"github.com/joshuapare/meshkit/pkg/meshkit"
)

var (
	churnMem    int64
	churnOps    int
	churnSeed   int64
	churnLoaded plan.Counts
)

func init() {
	cmd := newChurnCmd()
	cmd.Flags().Int64Var(&churnMem, "mem", 0, "Memory budget in MB (0 = automatic)")
	cmd.Flags().IntVar(&churnOps, "ops", 10000, "Number of random operations")
	cmd.Flags().Int64Var(&churnSeed, "seed", 1, "Random seed")
	addCountFlags(cmd, &churnLoaded)
	rootCmd.AddCommand(cmd)
}

func newChurnCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "churn",
		Short: "Run a random create/delete workload against fresh pools",
		Long: `The churn command plans and allocates pools, then creates and deletes
points, triangles and edges at random, the way a remeshing pass would. It
also replays some deletes of ids that are already gone, which must be
rejected without harm. At the end every pool is checked for free-list
consistency.

Example:
  meshctl churn --mem 64 --ops 100000
  meshctl churn --points 5000 --triangles 9990 --seed 7 --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runChurn(budget(cmd, churnMem), churnLoaded, churnOps, churnSeed)
		},
	}
}

type churnStats struct {
	Ops       int              `json:"ops"`
	Created   int              `json:"created"`
	Deleted   int              `json:"deleted"`
	Exhausted int              `json:"exhausted"`
	Rejected  int              `json:"rejected"`
	Pools     []mesh.PoolStats `json:"pools"`
}

func runChurn(budgetMB int64, loaded plan.Counts, ops int, seed int64) error {
	cfg := appConfig.Plan(mesh.PlanConfig())
	res, err := meshkit.Build(loaded, &meshkit.Options{
		BudgetMB: budgetMB,
		Probe:    probe(),
		Planner:  &cfg,
		Logger:   appLog,
	})
	if err != nil {
		return err
	}
	printVerbose("Planned %d MB: %d points, %d triangles, %d edges\n",
		res.Capacities.BudgetMB(), res.Capacities.Points,
		res.Capacities.Triangles, res.Capacities.Edges)

	st, err := churn(res.Mesh, loaded, ops, rand.New(rand.NewSource(seed)))
	if err != nil {
		return err
	}

	if jsonOut {
		return printJSON(st)
	}
	printInfo("ops %d, created %d, deleted %d, exhausted %d, rejected %d\n",
		st.Ops, st.Created, st.Deleted, st.Exhausted, st.Rejected)
	if quiet {
		return nil
	}
	return report.Usage(os.Stdout, st.Pools)
}

// churn applies ops random operations to m and verifies the pools.
func churn(m *mesh.Mesh, loaded plan.Counts, ops int, rng *rand.Rand) (*churnStats, error) {
	if err := m.Pools().EnableEdges(); err != nil {
		return nil, err
	}

	points := preloaded(loaded.Points)
	tris := preloaded(loaded.Triangles)
	edges := preloaded(loaded.Edges)
	gone := pool.Nil // last deleted triangle, replayed as an invalid delete

	st := &churnStats{Ops: ops}
	created := func(id mesh.ID, list *[]mesh.ID) {
		if id == pool.Nil {
			st.Exhausted++
			return
		}
		*list = append(*list, id)
		st.Created++
	}

	for range ops {
		switch op := rng.Intn(10); {
		case op < 3:
			c := [3]float64{rng.Float64(), rng.Float64(), rng.Float64()}
			created(m.NewPoint(c, 0, 0), &points)

		case op < 6:
			if len(points) < 3 {
				continue
			}
			if !m.HasFreeTriangles(1) {
				st.Exhausted++
				continue
			}
			v := [3]mesh.ID{pick(rng, points), pick(rng, points), pick(rng, points)}
			created(m.NewTriangle(v, 0), &tris)

		case op < 7:
			if len(points) < 2 {
				continue
			}
			id, err := m.NewEdge(pick(rng, points), pick(rng, points), 0, mesh.TagBoundary)
			if err != nil {
				return nil, err
			}
			created(id, &edges)

		case op < 9:
			if id, ok := take(rng, &tris); ok {
				if err := m.DelTriangle(id); err != nil {
					return nil, err
				}
				gone = id
				st.Deleted++
			} else if id, ok := take(rng, &points); ok {
				if err := m.DelPoint(id); err != nil {
					return nil, err
				}
				st.Deleted++
			}

		default:
			// Once reused, the id is valid again.
			if gone == pool.Nil {
				continue
			}
			if _, live := m.Triangle(gone); live {
				continue
			}
			err := m.DelTriangle(gone)
			if !errors.Is(err, pool.ErrInvalidEntity) {
				return nil, fmt.Errorf("delete of dead triangle %d: got %v", gone, err)
			}
			st.Rejected++
		}
	}

	if err := m.Pools().Verify(); err != nil {
		return nil, err
	}
	st.Pools = m.Pools().Stats()
	return st, nil
}

func preloaded(n int) []mesh.ID {
	ids := make([]mesh.ID, n)
	for i := range ids {
		ids[i] = mesh.ID(i + 1)
	}
	return ids
}

func pick(rng *rand.Rand, ids []mesh.ID) mesh.ID {
	return ids[rng.Intn(len(ids))]
}

// take removes and returns a random id from ids.
func take(rng *rand.Rand, ids *[]mesh.ID) (mesh.ID, bool) {
	s := *ids
	if len(s) == 0 {
		return pool.Nil, false
	}
	i := rng.Intn(len(s))
	id := s[i]
	s[i] = s[len(s)-1]
	*ids = s[:len(s)-1]
	return id, true
}
