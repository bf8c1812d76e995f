// Package plan sizes mesh entity pools against a memory budget.
//
// A Planner turns a budget in megabytes (1 MB = 2^20 bytes), the counts of
// entities already loaded from an input mesh, and the detected physical
// memory into a maximum capacity per entity kind.
//
// With no budget the planner falls back to per-kind defaults of 1.5x the
// loaded counts, bounded below by fixed floors. With a budget it converts the
// bytes into a vertex budget using the average cost of one vertex and its
// share of extended points, triangles and edges, following the configured
// topological ratios.
//
// A budget too small for the mesh that is already loaded is an error carrying
// the exact minimum that would work; the planner never truncates a mesh.
package plan
