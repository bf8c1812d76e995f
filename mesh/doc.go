// Package mesh owns the entity storage of one surface mesh.
//
// A mesh keeps its points, extended points, edges and triangles in
// fixed-capacity pools (see package pool). Initialize builds the pools from
// the capacities chosen by package plan and the entity counts an input
// reader has already loaded; Mesh wraps the pools with the create and delete
// operations used by remeshing code.
//
// Entities refer to each other by pool.ID only. Nothing outside this package
// holds a pointer into pool storage.
//
// # Optional Pools
//
// Extended points and edges are only needed for meshes that carry boundary
// data. Initialize allocates those pools only when the loaded mesh already
// uses them; EnableXPoints and EnableEdges create them later at their planned
// capacity.
package mesh
