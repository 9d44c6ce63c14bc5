// Package graph synthesizes the tunnel network graph: junction nodes placed
// by separation-aware rejection sampling, connected by a modified Prim's
// spanning tree that prefers connections which do not pass close to other
// connections. The result is an immutable Graph of node positions, a
// symmetric adjacency matrix and a symmetric weight matrix.
package graph
