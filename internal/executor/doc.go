// Package executor validates and runs the bipartite dependency graph:
// collecting the reachable subgraph from a set of targets, checking
// bipartite alternation and acyclicity, and driving bounded-parallel
// execution with cooperative cancellation on failure.
package executor
