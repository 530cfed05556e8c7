// Package graph defines the bipartite dependency graph that brix executes:
// Artifact nodes (typically Files) and Command nodes, alternating along
// every edge.
package graph
