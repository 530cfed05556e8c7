// Package brix implements a small incremental build engine: a bipartite
// dependency graph of artifacts and commands, a digest-based cache that
// classifies artifacts as Unchanged/Created/Modified/Deleted, and a
// bounded-parallel executor that runs only the commands touched by a
// change.
package brix
