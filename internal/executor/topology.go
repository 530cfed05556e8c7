package executor

import (
	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/topo"

	"github.com/brix-build/brix/internal/graph"
)

// checkAcyclic builds a gonum directed graph mirroring the collected
// node set and runs topo.Sort over it as a second, independent
// acyclicity check alongside the recursion-stack check in collect. The
// batch scheduler in the teacher codebase leans on the same
// belt-and-suspenders pattern: a hand-rolled traversal plus
// topo.Sort/Unorderable for the authoritative cycle diagnostic.
func checkAcyclic(nodes map[graph.Node]struct{}) error {
	g := simple.NewDirectedGraph()

	ids := make(map[graph.Node]int64, len(nodes))
	var next int64
	idOf := func(n graph.Node) int64 {
		if id, ok := ids[n]; ok {
			return id
		}
		id := next
		next++
		ids[n] = id
		g.AddNode(simple.Node(id))
		return id
	}

	for n := range nodes {
		from := idOf(n)
		for s := range n.Successors() {
			if _, ok := nodes[s]; !ok {
				continue
			}
			to := idOf(s)
			if from == to {
				continue
			}
			g.SetEdge(g.NewEdge(simple.Node(from), simple.Node(to)))
		}
	}

	if _, err := topo.Sort(g); err != nil {
		if unordered, ok := err.(topo.Unorderable); ok && len(unordered) > 0 && len(unordered[0]) > 0 {
			for n, id := range ids {
				if id == unordered[0][0].ID() {
					return &CycleError{Node: n}
				}
			}
		}
		return wrap("topological sort failed: %w", err)
	}
	return nil
}
