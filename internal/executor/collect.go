package executor

import (
	"github.com/brix-build/brix/internal/graph"
)

// collect walks predecessors depth-first from targets, returning the
// reachable subgraph as a set. It fails fast on the first bipartite
// violation or cycle, mirroring the reference collect_nodes: a
// recursion-stack ("visiting") membership check catches cycles on the
// back-edge, and nodes are validated before being added to the collected
// set.
func collect(targets []graph.Node) (map[graph.Node]struct{}, error) {
	collected := make(map[graph.Node]struct{})
	visiting := make(map[graph.Node]struct{})

	var visit func(n graph.Node) error
	visit = func(n graph.Node) error {
		if _, ok := visiting[n]; ok {
			return &CycleError{Node: n}
		}
		if _, ok := collected[n]; ok {
			return nil
		}

		if !graph.Bipartite(n) {
			return &StructuralError{Node: n, Msg: "predecessor/successor kind mismatch (bipartite alternation violated)"}
		}

		visiting[n] = struct{}{}
		for p := range n.Predecessors() {
			if err := visit(p); err != nil {
				return err
			}
		}
		delete(visiting, n)

		collected[n] = struct{}{}
		return nil
	}

	for _, t := range targets {
		if err := visit(t); err != nil {
			return nil, err
		}
	}
	return collected, nil
}
