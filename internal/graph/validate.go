package graph

// Bipartite reports whether every predecessor and successor of n is of the
// opposite kind (Artifact predecessors/successors for a Command, and vice
// versa). It does not recurse; callers walk the graph themselves (see
// internal/executor, which needs to interleave this check with cycle
// detection during a single DFS pass).
func Bipartite(n Node) bool {
	switch n.(type) {
	case *Command:
		for p := range n.Predecessors() {
			if !IsArtifact(p) {
				return false
			}
		}
		for s := range n.Successors() {
			if !IsArtifact(s) {
				return false
			}
		}
		return true
	default:
		if !IsArtifact(n) {
			return false
		}
		for p := range n.Predecessors() {
			if !IsCommand(p) {
				return false
			}
		}
		for s := range n.Successors() {
			if !IsCommand(s) {
				return false
			}
		}
		return true
	}
}
