package graph

// Node is the common interface implemented by every graph node: Artifacts
// (data, commonly files) and Commands (units of work). Identity is by
// pointer, not value — two distinct nodes with equal contents are distinct
// nodes, matching the way the reference implementation keyed node sets by
// object identity.
type Node interface {
	// Predecessors returns the live predecessor set. Callers must not
	// mutate the returned map directly; use AddPredecessors.
	Predecessors() map[Node]struct{}

	// Successors returns the live successor set.
	Successors() map[Node]struct{}

	addPredecessor(n Node)
	addSuccessor(n Node)
}

// edges is embedded by every concrete node type and carries the
// predecessor/successor sets plus the symmetric-insertion helpers.
type edges struct {
	preds map[Node]struct{}
	succs map[Node]struct{}
}

func newEdges() edges {
	return edges{
		preds: make(map[Node]struct{}),
		succs: make(map[Node]struct{}),
	}
}

func (e *edges) Predecessors() map[Node]struct{} { return e.preds }
func (e *edges) Successors() map[Node]struct{}   { return e.succs }

func (e *edges) addPredecessor(n Node) { e.preds[n] = struct{}{} }
func (e *edges) addSuccessor(n Node)   { e.succs[n] = struct{}{} }

// AddPredecessors inserts each of preds into node's predecessor set and
// inserts node into each pred's successor set. Idempotent: adding the same
// predecessor twice is a no-op because the underlying sets are maps.
func AddPredecessors(node Node, preds ...Node) {
	for _, p := range preds {
		node.addPredecessor(p)
		p.addSuccessor(node)
	}
}

// artifactNode is implemented by Artifact and, through embedding, by every
// specialization (File). Used to classify nodes without an exhaustive type
// switch over every specialization.
type artifactNode interface {
	Node
	Status() Status
	SetStatus(Status)
}

// IsArtifact reports whether n is an Artifact (or a specialization such as
// File).
func IsArtifact(n Node) bool {
	_, ok := n.(artifactNode)
	return ok
}

// IsCommand reports whether n is a Command.
func IsCommand(n Node) bool {
	_, ok := n.(*Command)
	return ok
}
