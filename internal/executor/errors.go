package executor

import (
	"fmt"
	"strings"

	"golang.org/x/xerrors"

	"github.com/brix-build/brix/internal/graph"
)

// ArgumentError is returned synchronously when Execute is called with no
// targets.
type ArgumentError struct {
	Msg string
}

func (e *ArgumentError) Error() string {
	return xerrors.Errorf("%s", e.Msg).Error()
}

// CycleError is returned synchronously when a cycle is detected while
// collecting the reachable subgraph, naming the offending node.
type CycleError struct {
	Node graph.Node
}

func (e *CycleError) Error() string {
	return xerrors.Errorf("cycle detected involving %v", e.Node).Error()
}

// StructuralError is returned synchronously when a bipartite-alternation
// violation (an Artifact-Artifact or Command-Command edge) is found while
// collecting the reachable subgraph.
type StructuralError struct {
	Node graph.Node
	Msg  string
}

func (e *StructuralError) Error() string {
	return xerrors.Errorf("invalid graph structure at %v: %s", e.Node, e.Msg).Error()
}

// BuildFailedError is returned after quiescence once an action has
// returned a non-nil error. It wraps the first action error observed.
type BuildFailedError struct {
	Node graph.Node
	Err  error
}

func (e *BuildFailedError) Error() string {
	return xerrors.Errorf("build failed at %v: %w", e.Node, e.Err).Error()
}

func (e *BuildFailedError) Unwrap() error { return e.Err }

// IncompleteError is returned when, after the dispatch loop quiesces
// without a latched failure, some collected node was never completed —
// indicating a bug in graph construction or the executor itself.
type IncompleteError struct {
	Unprocessed []nodeState
}

type nodeState struct {
	Node     graph.Node
	InDegree int
}

func (e *IncompleteError) Error() string {
	var b strings.Builder
	for _, u := range e.Unprocessed {
		fmt.Fprintf(&b, "  %v: in_degree=%d\n", u.Node, u.InDegree)
	}
	return xerrors.Errorf("execution incomplete: possible graph inconsistency, %d unprocessed node(s):\n%s", len(e.Unprocessed), b.String()).Error()
}

func wrap(format string, args ...interface{}) error {
	return xerrors.Errorf(format, args...)
}
