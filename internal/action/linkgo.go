package action

import (
	"context"

	"github.com/brix-build/brix/internal/graph"
)

// LinkGo is a no-op passthrough for single-binary Go builds: Go's
// toolchain compiles and links in one step, so there's nothing left to do
// once CompileGo has produced the binary. It exists for API symmetry with
// the C++ action family (compile node -> link node -> final artifact),
// letting a Go target slot into the same command-chain shape as a C++
// target without special-casing the executor or graph construction.
type LinkGo struct{}

func (a *LinkGo) Execute(ctx context.Context, cmd *graph.Command, predecessors, successors map[graph.Node]struct{}) error {
	return nil
}
