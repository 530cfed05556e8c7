package graph

import "context"

// Action is the contract a Command's attached work must satisfy. Execute
// inspects predecessors for the inputs it needs, performs effects in the
// external world, and updates successors — but never mutates artifact
// status/digest metadata itself; that is the conditional wrapper's job
// (see package action).
//
// Execute returns nil on success and a non-nil error on failure. A non-nil
// return aborts the build (the executor's failure latch).
type Action interface {
	Execute(ctx context.Context, cmd *Command, predecessors, successors map[Node]struct{}) error
}
