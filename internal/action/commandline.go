package action

import (
	"context"
	"os/exec"

	"github.com/brix-build/brix/internal/graph"
)

// CommandLine runs an arbitrary shell string in Dir. Success is exit status
// 0, matching spec.md §4.5's bundled CommandLine action.
type CommandLine struct {
	Command string
	Dir     string
}

func (a *CommandLine) Execute(ctx context.Context, cmd *graph.Command, predecessors, successors map[graph.Node]struct{}) error {
	c := exec.CommandContext(ctx, "/bin/sh", "-c", a.Command)
	c.Dir = a.Dir
	out, err := c.CombinedOutput()
	if err != nil {
		return errRun(cmd, a.Command, err, out)
	}
	return nil
}
