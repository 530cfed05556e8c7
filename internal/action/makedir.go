package action

import (
	"context"
	"os"

	"golang.org/x/xerrors"

	"github.com/brix-build/brix/internal/graph"
)

// MakeDir creates the single File directory found among a command's
// successors, with parents included; an existing directory is not an
// error. Matches spec.md §4.5's bundled MakeDir action.
type MakeDir struct{}

func (a *MakeDir) Execute(ctx context.Context, cmd *graph.Command, predecessors, successors map[graph.Node]struct{}) error {
	var dir *graph.File
	for n := range successors {
		if f, ok := n.(*graph.File); ok {
			dir = f
			break
		}
	}
	if dir == nil {
		return errMissing("directory file", "successors", cmd)
	}

	if err := os.MkdirAll(dir.Path, 0o755); err != nil {
		return xerrors.Errorf("%s: mkdir %s: %w", cmd, dir.Path, err)
	}
	return nil
}
