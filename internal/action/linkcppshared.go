package action

import (
	"context"
	"os/exec"
	"path/filepath"

	"github.com/brix-build/brix/internal/graph"
)

// LinkCppShared collects all .o predecessors and the single .so successor,
// invoking the compiler with -shared. Matches spec.md §4.5's bundled
// LinkCppShared action.
type LinkCppShared struct {
	Root     string
	Compiler string
}

func (a *LinkCppShared) Execute(ctx context.Context, cmd *graph.Command, predecessors, successors map[graph.Node]struct{}) error {
	objs := filesWithSuffix(predecessors, ".o")
	if len(objs) == 0 {
		return errMissing(".o files", "predecessors", cmd)
	}
	so := fileWithSuffix(successors, ".so")
	if so == nil {
		return errMissing(".so file", "successors", cmd)
	}

	compiler := a.Compiler
	if compiler == "" {
		compiler = "g++"
	}

	args := []string{"-shared"}
	for _, o := range objs {
		rel, err := filepath.Rel(a.Root, o.Path)
		if err != nil {
			return errRel(cmd, o.Path, err)
		}
		args = append(args, rel)
	}
	soRel, err := filepath.Rel(a.Root, so.Path)
	if err != nil {
		return errRel(cmd, so.Path, err)
	}
	args = append(args, "-o", soRel)

	c := exec.CommandContext(ctx, compiler, args...)
	c.Dir = a.Root
	out, err := c.CombinedOutput()
	if err != nil {
		return errRun(cmd, c.Args, err, out)
	}
	return nil
}
