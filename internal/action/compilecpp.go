package action

import (
	"context"
	"os/exec"
	"path/filepath"

	"github.com/brix-build/brix/internal/graph"
)

// CompileCpp selects the single .cpp predecessor and the single .o
// successor and runs the C++ compiler with -c ... -o ... -fPIC in Root.
// Matches spec.md §4.5's bundled CompileCpp action.
type CompileCpp struct {
	Root     string
	Compiler string // defaults to "g++"
}

func (a *CompileCpp) Execute(ctx context.Context, cmd *graph.Command, predecessors, successors map[graph.Node]struct{}) error {
	cpp := fileWithSuffix(predecessors, ".cpp")
	if cpp == nil {
		return errMissing(".cpp file", "predecessors", cmd)
	}
	obj := fileWithSuffix(successors, ".o")
	if obj == nil {
		return errMissing(".o file", "successors", cmd)
	}

	compiler := a.Compiler
	if compiler == "" {
		compiler = "g++"
	}

	cppRel, err := filepath.Rel(a.Root, cpp.Path)
	if err != nil {
		return errRel(cmd, cpp.Path, err)
	}
	objRel, err := filepath.Rel(a.Root, obj.Path)
	if err != nil {
		return errRel(cmd, obj.Path, err)
	}

	c := exec.CommandContext(ctx, compiler, "-c", cppRel, "-o", objRel, "-fPIC")
	c.Dir = a.Root
	out, err := c.CombinedOutput()
	if err != nil {
		return errRun(cmd, c.Args, err, out)
	}
	return nil
}
