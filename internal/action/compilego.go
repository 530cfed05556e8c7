package action

import (
	"context"
	"os"
	"os/exec"

	"github.com/brix-build/brix/internal/graph"
)

// CompileGo selects the single Go package-directory predecessor (a File
// whose path is a directory containing Go source) and the single binary
// successor, and runs `go build -o <successor> .` in that directory. It is
// a supplemented bundled action (spec.md §4.5 only specifies C++ actions;
// see SPEC_FULL.md §5.7) included for parity with the original distri
// build system, which builds Go programs alongside C packages.
type CompileGo struct {
	GoTool string // defaults to "go"
}

func (a *CompileGo) Execute(ctx context.Context, cmd *graph.Command, predecessors, successors map[graph.Node]struct{}) error {
	var pkgDir *graph.File
	for n := range predecessors {
		f, ok := n.(*graph.File)
		if !ok {
			continue
		}
		if fi, err := os.Stat(f.Path); err == nil && fi.IsDir() {
			pkgDir = f
			break
		}
	}
	if pkgDir == nil {
		return errMissing("Go package directory", "predecessors", cmd)
	}

	var bin *graph.File
	for n := range successors {
		if f, ok := n.(*graph.File); ok {
			bin = f
			break
		}
	}
	if bin == nil {
		return errMissing("output binary", "successors", cmd)
	}

	goTool := a.GoTool
	if goTool == "" {
		goTool = "go"
	}

	c := exec.CommandContext(ctx, goTool, "build", "-o", bin.Path, ".")
	c.Dir = pkgDir.Path
	out, err := c.CombinedOutput()
	if err != nil {
		return errRun(cmd, c.Args, err, out)
	}
	return nil
}
