package action

import (
	"context"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/brix-build/brix/internal/graph"
)

// LinkCppApp collects .o and .so predecessors and the single successor
// whose extension isn't one of the recognized artifact extensions (the
// executable), constructing -L<dir> -l<name> flags from each .so's
// directory and basename (stripping the "lib" prefix and ".so" suffix).
// If no shared libraries are present, the link flags are empty. Matches
// spec.md §4.5's bundled LinkCppApp action.
type LinkCppApp struct {
	Root     string
	Compiler string
}

func (a *LinkCppApp) Execute(ctx context.Context, cmd *graph.Command, predecessors, successors map[graph.Node]struct{}) error {
	objs := filesWithSuffix(predecessors, ".o")
	if len(objs) == 0 {
		return errMissing(".o files", "predecessors", cmd)
	}
	sos := filesWithSuffix(predecessors, ".so")

	exe := fileWithoutSuffixes(successors, ".o", ".so", ".cpp", ".h")
	if exe == nil {
		return errMissing("executable file", "successors", cmd)
	}

	compiler := a.Compiler
	if compiler == "" {
		compiler = "g++"
	}

	var args []string
	for _, o := range objs {
		rel, err := filepath.Rel(a.Root, o.Path)
		if err != nil {
			return errRel(cmd, o.Path, err)
		}
		args = append(args, rel)
	}

	exeRel, err := filepath.Rel(a.Root, exe.Path)
	if err != nil {
		return errRel(cmd, exe.Path, err)
	}
	args = append(args, "-o", exeRel)

	seenDirs := make(map[string]bool)
	for _, so := range sos {
		dir := filepath.Dir(so.Path)
		relDir, err := filepath.Rel(a.Root, dir)
		if err != nil {
			return errRel(cmd, dir, err)
		}
		name := strings.TrimSuffix(filepath.Base(so.Path), ".so")
		name = strings.TrimPrefix(name, "lib")
		if !seenDirs[dir] {
			args = append(args, "-L", relDir)
			seenDirs[dir] = true
		}
		args = append(args, "-l"+name)
	}

	c := exec.CommandContext(ctx, compiler, args...)
	c.Dir = a.Root
	out, err := c.CombinedOutput()
	if err != nil {
		return errRun(cmd, c.Args, err, out)
	}
	return nil
}
