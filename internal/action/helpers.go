package action

import (
	"fmt"
	"strings"

	"golang.org/x/xerrors"

	"github.com/brix-build/brix/internal/graph"
)

// fileWithSuffix returns the single File among nodes whose Path ends with
// suffix. Returns nil if none match; callers turn that into an action
// failure, never a crash, per spec.md §4.5.
func fileWithSuffix(nodes map[graph.Node]struct{}, suffix string) *graph.File {
	for n := range nodes {
		if f, ok := n.(*graph.File); ok && strings.HasSuffix(f.Path, suffix) {
			return f
		}
	}
	return nil
}

// filesWithSuffix returns every File among nodes whose Path ends with
// suffix.
func filesWithSuffix(nodes map[graph.Node]struct{}, suffix string) []*graph.File {
	var out []*graph.File
	for n := range nodes {
		if f, ok := n.(*graph.File); ok && strings.HasSuffix(f.Path, suffix) {
			out = append(out, f)
		}
	}
	return out
}

// fileWithoutSuffixes returns the single File among nodes whose Path ends
// with none of the given suffixes — used to find the "plain" output of a
// link step (an executable, as opposed to the .o/.so/.cpp/.h inputs).
func fileWithoutSuffixes(nodes map[graph.Node]struct{}, suffixes ...string) *graph.File {
	for n := range nodes {
		f, ok := n.(*graph.File)
		if !ok {
			continue
		}
		matched := false
		for _, s := range suffixes {
			if strings.HasSuffix(f.Path, s) {
				matched = true
				break
			}
		}
		if !matched {
			return f
		}
	}
	return nil
}

func errMissing(kind, role string, cmd fmt.Stringer) error {
	return xerrors.Errorf("%s: no %s found among %s", cmd, kind, role)
}

// errRun wraps a subprocess failure with the command that failed and its
// combined output, matching the reference implementation's practice of
// surfacing compiler/linker stderr alongside the exit error.
func errRun(cmd fmt.Stringer, argv interface{}, err error, out []byte) error {
	return xerrors.Errorf("%s: %s: %w\n%s", cmd, argv, err, out)
}

// errRel wraps a filepath.Rel failure, naming the action's command.
func errRel(cmd fmt.Stringer, path string, err error) error {
	return xerrors.Errorf("%s: relativize %s: %w", cmd, path, err)
}
