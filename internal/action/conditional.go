package action

import (
	"context"
	"log"

	"github.com/brix-build/brix/internal/digest"
	"github.com/brix-build/brix/internal/graph"
)

// Conditional wraps any Action and is the component responsible for
// incrementality (spec.md §4.4). Given a command with predecessors P and
// successors S: if any artifact predecessor is Created/Modified/Deleted
// ("touched"), the inner action runs and every artifact in P ∪ S is
// re-digested and reclassified against the cache; otherwise the inner
// action is skipped, but every artifact in P ∪ S is still re-digested and
// reclassified (with a rule that never invents Created), and the cache is
// saved either way.
type Conditional struct {
	Inner graph.Action
	Cache *digest.Cache

	// Logger receives a warning when the skip branch reports Modified
	// purely from a cache/disk digest mismatch, without the inner action
	// having run — see SPEC_FULL.md §11 (open question #2).
	Logger *log.Logger
}

func (c *Conditional) Execute(ctx context.Context, cmd *graph.Command, predecessors, successors map[graph.Node]struct{}) error {
	touched := false
	for p := range predecessors {
		if f, ok := p.(*graph.File); ok && f.Status().Touched() {
			touched = true
			break
		}
		if a, ok := p.(*graph.Artifact); ok && a.Status().Touched() {
			touched = true
			break
		}
	}

	files := collectFiles(predecessors, successors)

	if touched {
		if err := c.Inner.Execute(ctx, cmd, predecessors, successors); err != nil {
			return err
		}
		for _, f := range files {
			if err := c.Cache.Reclassify(f, true /* touched */); err != nil {
				return err
			}
		}
		return c.Cache.Save(files...)
	}

	for _, f := range files {
		prev := f.Status()
		if err := c.Cache.Reclassify(f, false /* touched */); err != nil {
			return err
		}
		if f.Status() == graph.Modified && prev != graph.Modified && c.Logger != nil {
			c.Logger.Printf("warning: %s reports Modified without %s running — possible missing dependency declaration", f.Path, cmd)
		}
	}
	return c.Cache.Save(files...)
}

func collectFiles(predecessors, successors map[graph.Node]struct{}) []*graph.File {
	var files []*graph.File
	seen := make(map[*graph.File]bool)
	for n := range predecessors {
		if f, ok := n.(*graph.File); ok && !seen[f] {
			seen[f] = true
			files = append(files, f)
		}
	}
	for n := range successors {
		if f, ok := n.(*graph.File); ok && !seen[f] {
			seen[f] = true
			files = append(files, f)
		}
	}
	return files
}
