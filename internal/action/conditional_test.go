package action

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/brix-build/brix/internal/digest"
	"github.com/brix-build/brix/internal/graph"
)

type countingAction struct {
	calls int
}

func (a *countingAction) Execute(ctx context.Context, cmd *graph.Command, predecessors, successors map[graph.Node]struct{}) error {
	a.calls++
	for n := range successors {
		if f, ok := n.(*graph.File); ok {
			if err := os.WriteFile(f.Path, []byte("built"), 0o644); err != nil {
				return err
			}
		}
	}
	return nil
}

func TestConditionalSkipsWhenUntouched(t *testing.T) {
	root := t.TempDir()
	cache := digest.NewCache(filepath.Join(root, "build", "cache.json"), root)

	srcPath := filepath.Join(root, "src.txt")
	if err := os.WriteFile(srcPath, []byte("source"), 0o644); err != nil {
		t.Fatal(err)
	}
	outPath := filepath.Join(root, "out.txt")

	src, err := cache.LoadFile("src.txt")
	if err != nil {
		t.Fatal(err)
	}
	out := graph.NewFile(outPath, graph.Deleted)

	inner := &countingAction{}
	cond := &Conditional{Inner: inner, Cache: cache}
	cmd := graph.NewCommand("build")

	preds := map[graph.Node]struct{}{src: {}}
	succs := map[graph.Node]struct{}{out: {}}

	// First run: src is Created (touched) -> inner action runs.
	if err := cond.Execute(context.Background(), cmd, preds, succs); err != nil {
		t.Fatal(err)
	}
	if inner.calls != 1 {
		t.Fatalf("inner.calls = %d, want 1 on touched run", inner.calls)
	}

	// Reload src fresh to get Unchanged status, then run again.
	cache2 := digest.NewCache(filepath.Join(root, "build", "cache.json"), root)
	src2, err := cache2.LoadFile("src.txt")
	if err != nil {
		t.Fatal(err)
	}
	if got, want := src2.Status(), graph.Unchanged; got != want {
		t.Fatalf("src2 status = %v, want %v", got, want)
	}
	out2, err := cache2.LoadFile("out.txt")
	if err != nil {
		t.Fatal(err)
	}

	inner2 := &countingAction{}
	cond2 := &Conditional{Inner: inner2, Cache: cache2}
	preds2 := map[graph.Node]struct{}{src2: {}}
	succs2 := map[graph.Node]struct{}{out2: {}}
	if err := cond2.Execute(context.Background(), cmd, preds2, succs2); err != nil {
		t.Fatal(err)
	}
	if inner2.calls != 0 {
		t.Fatalf("inner2.calls = %d, want 0 on untouched run", inner2.calls)
	}
}

func TestConditionalRunsWhenTouched(t *testing.T) {
	root := t.TempDir()
	cache := digest.NewCache(filepath.Join(root, "build", "cache.json"), root)

	srcPath := filepath.Join(root, "src.txt")
	if err := os.WriteFile(srcPath, []byte("v1"), 0o644); err != nil {
		t.Fatal(err)
	}
	src, err := cache.LoadFile("src.txt")
	if err != nil {
		t.Fatal(err)
	}
	out := graph.NewFile(filepath.Join(root, "out.txt"), graph.Deleted)

	inner := &countingAction{}
	cond := &Conditional{Inner: inner, Cache: cache}
	cmd := graph.NewCommand("build")

	preds := map[graph.Node]struct{}{src: {}}
	succs := map[graph.Node]struct{}{out: {}}
	if err := cond.Execute(context.Background(), cmd, preds, succs); err != nil {
		t.Fatal(err)
	}
	if inner.calls != 1 {
		t.Fatalf("inner.calls = %d, want 1", inner.calls)
	}
	if out.Status() != graph.Created {
		t.Fatalf("out status = %v, want Created", out.Status())
	}
}
