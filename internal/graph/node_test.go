package graph

import (
	"sort"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestAddPredecessorsSymmetric(t *testing.T) {
	a := NewFile("/tmp/a", Unchanged)
	c := NewCommand("compile")

	AddPredecessors(c, a)

	if _, ok := c.Predecessors()[a]; !ok {
		t.Fatalf("a not recorded as predecessor of c")
	}
	if _, ok := a.Successors()[c]; !ok {
		t.Fatalf("c not recorded as successor of a")
	}
}

func TestAddPredecessorsIdempotent(t *testing.T) {
	a := NewFile("/tmp/a", Unchanged)
	c := NewCommand("compile")

	AddPredecessors(c, a)
	AddPredecessors(c, a)

	if got, want := len(c.Predecessors()), 1; got != want {
		t.Fatalf("len(c.Predecessors()) = %d, want %d", got, want)
	}
	if got, want := len(a.Successors()), 1; got != want {
		t.Fatalf("len(a.Successors()) = %d, want %d", got, want)
	}
}

// identifiers returns a sorted slice of each node's File path or Command
// name, for diffing a whole edge set at once.
func identifiers(nodes map[Node]struct{}) []string {
	var out []string
	for n := range nodes {
		switch v := n.(type) {
		case *File:
			out = append(out, v.Path)
		case *Command:
			out = append(out, v.Name)
		}
	}
	sort.Strings(out)
	return out
}

func TestAddPredecessorsMultiple(t *testing.T) {
	lib := NewFile("/tmp/lib.cpp", Unchanged)
	hdr := NewFile("/tmp/lib.h", Unchanged)
	objDir := NewFile("/tmp/obj", Unchanged)
	compile := NewCommand("compile-lib")

	AddPredecessors(compile, lib, hdr, objDir)

	if diff := cmp.Diff([]string{"/tmp/lib.cpp", "/tmp/lib.h", "/tmp/obj"}, identifiers(compile.Predecessors())); diff != "" {
		t.Fatalf("compile predecessors mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"compile-lib"}, identifiers(lib.Successors())); diff != "" {
		t.Fatalf("lib successors mismatch (-want +got):\n%s", diff)
	}
}

func TestIsArtifactIsCommand(t *testing.T) {
	a := NewArtifact(Unchanged)
	f := NewFile("/tmp/f", Unchanged)
	c := NewCommand("cmd")

	for _, n := range []Node{a, f} {
		if !IsArtifact(n) {
			t.Errorf("IsArtifact(%v) = false, want true", n)
		}
		if IsCommand(n) {
			t.Errorf("IsCommand(%v) = true, want false", n)
		}
	}
	if !IsCommand(c) {
		t.Errorf("IsCommand(c) = false, want true")
	}
	if IsArtifact(c) {
		t.Errorf("IsArtifact(c) = true, want false")
	}
}

func TestBipartite(t *testing.T) {
	a := NewFile("/tmp/a", Unchanged)
	b := NewFile("/tmp/b", Unchanged)
	c := NewCommand("cmd")
	AddPredecessors(c, a)
	AddPredecessors(b, c)

	for _, n := range []Node{a, b, c} {
		if !Bipartite(n) {
			t.Errorf("Bipartite(%v) = false, want true", n)
		}
	}

	// Force an Artifact-Artifact edge to exercise the violation path.
	AddPredecessors(b, a)
	if Bipartite(b) {
		t.Errorf("Bipartite(b) = true after adding an artifact-artifact edge, want false")
	}
}
