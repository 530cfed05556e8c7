package config

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/brix-build/brix/internal/digest"
	"github.com/brix-build/brix/internal/executor"
)

func TestBuildWiresAndExecutes(t *testing.T) {
	root := t.TempDir()
	if err := os.WriteFile(filepath.Join(root, "greet.sh"), []byte("#!/bin/sh\necho hi > out.txt\n"), 0o755); err != nil {
		t.Fatal(err)
	}

	manifestSrc := `
artifact "greet.sh" {
}

artifact "out.txt" {
}

command "greet" {
  action = commandline
  line = "sh greet.sh"
  predecessors = ["greet.sh"]
  successors = ["out.txt"]
}
`
	m, err := Parse(strings.NewReader(manifestSrc))
	if err != nil {
		t.Fatal(err)
	}
	m.Root = root

	cache := digest.NewCache(filepath.Join(root, "cache.json"), root)
	nodes, err := m.Build(cache)
	if err != nil {
		t.Fatal(err)
	}

	target, ok := nodes["out.txt"]
	if !ok {
		t.Fatal("missing out.txt node")
	}

	e := &executor.Executor{Workers: 2}
	if err := e.Execute(context.Background(), target); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(filepath.Join(root, "out.txt"))
	if err != nil {
		t.Fatal(err)
	}
	if strings.TrimSpace(string(data)) != "hi" {
		t.Fatalf("out.txt = %q, want %q", data, "hi")
	}
}

func TestBuildUndeclaredPredecessorFails(t *testing.T) {
	root := t.TempDir()
	m := &Manifest{
		Root: root,
		Commands: []CommandDecl{
			{ID: "c", Action: "makedir", Predecessors: []string{"missing"}},
		},
	}
	cache := digest.NewCache(filepath.Join(root, "cache.json"), root)
	if _, err := m.Build(cache); err == nil {
		t.Fatal("expected error for undeclared predecessor")
	}
}

func TestBuildUnknownAction(t *testing.T) {
	root := t.TempDir()
	m := &Manifest{
		Root: root,
		Commands: []CommandDecl{
			{ID: "c", Action: "nonexistent"},
		},
	}
	cache := digest.NewCache(filepath.Join(root, "cache.json"), root)
	if _, err := m.Build(cache); err == nil {
		t.Fatal("expected error for unknown action")
	}
}

