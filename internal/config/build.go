package config

import (
	"fmt"
	"path/filepath"

	"github.com/brix-build/brix/internal/action"
	"github.com/brix-build/brix/internal/buildlog"
	"github.com/brix-build/brix/internal/digest"
	"github.com/brix-build/brix/internal/graph"
)

// Build resolves a Manifest into a live dependency graph: one
// *graph.File per ArtifactDecl (classified against cache), one
// *graph.Command per CommandDecl (with its bundled Action wrapped in
// action.Conditional so incrementality applies uniformly), and edges
// wired from the Predecessors/Successors ID lists.
//
// It returns the graph.Node for every declared ID, keyed by ID, so
// callers can pick out their targets.
func (m *Manifest) Build(cache *digest.Cache) (map[string]graph.Node, error) {
	nodes := make(map[string]graph.Node, len(m.Artifacts)+len(m.Commands))

	for _, a := range m.Artifacts {
		path := a.Path
		if !filepath.IsAbs(path) {
			path = filepath.Join(m.Root, path)
		}
		f, err := cache.LoadFile(path)
		if err != nil {
			return nil, fmt.Errorf("artifact %q: %w", a.ID, err)
		}
		nodes[a.ID] = f
	}

	for _, c := range m.Commands {
		inner, err := newAction(c, m.Root)
		if err != nil {
			return nil, fmt.Errorf("command %q: %w", c.ID, err)
		}
		cmd := graph.NewCommandWithAction(c.ID, &action.Conditional{Inner: inner, Cache: cache, Logger: buildlog.New("action")})
		nodes[c.ID] = cmd

		var preds []graph.Node
		for _, id := range c.Predecessors {
			n, ok := nodes[id]
			if !ok {
				return nil, fmt.Errorf("command %q: undeclared predecessor %q", c.ID, id)
			}
			preds = append(preds, n)
		}
		graph.AddPredecessors(cmd, preds...)

		for _, id := range c.Successors {
			n, ok := nodes[id]
			if !ok {
				return nil, fmt.Errorf("command %q: undeclared successor %q", c.ID, id)
			}
			graph.AddPredecessors(n, cmd)
		}
	}

	return nodes, nil
}

// newAction maps a CommandDecl's Action name to a bundled action,
// mirroring the small fixed set of actions spec.md §4.5 names plus the
// supplemented Go toolchain actions.
func newAction(c CommandDecl, root string) (graph.Action, error) {
	switch c.Action {
	case "commandline":
		if c.Line == "" {
			return nil, fmt.Errorf("action %q requires line", c.Action)
		}
		return &action.CommandLine{Command: c.Line, Dir: root}, nil
	case "makedir":
		return &action.MakeDir{}, nil
	case "compilecpp":
		return &action.CompileCpp{Root: root, Compiler: c.Compiler}, nil
	case "linkcppshared":
		return &action.LinkCppShared{Root: root, Compiler: c.Compiler}, nil
	case "linkcppapp":
		return &action.LinkCppApp{Root: root, Compiler: c.Compiler}, nil
	case "compilego":
		return &action.CompileGo{}, nil
	case "linkgo":
		return &action.LinkGo{}, nil
	default:
		return nil, fmt.Errorf("unknown action %q", c.Action)
	}
}
