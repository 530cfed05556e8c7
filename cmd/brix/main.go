// Command brix runs a declarative build manifest through the incremental
// build engine: it loads the manifest, classifies every artifact against
// the digest cache, and executes the commands required to bring the given
// targets up to date.
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/brix-build/brix"
	"github.com/brix-build/brix/internal/buildlog"
	"github.com/brix-build/brix/internal/config"
	"github.com/brix-build/brix/internal/digest"
	"github.com/brix-build/brix/internal/executor"
	"github.com/brix-build/brix/internal/graph"
)

var (
	manifestPath = flag.String("manifest", "brix.manifest", "path to the build manifest")
	rootFlag     = flag.String("root", ".", "working directory the manifest's paths are relative to")
	cacheFile    = flag.String("cache", "build/brix-cache.json", "path to the digest cache file, relative to -root unless absolute")
	workers      = flag.Int("j", 4, "maximum number of commands to run concurrently")
	debug        = flag.Bool("debug", false, "format error messages with additional detail")
	showVersion  = flag.Bool("version", false, "print the brix version and exit")
)

func funcmain() error {
	flag.Parse()
	if *showVersion {
		fmt.Println("brix " + brix.Version)
		return nil
	}
	targets := flag.Args()
	if len(targets) == 0 {
		return fmt.Errorf("usage: brix [-flags] <target> [<target>...]")
	}

	rootDir, err := filepath.Abs(*rootFlag)
	if err != nil {
		return err
	}

	cachePath := *cacheFile
	if !filepath.IsAbs(cachePath) {
		cachePath = filepath.Join(rootDir, cachePath)
	}

	m, err := config.ParseFile(*manifestPath)
	if err != nil {
		return fmt.Errorf("loading manifest: %w", err)
	}
	if m.Root == "" {
		m.Root = rootDir
	}

	cache := digest.NewCache(cachePath, m.Root)
	brix.RegisterAtExit(func() error {
		return cache.Save()
	})

	nodes, err := m.Build(cache)
	if err != nil {
		return fmt.Errorf("building graph: %w", err)
	}

	resolved, err := resolveTargets(nodes, targets)
	if err != nil {
		return err
	}

	ctx, canc := brix.InterruptibleContext()
	defer canc()

	status := buildlog.NewReporter(*workers)
	e := &executor.Executor{
		Workers: *workers,
		Log:     buildlog.New("brix"),
		Status:  status,
	}
	buildErr := e.Execute(ctx, resolved...)
	status.Refresh()
	if buildErr != nil {
		if *debug {
			return fmt.Errorf("build failed: %+v", buildErr)
		}
		return fmt.Errorf("build failed: %v", buildErr)
	}

	return brix.RunAtExit()
}

func main() {
	if err := funcmain(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// resolveTargets looks up each requested target name in the built node
// set, by the artifact or command ID declared in the manifest (an
// artifact's ID is also its path unless the manifest sets a path).
func resolveTargets(nodes map[string]graph.Node, targets []string) ([]graph.Node, error) {
	resolved := make([]graph.Node, 0, len(targets))
	for _, t := range targets {
		n, ok := nodes[t]
		if !ok {
			return nil, fmt.Errorf("unknown target %q", t)
		}
		resolved = append(resolved, n)
	}
	return resolved, nil
}
