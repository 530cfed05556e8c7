package executor

import (
	"context"
	"fmt"
	"log"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/brix-build/brix/internal/buildlog"
	"github.com/brix-build/brix/internal/graph"
)

// Executor validates and drives execution of a bipartite dependency
// graph with bounded parallelism, mirroring execute_dependency_graph:
// collect the reachable subgraph, check it, then dispatch ready nodes
// (in-degree zero) to a worker pool until either everything completes
// or the first action failure latches a cancellation.
type Executor struct {
	// Workers bounds the number of nodes executed concurrently. Zero
	// or negative means 1.
	Workers int

	// Log receives diagnostic output. A nil Log discards it.
	Log *log.Logger

	// Status, if non-nil, is updated with per-worker progress. Slot 0
	// is reserved for overall progress; slots 1..Workers are per-worker.
	Status *buildlog.Reporter
}

// Execute validates the subgraph reachable (via predecessors) from
// targets and runs every Command node's Action, respecting dependency
// order. Artifact nodes with no Action are no-ops; only *graph.Command
// nodes with a non-nil Action do work.
func (e *Executor) Execute(ctx context.Context, targets ...graph.Node) error {
	if len(targets) == 0 {
		return &ArgumentError{Msg: "at least one target must be provided"}
	}

	nodes, err := collect(targets)
	if err != nil {
		return err
	}
	if err := checkAcyclic(nodes); err != nil {
		return err
	}

	workers := e.Workers
	if workers < 1 {
		workers = 1
	}

	logger := e.Log
	if logger == nil {
		logger = log.New(discard{}, "", 0)
	}

	s := &sched{
		nodes:   nodes,
		workers: workers,
		log:     logger,
		status:  e.Status,

		inDegree: make(map[graph.Node]int, len(nodes)),
		built:    make(map[graph.Node]error, len(nodes)),
	}
	for n := range nodes {
		indeg := 0
		for p := range n.Predecessors() {
			if _, ok := nodes[p]; ok {
				indeg++
			}
		}
		s.inDegree[n] = indeg
	}

	return s.run(ctx)
}

type discard struct{}

func (discard) Write(p []byte) (int, error) { return len(p), nil }

type buildResult struct {
	node graph.Node
	err  error
}

// sched holds the mutable state of one Execute run.
type sched struct {
	nodes   map[graph.Node]struct{}
	workers int
	log     *log.Logger
	status  *buildlog.Reporter

	mu          sync.Mutex
	inDegree    map[graph.Node]int
	built       map[graph.Node]error
	buildFailed bool
	firstFail   *BuildFailedError
}

func (s *sched) run(ctx context.Context) error {
	work := make(chan graph.Node, len(s.nodes))
	done := make(chan buildResult)

	eg, ctx := errgroup.WithContext(ctx)

	for i := 0; i < s.workers; i++ {
		slot := i + 1
		eg.Go(func() error {
			for n := range work {
				if err := ctx.Err(); err != nil {
					return err
				}
				s.report(slot, describe(n))
				err := s.executeNode(ctx, n)
				select {
				case done <- buildResult{node: n, err: err}:
				case <-ctx.Done():
					return ctx.Err()
				}
				s.report(slot, "idle")
			}
			return nil
		})
	}

	// pending counts nodes dispatched to the work channel but not yet
	// reported back on done. The dispatch loop runs until pending drains
	// to zero — which happens either because every node completed, or
	// because a failure stopped new work from being queued and the
	// in-flight nodes have all reported in.
	pending := 0
	for n := range s.nodes {
		if s.inDegree[n] == 0 {
			work <- n
			pending++
		}
	}

	go func() {
		defer close(work)
		completed := 0
		for pending > 0 {
			select {
			case result := <-done:
				pending--
				completed++
				s.mu.Lock()
				s.built[result.node] = result.err
				if result.err != nil && !s.buildFailed {
					s.buildFailed = true
					s.firstFail = &BuildFailedError{Node: result.node, Err: result.err}
				}
				failed := s.buildFailed
				var ready []graph.Node
				if result.err == nil {
					for succ := range result.node.Successors() {
						if _, ok := s.nodes[succ]; !ok {
							continue
						}
						s.inDegree[succ]--
						if s.inDegree[succ] == 0 && !failed {
							ready = append(ready, succ)
						}
					}
				}
				s.mu.Unlock()
				s.report(0, progress(completed, len(s.nodes)))
				for _, r := range ready {
					select {
					case work <- r:
						pending++
					case <-ctx.Done():
						return
					}
				}
			case <-ctx.Done():
				return
			}
		}
	}()

	if err := eg.Wait(); err != nil {
		return wrap("execution aborted: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.firstFail != nil {
		return s.firstFail
	}

	if len(s.built) != len(s.nodes) {
		var unprocessed []nodeState
		for n := range s.nodes {
			if _, ok := s.built[n]; !ok {
				unprocessed = append(unprocessed, nodeState{Node: n, InDegree: s.inDegree[n]})
			}
		}
		return &IncompleteError{Unprocessed: unprocessed}
	}

	return nil
}

// executeNode runs a Command's Action, if any. Artifact nodes and
// Commands with no Action are no-ops.
func (s *sched) executeNode(ctx context.Context, n graph.Node) error {
	cmd, ok := n.(*graph.Command)
	if !ok || cmd.Action == nil {
		return nil
	}
	preds := cmd.Predecessors()
	succs := cmd.Successors()
	if err := cmd.Action.Execute(ctx, cmd, preds, succs); err != nil {
		s.log.Printf("action failed at %v: %v", cmd, err)
		return err
	}
	return nil
}

func (s *sched) report(slot int, status string) {
	if s.status == nil {
		return
	}
	s.status.Update(slot, status)
}

func describe(n graph.Node) string {
	if cmd, ok := n.(*graph.Command); ok {
		return "building " + cmd.String()
	}
	return "building"
}

func progress(completed, total int) string {
	return fmt.Sprintf("%d of %d nodes executed", completed, total)
}
