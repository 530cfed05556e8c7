package executor

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/brix-build/brix/internal/graph"
)

// recordingAction appends its command's name to a shared, mutex-guarded
// log and optionally fails or blocks, for exercising ordering and
// cancellation.
type recordingAction struct {
	mu      *sync.Mutex
	order   *[]string
	fail    bool
	block   <-chan struct{}
	running *int32
}

func (a *recordingAction) Execute(ctx context.Context, cmd *graph.Command, _, _ map[graph.Node]struct{}) error {
	if a.running != nil {
		atomic.AddInt32(a.running, 1)
		defer atomic.AddInt32(a.running, -1)
	}
	if a.block != nil {
		select {
		case <-a.block:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	a.mu.Lock()
	*a.order = append(*a.order, cmd.Name)
	a.mu.Unlock()
	if a.fail {
		return errors.New("intentional failure")
	}
	return nil
}

// chain builds a linear Artifact -> Command -> Artifact -> Command -> ...
// graph of the given length and returns the final artifact (the target)
// plus the commands in dependency order.
func chain(n int, mu *sync.Mutex, order *[]string, failAt int) (*graph.File, []*graph.Command) {
	var cmds []*graph.Command
	prev := graph.Node(graph.NewFile("f0", graph.Created))
	for i := 0; i < n; i++ {
		name := fmt.Sprintf("cmd%d", i)
		cmd := graph.NewCommandWithAction(name, &recordingAction{mu: mu, order: order, fail: i == failAt})
		graph.AddPredecessors(cmd, prev)
		out := graph.NewFile(fmt.Sprintf("f%d", i+1), graph.Deleted)
		graph.AddPredecessors(out, cmd)
		cmds = append(cmds, cmd)
		prev = out
	}
	return prev.(*graph.File), cmds
}

func TestExecuteLinearChainOrder(t *testing.T) {
	var mu sync.Mutex
	var order []string
	target, _ := chain(4, &mu, &order, -1)

	e := &Executor{Workers: 1}
	if err := e.Execute(context.Background(), target); err != nil {
		t.Fatal(err)
	}
	want := []string{"cmd0", "cmd1", "cmd2", "cmd3"}
	if diff := cmp.Diff(want, order); diff != "" {
		t.Fatalf("execution order mismatch (-want +got):\n%s", diff)
	}
}

func TestExecuteDiamondRunsEachCommandOnce(t *testing.T) {
	var mu sync.Mutex
	var order []string

	root := graph.NewFile("root", graph.Created)

	left := graph.NewCommandWithAction("left", &recordingAction{mu: &mu, order: &order})
	graph.AddPredecessors(left, root)
	leftOut := graph.NewFile("left.out", graph.Deleted)
	graph.AddPredecessors(leftOut, left)

	right := graph.NewCommandWithAction("right", &recordingAction{mu: &mu, order: &order})
	graph.AddPredecessors(right, root)
	rightOut := graph.NewFile("right.out", graph.Deleted)
	graph.AddPredecessors(rightOut, right)

	join := graph.NewCommandWithAction("join", &recordingAction{mu: &mu, order: &order})
	graph.AddPredecessors(join, leftOut, rightOut)
	joinOut := graph.NewFile("join.out", graph.Deleted)
	graph.AddPredecessors(joinOut, join)

	e := &Executor{Workers: 4}
	if err := e.Execute(context.Background(), joinOut); err != nil {
		t.Fatal(err)
	}
	if len(order) != 3 {
		t.Fatalf("order = %v, want 3 entries", order)
	}
	if order[2] != "join" {
		t.Fatalf("join must run last, got order = %v", order)
	}
}

func TestExecuteRejectsCycle(t *testing.T) {
	a := graph.NewFile("a", graph.Created)
	cmd1 := graph.NewCommand("cmd1")
	graph.AddPredecessors(cmd1, a)
	b := graph.NewFile("b", graph.Deleted)
	graph.AddPredecessors(b, cmd1)
	cmd2 := graph.NewCommand("cmd2")
	graph.AddPredecessors(cmd2, b)
	// Close the cycle: a depends on cmd2's output, making a reachable
	// from itself through cmd1 -> b -> cmd2 -> a.
	graph.AddPredecessors(a, cmd2)

	e := &Executor{Workers: 2}
	err := e.Execute(context.Background(), b)
	if err == nil {
		t.Fatal("expected cycle error, got nil")
	}
	var cycleErr *CycleError
	if !errors.As(err, &cycleErr) {
		t.Fatalf("err = %v (%T), want *CycleError", err, err)
	}
}

func TestExecuteRejectsEmptyTargets(t *testing.T) {
	e := &Executor{}
	err := e.Execute(context.Background())
	var argErr *ArgumentError
	if !errors.As(err, &argErr) {
		t.Fatalf("err = %v, want *ArgumentError", err)
	}
}

func TestExecuteRejectsBipartiteViolation(t *testing.T) {
	a := graph.NewFile("a", graph.Created)
	b := graph.NewFile("b", graph.Deleted)
	graph.AddPredecessors(b, a) // artifact directly depends on artifact

	e := &Executor{}
	err := e.Execute(context.Background(), b)
	var structErr *StructuralError
	if !errors.As(err, &structErr) {
		t.Fatalf("err = %v, want *StructuralError", err)
	}
}

func TestExecuteFailurePropagatesAndCancelsPending(t *testing.T) {
	var mu sync.Mutex
	var order []string
	target, cmds := chain(5, &mu, &order, 1) // cmd1 fails

	e := &Executor{Workers: 1}
	err := e.Execute(context.Background(), target)
	if err == nil {
		t.Fatal("expected build failure")
	}
	var buildErr *BuildFailedError
	if !errors.As(err, &buildErr) {
		t.Fatalf("err = %v, want *BuildFailedError", err)
	}
	if buildErr.Node != cmds[1] {
		t.Fatalf("failure attributed to %v, want %v", buildErr.Node, cmds[1])
	}
	// cmd2/cmd3/cmd4 depend on cmd1's output and must never have run.
	mu.Lock()
	defer mu.Unlock()
	for _, name := range order {
		if name == "cmd2" || name == "cmd3" || name == "cmd4" {
			t.Fatalf("downstream command %s ran after an upstream failure; order = %v", name, order)
		}
	}
}

func TestExecuteBoundsParallelism(t *testing.T) {
	var mu sync.Mutex
	var order []string
	var running int32
	var maxRunning int32
	var maxMu sync.Mutex

	block := make(chan struct{})
	root := graph.NewFile("root", graph.Created)
	var independentOutputs []graph.Node
	for i := 0; i < 6; i++ {
		cmd := graph.NewCommandWithAction(fmt.Sprintf("parallel%d", i), &recordingAction{
			mu: &mu, order: &order, block: block, running: &running,
		})
		graph.AddPredecessors(cmd, root)
		out := graph.NewFile(fmt.Sprintf("out%d", i), graph.Deleted)
		graph.AddPredecessors(out, cmd)
		independentOutputs = append(independentOutputs, out)
	}
	join := graph.NewCommand("join")
	graph.AddPredecessors(join, independentOutputs...)
	joinOut := graph.NewFile("join.out", graph.Deleted)
	graph.AddPredecessors(joinOut, join)

	go func() {
		ticker := time.NewTicker(2 * time.Millisecond)
		defer ticker.Stop()
		for i := 0; i < 50; i++ {
			<-ticker.C
			if r := atomic.LoadInt32(&running); r > 0 {
				maxMu.Lock()
				if r > maxRunning {
					maxRunning = r
				}
				maxMu.Unlock()
			}
		}
	}()

	e := &Executor{Workers: 2}
	done := make(chan error, 1)
	go func() { done <- e.Execute(context.Background(), joinOut) }()

	time.Sleep(20 * time.Millisecond)
	close(block)

	if err := <-done; err != nil {
		t.Fatal(err)
	}
	maxMu.Lock()
	defer maxMu.Unlock()
	if maxRunning > 2 {
		t.Fatalf("observed %d concurrently running actions, want <= 2 (Workers)", maxRunning)
	}
}
