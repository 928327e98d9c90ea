package reconcile

import (
	"context"

	"github.com/chrysalis-cube/chrysalis/internal/depstore"
	"github.com/chrysalis-cube/chrysalis/internal/logging"
	"github.com/chrysalis-cube/chrysalis/internal/ports"
)

// TreeExecutor is the scheduler proper (spec §4.5): it drives a DAG to
// completion, owns the Dependency Store, dispatches Step futures
// concurrently, and yields outcomes as a stream.
//
// Scheduling model: single-threaded cooperative over the *loop body* — the
// Store and the DAG are mutated only inside loop, which runs on one
// goroutine. Each dispatched Step runs its HTTP cycle on its own goroutine
// and reports back on an unbuffered results channel; loop advances exactly
// one step-completion event at a time, mirroring spec's
// "await any future in inflight" line.
type TreeExecutor struct {
	transport ports.Transport
	logger    ports.Logger
}

// NewTreeExecutor constructs a TreeExecutor. A nil logger is replaced with a
// no-op logger.
func NewTreeExecutor(transport ports.Transport, logger ports.Logger) *TreeExecutor {
	if logger == nil {
		logger = logging.NewNoOpLogger()
	}
	return &TreeExecutor{transport: transport, logger: logger}
}

type inflightResult struct {
	id      string
	outcome Outcome
	entries []depstore.Entry
}

// Run drives dag to completion and returns a channel of outcomes. The
// channel is closed once every node has been resolved (completed, skipped,
// or reported unfulfilled).
//
// Cancellation: Go channels have no "the consumer dropped me" signal, so
// chrysalis maps spec §4.5/§5's "drop the output stream to cancel" onto the
// idiomatic Go equivalent — cancel ctx. Every in-flight Transport.Do call
// takes ctx and returns promptly once it is cancelled; Run then drains the
// resulting TransportErrors (so no goroutine is ever left sending on an
// abandoned channel) without emitting further outcomes once the consumer's
// context is done, and closes the channel.
func (e *TreeExecutor) Run(ctx context.Context, dag *DAG) <-chan Outcome {
	return e.RunSeeded(ctx, dag, nil)
}

// RunSeeded behaves like Run but pre-populates the Dependency Store with
// seed before evaluating any root node. The Planner uses this for facts the
// manifest already supplies outright — a peer's base URL, whether admin
// credentials were provided at all — that need no HTTP round trip to
// establish and so have no Step of their own.
func (e *TreeExecutor) RunSeeded(ctx context.Context, dag *DAG, seed []depstore.Entry) <-chan Outcome {
	out := make(chan Outcome)
	go e.loop(ctx, dag, seed, out)
	return out
}

func (e *TreeExecutor) loop(ctx context.Context, dag *DAG, seed []depstore.Entry, out chan<- Outcome) {
	defer close(out)

	store := depstore.New(4*dag.Size() + len(seed))
	store.InsertAll(seed)
	results := make(chan inflightResult)
	inflight := 0
	cancelled := false

	emit := func(o Outcome) {
		if cancelled {
			return
		}
		select {
		case out <- o:
		case <-ctx.Done():
			cancelled = true
		}
	}

	var dispatch func(nodes []node)
	dispatch = func(nodes []node) {
		for _, n := range nodes {
			result := n.Pending.Evaluate(store)
			switch result.Kind {
			case EvalUnfulfilled:
				target := Target{Key: n.Pending.Provides[0]}
				e.logger.Debug(ctx, "pending step unfulfilled", "step", n.ID, "missing", result.Missing.String())
				emit(Outcome{Target: target, Effect: EffectUnfulfilled(result.Missing)})
				dispatch(dag.Complete(n.ID))

			case EvalSkip:
				e.logger.Debug(ctx, "pending step skipped", "step", n.ID)
				dispatch(dag.Complete(n.ID))

			case EvalRun:
				inflight++
				id, step := n.ID, result.Step
				e.logger.Debug(ctx, "dispatching step", "step", id)
				go func() {
					effect, entries := RunStep(ctx, e.transport, step)
					results <- inflightResult{
						id:      id,
						outcome: Outcome{Target: StepTarget(step), Effect: effect},
						entries: entries,
					}
				}()
			}
		}
	}

	dispatch(dag.Roots())

	for inflight > 0 {
		r := <-results
		inflight--
		store.InsertAll(r.entries)
		e.logger.Debug(ctx, "step completed", "step", r.id, "effect", r.outcome.Effect.Kind.String())
		emit(r.outcome)
		dispatch(dag.Complete(r.id))
	}
}
