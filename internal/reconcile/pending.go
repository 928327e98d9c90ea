package reconcile

import (
	"github.com/chrysalis-cube/chrysalis/internal/depkey"
	"github.com/chrysalis-cube/chrysalis/internal/depstore"
)

// EvalKind is the tagged result of a Pending-Step's Evaluate.
type EvalKind int

const (
	EvalUnfulfilled EvalKind = iota
	EvalSkip
	EvalRun
)

// EvalResult is what Evaluate returns: exactly one of Missing (when
// EvalUnfulfilled) or Step (when EvalRun) is populated.
type EvalResult struct {
	Kind    EvalKind
	Missing depkey.Key
	Step    Step
}

func Unfulfilled(missing depkey.Key) EvalResult {
	return EvalResult{Kind: EvalUnfulfilled, Missing: missing}
}

func Skip() EvalResult { return EvalResult{Kind: EvalSkip} }

func Run(step Step) EvalResult { return EvalResult{Kind: EvalRun, Step: step} }

// PendingStep carries the static description of a unit of work plus a pure
// function from the Dependency Store to an EvalResult (spec §3, §4.3).
// Implementations must:
//   - return EvalSkip if every key in Provides is already present in the
//     store;
//   - return EvalUnfulfilled naming the first missing strictly-required key
//     they observe;
//   - otherwise return EvalRun with a Step whose Provides() is a superset of
//     the keys advertised here.
//
// Evaluate must not mutate the store; it may only read through the supplied
// depstore.Reader (a Store, or a SpyStore that records the reads).
type PendingStep struct {
	// ID uniquely identifies this node within a DAG.
	ID string
	// Provides is the set of keys this Pending-Step advertises to the
	// Planner as its eventual outputs, used to wire predecessor edges and
	// to decide the Skip fast-path.
	Provides []depkey.Key
	// Evaluate is the pure evaluation function described above.
	Evaluate func(store depstore.Reader) EvalResult
}

// DefaultSkipCheck is a helper Pending-Step implementations call first: if
// every key in provides is already present in store, evaluate should
// return EvalSkip without consulting the family-specific logic.
func DefaultSkipCheck(store depstore.Reader, provides []depkey.Key) bool {
	for _, k := range provides {
		if !store.Contains(k) {
			return false
		}
	}
	return true
}
