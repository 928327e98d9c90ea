package reconcile

import "github.com/chrysalis-cube/chrysalis/internal/depkey"

// Target identifies the user-visible API entity an Outcome is attributed
// to: the head of the originating step's Provides() list (spec §3).
type Target struct {
	Key depkey.Key
}

func (t Target) String() string { return t.Key.String() }

// EffectKind is the tagged variant of observable consequences a Step can
// have on CUBE. Importance is a total order, lowest to highest:
// Unmodified < Modified < Created < Unfulfilled < Error.
type EffectKind int

const (
	Unmodified EffectKind = iota
	Modified
	Created
	Unfulfilled
	Error
)

// importance returns the total order rank used by the Outcome Aggregator.
func (k EffectKind) importance() int { return int(k) }

func (k EffectKind) String() string {
	switch k {
	case Unmodified:
		return "Unmodified"
	case Modified:
		return "Modified"
	case Created:
		return "Created"
	case Unfulfilled:
		return "Unfulfilled"
	case Error:
		return "Error"
	default:
		return "Unknown"
	}
}

// Effect is the tagged variant {Created, Unmodified, Modified,
// Unfulfilled(key), Error(err)}. MissingKey is populated only for
// Unfulfilled; Err only for Error.
type Effect struct {
	Kind       EffectKind
	MissingKey depkey.Key
	Err        error
}

// Less reports whether e is strictly less important than other, using the
// fixed total order from spec §3. Ties are not "less".
func (e Effect) Less(other Effect) bool {
	return e.Kind.importance() < other.Kind.importance()
}

// Outcome pairs a Target with the Effect observed against it.
type Outcome struct {
	Target Target
	Effect Effect
}

func EffectUnmodified() Effect { return Effect{Kind: Unmodified} }
func EffectModified() Effect   { return Effect{Kind: Modified} }
func EffectCreated() Effect    { return Effect{Kind: Created} }

func EffectUnfulfilled(missing depkey.Key) Effect {
	return Effect{Kind: Unfulfilled, MissingKey: missing}
}

func EffectError(err error) Effect {
	return Effect{Kind: Error, Err: err}
}
