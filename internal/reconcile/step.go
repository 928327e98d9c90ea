package reconcile

import (
	"github.com/chrysalis-cube/chrysalis/internal/depkey"
	"github.com/chrysalis-cube/chrysalis/internal/depstore"
	"github.com/chrysalis-cube/chrysalis/internal/ports"
)

// CheckKind is the tagged variant a Step's Deserialize returns after a
// successful search response.
type CheckKind int

const (
	CheckExists CheckKind = iota
	CheckModified
	CheckDoesNotExist
	CheckNeedsModification
)

// Check is the interpretation of a search response body. Entries is
// populated for CheckExists and CheckModified, the two terminal states that
// need no follow-up request.
type Check struct {
	Kind    CheckKind
	Entries []depstore.Entry
}

// StatusClass is what ClassifyStatus maps an HTTP status code to.
type StatusClass int

const (
	StatusExists StatusClass = iota
	StatusDoesNotExist
	StatusClassError
)

// SubRequest is a follow-up HTTP call a Step issues to create or modify a
// resource, paired with the function that turns its response body into
// Dependency Entries.
type SubRequest struct {
	Request    ports.HTTPRequest
	Deserialize func(body []byte) ([]depstore.Entry, error)
}

// Step carries a fully resolved plan for one HTTP interaction cycle (spec
// §3, §4.2). A Step is constructed by a Pending-Step's Evaluate once all of
// its dependencies are satisfied; it is used at most once.
type Step interface {
	// Provides returns the non-empty, ordered list of Dependency Keys this
	// Step pledges to populate on every successful completion path. The
	// first key is the step's Target for outcome attribution.
	Provides() []depkey.Key

	// Search constructs the initial lookup/idempotent-check request.
	Search() ports.HTTPRequest

	// ClassifyStatus maps an HTTP status code to a StatusClass. Must be a
	// pure function of the status code alone (spec §6).
	ClassifyStatus(status int) StatusClass

	// Deserialize interprets a 2xx search response body into a Check. Only
	// called when ClassifyStatus returned StatusExists.
	Deserialize(body []byte) (Check, error)

	// Create returns the follow-up request used when Deserialize (or a
	// StatusDoesNotExist classification) determined the resource is
	// missing. A nil return means the step has no creation path.
	Create() *SubRequest

	// Modify returns the follow-up request used when Deserialize determined
	// the resource needs modification. A nil return means the step has no
	// modification path.
	Modify() *SubRequest
}

// StepTarget returns the Step's attribution target: the head of Provides().
func StepTarget(s Step) Target {
	provided := s.Provides()
	if len(provided) == 0 {
		panic("reconcile: Step.Provides() must be non-empty")
	}
	return Target{Key: provided[0]}
}
