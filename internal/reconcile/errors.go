package reconcile

import (
	"fmt"

	"github.com/chrysalis-cube/chrysalis/internal/depkey"
)

// StepError is the base interface for every error a Step's execution can
// produce (spec §7). The Tree Executor never needs to branch on the
// concrete type beyond logging; it always converts a StepError into an
// Error effect.
type StepError interface {
	error
	stepError()
}

// TransportError wraps a network/TLS/malformed-URL failure from the
// ports.Transport boundary.
type TransportError struct {
	URL string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("transport error for %s: %v", e.URL, e.Err)
}
func (e *TransportError) Unwrap() error { return e.Err }
func (*TransportError) stepError()      {}

// StatusError is returned when ClassifyStatus mapped a response status to
// Error. It carries enough context to report the failing call.
type StatusError struct {
	Status int
	Method string
	URL    string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status %d from %s %s", e.Status, e.Method, e.URL)
}
func (*StatusError) stepError() {}

// DeserializationError is returned when a response body did not match the
// shape a Step expected.
type DeserializationError struct {
	URL string
	Err error
}

func (e *DeserializationError) Error() string {
	return fmt.Sprintf("failed to deserialize response from %s: %v", e.URL, e.Err)
}
func (e *DeserializationError) Unwrap() error { return e.Err }
func (*DeserializationError) stepError()      {}

// UncreatableError is an engine-logic error: a Step classified its target as
// DoesNotExist but supplied no Create() sub-request.
type UncreatableError struct {
	URL string
}

func (e *UncreatableError) Error() string {
	return fmt.Sprintf("resource at %s does not exist and step provides no create request", e.URL)
}
func (*UncreatableError) stepError() {}

// UnmodifiableError is the symmetrical engine-logic error for
// NeedsModification with no Modify() sub-request.
type UnmodifiableError struct {
	URL string
}

func (e *UnmodifiableError) Error() string {
	return fmt.Sprintf("resource at %s needs modification and step provides no modify request", e.URL)
}
func (*UnmodifiableError) stepError() {}

// UnfulfilledError records that a strictly required dependency key was
// absent when a Pending-Step was evaluated. It is always derived from an
// earlier failure, a skip that never ran, or a Planner bug — never raised
// directly by a Step's HTTP cycle.
type UnfulfilledError struct {
	Missing depkey.Key
}

func (e *UnfulfilledError) Error() string {
	return fmt.Sprintf("unfulfilled dependency: %s", e.Missing)
}
func (*UnfulfilledError) stepError() {}

var (
	_ StepError = (*TransportError)(nil)
	_ StepError = (*StatusError)(nil)
	_ StepError = (*DeserializationError)(nil)
	_ StepError = (*UncreatableError)(nil)
	_ StepError = (*UnmodifiableError)(nil)
	_ StepError = (*UnfulfilledError)(nil)
)
