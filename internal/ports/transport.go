package ports

import "context"

// HTTPRequest is a fully formed request a Step hands to the transport. It is
// deliberately minimal: the engine never inspects headers or bodies itself,
// it only constructs and dispatches them.
type HTTPRequest struct {
	Method  string
	URL     string
	Headers map[string]string
	Body    []byte
}

// HTTPResponse is what the transport hands back to a Step after dispatch.
type HTTPResponse struct {
	Status int
	URL    string
	Method string
	Body   []byte
}

// Transport is the HTTP boundary the engine consumes (spec §6). A Step never
// talks to the network directly; it builds an HTTPRequest and the Tree
// Executor dispatches it through a Transport. Transport errors surface as
// StepError with kind Transport.
type Transport interface {
	Do(ctx context.Context, req HTTPRequest) (HTTPResponse, error)
}
