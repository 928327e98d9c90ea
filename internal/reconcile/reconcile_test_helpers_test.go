package reconcile

import (
	"context"
	"errors"

	"github.com/chrysalis-cube/chrysalis/internal/ports"
)

// fakeTransport is a scripted ports.Transport used across the reconcile
// package's tests. It responds deterministically per URL, optionally
// injecting a transport-level failure.
type fakeTransport struct {
	responses map[string]ports.HTTPResponse
	failing   map[string]bool
	calls     []ports.HTTPRequest
}

func newFakeTransport() *fakeTransport {
	return &fakeTransport{
		responses: make(map[string]ports.HTTPResponse),
		failing:   make(map[string]bool),
	}
}

func (f *fakeTransport) withResponse(url string, resp ports.HTTPResponse) *fakeTransport {
	f.responses[url] = resp
	return f
}

func (f *fakeTransport) withFailure(url string) *fakeTransport {
	f.failing[url] = true
	return f
}

func (f *fakeTransport) Do(ctx context.Context, req ports.HTTPRequest) (ports.HTTPResponse, error) {
	f.calls = append(f.calls, req)
	if ctx.Err() != nil {
		return ports.HTTPResponse{}, ctx.Err()
	}
	if f.failing[req.URL] {
		return ports.HTTPResponse{}, errors.New("simulated network failure")
	}
	resp, ok := f.responses[req.URL]
	if !ok {
		return ports.HTTPResponse{Status: 404, URL: req.URL, Method: req.Method}, nil
	}
	resp.URL = req.URL
	resp.Method = req.Method
	return resp, nil
}
