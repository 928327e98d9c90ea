package steps

import (
	"context"

	"github.com/chrysalis-cube/chrysalis/internal/ports"
)

// scriptedTransport replies with a fixed response per URL, used across this
// package's tests to exercise steps without a real network.
type scriptedTransport struct {
	responses map[string]ports.HTTPResponse
}

func newScriptedTransport() *scriptedTransport {
	return &scriptedTransport{responses: make(map[string]ports.HTTPResponse)}
}

func (t *scriptedTransport) withResponse(url string, status int, body string) *scriptedTransport {
	t.responses[url] = ports.HTTPResponse{Status: status, Body: []byte(body)}
	return t
}

func (t *scriptedTransport) Do(ctx context.Context, req ports.HTTPRequest) (ports.HTTPResponse, error) {
	resp, ok := t.responses[req.URL]
	if !ok {
		return ports.HTTPResponse{Status: 404}, nil
	}
	resp.URL = req.URL
	resp.Method = req.Method
	return resp, nil
}
