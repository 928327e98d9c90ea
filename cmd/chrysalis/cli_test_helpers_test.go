package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/chrysalis-cube/chrysalis/internal/logging"
	"github.com/chrysalis-cube/chrysalis/internal/ports"
)

// scriptedTransport replies per URL. Scripting the same URL more than once
// queues the responses in order; the last one is repeated once reached.
type scriptedTransport struct {
	responses map[string][]ports.HTTPResponse
}

func newScriptedTransport() *scriptedTransport {
	return &scriptedTransport{responses: make(map[string][]ports.HTTPResponse)}
}

func (t *scriptedTransport) withResponse(url string, status int, body string) *scriptedTransport {
	t.responses[url] = append(t.responses[url], ports.HTTPResponse{Status: status, Body: []byte(body)})
	return t
}

func (t *scriptedTransport) Do(ctx context.Context, req ports.HTTPRequest) (ports.HTTPResponse, error) {
	queue := t.responses[req.URL]
	if len(queue) == 0 {
		return ports.HTTPResponse{Status: 404}, nil
	}
	resp := queue[0]
	if len(queue) > 1 {
		t.responses[req.URL] = queue[1:]
	}
	resp.URL = req.URL
	resp.Method = req.Method
	return resp, nil
}

func testApp(transport ports.Transport) *AppContext {
	return &AppContext{Logger: logging.NewNoOpLogger(), Transport: transport}
}

func writeManifestFile(t *testing.T, contents string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "manifest.yaml")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o600))
	return path
}

const oneUserManifest = `
version: "1.0"
global:
  cube_url: https://cube/
users:
  alice:
    password: alice1234
    email: alice@example.org
`
