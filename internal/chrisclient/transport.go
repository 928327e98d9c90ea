// Package chrisclient implements the ports.Transport boundary that Steps
// cross to talk to a real CUBE REST API over HTTP.
package chrisclient

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"time"

	"github.com/pkg/errors"

	"github.com/chrysalis-cube/chrysalis/internal/ports"
)

// Transport is a net/http-backed ports.Transport. It performs no retries
// and no backoff — SPEC_FULL.md §1 excludes both from the engine's scope.
type Transport struct {
	client *http.Client
}

var _ ports.Transport = (*Transport)(nil)

// New constructs a Transport with the given request timeout. A zero timeout
// means no per-request deadline beyond ctx's own.
func New(timeout time.Duration) *Transport {
	return &Transport{client: &http.Client{Timeout: timeout}}
}

// Do issues req and returns its response, or a wrapped error describing
// what went wrong building or sending the request. The caller (RunStep) is
// responsible for classifying the result into the engine's StepError
// taxonomy; this layer only tells you the HTTP-level failure, with
// pkg/errors annotation around the low-level net/http call.
func (t *Transport) Do(ctx context.Context, req ports.HTTPRequest) (ports.HTTPResponse, error) {
	var body io.Reader
	if len(req.Body) > 0 {
		body = bytes.NewReader(req.Body)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, req.URL, body)
	if err != nil {
		return ports.HTTPResponse{}, errors.Wrapf(err, "building request %s %s", req.Method, req.URL)
	}
	for key, value := range req.Headers {
		httpReq.Header.Set(key, value)
	}

	resp, err := t.client.Do(httpReq)
	if err != nil {
		return ports.HTTPResponse{}, errors.Wrapf(err, "sending request %s %s", req.Method, req.URL)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return ports.HTTPResponse{}, errors.Wrapf(err, "reading response body from %s %s", req.Method, req.URL)
	}

	return ports.HTTPResponse{
		Status: resp.StatusCode,
		URL:    req.URL,
		Method: req.Method,
		Body:   respBody,
	}, nil
}
