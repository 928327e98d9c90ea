package chrisclient

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/chrysalis-cube/chrysalis/internal/ports"
)

func TestTransport_DoReturnsStatusAndBody(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"id":1}`))
	}))
	defer srv.Close()

	transport := New(5 * time.Second)
	resp, err := transport.Do(context.Background(), ports.HTTPRequest{
		Method:  http.MethodPost,
		URL:     srv.URL,
		Headers: map[string]string{"Authorization": "Bearer tok"},
		Body:    []byte(`{}`),
	})

	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, resp.Status)
	require.Equal(t, `{"id":1}`, string(resp.Body))
}

func TestTransport_DoWrapsUnreachableHost(t *testing.T) {
	t.Parallel()

	transport := New(time.Second)
	_, err := transport.Do(context.Background(), ports.HTTPRequest{
		Method: http.MethodGet,
		URL:    "http://127.0.0.1:1",
	})
	require.Error(t, err)
}

func TestTransport_DoRespectsContextCancellation(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	transport := New(5 * time.Second)
	_, err := transport.Do(ctx, ports.HTTPRequest{Method: http.MethodGet, URL: srv.URL})
	require.Error(t, err)
}
