package reconcile

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/chrysalis-cube/chrysalis/internal/depkey"
	"github.com/chrysalis-cube/chrysalis/internal/depstore"
	"github.com/chrysalis-cube/chrysalis/internal/ports"
)

// scriptedStep is a minimal, fully scripted Step used to exercise RunStep's
// branches in isolation from any concrete step family.
type scriptedStep struct {
	provides    []depkey.Key
	searchURL   string
	statusClass func(status int) StatusClass
	check       Check
	checkErr    error
	create      *SubRequest
	modify      *SubRequest
}

func (s *scriptedStep) Provides() []depkey.Key { return s.provides }
func (s *scriptedStep) Search() ports.HTTPRequest {
	return ports.HTTPRequest{Method: "GET", URL: s.searchURL}
}
func (s *scriptedStep) ClassifyStatus(status int) StatusClass { return s.statusClass(status) }
func (s *scriptedStep) Deserialize([]byte) (Check, error)     { return s.check, s.checkErr }
func (s *scriptedStep) Create() *SubRequest                   { return s.create }
func (s *scriptedStep) Modify() *SubRequest                   { return s.modify }

func alwaysExists(int) StatusClass { return StatusExists }

func TestRunStep_ExistsReturnsUnmodified(t *testing.T) {
	t.Parallel()

	transport := newFakeTransport().withResponse("https://cube/users/1/", ports.HTTPResponse{Status: 200})
	step := &scriptedStep{
		provides:    []depkey.Key{depkey.User(depkey.UserExists, "alice")},
		searchURL:   "https://cube/users/1/",
		statusClass: alwaysExists,
		check:       Check{Kind: CheckExists, Entries: []depstore.Entry{{Key: depkey.User(depkey.UserExists, "alice"), Value: "1"}}},
	}

	effect, entries := RunStep(context.Background(), transport, step)
	require.Equal(t, Unmodified, effect.Kind)
	require.Len(t, entries, 1)
}

func TestRunStep_ModifiedPassesThroughWithoutSubRequest(t *testing.T) {
	t.Parallel()

	transport := newFakeTransport().withResponse("https://cube/users/1/", ports.HTTPResponse{Status: 200})
	step := &scriptedStep{
		searchURL:   "https://cube/users/1/",
		statusClass: alwaysExists,
		check:       Check{Kind: CheckModified, Entries: []depstore.Entry{{Key: depkey.User(depkey.UserEmail, "alice"), Value: "a@new"}}},
	}

	effect, entries := RunStep(context.Background(), transport, step)
	require.Equal(t, Modified, effect.Kind)
	require.Len(t, entries, 1)
}

func TestRunStep_DoesNotExistCreates(t *testing.T) {
	t.Parallel()

	transport := newFakeTransport().
		withResponse("https://cube/users/search/", ports.HTTPResponse{Status: 200}).
		withResponse("https://cube/users/", ports.HTTPResponse{Status: 201})
	step := &scriptedStep{
		searchURL:   "https://cube/users/search/",
		statusClass: alwaysExists,
		check:       Check{Kind: CheckDoesNotExist},
		create: &SubRequest{
			Request: ports.HTTPRequest{Method: "POST", URL: "https://cube/users/"},
			Deserialize: func([]byte) ([]depstore.Entry, error) {
				return []depstore.Entry{{Key: depkey.User(depkey.UserExists, "alice"), Value: "1"}}, nil
			},
		},
	}

	effect, entries := RunStep(context.Background(), transport, step)
	require.Equal(t, Created, effect.Kind)
	require.Len(t, entries, 1)
}

func TestRunStep_DoesNotExistWithoutCreateIsUncreatable(t *testing.T) {
	t.Parallel()

	transport := newFakeTransport().withResponse("https://cube/users/search/", ports.HTTPResponse{Status: 200})
	step := &scriptedStep{
		searchURL:   "https://cube/users/search/",
		statusClass: alwaysExists,
		check:       Check{Kind: CheckDoesNotExist},
	}

	effect, _ := RunStep(context.Background(), transport, step)
	require.Equal(t, Error, effect.Kind)
	var uncreatable *UncreatableError
	require.ErrorAs(t, effect.Err, &uncreatable)
}

func TestRunStep_NeedsModificationWithoutModifyIsUnmodifiable(t *testing.T) {
	t.Parallel()

	transport := newFakeTransport().withResponse("https://cube/users/search/", ports.HTTPResponse{Status: 200})
	step := &scriptedStep{
		searchURL:   "https://cube/users/search/",
		statusClass: alwaysExists,
		check:       Check{Kind: CheckNeedsModification},
	}

	effect, _ := RunStep(context.Background(), transport, step)
	require.Equal(t, Error, effect.Kind)
	var unmodifiable *UnmodifiableError
	require.ErrorAs(t, effect.Err, &unmodifiable)
}

func TestRunStep_StatusClassErrorFails(t *testing.T) {
	t.Parallel()

	transport := newFakeTransport().withResponse("https://cube/users/search/", ports.HTTPResponse{Status: 500})
	step := &scriptedStep{
		searchURL:   "https://cube/users/search/",
		statusClass: func(int) StatusClass { return StatusClassError },
	}

	effect, _ := RunStep(context.Background(), transport, step)
	require.Equal(t, Error, effect.Kind)
	var statusErr *StatusError
	require.ErrorAs(t, effect.Err, &statusErr)
	require.Equal(t, 500, statusErr.Status)
}

func TestRunStep_TransportFailureIsolatesStep(t *testing.T) {
	t.Parallel()

	transport := newFakeTransport().withFailure("https://cube/users/search/")
	step := &scriptedStep{
		searchURL:   "https://cube/users/search/",
		statusClass: alwaysExists,
	}

	effect, entries := RunStep(context.Background(), transport, step)
	require.Equal(t, Error, effect.Kind)
	require.Nil(t, entries)
	var transportErr *TransportError
	require.ErrorAs(t, effect.Err, &transportErr)
}

func TestRunStep_DeserializeErrorSurfaces(t *testing.T) {
	t.Parallel()

	transport := newFakeTransport().withResponse("https://cube/users/search/", ports.HTTPResponse{Status: 200})
	step := &scriptedStep{
		searchURL:   "https://cube/users/search/",
		statusClass: alwaysExists,
		checkErr:    errors.New("malformed body"),
	}

	effect, _ := RunStep(context.Background(), transport, step)
	require.Equal(t, Error, effect.Kind)
	var deserErr *DeserializationError
	require.ErrorAs(t, effect.Err, &deserErr)
}
