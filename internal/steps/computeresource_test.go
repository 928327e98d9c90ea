package steps

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/chrysalis-cube/chrysalis/internal/depkey"
	"github.com/chrysalis-cube/chrysalis/internal/depstore"
	"github.com/chrysalis-cube/chrysalis/internal/reconcile"
)

func TestComputeResourceURL_UnfulfilledWithoutAdminCredentials(t *testing.T) {
	t.Parallel()

	ps := NewComputeResourceURL("https://cube/", "host", "https://host/cri/", "chris", "pw", "desc", "chris", "chris1234")
	result := ps.Evaluate(depstore.New(0))
	require.Equal(t, reconcile.EvalUnfulfilled, result.Kind)
	require.Equal(t, depkey.Admin(), result.Missing)
}

func TestComputeResourceURL_CreatesWhenAbsent(t *testing.T) {
	t.Parallel()

	transport := newScriptedTransport().
		withResponse("https://cube/computeresources/search/?name=host", 200, `{"results":[]}`).
		withResponse("https://cube/computeresources/", 201, `{"url":"https://cube/computeresources/1/"}`)

	ps := NewComputeResourceURL("https://cube/", "host", "https://host/cri/", "chris", "pw", "desc", "chris", "chris1234")
	store := depstore.New(1)
	store.InsertAll([]depstore.Entry{{Key: depkey.Admin(), Value: "present"}})

	result := ps.Evaluate(store)
	require.Equal(t, reconcile.EvalRun, result.Kind)

	effect, entries := reconcile.RunStep(context.Background(), transport, result.Step)
	require.Equal(t, reconcile.Created, effect.Kind)
	require.Equal(t, []depstore.Entry{{Key: depkey.ComputeResource("host"), Value: "https://cube/computeresources/1/"}}, entries)
}

func TestComputeResourceURL_UnmodifiedWhenPresent(t *testing.T) {
	t.Parallel()

	transport := newScriptedTransport().
		withResponse("https://cube/computeresources/search/?name=host", 200, `{"results":[{"url":"https://cube/computeresources/1/"}]}`)

	ps := NewComputeResourceURL("https://cube/", "host", "https://host/cri/", "chris", "pw", "desc", "chris", "chris1234")
	store := depstore.New(1)
	store.InsertAll([]depstore.Entry{{Key: depkey.Admin(), Value: "present"}})

	result := ps.Evaluate(store)
	effect, _ := reconcile.RunStep(context.Background(), transport, result.Step)
	require.Equal(t, reconcile.Unmodified, effect.Kind)
}

func TestComputeResourceAll_PublishesCSV(t *testing.T) {
	t.Parallel()

	transport := newScriptedTransport().
		withResponse("https://cube/computeresources/", 200, `{"results":[{"name":"host"},{"name":"moc"}]}`)

	ps := NewComputeResourceAll("https://cube/")
	result := ps.Evaluate(depstore.New(0))
	require.Equal(t, reconcile.EvalRun, result.Kind)

	effect, entries := reconcile.RunStep(context.Background(), transport, result.Step)
	require.Equal(t, reconcile.Unmodified, effect.Kind)
	require.Equal(t, []depstore.Entry{{Key: depkey.AllComputeResources(), Value: "host,moc"}}, entries)
}

func TestComputeResourceAll_SkipsWhenAlreadyKnown(t *testing.T) {
	t.Parallel()

	ps := NewComputeResourceAll("https://cube/")
	store := depstore.New(1)
	store.InsertAll([]depstore.Entry{{Key: depkey.AllComputeResources(), Value: "host"}})

	result := ps.Evaluate(store)
	require.Equal(t, reconcile.EvalSkip, result.Kind)
}
