package steps

import (
	"fmt"

	"github.com/chrysalis-cube/chrysalis/internal/depkey"
	"github.com/chrysalis-cube/chrysalis/internal/depstore"
	"github.com/chrysalis-cube/chrysalis/internal/ports"
	"github.com/chrysalis-cube/chrysalis/internal/reconcile"
)

type computeResourceRecord struct {
	URL string `json:"url"`
}

// NewComputeResourceURL reconciles a single named compute resource.
// Provides ComputeResourceUrl(name); requires AdminCredentials, since
// creating a compute resource is an admin-gated operation.
func NewComputeResourceURL(cubeURL, name, url, username, password, description, adminUsername, adminPassword string) *reconcile.PendingStep {
	key := depkey.ComputeResource(name)
	adminKey := depkey.Admin()
	return &reconcile.PendingStep{
		ID:       "compute-resource:" + name,
		Provides: []depkey.Key{key},
		Evaluate: func(store depstore.Reader) reconcile.EvalResult {
			if reconcile.DefaultSkipCheck(store, []depkey.Key{key}) {
				return reconcile.Skip()
			}
			if !store.Contains(adminKey) {
				return reconcile.Unfulfilled(adminKey)
			}
			return reconcile.Run(&computeResourceStep{
				cubeURL:       cubeURL,
				name:          name,
				url:           url,
				username:      username,
				password:      password,
				description:   description,
				adminUsername: adminUsername,
				adminPassword: adminPassword,
			})
		},
	}
}

type computeResourceStep struct {
	cubeURL, name, url, username, password, description string
	adminUsername, adminPassword                         string
}

func (s *computeResourceStep) Provides() []depkey.Key {
	return []depkey.Key{depkey.ComputeResource(s.name)}
}

func (s *computeResourceStep) Search() ports.HTTPRequest {
	return jsonGet(fmt.Sprintf("%scomputeresources/search/?name=%s", s.cubeURL, s.name), "")
}

func (s *computeResourceStep) ClassifyStatus(status int) reconcile.StatusClass { return alwaysExists(status) }

func (s *computeResourceStep) Deserialize(body []byte) (reconcile.Check, error) {
	results, err := decodeSearch[computeResourceRecord](body)
	if err != nil {
		return reconcile.Check{}, err
	}
	if len(results) == 0 {
		return reconcile.Check{Kind: reconcile.CheckDoesNotExist}, nil
	}
	return reconcile.Check{
		Kind:    reconcile.CheckExists,
		Entries: singleEntry(depkey.ComputeResource(s.name), results[0].URL),
	}, nil
}

func (s *computeResourceStep) Create() *reconcile.SubRequest {
	req, err := jsonPostBasicAuth(s.cubeURL+"computeresources/", s.adminUsername, s.adminPassword, map[string]string{
		"name":             s.name,
		"compute_url":      s.url,
		"compute_user":     s.username,
		"compute_password": s.password,
		"description":      s.description,
	})
	if err != nil {
		return nil
	}
	name := s.name
	return &reconcile.SubRequest{
		Request: req,
		Deserialize: func(body []byte) ([]depstore.Entry, error) {
			var created computeResourceRecord
			if err := decodeInto(body, &created); err != nil {
				return nil, err
			}
			return singleEntry(depkey.ComputeResource(name), created.URL), nil
		},
	}
}

func (s *computeResourceStep) Modify() *reconcile.SubRequest { return nil }

// NewComputeResourceAll publishes the CSV of all known compute resource
// names (SPEC_FULL.md §7) under ComputeResourceAll. No step family in this
// package reads that key. Root node; no predecessors.
func NewComputeResourceAll(cubeURL string) *reconcile.PendingStep {
	key := depkey.AllComputeResources()
	step := &computeResourceAllStep{cubeURL: cubeURL}
	return &reconcile.PendingStep{
		ID:       "compute-resource-all",
		Provides: []depkey.Key{key},
		Evaluate: func(store depstore.Reader) reconcile.EvalResult {
			if reconcile.DefaultSkipCheck(store, step.Provides()) {
				return reconcile.Skip()
			}
			return reconcile.Run(step)
		},
	}
}

type computeResourceAllStep struct {
	cubeURL string
}

func (s *computeResourceAllStep) Provides() []depkey.Key {
	return []depkey.Key{depkey.AllComputeResources()}
}

func (s *computeResourceAllStep) Search() ports.HTTPRequest {
	return jsonGet(s.cubeURL+"computeresources/", "")
}

func (s *computeResourceAllStep) ClassifyStatus(status int) reconcile.StatusClass { return alwaysExists(status) }

func (s *computeResourceAllStep) Deserialize(body []byte) (reconcile.Check, error) {
	var record struct {
		Results []struct {
			Name string `json:"name"`
		} `json:"results"`
	}
	if err := decodeInto(body, &record); err != nil {
		return reconcile.Check{}, err
	}
	names := make([]string, 0, len(record.Results))
	for _, r := range record.Results {
		names = append(names, r.Name)
	}
	return reconcile.Check{
		Kind:    reconcile.CheckExists,
		Entries: singleEntry(depkey.AllComputeResources(), joinCSV(names)),
	}, nil
}

func (s *computeResourceAllStep) Create() *reconcile.SubRequest { return nil }
func (s *computeResourceAllStep) Modify() *reconcile.SubRequest { return nil }
