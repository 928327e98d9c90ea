// Package planner translates a validated manifest into a populated DAG of
// Pending-Steps plus the Dependency Store seed entries the manifest already
// supplies outright, ready for a TreeExecutor to run.
package planner

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/chrysalis-cube/chrysalis/internal/depkey"
	"github.com/chrysalis-cube/chrysalis/internal/depstore"
	"github.com/chrysalis-cube/chrysalis/internal/manifest"
	"github.com/chrysalis-cube/chrysalis/internal/reconcile"
	"github.com/chrysalis-cube/chrysalis/internal/steps"
)

// Plan is the Planner's output: a DAG ready to run, plus the seed entries
// the Tree Executor must pre-populate the Dependency Store with.
type Plan struct {
	DAG  *reconcile.DAG
	Seed []depstore.Entry
}

// wiredNode is the pure, concurrency-safe unit of work a single manifest
// entry compiles to before it is sequentially added to the DAG: every
// PendingStep this entry contributes, plus the IDs it depends on.
type wiredNode struct {
	step    *reconcile.PendingStep
	require []string
}

// Build compiles m into a Plan. Per-entity step-family construction (one
// goroutine per user, plugin, and compute resource) runs concurrently via
// errgroup.Group, since building a PendingStep closure touches only the
// manifest data closed over by that entity — wiring the results into the
// DAG itself stays on the calling goroutine, since DAG.AddNode/AddEdge
// mutate shared state and are not safe for concurrent use.
func Build(m *manifest.Manifest) (*Plan, error) {
	if m == nil {
		return nil, fmt.Errorf("planner: manifest is nil")
	}

	cubeURL := m.Global.CubeURL
	adminUsername, adminPassword := "", ""
	adminPresent := m.Admin != nil
	if adminPresent {
		adminUsername, adminPassword = m.Admin.Username, m.Admin.Password
	}
	var peerURL string
	if m.Peer != nil {
		peerURL = m.Peer.URL
	}

	g, _ := errgroup.WithContext(context.Background())
	g.SetLimit(8)

	nodeSets := make([][]wiredNode, 0, len(m.Users)+len(m.ComputeResources)+2*len(m.Plugins))
	resultsCh := make(chan []wiredNode, len(m.Users)+len(m.ComputeResources)+2*len(m.Plugins))

	for username, spec := range m.Users {
		username, spec := username, spec
		g.Go(func() error {
			resultsCh <- wireUser(cubeURL, username, spec)
			return nil
		})
	}

	for name, spec := range m.ComputeResources {
		name, spec := name, spec
		g.Go(func() error {
			resultsCh <- wireComputeResource(cubeURL, name, spec, adminUsername, adminPassword)
			return nil
		})
	}

	for name, spec := range m.Plugins {
		name, spec := name, spec
		pluginSpec := depkey.PluginSpec{Name: name, Version: spec.Version}
		g.Go(func() error {
			resultsCh <- wirePlugin(cubeURL, pluginSpec, spec, adminUsername, adminPassword)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	close(resultsCh)
	for set := range resultsCh {
		nodeSets = append(nodeSets, set)
	}

	dag := reconcile.NewDAG()
	for _, set := range nodeSets {
		for _, n := range set {
			if err := dag.AddNode(n.step); err != nil {
				return nil, err
			}
		}
	}
	for _, set := range nodeSets {
		for _, n := range set {
			for _, from := range n.require {
				if err := dag.AddEdge(from, n.step.ID); err != nil {
					return nil, err
				}
			}
		}
	}

	var seed []depstore.Entry
	seed = append(seed, steps.AdminCredentialsSeed(adminPresent)...)
	seed = append(seed, steps.PeerURLSeed(peerURL)...)

	return &Plan{DAG: dag, Seed: seed}, nil
}

func wireUser(cubeURL, username string, spec manifest.UserSpec) []wiredNode {
	exists := steps.NewUserExists(cubeURL, username, spec.Password, spec.Email)
	authToken := steps.NewUserGetAuthToken(cubeURL, username, spec.Password)
	userURL := steps.NewUserGetURL(cubeURL, username)
	details := steps.NewUserGetDetails(username)
	finalize := steps.NewUserDetailsFinalize(username, spec.Email)

	return []wiredNode{
		{step: exists},
		{step: authToken, require: []string{exists.ID}},
		{step: userURL, require: []string{authToken.ID}},
		{step: details, require: []string{userURL.ID}},
		{step: finalize, require: []string{details.ID}},
	}
}

func wireComputeResource(cubeURL, name string, spec manifest.ComputeResourceSpec, adminUsername, adminPassword string) []wiredNode {
	cr := steps.NewComputeResourceURL(cubeURL, name, spec.URL, spec.Username, spec.Password, spec.Description, adminUsername, adminPassword)
	return []wiredNode{{step: cr}}
}

func wirePlugin(cubeURL string, pluginSpec depkey.PluginSpec, spec manifest.PluginSpec, adminUsername, adminPassword string) []wiredNode {
	add := steps.NewPluginAddFromPeer(cubeURL, pluginSpec, adminUsername, adminPassword)
	nodes := []wiredNode{{step: add}}

	if len(spec.ComputeResources) > 0 {
		associate := steps.NewPluginComputeResourceAssociate(pluginSpec, spec.ComputeResources)
		require := []string{add.ID}
		for _, name := range spec.ComputeResources {
			require = append(require, "compute-resource:"+name)
		}
		nodes = append(nodes, wiredNode{step: associate, require: require})
	}

	return nodes
}
