package steps

import (
	"fmt"

	"github.com/chrysalis-cube/chrysalis/internal/depkey"
	"github.com/chrysalis-cube/chrysalis/internal/depstore"
	"github.com/chrysalis-cube/chrysalis/internal/ports"
	"github.com/chrysalis-cube/chrysalis/internal/reconcile"
)

type pluginRecord struct {
	ID  int    `json:"id"`
	URL string `json:"url"`
}

// NewPluginAddFromPeer checks whether a plugin is already registered
// locally and, if not, registers it by pointing CUBE at a peer instance's
// plugin store. Provides Plugin(spec); requires AdminCredentials and
// PeerUrl to be present before the search is even attempted, so the
// absence of admin credentials surfaces Unfulfilled(AdminCredentials)
// without any HTTP call.
func NewPluginAddFromPeer(cubeURL string, spec depkey.PluginSpec, adminUsername, adminPassword string) *reconcile.PendingStep {
	key := depkey.ForPlugin(depkey.Plugin, spec)
	adminKey := depkey.Admin()
	peerKey := depkey.Peer()
	return &reconcile.PendingStep{
		ID:       "plugin-add:" + spec.String(),
		Provides: []depkey.Key{key},
		Evaluate: func(store depstore.Reader) reconcile.EvalResult {
			if reconcile.DefaultSkipCheck(store, []depkey.Key{key}) {
				return reconcile.Skip()
			}
			if !store.Contains(adminKey) {
				return reconcile.Unfulfilled(adminKey)
			}
			peerURL, ok := store.Get(peerKey)
			if !ok {
				return reconcile.Unfulfilled(peerKey)
			}
			return reconcile.Run(&pluginAddStep{
				cubeURL:       cubeURL,
				peerURL:       peerURL,
				spec:          spec,
				adminUsername: adminUsername,
				adminPassword: adminPassword,
			})
		},
	}
}

type pluginAddStep struct {
	cubeURL, peerURL string
	spec             depkey.PluginSpec
	adminUsername    string
	adminPassword    string
}

func (s *pluginAddStep) Provides() []depkey.Key {
	return []depkey.Key{depkey.ForPlugin(depkey.Plugin, s.spec)}
}

func (s *pluginAddStep) Search() ports.HTTPRequest {
	return jsonGet(fmt.Sprintf("%splugins/search/?name=%s&version=%s", s.cubeURL, s.spec.Name, s.spec.Version), "")
}

func (s *pluginAddStep) ClassifyStatus(status int) reconcile.StatusClass { return alwaysExists(status) }

func (s *pluginAddStep) Deserialize(body []byte) (reconcile.Check, error) {
	results, err := decodeSearch[pluginRecord](body)
	if err != nil {
		return reconcile.Check{}, err
	}
	if len(results) == 0 {
		return reconcile.Check{Kind: reconcile.CheckDoesNotExist}, nil
	}
	return reconcile.Check{
		Kind: reconcile.CheckExists,
		Entries: []depstore.Entry{
			{Key: depkey.ForPlugin(depkey.Plugin, s.spec), Value: fmt.Sprintf("%d", results[0].ID)},
			{Key: depkey.ForPlugin(depkey.PluginUrl, s.spec), Value: results[0].URL},
			{Key: depkey.ForPlugin(depkey.PluginCheckedInLocal, s.spec), Value: "true"},
		},
	}, nil
}

func (s *pluginAddStep) Create() *reconcile.SubRequest {
	storeURL := fmt.Sprintf("%splugins/search/?name=%s&version=%s", s.peerURL, s.spec.Name, s.spec.Version)
	req, err := jsonPostBasicAuth(s.cubeURL+"plugins/", s.adminUsername, s.adminPassword, map[string]string{
		"name":             s.spec.Name,
		"version":          s.spec.Version,
		"plugin_store_url": storeURL,
	})
	if err != nil {
		return nil
	}
	spec, peerURL := s.spec, s.peerURL
	return &reconcile.SubRequest{
		Request: req,
		Deserialize: func(body []byte) ([]depstore.Entry, error) {
			var created pluginRecord
			if err := decodeInto(body, &created); err != nil {
				return nil, err
			}
			return []depstore.Entry{
				{Key: depkey.ForPlugin(depkey.Plugin, spec), Value: fmt.Sprintf("%d", created.ID)},
				{Key: depkey.ForPlugin(depkey.PluginUrl, spec), Value: created.URL},
				{Key: depkey.ForPlugin(depkey.PluginPeerUrl, spec), Value: peerURL},
				{Key: depkey.ForPlugin(depkey.PluginCheckedInLocal, spec), Value: "true"},
			}, nil
		},
	}
}

func (s *pluginAddStep) Modify() *reconcile.SubRequest { return nil }

// NewPluginComputeResourceAssociate reconciles which compute resources a
// plugin is registered against (SPEC_FULL.md §7's supplemented feature).
// Provides PluginCheckedInLocal(spec) as its primary key — distinct from
// NewPluginAddFromPeer's Plugin(spec) — and requires Plugin(spec) plus
// every named resource's ComputeResourceUrl.
func NewPluginComputeResourceAssociate(spec depkey.PluginSpec, resourceNames []string) *reconcile.PendingStep {
	key := depkey.ForPlugin(depkey.PluginCheckedInLocal, spec)
	pluginKey := depkey.ForPlugin(depkey.Plugin, spec)
	pluginURLKey := depkey.ForPlugin(depkey.PluginUrl, spec)
	return &reconcile.PendingStep{
		ID:       "plugin-cr-associate:" + spec.String(),
		Provides: []depkey.Key{key},
		Evaluate: func(store depstore.Reader) reconcile.EvalResult {
			if reconcile.DefaultSkipCheck(store, []depkey.Key{key}) {
				return reconcile.Skip()
			}
			if !store.Contains(pluginKey) {
				return reconcile.Unfulfilled(pluginKey)
			}
			pluginURL, ok := store.Get(pluginURLKey)
			if !ok {
				return reconcile.Unfulfilled(pluginURLKey)
			}
			resourceURLs := make([]string, 0, len(resourceNames))
			for _, name := range resourceNames {
				resourceKey := depkey.ComputeResource(name)
				url, ok := store.Get(resourceKey)
				if !ok {
					return reconcile.Unfulfilled(resourceKey)
				}
				resourceURLs = append(resourceURLs, url)
			}
			return reconcile.Run(&pluginAssociateStep{spec: spec, pluginURL: pluginURL, resourceURLs: resourceURLs})
		},
	}
}

type pluginAssociateStep struct {
	spec         depkey.PluginSpec
	pluginURL    string
	resourceURLs []string
}

func (s *pluginAssociateStep) Provides() []depkey.Key {
	return []depkey.Key{depkey.ForPlugin(depkey.PluginCheckedInLocal, s.spec)}
}

func (s *pluginAssociateStep) Search() ports.HTTPRequest {
	return jsonGet(s.pluginURL+"computeresources/", "")
}

func (s *pluginAssociateStep) ClassifyStatus(status int) reconcile.StatusClass { return alwaysExists(status) }

func (s *pluginAssociateStep) Deserialize(body []byte) (reconcile.Check, error) {
	var record struct {
		Results []struct {
			URL string `json:"url"`
		} `json:"results"`
	}
	if err := decodeInto(body, &record); err != nil {
		return reconcile.Check{}, err
	}
	associated := make(map[string]bool, len(record.Results))
	for _, r := range record.Results {
		associated[r.URL] = true
	}
	for _, wanted := range s.resourceURLs {
		if !associated[wanted] {
			return reconcile.Check{Kind: reconcile.CheckNeedsModification}, nil
		}
	}
	return reconcile.Check{
		Kind:    reconcile.CheckExists,
		Entries: singleEntry(depkey.ForPlugin(depkey.PluginCheckedInLocal, s.spec), "true"),
	}, nil
}

func (s *pluginAssociateStep) Create() *reconcile.SubRequest { return nil }

func (s *pluginAssociateStep) Modify() *reconcile.SubRequest {
	req, err := jsonPost(s.pluginURL+"computeresources/", "", map[string][]string{"compute_resources": s.resourceURLs})
	if err != nil {
		return nil
	}
	spec := s.spec
	return &reconcile.SubRequest{
		Request: req,
		Deserialize: func([]byte) ([]depstore.Entry, error) {
			return singleEntry(depkey.ForPlugin(depkey.PluginCheckedInLocal, spec), "true"), nil
		},
	}
}
