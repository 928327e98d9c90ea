package manifest

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func validManifest() *Manifest {
	return &Manifest{
		Version: "1.0",
		Global:  Global{CubeURL: "https://cube.example.org/api/v1/"},
		Admin:   &Admin{Username: "chris", Password: "chris1234"},
		Users: map[string]UserSpec{
			"alice": {Password: "alice1234", Email: "alice@example.org", Groups: []string{"pl-users"}},
		},
		Plugins: map[string]PluginSpec{
			"pl-dircopy": {Version: "2.1.2"},
			"pl-simpledsapp": {
				Version:          "2.1.0",
				ComputeResources: []string{"host"},
			},
		},
		ComputeResources: map[string]ComputeResourceSpec{
			"host": {URL: "http://pfcon.example.org:30005/", Username: "pfcon", Password: "pfcon1234"},
		},
		Peer: &Peer{URL: "https://peer.example.org/api/v1/"},
	}
}

func TestValidate_AcceptsWellFormedManifest(t *testing.T) {
	t.Parallel()
	require.NoError(t, Validate(validManifest()))
}

func TestValidate_RejectsMissingVersion(t *testing.T) {
	t.Parallel()
	m := validManifest()
	m.Version = ""
	require.Error(t, Validate(m))
}

func TestValidate_RejectsMalformedPluginVersion(t *testing.T) {
	t.Parallel()
	m := validManifest()
	m.Plugins["pl-dircopy"] = PluginSpec{Version: "latest"}
	require.Error(t, Validate(m))
}

func TestValidate_RejectsUserWithoutEmail(t *testing.T) {
	t.Parallel()
	m := validManifest()
	m.Users["alice"] = UserSpec{Password: "alice1234"}
	require.Error(t, Validate(m))
}

func TestValidate_RejectsPluginReferencingUnknownComputeResource(t *testing.T) {
	t.Parallel()
	m := validManifest()
	m.Plugins["pl-simpledsapp"] = PluginSpec{Version: "2.1.0", ComputeResources: []string{"ghost"}}

	err := Validate(m)
	require.Error(t, err)
	require.Contains(t, err.Error(), "ghost")
}

func TestValidate_RejectsNilManifest(t *testing.T) {
	t.Parallel()
	require.Error(t, Validate(nil))
}

func TestValidate_AcceptsManifestWithoutAdmin(t *testing.T) {
	t.Parallel()
	m := validManifest()
	m.Admin = nil
	require.NoError(t, Validate(m))
}
