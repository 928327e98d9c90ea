package manifest

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	chrysalisErrors "github.com/chrysalis-cube/chrysalis/pkg/errors"
)

const sampleManifest = `
version: "1.0"
global:
  cube_url: https://cube.example.org/api/v1/
admin:
  username: chris
  password: chris1234
users:
  alice:
    password: alice1234
    email: alice@example.org
    groups: [pl-users]
plugins:
  pl-dircopy:
    version: "2.1.2"
compute_resources:
  host:
    url: http://pfcon.example.org:30005/
    username: pfcon
    password: pfcon1234
peer:
  url: https://peer.example.org/api/v1/
`

func writeManifest(t *testing.T, contents string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "manifest.yaml")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o600))
	return path
}

func TestLoad_ParsesAndValidatesWellFormedManifest(t *testing.T) {
	t.Parallel()

	path := writeManifest(t, sampleManifest)
	m, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "1.0", m.Version)
	require.Equal(t, "alice@example.org", m.Users["alice"].Email)
}

func TestLoad_SurfacesParseErrorOnMissingFile(t *testing.T) {
	t.Parallel()

	_, err := Load("/nonexistent/manifest.yaml")
	require.Error(t, err)
	var parseErr *chrysalisErrors.ParseError
	require.ErrorAs(t, err, &parseErr)
}

func TestLoad_SurfacesParseErrorOnMalformedYAML(t *testing.T) {
	t.Parallel()

	path := writeManifest(t, "version: [unterminated")
	_, err := Load(path)
	require.Error(t, err)
	var parseErr *chrysalisErrors.ParseError
	require.ErrorAs(t, err, &parseErr)
}

func TestLoad_SurfacesValidationErrorOnBadManifest(t *testing.T) {
	t.Parallel()

	path := writeManifest(t, "version: \"1.0\"\nglobal:\n  cube_url: not-a-url\nadmin:\n  username: chris\n  password: chris1234\n")
	_, err := Load(path)
	require.Error(t, err)
	var validationErr *chrysalisErrors.ValidationError
	require.ErrorAs(t, err, &validationErr)
}
