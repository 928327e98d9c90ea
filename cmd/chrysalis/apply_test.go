package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestApplyCommand_SucceedsWhenChainResolvesCleanly(t *testing.T) {
	path := writeManifestFile(t, oneUserManifest)

	transport := newScriptedTransport().
		withResponse("https://cube/users/search/?username=alice", 200, `{"results":[]}`).
		withResponse("https://cube/users/search/?username=alice", 200, `{"results":[{"id":1,"url":"https://cube/users/1/","email":"alice@example.org"}]}`).
		withResponse("https://cube/users/", 201, `{"id":1,"url":"https://cube/users/1/","email":"alice@example.org"}`).
		withResponse("https://cube/auth-token/", 200, `{"token":"tok"}`).
		withResponse("https://cube/users/1/", 200, `{"id":1,"url":"https://cube/users/1/","email":"alice@example.org","groups":"https://cube/users/1/groups/"}`)

	root := newRootCmd(testApp(transport))
	buf := &bytes.Buffer{}
	root.SetOut(buf)
	root.SetErr(buf)
	root.SetArgs([]string{"apply", "--manifest", path})

	require.NoError(t, root.Execute())
	require.Contains(t, buf.String(), "reconciliation summary")
}

func TestApplyCommand_ReturnsErrorWhenTargetsUnfulfilled(t *testing.T) {
	path := writeManifestFile(t, `
version: "1.0"
global:
  cube_url: https://cube/
admin:
  username: chris
  password: chris1234
plugins:
  pl-dircopy:
    version: "2.1.0"
`)

	// No peers configured: PluginAddFromPeer surfaces Unfulfilled(PeerUrl)
	// without any HTTP call at all.
	transport := newScriptedTransport()

	root := newRootCmd(testApp(transport))
	buf := &bytes.Buffer{}
	root.SetOut(buf)
	root.SetErr(buf)
	root.SetArgs([]string{"apply", "--manifest", path})

	require.Error(t, root.Execute())
}
