package steps

import (
	"github.com/chrysalis-cube/chrysalis/internal/depkey"
	"github.com/chrysalis-cube/chrysalis/internal/depstore"
)

// presentSentinel is the value seeded for nullary "fact available" keys —
// AdminCredentials and PeerUrl are presence signals, not values a step
// produces over HTTP, so there is no Step family for them. The Planner
// seeds these directly into the Dependency Store via TreeExecutor.RunSeeded
// before the run starts; admin-gated and peer-gated steps still close over
// the real username/password/URL taken straight from the manifest, since
// those are construction-time secrets, not facts discovered mid-run.
const presentSentinel = "present"

// AdminCredentialsSeed returns the seed entry marking admin credentials as
// available, or nil if the manifest declared none. Its absence is exactly
// how PluginAddFromPeer and compute-resource creation discover
// Unfulfilled(AdminCredentials).
func AdminCredentialsSeed(adminPresent bool) []depstore.Entry {
	if !adminPresent {
		return nil
	}
	return singleEntry(depkey.Admin(), presentSentinel)
}

// PeerURLSeed returns the seed entry exposing the manifest's configured
// peer base URL under PeerUrl, or nil if the manifest declares no peer.
func PeerURLSeed(peerURL string) []depstore.Entry {
	if peerURL == "" {
		return nil
	}
	return singleEntry(depkey.Peer(), peerURL)
}
