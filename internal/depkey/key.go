// Package depkey defines the closed taxonomy of Dependency Keys that flow
// between reconciliation steps. A DependencyKey is a small, comparable value
// so it can be used directly as a map key in the Dependency Store.
package depkey

import "fmt"

// Kind enumerates the nullary or identifier-carrying families of
// DependencyKey. The set is closed: steps and the planner only ever
// construct keys through the Kind constructors below.
type Kind int

const (
	// UserExists marks that a named user has been confirmed to exist on CUBE.
	UserExists Kind = iota
	// AuthToken carries the bearer token for a named user.
	AuthToken
	// UserUrl carries the canonical resource URL for a named user.
	UserUrl
	// UserGroupsUrl carries the URL of a named user's groups collection.
	UserGroupsUrl
	// UserEmail carries the email address CUBE currently has on file for a user.
	UserEmail
	// Plugin marks that a plugin (name + optional version) is registered.
	Plugin
	// PluginUrl carries the canonical resource URL for a plugin.
	PluginUrl
	// PluginVersion carries the resolved version string for a plugin.
	PluginVersion
	// PluginPeerUrl carries the URL of the peer instance a plugin was found on.
	PluginPeerUrl
	// PluginCheckedInLocal marks that a plugin has been checked into the local registry.
	PluginCheckedInLocal
	// ComputeResourceUrl carries the canonical resource URL for a named compute resource.
	ComputeResourceUrl
	// ComputeResourceAll carries the CSV of all known compute resource names.
	ComputeResourceAll
	// AdminCredentials marks that administrator credentials are available.
	AdminCredentials
	// PeerUrl carries the base URL of a peer CUBE instance.
	PeerUrl
)

func (k Kind) String() string {
	switch k {
	case UserExists:
		return "UserExists"
	case AuthToken:
		return "AuthToken"
	case UserUrl:
		return "UserUrl"
	case UserGroupsUrl:
		return "UserGroupsUrl"
	case UserEmail:
		return "UserEmail"
	case Plugin:
		return "Plugin"
	case PluginUrl:
		return "PluginUrl"
	case PluginVersion:
		return "PluginVersion"
	case PluginPeerUrl:
		return "PluginPeerUrl"
	case PluginCheckedInLocal:
		return "PluginCheckedInLocal"
	case ComputeResourceUrl:
		return "ComputeResourceUrl"
	case ComputeResourceAll:
		return "ComputeResourceAll"
	case AdminCredentials:
		return "AdminCredentials"
	case PeerUrl:
		return "PeerUrl"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// PluginSpec identifies a plugin by name and an optional version. An empty
// Version means "any/latest".
type PluginSpec struct {
	Name    string
	Version string
}

func (p PluginSpec) String() string {
	if p.Version == "" {
		return p.Name
	}
	return fmt.Sprintf("%s@%s", p.Name, p.Version)
}

// Key is a typed, structurally comparable identifier for a fact produced by
// one step and consumed by others. Only the fields relevant to Kind are
// populated; the rest are left zero. Because every field is comparable, Key
// is directly usable as a Go map key.
type Key struct {
	Kind     Kind
	Username string
	Plugin   PluginSpec
	Resource string
}

// String renders a human-readable form, primarily for logging and error
// messages (e.g. the Unfulfilled effect names the missing key).
func (k Key) String() string {
	switch k.Kind {
	case UserExists, AuthToken, UserUrl, UserGroupsUrl, UserEmail:
		return fmt.Sprintf("%s(%s)", k.Kind, k.Username)
	case Plugin, PluginUrl, PluginVersion, PluginPeerUrl, PluginCheckedInLocal:
		return fmt.Sprintf("%s(%s)", k.Kind, k.Plugin)
	case ComputeResourceUrl:
		return fmt.Sprintf("%s(%s)", k.Kind, k.Resource)
	default:
		return k.Kind.String()
	}
}

// User constructs a user-scoped key of the given kind.
func User(kind Kind, username string) Key {
	return Key{Kind: kind, Username: username}
}

// ForPlugin constructs a plugin-scoped key of the given kind.
func ForPlugin(kind Kind, spec PluginSpec) Key {
	return Key{Kind: kind, Plugin: spec}
}

// ComputeResource constructs a ComputeResourceUrl key for a named resource.
func ComputeResource(name string) Key {
	return Key{Kind: ComputeResourceUrl, Resource: name}
}

// AllComputeResources is the nullary key for the CSV of all compute resource names.
func AllComputeResources() Key { return Key{Kind: ComputeResourceAll} }

// Admin is the nullary key marking admin credential availability.
func Admin() Key { return Key{Kind: AdminCredentials} }

// Peer is the nullary key for a peer instance's base URL.
func Peer() Key { return Key{Kind: PeerUrl} }
