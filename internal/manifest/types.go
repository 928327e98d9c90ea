// Package manifest defines the declarative shape the Planner consumes: the
// desired set of users, plugins, compute resources, and peers a CUBE
// instance should converge to (SPEC_FULL.md §6).
package manifest

// Manifest is the full declarative document.
type Manifest struct {
	Version string `yaml:"version" validate:"required,semver"`
	Global  Global `yaml:"global" validate:"required"`
	// Admin is optional: present only when the manifest author supplied
	// credentials for admin-gated operations (plugin registration, compute
	// resource creation). Its absence is not a validation failure — steps
	// that need it surface Unfulfilled(AdminCredentials) when evaluated
	// during apply.
	Admin            *Admin                         `yaml:"admin,omitempty" validate:"omitempty"`
	Users            map[string]UserSpec            `yaml:"users,omitempty" validate:"omitempty,dive"`
	Plugins          map[string]PluginSpec          `yaml:"plugins,omitempty" validate:"omitempty,dive"`
	ComputeResources map[string]ComputeResourceSpec `yaml:"compute_resources,omitempty" validate:"omitempty,dive"`
	// Peer is a single optional remote CUBE instance: the original
	// project's PluginFindInPeer takes exactly one peer, not a list, and
	// PeerUrl is a nullary Dependency Key, so the manifest shape matches.
	Peer *Peer `yaml:"peer,omitempty" validate:"omitempty"`
}

// Global holds instance-wide settings.
type Global struct {
	CubeURL string `yaml:"cube_url" validate:"required,url"`
}

// Admin carries the administrator credentials used for admin-gated
// operations (plugin registration, compute resource creation).
type Admin struct {
	Username string `yaml:"username" validate:"required"`
	Password string `yaml:"password" validate:"required"`
}

// UserSpec declares a desired CUBE user account, keyed by username in
// Manifest.Users.
type UserSpec struct {
	Password string   `yaml:"password" validate:"required,min=8"`
	Email    string   `yaml:"email" validate:"required,email"`
	Groups   []string `yaml:"groups,omitempty"`
}

// PluginSpec declares a desired plugin registration, keyed by plugin name
// in Manifest.Plugins. ComputeResources, when non-empty, restricts the
// compute resources the plugin is associated with (supplemented feature,
// SPEC_FULL.md §7).
type PluginSpec struct {
	Version          string   `yaml:"version" validate:"required,plugin_version"`
	ComputeResources []string `yaml:"compute_resources,omitempty"`
}

// ComputeResourceSpec declares a desired compute resource, keyed by name in
// Manifest.ComputeResources.
type ComputeResourceSpec struct {
	URL         string `yaml:"url" validate:"required,url"`
	Username    string `yaml:"username" validate:"required"`
	Password    string `yaml:"password" validate:"required"`
	Description string `yaml:"description,omitempty"`
}

// Peer declares the remote CUBE instance to search for plugins not yet
// checked in locally.
type Peer struct {
	URL string `yaml:"url" validate:"required,url"`
}
