// Package plugin provides the plugin data model, dependency resolution,
// and the lifecycle registry that installs and removes plugins at runtime.
package plugin

import (
	"context"
	"fmt"
	"regexp"

	"github.com/poly1603/ldesign-engine-sub006/internal/domain/version"
)

// DependencyKind classifies a dependency edge.
type DependencyKind string

const (
	// KindRequired must be satisfied for successful resolution.
	KindRequired DependencyKind = "required"
	// KindOptional does not block resolution by absence alone.
	KindOptional DependencyKind = "optional"
	// KindPeer is expected alongside the plugin but its absence is tolerated.
	KindPeer DependencyKind = "peer"
)

// Valid reports whether the kind is one of the known dependency kinds.
func (k DependencyKind) Valid() bool {
	switch k {
	case KindRequired, KindOptional, KindPeer:
		return true
	}
	return false
}

// DependencySpec declares a single dependency of a plugin.
type DependencySpec struct {
	// Name is the depended-upon plugin name.
	Name string `yaml:"name"`
	// Kind is the dependency kind; empty means required.
	Kind DependencyKind `yaml:"kind,omitempty"`
	// Constraint bounds acceptable versions of the dependency.
	Constraint version.Constraint `yaml:"constraint,omitempty"`
	// Condition gates optional dependencies. When set, it is evaluated
	// once at graph build time; a false result removes the edge entirely.
	Condition func() bool `yaml:"-"`
}

// EffectiveKind returns the kind, defaulting empty to required.
func (d DependencySpec) EffectiveKind() DependencyKind {
	if d.Kind == "" {
		return KindRequired
	}
	return d.Kind
}

// HookFunc is an install or uninstall hook. Hooks may block on asynchronous
// work; the registry awaits them to completion before the transition is
// considered finished.
type HookFunc func(ctx context.Context, hc *HookContext) error

// Plugin describes a unit of functionality registered with the engine.
// Identity (the name) is immutable once registered.
type Plugin struct {
	// Name is the unique plugin identifier.
	Name string `yaml:"name"`
	// Version is the dotted numeric version (e.g. "1.2.0").
	Version string `yaml:"version,omitempty"`
	// Description is a brief description of the plugin.
	Description string `yaml:"description,omitempty"`
	// Author is the plugin author.
	Author string `yaml:"author,omitempty"`
	// License is the plugin license (e.g. "MIT").
	License string `yaml:"license,omitempty"`
	// Keywords are searchable tags.
	Keywords []string `yaml:"keywords,omitempty"`
	// Dependencies lists the plugins this plugin depends on, in order.
	Dependencies []DependencySpec `yaml:"dependencies,omitempty"`

	// Install is awaited during registration. A failure rolls the
	// registration back completely.
	Install HookFunc `yaml:"-"`
	// Uninstall is awaited during removal, when present.
	Uninstall HookFunc `yaml:"-"`
}

// ID returns the plugin identifier.
func (p *Plugin) ID() string {
	return p.Name
}

// String returns a human-readable plugin description.
func (p *Plugin) String() string {
	if p.Version == "" {
		return p.Name
	}
	return fmt.Sprintf("%s@%s", p.Name, p.Version)
}

// DependsOn reports whether the plugin declares the named plugin as a
// dependency of any kind.
func (p *Plugin) DependsOn(name string) bool {
	for _, d := range p.Dependencies {
		if d.Name == name {
			return true
		}
	}
	return false
}

// RequiredDependencies returns the required dependency specs.
func (p *Plugin) RequiredDependencies() []DependencySpec {
	out := make([]DependencySpec, 0, len(p.Dependencies))
	for _, d := range p.Dependencies {
		if d.EffectiveKind() == KindRequired {
			out = append(out, d)
		}
	}
	return out
}

// Clone creates a copy of the Plugin. Slices are copied; hook functions
// are shared, since they carry behavior rather than state.
func (p *Plugin) Clone() *Plugin {
	if p == nil {
		return nil
	}
	clone := *p
	if p.Keywords != nil {
		clone.Keywords = make([]string, len(p.Keywords))
		copy(clone.Keywords, p.Keywords)
	}
	if p.Dependencies != nil {
		clone.Dependencies = make([]DependencySpec, len(p.Dependencies))
		copy(clone.Dependencies, p.Dependencies)
	}
	return &clone
}

// nameRegex matches valid plugin names: starts with a letter, then
// letters, digits, hyphens, or underscores.
var nameRegex = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9_-]*$`)

// versionRegex matches dotted numeric versions with an optional leading v.
var versionRegex = regexp.MustCompile(`^v?\d+(\.\d+)*$`)

// Validate checks the plugin's declared metadata.
func (p *Plugin) Validate() error {
	if p == nil {
		return ErrNilPlugin
	}
	if p.Name == "" {
		return ErrEmptyPluginName
	}

	ve := &ValidationError{}

	if len(p.Name) < 2 || len(p.Name) > 64 {
		ve.Addf("plugin name %q must be between 2 and 64 characters", p.Name)
	} else if !nameRegex.MatchString(p.Name) {
		ve.Addf("plugin name %q must start with a letter and contain only letters, digits, hyphens, and underscores", p.Name)
	}

	if p.Version != "" && !versionRegex.MatchString(p.Version) {
		ve.Addf("version %q is not a dotted numeric version (e.g. 1.2.0)", p.Version)
	}

	for i, d := range p.Dependencies {
		if d.Name == "" {
			ve.Addf("dependencies[%d].name is required", i)
		}
		if d.Kind != "" && !d.Kind.Valid() {
			ve.Addf("dependencies[%d].kind %q is not one of required, optional, peer", i, d.Kind)
		}
		if d.Name == p.Name {
			ve.Addf("dependencies[%d]: plugin %q cannot depend on itself", i, p.Name)
		}
	}

	if ve.HasErrors() {
		return ve
	}
	return nil
}
