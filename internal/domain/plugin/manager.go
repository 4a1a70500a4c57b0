package plugin

import (
	"context"
	"sort"
	"strings"
	"sync"

	"golang.org/x/text/cases"

	"github.com/poly1603/ldesign-engine-sub006/internal/ports"
)

// DefaultMaxPlugins is the registry capacity when none is configured.
const DefaultMaxPlugins = 128

// Manager owns the live plugin table, the load order, and cached derived
// views over them. Registration performs a lightweight direct-presence
// check only; full transitive diagnostics are the Resolver's job.
//
// The table itself is guarded by a mutex so individual operations are
// safe, but install/uninstall hooks run outside the lock: interleaved
// Register/Unregister calls targeting interdependent plugins have
// interleaving-dependent outcomes.
type Manager struct {
	mu         sync.RWMutex
	plugins    map[string]*Plugin
	loadOrder  []string
	maxPlugins int
	logger     ports.Logger
	emitter    *Emitter

	// Cached derived views, valid only while invalidated is false.
	graph       *Graph
	dependents  map[string][]string
	invalidated bool
}

// ManagerOption configures a Manager.
type ManagerOption func(*Manager)

// WithMaxPlugins sets the registry capacity ceiling.
func WithMaxPlugins(n int) ManagerOption {
	return func(m *Manager) {
		if n > 0 {
			m.maxPlugins = n
		}
	}
}

// WithLogger sets the logger used for lifecycle and hook failures.
func WithLogger(logger ports.Logger) ManagerOption {
	return func(m *Manager) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// WithEmitter sets the event emitter for lifecycle notifications.
func WithEmitter(e *Emitter) ManagerOption {
	return func(m *Manager) {
		if e != nil {
			m.emitter = e
		}
	}
}

// NewManager creates a new plugin manager. Each manager owns independent
// state; create one per engine instance rather than sharing a global.
func NewManager(opts ...ManagerOption) *Manager {
	m := &Manager{
		plugins:     make(map[string]*Plugin),
		maxPlugins:  DefaultMaxPlugins,
		logger:      ports.NopLogger{},
		emitter:     NewEmitter(),
		invalidated: true,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Emitter returns the manager's event emitter.
func (m *Manager) Emitter() *Emitter {
	return m.emitter
}

// Register validates and installs a plugin. The checks are, in order:
// metadata validity, duplicate name, capacity, and direct presence of
// every required dependency. On success the entry is inserted, the load
// order appended, caches invalidated, and the install hook awaited. A
// hook failure rolls the registration back completely before the error
// is logged and returned.
func (m *Manager) Register(ctx context.Context, p *Plugin) error {
	if err := p.Validate(); err != nil {
		return err
	}

	m.mu.Lock()
	if _, exists := m.plugins[p.Name]; exists {
		m.mu.Unlock()
		return &DuplicateRegistrationError{Name: p.Name}
	}
	if len(m.plugins) >= m.maxPlugins {
		m.mu.Unlock()
		return &CapacityExceededError{Limit: m.maxPlugins}
	}
	if missing := m.missingRequiredLocked(p); len(missing) > 0 {
		m.mu.Unlock()
		return &MissingDependencyError{Plugin: p.Name, Missing: missing}
	}

	m.plugins[p.Name] = p
	m.loadOrder = append(m.loadOrder, p.Name)
	m.invalidated = true
	m.mu.Unlock()

	if p.Install != nil {
		hc := &HookContext{manager: m, plugin: p.Name, logger: m.logger, emitter: m.emitter}
		if err := p.Install(ctx, hc); err != nil {
			m.removeEntry(p.Name)
			failure := &HookFailureError{Plugin: p.Name, Phase: PhaseInstall, Err: err}
			m.logger.Error(ctx, "plugin install hook failed",
				ports.F("plugin", p.Name), ports.F("error", err))
			return failure
		}
	}

	m.logger.Info(ctx, "plugin registered",
		ports.F("plugin", p.Name), ports.F("version", p.Version))
	m.emitter.Emit(EventPluginRegistered, p.Name)
	return nil
}

// Unregister removes a plugin. Removal is blocked while any other
// registered plugin lists it as a required dependency. The uninstall
// hook, when present, is awaited first; if it fails the entry is kept
// and the error returned.
func (m *Manager) Unregister(ctx context.Context, name string) error {
	m.mu.RLock()
	p, exists := m.plugins[name]
	if !exists {
		m.mu.RUnlock()
		return &NotFoundError{Name: name}
	}
	dependents := m.requiredDependentsLocked(name)
	m.mu.RUnlock()

	if len(dependents) > 0 {
		return &DependentsExistError{Name: name, Dependents: dependents}
	}

	if p.Uninstall != nil {
		hc := &HookContext{manager: m, plugin: name, logger: m.logger, emitter: m.emitter}
		if err := p.Uninstall(ctx, hc); err != nil {
			failure := &HookFailureError{Plugin: name, Phase: PhaseUninstall, Err: err}
			m.logger.Error(ctx, "plugin uninstall hook failed",
				ports.F("plugin", name), ports.F("error", err))
			return failure
		}
	}

	m.removeEntry(name)
	m.logger.Info(ctx, "plugin unregistered", ports.F("plugin", name))
	m.emitter.Emit(EventPluginUnregistered, name)
	return nil
}

// Get returns a copy of the named plugin.
func (m *Manager) Get(name string) (*Plugin, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	p, ok := m.plugins[name]
	if !ok {
		return nil, false
	}
	return p.Clone(), true
}

// All returns copies of every registered plugin in load order.
func (m *Manager) All() []*Plugin {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]*Plugin, 0, len(m.loadOrder))
	for _, name := range m.loadOrder {
		out = append(out, m.plugins[name].Clone())
	}
	return out
}

// IsRegistered reports whether the named plugin is registered.
func (m *Manager) IsRegistered(name string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.plugins[name]
	return ok
}

// Count returns the number of registered plugins.
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.plugins)
}

// DependencyCheck is the read-only result of a pre-flight check.
type DependencyCheck struct {
	// Satisfied is true when nothing below is populated.
	Satisfied bool
	// Missing lists required dependency names that are not registered.
	Missing []string
	// Conflicts lists version violations against registered dependencies.
	Conflicts []Incompatibility
}

// CheckDependencies inspects a plugin's direct dependencies against the
// current registry without mutating any state. Useful before Register.
func (m *Manager) CheckDependencies(p *Plugin) *DependencyCheck {
	check := &DependencyCheck{}
	if p == nil {
		check.Satisfied = true
		return check
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, d := range p.Dependencies {
		target, present := m.plugins[d.Name]
		if !present {
			if d.EffectiveKind() == KindRequired {
				check.Missing = append(check.Missing, d.Name)
			}
			continue
		}
		if d.Constraint.IsZero() || target.Version == "" {
			continue
		}
		if !d.Constraint.Satisfies(target.Version) {
			check.Conflicts = append(check.Conflicts, Incompatibility{
				Plugin:     p.Name,
				Dependency: d.Name,
				Reason:     "requires " + d.Constraint.String() + ", found " + target.Version,
			})
		}
	}

	check.Satisfied = len(check.Missing) == 0 && len(check.Conflicts) == 0
	return check
}

// Dependents returns the names of registered plugins that declare the
// named plugin as a dependency of any kind. The index is cached and
// lazily rebuilt after mutations.
func (m *Manager) Dependents(name string) []string {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.rebuildLocked()
	deps := m.dependents[name]
	out := make([]string, len(deps))
	copy(out, deps)
	return out
}

// Graph returns the cached dependency graph over the current registry,
// lazily rebuilt on first access after a mutation. The returned graph
// must be treated as read-only.
func (m *Manager) Graph() *Graph {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.rebuildLocked()
	return m.graph
}

// LoadOrder returns a snapshot of the registration order. This is
// insertion order, which deliberately may differ from the Resolver's
// dependency-respecting order for the same set.
func (m *Manager) LoadOrder() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]string, len(m.loadOrder))
	copy(out, m.loadOrder)
	return out
}

// ValidateDependencies runs full resolution over the current registry
// contents and returns the aggregate diagnostics. Registry state is
// never mutated.
func (m *Manager) ValidateDependencies() *Result {
	m.mu.RLock()
	snapshot := make([]*Plugin, 0, len(m.loadOrder))
	for _, name := range m.loadOrder {
		snapshot = append(snapshot, m.plugins[name])
	}
	m.mu.RUnlock()

	return NewResolver().Resolve(snapshot)
}

// Stats summarizes the registry.
type Stats struct {
	// Plugins is the number of registered plugins.
	Plugins int
	// Capacity is the configured ceiling.
	Capacity int
	// Remaining is the free capacity.
	Remaining int
	// DependencyEdges is the number of edges in the current graph.
	DependencyEdges int
	// CacheValid is false while derived views await a rebuild.
	CacheValid bool
}

// Stats returns registry statistics. Reading stats does not trigger a
// cache rebuild.
func (m *Manager) Stats() Stats {
	m.mu.RLock()
	defer m.mu.RUnlock()

	edges := 0
	if !m.invalidated && m.graph != nil {
		edges = m.graph.EdgeCount()
	} else {
		for _, p := range m.plugins {
			edges += len(p.Dependencies)
		}
	}

	return Stats{
		Plugins:         len(m.plugins),
		Capacity:        m.maxPlugins,
		Remaining:       m.maxPlugins - len(m.plugins),
		DependencyEdges: edges,
		CacheValid:      !m.invalidated,
	}
}

// Destroy uninstalls every plugin in reverse load order and clears all
// state. Individual hook failures are logged and do not halt the sweep.
func (m *Manager) Destroy(ctx context.Context) {
	m.mu.Lock()
	order := make([]string, len(m.loadOrder))
	copy(order, m.loadOrder)
	m.mu.Unlock()

	for i := len(order) - 1; i >= 0; i-- {
		name := order[i]
		m.mu.RLock()
		p, ok := m.plugins[name]
		m.mu.RUnlock()
		if !ok || p.Uninstall == nil {
			continue
		}
		hc := &HookContext{manager: m, plugin: name, logger: m.logger, emitter: m.emitter}
		if err := p.Uninstall(ctx, hc); err != nil {
			m.logger.Error(ctx, "uninstall hook failed during teardown",
				ports.F("plugin", name), ports.F("error", err))
		}
	}

	m.mu.Lock()
	m.plugins = make(map[string]*Plugin)
	m.loadOrder = nil
	m.graph = nil
	m.dependents = nil
	m.invalidated = true
	m.mu.Unlock()

	m.logger.Info(ctx, "plugin registry destroyed", ports.F("plugins", len(order)))
}

// FindByKeyword returns plugins whose keywords match the given keyword,
// or whose name or description contain it, using case-folded comparison.
func (m *Manager) FindByKeyword(keyword string) []*Plugin {
	caser := cases.Fold()
	want := caser.String(keyword)

	return m.filter(func(p *Plugin) bool {
		caser := cases.Fold()
		for _, kw := range p.Keywords {
			if caser.String(kw) == want {
				return true
			}
		}
		return strings.Contains(caser.String(p.Name), want) ||
			(p.Description != "" && strings.Contains(caser.String(p.Description), want))
	})
}

// FindByAuthor returns plugins by the given author, compared case-folded.
func (m *Manager) FindByAuthor(author string) []*Plugin {
	caser := cases.Fold()
	want := caser.String(author)

	return m.filter(func(p *Plugin) bool {
		return cases.Fold().String(p.Author) == want
	})
}

// FindByDependency returns plugins that declare the named plugin as a
// dependency of any kind.
func (m *Manager) FindByDependency(name string) []*Plugin {
	return m.filter(func(p *Plugin) bool {
		return p.DependsOn(name)
	})
}

// filter returns copies of registered plugins matching the predicate, in
// load order.
func (m *Manager) filter(match func(*Plugin) bool) []*Plugin {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]*Plugin, 0)
	for _, name := range m.loadOrder {
		if p := m.plugins[name]; match(p) {
			out = append(out, p.Clone())
		}
	}
	return out
}

// missingRequiredLocked returns the sorted names of required dependencies
// of p that are not currently registered. Caller holds the lock.
func (m *Manager) missingRequiredLocked(p *Plugin) []string {
	var missing []string
	seen := make(map[string]bool)
	for _, d := range p.RequiredDependencies() {
		if _, ok := m.plugins[d.Name]; !ok && !seen[d.Name] {
			seen[d.Name] = true
			missing = append(missing, d.Name)
		}
	}
	sort.Strings(missing)
	return missing
}

// requiredDependentsLocked returns the sorted names of registered plugins
// whose required dependencies include name. Caller holds the lock.
func (m *Manager) requiredDependentsLocked(name string) []string {
	var dependents []string
	for _, other := range m.loadOrder {
		if other == name {
			continue
		}
		for _, d := range m.plugins[other].RequiredDependencies() {
			if d.Name == name {
				dependents = append(dependents, other)
				break
			}
		}
	}
	sort.Strings(dependents)
	return dependents
}

// removeEntry deletes a plugin and its load-order slot, invalidating
// caches. Used by Unregister and by registration rollback.
func (m *Manager) removeEntry(name string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.plugins, name)
	for i, n := range m.loadOrder {
		if n == name {
			m.loadOrder = append(m.loadOrder[:i], m.loadOrder[i+1:]...)
			break
		}
	}
	m.invalidated = true
}

// rebuildLocked refreshes the cached graph and dependents index if they
// are stale. Caller holds the write lock.
func (m *Manager) rebuildLocked() {
	if !m.invalidated {
		return
	}

	snapshot := make([]*Plugin, 0, len(m.loadOrder))
	for _, name := range m.loadOrder {
		snapshot = append(snapshot, m.plugins[name])
	}

	m.graph = BuildGraph(snapshot)
	m.dependents = make(map[string][]string, len(m.graph.Dependents))
	for name, deps := range m.graph.Dependents {
		unique := make([]string, 0, len(deps))
		seen := make(map[string]bool, len(deps))
		for _, d := range deps {
			if !seen[d] {
				seen[d] = true
				unique = append(unique, d)
			}
		}
		m.dependents[name] = unique
	}
	m.invalidated = false
}
