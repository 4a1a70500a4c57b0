package engine

import (
	"context"
	"fmt"
	"sync"

	"github.com/felixgeelhaar/statekit"

	"github.com/poly1603/ldesign-engine-sub006/internal/domain/plugin"
	"github.com/poly1603/ldesign-engine-sub006/internal/ports"
)

// State represents the engine's lifecycle state.
type State string

const (
	// StateCreated is the initial state after New.
	StateCreated State = "created"
	// StateRunning indicates the engine accepts plugin operations.
	StateRunning State = "running"
	// StateDestroying indicates teardown is in progress.
	StateDestroying State = "destroying"
	// StateDestroyed is terminal; the engine cannot be reused.
	StateDestroyed State = "destroyed"
)

// Event types for the engine lifecycle machine.
const (
	EventStart     = "START"
	EventDestroy   = "DESTROY"
	EventDestroyed = "DESTROYED"
)

// lifecycleContext is the statekit context type. The lifecycle carries no
// data of its own; all engine state lives on Engine.
type lifecycleContext struct{}

// Engine is an explicitly owned orchestrator instance: it holds one
// plugin manager and a lifecycle state machine. Create one per
// application (or per test); instances never share state.
type Engine struct {
	mu      sync.RWMutex
	cfg     *Config
	logger  ports.Logger
	manager *plugin.Manager
	interp  *statekit.Interpreter[lifecycleContext]
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the engine logger, shared with the plugin manager.
func WithLogger(logger ports.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// New creates an engine in the created state.
func New(cfg *Config, opts ...Option) (*Engine, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	e := &Engine{
		cfg:    cfg,
		logger: ports.NopLogger{},
	}
	for _, opt := range opts {
		opt(e)
	}

	e.manager = plugin.NewManager(
		plugin.WithMaxPlugins(cfg.MaxPlugins),
		plugin.WithLogger(e.logger),
	)

	interp, err := buildLifecycleMachine(cfg.Name)
	if err != nil {
		return nil, fmt.Errorf("building lifecycle machine: %w", err)
	}
	e.interp = interp
	e.interp.Start()

	return e, nil
}

// buildLifecycleMachine constructs the engine lifecycle state machine.
func buildLifecycleMachine(name string) (*statekit.Interpreter[lifecycleContext], error) {
	machine, err := statekit.NewMachine[lifecycleContext](name).
		WithInitial(statekit.StateID(StateCreated)).
		WithContext(lifecycleContext{}).
		State(statekit.StateID(StateCreated)).
		On(EventStart).Target(statekit.StateID(StateRunning)).
		On(EventDestroy).Target(statekit.StateID(StateDestroying)).Done().
		State(statekit.StateID(StateRunning)).
		On(EventDestroy).Target(statekit.StateID(StateDestroying)).Done().
		State(statekit.StateID(StateDestroying)).
		On(EventDestroyed).Target(statekit.StateID(StateDestroyed)).Done().
		State(statekit.StateID(StateDestroyed)).
		On(EventDestroy).Target(statekit.StateID(StateDestroyed)).Done().
		Build()
	if err != nil {
		return nil, err
	}
	return statekit.NewInterpreter(machine), nil
}

// Name returns the engine name.
func (e *Engine) Name() string {
	return e.cfg.Name
}

// Version returns the engine version.
func (e *Engine) Version() string {
	return e.cfg.Version
}

// Manager returns the engine's plugin manager.
func (e *Engine) Manager() *plugin.Manager {
	return e.manager
}

// State returns the current lifecycle state.
func (e *Engine) State() State {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return State(e.interp.State().Value)
}

// Start transitions the engine from created to running.
func (e *Engine) Start(ctx context.Context) error {
	if s := e.State(); s != StateCreated {
		return fmt.Errorf("engine %q cannot start from state %q", e.cfg.Name, s)
	}

	e.mu.Lock()
	e.interp.Send(statekit.Event{Type: EventStart})
	e.mu.Unlock()

	e.logger.Info(ctx, "engine started",
		ports.F("engine", e.cfg.Name), ports.F("version", e.cfg.Version))
	return nil
}

// Use registers a plugin with the engine's manager.
func (e *Engine) Use(ctx context.Context, p *plugin.Plugin) error {
	if s := e.State(); s == StateDestroying || s == StateDestroyed {
		return fmt.Errorf("engine %q is %s and no longer accepts plugins", e.cfg.Name, s)
	}
	return e.manager.Register(ctx, p)
}

// Unuse removes a plugin from the engine's manager.
func (e *Engine) Unuse(ctx context.Context, name string) error {
	if s := e.State(); s == StateDestroying || s == StateDestroyed {
		return fmt.Errorf("engine %q is %s and no longer accepts plugins", e.cfg.Name, s)
	}
	return e.manager.Unregister(ctx, name)
}

// Destroy tears down every plugin in reverse load order, then leaves the
// engine in the terminal destroyed state. Destroy is idempotent.
func (e *Engine) Destroy(ctx context.Context) {
	if s := e.State(); s == StateDestroyed || s == StateDestroying {
		return
	}

	e.mu.Lock()
	e.interp.Send(statekit.Event{Type: EventDestroy})
	e.mu.Unlock()

	e.manager.Destroy(ctx)

	e.mu.Lock()
	e.interp.Send(statekit.Event{Type: EventDestroyed})
	e.interp.Stop()
	e.mu.Unlock()

	e.logger.Info(ctx, "engine destroyed", ports.F("engine", e.cfg.Name))
}
