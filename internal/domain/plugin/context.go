package plugin

import "github.com/poly1603/ldesign-engine-sub006/internal/ports"

// HookContext is handed to install and uninstall hooks. It carries a
// back-reference to the owning manager plus logging and event handles.
// It is not an input to dependency resolution.
type HookContext struct {
	manager *Manager
	plugin  string
	logger  ports.Logger
	emitter *Emitter
}

// Manager returns the registry that owns the plugin being transitioned.
func (hc *HookContext) Manager() *Manager {
	return hc.manager
}

// Plugin returns the name of the plugin the hook belongs to.
func (hc *HookContext) Plugin() string {
	return hc.plugin
}

// Logger returns the manager's logger.
func (hc *HookContext) Logger() ports.Logger {
	return hc.logger
}

// Emit publishes a fire-and-forget event on behalf of the plugin.
func (hc *HookContext) Emit(eventType string) {
	if hc.emitter != nil {
		hc.emitter.Emit(eventType, hc.plugin)
	}
}
