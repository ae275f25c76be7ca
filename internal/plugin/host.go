package plugin

import (
	"loom/internal/diag"
	"loom/internal/source"
)

// InitFunc is the entry point of a plugin: it registers its actions on host
// and reports whether it initialized.
type InitFunc func(host *Host, at source.Span) bool

// Host is the registration surface handed to plugin entry points.
type Host struct {
	reg      *Registry
	reporter diag.Reporter
	loaded   []string
}

func NewHost(reg *Registry, reporter diag.Reporter) *Host {
	if reporter == nil {
		reporter = diag.NopReporter{}
	}
	return &Host{reg: reg, reporter: reporter}
}

// Register adds an action. Replacing an existing name is allowed.
func (h *Host) Register(name string, fn Action) {
	h.reg.Register(name, fn)
}

// Registry returns the registry actions are registered on.
func (h *Host) Registry() *Registry {
	return h.reg
}

// Loaded lists plugins whose init succeeded, in load order.
func (h *Host) Loaded() []string {
	return h.loaded
}

// Init runs the entry point of one plugin. A false return from fn is
// reported as PluginLoad at at; actions it managed to register stay.
func (h *Host) Init(name string, fn InitFunc, at source.Span) bool {
	if fn == nil || !fn(h, at) {
		diag.Reportf(h.reporter, diag.SevError, diag.PluginLoad, at, "plugin %q failed to initialize", name)
		return false
	}
	h.loaded = append(h.loaded, name)
	return true
}
