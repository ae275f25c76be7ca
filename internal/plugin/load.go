package plugin

import (
	"fmt"
	goplugin "plugin"

	"loom/internal/diag"
	"loom/internal/source"
)

// EntrySymbol is the symbol a shared plugin exports as its InitFunc.
const EntrySymbol = "LoomPluginInit"

// LoadShared opens a Go plugin built with -buildmode=plugin and runs its
// entry point. Open and lookup failures are reported as PluginLoad.
func (h *Host) LoadShared(path string, at source.Span) error {
	p, err := goplugin.Open(path)
	if err != nil {
		return h.loadFailed(path, at, err)
	}
	sym, err := p.Lookup(EntrySymbol)
	if err != nil {
		return h.loadFailed(path, at, err)
	}
	var fn InitFunc
	switch v := sym.(type) {
	case func(*Host, source.Span) bool:
		fn = v
	case *InitFunc:
		fn = *v
	default:
		return h.loadFailed(path, at, fmt.Errorf("%s has type %T", EntrySymbol, sym))
	}
	if !h.Init(path, fn, at) {
		return fmt.Errorf("plugin %s: init failed", path)
	}
	return nil
}

func (h *Host) loadFailed(path string, at source.Span, err error) error {
	diag.Reportf(h.reporter, diag.SevError, diag.PluginLoad, at, "cannot load plugin %s: %v", path, err)
	return fmt.Errorf("plugin %s: %w", path, err)
}
