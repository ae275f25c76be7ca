package plugin

import (
	"slices"

	"loom/internal/ast"
)

// Action synthesizes a subtree for one invocation. call is the Invoke node
// (read-only, supplies the default location), args are its arguments exactly
// as written. An empty result list means failure.
type Action func(ctx *Context, call ast.NodeID, args ast.List) ast.List

// Registry maps action names to functions. It is mutated while plugins load
// and read-only during dispatch.
type Registry struct {
	actions map[string]Action
}

func NewRegistry() *Registry {
	return &Registry{actions: make(map[string]Action)}
}

// Register adds fn under name. A later registration of the same name wins;
// replaced reports whether an earlier entry existed.
func (r *Registry) Register(name string, fn Action) (replaced bool) {
	_, replaced = r.actions[name]
	r.actions[name] = fn
	return replaced
}

func (r *Registry) Lookup(name string) (Action, bool) {
	fn, ok := r.actions[name]
	return fn, ok && fn != nil
}

// Names lists registered names in sorted order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.actions))
	for name := range r.actions {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

func (r *Registry) Len() int {
	return len(r.actions)
}
