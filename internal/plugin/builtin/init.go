// Package builtin holds the actions every run starts with.
package builtin

import (
	"loom/internal/plugin"
	"loom/internal/source"
)

// Name is the plugin name the builtins load under.
const Name = "builtin"

// Actions maps builtin action names to their functions.
var Actions = map[string]plugin.Action{
	"hello":      Hello,
	"add":        Add,
	"call":       Call,
	"addMembers": AddMembers,
}

// Init registers every builtin action on host.
func Init(host *plugin.Host, _ source.Span) bool {
	for name, fn := range Actions {
		host.Register(name, fn)
	}
	return true
}

var _ plugin.InitFunc = Init
