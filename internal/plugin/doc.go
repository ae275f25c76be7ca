// Package plugin lets native extension code synthesize AST subtrees at
// invocation sites.
//
// A plugin registers named actions with a run-scoped Registry through a Host.
// The Dispatcher finds every Invoke node, calls the action with the raw
// argument list and splices the returned subtree in place of the call. An
// action validates its own arguments; on failure it reports a diagnostic
// through its Context and returns an empty list, and the dispatcher moves on
// to the next invocation site.
package plugin
