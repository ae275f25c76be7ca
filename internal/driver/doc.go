// Package driver runs one loom pipeline: decode feed shards, build and close
// the module forest, link it, order it and optionally expand plugin
// invocations.
package driver
