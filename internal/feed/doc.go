// Package feed reads the output of the foreign parser.
//
// A feed is a msgpack Document: the files the parser saw, each top-level
// declaration as a (path, node) pair, and the raw inclusion edges between
// files. Nodes and types are generic trees keyed by kind names; a
// Materializer turns them into ast nodes and interned types and hands them to
// a linker.Builder.
package feed
