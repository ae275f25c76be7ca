// Package linker turns per-file declaration lists and raw include edges
// into a forest of typed modules.
//
// Work happens in two strictly ordered passes. Close builds every shape: one
// Program node and one Module type per opened path. Link attaches the
// dependency lists afterwards, once every Module type exists, so edges may
// point forward or backward in discovery order.
package linker
