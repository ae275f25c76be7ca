// Package diag defines the diagnostic model shared by the feed loader, the
// module linker and the plugin dispatcher.
//
// Diagnostic is the central record: a Severity, a numeric Code (see codes.go)
// with a stable string form, a message, the primary source.Span and optional
// notes. Notes should add context ("declared here") rather than repeat the
// message.
//
// Producers emit through a Reporter so that storage stays decoupled from
// emission. ReportError/ReportWarning/ReportInfo return a ReportBuilder that
// collects notes before Emit. BagReporter collects into a Bag, which supports
// sorting, deduplication and filtering; DedupReporter drops repeated
// diagnostics before they reach the next reporter.
//
// Package diag does no IO. Rendering lives in internal/diagfmt, except for the
// one-line short form in short.go which tests and `--format short` share.
package diag
