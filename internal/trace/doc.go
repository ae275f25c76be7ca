// Package trace records what a loom run is doing: pipeline passes, modules
// and single plugin invocations.
//
// Enable it from the command line:
//
//	loom expand --trace=- --trace-level=detail feed.mp
//
// Tracers:
//
//   - Nop: zero-overhead when disabled
//   - StreamTracer: writes every event immediately (text or NDJSON)
//   - RingTracer: keeps the last N events for a dump after a failure
//   - MultiTracer: fans out to several tracers
//
// Levels select scopes: phase keeps driver and pass spans, detail adds
// per-module events, debug adds per-invocation events.
//
// Tracers travel through context:
//
//	ctx = trace.WithTracer(ctx, tracer)
//	span, ctx := trace.StartSpan(ctx, trace.ScopePass, "link")
//	defer span.End("")
package trace
