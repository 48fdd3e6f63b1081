// Package trace records begin/end spans for the driver and the verifier
// phases.
//
// Tracers:
//
//   - Nop: disabled tracing, zero cost
//   - StreamTracer: writes each event as it happens (text or NDJSON)
//   - RingTracer: keeps the last N events for post-mortem dumps
//   - MultiTracer: stream plus ring
//
// Levels filter by Scope: phase shows driver runs and verifier phases,
// detail adds per-file and per-directive events, debug adds declarations.
//
//	span := trace.Begin(t, trace.ScopePhase, "phase2", parent.ID())
//	defer span.End("")
package trace
