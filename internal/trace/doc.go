// Package trace is the logging subsystem of viewspec.
//
// Events are emitted as spans (begin/end pairs) or points. The CLI, the batch
// driver and the interpreter all emit through a Tracer; which events reach the
// output is decided by the Level.
//
// # Usage
//
//	viewspec render --trace=- --trace-level=detail
//
// # Tracers
//
//   - Nop: zero-overhead no-op tracer when disabled
//   - StreamTracer: immediate write to output (file/stderr), text or NDJSON
//   - RingTracer: circular buffer, dumped when a render fails
//   - MultiTracer: fan-out
//
// # Scopes
//
//   - ScopeCommand: CLI command boundaries
//   - ScopeBatch: batch phases (load, analyze, preload, render)
//   - ScopeRoot: one root object inside a batch
//   - ScopeFragment: one Display or Analyze call of the interpreter
//
// The interpreter takes no context.Context, so it receives its Tracer through
// its options; CLI and batch code propagate it by context:
//
//	ctx = trace.WithTracer(ctx, tracer)
//	span := trace.Begin(trace.FromContext(ctx), trace.ScopeBatch, "preload", 0)
//	defer span.End("")
package trace
