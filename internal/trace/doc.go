// Package trace records what a compilation session does: which sources it
// compiled, which passes ran and were skipped, and where positions from the
// editor had to be clamped.
//
// A session receives a Tracer through its configuration; hosts that carry
// request-scoped state propagate it via context:
//
//	ctx = trace.WithTracer(ctx, tracer)
//	t := trace.FromContext(ctx)
//
//	span := trace.Begin(t, trace.ScopePass, "capcheck", 0)
//	defer span.End("")
//
// Tracers: Nop (disabled), StreamTracer (immediate write), RingTracer
// (last N events in memory, handy in tests and crash reports) and
// MultiTracer (fan-out).
package trace
