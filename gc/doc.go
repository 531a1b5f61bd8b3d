// Package gc implements the runtime's mark/sweep collector: never
// triggered implicitly, run only when a caller calls Collector.Collect
// with an explicit root set.
//
// Tracing starts from the roots, follows every object that implements
// Traceable, and relies on heap.Heap.Mark's first-time-true return as
// the cycle guard — an object already marked is never traced twice,
// which is what makes tracing safe over a cyclic graph (a Cons whose
// Cdr eventually points back to itself, a Struct field cycle, and so
// on) without a separate visited set.
//
// Observers are notified before tracing starts and after sweep
// completes, mirroring the lifecycle-event pattern used by the
// runtime's other tables; a host embedding mu can use this to record GC
// pauses or export collection metrics with its own tooling. Collect
// itself logs sweep close errors through internal/logging.
package gc
