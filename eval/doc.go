// Package eval evaluates compiled forms produced by package compile.
//
// Each compiled lambda carries a FrameID; calling it pushes a Frame
// holding its bound argument values onto that id's frame stack and
// evaluates its compiled body, which reaches argument values through
// (fr-ref FRAME-ID INDEX) rather than by name. Frame stacks are kept
// per function identity so recursive and re-entrant calls to the same
// lambda never clobber each other's bindings: each call pushes its own
// Frame and pops it on return, even if another call to the same
// lambda is still live further up the Go call stack.
//
// apply first checks the callee's arity, then either invokes its
// native Go closure directly (for builtins registered by
// RegisterBuiltins) or pushes a frame and evaluates its compiled body.
// There is no dynamic unwind stack: a raised condition.Condition is
// returned as an ordinary Go error up through every Eval and Apply
// until a with-exception call whose filter matches its Kind catches it.
package eval
