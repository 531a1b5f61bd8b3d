// Package compile lowers a read form into a compiled form: symbol
// references to a lexically enclosing lambda parameter are rewritten
// to (fr-ref FRAME-ID INDEX) calls, resolved against the live call
// frame at eval time; every other symbol is left as a free reference,
// resolved dynamically against its namespace when evaluated.
//
// Three forms are handled specially rather than as ordinary calls,
// recognized by a direct keyword head (:quote, :if, :lambda) rather
// than a symbol in any namespace: :quote returns its argument
// unevaluated, :if compiles its condition, consequent and (optional)
// alternative and is evaluated conditionally, and :lambda pushes a new
// lexical frame over its parameter list, compiles its body in that
// scope, and produces a Function value whose FrameID and compiled Body
// the evaluator instantiates at call time. Everything else compiles to
// a call: head and arguments recursively compiled, rebuilt as a cons
// list.
package compile
