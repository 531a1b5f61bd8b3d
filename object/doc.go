// Package object defines the Go-level shapes stored in the heap for
// each indirect tagword.Class: Cons, Symbol, Function, Vector, and
// Struct. (Stream is defined by the sys package, which owns the
// system-stream table.)
//
// Each type exposes Trace, which hands every tagword.Word it directly
// references to a mark callback; gc.Collect uses Trace to walk the
// object graph from a set of roots without knowing the shape of any
// particular kind.
package object
