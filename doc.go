// Package mu wires the heap, namespace table, stream table, reader,
// compiler, evaluator, printer, and collector into a single runtime
// instance and exposes the core operations a host embeds: Read,
// Compile, Eval, Apply, Write, Intern/Untern/NSFind/NSSymbols, Bind,
// and GC.
package mu
