// Package namespace implements the runtime's namespace table: a
// keyword-indexed map of name-to-symbol maps, each guarded by its own
// lock so readers in one namespace never block writers in another.
//
// Three namespaces are bootstrapped by NewTable and always present: mu,
// which holds the native builtins and any symbol explicitly qualified
// with mu:; null, the default home of a symbol a program interns
// without naming an explicit namespace; and keyword, which is special —
// keywords are self-evaluating direct values (see tagword.PackKeyword)
// identified by their packed bits rather than by a table entry, so the
// keyword namespace never actually stores anything; its Find always
// misses and its Intern is a pure pack with no side effect.
//
// Intern and Untern are idempotent: interning a name already present
// returns the existing symbol unchanged, and unterning a name already
// absent is a no-op that reports created=false / ok=false rather than
// an error. Locking is acquired outermost-first, table before the
// individual namespace, matching the order the heap and GC expect when
// a caller holds both.
package namespace
