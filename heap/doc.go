// Package heap implements the runtime's object heap: a bump allocator
// with a per-class free list, mark bits for the collector, and no
// implicit triggering — callers decide when to run gc.Collect.
//
// Storage is partitioned by tagword.Class (Cons, Function, Stream,
// Struct, Symbol, Vector), each class holding an independent slice of
// entries and its own free list; one heap-wide lock guards all classes,
// so allocations of different classes still serialize. Offsets handed
// out by Alloc are stable for
// the lifetime of the entry: Sweep recycles a freed slot's offset onto
// that class's free list rather than compacting, so a Word captured
// before a sweep either still resolves to the same value after it, or
// resolves to nothing if that value was collected.
//
// Locking follows the runtime-wide discipline of outermost-first:
// a caller holding a namespace table lock or a namespace map lock may
// acquire the heap lock, but never the reverse.
package heap
