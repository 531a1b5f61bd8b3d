package heap

import (
	"sync"

	"go.uber.org/multierr"

	"github.com/mu-lang/mu/condition"
	"github.com/mu-lang/mu/tagword"
)

// Closer is optionally implemented by heap values that hold an external
// resource (a Stream backed by an *os.File, for instance) and must be
// released when swept.
type Closer interface {
	Close() error
}

type entry struct {
	value  any
	valid  bool
	marked bool
}

type classStore struct {
	entries  []entry
	freeList []uint64
}

func newClassStore() *classStore {
	return &classStore{entries: make([]entry, 0, 64)}
}

func (s *classStore) alloc(value any) uint64 {
	if n := len(s.freeList); n > 0 {
		offset := s.freeList[n-1]
		s.freeList = s.freeList[:n-1]
		s.entries[offset] = entry{value: value, valid: true}
		return offset
	}
	s.entries = append(s.entries, entry{value: value, valid: true})
	return uint64(len(s.entries) - 1)
}

// Heap is the runtime's object store, one classStore per indirect
// tagword.Class.
type Heap struct {
	mu     sync.RWMutex
	stores [8]*classStore
}

// New creates an empty heap.
func New() *Heap {
	h := &Heap{}
	for c := range h.stores {
		if tagword.Class(c) != tagword.ClassDirect {
			h.stores[c] = newClassStore()
		}
	}
	return h
}

// Alloc stores value under class and returns the Word referencing it.
func (h *Heap) Alloc(class tagword.Class, value any) (tagword.Word, error) {
	if class == tagword.ClassDirect {
		return 0, condition.TypeError("indirect class", class)
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	offset := h.stores[class].alloc(value)
	return tagword.PackIndirect(class, offset)
}

// Get dereferences w, returning the stored value and whether it is
// still live.
func (h *Heap) Get(w tagword.Word) (any, bool) {
	class, offset := tagword.UnpackIndirect(w)
	if class == tagword.ClassDirect {
		return nil, false
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	store := h.stores[class]
	if offset >= uint64(len(store.entries)) {
		return nil, false
	}
	e := &store.entries[offset]
	if !e.valid {
		return nil, false
	}
	return e.value, true
}

// Set overwrites the value stored at w in place, used by mutating
// operations (vector element stores, struct field stores) that must
// preserve object identity.
func (h *Heap) Set(w tagword.Word, value any) bool {
	class, offset := tagword.UnpackIndirect(w)
	if class == tagword.ClassDirect {
		return false
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	store := h.stores[class]
	if offset >= uint64(len(store.entries)) {
		return false
	}
	e := &store.entries[offset]
	if !e.valid {
		return false
	}
	e.value = value
	return true
}

// ClearMarks resets every entry's mark bit to false. Called at the
// start of a collection cycle, before tracing roots.
func (h *Heap) ClearMarks() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, store := range h.stores {
		if store == nil {
			continue
		}
		for i := range store.entries {
			store.entries[i].marked = false
		}
	}
}

// Mark sets the mark bit for w and reports whether this call was the
// one that set it. A tracer uses the return value as a cycle guard:
// once an object reports already-marked, the tracer does not recurse
// into it again.
func (h *Heap) Mark(w tagword.Word) bool {
	class, offset := tagword.UnpackIndirect(w)
	if class == tagword.ClassDirect {
		return false
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	store := h.stores[class]
	if offset >= uint64(len(store.entries)) {
		return false
	}
	e := &store.entries[offset]
	if !e.valid || e.marked {
		return false
	}
	e.marked = true
	return true
}

// Sweep reclaims every unmarked, still-valid entry across all classes,
// returning the heap objects onto their class's free list for reuse by
// a later Alloc. Values implementing Closer are closed as they are
// swept; failures are fanned into a single error via multierr so one
// bad stream close never masks another.
func (h *Heap) Sweep() (freed int, err error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for class, store := range h.stores {
		if store == nil {
			continue
		}
		for offset := range store.entries {
			e := &store.entries[offset]
			if !e.valid || e.marked {
				continue
			}
			if c, ok := e.value.(Closer); ok {
				if cerr := c.Close(); cerr != nil {
					err = multierr.Append(err, cerr)
				}
			}
			e.valid = false
			e.value = nil
			store.freeList = append(store.freeList, uint64(offset))
			freed++
		}
		_ = class
	}
	return freed, err
}

// Close closes every live Closer-implementing entry across all
// classes without reclaiming their offsets, for use at process
// shutdown rather than mid-run collection. Errors are fanned into a
// single multierr-joined error the same way Sweep does.
func (h *Heap) Close() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	var err error
	for _, store := range h.stores {
		if store == nil {
			continue
		}
		for offset := range store.entries {
			e := &store.entries[offset]
			if !e.valid {
				continue
			}
			if c, ok := e.value.(Closer); ok {
				if cerr := c.Close(); cerr != nil {
					err = multierr.Append(err, cerr)
				}
			}
		}
	}
	return err
}

// Len returns the number of live entries across all classes.
func (h *Heap) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	n := 0
	for _, store := range h.stores {
		if store == nil {
			continue
		}
		for _, e := range store.entries {
			if e.valid {
				n++
			}
		}
	}
	return n
}

// Each iterates the live entries of class in offset order, stopping
// early if fn returns false.
func (h *Heap) Each(class tagword.Class, fn func(w tagword.Word, value any) bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	store := h.stores[class]
	if store == nil {
		return
	}
	for offset, e := range store.entries {
		if !e.valid {
			continue
		}
		w, err := tagword.PackIndirect(class, uint64(offset))
		if err != nil {
			continue
		}
		if !fn(w, e.value) {
			return
		}
	}
}
