package gc

import (
	"github.com/mu-lang/mu/heap"
	"github.com/mu-lang/mu/internal/logging"
	"github.com/mu-lang/mu/tagword"
)

// Traceable is implemented by heap values that hold further tagword.Words.
type Traceable interface {
	Trace(mark func(tagword.Word))
}

// Event describes a point in a collection cycle.
type Event struct {
	Phase EventPhase
	Roots int
	Freed int
}

// EventPhase distinguishes the before/after points a Collector reports.
type EventPhase uint8

const (
	PhaseStart EventPhase = iota
	PhaseDone
)

// Observer receives notifications about collection lifecycle events.
type Observer interface {
	OnGCEvent(Event)
}

// Collector runs mark/sweep cycles over a heap.Heap.
type Collector struct {
	heap      *heap.Heap
	observers []Observer
}

// New creates a Collector over h.
func New(h *heap.Heap) *Collector {
	return &Collector{heap: h}
}

// Subscribe adds an observer for collection lifecycle events.
func (c *Collector) Subscribe(o Observer) {
	c.observers = append(c.observers, o)
}

func (c *Collector) notify(e Event) {
	for _, o := range c.observers {
		o.OnGCEvent(e)
	}
}

// Collect clears every mark bit, traces the object graph reachable
// from roots, and sweeps everything left unmarked. It never runs on
// its own; callers decide when collection happens.
func (c *Collector) Collect(roots []tagword.Word) (freed int, err error) {
	c.notify(Event{Phase: PhaseStart, Roots: len(roots)})

	c.heap.ClearMarks()

	worklist := append([]tagword.Word(nil), roots...)
	for len(worklist) > 0 {
		w := worklist[len(worklist)-1]
		worklist = worklist[:len(worklist)-1]

		if w.IsDirect() {
			continue
		}
		if !c.heap.Mark(w) {
			continue
		}
		value, ok := c.heap.Get(w)
		if !ok {
			continue
		}
		if t, ok := value.(Traceable); ok {
			t.Trace(func(child tagword.Word) {
				worklist = append(worklist, child)
			})
		}
	}

	freed, err = c.heap.Sweep()
	if err != nil {
		logging.Logger().Sugar().Warnw("gc sweep reported errors", "error", err, "freed", freed)
	}
	c.notify(Event{Phase: PhaseDone, Freed: freed})
	return freed, err
}
