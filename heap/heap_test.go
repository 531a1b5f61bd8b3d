package heap

import (
	"errors"
	"sync"
	"testing"

	"github.com/mu-lang/mu/tagword"
)

func TestAllocGetBasic(t *testing.T) {
	h := New()

	w, err := h.Alloc(tagword.ClassCons, "test value")
	if err != nil {
		t.Fatalf("Alloc failed: %v", err)
	}
	if w.IsDirect() {
		t.Fatal("expected an indirect word")
	}

	val, ok := h.Get(w)
	if !ok {
		t.Fatal("Get failed")
	}
	if val != "test value" {
		t.Fatalf("got %v, want %q", val, "test value")
	}
}

func TestSweepReclaimsUnmarked(t *testing.T) {
	h := New()

	w1, _ := h.Alloc(tagword.ClassCons, "keep")
	w2, _ := h.Alloc(tagword.ClassCons, "drop")

	h.ClearMarks()
	h.Mark(w1)

	freed, err := h.Sweep()
	if err != nil {
		t.Fatalf("unexpected sweep error: %v", err)
	}
	if freed != 1 {
		t.Fatalf("freed %d, want 1", freed)
	}

	if _, ok := h.Get(w1); !ok {
		t.Fatal("marked entry should survive sweep")
	}
	if _, ok := h.Get(w2); ok {
		t.Fatal("unmarked entry should be gone after sweep")
	}
}

func TestFreedOffsetIsReused(t *testing.T) {
	h := New()

	w1, _ := h.Alloc(tagword.ClassVector, "a")
	h.ClearMarks()
	h.Sweep()

	w2, err := h.Alloc(tagword.ClassVector, "b")
	if err != nil {
		t.Fatalf("Alloc failed: %v", err)
	}

	_, off1 := tagword.UnpackIndirect(w1)
	_, off2 := tagword.UnpackIndirect(w2)
	if off1 != off2 {
		t.Fatalf("expected freed offset %d to be reused, got %d", off1, off2)
	}
}

type fakeStream struct {
	closeErr error
	closed   bool
}

func (f *fakeStream) Close() error {
	f.closed = true
	return f.closeErr
}

func TestSweepClosesAndFansInErrors(t *testing.T) {
	h := New()

	s1 := &fakeStream{closeErr: errors.New("boom 1")}
	s2 := &fakeStream{closeErr: errors.New("boom 2")}
	w1, _ := h.Alloc(tagword.ClassStream, s1)
	w2, _ := h.Alloc(tagword.ClassStream, s2)

	h.ClearMarks() // nothing marked: both collected

	_, err := h.Sweep()
	if err == nil {
		t.Fatal("expected a fanned-in error from two failing closes")
	}
	if !s1.closed || !s2.closed {
		t.Fatal("expected both streams to be closed during sweep")
	}
	_ = w1
	_ = w2
}

func TestMarkIsFalseOnSecondCall(t *testing.T) {
	h := New()
	w, _ := h.Alloc(tagword.ClassSymbol, "sym")

	h.ClearMarks()
	if !h.Mark(w) {
		t.Fatal("first Mark should report true")
	}
	if h.Mark(w) {
		t.Fatal("second Mark on the same word should report false (cycle guard)")
	}
}

func TestConcurrentAlloc(t *testing.T) {
	h := New()
	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			h.Alloc(tagword.ClassCons, struct{}{})
		}()
	}
	wg.Wait()

	if h.Len() != 100 {
		t.Fatalf("got %d live entries, want 100", h.Len())
	}
}
