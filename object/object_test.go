package object

import (
	"testing"

	"github.com/mu-lang/mu/tagword"
)

func TestVectorRefSet(t *testing.T) {
	v, err := NewVector(VectorFixnum, 3)
	if err != nil {
		t.Fatalf("NewVector failed: %v", err)
	}
	w, _ := tagword.PackFixnum(42)
	if err := v.Set(1, w); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	got, err := v.Ref(1)
	if err != nil {
		t.Fatalf("Ref failed: %v", err)
	}
	if tagword.UnpackFixnum(got) != 42 {
		t.Fatalf("got %d, want 42", tagword.UnpackFixnum(got))
	}
}

func TestVectorRefOutOfBounds(t *testing.T) {
	v, _ := NewVector(VectorT, 2)
	if _, err := v.Ref(5); err == nil {
		t.Fatal("expected an out-of-bounds error")
	}
}

func TestConsTrace(t *testing.T) {
	car, _ := tagword.PackFixnum(1)
	cdr, _ := tagword.PackFixnum(2)
	c := &Cons{Car: car, Cdr: cdr}

	var seen []tagword.Word
	c.Trace(func(w tagword.Word) { seen = append(seen, w) })
	if len(seen) != 2 || seen[0] != car || seen[1] != cdr {
		t.Fatalf("Trace visited %v, want [%v %v]", seen, car, cdr)
	}
}

func TestVectorTraceOnlyTracesTVectors(t *testing.T) {
	fv, _ := NewVector(VectorFixnum, 2)
	var calls int
	fv.Trace(func(tagword.Word) { calls++ })
	if calls != 0 {
		t.Fatalf("fixnum vector should not trace its elements, got %d calls", calls)
	}

	tv, _ := NewVector(VectorT, 2)
	tv.Trace(func(tagword.Word) { calls++ })
	if calls != 2 {
		t.Fatalf("t vector should trace every element, got %d calls", calls)
	}
}

func TestFunctionCheckArityFixed(t *testing.T) {
	f := &Function{Name: "fx-add", Arity: 2}
	if err := f.CheckArity(2); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := f.CheckArity(3); err == nil {
		t.Fatal("expected arity error for wrong argument count")
	}
}

func TestFunctionCheckArityVariadic(t *testing.T) {
	f := &Function{Name: "list", Arity: -1, MinArity: 0}
	if err := f.CheckArity(0); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := f.CheckArity(10); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
