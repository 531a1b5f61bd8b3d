package mu

import (
	"testing"

	"github.com/mu-lang/mu/tagword"
)

func TestRunStringArithmeticAndLambda(t *testing.T) {
	m, err := New()
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	out, err := m.RunString(`
		(mu:fx-add 1 2)
		((:lambda (x y) (mu:fx-mul x y)) 6 7)
	`, "<test>")
	if err != nil {
		t.Fatalf("RunString: %v", err)
	}
	if got := tagword.UnpackFixnum(out); got != 42 {
		t.Fatalf("got %d, want 42", got)
	}
}

func TestWriteRoundTripsThroughRunString(t *testing.T) {
	m, err := New()
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	out, err := m.RunString(`(mu:cons 1 2)`, "<test>")
	if err != nil {
		t.Fatalf("RunString: %v", err)
	}
	s, err := m.Write(out)
	if err != nil {
		t.Fatalf("Write: %v", err)
	}
	if s != "(1 . 2)" {
		t.Fatalf("got %q, want (1 . 2)", s)
	}
}

func TestBindAndNSFind(t *testing.T) {
	m, err := New()
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	val, _ := tagword.PackFixnum(99)
	if _, err := m.Bind("user", "answer", val); err != nil {
		t.Fatalf("Bind: %v", err)
	}
	w, ok, err := m.NSFind("user", "answer")
	if err != nil || !ok {
		t.Fatalf("NSFind: ok=%v err=%v", ok, err)
	}
	form, cerr := m.Compile(w)
	if cerr != nil {
		t.Fatalf("Compile: %v", cerr)
	}
	out, eerr := m.Eval(form)
	if eerr != nil {
		t.Fatalf("Eval: %v", eerr)
	}
	if got := tagword.UnpackFixnum(out); got != 99 {
		t.Fatalf("got %d, want 99", got)
	}
}

func TestGCFreesUnreachableCons(t *testing.T) {
	m, err := New()
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if _, err := m.RunString(`(mu:cons 1 2)`, "<test>"); err != nil {
		t.Fatalf("RunString: %v", err)
	}
	before := m.Heap.Len()
	freed, err := m.GC(nil)
	if err != nil {
		t.Fatalf("GC: %v", err)
	}
	if freed == 0 {
		t.Fatal("expected the unreachable cons cells of the read and compiled form to be freed")
	}
	if m.Heap.Len() >= before {
		t.Fatalf("heap did not shrink: before=%d after=%d", before, m.Heap.Len())
	}
}

func TestCloseClosesOpenStreams(t *testing.T) {
	m, err := New()
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	id, err := m.Streams.OpenOutputString()
	if err != nil {
		t.Fatalf("OpenOutputString: %v", err)
	}
	if err := m.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if _, err := m.Streams.GetString(id); err == nil {
		t.Fatal("expected the stream opened before Close to be gone")
	}
}

func TestUnternRemovesSymbol(t *testing.T) {
	m, err := New()
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if _, err := m.Intern("user", "scratch"); err != nil {
		t.Fatalf("Intern: %v", err)
	}
	if _, ok := m.Untern("user", "scratch"); !ok {
		t.Fatal("expected scratch to have been interned")
	}
	if _, ok, _ := m.NSFind("user", "scratch"); ok {
		t.Fatal("expected scratch to be gone after Untern")
	}
}
