package compile

import (
	"testing"

	"github.com/mu-lang/mu/heap"
	"github.com/mu-lang/mu/namespace"
	"github.com/mu-lang/mu/object"
	"github.com/mu-lang/mu/reader"
	"github.com/mu-lang/mu/tagword"
)

func read(t *testing.T, src string, h *heap.Heap, tbl *namespace.Table) tagword.Word {
	t.Helper()
	r := reader.New(src, "<test>", tbl, h)
	w, err := r.Read()
	if err != nil {
		t.Fatalf("Read(%q) failed: %v", src, err)
	}
	return w
}

func TestCompileSelfEvaluatingAtom(t *testing.T) {
	h, tbl := heap.New(), namespace.NewTable()
	c := New(h, tbl)
	form := read(t, "42", h, tbl)

	out, err := c.Compile(form)
	if err != nil {
		t.Fatalf("Compile failed: %v", err)
	}
	if out != form {
		t.Fatal("expected a self-evaluating atom to compile to itself")
	}
}

func TestCompileLambdaParamResolvesToFrameRef(t *testing.T) {
	h, tbl := heap.New(), namespace.NewTable()
	c := New(h, tbl)
	form := read(t, "(:lambda (x) x)", h, tbl)

	out, err := c.Compile(form)
	if err != nil {
		t.Fatalf("Compile failed: %v", err)
	}

	v, ok := h.Get(out)
	if !ok {
		t.Fatal("expected a Function value")
	}
	fn, ok := v.(*object.Function)
	if !ok {
		t.Fatalf("got %T, want *object.Function", v)
	}
	if fn.Arity != 1 {
		t.Fatalf("got arity %d, want 1", fn.Arity)
	}

	bodyVal, ok := h.Get(fn.Body)
	if !ok {
		t.Fatal("expected a compiled call form for the body")
	}
	bodyCons, ok := bodyVal.(*object.Cons)
	if !ok {
		t.Fatal("expected the body to compile to (fr-ref 0 0)")
	}
	headVal, _ := h.Get(bodyCons.Car)
	headSym, ok := headVal.(*object.Symbol)
	if !ok || headSym.Name != "fr-ref" {
		t.Fatalf("got head %v, want fr-ref", headVal)
	}
}

func TestCompileFreeSymbolIsUnchanged(t *testing.T) {
	h, tbl := heap.New(), namespace.NewTable()
	c := New(h, tbl)
	form := read(t, "some-global", h, tbl)

	out, err := c.Compile(form)
	if err != nil {
		t.Fatalf("Compile failed: %v", err)
	}
	if out != form {
		t.Fatal("expected a free symbol to compile unchanged")
	}
}

func TestCompileQuoteLeavesArgumentUntouched(t *testing.T) {
	h, tbl := heap.New(), namespace.NewTable()
	c := New(h, tbl)
	form := read(t, "(:quote (a b))", h, tbl)

	out, err := c.Compile(form)
	if err != nil {
		t.Fatalf("Compile failed: %v", err)
	}
	v, ok := h.Get(out)
	if !ok {
		t.Fatal("expected a (:quote ...) call form")
	}
	cons := v.(*object.Cons)
	argsVal, _ := h.Get(cons.Cdr)
	argsCons := argsVal.(*object.Cons)
	if argsCons.Car == 0 {
		t.Fatal("expected the quoted list to be preserved as the sole argument")
	}
}

func TestCompileNestedLambdaOuterParamStillResolves(t *testing.T) {
	h, tbl := heap.New(), namespace.NewTable()
	c := New(h, tbl)
	form := read(t, "(:lambda (x) (:lambda (y) x))", h, tbl)

	out, err := c.Compile(form)
	if err != nil {
		t.Fatalf("Compile failed: %v", err)
	}
	outerFn := mustFunction(t, h, out)
	innerFn := mustFunction(t, h, outerFn.Body)

	bodyVal, ok := h.Get(innerFn.Body)
	if !ok {
		t.Fatal("expected the inner lambda's body to be a compiled fr-ref call")
	}
	cons := bodyVal.(*object.Cons)
	headVal, _ := h.Get(cons.Car)
	headSym := headVal.(*object.Symbol)
	if headSym.Name != "fr-ref" {
		t.Fatalf("got head %q, want fr-ref (outer frame still reachable)", headSym.Name)
	}
}

func mustFunction(t *testing.T, h *heap.Heap, w tagword.Word) *object.Function {
	t.Helper()
	v, ok := h.Get(w)
	if !ok {
		t.Fatal("expected a heap value")
	}
	fn, ok := v.(*object.Function)
	if !ok {
		t.Fatalf("got %T, want *object.Function", v)
	}
	return fn
}
