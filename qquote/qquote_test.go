package qquote

import (
	"testing"

	"github.com/mu-lang/mu/heap"
	"github.com/mu-lang/mu/namespace"
	"github.com/mu-lang/mu/object"
	"github.com/mu-lang/mu/tagword"
)

// testEnv returns a fresh heap and namespace table for one test.
func testEnv() (*heap.Heap, *namespace.Table) {
	return heap.New(), namespace.NewTable()
}

func internSym(h *heap.Heap, tbl *namespace.Table, ns, name string) tagword.Word {
	w, _, _ := tbl.EnsureNamespace(ns).Intern(name, func() (tagword.Word, error) {
		return h.Alloc(tagword.ClassSymbol, &object.Symbol{Namespace: ns, Name: name})
	})
	return w
}

func cons(h *heap.Heap, car, cdr tagword.Word) tagword.Word {
	w, _ := h.Alloc(tagword.ClassCons, &object.Cons{Car: car, Cdr: cdr})
	return w
}

func list(h *heap.Heap, nilW tagword.Word, elems ...tagword.Word) tagword.Word {
	result := nilW
	for i := len(elems) - 1; i >= 0; i-- {
		result = cons(h, elems[i], result)
	}
	return result
}

func TestExpandSelfQuotingAtom(t *testing.T) {
	h, tbl := testEnv()
	nilW := internSym(h, tbl, namespace.MuNamespace, "nil")
	a := internSym(h, tbl, namespace.MuNamespace, "a")

	// `a  ->  template is just the symbol a
	out, err := Expand(a, h, tbl)
	if err != nil {
		t.Fatalf("Expand failed: %v", err)
	}
	v, ok := h.Get(out)
	if !ok {
		t.Fatal("expected (:quote a)")
	}
	c := v.(*object.Cons)
	if !c.Car.IsDirect() || c.Car.Subclass() != tagword.SubclassKeyword {
		t.Fatalf("expected the head to be a direct :quote keyword, got %v", c.Car)
	}
	if name := tagword.UnpackKeyword(c.Car); name != "quote" {
		t.Fatalf("got head %q, want quote", name)
	}
	_ = nilW
}

func TestExpandTopLevelUnquoteEvaluatesDirectly(t *testing.T) {
	h, tbl := testEnv()
	nilW := internSym(h, tbl, namespace.MuNamespace, "nil")
	unquoteSym := internSym(h, tbl, namespace.MuNamespace, "unquote")
	x := internSym(h, tbl, namespace.MuNamespace, "x")

	// `,x  ->  template is (unquote x)
	template := list(h, nilW, unquoteSym, x)
	out, err := Expand(template, h, tbl)
	if err != nil {
		t.Fatalf("Expand failed: %v", err)
	}
	if out != x {
		t.Fatalf("expected `,x to expand to x itself, got a different word")
	}
}

func TestExpandListWithUnquote(t *testing.T) {
	h, tbl := testEnv()
	nilW := internSym(h, tbl, namespace.MuNamespace, "nil")
	unquoteSym := internSym(h, tbl, namespace.MuNamespace, "unquote")
	a := internSym(h, tbl, namespace.MuNamespace, "a")
	x := internSym(h, tbl, namespace.MuNamespace, "x")

	// `(a ,x)
	unquoteX := list(h, nilW, unquoteSym, x)
	template := list(h, nilW, a, unquoteX)

	out, err := Expand(template, h, tbl)
	if err != nil {
		t.Fatalf("Expand failed: %v", err)
	}
	v, ok := h.Get(out)
	if !ok {
		t.Fatal("expected a call form")
	}
	c := v.(*object.Cons)
	headVal, _ := h.Get(c.Car)
	if headVal.(*object.Symbol).Name != "%append" {
		t.Fatalf("got head %q, want %%append", headVal.(*object.Symbol).Name)
	}
}

func TestExpandUnquoteSplicing(t *testing.T) {
	h, tbl := testEnv()
	nilW := internSym(h, tbl, namespace.MuNamespace, "nil")
	spliceSym := internSym(h, tbl, namespace.MuNamespace, "unquote-splicing")
	a := internSym(h, tbl, namespace.MuNamespace, "a")
	xs := internSym(h, tbl, namespace.MuNamespace, "xs")

	// `(a ,@xs)
	spliceForm := list(h, nilW, spliceSym, xs)
	template := list(h, nilW, a, spliceForm)

	out, err := Expand(template, h, tbl)
	if err != nil {
		t.Fatalf("Expand failed: %v", err)
	}
	v, ok := h.Get(out)
	if !ok {
		t.Fatal("expected a call form")
	}
	c := v.(*object.Cons)
	headVal, _ := h.Get(c.Car)
	if headVal.(*object.Symbol).Name != "%append" {
		t.Fatalf("got head %q, want %%append", headVal.(*object.Symbol).Name)
	}

	// The outer call is (%append (list (:quote a)) REST); REST is
	// (%append xs nil), whose first argument is the spliced piece. It
	// should reference xs directly rather than wrapping it in (list xs).
	argsVal, _ := h.Get(c.Cdr)
	argsCons := argsVal.(*object.Cons)
	restVal, _ := h.Get(argsCons.Cdr)
	innerVal, _ := h.Get(restVal.(*object.Cons).Car)
	innerArgsVal, _ := h.Get(innerVal.(*object.Cons).Cdr)
	if innerArgsVal.(*object.Cons).Car != xs {
		t.Fatal("expected the spliced argument to be xs itself, not wrapped in (list xs)")
	}
}
