package condition

import (
	"errors"
	"testing"
)

func TestKindConstructors(t *testing.T) {
	cases := []struct {
		name string
		err  *Condition
		kind Kind
	}{
		{"arity", ArityError("fx-add", 2, 3), KindArity},
		{"unbound", UnboundError("mu", "frob"), KindUnbound},
		{"range", RangeError(7, "index out of bounds"), KindRange},
		{"type", TypeError("fixnum", "x"), KindType},
		{"zero-divide", ZeroDivideError("fx-div"), KindZeroDivide},
		{"eof", EOFError(3), KindEOF},
		{"read", ReadError("unterminated string", "<stdin>:1"), KindRead},
		{"syntax", SyntaxError("dotted tail in quasiquote list"), KindSyntax},
		{"stream", StreamError("short write", nil), KindStream},
		{"open", OpenError("/no/such/file", nil), KindOpen},
		{"write", WriteError(1, nil), KindWrite},
		{"over", OverError("fixnum overflow"), KindOver},
		{"under", UnderError("fixnum underflow"), KindUnder},
		{"namespace", NamespaceError("mu", "already interned"), KindNamespace},
		{"except", ExceptError("my-tag", 42), KindExcept},
		{"error", RuntimeError("boom"), KindError},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if tc.err.Kind != tc.kind {
				t.Fatalf("got kind %q, want %q", tc.err.Kind, tc.kind)
			}
			if tc.err.Error() == "" {
				t.Fatal("Error() returned empty string")
			}
		})
	}
}

func TestIsMatchesByKindOnly(t *testing.T) {
	a := ArityError("fx-add", 2, 1)
	b := ArityError("fx-sub", 2, 3)

	if !errors.Is(a, b) {
		t.Fatal("expected two arity conditions to match under errors.Is")
	}
	if errors.Is(a, UnboundError("mu", "x")) {
		t.Fatal("arity condition should not match an unbound condition")
	}
}

func TestUnwrapCarriesCause(t *testing.T) {
	cause := errors.New("permission denied")
	c := OpenError("/etc/shadow", cause)

	if !errors.Is(c, cause) {
		t.Fatal("expected Unwrap chain to reach the underlying cause")
	}
}

func TestAsExtractsCondition(t *testing.T) {
	c := RangeError(99, "sv-ref index out of bounds")
	wrapped := errors.New("wrapper")
	_ = wrapped

	got, ok := As(c)
	if !ok || got != c {
		t.Fatal("As should return the condition itself when err is already a *Condition")
	}
}

func TestBuilderFluentConstruction(t *testing.T) {
	c := New(KindType).
		Value(3.14).
		Detail("expected symbol, got %T", 3.14).
		Path("repl:1").
		Build()

	if c.Kind != KindType {
		t.Fatalf("got kind %q, want %q", c.Kind, KindType)
	}
	if c.Path != "repl:1" {
		t.Fatalf("got path %q, want %q", c.Path, "repl:1")
	}
}
