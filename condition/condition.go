package condition

import (
	"fmt"
)

// Kind classifies a Condition. The set is closed and mirrors the sixteen
// exception classes the reader, compiler, and evaluator can raise.
type Kind string

const (
	KindArity      Kind = "arity"
	KindExcept     Kind = "except"
	KindEOF        Kind = "eof"
	KindError      Kind = "error"
	KindOpen       Kind = "open"
	KindRange      Kind = "range"
	KindRead       Kind = "read"
	KindStream     Kind = "stream"
	KindSyntax     Kind = "syntax"
	KindType       Kind = "type"
	KindUnbound    Kind = "unbound"
	KindWrite      Kind = "write"
	KindZeroDivide Kind = "zero-divide"
	KindOver       Kind = "over"
	KindUnder      Kind = "under"
	KindNamespace  Kind = "namespace"
)

// Condition is the runtime's single exception value. It satisfies error
// so it interoperates with errors.Is/errors.As, and carries enough shape
// (Kind, Value, Detail) to be printed as a Lisp condition object and to
// be matched by with-exception handlers.
type Condition struct {
	Cause  error
	Value  any
	Kind   Kind
	Detail string
	Path   string
}

func (c *Condition) Error() string {
	if c.Detail == "" && c.Path == "" {
		return fmt.Sprintf("%s: %v", c.Kind, c.Value)
	}
	if c.Path == "" {
		return fmt.Sprintf("%s: %s", c.Kind, c.Detail)
	}
	return fmt.Sprintf("%s: %s (%s)", c.Kind, c.Detail, c.Path)
}

func (c *Condition) Unwrap() error {
	return c.Cause
}

// Is reports whether target is a *Condition of the same Kind. Two
// conditions of the same kind are considered equivalent for errors.Is
// purposes regardless of Value/Detail, matching how with-exception
// handlers dispatch on kind alone.
func (c *Condition) Is(target error) bool {
	other, ok := target.(*Condition)
	if !ok {
		return false
	}
	return other.Kind == c.Kind
}

// Builder constructs a Condition field by field. Use it for conditions
// that don't fit one of the Kind-specific constructors below.
type Builder struct {
	c *Condition
}

// New starts a Builder for the given Kind.
func New(kind Kind) *Builder {
	return &Builder{c: &Condition{Kind: kind}}
}

func (b *Builder) Value(v any) *Builder {
	b.c.Value = v
	return b
}

func (b *Builder) Cause(err error) *Builder {
	b.c.Cause = err
	return b
}

func (b *Builder) Detail(format string, args ...any) *Builder {
	b.c.Detail = fmt.Sprintf(format, args...)
	return b
}

func (b *Builder) Path(path string) *Builder {
	b.c.Path = path
	return b
}

func (b *Builder) Build() *Condition {
	return b.c
}

// ArityError reports a function invoked with the wrong number of arguments.
func ArityError(fn string, want, got int) *Condition {
	return New(KindArity).
		Value(fn).
		Detail("%s expects %d argument(s), got %d", fn, want, got).
		Build()
}

// UnboundError reports a symbol with no value bound in its namespace.
func UnboundError(ns, name string) *Condition {
	return New(KindUnbound).
		Value(name).
		Detail("unbound symbol %s:%s", ns, name).
		Build()
}

// RangeError reports an index or value outside the permitted range.
func RangeError(value any, detail string) *Condition {
	return New(KindRange).
		Value(value).
		Detail("%s", detail).
		Build()
}

// TypeError reports a value that does not satisfy an expected type.
func TypeError(want string, got any) *Condition {
	return New(KindType).
		Value(got).
		Detail("expected %s, got %T", want, got).
		Build()
}

// ZeroDivideError reports division or modulo by zero.
func ZeroDivideError(op string) *Condition {
	return New(KindZeroDivide).
		Detail("%s: divide by zero", op).
		Build()
}

// EOFError reports a read past the end of a stream.
func EOFError(streamID uint32) *Condition {
	return New(KindEOF).
		Value(streamID).
		Detail("end of file on stream %d", streamID).
		Build()
}

// ReadError reports a malformed token or unreadable input at the reader.
func ReadError(detail string, path string) *Condition {
	return New(KindRead).
		Detail("%s", detail).
		Path(path).
		Build()
}

// SyntaxError reports an ill-formed special form or quasiquote template.
func SyntaxError(detail string) *Condition {
	return New(KindSyntax).
		Detail("%s", detail).
		Build()
}

// StreamError reports a failure at the system-stream boundary not better
// described by Open, EOF, Read, or Write.
func StreamError(detail string, cause error) *Condition {
	return New(KindStream).
		Detail("%s", detail).
		Cause(cause).
		Build()
}

// OpenError reports a failure opening a file or string stream.
func OpenError(path string, cause error) *Condition {
	return New(KindOpen).
		Value(path).
		Detail("open %s", path).
		Cause(cause).
		Path(path).
		Build()
}

// WriteError reports a failure writing to a stream.
func WriteError(streamID uint32, cause error) *Condition {
	return New(KindWrite).
		Value(streamID).
		Detail("write failed on stream %d", streamID).
		Cause(cause).
		Build()
}

// OverError reports fixnum or byte-vector-length overflow.
func OverError(detail string) *Condition {
	return New(KindOver).
		Detail("%s", detail).
		Build()
}

// UnderError reports fixnum underflow.
func UnderError(detail string) *Condition {
	return New(KindUnder).
		Detail("%s", detail).
		Build()
}

// NamespaceError reports a namespace lookup or intern/untern failure.
func NamespaceError(ns, detail string) *Condition {
	return New(KindNamespace).
		Value(ns).
		Detail("%s", detail).
		Build()
}

// ExceptError wraps a user-raised condition carrying an arbitrary tag and
// payload, as produced by the (except TAG VALUE) form.
func ExceptError(tag, value any) *Condition {
	return New(KindExcept).
		Value(value).
		Detail("except %v", tag).
		Build()
}

// RuntimeError reports a generic failure not covered by a more specific
// Kind, as produced by the (error DETAIL) form.
func RuntimeError(detail string) *Condition {
	return New(KindError).
		Detail("%s", detail).
		Build()
}

// Is reports whether err is a Condition of the given Kind. It is the
// ergonomic counterpart to errors.Is for callers that only have a Kind,
// not a constructed *Condition, to compare against.
func Is(err error, kind Kind) bool {
	c, ok := err.(*Condition)
	if !ok {
		return false
	}
	return c.Kind == kind
}

// As extracts the *Condition from err, if any, following the Unwrap chain.
func As(err error) (*Condition, bool) {
	for err != nil {
		if c, ok := err.(*Condition); ok {
			return c, true
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			return nil, false
		}
		err = u.Unwrap()
	}
	return nil, false
}
