package object

import (
	"github.com/mu-lang/mu/condition"
	"github.com/mu-lang/mu/tagword"
)

// Cons is a heap-allocated pair. Small-integer pairs are packed
// directly by tagword.PackConsDirect instead of reaching the heap;
// Cons exists for everything that doesn't fit that fast path.
type Cons struct {
	Car tagword.Word
	Cdr tagword.Word
}

// Trace hands Car and Cdr to mark.
func (c *Cons) Trace(mark func(tagword.Word)) {
	mark(c.Car)
	mark(c.Cdr)
}

// Symbol is a heap-allocated, namespace-qualified name. Keywords are
// never Symbols; they are direct values (see tagword.PackKeyword).
type Symbol struct {
	Namespace string
	Name      string
	Value     tagword.Word
	Bound     bool
}

// Trace hands the symbol's bound value to mark, if any.
func (s *Symbol) Trace(mark func(tagword.Word)) {
	if s.Bound {
		mark(s.Value)
	}
}

// VectorType discriminates the five element representations a Vector
// can hold.
type VectorType uint8

const (
	VectorT VectorType = iota
	VectorFixnum
	VectorFloat
	VectorByte
	VectorChar
)

var vectorTypeNames = [...]string{
	VectorT:      "t",
	VectorFixnum: "fixnum",
	VectorFloat:  "float",
	VectorByte:   "byte",
	VectorChar:   "char",
}

func (vt VectorType) String() string {
	if int(vt) < len(vectorTypeNames) {
		return vectorTypeNames[vt]
	}
	return "unknown"
}

// Vector is a heap-allocated, homogeneously-typed sequence. Elements
// are always stored as packed tagword.Words regardless of ElemType —
// a byte vector's elements are direct bytes, a char vector's elements
// are direct chars, a fixnum/float vector's elements are direct
// fixnums/floats, and a t vector's elements are arbitrary values —
// so Ref/Set never need a type switch on the backing slice.
type Vector struct {
	ElemType VectorType
	Elems    []tagword.Word
}

// NewVector allocates a vector of n zero-valued elements of the given
// type.
func NewVector(elemType VectorType, n int) (*Vector, error) {
	elems := make([]tagword.Word, n)
	var zero tagword.Word
	var err error
	switch elemType {
	case VectorFixnum:
		zero, err = tagword.PackFixnum(0)
	case VectorFloat:
		zero = tagword.PackFloat(0)
	case VectorByte:
		zero, err = tagword.PackByteVector([]byte{0})
	case VectorChar:
		zero = tagword.PackChar(0)
	case VectorT:
		zero = 0
	default:
		return nil, condition.TypeError("vector element type", elemType)
	}
	if err != nil {
		return nil, err
	}
	for i := range elems {
		elems[i] = zero
	}
	return &Vector{ElemType: elemType, Elems: elems}, nil
}

// Len returns the vector's element count.
func (v *Vector) Len() int {
	return len(v.Elems)
}

// Ref returns the element at i.
func (v *Vector) Ref(i int) (tagword.Word, error) {
	if i < 0 || i >= len(v.Elems) {
		return 0, condition.RangeError(i, "sv-ref index out of bounds")
	}
	return v.Elems[i], nil
}

// Set stores w at index i.
func (v *Vector) Set(i int, w tagword.Word) error {
	if i < 0 || i >= len(v.Elems) {
		return condition.RangeError(i, "sv-set index out of bounds")
	}
	v.Elems[i] = w
	return nil
}

// Trace hands every element to mark when ElemType is VectorT; the
// other element types are always direct values with nothing further
// to trace.
func (v *Vector) Trace(mark func(tagword.Word)) {
	if v.ElemType != VectorT {
		return
	}
	for _, w := range v.Elems {
		mark(w)
	}
}

// Struct is a heap-allocated record: a keyword type tag plus an
// ordered list of fields.
type Struct struct {
	TypeKey tagword.Word
	Fields  []tagword.Word
}

// Trace hands every field to mark.
func (s *Struct) Trace(mark func(tagword.Word)) {
	for _, w := range s.Fields {
		mark(w)
	}
}

// Function is a heap-allocated callable: either a native builtin
// (Native non-nil, a Go closure that eval.Apply calls directly), or a
// compiled lambda
// (Body holding the frame-indexed compiled body).
type Function struct {
	Name    string
	Arity   int  // -1 means variadic (at least MinArity args)
	MinArity int
	Native  func(args []tagword.Word) (tagword.Word, error)
	FrameID uint64
	Params  []string
	Body    tagword.Word
}

// Trace hands Body to mark; native functions have no heap references.
func (f *Function) Trace(mark func(tagword.Word)) {
	if f.Native == nil {
		mark(f.Body)
	}
}

// CheckArity validates argc against the function's declared arity,
// returning a condition.KindArity error on mismatch.
func (f *Function) CheckArity(argc int) error {
	if f.Arity < 0 {
		if argc < f.MinArity {
			return condition.ArityError(f.Name, f.MinArity, argc)
		}
		return nil
	}
	if argc != f.Arity {
		return condition.ArityError(f.Name, f.Arity, argc)
	}
	return nil
}
