package eval

import (
	"github.com/mu-lang/mu/condition"
	"github.com/mu-lang/mu/namespace"
	"github.com/mu-lang/mu/object"
	"github.com/mu-lang/mu/sys"
	"github.com/mu-lang/mu/tagword"
)

// maxFixIterations bounds the fix fixed-point combinator so a
// non-converging function raises a condition instead of looping
// forever.
const maxFixIterations = 1 << 20

// RegisterBuiltins interns the evaluator's native function set into the
// mu namespace, keyed by name. Each entry is a closure over e so
// builtins that themselves apply functions (fix, with-exception) reach
// back into the same Evaluator rather than needing a second one
// threaded through every Native signature.
func (e *Evaluator) RegisterBuiltins() error {
	builtins := []struct {
		name     string
		arity    int
		minArity int
		native   func(args []tagword.Word) (tagword.Word, error)
	}{
		{"fx-add", 2, 2, e.fxAdd},
		{"fx-sub", 2, 2, e.fxSub},
		{"fx-mul", 2, 2, e.fxMul},
		{"fx-div", 2, 2, e.fxDiv},
		{"fx-lt", 2, 2, e.fxLt},
		{"fl-add", 2, 2, e.flAdd},
		{"fl-sub", 2, 2, e.flSub},
		{"fl-mul", 2, 2, e.flMul},
		{"fl-div", 2, 2, e.flDiv},
		{"fl-lt", 2, 2, e.flLt},
		{"eq", 2, 2, e.eqBuiltin},
		{"not", 1, 1, e.notBuiltin},
		{"cons", 2, 2, e.consBuiltin},
		{"car", 1, 1, e.carBuiltin},
		{"cdr", 1, 1, e.cdrBuiltin},
		{"sv-ref", 2, 2, e.svRef},
		{"sv-set", 3, 3, e.svSet},
		{"sv-type", 1, 1, e.svType},
		{"sv-len", 1, 1, e.svLen},
		{"list", -1, 0, e.listBuiltin},
		{"%append", 2, 2, e.appendBuiltin},
		{"fix", 2, 2, e.fixBuiltin},
		{"except", 2, 2, e.exceptBuiltin},
		{"error", 1, 1, e.errorBuiltin},
		{"with-exception", 3, 3, e.withException},
	}

	for _, b := range builtins {
		fn := &object.Function{
			Name:     b.name,
			Arity:    b.arity,
			MinArity: b.minArity,
			Native:   b.native,
		}
		_, _, err := e.table.EnsureNamespace(namespace.MuNamespace).Intern(b.name, func() (tagword.Word, error) {
			return e.heap.Alloc(tagword.ClassFunction, fn)
		})
		if err != nil {
			return err
		}
	}
	return nil
}

func fixnumArgs(a, b tagword.Word) (int64, int64) {
	return tagword.UnpackFixnum(a), tagword.UnpackFixnum(b)
}

func (e *Evaluator) fxAdd(args []tagword.Word) (tagword.Word, error) {
	a, b := fixnumArgs(args[0], args[1])
	return tagword.PackFixnum(a + b)
}

func (e *Evaluator) fxSub(args []tagword.Word) (tagword.Word, error) {
	a, b := fixnumArgs(args[0], args[1])
	return tagword.PackFixnum(a - b)
}

func (e *Evaluator) fxMul(args []tagword.Word) (tagword.Word, error) {
	a, b := fixnumArgs(args[0], args[1])
	return tagword.PackFixnum(a * b)
}

func (e *Evaluator) fxDiv(args []tagword.Word) (tagword.Word, error) {
	a, b := fixnumArgs(args[0], args[1])
	if b == 0 {
		return 0, condition.ZeroDivideError("fx-div")
	}
	return tagword.PackFixnum(a / b)
}

func (e *Evaluator) fxLt(args []tagword.Word) (tagword.Word, error) {
	a, b := fixnumArgs(args[0], args[1])
	return e.boolWord(a < b), nil
}

func (e *Evaluator) flAdd(args []tagword.Word) (tagword.Word, error) {
	return tagword.PackFloat(tagword.UnpackFloat(args[0]) + tagword.UnpackFloat(args[1])), nil
}

func (e *Evaluator) flSub(args []tagword.Word) (tagword.Word, error) {
	return tagword.PackFloat(tagword.UnpackFloat(args[0]) - tagword.UnpackFloat(args[1])), nil
}

func (e *Evaluator) flMul(args []tagword.Word) (tagword.Word, error) {
	return tagword.PackFloat(tagword.UnpackFloat(args[0]) * tagword.UnpackFloat(args[1])), nil
}

func (e *Evaluator) flDiv(args []tagword.Word) (tagword.Word, error) {
	b := tagword.UnpackFloat(args[1])
	if b == 0 {
		return 0, condition.ZeroDivideError("fl-div")
	}
	return tagword.PackFloat(tagword.UnpackFloat(args[0]) / b), nil
}

func (e *Evaluator) flLt(args []tagword.Word) (tagword.Word, error) {
	return e.boolWord(tagword.UnpackFloat(args[0]) < tagword.UnpackFloat(args[1])), nil
}

func (e *Evaluator) eqBuiltin(args []tagword.Word) (tagword.Word, error) {
	return e.boolWord(tagword.Eq(args[0], args[1])), nil
}

func (e *Evaluator) notBuiltin(args []tagword.Word) (tagword.Word, error) {
	return e.boolWord(!e.isTruthy(args[0])), nil
}

// consBuiltin packs small fixnum pairs directly in the word, the same
// fast path the tagword package reserves for them, and only falls back
// to a heap-allocated Cons when either half doesn't fit.
func (e *Evaluator) consBuiltin(args []tagword.Word) (tagword.Word, error) {
	if args[0].IsDirect() && args[1].IsDirect() &&
		args[0].Subclass() == tagword.SubclassExtended && args[1].Subclass() == tagword.SubclassExtended &&
		args[0].ExtKind() == tagword.ExtFixnum && args[1].ExtKind() == tagword.ExtFixnum {
		car, cdr := tagword.UnpackFixnum(args[0]), tagword.UnpackFixnum(args[1])
		if w, err := tagword.PackConsDirect(int32(car), int32(cdr)); err == nil {
			if int64(int32(car)) == car && int64(int32(cdr)) == cdr {
				return w, nil
			}
		}
	}
	return e.heap.Alloc(tagword.ClassCons, &object.Cons{Car: args[0], Cdr: args[1]})
}

func (e *Evaluator) asCons(w tagword.Word) (car, cdr tagword.Word, ok bool) {
	if w.IsDirect() {
		if w.Subclass() == tagword.SubclassExtended && w.ExtKind() == tagword.ExtConsDirect {
			c, d := tagword.UnpackConsDirect(w)
			carW, _ := tagword.PackFixnum(int64(c))
			cdrW, _ := tagword.PackFixnum(int64(d))
			return carW, cdrW, true
		}
		return 0, 0, false
	}
	v, found := e.heap.Get(w)
	if !found {
		return 0, 0, false
	}
	cons, isCons := v.(*object.Cons)
	if !isCons {
		return 0, 0, false
	}
	return cons.Car, cons.Cdr, true
}

func (e *Evaluator) carBuiltin(args []tagword.Word) (tagword.Word, error) {
	car, _, ok := e.asCons(args[0])
	if !ok {
		return 0, condition.TypeError("cons", args[0])
	}
	return car, nil
}

func (e *Evaluator) cdrBuiltin(args []tagword.Word) (tagword.Word, error) {
	_, cdr, ok := e.asCons(args[0])
	if !ok {
		return 0, condition.TypeError("cons", args[0])
	}
	return cdr, nil
}

func (e *Evaluator) asVector(w tagword.Word) (*object.Vector, error) {
	v, ok := e.heap.Get(w)
	if !ok {
		return nil, condition.TypeError("vector", w)
	}
	vec, ok := v.(*object.Vector)
	if !ok {
		return nil, condition.TypeError("vector", v)
	}
	return vec, nil
}

func (e *Evaluator) svRef(args []tagword.Word) (tagword.Word, error) {
	vec, err := e.asVector(args[0])
	if err != nil {
		return 0, err
	}
	return vec.Ref(int(tagword.UnpackFixnum(args[1])))
}

func (e *Evaluator) svSet(args []tagword.Word) (tagword.Word, error) {
	vec, err := e.asVector(args[0])
	if err != nil {
		return 0, err
	}
	if err := vec.Set(int(tagword.UnpackFixnum(args[1])), args[2]); err != nil {
		return 0, err
	}
	return args[2], nil
}

func (e *Evaluator) svType(args []tagword.Word) (tagword.Word, error) {
	vec, err := e.asVector(args[0])
	if err != nil {
		return 0, err
	}
	return tagword.PackKeyword(vec.ElemType.String())
}

func (e *Evaluator) svLen(args []tagword.Word) (tagword.Word, error) {
	vec, err := e.asVector(args[0])
	if err != nil {
		return 0, err
	}
	return tagword.PackFixnum(int64(vec.Len()))
}

func (e *Evaluator) listBuiltin(args []tagword.Word) (tagword.Word, error) {
	result := e.nilWord
	for i := len(args) - 1; i >= 0; i-- {
		var err error
		result, err = e.heap.Alloc(tagword.ClassCons, &object.Cons{Car: args[i], Cdr: result})
		if err != nil {
			return 0, err
		}
	}
	return result, nil
}

// appendBuiltin copies the elements of args[0] onto a fresh chain of
// cons cells terminated by args[1], which is shared rather than copied
// — the usual last-argument-shared append semantics.
func (e *Evaluator) appendBuiltin(args []tagword.Word) (tagword.Word, error) {
	elems := e.chainElements(args[0])
	result := args[1]
	for i := len(elems) - 1; i >= 0; i-- {
		var err error
		result, err = e.heap.Alloc(tagword.ClassCons, &object.Cons{Car: elems[i], Cdr: result})
		if err != nil {
			return 0, err
		}
	}
	return result, nil
}

// fixBuiltin repeatedly applies args[0] to args[1] until two
// successive results are eq, the combinator's tag-equality termination
// rule, and returns that fixed value.
func (e *Evaluator) fixBuiltin(args []tagword.Word) (tagword.Word, error) {
	fn, cur := args[0], args[1]
	for i := 0; i < maxFixIterations; i++ {
		next, err := e.Apply(fn, []tagword.Word{cur})
		if err != nil {
			return 0, err
		}
		if tagword.Eq(next, cur) {
			return cur, nil
		}
		cur = next
	}
	return 0, condition.OverError("fix did not converge within the iteration bound")
}

// exceptBuiltin raises a user-tagged condition, args[0] a keyword tag
// and args[1] an arbitrary payload value.
func (e *Evaluator) exceptBuiltin(args []tagword.Word) (tagword.Word, error) {
	tag := tagword.UnpackKeyword(args[0])
	return 0, condition.ExceptError(tag, args[1])
}

// errorBuiltin raises a generic runtime condition carrying a
// character-vector detail message.
func (e *Evaluator) errorBuiltin(args []tagword.Word) (tagword.Word, error) {
	detail, err := e.vectorToString(args[0])
	if err != nil {
		return 0, err
	}
	return 0, condition.RuntimeError(detail)
}

func (e *Evaluator) vectorToString(w tagword.Word) (string, error) {
	vec, err := e.asVector(w)
	if err != nil {
		return "", err
	}
	if vec.ElemType != object.VectorChar {
		return "", condition.TypeError("char vector", vec.ElemType)
	}
	buf := make([]byte, vec.Len())
	for i, elem := range vec.Elems {
		buf[i] = tagword.UnpackChar(elem)
	}
	return string(buf), nil
}

// withException applies args[2] (a zero-argument thunk). If it raises
// a condition whose Kind matches args[0] (a keyword, or the keyword
// "any") args[1] is applied to the condition's kind keyword and its
// result returned in place of the error; any other error propagates
// unchanged through the Go call stack that is already doing the
// unwinding.
func (e *Evaluator) withException(args []tagword.Word) (tagword.Word, error) {
	kindFilter, handler, thunk := args[0], args[1], args[2]

	result, err := e.Apply(thunk, nil)
	if err == nil {
		return result, nil
	}
	cond, ok := condition.As(err)
	if !ok {
		return 0, err
	}
	if kindFilter.IsDirect() && kindFilter.Subclass() == tagword.SubclassKeyword {
		filterName := tagword.UnpackKeyword(kindFilter)
		if filterName != "any" && filterName != string(cond.Kind) {
			return 0, err
		}
	}
	kindWord, kerr := tagword.PackKeyword(string(cond.Kind))
	if kerr != nil {
		return 0, kerr
	}
	return e.Apply(handler, []tagword.Word{kindWord})
}

// Streams returns the evaluator's stream table, or nil if none was
// configured. Exposed for builtins registered elsewhere (e.g. the root
// mu package's I/O builtins) that need to share the same table.
func (e *Evaluator) Streams() *sys.Table {
	return e.streams
}
