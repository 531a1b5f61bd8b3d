package eval

import (
	"sync"

	"github.com/mu-lang/mu/condition"
	"github.com/mu-lang/mu/heap"
	"github.com/mu-lang/mu/namespace"
	"github.com/mu-lang/mu/object"
	"github.com/mu-lang/mu/sys"
	"github.com/mu-lang/mu/tagword"
)

// Frame holds the bound argument values for one live call to a
// compiled lambda.
type Frame struct {
	Values []tagword.Word
}

// Evaluator executes compiled forms against a heap, a namespace table,
// and (optionally) a stream table for I/O builtins.
type Evaluator struct {
	heap    *heap.Heap
	table   *namespace.Table
	streams *sys.Table

	mu          sync.Mutex
	frameStacks map[uint64][]*Frame

	nilWord tagword.Word
	tWord   tagword.Word
}

// New creates an Evaluator. streams may be nil if no stream builtins
// will be registered.
func New(h *heap.Heap, table *namespace.Table, streams *sys.Table) (*Evaluator, error) {
	e := &Evaluator{
		heap:        h,
		table:       table,
		streams:     streams,
		frameStacks: make(map[uint64][]*Frame),
	}
	var err error
	e.nilWord, err = e.muSymbolWord("nil")
	if err != nil {
		return nil, err
	}
	e.tWord, err = e.muSymbolWord("t")
	if err != nil {
		return nil, err
	}
	return e, nil
}

func (e *Evaluator) muSymbolWord(name string) (tagword.Word, error) {
	w, _, err := e.table.EnsureNamespace(namespace.MuNamespace).Intern(name, func() (tagword.Word, error) {
		return e.heap.Alloc(tagword.ClassSymbol, &object.Symbol{Namespace: namespace.MuNamespace, Name: name})
	})
	return w, err
}

func (e *Evaluator) boolWord(truthy bool) tagword.Word {
	if truthy {
		return e.tWord
	}
	return e.nilWord
}

func (e *Evaluator) isTruthy(w tagword.Word) bool {
	return w != e.nilWord
}

func (e *Evaluator) pushFrame(id uint64, f *Frame) {
	e.mu.Lock()
	e.frameStacks[id] = append(e.frameStacks[id], f)
	e.mu.Unlock()
}

func (e *Evaluator) popFrame(id uint64) {
	e.mu.Lock()
	stack := e.frameStacks[id]
	e.frameStacks[id] = stack[:len(stack)-1]
	e.mu.Unlock()
}

func (e *Evaluator) topFrame(id uint64) (*Frame, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	stack := e.frameStacks[id]
	if len(stack) == 0 {
		return nil, false
	}
	return stack[len(stack)-1], true
}

// Eval evaluates a compiled form produced by package compile.
func (e *Evaluator) Eval(form tagword.Word) (tagword.Word, error) {
	if form.Class() == tagword.ClassSymbol {
		return e.evalSymbol(form)
	}
	if form.IsIndirect() {
		v, ok := e.heap.Get(form)
		if !ok {
			return form, nil
		}
		if cons, ok := v.(*object.Cons); ok {
			return e.evalCall(cons)
		}
		// Functions, vectors, structs, and streams reached directly
		// (e.g. a lambda literal produced by compile.compileLambda, or
		// data returned unevaluated by quote) are self-evaluating.
		return form, nil
	}
	// Direct, non-symbol values: fixnum, float, char, keyword, cons-direct.
	return form, nil
}

func (e *Evaluator) evalSymbol(form tagword.Word) (tagword.Word, error) {
	if form == e.nilWord {
		return form, nil
	}
	v, ok := e.heap.Get(form)
	if !ok {
		return form, nil
	}
	sym, ok := v.(*object.Symbol)
	if !ok {
		return form, nil
	}
	if !sym.Bound {
		return 0, condition.UnboundError(sym.Namespace, sym.Name)
	}
	return sym.Value, nil
}

// specialForm recognizes a call head as one of the evaluator's special
// forms. "quote"/"if" are source-level special forms and, per spec,
// are dispatched on keyword identity (`:quote`, `:if`) rather than a
// bareword symbol in any namespace — a keyword is self-evaluating and
// never goes through heap.Get's symbol-table lookup, so it is checked
// directly against the packed word. "progn"/"fr-ref" never appear in
// source text; they are only ever emitted by the compiler as
// mu-namespace symbols (compile.Compiler.muSymbol), so those two stay
// on the symbol path.
func (e *Evaluator) specialForm(headWord tagword.Word) (string, bool) {
	if headWord.IsDirect() && headWord.Subclass() == tagword.SubclassKeyword {
		switch name := tagword.UnpackKeyword(headWord); name {
		case "quote", "if":
			return name, true
		}
		return "", false
	}

	v, ok := e.heap.Get(headWord)
	if !ok {
		return "", false
	}
	sym, ok := v.(*object.Symbol)
	if !ok || sym.Namespace != namespace.MuNamespace {
		return "", false
	}
	switch sym.Name {
	case "progn", "fr-ref":
		return sym.Name, true
	default:
		return "", false
	}
}

func (e *Evaluator) evalCall(cons *object.Cons) (tagword.Word, error) {
	if name, ok := e.specialForm(cons.Car); ok {
		args := e.chainElements(cons.Cdr)
		switch name {
		case "quote":
			if len(args) != 1 {
				return 0, condition.SyntaxError("quote takes exactly one argument")
			}
			return args[0], nil
		case "if":
			return e.evalIf(args)
		case "progn":
			return e.evalProgn(args)
		case "fr-ref":
			return e.evalFrameRef(args)
		}
	}

	fnWord, err := e.Eval(cons.Car)
	if err != nil {
		return 0, err
	}
	argForms := e.chainElements(cons.Cdr)
	args := make([]tagword.Word, len(argForms))
	for i, a := range argForms {
		args[i], err = e.Eval(a)
		if err != nil {
			return 0, err
		}
	}
	return e.Apply(fnWord, args)
}

func (e *Evaluator) evalIf(args []tagword.Word) (tagword.Word, error) {
	if len(args) != 2 && len(args) != 3 {
		return 0, condition.SyntaxError("if takes a condition, a consequent, and an optional alternative")
	}
	cond, err := e.Eval(args[0])
	if err != nil {
		return 0, err
	}
	if e.isTruthy(cond) {
		return e.Eval(args[1])
	}
	if len(args) == 3 {
		return e.Eval(args[2])
	}
	return e.nilWord, nil
}

func (e *Evaluator) evalProgn(args []tagword.Word) (tagword.Word, error) {
	result := e.nilWord
	for _, a := range args {
		var err error
		result, err = e.Eval(a)
		if err != nil {
			return 0, err
		}
	}
	return result, nil
}

func (e *Evaluator) evalFrameRef(args []tagword.Word) (tagword.Word, error) {
	if len(args) != 2 {
		return 0, condition.SyntaxError("fr-ref takes a frame id and an index")
	}
	frameIDWord, err := e.Eval(args[0])
	if err != nil {
		return 0, err
	}
	indexWord, err := e.Eval(args[1])
	if err != nil {
		return 0, err
	}
	frameID := uint64(tagword.UnpackFixnum(frameIDWord))
	index := int(tagword.UnpackFixnum(indexWord))

	frame, ok := e.topFrame(frameID)
	if !ok {
		return 0, condition.RangeError(frameID, "fr-ref: no active frame")
	}
	if index < 0 || index >= len(frame.Values) {
		return 0, condition.RangeError(index, "fr-ref: index out of bounds")
	}
	return frame.Values[index], nil
}

// Apply invokes fnWord (a Function value) with already-evaluated args.
func (e *Evaluator) Apply(fnWord tagword.Word, args []tagword.Word) (tagword.Word, error) {
	v, ok := e.heap.Get(fnWord)
	if !ok {
		return 0, condition.TypeError("function", fnWord)
	}
	fn, ok := v.(*object.Function)
	if !ok {
		return 0, condition.TypeError("function", v)
	}
	if err := fn.CheckArity(len(args)); err != nil {
		return 0, err
	}
	if fn.Native != nil {
		return fn.Native(args)
	}

	frame := &Frame{Values: args}
	e.pushFrame(fn.FrameID, frame)
	defer e.popFrame(fn.FrameID)
	return e.Eval(fn.Body)
}

// chainElements walks a proper cons list, ignoring any dotted tail —
// compiled call argument lists are always proper.
func (e *Evaluator) chainElements(form tagword.Word) []tagword.Word {
	var elems []tagword.Word
	cur := form
	for {
		if cur == e.nilWord {
			return elems
		}
		v, ok := e.heap.Get(cur)
		if !ok {
			return elems
		}
		cons, ok := v.(*object.Cons)
		if !ok {
			return elems
		}
		elems = append(elems, cons.Car)
		cur = cons.Cdr
	}
}
