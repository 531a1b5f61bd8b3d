package compile

import (
	"github.com/mu-lang/mu/condition"
	"github.com/mu-lang/mu/heap"
	"github.com/mu-lang/mu/namespace"
	"github.com/mu-lang/mu/object"
	"github.com/mu-lang/mu/tagword"
)

// Frame is one lexical scope: a lambda's parameter list, identified by
// a FrameID unique for the lifetime of the Compiler.
type Frame struct {
	ID     uint64
	Params []string
}

// Compiler rewrites forms against a stack of lexically enclosing
// frames, innermost last.
type Compiler struct {
	heap        *heap.Heap
	table       *namespace.Table
	frames      []*Frame
	nextFrameID uint64
}

// New creates a Compiler over h and table.
func New(h *heap.Heap, table *namespace.Table) *Compiler {
	return &Compiler{heap: h, table: table}
}

// Compile lowers form into its compiled representation.
func (c *Compiler) Compile(form tagword.Word) (tagword.Word, error) {
	return c.compileForm(form)
}

func (c *Compiler) compileForm(form tagword.Word) (tagword.Word, error) {
	if form.Class() == tagword.ClassSymbol {
		return c.compileSymbol(form)
	}

	if form.IsIndirect() {
		v, ok := c.heap.Get(form)
		if !ok {
			return form, nil
		}
		cons, ok := v.(*object.Cons)
		if !ok {
			return form, nil
		}
		return c.compileList(cons)
	}

	// Direct, non-symbol values (fixnum, float, char, keyword,
	// cons-direct) are self-evaluating: nothing to compile.
	return form, nil
}

func (c *Compiler) compileSymbol(form tagword.Word) (tagword.Word, error) {
	v, ok := c.heap.Get(form)
	if !ok {
		return form, nil
	}
	sym, ok := v.(*object.Symbol)
	if !ok {
		return form, nil
	}

	for i := len(c.frames) - 1; i >= 0; i-- {
		frame := c.frames[i]
		for idx, name := range frame.Params {
			if name == sym.Name {
				return c.frameRef(frame.ID, idx)
			}
		}
	}
	return form, nil
}

func (c *Compiler) frameRef(frameID uint64, index int) (tagword.Word, error) {
	head, err := c.muSymbol("fr-ref")
	if err != nil {
		return 0, err
	}
	frameIDWord, err := tagword.PackFixnum(int64(frameID))
	if err != nil {
		return 0, err
	}
	indexWord, err := tagword.PackFixnum(int64(index))
	if err != nil {
		return 0, err
	}
	return c.buildCall(head, frameIDWord, indexWord)
}

func (c *Compiler) compileList(cons *object.Cons) (tagword.Word, error) {
	headName, isSpecial := c.specialFormName(cons.Car)
	if isSpecial {
		switch headName {
		case "quote":
			return c.compileQuote(cons)
		case "if":
			return c.compileIf(cons)
		case "lambda":
			return c.compileLambda(cons)
		}
	}

	compiledHead, err := c.compileForm(cons.Car)
	if err != nil {
		return 0, err
	}
	args, tail, err := listElements(c.heap, cons.Cdr)
	if err != nil {
		return 0, err
	}
	compiledArgs := make([]tagword.Word, len(args))
	for i, a := range args {
		compiledArgs[i], err = c.compileForm(a)
		if err != nil {
			return 0, err
		}
	}
	return c.buildCallTail(compiledHead, tail, compiledArgs...)
}

// specialFormName recognizes a call head as one of the compiler's
// special forms. Per spec, special forms are dispatched on keyword
// identity (`:quote`, `:if`, `:lambda`), the same way the reader's `'`
// sugar and `` ` `` expansion never produce special-form heads of their
// own: a bareword symbol named "quote" is an ordinary (unbound, until
// something binds it) identifier, not a special form.
func (c *Compiler) specialFormName(headWord tagword.Word) (string, bool) {
	if headWord.IsDirect() && headWord.Subclass() == tagword.SubclassKeyword {
		switch name := tagword.UnpackKeyword(headWord); name {
		case "quote", "if", "lambda":
			return name, true
		}
	}
	return "", false
}

func (c *Compiler) compileQuote(cons *object.Cons) (tagword.Word, error) {
	args, _, err := listElements(c.heap, cons.Cdr)
	if err != nil {
		return 0, err
	}
	if len(args) != 1 {
		return 0, condition.SyntaxError("quote takes exactly one argument")
	}
	return c.buildCall(cons.Car, args[0])
}

func (c *Compiler) compileIf(cons *object.Cons) (tagword.Word, error) {
	args, _, err := listElements(c.heap, cons.Cdr)
	if err != nil {
		return 0, err
	}
	if len(args) != 2 && len(args) != 3 {
		return 0, condition.SyntaxError("if takes a condition, a consequent, and an optional alternative")
	}
	compiled := make([]tagword.Word, len(args))
	for i, a := range args {
		compiled[i], err = c.compileForm(a)
		if err != nil {
			return 0, err
		}
	}
	return c.buildCall(cons.Car, compiled...)
}

func (c *Compiler) compileLambda(cons *object.Cons) (tagword.Word, error) {
	args, _, err := listElements(c.heap, cons.Cdr)
	if err != nil {
		return 0, err
	}
	if len(args) < 1 {
		return 0, condition.SyntaxError("lambda requires a parameter list")
	}

	params, _, err := listElements(c.heap, args[0])
	if err != nil {
		return 0, err
	}
	names := make([]string, len(params))
	for i, p := range params {
		v, ok := c.heap.Get(p)
		if !ok {
			return 0, condition.SyntaxError("lambda parameters must be symbols")
		}
		sym, ok := v.(*object.Symbol)
		if !ok {
			return 0, condition.SyntaxError("lambda parameters must be symbols")
		}
		names[i] = sym.Name
	}

	frame := &Frame{ID: c.nextFrameID, Params: names}
	c.nextFrameID++
	c.frames = append(c.frames, frame)

	bodyForms := args[1:]
	compiledBody := make([]tagword.Word, len(bodyForms))
	for i, b := range bodyForms {
		compiledBody[i], err = c.compileForm(b)
		if err != nil {
			c.frames = c.frames[:len(c.frames)-1]
			return 0, err
		}
	}
	c.frames = c.frames[:len(c.frames)-1]

	bodyWord, err := c.buildBody(compiledBody)
	if err != nil {
		return 0, err
	}

	fn := &object.Function{
		Name:     "lambda",
		Arity:    len(names),
		MinArity: len(names),
		FrameID:  frame.ID,
		Params:   names,
		Body:     bodyWord,
	}
	return c.heap.Alloc(tagword.ClassFunction, fn)
}

// buildBody wraps multiple body forms in an implicit (progn ...), or
// returns the single form unwrapped when there is exactly one.
func (c *Compiler) buildBody(forms []tagword.Word) (tagword.Word, error) {
	if len(forms) == 1 {
		return forms[0], nil
	}
	head, err := c.muSymbol("progn")
	if err != nil {
		return 0, err
	}
	return c.buildCall(head, forms...)
}

func (c *Compiler) muSymbol(name string) (tagword.Word, error) {
	w, _, err := c.table.EnsureNamespace(namespace.MuNamespace).Intern(name, func() (tagword.Word, error) {
		return c.heap.Alloc(tagword.ClassSymbol, &object.Symbol{Namespace: namespace.MuNamespace, Name: name})
	})
	return w, err
}

func (c *Compiler) nilWord() (tagword.Word, error) {
	return c.muSymbol("nil")
}

func (c *Compiler) buildCall(head tagword.Word, args ...tagword.Word) (tagword.Word, error) {
	return c.buildCallTail(head, 0, args...)
}

func (c *Compiler) buildCallTail(head tagword.Word, tail tagword.Word, args ...tagword.Word) (tagword.Word, error) {
	result := tail
	if result == 0 {
		var err error
		result, err = c.nilWord()
		if err != nil {
			return 0, err
		}
	}
	for i := len(args) - 1; i >= 0; i-- {
		var err error
		result, err = c.heap.Alloc(tagword.ClassCons, &object.Cons{Car: args[i], Cdr: result})
		if err != nil {
			return 0, err
		}
	}
	return c.heap.Alloc(tagword.ClassCons, &object.Cons{Car: head, Cdr: result})
}

// listElements walks a (possibly improper) cons list, returning its
// elements and, if improper, the dotted tail word.
func listElements(h *heap.Heap, form tagword.Word) (elems []tagword.Word, tail tagword.Word, err error) {
	cur := form
	for {
		v, ok := h.Get(cur)
		if !ok {
			return elems, 0, nil
		}
		if sym, ok := v.(*object.Symbol); ok && sym.Namespace == namespace.MuNamespace && sym.Name == "nil" {
			return elems, 0, nil
		}
		cons, ok := v.(*object.Cons)
		if !ok {
			return elems, cur, nil
		}
		elems = append(elems, cons.Car)
		cur = cons.Cdr
	}
}
