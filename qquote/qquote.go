package qquote

import (
	"github.com/mu-lang/mu/condition"
	"github.com/mu-lang/mu/heap"
	"github.com/mu-lang/mu/namespace"
	"github.com/mu-lang/mu/object"
	"github.com/mu-lang/mu/tagword"
)

// State names the machine's pushdown states as it walks a template.
type State uint8

const (
	Start State = iota
	Quasi
	QuasiComma
	QuasiList
	QuasiListComma
)

// Kind discriminates the intermediate QqExpr produced while walking a
// template, before it is lowered to a call-form tree.
type Kind uint8

const (
	KindForm Kind = iota // an already-expression form, evaluated as-is (from unquote)
	KindQuote             // a literal atom, self-quoting
	KindList              // a (possibly improper) list of Parts
	KindQuasi             // a nested quasiquote template
	KindComma             // a nested unquote template
)

// Part is one element of a KindList QqExpr: an expression together with
// whether it came from unquote-splicing and should be appended rather
// than wrapped in a singleton list.
type Part struct {
	Expr    QqExpr
	Spliced bool
}

// QqExpr is the quasiquote walker's intermediate representation.
type QqExpr struct {
	Kind  Kind
	Word  tagword.Word // for KindForm / KindQuote
	Parts []Part       // for KindList
	Tail  *QqExpr      // for KindList: the dotted tail, nil if proper
	Inner *QqExpr      // for KindQuasi / KindComma
}

type walker struct {
	heap  *heap.Heap
	table *namespace.Table
}

// Expand walks template (as produced by a `-quoted form: the reader
// hands Expand the form directly under the outermost backquote, at
// nesting depth 1) and returns the code that, when compiled and
// evaluated, reconstructs it with every unquote and unquote-splicing
// substituted in.
func Expand(template tagword.Word, h *heap.Heap, table *namespace.Table) (tagword.Word, error) {
	w := &walker{heap: h, table: table}
	expr, _, err := w.walk(template, 1, Start)
	if err != nil {
		return 0, err
	}
	if expr.Kind == KindForm {
		return expr.Word, nil
	}
	return w.lower(expr)
}

func (w *walker) headName(word tagword.Word) (string, tagword.Word, bool) {
	v, ok := w.heap.Get(word)
	if !ok {
		return "", 0, false
	}
	cons, ok := v.(*object.Cons)
	if !ok {
		return "", 0, false
	}
	sv, ok := w.heap.Get(cons.Car)
	if !ok {
		return "", 0, false
	}
	sym, ok := sv.(*object.Symbol)
	if !ok || sym.Namespace != namespace.MuNamespace {
		return "", 0, false
	}
	argCons, ok := w.heap.Get(cons.Cdr)
	if !ok {
		return "", 0, false
	}
	argPair, ok := argCons.(*object.Cons)
	if !ok {
		return "", 0, false
	}
	return sym.Name, argPair.Car, true
}

// walk is the Start state: it dispatches on the shape of form and
// recurses, threading the current quasiquote nesting depth.
func (w *walker) walk(form tagword.Word, depth int, _ State) (QqExpr, State, error) {
	if name, arg, ok := w.headName(form); ok {
		switch name {
		case "unquote":
			if depth == 1 {
				return QqExpr{Kind: KindForm, Word: arg}, QuasiComma, nil
			}
			inner, _, err := w.walk(arg, depth-1, Quasi)
			if err != nil {
				return QqExpr{}, Start, err
			}
			return QqExpr{Kind: KindComma, Inner: &inner}, Quasi, nil
		case "quasiquote":
			inner, _, err := w.walk(arg, depth+1, Quasi)
			if err != nil {
				return QqExpr{}, Start, err
			}
			return QqExpr{Kind: KindQuasi, Inner: &inner}, Quasi, nil
		}
	}

	v, ok := w.heap.Get(form)
	if !ok {
		return QqExpr{Kind: KindQuote, Word: form}, Start, nil
	}
	cons, ok := v.(*object.Cons)
	if !ok {
		return QqExpr{Kind: KindQuote, Word: form}, Start, nil
	}

	return w.walkList(cons, depth)
}

// walkList is the QuasiList/QuasiListComma state: it iterates a
// template list's elements, splicing where unquote-splicing appears at
// the current depth.
func (w *walker) walkList(cons *object.Cons, depth int) (QqExpr, State, error) {
	var parts []Part
	state := QuasiList
	cur := cons

	for {
		elem := cur.Car

		if name, arg, ok := w.headName(elem); ok && name == "unquote-splicing" && depth == 1 {
			state = QuasiListComma
			parts = append(parts, Part{Expr: QqExpr{Kind: KindForm, Word: arg}, Spliced: true})
		} else {
			sub, _, err := w.walk(elem, depth, state)
			if err != nil {
				return QqExpr{}, Start, err
			}
			parts = append(parts, Part{Expr: sub})
		}

		nextVal, ok := w.heap.Get(cur.Cdr)
		if ok {
			if sym, isSym := nextVal.(*object.Symbol); isSym && sym.Namespace == namespace.MuNamespace && sym.Name == "nil" {
				return QqExpr{Kind: KindList, Parts: parts}, state, nil
			}
			if nextCons, isCons := nextVal.(*object.Cons); isCons {
				cur = nextCons
				continue
			}
		}
		return QqExpr{Kind: KindList, Parts: parts, Tail: &QqExpr{Kind: KindQuote, Word: cur.Cdr}}, state, nil
	}
}

func (w *walker) mkCall(name string, args ...tagword.Word) (tagword.Word, error) {
	headWord, _, err := w.table.EnsureNamespace(namespace.MuNamespace).Intern(name, func() (tagword.Word, error) {
		return w.heap.Alloc(tagword.ClassSymbol, &object.Symbol{Namespace: namespace.MuNamespace, Name: name})
	})
	if err != nil {
		return 0, err
	}
	return w.mkCallHead(headWord, args...)
}

func (w *walker) mkCallHead(head tagword.Word, args ...tagword.Word) (tagword.Word, error) {
	tail, err := w.nilWord()
	if err != nil {
		return 0, err
	}
	for i := len(args) - 1; i >= 0; i-- {
		tail, err = w.heap.Alloc(tagword.ClassCons, &object.Cons{Car: args[i], Cdr: tail})
		if err != nil {
			return 0, err
		}
	}
	return w.heap.Alloc(tagword.ClassCons, &object.Cons{Car: head, Cdr: tail})
}

func (w *walker) nilWord() (tagword.Word, error) {
	ns := w.table.EnsureNamespace(namespace.MuNamespace)
	wd, _, err := ns.Intern("nil", func() (tagword.Word, error) {
		return w.heap.Alloc(tagword.ClassSymbol, &object.Symbol{Namespace: namespace.MuNamespace, Name: "nil"})
	})
	return wd, err
}

// quoteCall builds (:quote word). The head must be the :quote keyword,
// not the mu:quote symbol, so that compile.specialFormName recognizes
// it as the quote special form rather than an ordinary (unbound) call.
func (w *walker) quoteCall(word tagword.Word) (tagword.Word, error) {
	qkw, err := tagword.PackKeyword("quote")
	if err != nil {
		return 0, err
	}
	return w.mkCallHead(qkw, word)
}

// lower turns a QqExpr into a call-form tree via a fold-right over
// %append, list, and quote.
func (w *walker) lower(expr QqExpr) (tagword.Word, error) {
	switch expr.Kind {
	case KindForm:
		return expr.Word, nil
	case KindQuote:
		return w.quoteCall(expr.Word)
	case KindQuasi:
		inner, err := w.lower(*expr.Inner)
		if err != nil {
			return 0, err
		}
		qsym, err := w.symbolWord("quasiquote")
		if err != nil {
			return 0, err
		}
		return w.mkCall("list", qsym, inner)
	case KindComma:
		inner, err := w.lower(*expr.Inner)
		if err != nil {
			return 0, err
		}
		usym, err := w.symbolWord("unquote")
		if err != nil {
			return 0, err
		}
		return w.mkCall("list", usym, inner)
	case KindList:
		var acc tagword.Word
		var err error
		if expr.Tail != nil {
			acc, err = w.lower(*expr.Tail)
		} else {
			acc, err = w.nilWord()
		}
		if err != nil {
			return 0, err
		}
		for i := len(expr.Parts) - 1; i >= 0; i-- {
			part := expr.Parts[i]
			var partCode tagword.Word
			if part.Spliced {
				partCode, err = w.lower(part.Expr)
			} else {
				var inner tagword.Word
				inner, err = w.lower(part.Expr)
				if err == nil {
					partCode, err = w.mkCall("list", inner)
				}
			}
			if err != nil {
				return 0, err
			}
			acc, err = w.mkCall("%append", partCode, acc)
			if err != nil {
				return 0, err
			}
		}
		return acc, nil
	default:
		return 0, condition.SyntaxError("malformed quasiquote template")
	}
}

func (w *walker) symbolWord(name string) (tagword.Word, error) {
	wd, _, err := w.table.EnsureNamespace(namespace.MuNamespace).Intern(name, func() (tagword.Word, error) {
		return w.heap.Alloc(tagword.ClassSymbol, &object.Symbol{Namespace: namespace.MuNamespace, Name: name})
	})
	return wd, err
}
