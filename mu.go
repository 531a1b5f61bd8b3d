package mu

import (
	"go.uber.org/multierr"

	"github.com/mu-lang/mu/compile"
	"github.com/mu-lang/mu/condition"
	"github.com/mu-lang/mu/eval"
	"github.com/mu-lang/mu/gc"
	"github.com/mu-lang/mu/heap"
	"github.com/mu-lang/mu/namespace"
	"github.com/mu-lang/mu/object"
	"github.com/mu-lang/mu/printer"
	"github.com/mu-lang/mu/reader"
	"github.com/mu-lang/mu/sys"
	"github.com/mu-lang/mu/tagword"
)

// Mu is a complete runtime instance: one heap, one namespace table, one
// stream table, and the reader/compiler/evaluator/printer/collector
// that operate over them.
type Mu struct {
	Heap       *heap.Heap
	Namespaces *namespace.Table
	Streams    *sys.Table
	Collector  *gc.Collector
	Evaluator  *eval.Evaluator
	Compiler   *compile.Compiler
	Printer    *printer.Printer
}

// New creates a runtime instance with its native builtins already
// registered in the mu namespace.
func New() (*Mu, error) {
	h := heap.New()
	tbl := namespace.NewTable()
	streams := sys.NewTable()

	ev, err := eval.New(h, tbl, streams)
	if err != nil {
		return nil, err
	}
	if err := ev.RegisterBuiltins(); err != nil {
		return nil, err
	}

	return &Mu{
		Heap:       h,
		Namespaces: tbl,
		Streams:    streams,
		Collector:  gc.New(h),
		Evaluator:  ev,
		Compiler:   compile.New(h, tbl),
		Printer:    printer.New(h),
	}, nil
}

// Read reads the next top-level form from src.
func (m *Mu) Read(src, path string) (tagword.Word, error) {
	return reader.New(src, path, m.Namespaces, m.Heap).Read()
}

// ReadAll reads every top-level form in src.
func (m *Mu) ReadAll(src, path string) ([]tagword.Word, error) {
	return reader.New(src, path, m.Namespaces, m.Heap).ReadAll()
}

// Compile lowers a read form into its compiled representation.
func (m *Mu) Compile(form tagword.Word) (tagword.Word, error) {
	return m.Compiler.Compile(form)
}

// Eval evaluates a compiled form.
func (m *Mu) Eval(form tagword.Word) (tagword.Word, error) {
	return m.Evaluator.Eval(form)
}

// Apply invokes a Function value with already-evaluated arguments.
func (m *Mu) Apply(fn tagword.Word, args []tagword.Word) (tagword.Word, error) {
	return m.Evaluator.Apply(fn, args)
}

// Write renders w to its textual form.
func (m *Mu) Write(w tagword.Word) (string, error) {
	return m.Printer.Write(w)
}

// RunString reads, compiles, and evaluates every top-level form in
// src, returning the value of the last one.
func (m *Mu) RunString(src, path string) (tagword.Word, error) {
	forms, err := m.ReadAll(src, path)
	if err != nil {
		return 0, err
	}
	result, _, err := m.Namespaces.EnsureNamespace(namespace.MuNamespace).Intern("nil", func() (tagword.Word, error) {
		return m.Heap.Alloc(tagword.ClassSymbol, &object.Symbol{Namespace: namespace.MuNamespace, Name: "nil"})
	})
	if err != nil {
		return 0, err
	}
	for _, form := range forms {
		compiled, cerr := m.Compile(form)
		if cerr != nil {
			return 0, cerr
		}
		result, err = m.Eval(compiled)
		if err != nil {
			return 0, err
		}
	}
	return result, nil
}

// Intern interns name into namespace ns as a fresh unbound symbol,
// returning the existing binding if name is already interned there.
func (m *Mu) Intern(ns, name string) (tagword.Word, error) {
	w, _, err := m.Namespaces.EnsureNamespace(ns).Intern(name, func() (tagword.Word, error) {
		return m.Heap.Alloc(tagword.ClassSymbol, &object.Symbol{Namespace: ns, Name: name})
	})
	return w, err
}

// Untern removes name from namespace ns, reporting whether it was
// present.
func (m *Mu) Untern(ns, name string) (tagword.Word, bool) {
	target := m.Namespaces.Namespace(ns)
	if target == nil {
		return 0, false
	}
	return target.Untern(name)
}

// NSFind looks up name in namespace ns without interning it.
func (m *Mu) NSFind(ns, name string) (tagword.Word, bool, error) {
	return m.Namespaces.Find(ns, name)
}

// NSSymbols returns the sorted names interned in namespace ns, or nil
// if ns has never been created.
func (m *Mu) NSSymbols(ns string) []string {
	target := m.Namespaces.Namespace(ns)
	if target == nil {
		return nil
	}
	return target.Symbols()
}

// Bind interns name in namespace ns if absent and sets its global
// value, the mechanism a top-level def-like form uses to publish a
// value under a name.
func (m *Mu) Bind(ns, name string, value tagword.Word) (tagword.Word, error) {
	w, err := m.Intern(ns, name)
	if err != nil {
		return 0, err
	}
	v, ok := m.Heap.Get(w)
	if !ok {
		return 0, condition.NamespaceError(ns, "bind: symbol vanished from the heap")
	}
	sym, ok := v.(*object.Symbol)
	if !ok {
		return 0, condition.TypeError("symbol", v)
	}
	sym.Value = value
	sym.Bound = true
	m.Heap.Set(w, sym)
	return w, nil
}

// GC runs a collection cycle, treating every bound global symbol value
// across every namespace as a root in addition to the explicit roots
// the caller supplies (e.g. values still live on a host's Go stack).
func (m *Mu) GC(extraRoots []tagword.Word) (freed int, err error) {
	roots := append([]tagword.Word(nil), extraRoots...)
	for _, nsName := range m.Namespaces.Namespaces() {
		ns := m.Namespaces.Namespace(nsName)
		if ns == nil {
			continue
		}
		for _, name := range ns.Symbols() {
			w, ok := ns.Find(name)
			if !ok {
				continue
			}
			roots = append(roots, w)
			if v, ok := m.Heap.Get(w); ok {
				if sym, ok := v.(*object.Symbol); ok && sym.Bound {
					roots = append(roots, sym.Value)
				}
			}
		}
	}
	return m.Collector.Collect(roots)
}

// Close shuts the runtime down, closing every open stream and every
// heap-resident Closer. Stream-table and heap close failures are
// fanned into a single multierr-joined error so a bad file-descriptor
// close on one value never hides a failure on another.
func (m *Mu) Close() error {
	return multierr.Append(m.Streams.CloseAll(), m.Heap.Close())
}
