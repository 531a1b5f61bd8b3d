package namespace

import (
	"sort"
	"sync"

	"github.com/mu-lang/mu/condition"
	"github.com/mu-lang/mu/tagword"
)

// KeywordNamespace is the name of the special namespace holding direct
// keyword values. It is never populated; see the package doc.
const KeywordNamespace = "keyword"

// MuNamespace is the name of the namespace holding native builtins and
// the values (`nil`, `t`) the reader and compiler interns explicitly
// under it. It is never the implicit home of an unqualified token —
// see NullNamespace.
const MuNamespace = "mu"

// NullNamespace is the default home of a bareword token with no `ns:`
// qualifier (e.g. `frob`, as opposed to `mu:frob`). Only an explicit
// `mu:`-prefixed token, or a builtin's own registration, lands in
// MuNamespace.
const NullNamespace = "null"

// Namespace is a single name-to-symbol map guarded by its own lock.
type Namespace struct {
	mu      sync.RWMutex
	name    string
	symbols map[string]tagword.Word
}

func newNamespace(name string) *Namespace {
	return &Namespace{name: name, symbols: make(map[string]tagword.Word)}
}

// Name returns the namespace's name.
func (ns *Namespace) Name() string {
	return ns.name
}

// Find looks up name without interning it.
func (ns *Namespace) Find(name string) (tagword.Word, bool) {
	if ns.name == KeywordNamespace {
		return 0, false
	}
	ns.mu.RLock()
	defer ns.mu.RUnlock()
	w, ok := ns.symbols[name]
	return w, ok
}

// Intern returns the symbol bound to name, creating it with make if
// absent. Intern is idempotent: calling it twice with the same name
// returns the same Word both times and make is invoked at most once.
// In the keyword namespace, Intern never stores anything; it simply
// calls make and hands back the result, since keyword identity lives in
// the packed bits, not in a table entry.
func (ns *Namespace) Intern(name string, make func() (tagword.Word, error)) (tagword.Word, bool, error) {
	if ns.name == KeywordNamespace {
		w, err := make()
		return w, err == nil, err
	}

	ns.mu.RLock()
	if w, ok := ns.symbols[name]; ok {
		ns.mu.RUnlock()
		return w, false, nil
	}
	ns.mu.RUnlock()

	ns.mu.Lock()
	defer ns.mu.Unlock()
	if w, ok := ns.symbols[name]; ok {
		return w, false, nil
	}
	w, err := make()
	if err != nil {
		return 0, false, err
	}
	ns.symbols[name] = w
	return w, true, nil
}

// Untern removes name from the namespace, reporting whether it was
// present. Unterning an absent name is a no-op, not an error.
func (ns *Namespace) Untern(name string) (tagword.Word, bool) {
	if ns.name == KeywordNamespace {
		return 0, false
	}
	ns.mu.Lock()
	defer ns.mu.Unlock()
	w, ok := ns.symbols[name]
	if ok {
		delete(ns.symbols, name)
	}
	return w, ok
}

// Symbols returns the namespace's interned names in sorted order.
func (ns *Namespace) Symbols() []string {
	ns.mu.RLock()
	defer ns.mu.RUnlock()
	names := make([]string, 0, len(ns.symbols))
	for name := range ns.symbols {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of interned names.
func (ns *Namespace) Len() int {
	ns.mu.RLock()
	defer ns.mu.RUnlock()
	return len(ns.symbols)
}

// Table is the top-level namespace table: a keyword-indexed map of
// namespaces. Locking order is Table before Namespace: a caller must
// never hold a Namespace lock while acquiring the Table lock.
type Table struct {
	mu         sync.RWMutex
	namespaces map[string]*Namespace
}

// NewTable creates a namespace table with the mu, null, and keyword
// namespaces already bootstrapped.
func NewTable() *Table {
	t := &Table{namespaces: make(map[string]*Namespace)}
	t.namespaces[MuNamespace] = newNamespace(MuNamespace)
	t.namespaces[NullNamespace] = newNamespace(NullNamespace)
	t.namespaces[KeywordNamespace] = newNamespace(KeywordNamespace)
	return t
}

// Namespace returns the named namespace, or nil if it has not been
// created with EnsureNamespace.
func (t *Table) Namespace(name string) *Namespace {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.namespaces[name]
}

// EnsureNamespace returns the named namespace, creating it if absent.
func (t *Table) EnsureNamespace(name string) *Namespace {
	t.mu.RLock()
	if ns, ok := t.namespaces[name]; ok {
		t.mu.RUnlock()
		return ns
	}
	t.mu.RUnlock()

	t.mu.Lock()
	defer t.mu.Unlock()
	if ns, ok := t.namespaces[name]; ok {
		return ns
	}
	ns := newNamespace(name)
	t.namespaces[name] = ns
	return ns
}

// Namespaces returns the table's namespace names in sorted order.
func (t *Table) Namespaces() []string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	names := make([]string, 0, len(t.namespaces))
	for name := range t.namespaces {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Find looks up name in the given namespace without interning it,
// returning a namespace condition if nsName has never been created.
func (t *Table) Find(nsName, name string) (tagword.Word, bool, error) {
	ns := t.Namespace(nsName)
	if ns == nil {
		return 0, false, condition.NamespaceError(nsName, "no such namespace")
	}
	w, ok := ns.Find(name)
	return w, ok, nil
}
