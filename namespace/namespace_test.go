package namespace

import (
	"sync"
	"testing"

	"github.com/mu-lang/mu/tagword"
)

func fixnumMaker(i int64) func() (tagword.Word, error) {
	return func() (tagword.Word, error) { return tagword.PackFixnum(i) }
}

func TestInternIsIdempotent(t *testing.T) {
	tbl := NewTable()
	ns := tbl.EnsureNamespace(MuNamespace)

	calls := 0
	make := func() (tagword.Word, error) {
		calls++
		return tagword.PackFixnum(42)
	}

	w1, created1, err := ns.Intern("frob", make)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !created1 {
		t.Fatal("expected first intern to report created")
	}

	w2, created2, err := ns.Intern("frob", make)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if created2 {
		t.Fatal("expected second intern to report not-created")
	}
	if w1 != w2 {
		t.Fatalf("intern returned different words for the same name: %v != %v", w1, w2)
	}
	if calls != 1 {
		t.Fatalf("maker invoked %d times, want 1", calls)
	}
}

func TestUnternAbsentIsNoOp(t *testing.T) {
	tbl := NewTable()
	ns := tbl.EnsureNamespace(MuNamespace)

	_, ok := ns.Untern("never-interned")
	if ok {
		t.Fatal("expected untern of an absent name to report ok=false")
	}
}

func TestUnternThenReintern(t *testing.T) {
	tbl := NewTable()
	ns := tbl.EnsureNamespace(MuNamespace)

	ns.Intern("x", fixnumMaker(1))
	if _, ok := ns.Untern("x"); !ok {
		t.Fatal("expected untern to find the interned name")
	}
	if _, ok := ns.Find("x"); ok {
		t.Fatal("expected x to be gone after untern")
	}

	w, created, err := ns.Intern("x", fixnumMaker(2))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !created {
		t.Fatal("expected reinterning an unterned name to create it again")
	}
	if tagword.UnpackFixnum(w) != 2 {
		t.Fatalf("got %d, want 2", tagword.UnpackFixnum(w))
	}
}

func TestKeywordNamespaceNeverStores(t *testing.T) {
	tbl := NewTable()
	ns := tbl.EnsureNamespace(KeywordNamespace)

	w, created, err := ns.Intern("foo", func() (tagword.Word, error) {
		return tagword.PackKeyword("foo")
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !created {
		t.Fatal("expected keyword intern to report created")
	}
	if tagword.UnpackKeyword(w) != "foo" {
		t.Fatalf("got %q, want %q", tagword.UnpackKeyword(w), "foo")
	}

	if _, ok := ns.Find("foo"); ok {
		t.Fatal("keyword namespace must never report a stored entry")
	}
	if ns.Len() != 0 {
		t.Fatal("keyword namespace must never grow")
	}
}

func TestTableFindUnknownNamespace(t *testing.T) {
	tbl := NewTable()
	if _, _, err := tbl.Find("no-such-ns", "x"); err == nil {
		t.Fatal("expected an error looking up an unknown namespace")
	}
}

func TestTableBootstrapsMuAndKeyword(t *testing.T) {
	tbl := NewTable()
	names := tbl.Namespaces()
	want := map[string]bool{MuNamespace: false, KeywordNamespace: false}
	for _, n := range names {
		if _, ok := want[n]; ok {
			want[n] = true
		}
	}
	for n, found := range want {
		if !found {
			t.Fatalf("expected bootstrapped namespace %q", n)
		}
	}
}

func TestNamespaceConcurrentIntern(t *testing.T) {
	tbl := NewTable()
	ns := tbl.EnsureNamespace(MuNamespace)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ns.Intern("shared", fixnumMaker(7))
		}()
	}
	wg.Wait()

	if ns.Len() != 1 {
		t.Fatalf("got %d entries, want 1", ns.Len())
	}
}
