package reader

import (
	"strconv"
	"strings"

	"github.com/mu-lang/mu/condition"
	"github.com/mu-lang/mu/heap"
	"github.com/mu-lang/mu/namespace"
	"github.com/mu-lang/mu/object"
	"github.com/mu-lang/mu/qquote"
	"github.com/mu-lang/mu/tagword"
)

// Reader reads value trees from a source string.
type Reader struct {
	src   string
	pos   int
	line  int
	path  string
	table *namespace.Table
	heap  *heap.Heap
}

// New creates a Reader over src. path names the source for error
// reporting (e.g. a filename, or "<stdin>").
func New(src, path string, table *namespace.Table, h *heap.Heap) *Reader {
	return &Reader{src: src, line: 1, path: path, table: table, heap: h}
}

func (r *Reader) loc() string {
	return r.path + ":" + strconv.Itoa(r.line)
}

func (r *Reader) peek() byte {
	if r.pos >= len(r.src) {
		return 0
	}
	return r.src[r.pos]
}

func (r *Reader) peekAt(n int) byte {
	if r.pos+n >= len(r.src) {
		return 0
	}
	return r.src[r.pos+n]
}

func (r *Reader) advance() byte {
	b := r.peek()
	if b == '\n' {
		r.line++
	}
	r.pos++
	return b
}

func (r *Reader) atEOF() bool {
	return r.pos >= len(r.src)
}

func (r *Reader) skipWhitespaceAndComments() {
	for !r.atEOF() {
		b := r.peek()
		if isWhitespace(b) {
			r.advance()
			continue
		}
		if b == ';' {
			for !r.atEOF() && r.peek() != '\n' {
				r.advance()
			}
			continue
		}
		return
	}
}

// Read reads the next top-level form. It returns a condition.KindEOF
// error when the input is exhausted between forms.
func (r *Reader) Read() (tagword.Word, error) {
	r.skipWhitespaceAndComments()
	if r.atEOF() {
		return 0, condition.EOFError(0)
	}
	return r.readForm()
}

// ReadAll reads every top-level form in the source.
func (r *Reader) ReadAll() ([]tagword.Word, error) {
	var forms []tagword.Word
	for {
		w, err := r.Read()
		if err != nil {
			if condition.Is(err, condition.KindEOF) {
				return forms, nil
			}
			return forms, err
		}
		forms = append(forms, w)
	}
}

func (r *Reader) readForm() (tagword.Word, error) {
	r.skipWhitespaceAndComments()
	if r.atEOF() {
		return 0, condition.ReadError("unexpected end of input", r.loc())
	}

	switch b := r.peek(); {
	case b == '(':
		return r.readList()
	case b == ')':
		return 0, condition.ReadError("unexpected )", r.loc())
	case b == '"':
		return r.readString()
	case b == '#':
		return r.readSharp()
	case b == '\'':
		r.advance()
		return r.readQuoteLikeHead(mustKeyword("quote"))
	case b == '`':
		r.advance()
		template, err := r.readQuoteLike("quasiquote")
		if err != nil {
			return 0, err
		}
		return qquote.Expand(r.unwrapQuasiquote(template), r.heap, r.table)
	case b == ',':
		r.advance()
		if r.peek() == '@' {
			r.advance()
			return r.readQuoteLike("unquote-splicing")
		}
		return r.readQuoteLike("unquote")
	default:
		return r.readAtom()
	}
}

// unwrapQuasiquote strips the (quasiquote TEMPLATE) wrapper readQuoteLike
// built, returning TEMPLATE for qquote.Expand.
func (r *Reader) unwrapQuasiquote(form tagword.Word) tagword.Word {
	v, ok := r.heap.Get(form)
	if !ok {
		return form
	}
	cons, ok := v.(*object.Cons)
	if !ok {
		return form
	}
	argVal, ok := r.heap.Get(cons.Cdr)
	if !ok {
		return form
	}
	argCons, ok := argVal.(*object.Cons)
	if !ok {
		return form
	}
	return argCons.Car
}

// mustKeyword packs name as a direct keyword word. Every call site
// passes a literal name under the 7-byte immediate limit, so the error
// PackKeyword can return never actually occurs here.
func mustKeyword(name string) tagword.Word {
	w, _ := tagword.PackKeyword(name)
	return w
}

func (r *Reader) readQuoteLike(head string) (tagword.Word, error) {
	r.skipWhitespaceAndComments()
	if r.peek() == '.' && (r.pos+1 >= len(r.src) || isTokenEnd(r.peekAt(1))) {
		return 0, condition.SyntaxError("unexpected . after " + head)
	}
	headSym, err := r.internSymbol(namespace.MuNamespace, head)
	if err != nil {
		return 0, err
	}
	return r.readQuoteLikeHead(headSym)
}

// readQuoteLikeHead builds (head FORM) for the next form read, with
// head supplied directly rather than looked up by name. `'x`'s keyword
// head (`:quote`) must compile as the special form per spec §4.7;
// `` ` ``/`,`/`,@`'s heads stay ordinary mu-namespace symbols, which
// qquote recognizes by name (quasiquote, unquote, unquote-splicing).
func (r *Reader) readQuoteLikeHead(head tagword.Word) (tagword.Word, error) {
	form, err := r.readForm()
	if err != nil {
		return 0, err
	}
	nilWord, err := r.Nil()
	if err != nil {
		return 0, err
	}
	tail, err := r.cons(form, nilWord)
	if err != nil {
		return 0, err
	}
	return r.cons(head, tail)
}

func (r *Reader) readList() (tagword.Word, error) {
	r.advance() // consume '('
	var elems []tagword.Word
	var tail tagword.Word
	hasTail := false

	for {
		r.skipWhitespaceAndComments()
		if r.atEOF() {
			return 0, condition.ReadError("unterminated list", r.loc())
		}
		if r.peek() == ')' {
			r.advance()
			break
		}
		if r.peek() == '.' && isTokenEnd(r.peekAt(1)) {
			r.advance()
			t, err := r.readForm()
			if err != nil {
				return 0, err
			}
			tail = t
			hasTail = true
			r.skipWhitespaceAndComments()
			if r.atEOF() || r.peek() != ')' {
				return 0, condition.ReadError("malformed dotted list", r.loc())
			}
			r.advance()
			break
		}
		form, err := r.readForm()
		if err != nil {
			return 0, err
		}
		elems = append(elems, form)
	}

	result := tail
	if !hasTail {
		var err error
		result, err = r.Nil()
		if err != nil {
			return 0, err
		}
	}
	for i := len(elems) - 1; i >= 0; i-- {
		var err error
		result, err = r.cons(elems[i], result)
		if err != nil {
			return 0, err
		}
	}
	return result, nil
}

func (r *Reader) readString() (tagword.Word, error) {
	r.advance() // consume opening quote
	var sb strings.Builder
	for {
		if r.atEOF() {
			return 0, condition.ReadError("unterminated string", r.loc())
		}
		b := r.advance()
		if b == '"' {
			break
		}
		if b == '\\' {
			if r.atEOF() {
				return 0, condition.ReadError("unterminated string escape", r.loc())
			}
			sb.WriteByte(unescape(r.advance()))
			continue
		}
		sb.WriteByte(b)
	}
	return r.makeString(sb.String())
}

func unescape(b byte) byte {
	switch b {
	case 'n':
		return '\n'
	case 't':
		return '\t'
	case 'r':
		return '\r'
	default:
		return b
	}
}

// readSharp handles the '#' macro-character sub-reader: #\c chars,
// #(...) vectors, and #u8(...) byte vectors. Any other character after
// '#' is a read error.
func (r *Reader) readSharp() (tagword.Word, error) {
	r.advance() // consume '#'
	if r.atEOF() {
		return 0, condition.ReadError("unexpected end of input after #", r.loc())
	}
	switch r.peek() {
	case '\\':
		r.advance()
		return r.readCharLiteral()
	case '(':
		return r.readVectorLiteral()
	case 'u':
		if r.peekAt(1) == '8' && r.peekAt(2) == '(' {
			r.advance()
			r.advance()
			return r.readByteVectorLiteral()
		}
		return 0, condition.ReadError("malformed # macro", r.loc())
	default:
		return 0, condition.ReadError("unsupported # macro", r.loc())
	}
}

func (r *Reader) readCharLiteral() (tagword.Word, error) {
	if r.atEOF() {
		return 0, condition.ReadError("unterminated character literal", r.loc())
	}
	b := r.advance()
	return tagword.PackChar(b), nil
}

func (r *Reader) readVectorLiteral() (tagword.Word, error) {
	r.advance() // consume '('
	var elems []tagword.Word
	for {
		r.skipWhitespaceAndComments()
		if r.atEOF() {
			return 0, condition.ReadError("unterminated vector", r.loc())
		}
		if r.peek() == ')' {
			r.advance()
			break
		}
		form, err := r.readForm()
		if err != nil {
			return 0, err
		}
		elems = append(elems, form)
	}
	v := &object.Vector{ElemType: object.VectorT, Elems: elems}
	return r.heap.Alloc(tagword.ClassVector, v)
}

func (r *Reader) readByteVectorLiteral() (tagword.Word, error) {
	r.advance() // consume '('
	var bytes []byte
	for {
		r.skipWhitespaceAndComments()
		if r.atEOF() {
			return 0, condition.ReadError("unterminated byte vector", r.loc())
		}
		if r.peek() == ')' {
			r.advance()
			break
		}
		start := r.pos
		for !r.atEOF() && !isTokenEnd(r.peek()) {
			r.advance()
		}
		n, err := strconv.ParseUint(r.src[start:r.pos], 10, 8)
		if err != nil {
			return 0, condition.ReadError("malformed byte in byte vector", r.loc())
		}
		bytes = append(bytes, byte(n))
	}
	elems := make([]tagword.Word, len(bytes))
	for i, b := range bytes {
		bw, err := tagword.PackByteVector([]byte{b})
		if err != nil {
			return 0, err
		}
		elems[i] = bw
	}
	v := &object.Vector{ElemType: object.VectorByte, Elems: elems}
	return r.heap.Alloc(tagword.ClassVector, v)
}

func (r *Reader) readAtom() (tagword.Word, error) {
	start := r.pos
	for !r.atEOF() && !isTokenEnd(r.peek()) {
		r.advance()
	}
	token := r.src[start:r.pos]
	if token == "" {
		return 0, condition.ReadError("empty token", r.loc())
	}

	if token[0] == ':' {
		name := token[1:]
		w, err := tagword.PackKeyword(name)
		if err != nil {
			return 0, condition.ReadError("keyword longer than 7 bytes: "+name, r.loc())
		}
		return w, nil
	}

	if n, ok := parseFixnum(token); ok {
		w, err := tagword.PackFixnum(n)
		if err != nil {
			return 0, err
		}
		return w, nil
	}

	if f, ok := parseFloat(token); ok {
		return tagword.PackFloat(f), nil
	}

	ns, name := splitQualified(token)
	return r.internSymbol(ns, name)
}

func parseFixnum(token string) (int64, bool) {
	if token == "" || token == "+" || token == "-" {
		return 0, false
	}
	for i, c := range token {
		if c == '+' || c == '-' {
			if i != 0 {
				return 0, false
			}
			continue
		}
		if c < '0' || c > '9' {
			return 0, false
		}
	}
	n, err := strconv.ParseInt(token, 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

func parseFloat(token string) (float32, bool) {
	if !strings.ContainsAny(token, ".eE") {
		return 0, false
	}
	f, err := strconv.ParseFloat(token, 32)
	if err != nil {
		return 0, false
	}
	return float32(f), true
}

func splitQualified(token string) (ns, name string) {
	idx := strings.IndexByte(token, ':')
	if idx < 0 {
		return namespace.NullNamespace, token
	}
	return token[:idx], token[idx+1:]
}

func (r *Reader) internSymbol(ns, name string) (tagword.Word, error) {
	target := r.table.EnsureNamespace(ns)
	w, _, err := target.Intern(name, func() (tagword.Word, error) {
		return r.heap.Alloc(tagword.ClassSymbol, &object.Symbol{Namespace: ns, Name: name})
	})
	return w, err
}

func (r *Reader) cons(car, cdr tagword.Word) (tagword.Word, error) {
	return r.heap.Alloc(tagword.ClassCons, &object.Cons{Car: car, Cdr: cdr})
}

func (r *Reader) makeString(s string) (tagword.Word, error) {
	elems := make([]tagword.Word, len(s))
	for i := 0; i < len(s); i++ {
		elems[i] = tagword.PackChar(s[i])
	}
	v := &object.Vector{ElemType: object.VectorChar, Elems: elems}
	return r.heap.Alloc(tagword.ClassVector, v)
}

// Nil returns the interned mu:nil symbol, the runtime's shared
// representation of the empty list and of boolean false.
func (r *Reader) Nil() (tagword.Word, error) {
	return r.internSymbol(namespace.MuNamespace, "nil")
}

// T returns the interned mu:t symbol, the runtime's boolean true.
func (r *Reader) T() (tagword.Word, error) {
	return r.internSymbol(namespace.MuNamespace, "t")
}
