package printer

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/mu-lang/mu/heap"
	"github.com/mu-lang/mu/namespace"
	"github.com/mu-lang/mu/object"
	"github.com/mu-lang/mu/tagword"
)

// Printer renders words stored in a heap to their textual form.
type Printer struct {
	heap *heap.Heap
}

// New creates a Printer over h.
func New(h *heap.Heap) *Printer {
	return &Printer{heap: h}
}

// Write returns the textual representation of w.
func (p *Printer) Write(w tagword.Word) (string, error) {
	var sb strings.Builder
	if err := p.write(&sb, w); err != nil {
		return "", err
	}
	return sb.String(), nil
}

func (p *Printer) write(sb *strings.Builder, w tagword.Word) error {
	if w.IsDirect() {
		return p.writeDirect(sb, w)
	}
	return p.writeIndirect(sb, w)
}

func (p *Printer) writeDirect(sb *strings.Builder, w tagword.Word) error {
	switch w.Subclass() {
	case tagword.SubclassChar:
		return p.writeChar(sb, w)
	case tagword.SubclassByteVector:
		return p.writeByteVectorLiteral(sb, tagword.UnpackByteVector(w))
	case tagword.SubclassKeyword:
		sb.WriteByte(':')
		sb.WriteString(tagword.UnpackKeyword(w))
		return nil
	case tagword.SubclassExtended:
		return p.writeExtended(sb, w)
	default:
		return fmt.Errorf("printer: unknown direct subclass %v", w.Subclass())
	}
}

func (p *Printer) writeChar(sb *strings.Builder, w tagword.Word) error {
	b := tagword.UnpackChar(w)
	sb.WriteString("#\\")
	if b < 0x20 || b == 0x7f {
		fmt.Fprintf(sb, "x%02x", b)
		return nil
	}
	sb.WriteByte(b)
	return nil
}

func (p *Printer) writeByteVectorLiteral(sb *strings.Builder, data []byte) error {
	sb.WriteString("#u8(")
	for i, b := range data {
		if i > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(strconv.Itoa(int(b)))
	}
	sb.WriteByte(')')
	return nil
}

func (p *Printer) writeExtended(sb *strings.Builder, w tagword.Word) error {
	switch w.ExtKind() {
	case tagword.ExtFloat:
		fmt.Fprintf(sb, "%.4f", tagword.UnpackFloat(w))
		return nil
	case tagword.ExtFixnum:
		sb.WriteString(strconv.FormatInt(tagword.UnpackFixnum(w), 10))
		return nil
	case tagword.ExtAsyncID:
		fmt.Fprintf(sb, "#<async %d>", tagword.UnpackAsyncID(w))
		return nil
	case tagword.ExtConsDirect:
		car, cdr := tagword.UnpackConsDirect(w)
		fmt.Fprintf(sb, "(%d . %d)", car, cdr)
		return nil
	default:
		return fmt.Errorf("printer: unknown extended kind %v", w.ExtKind())
	}
}

func (p *Printer) writeIndirect(sb *strings.Builder, w tagword.Word) error {
	v, ok := p.heap.Get(w)
	if !ok {
		sb.WriteString("#<invalid>")
		return nil
	}
	switch val := v.(type) {
	case *object.Symbol:
		return p.writeSymbol(sb, val)
	case *object.Cons:
		return p.writeCons(sb, val)
	case *object.Vector:
		return p.writeVector(sb, val)
	case *object.Struct:
		return p.writeStruct(sb, val)
	case *object.Function:
		return p.writeFunction(sb, val)
	default:
		fmt.Fprintf(sb, "#<%T>", val)
		return nil
	}
}

// writeSymbol omits the `ns:` prefix only for the null namespace (the
// default home of an unqualified token); every other namespace, mu
// included, prints its qualifier.
func (p *Printer) writeSymbol(sb *strings.Builder, sym *object.Symbol) error {
	if sym.Namespace != namespace.NullNamespace {
		sb.WriteString(sym.Namespace)
		sb.WriteByte(':')
	}
	sb.WriteString(sym.Name)
	return nil
}

func (p *Printer) isNil(w tagword.Word) bool {
	v, ok := p.heap.Get(w)
	if !ok {
		return false
	}
	sym, ok := v.(*object.Symbol)
	return ok && sym.Namespace == namespace.MuNamespace && sym.Name == "nil"
}

// writeCons prints a cons cell as a parenthesized list when its chain
// of Cdrs ends in mu:nil, and as a dotted pair otherwise.
func (p *Printer) writeCons(sb *strings.Builder, c *object.Cons) error {
	sb.WriteByte('(')
	if err := p.write(sb, c.Car); err != nil {
		return err
	}
	cur := c.Cdr
	for {
		if p.isNil(cur) {
			break
		}
		v, ok := p.heap.Get(cur)
		if !ok {
			sb.WriteString(" . ")
			if err := p.write(sb, cur); err != nil {
				return err
			}
			break
		}
		nextCons, ok := v.(*object.Cons)
		if !ok {
			sb.WriteString(" . ")
			if err := p.write(sb, cur); err != nil {
				return err
			}
			break
		}
		sb.WriteByte(' ')
		if err := p.write(sb, nextCons.Car); err != nil {
			return err
		}
		cur = nextCons.Cdr
	}
	sb.WriteByte(')')
	return nil
}

func (p *Printer) writeVector(sb *strings.Builder, v *object.Vector) error {
	if v.ElemType == object.VectorChar {
		return p.writeString(sb, v)
	}
	sb.WriteString("#(")
	sb.WriteString(v.ElemType.String())
	for _, elem := range v.Elems {
		sb.WriteByte(' ')
		if v.ElemType == object.VectorByte && elem.IsDirect() && elem.Subclass() == tagword.SubclassByteVector {
			for i, b := range tagword.UnpackByteVector(elem) {
				if i > 0 {
					sb.WriteByte(' ')
				}
				sb.WriteString(strconv.Itoa(int(b)))
			}
			continue
		}
		if err := p.write(sb, elem); err != nil {
			return err
		}
	}
	sb.WriteByte(')')
	return nil
}

func (p *Printer) writeString(sb *strings.Builder, v *object.Vector) error {
	sb.WriteByte('"')
	for _, elem := range v.Elems {
		b := tagword.UnpackChar(elem)
		switch b {
		case '"':
			sb.WriteString(`\"`)
		case '\\':
			sb.WriteString(`\\`)
		case '\n':
			sb.WriteString(`\n`)
		case '\t':
			sb.WriteString(`\t`)
		case '\r':
			sb.WriteString(`\r`)
		default:
			sb.WriteByte(b)
		}
	}
	sb.WriteByte('"')
	return nil
}

func (p *Printer) writeStruct(sb *strings.Builder, s *object.Struct) error {
	sb.WriteString("#s(")
	if err := p.write(sb, s.TypeKey); err != nil {
		return err
	}
	for _, field := range s.Fields {
		sb.WriteByte(' ')
		if err := p.write(sb, field); err != nil {
			return err
		}
	}
	sb.WriteByte(')')
	return nil
}

func (p *Printer) writeFunction(sb *strings.Builder, f *object.Function) error {
	if f.Name == "" {
		sb.WriteString("#<function>")
		return nil
	}
	fmt.Fprintf(sb, "#<function %s>", f.Name)
	return nil
}
