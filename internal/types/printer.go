package types

import (
	"strconv"
	"strings"
)

// Printer renders types the way users write them. Unbound variables are named
// a, b, ..., z, a1, b1, ... in order of first appearance, so one Printer should
// be used per rendered signature.
type Printer struct {
	names map[uint64]string
	next  int
}

// NewPrinter returns a printer with no variables named yet.
func NewPrinter() *Printer {
	return &Printer{names: make(map[uint64]string)}
}

// Print renders t.
func (p *Printer) Print(t *Type) string {
	var sb strings.Builder
	p.write(&sb, t)
	return sb.String()
}

func (p *Printer) write(sb *strings.Builder, t *Type) {
	if t == nil {
		sb.WriteString("?")
		return
	}
	switch t.Kind {
	case KindNamed:
		sb.WriteString(t.Name)
		if len(t.Args) > 0 {
			sb.WriteByte('(')
			p.writeList(sb, t.Args)
			sb.WriteByte(')')
		}
	case KindFn:
		sb.WriteString("fn(")
		p.writeList(sb, t.Args)
		sb.WriteString(") -> ")
		p.write(sb, t.Return)
	case KindTuple:
		sb.WriteString("#(")
		p.writeList(sb, t.Args)
		sb.WriteByte(')')
	case KindVar:
		sb.WriteString(p.varName(t.VarID))
	default:
		sb.WriteString("?")
	}
}

func (p *Printer) writeList(sb *strings.Builder, list []*Type) {
	for i, arg := range list {
		if i > 0 {
			sb.WriteString(", ")
		}
		p.write(sb, arg)
	}
}

func (p *Printer) varName(id uint64) string {
	if name, ok := p.names[id]; ok {
		return name
	}
	name := string(rune('a' + p.next%26))
	if round := p.next / 26; round > 0 {
		name += strconv.Itoa(round)
	}
	p.next++
	p.names[id] = name
	return name
}
