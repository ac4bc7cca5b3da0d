package provider

import (
	"fmt"
	"strings"
)

// typeExpr is a parsed Java type expression:
//
//	type    = name [ "<" arg { "," arg } ">" ] { "[]" } [ "..." ]
//	arg     = "?" [ ( "extends" | "super" ) type ] | type
//	name    = ident { "." ident }
type typeExpr struct {
	name    string
	args    []typeArg
	dims    int
	varargs bool
}

type typeArg struct {
	wildcard bool
	extends  *typeExpr
	super    *typeExpr
	typ      *typeExpr
}

func (t *typeExpr) String() string {
	var sb strings.Builder
	sb.WriteString(t.name)
	if len(t.args) > 0 {
		sb.WriteByte('<')
		for i, a := range t.args {
			if i > 0 {
				sb.WriteString(", ")
			}
			switch {
			case !a.wildcard:
				sb.WriteString(a.typ.String())
			case a.extends != nil:
				sb.WriteString("? extends " + a.extends.String())
			case a.super != nil:
				sb.WriteString("? super " + a.super.String())
			default:
				sb.WriteByte('?')
			}
		}
		sb.WriteByte('>')
	}
	sb.WriteString(strings.Repeat("[]", t.dims))
	if t.varargs {
		sb.WriteString("...")
	}
	return sb.String()
}

// parseTypeExpr parses s. Varargs is only accepted when allowVarargs is set.
func parseTypeExpr(s string, allowVarargs bool) (*typeExpr, error) {
	p := &exprParser{in: s}
	t, err := p.typ()
	if err != nil {
		return nil, err
	}
	p.space()
	if strings.HasPrefix(p.in[p.pos:], "...") {
		if !allowVarargs {
			return nil, p.errorf("varargs is only allowed on the last parameter")
		}
		t.varargs = true
		p.pos += 3
		p.space()
	}
	if p.pos != len(p.in) {
		return nil, p.errorf("unexpected %q", p.in[p.pos:])
	}
	return t, nil
}

type exprParser struct {
	in  string
	pos int
}

func (p *exprParser) errorf(format string, args ...any) error {
	return fmt.Errorf("type %q: offset %d: %s", p.in, p.pos, fmt.Sprintf(format, args...))
}

func (p *exprParser) space() {
	for p.pos < len(p.in) && (p.in[p.pos] == ' ' || p.in[p.pos] == '\t') {
		p.pos++
	}
}

func (p *exprParser) peek(c byte) bool {
	p.space()
	return p.pos < len(p.in) && p.in[p.pos] == c
}

func (p *exprParser) ident() (string, error) {
	p.space()
	start := p.pos
	for p.pos < len(p.in) && isIdentByte(p.in[p.pos], p.pos == start) {
		p.pos++
	}
	if p.pos == start {
		return "", p.errorf("expected identifier")
	}
	return p.in[start:p.pos], nil
}

func isIdentByte(c byte, first bool) bool {
	switch {
	case c == '_' || c == '$':
		return true
	case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z':
		return true
	case c >= '0' && c <= '9':
		return !first
	default:
		return c >= 0x80
	}
}

func (p *exprParser) typ() (*typeExpr, error) {
	name, err := p.ident()
	if err != nil {
		return nil, err
	}
	for p.peek('.') && !strings.HasPrefix(p.in[p.pos:], "...") {
		p.pos++
		seg, err := p.ident()
		if err != nil {
			return nil, err
		}
		name += "." + seg
	}
	t := &typeExpr{name: name}

	if p.peek('<') {
		p.pos++
		for {
			a, err := p.arg()
			if err != nil {
				return nil, err
			}
			t.args = append(t.args, a)
			if p.peek(',') {
				p.pos++
				continue
			}
			if !p.peek('>') {
				return nil, p.errorf("expected ',' or '>'")
			}
			p.pos++
			break
		}
	}

	for p.peek('[') {
		p.pos++
		if !p.peek(']') {
			return nil, p.errorf("expected ']'")
		}
		p.pos++
		t.dims++
	}
	return t, nil
}

func (p *exprParser) arg() (typeArg, error) {
	if !p.peek('?') {
		t, err := p.typ()
		return typeArg{typ: t}, err
	}
	p.pos++
	a := typeArg{wildcard: true}
	p.space()
	rest := p.in[p.pos:]
	switch {
	case strings.HasPrefix(rest, "extends "):
		p.pos += len("extends ")
		t, err := p.typ()
		if err != nil {
			return a, err
		}
		a.extends = t
	case strings.HasPrefix(rest, "super "):
		p.pos += len("super ")
		t, err := p.typ()
		if err != nil {
			return a, err
		}
		a.super = t
	}
	return a, nil
}
