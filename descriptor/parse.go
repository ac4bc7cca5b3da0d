package descriptor

import "strings"

// ParseField parses a field descriptor such as "I", "[[J" or
// "Ljava/util/Map$Entry;".
func ParseField(s string) (Type, error) {
	p := parser{in: s}
	t, err := p.fieldType()
	if err != nil {
		return nil, err
	}
	if p.pos != len(s) {
		return nil, p.errorf("trailing characters")
	}
	return t, nil
}

// ParseMethod parses a method descriptor such as "(ZI)V".
func ParseMethod(s string) (Method, error) {
	p := parser{in: s}
	m, err := p.method()
	if err != nil {
		return Method{}, err
	}
	if p.pos != len(s) {
		return Method{}, p.errorf("trailing characters")
	}
	return m, nil
}

// ParseMember splits a method signature ("name(desc)R") into its name and
// parsed descriptor.
func ParseMember(sig string) (name string, m Method, err error) {
	i := strings.IndexByte(sig, '(')
	if i <= 0 {
		return "", Method{}, &SyntaxError{Input: sig, Offset: max(i, 0), Msg: "missing member name or '('"}
	}
	name = sig[:i]
	if strings.ContainsAny(name, ".;[/") {
		return "", Method{}, &SyntaxError{Input: sig, Offset: 0, Msg: "illegal character in member name"}
	}
	// Only the special initialiser names may contain angle brackets.
	if strings.ContainsAny(name, "<>") && name != "<init>" && name != "<clinit>" {
		return "", Method{}, &SyntaxError{Input: sig, Offset: 0, Msg: "'<' and '>' are reserved for <init> and <clinit>"}
	}
	p := parser{in: sig, pos: i}
	m, err = p.method()
	if err != nil {
		return "", Method{}, err
	}
	if p.pos != len(sig) {
		return "", Method{}, p.errorf("trailing characters")
	}
	return name, m, nil
}

type parser struct {
	in  string
	pos int
}

func (p *parser) errorf(msg string) *SyntaxError {
	return &SyntaxError{Input: p.in, Offset: p.pos, Msg: msg}
}

func (p *parser) method() (Method, error) {
	if p.pos >= len(p.in) || p.in[p.pos] != '(' {
		return Method{}, p.errorf("expected '('")
	}
	p.pos++
	var params []Type
	for {
		if p.pos >= len(p.in) {
			return Method{}, p.errorf("unterminated parameter list")
		}
		if p.in[p.pos] == ')' {
			p.pos++
			break
		}
		t, err := p.fieldType()
		if err != nil {
			return Method{}, err
		}
		params = append(params, t)
	}
	var ret Type
	if p.pos < len(p.in) && p.in[p.pos] == 'V' {
		p.pos++
		ret = Void()
	} else {
		t, err := p.fieldType()
		if err != nil {
			return Method{}, err
		}
		ret = t
	}
	return Method{Params: params, Return: ret}, nil
}

func (p *parser) fieldType() (Type, error) {
	if p.pos >= len(p.in) {
		return nil, p.errorf("unexpected end of descriptor")
	}
	dims := 0
	for p.pos < len(p.in) && p.in[p.pos] == '[' {
		dims++
		p.pos++
	}
	if dims > 255 {
		return nil, p.errorf("more than 255 array dimensions")
	}
	if p.pos >= len(p.in) {
		return nil, p.errorf("missing array element type")
	}

	var elem Type
	switch c := p.in[p.pos]; c {
	case 'Z', 'B', 'C', 'S', 'I', 'J', 'F', 'D':
		elem = PrimitiveOf(kindOfCode(c))
		p.pos++
	case 'L':
		end := strings.IndexByte(p.in[p.pos:], ';')
		if end < 0 {
			return nil, p.errorf("unterminated class name")
		}
		internal := p.in[p.pos+1 : p.pos+end]
		if strings.ContainsAny(internal, ".(") || !validBinaryName(BinaryName(internal)) {
			return nil, p.errorf("invalid class name")
		}
		elem = Ref(BinaryName(internal))
		p.pos += end + 1
	default:
		return nil, p.errorf("unexpected character " + string(rune(c)))
	}

	if dims > 0 {
		return ArrayOf(elem, dims), nil
	}
	return elem, nil
}

func kindOfCode(c byte) Kind {
	switch c {
	case 'Z':
		return KindBoolean
	case 'B':
		return KindByte
	case 'C':
		return KindChar
	case 'S':
		return KindShort
	case 'I':
		return KindInt
	case 'J':
		return KindLong
	case 'F':
		return KindFloat
	case 'D':
		return KindDouble
	default:
		return KindVoid
	}
}
