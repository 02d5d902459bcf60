package typename

import (
	"fmt"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Grammar of canonical type names:
//
//	name   := base ( "[]" | "?" )*
//	base   := "func(" [ name ( "," name )* ] ")" name
//	        | ident
//	ident  := any run of characters other than "[]?,()" and spaces
//
// Examples: "int32", "demo.Point[]", "int32?", "func(int32,int32)boolean".

type nameKind uint8

const (
	nameIdent nameKind = iota
	nameArray
	nameNullable
	nameFunc
)

// parsedName is the syntax tree of a canonical type name.
type parsedName struct {
	kind   nameKind
	ident  string
	elem   *parsedName
	params []*parsedName
	result *parsedName
}

// Canonical normalizes a textual type name: Unicode NFC, no surrounding
// spaces.
func Canonical(name string) string {
	return norm.NFC.String(strings.TrimSpace(name))
}

func parseName(s string) (*parsedName, error) {
	p := &nameParser{src: s}
	n, err := p.name()
	if err != nil {
		return nil, err
	}
	if p.pos != len(p.src) {
		return nil, fmt.Errorf("unexpected %q at offset %d in type name %q", p.src[p.pos:], p.pos, s)
	}
	return n, nil
}

type nameParser struct {
	src string
	pos int
}

func (p *nameParser) name() (*parsedName, error) {
	var n *parsedName
	if strings.HasPrefix(p.src[p.pos:], "func(") {
		p.pos += len("func(")
		fn := &parsedName{kind: nameFunc}
		if !p.consume(")") {
			for {
				param, err := p.name()
				if err != nil {
					return nil, err
				}
				fn.params = append(fn.params, param)
				if p.consume(",") {
					continue
				}
				if p.consume(")") {
					break
				}
				return nil, fmt.Errorf("expected ',' or ')' at offset %d in type name %q", p.pos, p.src)
			}
		}
		res, err := p.name()
		if err != nil {
			return nil, err
		}
		fn.result = res
		n = fn
	} else {
		start := p.pos
		for p.pos < len(p.src) && !strings.ContainsRune("[]?,() \t", rune(p.src[p.pos])) {
			p.pos++
		}
		if p.pos == start {
			return nil, fmt.Errorf("expected type name at offset %d in %q", p.pos, p.src)
		}
		n = &parsedName{kind: nameIdent, ident: p.src[start:p.pos]}
	}
	for {
		switch {
		case p.consume("[]"):
			n = &parsedName{kind: nameArray, elem: n}
		case p.consume("?"):
			n = &parsedName{kind: nameNullable, elem: n}
		default:
			return n, nil
		}
	}
}

func (p *nameParser) consume(tok string) bool {
	if strings.HasPrefix(p.src[p.pos:], tok) {
		p.pos += len(tok)
		return true
	}
	return false
}
