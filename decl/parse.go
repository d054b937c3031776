package decl

import (
	"strings"
	"text/scanner"

	"github.com/miren-lang/miren/types"
	"github.com/pkg/errors"
)

// ParseType reads a type expression in the Name[Arg, ...] surface syntax.
// The names Bottom and Top denote the extremes.
func ParseType(s string) (types.Type, error) {
	p := &exprParser{}
	p.sc.Init(strings.NewReader(s))
	p.sc.Mode = scanner.ScanIdents
	p.sc.Error = func(_ *scanner.Scanner, msg string) {
		if p.err == nil {
			p.err = errors.Errorf("scanning '%s': %s", s, msg)
		}
	}
	p.next()
	t, err := p.parseType()
	if err != nil {
		return nil, err
	}
	if p.tok != scanner.EOF {
		return nil, errors.Errorf("unexpected '%s' after type expression in '%s'", p.text, s)
	}
	return t, nil
}

type exprParser struct {
	sc   scanner.Scanner
	tok  rune
	text string
	err  error
}

func (p *exprParser) next() {
	p.tok = p.sc.Scan()
	p.text = p.sc.TokenText()
}

func (p *exprParser) parseType() (types.Type, error) {
	if p.err != nil {
		return nil, p.err
	}
	if p.tok != scanner.Ident {
		return nil, errors.Errorf("expected a type name, found '%s'", p.text)
	}
	name := p.text
	p.next()
	switch name {
	case "Bottom":
		return types.Bottom, nil
	case "Top":
		return types.Top, nil
	}
	if p.tok != '[' {
		return types.BaseType{Name: name}, nil
	}
	var args []types.Type
	for {
		p.next()
		arg, err := p.parseType()
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
		if p.tok != ',' {
			break
		}
	}
	if p.tok != ']' {
		return nil, errors.Errorf("expected ']' closing arguments of %s, found '%s'", name, p.text)
	}
	p.next()
	return types.GenericType{Name: name, Args: args}, nil
}
