package money

import (
	"fmt"
	"strconv"
	"strings"
)

// Eval computes a small arithmetic expression over numeric literals,
// "+ - * /" and parentheses. The grammar is closed on purpose: anything
// else is a parse error and the caller falls back to cruder scans.
func Eval(expr string) (float64, error) {
	p := &evalParser{input: expr}
	v, err := p.expression()
	if err != nil {
		return 0, err
	}
	p.skipSpaces()
	if p.pos < len(p.input) {
		return 0, fmt.Errorf("unexpected %q at offset %d", p.input[p.pos], p.pos)
	}
	return v, nil
}

type evalParser struct {
	input string
	pos   int
}

func (p *evalParser) expression() (float64, error) {
	left, err := p.term()
	if err != nil {
		return 0, err
	}
	for {
		p.skipSpaces()
		if p.pos >= len(p.input) {
			return left, nil
		}
		switch p.input[p.pos] {
		case '+':
			p.pos++
			right, err := p.term()
			if err != nil {
				return 0, err
			}
			left += right
		case '-':
			p.pos++
			right, err := p.term()
			if err != nil {
				return 0, err
			}
			left -= right
		default:
			return left, nil
		}
	}
}

func (p *evalParser) term() (float64, error) {
	left, err := p.factor()
	if err != nil {
		return 0, err
	}
	for {
		p.skipSpaces()
		if p.pos >= len(p.input) {
			return left, nil
		}
		switch p.input[p.pos] {
		case '*':
			p.pos++
			right, err := p.factor()
			if err != nil {
				return 0, err
			}
			left *= right
		case '/':
			p.pos++
			right, err := p.factor()
			if err != nil {
				return 0, err
			}
			if right == 0 {
				return 0, fmt.Errorf("division by zero")
			}
			left /= right
		default:
			return left, nil
		}
	}
}

func (p *evalParser) factor() (float64, error) {
	p.skipSpaces()
	if p.pos >= len(p.input) {
		return 0, fmt.Errorf("unexpected end of expression")
	}
	switch c := p.input[p.pos]; {
	case c == '(':
		p.pos++
		v, err := p.expression()
		if err != nil {
			return 0, err
		}
		p.skipSpaces()
		if p.pos >= len(p.input) || p.input[p.pos] != ')' {
			return 0, fmt.Errorf("missing closing parenthesis")
		}
		p.pos++
		return v, nil
	case c == '-':
		p.pos++
		v, err := p.factor()
		if err != nil {
			return 0, err
		}
		return -v, nil
	case c == '+':
		p.pos++
		return p.factor()
	default:
		return p.number()
	}
}

func (p *evalParser) number() (float64, error) {
	start := p.pos
	dot := false
	for p.pos < len(p.input) {
		c := p.input[p.pos]
		if c >= '0' && c <= '9' {
			p.pos++
			continue
		}
		if c == '.' && !dot {
			dot = true
			p.pos++
			continue
		}
		break
	}
	lit := strings.TrimSuffix(p.input[start:p.pos], ".")
	if lit == "" {
		return 0, fmt.Errorf("expected number at offset %d", start)
	}
	return strconv.ParseFloat(lit, 64)
}

func (p *evalParser) skipSpaces() {
	for p.pos < len(p.input) && (p.input[p.pos] == ' ' || p.input[p.pos] == '\t') {
		p.pos++
	}
}
