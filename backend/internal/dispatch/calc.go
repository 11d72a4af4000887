package dispatch

import (
	"errors"
	"strconv"
	"strings"
)

var errBadExpression = errors.New("invalid expression")

const maxCalcDepth = 64

// Evaluate computes an arithmetic expression over + - * / and parentheses.
// Characters outside digits, operators, dots and parentheses are dropped first.
func Evaluate(expr string) (float64, error) {
	var b strings.Builder
	for _, r := range expr {
		if strings.ContainsRune("0123456789+-*/().", r) {
			b.WriteRune(r)
		}
	}
	p := &calcParser{src: b.String()}
	if p.src == "" {
		return 0, errBadExpression
	}
	v, err := p.expr(0)
	if err != nil {
		return 0, err
	}
	if p.pos != len(p.src) {
		return 0, errBadExpression
	}
	return v, nil
}

type calcParser struct {
	src string
	pos int
}

func (p *calcParser) peek() byte {
	if p.pos < len(p.src) {
		return p.src[p.pos]
	}
	return 0
}

func (p *calcParser) expr(depth int) (float64, error) {
	v, err := p.term(depth)
	if err != nil {
		return 0, err
	}
	for {
		switch p.peek() {
		case '+':
			p.pos++
			rhs, err := p.term(depth)
			if err != nil {
				return 0, err
			}
			v += rhs
		case '-':
			p.pos++
			rhs, err := p.term(depth)
			if err != nil {
				return 0, err
			}
			v -= rhs
		default:
			return v, nil
		}
	}
}

func (p *calcParser) term(depth int) (float64, error) {
	v, err := p.factor(depth)
	if err != nil {
		return 0, err
	}
	for {
		switch p.peek() {
		case '*':
			p.pos++
			rhs, err := p.factor(depth)
			if err != nil {
				return 0, err
			}
			v *= rhs
		case '/':
			p.pos++
			rhs, err := p.factor(depth)
			if err != nil {
				return 0, err
			}
			if rhs == 0 {
				return 0, errors.New("division by zero")
			}
			v /= rhs
		default:
			return v, nil
		}
	}
}

func (p *calcParser) factor(depth int) (float64, error) {
	if depth > maxCalcDepth {
		return 0, errBadExpression
	}
	switch c := p.peek(); {
	case c == '+':
		p.pos++
		return p.factor(depth + 1)
	case c == '-':
		p.pos++
		v, err := p.factor(depth + 1)
		return -v, err
	case c == '(':
		p.pos++
		v, err := p.expr(depth + 1)
		if err != nil {
			return 0, err
		}
		if p.peek() != ')' {
			return 0, errBadExpression
		}
		p.pos++
		return v, nil
	case c == '.' || (c >= '0' && c <= '9'):
		start := p.pos
		for p.pos < len(p.src) && (p.src[p.pos] == '.' || (p.src[p.pos] >= '0' && p.src[p.pos] <= '9')) {
			p.pos++
		}
		return strconv.ParseFloat(p.src[start:p.pos], 64)
	default:
		return 0, errBadExpression
	}
}

// formatNumber prints integers without a fraction
func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
