package lexer

import "github.com/mna/aheadc/lang/token"

// scanNumber tokenizes decimal, hex (0x), octal (0o) and binary (0b)
// literals, with optional fractional part and exponent for decimal, and an
// optional trailing 'n' that converts the literal to BIGINT.
func (l *lexer) scanNumber(pos token.Pos) (token.TokenAndValue, error) {
	start := l.off
	base := 10
	isFloat := false

	if l.cur == '0' {
		l.advance()
		switch l.cur {
		case 'x', 'X':
			base = 16
			l.advance()
			l.digits(base)
		case 'o', 'O':
			base = 8
			l.advance()
			l.digits(base)
		case 'b', 'B':
			base = 2
			l.advance()
			l.digits(base)
		default:
			l.digits(10)
		}
	} else {
		l.digits(10)
	}

	if base == 10 {
		if l.cur == '.' {
			isFloat = true
			l.advance()
			l.digits(10)
		}
		if l.cur == 'e' || l.cur == 'E' {
			isFloat = true
			l.advance()
			if l.cur == '+' || l.cur == '-' {
				l.advance()
			}
			l.digits(10)
		}
	}

	isBigInt := false
	if l.cur == 'n' && !isFloat {
		isBigInt = true
		l.advance()
	}

	raw := string(l.src[start:l.off])
	if isBigInt {
		lit := raw[:len(raw)-1] // strip trailing 'n'
		v, err := numberToInt(lit, base)
		if err != nil {
			return token.TokenAndValue{}, l.errorf("invalid bigint literal: %s", raw)
		}
		return token.TokenAndValue{Kind: token.BIGINT, Value: token.Value{Pos: pos, Raw: raw, Int: v}}, nil
	}
	if isFloat {
		v, err := numberToFloat(raw)
		if err != nil {
			return token.TokenAndValue{}, l.errorf("invalid number literal: %s", raw)
		}
		return token.TokenAndValue{Kind: token.NUMBER, Value: token.Value{Pos: pos, Raw: raw, Float: v}}, nil
	}
	v, err := numberToInt(raw, base)
	if err != nil {
		return token.TokenAndValue{}, l.errorf("invalid number literal: %s", raw)
	}
	return token.TokenAndValue{Kind: token.NUMBER, Value: token.Value{Pos: pos, Raw: raw, Float: float64(v)}}, nil
}

func (l *lexer) digits(base int) {
	for isDigitForBase(l.cur, base) {
		l.advance()
	}
}

func isDigitForBase(r rune, base int) bool {
	switch {
	case base == 16:
		return isDecimalDigit(r) || (r >= 'a' && r <= 'f') || (r >= 'A' && r <= 'F')
	case base == 8:
		return r >= '0' && r <= '7'
	case base == 2:
		return r == '0' || r == '1'
	default:
		return isDecimalDigit(r)
	}
}
