package lexer

import (
	"strings"

	"github.com/mna/aheadc/lang/token"
)

// scanTemplateHead tokenizes a backtick-delimited template literal. With no
// interpolation it produces a single TEMPLATE token. With interpolations it
// produces TEMPLATE_HEAD, then for each `${...}` an interior TEMPLATE_EXPR
// carrying the nested token sequence for that expression, then either a
// TEMPLATE_MID (more interpolations follow) or a TEMPLATE_TAIL (the
// template closes). Tokens after the first are queued in l.pending.
func (l *lexer) scanTemplateHead(pos token.Pos) (token.TokenAndValue, error) {
	l.advance() // consume opening backtick

	var toks []token.TokenAndValue
	quasiKindHead, quasiKindMid, quasiKindTail := token.TEMPLATE_HEAD, token.TEMPLATE_MID, token.TEMPLATE_TAIL
	first := true

	for {
		raw, text, terminator, err := l.scanTemplateQuasi()
		if err != nil {
			return token.TokenAndValue{}, err
		}

		var kind token.Kind
		switch {
		case terminator == '`' && first:
			kind = token.TEMPLATE
		case terminator == '`':
			kind = quasiKindTail
		case first:
			kind = quasiKindHead
		default:
			kind = quasiKindMid
		}
		toks = append(toks, token.TokenAndValue{Kind: kind, Value: token.Value{Pos: pos, Raw: raw, String: text}})

		if terminator == '`' {
			break
		}

		// terminator == '$': we're positioned right after "${"; recurse.
		exprToks, err := l.scanTemplateExpr()
		if err != nil {
			return token.TokenAndValue{}, err
		}
		toks = append(toks, token.TokenAndValue{Kind: token.TEMPLATE_EXPR, Value: token.Value{Pos: pos, Exprs: exprToks}})
		first = false
	}

	head := toks[0]
	l.pending = append(l.pending, toks[1:]...)
	return head, nil
}

// scanTemplateQuasi scans template text up to either a closing backtick or
// the start of an interpolation ("${"), decoding escapes the same way
// string literals do. It returns the raw consumed text, the decoded value,
// and which terminator ('`' or '$') ended the quasi.
func (l *lexer) scanTemplateQuasi() (raw, text string, terminator byte, err error) {
	start := l.off
	var sb strings.Builder
	for {
		switch {
		case l.cur == -1:
			return "", "", 0, l.errorf("unterminated template literal")
		case l.cur == '`':
			raw = string(l.src[start:l.off])
			l.advance()
			return raw, sb.String(), '`', nil
		case l.cur == '$' && l.peek() == '{':
			raw = string(l.src[start:l.off])
			l.advance() // $
			l.advance() // {
			return raw, sb.String(), '$', nil
		case l.cur == '\\':
			l.advance()
			sb.WriteRune(l.escapeChar())
		default:
			sb.WriteRune(l.cur)
			l.advance()
		}
	}
}

// scanTemplateExpr tokenizes the interpolated expression between "${" and
// its matching "}", tracking brace depth via PUNCT tokens (not raw bytes)
// so that object/block literals nested inside the interpolation don't
// prematurely close it. The returned sequence always ends with EOF.
func (l *lexer) scanTemplateExpr() ([]token.TokenAndValue, error) {
	var out []token.TokenAndValue
	depth := 0
	for {
		tv, err := l.scan()
		if err != nil {
			return nil, err
		}
		if tv.Kind == token.EOF {
			return nil, l.errorf("unterminated template interpolation")
		}
		if tv.Kind == token.PUNCT && tv.Value.Raw == "{" {
			depth++
		}
		if tv.Kind == token.PUNCT && tv.Value.Raw == "}" {
			if depth == 0 {
				out = append(out, token.TokenAndValue{Kind: token.EOF, Value: token.Value{Pos: tv.Value.Pos}})
				return out, nil
			}
			depth--
		}
		out = append(out, tv)
	}
}
