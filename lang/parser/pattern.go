package parser

import (
	"github.com/mna/aheadc/lang/ast"
	"github.com/mna/aheadc/lang/token"
)

// parseBindingTarget parses a destructuring target: an identifier, an
// object pattern, or an array pattern. It does not consume a trailing
// default value or rest marker; callers that allow those (parameters,
// variable declarators) handle them around this call.
func (p *parser) parseBindingTarget() ast.Pattern {
	switch {
	case p.kind() == token.IDENT:
		tv := p.advance()
		return &ast.Identifier{Name: tv.Value.Raw, Start: tv.Value.Pos, End: tv.Value.Pos}
	case p.atOp("{"):
		return p.parseObjectPattern()
	case p.atOp("["):
		return p.parseArrayPattern()
	}
	p.errorExpected("binding target")
	panic("unreachable")
}

func (p *parser) parseObjectPattern() *ast.ObjectPattern {
	start := p.expectOp("{")
	var props []ast.ObjectPatternProp
	var rest *ast.Identifier
	for !p.atOp("}") {
		if p.atOp("...") {
			p.advance()
			rest = p.expectIdent()
			break
		}
		key, computed := p.parsePropertyKey()
		var value ast.Pattern
		if p.atOp(":") {
			p.advance()
			value = p.parseBindingTarget()
		} else {
			id, ok := key.(*ast.Identifier)
			if !ok {
				p.errorExpected("identifier")
			}
			value = id
		}
		var def ast.Expr
		if p.atOp("=") {
			p.advance()
			def = p.parseAssign()
		}
		props = append(props, ast.ObjectPatternProp{Key: key, Computed: computed, Value: value, Default: def})
		if p.atOp(",") {
			p.advance()
			continue
		}
		break
	}
	end := p.expectOp("}")
	return &ast.ObjectPattern{Props: props, Rest: rest, Start: start, End: end}
}

func (p *parser) parseArrayPattern() *ast.ArrayPattern {
	start := p.expectOp("[")
	var elems []ast.ArrayPatternElem
	var rest ast.Pattern
	for !p.atOp("]") {
		if p.atOp(",") {
			elems = append(elems, ast.ArrayPatternElem{})
			p.advance()
			continue
		}
		if p.atOp("...") {
			p.advance()
			rest = p.parseBindingTarget()
			break
		}
		target := p.parseBindingTarget()
		var def ast.Expr
		if p.atOp("=") {
			p.advance()
			def = p.parseAssign()
		}
		elems = append(elems, ast.ArrayPatternElem{Value: target, Default: def})
		if p.atOp(",") {
			p.advance()
			continue
		}
		break
	}
	end := p.expectOp("]")
	return &ast.ArrayPattern{Elems: elems, Rest: rest, Start: start, End: end}
}

// ExprToPattern converts an already-parsed expression into an assignment
// target pattern, used by the emitter when the left side of a plain `=`
// assignment was parsed as an ObjectExpr/ArrayExpr before the destructuring
// shape could be known.
func ExprToPattern(e ast.Expr) ast.Pattern {
	switch v := e.(type) {
	case *ast.Identifier:
		return v
	case *ast.MemberExpr:
		return MemberPattern{v}
	case *ast.ObjectExpr:
		var props []ast.ObjectPatternProp
		for _, pr := range v.Props {
			props = append(props, ast.ObjectPatternProp{
				Key:      pr.Key,
				Computed: pr.Computed,
				Value:    ExprToPattern(pr.Value),
			})
		}
		return &ast.ObjectPattern{Props: props, Start: v.Start, End: v.End}
	case *ast.ArrayExpr:
		var elems []ast.ArrayPatternElem
		for _, it := range v.Items {
			if it == nil {
				elems = append(elems, ast.ArrayPatternElem{})
				continue
			}
			elems = append(elems, ast.ArrayPatternElem{Value: ExprToPattern(it)})
		}
		return &ast.ArrayPattern{Elems: elems, Start: v.Start, End: v.End}
	}
	return nil
}

// MemberPattern adapts a MemberExpr (a valid assignment target, e.g.
// `obj.x = 1`) to the Pattern interface used by destructuring targets.
type MemberPattern struct{ *ast.MemberExpr }

func (MemberPattern) patternNode() {}

// Expr returns the wrapped member expression, letting the resolver treat a
// member assignment target as a plain reference instead of a declaration.
func (m MemberPattern) Expr() ast.Expr { return m.MemberExpr }
