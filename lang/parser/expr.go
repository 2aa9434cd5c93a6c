package parser

import (
	"strings"

	"github.com/mna/aheadc/lang/ast"
	"github.com/mna/aheadc/lang/token"
)

// assignOps is the fixed set of assignment operators, from spec §3's
// compound-assignment list (including the short-circuiting forms).
var assignOps = map[string]bool{
	"=": true, "+=": true, "-=": true, "*=": true, "/=": true, "%=": true,
	"**=": true, "<<=": true, ">>=": true, ">>>=": true,
	"&=": true, "|=": true, "^=": true,
	"&&=": true, "||=": true, "??=": true,
}

func (p *parser) parseExpr() ast.Expr { return p.parseAssign() }

func (p *parser) atAssignOp() (string, bool) {
	if p.kind() == token.OPERATOR && assignOps[p.raw()] {
		return p.raw(), true
	}
	return "", false
}

// parseAssign is the lowest-precedence level, right-associative.
func (p *parser) parseAssign() ast.Expr {
	left := p.parseConditional()
	if op, ok := p.atAssignOp(); ok {
		p.advance()
		right := p.parseAssign()
		start, _ := left.Span()
		_, end := right.Span()
		return &ast.AssignExpr{Op: op, Left: left, Right: right, Start: start, End: end}
	}
	return left
}

func (p *parser) parseConditional() ast.Expr {
	test := p.parseNullish()
	if p.atOp("?") {
		p.advance()
		cons := p.parseAssign()
		p.expectOp(":")
		alt := p.parseAssign()
		start, _ := test.Span()
		_, end := alt.Span()
		return &ast.ConditionalExpr{Test: test, Cons: cons, Alt: alt, Start: start, End: end}
	}
	return test
}

func (p *parser) parseNullish() ast.Expr {
	left := p.parseLogicalOr()
	for p.atOp("??") {
		p.advance()
		right := p.parseLogicalOr()
		start, _ := left.Span()
		_, end := right.Span()
		left = &ast.LogicalExpr{Op: "??", Left: left, Right: right, Start: start, End: end}
	}
	return left
}

func (p *parser) parseLogicalOr() ast.Expr {
	left := p.parseLogicalAnd()
	for p.atOp("||") {
		p.advance()
		right := p.parseLogicalAnd()
		start, _ := left.Span()
		_, end := right.Span()
		left = &ast.LogicalExpr{Op: "||", Left: left, Right: right, Start: start, End: end}
	}
	return left
}

func (p *parser) parseLogicalAnd() ast.Expr {
	left := p.parseBitOr()
	for p.atOp("&&") {
		p.advance()
		right := p.parseBitOr()
		start, _ := left.Span()
		_, end := right.Span()
		left = &ast.LogicalExpr{Op: "&&", Left: left, Right: right, Start: start, End: end}
	}
	return left
}

// binaryLevel builds one precedence-climbing level for non-short-circuiting
// binary operators.
func (p *parser) binaryLevel(next func() ast.Expr, ops ...string) ast.Expr {
	left := next()
	for {
		matched := ""
		for _, op := range ops {
			if p.atOp(op) {
				matched = op
				break
			}
		}
		if matched == "" {
			return left
		}
		p.advance()
		right := next()
		start, _ := left.Span()
		_, end := right.Span()
		left = &ast.BinaryExpr{Op: matched, Left: left, Right: right, Start: start, End: end}
	}
}

func (p *parser) parseBitOr() ast.Expr  { return p.binaryLevel(p.parseBitXor, "|") }
func (p *parser) parseBitXor() ast.Expr { return p.binaryLevel(p.parseBitAnd, "^") }
func (p *parser) parseBitAnd() ast.Expr { return p.binaryLevel(p.parseEquality, "&") }
func (p *parser) parseEquality() ast.Expr {
	return p.binaryLevel(p.parseRelational, "===", "!==", "==", "!=")
}

func (p *parser) parseRelational() ast.Expr {
	left := p.parseShift()
	for {
		switch {
		case p.atOp("<="), p.atOp(">="), p.atOp("<"), p.atOp(">"):
			op := p.raw()
			p.advance()
			right := p.parseShift()
			start, _ := left.Span()
			_, end := right.Span()
			left = &ast.BinaryExpr{Op: op, Left: left, Right: right, Start: start, End: end}
		case p.atKeyword("instanceof"), p.atKeyword("in"):
			op := p.raw()
			p.advance()
			right := p.parseShift()
			start, _ := left.Span()
			_, end := right.Span()
			left = &ast.BinaryExpr{Op: op, Left: left, Right: right, Start: start, End: end}
		default:
			return left
		}
	}
}

func (p *parser) parseShift() ast.Expr {
	return p.binaryLevel(p.parseAdditive, ">>>", "<<", ">>")
}
func (p *parser) parseAdditive() ast.Expr {
	return p.binaryLevel(p.parseMultiplicative, "+", "-")
}
func (p *parser) parseMultiplicative() ast.Expr {
	return p.binaryLevel(p.parseExponent, "*", "/", "%")
}

// parseExponent is right-associative: `2 ** 3 ** 2 == 2 ** (3 ** 2)`.
func (p *parser) parseExponent() ast.Expr {
	left := p.parseUnary()
	if p.atOp("**") {
		p.advance()
		right := p.parseExponent()
		start, _ := left.Span()
		_, end := right.Span()
		return &ast.BinaryExpr{Op: "**", Left: left, Right: right, Start: start, End: end}
	}
	return left
}

var prefixUnaryOps = map[string]bool{"!": true, "~": true, "+": true, "-": true}
var prefixUnaryKeywords = map[string]bool{"typeof": true, "void": true, "delete": true, "await": true}

func (p *parser) parseUnary() ast.Expr {
	if p.kind() == token.OPERATOR && prefixUnaryOps[p.raw()] {
		op := p.raw()
		start := p.pos()
		p.advance()
		arg := p.parseUnary()
		_, end := arg.Span()
		return &ast.UnaryExpr{Op: op, Arg: arg, Start: start, End: end}
	}
	if p.kind() == token.KEYWORD && prefixUnaryKeywords[p.raw()] {
		op := p.raw()
		start := p.pos()
		p.advance()
		arg := p.parseUnary()
		_, end := arg.Span()
		return &ast.UnaryExpr{Op: op, Arg: arg, Start: start, End: end}
	}
	if p.atOp("++") || p.atOp("--") {
		op := p.raw()
		start := p.pos()
		p.advance()
		arg := p.parseUnary()
		_, end := arg.Span()
		return &ast.UpdateExpr{Op: op, Arg: arg, Prefix: true, Start: start, End: end}
	}
	return p.parsePostfix()
}

func (p *parser) parsePostfix() ast.Expr {
	e := p.parseLeftHandSide()
	if p.atOp("++") || p.atOp("--") {
		op := p.raw()
		end := p.pos()
		p.advance()
		start, _ := e.Span()
		return &ast.UpdateExpr{Op: op, Arg: e, Prefix: false, Start: start, End: end}
	}
	return e
}

// parseLeftHandSide parses new/member/call chains at the precedence JS
// gives them: member access binds tighter than call, `new` swallows the
// member chain up to (and including) one optional argument list.
func (p *parser) parseLeftHandSide() ast.Expr {
	var base ast.Expr
	if p.atKeyword("new") {
		base = p.parseNewExpr()
	} else {
		base = p.parsePrimary()
	}
	return p.parseCallMemberTail(base)
}

func (p *parser) parseNewExpr() ast.Expr {
	start := p.pos()
	p.advance() // 'new'
	var callee ast.Expr
	if p.atKeyword("new") {
		callee = p.parseNewExpr()
	} else {
		callee = p.parsePrimary()
	}
	callee = p.parseMemberOnlyTail(callee)
	var args []ast.Expr
	end := start
	if p.atOp("(") {
		args, end = p.parseArgs()
	} else {
		_, end = callee.Span()
	}
	return &ast.NewExpr{Callee: callee, Args: args, Start: start, End: end}
}

// parseMemberOnlyTail chains only '.' and '[' accesses, stopping before any
// '(' call so that `new a.b(args)` binds args to the whole member chain.
func (p *parser) parseMemberOnlyTail(base ast.Expr) ast.Expr {
	for {
		switch {
		case p.atOp("."):
			p.advance()
			prop := p.propertyName()
			start, _ := base.Span()
			_, end := prop.Span()
			base = &ast.MemberExpr{Obj: base, Prop: prop, Computed: false, Start: start, End: end}
		case p.atOp("["):
			p.advance()
			idx := p.parseExpr()
			end := p.expectOp("]")
			start, _ := base.Span()
			base = &ast.MemberExpr{Obj: base, Prop: idx, Computed: true, Start: start, End: end}
		default:
			return base
		}
	}
}

func (p *parser) parseCallMemberTail(base ast.Expr) ast.Expr {
	for {
		switch {
		case p.atOp("."):
			p.advance()
			prop := p.propertyName()
			start, _ := base.Span()
			_, end := prop.Span()
			base = &ast.MemberExpr{Obj: base, Prop: prop, Computed: false, Start: start, End: end}
		case p.atOp("?."):
			p.advance()
			start, _ := base.Span()
			switch {
			case p.atOp("("):
				args, end := p.parseArgs()
				base = &ast.CallExpr{Fn: base, Args: args, Optional: true, Start: start, End: end}
			case p.atOp("["):
				p.advance()
				idx := p.parseExpr()
				end := p.expectOp("]")
				base = &ast.MemberExpr{Obj: base, Prop: idx, Computed: true, Optional: true, Start: start, End: end}
			default:
				prop := p.propertyName()
				_, end := prop.Span()
				base = &ast.MemberExpr{Obj: base, Prop: prop, Computed: false, Optional: true, Start: start, End: end}
			}
		case p.atOp("["):
			p.advance()
			idx := p.parseExpr()
			end := p.expectOp("]")
			start, _ := base.Span()
			base = &ast.MemberExpr{Obj: base, Prop: idx, Computed: true, Start: start, End: end}
		case p.atOp("("):
			start, _ := base.Span()
			args, end := p.parseArgs()
			base = &ast.CallExpr{Fn: base, Args: args, Start: start, End: end}
		default:
			return base
		}
	}
}

// propertyName accepts an IDENT or KEYWORD as a non-computed member name
// (e.g. `obj.class`); reserved words are valid property names.
func (p *parser) propertyName() *ast.Identifier {
	if p.kind() != token.IDENT && p.kind() != token.KEYWORD {
		p.errorExpected("property name")
	}
	tv := p.advance()
	return &ast.Identifier{Name: tv.Value.Raw, Start: tv.Value.Pos, End: tv.Value.Pos}
}

// parseArgs parses a parenthesized, comma-separated argument list. Any
// element may be a SpreadElement.
func (p *parser) parseArgs() ([]ast.Expr, token.Pos) {
	p.expectOp("(")
	var args []ast.Expr
	for !p.atOp(")") {
		if p.atOp("...") {
			start := p.pos()
			p.advance()
			arg := p.parseAssign()
			_, end := arg.Span()
			args = append(args, &ast.SpreadElement{Arg: arg, Start: start, End: end})
		} else {
			args = append(args, p.parseAssign())
		}
		if p.atOp(",") {
			p.advance()
			continue
		}
		break
	}
	end := p.expectOp(")")
	return args, end
}

func (p *parser) parsePrimary() ast.Expr {
	switch {
	case p.kind() == token.NUMBER:
		tv := p.advance()
		return &ast.Literal{Kind: ast.LitNumber, Number: tv.Value.Float, Start: tv.Value.Pos, End: tv.Value.Pos}
	case p.kind() == token.BIGINT:
		tv := p.advance()
		return &ast.Literal{Kind: ast.LitBigInt, BigInt: tv.Value.Int, Start: tv.Value.Pos, End: tv.Value.Pos}
	case p.kind() == token.STRING:
		tv := p.advance()
		return &ast.Literal{Kind: ast.LitString, Str: tv.Value.String, Start: tv.Value.Pos, End: tv.Value.Pos}
	case p.kind() == token.TEMPLATE || p.kind() == token.TEMPLATE_HEAD:
		return p.parseTemplate()
	case p.atKeyword("true"):
		pos := p.pos()
		p.advance()
		return &ast.Literal{Kind: ast.LitBool, Bool: true, Start: pos, End: pos}
	case p.atKeyword("false"):
		pos := p.pos()
		p.advance()
		return &ast.Literal{Kind: ast.LitBool, Bool: false, Start: pos, End: pos}
	case p.atKeyword("null"):
		pos := p.pos()
		p.advance()
		return &ast.Literal{Kind: ast.LitNull, Start: pos, End: pos}
	case p.atKeyword("undefined"):
		pos := p.pos()
		p.advance()
		return &ast.Literal{Kind: ast.LitUndefined, Start: pos, End: pos}
	case p.atKeyword("this"):
		pos := p.pos()
		p.advance()
		return &ast.ThisExpr{Start: pos, End: pos}
	case p.atKeyword("super"):
		pos := p.pos()
		p.advance()
		return &ast.SuperExpr{Start: pos, End: pos}
	case p.atKeyword("function"):
		return p.parseFunctionExpr(false)
	case p.atKeyword("async") && p.peekIsKeyword(1, "function"):
		pos := p.pos()
		p.advance() // 'async'
		fn := p.parseFunctionExpr(true)
		fn.Start = pos
		return fn
	case p.atKeyword("class"):
		return p.parseClassExpr()
	case p.atKeyword("yield"):
		return p.parseYieldExpr()
	case p.atKeyword("import") && p.peekIsOp(1, "("):
		return p.parseImportExpr()
	case p.kind() == token.IDENT:
		tv := p.advance()
		return &ast.Identifier{Name: tv.Value.Raw, Start: tv.Value.Pos, End: tv.Value.Pos}
	case p.atOp("("):
		p.advance()
		e := p.parseExpr()
		p.expectOp(")")
		return e
	case p.atOp("["):
		return p.parseArrayExpr()
	case p.atOp("{"):
		return p.parseObjectExpr()
	}
	p.errorExpected("expression")
	panic("unreachable")
}

func (p *parser) peekIsKeyword(ahead int, raw string) bool {
	i := p.idx + ahead
	if i >= len(p.toks) {
		return false
	}
	return p.toks[i].Kind == token.KEYWORD && p.toks[i].Value.Raw == raw
}

func (p *parser) peekIsOp(ahead int, raw string) bool {
	i := p.idx + ahead
	if i >= len(p.toks) {
		return false
	}
	k := p.toks[i].Kind
	return (k == token.OPERATOR || k == token.PUNCT) && p.toks[i].Value.Raw == raw
}

func (p *parser) parseTemplate() ast.Expr {
	tv := p.advance()
	if tv.Kind == token.TEMPLATE {
		return &ast.Template{Quasis: []string{tv.Value.String}, Start: tv.Value.Pos, End: tv.Value.Pos}
	}
	quasis := []string{tv.Value.String}
	var exprs []ast.Expr
	end := tv.Value.Pos
	for {
		exprTok := p.advance() // TEMPLATE_EXPR
		sub := &parser{filename: p.filename, toks: exprTok.Value.Exprs}
		e := sub.parseExpr()
		if sub.kind() != token.EOF {
			sub.errorExpected("end of template expression")
		}
		exprs = append(exprs, e)

		nextTok := p.advance() // TEMPLATE_MID or TEMPLATE_TAIL
		quasis = append(quasis, nextTok.Value.String)
		end = nextTok.Value.Pos
		if nextTok.Kind == token.TEMPLATE_TAIL {
			break
		}
	}
	return &ast.Template{Quasis: quasis, Exprs: exprs, Start: tv.Value.Pos, End: end}
}

func (p *parser) parseArrayExpr() ast.Expr {
	start := p.expectOp("[")
	var items []ast.Expr
	for !p.atOp("]") {
		if p.atOp(",") {
			items = append(items, nil) // elision
			p.advance()
			continue
		}
		if p.atOp("...") {
			spreadStart := p.pos()
			p.advance()
			arg := p.parseAssign()
			_, spreadEnd := arg.Span()
			items = append(items, &ast.SpreadElement{Arg: arg, Start: spreadStart, End: spreadEnd})
		} else {
			items = append(items, p.parseAssign())
		}
		if p.atOp(",") {
			p.advance()
			continue
		}
		break
	}
	end := p.expectOp("]")
	return &ast.ArrayExpr{Items: items, Start: start, End: end}
}

func (p *parser) parseObjectExpr() ast.Expr {
	start := p.expectOp("{")
	var props []*ast.Property
	for !p.atOp("}") {
		props = append(props, p.parseProperty())
		if p.atOp(",") {
			p.advance()
			continue
		}
		break
	}
	end := p.expectOp("}")
	return &ast.ObjectExpr{Props: props, Start: start, End: end}
}

func (p *parser) parseProperty() *ast.Property {
	start := p.pos()
	if p.atOp("...") {
		p.advance()
		arg := p.parseAssign()
		_, end := arg.Span()
		return &ast.Property{Kind: ast.PropSpread, Value: arg, Start: start, End: end}
	}

	isGetSet := (p.atKeyword("get") || p.atKeyword("set")) && !p.peekIsOp(1, ":") && !p.peekIsOp(1, ",") && !p.peekIsOp(1, "}") && !p.peekIsOp(1, "(")
	if isGetSet {
		kw := p.raw()
		p.advance()
		key, computed := p.parsePropertyKey()
		fn := p.parseFunctionSignatureAndBody(false, false)
		fn.Start = start
		propKind := ast.PropGet
		if kw == "set" {
			propKind = ast.PropSet
		}
		_, end := fn.Span()
		return &ast.Property{Kind: propKind, Key: key, Computed: computed, Value: fn, Start: start, End: end}
	}

	key, computed := p.parsePropertyKey()
	if p.atOp("(") {
		fn := p.parseFunctionSignatureAndBody(false, false)
		fn.Start = start
		_, end := fn.Span()
		return &ast.Property{Kind: ast.PropMethod, Key: key, Computed: computed, Value: fn, Start: start, End: end}
	}
	if p.atOp(":") {
		p.advance()
		val := p.parseAssign()
		_, end := val.Span()
		return &ast.Property{Kind: ast.PropData, Key: key, Computed: computed, Value: val, Start: start, End: end}
	}
	// shorthand `{x}`
	_, end := key.Span()
	return &ast.Property{Kind: ast.PropData, Key: key, Computed: false, Shorthand: true, Value: key, Start: start, End: end}
}

func (p *parser) parsePropertyKey() (ast.Expr, bool) {
	if p.atOp("[") {
		p.advance()
		key := p.parseAssign()
		p.expectOp("]")
		return key, true
	}
	if p.kind() == token.STRING || p.kind() == token.NUMBER {
		return p.parsePrimary(), false
	}
	return p.propertyName(), false
}

func (p *parser) parseFunctionExpr(async bool) *ast.FunctionExpr {
	start := p.expectKeyword("function")
	generator := false
	if p.atOp("*") {
		p.advance()
		generator = true
	}
	var name *ast.Identifier
	if p.kind() == token.IDENT {
		name = p.expectIdent()
	}
	fn := p.parseFunctionSignatureAndBody(async, generator)
	fn.Name = name
	fn.Start = start
	return fn
}

// parseFunctionSignatureAndBody parses `(params) { body }`, shared by
// function declarations/expressions and class methods/getters/setters.
func (p *parser) parseFunctionSignatureAndBody(async, generator bool) *ast.FunctionExpr {
	start := p.pos()
	sig := p.parseFuncSignature()
	body := p.parseBlock()
	_, end := body.Span()
	return &ast.FunctionExpr{Sig: sig, Body: body, Async: async, Generator: generator, Start: start, End: end}
}

func (p *parser) parseFuncSignature() *ast.FuncSignature {
	p.expectOp("(")
	var params []ast.Pattern
	for !p.atOp(")") {
		params = append(params, p.parseParam())
		if p.atOp(",") {
			p.advance()
			continue
		}
		break
	}
	p.expectOp(")")
	return &ast.FuncSignature{Params: params}
}

func (p *parser) parseParam() ast.Pattern {
	if p.atOp("...") {
		start := p.pos()
		p.advance()
		target := p.parseBindingTarget()
		_, end := target.Span()
		return &ast.RestElement{Target: target, Start: start, End: end}
	}
	target := p.parseBindingTarget()
	if p.atOp("=") {
		p.advance()
		def := p.parseAssign()
		start, _ := target.Span()
		_, end := def.Span()
		return &ast.AssignPattern{Target: target, Default: def, Start: start, End: end}
	}
	return target
}

func (p *parser) parseYieldExpr() ast.Expr {
	start := p.expectKeyword("yield")
	delegate := false
	if p.atOp("*") {
		p.advance()
		delegate = true
	}
	end := start
	var arg ast.Expr
	if p.exprCanFollowYield() {
		arg = p.parseAssign()
		_, end = arg.Span()
	}
	return &ast.YieldExpr{Arg: arg, Delegate: delegate, Start: start, End: end}
}

// exprCanFollowYield reports whether the current token can start an
// expression, distinguishing a bare `yield` from `yield <expr>`.
func (p *parser) exprCanFollowYield() bool {
	switch p.kind() {
	case token.EOF:
		return false
	case token.PUNCT:
		return p.raw() == "(" || p.raw() == "[" || p.raw() == "{"
	case token.KEYWORD:
		return !strings.Contains(";,)]}:", p.raw())
	}
	return true
}

func (p *parser) parseImportExpr() ast.Expr {
	start := p.expectKeyword("import")
	p.expectOp("(")
	src := p.parseAssign()
	end := p.expectOp(")")
	return &ast.ImportExpr{Source: src, Start: start, End: end}
}
