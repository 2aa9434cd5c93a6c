package parser

import (
	"github.com/mna/aheadc/lang/ast"
	"github.com/mna/aheadc/lang/token"
)

func (p *parser) parseBlock() *ast.Block {
	start := p.expectOp("{")
	var stmts []ast.Stmt
	for !p.atOp("}") {
		stmts = append(stmts, p.parseStmt())
	}
	end := p.expectOp("}")
	return &ast.Block{Stmts: stmts, Start: start, End: end}
}

func (p *parser) parseStmt() ast.Stmt {
	switch {
	case p.atOp("{"):
		return p.parseBlock()
	case p.atKeyword("var"), p.atKeyword("let"), p.atKeyword("const"):
		d := p.parseVarDecl()
		p.expectOp(";")
		return d
	case p.atKeyword("function"):
		return p.parseFunctionDecl()
	case p.atKeyword("async") && p.peekIsKeyword(1, "function"):
		return p.parseFunctionDecl()
	case p.atKeyword("class"):
		return p.parseClassDecl()
	case p.atKeyword("if"):
		return p.parseIfStmt()
	case p.atKeyword("while"):
		return p.parseWhileStmt()
	case p.atKeyword("do"):
		return p.parseDoWhileStmt()
	case p.atKeyword("for"):
		return p.parseForLikeStmt()
	case p.atKeyword("return"):
		return p.parseReturnStmt()
	case p.atKeyword("break"):
		s := &ast.BreakStmt{Start: p.pos()}
		p.advance()
		s.End = s.Start
		p.expectOp(";")
		return s
	case p.atKeyword("continue"):
		s := &ast.ContinueStmt{Start: p.pos()}
		p.advance()
		s.End = s.Start
		p.expectOp(";")
		return s
	case p.atKeyword("throw"):
		return p.parseThrowStmt()
	case p.atKeyword("try"):
		return p.parseTryStmt()
	case p.atKeyword("switch"):
		return p.parseSwitchStmt()
	case p.atKeyword("import"):
		return p.parseImportDecl()
	case p.atKeyword("export"):
		return p.parseExportDecl()
	case p.atOp(";"):
		// empty statement
		pos := p.pos()
		p.advance()
		return &ast.ExprStmt{X: &ast.Literal{Kind: ast.LitUndefined, Start: pos, End: pos}, Start: pos, End: pos}
	}
	start := p.pos()
	x := p.parseExpr()
	_, end := x.Span()
	p.expectOp(";")
	return &ast.ExprStmt{X: x, Start: start, End: end}
}

func (p *parser) declKind() ast.DeclKind {
	switch p.raw() {
	case "let":
		return ast.DeclLet
	case "const":
		return ast.DeclConst
	default:
		return ast.DeclVar
	}
}

func (p *parser) parseVarDecl() *ast.VarDecl {
	start := p.pos()
	kind := p.declKind()
	p.advance()

	var decls []ast.Declarator
	for {
		target := p.parseBindingTarget()
		var init ast.Expr
		if p.atOp("=") {
			p.advance()
			init = p.parseAssign()
		}
		decls = append(decls, ast.Declarator{Target: target, Init: init})
		if p.atOp(",") {
			p.advance()
			continue
		}
		break
	}
	end := start
	if n := len(decls); n > 0 {
		if decls[n-1].Init != nil {
			_, end = decls[n-1].Init.Span()
		} else {
			_, end = decls[n-1].Target.Span()
		}
	}
	return &ast.VarDecl{Kind: kind, Decls: decls, Start: start, End: end}
}

func (p *parser) parseFunctionDecl() *ast.FunctionDecl {
	start := p.pos()
	async := false
	if p.atKeyword("async") {
		async = true
		p.advance()
	}
	fn := p.parseFunctionExpr(async)
	fn.Start = start
	return &ast.FunctionDecl{Fn: fn, Start: start, End: fn.End}
}

func (p *parser) parseClassDecl() *ast.ClassDecl {
	cls := p.parseClassExpr()
	return &ast.ClassDecl{Class: cls, Start: cls.Start, End: cls.End}
}

func (p *parser) parseClassExpr() *ast.ClassExpr {
	start := p.expectKeyword("class")
	var name *ast.Identifier
	if p.kind() == token.IDENT {
		name = p.expectIdent()
	}
	var super ast.Expr
	if p.atKeyword("extends") {
		p.advance()
		super = p.parseLeftHandSide()
	}
	body := p.parseClassBody()
	end := p.pos()
	return &ast.ClassExpr{Name: name, Super: super, Body: body, Start: start, End: end}
}

func (p *parser) parseClassBody() *ast.ClassBody {
	p.expectOp("{")
	var methods []*ast.MethodDef
	for !p.atOp("}") {
		if p.atOp(";") {
			p.advance()
			continue
		}
		methods = append(methods, p.parseMethodDef())
	}
	p.expectOp("}")
	return &ast.ClassBody{Methods: methods}
}

func (p *parser) parseMethodDef() *ast.MethodDef {
	start := p.pos()
	static := false
	if p.atKeyword("static") && !p.peekIsOp(1, "(") && !p.peekIsOp(1, "=") {
		static = true
		p.advance()
	}

	async := false
	generator := false
	kind := ast.MethodRegular

	if p.atKeyword("get") && !p.peekIsOp(1, "(") && !p.peekIsOp(1, "=") {
		kind = ast.MethodGet
		p.advance()
	} else if p.atKeyword("set") && !p.peekIsOp(1, "(") && !p.peekIsOp(1, "=") {
		kind = ast.MethodSet
		p.advance()
	} else {
		if p.atKeyword("async") && !p.peekIsOp(1, "(") && !p.peekIsOp(1, "=") {
			async = true
			p.advance()
		}
		if p.atOp("*") {
			generator = true
			p.advance()
		}
	}

	key, computed := p.parsePropertyKey()
	if !computed && kind == ast.MethodRegular {
		if id, ok := key.(*ast.Identifier); ok && id.Name == "constructor" && !static {
			kind = ast.MethodConstructor
		}
	}

	fn := p.parseFunctionSignatureAndBody(async, generator)
	fn.Start = start
	_, end := fn.Span()
	return &ast.MethodDef{Key: key, Computed: computed, Static: static, Kind: kind, Fn: fn, Start: start, End: end}
}

func (p *parser) parseIfStmt() ast.Stmt {
	start := p.expectKeyword("if")
	p.expectOp("(")
	test := p.parseExpr()
	p.expectOp(")")
	cons := p.parseStmt()
	end := p.pos()
	var alt ast.Stmt
	if p.atKeyword("else") {
		p.advance()
		alt = p.parseStmt()
		_, end = alt.Span()
	} else {
		_, end = cons.Span()
	}
	return &ast.IfStmt{Test: test, Cons: cons, Alt: alt, Start: start, End: end}
}

func (p *parser) parseWhileStmt() ast.Stmt {
	start := p.expectKeyword("while")
	p.expectOp("(")
	test := p.parseExpr()
	p.expectOp(")")
	body := p.parseStmt()
	_, end := body.Span()
	return &ast.WhileStmt{Test: test, Body: body, Start: start, End: end}
}

func (p *parser) parseDoWhileStmt() ast.Stmt {
	start := p.expectKeyword("do")
	body := p.parseStmt()
	p.expectKeyword("while")
	p.expectOp("(")
	test := p.parseExpr()
	p.expectOp(")")
	end := p.expectOp(";")
	return &ast.DoWhileStmt{Body: body, Test: test, Start: start, End: end}
}

// parseForLikeStmt disambiguates classic `for(;;)`, `for(x in y)` and
// `for(x of y)` by parsing the init clause and then checking the following
// keyword. Without a var/let/const keyword the init clause is parsed as a
// full expression, which consumes `in` as a binary operator, so the `in`
// form is recognized only after a declaration (`for (let x in y)`).
func (p *parser) parseForLikeStmt() ast.Stmt {
	start := p.expectKeyword("for")
	p.expectOp("(")

	if p.atKeyword("var") || p.atKeyword("let") || p.atKeyword("const") {
		kind := p.declKind()
		declStart := p.pos()
		p.advance()
		target := p.parseBindingTarget()

		if p.atKeyword("in") || p.atKeyword("of") {
			isOf := p.atKeyword("of")
			p.advance()
			right := p.parseAssign()
			p.expectOp(")")
			body := p.parseStmt()
			_, end := body.Span()
			if isOf {
				return &ast.ForOfStmt{Kind: kind, IsDecl: true, Target: target, Right: right, Body: body, Start: start, End: end}
			}
			return &ast.ForInStmt{Kind: kind, IsDecl: true, Target: target, Right: right, Body: body, Start: start, End: end}
		}

		// classic three-part for with a declaration init.
		var init ast.Expr
		if p.atOp("=") {
			p.advance()
			init = p.parseAssign()
		}
		decls := []ast.Declarator{{Target: target, Init: init}}
		for p.atOp(",") {
			p.advance()
			t2 := p.parseBindingTarget()
			var i2 ast.Expr
			if p.atOp("=") {
				p.advance()
				i2 = p.parseAssign()
			}
			decls = append(decls, ast.Declarator{Target: t2, Init: i2})
		}
		varDecl := &ast.VarDecl{Kind: kind, Decls: decls, Start: declStart, End: p.pos()}
		p.expectOp(";")
		return p.parseForThreePart(start, varDecl)
	}

	if p.atOp(";") {
		return p.parseForThreePart(start, nil)
	}

	first := p.parseExpr()
	if p.atKeyword("in") || p.atKeyword("of") {
		isOf := p.atKeyword("of")
		p.advance()
		right := p.parseAssign()
		p.expectOp(")")
		body := p.parseStmt()
		_, end := body.Span()
		target := ExprToPattern(first)
		if isOf {
			return &ast.ForOfStmt{IsDecl: false, Target: target, Right: right, Body: body, Start: start, End: end}
		}
		return &ast.ForInStmt{IsDecl: false, Target: target, Right: right, Body: body, Start: start, End: end}
	}

	firstStart, firstEnd := first.Span()
	var initExpr ast.Node = &ast.ExprStmt{X: first, Start: firstStart, End: firstEnd}
	p.expectOp(";")
	return p.parseForThreePart(start, initExpr)
}

func (p *parser) parseForThreePart(start token.Pos, init ast.Node) ast.Stmt {
	var test ast.Expr
	if !p.atOp(";") {
		test = p.parseExpr()
	}
	p.expectOp(";")
	var update ast.Expr
	if !p.atOp(")") {
		update = p.parseExpr()
	}
	p.expectOp(")")
	body := p.parseStmt()
	_, end := body.Span()
	return &ast.ForStmt{Init: init, Test: test, Update: update, Body: body, Start: start, End: end}
}

func (p *parser) parseReturnStmt() ast.Stmt {
	start := p.expectKeyword("return")
	var arg ast.Expr
	end := start
	if !p.atOp(";") {
		arg = p.parseExpr()
		_, end = arg.Span()
	}
	p.expectOp(";")
	return &ast.ReturnStmt{Arg: arg, Start: start, End: end}
}

func (p *parser) parseThrowStmt() ast.Stmt {
	start := p.expectKeyword("throw")
	arg := p.parseExpr()
	_, end := arg.Span()
	p.expectOp(";")
	return &ast.ThrowStmt{Arg: arg, Start: start, End: end}
}

func (p *parser) parseTryStmt() ast.Stmt {
	start := p.expectKeyword("try")
	block := p.parseBlock()
	end := block.End

	var catch *ast.CatchClause
	if p.atKeyword("catch") {
		p.advance()
		var param ast.Pattern
		if p.atOp("(") {
			p.advance()
			param = p.parseBindingTarget()
			p.expectOp(")")
		}
		body := p.parseBlock()
		catch = &ast.CatchClause{Param: param, Body: body}
		end = body.End
	}

	var finally *ast.Block
	if p.atKeyword("finally") {
		p.advance()
		finally = p.parseBlock()
		end = finally.End
	}

	return &ast.TryStmt{Block: block, Catch: catch, Finally: finally, Start: start, End: end}
}

func (p *parser) parseSwitchStmt() ast.Stmt {
	start := p.expectKeyword("switch")
	p.expectOp("(")
	disc := p.parseExpr()
	p.expectOp(")")
	p.expectOp("{")

	var cases []*ast.SwitchCase
	for !p.atOp("}") {
		caseStart := p.pos()
		var test ast.Expr
		if p.atKeyword("case") {
			p.advance()
			test = p.parseExpr()
		} else {
			p.expectKeyword("default")
		}
		p.expectOp(":")
		var body []ast.Stmt
		for !p.atOp("}") && !p.atKeyword("case") && !p.atKeyword("default") {
			body = append(body, p.parseStmt())
		}
		end := caseStart
		if n := len(body); n > 0 {
			_, end = body[n-1].Span()
		}
		cases = append(cases, &ast.SwitchCase{Test: test, Body: body, Start: caseStart, End: end})
	}
	end := p.expectOp("}")
	return &ast.SwitchStmt{Disc: disc, Cases: cases, Start: start, End: end}
}

func (p *parser) parseImportDecl() ast.Stmt {
	start := p.expectKeyword("import")
	var specs []ast.ImportSpecifier

	if p.kind() == token.STRING {
		src := p.advance()
		end := p.expectOp(";")
		return &ast.ImportDecl{Source: src.Value.String, Start: start, End: end}
	}

	if p.kind() == token.IDENT {
		name := p.expectIdent()
		specs = append(specs, ast.ImportSpecifier{Default: true, As: name.Name})
		if p.atOp(",") {
			p.advance()
		}
	}

	if p.atOp("*") {
		p.advance()
		p.expectKeyword("as")
		name := p.expectIdent()
		specs = append(specs, ast.ImportSpecifier{Namespace: true, As: name.Name})
	} else if p.atOp("{") {
		p.advance()
		for !p.atOp("}") {
			id := p.expectIdent()
			as := id.Name
			if p.atKeyword("as") {
				p.advance()
				as = p.expectIdent().Name
			}
			specs = append(specs, ast.ImportSpecifier{Name: id.Name, As: as})
			if p.atOp(",") {
				p.advance()
				continue
			}
			break
		}
		p.expectOp("}")
	}

	p.expectKeyword("from")
	src := p.advance() // STRING
	end := p.expectOp(";")
	return &ast.ImportDecl{Specifiers: specs, Source: src.Value.String, Start: start, End: end}
}

func (p *parser) parseExportDecl() ast.Stmt {
	start := p.expectKeyword("export")

	if p.atKeyword("default") {
		p.advance()
		x := p.parseExpr()
		_, end := x.Span()
		if p.atOp(";") {
			p.advance()
		}
		return &ast.ExportDefault{X: x, Start: start, End: end}
	}

	if p.atOp("{") {
		p.advance()
		var specs []ast.ExportSpecifier
		for !p.atOp("}") {
			name := p.expectIdent()
			as := name.Name
			if p.atKeyword("as") {
				p.advance()
				as = p.expectIdent().Name
			}
			specs = append(specs, ast.ExportSpecifier{Name: name.Name, As: as})
			if p.atOp(",") {
				p.advance()
				continue
			}
			break
		}
		end := p.expectOp("}")
		var source string
		if p.atKeyword("from") {
			p.advance()
			src := p.advance()
			source = src.Value.String
		}
		end = p.expectOp(";")
		return &ast.ExportDecl{Specifiers: specs, Source: source, Start: start, End: end}
	}

	decl := p.parseStmt()
	_, end := decl.Span()
	return &ast.ExportDecl{Decl: decl, Start: start, End: end}
}
