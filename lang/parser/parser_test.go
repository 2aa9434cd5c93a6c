package parser_test

import (
	"testing"

	"github.com/mna/aheadc/lang/ast"
	"github.com/mna/aheadc/lang/parser"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parseExpr(t *testing.T, src string) ast.Expr {
	t.Helper()
	prog, err := parser.Parse("test.js", []byte("("+src+");"))
	require.NoError(t, err)
	require.Len(t, prog.Stmts, 1)
	es, ok := prog.Stmts[0].(*ast.ExprStmt)
	require.True(t, ok)
	return es.X
}

func TestParseLiterals(t *testing.T) {
	lit := parseExpr(t, "42").(*ast.Literal)
	assert.Equal(t, ast.LitNumber, lit.Kind)
	assert.Equal(t, float64(42), lit.Number)

	str := parseExpr(t, `"hi"`).(*ast.Literal)
	assert.Equal(t, ast.LitString, str.Kind)
	assert.Equal(t, "hi", str.Str)

	assert.Equal(t, ast.LitNull, parseExpr(t, "null").(*ast.Literal).Kind)
	assert.Equal(t, ast.LitUndefined, parseExpr(t, "undefined").(*ast.Literal).Kind)
	assert.True(t, parseExpr(t, "true").(*ast.Literal).Bool)
}

func TestParseBinaryPrecedence(t *testing.T) {
	// 1 + 2 * 3 must parse as 1 + (2 * 3)
	bin := parseExpr(t, "1 + 2 * 3").(*ast.BinaryExpr)
	assert.Equal(t, "+", bin.Op)
	lhs := bin.Left.(*ast.Literal)
	assert.Equal(t, float64(1), lhs.Number)
	rhs := bin.Right.(*ast.BinaryExpr)
	assert.Equal(t, "*", rhs.Op)
}

func TestParseExponentRightAssoc(t *testing.T) {
	// 2 ** 3 ** 2 must parse as 2 ** (3 ** 2)
	bin := parseExpr(t, "2 ** 3 ** 2").(*ast.BinaryExpr)
	assert.Equal(t, "**", bin.Op)
	_, ok := bin.Right.(*ast.BinaryExpr)
	assert.True(t, ok, "right operand should itself be a ** expression")
	_, ok = bin.Left.(*ast.Literal)
	assert.True(t, ok, "left operand should be the literal 2")
}

func TestParseLogicalShortCircuit(t *testing.T) {
	lg := parseExpr(t, "a && b || c").(*ast.LogicalExpr)
	assert.Equal(t, "||", lg.Op)
	left := lg.Left.(*ast.LogicalExpr)
	assert.Equal(t, "&&", left.Op)
}

func TestParseNullishCoalescing(t *testing.T) {
	lg := parseExpr(t, "a ?? b").(*ast.LogicalExpr)
	assert.Equal(t, "??", lg.Op)
}

func TestParseConditional(t *testing.T) {
	c := parseExpr(t, "a ? b : c").(*ast.ConditionalExpr)
	assert.IsType(t, &ast.Identifier{}, c.Test)
	assert.IsType(t, &ast.Identifier{}, c.Cons)
	assert.IsType(t, &ast.Identifier{}, c.Alt)
}

func TestParseAssignCompound(t *testing.T) {
	a := parseExpr(t, "x &&= y").(*ast.AssignExpr)
	assert.Equal(t, "&&=", a.Op)
}

func TestParseMemberAndCallChain(t *testing.T) {
	call := parseExpr(t, "a.b[c](d, e)").(*ast.CallExpr)
	require.Len(t, call.Args, 2)
	member := call.Fn.(*ast.MemberExpr)
	assert.True(t, member.Computed)
	inner := member.Obj.(*ast.MemberExpr)
	assert.False(t, inner.Computed)
}

func TestParseOptionalChaining(t *testing.T) {
	m := parseExpr(t, "a?.b").(*ast.MemberExpr)
	assert.True(t, m.Optional)
}

func TestParseNewExpr(t *testing.T) {
	n := parseExpr(t, "new Foo.Bar(1, 2)").(*ast.NewExpr)
	require.Len(t, n.Args, 2)
	_, ok := n.Callee.(*ast.MemberExpr)
	assert.True(t, ok)
}

func TestParseSpreadInCall(t *testing.T) {
	call := parseExpr(t, "f(1, ...rest)").(*ast.CallExpr)
	require.Len(t, call.Args, 2)
	_, ok := call.Args[1].(*ast.SpreadElement)
	assert.True(t, ok)
}

func TestParseArrayAndObjectLiterals(t *testing.T) {
	arr := parseExpr(t, "[1, , 3]").(*ast.ArrayExpr)
	require.Len(t, arr.Items, 3)
	assert.Nil(t, arr.Items[1])

	obj := parseExpr(t, `{a: 1, [k]: 2, b}`).(*ast.ObjectExpr)
	require.Len(t, obj.Props, 3)
	assert.False(t, obj.Props[0].Computed)
	assert.True(t, obj.Props[1].Computed)
	assert.True(t, obj.Props[2].Shorthand)
}

func TestParseTemplateLiteral(t *testing.T) {
	tmpl := parseExpr(t, "`a${x}b${y}c`").(*ast.Template)
	require.Len(t, tmpl.Quasis, 3)
	require.Len(t, tmpl.Exprs, 2)
	assert.Equal(t, "a", tmpl.Quasis[0])
	assert.Equal(t, "b", tmpl.Quasis[1])
	assert.Equal(t, "c", tmpl.Quasis[2])
	assert.IsType(t, &ast.Identifier{}, tmpl.Exprs[0])
}

func TestParseFunctionExpr(t *testing.T) {
	fn := parseExpr(t, "function (a, b = 1, ...rest) { return a; }").(*ast.FunctionExpr)
	require.Len(t, fn.Sig.Params, 3)
	_, ok := fn.Sig.Params[1].(*ast.AssignPattern)
	assert.True(t, ok)
	_, ok = fn.Sig.Params[2].(*ast.RestElement)
	assert.True(t, ok)
}

func TestParseClassExpr(t *testing.T) {
	cls := parseExpr(t, `class extends Base {
		constructor(x) { this.x = x; }
		get value() { return this.x; }
		static make() { return new this(); }
	}`).(*ast.ClassExpr)
	require.NotNil(t, cls.Super)
	require.Len(t, cls.Body.Methods, 3)
	assert.Equal(t, ast.MethodConstructor, cls.Body.Methods[0].Kind)
	assert.Equal(t, ast.MethodGet, cls.Body.Methods[1].Kind)
	assert.True(t, cls.Body.Methods[2].Static)
}

func TestParseYield(t *testing.T) {
	fn := parseExpr(t, "function* () { yield 1; yield* g(); }").(*ast.FunctionExpr)
	assert.True(t, fn.Generator)
	require.Len(t, fn.Body.Stmts, 2)
	y1 := fn.Body.Stmts[0].(*ast.ExprStmt).X.(*ast.YieldExpr)
	assert.False(t, y1.Delegate)
	y2 := fn.Body.Stmts[1].(*ast.ExprStmt).X.(*ast.YieldExpr)
	assert.True(t, y2.Delegate)
}

func TestParseDestructuringVarDecl(t *testing.T) {
	prog, err := parser.Parse("test.js", []byte("let {a, b: [c, ...d]} = obj;"))
	require.NoError(t, err)
	vd := prog.Stmts[0].(*ast.VarDecl)
	assert.Equal(t, ast.DeclLet, vd.Kind)
	pat := vd.Decls[0].Target.(*ast.ObjectPattern)
	require.Len(t, pat.Props, 2)
	nested := pat.Props[1].Value.(*ast.ArrayPattern)
	assert.NotNil(t, nested.Rest)
}

func TestParseForOf(t *testing.T) {
	prog, err := parser.Parse("test.js", []byte("for (const x of xs) { f(x); }"))
	require.NoError(t, err)
	fo := prog.Stmts[0].(*ast.ForOfStmt)
	assert.True(t, fo.IsDecl)
	assert.Equal(t, ast.DeclConst, fo.Kind)
}

func TestParseForIn(t *testing.T) {
	prog, err := parser.Parse("test.js", []byte("for (let k in obj) { f(k); }"))
	require.NoError(t, err)
	fi := prog.Stmts[0].(*ast.ForInStmt)
	assert.True(t, fi.IsDecl)
}

func TestParseClassicFor(t *testing.T) {
	prog, err := parser.Parse("test.js", []byte("for (let i = 0; i < 10; i = i + 1) { f(i); }"))
	require.NoError(t, err)
	fs := prog.Stmts[0].(*ast.ForStmt)
	require.NotNil(t, fs.Init)
	require.NotNil(t, fs.Test)
	require.NotNil(t, fs.Update)
}

func TestParseTryCatchFinally(t *testing.T) {
	prog, err := parser.Parse("test.js", []byte(`
		try { f(); } catch (e) { g(e); } finally { h(); }
	`))
	require.NoError(t, err)
	ts := prog.Stmts[0].(*ast.TryStmt)
	require.NotNil(t, ts.Catch)
	require.NotNil(t, ts.Finally)
	assert.NotNil(t, ts.Catch.Param)
}

func TestParseSwitch(t *testing.T) {
	prog, err := parser.Parse("test.js", []byte(`
		switch (x) {
		case 1:
			f();
			break;
		default:
			g();
		}
	`))
	require.NoError(t, err)
	sw := prog.Stmts[0].(*ast.SwitchStmt)
	require.Len(t, sw.Cases, 2)
	assert.NotNil(t, sw.Cases[0].Test)
	assert.Nil(t, sw.Cases[1].Test)
}

func TestParseImportExport(t *testing.T) {
	prog, err := parser.Parse("test.js", []byte(`
		import def, { a, b as c } from "mod";
		export { a, b as d };
		export default f;
	`))
	require.NoError(t, err)
	require.Len(t, prog.Stmts, 3)
	imp := prog.Stmts[0].(*ast.ImportDecl)
	assert.Equal(t, "mod", imp.Source)
	require.Len(t, imp.Specifiers, 3)
	exp := prog.Stmts[1].(*ast.ExportDecl)
	require.Len(t, exp.Specifiers, 2)
	def := prog.Stmts[2].(*ast.ExportDefault)
	assert.IsType(t, &ast.Identifier{}, def.X)
}

func TestParseSyntaxErrorStopsAtFirstFailure(t *testing.T) {
	_, err := parser.Parse("test.js", []byte("let x = ;"))
	require.Error(t, err)
	var perr *parser.Error
	require.ErrorAs(t, err, &perr)
}
