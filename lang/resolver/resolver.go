// Package resolver implements the semantic analyzer: a scope-stack walk
// over the AST that resolves identifier bindings and reports duplicate
// declarations and undefined references. Unlike the lexer and parser,
// which stop at the first failure, the resolver batches every diagnostic it
// finds into a single report, since one bad binding rarely invalidates the
// analysis of the rest of the program.
package resolver

import (
	"github.com/mna/aheadc/internal/diag"
	"github.com/mna/aheadc/lang/ast"
	"github.com/mna/aheadc/lang/token"
)

// builtins is the fixed allowlist of host globals that resolve without a
// local declaration.
var builtins = map[string]bool{
	"console": true, "Math": true, "JSON": true, "Object": true, "Array": true,
	"String": true, "Number": true, "Boolean": true, "Date": true, "RegExp": true,
	"Error": true, "Promise": true, "Map": true, "Set": true, "WeakMap": true,
	"WeakSet": true, "Symbol": true, "Reflect": true, "Proxy": true,
	"globalThis": true, "window": true, "document": true, "fetch": true,
	"setTimeout": true, "setInterval": true, "clearTimeout": true,
	"clearInterval": true, "WebSocket": true, "EventTarget": true, "Event": true,
}

// IsBuiltin reports whether name is in the built-in allowlist.
func IsBuiltin(name string) bool { return builtins[name] }

// Resolve walks prog's scopes, resolving every identifier reference. It
// returns a non-nil error (a *diag.listError, via diag.List.Err) listing
// every duplicate declaration and undefined reference found, in source
// order.
func Resolve(filename string, prog *ast.Program) error {
	r := &resolver{filename: filename}
	r.scope = newScope(nil)
	for _, s := range prog.Stmts {
		r.resolveStmt(s)
	}
	r.diags.Sort()
	return r.diags.Err()
}

type resolver struct {
	filename string
	scope    *Scope
	diags    diag.List
}

func (r *resolver) push()  { r.scope = newScope(r.scope) }
func (r *resolver) pop()   { r.scope = r.scope.parent }

func (r *resolver) errorAt(pos token.Pos, format string, args ...any) {
	line, col := pos.LineCol()
	r.diags.Addf(diag.Position{Filename: r.filename, Line: line, Col: col}, format, args...)
}

// declare binds name in the current scope, reporting a duplicate-declaration
// diagnostic if it collides with an existing binding in that same scope.
func (r *resolver) declare(name string, kind BindingKind, pos token.Pos) {
	if name == "" {
		return
	}
	if _, ok := r.scope.declare(&Binding{Name: name, Kind: kind, Pos: pos}); !ok {
		r.errorAt(pos, "Duplicate declaration: %s", name)
	}
}

// declarePattern expands a destructuring pattern into one binding per
// terminal identifier.
func (r *resolver) declarePattern(pat ast.Pattern, kind BindingKind) {
	switch p := pat.(type) {
	case *ast.Identifier:
		r.declare(p.Name, kind, p.Start)
	case *ast.AssignPattern:
		r.declarePattern(p.Target, kind)
		r.resolveExpr(p.Default)
	case *ast.RestElement:
		r.declarePattern(p.Target, kind)
	case *ast.ObjectPattern:
		for _, prop := range p.Props {
			if prop.Computed {
				r.resolveExpr(prop.Key)
			}
			r.declarePattern(prop.Value, kind)
			if prop.Default != nil {
				r.resolveExpr(prop.Default)
			}
		}
		if p.Rest != nil {
			r.declare(p.Rest.Name, kind, p.Rest.Start)
		}
	case *ast.ArrayPattern:
		for _, el := range p.Elems {
			if el.Value == nil {
				continue
			}
			r.declarePattern(el.Value, kind)
			if el.Default != nil {
				r.resolveExpr(el.Default)
			}
		}
		if p.Rest != nil {
			r.declarePattern(p.Rest, kind)
		}
	}
}

// referencePattern resolves a pattern used as an assignment target that was
// NOT introduced by a declaration (e.g. `({a} = obj)`): every leaf
// identifier must already be bound.
func (r *resolver) referencePattern(pat ast.Pattern) {
	switch p := pat.(type) {
	case *ast.Identifier:
		r.resolveIdentRef(p)
	case MemberTarget:
		r.resolveExpr(p.Expr())
	case *ast.AssignPattern:
		r.referencePattern(p.Target)
		r.resolveExpr(p.Default)
	case *ast.RestElement:
		r.referencePattern(p.Target)
	case *ast.ObjectPattern:
		for _, prop := range p.Props {
			if prop.Computed {
				r.resolveExpr(prop.Key)
			}
			r.referencePattern(prop.Value)
		}
		if p.Rest != nil {
			r.resolveIdentRef(p.Rest)
		}
	case *ast.ArrayPattern:
		for _, el := range p.Elems {
			if el.Value != nil {
				r.referencePattern(el.Value)
			}
		}
		if p.Rest != nil {
			r.referencePattern(p.Rest)
		}
	}
}

// MemberTarget is implemented by patterns that wrap a member expression
// assignment target (see parser.MemberPattern), kept decoupled from the
// parser package to avoid an import cycle.
type MemberTarget interface {
	Expr() ast.Expr
}

func (r *resolver) resolveIdentRef(id *ast.Identifier) {
	if _, ok := r.scope.lookup(id.Name); ok {
		return
	}
	if IsBuiltin(id.Name) {
		return
	}
	r.errorAt(id.Start, "undefined variable %q", id.Name)
}

func (r *resolver) resolveStmt(s ast.Stmt) {
	switch n := s.(type) {
	case *ast.ExprStmt:
		r.resolveExpr(n.X)
	case *ast.VarDecl:
		r.resolveVarDecl(n)
	case *ast.FunctionDecl:
		r.declare(n.Fn.Name.Name, BindFunction, n.Fn.Name.Start)
		r.resolveFunction(n.Fn)
	case *ast.ClassDecl:
		if n.Class.Name != nil {
			r.declare(n.Class.Name.Name, BindClass, n.Class.Name.Start)
		}
		r.resolveClass(n.Class)
	case *ast.Block:
		r.push()
		for _, st := range n.Stmts {
			r.resolveStmt(st)
		}
		r.pop()
	case *ast.IfStmt:
		r.resolveExpr(n.Test)
		r.resolveStmt(n.Cons)
		if n.Alt != nil {
			r.resolveStmt(n.Alt)
		}
	case *ast.WhileStmt:
		r.resolveExpr(n.Test)
		r.resolveStmt(n.Body)
	case *ast.DoWhileStmt:
		r.resolveStmt(n.Body)
		r.resolveExpr(n.Test)
	case *ast.ForStmt:
		r.push()
		switch init := n.Init.(type) {
		case *ast.VarDecl:
			r.resolveVarDeclNoPush(init)
		case *ast.ExprStmt:
			r.resolveExpr(init.X)
		}
		if n.Test != nil {
			r.resolveExpr(n.Test)
		}
		if n.Update != nil {
			r.resolveExpr(n.Update)
		}
		r.resolveStmt(n.Body)
		r.pop()
	case *ast.ForInStmt:
		r.resolveExpr(n.Right)
		r.push()
		r.bindForTarget(n.Target, n.IsDecl, n.Kind)
		r.resolveStmt(n.Body)
		r.pop()
	case *ast.ForOfStmt:
		r.resolveExpr(n.Right)
		r.push()
		r.bindForTarget(n.Target, n.IsDecl, n.Kind)
		r.resolveStmt(n.Body)
		r.pop()
	case *ast.ReturnStmt:
		if n.Arg != nil {
			r.resolveExpr(n.Arg)
		}
	case *ast.BreakStmt, *ast.ContinueStmt:
		// no bindings
	case *ast.ThrowStmt:
		r.resolveExpr(n.Arg)
	case *ast.TryStmt:
		r.resolveStmt(n.Block)
		if n.Catch != nil {
			r.push()
			if n.Catch.Param != nil {
				r.declarePattern(n.Catch.Param, BindCatch)
			}
			for _, st := range n.Catch.Body.Stmts {
				r.resolveStmt(st)
			}
			r.pop()
		}
		if n.Finally != nil {
			r.resolveStmt(n.Finally)
		}
	case *ast.SwitchStmt:
		r.resolveExpr(n.Disc)
		for _, c := range n.Cases {
			r.push()
			if c.Test != nil {
				r.resolveExpr(c.Test)
			}
			for _, st := range c.Body {
				r.resolveStmt(st)
			}
			r.pop()
		}
	case *ast.ImportDecl:
		for _, spec := range n.Specifiers {
			r.declare(spec.As, BindImport, n.Start)
		}
	case *ast.ExportDecl:
		if n.Decl != nil {
			r.resolveStmt(n.Decl)
		}
		for _, spec := range n.Specifiers {
			r.resolveIdentRef(&ast.Identifier{Name: spec.Name, Start: n.Start})
		}
	case *ast.ExportDefault:
		r.resolveExpr(n.X)
	}
}

func (r *resolver) bindForTarget(target ast.Pattern, isDecl bool, kind ast.DeclKind) {
	if isDecl {
		r.declarePattern(target, declBindingKind(kind))
	} else {
		r.referencePattern(target)
	}
}

func declBindingKind(k ast.DeclKind) BindingKind {
	switch k {
	case ast.DeclLet:
		return BindLet
	case ast.DeclConst:
		return BindConst
	default:
		return BindVar
	}
}

func (r *resolver) resolveVarDecl(n *ast.VarDecl) {
	kind := declBindingKind(n.Kind)
	for _, d := range n.Decls {
		if d.Init != nil {
			r.resolveExpr(d.Init)
		}
		r.declarePattern(d.Target, kind)
	}
}

// resolveVarDeclNoPush is identical to resolveVarDecl, used when the
// enclosing scope was already pushed by the caller (classic for-header).
func (r *resolver) resolveVarDeclNoPush(n *ast.VarDecl) { r.resolveVarDecl(n) }

func (r *resolver) resolveFunction(fn *ast.FunctionExpr) {
	r.push()
	for _, p := range fn.Sig.Params {
		r.declarePattern(p, BindParameter)
	}
	for _, st := range fn.Body.Stmts {
		r.resolveStmt(st)
	}
	r.pop()
}

func (r *resolver) resolveClass(cls *ast.ClassExpr) {
	if cls.Super != nil {
		r.resolveExpr(cls.Super)
	}
	for _, m := range cls.Body.Methods {
		if m.Computed {
			r.resolveExpr(m.Key)
		}
		r.resolveFunction(m.Fn)
	}
}

func (r *resolver) resolveExpr(e ast.Expr) {
	if e == nil {
		return
	}
	switch n := e.(type) {
	case *ast.Identifier:
		r.resolveIdentRef(n)
	case *ast.Literal, *ast.ThisExpr, *ast.SuperExpr:
		// no bindings
	case *ast.Template:
		for _, sub := range n.Exprs {
			r.resolveExpr(sub)
		}
	case *ast.ArrayExpr:
		for _, it := range n.Items {
			r.resolveExpr(it)
		}
	case *ast.SpreadElement:
		r.resolveExpr(n.Arg)
	case *ast.ObjectExpr:
		for _, p := range n.Props {
			if p.Computed {
				r.resolveExpr(p.Key)
			}
			if !p.Shorthand {
				r.resolveExpr(p.Value)
			} else if id, ok := p.Value.(*ast.Identifier); ok {
				r.resolveIdentRef(id)
			}
		}
	case *ast.FunctionExpr:
		if n.Name != nil {
			r.declare(n.Name.Name, BindFunction, n.Name.Start)
		}
		r.resolveFunction(n)
	case *ast.ClassExpr:
		r.resolveClass(n)
	case *ast.NewExpr:
		r.resolveExpr(n.Callee)
		for _, a := range n.Args {
			r.resolveExpr(a)
		}
	case *ast.CallExpr:
		r.resolveExpr(n.Fn)
		for _, a := range n.Args {
			r.resolveExpr(a)
		}
	case *ast.MemberExpr:
		r.resolveExpr(n.Obj)
		if n.Computed {
			r.resolveExpr(n.Prop)
		}
	case *ast.AssignExpr:
		r.resolveExpr(n.Right)
		r.resolveAssignTarget(n.Left)
	case *ast.BinaryExpr:
		r.resolveExpr(n.Left)
		r.resolveExpr(n.Right)
	case *ast.LogicalExpr:
		r.resolveExpr(n.Left)
		r.resolveExpr(n.Right)
	case *ast.UnaryExpr:
		r.resolveExpr(n.Arg)
	case *ast.UpdateExpr:
		r.resolveExpr(n.Arg)
	case *ast.ConditionalExpr:
		r.resolveExpr(n.Test)
		r.resolveExpr(n.Cons)
		r.resolveExpr(n.Alt)
	case *ast.YieldExpr:
		if n.Arg != nil {
			r.resolveExpr(n.Arg)
		}
	case *ast.ImportExpr:
		r.resolveExpr(n.Source)
	}
}

// resolveAssignTarget handles the left side of `=`, which may be a
// reference (identifier/member) or, for plain `=`, a destructuring literal.
func (r *resolver) resolveAssignTarget(left ast.Expr) {
	switch t := left.(type) {
	case *ast.Identifier:
		r.resolveIdentRef(t)
	case *ast.MemberExpr:
		r.resolveExpr(t)
	case *ast.ObjectExpr, *ast.ArrayExpr:
		// destructuring assignment to an existing binding: every identifier
		// appearing as a pattern leaf must already be declared.
		r.resolveExpr(left)
	}
}
