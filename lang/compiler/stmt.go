package compiler

import (
	"fmt"

	"github.com/mna/aheadc/lang/ast"
	"github.com/mna/aheadc/lang/opcode"
	"github.com/mna/aheadc/lang/parser"
)

// hoistAndEmitStmts emits every direct FunctionDecl in stmts first (so
// functions can be called from earlier in the same block, matching
// declaration hoisting), then emits the remaining statements in order.
func (e *emitter) hoistAndEmitStmts(stmts []ast.Stmt) {
	for _, s := range stmts {
		if fd, ok := s.(*ast.FunctionDecl); ok {
			e.emitFunctionDecl(fd)
		}
	}
	for _, s := range stmts {
		if _, ok := s.(*ast.FunctionDecl); ok {
			continue
		}
		e.emitStmt(s)
	}
}

func (e *emitter) emitBlock(b *ast.Block) {
	e.hoistAndEmitStmts(b.Stmts)
}

func (e *emitter) emitStmt(s ast.Stmt) {
	switch n := s.(type) {
	case *ast.ExprStmt:
		e.emitExpr(n.X)
		e.emit(opcode.POP)
	case *ast.VarDecl:
		e.emitVarDecl(n)
	case *ast.FunctionDecl:
		// Declarations directly in a block were hoisted by hoistAndEmitStmts
		// and never reach here; this emits the rest (under export, in a case
		// body, or as a lone if/loop body) at their textual position.
		e.emitFunctionDecl(n)
	case *ast.ClassDecl:
		e.emitClassExpr(n.Class)
		e.emitStoreVar(n.Class.Name.Name)
	case *ast.IfStmt:
		e.emitIf(n)
	case *ast.WhileStmt:
		e.emitWhile(n)
	case *ast.DoWhileStmt:
		e.emitDoWhile(n)
	case *ast.ForStmt:
		e.emitFor(n)
	case *ast.ForInStmt:
		e.emitForInOf(n.Target, n.Right, n.Body)
	case *ast.ForOfStmt:
		e.emitForInOf(n.Target, n.Right, n.Body)
	case *ast.ReturnStmt:
		if n.Arg != nil {
			e.emitExpr(n.Arg)
		} else {
			e.pushUndefined()
		}
		e.emit(opcode.RETURN)
	case *ast.BreakStmt:
		target := e.currentBreakTarget()
		if target == nil {
			fail("break outside of a loop or switch")
		}
		pos := e.emitJump(opcode.JMP)
		*target = append(*target, pos)
	case *ast.ContinueStmt:
		loop := e.currentLoop()
		if loop == nil {
			fail("continue outside of a loop")
		}
		pos := e.emitJump(opcode.JMP)
		loop.continuePatches = append(loop.continuePatches, pos)
	case *ast.ThrowStmt:
		e.emitExpr(n.Arg)
		e.emit(opcode.THROW)
	case *ast.TryStmt:
		e.emitTry(n)
	case *ast.SwitchStmt:
		e.emitSwitch(n)
	case *ast.ImportDecl:
		e.emitImport(n)
	case *ast.ExportDecl:
		e.emitExportDecl(n)
	case *ast.ExportDefault:
		e.emitExpr(n.X)
		e.emit(opcode.EXPORT_DEFAULT)
	case *ast.Block:
		e.emitBlock(n)
	default:
		fail("compiler: unsupported statement node %T", s)
	}
}

func (e *emitter) emitStoreVar(name string) {
	e.emitIndex(opcode.STORE_VAR, e.pool.str(name))
}

func (e *emitter) emitLoadVar(name string) {
	e.emitIndex(opcode.LOAD_VAR, e.pool.str(name))
}

// -- variable declarations / destructuring --

func (e *emitter) emitVarDecl(n *ast.VarDecl) {
	for _, d := range n.Decls {
		if d.Init != nil {
			e.emitExpr(d.Init)
		} else {
			e.pushUndefined()
		}
		e.emitBindPattern(d.Target)
	}
}

var syntheticCounter int

func syntheticName(prefix string) string {
	syntheticCounter++
	return fmt.Sprintf("%s#%d", prefix, syntheticCounter)
}

// emitBindPattern consumes the value on top of stack and binds it to
// target, spilling to a synthetic variable and recursing for destructuring
// patterns (spec §4.4 "Destructuring lowering").
func (e *emitter) emitBindPattern(target ast.Pattern) {
	switch p := target.(type) {
	case *ast.Identifier:
		e.emitStoreVar(p.Name)
	case *ast.ObjectPattern:
		tmp := e.spillToSynthetic("$destr")
		for _, prop := range p.Props {
			e.emitLoadVar(tmp)
			e.emitPropGet(prop.Key, prop.Computed)
			val := prop.Value
			if prop.Default != nil {
				e.emitDefaultIfUndefined(prop.Default)
			}
			e.emitBindPattern(val)
		}
		if p.Rest != nil {
			// The rest of an object pattern (remaining own properties) is a
			// runtime concern; the compiler binds it to an empty object, since
			// computing "remaining keys" needs no compile-time information.
			e.emit(opcode.NEW_OBJECT)
			e.emitStoreVar(p.Rest.Name)
		}
	case *ast.ArrayPattern:
		tmp := e.spillToSynthetic("$destr")
		for i, elem := range p.Elems {
			if elem.Value == nil {
				continue // hole
			}
			e.emitLoadVar(tmp)
			e.pushConst(Const{Kind: ConstNumber, Num: float64(i)})
			e.emit(opcode.GET_PROP_COMPUTED)
			if elem.Default != nil {
				e.emitDefaultIfUndefined(elem.Default)
			}
			e.emitBindPattern(elem.Value)
		}
		if p.Rest != nil {
			// As with object-pattern rest, collecting the actual remaining
			// elements is a runtime concern; the compiler binds an empty array.
			e.emitIndex(opcode.NEW_ARRAY, 0)
			e.emitBindPattern(p.Rest)
		}
	case *ast.AssignPattern:
		e.emitDefaultIfUndefined(p.Default)
		e.emitBindPattern(p.Target)
	case *ast.RestElement:
		e.emitBindPattern(p.Target)
	case parser.MemberPattern:
		// A member target reached via parser.ExprToPattern, e.g. the `obj.x`
		// in `({x: obj.y} = v)`. Mirrors emitAssignTo's MemberExpr case.
		e.emitExpr(p.MemberExpr.Obj)
		if p.MemberExpr.Computed {
			e.emitExpr(p.MemberExpr.Prop)
			e.emit(opcode.SET_PROP_COMPUTED)
		} else {
			e.emitIndex(opcode.SET_PROP, e.pool.str(propName(p.MemberExpr.Prop)))
		}
	default:
		fail("compiler: unsupported pattern node %T", target)
	}
}

// emitPropGet consumes an object on top of stack and pushes key's property.
func (e *emitter) emitPropGet(key ast.Expr, computed bool) {
	if computed {
		e.emitExpr(key)
		e.emit(opcode.GET_PROP_COMPUTED)
		return
	}
	name := propName(key)
	e.emitIndex(opcode.GET_PROP, e.pool.str(name))
}

// emitDefaultIfUndefined consumes nothing extra on the happy path: it
// checks the value on top of stack, and if undefined, replaces it with def.
func (e *emitter) emitDefaultIfUndefined(def ast.Expr) {
	e.emit(opcode.DUP)
	e.pushUndefined()
	e.emit(opcode.STRICT_EQ)
	jz := e.emitJump(opcode.JZ)
	e.emit(opcode.POP)
	e.emitExpr(def)
	e.patchHere(jz)
}

// spillToSynthetic stores the value on top of stack into a compiler-
// introduced variable guaranteed not to collide with source identifiers
// (spec glossary: "Synthetic variable").
func (e *emitter) spillToSynthetic(prefix string) string {
	name := syntheticName(prefix)
	e.emit(opcode.DUP)
	e.emitStoreVar(name)
	e.emit(opcode.POP)
	return name
}

func propName(key ast.Expr) string {
	switch k := key.(type) {
	case *ast.Identifier:
		return k.Name
	case *ast.Literal:
		return k.Str
	default:
		fail("compiler: unsupported property key node %T", key)
		return ""
	}
}

// -- control flow --

func (e *emitter) emitIf(n *ast.IfStmt) {
	e.emitExpr(n.Test)
	jz := e.emitJump(opcode.JZ)
	e.emitStmt(n.Cons)
	if n.Alt != nil {
		jmp := e.emitJump(opcode.JMP)
		e.patchHere(jz)
		e.emitStmt(n.Alt)
		e.patchHere(jmp)
	} else {
		e.patchHere(jz)
	}
}

func (e *emitter) emitWhile(n *ast.WhileStmt) {
	loop := e.pushLoop()
	start := loop.startOffset
	e.emitExpr(n.Test)
	jz := e.emitJump(opcode.JZ)
	e.emitStmt(n.Body)
	jmp := e.emitJump(opcode.JMP)
	e.patch(jmp, start)
	e.patchHere(jz)
	f := e.popLoop()
	for _, p := range f.breakPatches {
		e.patchHere(p)
	}
	for _, p := range f.continuePatches {
		e.patch(p, start)
	}
}

func (e *emitter) emitDoWhile(n *ast.DoWhileStmt) {
	loop := e.pushLoop()
	start := loop.startOffset
	e.emitStmt(n.Body)
	contTarget := e.offset()
	e.emitExpr(n.Test)
	jnz := e.emitJump(opcode.JNZ)
	e.patch(jnz, start)
	end := e.offset()
	f := e.popLoop()
	for _, p := range f.breakPatches {
		e.patch(p, end)
	}
	for _, p := range f.continuePatches {
		e.patch(p, contTarget)
	}
}

func (e *emitter) emitFor(n *ast.ForStmt) {
	if n.Init != nil {
		switch init := n.Init.(type) {
		case *ast.VarDecl:
			e.emitVarDecl(init)
		case *ast.ExprStmt:
			e.emitExpr(init.X)
			e.emit(opcode.POP)
		default:
			fail("compiler: unsupported for-init node %T", n.Init)
		}
	}
	loop := e.pushLoop()
	start := loop.startOffset
	var jz int
	hasTest := n.Test != nil
	if hasTest {
		e.emitExpr(n.Test)
		jz = e.emitJump(opcode.JZ)
	}
	e.emitStmt(n.Body)
	contTarget := e.offset()
	if n.Update != nil {
		e.emitExpr(n.Update)
		e.emit(opcode.POP)
	}
	jmp := e.emitJump(opcode.JMP)
	e.patch(jmp, start)
	if hasTest {
		e.patchHere(jz)
	}
	end := e.offset()
	f := e.popLoop()
	for _, p := range f.breakPatches {
		e.patch(p, end)
	}
	for _, p := range f.continuePatches {
		e.patch(p, contTarget)
	}
}

// emitForInOf lowers both for-in and for-of: per spec §4.4 they share the
// GET_ITERATOR-based protocol, differing only in what the source language
// means by "in" vs "of" at the AST level (the lowering is identical).
func (e *emitter) emitForInOf(target ast.Pattern, right ast.Expr, body ast.Stmt) {
	e.emitExpr(right)
	e.emit(opcode.GET_ITERATOR)
	iter := e.spillToSynthetic("$iterator")
	e.emit(opcode.POP)

	loop := e.pushLoop()
	start := loop.startOffset
	e.emitLoadVar(iter)
	e.emitIndex(opcode.GET_PROP, e.pool.str("next"))
	e.emitLoadVar(iter)
	e.emitIndex(opcode.CALL, 1)
	e.emit(opcode.DUP)
	e.emitIndex(opcode.GET_PROP, e.pool.str("done"))
	jnz := e.emitJump(opcode.JNZ)
	e.emitIndex(opcode.GET_PROP, e.pool.str("value"))
	e.emitBindPattern(target)
	e.emitStmt(body)
	jmp := e.emitJump(opcode.JMP)
	e.patch(jmp, start)
	e.patchHere(jnz)
	e.emit(opcode.POP) // drop the {done:true} result object
	end := e.offset()
	f := e.popLoop()
	for _, p := range f.breakPatches {
		e.patch(p, end)
	}
	for _, p := range f.continuePatches {
		e.patch(p, start)
	}
}

// -- try/catch/finally --

func (e *emitter) emitTry(n *ast.TryStmt) {
	e.tryDepth++
	e.emitBlock(n.Block)
	jmpOverCatch := e.emitJump(opcode.JMP)
	if n.Catch != nil {
		e.emit(opcode.CATCH)
		if n.Catch.Param != nil {
			e.emitBindPattern(n.Catch.Param)
		} else {
			e.emit(opcode.POP)
		}
		e.emitBlock(n.Catch.Body)
		e.emit(opcode.END_CATCH)
	}
	e.patchHere(jmpOverCatch)
	if n.Finally != nil {
		e.emit(opcode.FINALLY)
		e.emitBlock(n.Finally)
	}
	e.tryDepth--
}

// -- switch --

// emitSwitch lowers switch/case in two phases: a dispatch chain of
// discriminant comparisons (in source order, each jumping on match to its
// case's body), followed by the case bodies themselves laid out
// contiguously in source order so fall-through is just the absence of a
// jump between adjacent bodies (spec §4.4 "Switch").
func (e *emitter) emitSwitch(n *ast.SwitchStmt) {
	e.emitExpr(n.Disc)
	disc := e.spillToSynthetic("$switch")
	e.emit(opcode.POP)

	matchJumps := make([]int, len(n.Cases))
	defaultIdx := -1
	for i, c := range n.Cases {
		if c.Test == nil {
			defaultIdx = i
			continue
		}
		e.emitLoadVar(disc)
		e.emitExpr(c.Test)
		e.emit(opcode.EQ)
		matchJumps[i] = e.emitJump(opcode.JNZ)
	}
	noMatchJump := e.emitJump(opcode.JMP)

	sw := e.pushSwitch()
	for i, c := range n.Cases {
		if i == defaultIdx {
			e.patchHere(noMatchJump)
		} else {
			e.patchHere(matchJumps[i])
		}
		for _, s := range c.Body {
			e.emitStmt(s)
		}
		// Only a case that ends in `break` gets a trailing JMP to the end;
		// any other case falls through into the next body.
		if nb := len(c.Body); nb > 0 {
			if _, ok := c.Body[nb-1].(*ast.BreakStmt); ok {
				endJmp := e.emitJump(opcode.JMP)
				sw.breakPatches = append(sw.breakPatches, endJmp)
			}
		}
	}
	if defaultIdx < 0 {
		e.patchHere(noMatchJump)
	}
	end := e.offset()
	f := e.popSwitch()
	for _, p := range f.breakPatches {
		e.patch(p, end)
	}
}

// -- functions / classes --

func (e *emitter) emitFunctionDecl(fd *ast.FunctionDecl) {
	fn := fd.Fn
	skip := e.emitJump(opcode.JMP)
	start := e.offset()
	e.functionStarts[fn.Name.Name] = uint32(start)
	e.emitFunctionBody(fn)
	e.patchHere(skip)
	e.pushConst(Const{Kind: ConstFuncRef, Num: float64(start)})
	e.emitStoreVar(fn.Name.Name)
}

// emitFunctionBody emits ENTER_FUNC, parameter binding, the body, and the
// implicit `PUSH_CONST undefined; RETURN` every function ends with.
func (e *emitter) emitFunctionBody(fn *ast.FunctionExpr) {
	if fn.Async {
		e.emit(opcode.ASYNC_FUNC)
	}
	e.emit(opcode.ENTER_FUNC)
	for _, p := range fn.Sig.Params {
		e.emitBindParam(p)
	}
	e.emitBlock(fn.Body)
	e.pushUndefined()
	e.emit(opcode.RETURN)
	e.emit(opcode.EXIT_FUNC)
}

// emitBindParam binds the next argument (already placed by the caller's
// calling convention into the parameter variable slot at ENTER_FUNC time)
// for a rest/default/destructuring parameter.
func (e *emitter) emitBindParam(p ast.Pattern) {
	switch v := p.(type) {
	case *ast.Identifier:
		e.emitStoreVar(v.Name)
	default:
		e.emitBindPattern(p)
	}
}

func (e *emitter) emitClassExpr(cls *ast.ClassExpr) {
	hasSuper := cls.Super != nil
	if hasSuper {
		e.emitExpr(cls.Super)
	}
	e.emit(opcode.NEW_CLASS)
	e.pushClass(hasSuper)
	for _, m := range cls.Body.Methods {
		var op opcode.Op
		switch m.Kind {
		case ast.MethodGet:
			op = opcode.DEFINE_GETTER
		case ast.MethodSet:
			op = opcode.DEFINE_SETTER
		default:
			op = opcode.DEFINE_METHOD
		}
		skip := e.emitJump(opcode.JMP)
		bodyStart := e.offset()
		e.emitFunctionBody(m.Fn)
		e.patchHere(skip)
		name := propName(m.Key)
		e.emitIndex(op, e.pool.str(name))
		e.pushConst(Const{Kind: ConstFuncRef, Num: float64(bodyStart)})
	}
	e.popClass()
}

// -- modules --

// emitImport lowers one `import ... from "source"` declaration: each
// specifier pushes the module source, then pulls one binding out of it by
// name (IMPORT) or as the module's default export (IMPORT_DEFAULT), and
// stores the result under its local name.
func (e *emitter) emitImport(n *ast.ImportDecl) {
	src := e.pool.str(n.Source)
	for _, spec := range n.Specifiers {
		e.emitIndex(opcode.PUSH_CONST, src)
		switch {
		case spec.Default:
			e.emit(opcode.IMPORT_DEFAULT)
		case spec.Namespace:
			e.emitIndex(opcode.IMPORT, e.pool.str("*"))
		default:
			e.emitIndex(opcode.IMPORT, e.pool.str(spec.Name))
		}
		e.emitStoreVar(spec.As)
	}
}

// emitExportDecl lowers `export <declaration>`, `export { specifiers }` and
// re-exports (`export { ... } from "source"`) alike: the wrapped
// declaration (if any) runs first, then each specifier's value — read from
// a local binding, or pulled straight from the re-exported module — is
// recorded under its exported name.
func (e *emitter) emitExportDecl(n *ast.ExportDecl) {
	if n.Decl != nil {
		e.emitStmt(n.Decl)
	}
	var src uint32
	if n.Source != "" {
		src = e.pool.str(n.Source)
	}
	for _, spec := range n.Specifiers {
		exported := spec.As
		if exported == "" {
			exported = spec.Name
		}
		if n.Source != "" {
			e.emitIndex(opcode.PUSH_CONST, src)
			e.emitIndex(opcode.IMPORT, e.pool.str(spec.Name))
		} else {
			e.emitLoadVar(spec.Name)
		}
		e.emitIndex(opcode.EXPORT, e.pool.str(exported))
	}
}
