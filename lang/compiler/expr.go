package compiler

import (
	"github.com/mna/aheadc/lang/ast"
	"github.com/mna/aheadc/lang/opcode"
	"github.com/mna/aheadc/lang/parser"
)

var binaryOps = map[string]opcode.Op{
	"+": opcode.ADD, "-": opcode.SUB, "*": opcode.MUL, "/": opcode.DIV, "%": opcode.MOD,
	"**": opcode.POW,
	"==": opcode.EQ, "!=": opcode.NEQ, "===": opcode.STRICT_EQ, "!==": opcode.STRICT_NEQ,
	"<": opcode.LT, "<=": opcode.LTE, ">": opcode.GT, ">=": opcode.GTE,
	"&": opcode.BIT_AND, "|": opcode.BIT_OR, "^": opcode.BIT_XOR,
	"<<": opcode.SHL, ">>": opcode.SHR, ">>>": opcode.SHR, // no dedicated opcode: >>> lowers to SHR
	"in":         opcode.IN_OP,
	"instanceof": opcode.INSTANCEOF,
}

var unaryOps = map[string]opcode.Op{
	"!": opcode.NOT, "-": opcode.NEG, "+": opcode.POS, "~": opcode.BIT_NOT,
	"typeof": opcode.TYPEOF, "await": opcode.AWAIT,
}

func (e *emitter) emitExpr(x ast.Expr) {
	switch n := x.(type) {
	case *ast.Literal:
		e.emitLiteral(n)
	case *ast.Identifier:
		if hostAllowlist[n.Name] {
			e.emitIndex(opcode.GET_HOST, e.pool.str(n.Name))
		} else {
			e.emitLoadVar(n.Name)
		}
	case *ast.ThisExpr:
		e.emitLoadVar("this")
	case *ast.SuperExpr:
		fail("compiler: `super` is only valid as a call or member target")
	case *ast.Template:
		e.emitTemplate(n)
	case *ast.ArrayExpr:
		e.emitArrayExpr(n)
	case *ast.ObjectExpr:
		e.emitObjectExpr(n)
	case *ast.FunctionExpr:
		e.emitFunctionExprValue(n)
	case *ast.ClassExpr:
		e.emitClassExpr(n)
	case *ast.NewExpr:
		e.emitNewExpr(n)
	case *ast.CallExpr:
		e.emitCallExpr(n)
	case *ast.MemberExpr:
		e.emitMemberGet(n)
	case *ast.AssignExpr:
		e.emitAssignExpr(n)
	case *ast.BinaryExpr:
		e.emitExpr(n.Left)
		e.emitExpr(n.Right)
		op, ok := binaryOps[n.Op]
		if !ok {
			fail("compiler: unsupported binary operator %q", n.Op)
		}
		e.emit(op)
	case *ast.LogicalExpr:
		e.emitLogicalExpr(n)
	case *ast.UnaryExpr:
		e.emitUnaryExpr(n)
	case *ast.UpdateExpr:
		e.emitUpdateExpr(n)
	case *ast.ConditionalExpr:
		e.emitConditionalExpr(n)
	case *ast.YieldExpr:
		e.emitYieldExpr(n)
	case *ast.ImportExpr:
		e.emitExpr(n.Source)
		e.emit(opcode.IMPORT_DYNAMIC)
	case *ast.SpreadElement:
		// A bare SpreadElement only reaches emitExpr when a caller forgot to
		// special-case it in an argument/element list.
		fail("compiler: spread element outside of an argument or element list")
	default:
		fail("compiler: unsupported expression node %T", x)
	}
}

func (e *emitter) emitLiteral(n *ast.Literal) {
	switch n.Kind {
	case ast.LitNumber:
		e.pushConst(Const{Kind: ConstNumber, Num: n.Number})
	case ast.LitBigInt:
		e.pushConst(Const{Kind: ConstBigInt, BigInt: n.BigInt})
	case ast.LitString:
		e.pushConst(Const{Kind: ConstString, Str: n.Str})
	case ast.LitBool:
		e.pushConst(Const{Kind: ConstBool, Bool: n.Bool})
	case ast.LitNull:
		e.pushNull()
	case ast.LitUndefined:
		e.pushUndefined()
	default:
		fail("compiler: unsupported literal kind %v", n.Kind)
	}
}

// emitTemplate lowers a template literal per spec §8's round-trip law: the
// leading quasi, then for each expression a (expr, next-quasi, ADD, ADD)
// group — the expression and the quasi after it are combined first, then
// folded into the accumulated result.
func (e *emitter) emitTemplate(n *ast.Template) {
	e.pushConst(Const{Kind: ConstString, Str: n.Quasis[0]})
	for i, ex := range n.Exprs {
		e.emitExpr(ex)
		e.pushConst(Const{Kind: ConstString, Str: n.Quasis[i+1]})
		e.emit(opcode.ADD)
		e.emit(opcode.ADD)
	}
}

// emitLogicalExpr lowers `&&`, `||` and `??` per spec §4.4 "Logical
// operators": evaluate left, conditionally branch past the right side; the
// result is whichever operand remained. `&&`/`||` test a DUP'd copy of the
// left value since JZ/JNZ consume their operand; `??` tests IS_NULLISH
// instead, which per opcode.go never consumes its operand, so no DUP is
// needed there: the left value alone survives the jump either way.
func (e *emitter) emitLogicalExpr(n *ast.LogicalExpr) {
	e.emitExpr(n.Left)
	switch n.Op {
	case "&&":
		e.emit(opcode.DUP)
		jz := e.emitJump(opcode.JZ)
		e.emit(opcode.POP)
		e.emitExpr(n.Right)
		e.patchHere(jz)
	case "||":
		e.emit(opcode.DUP)
		jnz := e.emitJump(opcode.JNZ)
		e.emit(opcode.POP)
		e.emitExpr(n.Right)
		e.patchHere(jnz)
	case "??":
		// Per Open Question 1: IS_NULLISH pushes true if the left value
		// (still on the stack beneath it) is nullish. JZ pops that bool and
		// jumps past the pop+evaluate-right when it's false, i.e. when the
		// left side is NOT nullish, leaving the left value as the result.
		e.emit(opcode.IS_NULLISH)
		jz := e.emitJump(opcode.JZ)
		e.emit(opcode.POP)
		e.emitExpr(n.Right)
		e.patchHere(jz)
	default:
		fail("compiler: unsupported logical operator %q", n.Op)
	}
}

func (e *emitter) emitUnaryExpr(n *ast.UnaryExpr) {
	switch n.Op {
	case "void":
		e.emitExpr(n.Arg)
		e.emit(opcode.POP)
		e.pushUndefined()
	case "delete":
		m, ok := n.Arg.(*ast.MemberExpr)
		if !ok {
			fail("compiler: delete requires a member expression target")
		}
		e.emitExpr(m.Obj)
		if m.Computed {
			e.emitExpr(m.Prop)
		} else {
			e.pushConst(Const{Kind: ConstString, Str: propName(m.Prop)})
		}
		e.emit(opcode.DELETE_PROP)
	default:
		op, ok := unaryOps[n.Op]
		if !ok {
			fail("compiler: unsupported unary operator %q", n.Op)
		}
		e.emitExpr(n.Arg)
		e.emit(op)
	}
}

// emitUpdateExpr lowers `++`/`--`, prefix or postfix, on an identifier or
// member target, per spec §4.4 "Update". STORE_VAR (and SET_PROP/
// SET_PROP_COMPUTED) always consume exactly the top of stack, so whichever
// value sits beneath it survives as the expression's result: a postfix DUP
// happens before the arithmetic (saving the old value underneath), a
// prefix DUP happens after (saving the new one).
func (e *emitter) emitUpdateExpr(n *ast.UpdateExpr) {
	delta := Const{Kind: ConstNumber, Num: 1}
	op := opcode.ADD
	if n.Op == "--" {
		op = opcode.SUB
	}
	switch t := n.Arg.(type) {
	case *ast.Identifier:
		e.emitLoadVar(t.Name)
		if !n.Prefix {
			e.emit(opcode.DUP)
		}
		e.pushConst(delta)
		e.emit(op)
		if n.Prefix {
			e.emit(opcode.DUP)
		}
		e.emitStoreVar(t.Name)
	case *ast.MemberExpr:
		e.emitExpr(t.Obj)
		objTmp := e.spillToSynthetic("$updobj")
		e.emit(opcode.POP)
		var keyTmp string
		if t.Computed {
			e.emitExpr(t.Prop)
			keyTmp = e.spillToSynthetic("$updkey")
			e.emit(opcode.POP)
		}
		e.emitLoadVar(objTmp)
		if t.Computed {
			e.emitLoadVar(keyTmp)
			e.emit(opcode.GET_PROP_COMPUTED)
		} else {
			e.emitIndex(opcode.GET_PROP, e.pool.str(propName(t.Prop)))
		}
		if !n.Prefix {
			e.emit(opcode.DUP)
		}
		e.pushConst(delta)
		e.emit(op)
		if n.Prefix {
			e.emit(opcode.DUP)
		}
		// Re-load obj/key from their temporaries: SET_PROP(_COMPUTED) only
		// ever looks at the top of the stack, so the result value sitting
		// beneath the freshly-pushed obj/key is left untouched.
		e.emitLoadVar(objTmp)
		if t.Computed {
			e.emitLoadVar(keyTmp)
			e.emit(opcode.SET_PROP_COMPUTED)
		} else {
			e.emitIndex(opcode.SET_PROP, e.pool.str(propName(t.Prop)))
		}
	default:
		fail("compiler: unsupported update target %T", n.Arg)
	}
}

func (e *emitter) emitConditionalExpr(n *ast.ConditionalExpr) {
	e.emitExpr(n.Test)
	jz := e.emitJump(opcode.JZ)
	e.emitExpr(n.Cons)
	jmp := e.emitJump(opcode.JMP)
	e.patchHere(jz)
	e.emitExpr(n.Alt)
	e.patchHere(jmp)
}

func (e *emitter) emitYieldExpr(n *ast.YieldExpr) {
	if n.Arg != nil {
		e.emitExpr(n.Arg)
	} else {
		e.pushUndefined()
	}
	if n.Delegate {
		e.emit(opcode.YIELD_DELEGATE)
	} else {
		e.emit(opcode.YIELD)
	}
}

// -- member access / calls --

func (e *emitter) emitMemberGet(n *ast.MemberExpr) {
	if _, ok := n.Obj.(*ast.SuperExpr); ok {
		// A bare `super.name` read (not a call) reaches into the current
		// instance, since INVOKE_SUPER is a call-only opcode.
		e.emitLoadVar("this")
	} else {
		e.emitExpr(n.Obj)
	}
	if n.Computed {
		e.emitExpr(n.Prop)
		e.emit(opcode.GET_PROP_COMPUTED)
	} else {
		e.emitIndex(opcode.GET_PROP, e.pool.str(propName(n.Prop)))
	}
}

func (e *emitter) emitCallExpr(n *ast.CallExpr) {
	if _, ok := n.Fn.(*ast.SuperExpr); ok {
		cls := e.currentClass()
		if cls == nil || !cls.hasSuper {
			fail("compiler: super() call outside of a subclass constructor")
		}
		e.emitArgsReverse(n.Args)
		e.emitIndex(opcode.CALL, uint32(len(n.Args)))
		e.emit(opcode.SUPER_CTOR)
		return
	}
	if m, ok := n.Fn.(*ast.MemberExpr); ok {
		if _, ok := m.Obj.(*ast.SuperExpr); ok {
			cls := e.currentClass()
			if cls == nil || !cls.hasSuper {
				fail("compiler: super member call outside of a subclass method")
			}
			e.emitArgsReverse(n.Args)
			e.emitIndex(opcode.CALL, uint32(len(n.Args)))
			e.emit(opcode.INVOKE_SUPER)
			return
		}
	}
	if id, ok := n.Fn.(*ast.Identifier); ok && hostAllowlist[id.Name] {
		e.emitArgsReverse(n.Args)
		e.emitIndex(opcode.CALL_HOST, e.pool.str(id.Name))
		return
	}
	e.emitArgsReverse(n.Args)
	e.emitExpr(n.Fn)
	e.emitIndex(opcode.CALL, uint32(len(n.Args)))
}

// emitArgsReverse evaluates call arguments in reverse source order and
// pushes them, per spec §4.4 "Calls". A spread argument is expanded at
// runtime from the single iterable pushed here.
func (e *emitter) emitArgsReverse(args []ast.Expr) {
	for i := len(args) - 1; i >= 0; i-- {
		if sp, ok := args[i].(*ast.SpreadElement); ok {
			e.emitExpr(sp.Arg)
			continue
		}
		e.emitExpr(args[i])
	}
}

func (e *emitter) emitNewExpr(n *ast.NewExpr) {
	e.emitArgsReverse(n.Args)
	e.emitExpr(n.Callee)
	e.emitIndex(opcode.CALL, uint32(len(n.Args)))
}

// -- literals that need element/property evaluation --

func (e *emitter) emitArrayExpr(n *ast.ArrayExpr) {
	for _, item := range n.Items {
		if item == nil {
			e.pushUndefined()
			continue
		}
		if sp, ok := item.(*ast.SpreadElement); ok {
			e.emitExpr(sp.Arg)
			continue
		}
		e.emitExpr(item)
	}
	e.emitIndex(opcode.NEW_ARRAY, uint32(len(n.Items)))
}

// emitObjectExpr lowers an object literal: NEW_OBJECT followed by one
// SET_PROP(_COMPUTED)/POP-spread pair per property, in source order.
// Getters/setters declared in an object literal (as opposed to a class
// body) carry no dedicated opcode in this encoding; they lower like any
// other method-valued data property (see DESIGN.md).
func (e *emitter) emitObjectExpr(n *ast.ObjectExpr) {
	e.emit(opcode.NEW_OBJECT)
	for _, p := range n.Props {
		if p.Kind == ast.PropSpread {
			e.emit(opcode.POP)
			e.emitExpr(p.Value)
			continue
		}
		e.emit(opcode.DUP)
		e.emitExpr(p.Value)
		if p.Computed {
			e.emitExpr(p.Key)
			e.emit(opcode.SET_PROP_COMPUTED)
		} else {
			e.emitIndex(opcode.SET_PROP, e.pool.str(propName(p.Key)))
		}
	}
}

func (e *emitter) emitFunctionExprValue(fn *ast.FunctionExpr) {
	skip := e.emitJump(opcode.JMP)
	start := e.offset()
	e.emitFunctionBody(fn)
	e.patchHere(skip)
	e.pushConst(Const{Kind: ConstFuncRef, Num: float64(start)})
}

// -- assignment --

// emitAssignExpr lowers `=` and every compound-assignment operator per
// spec §4.4 "Compound assignment".
func (e *emitter) emitAssignExpr(n *ast.AssignExpr) {
	if n.Op == "=" {
		e.emitExpr(n.Right)
		e.emit(opcode.DUP)
		e.emitAssignTo(n.Left)
		return
	}
	if logicalCompound[n.Op] {
		e.emitLogicalCompoundAssign(n)
		return
	}
	op, ok := binaryOps[compoundBase[n.Op]]
	if !ok {
		fail("compiler: unsupported compound assignment operator %q", n.Op)
	}
	switch t := n.Left.(type) {
	case *ast.Identifier:
		e.emitLoadVar(t.Name)
		e.emitExpr(n.Right)
		e.emit(op)
		e.emit(opcode.DUP)
		e.emitStoreVar(t.Name)
	case *ast.MemberExpr:
		e.emitExpr(t.Obj)
		objTmp := e.spillToSynthetic("$asgobj")
		e.emit(opcode.POP)
		var keyTmp string
		if t.Computed {
			e.emitExpr(t.Prop)
			keyTmp = e.spillToSynthetic("$asgkey")
			e.emit(opcode.POP)
		}
		e.emitLoadVar(objTmp)
		if t.Computed {
			e.emitLoadVar(keyTmp)
			e.emit(opcode.GET_PROP_COMPUTED)
		} else {
			e.emitIndex(opcode.GET_PROP, e.pool.str(propName(t.Prop)))
		}
		e.emitExpr(n.Right)
		e.emit(op)
		e.emit(opcode.DUP)
		e.emitLoadVar(objTmp)
		if t.Computed {
			e.emitLoadVar(keyTmp)
			e.emit(opcode.SET_PROP_COMPUTED)
		} else {
			e.emitIndex(opcode.SET_PROP, e.pool.str(propName(t.Prop)))
		}
	default:
		fail("compiler: unsupported compound-assignment target %T", n.Left)
	}
}

var compoundBase = map[string]string{
	"+=": "+", "-=": "-", "*=": "*", "/=": "/", "%=": "%", "**=": "**",
	"<<=": "<<", ">>=": ">>", ">>>=": ">>>",
	"&=": "&", "|=": "|", "^=": "^",
}

var logicalCompound = map[string]bool{"&&=": true, "||=": true, "??=": true}

// emitLogicalCompoundAssign lowers `&&= ||= ??=`, which must short-circuit:
// load the target, conditionally skip past evaluating and storing the
// right side.
func (e *emitter) emitLogicalCompoundAssign(n *ast.AssignExpr) {
	id, ok := n.Left.(*ast.Identifier)
	if !ok {
		fail("compiler: logical compound assignment requires an identifier target")
	}
	e.emitLoadVar(id.Name)
	var jmp int
	switch n.Op {
	case "&&=":
		e.emit(opcode.DUP)
		jmp = e.emitJump(opcode.JZ)
	case "||=":
		e.emit(opcode.DUP)
		jmp = e.emitJump(opcode.JNZ)
	case "??=":
		// IS_NULLISH doesn't consume the loaded value, so unlike &&=/||= no
		// DUP is needed: JZ pops the bool and skips the pop+evaluate+store
		// when the current value is NOT nullish, leaving it as the result.
		e.emit(opcode.IS_NULLISH)
		jmp = e.emitJump(opcode.JZ)
	}
	e.emit(opcode.POP)
	e.emitExpr(n.Right)
	e.emit(opcode.DUP)
	e.emitStoreVar(id.Name)
	e.patchHere(jmp)
}

// emitAssignTo consumes the value already duplicated on top of stack and
// stores it into target, which may be an identifier, a member expression,
// or (plain `=` only) a destructuring pattern parsed as an expression.
func (e *emitter) emitAssignTo(target ast.Expr) {
	switch t := target.(type) {
	case *ast.Identifier:
		e.emitStoreVar(t.Name)
	case *ast.MemberExpr:
		e.emitExpr(t.Obj)
		if t.Computed {
			e.emitExpr(t.Prop)
			e.emit(opcode.SET_PROP_COMPUTED)
		} else {
			e.emitIndex(opcode.SET_PROP, e.pool.str(propName(t.Prop)))
		}
	case *ast.ObjectExpr, *ast.ArrayExpr:
		pat := parser.ExprToPattern(t)
		if pat == nil {
			fail("compiler: unsupported destructuring assignment target %T", target)
		}
		e.emitBindPattern(pat)
	default:
		fail("compiler: unsupported assignment target %T", target)
	}
}
