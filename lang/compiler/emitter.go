// Package compiler lowers a resolved AST (lang/ast, validated by
// lang/resolver) to the shared stack-based bytecode defined by lang/opcode.
// Emission is single-pass with forward jump patches: a jump whose target
// isn't known yet gets a placeholder displacement, and the position of that
// placeholder is remembered until the target offset is established.
package compiler

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/mna/aheadc/lang/ast"
	"github.com/mna/aheadc/lang/opcode"
)

// EmitError is an emission-phase failure: break/continue outside a loop, a
// compound assignment into an unsupported target, a jump displacement
// outside the signed 16-bit range, or an unsupported node kind.
type EmitError struct {
	Msg string
}

func (e *EmitError) Error() string { return e.Msg }

func fail(format string, args ...any) {
	panic(&EmitError{Msg: fmt.Sprintf(format, args...)})
}

// Emit lowers prog to a Program of bytecode plus its constant pool,
// recovering emission-phase panics into a returned error. prog must already
// have passed resolver.Resolve; an unresolved/invalid AST has undefined
// emission behavior.
func Emit(prog *ast.Program) (out *Program, err error) {
	e := newEmitter()
	defer func() {
		if r := recover(); r != nil {
			if ee, ok := r.(*EmitError); ok {
				err = ee
				return
			}
			panic(r)
		}
	}()
	e.hoistAndEmitStmts(prog.Stmts)
	e.emit(opcode.HALT)
	return &Program{Code: e.buf, Constants: e.pool.consts}, nil
}

// loopFrame tracks the state of one enclosing loop: where to jump back to,
// and the positions of break/continue jump placeholders pending patch.
type loopFrame struct {
	startOffset     int
	breakPatches    []int
	continuePatches []int
}

// switchFrame tracks the positions of each case body's trailing JMP to the
// switch's end, per REDESIGN FLAG 4 / spec §9 open question 4. A switch is
// break-able but not continue-able, so it only ever populates breakPatches.
type switchFrame struct {
	breakPatches []int
}

// classFrame records whether the class currently being compiled has a
// superclass, so INVOKE_SUPER/SUPER_CTOR can be rejected outside one.
type classFrame struct {
	hasSuper bool
}

type emitter struct {
	buf  []byte
	pool *pool

	loops []*loopFrame
	// breakTargets is the stack of enclosing break-able constructs (loops and
	// switches); its top receives the patch position of a `break`. continue
	// only ever targets loops, so it walks e.loops directly instead.
	breakTargets []*[]int
	// tryDepth is reserved bookkeeping for nested catch-region tracking, per
	// spec §3 ("Try stack: reserved for future catch-region tracking").
	tryDepth int
	classes  []classFrame
	switches []*switchFrame

	// functionStarts maps a hoisted function declaration's name to the code
	// offset its body begins at, enabling forward references (calling a
	// function declared later in the same block).
	functionStarts map[string]uint32
}

func newEmitter() *emitter {
	return &emitter{
		pool:           newPool(),
		functionStarts: make(map[string]uint32),
	}
}

// -- byte buffer helpers --

func (e *emitter) offset() int { return len(e.buf) }

func (e *emitter) emit(op opcode.Op) {
	e.buf = append(e.buf, byte(op))
}

func (e *emitter) emitIndex(op opcode.Op, idx uint32) {
	e.buf = append(e.buf, byte(op))
	e.buf = binary.BigEndian.AppendUint32(e.buf, idx)
}

// emitJump emits op followed by a placeholder displacement and returns the
// offset of the displacement's first byte, to be resolved later by patch.
func (e *emitter) emitJump(op opcode.Op) int {
	e.buf = append(e.buf, byte(op))
	pos := len(e.buf)
	e.buf = append(e.buf, 0, 0)
	return pos
}

// patch resolves the forward jump placeholder at displacementPos to target,
// per spec §4.4: displacement = target - (operand_start + 2).
func (e *emitter) patch(displacementPos, target int) {
	disp := target - (displacementPos + 2)
	if disp > math.MaxInt16 || disp < math.MinInt16 {
		fail("jump displacement %d out of signed 16-bit range", disp)
	}
	binary.BigEndian.PutUint16(e.buf[displacementPos:], uint16(int16(disp)))
}

// patchHere patches displacementPos to the current end of the buffer.
func (e *emitter) patchHere(displacementPos int) {
	e.patch(displacementPos, e.offset())
}

func (e *emitter) pushConst(c Const) {
	e.emitIndex(opcode.PUSH_CONST, e.pool.intern(c))
}

func (e *emitter) pushUndefined() { e.pushConst(Const{Kind: ConstUndefined}) }
func (e *emitter) pushNull()      { e.pushConst(Const{Kind: ConstNull}) }

// -- loop/switch/class frame helpers --

func (e *emitter) pushLoop() *loopFrame {
	f := &loopFrame{startOffset: e.offset()}
	e.loops = append(e.loops, f)
	e.breakTargets = append(e.breakTargets, &f.breakPatches)
	return f
}

func (e *emitter) popLoop() *loopFrame {
	f := e.loops[len(e.loops)-1]
	e.loops = e.loops[:len(e.loops)-1]
	e.breakTargets = e.breakTargets[:len(e.breakTargets)-1]
	return f
}

func (e *emitter) currentLoop() *loopFrame {
	if len(e.loops) == 0 {
		return nil
	}
	return e.loops[len(e.loops)-1]
}

func (e *emitter) pushSwitch() *switchFrame {
	f := &switchFrame{}
	e.switches = append(e.switches, f)
	e.breakTargets = append(e.breakTargets, &f.breakPatches)
	return f
}

func (e *emitter) popSwitch() *switchFrame {
	f := e.switches[len(e.switches)-1]
	e.switches = e.switches[:len(e.switches)-1]
	e.breakTargets = e.breakTargets[:len(e.breakTargets)-1]
	return f
}

// currentBreakTarget returns the innermost enclosing loop or switch's
// break-patch list, or nil if none encloses the current position.
func (e *emitter) currentBreakTarget() *[]int {
	if len(e.breakTargets) == 0 {
		return nil
	}
	return e.breakTargets[len(e.breakTargets)-1]
}

func (e *emitter) pushClass(hasSuper bool) {
	e.classes = append(e.classes, classFrame{hasSuper: hasSuper})
}

func (e *emitter) popClass() {
	e.classes = e.classes[:len(e.classes)-1]
}

func (e *emitter) currentClass() *classFrame {
	if len(e.classes) == 0 {
		return nil
	}
	return &e.classes[len(e.classes)-1]
}

// hostAllowlist names a global whose calls emit CALL_HOST instead of CALL
// (spec §4.4 Calls).
var hostAllowlist = map[string]bool{
	"document": true, "window": true, "fetch": true,
	"setTimeout": true, "setInterval": true, "WebSocket": true, "console": true,
}
