package graph

import (
	"container/list"
	"encoding/binary"
	"encoding/json"
	"math"

	"github.com/dolthub/swiss"
	"github.com/mna/aheadc/lang/compiler"
	"github.com/mna/aheadc/lang/opcode"
)

// Emit lowers a validated Graph to bytecode via the worklist layout
// algorithm of spec §4.5: each block is placed once, in an order chosen to
// maximize fall-through, with EXEC_BLOCK/JZ/JMP/HALT exactly as described.
func Emit(g *Graph) (prog *compiler.Program, err error) {
	defer func() {
		if r := recover(); r != nil {
			if ge, ok := r.(*GraphError); ok {
				err = ge
				return
			}
			panic(r)
		}
	}()

	l := &layouter{
		g:       g,
		poolIdx: swiss.NewMap[compiler.Const, uint32](16),
		placed:  make(map[string]int),
		pending: list.New(),
	}
	l.pending.PushBack(g.entry)
	for l.pending.Len() > 0 {
		front := l.pending.Front()
		id := front.Value.(string)
		l.pending.Remove(front)
		if _, ok := l.placed[id]; ok {
			continue
		}
		l.placeBlock(id)
	}
	for _, p := range l.patches {
		target, ok := l.placed[p.targetID]
		if !ok {
			fail2("graph: unresolved jump target %q", p.targetID)
		}
		l.patch(p.pos, target)
	}
	return &compiler.Program{Code: l.buf, Constants: l.consts}, nil
}

// layouter holds the worklist algorithm's mutable state: the output buffer,
// a deduplicated constant pool mirroring lang/compiler/pool.go's approach,
// and the set of forward patches (JZ/JMP targets not yet placed).
type layouter struct {
	g *Graph

	buf     []byte
	consts  []compiler.Const
	poolIdx *swiss.Map[compiler.Const, uint32]

	placed  map[string]int
	pending *list.List
	patches []patch
}

// patch is a forward JZ/JMP whose target block hasn't been placed yet.
type patch struct {
	pos      int
	targetID string
}

func fail2(format string, args ...any) {
	panic(fail(format, args...))
}

func (l *layouter) offset() int { return len(l.buf) }

func (l *layouter) emit(op opcode.Op) {
	l.buf = append(l.buf, byte(op))
}

func (l *layouter) emitIndex(op opcode.Op, idx uint32) {
	l.buf = append(l.buf, byte(op))
	l.buf = binary.BigEndian.AppendUint32(l.buf, idx)
}

// emitJump emits op with a placeholder displacement. If targetID is already
// placed the displacement is resolved immediately; otherwise a patch is
// recorded to resolve once every block has been laid out.
func (l *layouter) emitJump(op opcode.Op, targetID string) {
	l.buf = append(l.buf, byte(op))
	pos := len(l.buf)
	l.buf = append(l.buf, 0, 0)
	if target, ok := l.placed[targetID]; ok {
		l.patch(pos, target)
		return
	}
	l.patches = append(l.patches, patch{pos: pos, targetID: targetID})
}

func (l *layouter) patch(displacementPos, target int) {
	disp := target - (displacementPos + 2)
	if disp > math.MaxInt16 || disp < math.MinInt16 {
		fail2("graph: jump displacement %d out of signed 16-bit range", disp)
	}
	binary.BigEndian.PutUint16(l.buf[displacementPos:], uint16(int16(disp)))
}

func (l *layouter) internConst(c compiler.Const) uint32 {
	if idx, ok := l.poolIdx.Get(c); ok {
		return idx
	}
	idx := uint32(len(l.consts))
	l.consts = append(l.consts, c)
	l.poolIdx.Put(c, idx)
	return idx
}

// blockConst builds the {type, config} constant canonically: encoding/json
// sorts map keys when marshaling, so two blocks with equal type and config
// always produce the same bytes and therefore the same pool index.
func (l *layouter) blockConst(b *Block) uint32 {
	canon, err := json.Marshal(struct {
		Type   string         `json:"type"`
		Config map[string]any `json:"config,omitempty"`
	}{Type: b.Type, Config: b.Config})
	if err != nil {
		fail2("graph: block %q config is not serializable: %v", b.ID, err)
	}
	return l.internConst(compiler.Const{Kind: compiler.ConstObject, Object: string(canon)})
}

// placeBlock records id's position, emits its EXEC_BLOCK, and pushes its
// successors per spec §4.5 steps 2-6.
func (l *layouter) placeBlock(id string) {
	b := l.g.byID[id]
	l.placed[id] = l.offset()
	l.emitIndex(opcode.EXEC_BLOCK, l.blockConst(b))

	switch b.Type {
	case "if":
		trueTarget := b.Config["trueTarget"].(string)
		falseTarget := b.Config["falseTarget"].(string)
		l.emitJump(opcode.JZ, falseTarget)
		l.pending.PushFront(trueTarget)
		l.pending.PushBack(falseTarget)
	case "loop":
		bodyStart := b.Config["bodyStart"].(string)
		exitTarget := b.Config["exitTarget"].(string)
		l.emitJump(opcode.JZ, exitTarget)
		l.pending.PushFront(bodyStart)
		l.pending.PushBack(exitTarget)
	default:
		succ := l.g.successors[id]
		if len(succ) == 0 {
			l.emit(opcode.HALT)
			return
		}
		next := succ[0]
		if _, ok := l.placed[next]; ok {
			l.emitJump(opcode.JMP, next)
		} else {
			l.pending.PushFront(next)
		}
	}
}
