package compiler

import (
	"fmt"

	"github.com/dolthub/swiss"
)

// ConstKind distinguishes the value kinds a constant pool entry can hold.
type ConstKind int8

const (
	ConstNumber ConstKind = iota
	ConstString
	ConstBool
	ConstNull
	ConstUndefined
	ConstBigInt
	ConstObject
	// ConstFuncRef holds a function's code offset. Kept distinct from
	// ConstNumber so a function reference can never be deduplicated against
	// an unrelated numeric literal that happens to equal the same offset.
	ConstFuncRef
)

// Const is one entry of a Program's constant pool.
type Const struct {
	Kind   ConstKind
	Num    float64
	Str    string
	Bool   bool
	BigInt int64
	// Object holds the canonical key/value serialization for ConstObject
	// entries; container.Assemble writes it out as its raw bytes.
	Object string
}

// constKey is the comparable form of a Const used to deduplicate the pool;
// dolthub/swiss requires a comparable key type, and Const itself already is
// one (every field is a scalar), so constKey is just Const by value.
type constKey = Const

// pool is the emitter's constant pool: an ordered, append-only list plus a
// value→index map for deduplication, per spec §3 ("Constant pool").
type pool struct {
	consts []Const
	index  *swiss.Map[constKey, uint32]
}

func newPool() *pool {
	return &pool{index: swiss.NewMap[constKey, uint32](16)}
}

// intern returns the index of c in the pool, appending it if this is the
// first occurrence of an equal value.
func (p *pool) intern(c Const) uint32 {
	if idx, ok := p.index.Get(c); ok {
		return idx
	}
	idx := uint32(len(p.consts))
	p.consts = append(p.consts, c)
	p.index.Put(c, idx)
	return idx
}

func (p *pool) number(n float64) uint32   { return p.intern(Const{Kind: ConstNumber, Num: n}) }
func (p *pool) str(s string) uint32       { return p.intern(Const{Kind: ConstString, Str: s}) }
func (p *pool) bool(b bool) uint32        { return p.intern(Const{Kind: ConstBool, Bool: b}) }
func (p *pool) null() uint32              { return p.intern(Const{Kind: ConstNull}) }
func (p *pool) undefined() uint32         { return p.intern(Const{Kind: ConstUndefined}) }
func (p *pool) bigint(n int64) uint32     { return p.intern(Const{Kind: ConstBigInt, BigInt: n}) }
func (p *pool) object(canon string) uint32 {
	return p.intern(Const{Kind: ConstObject, Object: canon})
}

// funcRef interns the code offset of a function body. The runtime
// convention for resolving a function reference to a callable is
// left to the runtime; the compiler's only obligation is
// that the variable bound to a function name later resolves to this offset.
func (p *pool) funcRef(offset uint32) uint32 {
	return p.intern(Const{Kind: ConstFuncRef, Num: float64(offset)})
}

func (c Const) String() string {
	switch c.Kind {
	case ConstNumber:
		return fmt.Sprintf("%v", c.Num)
	case ConstString:
		return fmt.Sprintf("%q", c.Str)
	case ConstBool:
		return fmt.Sprintf("%v", c.Bool)
	case ConstNull:
		return "null"
	case ConstUndefined:
		return "undefined"
	case ConstBigInt:
		return fmt.Sprintf("%dn", c.BigInt)
	case ConstObject:
		return c.Object
	case ConstFuncRef:
		return fmt.Sprintf("func@%v", c.Num)
	default:
		return "?"
	}
}
