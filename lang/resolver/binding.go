package resolver

import (
	"github.com/dolthub/swiss"

	"github.com/mna/aheadc/lang/token"
)

// BindingKind classifies how a name came to be bound in a scope.
type BindingKind int8

const (
	BindVar BindingKind = iota
	BindLet
	BindConst
	BindFunction
	BindClass
	BindParameter
	BindImport
	BindCatch
)

// Binding records one declared name and where it was declared.
type Binding struct {
	Name string
	Kind BindingKind
	Pos  token.Pos
}

// Scope is one entry of the scope stack: a name→binding map plus its
// enclosing scope. The map is a swiss.Map rather than a builtin map: scopes
// are created and torn down constantly during a walk (one per block, one
// per for-header, one per switch case) and swiss's open addressing keeps
// that churn cheap.
type Scope struct {
	bindings *swiss.Map[string, *Binding]
	parent   *Scope
}

func newScope(parent *Scope) *Scope {
	return &Scope{bindings: swiss.NewMap[string, *Binding](8), parent: parent}
}

// declare adds name to the scope, returning the existing binding if name was
// already declared here (the caller reports the duplicate).
func (s *Scope) declare(b *Binding) (existing *Binding, ok bool) {
	if prev, found := s.bindings.Get(b.Name); found {
		return prev, false
	}
	s.bindings.Put(b.Name, b)
	return nil, true
}

// lookup walks outward from s looking for name.
func (s *Scope) lookup(name string) (*Binding, bool) {
	for sc := s; sc != nil; sc = sc.parent {
		if b, ok := sc.bindings.Get(name); ok {
			return b, true
		}
	}
	return nil, false
}
