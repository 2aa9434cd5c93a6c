// Package ast defines the node types produced by the parser: a
// quasi-lossless tree carrying just enough surface detail (operators as
// strings, declaration kinds, method flags) for the emitter to reproduce
// the lowering rules exactly.
package ast

import "github.com/mna/aheadc/lang/token"

// Node is implemented by every AST node.
type Node interface {
	// Span reports the start and end source position of the node.
	Span() (start, end token.Pos)
	// Walk visits the node's children with v, implementing the Visitor
	// pattern.
	Walk(v Visitor)
}

// Expr is implemented by every expression node.
type Expr interface {
	Node
	exprNode()
}

// Stmt is implemented by every statement node.
type Stmt interface {
	Node
	// BlockEnding reports whether this statement may only appear last in a
	// block (return, break, continue, throw).
	BlockEnding() bool
}

// Program is the root node: an ordered list of top-level items (imports,
// exports, declarations and statements).
type Program struct {
	Stmts []Stmt
	Start token.Pos
	End   token.Pos
}

func (n *Program) Span() (token.Pos, token.Pos) { return n.Start, n.End }
func (n *Program) Walk(v Visitor) {
	for _, s := range n.Stmts {
		Walk(v, s)
	}
}

// Block is a brace-delimited sequence of statements.
type Block struct {
	Start, End token.Pos
	Stmts      []Stmt
}

func (n *Block) Span() (token.Pos, token.Pos) { return n.Start, n.End }
func (n *Block) Walk(v Visitor) {
	for _, s := range n.Stmts {
		Walk(v, s)
	}
}
func (n *Block) BlockEnding() bool { return false }
