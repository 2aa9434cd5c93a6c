package ast

import "github.com/mna/aheadc/lang/token"

func (*ExprStmt) BlockEnding() bool       { return false }
func (*VarDecl) BlockEnding() bool        { return false }
func (*FunctionDecl) BlockEnding() bool   { return false }
func (*ClassDecl) BlockEnding() bool      { return false }
func (*IfStmt) BlockEnding() bool         { return false }
func (*WhileStmt) BlockEnding() bool      { return false }
func (*DoWhileStmt) BlockEnding() bool    { return false }
func (*ForStmt) BlockEnding() bool        { return false }
func (*ForInStmt) BlockEnding() bool      { return false }
func (*ForOfStmt) BlockEnding() bool      { return false }
func (*SwitchStmt) BlockEnding() bool     { return false }
func (*TryStmt) BlockEnding() bool        { return false }
func (*ImportDecl) BlockEnding() bool     { return false }
func (*ExportDecl) BlockEnding() bool     { return false }
func (*ExportDefault) BlockEnding() bool  { return false }
func (*ReturnStmt) BlockEnding() bool     { return true }
func (*BreakStmt) BlockEnding() bool      { return true }
func (*ContinueStmt) BlockEnding() bool   { return true }
func (*ThrowStmt) BlockEnding() bool      { return true }

// DeclKind distinguishes `var`, `let` and `const` declarations.
type DeclKind int8

const (
	DeclVar DeclKind = iota
	DeclLet
	DeclConst
)

// Declarator is one `name = init` (or destructuring `pattern = init`) entry
// of a VarDecl; Init is nil when no initializer was given.
type Declarator struct {
	Target Pattern
	Init   Expr
}

// VarDecl is a `var`/`let`/`const` declaration statement, or the
// initializer clause of a classic for-loop header.
type VarDecl struct {
	Kind       DeclKind
	Decls      []Declarator
	Start, End token.Pos
}

func (n *VarDecl) Span() (token.Pos, token.Pos) { return n.Start, n.End }
func (n *VarDecl) Walk(v Visitor) {
	for _, d := range n.Decls {
		Walk(v, d.Target)
		if d.Init != nil {
			Walk(v, d.Init)
		}
	}
}

// ExprStmt wraps an expression used in statement position.
type ExprStmt struct {
	X          Expr
	Start, End token.Pos
}

func (n *ExprStmt) Span() (token.Pos, token.Pos) { return n.Start, n.End }
func (n *ExprStmt) Walk(v Visitor)               { Walk(v, n.X) }

// FunctionDecl is a named function declaration; Fn.Name is never nil.
type FunctionDecl struct {
	Fn         *FunctionExpr
	Start, End token.Pos
}

func (n *FunctionDecl) Span() (token.Pos, token.Pos) { return n.Start, n.End }
func (n *FunctionDecl) Walk(v Visitor)               { Walk(v, n.Fn) }

// ClassDecl is a named class declaration; Class.Name is never nil.
type ClassDecl struct {
	Class      *ClassExpr
	Start, End token.Pos
}

func (n *ClassDecl) Span() (token.Pos, token.Pos) { return n.Start, n.End }
func (n *ClassDecl) Walk(v Visitor)               { Walk(v, n.Class) }

// IfStmt is `if (Test) Cons [else Alt]`; Alt is nil with no else clause.
type IfStmt struct {
	Test       Expr
	Cons       Stmt
	Alt        Stmt
	Start, End token.Pos
}

func (n *IfStmt) Span() (token.Pos, token.Pos) { return n.Start, n.End }
func (n *IfStmt) Walk(v Visitor) {
	Walk(v, n.Test)
	Walk(v, n.Cons)
	if n.Alt != nil {
		Walk(v, n.Alt)
	}
}

// WhileStmt is `while (Test) Body`.
type WhileStmt struct {
	Test       Expr
	Body       Stmt
	Start, End token.Pos
}

func (n *WhileStmt) Span() (token.Pos, token.Pos) { return n.Start, n.End }
func (n *WhileStmt) Walk(v Visitor) {
	Walk(v, n.Test)
	Walk(v, n.Body)
}

// DoWhileStmt is `do Body while (Test)`.
type DoWhileStmt struct {
	Body       Stmt
	Test       Expr
	Start, End token.Pos
}

func (n *DoWhileStmt) Span() (token.Pos, token.Pos) { return n.Start, n.End }
func (n *DoWhileStmt) Walk(v Visitor) {
	Walk(v, n.Body)
	Walk(v, n.Test)
}

// ForStmt is the classic three-clause `for`. Init may be a *VarDecl or an
// *ExprStmt wrapping the init expression; any clause may be nil.
type ForStmt struct {
	Init       Node // *VarDecl or *ExprStmt, or nil
	Test       Expr // nil means always-true
	Update     Expr // nil means no update clause
	Body       Stmt
	Start, End token.Pos
}

func (n *ForStmt) Span() (token.Pos, token.Pos) { return n.Start, n.End }
func (n *ForStmt) Walk(v Visitor) {
	if n.Init != nil {
		Walk(v, n.Init)
	}
	if n.Test != nil {
		Walk(v, n.Test)
	}
	if n.Update != nil {
		Walk(v, n.Update)
	}
	Walk(v, n.Body)
}

// ForInStmt is `for (Target in Right) Body`. When IsDecl is set, Target is
// a single binding declared with Kind; otherwise it is an existing Pattern
// target and no declaration keyword is used.
type ForInStmt struct {
	Kind       DeclKind // meaningful only when IsDecl
	IsDecl     bool
	Target     Pattern
	Right      Expr
	Body       Stmt
	Start, End token.Pos
}

func (n *ForInStmt) Span() (token.Pos, token.Pos) { return n.Start, n.End }
func (n *ForInStmt) Walk(v Visitor) {
	Walk(v, n.Target)
	Walk(v, n.Right)
	Walk(v, n.Body)
}

// ForOfStmt is `for (Decl of Right) Body`, structurally identical to
// ForInStmt save for iteration protocol.
type ForOfStmt struct {
	Kind       DeclKind
	IsDecl     bool
	Target     Pattern
	Right      Expr
	Body       Stmt
	Start, End token.Pos
}

func (n *ForOfStmt) Span() (token.Pos, token.Pos) { return n.Start, n.End }
func (n *ForOfStmt) Walk(v Visitor) {
	Walk(v, n.Target)
	Walk(v, n.Right)
	Walk(v, n.Body)
}

// ReturnStmt is `return [Arg]`; Arg is nil for a bare return.
type ReturnStmt struct {
	Arg        Expr
	Start, End token.Pos
}

func (n *ReturnStmt) Span() (token.Pos, token.Pos) { return n.Start, n.End }
func (n *ReturnStmt) Walk(v Visitor) {
	if n.Arg != nil {
		Walk(v, n.Arg)
	}
}

// BreakStmt is `break` (unlabeled; the language subset has no labels).
type BreakStmt struct{ Start, End token.Pos }

func (n *BreakStmt) Span() (token.Pos, token.Pos) { return n.Start, n.End }
func (n *BreakStmt) Walk(Visitor)                 {}

// ContinueStmt is `continue`.
type ContinueStmt struct{ Start, End token.Pos }

func (n *ContinueStmt) Span() (token.Pos, token.Pos) { return n.Start, n.End }
func (n *ContinueStmt) Walk(Visitor)                 {}

// ThrowStmt is `throw Arg`.
type ThrowStmt struct {
	Arg        Expr
	Start, End token.Pos
}

func (n *ThrowStmt) Span() (token.Pos, token.Pos) { return n.Start, n.End }
func (n *ThrowStmt) Walk(v Visitor)               { Walk(v, n.Arg) }

// CatchClause is the `catch (Param) Body` clause of a TryStmt; Param is nil
// for a parameter-less catch.
type CatchClause struct {
	Param Pattern
	Body  *Block
}

// TryStmt is `try Block [catch (...) ...] [finally ...]`. At least one of
// Catch or Finally is non-nil.
type TryStmt struct {
	Block      *Block
	Catch      *CatchClause
	Finally    *Block
	Start, End token.Pos
}

func (n *TryStmt) Span() (token.Pos, token.Pos) { return n.Start, n.End }
func (n *TryStmt) Walk(v Visitor) {
	Walk(v, n.Block)
	if n.Catch != nil {
		if n.Catch.Param != nil {
			Walk(v, n.Catch.Param)
		}
		Walk(v, n.Catch.Body)
	}
	if n.Finally != nil {
		Walk(v, n.Finally)
	}
}

// SwitchCase is one `case Test:` (Test non-nil) or `default:` (Test nil)
// arm of a SwitchStmt.
type SwitchCase struct {
	Test       Expr
	Body       []Stmt
	Start, End token.Pos
}

func (n *SwitchCase) Span() (token.Pos, token.Pos) { return n.Start, n.End }
func (n *SwitchCase) Walk(v Visitor) {
	if n.Test != nil {
		Walk(v, n.Test)
	}
	for _, s := range n.Body {
		Walk(v, s)
	}
}
func (n *SwitchCase) BlockEnding() bool { return false }

// SwitchStmt is `switch (Disc) { Cases... }`.
type SwitchStmt struct {
	Disc       Expr
	Cases      []*SwitchCase
	Start, End token.Pos
}

func (n *SwitchStmt) Span() (token.Pos, token.Pos) { return n.Start, n.End }
func (n *SwitchStmt) Walk(v Visitor) {
	Walk(v, n.Disc)
	for _, c := range n.Cases {
		Walk(v, c)
	}
}

// ImportSpecifier binds one imported name, aliased via As when it differs
// from Name; Default and Namespace specifiers set their respective flags
// instead of Name.
type ImportSpecifier struct {
	Default   bool
	Namespace bool
	Name      string // the exported name for a named import, unused for Default/Namespace
	As        string // the local binding name
}

// ImportDecl is `import ... from "Source"`.
type ImportDecl struct {
	Specifiers []ImportSpecifier
	Source     string
	Start, End token.Pos
}

func (n *ImportDecl) Span() (token.Pos, token.Pos) { return n.Start, n.End }
func (n *ImportDecl) Walk(Visitor)                 {}

// ExportSpecifier binds one re-exported name, aliased via As when it
// differs from Name.
type ExportSpecifier struct {
	Name string
	As   string
}

// ExportDecl is `export { Specifiers... }` or `export Decl` (a wrapped
// declaration statement), or a re-export `export { ... } from "Source"`.
type ExportDecl struct {
	Decl       Stmt // non-nil for `export <declaration>` form
	Specifiers []ExportSpecifier
	Source     string // non-empty for a re-export
	Start, End token.Pos
}

func (n *ExportDecl) Span() (token.Pos, token.Pos) { return n.Start, n.End }
func (n *ExportDecl) Walk(v Visitor) {
	if n.Decl != nil {
		Walk(v, n.Decl)
	}
}

// ExportDefault is `export default Expr`.
type ExportDefault struct {
	X          Expr
	Start, End token.Pos
}

func (n *ExportDefault) Span() (token.Pos, token.Pos) { return n.Start, n.End }
func (n *ExportDefault) Walk(v Visitor)               { Walk(v, n.X) }
