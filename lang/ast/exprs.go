package ast

import "github.com/mna/aheadc/lang/token"

func (*Identifier) exprNode()    {}
func (*Literal) exprNode()       {}
func (*ThisExpr) exprNode()      {}
func (*SuperExpr) exprNode()     {}
func (*Template) exprNode()      {}
func (*ArrayExpr) exprNode()     {}
func (*ObjectExpr) exprNode()    {}
func (*FunctionExpr) exprNode()  {}
func (*ClassExpr) exprNode()     {}
func (*NewExpr) exprNode()       {}
func (*CallExpr) exprNode()      {}
func (*MemberExpr) exprNode()    {}
func (*AssignExpr) exprNode()    {}
func (*BinaryExpr) exprNode()    {}
func (*LogicalExpr) exprNode()   {}
func (*UnaryExpr) exprNode()     {}
func (*UpdateExpr) exprNode()    {}
func (*ConditionalExpr) exprNode() {}
func (*YieldExpr) exprNode()     {}
func (*ImportExpr) exprNode()    {}
func (*SpreadElement) exprNode() {}
func (*ObjectPattern) exprNode() {}
func (*ArrayPattern) exprNode()  {}

// Identifier is a bare name reference.
type Identifier struct {
	Name       string
	Start, End token.Pos
}

func (n *Identifier) Span() (token.Pos, token.Pos) { return n.Start, n.End }
func (n *Identifier) Walk(Visitor)                 {}

// LiteralKind distinguishes the scalar kinds a Literal can hold.
type LiteralKind int8

const (
	LitNumber LiteralKind = iota
	LitBigInt
	LitString
	LitBool
	LitNull
	LitUndefined
)

// Literal is a scalar constant: number, bigint, string, boolean, null or
// undefined.
type Literal struct {
	Kind       LiteralKind
	Number     float64
	BigInt     int64
	Str        string
	Bool       bool
	Start, End token.Pos
}

func (n *Literal) Span() (token.Pos, token.Pos) { return n.Start, n.End }
func (n *Literal) Walk(Visitor)                 {}

// ThisExpr is the `this` primary expression.
type ThisExpr struct{ Start, End token.Pos }

func (n *ThisExpr) Span() (token.Pos, token.Pos) { return n.Start, n.End }
func (n *ThisExpr) Walk(Visitor)                 {}

// SuperExpr is the `super` primary expression.
type SuperExpr struct{ Start, End token.Pos }

func (n *SuperExpr) Span() (token.Pos, token.Pos) { return n.Start, n.End }
func (n *SuperExpr) Walk(Visitor)                 {}

// Template represents a template literal: Quasis has len(Exprs)+1 entries,
// interleaved as Quasis[0] Exprs[0] Quasis[1] Exprs[1] ... Quasis[n].
type Template struct {
	Quasis     []string
	Exprs      []Expr
	Start, End token.Pos
}

func (n *Template) Span() (token.Pos, token.Pos) { return n.Start, n.End }
func (n *Template) Walk(v Visitor) {
	for _, e := range n.Exprs {
		Walk(v, e)
	}
}

// ArrayExpr is an array literal; nil entries represent elisions (holes),
// and a SpreadElement marks `...expr`.
type ArrayExpr struct {
	Items      []Expr
	Start, End token.Pos
}

func (n *ArrayExpr) Span() (token.Pos, token.Pos) { return n.Start, n.End }
func (n *ArrayExpr) Walk(v Visitor) {
	for _, e := range n.Items {
		Walk(v, e)
	}
}

// SpreadElement represents `...expr` inside an array/object literal or a
// call's argument list.
type SpreadElement struct {
	Arg        Expr
	Start, End token.Pos
}

func (n *SpreadElement) Span() (token.Pos, token.Pos) { return n.Start, n.End }
func (n *SpreadElement) Walk(v Visitor)               { Walk(v, n.Arg) }

// PropertyKind distinguishes object-literal property forms.
type PropertyKind int8

const (
	PropData PropertyKind = iota
	PropMethod
	PropGet
	PropSet
	PropSpread
)

// Property is one entry of an ObjectExpr.
type Property struct {
	Kind       PropertyKind
	Key        Expr // Identifier or Literal, unless Computed
	Computed   bool
	Shorthand  bool
	Value      Expr // FunctionExpr for Method/Get/Set; the SpreadElement's Arg for PropSpread
	Start, End token.Pos
}

func (n *Property) Span() (token.Pos, token.Pos) { return n.Start, n.End }
func (n *Property) Walk(v Visitor) {
	if n.Key != nil {
		Walk(v, n.Key)
	}
	if n.Value != nil {
		Walk(v, n.Value)
	}
}

// ObjectExpr is an object literal.
type ObjectExpr struct {
	Props      []*Property
	Start, End token.Pos
}

func (n *ObjectExpr) Span() (token.Pos, token.Pos) { return n.Start, n.End }
func (n *ObjectExpr) Walk(v Visitor) {
	for _, p := range n.Props {
		Walk(v, p)
	}
}

// FuncSignature is the parameter list shared by function/method
// declarations and expressions.
type FuncSignature struct {
	Params []Pattern // Identifier, ObjectPattern, ArrayPattern, or AssignPattern (default value)
}

// AssignPattern wraps a pattern with a default value, e.g. `(x = 1)`.
type AssignPattern struct {
	Target     Pattern
	Default    Expr
	Start, End token.Pos
}

func (n *AssignPattern) Span() (token.Pos, token.Pos) { return n.Start, n.End }
func (n *AssignPattern) Walk(v Visitor) {
	Walk(v, n.Target)
	if n.Default != nil {
		Walk(v, n.Default)
	}
}
func (*AssignPattern) patternNode() {}

// RestElement wraps the final parameter of a signature as `...name`.
type RestElement struct {
	Target     Pattern
	Start, End token.Pos
}

func (n *RestElement) Span() (token.Pos, token.Pos) { return n.Start, n.End }
func (n *RestElement) Walk(v Visitor)               { Walk(v, n.Target) }
func (*RestElement) patternNode()                   {}

// FunctionExpr is a function expression (named or anonymous), also used as
// the payload of a FunctionDecl.
type FunctionExpr struct {
	Name       *Identifier // nil if anonymous
	Sig        *FuncSignature
	Body       *Block
	Async      bool
	Generator  bool
	Start, End token.Pos
}

func (n *FunctionExpr) Span() (token.Pos, token.Pos) { return n.Start, n.End }
func (n *FunctionExpr) Walk(v Visitor) {
	if n.Name != nil {
		Walk(v, n.Name)
	}
	for _, p := range n.Sig.Params {
		Walk(v, p)
	}
	Walk(v, n.Body)
}

// MethodKind distinguishes class member forms.
type MethodKind int8

const (
	MethodRegular MethodKind = iota
	MethodGet
	MethodSet
	MethodConstructor
)

// MethodDef is one member of a ClassBody.
type MethodDef struct {
	Key        Expr // Identifier or Literal, unless Computed
	Computed   bool
	Static     bool
	Kind       MethodKind
	Fn         *FunctionExpr
	Start, End token.Pos
}

func (n *MethodDef) Span() (token.Pos, token.Pos) { return n.Start, n.End }
func (n *MethodDef) Walk(v Visitor) {
	Walk(v, n.Key)
	Walk(v, n.Fn)
}

// ClassBody is the ordered list of methods in a class.
type ClassBody struct {
	Methods []*MethodDef
}

// ClassExpr is a class expression (named or anonymous), also used as the
// payload of a ClassDecl. Per spec §9 open question 3, class expressions
// parse a full body identically to class declarations.
type ClassExpr struct {
	Name       *Identifier // nil if anonymous
	Super      Expr        // nil if no `extends` clause
	Body       *ClassBody
	Start, End token.Pos
}

func (n *ClassExpr) Span() (token.Pos, token.Pos) { return n.Start, n.End }
func (n *ClassExpr) Walk(v Visitor) {
	if n.Name != nil {
		Walk(v, n.Name)
	}
	if n.Super != nil {
		Walk(v, n.Super)
	}
	for _, m := range n.Body.Methods {
		Walk(v, m)
	}
}

// NewExpr is `new Callee(Args...)`.
type NewExpr struct {
	Callee     Expr
	Args       []Expr
	Start, End token.Pos
}

func (n *NewExpr) Span() (token.Pos, token.Pos) { return n.Start, n.End }
func (n *NewExpr) Walk(v Visitor) {
	Walk(v, n.Callee)
	for _, a := range n.Args {
		Walk(v, a)
	}
}

// CallExpr is `Fn(Args...)`, optionally optional-chained (`Fn?.(Args...)`).
type CallExpr struct {
	Fn         Expr
	Args       []Expr
	Optional   bool
	Start, End token.Pos
}

func (n *CallExpr) Span() (token.Pos, token.Pos) { return n.Start, n.End }
func (n *CallExpr) Walk(v Visitor) {
	Walk(v, n.Fn)
	for _, a := range n.Args {
		Walk(v, a)
	}
}

// MemberExpr is `Obj.Name` (Computed==false) or `Obj[Prop]` (Computed==true),
// optionally optional-chained.
type MemberExpr struct {
	Obj        Expr
	Prop       Expr // Identifier when !Computed, arbitrary Expr when Computed
	Computed   bool
	Optional   bool
	Start, End token.Pos
}

func (n *MemberExpr) Span() (token.Pos, token.Pos) { return n.Start, n.End }
func (n *MemberExpr) Walk(v Visitor) {
	Walk(v, n.Obj)
	Walk(v, n.Prop)
}

// AssignExpr is `Left Op Right`, where Op is one of the fixed assignment
// operator strings ("=", "+=", "&&=", ...) and Left may be an identifier, a
// member expression, or (only for plain "=") a destructuring pattern.
type AssignExpr struct {
	Op         string
	Left       Expr
	Right      Expr
	Start, End token.Pos
}

func (n *AssignExpr) Span() (token.Pos, token.Pos) { return n.Start, n.End }
func (n *AssignExpr) Walk(v Visitor) {
	Walk(v, n.Left)
	Walk(v, n.Right)
}

// BinaryExpr is a non-short-circuiting binary operator application.
type BinaryExpr struct {
	Op         string
	Left       Expr
	Right      Expr
	Start, End token.Pos
}

func (n *BinaryExpr) Span() (token.Pos, token.Pos) { return n.Start, n.End }
func (n *BinaryExpr) Walk(v Visitor) {
	Walk(v, n.Left)
	Walk(v, n.Right)
}

// LogicalExpr is `&&`, `||` or `??`, which must short-circuit.
type LogicalExpr struct {
	Op         string // "&&", "||", "??"
	Left       Expr
	Right      Expr
	Start, End token.Pos
}

func (n *LogicalExpr) Span() (token.Pos, token.Pos) { return n.Start, n.End }
func (n *LogicalExpr) Walk(v Visitor) {
	Walk(v, n.Left)
	Walk(v, n.Right)
}

// UnaryExpr is a prefix unary operator: `! - + ~ typeof void delete await`.
type UnaryExpr struct {
	Op         string
	Arg        Expr
	Start, End token.Pos
}

func (n *UnaryExpr) Span() (token.Pos, token.Pos) { return n.Start, n.End }
func (n *UnaryExpr) Walk(v Visitor)               { Walk(v, n.Arg) }

// UpdateExpr is `++`/`--`, prefix or postfix, on an identifier or member
// expression.
type UpdateExpr struct {
	Op         string // "++" or "--"
	Arg        Expr
	Prefix     bool
	Start, End token.Pos
}

func (n *UpdateExpr) Span() (token.Pos, token.Pos) { return n.Start, n.End }
func (n *UpdateExpr) Walk(v Visitor)               { Walk(v, n.Arg) }

// ConditionalExpr is the ternary `Test ? Cons : Alt`.
type ConditionalExpr struct {
	Test, Cons, Alt Expr
	Start, End      token.Pos
}

func (n *ConditionalExpr) Span() (token.Pos, token.Pos) { return n.Start, n.End }
func (n *ConditionalExpr) Walk(v Visitor) {
	Walk(v, n.Test)
	Walk(v, n.Cons)
	Walk(v, n.Alt)
}

// YieldExpr is `yield Arg` or `yield* Arg` (Delegate==true) inside a
// generator function body; Arg is nil for a bare `yield`.
type YieldExpr struct {
	Arg        Expr
	Delegate   bool
	Start, End token.Pos
}

func (n *YieldExpr) Span() (token.Pos, token.Pos) { return n.Start, n.End }
func (n *YieldExpr) Walk(v Visitor) {
	if n.Arg != nil {
		Walk(v, n.Arg)
	}
}

// ImportExpr is the dynamic `import(Source)` call-like expression.
type ImportExpr struct {
	Source     Expr
	Start, End token.Pos
}

func (n *ImportExpr) Span() (token.Pos, token.Pos) { return n.Start, n.End }
func (n *ImportExpr) Walk(v Visitor)               { Walk(v, n.Source) }

// Pattern is implemented by destructuring targets: Identifier,
// ObjectPattern, ArrayPattern, AssignPattern and RestElement. MemberExpr
// implements it too, so that parser.MemberPattern, which embeds a
// *MemberExpr, can serve as an assignment target.
type Pattern interface {
	Node
	patternNode()
}

func (*Identifier) patternNode()    {}
func (*ObjectPattern) patternNode() {}
func (*ArrayPattern) patternNode()  {}
func (*MemberExpr) patternNode()    {}

// ObjectPatternProp is one `{key: value}` or shorthand `{key}` entry of an
// ObjectPattern.
type ObjectPatternProp struct {
	Key      Expr // Identifier, unless Computed
	Computed bool
	Value    Pattern // nested pattern, or the same Identifier for shorthand
	Default  Expr    // nil unless the entry has a default value
}

// ObjectPattern is a destructuring target like `{a, b: [c, d]}`.
type ObjectPattern struct {
	Props      []ObjectPatternProp
	Rest       *Identifier // nil unless the pattern ends with `...rest`
	Start, End token.Pos
}

func (n *ObjectPattern) Span() (token.Pos, token.Pos) { return n.Start, n.End }
func (n *ObjectPattern) Walk(v Visitor) {
	for _, p := range n.Props {
		Walk(v, p.Value)
	}
	if n.Rest != nil {
		Walk(v, n.Rest)
	}
}

// ArrayPatternElem is one element slot of an ArrayPattern: nil means a hole.
type ArrayPatternElem struct {
	Value   Pattern // nil for a hole
	Default Expr
}

// ArrayPattern is a destructuring target like `[a, , [b, c]]`.
type ArrayPattern struct {
	Elems      []ArrayPatternElem
	Rest       Pattern // nil unless the pattern ends with `...rest`
	Start, End token.Pos
}

func (n *ArrayPattern) Span() (token.Pos, token.Pos) { return n.Start, n.End }
func (n *ArrayPattern) Walk(v Visitor) {
	for _, e := range n.Elems {
		if e.Value != nil {
			Walk(v, e.Value)
		}
	}
	if n.Rest != nil {
		Walk(v, n.Rest)
	}
}
