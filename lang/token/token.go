// Package token defines the lexical token kinds, the reserved word table and
// the packed source position used throughout the front end.
package token

// Kind identifies the lexical category of a Token.
type Kind int8

//nolint:revive
const (
	ILLEGAL Kind = iota
	EOF

	IDENT
	KEYWORD
	NUMBER
	BIGINT
	STRING

	TEMPLATE      // no interpolation: `abc`
	TEMPLATE_HEAD // `abc${
	TEMPLATE_MID  // }abc${
	TEMPLATE_TAIL // }abc`
	TEMPLATE_EXPR // carries the nested token sequence of one interpolation

	OPERATOR
	PUNCT

	maxKind
)

var kindNames = [...]string{
	ILLEGAL:       "illegal token",
	EOF:           "end of file",
	IDENT:         "identifier",
	KEYWORD:       "keyword",
	NUMBER:        "number literal",
	BIGINT:        "bigint literal",
	STRING:        "string literal",
	TEMPLATE:      "template literal",
	TEMPLATE_HEAD: "template head",
	TEMPLATE_MID:  "template middle",
	TEMPLATE_TAIL: "template tail",
	TEMPLATE_EXPR: "template expression",
	OPERATOR:      "operator",
	PUNCT:         "punctuation",
}

func (k Kind) String() string {
	if k >= 0 && int(k) < len(kindNames) && kindNames[k] != "" {
		return kindNames[k]
	}
	return "invalid kind"
}

// reservedWords is the fixed set of keywords recognized by the lexer. An
// identifier matching one of these lexes as KEYWORD instead of IDENT.
var reservedWords = map[string]bool{
	"var": true, "let": true, "const": true,
	"function": true, "class": true, "extends": true, "super": true, "this": true, "new": true,
	"typeof": true, "instanceof": true, "in": true, "of": true, "delete": true, "void": true,
	"import": true, "export": true, "default": true, "as": true, "from": true,
	"async": true, "await": true, "yield": true,
	"return": true, "break": true, "continue": true, "throw": true,
	"try": true, "catch": true, "finally": true,
	"switch": true, "case": true,
	"if": true, "else": true, "while": true, "for": true, "do": true,
	"null": true, "true": true, "false": true, "undefined": true,
	"static": true, "get": true, "set": true,
}

// IsReserved reports whether lit is a reserved word.
func IsReserved(lit string) bool { return reservedWords[lit] }

// Value carries the literal text and any decoded payload for a scanned
// Token. Exactly one of the typed fields is meaningful, depending on Kind.
type Value struct {
	Pos Pos
	Raw string // exact source text consumed for this token

	String string            // decoded STRING / TEMPLATE* value
	Int    int64             // decoded BIGINT value
	Float  float64           // decoded NUMBER value
	Exprs  []TokenAndValue   // nested token sequence, only set on TEMPLATE_EXPR (ends with EOF)
}

// TokenAndValue pairs a token kind with its scanned value, the unit the
// Lexer produces and the Parser consumes.
type TokenAndValue struct {
	Kind  Kind
	Value Value
}

// Describe renders a token for "expected X, found Y" style error messages:
// the raw source text when it carries one, otherwise the kind name.
func (tv TokenAndValue) Describe() string {
	if tv.Value.Raw != "" {
		return tv.Value.Raw
	}
	return tv.Kind.String()
}
