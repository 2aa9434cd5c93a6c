// Package parser builds an AST from a token stream produced by the lexer.
// Unlike the semantic analyzer, which batches every diagnostic it finds, the
// parser stops at the first syntax error: malformed syntax in one place
// usually invalidates everything that follows, so there is little value in
// pressing on.
package parser

import (
	"fmt"

	"github.com/mna/aheadc/internal/diag"
	"github.com/mna/aheadc/lang/ast"
	"github.com/mna/aheadc/lang/lexer"
	"github.com/mna/aheadc/lang/token"
)

// Error reports a single syntax failure with its source position.
type Error struct {
	Pos diag.Position
	Msg string
}

func (e *Error) Error() string { return (diag.Error{Pos: e.Pos, Msg: e.Msg}).Error() }

// Parse tokenizes and parses source, returning the Program root. On failure
// it returns a *Error (if parsing failed) or the lexer's own error (if
// tokenizing failed) describing the first problem encountered.
func Parse(filename string, source []byte) (*ast.Program, error) {
	toks, err := lexer.Lex(filename, source)
	if err != nil {
		return nil, err
	}
	return ParseTokens(filename, toks)
}

// ParseTokens parses an already-tokenized stream, as produced by
// lexer.Lex. toks must end with an EOF token.
func ParseTokens(filename string, toks []token.TokenAndValue) (prog *ast.Program, err error) {
	p := &parser{filename: filename, toks: toks}
	defer func() {
		if r := recover(); r != nil {
			pe, ok := r.(*Error)
			if !ok {
				panic(r)
			}
			err = pe
		}
	}()
	return p.parseProgram(), nil
}

// parser consumes a flat token slice and builds the AST in a single forward
// pass. A syntax error panics with *Error, recovered once at the top of
// ParseTokens.
type parser struct {
	filename string
	toks     []token.TokenAndValue
	idx      int
}

func (p *parser) cur() token.TokenAndValue  { return p.toks[p.idx] }
func (p *parser) kind() token.Kind          { return p.toks[p.idx].Kind }
func (p *parser) raw() string               { return p.toks[p.idx].Value.Raw }
func (p *parser) pos() token.Pos            { return p.toks[p.idx].Value.Pos }

func (p *parser) advance() token.TokenAndValue {
	tv := p.toks[p.idx]
	if p.idx < len(p.toks)-1 {
		p.idx++
	}
	return tv
}

// atOp reports whether the current token is an OPERATOR or PUNCT with the
// given raw text.
func (p *parser) atOp(raw string) bool {
	k := p.kind()
	return (k == token.OPERATOR || k == token.PUNCT) && p.raw() == raw
}

// atKeyword reports whether the current token is the KEYWORD raw.
func (p *parser) atKeyword(raw string) bool {
	return p.kind() == token.KEYWORD && p.raw() == raw
}

// expectOp consumes an OPERATOR/PUNCT token with the given raw text, or
// raises a syntax error.
func (p *parser) expectOp(raw string) token.Pos {
	if !p.atOp(raw) {
		p.errorExpected(raw)
	}
	pos := p.pos()
	p.advance()
	return pos
}

// expectKeyword consumes a KEYWORD token with the given raw text, or raises
// a syntax error.
func (p *parser) expectKeyword(raw string) token.Pos {
	if !p.atKeyword(raw) {
		p.errorExpected(raw)
	}
	pos := p.pos()
	p.advance()
	return pos
}

// expectIdent consumes an IDENT token and returns its name, or raises a
// syntax error.
func (p *parser) expectIdent() *ast.Identifier {
	if p.kind() != token.IDENT {
		p.errorExpected("identifier")
	}
	tv := p.advance()
	end := tv.Value.Pos
	return &ast.Identifier{Name: tv.Value.Raw, Start: tv.Value.Pos, End: end}
}

func (p *parser) error(pos token.Pos, msg string) {
	line, col := pos.LineCol()
	panic(&Error{Pos: diag.Position{Filename: p.filename, Line: line, Col: col}, Msg: msg})
}

func (p *parser) errorExpected(want string) {
	found := p.cur().Describe()
	p.error(p.pos(), fmt.Sprintf("expected %s, found %s", want, found))
}

// parseProgram parses the whole token stream as a sequence of top-level
// statements.
func (p *parser) parseProgram() *ast.Program {
	start := p.pos()
	var stmts []ast.Stmt
	for p.kind() != token.EOF {
		stmts = append(stmts, p.parseStmt())
	}
	return &ast.Program{Stmts: stmts, Start: start, End: p.pos()}
}
