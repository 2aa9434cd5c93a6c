package lexer_test

import (
	"testing"

	"github.com/mna/aheadc/lang/lexer"
	"github.com/mna/aheadc/lang/token"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func kinds(t *testing.T, toks []token.TokenAndValue) []token.Kind {
	t.Helper()
	var out []token.Kind
	for _, tv := range toks {
		out = append(out, tv.Kind)
	}
	return out
}

func TestLexNumbers(t *testing.T) {
	toks, err := lexer.Lex("t.js", []byte("42 3.14 0x1F 0o17 0b101 10n 2.5e3"))
	require.NoError(t, err)
	require.Len(t, toks, 8) // 7 numbers + EOF

	assert.Equal(t, float64(42), toks[0].Value.Float)
	assert.Equal(t, float64(3.14), toks[1].Value.Float)
	assert.Equal(t, float64(31), toks[2].Value.Float)
	assert.Equal(t, float64(15), toks[3].Value.Float)
	assert.Equal(t, float64(5), toks[4].Value.Float)
	assert.Equal(t, token.BIGINT, toks[5].Kind)
	assert.Equal(t, int64(10), toks[5].Value.Int)
	assert.Equal(t, float64(2500), toks[6].Value.Float)
}

func TestLexStrings(t *testing.T) {
	toks, err := lexer.Lex("t.js", []byte(`"a\nb" 'c\'d'`))
	require.NoError(t, err)
	require.Len(t, toks, 3)
	assert.Equal(t, "a\nb", toks[0].Value.String)
	assert.Equal(t, "c'd", toks[1].Value.String)
}

func TestLexUnterminatedString(t *testing.T) {
	_, err := lexer.Lex("t.js", []byte(`"abc`))
	require.Error(t, err)
}

func TestLexIdentifiersAndKeywords(t *testing.T) {
	toks, err := lexer.Lex("t.js", []byte("foo let bar"))
	require.NoError(t, err)
	require.Len(t, toks, 4)
	assert.Equal(t, token.IDENT, toks[0].Kind)
	assert.Equal(t, token.KEYWORD, toks[1].Kind)
	assert.Equal(t, token.IDENT, toks[2].Kind)
}

func TestLexOperatorsLongestMatch(t *testing.T) {
	toks, err := lexer.Lex("t.js", []byte(">>>= ??= ... ?."))
	require.NoError(t, err)
	require.Len(t, toks, 5)
	assert.Equal(t, ">>>=", toks[0].Value.Raw)
	assert.Equal(t, "??=", toks[1].Value.Raw)
	assert.Equal(t, "...", toks[2].Value.Raw)
	assert.Equal(t, "?.", toks[3].Value.Raw)
}

func TestLexComments(t *testing.T) {
	toks, err := lexer.Lex("t.js", []byte("a // line comment\nb /* block\ncomment */ c"))
	require.NoError(t, err)
	require.Len(t, toks, 4)
	assert.Equal(t, "a", toks[0].Value.Raw)
	assert.Equal(t, "b", toks[1].Value.Raw)
	assert.Equal(t, "c", toks[2].Value.Raw)
}

func TestLexUnterminatedBlockComment(t *testing.T) {
	_, err := lexer.Lex("t.js", []byte("a /* nope"))
	require.Error(t, err)
}

func TestLexSimpleTemplateLiteral(t *testing.T) {
	toks, err := lexer.Lex("t.js", []byte("`hello`"))
	require.NoError(t, err)
	require.Len(t, toks, 2)
	assert.Equal(t, token.TEMPLATE, toks[0].Kind)
	assert.Equal(t, "hello", toks[0].Value.String)
}

func TestLexTemplateWithInterpolation(t *testing.T) {
	toks, err := lexer.Lex("t.js", []byte("`a${x + 1}b`"))
	require.NoError(t, err)
	// TEMPLATE_HEAD, TEMPLATE_EXPR, TEMPLATE_TAIL, EOF
	require.Len(t, toks, 4)
	assert.Equal(t, token.TEMPLATE_HEAD, toks[0].Kind)
	assert.Equal(t, "a", toks[0].Value.String)
	assert.Equal(t, token.TEMPLATE_EXPR, toks[1].Kind)
	nested := toks[1].Value.Exprs
	require.True(t, len(nested) >= 4) // x, +, 1, EOF
	assert.Equal(t, token.EOF, nested[len(nested)-1].Kind)
	assert.Equal(t, token.TEMPLATE_TAIL, toks[2].Kind)
	assert.Equal(t, "b", toks[2].Value.String)
}

func TestLexTemplateNestedBraces(t *testing.T) {
	// the interpolation contains an object literal; its braces must not be
	// mistaken for the interpolation's closing brace.
	toks, err := lexer.Lex("t.js", []byte("`x${ {a:1}.a }y`"))
	require.NoError(t, err)
	require.Len(t, toks, 4)
	assert.Equal(t, token.TEMPLATE_TAIL, toks[2].Kind)
	assert.Equal(t, "y", toks[2].Value.String)
}

func TestLexUnterminatedTemplate(t *testing.T) {
	_, err := lexer.Lex("t.js", []byte("`abc"))
	require.Error(t, err)
}

func TestLexIllegalCharacter(t *testing.T) {
	_, err := lexer.Lex("t.js", []byte("@"))
	require.Error(t, err)
}
