package graph_test

import (
	"strings"
	"testing"

	"github.com/mna/aheadc/graph"
	"github.com/mna/aheadc/lang/compiler"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func build(t *testing.T, doc string) (*compiler.Program, string) {
	t.Helper()
	g, err := graph.Parse([]byte(doc))
	require.NoError(t, err)
	prog, err := graph.Emit(g)
	require.NoError(t, err)
	dasm, err := compiler.Dasm(prog)
	require.NoError(t, err)
	return prog, dasm
}

func TestEmitSimpleStartEndGraph(t *testing.T) {
	// Seed scenario 4: a two-block start->end graph lowers to
	// EXEC_BLOCK idx(A); EXEC_BLOCK idx(B); HALT.
	_, dasm := build(t, `{
		"blocks": [
			{"id": "A", "type": "start"},
			{"id": "B", "type": "end"}
		],
		"connections": [
			{"from": "A", "to": "B"}
		]
	}`)
	require.Contains(t, dasm, "0000\tEXEC_BLOCK\t0\n")
	require.Contains(t, dasm, "0005\tEXEC_BLOCK\t1\n")
	require.Contains(t, dasm, "0010\tHALT\n")
}

func TestEmitIfFallsThroughToTrueTarget(t *testing.T) {
	// Seed scenario 5: A's JZ targets F; T (the fall-through) is placed
	// immediately after A, F appears later in the stream.
	_, dasm := build(t, `{
		"blocks": [
			{"id": "A", "type": "if", "config": {"trueTarget": "T", "falseTarget": "F"}},
			{"id": "T", "type": "end"},
			{"id": "F", "type": "fail"}
		],
		"connections": [
			{"from": "A", "to": "T"},
			{"from": "A", "to": "F"}
		]
	}`)
	lines := strings.Split(dasm, "\n")
	aIdx := indexContaining(lines, "EXEC_BLOCK\t0")
	jzIdx := indexContaining(lines, "JZ\t")
	tIdx := indexContaining(lines, "EXEC_BLOCK\t1")
	fIdx := indexContaining(lines, "EXEC_BLOCK\t2")
	require.NotEqual(t, -1, aIdx)
	require.NotEqual(t, -1, jzIdx)
	require.NotEqual(t, -1, tIdx)
	require.NotEqual(t, -1, fIdx)
	require.Less(t, aIdx, jzIdx)
	require.Less(t, jzIdx, tIdx)
	require.Less(t, tIdx, fIdx)
}

func TestParseRejectsMultipleStartBlocks(t *testing.T) {
	_, err := graph.Parse([]byte(`{
		"blocks": [
			{"id": "A", "type": "start"},
			{"id": "B", "type": "start"}
		],
		"connections": []
	}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "multiple start blocks")
}

func TestParseRejectsMissingEntry(t *testing.T) {
	_, err := graph.Parse([]byte(`{
		"blocks": [
			{"id": "A", "type": "end"},
			{"id": "B", "type": "end"}
		],
		"connections": [
			{"from": "A", "to": "B"},
			{"from": "B", "to": "A"}
		]
	}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no entry")
}

func TestParseRejectsIfMissingTrueTarget(t *testing.T) {
	_, err := graph.Parse([]byte(`{
		"blocks": [
			{"id": "A", "type": "if", "config": {"falseTarget": "F"}},
			{"id": "F", "type": "end"}
		],
		"connections": [
			{"from": "A", "to": "F"}
		]
	}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "trueTarget")
}

func TestParseRejectsUnknownEndpoint(t *testing.T) {
	_, err := graph.Parse([]byte(`{
		"blocks": [{"id": "A", "type": "start"}],
		"connections": [{"from": "A", "to": "Ghost"}]
	}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown block")
}

func TestParseRejectsDuplicateEdge(t *testing.T) {
	_, err := graph.Parse([]byte(`{
		"blocks": [
			{"id": "A", "type": "start"},
			{"id": "B", "type": "end"}
		],
		"connections": [
			{"from": "A", "to": "B"},
			{"from": "A", "to": "B"}
		]
	}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate edge")
}

func indexContaining(lines []string, substr string) int {
	for i, l := range lines {
		if strings.Contains(l, substr) {
			return i
		}
	}
	return -1
}
