package compiler_test

import (
	"strings"
	"testing"

	"github.com/mna/aheadc/lang/compiler"
	"github.com/mna/aheadc/lang/parser"
	"github.com/mna/aheadc/lang/resolver"
	"github.com/stretchr/testify/require"
)

// compile parses, resolves and emits src in one step, failing the test on
// any stage error. Callers get back the Program plus its disassembly so
// assertions can read instruction mnemonics instead of counting bytes.
func compile(t *testing.T, src string) (*compiler.Program, string) {
	t.Helper()
	prog, err := parser.Parse("test.js", []byte(src))
	require.NoError(t, err)
	require.NoError(t, resolver.Resolve("test.js", prog))
	out, err := compiler.Emit(prog)
	require.NoError(t, err)
	dasm, err := compiler.Dasm(out)
	require.NoError(t, err)
	return out, dasm
}

func TestEmitLiteralStatementPushesAndPops(t *testing.T) {
	_, dasm := compile(t, `42;`)
	require.Equal(t, "constants:\n\t0\t42\ncode:\n\t0000\tPUSH_CONST\t0\n\t0005\tPOP\n\t0006\tHALT\n", dasm)
}

func TestEmitVarDeclNoConstantFold(t *testing.T) {
	// `let x = 1 + 2;` pushes both operands and adds them, then stores. The
	// STORE_VAR name operand is a constant-pool index like any other: "x" is
	// interned after 1 and 2, landing at index 2.
	_, dasm := compile(t, `let x = 1 + 2;`)
	require.Equal(t, "constants:\n\t0\t1\n\t1\t2\n\t2\t\"x\"\ncode:\n"+
		"\t0000\tPUSH_CONST\t0\n"+
		"\t0005\tPUSH_CONST\t1\n"+
		"\t0010\tADD\n"+
		"\t0011\tSTORE_VAR\t2\n"+
		"\t0016\tHALT\n", dasm)
}

func TestEmitIfElseOneJZOneJMP(t *testing.T) {
	_, dasm := compile(t, `
		if (true) {
			1;
		} else {
			2;
		}
	`)
	// One JZ skips the then-branch to the else-branch; the then-branch ends
	// with one JMP past the else-branch.
	jzCount, jmpCount := 0, 0
	for _, line := range strings.Split(dasm, "\n") {
		switch {
		case strings.Contains(line, "JZ\t"):
			jzCount++
		case strings.Contains(line, "JMP\t"):
			jmpCount++
		}
	}
	require.Equal(t, 1, jzCount)
	require.Equal(t, 1, jmpCount)
}

func TestEmitWhileBackwardJump(t *testing.T) {
	_, dasm := compile(t, `
		let i = 0;
		while (i) {
			i;
		}
	`)
	// The loop's trailing JMP back to the condition test has a negative
	// displacement.
	found := false
	for _, line := range strings.Split(dasm, "\n") {
		if strings.Contains(line, "JMP\t-") {
			found = true
		}
	}
	require.True(t, found, "expected a backward (negative displacement) JMP in:\n%s", dasm)
}

func TestEmitTemplateLiteralRoundTripLaw(t *testing.T) {
	// `a${x}b${y}c` must lower to exactly:
	//   PUSH_CONST "a"; LOAD_VAR x; PUSH_CONST "b"; ADD; ADD;
	//   LOAD_VAR y; PUSH_CONST "c"; ADD; ADD
	// i.e. each expression combines with the quasi that follows it first,
	// and that pair folds into the running accumulator second. Variable
	// names interleave into the single constant pool in the order they're
	// first referenced: 1, "x", 2, "y", then the three quasis.
	_, dasm := compile(t, "let x = 1; let y = 2; `a${x}b${y}c`;")
	require.Equal(t, "constants:\n"+
		"\t0\t1\n"+
		"\t1\t\"x\"\n"+
		"\t2\t2\n"+
		"\t3\t\"y\"\n"+
		"\t4\t\"a\"\n"+
		"\t5\t\"b\"\n"+
		"\t6\t\"c\"\n"+
		"code:\n"+
		"\t0000\tPUSH_CONST\t0\n"+
		"\t0005\tSTORE_VAR\t1\n"+
		"\t0010\tPUSH_CONST\t2\n"+
		"\t0015\tSTORE_VAR\t3\n"+
		"\t0020\tPUSH_CONST\t4\n"+
		"\t0025\tLOAD_VAR\t1\n"+
		"\t0030\tPUSH_CONST\t5\n"+
		"\t0035\tADD\n"+
		"\t0036\tADD\n"+
		"\t0037\tLOAD_VAR\t3\n"+
		"\t0042\tPUSH_CONST\t6\n"+
		"\t0047\tADD\n"+
		"\t0048\tADD\n"+
		"\t0049\tPOP\n"+
		"\t0050\tHALT\n", dasm)
}

func TestEmitNullishCoalescingLeavesBalancedStack(t *testing.T) {
	// `x ?? 1` must not DUP the left operand: IS_NULLISH already tests it
	// without consuming it, so JZ alone (skipping past the pop+evaluate-right
	// when NOT nullish) leaves exactly one value on the stack either way.
	_, dasm := compile(t, "let x = null; x ?? 1;")
	require.Equal(t, "constants:\n"+
		"\t0\tnull\n"+
		"\t1\t\"x\"\n"+
		"\t2\t1\n"+
		"code:\n"+
		"\t0000\tPUSH_CONST\t0\n"+
		"\t0005\tSTORE_VAR\t1\n"+
		"\t0010\tLOAD_VAR\t1\n"+
		"\t0015\tIS_NULLISH\n"+
		"\t0016\tJZ\t6\t# -> 0025\n"+
		"\t0019\tPOP\n"+
		"\t0020\tPUSH_CONST\t2\n"+
		"\t0025\tPOP\n"+
		"\t0026\tHALT\n", dasm)
}

func TestEmitNullishCoalescingCompoundAssignLeavesBalancedStack(t *testing.T) {
	// `x ??= 1` must not carry a leftover copy of the old value once the
	// assignment has happened: see TestEmitNullishCoalescingLeavesBalancedStack.
	_, dasm := compile(t, "let x = null; x ??= 1;")
	require.Equal(t, "constants:\n"+
		"\t0\tnull\n"+
		"\t1\t\"x\"\n"+
		"\t2\t1\n"+
		"code:\n"+
		"\t0000\tPUSH_CONST\t0\n"+
		"\t0005\tSTORE_VAR\t1\n"+
		"\t0010\tLOAD_VAR\t1\n"+
		"\t0015\tIS_NULLISH\n"+
		"\t0016\tJZ\t12\t# -> 0031\n"+
		"\t0019\tPOP\n"+
		"\t0020\tPUSH_CONST\t2\n"+
		"\t0025\tDUP\n"+
		"\t0026\tSTORE_VAR\t1\n"+
		"\t0031\tPOP\n"+
		"\t0032\tHALT\n", dasm)
}

func TestEmitPostfixIncrementDupsBeforeArithmetic(t *testing.T) {
	// `x++` must yield the *old* value: DUP happens before the ADD, so the
	// value left for STORE_VAR to consume is the new one while the old one
	// survives underneath as the expression's result.
	_, dasm := compile(t, `let x = 1; x++;`)
	lines := strings.Split(dasm, "\n")
	dupIdx, addIdx := -1, -1
	for i, l := range lines {
		if strings.Contains(l, "\tDUP") && dupIdx == -1 {
			dupIdx = i
		}
		if strings.Contains(l, "\tADD") {
			addIdx = i
		}
	}
	require.NotEqual(t, -1, dupIdx)
	require.NotEqual(t, -1, addIdx)
	require.Less(t, dupIdx, addIdx, "postfix ++ must DUP before ADD:\n%s", dasm)
}

func TestEmitPrefixIncrementDupsAfterArithmetic(t *testing.T) {
	_, dasm := compile(t, `let x = 1; ++x;`)
	lines := strings.Split(dasm, "\n")
	dupIdx, addIdx := -1, -1
	for i, l := range lines {
		if strings.Contains(l, "\tADD") {
			addIdx = i
		}
		if strings.Contains(l, "\tDUP") && addIdx != -1 && dupIdx == -1 {
			dupIdx = i
		}
	}
	require.NotEqual(t, -1, dupIdx)
	require.Greater(t, dupIdx, addIdx, "prefix ++ must DUP after ADD:\n%s", dasm)
}
