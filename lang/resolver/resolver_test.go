package resolver_test

import (
	"testing"

	"github.com/mna/aheadc/internal/diag"
	"github.com/mna/aheadc/lang/parser"
	"github.com/mna/aheadc/lang/resolver"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func resolve(t *testing.T, src string) error {
	t.Helper()
	prog, err := parser.Parse("t.js", []byte(src))
	require.NoError(t, err)
	return resolver.Resolve("t.js", prog)
}

func TestResolveValidProgram(t *testing.T) {
	err := resolve(t, `
		let x = 1;
		function f(a, b) {
			return a + b + x;
		}
		console.log(f(1, 2));
	`)
	assert.NoError(t, err)
}

func TestResolveUndefinedVariable(t *testing.T) {
	err := resolve(t, `f(1);`)
	require.Error(t, err)
	msgs := diag.Messages(err)
	require.Len(t, msgs, 1)
	assert.Contains(t, msgs[0], "undefined variable")
}

func TestResolveDuplicateDeclaration(t *testing.T) {
	err := resolve(t, `let x = 1; let x = 2;`)
	require.Error(t, err)
	msgs := diag.Messages(err)
	require.Len(t, msgs, 1)
	assert.Contains(t, msgs[0], "Duplicate declaration")
}

func TestResolveShadowingAcrossScopesIsFine(t *testing.T) {
	err := resolve(t, `
		let x = 1;
		function f() {
			let x = 2;
			return x;
		}
	`)
	assert.NoError(t, err)
}

func TestResolveBatchesMultipleDiagnostics(t *testing.T) {
	err := resolve(t, `
		a();
		let y = 1;
		let y = 2;
		b();
	`)
	require.Error(t, err)
	msgs := diag.Messages(err)
	assert.Len(t, msgs, 3)
}

func TestResolveDestructuringDeclaresEachLeaf(t *testing.T) {
	err := resolve(t, `
		let {a, b: [c, ...d]} = obj;
		console.log(a, c, d);
	`)
	require.Error(t, err) // "obj" is undefined
	msgs := diag.Messages(err)
	require.Len(t, msgs, 1)
	assert.Contains(t, msgs[0], "obj")
}

func TestResolveForOfBindsLoopVariable(t *testing.T) {
	err := resolve(t, `
		let xs = [1, 2, 3];
		for (const x of xs) {
			console.log(x);
		}
	`)
	assert.NoError(t, err)
}

func TestResolveCatchParamScopedToCatchBlock(t *testing.T) {
	err := resolve(t, `
		try {
			f();
		} catch (e) {
			console.log(e);
		}
		console.log(e);
	`)
	require.Error(t, err)
	msgs := diag.Messages(err)
	// f() is undefined, and the second console.log(e) references e outside
	// the catch scope.
	assert.Len(t, msgs, 2)
}

func TestResolveBuiltinAllowlist(t *testing.T) {
	err := resolve(t, `
		console.log(Math.max(1, 2));
		JSON.stringify({});
		new Map();
		globalThis.fetch("/x");
	`)
	assert.NoError(t, err)
}

func TestResolveClassBindsNameAndMethodsSeeThis(t *testing.T) {
	err := resolve(t, `
		class Point {
			constructor(x, y) {
				this.x = x;
				this.y = y;
			}
			sum() {
				return this.x + this.y;
			}
		}
		new Point(1, 2);
	`)
	assert.NoError(t, err)
}

func TestResolveSwitchCaseScope(t *testing.T) {
	err := resolve(t, `
		switch (x) {
		case 1: {
			let y = 1;
			console.log(y);
			break;
		}
		default:
			console.log(y);
		}
	`)
	require.Error(t, err)
	msgs := diag.Messages(err)
	// x is undefined, and y from the case-1 block is out of scope in default.
	assert.Len(t, msgs, 2)
}
