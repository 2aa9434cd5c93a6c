package container_test

import (
	"testing"

	"github.com/mna/aheadc/container"
	"github.com/mna/aheadc/lang/compiler"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAssembleHeaderLengthsMatchSections(t *testing.T) {
	prog := &compiler.Program{
		Code: []byte{0x01, 0x02, 0x03},
		Constants: []compiler.Const{
			{Kind: compiler.ConstString, Str: "hello"},
			{Kind: compiler.ConstNumber, Num: 42},
		},
	}
	raw, err := container.Assemble("PBO3", prog)
	require.NoError(t, err)

	h, data, code, err := container.Disassemble(raw)
	require.NoError(t, err)
	assert.Equal(t, "PBO3", h.Magic)
	assert.Equal(t, uint32(0), h.EntryOffset)
	assert.EqualValues(t, len(data), h.DataLen)
	assert.EqualValues(t, len(code), h.CodeLen)
	assert.Equal(t, prog.Code, code)
}

func TestAssembleRejectsNonFourByteMagic(t *testing.T) {
	_, err := container.Assemble("TOOLONG", &compiler.Program{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "4 ASCII bytes")
}

func TestDisassembleRejectsTruncatedHeader(t *testing.T) {
	_, _, _, err := container.Disassemble([]byte{0x01, 0x02})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "truncated header")
}

func TestDisassembleRejectsLengthMismatch(t *testing.T) {
	prog := &compiler.Program{Code: []byte{0xFF}}
	raw, err := container.Assemble("PBO3", prog)
	require.NoError(t, err)

	_, _, _, err = container.Disassemble(raw[:len(raw)-1])
	require.Error(t, err)
	assert.Contains(t, err.Error(), "length mismatch")
}

func TestEncodeConstantBooleanAndNull(t *testing.T) {
	prog := &compiler.Program{
		Constants: []compiler.Const{
			{Kind: compiler.ConstBool, Bool: true},
			{Kind: compiler.ConstNull},
			{Kind: compiler.ConstUndefined},
			{Kind: compiler.ConstBigInt, BigInt: -7},
		},
	}
	raw, err := container.Assemble("PBO3", prog)
	require.NoError(t, err)
	_, data, _, err := container.Disassemble(raw)
	require.NoError(t, err)
	// bool(4+1) + null(4+1) + undefined(4+1) + bigint(4+8) = 5+5+5+12 = 27
	assert.Equal(t, 27, len(data))
}
