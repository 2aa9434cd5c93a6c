package compiler

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"github.com/mna/aheadc/lang/opcode"
)

// Dasm renders a Program's instruction stream and constant pool to a
// human-readable textual form, for use in tests that assert on the shape
// of emitted bytecode without manually counting bytes. Unlike a full
// assembler, Dasm only ever runs in one direction: nothing in this module
// constructs a Program from text, so no corresponding Asm exists (see
// DESIGN.md).
func Dasm(p *Program) (string, error) {
	var buf bytes.Buffer
	if len(p.Constants) > 0 {
		buf.WriteString("constants:\n")
		for i, c := range p.Constants {
			fmt.Fprintf(&buf, "\t%d\t%s\n", i, c)
		}
	}
	buf.WriteString("code:\n")
	off := 0
	for off < len(p.Code) {
		op := opcode.Op(p.Code[off])
		start := off
		off++
		switch opcode.Operand(op) {
		case opcode.OperandNone:
			fmt.Fprintf(&buf, "\t%04d\t%s\n", start, op)
		case opcode.OperandIndex, opcode.OperandArgCount:
			if off+4 > len(p.Code) {
				return "", fmt.Errorf("compiler: truncated operand for %s at offset %d", op, start)
			}
			idx := binary.BigEndian.Uint32(p.Code[off:])
			off += 4
			fmt.Fprintf(&buf, "\t%04d\t%s\t%d\n", start, op, idx)
		case opcode.OperandJump:
			if off+2 > len(p.Code) {
				return "", fmt.Errorf("compiler: truncated operand for %s at offset %d", op, start)
			}
			disp := int16(binary.BigEndian.Uint16(p.Code[off:]))
			target := off + 2 + int(disp)
			off += 2
			fmt.Fprintf(&buf, "\t%04d\t%s\t%d\t# -> %04d\n", start, op, disp, target)
		default:
			return "", fmt.Errorf("compiler: unknown operand kind for %s at offset %d", op, start)
		}
	}
	return buf.String(), nil
}
