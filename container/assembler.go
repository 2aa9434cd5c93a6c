// Package container wraps a compiled Program (from either lang/compiler or
// graph) into the binary file format both front ends share: a fixed header
// followed by a data section and a code section, per spec §4.6.
package container

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/mna/aheadc/lang/compiler"
)

const headerSize = 16

// Assemble lays out magic, prog's constants, and prog's code as
// header(16) | data | code. The header records the entry offset (always 0
// in this revision), the data-section length, and the code-section length,
// all u32 little-endian, so a reader can find the code section without
// decoding the data section first.
func Assemble(magic string, prog *compiler.Program) ([]byte, error) {
	if len(magic) != 4 {
		return nil, fmt.Errorf("container: magic must be exactly 4 ASCII bytes, got %q", magic)
	}

	data, err := encodeConstants(prog.Constants)
	if err != nil {
		return nil, err
	}

	out := make([]byte, headerSize, headerSize+len(data)+len(prog.Code))
	copy(out[0:4], magic)
	binary.LittleEndian.PutUint32(out[4:8], 0)
	binary.LittleEndian.PutUint32(out[8:12], uint32(len(data)))
	binary.LittleEndian.PutUint32(out[12:16], uint32(len(prog.Code)))
	out = append(out, data...)
	out = append(out, prog.Code...)
	return out, nil
}

// Header is the container's decoded 16-byte preamble.
type Header struct {
	Magic       string
	EntryOffset uint32
	DataLen     uint32
	CodeLen     uint32
}

// Disassemble splits a container back into its header, data section, and
// code section, validating that the header's lengths match the bytes
// actually present (spec §8's "header's code-size and data-size match the
// encoded sections byte-exactly" invariant).
func Disassemble(raw []byte) (Header, []byte, []byte, error) {
	if len(raw) < headerSize {
		return Header{}, nil, nil, fmt.Errorf("container: truncated header: got %d bytes, want at least %d", len(raw), headerSize)
	}
	h := Header{
		Magic:       string(raw[0:4]),
		EntryOffset: binary.LittleEndian.Uint32(raw[4:8]),
		DataLen:     binary.LittleEndian.Uint32(raw[8:12]),
		CodeLen:     binary.LittleEndian.Uint32(raw[12:16]),
	}
	want := headerSize + int(h.DataLen) + int(h.CodeLen)
	if len(raw) != want {
		return Header{}, nil, nil, fmt.Errorf("container: length mismatch: header declares %d total bytes, got %d", want, len(raw))
	}
	data := raw[headerSize : headerSize+int(h.DataLen)]
	code := raw[headerSize+int(h.DataLen):]
	return h, data, code, nil
}

// encodeConstants encodes a constant pool as a sequence of
// length(u32 LE) || value entries, value kind implied by the pool's own
// kind tag (Open Question 2 in spec §9, resolved in DESIGN.md in favor of
// this length-prefixed raw encoding over the disassembler's tagged-byte
// alternative).
func encodeConstants(consts []compiler.Const) ([]byte, error) {
	var out []byte
	for _, c := range consts {
		enc, err := encodeConst(c)
		if err != nil {
			return nil, err
		}
		var lenBuf [4]byte
		binary.LittleEndian.PutUint32(lenBuf[:], uint32(len(enc)))
		out = append(out, lenBuf[:]...)
		out = append(out, enc...)
	}
	return out, nil
}

func encodeConst(c compiler.Const) ([]byte, error) {
	switch c.Kind {
	case compiler.ConstString:
		return []byte(c.Str), nil
	case compiler.ConstNumber, compiler.ConstFuncRef:
		var b [8]byte
		binary.LittleEndian.PutUint64(b[:], math.Float64bits(c.Num))
		return b[:], nil
	case compiler.ConstNull, compiler.ConstUndefined:
		return []byte{0x00}, nil
	case compiler.ConstBool:
		if c.Bool {
			return []byte{0x01}, nil
		}
		return []byte{0x00}, nil
	case compiler.ConstBigInt:
		var b [8]byte
		binary.LittleEndian.PutUint64(b[:], uint64(c.BigInt))
		return b[:], nil
	case compiler.ConstObject:
		return []byte(c.Object), nil
	default:
		return nil, fmt.Errorf("container: unsupported constant kind %v", c.Kind)
	}
}
