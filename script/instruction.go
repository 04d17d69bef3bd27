package script

import (
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/lunfardo314/neoscript"
	"github.com/lunfardo314/neoscript/opcode"
)

var (
	ErrTruncatedScript    = errors.New("truncated script")
	ErrOperandOutOfBounds = errors.New("operand out of bounds")
)

// Instruction is an opcode with its operand. Operand does not include the length prefix
type Instruction struct {
	Opcode  opcode.Opcode
	Operand []byte
}

// implicitRET is returned for instruction pointers at or past the end of the script:
// falling off the end of a script is an implicit return. Each call returns a new instance
func implicitRET() *Instruction {
	return &Instruction{Opcode: opcode.RET}
}

// DecodeInstruction decodes instruction which starts at ip
func DecodeInstruction(code []byte, ip int) (*Instruction, error) {
	if ip < 0 {
		return nil, fmt.Errorf("negative instruction pointer %d", ip)
	}
	if ip >= len(code) {
		return implicitRET(), nil
	}
	op, err := opcode.AssertValid(code[ip])
	if err != nil {
		return nil, fmt.Errorf("%w @ %d", err, ip)
	}
	pos := ip + 1
	var n uint64
	if prefix := op.PrefixWidth(); prefix > 0 {
		if pos+prefix > len(code) {
			return nil, fmt.Errorf("%w: %s length prefix of %d bytes @ %d, script length %d",
				ErrTruncatedScript, op, prefix, ip, len(code))
		}
		switch prefix {
		case 1:
			n = uint64(code[pos])
		case 2:
			n = uint64(neoscript.DecodeInteger[uint16](code[pos : pos+2]))
		case 4:
			n = uint64(neoscript.DecodeInteger[uint32](code[pos : pos+4]))
		}
		pos += prefix
	} else if size, ok := op.OperandSize(); ok {
		n = uint64(size)
	}
	// compared before conversion to int, which may be 32 bits wide
	if n > uint64(len(code)-pos) {
		return nil, fmt.Errorf("%w: %s operand of %d bytes @ %d, script length %d",
			ErrTruncatedScript, op, n, ip, len(code))
	}
	return &Instruction{
		Opcode:  op,
		Operand: code[pos : pos+int(n)],
	}, nil
}

// Size is the number of bytes the instruction occupies in the script
func (i *Instruction) Size() int {
	return 1 + i.Opcode.PrefixWidth() + len(i.Operand)
}

func (i *Instruction) String() string {
	if len(i.Operand) == 0 {
		return i.Opcode.String()
	}
	return fmt.Sprintf("%s %s", i.Opcode, hex.EncodeToString(i.Operand))
}

func (i *Instruction) operand(offset, width int) ([]byte, error) {
	if offset < 0 || offset+width > len(i.Operand) {
		return nil, fmt.Errorf("%w: %s needs %d bytes @ operand offset %d, operand length %d",
			ErrOperandOutOfBounds, i.Opcode, width, offset, len(i.Operand))
	}
	return i.Operand[offset : offset+width], nil
}

func (i *Instruction) TokenU8(offset int) (uint8, error) {
	d, err := i.operand(offset, 1)
	if err != nil {
		return 0, err
	}
	return d[0], nil
}

func (i *Instruction) TokenI8(offset int) (int8, error) {
	v, err := i.TokenU8(offset)
	return int8(v), err
}

func (i *Instruction) TokenU16(offset int) (uint16, error) {
	d, err := i.operand(offset, 2)
	if err != nil {
		return 0, err
	}
	return neoscript.DecodeInteger[uint16](d), nil
}

func (i *Instruction) TokenI16(offset int) (int16, error) {
	v, err := i.TokenU16(offset)
	return int16(v), err
}

func (i *Instruction) TokenU32(offset int) (uint32, error) {
	d, err := i.operand(offset, 4)
	if err != nil {
		return 0, err
	}
	return neoscript.DecodeInteger[uint32](d), nil
}

func (i *Instruction) TokenI32(offset int) (int32, error) {
	v, err := i.TokenU32(offset)
	return int32(v), err
}

// TokenString interprets the whole operand as ASCII string
func (i *Instruction) TokenString() string {
	return string(i.Operand)
}
