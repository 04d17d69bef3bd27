package builder

import (
	"fmt"
	"math"
	"math/big"

	"github.com/lunfardo314/neoscript"
	"github.com/lunfardo314/neoscript/opcode"
)

const longBranchOperandSize = 4

// Emit appends opcode and operand verbatim. No length prefix is added
func (b *Builder) Emit(op opcode.Opcode, operand ...byte) *Builder {
	if b.err != nil {
		return b
	}
	if !op.IsValid() {
		return b.setErr(fmt.Errorf("%w: 0x%02X", opcode.ErrInvalidOpcode, byte(op)))
	}
	b.buf.WriteByte(byte(op))
	b.buf.Write(operand)
	return b
}

// EmitRaw appends bytes as is
func (b *Builder) EmitRaw(data []byte) *Builder {
	if b.err != nil {
		return b
	}
	b.buf.Write(data)
	return b
}

// EmitCall emits CALL if offset fits a signed byte, CALL_L otherwise.
// CALL_L offset is padded to 4 bytes, while legacy tools encoded it minimally
// and did not pad. WithUnpaddedBranchOffsets restores the legacy encoding
func (b *Builder) EmitCall(offset int) *Builder {
	if offset >= math.MinInt8 && offset <= math.MaxInt8 {
		return b.Emit(opcode.CALL, byte(int8(offset)))
	}
	operand, err := b.branchOperand(offset)
	if err != nil {
		return b.setErr(err)
	}
	return b.Emit(opcode.CALL_L, operand...)
}

// EmitJump emits jump or conditional jump. A short form is switched to its long
// pair when offset does not fit a signed byte. A long form always takes the long offset.
// Long offsets are padded to 4 bytes, while legacy tools encoded them minimally
// and did not pad. WithUnpaddedBranchOffsets restores the legacy encoding
func (b *Builder) EmitJump(op opcode.Opcode, offset int) *Builder {
	if !op.IsJump() {
		return b.setErr(fmt.Errorf("%w: %s", ErrInvalidJumpOpcode, op))
	}
	if op.IsShortJump() {
		if offset >= math.MinInt8 && offset <= math.MaxInt8 {
			return b.Emit(op, byte(int8(offset)))
		}
		op = op.LongForm()
	}
	operand, err := b.branchOperand(offset)
	if err != nil {
		return b.setErr(err)
	}
	return b.Emit(op, operand...)
}

// branchOperand encodes long branch offset
func (b *Builder) branchOperand(offset int) ([]byte, error) {
	v := big.NewInt(int64(offset))
	if b.unpaddedBranchOffsets {
		return neoscript.EncodeBigInt(v), nil
	}
	ret, err := neoscript.EncodeBigIntPadded(v, longBranchOperandSize)
	if err != nil {
		return nil, fmt.Errorf("%w: branch offset %d", ErrIntegerTooLarge, offset)
	}
	return ret, nil
}

// EmitPushData emits PUSHDATA1, PUSHDATA2 or PUSHDATA4, whichever length prefix is the smallest
func (b *Builder) EmitPushData(data []byte) *Builder {
	n := uint64(len(data))
	switch {
	case n <= math.MaxUint8:
		b.Emit(opcode.PUSHDATA1, byte(n))
	case n <= math.MaxUint16:
		b.Emit(opcode.PUSHDATA2, neoscript.EncodeInteger(uint16(n))...)
	case n <= math.MaxUint32:
		b.Emit(opcode.PUSHDATA4, neoscript.EncodeInteger(uint32(n))...)
	default:
		return b.setErr(fmt.Errorf("%w: %d bytes", ErrInvalidDataLength, n))
	}
	return b.EmitRaw(data)
}

func (b *Builder) EmitPushString(s string) *Builder {
	return b.EmitPushData([]byte(s))
}

func (b *Builder) EmitPushInt(v int64) *Builder {
	return b.EmitPushBigInt(big.NewInt(v))
}

var pushIntOpcodes = []struct {
	size int
	op   opcode.Opcode
}{
	{1, opcode.PUSHINT8},
	{2, opcode.PUSHINT16},
	{4, opcode.PUSHINT32},
	{8, opcode.PUSHINT64},
	{16, opcode.PUSHINT128},
	{32, opcode.PUSHINT256},
}

// EmitPushBigInt emits the one-byte form for -1..16. Otherwise, the smallest PUSHINT*
// which holds the canonical encoding, sign-extended to the opcode's operand width
func (b *Builder) EmitPushBigInt(v *big.Int) *Builder {
	if v == nil {
		return b.setErr(fmt.Errorf("%w: nil *big.Int", ErrUnsupportedType))
	}
	if v.IsInt64() {
		switch i := v.Int64(); {
		case i == -1:
			return b.Emit(opcode.PUSHM1)
		case i >= 0 && i <= 16:
			return b.Emit(opcode.PUSH0 + opcode.Opcode(i))
		}
	}
	enc := neoscript.EncodeBigInt(v)
	for _, p := range pushIntOpcodes {
		if len(enc) <= p.size {
			return b.Emit(p.op, neoscript.PadTwosComplement(enc, p.size)...)
		}
	}
	return b.setErr(fmt.Errorf("%w: %d bytes", ErrIntegerTooLarge, len(enc)))
}

func (b *Builder) EmitPushBool(v bool) *Builder {
	if v {
		return b.Emit(opcode.PUSHT)
	}
	return b.Emit(opcode.PUSHF)
}

func (b *Builder) EmitPushNull() *Builder {
	return b.Emit(opcode.PUSHNULL)
}

// EmitPushUint160 pushes hash bytes in wire order
func (b *Builder) EmitPushUint160(u neoscript.Uint160) *Builder {
	return b.EmitPushData(u.Bytes())
}

func (b *Builder) EmitPushUint256(u neoscript.Uint256) *Builder {
	return b.EmitPushData(u.Bytes())
}

// EmitPushECPoint pushes a compressed public key (33 bytes, 0x02 or 0x03 prefix)
func (b *Builder) EmitPushECPoint(pub []byte) *Builder {
	if len(pub) != 33 || (pub[0] != 0x02 && pub[0] != 0x03) {
		return b.setErr(fmt.Errorf("%w: %d bytes", ErrInvalidECPoint, len(pub)))
	}
	return b.EmitPushData(pub)
}

// EmitSysCall pushes params in reverse order and emits SYSCALL with the interop hash of the name
func (b *Builder) EmitSysCall(name string, params ...interface{}) *Builder {
	for i := len(params) - 1; i >= 0; i-- {
		b.EmitPush(params[i])
	}
	return b.Emit(opcode.SYSCALL, InteropHashBytes(name)...)
}
