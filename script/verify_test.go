package script

import (
	"errors"
	"testing"

	"github.com/lunfardo314/neoscript/opcode"
	"github.com/stretchr/testify/require"
	"go.uber.org/multierr"
)

func requireInvalidScript(t *testing.T, err error, op opcode.Opcode, offset int) {
	require.ErrorIs(t, err, ErrInvalidScript)
	var e *InvalidScriptError
	require.True(t, errors.As(err, &e))
	require.EqualValues(t, op, e.Opcode)
	require.EqualValues(t, offset, e.Offset)
}

func TestStrictScript(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		// 0: PUSH1, 1: JMPIF -> 5, 3: PUSHINT8, 5: JMP_L -> 3, 10: RET
		code := b(
			opcode.PUSH1,
			opcode.JMPIF, 4,
			opcode.PUSHINT8, 7,
			opcode.JMP_L, 0xFE, 0xFF, 0xFF, 0xFF,
			opcode.RET,
		)
		s, err := NewStrict(code)
		require.NoError(t, err)
		require.True(t, s.IsStrict())
		entries, err := s.Instructions()
		require.NoError(t, err)
		require.EqualValues(t, 5, len(entries))
		sum := 0
		for _, e := range entries {
			require.EqualValues(t, sum, e.IP)
			sum += e.Instruction.Size()
		}
		require.EqualValues(t, len(code), sum)
	})
	t.Run("RET sentinel", func(t *testing.T) {
		s, err := NewStrict(b(opcode.PUSH1))
		require.NoError(t, err)
		for _, ip := range []int{1, 5} {
			instr, err := s.GetInstruction(ip)
			require.NoError(t, err)
			requireImplicitRET(t, instr)
		}
	})
	t.Run("empty script", func(t *testing.T) {
		s, err := NewStrict(nil)
		require.NoError(t, err)
		instr, err := s.GetInstruction(0)
		require.NoError(t, err)
		requireImplicitRET(t, instr)
	})
	t.Run("not instruction boundary", func(t *testing.T) {
		s, err := NewStrict(b(opcode.PUSHINT16, 0x00, 0x01, opcode.RET))
		require.NoError(t, err)
		_, err = s.GetInstruction(1)
		require.ErrorIs(t, err, ErrNotInstructionBoundary)
		instr, err := s.GetInstruction(3)
		require.NoError(t, err)
		require.EqualValues(t, opcode.RET, instr.Opcode)
	})
	t.Run("truncated", func(t *testing.T) {
		_, err := NewStrict(b(opcode.PUSH1, opcode.PUSHINT32, 0x01))
		require.ErrorIs(t, err, ErrTruncatedScript)
	})
	t.Run("invalid opcode", func(t *testing.T) {
		_, err := NewStrict(b(opcode.PUSH1, 0x06))
		require.ErrorIs(t, err, opcode.ErrInvalidOpcode)
	})
}

func TestStrictBranches(t *testing.T) {
	t.Run("jump past the end", func(t *testing.T) {
		_, err := NewStrict(b(opcode.PUSH1, opcode.JMP, 0x05))
		requireInvalidScript(t, err, opcode.JMP, 1)
	})
	t.Run("jump to the end", func(t *testing.T) {
		// the end of the script is not an instruction
		_, err := NewStrict(b(opcode.PUSH1, opcode.JMP, 0x02))
		requireInvalidScript(t, err, opcode.JMP, 1)
	})
	t.Run("jump before the start", func(t *testing.T) {
		_, err := NewStrict(b(opcode.PUSH1, opcode.JMP, 0xFE))
		requireInvalidScript(t, err, opcode.JMP, 1)
	})
	t.Run("jump into the middle of an instruction", func(t *testing.T) {
		_, err := NewStrict(b(opcode.PUSHINT16, 0x01, 0x02, opcode.JMP, 0xFE))
		requireInvalidScript(t, err, opcode.JMP, 3)
	})
	t.Run("jump to itself", func(t *testing.T) {
		_, err := NewStrict(b(opcode.JMP, 0x00))
		require.NoError(t, err)
	})
	t.Run("long conditional jump", func(t *testing.T) {
		_, err := NewStrict(b(opcode.PUSH1, opcode.PUSH1, opcode.JMPEQ_L, 0x05, 0, 0, 0, opcode.RET))
		require.NoError(t, err)
		_, err = NewStrict(b(opcode.PUSH1, opcode.PUSH1, opcode.JMPEQ_L, 0x06, 0, 0, 0, opcode.RET))
		requireInvalidScript(t, err, opcode.JMPEQ_L, 2)
	})
	t.Run("call", func(t *testing.T) {
		_, err := NewStrict(b(opcode.CALL, 0x03, opcode.RET, opcode.RET))
		require.NoError(t, err)
		_, err = NewStrict(b(opcode.CALL_L, 0x10, 0, 0, 0, opcode.RET))
		requireInvalidScript(t, err, opcode.CALL_L, 0)
	})
	t.Run("endtry", func(t *testing.T) {
		_, err := NewStrict(b(opcode.ENDTRY, 0x02, opcode.RET))
		require.NoError(t, err)
		_, err = NewStrict(b(opcode.ENDTRY_L, 0x01, 0, 0, 0, opcode.RET))
		requireInvalidScript(t, err, opcode.ENDTRY_L, 0)
	})
	t.Run("pusha", func(t *testing.T) {
		_, err := NewStrict(b(opcode.PUSHA, 0x05, 0, 0, 0, opcode.RET))
		require.NoError(t, err)
		_, err = NewStrict(b(opcode.PUSHA, 0x07, 0, 0, 0, opcode.RET))
		requireInvalidScript(t, err, opcode.PUSHA, 0)
	})
	t.Run("try", func(t *testing.T) {
		// TRY catch=3 finally=4
		_, err := NewStrict(b(opcode.TRY, 0x03, 0x04, opcode.NOP, opcode.RET))
		require.NoError(t, err)
		// catch fine, finally past the end
		_, err = NewStrict(b(opcode.TRY, 0x03, 0x09, opcode.NOP, opcode.RET))
		requireInvalidScript(t, err, opcode.TRY, 0)
		// finally fine, catch into the operand
		_, err = NewStrict(b(opcode.TRY, 0x01, 0x04, opcode.NOP, opcode.RET))
		requireInvalidScript(t, err, opcode.TRY, 0)
	})
	t.Run("try long", func(t *testing.T) {
		_, err := NewStrict(b(opcode.TRY_L, 0x09, 0, 0, 0, 0x0A, 0, 0, 0, opcode.NOP, opcode.RET))
		require.NoError(t, err)
		_, err = NewStrict(b(opcode.TRY_L, 0x09, 0, 0, 0, 0x0B, 0, 0, 0, opcode.NOP, opcode.RET))
		requireInvalidScript(t, err, opcode.TRY_L, 0)
	})
}

func TestStrictTypeOperands(t *testing.T) {
	t.Run("Any", func(t *testing.T) {
		_, err := NewStrict(b(opcode.PUSH1, opcode.ISTYPE, byte(opcode.AnyType)))
		requireInvalidScript(t, err, opcode.ISTYPE, 1)
		_, err = NewStrict(b(opcode.PUSH1, opcode.CONVERT, byte(opcode.AnyType)))
		requireInvalidScript(t, err, opcode.CONVERT, 1)
		_, err = NewStrict(b(opcode.PUSH1, opcode.NEWARRAY_T, byte(opcode.AnyType)))
		require.NoError(t, err)
	})
	t.Run("valid types", func(t *testing.T) {
		_, err := NewStrict(b(opcode.PUSH1, opcode.ISTYPE, byte(opcode.IntegerType)))
		require.NoError(t, err)
		_, err = NewStrict(b(opcode.PUSH1, opcode.CONVERT, byte(opcode.ByteStringType)))
		require.NoError(t, err)
		_, err = NewStrict(b(opcode.PUSH1, opcode.NEWARRAY_T, byte(opcode.BooleanType)))
		require.NoError(t, err)
	})
	t.Run("unknown type", func(t *testing.T) {
		for _, op := range []opcode.Opcode{opcode.NEWARRAY_T, opcode.ISTYPE, opcode.CONVERT} {
			_, err := NewStrict(b(opcode.PUSH1, op, 0x22))
			requireInvalidScript(t, err, op, 1)
		}
	})
}

func TestVerifyAll(t *testing.T) {
	// bad target @ 0, Any type @ 2, CALL @ 4 is fine, TRY @ 6 has two bad targets
	code := b(
		opcode.JMP, 0x50,
		opcode.ISTYPE, byte(opcode.AnyType),
		opcode.CALL, 0x00,
		opcode.TRY, 0x40, 0x41,
	)
	err := VerifyAll(code)
	require.ErrorIs(t, err, ErrInvalidScript)
	errs := multierr.Errors(err)
	require.EqualValues(t, 4, len(errs))
	offsets := make([]int, len(errs))
	for i, e := range errs {
		var ise *InvalidScriptError
		require.True(t, errors.As(e, &ise))
		offsets[i] = ise.Offset
	}
	require.EqualValues(t, []int{0, 2, 6, 6}, offsets)

	require.NoError(t, VerifyAll(b(opcode.PUSH1, opcode.RET)))
	require.ErrorIs(t, VerifyAll(b(opcode.PUSHDATA1, 0x05)), ErrTruncatedScript)

	// strict construction reports the first violation only
	_, err = NewStrict(code)
	requireInvalidScript(t, err, opcode.JMP, 0)
}
