package asm

import (
	"encoding/hex"
	"errors"
	"fmt"
	"math/big"
	"strconv"
	"strings"

	"github.com/lunfardo314/neoscript"
	"github.com/lunfardo314/neoscript/builder"
	"github.com/lunfardo314/neoscript/opcode"
	"go.uber.org/zap"
)

// pseudo-instructions expanded by the builder into the shortest encoding
const (
	pseudoPushInt  = "PUSHINT"
	pseudoPushData = "PUSHDATA"
	pseudoPushStr  = "PUSHSTR"
	pseudoPushBool = "PUSHBOOL"
)

func GenProgram(fun func(p *Program), opts ...builder.Option) ([]byte, error) {
	var ret []byte
	err := neoscript.CatchPanicOrError(func() error {
		p := NewProgram(nil, opts...)
		fun(p)
		var err error
		ret, err = p.Compile()
		return err
	})
	if err != nil {
		return nil, err
	}
	return ret, nil
}

func MustGenProgram(fun func(p *Program), opts ...builder.Option) []byte {
	ret, err := GenProgram(fun, opts...)
	if err != nil {
		panic(err)
	}
	return ret
}

// Compile assembles source text. Each line is
//
//	[label:] [MNEMONIC [operand {, operand}]] [; comment]
//
// Operands are integers, 0x-prefixed hex data, quoted strings, stack item
// type names and @label branch targets
func Compile(source string, opts ...builder.Option) ([]byte, error) {
	return CompileWithLogger(source, nil, opts...)
}

func CompileWithLogger(source string, log *zap.SugaredLogger, opts ...builder.Option) ([]byte, error) {
	prog := NewProgram(log, opts...)
	err := neoscript.CatchPanicOrError(func() error {
		for lineno, line := range splitLines(source) {
			if err := compileLine(prog, line); err != nil {
				return fmt.Errorf("%w @ line %d: '%s'", err, lineno+1, strings.TrimSpace(line))
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return prog.Compile()
}

func compileLine(prog *Program, line string) error {
	instr, err := stripComment(line)
	if err != nil {
		return err
	}
	instr = strings.TrimSpace(instr)
	if label, rest, found := strings.Cut(instr, ":"); found && isLabelName(label) {
		prog.Label(label)
		instr = strings.TrimSpace(rest)
	}
	if len(instr) == 0 {
		return nil
	}
	mnemonic, params := instr, ""
	if i := strings.IndexAny(instr, " \t"); i >= 0 {
		mnemonic, params = instr[:i], instr[i+1:]
	}
	mnemonic = strings.ToUpper(mnemonic)
	par, err := splitParams(params)
	if err != nil {
		return err
	}
	prog.log.Debugf("opcode: '%s', params: %v", mnemonic, par)

	switch mnemonic {
	case pseudoPushInt, pseudoPushData, pseudoPushStr, pseudoPushBool:
		return compilePseudo(prog, mnemonic, par)
	}
	op, err := opcode.FromName(mnemonic)
	if err != nil {
		return err
	}
	prog.OP(op)
	return assembleParams(prog, op, par)
}

func compilePseudo(prog *Program, mnemonic string, params []string) error {
	if len(params) != 1 {
		return fmt.Errorf("%s: expected 1 parameter, got %d", mnemonic, len(params))
	}
	p := params[0]
	switch mnemonic {
	case pseudoPushInt:
		v, err := parseInt(p)
		if err != nil {
			return err
		}
		prog.Emit(func(b *builder.Builder) { b.EmitPushBigInt(v) })
	case pseudoPushData, pseudoPushStr:
		data, err := parseData(p)
		if err != nil {
			return err
		}
		prog.Emit(func(b *builder.Builder) { b.EmitPushData(data) })
	case pseudoPushBool:
		v, err := strconv.ParseBool(p)
		if err != nil {
			return err
		}
		prog.Emit(func(b *builder.Builder) { b.EmitPushBool(v) })
	}
	return nil
}

func assembleParams(prog *Program, op opcode.Opcode, params []string) error {
	switch {
	case op == opcode.TRY || op == opcode.TRY_L:
		return assembleTargets(prog, op, params, 2)
	case op.IsJump(), op == opcode.CALL, op == opcode.CALL_L, op == opcode.ENDTRY, op == opcode.ENDTRY_L, op == opcode.PUSHA:
		return assembleTargets(prog, op, params, 1)
	case op == opcode.SYSCALL:
		return assembleSysCall(prog, params)
	case op == opcode.NEWARRAY_T, op == opcode.ISTYPE, op == opcode.CONVERT:
		return assembleType(prog, params)
	}
	if w := op.PrefixWidth(); w > 0 {
		if len(params) != 1 {
			return fmt.Errorf("%s: expected 1 parameter, got %d", op, len(params))
		}
		data, err := parseData(params[0])
		if err != nil {
			return err
		}
		prefix, err := encodeUnsigned(big.NewInt(int64(len(data))), w)
		if err != nil {
			return fmt.Errorf("%s: data too long: %w", op, err)
		}
		prog.B(prefix...).B(data...)
		return nil
	}
	size, ok := op.OperandSize()
	if !ok {
		if len(params) != 0 {
			return fmt.Errorf("%s: no parameters expected", op)
		}
		return nil
	}
	return assembleFixed(prog, op, params, size)
}

// assembleTargets takes @label or a literal relative offset per target
func assembleTargets(prog *Program, op opcode.Opcode, params []string, n int) error {
	if len(params) != n {
		return fmt.Errorf("%s: expected %d targets, got %d", op, n, len(params))
	}
	size, _ := op.OperandSize()
	width := size / n
	for _, p := range params {
		if label, isLabel := strings.CutPrefix(p, "@"); isLabel {
			prog.Target(label, width)
			continue
		}
		v, err := parseInt(p)
		if err != nil {
			return err
		}
		enc, err := neoscript.EncodeBigIntPadded(v, width)
		if err != nil {
			return err
		}
		prog.B(enc...)
	}
	return nil
}

func assembleSysCall(prog *Program, params []string) error {
	if len(params) != 1 {
		return fmt.Errorf("SYSCALL: expected 1 parameter, got %d", len(params))
	}
	p := params[0]
	if strings.HasPrefix(p, "0x") {
		data, err := hex.DecodeString(p[2:])
		if err != nil {
			return err
		}
		if len(data) != 4 {
			return errors.New("SYSCALL: interop hash must be 4 bytes")
		}
		prog.B(data...)
		return nil
	}
	if s, err := strconv.Unquote(p); err == nil {
		p = s
	}
	prog.B(builder.InteropHashBytes(p)...)
	return nil
}

func assembleType(prog *Program, params []string) error {
	if len(params) != 1 {
		return fmt.Errorf("expected stack item type, got %d parameters", len(params))
	}
	if v, err := parseInt(params[0]); err == nil {
		enc, err := encodeUnsigned(v, 1)
		if err != nil {
			return err
		}
		prog.B(enc...)
		return nil
	}
	typ, err := opcode.StackItemTypeFromName(params[0])
	if err != nil {
		return err
	}
	prog.B(byte(typ))
	return nil
}

// assembleFixed takes one value of the operand size or one integer per operand byte
func assembleFixed(prog *Program, op opcode.Opcode, params []string, size int) error {
	switch {
	case len(params) == 1:
		p := params[0]
		if strings.HasPrefix(p, "0x") {
			data, err := hex.DecodeString(p[2:])
			if err != nil {
				return err
			}
			if len(data) != size {
				return fmt.Errorf("%s: expected %d bytes of operand, got %d", op, size, len(data))
			}
			prog.B(data...)
			return nil
		}
		v, err := parseInt(p)
		if err != nil {
			return err
		}
		enc, err := encodeFixed(v, size)
		if err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
		prog.B(enc...)
	case len(params) == size:
		for _, p := range params {
			v, err := parseInt(p)
			if err != nil {
				return err
			}
			enc, err := encodeFixed(v, 1)
			if err != nil {
				return fmt.Errorf("%s: %w", op, err)
			}
			prog.B(enc...)
		}
	default:
		return fmt.Errorf("%s: expected 1 or %d parameters, got %d", op, size, len(params))
	}
	return nil
}

// encodeFixed encodes signed values as two's complement and non-negative values as unsigned
func encodeFixed(v *big.Int, size int) ([]byte, error) {
	if v.Sign() < 0 {
		return neoscript.EncodeBigIntPadded(v, size)
	}
	return encodeUnsigned(v, size)
}

func encodeUnsigned(v *big.Int, size int) ([]byte, error) {
	if v.Sign() < 0 || v.BitLen() > 8*size {
		return nil, fmt.Errorf("%w: %s does not fit %d bytes", neoscript.ErrIntegerOverflow, v, size)
	}
	ret := make([]byte, size)
	v.FillBytes(ret)
	return neoscript.ReverseBytes(ret), nil
}

func parseInt(s string) (*big.Int, error) {
	v, ok := new(big.Int).SetString(s, 0)
	if !ok {
		return nil, fmt.Errorf("wrong integer '%s'", s)
	}
	return v, nil
}

// parseData takes quoted string or 0x-prefixed hex
func parseData(s string) ([]byte, error) {
	if strings.HasPrefix(s, "\"") {
		ret, err := strconv.Unquote(s)
		if err != nil {
			return nil, fmt.Errorf("wrong string %s: %w", s, err)
		}
		return []byte(ret), nil
	}
	if strings.HasPrefix(s, "0x") {
		return hex.DecodeString(s[2:])
	}
	return nil, fmt.Errorf("expected quoted string or 0x-prefixed hex, got '%s'", s)
}

func isLabelName(s string) bool {
	if len(s) == 0 {
		return false
	}
	for i, c := range s {
		switch {
		case c == '_', c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z':
		case c >= '0' && c <= '9' && i > 0:
		default:
			return false
		}
	}
	return true
}

// stripComment cuts the line at the first ';' outside of quotes
func stripComment(line string) (string, error) {
	inQuotes := false
	for i := 0; i < len(line); i++ {
		switch line[i] {
		case '\\':
			if inQuotes {
				i++
			}
		case '"':
			inQuotes = !inQuotes
		case ';':
			if !inQuotes {
				return line[:i], nil
			}
		}
	}
	if inQuotes {
		return "", errors.New("unterminated string")
	}
	return line, nil
}

// splitParams splits comma separated parameters. Commas inside quotes are kept
func splitParams(params string) ([]string, error) {
	var ret []string
	inQuotes := false
	start := 0
	flush := func(end int) {
		if p := strings.TrimSpace(params[start:end]); len(p) > 0 {
			ret = append(ret, p)
		}
	}
	for i := 0; i < len(params); i++ {
		switch params[i] {
		case '\\':
			if inQuotes {
				i++
			}
		case '"':
			inQuotes = !inQuotes
		case ',':
			if !inQuotes {
				flush(i)
				start = i + 1
			}
		}
	}
	if inQuotes {
		return nil, errors.New("unterminated string")
	}
	flush(len(params))
	return ret, nil
}

// splitLines has no line length limit. Trailing CR is dropped
func splitLines(s string) []string {
	lines := strings.Split(s, "\n")
	for i := range lines {
		lines[i] = strings.TrimSuffix(lines[i], "\r")
	}
	return lines
}
