package script

import (
	"errors"
	"fmt"

	"github.com/lunfardo314/neoscript/opcode"
	"go.uber.org/multierr"
)

var ErrInvalidScript = errors.New("invalid script")

// InvalidScriptError is a strict verification failure of the instruction at Offset
type InvalidScriptError struct {
	Opcode opcode.Opcode
	Offset int
	Reason string
}

func (e *InvalidScriptError) Error() string {
	return fmt.Sprintf("invalid script: %s @ %d: %s", e.Opcode, e.Offset, e.Reason)
}

func (e *InvalidScriptError) Unwrap() error {
	return ErrInvalidScript
}

// VerifyAll decodes code and returns all verification violations combined.
// Decoding errors are returned as is
func VerifyAll(code []byte) error {
	s := New(code)
	s.strict = true
	if err := s.scan(); err != nil {
		return err
	}
	var ret error
	s.verify(func(err error) bool {
		ret = multierr.Append(ret, err)
		return true
	})
	return ret
}

// Targets returns absolute branch targets of instruction located at ip, nil if it is not a branch.
// TRY and TRY_L have two targets: catch and finally
func (i *Instruction) Targets(ip int) ([]int, error) {
	switch op := i.Opcode; {
	case op.IsJump() && !op.IsShortJump(), op == opcode.CALL_L, op == opcode.ENDTRY_L, op == opcode.PUSHA:
		d, err := i.TokenI32(0)
		if err != nil {
			return nil, err
		}
		return []int{ip + int(d)}, nil
	case op.IsShortJump(), op == opcode.CALL, op == opcode.ENDTRY:
		d, err := i.TokenI8(0)
		if err != nil {
			return nil, err
		}
		return []int{ip + int(d)}, nil
	case op == opcode.TRY:
		catch, err := i.TokenI8(0)
		if err != nil {
			return nil, err
		}
		finally, err := i.TokenI8(1)
		if err != nil {
			return nil, err
		}
		return []int{ip + int(catch), ip + int(finally)}, nil
	case op == opcode.TRY_L:
		catch, err := i.TokenI32(0)
		if err != nil {
			return nil, err
		}
		finally, err := i.TokenI32(4)
		if err != nil {
			return nil, err
		}
		return []int{ip + int(catch), ip + int(finally)}, nil
	}
	return nil, nil
}

// verify checks every decoded instruction in offset order. It stops when report returns false
func (s *Script) verify(report func(err error) bool) {
	for _, ip := range s.offsets {
		for _, err := range s.violations(ip, s.instructions[ip]) {
			if !report(err) {
				return
			}
		}
	}
}

func (s *Script) violations(ip int, instr *Instruction) []error {
	var ret []error
	fail := func(format string, args ...interface{}) {
		ret = append(ret, &InvalidScriptError{
			Opcode: instr.Opcode,
			Offset: ip,
			Reason: fmt.Sprintf(format, args...),
		})
	}
	switch instr.Opcode {
	case opcode.NEWARRAY_T, opcode.ISTYPE, opcode.CONVERT:
		typ := opcode.StackItemType(instr.Operand[0])
		if !typ.IsValid() {
			fail("invalid stack item type 0x%02X", byte(typ))
		} else if typ == opcode.AnyType && instr.Opcode != opcode.NEWARRAY_T {
			fail("stack item type Any is not allowed")
		}
		return ret
	}
	targets, err := instr.Targets(ip)
	if err != nil {
		fail("%v", err)
		return ret
	}
	for _, target := range targets {
		if _, ok := s.instructions[target]; !ok {
			fail("branch target %d is not an instruction boundary", target)
		}
	}
	return ret
}
