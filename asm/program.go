package asm

import (
	"bytes"
	"errors"
	"fmt"
	"math"

	"github.com/lunfardo314/neoscript"
	"github.com/lunfardo314/neoscript/builder"
	"github.com/lunfardo314/neoscript/opcode"
	"github.com/lunfardo314/neoscript/util/logger"
	"go.uber.org/zap"
)

var (
	ErrUnresolvedLabel  = errors.New("cannot resolve label")
	ErrDuplicateLabel   = errors.New("repeating label name")
	ErrTargetOutOfRange = errors.New("branch target out of range")
)

// Program is a sequence of instructions with branch targets given by labels.
// Targets are resolved by Compile, relative to the start of the branching instruction
type Program struct {
	resolve      map[string]int
	instructions []instruction
	opts         []builder.Option
	log          *zap.SugaredLogger
}

type instruction struct {
	bytes []byte
	// operand position -> unresolved target
	targets map[int]target
}

type target struct {
	label string
	width int
}

func NewProgram(log *zap.SugaredLogger, opts ...builder.Option) *Program {
	return &Program{
		resolve:      make(map[string]int),
		instructions: make([]instruction, 0),
		opts:         opts,
		log:          logger.OrNop(log),
	}
}

// OP starts new instruction
func (p *Program) OP(op opcode.Opcode) *Program {
	if !op.IsValid() {
		panic(fmt.Errorf("error @ instruction #%d: %w: 0x%02X", len(p.instructions), opcode.ErrInvalidOpcode, byte(op)))
	}
	p.instructions = append(p.instructions, instruction{
		bytes:   make([]byte, 0, 10),
		targets: make(map[int]target),
	})
	p.append(byte(op))
	return p
}

// B appends operand bytes to the current instruction
func (p *Program) B(b ...byte) *Program {
	if len(p.instructions) == 0 {
		panic("operand without opcode")
	}
	p.append(b...)
	return p
}

// Target appends placeholder of width 1 or 4 bytes for the relative offset to the label
func (p *Program) Target(label string, width int) *Program {
	if len(p.instructions) == 0 {
		panic("target without opcode")
	}
	if width != 1 && width != 4 {
		panic(fmt.Errorf("wrong target width %d", width))
	}
	last := len(p.instructions) - 1
	p.instructions[last].targets[len(p.instructions[last].bytes)] = target{label: label, width: width}
	p.append(make([]byte, width)...)
	return p
}

// Emit appends whatever the builder function produces as one chunk without targets
func (p *Program) Emit(fun func(b *builder.Builder)) *Program {
	code, err := builder.GenScript(fun, p.opts...)
	if err != nil {
		panic(fmt.Errorf("error @ instruction #%d: %w", len(p.instructions), err))
	}
	p.instructions = append(p.instructions, instruction{bytes: code, targets: make(map[int]target)})
	return p
}

func (p *Program) Label(label string) *Program {
	if _, already := p.resolve[label]; already {
		panic(fmt.Errorf("%w: '%s'", ErrDuplicateLabel, label))
	}
	p.resolve[label] = p.Len()
	p.log.Debugf("label '%s' @ %d", label, p.resolve[label])
	return p
}

// Len is the current size of the program in bytes
func (p *Program) Len() int {
	ret := 0
	for i := range p.instructions {
		ret += len(p.instructions[i].bytes)
	}
	return ret
}

func (p *Program) Compile() ([]byte, error) {
	var buf bytes.Buffer
	currentPosition := 0
	for currentInstruction := range p.instructions {
		if err := p.resolveTargets(currentInstruction, currentPosition); err != nil {
			return nil, err
		}
		buf.Write(p.instructions[currentInstruction].bytes)
		currentPosition += len(p.instructions[currentInstruction].bytes)
	}
	return buf.Bytes(), nil
}

func (p *Program) MustCompile() []byte {
	ret, err := p.Compile()
	if err != nil {
		panic(err)
	}
	return ret
}

func (p *Program) resolveTargets(currentInstruction, instructionAddress int) error {
	instr := &p.instructions[currentInstruction]
	for pos, t := range instr.targets {
		targetPosition, ok := p.resolve[t.label]
		if !ok {
			return fmt.Errorf("%w '%s', instruction #%d@%d", ErrUnresolvedLabel, t.label, currentInstruction, pos)
		}
		// relative offset is counted from the beginning of the current instruction
		relative := targetPosition - instructionAddress
		switch t.width {
		case 1:
			if relative < math.MinInt8 || relative > math.MaxInt8 {
				return fmt.Errorf("%w: label '%s' is %d bytes away, instruction #%d@%d",
					ErrTargetOutOfRange, t.label, relative, currentInstruction, pos)
			}
			instr.bytes[pos] = byte(int8(relative))
		case 4:
			if relative < math.MinInt32 || relative > math.MaxInt32 {
				return fmt.Errorf("%w: label '%s' is %d bytes away, instruction #%d@%d",
					ErrTargetOutOfRange, t.label, relative, currentInstruction, pos)
			}
			copy(instr.bytes[pos:pos+4], neoscript.EncodeInteger(int32(relative)))
		}
		p.log.Debugf("instruction #%d@%d: label '%s' resolved to %d", currentInstruction, pos, t.label, relative)
	}
	return nil
}

func (p *Program) append(b ...byte) {
	last := len(p.instructions) - 1
	p.instructions[last].bytes = append(p.instructions[last].bytes, b...)
}
