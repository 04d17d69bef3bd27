package script

import (
	"errors"
	"fmt"
	"io"
	"math"
	"sync"

	"github.com/lunfardo314/neoscript"
)

// MaxScriptLength is the limit Read applies to the transaction script field
const MaxScriptLength = math.MaxUint16

var ErrNotInstructionBoundary = errors.New("offset is not an instruction boundary")

// Script is an immutable NeoVM script with decoded instructions cached by offset.
// In strict mode all instructions are decoded and verified at construction
type Script struct {
	code   []byte
	strict bool

	mutex        sync.RWMutex
	instructions map[int]*Instruction
	// strict mode only: instruction offsets in ascending order
	offsets []int
}

// Entry is an instruction together with the offset it starts at
type Entry struct {
	IP          int
	Instruction *Instruction
}

// New creates unverified script. Instructions are decoded lazily
func New(code []byte) *Script {
	return &Script{
		code:         append([]byte{}, code...),
		instructions: make(map[int]*Instruction),
	}
}

// NewStrict decodes the whole script and verifies branch targets and type operands.
// Returns the first violation found
func NewStrict(code []byte) (*Script, error) {
	s := New(code)
	s.strict = true
	if err := s.scan(); err != nil {
		return nil, err
	}
	var first error
	s.verify(func(err error) bool {
		first = err
		return false
	})
	if first != nil {
		return nil, first
	}
	return s, nil
}

// Read reads script serialized as variable length bytes
func Read(r io.Reader, strict bool) (*Script, error) {
	code, err := neoscript.ReadVarBytes(r, MaxScriptLength)
	if err != nil {
		return nil, err
	}
	if strict {
		return NewStrict(code)
	}
	return New(code), nil
}

// Write serializes script as variable length bytes
func (s *Script) Write(w io.Writer) error {
	return neoscript.WriteVarBytes(w, s.code)
}

func (s *Script) scan() error {
	for ip := 0; ip < len(s.code); {
		instr, err := DecodeInstruction(s.code, ip)
		if err != nil {
			return err
		}
		s.instructions[ip] = instr
		s.offsets = append(s.offsets, ip)
		ip += instr.Size()
	}
	return nil
}

// GetInstruction returns instruction at ip. At or past the end of the script it returns RET with no operand.
// In strict mode ip must be an instruction boundary
func (s *Script) GetInstruction(ip int) (*Instruction, error) {
	if ip >= len(s.code) {
		return implicitRET(), nil
	}
	s.mutex.RLock()
	instr, ok := s.instructions[ip]
	s.mutex.RUnlock()
	if ok {
		return instr, nil
	}
	if s.strict {
		return nil, fmt.Errorf("%w: %d", ErrNotInstructionBoundary, ip)
	}
	instr, err := DecodeInstruction(s.code, ip)
	if err != nil {
		return nil, err
	}
	s.mutex.Lock()
	s.instructions[ip] = instr
	s.mutex.Unlock()
	return instr, nil
}

// Instructions decodes the script linearly from offset 0
func (s *Script) Instructions() ([]Entry, error) {
	if s.strict {
		ret := make([]Entry, len(s.offsets))
		for i, ip := range s.offsets {
			ret[i] = Entry{IP: ip, Instruction: s.instructions[ip]}
		}
		return ret, nil
	}
	ret := make([]Entry, 0)
	for ip := 0; ip < len(s.code); {
		instr, err := s.GetInstruction(ip)
		if err != nil {
			return nil, err
		}
		ret = append(ret, Entry{IP: ip, Instruction: instr})
		ip += instr.Size()
	}
	return ret, nil
}

func (s *Script) Len() int {
	return len(s.code)
}

// Bytes returns copy of the script
func (s *Script) Bytes() []byte {
	return append([]byte{}, s.code...)
}

func (s *Script) IsStrict() bool {
	return s.strict
}

// Hash is the script hash: Hash160 of the script bytes
func (s *Script) Hash() neoscript.Uint160 {
	return neoscript.Hash160(s.code)
}
