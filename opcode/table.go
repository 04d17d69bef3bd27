package opcode

import (
	"errors"
	"fmt"
	"sort"
)

var (
	ErrInvalidOpcode   = errors.New("invalid opcode")
	ErrUnknownMnemonic = errors.New("unknown mnemonic")
)

type descriptor struct {
	name string
	// width of the unsigned little-endian operand length prefix: 0, 1, 2 or 4
	prefix int
	// fixed operand size, 0 for no operand or length-prefixed operand
	size int
}

func plain(name string) *descriptor {
	return &descriptor{name: name}
}

func fixed(name string, size int) *descriptor {
	return &descriptor{name: name, size: size}
}

func prefixed(name string, prefix int) *descriptor {
	return &descriptor{name: name, prefix: prefix}
}

// table reproduces the NeoVM opcode table. Nil entries are not valid opcodes
var table = [256]*descriptor{
	PUSHINT8:     fixed("PUSHINT8", 1),
	PUSHINT16:    fixed("PUSHINT16", 2),
	PUSHINT32:    fixed("PUSHINT32", 4),
	PUSHINT64:    fixed("PUSHINT64", 8),
	PUSHINT128:   fixed("PUSHINT128", 16),
	PUSHINT256:   fixed("PUSHINT256", 32),
	PUSHT:        plain("PUSHT"),
	PUSHF:        plain("PUSHF"),
	PUSHA:        fixed("PUSHA", 4),
	PUSHNULL:     plain("PUSHNULL"),
	PUSHDATA1:    prefixed("PUSHDATA1", 1),
	PUSHDATA2:    prefixed("PUSHDATA2", 2),
	PUSHDATA4:    prefixed("PUSHDATA4", 4),
	PUSHM1:       plain("PUSHM1"),
	PUSH0:        plain("PUSH0"),
	PUSH1:        plain("PUSH1"),
	PUSH2:        plain("PUSH2"),
	PUSH3:        plain("PUSH3"),
	PUSH4:        plain("PUSH4"),
	PUSH5:        plain("PUSH5"),
	PUSH6:        plain("PUSH6"),
	PUSH7:        plain("PUSH7"),
	PUSH8:        plain("PUSH8"),
	PUSH9:        plain("PUSH9"),
	PUSH10:       plain("PUSH10"),
	PUSH11:       plain("PUSH11"),
	PUSH12:       plain("PUSH12"),
	PUSH13:       plain("PUSH13"),
	PUSH14:       plain("PUSH14"),
	PUSH15:       plain("PUSH15"),
	PUSH16:       plain("PUSH16"),
	NOP:          plain("NOP"),
	JMP:          fixed("JMP", 1),
	JMP_L:        fixed("JMP_L", 4),
	JMPIF:        fixed("JMPIF", 1),
	JMPIF_L:      fixed("JMPIF_L", 4),
	JMPIFNOT:     fixed("JMPIFNOT", 1),
	JMPIFNOT_L:   fixed("JMPIFNOT_L", 4),
	JMPEQ:        fixed("JMPEQ", 1),
	JMPEQ_L:      fixed("JMPEQ_L", 4),
	JMPNE:        fixed("JMPNE", 1),
	JMPNE_L:      fixed("JMPNE_L", 4),
	JMPGT:        fixed("JMPGT", 1),
	JMPGT_L:      fixed("JMPGT_L", 4),
	JMPGE:        fixed("JMPGE", 1),
	JMPGE_L:      fixed("JMPGE_L", 4),
	JMPLT:        fixed("JMPLT", 1),
	JMPLT_L:      fixed("JMPLT_L", 4),
	JMPLE:        fixed("JMPLE", 1),
	JMPLE_L:      fixed("JMPLE_L", 4),
	CALL:         fixed("CALL", 1),
	CALL_L:       fixed("CALL_L", 4),
	CALLA:        plain("CALLA"),
	CALLT:        fixed("CALLT", 2),
	ABORT:        plain("ABORT"),
	ASSERT:       plain("ASSERT"),
	THROW:        plain("THROW"),
	TRY:          fixed("TRY", 2),
	TRY_L:        fixed("TRY_L", 8),
	ENDTRY:       fixed("ENDTRY", 1),
	ENDTRY_L:     fixed("ENDTRY_L", 4),
	ENDFINALLY:   plain("ENDFINALLY"),
	RET:          plain("RET"),
	SYSCALL:      fixed("SYSCALL", 4),
	DEPTH:        plain("DEPTH"),
	DROP:         plain("DROP"),
	NIP:          plain("NIP"),
	XDROP:        plain("XDROP"),
	CLEAR:        plain("CLEAR"),
	DUP:          plain("DUP"),
	OVER:         plain("OVER"),
	PICK:         plain("PICK"),
	TUCK:         plain("TUCK"),
	SWAP:         plain("SWAP"),
	ROT:          plain("ROT"),
	ROLL:         plain("ROLL"),
	REVERSE3:     plain("REVERSE3"),
	REVERSE4:     plain("REVERSE4"),
	REVERSEN:     plain("REVERSEN"),
	INITSSLOT:    fixed("INITSSLOT", 1),
	INITSLOT:     fixed("INITSLOT", 2),
	LDSFLD0:      plain("LDSFLD0"),
	LDSFLD1:      plain("LDSFLD1"),
	LDSFLD2:      plain("LDSFLD2"),
	LDSFLD3:      plain("LDSFLD3"),
	LDSFLD4:      plain("LDSFLD4"),
	LDSFLD5:      plain("LDSFLD5"),
	LDSFLD6:      plain("LDSFLD6"),
	LDSFLD:       fixed("LDSFLD", 1),
	STSFLD0:      plain("STSFLD0"),
	STSFLD1:      plain("STSFLD1"),
	STSFLD2:      plain("STSFLD2"),
	STSFLD3:      plain("STSFLD3"),
	STSFLD4:      plain("STSFLD4"),
	STSFLD5:      plain("STSFLD5"),
	STSFLD6:      plain("STSFLD6"),
	STSFLD:       fixed("STSFLD", 1),
	LDLOC0:       plain("LDLOC0"),
	LDLOC1:       plain("LDLOC1"),
	LDLOC2:       plain("LDLOC2"),
	LDLOC3:       plain("LDLOC3"),
	LDLOC4:       plain("LDLOC4"),
	LDLOC5:       plain("LDLOC5"),
	LDLOC6:       plain("LDLOC6"),
	LDLOC:        fixed("LDLOC", 1),
	STLOC0:       plain("STLOC0"),
	STLOC1:       plain("STLOC1"),
	STLOC2:       plain("STLOC2"),
	STLOC3:       plain("STLOC3"),
	STLOC4:       plain("STLOC4"),
	STLOC5:       plain("STLOC5"),
	STLOC6:       plain("STLOC6"),
	STLOC:        fixed("STLOC", 1),
	LDARG0:       plain("LDARG0"),
	LDARG1:       plain("LDARG1"),
	LDARG2:       plain("LDARG2"),
	LDARG3:       plain("LDARG3"),
	LDARG4:       plain("LDARG4"),
	LDARG5:       plain("LDARG5"),
	LDARG6:       plain("LDARG6"),
	LDARG:        fixed("LDARG", 1),
	STARG0:       plain("STARG0"),
	STARG1:       plain("STARG1"),
	STARG2:       plain("STARG2"),
	STARG3:       plain("STARG3"),
	STARG4:       plain("STARG4"),
	STARG5:       plain("STARG5"),
	STARG6:       plain("STARG6"),
	STARG:        fixed("STARG", 1),
	NEWBUFFER:    plain("NEWBUFFER"),
	MEMCPY:       plain("MEMCPY"),
	CAT:          plain("CAT"),
	SUBSTR:       plain("SUBSTR"),
	LEFT:         plain("LEFT"),
	RIGHT:        plain("RIGHT"),
	INVERT:       plain("INVERT"),
	AND:          plain("AND"),
	OR:           plain("OR"),
	XOR:          plain("XOR"),
	EQUAL:        plain("EQUAL"),
	NOTEQUAL:     plain("NOTEQUAL"),
	SIGN:         plain("SIGN"),
	ABS:          plain("ABS"),
	NEGATE:       plain("NEGATE"),
	INC:          plain("INC"),
	DEC:          plain("DEC"),
	ADD:          plain("ADD"),
	SUB:          plain("SUB"),
	MUL:          plain("MUL"),
	DIV:          plain("DIV"),
	MOD:          plain("MOD"),
	POW:          plain("POW"),
	SQRT:         plain("SQRT"),
	MODMUL:       plain("MODMUL"),
	MODPOW:       plain("MODPOW"),
	SHL:          plain("SHL"),
	SHR:          plain("SHR"),
	NOT:          plain("NOT"),
	BOOLAND:      plain("BOOLAND"),
	BOOLOR:       plain("BOOLOR"),
	NZ:           plain("NZ"),
	NUMEQUAL:     plain("NUMEQUAL"),
	NUMNOTEQUAL:  plain("NUMNOTEQUAL"),
	LT:           plain("LT"),
	LE:           plain("LE"),
	GT:           plain("GT"),
	GE:           plain("GE"),
	MIN:          plain("MIN"),
	MAX:          plain("MAX"),
	WITHIN:       plain("WITHIN"),
	PACKMAP:      plain("PACKMAP"),
	PACKSTRUCT:   plain("PACKSTRUCT"),
	PACK:         plain("PACK"),
	UNPACK:       plain("UNPACK"),
	NEWARRAY0:    plain("NEWARRAY0"),
	NEWARRAY:     plain("NEWARRAY"),
	NEWARRAY_T:   fixed("NEWARRAY_T", 1),
	NEWSTRUCT0:   plain("NEWSTRUCT0"),
	NEWSTRUCT:    plain("NEWSTRUCT"),
	NEWMAP:       plain("NEWMAP"),
	SIZE:         plain("SIZE"),
	HASKEY:       plain("HASKEY"),
	KEYS:         plain("KEYS"),
	VALUES:       plain("VALUES"),
	PICKITEM:     plain("PICKITEM"),
	APPEND:       plain("APPEND"),
	SETITEM:      plain("SETITEM"),
	REVERSEITEMS: plain("REVERSEITEMS"),
	REMOVE:       plain("REMOVE"),
	CLEARITEMS:   plain("CLEARITEMS"),
	POPITEM:      plain("POPITEM"),
	ISNULL:       plain("ISNULL"),
	ISTYPE:       fixed("ISTYPE", 1),
	CONVERT:      fixed("CONVERT", 1),
	ABORTMSG:     plain("ABORTMSG"),
	ASSERTMSG:    plain("ASSERTMSG"),
}

var nameLookup = mustMakeNameLookup()

func mustMakeNameLookup() map[string]Opcode {
	ret := make(map[string]Opcode)
	for i, d := range table {
		if d == nil {
			continue
		}
		if _, already := ret[d.name]; already {
			panic(fmt.Errorf("repeating opcode name: '%s'", d.name))
		}
		ret[d.name] = Opcode(i)
	}
	return ret
}

// IsValid checks if byte is a known opcode
func IsValid(b byte) bool {
	return table[b] != nil
}

// AssertValid returns opcode or ErrInvalidOpcode
func AssertValid(b byte) (Opcode, error) {
	if !IsValid(b) {
		return 0, fmt.Errorf("%w: 0x%02X", ErrInvalidOpcode, b)
	}
	return Opcode(b), nil
}

// FromName looks up opcode by its mnemonic
func FromName(name string) (Opcode, error) {
	op, ok := nameLookup[name]
	if !ok {
		return 0, fmt.Errorf("%w: '%s'", ErrUnknownMnemonic, name)
	}
	return op, nil
}

// All returns all valid opcodes in ascending order
func All() []Opcode {
	ret := make([]Opcode, 0, len(nameLookup))
	for _, op := range nameLookup {
		ret = append(ret, op)
	}
	sort.Slice(ret, func(i, j int) bool {
		return ret[i] < ret[j]
	})
	return ret
}

func (op Opcode) IsValid() bool {
	return IsValid(byte(op))
}

func (op Opcode) Name() string {
	if d := table[op]; d != nil {
		return d.name
	}
	return fmt.Sprintf("Opcode(0x%02X)", byte(op))
}

func (op Opcode) String() string {
	return op.Name()
}

// PrefixWidth returns width of the operand length prefix (0, 1, 2 or 4 bytes)
func (op Opcode) PrefixWidth() int {
	if d := table[op]; d != nil {
		return d.prefix
	}
	return 0
}

// OperandSize returns the fixed operand size. False if opcode has no fixed-size operand
func (op Opcode) OperandSize() (int, bool) {
	if d := table[op]; d != nil && d.size > 0 {
		return d.size, true
	}
	return 0, false
}

// IsJump is true for the JMP..JMPLE_L range
func (op Opcode) IsJump() bool {
	return op >= JMP && op <= JMPLE_L
}

// IsShortJump is true for the 1-byte displacement forms. Short forms have even values
func (op Opcode) IsShortJump() bool {
	return op.IsJump() && op%2 == 0
}

// LongForm returns the paired 4-byte displacement form of a short jump. Other opcodes are returned unchanged
func (op Opcode) LongForm() Opcode {
	if op.IsShortJump() {
		return op + 1
	}
	return op
}
