package builder

import (
	"fmt"
	"strings"
)

type ParamType byte

const (
	AnyParam       ParamType = 0x00
	BooleanParam   ParamType = 0x10
	IntegerParam   ParamType = 0x11
	ByteArrayParam ParamType = 0x12
	StringParam    ParamType = 0x13
	Hash160Param   ParamType = 0x14
	Hash256Param   ParamType = 0x15
	PublicKeyParam ParamType = 0x16
	SignatureParam ParamType = 0x17
	ArrayParam     ParamType = 0x20
	MapParam       ParamType = 0x22
)

var paramTypeNames = map[ParamType]string{
	AnyParam:       "Any",
	BooleanParam:   "Boolean",
	IntegerParam:   "Integer",
	ByteArrayParam: "ByteArray",
	StringParam:    "String",
	Hash160Param:   "Hash160",
	Hash256Param:   "Hash256",
	PublicKeyParam: "PublicKey",
	SignatureParam: "Signature",
	ArrayParam:     "Array",
	MapParam:       "Map",
}

func (t ParamType) String() string {
	if name, ok := paramTypeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("ParamType(0x%02X)", byte(t))
}

func ParamTypeFromName(name string) (ParamType, error) {
	for t, n := range paramTypeNames {
		if strings.EqualFold(n, name) {
			return t, nil
		}
	}
	return 0, fmt.Errorf("%w: parameter type '%s'", ErrUnsupportedType, name)
}

// ContractParam is a typed contract argument. Expected Value per Type:
//   - Any: nil
//   - Boolean: bool
//   - Integer: any integer type, *big.Int or *uint256.Int
//   - ByteArray, Signature: []byte
//   - String: string
//   - Hash160: neoscript.Uint160
//   - Hash256: neoscript.Uint256
//   - PublicKey: []byte, compressed EC point
//   - Array: []ContractParam
//   - Map: []ParamMapEntry
type ContractParam struct {
	Type  ParamType
	Value interface{}
}

type ParamMapEntry struct {
	Key   ContractParam
	Value ContractParam
}

// MapEntry is a key/value pair pushed by EmitPushMap
type MapEntry struct {
	Key   interface{}
	Value interface{}
}

type CallFlags byte

const (
	CallFlagsNone CallFlags = 0x00
	ReadStates    CallFlags = 0x01
	WriteStates   CallFlags = 0x02
	AllowCall     CallFlags = 0x04
	AllowNotify   CallFlags = 0x08
)

const (
	States       = ReadStates | WriteStates
	ReadOnly     = ReadStates | AllowCall
	CallFlagsAll = States | AllowCall | AllowNotify
)
