package builder

import (
	"fmt"
	"math/big"
	"sort"

	"github.com/holiman/uint256"
	"github.com/lunfardo314/neoscript"
	"github.com/lunfardo314/neoscript/opcode"
)

// EmitPush pushes a value of any supported type
func (b *Builder) EmitPush(v interface{}) *Builder {
	switch v := v.(type) {
	case nil:
		return b.EmitPushNull()
	case bool:
		return b.EmitPushBool(v)
	case int:
		return b.EmitPushInt(int64(v))
	case int8:
		return b.EmitPushInt(int64(v))
	case int16:
		return b.EmitPushInt(int64(v))
	case int32:
		return b.EmitPushInt(int64(v))
	case int64:
		return b.EmitPushInt(v)
	case uint:
		return b.EmitPushBigInt(new(big.Int).SetUint64(uint64(v)))
	case uint8:
		return b.EmitPushInt(int64(v))
	case uint16:
		return b.EmitPushInt(int64(v))
	case uint32:
		return b.EmitPushInt(int64(v))
	case uint64:
		return b.EmitPushBigInt(new(big.Int).SetUint64(v))
	case *big.Int:
		return b.EmitPushBigInt(v)
	case *uint256.Int:
		if v == nil {
			return b.setErr(fmt.Errorf("%w: nil *uint256.Int", ErrUnsupportedType))
		}
		return b.EmitPushBigInt(v.ToBig())
	case string:
		return b.EmitPushString(v)
	case []byte:
		return b.EmitPushData(v)
	case neoscript.Uint160:
		return b.EmitPushUint160(v)
	case neoscript.Uint256:
		return b.EmitPushUint256(v)
	case CallFlags:
		return b.EmitPushInt(int64(v))
	case ContractParam:
		return b.EmitPushParam(v)
	case *ContractParam:
		if v == nil {
			return b.setErr(fmt.Errorf("%w: nil *ContractParam", ErrUnsupportedType))
		}
		return b.EmitPushParam(*v)
	case []ContractParam:
		items := make([]interface{}, len(v))
		for i := range v {
			items[i] = v[i]
		}
		return b.EmitPushArray(items)
	case []interface{}:
		return b.EmitPushArray(v)
	case []MapEntry:
		return b.EmitPushMap(v)
	case map[string]interface{}:
		return b.EmitPushObject(v)
	}
	return b.setErr(fmt.Errorf("%w: %T", ErrUnsupportedType, v))
}

// EmitPushArray pushes elements in reverse, so the first one is on top after PACK
func (b *Builder) EmitPushArray(items []interface{}) *Builder {
	if len(items) == 0 {
		return b.Emit(opcode.NEWARRAY0)
	}
	for i := len(items) - 1; i >= 0; i-- {
		b.EmitPush(items[i])
	}
	return b.EmitPushInt(int64(len(items))).Emit(opcode.PACK)
}

func (b *Builder) EmitPushMap(entries []MapEntry) *Builder {
	b.Emit(opcode.NEWMAP)
	for _, e := range entries {
		b.Emit(opcode.DUP).EmitPush(e.Key).EmitPush(e.Value).Emit(opcode.SETITEM)
	}
	return b
}

// EmitPushObject pushes fields as a map, keys in sorted order
func (b *Builder) EmitPushObject(obj map[string]interface{}) *Builder {
	keys := make([]string, 0, len(obj))
	for k := range obj {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	entries := make([]MapEntry, len(keys))
	for i, k := range keys {
		entries[i] = MapEntry{Key: k, Value: obj[k]}
	}
	return b.EmitPushMap(entries)
}

func (b *Builder) EmitPushParam(p ContractParam) *Builder {
	wrongValue := func() *Builder {
		return b.setErr(fmt.Errorf("%w: %T as %s parameter", ErrUnsupportedType, p.Value, p.Type))
	}
	switch p.Type {
	case AnyParam:
		if p.Value != nil {
			return wrongValue()
		}
		return b.EmitPushNull()
	case BooleanParam:
		if v, ok := p.Value.(bool); ok {
			return b.EmitPushBool(v)
		}
	case IntegerParam:
		switch p.Value.(type) {
		case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64, *big.Int, *uint256.Int:
			return b.EmitPush(p.Value)
		}
	case ByteArrayParam, SignatureParam:
		if v, ok := p.Value.([]byte); ok {
			return b.EmitPushData(v)
		}
	case StringParam:
		if v, ok := p.Value.(string); ok {
			return b.EmitPushString(v)
		}
	case Hash160Param:
		if v, ok := p.Value.(neoscript.Uint160); ok {
			return b.EmitPushUint160(v)
		}
	case Hash256Param:
		if v, ok := p.Value.(neoscript.Uint256); ok {
			return b.EmitPushUint256(v)
		}
	case PublicKeyParam:
		if v, ok := p.Value.([]byte); ok {
			return b.EmitPushECPoint(v)
		}
	case ArrayParam:
		if v, ok := p.Value.([]ContractParam); ok {
			return b.EmitPush(v)
		}
	case MapParam:
		if v, ok := p.Value.([]ParamMapEntry); ok {
			b.Emit(opcode.NEWMAP)
			for _, e := range v {
				b.Emit(opcode.DUP).EmitPushParam(e.Key).EmitPushParam(e.Value).Emit(opcode.SETITEM)
			}
			return b
		}
	default:
		return b.setErr(fmt.Errorf("%w: %s", ErrUnsupportedType, p.Type))
	}
	return wrongValue()
}

// EmitContractCall emits dynamic call of the contract method:
// arguments array, call flags, method name, contract hash and System.Contract.Call
func (b *Builder) EmitContractCall(contract neoscript.Uint160, method string, flags CallFlags, args ...interface{}) *Builder {
	return b.EmitPushArray(args).
		EmitPushInt(int64(flags)).
		EmitPushString(method).
		EmitPushUint160(contract).
		EmitSysCall(SysContractCall)
}
