package opcode

import "fmt"

// StackItemType is the type operand of NEWARRAY_T, ISTYPE and CONVERT
type StackItemType byte

const (
	AnyType              StackItemType = 0x00
	PointerType          StackItemType = 0x10
	BooleanType          StackItemType = 0x20
	IntegerType          StackItemType = 0x21
	ByteStringType       StackItemType = 0x28
	BufferType           StackItemType = 0x30
	ArrayType            StackItemType = 0x40
	StructType           StackItemType = 0x41
	MapType              StackItemType = 0x48
	InteropInterfaceType StackItemType = 0x60
)

var stackItemTypeNames = map[StackItemType]string{
	AnyType:              "Any",
	PointerType:          "Pointer",
	BooleanType:          "Boolean",
	IntegerType:          "Integer",
	ByteStringType:       "ByteString",
	BufferType:           "Buffer",
	ArrayType:            "Array",
	StructType:           "Struct",
	MapType:              "Map",
	InteropInterfaceType: "InteropInterface",
}

func (t StackItemType) IsValid() bool {
	_, ok := stackItemTypeNames[t]
	return ok
}

func (t StackItemType) String() string {
	if name, ok := stackItemTypeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("StackItemType(0x%02X)", byte(t))
}

// StackItemTypeFromName parses type name as returned by String
func StackItemTypeFromName(name string) (StackItemType, error) {
	for t, n := range stackItemTypeNames {
		if n == name {
			return t, nil
		}
	}
	return 0, fmt.Errorf("unknown stack item type '%s'", name)
}
