package neoscript

import (
	"encoding/hex"
	"fmt"
	"strings"
)

const (
	Uint160Size = 20
	Uint256Size = 32
)

type (
	// Uint160 holds 20 bytes in wire (little endian) order
	Uint160 [Uint160Size]byte
	// Uint256 holds 32 bytes in wire (little endian) order
	Uint256 [Uint256Size]byte
)

func Uint160FromBytes(data []byte) (Uint160, error) {
	var ret Uint160
	if len(data) != Uint160Size {
		return ret, fmt.Errorf("Uint160FromBytes: expected %d bytes, got %d", Uint160Size, len(data))
	}
	copy(ret[:], data)
	return ret, nil
}

// Uint160FromStringBE parses the usual display form: big-endian hex, optional 0x prefix
func Uint160FromStringBE(s string) (Uint160, error) {
	data, err := hex.DecodeString(strings.TrimPrefix(s, "0x"))
	if err != nil {
		return Uint160{}, err
	}
	return Uint160FromBytes(ReverseBytes(data))
}

func (u Uint160) Bytes() []byte {
	return u[:]
}

func (u Uint160) BytesBE() []byte {
	return ReverseBytes(u[:])
}

func (u Uint160) StringLE() string {
	return hex.EncodeToString(u[:])
}

func (u Uint160) String() string {
	return "0x" + hex.EncodeToString(u.BytesBE())
}

func Uint256FromBytes(data []byte) (Uint256, error) {
	var ret Uint256
	if len(data) != Uint256Size {
		return ret, fmt.Errorf("Uint256FromBytes: expected %d bytes, got %d", Uint256Size, len(data))
	}
	copy(ret[:], data)
	return ret, nil
}

func Uint256FromStringBE(s string) (Uint256, error) {
	data, err := hex.DecodeString(strings.TrimPrefix(s, "0x"))
	if err != nil {
		return Uint256{}, err
	}
	return Uint256FromBytes(ReverseBytes(data))
}

func (u Uint256) Bytes() []byte {
	return u[:]
}

func (u Uint256) BytesBE() []byte {
	return ReverseBytes(u[:])
}

func (u Uint256) StringLE() string {
	return hex.EncodeToString(u[:])
}

func (u Uint256) String() string {
	return "0x" + hex.EncodeToString(u.BytesBE())
}
