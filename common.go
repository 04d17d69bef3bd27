package neoscript

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
)

// always assume littleendian
var byteOrder = binary.LittleEndian

type integerIntern interface {
	uint8 | int8 | uint16 | int16 | uint32 | int32 | uint64 | int64
}

func ReadInteger[T integerIntern](r io.Reader, pval *T) error {
	return binary.Read(r, byteOrder, pval)
}

func WriteInteger[T integerIntern](w io.Writer, val T) error {
	return binary.Write(w, byteOrder, val)
}

func EncodeInteger[T integerIntern](v T) []byte {
	var buf bytes.Buffer
	if err := binary.Write(&buf, byteOrder, v); err != nil {
		panic(err)
	}
	return buf.Bytes()
}

func DecodeInteger[T integerIntern](data []byte) T {
	var ret T
	if err := binary.Read(bytes.NewReader(data), byteOrder, &ret); err != nil {
		panic(err)
	}
	return ret
}

// variable length integer prefixes
const (
	varUint16Prefix = 0xFD
	varUint32Prefix = 0xFE
	varUint64Prefix = 0xFF
)

var ErrVarBytesTooLong = errors.New("variable length data exceeds limit")

// VarUintSize returns number of bytes WriteVarUint will produce for v
func VarUintSize(v uint64) int {
	switch {
	case v < varUint16Prefix:
		return 1
	case v <= math.MaxUint16:
		return 3
	case v <= math.MaxUint32:
		return 5
	}
	return 9
}

func WriteVarUint(w io.Writer, v uint64) error {
	var err error
	switch {
	case v < varUint16Prefix:
		_, err = w.Write([]byte{byte(v)})
	case v <= math.MaxUint16:
		if _, err = w.Write([]byte{varUint16Prefix}); err == nil {
			err = WriteInteger(w, uint16(v))
		}
	case v <= math.MaxUint32:
		if _, err = w.Write([]byte{varUint32Prefix}); err == nil {
			err = WriteInteger(w, uint32(v))
		}
	default:
		if _, err = w.Write([]byte{varUint64Prefix}); err == nil {
			err = WriteInteger(w, v)
		}
	}
	return err
}

func ReadVarUint(r io.Reader) (uint64, error) {
	var prefix uint8
	if err := ReadInteger(r, &prefix); err != nil {
		return 0, err
	}
	switch prefix {
	case varUint16Prefix:
		var v uint16
		err := ReadInteger(r, &v)
		return uint64(v), err
	case varUint32Prefix:
		var v uint32
		err := ReadInteger(r, &v)
		return uint64(v), err
	case varUint64Prefix:
		var v uint64
		err := ReadInteger(r, &v)
		return v, err
	}
	return uint64(prefix), nil
}

func WriteVarBytes(w io.Writer, data []byte) error {
	if err := WriteVarUint(w, uint64(len(data))); err != nil {
		return err
	}
	if len(data) == 0 {
		return nil
	}
	_, err := w.Write(data)
	return err
}

// ReadVarBytes reads length-prefixed data. Length above maxLen is an error
func ReadVarBytes(r io.Reader, maxLen int) ([]byte, error) {
	length, err := ReadVarUint(r)
	if err != nil {
		return nil, err
	}
	if length > uint64(maxLen) {
		return nil, fmt.Errorf("%w: %d > %d", ErrVarBytesTooLong, length, maxLen)
	}
	if length == 0 {
		return []byte{}, nil
	}
	ret := make([]byte, length)
	if _, err = io.ReadFull(r, ret); err != nil {
		return nil, err
	}
	return ret, nil
}

type byteCounter int

func (b *byteCounter) Write(p []byte) (n int, err error) {
	*b = byteCounter(int(*b) + len(p))
	return len(p), nil
}

// MustBytes most common way of serialization
func MustBytes(o interface{ Write(w io.Writer) error }) []byte {
	var buf bytes.Buffer
	if err := o.Write(&buf); err != nil {
		panic(err)
	}
	return buf.Bytes()
}

func MustSize(o interface{ Write(w io.Writer) error }) int {
	counter := new(byteCounter)
	if err := o.Write(counter); err != nil {
		panic(err)
	}
	return int(*counter)
}
