package neoscript

import (
	"errors"
	"fmt"
	"math/big"
)

var ErrIntegerOverflow = errors.New("integer does not fit")

// EncodeBigInt returns the canonical (shortest) little-endian two's-complement encoding of v.
// Zero encodes as an empty slice
func EncodeBigInt(v *big.Int) []byte {
	if v.Sign() == 0 {
		return []byte{}
	}
	n := (v.BitLen() + 7) / 8
	ret := twosComplement(v, n)
	if DecodeBigInt(ret).Cmp(v) == 0 {
		return ret
	}
	// e.g. +200 in 1 byte reads back as negative
	return twosComplement(v, n+1)
}

// EncodeBigIntPadded returns encoding of v sign-extended to exactly width bytes
func EncodeBigIntPadded(v *big.Int, width int) ([]byte, error) {
	enc := EncodeBigInt(v)
	if len(enc) > width {
		return nil, fmt.Errorf("%w: %s needs %d bytes, width is %d", ErrIntegerOverflow, v.String(), len(enc), width)
	}
	return PadTwosComplement(enc, width), nil
}

// PadTwosComplement sign-extends little-endian two's-complement data to width bytes.
// Data longer than width is returned unchanged
func PadTwosComplement(data []byte, width int) []byte {
	if len(data) >= width {
		return data
	}
	var fill byte
	if len(data) > 0 && data[len(data)-1]&0x80 != 0 {
		fill = 0xFF
	}
	ret := make([]byte, width)
	copy(ret, data)
	for i := len(data); i < width; i++ {
		ret[i] = fill
	}
	return ret
}

// DecodeBigInt interprets data as little-endian two's-complement integer of its own length.
// Empty data decodes to 0. Sign-extension padding is accepted
func DecodeBigInt(data []byte) *big.Int {
	ret := new(big.Int)
	if len(data) == 0 {
		return ret
	}
	ret.SetBytes(ReverseBytes(data))
	if data[len(data)-1]&0x80 != 0 {
		ret.Sub(ret, new(big.Int).Lsh(big.NewInt(1), uint(8*len(data))))
	}
	return ret
}

// twosComplement encodes v in exactly n bytes, little endian. The value must fit
func twosComplement(v *big.Int, n int) []byte {
	m := new(big.Int).Set(v)
	if v.Sign() < 0 {
		m.Add(m, new(big.Int).Lsh(big.NewInt(1), uint(8*n)))
	}
	ret := make([]byte, n)
	m.FillBytes(ret)
	return ReverseBytes(ret)
}
