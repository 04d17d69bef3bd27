package neoscript

import (
	"math/big"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEncodeBigInt(t *testing.T) {
	cases := []struct {
		v   int64
		enc []byte
	}{
		{0, []byte{}},
		{1, []byte{0x01}},
		{-1, []byte{0xFF}},
		{127, []byte{0x7F}},
		{128, []byte{0x80, 0x00}},
		{-128, []byte{0x80}},
		{-129, []byte{0x7F, 0xFF}},
		{200, []byte{0xC8, 0x00}},
		{255, []byte{0xFF, 0x00}},
		{256, []byte{0x00, 0x01}},
		{-256, []byte{0x00, 0xFF}},
		{32767, []byte{0xFF, 0x7F}},
		{32768, []byte{0x00, 0x80, 0x00}},
		{-32768, []byte{0x00, 0x80}},
		{1 << 31, []byte{0x00, 0x00, 0x00, 0x80, 0x00}},
	}
	for _, c := range cases {
		v := big.NewInt(c.v)
		require.EqualValues(t, c.enc, EncodeBigInt(v), "value %d", c.v)
		require.EqualValues(t, 0, DecodeBigInt(c.enc).Cmp(v), "value %d", c.v)
	}
}

func TestDecodeBigIntPadded(t *testing.T) {
	require.EqualValues(t, 0, DecodeBigInt(nil).Sign())
	require.EqualValues(t, 0, DecodeBigInt([]byte{0, 0, 0}).Sign())
	require.EqualValues(t, -1, DecodeBigInt([]byte{0xFF, 0xFF, 0xFF, 0xFF}).Int64())
	require.EqualValues(t, 127, DecodeBigInt([]byte{0x7F, 0x00, 0x00}).Int64())
	require.EqualValues(t, 256, DecodeBigInt([]byte{0x00, 0x01, 0x00, 0x00}).Int64())
}

func TestBigIntRoundTrip(t *testing.T) {
	rnd := rand.New(rand.NewSource(1))
	limit := new(big.Int).Lsh(big.NewInt(1), 255)
	for i := 0; i < 2000; i++ {
		v := new(big.Int).Rand(rnd, limit)
		// vary magnitude
		v.Rsh(v, uint(rnd.Intn(255)))
		if rnd.Intn(2) == 0 {
			v.Neg(v)
		}
		enc := EncodeBigInt(v)
		require.True(t, len(enc) <= 32)
		require.EqualValues(t, 0, DecodeBigInt(enc).Cmp(v), "value %s", v)
		if len(enc) > 1 {
			// one byte shorter never represents the same value
			require.NotEqualValues(t, 0, DecodeBigInt(enc[:len(enc)-1]).Cmp(v), "value %s", v)
		}
	}
	// extreme values of 32 bytes
	maxV := new(big.Int).Sub(limit, big.NewInt(1))
	minV := new(big.Int).Neg(limit)
	require.EqualValues(t, 32, len(EncodeBigInt(maxV)))
	require.EqualValues(t, 32, len(EncodeBigInt(minV)))
	require.EqualValues(t, 33, len(EncodeBigInt(limit)))
}

func TestEncodeBigIntPadded(t *testing.T) {
	t.Run("positive", func(t *testing.T) {
		enc, err := EncodeBigIntPadded(big.NewInt(200), 4)
		require.NoError(t, err)
		require.EqualValues(t, []byte{0xC8, 0, 0, 0}, enc)
	})
	t.Run("negative", func(t *testing.T) {
		enc, err := EncodeBigIntPadded(big.NewInt(-200), 4)
		require.NoError(t, err)
		require.EqualValues(t, []byte{0x38, 0xFF, 0xFF, 0xFF}, enc)
		require.EqualValues(t, -200, DecodeBigInt(enc).Int64())
	})
	t.Run("zero", func(t *testing.T) {
		enc, err := EncodeBigIntPadded(big.NewInt(0), 2)
		require.NoError(t, err)
		require.EqualValues(t, []byte{0, 0}, enc)
	})
	t.Run("overflow", func(t *testing.T) {
		_, err := EncodeBigIntPadded(big.NewInt(1<<40), 4)
		require.ErrorIs(t, err, ErrIntegerOverflow)
	})
}
