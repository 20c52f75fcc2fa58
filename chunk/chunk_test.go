package chunk

import (
	"bytes"
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRoundTrip(t *testing.T) {
	var values = []*big.Int{
		big.NewInt(0),
		big.NewInt(1),
		big.NewInt(255),
		big.NewInt(256),
		new(big.Int).Lsh(big.NewInt(1), 752),
	}
	const width = 96
	for _, x := range values {
		b, err := FromInt(x, width)
		require.NoError(t, err)
		require.Len(t, b, width)
		require.Zero(t, ToInt(b).Cmp(x))
	}
}

func TestLeadingZerosCarryNoValue(t *testing.T) {
	raw := []byte{0x01, 0x02, 0x03}
	padded := append(make([]byte, 13), raw...)
	require.Zero(t, ToInt(raw).Cmp(ToInt(padded)))

	// re-encoding pads back to the requested width, not the natural one
	out, err := FromInt(ToInt(padded), 16)
	require.NoError(t, err)
	require.True(t, bytes.Equal(padded, out))
}

func TestFromIntWidthGuard(t *testing.T) {
	x := new(big.Int).Lsh(big.NewInt(1), 128)
	_, err := FromInt(x, 16)
	require.ErrorIs(t, err, ErrWidth)

	// 17 bytes is the natural width, so it fits exactly
	b, err := FromInt(x, 17)
	require.NoError(t, err)
	require.Equal(t, byte(0x01), b[0])
}

func TestFillLeavesDstOnError(t *testing.T) {
	dst := []byte{0xAA, 0xBB}
	err := Fill(dst, big.NewInt(1<<20))
	require.ErrorIs(t, err, ErrWidth)
	require.Equal(t, []byte{0xAA, 0xBB}, dst)
}

func TestModExp(t *testing.T) {
	// 5^6 mod 23 = 8, 19^6 mod 23 = 2 (classic toy exchange)
	require.EqualValues(t, 8, ModExp(big.NewInt(5), big.NewInt(6), big.NewInt(23)).Int64())
	require.EqualValues(t, 2, ModExp(big.NewInt(19), big.NewInt(6), big.NewInt(23)).Int64())
}
