package modp

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"
)

// Reference moduli, transcribed independently from RFC 2409 section 6.1
// and RFC 3526 section 3.
const (
	rfc2409Prime768 = "FFFFFFFFFFFFFFFFC90FDAA22168C234C4C6628B80DC1CD129024E08" +
		"8A67CC74020BBEA63B139B22514A08798E3404DDEF9519B3CD3A431B" +
		"302B0A6DF25F14374FE1356D6D51C245E485B576625E7EC6F44C42E9" +
		"A63A3620FFFFFFFFFFFFFFFF"

	rfc3526Prime2048 = "FFFFFFFFFFFFFFFFC90FDAA22168C234" +
		"C4C6628B80DC1CD129024E088A67CC74" +
		"020BBEA63B139B22514A08798E3404DD" +
		"EF9519B3CD3A431B302B0A6DF25F1437" +
		"4FE1356D6D51C245E485B576625E7EC6" +
		"F44C42E9A637ED6B0BFF5CB6F406B7ED" +
		"EE386BFB5A899FA5AE9F24117C4B1FE6" +
		"49286651ECE45B3DC2007CB8A163BF05" +
		"98DA48361C55D39A69163FA8FD24CF5F" +
		"83655D23DCA3AD961C62F356208552BB" +
		"9ED529077096966D670C354E4ABC9804" +
		"F1746C08CA18217C32905E462E36CE3B" +
		"E39E772C180E86039B2783A2EC07A28F" +
		"B5C55DF06F4C52C9DE2BCBF695581718" +
		"3995497CEA956AE515D2261898FA0510" +
		"15728E5A8AACAA68FFFFFFFFFFFFFFFF"
)

func TestGroupTable(t *testing.T) {
	var cases = []struct {
		id   GroupID
		bits int
	}{
		{MODP768, 768},
		{MODP1024, 1024},
		{MODP1536, 1536},
		{MODP2048, 2048},
		{MODP3072, 3072},
		{MODP4096, 4096},
		{MODP6144, 6144},
		{MODP8192, 8192},
	}
	for _, tc := range cases {
		g, err := GroupFromID(tc.id)
		require.NoError(t, err)
		require.Equal(t, tc.id, g.ID())
		require.Equal(t, tc.bits, g.Bits())
		require.Equal(t, tc.bits/8, g.Size())
		require.EqualValues(t, 2, g.Generator())
		// true big-endian big integer: high bit of the first byte set
		require.Equal(t, tc.bits, g.Prime().BitLen())
	}
}

func TestGroupFromIDUnknown(t *testing.T) {
	_, err := GroupFromID(GroupID(19))
	require.ErrorIs(t, err, ErrUnsupportedGroup)
	_, err = GroupFromID(GroupID(0))
	require.ErrorIs(t, err, ErrUnsupportedGroup)
}

func TestModuliMatchRFC(t *testing.T) {
	ref768, ok := new(big.Int).SetString(rfc2409Prime768, 16)
	require.True(t, ok)
	g768, err := GroupFromID(MODP768)
	require.NoError(t, err)
	require.Zero(t, g768.Prime().Cmp(ref768))

	ref2048, ok := new(big.Int).SetString(rfc3526Prime2048, 16)
	require.True(t, ok)
	g2048, err := GroupFromID(MODP2048)
	require.NoError(t, err)
	require.Zero(t, g2048.Prime().Cmp(ref2048))
}

func TestGroupsSortedBySize(t *testing.T) {
	ids := Groups()
	require.Equal(t, []GroupID{MODP768, MODP1024, MODP1536, MODP2048, MODP3072, MODP4096, MODP6144, MODP8192}, ids)
}

func TestGroupIDString(t *testing.T) {
	require.Equal(t, "modp2048", MODP2048.String())
	require.Contains(t, GroupID(42).String(), "unknown")
}

func TestPrimeIsACopy(t *testing.T) {
	g, err := GroupFromID(MODP768)
	require.NoError(t, err)
	p := g.Prime()
	p.SetInt64(7)
	require.Equal(t, 768, g.Prime().BitLen())
}
