package modp

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGroupSaveLoadVerify(t *testing.T) {
	g, err := GroupFromID(MODP2048)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "modp2048.toml")
	require.NoError(t, SaveGroup(path, g))

	info, err := os.Stat(path)
	require.NoError(t, err)
	require.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	gt, err := LoadGroup(path)
	require.NoError(t, err)
	require.Equal(t, uint16(14), gt.ID)
	require.Equal(t, 2048, gt.Bits)
	require.NoError(t, gt.Verify())
}

func TestVerifyRejectsTamperedPrime(t *testing.T) {
	g, err := GroupFromID(MODP768)
	require.NoError(t, err)

	gt := g.TOML()
	gt.Prime = "FF" + gt.Prime[2:]
	require.NoError(t, gt.Verify()) // leading byte unchanged, sanity

	tampered := g.TOML()
	tampered.Prime = tampered.Prime[:len(tampered.Prime)-2] + "FD"
	require.Error(t, tampered.Verify())
}

func TestVerifyRejectsWrongMetadata(t *testing.T) {
	g, err := GroupFromID(MODP1024)
	require.NoError(t, err)

	gt := g.TOML()
	gt.Bits = 1536
	require.Error(t, gt.Verify())

	gt = g.TOML()
	gt.Generator = 5
	require.Error(t, gt.Verify())

	gt = g.TOML()
	gt.ID = 99
	require.ErrorIs(t, gt.Verify(), ErrUnsupportedGroup)
}

func TestLoadGroupErrors(t *testing.T) {
	_, err := LoadGroup(filepath.Join(t.TempDir(), "missing.toml"))
	require.Error(t, err)

	bad := filepath.Join(t.TempDir(), "bad.toml")
	require.NoError(t, os.WriteFile(bad, []byte("ID = \"not a number\""), 0o600))
	_, err = LoadGroup(bad)
	require.Error(t, err)
}
