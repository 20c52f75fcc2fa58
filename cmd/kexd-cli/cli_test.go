package kexd

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func withOutput(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	old := output
	output = &buf
	t.Cleanup(func() { output = old })
	return &buf
}

func TestGroupsCommand(t *testing.T) {
	buf := withOutput(t)
	err := CLI().Run([]string{"kexd", "groups"})
	require.NoError(t, err)

	out := buf.String()
	require.Contains(t, out, "modp768")
	require.Contains(t, out, "modp8192")
	require.Contains(t, out, "96")   // chunk bytes of the 768-bit group
	require.Contains(t, out, "1024") // chunk bytes of the 8192-bit group
}

func TestExportAndCheck(t *testing.T) {
	buf := withOutput(t)
	path := filepath.Join(t.TempDir(), "modp2048.toml")

	err := CLI().Run([]string{"kexd", "export", "--group", "14", "--out", path})
	require.NoError(t, err)
	require.Contains(t, buf.String(), path)

	err = CLI().Run([]string{"kexd", "check", path})
	require.NoError(t, err)
	require.Contains(t, buf.String(), "matches")
}

func TestCheckRejectsTamperedFile(t *testing.T) {
	withOutput(t)
	path := filepath.Join(t.TempDir(), "modp768.toml")
	require.NoError(t, CLI().Run([]string{"kexd", "export", "--group", "1", "--out", path}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	tampered := bytes.Replace(data, []byte("FFFF"), []byte("FFFD"), 1)
	require.NoError(t, os.WriteFile(path, tampered, 0o600))

	require.Error(t, CLI().Run([]string{"kexd", "check", path}))
}

func TestExportUnknownGroup(t *testing.T) {
	withOutput(t)
	err := CLI().Run([]string{"kexd", "export", "--group", "3", "--out", filepath.Join(t.TempDir(), "x.toml")})
	require.Error(t, err)
}

func TestExchangeCommand(t *testing.T) {
	buf := withOutput(t)
	err := CLI().Run([]string{"kexd", "exchange", "--group", "1", "--rounds", "2", "--leak-detective"})
	require.NoError(t, err)

	out := buf.String()
	require.Contains(t, out, "modp768")
	require.Contains(t, out, "96-byte secret")
	require.Contains(t, out, "no outstanding allocations")
}

func TestCheckRequiresArgument(t *testing.T) {
	withOutput(t)
	require.Error(t, CLI().Run([]string{"kexd", "check"}))
}
