package entropy

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGetRandomDefaultSource(t *testing.T) {
	a, err := GetRandom(nil, 96)
	require.NoError(t, err)
	require.Len(t, a, 96)

	b, err := GetRandom(nil, 96)
	require.NoError(t, err)
	require.NotEqual(t, a, b)
}

func TestGetRandomCustomSource(t *testing.T) {
	src := strings.NewReader("sixteen bytes !!")
	b, err := GetRandom(src, 16)
	require.NoError(t, err)
	require.Equal(t, []byte("sixteen bytes !!"), b)
}

func TestGetRandomShortSourceFails(t *testing.T) {
	src := strings.NewReader("short")
	_, err := GetRandom(src, 32)
	require.Error(t, err)
	require.True(t, errors.Is(err, io.ErrUnexpectedEOF))
}

func TestScriptReader(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("shell script source")
	}
	dir := t.TempDir()
	script := filepath.Join(dir, "entropy.sh")
	err := os.WriteFile(script, []byte("#!/bin/sh\nprintf 'abcdefgh'\n"), 0o755)
	require.NoError(t, err)

	b, err := GetRandom(NewScriptReader(script), 20)
	require.NoError(t, err)
	require.Equal(t, []byte("abcdefghabcdefghabcd"), b)
}

func TestScriptReaderNoPath(t *testing.T) {
	var r ScriptReader
	_, err := r.Read(make([]byte, 8))
	require.Error(t, err)
}
