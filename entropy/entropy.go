// Package entropy is the secure random source behind private-exponent
// generation. The default source is crypto/rand; operators who distrust
// the platform generator can plug in an external executable through
// ScriptReader.
package entropy

import (
	"bytes"
	"crypto/rand"
	"errors"
	"fmt"
	"io"
	"os/exec"
)

// GetRandom reads exactly n bytes from source, or from crypto/rand when
// source is nil. Errors and short reads are reported to the caller, never
// papered over: an exchange must not be constructed from weak randomness.
func GetRandom(source io.Reader, n uint32) ([]byte, error) {
	if source == nil {
		source = rand.Reader
	}
	buf := make([]byte, n)
	if _, err := io.ReadFull(source, buf); err != nil {
		return nil, fmt.Errorf("entropy: reading %d bytes: %w", n, err)
	}
	return buf, nil
}

// ScriptReader sources randomness from an external executable that
// writes random bytes to stdout. It is run as many times as needed to
// fill the requested buffer.
type ScriptReader struct {
	Path string
}

var _ io.Reader = (*ScriptReader)(nil)

// NewScriptReader returns a reader backed by the executable at path.
func NewScriptReader(path string) *ScriptReader {
	return &ScriptReader{Path: path}
}

// Read fills p from repeated runs of the executable. n == len(p) if and
// only if err == nil.
func (r *ScriptReader) Read(p []byte) (int, error) {
	if r.Path == "" {
		return 0, errors.New("entropy: no script path configured")
	}
	read := 0
	for read < len(p) {
		var out bytes.Buffer
		cmd := exec.Command(r.Path) // #nosec G204 -- operator-provided entropy source
		cmd.Stdout = &out
		if err := cmd.Run(); err != nil {
			return read, fmt.Errorf("entropy: running %q: %w", r.Path, err)
		}
		if out.Len() == 0 {
			return read, fmt.Errorf("entropy: %q produced no output", r.Path)
		}
		read += copy(p[read:], out.Bytes())
	}
	return len(p), nil
}
