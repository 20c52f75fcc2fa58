package modp

import (
	"crypto/sha256"
	"fmt"
	"io"

	"golang.org/x/crypto/hkdf"

	"github.com/kexd/kexd/chunk"
)

// DeriveKey expands the shared secret into n bytes of keying material
// with HKDF-SHA256, bound to the caller-supplied info string. The raw
// shared secret is never used directly as a key; session keys come out
// of this derivation. Returns ErrIncomplete before the secret exists.
func (e *Exchange) DeriveKey(info []byte, n int) ([]byte, error) {
	if e.x == nil {
		return nil, ErrWiped
	}
	if e.secret == nil {
		return nil, ErrIncomplete
	}

	ikm, err := chunk.FromInt(e.secret, e.group.Size())
	if err != nil {
		return nil, err
	}
	defer func() {
		for i := range ikm {
			ikm[i] = 0
		}
	}()

	key := e.alloc.Alloc(n)
	if _, err := io.ReadFull(hkdf.New(sha256.New, ikm, nil, info), key); err != nil {
		e.alloc.Free(key)
		return nil, fmt.Errorf("modp: deriving %d bytes: %w", n, err)
	}
	return key, nil
}
