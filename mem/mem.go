// Package mem provides the byte-buffer allocation capability used for key
// material. The base allocator is a thin wrapper over the Go heap that
// zeroizes buffers on release; Tracker decorates any allocator with
// per-call-site accounting of live buffers for shutdown diagnostics.
package mem

// Allocator hands out and takes back byte buffers. Implementations must
// be safe for concurrent use; exchanges running on different goroutines
// share the process-wide Default instance.
type Allocator interface {
	// Alloc returns a zeroed buffer of n bytes.
	Alloc(n int) []byte
	// Realloc returns a buffer of n bytes carrying over min(len(b), n)
	// bytes from b, and releases b.
	Realloc(b []byte, n int) []byte
	// Clone returns a copy of b in a fresh buffer.
	Clone(b []byte) []byte
	// Free releases b. The buffer content is wiped before release; b
	// must not be used afterwards.
	Free(b []byte)
}

// Default is the process-wide allocator. Components take an Allocator
// explicitly and fall back to Default when none is injected.
var Default Allocator = New()

// New returns the pass-through heap allocator.
func New() Allocator { return heap{} }

type heap struct{}

func (heap) Alloc(n int) []byte { return make([]byte, n) }

func (heap) Realloc(b []byte, n int) []byte {
	nb := make([]byte, n)
	copy(nb, b)
	wipe(b)
	return nb
}

func (heap) Clone(b []byte) []byte {
	if b == nil {
		return nil
	}
	nb := make([]byte, len(b))
	copy(nb, b)
	return nb
}

func (heap) Free(b []byte) { wipe(b) }

func wipe(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
