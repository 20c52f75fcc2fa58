package modp

import (
	"errors"
	"fmt"
	"io"
	"math/big"

	"github.com/kexd/kexd/chunk"
	"github.com/kexd/kexd/entropy"
	"github.com/kexd/kexd/mem"
)

var (
	// ErrRandomness means the entropy source failed while drawing the
	// private exponent. Fatal to construction.
	ErrRandomness = errors.New("modp: entropy source unavailable")

	// ErrIncomplete means the peer public value has not been set yet.
	// Recoverable: the exchange is simply not finished.
	ErrIncomplete = errors.New("modp: exchange not complete")

	// ErrWiped means the exchange was already destroyed.
	ErrWiped = errors.New("modp: exchange wiped")
)

// KeyExchange is the lifecycle of one Diffie-Hellman exchange. An
// implementation is single-use: one instance per negotiation, owned and
// driven by a single goroutine.
type KeyExchange interface {
	// Group returns the descriptor the exchange was created for.
	Group() *Group
	// PublicValue returns g^x mod p as a Size-byte chunk. The value is
	// computed on first call and cached; repeated calls return identical
	// bytes and do not touch peer state.
	PublicValue() ([]byte, error)
	// SetPeerValue decodes the peer's public value and immediately
	// computes the shared secret from it.
	SetPeerValue(pub []byte) error
	// PeerValue returns the peer's public value re-encoded to Size
	// bytes, or ErrIncomplete before SetPeerValue. The guard is
	// deliberate: a half-initialized peer value is never exposed.
	PeerValue() ([]byte, error)
	// SharedSecret returns the shared secret as a Size-byte chunk, or
	// ErrIncomplete before SetPeerValue.
	SharedSecret() ([]byte, error)
	// Wipe zeroizes all key material. The exchange is unusable after.
	Wipe()
}

// Exchange is the only KeyExchange implementation. Optional values are
// nil until computed, so teardown releases exactly what exists.
type Exchange struct {
	group *Group
	alloc mem.Allocator

	// x is the private exponent. It never leaves the object.
	x      *big.Int
	public *big.Int
	peer   *big.Int
	secret *big.Int
}

var _ KeyExchange = (*Exchange)(nil)

type config struct {
	source io.Reader
	alloc  mem.Allocator
}

// Option adjusts exchange construction.
type Option func(*config)

// WithEntropy selects the randomness source for the private exponent.
// The default is crypto/rand.
func WithEntropy(r io.Reader) Option {
	return func(c *config) { c.source = r }
}

// WithAllocator selects the allocator used for every chunk handed to the
// caller. The caller owns returned chunks and frees them through the
// same allocator.
func WithAllocator(a mem.Allocator) Option {
	return func(c *config) { c.alloc = a }
}

// NewExchange creates an exchange for the given group and draws its
// private exponent. Construction is atomic: on any failure no key
// material survives. The exponent is a full modulus width of randomness;
// shorter exponents would be marginally cheaper but the full width is
// simpler and secure for every supported group.
func NewExchange(id GroupID, opts ...Option) (*Exchange, error) {
	g, err := GroupFromID(id)
	if err != nil {
		return nil, err
	}

	cfg := config{alloc: mem.Default}
	for _, opt := range opts {
		opt(&cfg)
	}

	seed, err := entropy.GetRandom(cfg.source, uint32(g.Size()))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRandomness, err)
	}
	x := chunk.ToInt(seed)
	for i := range seed {
		seed[i] = 0
	}

	return &Exchange{group: g, alloc: cfg.alloc, x: x}, nil
}

// Group returns the descriptor the exchange was created for.
func (e *Exchange) Group() *Group { return e.group }

// PublicValue computes g^x mod p on first use and returns it encoded to
// the group's wire width.
func (e *Exchange) PublicValue() ([]byte, error) {
	if e.x == nil {
		return nil, ErrWiped
	}
	if e.public == nil {
		e.public = chunk.ModExp(e.group.generator, e.x, e.group.prime)
	}
	return e.encode(e.public)
}

// SetPeerValue stores the peer's public value and derives the shared
// secret right away, fixing it to this peer value for the lifetime of
// the object. The chunk is interpreted as an unsigned big-endian
// magnitude; leading zero padding is fine. Calling it again recomputes
// against the new value and discards the previous secret; the object is
// meant to be single-use for this step.
func (e *Exchange) SetPeerValue(pub []byte) error {
	if e.x == nil {
		return ErrWiped
	}
	e.peer = chunk.ToInt(pub)
	e.secret = chunk.ModExp(e.peer, e.x, e.group.prime)
	return nil
}

// PeerValue returns the previously set peer public value, re-encoded to
// the group's wire width.
func (e *Exchange) PeerValue() ([]byte, error) {
	if e.x == nil {
		return nil, ErrWiped
	}
	if e.secret == nil {
		return nil, ErrIncomplete
	}
	return e.encode(e.peer)
}

// SharedSecret returns peer^x mod p encoded to the group's wire width.
func (e *Exchange) SharedSecret() ([]byte, error) {
	if e.x == nil {
		return nil, ErrWiped
	}
	if e.secret == nil {
		return nil, ErrIncomplete
	}
	return e.encode(e.secret)
}

// Wipe zeroizes whatever key material was actually computed. Values that
// never came into existence are skipped. Idempotent.
func (e *Exchange) Wipe() {
	wipeInt(e.x)
	wipeInt(e.public)
	wipeInt(e.peer)
	wipeInt(e.secret)
	e.x, e.public, e.peer, e.secret = nil, nil, nil, nil
}

func (e *Exchange) encode(x *big.Int) ([]byte, error) {
	buf := e.alloc.Alloc(e.group.Size())
	if err := chunk.Fill(buf, x); err != nil {
		e.alloc.Free(buf)
		return nil, err
	}
	return buf, nil
}

func wipeInt(x *big.Int) {
	if x == nil {
		return
	}
	words := x.Bits()
	for i := range words {
		words[i] = 0
	}
	x.SetInt64(0)
}
