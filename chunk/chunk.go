// Package chunk converts between fixed-width big-endian byte buffers and
// arbitrary-precision integers, and performs the modular exponentiation
// underlying the MODP key exchange.
//
// Every value that crosses the wire in an IKE exchange is encoded as a
// "chunk": a buffer of exactly the group's modulus length, left-padded
// with zero bytes when the numeric value is shorter. The padding is part
// of the format; strict-length readers on the peer side reject anything
// else.
package chunk

import (
	"errors"
	"math/big"
)

// ErrWidth is returned when an integer does not fit the requested width.
// Values reduced modulo a width-byte modulus never trigger it; it guards
// against callers passing unreduced or foreign values.
var ErrWidth = errors.New("chunk: integer wider than requested width")

// ToInt interprets b as a big-endian unsigned magnitude. Leading zero
// bytes carry no value: ToInt(append(zeros, b...)) equals ToInt(b).
func ToInt(b []byte) *big.Int {
	return new(big.Int).SetBytes(b)
}

// FromInt encodes x into exactly width bytes, big-endian, left-zero-padded.
func FromInt(x *big.Int, width int) ([]byte, error) {
	out := make([]byte, width)
	if err := Fill(out, x); err != nil {
		return nil, err
	}
	return out, nil
}

// Fill encodes x into dst with the same semantics as FromInt, letting the
// caller control where the buffer comes from. dst is left untouched on
// error.
func Fill(dst []byte, x *big.Int) error {
	raw := x.Bytes()
	if len(raw) > len(dst) {
		return ErrWidth
	}
	pad := len(dst) - len(raw)
	for i := 0; i < pad; i++ {
		dst[i] = 0
	}
	copy(dst[pad:], raw)
	return nil
}

// ModExp computes base^exp mod m. It delegates to math/big, which selects
// windowed or Montgomery exponentiation as appropriate; for 8192-bit
// moduli this is the dominant cost of an exchange.
func ModExp(base, exp, m *big.Int) *big.Int {
	return new(big.Int).Exp(base, exp, m)
}
