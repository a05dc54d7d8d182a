// Package felt implements arithmetic over the Cairo prime field.
//
// A field element (felt) is an integer modulo the prime
// p = 2^251 + 17*2^192 + 1. All exported operations return values in the
// canonical range [0, p).
package felt

import (
	"fmt"
	"math/big"
)

// Bits is the bit width of a field element in the target representation.
const Bits = 252

// DoubleBits is the widened intermediate width used for raw arithmetic
// before modular reduction.
const DoubleBits = 504

var prime = func() *big.Int {
	p, ok := new(big.Int).SetString(
		"3618502788666131213697322783095070105623107215331596699973092056135872020481", 10)
	if !ok {
		panic("felt: bad prime literal")
	}
	return p
}()

// Prime returns a copy of the field modulus p.
func Prime() *big.Int {
	return new(big.Int).Set(prime)
}

// Canon reduces x into the canonical range [0, p). The result is a new
// big.Int; x is not modified.
func Canon(x *big.Int) *big.Int {
	r := new(big.Int).Mod(x, prime)
	if r.Sign() < 0 {
		r.Add(r, prime)
	}
	return r
}

// InRange reports whether x is already canonical.
func InRange(x *big.Int) bool {
	return x.Sign() >= 0 && x.Cmp(prime) < 0
}

// Add returns (a + b) mod p.
func Add(a, b *big.Int) *big.Int {
	return Canon(new(big.Int).Add(a, b))
}

// Sub returns (a - b) mod p.
func Sub(a, b *big.Int) *big.Int {
	return Canon(new(big.Int).Sub(a, b))
}

// Mul returns (a * b) mod p.
func Mul(a, b *big.Int) *big.Int {
	return Canon(new(big.Int).Mul(a, b))
}

// Parse reads a felt literal in decimal or 0x-prefixed hexadecimal form and
// returns its canonical value.
func Parse(s string) (*big.Int, error) {
	x, ok := new(big.Int).SetString(s, 0)
	if !ok {
		return nil, fmt.Errorf("invalid felt literal: %q", s)
	}
	return Canon(x), nil
}
