package felt

import (
	"math/big"
	"testing"
)

func TestPrimeValue(t *testing.T) {
	// p = 2^251 + 17*2^192 + 1
	want := new(big.Int).Lsh(big.NewInt(1), 251)
	t192 := new(big.Int).Lsh(big.NewInt(17), 192)
	want.Add(want, t192)
	want.Add(want, big.NewInt(1))
	if Prime().Cmp(want) != 0 {
		t.Fatalf("prime mismatch: got %s want %s", Prime(), want)
	}
}

func TestAddWrapsAtPrimeBoundary(t *testing.T) {
	pm1 := new(big.Int).Sub(Prime(), big.NewInt(1))
	got := Add(pm1, big.NewInt(2))
	if got.Cmp(big.NewInt(1)) != 0 {
		t.Fatalf("(p-1) + 2 = %s, want 1", got)
	}
}

func TestSubWrapsBelowZero(t *testing.T) {
	got := Sub(big.NewInt(3), big.NewInt(5))
	want := new(big.Int).Sub(Prime(), big.NewInt(2))
	if got.Cmp(want) != 0 {
		t.Fatalf("3 - 5 = %s, want p-2", got)
	}
}

func TestMulStaysCanonical(t *testing.T) {
	pm1 := new(big.Int).Sub(Prime(), big.NewInt(1))
	got := Mul(pm1, pm1)
	// (p-1)^2 = p^2 - 2p + 1 ≡ 1 (mod p)
	if got.Cmp(big.NewInt(1)) != 0 {
		t.Fatalf("(p-1)*(p-1) = %s, want 1", got)
	}
	if !InRange(got) {
		t.Fatalf("result out of canonical range: %s", got)
	}
}

func TestCanonNegative(t *testing.T) {
	got := Canon(big.NewInt(-1))
	want := new(big.Int).Sub(Prime(), big.NewInt(1))
	if got.Cmp(want) != 0 {
		t.Fatalf("canon(-1) = %s, want p-1", got)
	}
}

func TestParse(t *testing.T) {
	got, err := Parse("0x10")
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if got.Cmp(big.NewInt(16)) != 0 {
		t.Fatalf("parse 0x10 = %s, want 16", got)
	}
	if _, err := Parse("not-a-number"); err == nil {
		t.Fatal("expected error for invalid literal")
	}
}
