// Package field implements arithmetic modulo an odd prime p < 2^512 with
// elements kept in Montgomery form (x·R mod p, R = 2^512).
//
// Every operation on elements runs the same sequence of word operations
// for all inputs of a given Field.
package field

import (
	"errors"
	"fmt"
	"io"
	"math/big"
	"math/bits"

	"github.com/ComputerDreams/CSIDH-based-signature/internal/crypto/bigint"
)

const limbs = bigint.Limbs

// Errors returned when decoding elements and building a Field.
var (
	ErrNotCanonical = errors.New("field: encoding is not a canonical residue")
	ErrModulus      = errors.New("field: modulus must be an odd prime below 2^512")
)

// Element is a residue in Montgomery form, always fully reduced.
type Element bigint.Int

// Field holds the constants for one modulus. It is immutable after New.
type Field struct {
	p      bigint.Int
	pInv   uint64 // -p^-1 mod 2^64
	one    Element
	r2     bigint.Int
	bitLen int

	pMinus2     bigint.Int
	legendreExp bigint.Int // (p-1)/2
	sqrtExp     bigint.Int // (p+1)/4
}

// New derives the Montgomery constants for p. Square roots require
// p ≡ 3 mod 4.
func New(p *big.Int) (*Field, error) {
	if p.Sign() <= 0 || p.Bit(0) == 0 || p.BitLen() > bigint.Bits || !p.ProbablyPrime(32) {
		return nil, ErrModulus
	}
	if p.Bit(1) != 1 {
		return nil, fmt.Errorf("%w: need p ≡ 3 mod 4", ErrModulus)
	}

	f := &Field{bitLen: p.BitLen()}
	if err := f.p.SetBig(p); err != nil {
		return nil, err
	}

	// Newton iteration doubles the number of correct low bits each step.
	inv := f.p[0]
	for i := 0; i < 6; i++ {
		inv *= 2 - f.p[0]*inv
	}
	f.pInv = -inv

	r := new(big.Int).Lsh(big.NewInt(1), bigint.Bits)
	if err := (*bigint.Int)(&f.one).SetBig(new(big.Int).Mod(r, p)); err != nil {
		return nil, err
	}
	r2 := new(big.Int).Mul(r, r)
	if err := f.r2.SetBig(r2.Mod(r2, p)); err != nil {
		return nil, err
	}

	one := big.NewInt(1)
	exps := []struct {
		dst *bigint.Int
		v   *big.Int
	}{
		{&f.pMinus2, new(big.Int).Sub(p, big.NewInt(2))},
		{&f.legendreExp, new(big.Int).Rsh(new(big.Int).Sub(p, one), 1)},
		{&f.sqrtExp, new(big.Int).Rsh(new(big.Int).Add(p, one), 2)},
	}
	for _, e := range exps {
		if err := e.dst.SetBig(e.v); err != nil {
			return nil, err
		}
	}
	return f, nil
}

// Modulus returns a copy of p.
func (f *Field) Modulus() bigint.Int {
	return f.p
}

// BitLen returns the bit length of p.
func (f *Field) BitLen() int {
	return f.bitLen
}

// One sets z = 1.
func (f *Field) One(z *Element) *Element {
	*z = f.one
	return z
}

// Zero sets z = 0.
func (f *Field) Zero(z *Element) *Element {
	*z = Element{}
	return z
}

// Add sets z = x + y.
func (f *Field) Add(z, x, y *Element) *Element {
	var s, d bigint.Int
	c := bigint.Add(&s, (*bigint.Int)(x), (*bigint.Int)(y))
	b := bigint.Sub(&d, &s, &f.p)
	// keep the unreduced sum only when it did not overflow and is below p
	bigint.Select((*bigint.Int)(z), &s, &d, b&^c)
	return z
}

// Sub sets z = x - y.
func (f *Field) Sub(z, x, y *Element) *Element {
	var d, m bigint.Int
	b := bigint.Sub(&d, (*bigint.Int)(x), (*bigint.Int)(y))
	bigint.Select(&m, &f.p, &bigint.Int{}, b)
	bigint.Add((*bigint.Int)(z), &d, &m)
	return z
}

// Neg sets z = -x.
func (f *Field) Neg(z, x *Element) *Element {
	var zero Element
	return f.Sub(z, &zero, x)
}

// Mul sets z = x·y using CIOS Montgomery multiplication.
func (f *Field) Mul(z, x, y *Element) *Element {
	f.montMul((*bigint.Int)(z), (*bigint.Int)(x), (*bigint.Int)(y))
	return z
}

// Sqr sets z = x².
func (f *Field) Sqr(z, x *Element) *Element {
	f.montMul((*bigint.Int)(z), (*bigint.Int)(x), (*bigint.Int)(x))
	return z
}

// MulSmall sets z = c·x for a small public constant c.
func (f *Field) MulSmall(z, x *Element, c uint64) *Element {
	var k Element
	f.SetUint64(&k, c)
	return f.Mul(z, x, &k)
}

func (f *Field) montMul(z, x, y *bigint.Int) {
	var t [limbs + 2]uint64
	for i := 0; i < limbs; i++ {
		var c, cc uint64
		for j := 0; j < limbs; j++ {
			hi, lo := bits.Mul64(x[j], y[i])
			lo, cc = bits.Add64(lo, t[j], 0)
			hi += cc
			lo, cc = bits.Add64(lo, c, 0)
			hi += cc
			t[j] = lo
			c = hi
		}
		t[limbs], cc = bits.Add64(t[limbs], c, 0)
		t[limbs+1] = cc

		m := t[0] * f.pInv
		hi, lo := bits.Mul64(m, f.p[0])
		_, cc = bits.Add64(lo, t[0], 0)
		c = hi + cc
		for j := 1; j < limbs; j++ {
			hi, lo = bits.Mul64(m, f.p[j])
			lo, cc = bits.Add64(lo, t[j], 0)
			hi += cc
			lo, cc = bits.Add64(lo, c, 0)
			hi += cc
			t[j-1] = lo
			c = hi
		}
		t[limbs-1], cc = bits.Add64(t[limbs], c, 0)
		t[limbs] = t[limbs+1] + cc
	}

	// t < 2p here; subtract p once unless that underflows.
	var r, d bigint.Int
	copy(r[:], t[:limbs])
	b := bigint.Sub(&d, &r, &f.p)
	bigint.Select(z, &r, &d, b&^t[limbs])
}

// SetUint64 sets z to the residue of v.
func (f *Field) SetUint64(z *Element, v uint64) *Element {
	var x bigint.Int
	x.SetUint64(v)
	f.montMul((*bigint.Int)(z), &x, &f.r2)
	return z
}

// FromInt converts a canonical integer x < p into Montgomery form.
func (f *Field) FromInt(z *Element, x *bigint.Int) error {
	if !bigint.Less(x, &f.p) {
		return ErrNotCanonical
	}
	f.montMul((*bigint.Int)(z), x, &f.r2)
	return nil
}

// ToInt returns the canonical integer value of x.
func (f *Field) ToInt(x *Element) bigint.Int {
	var one, r bigint.Int
	one.SetUint64(1)
	f.montMul(&r, (*bigint.Int)(x), &one)
	return r
}

// Encode returns the canonical 64-byte little-endian encoding of x.
func (f *Field) Encode(x *Element) []byte {
	v := f.ToInt(x)
	return v.BytesLE()
}

// Decode parses a canonical little-endian encoding.
func (f *Field) Decode(z *Element, b []byte) error {
	var v bigint.Int
	if err := v.SetBytesLE(b); err != nil {
		return err
	}
	return f.FromInt(z, &v)
}

// Equal reports whether x == y.
func (f *Field) Equal(x, y *Element) bool {
	return bigint.ConstantTimeEq((*bigint.Int)(x), (*bigint.Int)(y)) == 1
}

// IsZero returns 1 if x == 0 and 0 otherwise.
func (f *Field) IsZero(x *Element) uint64 {
	return (*bigint.Int)(x).IsZero()
}

// Cmov sets z = x if b == 1 and leaves z unchanged if b == 0.
func Cmov(z, x *Element, b uint64) {
	bigint.Select((*bigint.Int)(z), (*bigint.Int)(x), (*bigint.Int)(z), b)
}

// Cswap exchanges x and y if b == 1.
func Cswap(x, y *Element, b uint64) {
	bigint.Swap((*bigint.Int)(x), (*bigint.Int)(y), b)
}

// Random sets z to a uniformly random residue drawn from rng.
// Errors from rng are returned unchanged.
func (f *Field) Random(z *Element, rng io.Reader) error {
	buf := make([]byte, bigint.Size)
	topBits := uint(f.bitLen % 64)
	topLimb := (f.bitLen - 1) / 64
	for {
		if _, err := io.ReadFull(rng, buf); err != nil {
			return err
		}
		var v bigint.Int
		if err := v.SetBytesLE(buf); err != nil {
			return err
		}
		for i := topLimb + 1; i < limbs; i++ {
			v[i] = 0
		}
		if topBits != 0 {
			v[topLimb] &= (1 << topBits) - 1
		}
		if bigint.Less(&v, &f.p) {
			f.montMul((*bigint.Int)(z), &v, &f.r2)
			return nil
		}
	}
}
