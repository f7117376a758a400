package field

import "github.com/ComputerDreams/CSIDH-based-signature/internal/crypto/bigint"

// Exp sets z = x^e. The loop covers the bit length of p, so exponents
// must be below 2^BitLen. The powering ladder performs one multiplication
// and one squaring per bit whatever the bit is.
func (f *Field) Exp(z, x *Element, e *bigint.Int) *Element {
	var r0, r1 Element
	f.One(&r0)
	r1 = *x
	for i := f.bitLen - 1; i >= 0; i-- {
		b := e.Bit(i)
		Cswap(&r0, &r1, b)
		f.Mul(&r1, &r0, &r1)
		f.Sqr(&r0, &r0)
		Cswap(&r0, &r1, b)
	}
	*z = r0
	return z
}

// Inv sets z = x^-1, and z = 0 when x = 0.
func (f *Field) Inv(z, x *Element) *Element {
	return f.Exp(z, x, &f.pMinus2)
}

// Legendre returns 1 for non-zero squares, -1 for non-squares, 0 for 0.
func (f *Field) Legendre(x *Element) int {
	var t, one, minusOne Element
	f.Exp(&t, x, &f.legendreExp)
	f.One(&one)
	f.Neg(&minusOne, &one)
	switch {
	case f.Equal(&t, &one):
		return 1
	case f.Equal(&t, &minusOne):
		return -1
	default:
		return 0
	}
}

// IsSquare returns 1 if x is a square (zero included) and 0 otherwise.
func (f *Field) IsSquare(x *Element) uint64 {
	var t, one, minusOne Element
	f.Exp(&t, x, &f.legendreExp)
	f.One(&one)
	f.Neg(&minusOne, &one)
	return 1 ^ bigint.ConstantTimeEq((*bigint.Int)(&t), (*bigint.Int)(&minusOne))
}

// Sqrt sets z to a square root of x and returns true, or returns false
// and leaves z unchanged when x is not a square.
func (f *Field) Sqrt(z, x *Element) bool {
	var y, y2 Element
	f.Exp(&y, x, &f.sqrtExp)
	f.Sqr(&y2, &y)
	ok := bigint.ConstantTimeEq((*bigint.Int)(&y2), (*bigint.Int)(x))
	Cmov(z, &y, ok)
	return ok == 1
}
