// Package montgomery implements x-only arithmetic on Montgomery curves
// y² = x³ + (A/C)x² + x over a prime field, and odd-degree isogenies
// between them.
package montgomery

import (
	"math/bits"

	"github.com/ComputerDreams/CSIDH-based-signature/internal/crypto/bigint"
	"github.com/ComputerDreams/CSIDH-based-signature/internal/crypto/field"
)

// Point is a projective x-coordinate (X:Z). Z = 0 is the point at infinity.
type Point struct {
	X, Z field.Element
}

// Curve is a projective Montgomery coefficient (A:C).
type Curve struct {
	A, C field.Element
}

// a24 holds (A+2C : 4C), the constants used by doubling.
type a24 struct {
	A24, C24 field.Element
}

// Engine performs curve arithmetic over a fixed field.
type Engine struct {
	f *field.Field
}

// New returns an engine for f.
func New(f *field.Field) *Engine {
	return &Engine{f: f}
}

// Field returns the underlying field.
func (e *Engine) Field() *field.Field {
	return e.f
}

// Infinity sets p to (1:0).
func (e *Engine) Infinity(p *Point) {
	e.f.One(&p.X)
	e.f.Zero(&p.Z)
}

// SetX sets p to (x:1).
func (e *Engine) SetX(p *Point, x *field.Element) {
	p.X = *x
	e.f.One(&p.Z)
}

// IsInfinity reports whether p is the point at infinity.
func (e *Engine) IsInfinity(p *Point) bool {
	return e.f.IsZero(&p.Z) == 1
}

// Equal reports whether p and q have the same x-coordinate.
func (e *Engine) Equal(p, q *Point) bool {
	var l, r field.Element
	e.f.Mul(&l, &p.X, &q.Z)
	e.f.Mul(&r, &q.X, &p.Z)
	return e.f.Equal(&l, &r)
}

// SetA sets c to (a:1).
func (e *Engine) SetA(c *Curve, a *field.Element) {
	c.A = *a
	e.f.One(&c.C)
}

// Normalize rescales c to (A/C : 1) using one inversion.
func (e *Engine) Normalize(c *Curve) {
	var inv field.Element
	e.f.Inv(&inv, &c.C)
	e.f.Mul(&c.A, &c.A, &inv)
	e.f.One(&c.C)
}

// Affine returns A/C.
func (e *Engine) Affine(c *Curve) field.Element {
	n := *c
	e.Normalize(&n)
	return n.A
}

func (e *Engine) a24(c *Curve) a24 {
	var k a24
	e.f.Add(&k.C24, &c.C, &c.C)
	e.f.Add(&k.A24, &c.A, &k.C24)
	e.f.Add(&k.C24, &k.C24, &k.C24)
	return k
}

func (e *Engine) double(q, p *Point, k *a24) {
	f := e.f
	var t0, t1, x, z field.Element
	f.Sub(&t0, &p.X, &p.Z)
	f.Sqr(&t0, &t0)
	f.Add(&t1, &p.X, &p.Z)
	f.Sqr(&t1, &t1)
	f.Mul(&z, &k.C24, &t0)
	f.Mul(&x, &z, &t1)
	f.Sub(&t1, &t1, &t0)
	f.Mul(&t0, &k.A24, &t1)
	f.Add(&z, &z, &t0)
	f.Mul(&z, &z, &t1)
	q.X, q.Z = x, z
}

// Double sets q = [2]p on c.
func (e *Engine) Double(q, p *Point, c *Curve) {
	k := e.a24(c)
	e.double(q, p, &k)
}

// DiffAdd sets r = p + q given d = p - q.
func (e *Engine) DiffAdd(r, p, q, d *Point) {
	f := e.f
	var t0, t1, t2, x, z field.Element
	f.Add(&t0, &p.X, &p.Z)
	f.Sub(&t1, &q.X, &q.Z)
	f.Mul(&t0, &t0, &t1)
	f.Sub(&t1, &p.X, &p.Z)
	f.Add(&t2, &q.X, &q.Z)
	f.Mul(&t1, &t1, &t2)
	f.Add(&x, &t0, &t1)
	f.Sqr(&x, &x)
	f.Mul(&x, &x, &d.Z)
	f.Sub(&z, &t0, &t1)
	f.Sqr(&z, &z)
	f.Mul(&z, &z, &d.X)
	r.X, r.Z = x, z
}

func cswap(p, q *Point, b uint64) {
	field.Cswap(&p.X, &q.X, b)
	field.Cswap(&p.Z, &q.Z, b)
}

// Cswap exchanges p and q if b == 1.
func Cswap(p, q *Point, b uint64) {
	cswap(p, q, b)
}

// Cmov sets p = q if b == 1.
func Cmov(p, q *Point, b uint64) {
	field.Cmov(&p.X, &q.X, b)
	field.Cmov(&p.Z, &q.Z, b)
}

// Ladder sets q = [k]p on c. The number of steps depends only on the
// modulus, so k must be at most p+1.
func (e *Engine) Ladder(q, p *Point, k *bigint.Int, c *Curve) {
	n := e.f.BitLen() + 1
	if n > bigint.Bits {
		n = bigint.Bits
	}
	e.ladder(q, p, k, n, c)
}

// MulSmall sets q = [k]p for a public word-sized k. The ladder only
// covers the bit length of k.
func (e *Engine) MulSmall(q, p *Point, k uint64, c *Curve) {
	var s bigint.Int
	s.SetUint64(k)
	e.ladder(q, p, &s, bits.Len64(k), c)
}

// ladder runs n steps over the low n bits of k.
func (e *Engine) ladder(q, p *Point, k *bigint.Int, n int, c *Curve) {
	ka := e.a24(c)
	diff := *p
	var r0, r1 Point
	e.Infinity(&r0)
	r1 = diff

	for i := n - 1; i >= 0; i-- {
		b := k.Bit(i)
		cswap(&r0, &r1, b)
		e.DiffAdd(&r1, &r0, &r1, &diff)
		e.double(&r0, &r0, &ka)
		cswap(&r0, &r1, b)
	}

	// xADD degenerates when the difference has X = 0 or Z = 0. The
	// multiples of (0:1) alternate between itself and infinity.
	var inf Point
	e.Infinity(&inf)
	z0 := e.f.IsZero(&diff.Z)
	x0 := e.f.IsZero(&diff.X) & (1 ^ z0)
	odd := k.Bit(0)
	Cmov(&r0, &diff, x0&odd)
	Cmov(&r0, &inf, (x0&(1^odd))|z0)
	*q = r0
}
