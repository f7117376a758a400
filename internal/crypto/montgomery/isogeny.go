package montgomery

import (
	"fmt"

	"github.com/ComputerDreams/CSIDH-based-signature/internal/crypto/field"
)

// Model selects the formula used for the codomain coefficient.
type Model int

const (
	// MontgomeryModel computes A' = π²(A - 6σ) from the kernel abscissas.
	MontgomeryModel Model = iota
	// EdwardsModel goes through the twisted Edwards coefficients (a, d).
	EdwardsModel
)

func (m Model) String() string {
	switch m {
	case MontgomeryModel:
		return "montgomery"
	case EdwardsModel:
		return "edwards"
	default:
		return fmt.Sprintf("model(%d)", int(m))
	}
}

// Degree is a supported odd isogeny degree.
type Degree struct {
	L     uint64
	steps int
}

// NewDegree returns the degree descriptor for an odd prime l.
func NewDegree(l uint64) (Degree, error) {
	if l < 3 || l%2 == 0 {
		return Degree{}, fmt.Errorf("montgomery: unsupported isogeny degree %d", l)
	}
	return Degree{L: l, steps: int(l / 2)}, nil
}

// Steps returns (l-1)/2, the number of kernel multiples visited.
func (d Degree) Steps() int {
	return d.steps
}

type image struct {
	orig   Point
	nx, nz field.Element
}

type codomain struct {
	// Montgomery model
	num, den, sn, sd field.Element
	// Edwards model
	py, pz field.Element
}

// Isogeny replaces c by the codomain of the isogeny with kernel <k> of
// degree d and maps every point in pts through it. k must have exact
// order d.L on c.
func (e *Engine) Isogeny(c *Curve, k *Point, d Degree, model Model, pts ...*Point) {
	f := e.f
	ka := e.a24(c)

	imgs := make([]image, len(pts))
	for i, p := range pts {
		imgs[i].orig = *p
		f.One(&imgs[i].nx)
		f.One(&imgs[i].nz)
	}

	var acc codomain
	f.One(&acc.num)
	f.One(&acc.den)
	f.Zero(&acc.sn)
	f.One(&acc.sd)
	f.One(&acc.py)
	f.One(&acc.pz)

	var prev, cur, next Point
	cur = *k
	var sum, diff, t0, t1 field.Element
	for i := 0; i < d.steps; i++ {
		f.Add(&sum, &cur.X, &cur.Z)
		f.Sub(&diff, &cur.X, &cur.Z)

		for j := range imgs {
			im := &imgs[j]
			var ps, pd field.Element
			f.Sub(&pd, &im.orig.X, &im.orig.Z)
			f.Add(&ps, &im.orig.X, &im.orig.Z)
			f.Mul(&t0, &pd, &sum)
			f.Mul(&t1, &ps, &diff)
			// t0+t1 = 2(X·Xi - Z·Zi), t0-t1 = 2(X·Zi - Z·Xi)
			f.Add(&ps, &t0, &t1)
			f.Sub(&pd, &t0, &t1)
			f.Mul(&im.nx, &im.nx, &ps)
			f.Mul(&im.nz, &im.nz, &pd)
		}

		switch model {
		case EdwardsModel:
			f.Mul(&acc.py, &acc.py, &diff)
			f.Mul(&acc.pz, &acc.pz, &sum)
		default:
			var xz, sq field.Element
			f.Mul(&acc.num, &acc.num, &cur.X)
			f.Mul(&acc.den, &acc.den, &cur.Z)
			f.Mul(&xz, &cur.X, &cur.Z)
			f.Mul(&sq, &sum, &diff)
			f.Mul(&acc.sn, &acc.sn, &xz)
			f.Mul(&sq, &sq, &acc.sd)
			f.Add(&acc.sn, &acc.sn, &sq)
			f.Mul(&acc.sd, &acc.sd, &xz)
		}

		if i+1 < d.steps {
			if i == 0 {
				e.double(&next, &cur, &ka)
			} else {
				e.DiffAdd(&next, &cur, k, &prev)
			}
			prev, cur = cur, next
		}
	}

	for j, p := range pts {
		im := &imgs[j]
		f.Sqr(&im.nx, &im.nx)
		f.Sqr(&im.nz, &im.nz)
		f.Mul(&p.X, &im.orig.X, &im.nx)
		f.Mul(&p.Z, &im.orig.Z, &im.nz)
	}

	switch model {
	case EdwardsModel:
		e.edwardsCodomain(c, &acc, d.L)
	default:
		e.montgomeryCodomain(c, &acc)
	}
}

func (e *Engine) montgomeryCodomain(c *Curve, acc *codomain) {
	f := e.f
	var t, u field.Element
	f.Mul(&t, &c.A, &acc.sd)
	f.Mul(&u, &c.C, &acc.sn)
	f.MulSmall(&u, &u, 6)
	f.Sub(&t, &t, &u)
	f.Sqr(&u, &acc.num)
	f.Mul(&c.A, &t, &u)

	f.Mul(&t, &c.C, &acc.sd)
	f.Sqr(&u, &acc.den)
	f.Mul(&c.C, &t, &u)
}

func (e *Engine) edwardsCodomain(c *Curve, acc *codomain, l uint64) {
	f := e.f
	var a, d, twoC field.Element
	f.Add(&twoC, &c.C, &c.C)
	f.Add(&a, &c.A, &twoC)
	f.Sub(&d, &c.A, &twoC)

	e.powSmall(&a, &a, l)
	e.powSmall(&d, &d, l)
	for i := 0; i < 3; i++ {
		f.Sqr(&acc.pz, &acc.pz)
		f.Sqr(&acc.py, &acc.py)
	}
	f.Mul(&a, &a, &acc.pz)
	f.Mul(&d, &d, &acc.py)

	f.Add(&c.A, &a, &d)
	f.Add(&c.A, &c.A, &c.A)
	f.Sub(&c.C, &a, &d)
}

// powSmall sets z = x^n for a public exponent n.
func (e *Engine) powSmall(z, x *field.Element, n uint64) {
	f := e.f
	base := *x
	var r field.Element
	f.One(&r)
	for n > 0 {
		if n&1 == 1 {
			f.Mul(&r, &r, &base)
		}
		f.Sqr(&base, &base)
		n >>= 1
	}
	*z = r
}
