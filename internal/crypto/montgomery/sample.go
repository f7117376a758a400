package montgomery

import (
	"errors"

	"github.com/ComputerDreams/CSIDH-based-signature/internal/crypto/field"
)

// ErrElligator is returned when the two Elligator points do not land on
// opposite sides, which can only happen on a malformed curve.
var ErrElligator = errors.New("montgomery: elligator points on the same side")

// RHS sets z = x³ + a·x² + x for an affine coefficient a.
func (e *Engine) RHS(z, a, x *field.Element) {
	f := e.f
	var t field.Element
	f.Add(&t, x, a)
	f.Mul(&t, &t, x)
	f.Add(&t, &t, e.f.One(new(field.Element)))
	f.Mul(z, &t, x)
}

// OnCurve returns 1 when x is the abscissa of a point of E_a(F_p) and 0
// when it belongs to the quadratic twist. A zero right-hand side counts as
// a point on the curve.
func (e *Engine) OnCurve(a, x *field.Element) uint64 {
	var r field.Element
	e.RHS(&r, a, x)
	return e.f.IsSquare(&r)
}

// Elligator maps a field element u to one point on E_a and one on its
// twist. It returns false when u must be rejected and a fresh value drawn.
func (e *Engine) Elligator(onCurve, onTwist *Point, a, u *field.Element) (bool, error) {
	f := e.f
	var x, x2, r field.Element

	if f.IsZero(u) == 1 {
		return false, nil
	}
	if f.IsZero(a) == 1 {
		// f(-x) = -f(x) and -1 is a non-square
		x = *u
		f.Neg(&x2, &x)
	} else {
		var t, one field.Element
		f.One(&one)
		f.Sqr(&t, u)
		f.Sub(&t, &t, &one)
		if f.IsZero(&t) == 1 {
			return false, nil
		}
		f.Inv(&t, &t)
		f.Mul(&x, a, &t)
		f.Add(&x2, &x, a)
		f.Neg(&x2, &x2)
	}

	e.RHS(&r, a, &x)
	if f.IsZero(&r) == 1 {
		return false, nil
	}
	s1 := f.IsSquare(&r)
	e.RHS(&r, a, &x2)
	s2 := f.IsSquare(&r)
	if s1 == s2 {
		return false, ErrElligator
	}

	field.Cswap(&x, &x2, 1^s1)
	e.SetX(onCurve, &x)
	e.SetX(onTwist, &x2)
	return true, nil
}
