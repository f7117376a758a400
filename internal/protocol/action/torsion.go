package action

import (
	"errors"
	"fmt"

	"github.com/ComputerDreams/CSIDH-based-signature/internal/crypto/bigint"
	"github.com/ComputerDreams/CSIDH-based-signature/internal/crypto/field"
	"github.com/ComputerDreams/CSIDH-based-signature/internal/crypto/montgomery"
	"github.com/ComputerDreams/CSIDH-based-signature/internal/parameters"
)

// ErrTorsion is returned when torsion data fails verification.
var ErrTorsion = errors.New("action: torsion point does not have full order")

// fullTorsion reports whether [4]P has every ℓᵢ in its order.
func fullTorsion(params *parameters.Params, c *montgomery.Curve, x *field.Element) bool {
	e := params.Engine
	n := params.N()
	var p montgomery.Point
	e.SetX(&p, x)
	e.Ladder(&p, &p, new(bigint.Int).SetUint64(4), c)

	out := make([]montgomery.Point, n)
	set := make([]bool, n)
	cofactorMultiples(params, c, &p, 0, n, out, set)
	for _, ok := range set {
		if !ok {
			return false
		}
	}
	return true
}

func baseCurve(params *parameters.Params) (montgomery.Curve, field.Element, error) {
	c, err := params.Curve(&params.BaseCurve)
	if err != nil {
		return c, field.Element{}, err
	}
	return c, params.Engine.Affine(&c), nil
}

// CheckTorsion verifies that t holds a full-order point on the base curve
// and one on its twist.
func CheckTorsion(params *parameters.Params, t *parameters.Torsion) error {
	plus, minus, err := t.Points(params)
	if err != nil {
		return err
	}
	c, a, err := baseCurve(params)
	if err != nil {
		return err
	}
	e := params.Engine
	if e.OnCurve(&a, &plus.X) != 1 || !fullTorsion(params, &c, &plus.X) {
		return fmt.Errorf("%w: curve point", ErrTorsion)
	}
	if e.OnCurve(&a, &minus.X) != 0 || !fullTorsion(params, &c, &minus.X) {
		return fmt.Errorf("%w: twist point", ErrTorsion)
	}
	return nil
}

// FindTorsion searches x = 1, 2, ... for the smallest full-order point on
// the base curve and on its twist.
func FindTorsion(params *parameters.Params) (*parameters.Torsion, error) {
	c, a, err := baseCurve(params)
	if err != nil {
		return nil, err
	}
	e, f := params.Engine, params.Field

	var found [2]*field.Element
	for v := uint64(1); found[0] == nil || found[1] == nil; v++ {
		if v > 1<<20 {
			return nil, fmt.Errorf("%w: search exhausted", ErrTorsion)
		}
		x := new(field.Element)
		f.SetUint64(x, v)
		sd := 1 - int(e.OnCurve(&a, x))
		if found[sd] != nil {
			continue
		}
		if fullTorsion(params, &c, x) {
			found[sd] = x
		}
	}

	return &parameters.Torsion{
		Params: params.Name,
		Plus:   f.Encode(found[0]),
		Minus:  f.Encode(found[1]),
	}, nil
}
