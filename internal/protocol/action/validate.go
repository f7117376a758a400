package action

import (
	"fmt"
	"math/big"

	"github.com/ComputerDreams/CSIDH-based-signature/internal/crypto/bigint"
	"github.com/ComputerDreams/CSIDH-based-signature/internal/crypto/field"
	"github.com/ComputerDreams/CSIDH-based-signature/internal/crypto/montgomery"
	"github.com/ComputerDreams/CSIDH-based-signature/internal/parameters"
	"github.com/ComputerDreams/CSIDH-based-signature/pkg/csidh"
)

// Validate reports whether pk encodes a supersingular curve. Only the
// WithRand, WithLogger and WithMaxRounds options apply.
func Validate(params *parameters.Params, pk *csidh.PublicKey, opts ...Option) (bool, error) {
	cfg := newConfig(opts)
	c, err := params.Curve(pk)
	if err != nil {
		return false, nil
	}
	ok, err := validate(params, &c, cfg)
	if err != nil {
		return false, err
	}
	cfg.log.Debug().Str("params", params.Name).Bool("supersingular", ok).Msg("curve validated")
	return ok, nil
}

// validate looks for a point whose order exceeds 4√p, which proves the
// curve has p+1 points. A point whose ℓ-part is not killed by ℓ proves the
// opposite.
func validate(params *parameters.Params, c *montgomery.Curve, cfg config) (bool, error) {
	e, f := params.Engine, params.Field

	a := e.Affine(c)
	var two, minusTwo field.Element
	f.SetUint64(&two, 2)
	f.Neg(&minusTwo, &two)
	if f.Equal(&a, &two) || f.Equal(&a, &minusTwo) {
		return false, nil
	}
	var curve montgomery.Curve
	e.SetA(&curve, &a)

	var bound bigint.Int
	b := new(big.Int).Sqrt(params.P)
	b.Lsh(b, 2).Add(b, big.NewInt(4))
	if err := bound.SetBig(b); err != nil {
		return false, err
	}

	n := params.N()
	out := make([]montgomery.Point, n)
	set := make([]bool, n)
	four := new(bigint.Int).SetUint64(4)

	for attempt := 0; attempt < cfg.maxRounds; attempt++ {
		var x field.Element
		if err := f.Random(&x, cfg.rng); err != nil {
			return false, fmt.Errorf("%w: %v", csidh.ErrRandomnessUnavailable, err)
		}
		var p montgomery.Point
		e.SetX(&p, &x)
		e.Ladder(&p, &p, four, &curve)

		for i := range set {
			set[i] = false
		}
		cofactorMultiples(params, &curve, &p, 0, n, out, set)

		var order bigint.Int
		order.SetUint64(1)
		for i := 0; i < n; i++ {
			if !set[i] {
				continue
			}
			var q montgomery.Point
			e.MulSmall(&q, &out[i], params.Primes[i], &curve)
			if !e.IsInfinity(&q) {
				return false, nil
			}
			bigint.MulUint64(&order, &order, params.Primes[i])
			if bigint.Less(&bound, &order) {
				return true, nil
			}
		}
	}
	return false, fmt.Errorf("%w: validation inconclusive after %d points", csidh.ErrInternalInvariant, cfg.maxRounds)
}

// cofactorMultiples sets out[i] = [∏_{j≠i, lo≤j<hi} ℓⱼ]p for every i in
// [lo, hi) where that multiple is not infinity. p must already be free of
// the primes outside [lo, hi). The split halves the work at every level.
func cofactorMultiples(params *parameters.Params, c *montgomery.Curve, p *montgomery.Point, lo, hi int, out []montgomery.Point, set []bool) {
	e := params.Engine
	if e.IsInfinity(p) {
		return
	}
	if hi-lo == 1 {
		out[lo] = *p
		set[lo] = true
		return
	}
	mid := lo + (hi-lo+1)/2

	kl := params.Product(hi, func(i int) bool { return i >= mid })
	kr := params.Product(mid, func(i int) bool { return i >= lo })

	var left, right montgomery.Point
	e.Ladder(&left, p, &kl, c)
	cofactorMultiples(params, c, &left, lo, mid, out, set)
	e.Ladder(&right, p, &kr, c)
	cofactorMultiples(params, c, &right, mid, hi, out, set)
}
