package action

import (
	"fmt"

	"github.com/ComputerDreams/CSIDH-based-signature/internal/crypto/field"
	"github.com/ComputerDreams/CSIDH-based-signature/internal/crypto/montgomery"
	"github.com/ComputerDreams/CSIDH-based-signature/pkg/csidh"
)

// meyerReithWalk performs exactly Bᵢ steps for every prime whatever the
// key. A step computes both the real isogeny and the dummy multiplication
// by ℓᵢ and keeps one of them with a constant-time select. The sign of
// each exponent only drives a constant-time swap of the two points.
type meyerReithWalk struct{}

func (meyerReithWalk) model() montgomery.Model { return montgomery.EdwardsModel }

func (meyerReithWalk) run(s *state, key *csidh.PrivateKey) error {
	n := s.params.N()

	// remaining steps per prime, public
	steps := make([]int8, n)
	copy(steps, s.params.Bounds)

	// real steps and signs, secret
	owed := make([]uint64, n)
	sign := make([]uint64, n)
	for i, e := range key.Exponents {
		v := int64(e)
		neg := uint64(v) >> 63
		sign[i] = neg
		// |v| without branching
		m := v >> 63
		owed[i] = uint64((v ^ m) - m)
	}
	defer func() {
		for i := range owed {
			owed[i], sign[i] = 0, 0
		}
	}()

	for !allZero(steps) {
		if err := s.nextRound(); err != nil {
			return err
		}

		var pts [2]montgomery.Point
		if t, ok := s.takeTorsion(); ok {
			pts = *t
		} else if err := s.elligatorPair(&pts); err != nil {
			return err
		}

		k := s.params.Cofactor(n, func(i int) bool { return steps[i] == 0 })
		s.e.Ladder(&pts[0], &pts[0], &k, &s.curve)
		s.e.Ladder(&pts[1], &pts[1], &k, &s.curve)

		for i := n - 1; i >= 0; i-- {
			if steps[i] == 0 {
				continue
			}
			l := s.params.Primes[i]
			p, q := &pts[0], &pts[1]
			montgomery.Cswap(p, q, sign[i])

			cof := s.params.Product(i, func(j int) bool { return steps[j] != 0 })
			var kern montgomery.Point
			s.e.Ladder(&kern, p, &cof, &s.curve)

			if s.e.IsInfinity(&kern) {
				s.e.MulSmall(q, q, l, &s.curve)
				montgomery.Cswap(p, q, sign[i])
				continue
			}

			// real step
			next := s.curve
			pn, qn := *p, *q
			s.e.Isogeny(&next, &kern, s.params.Degrees[i], s.model, &pn, &qn)
			s.isogenies++

			// dummy step
			var pd montgomery.Point
			s.e.MulSmall(&pd, p, l, &s.curve)

			r := nonZero(owed[i])
			field.Cmov(&s.curve.A, &next.A, r)
			field.Cmov(&s.curve.C, &next.C, r)
			montgomery.Cmov(&pd, &pn, r)
			*p = pd
			montgomery.Cmov(q, &qn, r)
			s.e.MulSmall(q, q, l, &s.curve)

			owed[i] -= r
			steps[i]--
			montgomery.Cswap(p, q, sign[i])
		}
	}

	for i := range owed {
		if owed[i] != 0 {
			return fmt.Errorf("%w: %d real steps left for prime %d", csidh.ErrInternalInvariant, owed[i], s.params.Primes[i])
		}
	}
	return nil
}

// nonZero returns 1 if v != 0 and 0 otherwise.
func nonZero(v uint64) uint64 {
	return (v | -v) >> 63
}

// elligatorPair draws one value and derives a point on each side.
func (s *state) elligatorPair(pts *[2]montgomery.Point) error {
	a := s.affineA()
	var u field.Element
	for {
		if err := s.randomX(&u); err != nil {
			return err
		}
		ok, err := s.e.Elligator(&pts[0], &pts[1], &a, &u)
		if err != nil {
			return fmt.Errorf("%w: %v", csidh.ErrInternalInvariant, err)
		}
		if ok {
			return nil
		}
	}
}
