package action

import (
	"github.com/ComputerDreams/CSIDH-based-signature/internal/crypto/bigint"
	"github.com/ComputerDreams/CSIDH-based-signature/internal/crypto/field"
	"github.com/ComputerDreams/CSIDH-based-signature/internal/crypto/montgomery"
	"github.com/ComputerDreams/CSIDH-based-signature/pkg/csidh"
)

// originalWalk samples one point per round. Its side of the curve decides
// which exponent signs the round serves; every prime still owed a step in
// that direction is handled with a single scalar multiplication chain.
type originalWalk struct{}

func (originalWalk) model() montgomery.Model { return montgomery.MontgomeryModel }

func (originalWalk) run(s *state, key *csidh.PrivateKey) error {
	n := s.params.N()

	// side 0: positive exponents, points on the curve
	// side 1: negative exponents, points on the twist
	var todo [2][]int8
	todo[0] = make([]int8, n)
	todo[1] = make([]int8, n)
	for i, e := range key.Exponents {
		switch {
		case e > 0:
			todo[0][i] = e
		case e < 0:
			todo[1][i] = -e
		}
	}

	// k[side] removes every prime that the side will not act with
	var k [2]bigint.Int
	for side := 0; side < 2; side++ {
		k[side] = s.params.Cofactor(n, func(i int) bool { return todo[side][i] == 0 })
	}

	done := [2]bool{allZero(todo[0]), allZero(todo[1])}
	var x field.Element
	for !(done[0] && done[1]) {
		if err := s.nextRound(); err != nil {
			return err
		}
		a := s.affineA()
		if err := s.randomX(&x); err != nil {
			return err
		}
		side := 1 - int(s.e.OnCurve(&a, &x))
		if done[side] {
			continue
		}

		var p montgomery.Point
		s.e.SetX(&p, &x)
		s.e.Ladder(&p, &p, &k[side], &s.curve)

		done[side] = true
		for i := n - 1; i >= 0; i-- {
			if todo[side][i] == 0 {
				continue
			}
			cof := s.params.Product(i, func(j int) bool { return todo[side][j] != 0 })
			var kern montgomery.Point
			s.e.Ladder(&kern, &p, &cof, &s.curve)
			if !s.e.IsInfinity(&kern) {
				s.isogeny(&kern, i, &p)
				todo[side][i]--
				if todo[side][i] == 0 {
					bigint.MulUint64(&k[side], &k[side], s.params.Primes[i])
				}
			}
			done[side] = done[side] && todo[side][i] == 0
		}
	}
	return nil
}

func allZero(v []int8) bool {
	for _, e := range v {
		if e != 0 {
			return false
		}
	}
	return true
}
