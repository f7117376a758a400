package action

import (
	"github.com/ComputerDreams/CSIDH-based-signature/internal/crypto/field"
	"github.com/ComputerDreams/CSIDH-based-signature/internal/crypto/montgomery"
	"github.com/ComputerDreams/CSIDH-based-signature/pkg/csidh"
)

// xwingWalk keeps one point on the curve and one on the twist, so a round
// serves positive and negative exponents at once. Every isogeny pushes
// both points. On the base curve the torsion variants skip sampling in the
// first round.
type xwingWalk struct{}

func (xwingWalk) model() montgomery.Model { return montgomery.MontgomeryModel }

func (xwingWalk) run(s *state, key *csidh.PrivateKey) error {
	n := s.params.N()
	todo := make([]int8, n)
	side := make([]int, n)
	for i, e := range key.Exponents {
		if e < 0 {
			todo[i], side[i] = -e, 1
		} else {
			todo[i] = e
		}
	}
	active := func(i, sd int) bool { return todo[i] != 0 && side[i] == sd }

	for !allZero(todo) {
		if err := s.nextRound(); err != nil {
			return err
		}

		var pts [2]montgomery.Point
		if t, ok := s.takeTorsion(); ok {
			pts = *t
		} else {
			var need [2]bool
			for i := range todo {
				need[side[i]] = need[side[i]] || todo[i] != 0
			}
			if err := s.samplePair(&pts, need); err != nil {
				return err
			}
		}

		for sd := 0; sd < 2; sd++ {
			k := s.params.Cofactor(n, func(i int) bool { return !active(i, sd) })
			s.e.Ladder(&pts[sd], &pts[sd], &k, &s.curve)
		}

		for i := n - 1; i >= 0; i-- {
			if todo[i] == 0 {
				continue
			}
			sd := side[i]
			cof := s.params.Product(i, func(j int) bool { return active(j, sd) })
			var kern montgomery.Point
			s.e.Ladder(&kern, &pts[sd], &cof, &s.curve)
			if s.e.IsInfinity(&kern) {
				continue
			}
			s.isogeny(&kern, i, &pts[0], &pts[1])
			todo[i]--
		}
	}
	return nil
}

// samplePair draws x-coordinates until every needed side has a point.
// A side that is not needed gets the point at infinity.
func (s *state) samplePair(pts *[2]montgomery.Point, need [2]bool) error {
	a := s.affineA()
	var have [2]bool
	var x field.Element
	for (need[0] && !have[0]) || (need[1] && !have[1]) {
		if err := s.randomX(&x); err != nil {
			return err
		}
		sd := 1 - int(s.e.OnCurve(&a, &x))
		if !have[sd] {
			s.e.SetX(&pts[sd], &x)
			have[sd] = true
		}
	}
	for sd := 0; sd < 2; sd++ {
		if !have[sd] {
			s.e.Infinity(&pts[sd])
		}
	}
	return nil
}
