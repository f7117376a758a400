// Package action evaluates the CSIDH class group action: given a curve and
// an exponent vector (e₁..eₙ) it walks |eᵢ| steps of ℓᵢ-isogenies in the
// direction given by the sign of eᵢ and returns the final curve.
package action

import (
	"crypto/rand"
	"fmt"
	"io"

	"github.com/rs/zerolog"

	"github.com/ComputerDreams/CSIDH-based-signature/internal/crypto/field"
	"github.com/ComputerDreams/CSIDH-based-signature/internal/crypto/montgomery"
	"github.com/ComputerDreams/CSIDH-based-signature/internal/parameters"
	"github.com/ComputerDreams/CSIDH-based-signature/pkg/csidh"
)

// DefaultMaxRounds bounds the number of sampling rounds of one evaluation.
// A valid curve finishes in a few dozen rounds.
const DefaultMaxRounds = 10000

type config struct {
	rng       io.Reader
	log       zerolog.Logger
	maxRounds int
	model     *montgomery.Model
}

// Option configures an evaluation.
type Option func(*config)

// WithRand sets the randomness used for point sampling.
func WithRand(r io.Reader) Option {
	return func(c *config) { c.rng = r }
}

// WithLogger sets the logger. Only public counters are logged.
func WithLogger(l zerolog.Logger) Option {
	return func(c *config) { c.log = l }
}

// WithMaxRounds overrides DefaultMaxRounds.
func WithMaxRounds(n int) Option {
	return func(c *config) { c.maxRounds = n }
}

// WithModel forces the codomain formula instead of the variant's default.
func WithModel(m montgomery.Model) Option {
	return func(c *config) { c.model = &m }
}

func newConfig(opts []Option) config {
	c := config{
		rng:       rand.Reader,
		log:       zerolog.Nop(),
		maxRounds: DefaultMaxRounds,
	}
	for _, o := range opts {
		o(&c)
	}
	return c
}

// strategy is one way of walking the isogeny graph.
type strategy interface {
	run(s *state, key *csidh.PrivateKey) error
	model() montgomery.Model
}

var strategies = map[csidh.Variant]strategy{
	csidh.Original:          originalWalk{},
	csidh.XWing:             xwingWalk{},
	csidh.XWingTorsion:      xwingWalk{},
	csidh.MeyerReith:        meyerReithWalk{},
	csidh.MeyerReithTorsion: meyerReithWalk{},
}

// state is the working data of one evaluation.
type state struct {
	params *parameters.Params
	e      *montgomery.Engine
	f      *field.Field
	cfg    config
	model  montgomery.Model

	curve montgomery.Curve

	// torsion holds the base-curve points for the first round, if usable.
	torsion *[2]montgomery.Point

	round     int
	draws     int
	isogenies int
}

// Evaluate applies key to the curve pk using the chosen variant. Curves
// other than the base curve are checked for supersingularity first.
func Evaluate(params *parameters.Params, variant csidh.Variant, pk *csidh.PublicKey, key *csidh.PrivateKey, opts ...Option) (csidh.PublicKey, error) {
	cfg := newConfig(opts)
	strat, ok := strategies[variant]
	if !ok {
		return csidh.PublicKey{}, fmt.Errorf("%w: %v", csidh.ErrUnknownVariant, variant)
	}
	if err := params.CheckPrivateKey(key); err != nil {
		return csidh.PublicKey{}, err
	}

	curve, err := params.Curve(pk)
	if err != nil {
		return csidh.PublicKey{}, csidh.NewActionError(variant, 0, err)
	}
	base := params.IsBaseCurve(pk)
	if !base {
		valid, err := validate(params, &curve, cfg)
		if err != nil {
			return csidh.PublicKey{}, csidh.NewActionError(variant, 0, err)
		}
		if !valid {
			return csidh.PublicKey{}, csidh.NewActionError(variant, 0, csidh.ErrInvalidCurve)
		}
	}

	s := &state{
		params: params,
		e:      params.Engine,
		f:      params.Field,
		cfg:    cfg,
		model:  strat.model(),
		curve:  curve,
	}
	if cfg.model != nil {
		s.model = *cfg.model
	}
	if variant.UsesTorsion() && base && params.Torsion != nil {
		plus, minus, err := params.Torsion.Points(params)
		if err != nil {
			return csidh.PublicKey{}, csidh.NewActionError(variant, 0, err)
		}
		s.torsion = &[2]montgomery.Point{plus, minus}
	}

	if err := strat.run(s, key); err != nil {
		return csidh.PublicKey{}, csidh.NewActionError(variant, s.round, err)
	}

	cfg.log.Debug().
		Str("params", params.Name).
		Str("variant", variant.String()).
		Int("rounds", s.round).
		Int("draws", s.draws).
		Int("isogenies", s.isogenies).
		Msg("group action evaluated")

	return params.PublicKey(&s.curve), nil
}

// nextRound starts a sampling round and enforces the round limit.
func (s *state) nextRound() error {
	s.round++
	if s.round > s.cfg.maxRounds {
		return fmt.Errorf("%w: no result after %d rounds", csidh.ErrInternalInvariant, s.cfg.maxRounds)
	}
	return nil
}

// takeTorsion returns the torsion points once, on the first round.
func (s *state) takeTorsion() (*[2]montgomery.Point, bool) {
	t := s.torsion
	s.torsion = nil
	return t, t != nil
}

// randomX draws a uniform field element.
func (s *state) randomX(x *field.Element) error {
	s.draws++
	if err := s.f.Random(x, s.cfg.rng); err != nil {
		return fmt.Errorf("%w: %v", csidh.ErrRandomnessUnavailable, err)
	}
	return nil
}

// affineA normalizes the working curve and returns its coefficient.
func (s *state) affineA() field.Element {
	s.e.Normalize(&s.curve)
	return s.curve.A
}

func (s *state) isogeny(k *montgomery.Point, i int, pts ...*montgomery.Point) {
	s.e.Isogeny(&s.curve, k, s.params.Degrees[i], s.model, pts...)
	s.isogenies++
}
