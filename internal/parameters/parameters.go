// Package parameters defines CSIDH parameter sets: the small primes ℓᵢ,
// the exponent bounds, the field p = 4·∏ℓᵢ - 1 and the base curve.
package parameters

import (
	"errors"
	"fmt"
	"math/big"
	"sync"

	"github.com/ComputerDreams/CSIDH-based-signature/internal/crypto/bigint"
	"github.com/ComputerDreams/CSIDH-based-signature/internal/crypto/field"
	"github.com/ComputerDreams/CSIDH-based-signature/internal/crypto/montgomery"
	"github.com/ComputerDreams/CSIDH-based-signature/pkg/csidh"
)

// ErrInvalidParameters is returned for malformed parameter sets and
// torsion data.
var ErrInvalidParameters = errors.New("parameters: invalid parameter set")

// Params is an immutable parameter set shared by every evaluation.
type Params struct {
	Name    string
	Primes  []uint64
	Bounds  []int8
	Degrees []montgomery.Degree

	P      *big.Int
	Field  *field.Field
	Engine *montgomery.Engine

	// BaseCurve is the starting curve, y² = x³ + x for every preset.
	BaseCurve csidh.PublicKey
	// Torsion optionally holds full-order points on the base curve and
	// its twist.
	Torsion *Torsion
}

// New builds a parameter set from strictly increasing odd primes and
// per-prime exponent bounds.
func New(name string, primes []uint64, bounds []int8) (*Params, error) {
	if len(primes) == 0 || len(primes) != len(bounds) {
		return nil, fmt.Errorf("%w: %d primes, %d bounds", ErrInvalidParameters, len(primes), len(bounds))
	}

	prod := big.NewInt(4)
	degrees := make([]montgomery.Degree, len(primes))
	for i, l := range primes {
		if i > 0 && l <= primes[i-1] {
			return nil, fmt.Errorf("%w: primes must be strictly increasing", ErrInvalidParameters)
		}
		if !new(big.Int).SetUint64(l).ProbablyPrime(20) {
			return nil, fmt.Errorf("%w: %d is not prime", ErrInvalidParameters, l)
		}
		if bounds[i] < 0 {
			return nil, fmt.Errorf("%w: negative bound for %d", ErrInvalidParameters, l)
		}
		d, err := montgomery.NewDegree(l)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidParameters, err)
		}
		degrees[i] = d
		prod.Mul(prod, new(big.Int).SetUint64(l))
	}
	p := prod.Sub(prod, big.NewInt(1))

	f, err := field.New(p)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidParameters, err)
	}

	return &Params{
		Name:    name,
		Primes:  append([]uint64(nil), primes...),
		Bounds:  append([]int8(nil), bounds...),
		Degrees: degrees,
		P:       p,
		Field:   f,
		Engine:  montgomery.New(f),
	}, nil
}

// N returns the number of small primes.
func (p *Params) N() int {
	return len(p.Primes)
}

// MaxBound returns the largest exponent bound.
func (p *Params) MaxBound() int8 {
	var m int8
	for _, b := range p.Bounds {
		if b > m {
			m = b
		}
	}
	return m
}

// Cofactor returns 4·∏ℓᵢ over the indices i < limit for which
// include(i) holds.
func (p *Params) Cofactor(limit int, include func(i int) bool) bigint.Int {
	var k bigint.Int
	k.SetUint64(4)
	for i := 0; i < limit; i++ {
		if include(i) {
			bigint.MulUint64(&k, &k, p.Primes[i])
		}
	}
	return k
}

// Product returns ∏ℓᵢ over the indices i < limit for which include(i) holds.
func (p *Params) Product(limit int, include func(i int) bool) bigint.Int {
	var k bigint.Int
	k.SetUint64(1)
	for i := 0; i < limit; i++ {
		if include(i) {
			bigint.MulUint64(&k, &k, p.Primes[i])
		}
	}
	return k
}

// Curve decodes a public key into a curve (A:1). Non-canonical encodings
// are rejected with csidh.ErrInvalidCurve.
func (p *Params) Curve(pk *csidh.PublicKey) (montgomery.Curve, error) {
	var a field.Element
	if err := p.Field.Decode(&a, pk[:]); err != nil {
		return montgomery.Curve{}, fmt.Errorf("%w: %v", csidh.ErrInvalidCurve, err)
	}
	var c montgomery.Curve
	p.Engine.SetA(&c, &a)
	return c, nil
}

// PublicKey encodes the affine coefficient of c.
func (p *Params) PublicKey(c *montgomery.Curve) csidh.PublicKey {
	a := p.Engine.Affine(c)
	var pk csidh.PublicKey
	copy(pk[:], p.Field.Encode(&a))
	return pk
}

// IsBaseCurve reports whether pk is the base curve.
func (p *Params) IsBaseCurve(pk *csidh.PublicKey) bool {
	return pk.Equal(&p.BaseCurve)
}

// CheckPrivateKey verifies the key length and exponent bounds.
func (p *Params) CheckPrivateKey(k *csidh.PrivateKey) error {
	if k == nil || len(k.Exponents) != p.N() {
		return fmt.Errorf("%w: expected %d exponents", csidh.ErrInvalidPrivateKey, p.N())
	}
	for i, e := range k.Exponents {
		if e > p.Bounds[i] || e < -p.Bounds[i] {
			return fmt.Errorf("%w: exponent %d for prime %d outside [-%d, %d]",
				csidh.ErrInvalidPrivateKey, e, p.Primes[i], p.Bounds[i], p.Bounds[i])
		}
	}
	return nil
}

var primes512 = []uint64{
	3, 5, 7, 11, 13, 17, 19, 23, 29, 31, 37, 41, 43, 47, 53, 59, 61, 67, 71, 73,
	79, 83, 89, 97, 101, 103, 107, 109, 113, 127, 131, 137, 139, 149, 151, 157,
	163, 167, 173, 179, 181, 191, 193, 197, 199, 211, 223, 227, 229, 233, 239,
	241, 251, 257, 263, 269, 271, 277, 281, 283, 293, 307, 311, 313, 317, 331,
	337, 347, 349, 353, 359, 367, 373, 587,
}

func uniform(n int, b int8) []int8 {
	bounds := make([]int8, n)
	for i := range bounds {
		bounds[i] = b
	}
	return bounds
}

func mustPreset(name string, primes []uint64, bound int8, torsionX uint64) *Params {
	p, err := New(name, primes, uniform(len(primes), bound))
	if err != nil {
		panic(err)
	}
	p.Torsion = TorsionFromX(p, torsionX)
	return p
}

var (
	csidh512 = sync.OnceValue(func() *Params {
		return mustPreset("csidh-512", primes512, 5, 12)
	})
	toy = sync.OnceValue(func() *Params {
		return mustPreset("toy", []uint64{3, 5, 7, 11, 13, 17, 19, 23, 43}, 3, 4)
	})
	tiny = sync.OnceValue(func() *Params {
		return mustPreset("tiny", []uint64{3, 5, 7}, 2, 10)
	})
)

// CSIDH512 returns the standard 74-prime parameter set with bound 5.
func CSIDH512() *Params { return csidh512() }

// Toy returns a 35-bit parameter set for fast tests.
func Toy() *Params { return toy() }

// Tiny returns the p = 419 parameter set.
func Tiny() *Params { return tiny() }

// ByName looks up a preset.
func ByName(name string) (*Params, error) {
	switch name {
	case "csidh-512", "csidh512", "":
		return CSIDH512(), nil
	case "toy":
		return Toy(), nil
	case "tiny":
		return Tiny(), nil
	default:
		return nil, fmt.Errorf("%w: unknown preset %q", ErrInvalidParameters, name)
	}
}

// WithTorsion returns a copy of p using t as its torsion data.
func (p *Params) WithTorsion(t *Torsion) *Params {
	c := *p
	c.Torsion = t
	return &c
}
