// Package csidhnike exposes the CSIDH group action through the hpqc
// nike.Scheme interface.
package csidhnike

import (
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/katzenpost/hpqc/nike"
	"github.com/katzenpost/hpqc/rand"
	"github.com/katzenpost/hpqc/util"

	"github.com/ComputerDreams/CSIDH-based-signature/internal/parameters"
	"github.com/ComputerDreams/CSIDH-based-signature/internal/protocol/action"
	"github.com/ComputerDreams/CSIDH-based-signature/internal/protocol/keygen"
	"github.com/ComputerDreams/CSIDH-based-signature/pkg/csidh"
)

var errWrongScheme = errors.New("csidhnike: key belongs to a different scheme")

var _ nike.PrivateKey = (*PrivateKey)(nil)
var _ nike.PublicKey = (*PublicKey)(nil)
var _ nike.Scheme = (*Scheme)(nil)

// Scheme is a CSIDH NIKE for one parameter set and evaluation variant.
type Scheme struct {
	params  *parameters.Params
	variant csidh.Variant
	opts    []action.Option
}

// NewScheme returns a scheme. opts are passed to every evaluation.
func NewScheme(params *parameters.Params, variant csidh.Variant, opts ...action.Option) *Scheme {
	return &Scheme{
		params:  params,
		variant: variant,
		opts:    opts,
	}
}

var csidh512 = sync.OnceValue(func() *Scheme {
	return NewScheme(parameters.CSIDH512(), csidh.MeyerReith)
})

// CSIDH512 returns the standard parameter set evaluated with the
// constant-time-shaped Meyer-Reith strategy.
func CSIDH512() *Scheme { return csidh512() }

// Params returns the parameter set.
func (s *Scheme) Params() *parameters.Params { return s.params }

// Variant returns the evaluation strategy.
func (s *Scheme) Variant() csidh.Variant { return s.variant }

func (s *Scheme) Name() string {
	return fmt.Sprintf("%s-%s", s.params.Name, s.variant)
}

func (s *Scheme) PublicKeySize() int {
	return csidh.PublicKeySize
}

func (s *Scheme) PrivateKeySize() int {
	return s.params.N()
}

func (s *Scheme) NewEmptyPublicKey() nike.PublicKey {
	return &PublicKey{scheme: s, key: s.params.BaseCurve}
}

func (s *Scheme) NewEmptyPrivateKey() nike.PrivateKey {
	return &PrivateKey{scheme: s, key: csidh.PrivateKey{Exponents: make([]int8, s.params.N())}}
}

// GeneratePrivateKey panics if rng fails.
func (s *Scheme) GeneratePrivateKey(rng io.Reader) nike.PrivateKey {
	k, err := keygen.Generate(s.params, rng)
	if err != nil {
		panic(err)
	}
	return &PrivateKey{scheme: s, key: *k}
}

func (s *Scheme) GenerateKeyPairFromEntropy(rng io.Reader) (nike.PublicKey, nike.PrivateKey, error) {
	k, err := keygen.Generate(s.params, rng)
	if err != nil {
		return nil, nil, err
	}
	priv := &PrivateKey{scheme: s, key: *k}
	pub, err := s.derivePublicKey(priv)
	if err != nil {
		priv.Reset()
		return nil, nil, err
	}
	return pub, priv, nil
}

func (s *Scheme) GenerateKeyPair() (nike.PublicKey, nike.PrivateKey, error) {
	return s.GenerateKeyPairFromEntropy(rand.Reader)
}

func (s *Scheme) evaluate(pk *csidh.PublicKey, key *csidh.PrivateKey) (csidh.PublicKey, error) {
	return action.Evaluate(s.params, s.variant, pk, key, s.opts...)
}

func (s *Scheme) derivePublicKey(priv *PrivateKey) (*PublicKey, error) {
	out, err := s.evaluate(&s.params.BaseCurve, &priv.key)
	if err != nil {
		return nil, err
	}
	return &PublicKey{scheme: s, key: out}, nil
}

// DeriveSecretChecked applies privKey to pubKey and reports invalid peer
// curves as errors.
func (s *Scheme) DeriveSecretChecked(privKey nike.PrivateKey, pubKey nike.PublicKey) ([]byte, error) {
	priv, ok := privKey.(*PrivateKey)
	if !ok {
		return nil, errWrongScheme
	}
	pub, ok := pubKey.(*PublicKey)
	if !ok {
		return nil, errWrongScheme
	}
	out, err := s.evaluate(&pub.key, &priv.key)
	if err != nil {
		return nil, err
	}
	return out.Bytes(), nil
}

// DeriveSecret returns nil when the peer key is not a valid curve. Use
// DeriveSecretChecked to get the reason.
func (s *Scheme) DeriveSecret(privKey nike.PrivateKey, pubKey nike.PublicKey) []byte {
	secret, err := s.DeriveSecretChecked(privKey, pubKey)
	if err != nil {
		return nil
	}
	return secret
}

func (s *Scheme) DerivePublicKey(privKey nike.PrivateKey) nike.PublicKey {
	pub, err := s.derivePublicKey(privKey.(*PrivateKey))
	if err != nil {
		panic(err)
	}
	return pub
}

// Blind applies the blinding key to the group member, which is the same
// operation as DeriveSecret. It panics on an invalid curve.
func (s *Scheme) Blind(groupMember nike.PublicKey, blindingFactor nike.PrivateKey) nike.PublicKey {
	pub := &PublicKey{scheme: s, key: groupMember.(*PublicKey).key}
	if err := pub.Blind(blindingFactor); err != nil {
		panic(err)
	}
	return pub
}

func (s *Scheme) UnmarshalBinaryPublicKey(b []byte) (nike.PublicKey, error) {
	pub := s.NewEmptyPublicKey()
	if err := pub.FromBytes(b); err != nil {
		return nil, err
	}
	return pub, nil
}

func (s *Scheme) UnmarshalBinaryPrivateKey(b []byte) (nike.PrivateKey, error) {
	priv := s.NewEmptyPrivateKey()
	if err := priv.FromBytes(b); err != nil {
		return nil, err
	}
	return priv, nil
}

// PublicKey is a curve coefficient.
type PublicKey struct {
	scheme *Scheme
	key    csidh.PublicKey
}

// Curve returns the underlying public key.
func (p *PublicKey) Curve() csidh.PublicKey {
	return p.key
}

func (p *PublicKey) Blind(blindingFactor nike.PrivateKey) error {
	priv, ok := blindingFactor.(*PrivateKey)
	if !ok {
		return errWrongScheme
	}
	out, err := p.scheme.evaluate(&p.key, &priv.key)
	if err != nil {
		return err
	}
	p.key = out
	return nil
}

func (p *PublicKey) Reset() {
	util.ExplicitBzero(p.key[:])
}

func (p *PublicKey) Bytes() []byte {
	return p.key.Bytes()
}

// FromBytes accepts canonical encodings. Supersingularity is checked
// when the key is used.
func (p *PublicKey) FromBytes(data []byte) error {
	var k csidh.PublicKey
	if err := k.SetBytes(data); err != nil {
		return err
	}
	if _, err := p.scheme.params.Curve(&k); err != nil {
		return err
	}
	p.key = k
	return nil
}

func (p *PublicKey) MarshalBinary() ([]byte, error) {
	return p.Bytes(), nil
}

func (p *PublicKey) UnmarshalBinary(data []byte) error {
	return p.FromBytes(data)
}

func (p *PublicKey) MarshalText() ([]byte, error) {
	return []byte(base64.StdEncoding.EncodeToString(p.Bytes())), nil
}

func (p *PublicKey) UnmarshalText(data []byte) error {
	raw, err := base64.StdEncoding.DecodeString(string(data))
	if err != nil {
		return err
	}
	return p.FromBytes(raw)
}

// PrivateKey is an exponent vector.
type PrivateKey struct {
	scheme *Scheme
	key    csidh.PrivateKey
}

func (p *PrivateKey) Public() nike.PublicKey {
	return p.scheme.DerivePublicKey(p)
}

func (p *PrivateKey) Reset() {
	p.key.Reset()
}

func (p *PrivateKey) Bytes() []byte {
	return p.key.Bytes()
}

func (p *PrivateKey) FromBytes(data []byte) error {
	k, err := keygen.FromBytes(p.scheme.params, data)
	if err != nil {
		return err
	}
	p.key = *k
	return nil
}

func (p *PrivateKey) MarshalBinary() ([]byte, error) {
	return p.Bytes(), nil
}

func (p *PrivateKey) UnmarshalBinary(data []byte) error {
	return p.FromBytes(data)
}

func (p *PrivateKey) MarshalText() ([]byte, error) {
	return []byte(base64.StdEncoding.EncodeToString(p.Bytes())), nil
}

func (p *PrivateKey) UnmarshalText(data []byte) error {
	raw, err := base64.StdEncoding.DecodeString(string(data))
	if err != nil {
		return err
	}
	return p.FromBytes(raw)
}
