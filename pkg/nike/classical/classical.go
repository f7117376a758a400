// Package classical wraps the groups in internal/crypto/curves as
// hpqc NIKE schemes so they can be combined with CSIDH.
package classical

import (
	"encoding/base64"
	"errors"
	"io"

	"github.com/katzenpost/hpqc/nike"
	"github.com/katzenpost/hpqc/rand"
	"github.com/katzenpost/hpqc/util"

	"github.com/ComputerDreams/CSIDH-based-signature/internal/crypto/curves"
)

var errWrongScheme = errors.New("classical: key belongs to a different scheme")

var _ nike.PrivateKey = (*PrivateKey)(nil)
var _ nike.PublicKey = (*PublicKey)(nil)
var _ nike.Scheme = (*Scheme)(nil)

type Scheme struct {
	group curves.DH
}

// NewScheme returns a NIKE over group.
func NewScheme(group curves.DH) *Scheme {
	return &Scheme{group: group}
}

// ByName looks up a group by name, see curves.ByName.
func ByName(name string) (*Scheme, error) {
	g, err := curves.ByName(name)
	if err != nil {
		return nil, err
	}
	return NewScheme(g), nil
}

func (s *Scheme) Name() string        { return s.group.Name() }
func (s *Scheme) PublicKeySize() int  { return s.group.PublicKeySize() }
func (s *Scheme) PrivateKeySize() int { return s.group.PrivateKeySize() }

func (s *Scheme) GeneratePrivateKey(rng io.Reader) nike.PrivateKey {
	b, err := s.group.GenerateKey(rng)
	if err != nil {
		panic(err)
	}
	return &PrivateKey{scheme: s, key: b}
}

func (s *Scheme) GenerateKeyPairFromEntropy(rng io.Reader) (nike.PublicKey, nike.PrivateKey, error) {
	b, err := s.group.GenerateKey(rng)
	if err != nil {
		return nil, nil, err
	}
	pub, err := s.group.PublicKey(b)
	if err != nil {
		return nil, nil, err
	}
	return &PublicKey{scheme: s, key: pub}, &PrivateKey{scheme: s, key: b}, nil
}

func (s *Scheme) GenerateKeyPair() (nike.PublicKey, nike.PrivateKey, error) {
	return s.GenerateKeyPairFromEntropy(rand.Reader)
}

// DeriveSecret returns nil for an invalid peer key.
func (s *Scheme) DeriveSecret(privKey nike.PrivateKey, pubKey nike.PublicKey) []byte {
	out, err := s.group.Exp(privKey.(*PrivateKey).key, pubKey.(*PublicKey).key)
	if err != nil {
		return nil
	}
	return out
}

func (s *Scheme) DerivePublicKey(privKey nike.PrivateKey) nike.PublicKey {
	pub, err := s.group.PublicKey(privKey.(*PrivateKey).key)
	if err != nil {
		panic(err)
	}
	return &PublicKey{scheme: s, key: pub}
}

func (s *Scheme) Blind(groupMember nike.PublicKey, blindingFactor nike.PrivateKey) nike.PublicKey {
	pub := &PublicKey{scheme: s, key: append([]byte(nil), groupMember.(*PublicKey).key...)}
	if err := pub.Blind(blindingFactor); err != nil {
		panic(err)
	}
	return pub
}

func (s *Scheme) NewEmptyPublicKey() nike.PublicKey {
	return &PublicKey{scheme: s, key: make([]byte, s.PublicKeySize())}
}

func (s *Scheme) NewEmptyPrivateKey() nike.PrivateKey {
	return &PrivateKey{scheme: s, key: make([]byte, s.PrivateKeySize())}
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

type PublicKey struct {
	scheme *Scheme
	key    []byte
}

func (p *PublicKey) Blind(blindingFactor nike.PrivateKey) error {
	priv, ok := blindingFactor.(*PrivateKey)
	if !ok {
		return errWrongScheme
	}
	out, err := p.scheme.group.Exp(priv.key, p.key)
	if err != nil {
		return err
	}
	p.key = out
	return nil
}

func (p *PublicKey) Reset()        { util.ExplicitBzero(p.key) }
func (p *PublicKey) Bytes() []byte { return append([]byte(nil), p.key...) }

func (p *PublicKey) FromBytes(data []byte) error {
	if len(data) != p.scheme.PublicKeySize() {
		return curves.ErrInvalidPoint
	}
	p.key = append(p.key[:0], data...)
	return nil
}

func (p *PublicKey) MarshalBinary() ([]byte, error) { return p.Bytes(), nil }
func (p *PublicKey) UnmarshalBinary(data []byte) error {
	return p.FromBytes(data)
}

func (p *PublicKey) MarshalText() ([]byte, error) {
	return []byte(base64.StdEncoding.EncodeToString(p.key)), nil
}

func (p *PublicKey) UnmarshalText(data []byte) error {
	raw, err := base64.StdEncoding.DecodeString(string(data))
	if err != nil {
		return err
	}
	return p.FromBytes(raw)
}

type PrivateKey struct {
	scheme *Scheme
	key    []byte
}

func (p *PrivateKey) Public() nike.PublicKey {
	return p.scheme.DerivePublicKey(p)
}

func (p *PrivateKey) Reset()        { util.ExplicitBzero(p.key) }
func (p *PrivateKey) Bytes() []byte { return append([]byte(nil), p.key...) }

func (p *PrivateKey) FromBytes(data []byte) error {
	if len(data) != p.scheme.PrivateKeySize() {
		return curves.ErrInvalidScalar
	}
	if _, err := p.scheme.group.PublicKey(data); err != nil {
		return err
	}
	p.key = append(p.key[:0], data...)
	return nil
}

func (p *PrivateKey) MarshalBinary() ([]byte, error) { return p.Bytes(), nil }
func (p *PrivateKey) UnmarshalBinary(data []byte) error {
	return p.FromBytes(data)
}

func (p *PrivateKey) MarshalText() ([]byte, error) {
	return []byte(base64.StdEncoding.EncodeToString(p.key)), nil
}

func (p *PrivateKey) UnmarshalText(data []byte) error {
	raw, err := base64.StdEncoding.DecodeString(string(data))
	if err != nil {
		return err
	}
	return p.FromBytes(raw)
}
