// Package hybrid combines two NIKE schemes, typically CSIDH with a
// classical group, so a shared secret survives the break of either.
package hybrid

import (
	"encoding/base64"
	"errors"
	"io"

	"github.com/katzenpost/hpqc/nike"

	"github.com/ComputerDreams/CSIDH-based-signature/internal/crypto/kdf"
)

var (
	ErrKeySize  = errors.New("hybrid: wrong key size")
	errWrongKey = errors.New("hybrid: key belongs to a different scheme")
)

var _ nike.PrivateKey = (*privateKey)(nil)
var _ nike.PublicKey = (*publicKey)(nil)
var _ nike.Scheme = (*Scheme)(nil)

type publicKey struct {
	scheme *Scheme
	first  nike.PublicKey
	second nike.PublicKey
}

type privateKey struct {
	scheme *Scheme
	first  nike.PrivateKey
	second nike.PrivateKey
}

type Scheme struct {
	name   string
	first  nike.Scheme
	second nike.Scheme
}

// New returns the composition of first and second. When name is empty
// it is derived from the component names.
func New(name string, first, second nike.Scheme) *Scheme {
	if name == "" {
		name = first.Name() + "-" + second.Name()
	}
	return &Scheme{
		name:   name,
		first:  first,
		second: second,
	}
}

func (s *Scheme) First() nike.Scheme {
	return s.first
}

func (s *Scheme) Second() nike.Scheme {
	return s.second
}

func (s *Scheme) Name() string {
	return s.name
}

func (s *Scheme) PublicKeySize() int {
	return s.first.PublicKeySize() + s.second.PublicKeySize()
}

func (s *Scheme) PrivateKeySize() int {
	return s.first.PrivateKeySize() + s.second.PrivateKeySize()
}

func (s *Scheme) GeneratePrivateKey(rng io.Reader) nike.PrivateKey {
	return &privateKey{
		scheme: s,
		first:  s.first.GeneratePrivateKey(rng),
		second: s.second.GeneratePrivateKey(rng),
	}
}

func (s *Scheme) GenerateKeyPairFromEntropy(rng io.Reader) (nike.PublicKey, nike.PrivateKey, error) {
	pub1, priv1, err := s.first.GenerateKeyPairFromEntropy(rng)
	if err != nil {
		return nil, nil, err
	}
	pub2, priv2, err := s.second.GenerateKeyPairFromEntropy(rng)
	if err != nil {
		priv1.Reset()
		return nil, nil, err
	}
	return &publicKey{scheme: s, first: pub1, second: pub2},
		&privateKey{scheme: s, first: priv1, second: priv2}, nil
}

func (s *Scheme) GenerateKeyPair() (nike.PublicKey, nike.PrivateKey, error) {
	pub1, priv1, err := s.first.GenerateKeyPair()
	if err != nil {
		return nil, nil, err
	}
	pub2, priv2, err := s.second.GenerateKeyPair()
	if err != nil {
		priv1.Reset()
		return nil, nil, err
	}
	return &publicKey{scheme: s, first: pub1, second: pub2},
		&privateKey{scheme: s, first: priv1, second: priv2}, nil
}

// DeriveSecret hashes both component secrets under the scheme name. It
// returns nil if either component rejects the peer key.
func (s *Scheme) DeriveSecret(privKey nike.PrivateKey, pubKey nike.PublicKey) []byte {
	priv, ok := privKey.(*privateKey)
	if !ok {
		return nil
	}
	pub, ok := pubKey.(*publicKey)
	if !ok {
		return nil
	}
	ss1 := s.first.DeriveSecret(priv.first, pub.first)
	ss2 := s.second.DeriveSecret(priv.second, pub.second)
	if ss1 == nil || ss2 == nil {
		return nil
	}
	return kdf.Combine(s.name, ss1, ss2)
}

func (s *Scheme) DerivePublicKey(privKey nike.PrivateKey) nike.PublicKey {
	priv := privKey.(*privateKey)
	return &publicKey{
		scheme: s,
		first:  s.first.DerivePublicKey(priv.first),
		second: s.second.DerivePublicKey(priv.second),
	}
}

func (s *Scheme) Blind(groupMember nike.PublicKey, blindingFactor nike.PrivateKey) nike.PublicKey {
	return &publicKey{
		scheme: s,
		first:  s.first.Blind(groupMember.(*publicKey).first, blindingFactor.(*privateKey).first),
		second: s.second.Blind(groupMember.(*publicKey).second, blindingFactor.(*privateKey).second),
	}
}

func (s *Scheme) NewEmptyPublicKey() nike.PublicKey {
	return &publicKey{
		scheme: s,
		first:  s.first.NewEmptyPublicKey(),
		second: s.second.NewEmptyPublicKey(),
	}
}

func (s *Scheme) NewEmptyPrivateKey() nike.PrivateKey {
	return &privateKey{
		scheme: s,
		first:  s.first.NewEmptyPrivateKey(),
		second: s.second.NewEmptyPrivateKey(),
	}
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

func (p *privateKey) Public() nike.PublicKey {
	return p.scheme.DerivePublicKey(p)
}

func (p *privateKey) Reset() {
	p.first.Reset()
	p.second.Reset()
}

func (p *privateKey) Bytes() []byte {
	return kdf.Concat(p.first.Bytes(), p.second.Bytes())
}

func (p *privateKey) FromBytes(b []byte) error {
	if len(b) != p.scheme.PrivateKeySize() {
		return ErrKeySize
	}
	n := p.scheme.first.PrivateKeySize()
	if err := p.first.FromBytes(b[:n]); err != nil {
		return err
	}
	return p.second.FromBytes(b[n:])
}

func (p *privateKey) MarshalBinary() ([]byte, error) {
	return p.Bytes(), nil
}

func (p *privateKey) UnmarshalBinary(data []byte) error {
	return p.FromBytes(data)
}

func (p *privateKey) MarshalText() ([]byte, error) {
	return []byte(base64.StdEncoding.EncodeToString(p.Bytes())), nil
}

func (p *privateKey) UnmarshalText(data []byte) error {
	raw, err := base64.StdEncoding.DecodeString(string(data))
	if err != nil {
		return err
	}
	return p.FromBytes(raw)
}

func (p *publicKey) Blind(blindingFactor nike.PrivateKey) error {
	b, ok := blindingFactor.(*privateKey)
	if !ok {
		return errWrongKey
	}
	if err := p.first.Blind(b.first); err != nil {
		p.Reset()
		return err
	}
	if err := p.second.Blind(b.second); err != nil {
		p.Reset()
		return err
	}
	return nil
}

func (p *publicKey) Reset() {
	p.first.Reset()
	p.second.Reset()
}

func (p *publicKey) Bytes() []byte {
	return kdf.Concat(p.first.Bytes(), p.second.Bytes())
}

func (p *publicKey) FromBytes(b []byte) error {
	if len(b) != p.scheme.PublicKeySize() {
		return ErrKeySize
	}
	n := p.scheme.first.PublicKeySize()
	if err := p.first.FromBytes(b[:n]); err != nil {
		return err
	}
	return p.second.FromBytes(b[n:])
}

func (p *publicKey) MarshalBinary() ([]byte, error) {
	return p.Bytes(), nil
}

func (p *publicKey) UnmarshalBinary(data []byte) error {
	return p.FromBytes(data)
}

func (p *publicKey) MarshalText() ([]byte, error) {
	return []byte(base64.StdEncoding.EncodeToString(p.Bytes())), nil
}

func (p *publicKey) UnmarshalText(data []byte) error {
	raw, err := base64.StdEncoding.DecodeString(string(data))
	if err != nil {
		return err
	}
	return p.FromBytes(raw)
}
