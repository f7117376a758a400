// Package curves provides the classical Diffie-Hellman groups that can be
// paired with CSIDH in a hybrid key exchange.
package curves

import (
	"crypto/rand"
	"errors"
	"fmt"
	"io"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
)

var (
	ErrInvalidPoint  = errors.New("curves: invalid point")
	ErrInvalidScalar = errors.New("curves: invalid scalar")
)

// DH is a group usable for non-interactive Diffie-Hellman.
type DH interface {
	// Name returns the name of the group.
	Name() string

	// PrivateKeySize and PublicKeySize are the encoded sizes in bytes.
	PrivateKeySize() int
	PublicKeySize() int

	// GenerateKey returns a random private key.
	GenerateKey(rng io.Reader) ([]byte, error)

	// PublicKey computes priv·G.
	PublicKey(priv []byte) ([]byte, error)

	// Exp computes priv·pub, encoded like a public key.
	Exp(priv, pub []byte) ([]byte, error)
}

// ByName returns the group with the given name.
func ByName(name string) (DH, error) {
	switch name {
	case "x25519", "X25519":
		return NewX25519(), nil
	case "secp256k1":
		return NewSecp256k1(), nil
	default:
		return nil, fmt.Errorf("curves: unknown group %q", name)
	}
}

type Secp256k1 struct{}

// NewSecp256k1 returns the secp256k1 group with compressed point encoding.
func NewSecp256k1() DH {
	return &Secp256k1{}
}

func (c *Secp256k1) Name() string { return "secp256k1" }

func (c *Secp256k1) PrivateKeySize() int { return secp256k1.PrivKeyBytesLen }

func (c *Secp256k1) PublicKeySize() int { return secp256k1.PubKeyBytesLenCompressed }

func (c *Secp256k1) GenerateKey(rng io.Reader) ([]byte, error) {
	if rng == nil {
		rng = rand.Reader
	}
	priv, err := secp256k1.GeneratePrivateKeyFromRand(rng)
	if err != nil {
		return nil, err
	}
	return priv.Serialize(), nil
}

func (c *Secp256k1) privateKey(b []byte) (*secp256k1.PrivateKey, error) {
	if len(b) != secp256k1.PrivKeyBytesLen {
		return nil, ErrInvalidScalar
	}
	priv := secp256k1.PrivKeyFromBytes(b)
	if priv.Key.IsZero() {
		return nil, ErrInvalidScalar
	}
	return priv, nil
}

func (c *Secp256k1) PublicKey(priv []byte) ([]byte, error) {
	k, err := c.privateKey(priv)
	if err != nil {
		return nil, err
	}
	return k.PubKey().SerializeCompressed(), nil
}

func (c *Secp256k1) Exp(priv, pub []byte) ([]byte, error) {
	k, err := c.privateKey(priv)
	if err != nil {
		return nil, err
	}
	pk, err := secp256k1.ParsePubKey(pub)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPoint, err)
	}

	var point, result secp256k1.JacobianPoint
	pk.AsJacobian(&point)
	secp256k1.ScalarMultNonConst(&k.Key, &point, &result)
	if (result.X.IsZero() && result.Y.IsZero()) || result.Z.IsZero() {
		return nil, ErrInvalidPoint
	}
	result.ToAffine()
	return secp256k1.NewPublicKey(&result.X, &result.Y).SerializeCompressed(), nil
}
