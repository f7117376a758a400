package curves

import (
	"crypto/rand"
	"io"

	"filippo.io/edwards25519"
	"golang.org/x/crypto/curve25519"
)

// X25519 is the RFC 7748 function. Public keys come from the fixed-base
// multiplication on the birationally equivalent Edwards curve.
type X25519 struct{}

// NewX25519 returns the X25519 group.
func NewX25519() DH {
	return &X25519{}
}

func (c *X25519) Name() string { return "x25519" }

func (c *X25519) PrivateKeySize() int { return 32 }

func (c *X25519) PublicKeySize() int { return 32 }

func (c *X25519) GenerateKey(rng io.Reader) ([]byte, error) {
	if rng == nil {
		rng = rand.Reader
	}
	priv := make([]byte, 32)
	if _, err := io.ReadFull(rng, priv); err != nil {
		return nil, err
	}
	return priv, nil
}

func (c *X25519) scalar(priv []byte) (*edwards25519.Scalar, error) {
	s, err := edwards25519.NewScalar().SetBytesWithClamping(priv)
	if err != nil {
		return nil, ErrInvalidScalar
	}
	return s, nil
}

func (c *X25519) PublicKey(priv []byte) ([]byte, error) {
	s, err := c.scalar(priv)
	if err != nil {
		return nil, err
	}
	return new(edwards25519.Point).ScalarBaseMult(s).BytesMontgomery(), nil
}

// Exp is RFC 7748 X25519. Every u-coordinate is accepted, twist points
// included; only an all-zero result is rejected.
func (c *X25519) Exp(priv, pub []byte) ([]byte, error) {
	if len(priv) != 32 {
		return nil, ErrInvalidScalar
	}
	if len(pub) != 32 {
		return nil, ErrInvalidPoint
	}
	out, err := curve25519.X25519(priv, pub)
	if err != nil {
		return nil, ErrInvalidPoint
	}
	return out, nil
}
