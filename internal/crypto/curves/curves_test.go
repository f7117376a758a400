package curves

import (
	"bytes"
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/curve25519"
)

func TestDiffieHellman(t *testing.T) {
	for _, name := range []string{"x25519", "secp256k1"} {
		g, err := ByName(name)
		require.NoError(t, err)
		assert.Equal(t, name, g.Name())

		a, err := g.GenerateKey(nil)
		require.NoError(t, err)
		assert.Len(t, a, g.PrivateKeySize())
		b, err := g.GenerateKey(nil)
		require.NoError(t, err)

		pa, err := g.PublicKey(a)
		require.NoError(t, err)
		assert.Len(t, pa, g.PublicKeySize())
		pb, err := g.PublicKey(b)
		require.NoError(t, err)

		sa, err := g.Exp(a, pb)
		require.NoError(t, err)
		sb, err := g.Exp(b, pa)
		require.NoError(t, err)
		assert.Equal(t, sa, sb, name)
	}

	_, err := ByName("p256")
	assert.Error(t, err)
}

func TestX25519MatchesRFC7748(t *testing.T) {
	g := NewX25519()
	for i := byte(1); i < 10; i++ {
		a := bytes.Repeat([]byte{i}, 32)
		b := bytes.Repeat([]byte{i + 100}, 32)

		pa, err := g.PublicKey(a)
		require.NoError(t, err)
		want, err := curve25519.X25519(a, curve25519.Basepoint)
		require.NoError(t, err)
		assert.Equal(t, want, pa)

		pb, err := curve25519.X25519(b, curve25519.Basepoint)
		require.NoError(t, err)
		got, err := g.Exp(a, pb)
		require.NoError(t, err)
		want, err = curve25519.X25519(a, pb)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
}

func TestX25519RFC7748Vector(t *testing.T) {
	// RFC 7748 section 6.1
	alice := mustHex(t, "77076d0a7318a57d3c16c17251b26645df4c2f87ebc0992ab177fba51db92c2a")
	bobPub := mustHex(t, "de9edb7d7b7dc1b4d35b61c2ece435373f8343c85b78674dadfc7e146f882b4f")
	shared := mustHex(t, "4a5d9d5ba4ce2de1728e3bf480350f25e07e21c947d19e3376f09b3c1e161742")

	got, err := NewX25519().Exp(alice, bobPub)
	require.NoError(t, err)
	assert.Equal(t, shared, got)
}

func TestInvalidInputs(t *testing.T) {
	x := NewX25519()
	_, err := x.PublicKey(make([]byte, 31))
	assert.ErrorIs(t, err, ErrInvalidScalar)
	_, err = x.Exp(make([]byte, 32), make([]byte, 5))
	assert.ErrorIs(t, err, ErrInvalidPoint)

	k := NewSecp256k1()
	_, err = k.PublicKey(make([]byte, 32))
	assert.ErrorIs(t, err, ErrInvalidScalar)
	priv, err := k.GenerateKey(nil)
	require.NoError(t, err)
	// x is above the field prime
	_, err = k.Exp(priv, append([]byte{2}, bytes.Repeat([]byte{0xff}, 32)...))
	assert.ErrorIs(t, err, ErrInvalidPoint)
	_, err = k.Exp(priv, bytes.Repeat([]byte{2}, 5))
	assert.ErrorIs(t, err, ErrInvalidPoint)

	// low-order u gives an all-zero secret
	_, err = x.Exp(bytes.Repeat([]byte{7}, 32), make([]byte, 32))
	assert.ErrorIs(t, err, ErrInvalidPoint)
}

func TestX25519AcceptsTwist(t *testing.T) {
	g := NewX25519()
	priv := bytes.Repeat([]byte{7}, 32)
	// u = 2, 3 and 5 are on the twist, u = 4 on the curve
	for _, u := range []byte{2, 3, 4, 5} {
		pub := make([]byte, 32)
		pub[0] = u
		got, err := g.Exp(priv, pub)
		require.NoError(t, err, "u=%d", u)
		want, err := curve25519.X25519(priv, pub)
		require.NoError(t, err)
		assert.Equal(t, want, got, "u=%d", u)
	}
}

func mustHex(t *testing.T, s string) []byte {
	b, err := hex.DecodeString(s)
	require.NoError(t, err)
	return b
}
