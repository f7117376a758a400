package csidh

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseVariant(t *testing.T) {
	for _, v := range Variants {
		got, err := ParseVariant(v.String())
		require.NoError(t, err)
		assert.Equal(t, v, got)
	}

	got, err := ParseVariant("  X-Wing ")
	require.NoError(t, err)
	assert.Equal(t, XWing, got)

	_, err = ParseVariant("sidh")
	assert.ErrorIs(t, err, ErrUnknownVariant)
	assert.Equal(t, "variant(42)", Variant(42).String())
}

func TestUsesTorsion(t *testing.T) {
	assert.False(t, Original.UsesTorsion())
	assert.False(t, XWing.UsesTorsion())
	assert.True(t, XWingTorsion.UsesTorsion())
	assert.False(t, MeyerReith.UsesTorsion())
	assert.True(t, MeyerReithTorsion.UsesTorsion())
}

func TestPublicKeyEncoding(t *testing.T) {
	var k PublicKey
	k[0] = 0x7b
	k[63] = 0x65
	s := k.String()
	assert.Equal(t, 130, len(s))
	assert.Equal(t, "0x65", s[:4])
	assert.Equal(t, "7b", s[len(s)-2:])

	var k2 PublicKey
	require.NoError(t, k2.SetBytes(k.Bytes()))
	assert.True(t, k.Equal(&k2))
	k2[10] ^= 1
	assert.False(t, k.Equal(&k2))

	err := k2.SetBytes(make([]byte, 63))
	assert.ErrorIs(t, err, ErrInvalidCurve)
}

func TestParsePublicKey(t *testing.T) {
	var k PublicKey
	k[0] = 0x7b
	k[63] = 0x65
	got, err := ParsePublicKey(k.String())
	require.NoError(t, err)
	assert.Equal(t, k, got)

	got, err = ParsePublicKey("0x15e")
	require.NoError(t, err)
	assert.Equal(t, byte(0x5e), got[0])
	assert.Equal(t, byte(0x01), got[1])

	_, err = ParsePublicKey("0xzz")
	assert.ErrorIs(t, err, ErrInvalidCurve)
	_, err = ParsePublicKey("0x" + strings.Repeat("00", 65))
	assert.ErrorIs(t, err, ErrInvalidCurve)
}

func TestPrivateKeyEncoding(t *testing.T) {
	k := &PrivateKey{Exponents: []int8{-5, 0, 3, -1, 5}}
	b := k.Bytes()
	assert.Equal(t, []byte{0xfb, 0x00, 0x03, 0xff, 0x05}, b)

	var k2 PrivateKey
	k2.SetBytes(b)
	assert.Equal(t, k.Exponents, k2.Exponents)

	k2.Reset()
	assert.Equal(t, []int8{0, 0, 0, 0, 0}, k2.Exponents)
}

func TestActionError(t *testing.T) {
	err := NewActionError(MeyerReith, 3, ErrInternalInvariant)
	assert.True(t, errors.Is(err, ErrInternalInvariant))
	assert.Contains(t, err.Error(), "meyer-reith")
	assert.Contains(t, err.Error(), "round 3")

	var ae *ActionError
	wrapped := errors.Join(errors.New("outer"), err)
	require.True(t, errors.As(wrapped, &ae))
	assert.Equal(t, MeyerReith, ae.Variant)

	plain := NewActionError(Original, 0, ErrInvalidCurve)
	assert.NotContains(t, plain.Error(), "round")
}
