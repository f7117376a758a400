package parameters

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ComputerDreams/CSIDH-based-signature/pkg/csidh"
)

func TestPresets(t *testing.T) {
	p := CSIDH512()
	assert.Equal(t, 74, p.N())
	assert.Equal(t, 511, p.P.BitLen())
	assert.Equal(t, "65b48e8f740f89bffc8ab0d15e3e4c4ab42d083aedc88c425afbfcc69322c9cda7aac6c567f35507516730cc1f0b4f25c2721bf457aca8351b81b90533c6c87b", p.P.Text(16))
	assert.Equal(t, int8(5), p.MaxBound())
	assert.Equal(t, uint64(587), p.Primes[73])
	assert.Same(t, p, CSIDH512())

	assert.Equal(t, int64(19185986819), Toy().P.Int64())
	assert.Equal(t, int64(419), Tiny().P.Int64())
	assert.Equal(t, int8(2), Tiny().MaxBound())

	for _, name := range []string{"csidh-512", "toy", "tiny"} {
		q, err := ByName(name)
		require.NoError(t, err)
		assert.Equal(t, name, q.Name)
		require.NotNil(t, q.Torsion)
	}
	_, err := ByName("sike")
	assert.ErrorIs(t, err, ErrInvalidParameters)
}

func TestNewRejects(t *testing.T) {
	_, err := New("x", []uint64{3, 5}, []int8{1})
	assert.ErrorIs(t, err, ErrInvalidParameters)
	_, err = New("x", []uint64{5, 3}, []int8{1, 1})
	assert.ErrorIs(t, err, ErrInvalidParameters)
	_, err = New("x", []uint64{3, 9}, []int8{1, 1})
	assert.ErrorIs(t, err, ErrInvalidParameters)
	_, err = New("x", []uint64{3, 5}, []int8{1, -1})
	assert.ErrorIs(t, err, ErrInvalidParameters)
	// 4·3·5·7·11 - 1 = 4619 = 31·149 is not prime
	_, err = New("x", []uint64{3, 5, 7, 11}, []int8{1, 1, 1, 1})
	assert.ErrorIs(t, err, ErrInvalidParameters)
}

func TestCofactor(t *testing.T) {
	p := Tiny()
	all := p.Cofactor(p.N(), func(int) bool { return true })
	assert.Equal(t, uint64(420), all[0])
	some := p.Cofactor(p.N(), func(i int) bool { return i != 1 })
	assert.Equal(t, uint64(84), some[0])
	prefix := p.Product(2, func(int) bool { return true })
	assert.Equal(t, uint64(15), prefix[0])
}

func TestCheckPrivateKey(t *testing.T) {
	p := Tiny()
	assert.NoError(t, p.CheckPrivateKey(&csidh.PrivateKey{Exponents: []int8{-2, 0, 2}}))
	assert.ErrorIs(t, p.CheckPrivateKey(&csidh.PrivateKey{Exponents: []int8{-3, 0, 2}}), csidh.ErrInvalidPrivateKey)
	assert.ErrorIs(t, p.CheckPrivateKey(&csidh.PrivateKey{Exponents: []int8{0, 0}}), csidh.ErrInvalidPrivateKey)
	assert.ErrorIs(t, p.CheckPrivateKey(nil), csidh.ErrInvalidPrivateKey)
}

func TestCurveEncoding(t *testing.T) {
	p := Tiny()
	var pk csidh.PublicKey
	pk[0] = 174
	c, err := p.Curve(&pk)
	require.NoError(t, err)
	back := p.PublicKey(&c)
	assert.True(t, pk.Equal(&back))

	assert.True(t, p.IsBaseCurve(&csidh.PublicKey{}))
	assert.False(t, p.IsBaseCurve(&pk))

	// 419 itself is not canonical
	var bad csidh.PublicKey
	bad[0], bad[1] = 0xa3, 0x01
	_, err = p.Curve(&bad)
	assert.ErrorIs(t, err, csidh.ErrInvalidCurve)
}

func TestTorsionEncoding(t *testing.T) {
	p := Toy()
	data, err := p.Torsion.Marshal()
	require.NoError(t, err)

	parsed, err := ParseTorsion(data)
	require.NoError(t, err)
	assert.Equal(t, p.Torsion, parsed)

	plus, minus, err := parsed.Points(p)
	require.NoError(t, err)
	var sum = plus.X
	p.Field.Add(&sum, &plus.X, &minus.X)
	assert.Equal(t, uint64(1), p.Field.IsZero(&sum))

	_, _, err = parsed.Points(Tiny())
	assert.ErrorIs(t, err, ErrInvalidParameters)

	_, err = ParseTorsion([]byte{0xff, 0x00})
	assert.Error(t, err)

	short, err := (&Torsion{Params: "toy", Plus: []byte{1}, Minus: []byte{2}}).Marshal()
	require.NoError(t, err)
	_, err = ParseTorsion(short)
	assert.ErrorIs(t, err, ErrInvalidParameters)
}

func TestWithTorsion(t *testing.T) {
	p := Tiny()
	q := p.WithTorsion(nil)
	assert.Nil(t, q.Torsion)
	assert.NotNil(t, p.Torsion)
	assert.Equal(t, p.P, q.P)
}
