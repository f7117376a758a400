package bigint

import (
	"math/big"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var mod512 = new(big.Int).Lsh(big.NewInt(1), Bits)

func randInt(r *rand.Rand) (*Int, *big.Int) {
	var x Int
	for i := range x {
		x[i] = r.Uint64()
	}
	return &x, x.Big()
}

func TestAddSub(t *testing.T) {
	r := rand.New(rand.NewSource(1))
	for i := 0; i < 200; i++ {
		x, bx := randInt(r)
		y, by := randInt(r)

		var s Int
		c := Add(&s, x, y)
		want := new(big.Int).Add(bx, by)
		assert.Equal(t, want.Rsh(want, Bits).Uint64(), c)
		assert.Equal(t, 0, new(big.Int).Mod(new(big.Int).Add(bx, by), mod512).Cmp(s.Big()))

		var d Int
		b := Sub(&d, x, y)
		assert.Equal(t, bx.Cmp(by) < 0, b == 1)
		assert.Equal(t, bx.Cmp(by) < 0, Less(x, y))
		diff := new(big.Int).Sub(bx, by)
		assert.Equal(t, 0, diff.Mod(diff, mod512).Cmp(d.Big()))
	}
}

func TestMulUint64(t *testing.T) {
	r := rand.New(rand.NewSource(2))
	for i := 0; i < 100; i++ {
		x, bx := randInt(r)
		c := r.Uint64()
		var z Int
		hi := MulUint64(&z, x, c)
		prod := new(big.Int).Mul(bx, new(big.Int).SetUint64(c))
		got := new(big.Int).Lsh(new(big.Int).SetUint64(hi), Bits)
		got.Add(got, z.Big())
		assert.Equal(t, 0, prod.Cmp(got))
	}
}

func TestShifts(t *testing.T) {
	r := rand.New(rand.NewSource(3))
	x, bx := randInt(r)
	for _, n := range []uint{0, 1, 63, 64, 65, 127, 200, 511, 512, 600} {
		var l, rr Int
		Lsh(&l, x, n)
		Rsh(&rr, x, n)
		wantL := new(big.Int).Lsh(bx, n)
		wantL.Mod(wantL, mod512)
		assert.Equal(t, 0, wantL.Cmp(l.Big()), "lsh %d", n)
		assert.Equal(t, 0, new(big.Int).Rsh(bx, n).Cmp(rr.Big()), "rsh %d", n)
	}
}

func TestSelectSwapEqual(t *testing.T) {
	r := rand.New(rand.NewSource(4))
	x, _ := randInt(r)
	y, _ := randInt(r)
	x0, y0 := *x, *y

	var z Int
	Select(&z, x, y, 1)
	assert.Equal(t, *x, z)
	Select(&z, x, y, 0)
	assert.Equal(t, *y, z)

	Swap(x, y, 0)
	assert.Equal(t, x0, *x)
	Swap(x, y, 1)
	assert.Equal(t, y0, *x)
	assert.Equal(t, x0, *y)

	assert.True(t, x.Equal(&y0))
	assert.False(t, x.Equal(&x0))
	assert.Equal(t, uint64(1), new(Int).IsZero())
	assert.Equal(t, uint64(0), new(Int).SetUint64(5).IsZero())
}

func TestBits(t *testing.T) {
	x := new(Int).SetUint64(0b1011)
	assert.Equal(t, 4, x.BitLen())
	assert.Equal(t, uint64(1), x.Bit(0))
	assert.Equal(t, uint64(0), x.Bit(2))
	assert.Equal(t, 0, new(Int).BitLen())

	var top Int
	top[Limbs-1] = 1 << 63
	assert.Equal(t, Bits, top.BitLen())
	assert.Equal(t, uint64(1), top.Bit(Bits-1))
}

func TestBytes(t *testing.T) {
	r := rand.New(rand.NewSource(5))
	x, bx := randInt(r)

	var y Int
	require.NoError(t, y.SetBytesLE(x.BytesLE()))
	assert.Equal(t, *x, y)
	require.NoError(t, y.SetBytesBE(x.BytesBE()))
	assert.Equal(t, *x, y)
	assert.Equal(t, bx.Bytes(), new(big.Int).SetBytes(x.BytesBE()).Bytes())

	le := x.BytesLE()
	be := x.BytesBE()
	for i := range le {
		assert.Equal(t, le[i], be[Size-1-i])
	}

	assert.Error(t, y.SetBytesLE(make([]byte, 10)))
	assert.Error(t, y.SetBytesBE(make([]byte, 65)))
}

func TestBig(t *testing.T) {
	v, ok := new(big.Int).SetString("65b48e8f740f89bffc8ab0d15e3e4c4ab42d083aedc88c425afbfcc69322c9cda7aac6c567f35507516730cc1f0b4f25c2721bf457aca8351b81b90533c6c87b", 16)
	require.True(t, ok)
	var x Int
	require.NoError(t, x.SetBig(v))
	assert.Equal(t, 0, v.Cmp(x.Big()))
	assert.Equal(t, 511, x.BitLen())
	assert.Equal(t, uint64(0x1b81b90533c6c87b), x[0])

	assert.ErrorIs(t, x.SetBig(mod512), ErrOverflow)
	assert.ErrorIs(t, x.SetBig(big.NewInt(-1)), ErrOverflow)
}
