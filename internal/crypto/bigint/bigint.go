// Package bigint implements fixed-width 512-bit unsigned integers.
//
// Arithmetic runs in a fixed sequence of limb operations independent of the
// values involved. BitLen and the math/big bridge are the exceptions and are
// meant for public values only.
package bigint

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math/big"
	"math/bits"
)

const (
	// Limbs is the number of 64-bit words in an Int.
	Limbs = 8
	// Bits is the width of an Int.
	Bits = Limbs * 64
	// Size is the width of an Int in bytes.
	Size = Limbs * 8
)

// ErrOverflow is returned when a value does not fit in 512 bits.
var ErrOverflow = errors.New("bigint: value exceeds 512 bits")

// Int is a 512-bit unsigned integer, least significant limb first.
type Int [Limbs]uint64

// SetUint64 sets z = v.
func (z *Int) SetUint64(v uint64) *Int {
	*z = Int{}
	z[0] = v
	return z
}

// Add sets z = x + y mod 2^512 and returns the carry.
func Add(z, x, y *Int) uint64 {
	var c uint64
	for i := 0; i < Limbs; i++ {
		z[i], c = bits.Add64(x[i], y[i], c)
	}
	return c
}

// Sub sets z = x - y mod 2^512 and returns the borrow.
func Sub(z, x, y *Int) uint64 {
	var b uint64
	for i := 0; i < Limbs; i++ {
		z[i], b = bits.Sub64(x[i], y[i], b)
	}
	return b
}

// MulUint64 sets z = x * c mod 2^512 and returns the high word.
func MulUint64(z, x *Int, c uint64) uint64 {
	var carry uint64
	for i := 0; i < Limbs; i++ {
		hi, lo := bits.Mul64(x[i], c)
		var cc uint64
		z[i], cc = bits.Add64(lo, carry, 0)
		carry = hi + cc
	}
	return carry
}

// Less reports whether x < y.
func Less(x, y *Int) bool {
	var t Int
	return Sub(&t, x, y) == 1
}

// ConstantTimeEq returns 1 if x == y and 0 otherwise.
func ConstantTimeEq(x, y *Int) uint64 {
	var acc uint64
	for i := 0; i < Limbs; i++ {
		acc |= x[i] ^ y[i]
	}
	return isZeroWord(acc)
}

// Equal reports whether x == y.
func (x *Int) Equal(y *Int) bool {
	return ConstantTimeEq(x, y) == 1
}

// IsZero returns 1 if x == 0 and 0 otherwise.
func (x *Int) IsZero() uint64 {
	var acc uint64
	for i := 0; i < Limbs; i++ {
		acc |= x[i]
	}
	return isZeroWord(acc)
}

func isZeroWord(w uint64) uint64 {
	return 1 ^ ((w | -w) >> 63)
}

// Select sets z = x if b == 1 and z = y if b == 0.
func Select(z, x, y *Int, b uint64) {
	mask := -b
	for i := 0; i < Limbs; i++ {
		z[i] = y[i] ^ (mask & (x[i] ^ y[i]))
	}
}

// Swap exchanges x and y if b == 1.
func Swap(x, y *Int, b uint64) {
	mask := -b
	for i := 0; i < Limbs; i++ {
		t := mask & (x[i] ^ y[i])
		x[i] ^= t
		y[i] ^= t
	}
}

// Lsh sets z = x << n mod 2^512. The shift count is public.
func Lsh(z, x *Int, n uint) {
	if n >= Bits {
		*z = Int{}
		return
	}
	words, s := int(n/64), n%64
	var r Int
	for i := Limbs - 1; i >= words; i-- {
		r[i] = x[i-words] << s
		if s > 0 && i-words-1 >= 0 {
			r[i] |= x[i-words-1] >> (64 - s)
		}
	}
	*z = r
}

// Rsh sets z = x >> n. The shift count is public.
func Rsh(z, x *Int, n uint) {
	if n >= Bits {
		*z = Int{}
		return
	}
	words, s := int(n/64), n%64
	var r Int
	for i := 0; i+words < Limbs; i++ {
		r[i] = x[i+words] >> s
		if s > 0 && i+words+1 < Limbs {
			r[i] |= x[i+words+1] << (64 - s)
		}
	}
	*z = r
}

// Bit returns bit i of x.
func (x *Int) Bit(i int) uint64 {
	return (x[i/64] >> (uint(i) % 64)) & 1
}

// BitLen returns the length of x in bits. Variable time.
func (x *Int) BitLen() int {
	for i := Limbs - 1; i >= 0; i-- {
		if x[i] != 0 {
			return i*64 + bits.Len64(x[i])
		}
	}
	return 0
}

// SetBytesLE sets z from a 64-byte little-endian buffer.
func (z *Int) SetBytesLE(b []byte) error {
	if len(b) != Size {
		return fmt.Errorf("bigint: expected %d bytes, got %d", Size, len(b))
	}
	for i := 0; i < Limbs; i++ {
		z[i] = binary.LittleEndian.Uint64(b[8*i:])
	}
	return nil
}

// BytesLE returns the 64-byte little-endian encoding of x.
func (x *Int) BytesLE() []byte {
	b := make([]byte, Size)
	for i := 0; i < Limbs; i++ {
		binary.LittleEndian.PutUint64(b[8*i:], x[i])
	}
	return b
}

// SetBytesBE sets z from a 64-byte big-endian buffer.
func (z *Int) SetBytesBE(b []byte) error {
	if len(b) != Size {
		return fmt.Errorf("bigint: expected %d bytes, got %d", Size, len(b))
	}
	for i := 0; i < Limbs; i++ {
		z[i] = binary.BigEndian.Uint64(b[Size-8*(i+1):])
	}
	return nil
}

// BytesBE returns the 64-byte big-endian encoding of x.
func (x *Int) BytesBE() []byte {
	b := make([]byte, Size)
	for i := 0; i < Limbs; i++ {
		binary.BigEndian.PutUint64(b[Size-8*(i+1):], x[i])
	}
	return b
}

// SetBig sets z from a non-negative big.Int.
func (z *Int) SetBig(v *big.Int) error {
	if v.Sign() < 0 || v.BitLen() > Bits {
		return ErrOverflow
	}
	buf := make([]byte, Size)
	v.FillBytes(buf)
	return z.SetBytesBE(buf)
}

// Big returns x as a big.Int.
func (x *Int) Big() *big.Int {
	return new(big.Int).SetBytes(x.BytesBE())
}

// String formats x as hexadecimal.
func (x *Int) String() string {
	return fmt.Sprintf("%#x", x.Big())
}
