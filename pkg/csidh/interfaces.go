package csidh

import (
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"strings"
)

// PublicKeySize is the size of an encoded curve coefficient.
// Every parameter set shares the 512-bit field width.
const PublicKeySize = 64

// PublicKey is the Montgomery coefficient A of a supersingular curve
// y^2 = x^3 + A x^2 + x, stored as canonical little-endian bytes.
type PublicKey [PublicKeySize]byte

// Equal compares two keys in constant time.
func (k *PublicKey) Equal(other *PublicKey) bool {
	return subtle.ConstantTimeCompare(k[:], other[:]) == 1
}

// Bytes returns a copy of the encoding.
func (k *PublicKey) Bytes() []byte {
	b := make([]byte, PublicKeySize)
	copy(b, k[:])
	return b
}

// SetBytes copies a 64-byte encoding into k. Canonicity is checked by the
// field layer when the key is used.
func (k *PublicKey) SetBytes(b []byte) error {
	if len(b) != PublicKeySize {
		return fmt.Errorf("%w: public key must be %d bytes, got %d", ErrInvalidCurve, PublicKeySize, len(b))
	}
	copy(k[:], b)
	return nil
}

// String prints A as a big-endian hex number.
func (k PublicKey) String() string {
	var be [PublicKeySize]byte
	for i := range k {
		be[PublicKeySize-1-i] = k[i]
	}
	return "0x" + hex.EncodeToString(be[:])
}

// ParsePublicKey reads the big-endian hex form printed by String. The
// 0x prefix and leading zeros are optional.
func ParsePublicKey(s string) (PublicKey, error) {
	var k PublicKey
	s = strings.TrimPrefix(strings.TrimSpace(s), "0x")
	if len(s)%2 == 1 {
		s = "0" + s
	}
	be, err := hex.DecodeString(s)
	if err != nil {
		return k, fmt.Errorf("%w: %v", ErrInvalidCurve, err)
	}
	if len(be) > PublicKeySize {
		return k, fmt.Errorf("%w: %d bytes", ErrInvalidCurve, len(be))
	}
	for i, b := range be {
		k[len(be)-1-i] = b
	}
	return k, nil
}

// PrivateKey is a vector of isogeny exponents, one per small prime.
// The sign selects the direction of the walk: positive exponents use
// points on the curve, negative ones points on its quadratic twist.
type PrivateKey struct {
	Exponents []int8
}

// Bytes encodes the key as one two's-complement byte per prime.
func (k *PrivateKey) Bytes() []byte {
	b := make([]byte, len(k.Exponents))
	for i, e := range k.Exponents {
		b[i] = byte(e)
	}
	return b
}

// SetBytes decodes the one-byte-per-prime layout. Bounds are checked
// against a parameter set by keygen.FromBytes.
func (k *PrivateKey) SetBytes(b []byte) {
	k.Exponents = make([]int8, len(b))
	for i, v := range b {
		k.Exponents[i] = int8(v)
	}
}

// Reset overwrites the exponents with zeros.
func (k *PrivateKey) Reset() {
	for i := range k.Exponents {
		k.Exponents[i] = 0
	}
}

// Variant selects the strategy used to evaluate the class group action.
// All variants compute the same curve for the same inputs.
type Variant int

const (
	// Original is the straightforward one-point-per-round walk.
	Original Variant = iota
	// XWing keeps one point on the curve and one on the twist per round.
	XWing
	// XWingTorsion is XWing starting from precomputed full-order torsion points.
	XWingTorsion
	// MeyerReith takes the same number of steps for every key, using dummy isogenies.
	MeyerReith
	// MeyerReithTorsion is MeyerReith starting from precomputed torsion points.
	MeyerReithTorsion
)

// Variants lists every supported strategy.
var Variants = []Variant{Original, XWing, XWingTorsion, MeyerReith, MeyerReithTorsion}

var variantNames = map[Variant]string{
	Original:          "original",
	XWing:             "x-wing",
	XWingTorsion:      "x-wing-torsion",
	MeyerReith:        "meyer-reith",
	MeyerReithTorsion: "meyer-reith-torsion",
}

func (v Variant) String() string {
	if s, ok := variantNames[v]; ok {
		return s
	}
	return fmt.Sprintf("variant(%d)", int(v))
}

// UsesTorsion reports whether the variant starts from the torsion basis.
func (v Variant) UsesTorsion() bool {
	return v == XWingTorsion || v == MeyerReithTorsion
}

// ParseVariant maps a name such as "x-wing" to its Variant.
func ParseVariant(name string) (Variant, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for v, s := range variantNames {
		if s == name {
			return v, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownVariant, name)
}
