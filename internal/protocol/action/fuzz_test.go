package action

import (
	"encoding/binary"
	"errors"
	"testing"

	"github.com/ComputerDreams/CSIDH-based-signature/internal/parameters"
	"github.com/ComputerDreams/CSIDH-based-signature/pkg/csidh"
)

// FuzzEvaluateTiny feeds arbitrary curve encodings to every variant. A
// result is only produced for supersingular inputs and is itself
// supersingular.
func FuzzEvaluateTiny(f *testing.F) {
	f.Add(uint16(0), byte(0))
	f.Add(uint16(158), byte(1))
	f.Add(uint16(5), byte(2))
	f.Add(uint16(419), byte(3))
	f.Add(uint16(417), byte(4))

	params := parameters.Tiny()
	key := &csidh.PrivateKey{Exponents: []int8{1, -2, 2}}

	f.Fuzz(func(t *testing.T, a uint16, v byte) {
		variant := csidh.Variants[int(v)%len(csidh.Variants)]
		var pk csidh.PublicKey
		binary.LittleEndian.PutUint16(pk[:], a)

		out, err := Evaluate(params, variant, &pk, key)
		if !orbit419[uint64(a)] {
			if !errors.Is(err, csidh.ErrInvalidCurve) {
				t.Fatalf("A=%d %s: want ErrInvalidCurve, got %v", a, variant, err)
			}
			return
		}
		if err != nil {
			t.Fatalf("A=%d %s: %v", a, variant, err)
		}
		got := binary.LittleEndian.Uint64(out[:8])
		if !orbit419[got] {
			t.Fatalf("A=%d %s: result %d outside the orbit", a, variant, got)
		}
	})
}
