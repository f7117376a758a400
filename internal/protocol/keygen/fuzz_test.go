package keygen

import (
	"bytes"
	"errors"
	"testing"

	"github.com/ComputerDreams/CSIDH-based-signature/internal/parameters"
	"github.com/ComputerDreams/CSIDH-based-signature/pkg/csidh"
)

func FuzzFromBytes(f *testing.F) {
	f.Add([]byte("short"))
	f.Add(make([]byte, 9))
	f.Add([]byte{3, 0xfd, 0, 1, 2, 0xff, 0xfe, 0, 3})
	f.Add(bytes.Repeat([]byte{4}, 9))

	params := parameters.Toy()
	f.Fuzz(func(t *testing.T, data []byte) {
		key, err := FromBytes(params, data)

		valid := len(data) == params.N()
		for _, b := range data {
			if e := int8(b); e > 3 || e < -3 {
				valid = false
			}
		}

		if !valid {
			if !errors.Is(err, csidh.ErrInvalidPrivateKey) {
				t.Fatalf("accepted invalid key %x (err %v)", data, err)
			}
			return
		}
		if err != nil {
			t.Fatalf("rejected valid key %x: %v", data, err)
		}
		if !bytes.Equal(key.Bytes(), data) {
			t.Fatalf("round trip %x != %x", key.Bytes(), data)
		}
	})
}
