package keygen

import (
	"crypto/rand"
	"fmt"
	"io"
	"math/bits"

	"github.com/ComputerDreams/CSIDH-based-signature/internal/parameters"
	"github.com/ComputerDreams/CSIDH-based-signature/pkg/csidh"
)

// Generate samples a private key with every exponent uniform in
// [-Bᵢ, Bᵢ]. A nil rng means crypto/rand. If the reader fails no key is
// returned.
func Generate(params *parameters.Params, rng io.Reader) (*csidh.PrivateKey, error) {
	if rng == nil {
		rng = rand.Reader
	}

	key := &csidh.PrivateKey{Exponents: make([]int8, params.N())}
	buf := make([]byte, params.N())
	pos := len(buf)

	for i, b := range params.Bounds {
		if b == 0 {
			continue
		}
		n := 2*uint(b) + 1
		mask := byte(1<<bits.Len(n-1) - 1)
		for {
			if pos == len(buf) {
				if _, err := io.ReadFull(rng, buf); err != nil {
					key.Reset()
					return nil, fmt.Errorf("%w: %v", csidh.ErrRandomnessUnavailable, err)
				}
				pos = 0
			}
			v := buf[pos] & mask
			pos++
			if uint(v) < n {
				key.Exponents[i] = int8(int(v) - int(b))
				break
			}
		}
	}
	return key, nil
}

// FromBytes decodes and checks a one-byte-per-prime private key.
func FromBytes(params *parameters.Params, data []byte) (*csidh.PrivateKey, error) {
	key := &csidh.PrivateKey{}
	key.SetBytes(data)
	if err := params.CheckPrivateKey(key); err != nil {
		key.Reset()
		return nil, err
	}
	return key, nil
}
