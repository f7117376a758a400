package benchmark

import (
	"context"
	"fmt"
	"testing"

	"github.com/katzenpost/hpqc/rand"

	"github.com/ComputerDreams/CSIDH-based-signature/internal/crypto/field"
	"github.com/ComputerDreams/CSIDH-based-signature/internal/parameters"
	"github.com/ComputerDreams/CSIDH-based-signature/internal/protocol/action"
	"github.com/ComputerDreams/CSIDH-based-signature/internal/protocol/keygen"
	"github.com/ComputerDreams/CSIDH-based-signature/pkg/csidh"
)

// setupKey returns a random key and the matching public key.
func setupKey(b *testing.B, params *parameters.Params) (*csidh.PrivateKey, csidh.PublicKey) {
	b.Helper()
	key, err := keygen.Generate(params, rand.Reader)
	if err != nil {
		b.Fatal(err)
	}
	pub, err := action.Evaluate(params, csidh.Original, &params.BaseCurve, key)
	if err != nil {
		b.Fatal(err)
	}
	return key, pub
}

func benchmarkVariants(b *testing.B, params *parameters.Params) {
	key, _ := setupKey(b, params)
	_, peer := setupKey(b, params)

	for _, v := range csidh.Variants {
		b.Run(fmt.Sprintf("%s/public", v), func(b *testing.B) {
			for i := 0; i < b.N; i++ {
				if _, err := action.Evaluate(params, v, &params.BaseCurve, key); err != nil {
					b.Fatal(err)
				}
			}
		})
		// includes the supersingularity check of the peer curve
		b.Run(fmt.Sprintf("%s/shared", v), func(b *testing.B) {
			for i := 0; i < b.N; i++ {
				if _, err := action.Evaluate(params, v, &peer, key); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}

func BenchmarkActionToy(b *testing.B) {
	benchmarkVariants(b, parameters.Toy())
}

func BenchmarkActionCSIDH512(b *testing.B) {
	benchmarkVariants(b, parameters.CSIDH512())
}

func BenchmarkValidateCSIDH512(b *testing.B) {
	params := parameters.CSIDH512()
	_, pub := setupKey(b, params)
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		ok, err := action.Validate(params, &pub)
		if err != nil || !ok {
			b.Fatalf("validate: %v %v", ok, err)
		}
	}
}

func BenchmarkKeyGenCSIDH512(b *testing.B) {
	params := parameters.CSIDH512()
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		if _, err := keygen.Generate(params, rand.Reader); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkBatchTwoPartiesCSIDH512(b *testing.B) {
	params := parameters.CSIDH512()
	alice, _ := setupKey(b, params)
	bob, _ := setupKey(b, params)
	lanes := []action.Lane{
		{Curve: params.BaseCurve, Key: alice},
		{Curve: params.BaseCurve, Key: bob},
	}
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		if _, err := action.EvaluateBatch(context.Background(), params, csidh.MeyerReith, lanes); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkFieldCSIDH512(b *testing.B) {
	f := parameters.CSIDH512().Field
	var x, y field.Element
	if err := f.Random(&x, rand.Reader); err != nil {
		b.Fatal(err)
	}
	y = x

	b.Run("mul", func(b *testing.B) {
		for i := 0; i < b.N; i++ {
			f.Mul(&y, &y, &x)
		}
	})
	b.Run("inv", func(b *testing.B) {
		for i := 0; i < b.N; i++ {
			f.Inv(&y, &x)
		}
	})
	b.Run("legendre", func(b *testing.B) {
		for i := 0; i < b.N; i++ {
			f.IsSquare(&x)
		}
	})
}
