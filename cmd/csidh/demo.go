package main

import (
	"context"
	"encoding/hex"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/ComputerDreams/CSIDH-based-signature/internal/parameters"
	"github.com/ComputerDreams/CSIDH-based-signature/internal/protocol/action"
	"github.com/ComputerDreams/CSIDH-based-signature/internal/protocol/keygen"
	"github.com/ComputerDreams/CSIDH-based-signature/pkg/csidh"
)

var demoTitles = map[csidh.Variant]string{
	csidh.Original:          "Original",
	csidh.XWing:             "X-Wing",
	csidh.XWingTorsion:      "X-Wing and torsion",
	csidh.MeyerReith:        "Meyer-Reith",
	csidh.MeyerReithTorsion: "Meyer-Reith - torsion",
}

const rule = "========================================"

type demo struct {
	w        io.Writer
	params   *parameters.Params
	rng      io.Reader
	opts     []action.Option
	parallel bool
}

func ms(d time.Duration) float64 {
	return float64(d.Microseconds()) / 1000
}

func (d *demo) timed(label string, f func() error) error {
	start := time.Now()
	if err := f(); err != nil {
		return err
	}
	fmt.Fprintf(d.w, "%-22s(%7.3f ms):\n  ", label, ms(time.Since(start)))
	return nil
}

// run prints keys for two parties, then both public keys and both shared
// secrets for every variant. It fails if any pair of secrets differs.
func (d *demo) run(variants []csidh.Variant) error {
	fmt.Fprintln(d.w)

	var alice, bob *csidh.PrivateKey
	for _, party := range []struct {
		label string
		key   **csidh.PrivateKey
	}{{"Alice's private key", &alice}, {"Bob's private key", &bob}} {
		err := d.timed(party.label, func() (err error) {
			*party.key, err = keygen.Generate(d.params, d.rng)
			return err
		})
		if err != nil {
			return err
		}
		fmt.Fprintf(d.w, "%s\n\n", hex.EncodeToString((*party.key).Bytes()))
	}
	defer alice.Reset()
	defer bob.Reset()

	var mismatched []string
	for _, v := range variants {
		fmt.Fprintf(d.w, "\n%s\n\t%s\n%s\n", rule, demoTitles[v], rule)
		ok, err := d.exchange(v, alice, bob)
		if err != nil {
			return fmt.Errorf("%s: %w", v, err)
		}
		fmt.Fprint(d.w, "    ")
		if ok {
			fmt.Fprintln(d.w, "equal.")
		} else {
			fmt.Fprintln(d.w, "NOT EQUAL!")
			mismatched = append(mismatched, v.String())
		}
		fmt.Fprintln(d.w)
	}
	if len(mismatched) > 0 {
		return fmt.Errorf("%w: shared secrets differ for %s", csidh.ErrInternalInvariant, strings.Join(mismatched, ", "))
	}
	return nil
}

func (d *demo) step(label string, v csidh.Variant, pk *csidh.PublicKey, key *csidh.PrivateKey) (csidh.PublicKey, error) {
	var out csidh.PublicKey
	err := d.timed(label, func() (err error) {
		out, err = action.Evaluate(d.params, v, pk, key, d.opts...)
		return err
	})
	if err != nil {
		return out, err
	}
	fmt.Fprintf(d.w, "%s\n\n", out)
	return out, nil
}

func (d *demo) pair(labels [2]string, v csidh.Variant, pks [2]*csidh.PublicKey, keys [2]*csidh.PrivateKey) ([2]csidh.PublicKey, error) {
	var out [2]csidh.PublicKey
	if !d.parallel {
		for i := range out {
			var err error
			if out[i], err = d.step(labels[i], v, pks[i], keys[i]); err != nil {
				return out, err
			}
		}
		return out, nil
	}

	lanes := []action.Lane{{Curve: *pks[0], Key: keys[0]}, {Curve: *pks[1], Key: keys[1]}}
	var res *action.BatchResult
	err := d.timed("Both parties", func() (err error) {
		res, err = action.EvaluateBatch(context.Background(), d.params, v, lanes, d.opts...)
		return err
	})
	if err != nil {
		return out, err
	}
	fmt.Fprintln(d.w)
	for i := range out {
		out[i] = res.Curves[i]
		fmt.Fprintf(d.w, "%-22s\n  %s\n\n", labels[i], out[i])
	}
	return out, nil
}

func (d *demo) exchange(v csidh.Variant, alice, bob *csidh.PrivateKey) (bool, error) {
	base := d.params.BaseCurve
	keys := [2]*csidh.PrivateKey{alice, bob}

	pubs, err := d.pair([2]string{"Alice's public key", "Bob's public key"}, v,
		[2]*csidh.PublicKey{&base, &base}, keys)
	if err != nil {
		return false, err
	}
	shared, err := d.pair([2]string{"Alice's shared secret", "Bob's shared secret"}, v,
		[2]*csidh.PublicKey{&pubs[1], &pubs[0]}, keys)
	if err != nil {
		return false, err
	}
	return shared[0].Equal(&shared[1]), nil
}

func (c *cli) demoCommand() *cobra.Command {
	var (
		only     []string
		parallel bool
	)
	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Run a two-party exchange with every evaluation strategy",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			variants := csidh.Variants
			if len(only) > 0 {
				variants = nil
				for _, name := range only {
					v, err := csidh.ParseVariant(name)
					if err != nil {
						return err
					}
					variants = append(variants, v)
				}
			}
			d := &demo{
				w:        cmd.OutOrStdout(),
				params:   c.params,
				parallel: parallel,
				opts:     []action.Option{action.WithLogger(c.log)},
			}
			return d.run(variants)
		},
	}
	cmd.Flags().StringSliceVar(&only, "only", nil, "run only these variants")
	cmd.Flags().BoolVar(&parallel, "parallel", false, "evaluate both parties concurrently")
	return cmd
}
