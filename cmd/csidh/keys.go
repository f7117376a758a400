package main

import (
	"encoding/hex"
	"errors"
	"fmt"
	"os"

	"github.com/katzenpost/hpqc/nike"
	"github.com/katzenpost/hpqc/nike/pem"
	"github.com/spf13/cobra"

	"github.com/ComputerDreams/CSIDH-based-signature/internal/protocol/action"
	"github.com/ComputerDreams/CSIDH-based-signature/pkg/csidh"
	"github.com/ComputerDreams/CSIDH-based-signature/pkg/nike/csidhnike"
)

var errPeerRejected = errors.New("peer public key rejected")

func curveHex(b []byte) string {
	var pk csidh.PublicKey
	copy(pk[:], b)
	return pk.String()
}

// format prints CSIDH keys as big-endian hex like csidh.PublicKey.String
// and everything else as plain hex.
func (c *cli) format(b []byte) string {
	if _, ok := c.scheme.(*csidhnike.Scheme); ok && len(b) == csidh.PublicKeySize {
		return curveHex(b)
	}
	return hex.EncodeToString(b)
}

func (c *cli) genkeyCommand() *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "genkey",
		Short: "Generate a key pair",
		Long:  "Writes <out>.priv.pem and <out>.pub.pem and prints the public key.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			pub, priv, err := c.scheme.GenerateKeyPair()
			if err != nil {
				return err
			}
			defer priv.Reset()
			if err := pem.PrivateKeyToFile(out+".priv.pem", priv, c.scheme); err != nil {
				return err
			}
			if err := pem.PublicKeyToFile(out+".pub.pem", pub, c.scheme); err != nil {
				return err
			}
			c.log.Info().Str("scheme", c.scheme.Name()).Str("out", out).Msg("key pair written")
			fmt.Fprintln(cmd.OutOrStdout(), c.format(pub.Bytes()))
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "", "output file prefix")
	cmd.MarkFlagRequired("out")
	return cmd
}

func (c *cli) pubkeyCommand() *cobra.Command {
	var keyFile string
	cmd := &cobra.Command{
		Use:   "pubkey",
		Short: "Print the public key of a private key file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			priv, err := pem.FromPrivatePEMFile(keyFile, c.scheme)
			if err != nil {
				return err
			}
			defer priv.Reset()
			fmt.Fprintln(cmd.OutOrStdout(), c.format(priv.Public().Bytes()))
			return nil
		},
	}
	cmd.Flags().StringVarP(&keyFile, "key", "k", "", "private key PEM file")
	cmd.MarkFlagRequired("key")
	return cmd
}

func (c *cli) derive(priv nike.PrivateKey, pub nike.PublicKey) ([]byte, error) {
	if s, ok := c.scheme.(*csidhnike.Scheme); ok {
		return s.DeriveSecretChecked(priv, pub)
	}
	secret := c.scheme.DeriveSecret(priv, pub)
	if secret == nil {
		return nil, errPeerRejected
	}
	return secret, nil
}

func (c *cli) deriveCommand() *cobra.Command {
	var keyFile, peerFile string
	cmd := &cobra.Command{
		Use:   "derive",
		Short: "Derive the shared secret with a peer",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			priv, err := pem.FromPrivatePEMFile(keyFile, c.scheme)
			if err != nil {
				return err
			}
			defer priv.Reset()
			pub, err := pem.FromPublicPEMFile(peerFile, c.scheme)
			if err != nil {
				return err
			}
			secret, err := c.derive(priv, pub)
			if err != nil {
				return fmt.Errorf("%s: %w", peerFile, err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), c.format(secret))
			return nil
		},
	}
	cmd.Flags().StringVarP(&keyFile, "key", "k", "", "own private key PEM file")
	cmd.Flags().StringVarP(&peerFile, "peer", "p", "", "peer public key PEM file")
	cmd.MarkFlagRequired("key")
	cmd.MarkFlagRequired("peer")
	return cmd
}

func (c *cli) validateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <coefficient>...",
		Short: "Check that curve coefficients are supersingular",
		Long: `Each argument is a curve coefficient A in big-endian hex as printed
by genkey. Exits with an error if any of them is not a valid public key.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var invalid int
			for _, arg := range args {
				pk, err := csidh.ParsePublicKey(arg)
				if err != nil {
					return err
				}
				ok, err := action.Validate(c.params, &pk, action.WithLogger(c.log))
				if err != nil {
					return err
				}
				verdict := "valid"
				if !ok {
					verdict = "invalid"
					invalid++
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", pk, verdict)
			}
			if invalid > 0 {
				return fmt.Errorf("%d of %d curves: %w", invalid, len(args), csidh.ErrInvalidCurve)
			}
			return nil
		},
	}
	return cmd
}

func (c *cli) torsionCommand() *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "torsion",
		Short: "Search full-order torsion points of the base curve",
		Long: `Finds the smallest x-coordinates of full-order points on the base
curve and its twist, verifies them and writes them as CBOR. The file can be
passed back with --torsion or Scheme.TorsionFile.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			t, err := action.FindTorsion(c.params)
			if err != nil {
				return err
			}
			if err := action.CheckTorsion(c.params, t); err != nil {
				return err
			}
			raw, err := t.Marshal()
			if err != nil {
				return err
			}
			if err := os.WriteFile(out, raw, 0o644); err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "plus  %s\n", curveHex(t.Plus))
			fmt.Fprintf(w, "minus %s\n", curveHex(t.Minus))
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "torsion.cbor", "output file")
	return cmd
}
