// Command csidh generates CSIDH keys, derives shared secrets and runs the
// two-party demonstration for every evaluation strategy.
package main

import (
	"fmt"
	"os"

	"github.com/katzenpost/hpqc/nike"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/ComputerDreams/CSIDH-based-signature/internal/parameters"
)

// cli carries the resolved configuration to the subcommands.
type cli struct {
	configFile string
	overrides  Scheme
	logLevel   string

	cfg    *Config
	log    zerolog.Logger
	scheme nike.Scheme
	params *parameters.Params
}

func (c *cli) setup(cmd *cobra.Command, _ []string) error {
	var err error
	if c.configFile != "" {
		c.cfg, err = LoadFile(c.configFile)
		if err != nil {
			return err
		}
	} else {
		c.cfg = &Config{Scheme: new(Scheme), Logging: new(Logging)}
	}
	if c.overrides.Parameters != "" {
		c.cfg.Scheme.Parameters = c.overrides.Parameters
	}
	if c.overrides.Variant != "" {
		c.cfg.Scheme.Variant = c.overrides.Variant
	}
	if c.overrides.TorsionFile != "" {
		c.cfg.Scheme.TorsionFile = c.overrides.TorsionFile
	}
	if c.overrides.Hybrid != "" {
		c.cfg.Scheme.Hybrid = c.overrides.Hybrid
	}
	if c.logLevel != "" {
		c.cfg.Logging.Level = c.logLevel
	}
	if err = c.cfg.FixupAndValidate(); err != nil {
		return err
	}

	c.log = newLogger(c.cfg.Logging, cmd.ErrOrStderr())
	c.scheme, c.params, err = c.cfg.NIKE(c.log)
	if err != nil {
		return err
	}
	c.log.Debug().
		Str("scheme", c.scheme.Name()).
		Str("params", c.params.Name).
		Msg("scheme ready")
	return nil
}

func newRootCommand() *cobra.Command {
	c := new(cli)
	root := &cobra.Command{
		Use:   "csidh",
		Short: "CSIDH key exchange tool",
		Long: `Generate CSIDH key pairs, derive shared secrets and compare the
evaluation strategies of the class group action.

Keys are stored as PEM files. A TOML configuration selects the parameter
set, the evaluation strategy and an optional classical group for a hybrid
exchange; flags override the file.`,
		Example: `  # Two-party demonstration with every strategy
  csidh demo

  # Fast demonstration on the toy parameters
  csidh demo --params toy

  # Key exchange through files
  csidh genkey -o alice
  csidh genkey -o bob
  csidh derive --key alice.priv.pem --peer bob.pub.pem`,
		SilenceErrors:     true,
		SilenceUsage:      true,
		PersistentPreRunE: c.setup,
	}

	flags := root.PersistentFlags()
	flags.StringVarP(&c.configFile, "config", "c", "", "TOML configuration file")
	flags.StringVar(&c.overrides.Parameters, "params", "", "parameter set (csidh-512, toy, tiny)")
	flags.StringVar(&c.overrides.Variant, "variant", "", "evaluation strategy")
	flags.StringVar(&c.overrides.TorsionFile, "torsion", "", "CBOR torsion file for the base curve")
	flags.StringVar(&c.overrides.Hybrid, "hybrid", "", "classical group to combine with CSIDH (x25519, secp256k1)")
	flags.StringVar(&c.logLevel, "log-level", "", "log level (debug, info, warn, error, disabled)")

	root.AddCommand(
		c.genkeyCommand(),
		c.pubkeyCommand(),
		c.deriveCommand(),
		c.validateCommand(),
		c.torsionCommand(),
		c.demoCommand(),
	)
	return root
}

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
