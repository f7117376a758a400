package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/katzenpost/hpqc/nike"
	"github.com/rs/zerolog"

	"github.com/ComputerDreams/CSIDH-based-signature/internal/parameters"
	"github.com/ComputerDreams/CSIDH-based-signature/internal/protocol/action"
	"github.com/ComputerDreams/CSIDH-based-signature/pkg/csidh"
	"github.com/ComputerDreams/CSIDH-based-signature/pkg/nike/classical"
	"github.com/ComputerDreams/CSIDH-based-signature/pkg/nike/csidhnike"
	"github.com/ComputerDreams/CSIDH-based-signature/pkg/nike/hybrid"
)

const (
	defaultParameters = "csidh-512"
	defaultLogLevel   = "info"
)

// Config is the top level CLI configuration.
type Config struct {
	Scheme  *Scheme
	Logging *Logging
}

// Scheme selects the parameter set and evaluation strategy.
type Scheme struct {
	// Parameters is a preset name: csidh-512, toy or tiny.
	Parameters string

	// Variant is the group action strategy, see csidh.Variants.
	Variant string

	// TorsionFile optionally replaces the built-in torsion points of the
	// base curve with a CBOR file written by the torsion command.
	TorsionFile string

	// Hybrid names a classical group (x25519, secp256k1) to combine with
	// CSIDH. Empty means CSIDH alone.
	Hybrid string
}

// Logging configures the zerolog logger.
type Logging struct {
	// Level is one of trace, debug, info, warn, error or disabled.
	Level string

	// JSON selects JSON output instead of the console writer.
	JSON bool
}

func (s *Scheme) validate() error {
	if s.Parameters == "" {
		s.Parameters = defaultParameters
	}
	if _, err := parameters.ByName(s.Parameters); err != nil {
		return err
	}
	if s.Variant == "" {
		s.Variant = csidh.MeyerReith.String()
	}
	if _, err := csidh.ParseVariant(s.Variant); err != nil {
		return err
	}
	if s.Hybrid != "" {
		if _, err := classical.ByName(s.Hybrid); err != nil {
			return err
		}
	}
	return nil
}

func (l *Logging) validate() error {
	if l.Level == "" {
		l.Level = defaultLogLevel
	}
	if _, err := parseLevel(l.Level); err != nil {
		return fmt.Errorf("invalid log level %q", l.Level)
	}
	return nil
}

// FixupAndValidate fills in defaults and checks every section.
func (c *Config) FixupAndValidate() error {
	if c.Scheme == nil {
		c.Scheme = &Scheme{}
	}
	if c.Logging == nil {
		c.Logging = &Logging{}
	}
	if err := c.Scheme.validate(); err != nil {
		return fmt.Errorf("config: Scheme: %w", err)
	}
	if err := c.Logging.validate(); err != nil {
		return fmt.Errorf("config: Logging: %w", err)
	}
	return nil
}

// Load parses and validates a TOML configuration.
func Load(b []byte) (*Config, error) {
	cfg := new(Config)
	md, err := toml.Decode(string(b), cfg)
	if err != nil {
		return nil, err
	}
	if undecoded := md.Undecoded(); len(undecoded) != 0 {
		return nil, fmt.Errorf("config: undecoded keys in config file: %v", undecoded)
	}
	if err := cfg.FixupAndValidate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFile loads, parses and validates the provided file.
func LoadFile(f string) (*Config, error) {
	b, err := os.ReadFile(f)
	if err != nil {
		return nil, fmt.Errorf("failed to load config file: %w", err)
	}
	return Load(b)
}

// Params resolves the parameter set, applying the torsion file if set.
func (s *Scheme) Params() (*parameters.Params, error) {
	params, err := parameters.ByName(s.Parameters)
	if err != nil {
		return nil, err
	}
	if s.TorsionFile == "" {
		return params, nil
	}
	raw, err := os.ReadFile(s.TorsionFile)
	if err != nil {
		return nil, err
	}
	t, err := parameters.ParseTorsion(raw)
	if err != nil {
		return nil, err
	}
	if err := action.CheckTorsion(params, t); err != nil {
		return nil, fmt.Errorf("%s: %w", s.TorsionFile, err)
	}
	return params.WithTorsion(t), nil
}

// NIKE builds the configured scheme. The logger is passed to every group
// action evaluation.
func (c *Config) NIKE(log zerolog.Logger) (nike.Scheme, *parameters.Params, error) {
	params, err := c.Scheme.Params()
	if err != nil {
		return nil, nil, err
	}
	variant, err := csidh.ParseVariant(c.Scheme.Variant)
	if err != nil {
		return nil, nil, err
	}
	pq := csidhnike.NewScheme(params, variant, action.WithLogger(log))
	if c.Scheme.Hybrid == "" {
		return pq, params, nil
	}
	cl, err := classical.ByName(c.Scheme.Hybrid)
	if err != nil {
		return nil, nil, err
	}
	return hybrid.New("", pq, cl), params, nil
}

func parseLevel(s string) (zerolog.Level, error) {
	s = strings.ToLower(s)
	if s == "disabled" {
		return zerolog.Disabled, nil
	}
	return zerolog.ParseLevel(s)
}

// newLogger builds the process logger.
func newLogger(cfg *Logging, w io.Writer) zerolog.Logger {
	lvl, err := parseLevel(cfg.Level)
	if err != nil {
		lvl = zerolog.InfoLevel
	}
	if !cfg.JSON {
		w = zerolog.ConsoleWriter{Out: w, NoColor: true}
	}
	return zerolog.New(w).Level(lvl).With().Timestamp().Logger()
}
