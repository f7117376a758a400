package main

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ComputerDreams/CSIDH-based-signature/pkg/csidh"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCommand()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(append(args, "--log-level", "disabled"))
	err := cmd.Execute()
	return out.String(), err
}

func TestKeyExchange(t *testing.T) {
	for _, extra := range [][]string{
		{"--params", "toy"},
		{"--params", "toy", "--variant", "original"},
		{"--params", "tiny", "--hybrid", "x25519"},
	} {
		dir := t.TempDir()
		alice := filepath.Join(dir, "alice")
		bob := filepath.Join(dir, "bob")

		alicePub, err := run(t, append([]string{"genkey", "-o", alice}, extra...)...)
		require.NoError(t, err)
		_, err = run(t, append([]string{"genkey", "-o", bob}, extra...)...)
		require.NoError(t, err)

		again, err := run(t, append([]string{"pubkey", "-k", alice + ".priv.pem"}, extra...)...)
		require.NoError(t, err)
		assert.Equal(t, alicePub, again)

		s1, err := run(t, append([]string{"derive", "-k", alice + ".priv.pem", "-p", bob + ".pub.pem"}, extra...)...)
		require.NoError(t, err)
		s2, err := run(t, append([]string{"derive", "-k", bob + ".priv.pem", "-p", alice + ".pub.pem"}, extra...)...)
		require.NoError(t, err)
		assert.Equal(t, s1, s2, extra)
		assert.NotEmpty(t, strings.TrimSpace(s1))
	}
}

func TestValidateCommand(t *testing.T) {
	out, err := run(t, "validate", "--params", "tiny", "0x9e", "0xae")
	require.NoError(t, err)
	assert.Contains(t, out, "valid")

	out, err = run(t, "validate", "--params", "tiny", "0x9e", "0x1")
	assert.ErrorIs(t, err, csidh.ErrInvalidCurve)
	assert.Contains(t, out, "invalid")

	_, err = run(t, "validate", "--params", "tiny")
	assert.Error(t, err)
}

func TestTorsionCommand(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tiny.cbor")
	out, err := run(t, "torsion", "--params", "tiny", "-o", path)
	require.NoError(t, err)
	assert.Contains(t, out, "plus  0x")
	assert.True(t, strings.HasSuffix(strings.Fields(out)[1], "0a"))

	// the written file is accepted back
	_, err = run(t, "demo", "--params", "tiny", "--torsion", path, "--only", "x-wing-torsion")
	require.NoError(t, err)
}

func TestDemo(t *testing.T) {
	out, err := run(t, "demo", "--params", "toy")
	require.NoError(t, err)
	assert.Equal(t, len(csidh.Variants), strings.Count(out, "    equal."))
	assert.NotContains(t, out, "NOT EQUAL")
	for _, title := range demoTitles {
		assert.Contains(t, out, "\t"+title+"\n")
	}

	out, err = run(t, "demo", "--params", "toy", "--parallel", "--only", "meyer-reith,original")
	require.NoError(t, err)
	assert.Equal(t, 2, strings.Count(out, "    equal."))

	_, err = run(t, "demo", "--params", "toy", "--only", "sidh")
	assert.ErrorIs(t, err, csidh.ErrUnknownVariant)
}

func TestBadFlags(t *testing.T) {
	_, err := run(t, "demo", "--params", "p1024")
	assert.Error(t, err)
	_, err = run(t, "genkey", "--params", "toy")
	assert.Error(t, err)
	_, err = run(t, "derive", "--params", "toy", "-k", "nope.pem", "-p", "nope.pem")
	assert.Error(t, err)
}
