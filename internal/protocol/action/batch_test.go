package action

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ComputerDreams/CSIDH-based-signature/pkg/csidh"
)

func TestEvaluateBatch(t *testing.T) {
	k := smallKATs(t)[1]
	lanes := []Lane{
		{Curve: k.params.BaseCurve, Key: k.alice, Opts: []Option{WithRand(seeded(t, 1))}},
		{Curve: k.params.BaseCurve, Key: k.bob, Opts: []Option{WithRand(seeded(t, 2))}},
		{Curve: k.pubB, Key: k.alice, Opts: []Option{WithRand(seeded(t, 3))}},
		{Curve: k.pubA, Key: k.bob, Opts: []Option{WithRand(seeded(t, 4))}},
	}
	res, err := EvaluateBatch(context.Background(), k.params, csidh.XWing, lanes)
	require.NoError(t, err)
	require.Len(t, res.Curves, 4)
	assert.Equal(t, k.pubA, res.Curves[0])
	assert.Equal(t, k.pubB, res.Curves[1])
	assert.Equal(t, k.sSec, res.Curves[2])
	assert.Equal(t, k.sSec, res.Curves[3])
}

func TestEvaluateBatchEmpty(t *testing.T) {
	k := smallKATs(t)[0]
	res, err := EvaluateBatch(context.Background(), k.params, csidh.Original, nil)
	require.NoError(t, err)
	assert.Empty(t, res.Curves)
}

func TestEvaluateBatchFailure(t *testing.T) {
	k := smallKATs(t)[0]
	bad := curveFromUint(5)
	lanes := []Lane{
		{Curve: k.params.BaseCurve, Key: k.alice},
		{Curve: bad, Key: k.bob},
	}
	_, err := EvaluateBatch(context.Background(), k.params, csidh.MeyerReith, lanes)
	assert.ErrorIs(t, err, csidh.ErrInvalidCurve)
	assert.Contains(t, err.Error(), "lane 1")
}

func TestEvaluateBatchCancelled(t *testing.T) {
	k := smallKATs(t)[0]
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := EvaluateBatch(ctx, k.params, csidh.XWing, []Lane{{Curve: k.params.BaseCurve, Key: k.alice}})
	assert.ErrorIs(t, err, context.Canceled)
}
