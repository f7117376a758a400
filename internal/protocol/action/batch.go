package action

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/ComputerDreams/CSIDH-based-signature/internal/parameters"
	"github.com/ComputerDreams/CSIDH-based-signature/pkg/csidh"
)

// Lane is one independent evaluation in a batch, e.g. one party's key
// applied to its peer's curve.
type Lane struct {
	Curve csidh.PublicKey
	Key   *csidh.PrivateKey
	// Opts are appended after the batch-wide options.
	Opts []Option
}

// BatchResult holds the curves produced by EvaluateBatch, in lane order.
type BatchResult struct {
	Curves []csidh.PublicKey
}

// EvaluateBatch evaluates every lane concurrently. Lanes share only the
// read-only parameters. The first failure cancels the lanes that have not
// started yet.
func EvaluateBatch(ctx context.Context, params *parameters.Params, variant csidh.Variant, lanes []Lane, opts ...Option) (*BatchResult, error) {
	if len(lanes) == 0 {
		return &BatchResult{}, nil
	}

	res := &BatchResult{Curves: make([]csidh.PublicKey, len(lanes))}
	g, ctx := errgroup.WithContext(ctx)
	for i := range lanes {
		i := i
		lane := &lanes[i]
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			laneOpts := append(append([]Option(nil), opts...), lane.Opts...)
			out, err := Evaluate(params, variant, &lane.Curve, lane.Key, laneOpts...)
			if err != nil {
				return fmt.Errorf("lane %d: %w", i, err)
			}
			res.Curves[i] = out
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return res, nil
}
