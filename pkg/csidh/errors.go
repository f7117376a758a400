package csidh

import (
	"errors"
	"fmt"
)

// Common errors returned by the CSIDH library
var (
	ErrRandomnessUnavailable = errors.New("csidh: secure randomness unavailable")
	ErrInvalidCurve          = errors.New("csidh: invalid curve")
	ErrInternalInvariant     = errors.New("csidh: internal invariant violated")
	ErrInvalidPrivateKey     = errors.New("csidh: invalid private key")
	ErrUnknownVariant        = errors.New("csidh: unknown variant")
)

// ActionError reports a failed group action evaluation.
// It records which evaluation strategy failed and in which round.
type ActionError struct {
	Variant Variant
	Round   int
	Err     error
}

func (e *ActionError) Error() string {
	if e.Round > 0 {
		return fmt.Sprintf("csidh %s action failed in round %d: %v", e.Variant, e.Round, e.Err)
	}
	return fmt.Sprintf("csidh %s action failed: %v", e.Variant, e.Err)
}

func (e *ActionError) Unwrap() error {
	return e.Err
}

// NewActionError creates a new ActionError.
func NewActionError(v Variant, round int, err error) *ActionError {
	return &ActionError{
		Variant: v,
		Round:   round,
		Err:     err,
	}
}
