package parameters

import (
	"fmt"

	"github.com/fxamacker/cbor/v2"

	"github.com/ComputerDreams/CSIDH-based-signature/internal/crypto/bigint"
	"github.com/ComputerDreams/CSIDH-based-signature/internal/crypto/field"
	"github.com/ComputerDreams/CSIDH-based-signature/internal/crypto/montgomery"
)

// Torsion holds the x-coordinates of a point of order p+1 on the base
// curve and one on its twist, as canonical field encodings.
type Torsion struct {
	Params string `cbor:"1,keyasint"`
	Plus   []byte `cbor:"2,keyasint"`
	Minus  []byte `cbor:"3,keyasint"`
}

// TorsionFromX builds torsion data for a base curve y² = x³ + x from the
// abscissa x of a full-order point on it. The twist point is -x.
func TorsionFromX(p *Params, x uint64) *Torsion {
	f := p.Field
	var plus, minus field.Element
	f.SetUint64(&plus, x)
	f.Neg(&minus, &plus)
	return &Torsion{
		Params: p.Name,
		Plus:   f.Encode(&plus),
		Minus:  f.Encode(&minus),
	}
}

// Points decodes the torsion data into projective points.
func (t *Torsion) Points(p *Params) (plus, minus montgomery.Point, err error) {
	if t.Params != p.Name {
		return plus, minus, fmt.Errorf("%w: torsion data for %q used with %q", ErrInvalidParameters, t.Params, p.Name)
	}
	var xp, xm field.Element
	if err = p.Field.Decode(&xp, t.Plus); err != nil {
		return plus, minus, fmt.Errorf("torsion plus point: %w", err)
	}
	if err = p.Field.Decode(&xm, t.Minus); err != nil {
		return plus, minus, fmt.Errorf("torsion minus point: %w", err)
	}
	p.Engine.SetX(&plus, &xp)
	p.Engine.SetX(&minus, &xm)
	return plus, minus, nil
}

// Marshal encodes t as CBOR.
func (t *Torsion) Marshal() ([]byte, error) {
	return cbor.Marshal(t)
}

// ParseTorsion decodes CBOR torsion data.
func ParseTorsion(data []byte) (*Torsion, error) {
	var t Torsion
	if err := cbor.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("decode torsion data: %w", err)
	}
	if len(t.Plus) != bigint.Size || len(t.Minus) != bigint.Size {
		return nil, fmt.Errorf("%w: torsion coordinates must be %d bytes", ErrInvalidParameters, bigint.Size)
	}
	return &t, nil
}
