package mix

import (
	"errors"
	"math"

	"github.com/mamadbah2/concreto/internal/domain/models"
)

// TargetTotal is the sum a valid composition must reach.
const TargetTotal = 100

// ErrUnbalanceable indicates the components sum to zero, so no scale factor exists.
var ErrUnbalanceable = errors.New("mix cannot be balanced: components sum to zero")

// IsValid reports whether the components sum to exactly 100. There is no tolerance band.
func IsValid(m models.MixComposition) bool {
	return m.Total() == TargetTotal
}

// Balance rescales the composition proportionally so it sums to exactly 100.
// Cement and sand are rounded after scaling and water takes the rounding residue.
// A composition that is already valid is returned as is; a zero-sum composition is
// returned unchanged together with ErrUnbalanceable.
func Balance(m models.MixComposition) (models.MixComposition, error) {
	total := m.Total()
	if total == TargetTotal {
		return m, nil
	}
	if total == 0 {
		return m, ErrUnbalanceable
	}

	factor := TargetTotal / total
	cement := math.Round(m.Cement * factor)
	sand := math.Round(m.Sand * factor)

	return models.MixComposition{
		Cement: cement,
		Sand:   sand,
		Water:  TargetTotal - cement - sand,
	}, nil
}
