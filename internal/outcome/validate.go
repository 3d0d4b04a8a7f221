package outcome

import (
	"fmt"
	"math"
)

// sumTolerance absorbs float residue in hand-written tables (0.1+0.2+...).
const sumTolerance = 1e-9

func validateWeight(w float64) error {
	if math.IsNaN(w) || math.IsInf(w, 0) {
		return ErrInvalidWeight
	}
	if w <= 0 || w > 1 {
		return ErrInvalidWeight
	}
	return nil
}

// Validate checks a table once at load time; Select itself never errors.
func (t Table[P]) Validate() error {
	if len(t) == 0 {
		return ErrEmptyTable
	}
	for i, o := range t {
		if err := validateWeight(o.Weight); err != nil {
			return fmt.Errorf("entry %d (%s): %w", i, o.Name, err)
		}
	}
	if s := t.Sum(); s > 1+sumTolerance {
		return fmt.Errorf("%w: %.6f", ErrWeightSum, s)
	}
	return nil
}
