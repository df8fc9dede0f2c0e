package volume

import (
	"errors"
	"fmt"
)

// ErrDimensionMismatch is returned when geometry, projections, weights
// or volumes disagree in shape.
var ErrDimensionMismatch = errors.New("volume: dimension mismatch")

func errIfShapeNotEq(a, b Shape) error {
	if !a.Congruent(b) {
		return fmt.Errorf("shapes differ: %v, %v", a, b)
	}
	return nil
}

func errIfLenNotEq(s, t *Series) error {
	if len(s.Phases) != len(t.Phases) {
		return fmt.Errorf("phases differ: %d, %d", len(s.Phases), len(t.Phases))
	}
	return nil
}

func panicIf(err error) {
	if err != nil {
		panic(err)
	}
}
