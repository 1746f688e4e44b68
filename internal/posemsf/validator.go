package posemsf

import (
	"time"

	"github.com/banshee-data/posefuse/internal/monitoring"
	"github.com/banshee-data/posefuse/internal/state"
	"github.com/banshee-data/posefuse/internal/timeutil"
)

// RecoveryScale replaces a negative scale after a correction.
const RecoveryScale = 0.1

// negativeScaleLogInterval bounds how often a diverging scale is reported.
const negativeScaleLogInterval = time.Second

// Validator clamps the state after a correction so that the scale stays
// physical. It is a safety net against divergence, not an estimator.
type Validator struct {
	throttle *monitoring.Throttle
}

// NewValidator returns a Validator logging through a throttle on clock.
func NewValidator(clock timeutil.Clock) *Validator {
	return &Validator{throttle: monitoring.NewThrottle(clock, negativeScaleLogInterval)}
}

// Validate returns s with a negative scale replaced by RecoveryScale.
func (v *Validator) Validate(s state.Vector) state.Vector {
	if s.L < 0 {
		v.throttle.Logf(opsf, "negative-scale", "Negative scale detected: %g. Correcting to %g", s.L, RecoveryScale)
		s.L = RecoveryScale
	}
	return s
}
