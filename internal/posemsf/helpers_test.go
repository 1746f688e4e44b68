package posemsf

import (
	"bytes"
	"math/rand"
	"os"
	"testing"

	"gonum.org/v1/gonum/num/quat"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/banshee-data/posefuse/internal/state"
)

// captureOps redirects the ops stream into a buffer for the duration of
// the test. Tests using it must not run in parallel.
func captureOps(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	SetLogWriters(&buf, nil)
	t.Cleanup(func() { SetLogWriters(os.Stderr, nil) })
	return &buf
}

func randomUnitQuat(rng *rand.Rand) quat.Number {
	for {
		q := quat.Number{
			Real: rng.NormFloat64(),
			Imag: rng.NormFloat64(),
			Jmag: rng.NormFloat64(),
			Kmag: rng.NormFloat64(),
		}
		if quat.Abs(q) > 1e-3 {
			return state.Normalize(q)
		}
	}
}

func randomVec(rng *rand.Rand, scale float64) r3.Vec {
	return r3.Vec{
		X: scale * rng.NormFloat64(),
		Y: scale * rng.NormFloat64(),
		Z: scale * rng.NormFloat64(),
	}
}

type fakeCore struct {
	inits []*InitMeasurement
}

func (c *fakeCore) Init(meas *InitMeasurement) {
	c.inits = append(c.inits, meas)
}

type fakeMeasurements struct {
	pos r3.Vec
	ori quat.Number

	noisePos, noiseAtt float64
	delay              float64
	tuned              int
}

func newFakeMeasurements() *fakeMeasurements {
	return &fakeMeasurements{ori: state.Identity}
}

func (m *fakeMeasurements) LatestPosition() r3.Vec         { return m.pos }
func (m *fakeMeasurements) LatestOrientation() quat.Number { return m.ori }

func (m *fakeMeasurements) SetNoises(position, attitude float64) {
	m.noisePos, m.noiseAtt = position, attitude
	m.tuned++
}

func (m *fakeMeasurements) SetDelay(delay float64) { m.delay = delay }

// untunedMeasurements does not implement MeasurementTuner.
type untunedMeasurements struct{}

func (untunedMeasurements) LatestPosition() r3.Vec         { return r3.Vec{} }
func (untunedMeasurements) LatestOrientation() quat.Number { return state.Identity }
