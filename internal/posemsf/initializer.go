package posemsf

import (
	"fmt"

	"github.com/google/uuid"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/num/quat"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/banshee-data/posefuse/internal/state"
	"github.com/banshee-data/posefuse/internal/timeutil"
)

// DefaultParamNamespace is the parameter namespace holding the static
// calibration priors.
const DefaultParamNamespace = "pose_sensor"

// Priors are the static camera-IMU calibration values the filter starts
// from, plus an optional explicit initial covariance.
type Priors struct {
	PCI r3.Vec
	QCI quat.Number
	// P overrides the zero covariance sentinel when non-nil.
	P *mat.SymDense
}

// DefaultPriors returns zero translation and identity rotation.
func DefaultPriors() Priors {
	return Priors{QCI: state.Identity}
}

// ParamSource reads float parameters with a default for absent keys.
// *paramstore.Store implements it.
type ParamSource interface {
	Float(namespace, key string, def float64) (float64, error)
}

// LoadPriors reads init/p_ci/{x,y,z} and init/q_ci/{w,x,y,z} from
// namespace. Absent keys fall back to DefaultPriors.
func LoadPriors(src ParamSource, namespace string) (Priors, error) {
	p := DefaultPriors()
	fields := []struct {
		key string
		dst *float64
	}{
		{"init/p_ci/x", &p.PCI.X},
		{"init/p_ci/y", &p.PCI.Y},
		{"init/p_ci/z", &p.PCI.Z},
		{"init/q_ci/w", &p.QCI.Real},
		{"init/q_ci/x", &p.QCI.Imag},
		{"init/q_ci/y", &p.QCI.Jmag},
		{"init/q_ci/z", &p.QCI.Kmag},
	}
	for _, f := range fields {
		v, err := src.Float(namespace, f.key, *f.dst)
		if err != nil {
			return Priors{}, fmt.Errorf("load calibration prior %s: %w", f.key, err)
		}
		*f.dst = v
	}
	return p, nil
}

// Initializer converts one raw pose sample into a complete filter state.
type Initializer struct {
	priors Priors
	layout *state.Layout
	clock  timeutil.Clock
}

// NewInitializer returns an Initializer for the pose layout. A nil clock
// uses the real clock.
func NewInitializer(priors Priors, clock timeutil.Clock) *Initializer {
	if clock == nil {
		clock = timeutil.RealClock{}
	}
	if priors.P != nil {
		if n, _ := priors.P.Dims(); n != state.PoseLayout.Dim() {
			opsf("Ignoring initial covariance of size %d, expected %d", n, state.PoseLayout.Dim())
			priors.P = nil
		} else {
			p := mat.NewSymDense(n, nil)
			p.CopySym(priors.P)
			priors.P = p
		}
	}
	return &Initializer{priors: priors, layout: state.PoseLayout, clock: clock}
}

// Priors returns the calibration priors the Initializer was built with.
func (in *Initializer) Priors() Priors {
	return in.priors
}

// Bootstrap builds the initial state from meas. The sensor pose is
// divided by scale and shifted by the calibration prior so that later
// updates refine scale and extrinsics from a consistent start. Missing
// measurements only produce warnings.
func (in *Initializer) Bootstrap(meas Pose, scale float64) *InitMeasurement {
	pvc := meas.Position
	qcv := meas.Orientation

	if r3.Norm(pvc) == 0 {
		opsf("No measurements received yet to initialize position - using [0 0 0]")
	}
	// Heuristic carried over from the pose sensor: it tests the position
	// norm, not the orientation, and so is not a reliable detector.
	if r3.Norm(pvc) == 1 && qcv.Real == 1 {
		opsf("No measurements received yet to initialize attitude - using [1 0 0 0]")
	}
	if !(scale > 0) {
		opsf("Initial scale %g is not positive - using 1", scale)
		scale = 1
	}

	qci := state.Normalize(in.priors.QCI)
	pci := in.priors.PCI
	qwv := state.Identity

	q := state.Normalize(quat.Conj(quat.Mul(quat.Mul(qci, quat.Conj(qcv)), qwv)))
	p := r3.Sub(
		r3.Scale(1/scale, state.RotateInverse(qwv, pvc)),
		state.Rotate(q, pci),
	)

	s := state.Zero()
	s.P = p
	s.Q = q
	s.L = scale
	s.QWV = qwv
	s.QCI = qci
	s.PCI = pci

	cov := state.NewCovariance(in.layout)
	if in.priors.P != nil {
		cov.CopySym(in.priors.P)
	}

	im := &InitMeasurement{
		ID:          uuid.New(),
		State:       s,
		P:           cov,
		LinearAccel: Gravity,
		Time:        timeutil.Seconds(in.clock.Now()),
	}

	opsf("filter initialized (%s) to:\n"+
		"position: %s\n"+
		"scale: %g\n"+
		"attitude %s\n"+
		"p_ci: %s\n"+
		"q_ci: %s",
		im.ID, state.FormatVec(p), scale, state.FormatQuat(q),
		state.FormatVec(pci), state.FormatQuat(qci))
	return im
}
