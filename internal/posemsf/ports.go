package posemsf

import (
	"time"

	"github.com/google/uuid"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/num/quat"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/banshee-data/posefuse/internal/state"
)

// Gravity is the accelerometer reading of a stationary IMU in the
// estimator's world frame.
var Gravity = r3.Vec{Z: 9.81}

// Pose is one raw pose sample of the sensor in the vision frame. A zero
// position and identity orientation mean "nothing received yet".
type Pose struct {
	Position    r3.Vec      // p_vc
	Orientation quat.Number // q_cv
	Time        time.Time
}

// MeasurementPort supplies the latest raw pose sample. Both accessors
// return the zero vector / identity quaternion until a sample arrives.
type MeasurementPort interface {
	LatestPosition() r3.Vec
	LatestOrientation() quat.Number
}

// MeasurementTuner is implemented by measurement handlers that accept the
// pose noise and delay settings carried in config snapshots.
type MeasurementTuner interface {
	SetNoises(position, attitude float64)
	SetDelay(delay float64)
}

// InitMeasurement is the complete bootstrap handed to FilterCore. It
// replaces the whole filter state in one step.
type InitMeasurement struct {
	ID    uuid.UUID
	State state.Vector
	// P is the initial error-state covariance. All zeros asks FilterCore
	// for its default initialisation.
	P *mat.SymDense

	AngularRate r3.Vec // w_m
	LinearAccel r3.Vec // a_m
	Time        float64
}

// FilterCore is the estimator that owns the predict/update recursion.
type FilterCore interface {
	Init(meas *InitMeasurement)
}

// Hooks are the lifecycle points FilterCore calls into.
type Hooks interface {
	// Bootstrap builds a full state and covariance from one pose sample.
	Bootstrap(meas Pose, scale float64) *InitMeasurement
	// DefaultResetValues is applied to a zeroed state before bootstrap.
	DefaultResetValues(s *state.Vector)
	// ProcessNoise returns the auxiliary-block process noise for dt.
	ProcessNoise(s *state.Vector, dt float64) AuxNoise
	// GateCorrection zeroes correction entries of frozen blocks.
	GateCorrection(correction *mat.VecDense) *mat.VecDense
	// Validate enforces physical validity after a correction.
	Validate(s state.Vector) state.Vector
}
