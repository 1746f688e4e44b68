package posemsf

import (
	"fmt"
	"sync/atomic"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/num/quat"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/banshee-data/posefuse/internal/config"
	"github.com/banshee-data/posefuse/internal/state"
	"github.com/banshee-data/posefuse/internal/timeutil"
)

// SensorManager wires the pose sensor hooks to FilterCore and receives
// configuration snapshots. Hook calls must be serialised by FilterCore;
// OnConfig may be called from any goroutine.
type SensorManager struct {
	core  FilterCore
	meas  MeasurementPort
	clock timeutil.Clock

	initializer *Initializer
	gate        *CorrectionGate
	validator   *Validator

	cfg atomic.Pointer[config.PoseSensorConfig]
}

var _ Hooks = (*SensorManager)(nil)

// NewSensorManager builds a manager from explicit calibration priors.
// A nil clock uses the real clock. A nil measurement port behaves as one
// that has received nothing yet; a nil core drops init events with a
// warning.
func NewSensorManager(core FilterCore, meas MeasurementPort, priors Priors, clock timeutil.Clock) *SensorManager {
	if clock == nil {
		clock = timeutil.RealClock{}
	}
	if meas == nil {
		meas = noMeasurements{}
	}
	if core == nil {
		core = detachedCore{}
	}
	m := &SensorManager{
		core:        core,
		meas:        meas,
		clock:       clock,
		initializer: NewInitializer(priors, clock),
		gate:        NewCorrectionGate(state.PoseLayout),
		validator:   NewValidator(clock),
	}
	m.cfg.Store(config.DefaultPoseSensorConfig())
	return m
}

// NewSensorManagerFromParams reads the calibration priors from namespace
// of src once and builds a manager from them.
func NewSensorManagerFromParams(core FilterCore, meas MeasurementPort, src ParamSource, namespace string, clock timeutil.Clock) (*SensorManager, error) {
	priors, err := LoadPriors(src, namespace)
	if err != nil {
		return nil, fmt.Errorf("pose sensor manager: %w", err)
	}
	return NewSensorManager(core, meas, priors, clock), nil
}

// Config returns the current configuration snapshot. Callers must not
// modify it.
func (m *SensorManager) Config() *config.PoseSensorConfig {
	return m.cfg.Load()
}

// OnConfig receives a whole configuration snapshot. Measurement noises
// and delay are forwarded to the measurement handler. If the snapshot
// carries init_filter the filter is initialised once with initial_scale
// and the trigger is cleared. The stored snapshot is returned so the
// config source can reflect the cleared trigger.
func (m *SensorManager) OnConfig(cfg *config.PoseSensorConfig) *config.PoseSensorConfig {
	snap := cfg.Clone()
	if snap == nil {
		snap = config.EmptyPoseSensorConfig()
	}
	fire := snap.GetInitFilter()
	if fire {
		f := false
		snap.InitFilter = &f
	}
	m.cfg.Store(snap)

	diagf("config: noise_scale=%g noise_qwv=%g noise_qci=%g noise_pci=%g fixed_scale=%v fixed_calib=%v delay=%g",
		snap.GetNoiseScale(), snap.GetNoiseQWV(), snap.GetNoiseQCI(), snap.GetNoisePCI(),
		snap.GetFixedScale(), snap.GetFixedCalib(), snap.GetDelay())

	if fire {
		m.Init(snap.GetInitialScale())
	}
	if t, ok := m.meas.(MeasurementTuner); ok {
		t.SetNoises(snap.GetNoisePosition(), snap.GetNoiseAttitude())
		t.SetDelay(snap.GetDelay())
	}
	return snap
}

// Init bootstraps the filter from the latest measurement with the given
// scale and hands the complete result to FilterCore.
func (m *SensorManager) Init(scale float64) *InitMeasurement {
	meas := Pose{
		Position:    m.meas.LatestPosition(),
		Orientation: m.meas.LatestOrientation(),
		Time:        m.clock.Now(),
	}
	im := m.Bootstrap(meas, scale)
	m.core.Init(im)
	return im
}

// Bootstrap implements Hooks.
func (m *SensorManager) Bootstrap(meas Pose, scale float64) *InitMeasurement {
	return m.initializer.Bootstrap(meas, scale)
}

// DefaultResetValues sets the scale of a freshly zeroed state to 1.
func (m *SensorManager) DefaultResetValues(s *state.Vector) {
	s.L = 1
}

// ProcessNoise implements Hooks using the current config snapshot.
func (m *SensorManager) ProcessNoise(_ *state.Vector, dt float64) AuxNoise {
	return ProcessNoise(m.cfg.Load(), dt)
}

// GateCorrection implements Hooks using the current freeze flags.
func (m *SensorManager) GateCorrection(correction *mat.VecDense) *mat.VecDense {
	cfg := m.cfg.Load()
	return m.gate.Gate(correction, cfg.GetFixedScale(), cfg.GetFixedCalib())
}

// Validate implements Hooks.
func (m *SensorManager) Validate(s state.Vector) state.Vector {
	return m.validator.Validate(s)
}

// noMeasurements reports the "nothing received" sentinels.
type noMeasurements struct{}

func (noMeasurements) LatestPosition() r3.Vec         { return r3.Vec{} }
func (noMeasurements) LatestOrientation() quat.Number { return state.Identity }

// detachedCore stands in when no FilterCore is attached.
type detachedCore struct{}

func (detachedCore) Init(meas *InitMeasurement) {
	opsf("No filter core attached - dropping init %s", meas.ID)
}
