// Package posemsf implements the auxiliary-state hooks of the single pose
// sensor EKF: bootstrap from one pose sample, per-block process noise for
// the scale/drift/extrinsic states, correction freezing, and the
// post-correction scale clamp.
//
// Key types: SensorManager (the Hooks implementation and config callback),
// Initializer, CorrectionGate, Validator.
//
// FilterCore owns the predict/update recursion and calls into these hooks
// from a single goroutine. Only configuration snapshots may arrive
// concurrently; they are read fresh at every hook call.
package posemsf
