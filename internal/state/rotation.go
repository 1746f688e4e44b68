package state

import (
	"gonum.org/v1/gonum/num/quat"
	"gonum.org/v1/gonum/spatial/r3"
)

// Normalize returns q scaled to unit norm. The zero quaternion has no
// direction and is returned as Identity.
func Normalize(q quat.Number) quat.Number {
	n := quat.Abs(q)
	if n == 0 {
		return Identity
	}
	return quat.Scale(1/n, q)
}

// Rotate applies the rotation of unit quaternion q to v (R(q)·v).
func Rotate(q quat.Number, v r3.Vec) r3.Vec {
	return r3.Rotation(q).Rotate(v)
}

// RotateInverse applies the transposed rotation of q to v (R(q)ᵀ·v).
func RotateInverse(q quat.Number, v r3.Vec) r3.Vec {
	return r3.Rotation(quat.Conj(q)).Rotate(v)
}
