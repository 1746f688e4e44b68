package state

import (
	"fmt"

	"gonum.org/v1/gonum/num/quat"
	"gonum.org/v1/gonum/spatial/r3"
)

// Identity is the unit quaternion with no rotation.
var Identity = quat.Number{Real: 1}

// Vector is the nominal filter state.
type Vector struct {
	P   r3.Vec      // position of the IMU in the world frame
	V   r3.Vec      // velocity of the IMU in the world frame
	Q   quat.Number // attitude of the IMU in the world frame
	BW  r3.Vec      // gyro bias
	BA  r3.Vec      // accelerometer bias
	L   float64     // visual scale
	QWV quat.Number // vision-world drift rotation
	QCI quat.Number // camera-IMU rotation
	PCI r3.Vec      // camera-IMU translation
}

// Zero returns a state with zero vectors, zero scale and identity
// rotations. FilterCore creates states this way before reset hooks run.
func Zero() Vector {
	return Vector{
		Q:   Identity,
		QWV: Identity,
		QCI: Identity,
	}
}

func (s Vector) String() string {
	return fmt.Sprintf("p=%s v=%s q=%s b_w=%s b_a=%s L=%g q_wv=%s q_ci=%s p_ci=%s",
		FormatVec(s.P), FormatVec(s.V), FormatQuat(s.Q), FormatVec(s.BW), FormatVec(s.BA),
		s.L, FormatQuat(s.QWV), FormatQuat(s.QCI), FormatVec(s.PCI))
}

// FormatVec renders a vector as "[x, y, z]".
func FormatVec(v r3.Vec) string {
	return fmt.Sprintf("[%g, %g, %g]", v.X, v.Y, v.Z)
}

// FormatQuat renders a quaternion as "(w,x,y,z): [w, x, y, z]".
func FormatQuat(q quat.Number) string {
	return fmt.Sprintf("(w,x,y,z): [%g, %g, %g, %g]", q.Real, q.Imag, q.Jmag, q.Kmag)
}
