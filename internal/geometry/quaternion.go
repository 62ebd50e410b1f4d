// Package geometry converts object orientations between quaternion and
// axis-angle forms.
//
// Quaternions are scalar-first (w, x, y, z) and are represented with gonum's
// quat.Number{Real: w, Imag: x, Jmag: y, Kmag: z}.
package geometry

import (
	"fmt"
	"math"

	"github.com/kamusis/dexkit/internal/dexerr"
	"gonum.org/v1/gonum/num/quat"
	"gonum.org/v1/gonum/spatial/r3"
)

// ErrBadQuaternionBuffer indicates a flat buffer whose length is not a
// multiple of 4.
var ErrBadQuaternionBuffer = fmt.Errorf("%w: quaternion buffer", dexerr.ErrValidation)

// DefaultAxis is returned for quaternions with a zero vector part. Any axis
// is valid at angle 0; this one is kept for compatibility with existing
// exports, not because it means anything.
var DefaultAxis = r3.Vec{X: 1}

// AxisAngle converts q to a unit axis and an angle in radians.
//
// The zero tests are exact: a vector part with norm 0 yields DefaultAxis and
// w == 0 yields exactly π. No normalization is applied to q and the sign of w
// is not canonicalized, so w < 0 gives a negative angle.
func AxisAngle(q quat.Number) (axis r3.Vec, angle float64) {
	e := r3.Vec{X: q.Imag, Y: q.Jmag, Z: q.Kmag}
	n := r3.Norm(e)

	axis = DefaultAxis
	if n != 0 {
		// Divide per component: 1/n overflows for subnormal n.
		axis = r3.Vec{X: e.X / n, Y: e.Y / n, Z: e.Z / n}
	}
	if q.Real == 0 {
		return axis, math.Pi
	}
	return axis, 2 * math.Atan(n/q.Real)
}

// RotationVector returns axis scaled by angle, whose norm is |angle|.
func RotationVector(axis r3.Vec, angle float64) r3.Vec {
	return r3.Scale(angle, axis)
}

// QuaternionToRotationVector chains AxisAngle and RotationVector.
func QuaternionToRotationVector(q quat.Number) r3.Vec {
	return RotationVector(AxisAngle(q))
}

// QuaternionsToAxisAngle converts a flat (..., 4) buffer of wxyz quaternions.
// It returns a (..., 3) axis buffer and a (...) angle buffer with the same
// leading layout.
func QuaternionsToAxisAngle(data []float64) (axes []float64, angles []float64, err error) {
	if len(data)%4 != 0 {
		return nil, nil, fmt.Errorf("%w: length %d is not a multiple of 4", ErrBadQuaternionBuffer, len(data))
	}
	n := len(data) / 4
	axes = make([]float64, 3*n)
	angles = make([]float64, n)
	for i := 0; i < n; i++ {
		q := data[4*i : 4*i+4]
		axis, angle := AxisAngle(quat.Number{Real: q[0], Imag: q[1], Jmag: q[2], Kmag: q[3]})
		axes[3*i], axes[3*i+1], axes[3*i+2] = axis.X, axis.Y, axis.Z
		angles[i] = angle
	}
	return axes, angles, nil
}

// QuaternionsToRotationVectors converts a flat (..., 4) buffer to a flat
// (..., 3) buffer of rotation vectors.
func QuaternionsToRotationVectors(data []float64) ([]float64, error) {
	axes, angles, err := QuaternionsToAxisAngle(data)
	if err != nil {
		return nil, err
	}
	for i, a := range angles {
		axes[3*i] *= a
		axes[3*i+1] *= a
		axes[3*i+2] *= a
	}
	return axes, nil
}
