package geometry

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/num/quat"
	"gonum.org/v1/gonum/spatial/r3"
)

func TestAxisAngle_Identity(t *testing.T) {
	axis, angle := AxisAngle(quat.Number{Real: 1})
	assert.Equal(t, 0.0, angle)
	assert.Equal(t, r3.Vec{X: 1}, axis)
}

func TestAxisAngle_HalfTurn(t *testing.T) {
	axis, angle := AxisAngle(quat.Number{Kmag: 1})
	assert.Equal(t, math.Pi, angle)
	assert.Equal(t, r3.Vec{Z: 1}, axis)
}

func TestAxisAngle_XAxis(t *testing.T) {
	for _, c := range []struct{ w, x float64 }{{1, 1}, {0.9, 0.1}, {0.2, 3}} {
		axis, angle := AxisAngle(quat.Number{Real: c.w, Imag: c.x})
		assert.Equal(t, r3.Vec{X: 1}, axis)
		assert.Equal(t, 2*math.Atan(c.x/c.w), angle)
	}
}

func TestAxisAngle_TinyVectorPart(t *testing.T) {
	eps := math.SmallestNonzeroFloat64
	axis, angle := AxisAngle(quat.Number{Real: 1, Jmag: eps})
	// Non-zero norm: the axis follows the vector part, however small.
	assert.Equal(t, r3.Vec{Y: 1}, axis)
	assert.InDelta(t, 0, angle, 1e-300)
}

func TestRotationVectorNormIsAngle(t *testing.T) {
	q := quat.Number{Real: 0.5, Imag: 0.5, Jmag: -0.5, Kmag: 0.5}
	axis, angle := AxisAngle(q)
	rv := RotationVector(axis, angle)
	assert.InDelta(t, angle, r3.Norm(rv), 1e-12)
	assert.InDelta(t, 1, r3.Norm(axis), 1e-12)
	assert.InDelta(t, 2*math.Pi/3, angle, 1e-12)
}

func TestQuaternionsToRotationVectors(t *testing.T) {
	data := []float64{
		1, 0, 0, 0,
		0, 0, 0, 1,
		math.Cos(0.25), math.Sin(0.25), 0, 0,
	}
	rv, err := QuaternionsToRotationVectors(data)
	require.NoError(t, err)
	want := []float64{
		0, 0, 0,
		0, 0, math.Pi,
		0.5, 0, 0,
	}
	assert.True(t, floats.EqualApprox(want, rv, 1e-12), "got %v", rv)

	axes, angles, err := QuaternionsToAxisAngle(data)
	require.NoError(t, err)
	assert.Len(t, axes, 9)
	assert.Len(t, angles, 3)
}

func TestQuaternionsBadLength(t *testing.T) {
	_, err := QuaternionsToRotationVectors([]float64{1, 0, 0})
	assert.ErrorIs(t, err, ErrBadQuaternionBuffer)
}
