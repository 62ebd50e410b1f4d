package joints

import "fmt"

// Array is a dense row-major float64 array. Joint arrays are shaped
// (..., N, D): any number of leading batch dimensions, then the joint axis,
// then the coordinate axis.
type Array struct {
	Shape []int
	Data  []float64
}

// NewArray allocates a zeroed array of the given shape.
func NewArray(shape ...int) Array {
	n := 1
	for _, d := range shape {
		n *= d
	}
	return Array{Shape: append([]int(nil), shape...), Data: make([]float64, n)}
}

// Validate checks that Data holds exactly prod(Shape) elements.
func (a Array) Validate() error {
	n := 1
	for _, d := range a.Shape {
		if d < 0 {
			return fmt.Errorf("%w: negative dimension in %v", ErrShapeMismatch, a.Shape)
		}
		n *= d
	}
	if n != len(a.Data) {
		return fmt.Errorf("%w: shape %v needs %d values, have %d", ErrShapeMismatch, a.Shape, n, len(a.Data))
	}
	return nil
}

// Clone returns a deep copy.
func (a Array) Clone() Array {
	data := make([]float64, len(a.Data))
	copy(data, a.Data)
	return Array{Shape: append([]int(nil), a.Shape...), Data: data}
}

// Frame returns the sub-array for leading index t as an N x D table. It
// assumes a (T, N, D) array.
func (a Array) Frame(t int) [][]float64 {
	if len(a.Shape) != 3 {
		return nil
	}
	n, d := a.Shape[1], a.Shape[2]
	base := t * n * d
	out := make([][]float64, n)
	for j := 0; j < n; j++ {
		out[j] = append([]float64(nil), a.Data[base+j*d:base+(j+1)*d]...)
	}
	return out
}

// Set is a joint array tagged with the convention its joint axis follows.
type Set struct {
	Convention *Convention
	Joints     Array
}

// Name returns the tagged convention name, or "" for an untagged set.
func (s Set) Name() string {
	if s.Convention == nil {
		return ""
	}
	return s.Convention.Name()
}
