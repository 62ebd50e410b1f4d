package joints

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/kamusis/dexkit/internal/dexerr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuiltinPermutation(t *testing.T) {
	want := []int{0, 5, 6, 7, 9, 10, 11, 17, 18, 19, 13, 14, 15, 1, 2, 3, 4, 8, 12, 16, 20}
	if diff := cmp.Diff(want, MANOToHO3D.Permutation()); diff != "" {
		t.Fatalf("MANO->HO3D permutation (-want +got):\n%s", diff)
	}
	assert.Equal(t, 21, MANO21.Size())
	assert.Equal(t, 21, HO3D.Size())
}

func TestPermutationIsBijection(t *testing.T) {
	for _, r := range []*Reindexer{MANOToHO3D, HO3DToMANO, MustReindexer(HO3D, HO3D)} {
		seen := make(map[int]bool)
		for _, j := range r.Permutation() {
			require.False(t, seen[j], "%s: index %d repeated", r, j)
			require.True(t, j >= 0 && j < r.Destination().Size(), "%s: index %d out of range", r, j)
			seen[j] = true
		}
		assert.Len(t, seen, r.Destination().Size())
	}
}

func TestApplyInverseRoundTrip(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	shapes := [][]int{
		{21, 3},
		{4, 21, 3},
		{2, 5, 21, 2},
		{0, 21, 3},
	}
	for _, shape := range shapes {
		a := NewArray(shape...)
		for i := range a.Data {
			a.Data[i] = rng.NormFloat64()
		}
		orig := a.Clone()

		fwd, err := MANOToHO3D.Apply(a)
		require.NoError(t, err)
		back, err := MANOToHO3D.Inverse().Apply(fwd)
		require.NoError(t, err)

		assert.Equal(t, orig.Data, back.Data, "shape %v", shape)
		assert.Equal(t, orig.Data, a.Data, "input modified for shape %v", shape)
	}
}

func TestApplyMovesWholeRows(t *testing.T) {
	a := NewArray(1, 21, 3)
	for j := 0; j < 21; j++ {
		for k := 0; k < 3; k++ {
			a.Data[j*3+k] = float64(j*10 + k)
		}
	}
	out, err := MANOToHO3D.Apply(a)
	require.NoError(t, err)
	// HO3D joint 17 is the index fingertip, MANO joint 8.
	assert.Equal(t, []float64{80, 81, 82}, out.Data[17*3:18*3])
	// HO3D joint 13 is the thumb base, MANO joint 1.
	assert.Equal(t, []float64{10, 11, 12}, out.Data[13*3:14*3])
}

func TestApplyShapeMismatch(t *testing.T) {
	cases := []Array{
		NewArray(20, 3),
		NewArray(3),
		{Shape: []int{21, 3}, Data: make([]float64, 10)},
	}
	for _, a := range cases {
		_, err := MANOToHO3D.Apply(a)
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrShapeMismatch), "got %v", err)
		assert.True(t, errors.Is(err, dexerr.ErrValidation))
	}
}

func TestNewReindexerMissingLabel(t *testing.T) {
	other := MustConvention("renamed", []Part{
		{Name: "wrist", Joints: []int{0}},
		{Name: "thumb", Joints: []int{1, 2, 3, 4}},
		{Name: "index", Joints: []int{5, 6, 7, 8}},
		{Name: "middle", Joints: []int{9, 10, 11, 12}},
		{Name: "ring", Joints: []int{13, 14, 15, 16}},
		{Name: "little", Joints: []int{17, 18, 19, 20}},
	})
	_, err := NewReindexer(MANO21, other)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrConventionMismatch)
	assert.ErrorIs(t, err, dexerr.ErrConfiguration)

	small := MustConvention("wrist-only", []Part{{Name: "wrist", Joints: []int{0}}})
	_, err = NewReindexer(MANO21, small)
	assert.ErrorIs(t, err, ErrConventionMismatch)
}

func TestNewConventionValidation(t *testing.T) {
	cases := map[string][]Part{
		"duplicate": {{Name: "a", Joints: []int{0, 0}}},
		"gap":       {{Name: "a", Joints: []int{0, 2}}},
		"negative":  {{Name: "a", Joints: []int{-1, 0}}},
		"empty":     {{Name: "a", Joints: nil}},
		"twice":     {{Name: "a", Joints: []int{0}}, {Name: "a", Joints: []int{1}}},
		"none":      nil,
	}
	for name, parts := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := NewConvention("bad", parts)
			assert.ErrorIs(t, err, ErrInvalidConvention)
		})
	}
}

func TestNewConventionFromMap(t *testing.T) {
	c, err := NewConventionFromMap("custom", map[string][]int{
		"wrist":  {0},
		"thumb":  {1, 2, 3, 4},
		"index":  {5, 6, 7, 8},
		"middle": {9, 10, 11, 12},
		"ring":   {13, 14, 15, 16},
		"pinky":  {17, 18, 19, 20},
	})
	require.NoError(t, err)

	r, err := NewReindexer(MANO21, c)
	require.NoError(t, err)
	for i, j := range r.Permutation() {
		assert.Equal(t, i, j)
	}
	idx, ok := c.Index(Label{Part: "pinky", Position: 3})
	assert.True(t, ok)
	assert.Equal(t, 20, idx)
}

func TestConvertChecksTag(t *testing.T) {
	s := Set{Convention: MANO21, Joints: NewArray(2, 21, 3)}
	out, err := MANOToHO3D.Convert(s)
	require.NoError(t, err)
	assert.Equal(t, HO3D.Name(), out.Name())

	_, err = MANOToHO3D.Convert(out)
	assert.ErrorIs(t, err, ErrConventionMismatch)
}

func TestLookup(t *testing.T) {
	c, err := Lookup("HO3D")
	require.NoError(t, err)
	assert.Same(t, HO3D, c)

	c, err = Lookup("mano")
	require.NoError(t, err)
	assert.Same(t, MANO21, c)

	_, err = Lookup("smplx")
	assert.ErrorIs(t, err, dexerr.ErrUnknownKey)
}
