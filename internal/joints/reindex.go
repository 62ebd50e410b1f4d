package joints

import "fmt"

// Reindexer reorders joint arrays from one convention to another:
//
//	dst[..., i, :] = src[..., perm[i], :]
type Reindexer struct {
	src  *Convention
	dst  *Convention
	perm []int
}

// NewReindexer matches every destination label against the source layout.
// It fails with ErrConventionMismatch when sizes differ or a destination
// label has no source counterpart.
func NewReindexer(src, dst *Convention) (*Reindexer, error) {
	if src == nil || dst == nil {
		return nil, fmt.Errorf("%w: nil convention", ErrConventionMismatch)
	}
	if src.Size() != dst.Size() {
		return nil, fmt.Errorf("%w: %s has %d joints, %s has %d", ErrConventionMismatch, src.Name(), src.Size(), dst.Name(), dst.Size())
	}
	n := dst.Size()
	perm := make([]int, n)
	for i := 0; i < n; i++ {
		l := dst.labels[i]
		j, ok := src.byLabel[l]
		if !ok {
			return nil, fmt.Errorf("%w: %s joint %s has no counterpart in %s", ErrConventionMismatch, dst.Name(), l, src.Name())
		}
		perm[i] = j
	}
	return &Reindexer{src: src, dst: dst, perm: perm}, nil
}

// MustReindexer is like NewReindexer but panics on error.
func MustReindexer(src, dst *Convention) *Reindexer {
	r, err := NewReindexer(src, dst)
	if err != nil {
		panic(err)
	}
	return r
}

// Source returns the convention Apply reads from.
func (r *Reindexer) Source() *Convention { return r.src }

// Destination returns the convention Apply produces.
func (r *Reindexer) Destination() *Convention { return r.dst }

// Permutation returns a copy of the index permutation.
func (r *Reindexer) Permutation() []int {
	return append([]int(nil), r.perm...)
}

// Apply returns a reordered copy of a, which must be shaped (..., N, D) with
// N equal to the destination size. a is not modified.
func (r *Reindexer) Apply(a Array) (Array, error) {
	if len(a.Shape) < 2 {
		return Array{}, fmt.Errorf("%w: need (..., %d, D), got %v", ErrShapeMismatch, len(r.perm), a.Shape)
	}
	if err := a.Validate(); err != nil {
		return Array{}, err
	}
	n := a.Shape[len(a.Shape)-2]
	if n != r.dst.Size() {
		return Array{}, fmt.Errorf("%w: expected joint axis %d, got %d (shape %v)", ErrShapeMismatch, r.dst.Size(), n, a.Shape)
	}
	d := a.Shape[len(a.Shape)-1]
	block := n * d

	out := Array{Shape: append([]int(nil), a.Shape...), Data: make([]float64, len(a.Data))}
	if block == 0 {
		return out, nil
	}
	for base := 0; base < len(a.Data); base += block {
		for i, j := range r.perm {
			copy(out.Data[base+i*d:base+(i+1)*d], a.Data[base+j*d:base+(j+1)*d])
		}
	}
	return out, nil
}

// Convert reindexes a tagged set. The set must be tagged with the source
// convention; the result is tagged with the destination.
func (r *Reindexer) Convert(s Set) (Set, error) {
	if s.Convention == nil || s.Convention.Name() != r.src.Name() {
		return Set{}, fmt.Errorf("%w: reindexer expects %s, set is tagged %q", ErrConventionMismatch, r.src.Name(), s.Name())
	}
	out, err := r.Apply(s.Joints)
	if err != nil {
		return Set{}, err
	}
	return Set{Convention: r.dst, Joints: out}, nil
}

// Inverse returns the reindexer mapping destination back to source.
func (r *Reindexer) Inverse() *Reindexer {
	inv := make([]int, len(r.perm))
	for i, j := range r.perm {
		inv[j] = i
	}
	return &Reindexer{src: r.dst, dst: r.src, perm: inv}
}

func (r *Reindexer) String() string {
	return fmt.Sprintf("Reindexer(%s -> %s, N=%d)", r.src.Name(), r.dst.Name(), len(r.perm))
}
