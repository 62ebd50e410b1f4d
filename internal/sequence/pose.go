package sequence

import (
	"fmt"

	"github.com/kamusis/dexkit/internal/geometry"
)

const (
	// HandKey and ObjectKey are the pose.npz entry names.
	HandKey   = "pose_m"
	ObjectKey = "pose_y"

	handWidth   = 51
	poseDim     = 48
	objectWidth = 7
)

// Poses holds the per-frame arrays of one sequence. Every slice has the
// same length.
type Poses struct {
	HandPose     [][poseDim]float64
	HandTrans    [][3]float64
	ObjectQuat   [][4]float64 // w, x, y, z
	ObjectRotVec [][3]float64
	ObjectTrans  [][3]float64
}

// Len returns the frame count.
func (p Poses) Len() int { return len(p.HandPose) }

// ReadPoseArchive reads pose.npz, splits the hand array into pose
// coefficients and translation, and converts the grasped object's
// quaternions to rotation vectors.
func ReadPoseArchive(loc Location, meta Metadata) (Poses, error) {
	arrays, err := readNPZ(loc.PosePath(), HandKey, ObjectKey)
	if err != nil {
		return Poses{}, fail(loc.Key, StagePose, err)
	}
	p, err := splitPoses(arrays, meta)
	if err != nil {
		return Poses{}, fail(loc.Key, StagePose, fmt.Errorf("%w: %s: %v", ErrPoseArchiveMalformed, loc.PosePath(), err))
	}
	return p, nil
}

func splitPoses(arrays map[string]ndarray, meta Metadata) (Poses, error) {
	hm, ok := arrays[HandKey]
	if !ok {
		return Poses{}, fmt.Errorf("missing %s", HandKey)
	}
	ym, ok := arrays[ObjectKey]
	if !ok {
		return Poses{}, fmt.Errorf("missing %s", ObjectKey)
	}
	if len(hm.shape) != 3 || hm.dim(1) != 1 || hm.dim(2) != handWidth {
		return Poses{}, fmt.Errorf("%s has shape %v, want (T, 1, %d)", HandKey, hm.shape, handWidth)
	}
	if len(ym.shape) != 3 || ym.dim(2) != objectWidth {
		return Poses{}, fmt.Errorf("%s has shape %v, want (T, O, %d)", ObjectKey, ym.shape, objectWidth)
	}
	T, O := hm.dim(0), ym.dim(1)
	if ym.dim(0) != T {
		return Poses{}, fmt.Errorf("%s has %d frames, %s has %d", HandKey, T, ObjectKey, ym.dim(0))
	}
	if meta.GraspIndex >= O {
		return Poses{}, fmt.Errorf("%s has %d objects, grasp index is %d", ObjectKey, O, meta.GraspIndex)
	}
	if meta.NumFrames >= 0 && meta.NumFrames != T {
		return Poses{}, fmt.Errorf("archive has %d frames, num_frames is %d", T, meta.NumFrames)
	}

	p := Poses{
		HandPose:    make([][poseDim]float64, T),
		HandTrans:   make([][3]float64, T),
		ObjectQuat:  make([][4]float64, T),
		ObjectTrans: make([][3]float64, T),
	}
	quats := make([]float64, 0, 4*T)
	for t := 0; t < T; t++ {
		h := hm.data[t*handWidth : (t+1)*handWidth]
		copy(p.HandPose[t][:], h[:poseDim])
		copy(p.HandTrans[t][:], h[poseDim:])

		off := (t*O + meta.GraspIndex) * objectWidth
		y := ym.data[off : off+objectWidth]
		copy(p.ObjectQuat[t][:], y[:4])
		copy(p.ObjectTrans[t][:], y[4:])
		quats = append(quats, y[:4]...)
	}

	rv, err := geometry.QuaternionsToRotationVectors(quats)
	if err != nil {
		return Poses{}, err
	}
	p.ObjectRotVec = make([][3]float64, T)
	for t := range p.ObjectRotVec {
		copy(p.ObjectRotVec[t][:], rv[3*t:3*t+3])
	}
	return p, nil
}
