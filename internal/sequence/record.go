package sequence

import (
	"fmt"

	"github.com/kamusis/dexkit/internal/hand"
	"github.com/kamusis/dexkit/internal/joints"
)

// Record is a fully parsed sequence. Per-frame slices all have length
// FrameCount.
type Record struct {
	Key          string
	Side         hand.Side
	Betas        [BetaDim]float64
	CandidateIDs []int
	GraspIndex   int
	GraspedID    int
	GraspedName  string
	FrameCount   int

	HandPose     [][poseDim]float64
	HandTrans    [][3]float64
	ObjectQuat   [][4]float64
	ObjectRotVec [][3]float64
	ObjectTrans  [][3]float64

	// Joints is nil until ComputeJoints has run.
	Joints *joints.Set

	candidateNames []string
}

// Assemble combines validated metadata and poses. It does no I/O.
func Assemble(meta Metadata, poses Poses) *Record {
	return &Record{
		Key:            meta.Location.Key,
		Side:           meta.Side,
		Betas:          meta.Betas,
		CandidateIDs:   append([]int(nil), meta.CandidateIDs...),
		GraspIndex:     meta.GraspIndex,
		GraspedID:      meta.GraspedID,
		GraspedName:    meta.GraspedName,
		FrameCount:     poses.Len(),
		HandPose:       poses.HandPose,
		HandTrans:      poses.HandTrans,
		ObjectQuat:     poses.ObjectQuat,
		ObjectRotVec:   poses.ObjectRotVec,
		ObjectTrans:    poses.ObjectTrans,
		candidateNames: append([]string(nil), meta.CandidateNames...),
	}
}

// CandidateNames returns the YCB names of CandidateIDs, in order.
func (r *Record) CandidateNames() []string {
	return append([]string(nil), r.candidateNames...)
}

// Order returns the convention name of the computed joints, or "" when
// joints have not been computed.
func (r *Record) Order() string {
	if r.Joints == nil {
		return ""
	}
	return r.Joints.Name()
}

// FrameRecord is the exported per-frame view of a Record.
type FrameRecord struct {
	SeqName      string      `json:"seqName"`
	HandPose     []float64   `json:"handPose"`
	HandTrans    []float64   `json:"handTrans"`
	HandBeta     []float64   `json:"handBeta"`
	ObjRot       []float64   `json:"objRot"`
	ObjTrans     []float64   `json:"objTrans"`
	ObjName      string      `json:"objName"`
	HandJoints3D [][]float64 `json:"handJoints3D"`
	Side         string      `json:"side"`
	Frame        int         `json:"frame"`
	Order        string      `json:"order"`
}

// Frame returns frame i. HandJoints3D is nil when joints have not been
// computed.
func (r *Record) Frame(i int) (FrameRecord, error) {
	if i < 0 || i >= r.FrameCount {
		return FrameRecord{}, fmt.Errorf("frame %d out of range [0, %d)", i, r.FrameCount)
	}
	fr := FrameRecord{
		SeqName:   r.Key,
		HandPose:  append([]float64(nil), r.HandPose[i][:]...),
		HandTrans: append([]float64(nil), r.HandTrans[i][:]...),
		HandBeta:  append([]float64(nil), r.Betas[:]...),
		ObjRot:    append([]float64(nil), r.ObjectRotVec[i][:]...),
		ObjTrans:  append([]float64(nil), r.ObjectTrans[i][:]...),
		ObjName:   r.GraspedName,
		Side:      r.Side.String(),
		Frame:     i,
		Order:     r.Order(),
	}
	if r.Joints != nil {
		fr.HandJoints3D = r.Joints.Joints.Frame(i)
	}
	return fr, nil
}
