package sequence

import (
	"context"
	"fmt"

	"github.com/kamusis/dexkit/internal/dexerr"
	"github.com/kamusis/dexkit/internal/handmodel"
	"github.com/kamusis/dexkit/internal/joints"
)

// ComputeJoints asks ev for the record's hand joints and returns them in
// the want convention (ev's native convention when want is nil). rec is
// not modified.
func ComputeJoints(ctx context.Context, ev handmodel.Evaluator, rec *Record, want *joints.Convention) (joints.Set, error) {
	if ev == nil {
		return joints.Set{}, fail(rec.Key, StageJoints, fmt.Errorf("%w: no hand-model evaluator configured", dexerr.ErrConfiguration))
	}
	native := ev.Convention()
	if want == nil {
		want = native
	}

	in := handmodel.Input{
		Side:  rec.Side.String(),
		Betas: rec.Betas,
		Pose:  rec.HandPose,
		Trans: rec.HandTrans,
	}
	arr, err := ev.Evaluate(ctx, in)
	if err != nil {
		return joints.Set{}, fail(rec.Key, StageJoints, err)
	}
	if err := arr.Validate(); err != nil {
		return joints.Set{}, fail(rec.Key, StageJoints, err)
	}
	if len(arr.Shape) != 3 || arr.Shape[0] != rec.FrameCount || arr.Shape[1] != native.Size() || arr.Shape[2] != 3 {
		return joints.Set{}, fail(rec.Key, StageJoints, fmt.Errorf("%w: evaluator returned %v, want (%d, %d, 3)",
			joints.ErrShapeMismatch, arr.Shape, rec.FrameCount, native.Size()))
	}

	set := joints.Set{Convention: native, Joints: arr}
	if want == native {
		return set, nil
	}
	r, err := joints.NewReindexer(native, want)
	if err != nil {
		return joints.Set{}, fail(rec.Key, StageJoints, err)
	}
	out, err := r.Convert(set)
	if err != nil {
		return joints.Set{}, fail(rec.Key, StageJoints, err)
	}
	return out, nil
}
