package sequence

import (
	"fmt"

	"github.com/kamusis/dexkit/internal/dexerr"
)

var (
	ErrSequenceNotFound    = fmt.Errorf("%w: sequence directory", dexerr.ErrNotFound)
	ErrMetadataNotFound    = fmt.Errorf("%w: meta.yml", dexerr.ErrNotFound)
	ErrCalibrationMissing  = fmt.Errorf("%w: mano calibration", dexerr.ErrNotFound)
	ErrPoseArchiveNotFound = fmt.Errorf("%w: pose.npz", dexerr.ErrNotFound)

	ErrMetadataInvalid      = fmt.Errorf("%w: invalid meta.yml", dexerr.ErrValidation)
	ErrCalibrationMalformed = fmt.Errorf("%w: invalid mano calibration", dexerr.ErrValidation)
	ErrInvalidGraspIndex    = fmt.Errorf("%w: invalid grasp index", dexerr.ErrValidation)
	ErrPoseArchiveMalformed = fmt.Errorf("%w: malformed pose.npz", dexerr.ErrValidation)
)

// Stage names a step of sequence parsing.
type Stage string

const (
	StageResolve  Stage = "resolve"
	StageMetadata Stage = "metadata"
	StagePose     Stage = "pose"
	StageJoints   Stage = "joints"
)

// Error reports which sequence and stage failed. Use errors.Is on it to test
// for the sentinels above or the dexerr categories.
type Error struct {
	Key   string
	Stage Stage
	Err   error
}

func (e *Error) Error() string {
	return fmt.Sprintf("sequence %s: %s: %v", e.Key, e.Stage, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

func fail(key string, stage Stage, err error) error {
	return &Error{Key: key, Stage: stage, Err: err}
}
