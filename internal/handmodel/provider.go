// Package handmodel adapts external hand-model evaluators (MANO forward
// kinematics) that turn pose coefficients into 3D joint positions.
package handmodel

import (
	"context"
	"fmt"

	"github.com/kamusis/dexkit/internal/dexerr"
	"github.com/kamusis/dexkit/internal/joints"
)

// PoseDim and TransDim are the widths of one frame of MANO input.
const (
	PoseDim  = 48
	TransDim = 3
	BetaDim  = 10
)

// Input is one sequence worth of evaluator input.
type Input struct {
	Side  string
	Betas [BetaDim]float64
	Pose  [][PoseDim]float64
	Trans [][TransDim]float64
}

// Evaluator computes joint positions shaped (T, N, 3) in its native
// Convention.
//
// Implementations must return exactly len(in.Pose) frames.
type Evaluator interface {
	Convention() *joints.Convention
	Evaluate(ctx context.Context, in Input) (joints.Array, error)
}

// Config selects and parameterizes an evaluator.
type Config struct {
	// Kind is "command" or empty for no evaluator.
	Kind       string   `yaml:"kind"`
	Command    []string `yaml:"command,omitempty"`
	Convention string   `yaml:"convention,omitempty"`
}

// NewFromConfig returns the configured evaluator, or nil when none is
// configured.
func NewFromConfig(cfg Config) (Evaluator, error) {
	switch cfg.Kind {
	case "", "none":
		return nil, nil
	case "command":
		if len(cfg.Command) == 0 {
			return nil, fmt.Errorf("%w: evaluator command is empty", dexerr.ErrConfiguration)
		}
		conv := joints.MANO21
		if cfg.Convention != "" {
			c, err := joints.Lookup(cfg.Convention)
			if err != nil {
				return nil, err
			}
			conv = c
		}
		return NewCommand(cfg.Command[0], cfg.Command[1:], conv), nil
	default:
		return nil, fmt.Errorf("%w: unsupported evaluator kind %q", dexerr.ErrConfiguration, cfg.Kind)
	}
}
