package handmodel

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"strings"

	"github.com/kamusis/dexkit/internal/joints"
)

// Command runs an external program as the evaluator. The request is written
// to stdin as JSON:
//
//	{"side": "right", "betas": [10], "pose": [[48]...], "trans": [[3]...]}
//
// and the program must print {"joints": [[[x, y, z], ...], ...]} on stdout.
type Command struct {
	path       string
	args       []string
	convention *joints.Convention
	env        []string
}

// NewCommand returns an evaluator that runs path with args and reports
// joints in conv.
func NewCommand(path string, args []string, conv *joints.Convention) *Command {
	return &Command{path: path, args: append([]string(nil), args...), convention: conv}
}

// WithEnv returns a copy of c that runs with extra environment entries.
func (c *Command) WithEnv(env ...string) *Command {
	cp := *c
	cp.env = append(append([]string(nil), c.env...), env...)
	return &cp
}

// Path returns the program path.
func (c *Command) Path() string { return c.path }

func (c *Command) Convention() *joints.Convention { return c.convention }

type commandRequest struct {
	Side  string              `json:"side"`
	Betas []float64           `json:"betas"`
	Pose  [][PoseDim]float64  `json:"pose"`
	Trans [][TransDim]float64 `json:"trans"`
}

type commandResponse struct {
	Joints [][][]float64 `json:"joints"`
}

func (c *Command) Evaluate(ctx context.Context, in Input) (joints.Array, error) {
	req := commandRequest{Side: in.Side, Betas: in.Betas[:], Pose: in.Pose, Trans: in.Trans}
	if req.Pose == nil {
		req.Pose = [][PoseDim]float64{}
	}
	if req.Trans == nil {
		req.Trans = [][TransDim]float64{}
	}
	body, err := json.Marshal(req)
	if err != nil {
		return joints.Array{}, err
	}

	cmd := exec.CommandContext(ctx, c.path, c.args...)
	cmd.Stdin = bytes.NewReader(body)
	if len(c.env) > 0 {
		cmd.Env = append(cmd.Environ(), c.env...)
	}
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg != "" {
			return joints.Array{}, fmt.Errorf("evaluator %s failed: %w\n%s", c.path, err, msg)
		}
		return joints.Array{}, fmt.Errorf("evaluator %s failed: %w", c.path, err)
	}

	var resp commandResponse
	if err := json.Unmarshal(stdout.Bytes(), &resp); err != nil {
		return joints.Array{}, fmt.Errorf("invalid evaluator output from %s: %w", c.path, err)
	}
	return toArray(resp.Joints, c.convention.Size())
}

func toArray(frames [][][]float64, n int) (joints.Array, error) {
	out := joints.NewArray(len(frames), n, 3)
	for t, f := range frames {
		if len(f) != n {
			return joints.Array{}, fmt.Errorf("%w: frame %d has %d joints, want %d", joints.ErrShapeMismatch, t, len(f), n)
		}
		for j, p := range f {
			if len(p) != 3 {
				return joints.Array{}, fmt.Errorf("%w: frame %d joint %d has %d coordinates", joints.ErrShapeMismatch, t, j, len(p))
			}
			copy(out.Data[(t*n+j)*3:], p)
		}
	}
	return out, nil
}
