package handmodel

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"testing"

	"github.com/kamusis/dexkit/internal/dexerr"
	"github.com/kamusis/dexkit/internal/joints"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestHelperProcess is not a real test: it is the evaluator program run by
// the tests below through os.Args[0].
func TestHelperProcess(t *testing.T) {
	if os.Getenv("DEXKIT_HELPER_EVALUATOR") != "1" {
		return
	}
	var req commandRequest
	if err := json.NewDecoder(os.Stdin).Decode(&req); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	if os.Getenv("DEXKIT_HELPER_FAIL") == "1" {
		fmt.Fprintln(os.Stderr, "mano layer exploded")
		os.Exit(3)
	}
	n := 21
	if v := os.Getenv("DEXKIT_HELPER_JOINTS"); v != "" {
		fmt.Sscanf(v, "%d", &n)
	}
	out := commandResponse{Joints: make([][][]float64, len(req.Pose))}
	for t := range req.Pose {
		out.Joints[t] = make([][]float64, n)
		for j := 0; j < n; j++ {
			out.Joints[t][j] = []float64{float64(t), float64(j), req.Trans[t][2] + req.Betas[0]}
		}
	}
	_ = json.NewEncoder(os.Stdout).Encode(out)
	os.Exit(0)
}

func helperCommand(env ...string) *Command {
	c := NewCommand(os.Args[0], []string{"-test.run=TestHelperProcess", "--"}, joints.MANO21)
	return c.WithEnv(append([]string{"DEXKIT_HELPER_EVALUATOR=1"}, env...)...)
}

func sampleInput(frames int) Input {
	in := Input{Side: "right", Pose: make([][PoseDim]float64, frames), Trans: make([][TransDim]float64, frames)}
	in.Betas[0] = 0.5
	for t := range in.Trans {
		in.Trans[t][2] = float64(t)
	}
	return in
}

func TestCommand_Evaluate(t *testing.T) {
	arr, err := helperCommand().Evaluate(context.Background(), sampleInput(2))
	require.NoError(t, err)
	assert.Equal(t, []int{2, 21, 3}, arr.Shape)
	require.NoError(t, arr.Validate())

	// frame 1, joint 4
	got := arr.Data[(1*21+4)*3 : (1*21+5)*3]
	assert.Equal(t, []float64{1, 4, 1.5}, got)
}

func TestCommand_WrongJointCount(t *testing.T) {
	_, err := helperCommand("DEXKIT_HELPER_JOINTS=16").Evaluate(context.Background(), sampleInput(1))
	assert.ErrorIs(t, err, joints.ErrShapeMismatch)
}

func TestCommand_FailureCarriesStderr(t *testing.T) {
	_, err := helperCommand("DEXKIT_HELPER_FAIL=1").Evaluate(context.Background(), sampleInput(1))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "mano layer exploded")
}

func TestNewFromConfig(t *testing.T) {
	ev, err := NewFromConfig(Config{})
	require.NoError(t, err)
	assert.Nil(t, ev)

	ev, err = NewFromConfig(Config{Kind: "command", Command: []string{"mano-eval", "--cpu"}, Convention: "ho3d"})
	require.NoError(t, err)
	require.NotNil(t, ev)
	assert.Same(t, joints.HO3D, ev.Convention())
	assert.Equal(t, "mano-eval", ev.(*Command).Path())

	_, err = NewFromConfig(Config{Kind: "command"})
	assert.ErrorIs(t, err, dexerr.ErrConfiguration)

	_, err = NewFromConfig(Config{Kind: "torch"})
	assert.ErrorIs(t, err, dexerr.ErrConfiguration)
}
