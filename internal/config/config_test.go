package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/kamusis/dexkit/internal/dexerr"
	"github.com/kamusis/dexkit/internal/joints"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestLoad_MissingDefaultFile(t *testing.T) {
	withHome(t)

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.ErrorIs(t, err, dexerr.ErrNotFound)
}

func TestLoad_ResolvesRelativePaths(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "exporter.yaml")
	body := `data_root: /data/dexycb
out_root: out
hand_splits: out/config/hand_splits.yaml
side: left
format: arrow
order: ho3d
evaluator:
  kind: command
  command: [mano-eval, --cpu]
`
	require.NoError(t, os.WriteFile(p, []byte(body), 0o644))

	cfg, err := Load(p)
	require.NoError(t, err)
	assert.Equal(t, filepath.Clean("/data/dexycb"), cfg.DataRoot)
	assert.Equal(t, filepath.Join(dir, "out"), cfg.OutRoot)
	assert.Equal(t, filepath.Join(dir, "out", "config", "hand_splits.yaml"), cfg.ManifestPath())
	assert.Equal(t, "left", cfg.Side)
	assert.Equal(t, "arrow", cfg.Format)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, []string{"mano-eval", "--cpu"}, cfg.Evaluator.Command)
	require.NoError(t, cfg.Validate())

	conv, err := cfg.Order.Convention()
	require.NoError(t, err)
	assert.Same(t, joints.HO3D, conv)
}

func TestOrder_Mapping(t *testing.T) {
	var cfg Config
	body := `order:
  name: reversed
  joints:
    all: [20, 19, 18, 17, 16, 15, 14, 13, 12, 11, 10, 9, 8, 7, 6, 5, 4, 3, 2, 1, 0]
`
	require.NoError(t, yaml.Unmarshal([]byte(body), &cfg))
	conv, err := cfg.Order.Convention()
	require.NoError(t, err)
	assert.Equal(t, "reversed", conv.Name())
	assert.Equal(t, 21, conv.Size())

	out, err := yaml.Marshal(Config{Order: Order{Name: "mano"}})
	require.NoError(t, err)
	assert.Equal(t, "order: mano\n", string(out))

	out, err = yaml.Marshal(Config{})
	require.NoError(t, err)
	assert.Equal(t, "{}\n", string(out))

	var unset Order
	conv, err = unset.Convention()
	require.NoError(t, err)
	assert.Nil(t, conv)
}

func TestValidate_Aggregates(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Side = "middle"
	cfg.Format = "pickle"
	cfg.Order = Order{Name: "smplx"}
	cfg.Evaluator.Kind = "torch"

	err := cfg.Validate()
	require.Error(t, err)
	assert.ErrorIs(t, err, dexerr.ErrValidation)
	assert.ErrorIs(t, err, dexerr.ErrConfiguration)
	assert.ErrorIs(t, err, joints.ErrUnknownConvention)
	assert.Contains(t, err.Error(), "pickle")
	assert.Contains(t, err.Error(), "torch")
}

func TestSaveLoadRoundTrip(t *testing.T) {
	p := filepath.Join(t.TempDir(), "nested", "dexkit.yaml")
	cfg := DefaultConfig()
	cfg.DataRoot = "/data/dexycb"
	cfg.Order = Order{Name: "ho3d"}

	require.NoError(t, Save(cfg, p))
	got, err := Load(p)
	require.NoError(t, err)
	assert.Equal(t, cfg.DataRoot, filepath.ToSlash(got.DataRoot))
	assert.Equal(t, filepath.Join(filepath.Dir(p), "dexYCB_dataset"), got.OutRoot)
	assert.Equal(t, cfg.Order, got.Order)
}

func TestParseEnv_ProcessWins(t *testing.T) {
	e, err := parseEnv(
		map[string]string{EnvDataRoot: "/dotenv", EnvLogLevel: "warn", EnvEvaluator: "python  eval.py --cpu"},
		[]string{EnvDataRoot + "=/env", EnvLogFormat + "=", "PATH=/bin"},
	)
	require.NoError(t, err)
	assert.Equal(t, "/env", e.DataRoot)
	assert.Equal(t, "warn", e.LogLevel)
	assert.Empty(t, e.LogFormat)
	assert.Equal(t, []string{"python", "eval.py", "--cpu"}, e.Evaluator)

	cfg := DefaultConfig()
	cfg.ApplyEnv(e)
	assert.Equal(t, "/env", cfg.DataRoot)
	assert.Equal(t, "warn", cfg.Log.Level)
	assert.Equal(t, "console", cfg.Log.Format)
	assert.Equal(t, "command", cfg.Evaluator.Kind)
}
