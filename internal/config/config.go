package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/kamusis/dexkit/internal/dexerr"
	"github.com/kamusis/dexkit/internal/fsutil"
	"github.com/kamusis/dexkit/internal/hand"
	"github.com/kamusis/dexkit/internal/handmodel"
	"github.com/kamusis/dexkit/internal/logging"
	"gopkg.in/yaml.v3"
)

// ManifestName is the split manifest file name under <out_root>/config.
const ManifestName = "hand_splits.yaml"

// Config is the in-memory representation of ~/.dexkit/dexkit.yaml (or the
// file passed with --config).
type Config struct {
	DataRoot   string           `yaml:"data_root,omitempty"`
	OutRoot    string           `yaml:"out_root,omitempty"`
	Side       string           `yaml:"side,omitempty"`
	Order      Order            `yaml:"order,omitempty"`
	HandSplits string           `yaml:"hand_splits,omitempty"`
	Format     string           `yaml:"format,omitempty"`
	Evaluator  handmodel.Config `yaml:"evaluator,omitempty"`
	Log        logging.Config   `yaml:"log,omitempty"`
}

// DexkitDir returns the absolute path to ~/.dexkit/.
func DexkitDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(home, ".dexkit"), nil
}

// ConfigPath returns the absolute path to ~/.dexkit/dexkit.yaml.
func ConfigPath() (string, error) {
	dir, err := DexkitDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "dexkit.yaml"), nil
}

// ExpandPath expands a leading ~ to the user's home directory.
func ExpandPath(p string) (string, error) {
	if !strings.HasPrefix(p, "~") {
		return p, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot expand ~: %w", err)
	}
	return filepath.Join(home, p[1:]), nil
}

// DefaultConfig returns the configuration used when no file exists.
func DefaultConfig() *Config {
	return &Config{
		OutRoot: "dexYCB_dataset",
		Side:    "right",
		Format:  "json",
		Log:     logging.Config{Level: "info", Format: "console"},
	}
}

// Load reads the config file at path, or ~/.dexkit/dexkit.yaml when path is
// empty. A missing default file yields DefaultConfig; a missing explicit
// file is an error. Relative paths in the file resolve against the file's
// directory.
func Load(path string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		p, err := ConfigPath()
		if err != nil {
			return nil, err
		}
		path = p
	}
	path, err := ExpandPath(path)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			if !explicit {
				return DefaultConfig(), nil
			}
			return nil, fmt.Errorf("%w: config %s", dexerr.ErrNotFound, path)
		}
		return nil, fmt.Errorf("cannot read config %s: %w", path, err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("%w: invalid YAML in %s: %v", dexerr.ErrConfiguration, path, err)
	}

	base := filepath.Dir(path)
	for _, p := range []*string{&cfg.DataRoot, &cfg.OutRoot, &cfg.HandSplits} {
		if *p, err = resolvePath(base, *p); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

func resolvePath(base, p string) (string, error) {
	if p == "" {
		return "", nil
	}
	p, err := ExpandPath(p)
	if err != nil {
		return "", err
	}
	if filepath.IsAbs(p) {
		return filepath.Clean(p), nil
	}
	return filepath.Join(base, p), nil
}

// Save writes cfg to path, or to ~/.dexkit/dexkit.yaml when path is empty.
func Save(cfg *Config, path string) error {
	if path == "" {
		p, err := ConfigPath()
		if err != nil {
			return err
		}
		path = p
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("cannot marshal config: %w", err)
	}
	if err := fsutil.WriteFileAtomic(path, data, 0o644); err != nil {
		return fmt.Errorf("cannot write config %s: %w", path, err)
	}
	return nil
}

// ApplyEnv overlays non-empty environment values onto cfg.
func (c *Config) ApplyEnv(e Env) {
	if e.DataRoot != "" {
		c.DataRoot = e.DataRoot
	}
	if e.LogLevel != "" {
		c.Log.Level = e.LogLevel
	}
	if e.LogFormat != "" {
		c.Log.Format = e.LogFormat
	}
	if len(e.Evaluator) > 0 {
		c.Evaluator.Kind = "command"
		c.Evaluator.Command = append([]string(nil), e.Evaluator...)
	}
}

// ManifestPath returns hand_splits, defaulting to <out_root>/config/hand_splits.yaml.
func (c *Config) ManifestPath() string {
	if c.HandSplits != "" {
		return c.HandSplits
	}
	return filepath.Join(c.OutRoot, "config", ManifestName)
}

// Validate reports every invalid setting at once.
func (c *Config) Validate() error {
	var errs []error
	if _, err := hand.ParseSelection(c.Side); err != nil {
		errs = append(errs, fmt.Errorf("side: %w", err))
	}
	switch c.Format {
	case "json", "arrow":
	default:
		errs = append(errs, fmt.Errorf("%w: format %q (want json or arrow)", dexerr.ErrConfiguration, c.Format))
	}
	if _, err := c.Order.Convention(); err != nil {
		errs = append(errs, fmt.Errorf("order: %w", err))
	}
	if _, err := handmodel.NewFromConfig(c.Evaluator); err != nil {
		errs = append(errs, fmt.Errorf("evaluator: %w", err))
	}
	return errors.Join(errs...)
}
