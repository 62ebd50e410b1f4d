package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/kamusis/dexkit/internal/config"
	"github.com/kamusis/dexkit/internal/logging"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var rootCmd = &cobra.Command{
	Use:          "dexkit",
	Short:        "dexkit — DexYCB hand-object pose dataset tooling",
	SilenceUsage: true, // don't print usage on operational errors
	Long: `dexkit indexes a DexYCB dataset by hand side, parses sequences into
per-frame hand/object pose records and exports them for training.

The dataset root comes from data_root in ~/.dexkit/dexkit.yaml or from
the DEX_YCB_DIR environment variable.`,
}

var (
	flagConfig   string
	flagLogLevel string
)

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Config file (default ~/.dexkit/dexkit.yaml)")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "Log level: debug, info, warn or error")
}

// loadSettings resolves the effective configuration: file, then
// environment, then command-line flags.
func loadSettings() (*config.Config, error) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return nil, fmt.Errorf("cannot load config: %w\nRun 'dexkit init' first.", err)
	}
	e, err := config.LoadEnv()
	if err != nil {
		return nil, err
	}
	cfg.ApplyEnv(e)
	if flagLogLevel != "" {
		cfg.Log.Level = flagLogLevel
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config:\n%w", err)
	}
	return cfg, nil
}

// newLogger builds the command logger. Callers defer the returned sync.
func newLogger(cfg *config.Config) (*zap.Logger, func(), error) {
	log, err := logging.New(cfg.Log)
	if err != nil {
		return nil, nil, err
	}
	return log, func() { _ = log.Sync() }, nil
}

// requireDataRoot returns the configured dataset root or an actionable error.
func requireDataRoot(cfg *config.Config) (string, error) {
	if cfg.DataRoot == "" {
		return "", fmt.Errorf("dataset root is not set\n" +
			"  Set data_root in ~/.dexkit/dexkit.yaml, export " + config.EnvDataRoot + ",\n" +
			"  or pass --data-root.")
	}
	return cfg.DataRoot, nil
}

// Execute is called by main.go.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}
