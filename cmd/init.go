package cmd

import (
	"fmt"
	"os"

	"github.com/kamusis/dexkit/internal/config"
	"github.com/spf13/cobra"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create ~/.dexkit with a default config and .env template",
	Long: `Initialize dexkit's home directory at ~/.dexkit/.

Writes dexkit.yaml (unless it already exists) and an .env template listing
the environment variables dexkit reads.

Example:
  dexkit init
  dexkit init --data-root /data/dex-ycb`,
	Args: cobra.NoArgs,
	RunE: runInit,
}

var flagInitDataRoot string

func init() {
	initCmd.Flags().StringVar(&flagInitDataRoot, "data-root", "", "Dataset root to record in dexkit.yaml")
	rootCmd.AddCommand(initCmd)
}

func runInit(_ *cobra.Command, _ []string) error {
	dir, err := config.DexkitDir()
	if err != nil {
		return err
	}
	cfgPath := flagConfig
	if cfgPath == "" {
		if cfgPath, err = config.ConfigPath(); err != nil {
			return err
		}
	}
	return initHome(dir, cfgPath, flagInitDataRoot)
}

// initHome creates dir, writes a default config to cfgPath when none exists
// and ensures the dotenv template.
func initHome(dir, cfgPath, dataRoot string) error {
	printSection("dexkit init")

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("cannot create %s: %w", dir, err)
	}
	printOK("", fmt.Sprintf("dexkit directory ready: %s", dir))

	if _, err := os.Stat(cfgPath); os.IsNotExist(err) {
		cfg := config.DefaultConfig()
		if dataRoot != "" {
			if cfg.DataRoot, err = config.ExpandPath(dataRoot); err != nil {
				return err
			}
		}
		if err := config.Save(cfg, cfgPath); err != nil {
			return err
		}
		printOK("", fmt.Sprintf("Config written: %s", cfgPath))
	} else if err != nil {
		return fmt.Errorf("cannot stat %s: %w", cfgPath, err)
	} else {
		printSkip("", fmt.Sprintf("Config already exists: %s", cfgPath))
	}

	if err := config.EnsureDotEnvTemplate(); err != nil {
		return err
	}
	envPath, err := config.DotEnvPath()
	if err != nil {
		return err
	}
	printOK("", fmt.Sprintf("Environment template: %s", envPath))

	fmt.Println()
	fmt.Println("Next: set data_root (or " + config.EnvDataRoot + ") and run 'dexkit split'.")
	return nil
}
