package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/caarlos0/env/v11"
)

const (
	EnvDataRoot  = "DEX_YCB_DIR"
	EnvLogLevel  = "DEXKIT_LOG_LEVEL"
	EnvLogFormat = "DEXKIT_LOG_FORMAT"
	EnvEvaluator = "DEXKIT_EVALUATOR"
)

// Env holds the settings read from the environment and ~/.dexkit/.env.
type Env struct {
	DataRoot  string   `env:"DEX_YCB_DIR"`
	LogLevel  string   `env:"DEXKIT_LOG_LEVEL"`
	LogFormat string   `env:"DEXKIT_LOG_FORMAT"`
	Evaluator []string `env:"DEXKIT_EVALUATOR" envSeparator:" "`
}

// LoadEnv parses Env from the process environment merged over
// ~/.dexkit/.env. Process variables win.
func LoadEnv() (Env, error) {
	dotenv, err := LoadDotEnv()
	if err != nil {
		return Env{}, err
	}
	return parseEnv(dotenv, os.Environ())
}

func parseEnv(dotenv map[string]string, environ []string) (Env, error) {
	merged := make(map[string]string, len(dotenv)+len(environ))
	for k, v := range dotenv {
		merged[k] = strings.TrimSpace(v)
	}
	for _, kv := range environ {
		k, v, ok := strings.Cut(kv, "=")
		if !ok || v == "" {
			continue
		}
		merged[k] = v
	}

	var e Env
	if err := env.ParseWithOptions(&e, env.Options{Environment: merged}); err != nil {
		return Env{}, fmt.Errorf("parse env: %w", err)
	}
	e.Evaluator = compact(e.Evaluator)
	return e, nil
}

func compact(in []string) []string {
	var out []string
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
