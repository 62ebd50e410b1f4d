package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// withHome points HOME at a fresh temp dir and returns ~/.dexkit inside it.
func withHome(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("USERPROFILE", home)
	return filepath.Join(home, ".dexkit")
}

func writeDotEnv(t *testing.T, dir, body string) string {
	t.Helper()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	p := filepath.Join(dir, ".env")
	if err := os.WriteFile(p, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}
	return p
}

func TestLoadDotEnv_NotExist(t *testing.T) {
	withHome(t)

	m, err := LoadDotEnv()
	if err != nil {
		t.Fatalf("LoadDotEnv: %v", err)
	}
	if len(m) != 0 {
		t.Fatalf("expected empty map, got %v", m)
	}
}

func TestLoadDotEnv_ParsesKeyValue(t *testing.T) {
	dir := withHome(t)
	writeDotEnv(t, dir, "# comment\nDEX_YCB_DIR=/data/dexycb\nnot a pair\nDEXKIT_LOG_LEVEL=debug\n")

	m, err := LoadDotEnv()
	if err != nil {
		t.Fatalf("LoadDotEnv: %v", err)
	}
	if m["DEX_YCB_DIR"] != "/data/dexycb" || m["DEXKIT_LOG_LEVEL"] != "debug" || len(m) != 2 {
		t.Fatalf("unexpected map: %v", m)
	}
}

func TestGetConfigValue_EnvOverridesDotEnv(t *testing.T) {
	dir := withHome(t)
	writeDotEnv(t, dir, "DEX_YCB_DIR=/from/dotenv\n")
	t.Setenv("DEX_YCB_DIR", "/from/env")

	v, err := GetConfigValue("DEX_YCB_DIR")
	if err != nil {
		t.Fatalf("GetConfigValue: %v", err)
	}
	if v != "/from/env" {
		t.Fatalf("expected env override, got %q", v)
	}
}

func TestEnsureDotEnvTemplate_DoesNotOverwrite(t *testing.T) {
	dir := withHome(t)
	p := writeDotEnv(t, dir, "DEX_YCB_DIR=keep\n")

	if err := EnsureDotEnvTemplate(); err != nil {
		t.Fatalf("EnsureDotEnvTemplate: %v", err)
	}
	b, err := os.ReadFile(p)
	if err != nil {
		t.Fatal(err)
	}
	if string(b) != "DEX_YCB_DIR=keep\n" {
		t.Fatalf("template overwrote existing file: %q", string(b))
	}
}

func TestEnsureDotEnvTemplate_CreatesWhenMissing(t *testing.T) {
	dir := withHome(t)

	if err := EnsureDotEnvTemplate(); err != nil {
		t.Fatalf("EnsureDotEnvTemplate: %v", err)
	}
	b, err := os.ReadFile(filepath.Join(dir, ".env"))
	if err != nil {
		t.Fatal(err)
	}
	for _, k := range []string{EnvDataRoot, EnvLogLevel, EnvLogFormat, EnvEvaluator} {
		if !strings.Contains(string(b), k+"=") {
			t.Fatalf("template lacks %s: %q", k, b)
		}
	}
}
