package startup

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

// clearConfigEnv blanks every variable LoadConfig reads so tests control
// the full input surface.
func clearConfigEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"CONFIG_FILE", "BRUSH_ROOTS", "INSTALL_DIR", "THUMB_DIR", "DATA_DIR",
		"PORT", "METRICS_PORT", "SCAN_INTERVAL", "TONE_ADJUST",
		"CASE_SENSITIVE", "WATCH_ENABLED", "METRICS_ENABLED",
	} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
}

func TestLoadConfigFromEnv(t *testing.T) {
	clearConfigEnv(t)
	dataDir := t.TempDir()
	t.Setenv("BRUSH_ROOTS", "/lib/a,/lib/b")
	t.Setenv("DATA_DIR", dataDir)
	t.Setenv("SCAN_INTERVAL", "5m")
	t.Setenv("TONE_ADJUST", "false")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}

	if len(cfg.Roots) != 2 || cfg.Roots[0] != "/lib/a" || cfg.Roots[1] != "/lib/b" {
		t.Errorf("Roots = %v, want [/lib/a /lib/b]", cfg.Roots)
	}
	if cfg.ScanInterval != 5*time.Minute {
		t.Errorf("ScanInterval = %v, want 5m", cfg.ScanInterval)
	}
	if cfg.ToneAdjust {
		t.Error("ToneAdjust = true, want false")
	}
	if cfg.IndexPath != filepath.Join(dataDir, "scan_index.db") {
		t.Errorf("IndexPath = %q, want under %q", cfg.IndexPath, dataDir)
	}
}

func TestLoadConfigNoRoots(t *testing.T) {
	clearConfigEnv(t)
	t.Setenv("DATA_DIR", t.TempDir())

	if _, err := LoadConfig(); err == nil {
		t.Fatal("LoadConfig() with no roots succeeded, want error")
	}
}

func TestLoadConfigInstallDirExpands(t *testing.T) {
	clearConfigEnv(t)
	t.Setenv("DATA_DIR", t.TempDir())
	t.Setenv("INSTALL_DIR", "/opt/zbrush")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if len(cfg.Roots) != 3 {
		t.Fatalf("len(Roots) = %d, want 3 brush preset folders", len(cfg.Roots))
	}
	if cfg.Roots[0] != filepath.Join("/opt/zbrush", "ZBrushes") {
		t.Errorf("Roots[0] = %q, want ZBrushes first", cfg.Roots[0])
	}
}

func TestLoadConfigYAMLFile(t *testing.T) {
	clearConfigEnv(t)
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "vault.yaml")
	yamlBody := `
roots:
  - /srv/presets/user
  - /srv/presets/stock
tone_adjust: false
case_sensitive: true
`
	if err := os.WriteFile(cfgPath, []byte(yamlBody), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	t.Setenv("CONFIG_FILE", cfgPath)
	t.Setenv("DATA_DIR", t.TempDir())

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if len(cfg.Roots) != 2 || cfg.Roots[0] != "/srv/presets/user" {
		t.Errorf("Roots = %v, want the YAML list", cfg.Roots)
	}
	if cfg.ToneAdjust {
		t.Error("ToneAdjust = true, want false from YAML")
	}
	if !cfg.CaseSensitive {
		t.Error("CaseSensitive = false, want true from YAML")
	}
}

func TestLoadConfigEnvOverridesYAML(t *testing.T) {
	clearConfigEnv(t)
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "vault.yaml")
	if err := os.WriteFile(cfgPath, []byte("roots: [/from/yaml]\n"), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	t.Setenv("CONFIG_FILE", cfgPath)
	t.Setenv("BRUSH_ROOTS", "/from/env")
	t.Setenv("DATA_DIR", t.TempDir())

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if len(cfg.Roots) != 1 || cfg.Roots[0] != "/from/env" {
		t.Errorf("Roots = %v, want the environment to win", cfg.Roots)
	}
}

func TestLoadConfigBadYAMLKind(t *testing.T) {
	clearConfigEnv(t)
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "vault.yaml")
	if err := os.WriteFile(cfgPath, []byte("kind: Gizmos\nroots: [/x]\n"), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	t.Setenv("CONFIG_FILE", cfgPath)
	t.Setenv("DATA_DIR", t.TempDir())

	if _, err := LoadConfig(); err == nil {
		t.Fatal("LoadConfig() with unknown kind succeeded, want error")
	}
}
