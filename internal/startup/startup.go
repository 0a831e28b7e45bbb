package startup

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"brushvault/internal/assets"
	"brushvault/internal/logging"

	"gopkg.in/yaml.v3"
)

// Build-time variables (injected via -ldflags)
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildTime = "unknown"
	GoVersion = runtime.Version()
)

// BuildInfo contains version and build information
type BuildInfo struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	BuildTime string `json:"buildTime"`
	GoVersion string `json:"goVersion"`
	OS        string `json:"os"`
	Arch      string `json:"arch"`
}

// GetBuildInfo returns the current build information
func GetBuildInfo() BuildInfo {
	return BuildInfo{
		Version:   Version,
		Commit:    Commit,
		BuildTime: BuildTime,
		GoVersion: GoVersion,
		OS:        runtime.GOOS,
		Arch:      runtime.GOARCH,
	}
}

// Config holds all service configuration.
type Config struct {
	// Roots is the prioritized scan root list handed to the scanner.
	Roots []string
	// Extensions are the preset extensions to match.
	Extensions []string
	// ThumbDir receives the raw RGBA artifacts.
	ThumbDir string
	// DataDir holds the scan index database.
	DataDir string
	// IndexPath is the derived scan index file path.
	IndexPath string

	Port        string
	MetricsPort string

	ScanInterval  time.Duration
	ToneAdjust    bool
	CaseSensitive bool
	WatchEnabled  bool

	MetricsEnabled bool
}

// fileConfig is the YAML layer beneath the environment.
type fileConfig struct {
	InstallDir    string   `yaml:"install_dir"`
	Kind          string   `yaml:"kind"`
	Roots         []string `yaml:"roots"`
	Extensions    []string `yaml:"extensions"`
	ToneAdjust    *bool    `yaml:"tone_adjust"`
	CaseSensitive *bool    `yaml:"case_sensitive"`
}

// LoadConfig loads and validates configuration from CONFIG_FILE (when
// set) and environment variables.
func LoadConfig() (*Config, error) {
	printBanner()

	logging.Info("------------------------------------------------------------")
	logging.Info("CONFIGURATION")
	logging.Info("------------------------------------------------------------")

	cfg := &Config{
		Extensions:     assets.Extensions[assets.DefaultKind],
		ThumbDir:       getEnv("THUMB_DIR", "/cache/thumbnails"),
		DataDir:        getEnv("DATA_DIR", "/data"),
		Port:           getEnv("PORT", "8080"),
		MetricsPort:    getEnv("METRICS_PORT", "9090"),
		ToneAdjust:     getEnvBool("TONE_ADJUST", true),
		CaseSensitive:  getEnvBool("CASE_SENSITIVE", false),
		WatchEnabled:   getEnvBool("WATCH_ENABLED", true),
		MetricsEnabled: getEnvBool("METRICS_ENABLED", true),
	}

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := applyFile(cfg, path); err != nil {
			return nil, err
		}
		logging.Info("  CONFIG_FILE:      %s", path)
	}

	// BRUSH_ROOTS overrides any file-provided list. INSTALL_DIR expands
	// to the default preset folders for the configured kind.
	if roots := os.Getenv("BRUSH_ROOTS"); roots != "" {
		cfg.Roots = splitList(roots)
	} else if install := os.Getenv("INSTALL_DIR"); install != "" {
		cfg.Roots = assets.RootsFor(install, assets.DefaultKind)
	}

	intervalStr := getEnv("SCAN_INTERVAL", "30m")
	interval, err := time.ParseDuration(intervalStr)
	if err != nil {
		logging.Warn("  Invalid SCAN_INTERVAL %q, using default: 30m", intervalStr)
		interval = 30 * time.Minute
	}
	cfg.ScanInterval = interval

	logging.Info("  ROOTS:            %s", strings.Join(cfg.Roots, string(os.PathListSeparator)))
	logging.Info("  EXTENSIONS:       %s", strings.Join(cfg.Extensions, ","))
	logging.Info("  THUMB_DIR:        %s", cfg.ThumbDir)
	logging.Info("  DATA_DIR:         %s", cfg.DataDir)
	logging.Info("  PORT:             %s", cfg.Port)
	logging.Info("  METRICS_PORT:     %s", cfg.MetricsPort)
	logging.Info("  METRICS_ENABLED:  %v", cfg.MetricsEnabled)
	logging.Info("  SCAN_INTERVAL:    %s", cfg.ScanInterval)
	logging.Info("  TONE_ADJUST:      %v", cfg.ToneAdjust)
	logging.Info("  CASE_SENSITIVE:   %v", cfg.CaseSensitive)
	logging.Info("  WATCH_ENABLED:    %v", cfg.WatchEnabled)
	logging.Info("  LOG_LEVEL:        %s", logging.GetLevel())

	if len(cfg.Roots) == 0 {
		return nil, fmt.Errorf("no scan roots configured: set BRUSH_ROOTS, INSTALL_DIR, or a config file")
	}

	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		return nil, fmt.Errorf("create data directory %s: %w", cfg.DataDir, err)
	}
	cfg.IndexPath = filepath.Join(cfg.DataDir, "scan_index.db")

	return cfg, nil
}

// applyFile layers a YAML config file into cfg.
func applyFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file %s: %w", path, err)
	}

	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}

	kind := assets.DefaultKind
	if fc.Kind != "" {
		kind = assets.Kind(fc.Kind)
		if !assets.Valid(kind) {
			return fmt.Errorf("config file %s: unknown asset kind %q", path, fc.Kind)
		}
		cfg.Extensions = assets.Extensions[kind]
	}

	switch {
	case len(fc.Roots) > 0:
		cfg.Roots = fc.Roots
	case fc.InstallDir != "":
		cfg.Roots = assets.RootsFor(fc.InstallDir, kind)
	}

	if len(fc.Extensions) > 0 {
		cfg.Extensions = fc.Extensions
	}
	if fc.ToneAdjust != nil {
		cfg.ToneAdjust = *fc.ToneAdjust
	}
	if fc.CaseSensitive != nil {
		cfg.CaseSensitive = *fc.CaseSensitive
	}
	return nil
}

func printBanner() {
	logging.Printf("============================================================")
	logging.Printf(" brushvault %s (%s)", Version, Commit)
	logging.Printf(" built %s with %s", BuildTime, GoVersion)
	logging.Printf("============================================================")
}

// LogFatal logs a fatal startup error and exits.
func LogFatal(format string, args ...interface{}) {
	logging.Fatal(format, args...)
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	switch strings.ToLower(v) {
	case "1", "true", "yes", "on":
		return true
	case "0", "false", "no", "off":
		return false
	default:
		return fallback
	}
}

// splitList splits a path-list environment value on the OS list separator
// (with comma as a portable fallback) and drops empty elements.
func splitList(v string) []string {
	sep := string(os.PathListSeparator)
	if !strings.Contains(v, sep) && strings.Contains(v, ",") {
		sep = ","
	}
	var out []string
	for _, p := range strings.Split(v, sep) {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
