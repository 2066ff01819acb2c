package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds everything the client needs to reach its collaborators.
type Config struct {
	// SubmitURL receives the answer payload and returns the scored result.
	SubmitURL string `yaml:"submit_url"`
	// ExportURL turns a result into a downloadable PDF.
	ExportURL string `yaml:"export_url"`
	// PrefillURL optionally supplies answers to merge at boot.
	PrefillURL string `yaml:"prefill_url"`

	DataPaths DataPaths `yaml:"data_paths"`

	// Catalysts are the choices offered before submitting. When empty the
	// catalyst is typed in free form.
	Catalysts []string `yaml:"catalysts"`

	// OutputDir is where exported files are written. Default: ".".
	OutputDir string `yaml:"output_dir"`

	// LogPath is the log file used by the terminal UI.
	LogPath string `yaml:"log"`

	// Timeout bounds every outbound request. Default: 30s.
	Timeout time.Duration `yaml:"timeout"`
}

// DataPaths locates the catalog documents. Each entry is an http(s) URL or
// a local path.
type DataPaths struct {
	Questions       string `yaml:"questions"`
	FunctionalAreas string `yaml:"functional_areas"`
}

// DefaultConfig returns a Config pointing at a scorer on localhost.
func DefaultConfig() Config {
	return Config{
		SubmitURL: "http://localhost:8000/assess",
		ExportURL: "http://localhost:8000/export-pdf",
		DataPaths: DataPaths{
			Questions:       "data/questions.json",
			FunctionalAreas: "data/functional_areas.json",
		},
		OutputDir: ".",
		Timeout:   30 * time.Second,
	}
}

// Load builds a Config from defaults, then the YAML file at path (if
// any), then environment variables. A missing file is only an error when
// path was given explicitly.
func Load(path string) (Config, error) {
	cfg := DefaultConfig()

	explicit := path != ""
	if !explicit {
		path = DefaultPath()
	}
	if path != "" {
		err := cfg.mergeFile(path)
		switch {
		case err == nil:
		case !explicit && errors.Is(err, os.ErrNotExist):
		default:
			return Config{}, err
		}
	}

	if err := cfg.mergeEnv(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// DefaultPath returns $XDG_CONFIG_HOME/assessor/config.yaml, or "" when no
// config directory can be resolved.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "assessor", "config.yaml")
}

func (c *Config) mergeFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

func (c *Config) mergeEnv() error {
	if v := os.Getenv("ASSESSOR_SUBMIT_URL"); v != "" {
		c.SubmitURL = v
	}
	if v := os.Getenv("ASSESSOR_EXPORT_URL"); v != "" {
		c.ExportURL = v
	}
	if v := os.Getenv("ASSESSOR_PREFILL_URL"); v != "" {
		c.PrefillURL = v
	}
	if v := os.Getenv("ASSESSOR_QUESTIONS"); v != "" {
		c.DataPaths.Questions = v
	}
	if v := os.Getenv("ASSESSOR_FUNCTIONAL_AREAS"); v != "" {
		c.DataPaths.FunctionalAreas = v
	}
	if v := os.Getenv("ASSESSOR_OUTPUT_DIR"); v != "" {
		c.OutputDir = v
	}
	if v := os.Getenv("ASSESSOR_LOG"); v != "" {
		c.LogPath = v
	}
	if v := os.Getenv("ASSESSOR_CATALYSTS"); v != "" {
		c.Catalysts = SplitList(v)
	}
	if v := os.Getenv("ASSESSOR_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("ASSESSOR_TIMEOUT: %w", err)
		}
		c.Timeout = d
	}
	return nil
}

// SplitList splits a comma separated list, dropping blank entries.
func SplitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Validate checks that the endpoints are usable and the catalog can be
// located.
func (c Config) Validate() error {
	if err := checkEndpoint("submit_url", c.SubmitURL); err != nil {
		return err
	}
	if err := checkEndpoint("export_url", c.ExportURL); err != nil {
		return err
	}
	if c.PrefillURL != "" {
		if err := checkEndpoint("prefill_url", c.PrefillURL); err != nil {
			return err
		}
	}
	if c.DataPaths.Questions == "" {
		return fmt.Errorf("data_paths.questions is required")
	}
	if c.DataPaths.FunctionalAreas == "" {
		return fmt.Errorf("data_paths.functional_areas is required")
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive, got %s", c.Timeout)
	}
	return nil
}

func checkEndpoint(name, raw string) error {
	if raw == "" {
		return fmt.Errorf("%s is required", name)
	}
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("%s must be an http(s) URL, got %q", name, raw)
	}
	if u.Host == "" {
		return fmt.Errorf("%s has no host: %q", name, raw)
	}
	return nil
}
