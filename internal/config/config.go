// internal/config/config.go
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds everything the monitor and the validator need.
// Values come from defaults, then an optional YAML file, then env vars
// (the env is the primary surface in container deployments).
type Config struct {
	OllamaHost             string   `yaml:"ollama_host"`
	Model                  string   `yaml:"model"`
	ModelFallbacks         []string `yaml:"model_fallbacks"`
	Containers             []string `yaml:"containers"`
	IntervalSeconds        int      `yaml:"interval_seconds"`
	AnalysisTimeoutSeconds int      `yaml:"analysis_timeout_seconds"`
	MaxLogEntries          int      `yaml:"max_log_entries"`
	ReportDir              string   `yaml:"report_dir"`
	AnalysisCommand        string   `yaml:"analysis_command"`
	BackendContainer       string   `yaml:"backend_container"`
	ProcessLog             string   `yaml:"process_log"`
	MetricsAddr            string   `yaml:"metrics_addr"`
	ReadyAttempts          int      `yaml:"ready_attempts"`
	ReadyDelaySeconds      int      `yaml:"ready_delay_seconds"`
	PullSettleSeconds      int      `yaml:"pull_settle_seconds"`
}

// Default returns the configuration used when no file or env is present.
func Default() Config {
	return Config{
		OllamaHost:             "http://ollama:11434",
		Model:                  "tinyllama:1.1b",
		Containers:             []string{"moodle-app"},
		IntervalSeconds:        120,
		AnalysisTimeoutSeconds: 180,
		MaxLogEntries:          100,
		ReportDir:              "/reports",
		BackendContainer:       "ollama",
		ReadyAttempts:          30,
		ReadyDelaySeconds:      2,
		PullSettleSeconds:      5,
	}
}

// Load reads configuration from a YAML file (missing files fall back to
// defaults) and applies env overrides on top.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
		if err == nil {
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return Config{}, fmt.Errorf("parse config: %w", err)
			}
		}
	}

	applyEnv(&cfg)

	if len(cfg.Containers) == 0 {
		return Config{}, errors.New("configuration must define at least one container")
	}
	if cfg.Model == "" {
		return Config{}, errors.New("configuration must define a model")
	}
	if cfg.IntervalSeconds <= 0 {
		cfg.IntervalSeconds = Default().IntervalSeconds
	}
	if cfg.AnalysisTimeoutSeconds <= 0 {
		cfg.AnalysisTimeoutSeconds = Default().AnalysisTimeoutSeconds
	}
	if cfg.MaxLogEntries <= 0 {
		cfg.MaxLogEntries = Default().MaxLogEntries
	}

	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("OLLAMA_HOST"); v != "" {
		cfg.OllamaHost = v
	}
	if v := os.Getenv("MODEL"); v != "" {
		cfg.Model = v
	}
	if v := os.Getenv("MODEL_FALLBACKS"); v != "" {
		cfg.ModelFallbacks = splitList(v)
	}
	if v := os.Getenv("CONTAINER_NAMES"); v != "" {
		cfg.Containers = splitList(v)
	}
	if v := os.Getenv("INTERVAL"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.IntervalSeconds = n
		}
	}
	if v := os.Getenv("ANALYSIS_TIMEOUT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.AnalysisTimeoutSeconds = n
		}
	}
	if v := os.Getenv("MAX_LOG_ENTRIES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.MaxLogEntries = n
		}
	}
	if v := os.Getenv("REPORT_DIR"); v != "" {
		cfg.ReportDir = v
	}
	if v := os.Getenv("ANALYSIS_COMMAND"); v != "" {
		cfg.AnalysisCommand = v
	}
	if v := os.Getenv("BACKEND_CONTAINER"); v != "" {
		cfg.BackendContainer = v
	}
	if v := os.Getenv("PROCESS_LOG"); v != "" {
		cfg.ProcessLog = v
	}
	if v := os.Getenv("METRICS_ADDR"); v != "" {
		cfg.MetricsAddr = v
	}
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Interval is the pause between monitor ticks.
func (c Config) Interval() time.Duration {
	return time.Duration(c.IntervalSeconds) * time.Second
}

// AnalysisTimeout is the wall-clock bound on one analysis run.
func (c Config) AnalysisTimeout() time.Duration {
	return time.Duration(c.AnalysisTimeoutSeconds) * time.Second
}

// ReadyDelay is the fixed pause between readiness probe attempts.
func (c Config) ReadyDelay() time.Duration {
	return time.Duration(c.ReadyDelaySeconds) * time.Second
}

// PullSettle is how long to wait after a model pull before re-querying.
func (c Config) PullSettle() time.Duration {
	return time.Duration(c.PullSettleSeconds) * time.Second
}

// ModelChain returns the primary model followed by its ordered fallbacks.
func (c Config) ModelChain() []string {
	chain := make([]string, 0, 1+len(c.ModelFallbacks))
	chain = append(chain, c.Model)
	chain = append(chain, c.ModelFallbacks...)
	return chain
}
