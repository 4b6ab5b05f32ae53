// Package config provides configuration loading and structs for the fakenews tools.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the application.
type Config struct {
	Debug      bool             `yaml:"debug"`
	Data       DataConfig       `yaml:"data"`
	Features   FeaturesConfig   `yaml:"features"`
	Classifier ClassifierConfig `yaml:"classifier"`
	Training   TrainingConfig   `yaml:"training"`
	Artifacts  ArtifactsConfig  `yaml:"artifacts"`
	Predict    PredictConfig    `yaml:"predict"`
	Server     ServerConfig     `yaml:"server"`
}

// DataConfig locates the two labeled corpus sources.
type DataConfig struct {
	CorpusDir string `yaml:"corpus_dir"`
	FakeFile  string `yaml:"fake_file"`
	RealFile  string `yaml:"real_file"`
	// Encoding is the single-byte codepage of CSV sources (IANA name, e.g. latin1, windows-1252).
	Encoding string `yaml:"encoding"`
}

// FeaturesConfig holds TF-IDF vocabulary settings.
type FeaturesConfig struct {
	MaxDF          float64 `yaml:"max_df"`
	MinDF          int     `yaml:"min_df"`
	MinTokenLength int     `yaml:"min_token_length"`
	// StopWords is "english" or "none".
	StopWords   string `yaml:"stop_words"`
	SublinearTF bool   `yaml:"sublinear_tf"`
}

// ClassifierConfig holds logistic regression settings.
type ClassifierConfig struct {
	C         float64 `yaml:"c"`
	MaxIter   int     `yaml:"max_iter"`
	Tolerance float64 `yaml:"tolerance"`
	// Class0 and Class1 fix the sign convention: Class1 gains probability as the score grows.
	Class0 string `yaml:"class_0"`
	Class1 string `yaml:"class_1"`
}

// TrainingConfig holds split settings.
type TrainingConfig struct {
	TestSize float64 `yaml:"test_size"`
	Seed     uint64  `yaml:"seed"`
}

// ArtifactsConfig selects where fitted artifacts are persisted.
type ArtifactsConfig struct {
	// Backend is "disk" (JSON files in ModelDir) or "sqlite" (DatabasePath).
	Backend      string `yaml:"backend"`
	ModelDir     string `yaml:"model_dir"`
	DatabasePath string `yaml:"database_path"`
}

// PredictConfig holds interactive prediction settings.
type PredictConfig struct {
	TopN      int   `yaml:"top_n"`
	Multiline *bool `yaml:"multiline"`
}

// MultilineOrDefault returns whether requests span lines until a blank line; defaults to true when unset.
func (p *PredictConfig) MultilineOrDefault() bool {
	if p.Multiline != nil {
		return *p.Multiline
	}
	return true
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// Default returns a config with all defaults applied and paths left relative to the working directory.
func Default() *Config {
	var cfg Config
	ApplyDefaults(&cfg)
	return &cfg
}

// Load reads and parses the config file at path, expands paths, and applies defaults.
// Returns an error if the file cannot be read or parsed.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	ApplyDefaults(&cfg)

	configDir := filepath.Dir(path)
	cfg.Data.CorpusDir = expandPath(cfg.Data.CorpusDir, configDir)
	cfg.Artifacts.ModelDir = expandPath(cfg.Artifacts.ModelDir, configDir)
	cfg.Artifacts.DatabasePath = expandPath(cfg.Artifacts.DatabasePath, configDir)

	return &cfg, nil
}

// Save writes the config to path.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// Validate returns every out-of-range setting it finds.
func (c *Config) Validate() []error {
	var errs []error
	if c.Features.MaxDF <= 0 || c.Features.MaxDF > 1 {
		errs = append(errs, fmt.Errorf("features.max_df must be in (0, 1], got %v", c.Features.MaxDF))
	}
	if c.Features.MinDF < 1 {
		errs = append(errs, fmt.Errorf("features.min_df must be >= 1, got %d", c.Features.MinDF))
	}
	switch strings.ToLower(c.Features.StopWords) {
	case "english", "none":
	default:
		errs = append(errs, fmt.Errorf("features.stop_words must be english or none, got %q", c.Features.StopWords))
	}
	if c.Classifier.C <= 0 {
		errs = append(errs, fmt.Errorf("classifier.c must be positive, got %v", c.Classifier.C))
	}
	if strings.EqualFold(c.Classifier.Class0, c.Classifier.Class1) {
		errs = append(errs, fmt.Errorf("classifier.class_0 and class_1 must differ, both are %q", c.Classifier.Class0))
	}
	if c.Training.TestSize <= 0 || c.Training.TestSize >= 1 {
		errs = append(errs, fmt.Errorf("training.test_size must be in (0, 1), got %v", c.Training.TestSize))
	}
	if c.Predict.TopN < 0 {
		errs = append(errs, fmt.Errorf("predict.top_n must not be negative, got %d", c.Predict.TopN))
	}
	switch c.Artifacts.Backend {
	case "disk", "sqlite":
	default:
		errs = append(errs, fmt.Errorf("artifacts.backend must be disk or sqlite, got %q", c.Artifacts.Backend))
	}
	return errs
}

// expandPath converts a path to absolute. "~/" paths are relative to the home directory;
// every other relative path is relative to configDir.
func expandPath(path string, configDir string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	if path == "~" || strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, strings.TrimPrefix(path, "~"))
		}
		return path
	}
	return filepath.Join(configDir, path)
}
