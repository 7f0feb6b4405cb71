package predictor

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	defaultConfigFile = "config.json"
	defaultEnvFile    = ".env"
	envPrefix         = "SHEARPRED_"
)

// ModelConfig locates the two model artifacts and the ONNX Runtime library.
type ModelConfig struct {
	OrtLibrary       string `json:"ortLibrary" yaml:"ortLibrary"`
	ResourceDir      string `json:"resourceDir" yaml:"resourceDir"`
	ClassifierPath   string `json:"classifierPath" yaml:"classifierPath" validate:"required"`
	RegressorPath    string `json:"regressorPath" yaml:"regressorPath" validate:"required"`
	ClassifierOutput string `json:"classifierOutput" yaml:"classifierOutput"`
	RegressorOutput  string `json:"regressorOutput" yaml:"regressorOutput"`
}

// LogConfig controls the slog handler built by the shells.
type LogConfig struct {
	Level  string `json:"level" yaml:"level" validate:"oneof=debug info warn error"`
	Format string `json:"format" yaml:"format" validate:"oneof=text json"`
}

// Config aggregates runtime settings persisted to config.json.
type Config struct {
	Models        ModelConfig `json:"models" yaml:"models"`
	Precision     int         `json:"precision" yaml:"precision" validate:"min=0,max=12"`
	SchematicPath string      `json:"schematicPath" yaml:"schematicPath"`
	LogoPath      string      `json:"logoPath" yaml:"logoPath"`
	MetricsFile   string      `json:"metricsFile" yaml:"metricsFile"`
	Log           LogConfig   `json:"log" yaml:"log"`
}

var configValidate = validator.New()

// DefaultConfig returns the settings used when no config file exists.
func DefaultConfig() Config {
	var cfg Config
	cfg.ApplyDefaults()
	return cfg
}

// ApplyDefaults populates zero values with sensible defaults.
func (c *Config) ApplyDefaults() {
	if c.Models.ClassifierPath == "" {
		c.Models.ClassifierPath = "models/xgb_model.onnx"
	}
	if c.Models.RegressorPath == "" {
		c.Models.RegressorPath = "models/catboost_model.onnx"
	}
	if c.Models.ClassifierOutput == "" {
		c.Models.ClassifierOutput = "label"
	}
	if c.Precision == 0 {
		c.Precision = 4
	}
	if c.SchematicPath == "" {
		c.SchematicPath = "picture/file/A_schematic diagram_of_a_typical_RC_column.png"
	}
	if c.LogoPath == "" {
		c.LogoPath = "picture/file/Njfu_logo.png"
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}
}

// Validate checks field constraints.
func (c Config) Validate() error {
	if err := configValidate.Struct(c); err != nil {
		return fmt.Errorf("validate config: %w", err)
	}
	return nil
}

// LoadConfig loads configuration from the given path or the default config.json.
// Values from .env and SHEARPRED_* environment variables override the file.
func LoadConfig(path string) (Config, error) {
	if path == "" {
		path = defaultConfigFile
	}
	var cfg Config
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := decodeConfig(path, data, &cfg); err != nil {
			return cfg, err
		}
	case errors.Is(err, os.ErrNotExist):
	default:
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := godotenv.Load(defaultEnvFile); err != nil && !errors.Is(err, os.ErrNotExist) {
		return cfg, fmt.Errorf("load %s: %w", defaultEnvFile, err)
	}
	if err := applyEnv(&cfg); err != nil {
		return cfg, err
	}
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// SaveConfig persists configuration to disk.
func SaveConfig(path string, cfg Config) error {
	if path == "" {
		path = defaultConfigFile
	}
	tmp := path + ".tmp"
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	cfg.ApplyDefaults()
	var (
		data []byte
		err  error
	)
	if isYAML(path) {
		data, err = yaml.Marshal(cfg)
	} else {
		data, err = json.MarshalIndent(cfg, "", "  ")
	}
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write temp config: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("rename config: %w", err)
	}
	return nil
}

func decodeConfig(path string, data []byte, cfg *Config) error {
	if isYAML(path) {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return fmt.Errorf("decode config: %w", err)
		}
		return nil
	}
	if err := json.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("decode config: %w", err)
	}
	return nil
}

func isYAML(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return true
	}
	return false
}

func applyEnv(cfg *Config) error {
	strs := map[string]*string{
		"ORT_LIBRARY":       &cfg.Models.OrtLibrary,
		"RESOURCE_DIR":      &cfg.Models.ResourceDir,
		"CLASSIFIER_PATH":   &cfg.Models.ClassifierPath,
		"REGRESSOR_PATH":    &cfg.Models.RegressorPath,
		"CLASSIFIER_OUTPUT": &cfg.Models.ClassifierOutput,
		"REGRESSOR_OUTPUT":  &cfg.Models.RegressorOutput,
		"SCHEMATIC_PATH":    &cfg.SchematicPath,
		"LOGO_PATH":         &cfg.LogoPath,
		"METRICS_FILE":      &cfg.MetricsFile,
		"LOG_LEVEL":         &cfg.Log.Level,
		"LOG_FORMAT":        &cfg.Log.Format,
	}
	for name, dst := range strs {
		if v, ok := os.LookupEnv(envPrefix + name); ok {
			*dst = strings.TrimSpace(v)
		}
	}
	if v, ok := os.LookupEnv(envPrefix + "PRECISION"); ok {
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("parse %sPRECISION: %w", envPrefix, err)
		}
		cfg.Precision = n
	}
	return nil
}
