// Package config loads and validates the modelchain configuration from environment variables.
package config

import (
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
)

// Default model identifiers of the game-development pipeline.
const (
	DefaultArchitectureModel  = "anthropic.claude-3-sonnet-20240229-v1:0"
	DefaultDevelopmentModel   = "anthropic.claude-3-haiku-20240307-v1:0"
	DefaultTestingModel       = "amazon.nova-lite-v1:0"
	DefaultDocumentationModel = "amazon.titan-text-express-v1"

	DefaultRequest  = "Create a simple Tic-Tac-Toe (X&Os) game in Python"
	DefaultPipeline = "game-development"
)

var ErrInvalidConfig = errors.New("invalid configuration")

// Config holds all application configuration.
type Config struct {
	// AWS settings.
	Region string

	// Models of the game-development pipeline.
	ArchitectureModel  string
	DevelopmentModel   string
	TestingModel       string
	DocumentationModel string

	// Run settings.
	Request    string
	Pipeline   string // Built-in definition name.
	StagesFile string // YAML definition, takes precedence over Pipeline.
	GraphFile  string // DOT output, disabled when empty.

	// OTEL settings.
	OTELEndpoint string
	OTELInsecure bool
	ServiceName  string

	LogLevel string
}

// LoadDotEnv loads files (".env" when none is given) into the environment. Variables that are
// already set win. A missing file is not an error.
func LoadDotEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}

	for _, file := range files {
		err := godotenv.Load(file)
		if err != nil && !os.IsNotExist(errors.Cause(err)) {
			return errors.Wrapf(err, "unable to load %s", file)
		}
	}

	return nil
}

// Load reads configuration from environment variables with sensible defaults.
func Load() (Config, error) {
	insecure, err := envBool("MODELCHAIN_OTEL_INSECURE", false)
	if err != nil {
		return Config{}, errors.Wrap(ErrInvalidConfig, err.Error())
	}

	cfg := Config{
		Region:             envStr("AWS_DEFAULT_REGION", "us-east-1"),
		ArchitectureModel:  envStr("ARCHITECTURE_MODEL", DefaultArchitectureModel),
		DevelopmentModel:   envStr("DEVELOPMENT_MODEL", DefaultDevelopmentModel),
		TestingModel:       envStr("TESTING_MODEL", DefaultTestingModel),
		DocumentationModel: envStr("DOCUMENTATION_MODEL", DefaultDocumentationModel),
		Request:            envStr("PROJECT_REQUEST", DefaultRequest),
		Pipeline:           envStr("MODELCHAIN_PIPELINE", DefaultPipeline),
		StagesFile:         envStr("MODELCHAIN_STAGES_FILE", ""),
		GraphFile:          envStr("MODELCHAIN_GRAPH_FILE", ""),
		OTELEndpoint:       envStr("OTEL_EXPORTER_OTLP_ENDPOINT", ""),
		OTELInsecure:       insecure,
		ServiceName:        envStr("OTEL_SERVICE_NAME", "modelchain"),
		LogLevel:           envStr("MODELCHAIN_LOG_LEVEL", "info"),
	}

	err = cfg.Validate()
	if err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// Validate checks that required configuration is present.
func (c Config) Validate() error {
	if c.Region == "" {
		return errors.Wrap(ErrInvalidConfig, "AWS_DEFAULT_REGION is required")
	}

	required := []struct {
		key   string
		value string
	}{
		{"ARCHITECTURE_MODEL", c.ArchitectureModel},
		{"DEVELOPMENT_MODEL", c.DevelopmentModel},
		{"TESTING_MODEL", c.TestingModel},
		{"DOCUMENTATION_MODEL", c.DocumentationModel},
	}
	for _, req := range required {
		if strings.TrimSpace(req.value) == "" {
			return errors.Wrapf(ErrInvalidConfig, "%s is required", req.key)
		}
	}

	if _, err := ParseLevel(c.LogLevel); err != nil {
		return err
	}

	return nil
}

// ParseLevel maps a MODELCHAIN_LOG_LEVEL value to a slog level.
func ParseLevel(level string) (slog.Level, error) {
	var lvl slog.Level
	err := lvl.UnmarshalText([]byte(level))
	if err != nil {
		return slog.LevelInfo, errors.Wrapf(ErrInvalidConfig, "MODELCHAIN_LOG_LEVEL=%q is not a valid level", level)
	}

	return lvl, nil
}

func envStr(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}

	return defaultVal
}

func envBool(key string, defaultVal bool) (bool, error) {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal, nil
	}

	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, errors.Errorf("%s=%q is not a valid boolean", key, v)
	}

	return b, nil
}
