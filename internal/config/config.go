package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

const (
	DefaultDBPath     = "~/.local/share/flowbuilder/flows.db"
	DefaultFlowsDir   = "~/.local/share/flowbuilder/flows"
	DefaultFlow       = "main"
	DefaultConfigPath = "~/.config/flowbuilder/config.yaml"
	DefaultLogFile    = "~/.local/state/flowbuilder/flowbuilder.log"
)

// DBPath returns the database path from FLOWBUILDER_DB env var,
// falling back to DefaultDBPath.
func DBPath() string {
	if env := os.Getenv("FLOWBUILDER_DB"); env != "" {
		return env
	}
	return DefaultDBPath
}

// FlowName returns the flow to edit from FLOWBUILDER_FLOW env var,
// falling back to DefaultFlow.
func FlowName() string {
	if env := os.Getenv("FLOWBUILDER_FLOW"); env != "" {
		return env
	}
	return DefaultFlow
}

// Flow store backends
const (
	BackendSQLite = "sqlite"
	BackendFiles  = "files"
)

// Config is the full application configuration
type Config struct {
	Backend  string       `yaml:"backend" validate:"oneof=sqlite files"`
	DBPath   string       `yaml:"db_path" validate:"required_if=Backend sqlite"`
	FlowsDir string       `yaml:"flows_dir" validate:"required_if=Backend files"`
	Flow     string       `yaml:"flow" validate:"required,excludesall=/\\"`
	SeedFile string       `yaml:"seed_file" validate:"omitempty,endswith=.hcl"`
	Log      LogConfig    `yaml:"log"`
	Canvas   CanvasConfig `yaml:"canvas"`
}

// LogConfig selects where and how much to log. An empty File means stderr.
type LogConfig struct {
	File   string `yaml:"file"`
	Level  string `yaml:"level" validate:"oneof=debug info warn error"`
	Format string `yaml:"format" validate:"oneof=console json"`
}

// CanvasConfig sets how many canvas units one terminal cell covers
type CanvasConfig struct {
	CellWidth  float64 `yaml:"cell_width" validate:"gt=0"`
	CellHeight float64 `yaml:"cell_height" validate:"gt=0"`
}

// Default returns the configuration used when nothing is set
func Default() Config {
	return Config{
		Backend:  BackendSQLite,
		DBPath:   DefaultDBPath,
		FlowsDir: DefaultFlowsDir,
		Flow:     DefaultFlow,
		Log: LogConfig{
			Level:  "info",
			Format: "console",
		},
		Canvas: CanvasConfig{
			CellWidth:  10,
			CellHeight: 20,
		},
	}
}

// Load reads the YAML file named by FLOWBUILDER_CONFIG (or DefaultConfigPath
// when it exists), applies environment overrides and validates the result.
func Load() (Config, error) {
	path := os.Getenv("FLOWBUILDER_CONFIG")
	explicit := path != ""
	if !explicit {
		path = DefaultConfigPath
	}

	cfg := Default()
	f, err := os.Open(ExpandPath(path))
	switch {
	case err == nil:
		defer f.Close()
		if err := decode(f, &cfg); err != nil {
			return Config{}, fmt.Errorf("failed to read config %s: %w", path, err)
		}
	case explicit || !errors.Is(err, fs.ErrNotExist):
		return Config{}, fmt.Errorf("failed to open config: %w", err)
	}

	cfg.applyEnv()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Parse reads a YAML configuration over the defaults without consulting the environment
func Parse(r io.Reader) (Config, error) {
	cfg := Default()
	if err := decode(r, &cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func decode(r io.Reader, cfg *Config) error {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

func (c *Config) applyEnv() {
	if env := os.Getenv("FLOWBUILDER_BACKEND"); env != "" {
		c.Backend = strings.ToLower(env)
	}
	if env := os.Getenv("FLOWBUILDER_DB"); env != "" {
		c.DBPath = env
	}
	if env := os.Getenv("FLOWBUILDER_FLOWS_DIR"); env != "" {
		c.FlowsDir = env
	}
	if env := os.Getenv("FLOWBUILDER_FLOW"); env != "" {
		c.Flow = env
	}
	if env := os.Getenv("FLOWBUILDER_LOG_FILE"); env != "" {
		c.Log.File = env
	}
	if env := os.Getenv("FLOWBUILDER_LOG_LEVEL"); env != "" {
		c.Log.Level = strings.ToLower(env)
	}
}

var validate = validator.New()

// Validate checks the configuration against its field rules
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return formatValidationError(err)
	}
	return nil
}

func formatValidationError(err error) error {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return err
	}
	msgs := make([]string, 0, len(validationErrors))
	for _, e := range validationErrors {
		msgs = append(msgs, formatFieldError(e))
	}
	return fmt.Errorf("invalid config: %s", strings.Join(msgs, "; "))
}

func formatFieldError(e validator.FieldError) string {
	field := strings.ToLower(e.Namespace())
	field = strings.TrimPrefix(field, "config.")

	switch e.Tag() {
	case "required", "required_if":
		return fmt.Sprintf("%s is required", field)
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, e.Param())
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", field, e.Param())
	case "endswith":
		return fmt.Sprintf("%s must end with %s", field, e.Param())
	case "excludesall":
		return fmt.Sprintf("%s must not contain any of %s", field, strconv.Quote(e.Param()))
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}

// ExpandPath replaces a leading ~ with the user's home directory
func ExpandPath(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, path[1:])
	}
	return path
}
