package config

import (
	"bytes"
	"fmt"
	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
	"strings"
)

const (
	KeyDatasetInputs     = "dataset.inputs"
	KeyDatasetFormat     = "dataset.format"
	KeyDatasetDateColumn = "dataset.date_column"
	KeyServerPort        = "server.port"
	KeyServerCORSOrigins = "server.cors_origins"
	KeyServerOpenBrowser = "server.open_browser"
	KeyStorageDBPath     = "storage.db_path"
	KeyLogLevel          = "log.level"
	KeyLogFormat         = "log.format"
	DefaultDateColumn    = "local_date"
	DefaultServerPort    = 8050
	DefaultStorageDBPath = "reviewdash.db"
	DefaultLogLevel      = "info"
	DefaultLogFormat     = "text"
)

type Config struct {
	Dataset DatasetConfig `mapstructure:"dataset"`
	Server  ServerConfig  `mapstructure:"server"`
	Storage StorageConfig `mapstructure:"storage"`
	Log     LogConfig     `mapstructure:"log"`
}

type DatasetConfig struct {
	Inputs     []string `mapstructure:"inputs"`
	Format     string   `mapstructure:"format" validate:"omitempty,oneof=csv excel xlsx xlsm xls"`
	DateColumn string   `mapstructure:"date_column" validate:"required"`
}

type ServerConfig struct {
	Port        int      `mapstructure:"port" validate:"min=1,max=65535"`
	CORSOrigins []string `mapstructure:"cors_origins"`
	OpenBrowser bool     `mapstructure:"open_browser"`
}

type StorageConfig struct {
	DBPath string `mapstructure:"db_path" validate:"required"`
}

type LogConfig struct {
	Level  string `mapstructure:"level" validate:"oneof=debug info warn error"`
	Format string `mapstructure:"format" validate:"oneof=text json"`
}

// SetDefaults sets default values if not provided
func SetDefaults() {
	setDefaults(viper.GetViper())
}

// LoadAndValidate loads config from Viper and validates it
func LoadAndValidate() (*Config, error) {
	return loadAndValidateFromViper(viper.GetViper())
}

// ValidateYAMLContent validates configuration from raw YAML content.
func ValidateYAMLContent(content []byte) (*Config, error) {
	local := viper.New()
	setDefaults(local)
	local.SetConfigType("yaml")
	if err := local.ReadConfig(bytes.NewReader(content)); err != nil {
		return nil, fmt.Errorf("read config content: %w", err)
	}
	return loadAndValidateFromViper(local)
}

// ExampleYAML returns the default configuration template.
func ExampleYAML() string {
	return `# reviewdash configuration
dataset:
  # Work-entry exports (.csv, .xlsx) loaded by "serve" and "import".
  inputs: []
  # Leave empty to infer the format from the file extension.
  format: ""
  date_column: "local_date"

server:
  port: 8050
  cors_origins: []
  open_browser: false

storage:
  db_path: "reviewdash.db"

log:
  level: "info"
  format: "text"
`
}

func loadAndValidateFromViper(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	cfg.Dataset.Format = strings.ToLower(strings.TrimSpace(cfg.Dataset.Format))
	cfg.Log.Level = strings.ToLower(strings.TrimSpace(cfg.Log.Level))
	cfg.Log.Format = strings.ToLower(strings.TrimSpace(cfg.Log.Format))

	validate := validator.New()
	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}
	if err := validateInputs(cfg.Dataset.Inputs); err != nil {
		return nil, err
	}
	if err := validateOrigins(cfg.Server.CORSOrigins); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault(KeyDatasetInputs, []string{})
	v.SetDefault(KeyDatasetFormat, "")
	v.SetDefault(KeyDatasetDateColumn, DefaultDateColumn)
	v.SetDefault(KeyServerPort, DefaultServerPort)
	v.SetDefault(KeyServerCORSOrigins, []string{})
	v.SetDefault(KeyServerOpenBrowser, false)
	v.SetDefault(KeyStorageDBPath, DefaultStorageDBPath)
	v.SetDefault(KeyLogLevel, DefaultLogLevel)
	v.SetDefault(KeyLogFormat, DefaultLogFormat)
}

func validateInputs(inputs []string) error {
	seen := make(map[string]struct{}, len(inputs))
	for i, input := range inputs {
		path := strings.TrimSpace(input)
		if path == "" {
			return fmt.Errorf("validation failed: dataset.inputs[%d] is empty", i)
		}
		if _, exists := seen[path]; exists {
			return fmt.Errorf("validation failed: duplicate dataset input %q", path)
		}
		seen[path] = struct{}{}
	}
	return nil
}

func validateOrigins(origins []string) error {
	for i, origin := range origins {
		value := strings.TrimSpace(origin)
		if value == "" {
			return fmt.Errorf("validation failed: server.cors_origins[%d] is empty", i)
		}
		if value != "*" && !strings.HasPrefix(value, "http://") && !strings.HasPrefix(value, "https://") {
			return fmt.Errorf(
				"validation failed: server.cors_origins[%d] %q must be \"*\" or an http(s) origin",
				i,
				origin,
			)
		}
	}
	return nil
}
