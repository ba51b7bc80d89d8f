// Package common holds the configuration and logging shared by the
// opuspipe commands.
package common

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/goccy/go-yaml"
	"github.com/pelletier/go-toml/v2"

	"github.com/gaurav-prasanna/opuspipe/core/fetch"
	"github.com/gaurav-prasanna/opuspipe/core/htmlrender"
	"github.com/gaurav-prasanna/opuspipe/core/render"
)

// ErrInvalidConfig is wrapped by every validation failure.
var ErrInvalidConfig = errors.New("invalid config")

// EnvPrefix prefixes every environment override.
const EnvPrefix = "OPUSPIPE_"

// Config represents the application configuration.
type Config struct {
	Server   ServerConfig   `toml:"server" yaml:"server"`
	Upstream UpstreamConfig `toml:"upstream" yaml:"upstream"`
	Render   RenderConfig   `toml:"render" yaml:"render"`
	Logging  LoggingConfig  `toml:"logging" yaml:"logging"`
	Output   OutputConfig   `toml:"output" yaml:"output"`
}

// ServerConfig configures the HTTP listener of the serve command.
type ServerConfig struct {
	Host            string `toml:"host" yaml:"host"`
	Port            int    `toml:"port" yaml:"port" validate:"min=1,max=65535"`
	DefaultID       string `toml:"default_id" yaml:"default_id" validate:"omitempty,numeric"` // Served at "/"
	ShutdownTimeout string `toml:"shutdown_timeout" yaml:"shutdown_timeout" validate:"required"`
}

// UpstreamConfig configures requests to the opus detail API.
type UpstreamConfig struct {
	BaseURL   string `toml:"base_url" yaml:"base_url" validate:"required,url"`
	Cookie    string `toml:"cookie" yaml:"cookie"` // Sent verbatim as the Cookie header
	UserAgent string `toml:"user_agent" yaml:"user_agent"`
	Timeout   string `toml:"timeout" yaml:"timeout" validate:"required"` // e.g. "30s"
}

// RenderConfig mirrors htmlrender.Options plus the page layout.
type RenderConfig struct {
	ScopedAttr         string   `toml:"scoped_attr" yaml:"scoped_attr"`
	ImageDisplayWidth  float64  `toml:"image_display_width" yaml:"image_display_width" validate:"gt=0"`
	SrcsetWidth        int      `toml:"srcset_width" yaml:"srcset_width" validate:"gt=0"`
	H1Size             float64  `toml:"h1_size" yaml:"h1_size" validate:"gt=0,gtefield=H2Size"`
	H2Size             float64  `toml:"h2_size" yaml:"h2_size" validate:"gt=0"`
	HeadingStrong      bool     `toml:"heading_strong" yaml:"heading_strong"`
	DefaultAspectRatio float64  `toml:"default_aspect_ratio" yaml:"default_aspect_ratio" validate:"gt=0"`
	DefaultRuleHeight  float64  `toml:"default_rule_height" yaml:"default_rule_height" validate:"gt=0"`
	MaxWidth           int      `toml:"max_width" yaml:"max_width" validate:"gt=0"`
	Stylesheets        []string `toml:"stylesheets" yaml:"stylesheets" validate:"dive,url"`
}

// LoggingConfig selects the log level and output format.
type LoggingConfig struct {
	Level  string `toml:"level" yaml:"level" validate:"oneof=trace debug info warn error"`
	Format string `toml:"format" yaml:"format" validate:"oneof=text json"`
}

// OutputConfig controls where rendered files go and the PDF font.
type OutputConfig struct {
	Dir     string `toml:"dir" yaml:"dir"`           // Empty writes to the working directory
	PDFFont string `toml:"pdf_font" yaml:"pdf_font"` // TTF with CJK coverage for PDF output
}

// NewDefaultConfig returns the configuration used when no file is given.
func NewDefaultConfig() *Config {
	opts := htmlrender.DefaultOptions()
	return &Config{
		Server: ServerConfig{
			Host:            "localhost",
			Port:            2333,
			ShutdownTimeout: "10s",
		},
		Upstream: UpstreamConfig{
			BaseURL: fetch.DefaultBaseURL,
			Timeout: "30s",
		},
		Render: RenderConfig{
			ScopedAttr:         opts.ScopedAttr,
			ImageDisplayWidth:  opts.ImageDisplayWidth,
			SrcsetWidth:        opts.SrcsetWidth,
			H1Size:             opts.H1Size,
			H2Size:             opts.H2Size,
			HeadingStrong:      opts.HeadingStrong,
			DefaultAspectRatio: opts.DefaultAspectRatio,
			DefaultRuleHeight:  opts.DefaultRuleHeight,
			MaxWidth:           render.DefaultMaxWidth,
			Stylesheets:        append([]string(nil), render.DefaultStylesheets...),
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// LoadFromFile loads configuration with priority: defaults -> file -> env.
// The file format follows its extension: .toml, .yaml or .yml. An empty
// path skips the file.
func LoadFromFile(path string) (*Config, error) {
	config := NewDefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
		if err := decode(path, data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	applyEnvOverrides(config)
	return config, nil
}

func decode(path string, data []byte, config *Config) error {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".toml":
		dec := toml.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		return dec.Decode(config)
	case ".yaml", ".yml":
		return yaml.UnmarshalWithOptions(data, config, yaml.Strict())
	default:
		return fmt.Errorf("unsupported config format %q", ext)
	}
}

// applyEnvOverrides applies OPUSPIPE_* environment variables.
func applyEnvOverrides(config *Config) {
	if host := os.Getenv(EnvPrefix + "SERVER_HOST"); host != "" {
		config.Server.Host = host
	}
	if port := os.Getenv(EnvPrefix + "SERVER_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			config.Server.Port = p
		}
	}
	if id := os.Getenv(EnvPrefix + "SERVER_DEFAULT_ID"); id != "" {
		config.Server.DefaultID = id
	}

	if baseURL := os.Getenv(EnvPrefix + "UPSTREAM_BASE_URL"); baseURL != "" {
		config.Upstream.BaseURL = baseURL
	}
	if cookie := os.Getenv(EnvPrefix + "UPSTREAM_COOKIE"); cookie != "" {
		config.Upstream.Cookie = cookie
	}
	if ua := os.Getenv(EnvPrefix + "UPSTREAM_USER_AGENT"); ua != "" {
		config.Upstream.UserAgent = ua
	}
	if timeout := os.Getenv(EnvPrefix + "UPSTREAM_TIMEOUT"); timeout != "" {
		config.Upstream.Timeout = timeout
	}

	if level := os.Getenv(EnvPrefix + "LOG_LEVEL"); level != "" {
		config.Logging.Level = level
	}
	if format := os.Getenv(EnvPrefix + "LOG_FORMAT"); format != "" {
		config.Logging.Format = format
	}

	if dir := os.Getenv(EnvPrefix + "OUTPUT_DIR"); dir != "" {
		config.Output.Dir = dir
	}
	if font := os.Getenv(EnvPrefix + "PDF_FONT"); font != "" {
		config.Output.PDFFont = font
	}
}

// Validate checks struct tags and duration fields. Failures wrap
// ErrInvalidConfig.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if _, err := c.Upstream.TimeoutDuration(); err != nil {
		return fmt.Errorf("%w: upstream.timeout: %w", ErrInvalidConfig, err)
	}
	if _, err := c.Server.ShutdownTimeoutDuration(); err != nil {
		return fmt.Errorf("%w: server.shutdown_timeout: %w", ErrInvalidConfig, err)
	}
	return nil
}

// TimeoutDuration parses Timeout.
func (u UpstreamConfig) TimeoutDuration() (time.Duration, error) {
	return parsePositiveDuration(u.Timeout)
}

// ShutdownTimeoutDuration parses ShutdownTimeout.
func (s ServerConfig) ShutdownTimeoutDuration() (time.Duration, error) {
	return parsePositiveDuration(s.ShutdownTimeout)
}

// Addr returns host:port.
func (s ServerConfig) Addr() string {
	return s.Host + ":" + strconv.Itoa(s.Port)
}

func parsePositiveDuration(s string) (time.Duration, error) {
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, err
	}
	if d <= 0 {
		return 0, fmt.Errorf("duration %q must be positive", s)
	}
	return d, nil
}

// RenderOptions converts the render section into renderer options.
func (c *Config) RenderOptions() htmlrender.Options {
	r := c.Render
	return htmlrender.Options{
		ScopedAttr:         r.ScopedAttr,
		ImageDisplayWidth:  r.ImageDisplayWidth,
		SrcsetWidth:        r.SrcsetWidth,
		H1Size:             r.H1Size,
		H2Size:             r.H2Size,
		HeadingStrong:      r.HeadingStrong,
		DefaultAspectRatio: r.DefaultAspectRatio,
		DefaultRuleHeight:  r.DefaultRuleHeight,
	}
}
