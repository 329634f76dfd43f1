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

// FileName is the optional config file read from the working directory.
const FileName = ".apismoke.yml"

// TokenEnv overrides the token when no --token flag is given.
const TokenEnv = "APISMOKE_TOKEN"

const (
	// DefaultBaseURL is the API every endpoint path is joined to.
	DefaultBaseURL = "https://api.stoneup.com.br/api/v1.0"
	// PlaceholderToken marks a token that was never configured.
	PlaceholderToken = "SEU_TOKEN_AQUI"
	// DefaultUserID is substituted into body templates that refer to the test user.
	DefaultUserID = "1"
	// DefaultOutput is where the JSON report is written.
	DefaultOutput = "endpoint-test-report.json"
	// DefaultDelay is the pause after every invoked endpoint.
	DefaultDelay = 500 * time.Millisecond

	// FormatPretty renders human readable output.
	FormatPretty = "pretty"
	// FormatJSON prints the report document to stdout.
	FormatJSON = "json"

	ColorAuto   = "auto"
	ColorAlways = "always"
	ColorNever  = "never"
)

// ErrPlaceholderToken is returned when the token is blank or still holds PlaceholderToken.
var ErrPlaceholderToken = errors.New("authentication token is not configured")

// Config captures CLI options sourced from config files, flags and the environment.
type Config struct {
	BaseURL string `yaml:"base_url"`
	Token   string `yaml:"token"`
	UserID  string `yaml:"user_id"`

	Endpoints  []string `yaml:"endpoints"`
	Only       []string `yaml:"only"`
	Exclude    []string `yaml:"exclude"`
	Categories []string `yaml:"categories"`

	Output          string `yaml:"output"`
	Format          string `yaml:"format"`
	Color           string `yaml:"color"`
	FailOnHTTPError bool   `yaml:"fail_on_http_error"`
	Debug           bool   `yaml:"debug"`

	Delay time.Duration `yaml:"-"`
}

// Default returns the baseline configuration used when no flags or config file specify values.
func Default() Config {
	return Config{
		BaseURL: DefaultBaseURL,
		Token:   PlaceholderToken,
		UserID:  DefaultUserID,
		Output:  DefaultOutput,
		Format:  FormatPretty,
		Color:   ColorAuto,
		Delay:   DefaultDelay,
	}
}

// IsPlaceholderToken reports whether token was left unconfigured: blank or still PlaceholderToken.
func IsPlaceholderToken(token string) bool {
	token = strings.TrimSpace(token)
	return token == "" || token == PlaceholderToken
}

// Load reads .apismoke.yml from root when present. Missing files are ignored.
func Load(root string) (Config, error) {
	cfg := Default()
	path := filepath.Join(root, FileName)
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("read config %q: %w", path, err)
	}

	var fileCfg Config
	if err := yaml.Unmarshal(data, &fileCfg); err != nil {
		return cfg, fmt.Errorf("parse config %q: %w", path, err)
	}

	cfg = merge(cfg, fileCfg)
	return cfg, nil
}

func merge(base, override Config) Config {
	out := base

	if override.BaseURL != "" {
		out.BaseURL = override.BaseURL
	}
	if override.Token != "" {
		out.Token = override.Token
	}
	if override.UserID != "" {
		out.UserID = override.UserID
	}
	if len(override.Endpoints) > 0 {
		out.Endpoints = append([]string{}, override.Endpoints...)
	}
	if len(override.Only) > 0 {
		out.Only = append([]string{}, override.Only...)
	}
	if len(override.Exclude) > 0 {
		out.Exclude = append([]string{}, override.Exclude...)
	}
	if len(override.Categories) > 0 {
		out.Categories = append([]string{}, override.Categories...)
	}
	if override.Output != "" {
		out.Output = override.Output
	}
	if override.Format != "" {
		out.Format = override.Format
	}
	if override.Color != "" {
		out.Color = override.Color
	}
	if override.FailOnHTTPError {
		out.FailOnHTTPError = true
	}
	if override.Debug {
		out.Debug = true
	}

	return out
}

// ApplyFlags mutates cfg by applying values from CLI flags when they are present.
func ApplyFlags(cfg *Config, flags FlagValues) {
	if flags.BaseURL.Set {
		cfg.BaseURL = flags.BaseURL.Value
	}
	if flags.Token.Set {
		cfg.Token = flags.Token.Value
	}
	if flags.UserID.Set {
		cfg.UserID = flags.UserID.Value
	}
	if len(flags.Endpoints.Values) > 0 {
		cfg.Endpoints = append([]string{}, flags.Endpoints.Values...)
	}
	if len(flags.Only.Values) > 0 {
		cfg.Only = append([]string{}, flags.Only.Values...)
	}
	if len(flags.Exclude.Values) > 0 {
		cfg.Exclude = append([]string{}, flags.Exclude.Values...)
	}
	if len(flags.Categories.Values) > 0 {
		cfg.Categories = append([]string{}, flags.Categories.Values...)
	}
	if flags.Output.Set {
		cfg.Output = flags.Output.Value
	}
	if flags.Format.Set {
		cfg.Format = flags.Format.Value
	}
	if flags.Color.Set {
		cfg.Color = flags.Color.Value
	}
	if flags.FailOnHTTPError.Set {
		cfg.FailOnHTTPError = flags.FailOnHTTPError.Value
	}
	if flags.Debug.Set {
		cfg.Debug = flags.Debug.Value
	}
	if flags.Delay.Set {
		cfg.Delay = flags.Delay.Value
	}
}

// ApplyEnv takes the token from TokenEnv unless the --token flag was given.
func ApplyEnv(cfg *Config, flags FlagValues, getenv func(string) string) {
	if flags.Token.Set || getenv == nil {
		return
	}
	if token := strings.TrimSpace(getenv(TokenEnv)); token != "" {
		cfg.Token = token
	}
}

// Validate rejects values no command can work with.
func Validate(cfg Config) error {
	switch cfg.Format {
	case FormatPretty, FormatJSON:
	default:
		return fmt.Errorf("unsupported format %q (want %s or %s)", cfg.Format, FormatPretty, FormatJSON)
	}
	switch cfg.Color {
	case ColorAuto, ColorAlways, ColorNever:
	default:
		return fmt.Errorf("unsupported color mode %q (want %s, %s or %s)", cfg.Color, ColorAuto, ColorAlways, ColorNever)
	}
	u, err := url.Parse(cfg.BaseURL)
	if err != nil {
		return fmt.Errorf("parse base url %q: %w", cfg.BaseURL, err)
	}
	if !u.IsAbs() || u.Host == "" {
		return fmt.Errorf("base url %q must be absolute", cfg.BaseURL)
	}
	if strings.TrimSpace(cfg.Output) == "" {
		return errors.New("output path must not be empty")
	}
	if cfg.Delay < 0 {
		return fmt.Errorf("delay %s must not be negative", cfg.Delay)
	}
	return nil
}

// FlagValues captures CLI flag state with knowledge of whether each flag was set explicitly.
type FlagValues struct {
	BaseURL         StringFlag
	Token           StringFlag
	UserID          StringFlag
	Endpoints       SliceFlag
	Only            SliceFlag
	Exclude         SliceFlag
	Categories      SliceFlag
	Output          StringFlag
	Format          StringFlag
	Color           StringFlag
	FailOnHTTPError BoolFlag
	Debug           BoolFlag
	Delay           DurationFlag
}

// StringFlag represents a string flag and whether it was set.
type StringFlag struct {
	Value string
	Set   bool
}

// SliceFlag represents a slice flag and whether it captured values via CLI.
type SliceFlag struct {
	Values []string
}

// BoolFlag represents a bool flag and whether it was set.
type BoolFlag struct {
	Value bool
	Set   bool
}

// DurationFlag represents a duration flag and whether it was set.
type DurationFlag struct {
	Value time.Duration
	Set   bool
}
