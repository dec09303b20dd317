package config

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"golang.org/x/text/language"

	"github.com/flowpbx/vmprompt/internal/prompt"
	"github.com/flowpbx/vmprompt/internal/saytime"
)

// Config holds all runtime configuration for the vmprompt server.
// Precedence: CLI flags > env vars > defaults.
type Config struct {
	DataDir        string
	HTTPPort       int
	LogLevel       string
	LogFormat      string  // log output format: "text" or "json"
	NumericMethod  string  // i18n_string, play_numeric or ahn_say
	DatetimeFormat string  // SayUnixTime-style format for spoken times
	Locale         string  // default prompt locale (BCP 47)
	AudioPath      string  // base path or URL of localized prompt audio
	CatalogFile    string  // optional YAML catalog merged over the built-in one
	SoundsDir      string  // Asterisk sounds directory for digit dictation
	RateLimit      float64 // API requests per second per client IP, 0 disables

	mode   prompt.RenderingMode
	locale language.Tag
}

// defaults
const (
	defaultDataDir       = "./data"
	defaultHTTPPort      = 8080
	defaultLogLevel      = "info"
	defaultLogFormat     = "text"
	defaultNumericMethod = "i18n_string"
	defaultLocale        = "en"
	defaultAudioPath     = "/prompts"
	defaultRateLimit     = 50
)

// envPrefix is the prefix for all vmprompt environment variables.
const envPrefix = "VMPROMPT_"

// Load parses configuration from CLI flags and environment variables.
// Precedence: CLI flags > env vars > defaults.
func Load() (*Config, error) {
	return LoadArgs(os.Args[1:])
}

// LoadArgs is Load with an explicit argument list.
func LoadArgs(args []string) (*Config, error) {
	cfg := &Config{}

	fs := flag.NewFlagSet("vmprompt", flag.ContinueOnError)

	fs.StringVar(&cfg.DataDir, "data-dir", defaultDataDir, "data directory for the voicemail message database")
	fs.IntVar(&cfg.HTTPPort, "http-port", defaultHTTPPort, "HTTP server listen port")
	fs.StringVar(&cfg.LogLevel, "log-level", defaultLogLevel, "log level (debug, info, warn, error)")
	fs.StringVar(&cfg.LogFormat, "log-format", defaultLogFormat, "log output format (text, json)")
	fs.StringVar(&cfg.NumericMethod, "numeric-method", defaultNumericMethod, "how numbers and times are spoken (i18n_string, play_numeric, ahn_say)")
	fs.StringVar(&cfg.DatetimeFormat, "datetime-format", saytime.DefaultFormat, "date/time format for play_numeric and ahn_say")
	fs.StringVar(&cfg.Locale, "locale", defaultLocale, "default prompt locale")
	fs.StringVar(&cfg.AudioPath, "audio-path", defaultAudioPath, "base path or URL of localized prompt audio")
	fs.StringVar(&cfg.CatalogFile, "catalog-file", "", "YAML translation catalog merged over the built-in one")
	fs.StringVar(&cfg.SoundsDir, "sounds-dir", "", "Asterisk sounds directory used by ahn_say")
	fs.Float64Var(&cfg.RateLimit, "rate-limit", defaultRateLimit, "API requests per second per client IP (0 disables)")

	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("parsing flags: %w", err)
	}

	// Apply env var overrides for any flags not explicitly set on the command line.
	applyEnvOverrides(fs)

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// applyEnvOverrides checks environment variables for any flag that was not
// explicitly provided on the command line.
func applyEnvOverrides(fs *flag.FlagSet) {
	set := make(map[string]bool)
	fs.Visit(func(f *flag.Flag) {
		set[f.Name] = true
	})

	fs.VisitAll(func(f *flag.Flag) {
		if set[f.Name] {
			return
		}
		envVar := envPrefix + strings.ToUpper(strings.ReplaceAll(f.Name, "-", "_"))
		val, ok := os.LookupEnv(envVar)
		if !ok || val == "" {
			return
		}
		// Unparseable values keep the default.
		if err := f.Value.Set(val); err != nil {
			slog.Warn("ignoring invalid environment value", "env", envVar, "error", err)
		}
	})
}

// validate checks that the config values are sane. An unknown numeric
// method or locale fails here, before any message is composed.
func (c *Config) validate() error {
	if c.HTTPPort < 1 || c.HTTPPort > 65535 {
		return fmt.Errorf("http-port must be between 1 and 65535, got %d", c.HTTPPort)
	}

	if c.RateLimit < 0 {
		return fmt.Errorf("rate-limit must not be negative, got %v", c.RateLimit)
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[strings.ToLower(c.LogLevel)] {
		return fmt.Errorf("log-level must be one of debug, info, warn, error; got %q", c.LogLevel)
	}
	c.LogLevel = strings.ToLower(c.LogLevel)

	validFormats := map[string]bool{"text": true, "json": true}
	if !validFormats[strings.ToLower(c.LogFormat)] {
		return fmt.Errorf("log-format must be one of text, json; got %q", c.LogFormat)
	}
	c.LogFormat = strings.ToLower(c.LogFormat)

	mode, err := prompt.ParseMode(c.NumericMethod)
	if err != nil {
		return fmt.Errorf("numeric-method: %w", err)
	}
	c.mode = mode

	if _, err := saytime.Parse(c.DatetimeFormat); err != nil {
		return fmt.Errorf("datetime-format: %w: %v", prompt.ErrConfiguration, err)
	}

	tag, err := language.Parse(c.Locale)
	if err != nil {
		return fmt.Errorf("locale: %w: %v", prompt.ErrConfiguration, err)
	}
	c.locale = tag

	return nil
}

// Mode returns the validated rendering mode.
func (c *Config) Mode() prompt.RenderingMode {
	return c.mode
}

// LocaleTag returns the validated default locale.
func (c *Config) LocaleTag() language.Tag {
	return c.locale
}

// PromptSettings returns the composer settings derived from the config.
func (c *Config) PromptSettings() prompt.Settings {
	return prompt.Settings{
		Mode:           c.mode,
		DateTimeFormat: c.DatetimeFormat,
		Locale:         c.locale,
	}
}

// SlogHandler returns a slog.Handler configured with the appropriate format
// (text or json) and log level.
func (c *Config) SlogHandler(w *os.File) slog.Handler {
	opts := &slog.HandlerOptions{Level: c.SlogLevel()}
	if c.LogFormat == "json" {
		return slog.NewJSONHandler(w, opts)
	}
	return slog.NewTextHandler(w, opts)
}

// SlogLevel returns the slog.Level corresponding to the configured log level.
func (c *Config) SlogLevel() slog.Level {
	switch c.LogLevel {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
