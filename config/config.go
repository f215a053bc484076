// Package config loads storefront client settings from the environment.
//
// Variables are read with the STOREFRONT_ prefix. An optional .env file in the
// working directory is loaded first; variables already set in the process
// environment take precedence over the file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/AmmannChristian/go-storefront/oauth2client"
)

// DefaultTokenPath is appended to the API base URL when no token URL is set.
const DefaultTokenPath = "/v1/oauth2/token"

// Config holds the settings for one storefront client.
type Config struct {
	APIBaseURL   string             `env:"STOREFRONT_API_BASE_URL,required"`
	TokenURL     string             `env:"STOREFRONT_TOKEN_URL"`
	ClientID     string             `env:"STOREFRONT_CLIENT_ID,required"`
	ClientSecret string             `env:"STOREFRONT_CLIENT_SECRET,required"`
	Scope        string             `env:"STOREFRONT_SCOPE" envDefault:"read_products"`
	TokenStyle   oauth2client.Style `env:"STOREFRONT_TOKEN_STYLE" envDefault:"json"`

	HTTPTimeout         time.Duration `env:"STOREFRONT_HTTP_TIMEOUT" envDefault:"30s"`
	HTTPFollowRedirects bool          `env:"STOREFRONT_HTTP_FOLLOW_REDIRECTS" envDefault:"true"`

	TLSCAFile             string `env:"STOREFRONT_TLS_CA_FILE"`
	TLSCertFile           string `env:"STOREFRONT_TLS_CERT_FILE"` // client certificate for mutual TLS
	TLSKeyFile            string `env:"STOREFRONT_TLS_KEY_FILE"`
	TLSInsecureSkipVerify bool   `env:"STOREFRONT_TLS_INSECURE_SKIP_VERIFY"`

	LogLevel string `env:"STOREFRONT_LOG_LEVEL" envDefault:"info"`
}

// Load reads the given env files (or an optional .env when none are given),
// parses the environment and validates the result.
func Load(files ...string) (*Config, error) {
	if err := loadEnvFiles(files); err != nil {
		return nil, err
	}

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("config: parse env: %w", err)
	}

	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func loadEnvFiles(files []string) error {
	if len(files) == 0 {
		if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("config: load .env: %w", err)
		}
		return nil
	}

	if err := godotenv.Load(files...); err != nil {
		return fmt.Errorf("config: load env file: %w", err)
	}
	return nil
}

func (c *Config) applyDefaults() {
	c.APIBaseURL = strings.TrimRight(strings.TrimSpace(c.APIBaseURL), "/")
	if c.TokenURL == "" && c.APIBaseURL != "" {
		c.TokenURL = c.APIBaseURL + DefaultTokenPath
	}
}

// Validate checks that the configuration can be used to build a client.
func (c *Config) Validate() error {
	var errs []error

	if err := checkURL("STOREFRONT_API_BASE_URL", c.APIBaseURL); err != nil {
		errs = append(errs, err)
	}
	if err := checkURL("STOREFRONT_TOKEN_URL", c.TokenURL); err != nil {
		errs = append(errs, err)
	}
	if c.ClientID == "" {
		errs = append(errs, errors.New("STOREFRONT_CLIENT_ID is empty"))
	}
	if c.ClientSecret == "" {
		errs = append(errs, errors.New("STOREFRONT_CLIENT_SECRET is empty"))
	}
	switch c.TokenStyle {
	case oauth2client.StyleJSON, oauth2client.StyleForm:
	default:
		errs = append(errs, fmt.Errorf("STOREFRONT_TOKEN_STYLE must be %q or %q, got %q",
			oauth2client.StyleJSON, oauth2client.StyleForm, c.TokenStyle))
	}
	if c.HTTPTimeout <= 0 {
		errs = append(errs, fmt.Errorf("STOREFRONT_HTTP_TIMEOUT must be positive, got %s", c.HTTPTimeout))
	}
	if (c.TLSCertFile == "") != (c.TLSKeyFile == "") {
		errs = append(errs, errors.New("STOREFRONT_TLS_CERT_FILE and STOREFRONT_TLS_KEY_FILE must be set together"))
	}
	if _, err := logrus.ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, fmt.Errorf("STOREFRONT_LOG_LEVEL: %w", err))
	}

	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("config: invalid configuration: %w", err)
	}
	return nil
}

// TLSConfigured reports whether any CA or client certificate file is set.
func (c *Config) TLSConfigured() bool {
	return c.TLSCAFile != "" || c.TLSCertFile != "" || c.TLSKeyFile != ""
}

// Level returns the parsed log level, falling back to info.
func (c *Config) Level() logrus.Level {
	lvl, err := logrus.ParseLevel(c.LogLevel)
	if err != nil {
		return logrus.InfoLevel
	}
	return lvl
}

func checkURL(name, raw string) error {
	if raw == "" {
		return fmt.Errorf("%s is empty", name)
	}
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" || u.Host == "" {
		return fmt.Errorf("%s must be an absolute http(s) URL, got %q", name, raw)
	}
	return nil
}
