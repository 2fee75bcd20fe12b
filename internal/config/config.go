// Package config assembles the run configuration: YAML file defaults, .env and
// environment variables, command-line overrides and the token list.
package config

import (
	"fmt"
	"net/url"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/dmagro/solmeta/internal/explorer"
)

const (
	// EnvAPIURL overrides the explorer endpoint.
	EnvAPIURL = "API_URL"

	DefaultThreads = 4
)

// Config is built once at startup and not modified after Validate.
type Config struct {
	Tokens    []string      `yaml:"tokens"`
	Proxy     string        `yaml:"proxy"`
	Verbose   bool          `yaml:"verbose"`
	Output    string        `yaml:"output"`     // JSON report path
	Threads   int           `yaml:"threads"`    // accepted, does not parallelize
	APIURL    string        `yaml:"api_url"`    // filled from API_URL when empty
	Timeout   time.Duration `yaml:"timeout"`    // 0 = no client-side timeout
	DNSServer string        `yaml:"dns_server"` // empty = system resolver
	RateLimit float64       `yaml:"rate_limit"` // requests per second, 0 = unlimited
	LogFile   string        `yaml:"log_file"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{Threads: DefaultThreads}
}

// Load reads a YAML file on top of Default. ${VAR} references are expanded
// before parsing.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &Error{Op: "read config", Err: err}
	}

	cfg := Default()
	if err := yaml.Unmarshal([]byte(os.ExpandEnv(string(data))), cfg); err != nil {
		return nil, &Error{Op: "parse config", Err: err}
	}
	return cfg, nil
}

// ResolveAPIURL returns API_URL if set, otherwise the public explorer endpoint.
func ResolveAPIURL() string {
	if v := os.Getenv(EnvAPIURL); v != "" {
		return v
	}
	return explorer.DefaultAPIURL
}

// Validate checks the assembled configuration and fills APIURL. The returned
// warnings describe suspicious but usable values.
func (c *Config) Validate() ([]string, error) {
	var warnings []string

	if len(c.Tokens) == 0 {
		return nil, &Error{Op: "validate", Err: fmt.Errorf("at least one token is required")}
	}
	if c.Threads <= 0 {
		return nil, &Error{Op: "validate", Err: fmt.Errorf("threads must be > 0, got %d", c.Threads)}
	}
	if c.Timeout < 0 {
		return nil, &Error{Op: "validate", Err: fmt.Errorf("timeout must be >= 0, got %s", c.Timeout)}
	}
	if c.RateLimit < 0 {
		return nil, &Error{Op: "validate", Err: fmt.Errorf("rate limit must be >= 0, got %g", c.RateLimit)}
	}

	if c.APIURL == "" {
		c.APIURL = ResolveAPIURL()
	}
	u, err := url.Parse(c.APIURL)
	if err != nil {
		return nil, &Error{Op: "validate", Err: fmt.Errorf("invalid api url: %w", err)}
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, &Error{Op: "validate", Err: fmt.Errorf("invalid api url %q (expected http or https with a host)", c.APIURL)}
	}

	if c.Proxy != "" {
		if _, err := explorer.ParseProxyURL(c.Proxy); err != nil {
			return nil, &Error{Op: "validate", Err: err}
		}
	}

	const low, high = 500 * time.Millisecond, 2 * time.Minute
	if c.Timeout > 0 && c.Timeout < low {
		warnings = append(warnings, fmt.Sprintf("timeout is very low (%s); requests may fail under normal network jitter", c.Timeout))
	}
	if c.Timeout > high {
		warnings = append(warnings, fmt.Sprintf("timeout is very high (%s); failures may take a long time to surface", c.Timeout))
	}
	if c.Threads != DefaultThreads {
		warnings = append(warnings, fmt.Sprintf("threads=%d is accepted but tokens are processed one at a time", c.Threads))
	}

	return warnings, nil
}
