package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"
)

// Config holds search client configuration.
type Config struct {
	CatalogueRoot    string
	DefaultBorough   string
	Timeout          time.Duration
	UserAgent        string
	CacheSize        int
	RespectRobotsTxt bool
	OutputFile       string
	OutputFormat     string // console, json, csv, or dual
	MetricsAddr      string
	Verbose          bool
}

// DefaultConfig returns defaults for the CapitaDiscovery catalogue platform.
func DefaultConfig() *Config {
	return &Config{
		CatalogueRoot:    "https://capitadiscovery.co.uk/",
		DefaultBorough:   "islington",
		Timeout:          10 * time.Second,
		UserAgent:        "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/117.0.0.0 Safari/537.36",
		CacheSize:        128,
		RespectRobotsTxt: false,
		OutputFile:       "",
		OutputFormat:     "console",
		Verbose:          false,
	}
}

// Validate ensures all configuration values are coherent.
func (c *Config) Validate() error {
	if c.CatalogueRoot == "" {
		return fmt.Errorf("catalogue root cannot be empty")
	}

	parsedURL, err := url.Parse(c.CatalogueRoot)
	if err != nil {
		return fmt.Errorf("invalid catalogue root: %w", err)
	}
	if parsedURL.Host == "" {
		return fmt.Errorf("catalogue root must include a host")
	}
	if !strings.HasSuffix(c.CatalogueRoot, "/") {
		return fmt.Errorf("catalogue root must end with a slash")
	}

	if c.DefaultBorough == "" {
		return fmt.Errorf("default borough cannot be empty")
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive")
	}
	if c.UserAgent == "" {
		return fmt.Errorf("user agent cannot be empty")
	}
	if c.CacheSize <= 0 {
		return fmt.Errorf("cache size must be positive")
	}

	switch c.OutputFormat {
	case "console", "json", "csv", "dual":
	default:
		return fmt.Errorf("output format must be console, json, csv, or dual")
	}
	if c.OutputFormat != "console" && c.OutputFile == "" {
		return fmt.Errorf("output file required for format %q", c.OutputFormat)
	}

	return nil
}
