package config

import (
	"errors"
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is the config file name searched for in the
// working directory.
const DefaultConfigFile = ".crawlmap"

// xdgConfigFile is the file name under the XDG config directory.
const xdgConfigFile = "config.yml"

// ErrConfigNotFound is returned when the configuration file does not
// exist. Callers decide whether that is fatal based on whether the
// path was explicitly specified.
var ErrConfigNotFound = errors.New("configuration file not found")

// DomainConfig holds per-domain crawl overrides. This allows crawling
// behind a login or tuning politeness for a specific site.
type DomainConfig struct {
	// UserAgent overrides the identification header for this domain.
	UserAgent string `yaml:"userAgent,omitempty"`

	// Cookie is sent as the Cookie header with every request.
	// Format: "name=value" or "name1=value1; name2=value2".
	Cookie string `yaml:"cookie,omitempty"`

	// Headers are extra HTTP headers for requests to this domain.
	Headers map[string]string `yaml:"headers,omitempty"`

	// Delay overrides the inter-request delay for this domain.
	Delay Duration `yaml:"delay,omitempty"`

	// MaxDepth overrides the global depth limit. Zero means keep the
	// global value.
	MaxDepth int `yaml:"maxDepth,omitempty"`

	// IgnorePatterns are path globs to skip during crawling.
	IgnorePatterns []string `yaml:"ignorePatterns,omitempty"`

	// FollowPatterns restrict crawling to matching paths when set.
	FollowPatterns []string `yaml:"followPatterns,omitempty"`
}

// File represents the structure of the .crawlmap configuration file.
type File struct {
	// Domains maps domain names to their overrides.
	Domains map[string]DomainConfig `yaml:"domains,omitempty"`

	// Defaults apply to every domain unless overridden.
	Defaults DomainConfig `yaml:"defaults,omitempty"`
}

// Get returns the configuration for a domain, merged over defaults.
func (f *File) Get(domain string) DomainConfig {
	result := f.Defaults

	dc, ok := f.Domains[domain]
	if !ok {
		return result
	}

	if dc.UserAgent != "" {
		result.UserAgent = dc.UserAgent
	}
	if dc.Cookie != "" {
		result.Cookie = dc.Cookie
	}
	if len(dc.Headers) > 0 {
		if result.Headers == nil {
			result.Headers = make(map[string]string)
		}
		for k, v := range dc.Headers {
			result.Headers[k] = v
		}
	}
	if !dc.Delay.IsZero() {
		result.Delay = dc.Delay
	}
	if dc.MaxDepth != 0 {
		result.MaxDepth = dc.MaxDepth
	}
	if len(dc.IgnorePatterns) > 0 {
		result.IgnorePatterns = dc.IgnorePatterns
	}
	if len(dc.FollowPatterns) > 0 {
		result.FollowPatterns = dc.FollowPatterns
	}

	return result
}

// LoadConfigFile loads per-domain configuration from a YAML file.
// A missing file yields ErrConfigNotFound.
func LoadConfigFile(path string) (*File, error) {
	data, err := os.ReadFile(path) //nolint:gosec // User-provided config path is intentional
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrConfigNotFound
		}
		return nil, err
	}

	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, err
	}

	if f.Domains == nil {
		f.Domains = make(map[string]DomainConfig)
	}

	return &f, nil
}

// FindConfigFile locates the configuration file:
//  1. the explicit path, when given
//  2. .crawlmap in the working directory
//  3. config.yml in the XDG config directory for crawlmap
//
// Returns the path, or empty string when nothing is found.
func FindConfigFile(configPath string) string {
	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			return configPath
		}
		return ""
	}

	if cwd, err := os.Getwd(); err == nil {
		path := filepath.Join(cwd, DefaultConfigFile)
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	path := filepath.Join(xdg.ConfigHome, AppName, xdgConfigFile)
	if _, err := os.Stat(path); err == nil {
		return path
	}

	return ""
}
