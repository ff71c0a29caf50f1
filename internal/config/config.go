// Package config loads rendering configuration: the internal-domain
// list, horizontal-rule styling, and the link-icon tables. Defaults
// are embedded so the library works with zero external files; a YAML
// file can override them.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"regexp"
	"strings"
	"sync"

	"github.com/inkpost/mdrender/internal/yamlutil"
)

// Sentinel errors for config operations.
var (
	ErrConfigNotFound = errors.New("config file not found")
	ErrConfigParse    = errors.New("failed to parse config")
	ErrInvalidConfig  = errors.New("invalid config")
)

// HRStyleCount is the number of horizontal-rule visual styles the
// stylesheet defines. Style hints and the rotation both stay in
// [1, HRStyleCount].
const HRStyleCount = 3

//go:embed default.yaml
var defaultYAML []byte

// Config holds all tunable rendering behavior.
type Config struct {
	// InternalDomains lists hostnames treated as same-site: links to
	// them never receive external-link markers or host icons.
	InternalDomains []string `yaml:"internalDomains"`

	HorizontalRule HorizontalRuleConfig `yaml:"horizontalRule"`
	LinkIcons      LinkIconsConfig      `yaml:"linkIcons"`
}

// HorizontalRuleConfig controls thematic break styling.
type HorizontalRuleConfig struct {
	DefaultStyle int  `yaml:"defaultStyle"` // 1..HRStyleCount
	Rotate       bool `yaml:"rotate"`       // cycle styles for unhinted rules
}

// LinkIconsConfig holds the icon lookup tables for link decoration.
type LinkIconsConfig struct {
	Files []FileIcon `yaml:"files"`
	Hosts []HostIcon `yaml:"hosts"`
}

// FileIcon maps file extensions to a link icon.
type FileIcon struct {
	Icon       string   `yaml:"icon"`
	Kind       string   `yaml:"kind"` // "svg", "text", or a text style list
	Extensions []string `yaml:"extensions"`
}

// HostIcon maps a hostname pattern to a link icon.
type HostIcon struct {
	Icon    string `yaml:"icon"`
	Kind    string `yaml:"kind"`
	Pattern string `yaml:"pattern"` // regular expression matched against the host

	re *regexp.Regexp
}

// Match reports whether the host matches the icon's pattern. Compile
// must have run first; an uncompiled entry never matches.
func (h *HostIcon) Match(host string) bool {
	return h.re != nil && h.re.MatchString(host)
}

// IsInternal reports whether host belongs to one of the configured
// internal domains, including their subdomains.
func (c *Config) IsInternal(host string) bool {
	host = strings.ToLower(host)
	for _, d := range c.InternalDomains {
		d = strings.ToLower(d)
		if host == d || strings.HasSuffix(host, "."+d) {
			return true
		}
	}
	return false
}

// Compile validates the config and compiles the host patterns.
func (c *Config) Compile() error {
	if c.HorizontalRule.DefaultStyle < 1 || c.HorizontalRule.DefaultStyle > HRStyleCount {
		return fmt.Errorf("%w: horizontalRule.defaultStyle must be in [1, %d], got %d",
			ErrInvalidConfig, HRStyleCount, c.HorizontalRule.DefaultStyle)
	}
	for i := range c.LinkIcons.Hosts {
		h := &c.LinkIcons.Hosts[i]
		re, err := regexp.Compile(h.Pattern)
		if err != nil {
			return fmt.Errorf("%w: linkIcons.hosts[%d].pattern: %v", ErrInvalidConfig, i, err)
		}
		h.re = re
	}
	return nil
}

var (
	defaultOnce sync.Once
	defaultCfg  *Config
)

// Default returns the embedded default configuration. The result is
// shared; callers must not mutate it.
func Default() *Config {
	defaultOnce.Do(func() {
		cfg := &Config{}
		if err := yamlutil.UnmarshalStrict(defaultYAML, cfg); err != nil {
			panic(fmt.Sprintf("config: embedded default.yaml: %v", err))
		}
		if err := cfg.Compile(); err != nil {
			panic(fmt.Sprintf("config: embedded default.yaml: %v", err))
		}
		defaultCfg = cfg
	})
	return defaultCfg
}

// Load reads and validates a YAML config file. Unknown fields are
// rejected so typos fail loudly instead of silently using defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- user-specified config path
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, path)
		}
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}
	cfg := &Config{}
	if err := yamlutil.UnmarshalStrict(data, cfg); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrConfigParse, path, err)
	}
	applyDefaults(cfg)
	if err := cfg.Compile(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyDefaults fills zero-value sections from the embedded defaults
// so a partial config file only overrides what it mentions.
func applyDefaults(cfg *Config) {
	def := Default()
	if cfg.HorizontalRule.DefaultStyle == 0 {
		cfg.HorizontalRule = def.HorizontalRule
	}
	if cfg.LinkIcons.Files == nil {
		cfg.LinkIcons.Files = def.LinkIcons.Files
	}
	if cfg.LinkIcons.Hosts == nil {
		cfg.LinkIcons.Hosts = def.LinkIcons.Hosts
	}
}
