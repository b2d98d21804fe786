// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"hintscan/internal/detector"
	"hintscan/internal/extract"
	"hintscan/internal/fuzzy"
	"hintscan/internal/hints"
	"hintscan/internal/paths"

	"gopkg.in/yaml.v3"
)

// ErrInvalidConfig marks every validation failure
var ErrInvalidConfig = errors.New("invalid configuration")

// Config represents the application configuration
type Config struct {
	// Default settings
	Defaults Defaults `yaml:"defaults"`

	// Fuzzy resolution thresholds
	Thresholds Thresholds `yaml:"thresholds"`

	// Scanner and resolver vocabulary
	Vocabulary Vocabulary `yaml:"vocabulary"`

	// Profiles for different scanning scenarios
	Profiles map[string]Profile `yaml:"profiles"`
}

// Defaults holds the settings used when no flag or profile overrides them
type Defaults struct {
	Format       string   `yaml:"format"`
	Mode         string   `yaml:"mode"`
	Categories   []string `yaml:"categories"`
	ContextChars int      `yaml:"context_chars"`
	MaxDepth     int      `yaml:"max_depth"`
	Workers      int      `yaml:"workers"`
	Verbose      bool     `yaml:"verbose"`
	Debug        bool     `yaml:"debug"`
	NoColor      bool     `yaml:"no_color"`
}

// Thresholds are fractions in [0,1] with ask <= auto
type Thresholds struct {
	Ask  float64 `yaml:"ask"`
	Auto float64 `yaml:"auto"`
}

// Vocabulary is the scanner vocabulary plus the resolver's entity lists
type Vocabulary struct {
	hints.VocabularySpec `yaml:",inline"`

	Organizations []string `yaml:"organizations"`
	Facilities    []string `yaml:"facilities"`
}

// Profile represents a named set of overrides. Zero values and nil
// pointers leave the defaults alone; a set pointer may hold zero.
type Profile struct {
	Description  string      `yaml:"description"`
	Format       string      `yaml:"format"`
	Mode         string      `yaml:"mode"`
	Categories   []string    `yaml:"categories"`
	ContextChars *int        `yaml:"context_chars,omitempty"`
	MaxDepth     *int        `yaml:"max_depth,omitempty"`
	Thresholds   *Thresholds `yaml:"thresholds,omitempty"`
	Verbose      bool        `yaml:"verbose"`
	Debug        bool        `yaml:"debug"`
	NoColor      bool        `yaml:"no_color"`
}

// Default returns the built-in configuration
func Default() *Config {
	config := &Config{
		Profiles: make(map[string]Profile),
	}

	config.Defaults.Format = "text"
	config.Defaults.Mode = "both"
	config.Defaults.Categories = []string{"all"}
	config.Defaults.ContextChars = detector.DefaultContextChars
	config.Defaults.MaxDepth = extract.DefaultMaxDepth

	config.Thresholds.Ask = fuzzy.DefaultAskThreshold
	config.Thresholds.Auto = fuzzy.DefaultAutoThreshold

	config.Vocabulary.VocabularySpec = hints.DefaultVocabularySpec()
	config.Vocabulary.Organizations = append([]string(nil), fuzzy.DefaultOrganizations...)
	config.Vocabulary.Facilities = append([]string(nil), fuzzy.DefaultFacilities...)

	config.Profiles["strict"] = Profile{
		Description: "Only confident entity matches proceed without asking",
		Thresholds:  &Thresholds{Ask: 0.75, Auto: 0.92},
	}
	deepest := extract.MaxRecursionDepth
	config.Profiles["lenient"] = Profile{
		Description: "Accept looser matches and recurse one level deeper into quotes",
		MaxDepth:    &deepest,
		Thresholds:  &Thresholds{Ask: 0.5, Auto: 0.8},
	}
	config.Profiles["hints"] = Profile{
		Description: "Infrastructure hints only, without free-form names",
		Mode:        "extract",
		Categories: []string{
			detector.ZoneHint.String(), detector.EngineHint.String(), detector.InterfaceHint.String(),
			detector.DeviceTypeHint.String(), detector.DeviceSubtypeHint.String(), detector.RoleHint.String(),
		},
	}
	return config
}

// LoadConfig loads configuration from the specified file path. Values in
// the file overlay the defaults; lists in the file replace the default
// list entirely.
func LoadConfig(configPath string) (*Config, error) {
	config := Default()

	// If no config file specified, return default config
	if configPath == "" {
		return config, nil
	}

	if err := paths.ValidatePath(configPath); err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}
	cleanPath := filepath.Clean(configPath)
	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	builtins := config.Profiles
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("error parsing config file: %w", err)
	}
	if config.Profiles == nil {
		config.Profiles = make(map[string]Profile)
	}
	for name, p := range builtins {
		if _, ok := config.Profiles[name]; !ok {
			config.Profiles[name] = p
		}
	}

	if err := ValidateConfig(config); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return config, nil
}

// FindConfigFile looks for a configuration file in standard locations:
// the working directory first, then the platform config directory.
func FindConfigFile() string {
	for _, name := range []string{"hintscan.yaml", "hintscan.yml", ".hintscan.yaml", ".hintscan.yml"} {
		if fileExists(name) {
			return name
		}
	}

	if standard := paths.GetConfigFile(); standard != "" && fileExists(standard) {
		return standard
	}
	return ""
}

// LoadConfigOrDefault loads configuration from configFile (or searches
// standard locations when configFile is empty). If loading fails, it
// returns the defaults together with the error so the caller can warn.
func LoadConfigOrDefault(configFile string) (*Config, error) {
	configPath := configFile
	if configPath == "" {
		configPath = FindConfigFile()
	}

	cfg, err := LoadConfig(configPath)
	if err != nil {
		return Default(), err
	}
	return cfg, nil
}

// fileExists checks if a file exists and is not a directory
func fileExists(filename string) bool {
	info, err := os.Stat(filename)
	if err != nil {
		return false
	}
	return !info.IsDir()
}

// ListProfiles returns the available profile names, sorted
func (c *Config) ListProfiles() []string {
	profiles := make([]string, 0, len(c.Profiles))
	for name := range c.Profiles {
		profiles = append(profiles, name)
	}
	sort.Strings(profiles)
	return profiles
}

// GetProfile returns a profile by name, or nil if not found
func (c *Config) GetProfile(name string) *Profile {
	if profile, exists := c.Profiles[name]; exists {
		return &profile
	}
	return nil
}

// ApplyProfile overlays the named profile onto the defaults and thresholds
func (c *Config) ApplyProfile(name string) error {
	p := c.GetProfile(name)
	if p == nil {
		return fmt.Errorf("%w: unknown profile %q (available: %s)", ErrInvalidConfig, name, strings.Join(c.ListProfiles(), ", "))
	}

	if p.Format != "" {
		c.Defaults.Format = p.Format
	}
	if p.Mode != "" {
		c.Defaults.Mode = p.Mode
	}
	if len(p.Categories) > 0 {
		c.Defaults.Categories = append([]string(nil), p.Categories...)
	}
	if p.ContextChars != nil {
		c.Defaults.ContextChars = *p.ContextChars
	}
	if p.MaxDepth != nil {
		c.Defaults.MaxDepth = *p.MaxDepth
	}
	if p.Thresholds != nil {
		c.Thresholds = *p.Thresholds
	}
	c.Defaults.Verbose = c.Defaults.Verbose || p.Verbose
	c.Defaults.Debug = c.Defaults.Debug || p.Debug
	c.Defaults.NoColor = c.Defaults.NoColor || p.NoColor

	if err := ValidateConfig(c); err != nil {
		return fmt.Errorf("profile %q: %w", name, err)
	}
	return nil
}

// ValidModes lists the accepted values of defaults.mode
var ValidModes = []string{"extract", "match", "both"}

// ValidateConfig checks ranges, category names, thresholds and vocabulary
func ValidateConfig(config *Config) error {
	if config == nil {
		return fmt.Errorf("%w: configuration cannot be nil", ErrInvalidConfig)
	}

	d := config.Defaults
	if d.ContextChars < 0 || d.ContextChars > detector.MaxContextChars {
		return fmt.Errorf("%w: context_chars %d outside 0..%d", ErrInvalidConfig, d.ContextChars, detector.MaxContextChars)
	}
	if d.MaxDepth < 0 || d.MaxDepth > extract.MaxRecursionDepth {
		return fmt.Errorf("%w: max_depth %d outside 0..%d", ErrInvalidConfig, d.MaxDepth, extract.MaxRecursionDepth)
	}
	if d.Workers < 0 {
		return fmt.Errorf("%w: workers %d is negative", ErrInvalidConfig, d.Workers)
	}
	if d.Mode != "" && !contains(ValidModes, d.Mode) {
		return fmt.Errorf("%w: mode %q is not one of %s", ErrInvalidConfig, d.Mode, strings.Join(ValidModes, ", "))
	}
	if _, unknown := hints.ParseCategories(d.Categories); len(unknown) > 0 {
		return fmt.Errorf("%w: unknown categories %s", ErrInvalidConfig, strings.Join(unknown, ", "))
	}

	if err := fuzzy.ValidateThresholds(config.Thresholds.Ask, config.Thresholds.Auto); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	for name, p := range config.Profiles {
		if p.Thresholds == nil {
			continue
		}
		if err := fuzzy.ValidateThresholds(p.Thresholds.Ask, p.Thresholds.Auto); err != nil {
			return fmt.Errorf("%w: profile %q: %w", ErrInvalidConfig, name, err)
		}
	}

	if _, err := config.Vocabulary.Compile(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return nil
}

// EnabledCategories parses Defaults.Categories. Nil means every category.
func (c *Config) EnabledCategories() map[detector.Category]bool {
	if len(c.Defaults.Categories) == 0 {
		return nil
	}
	enabled, _ := hints.ParseCategories(c.Defaults.Categories)
	if len(enabled) == len(detector.AllCategories()) {
		return nil
	}
	return enabled
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
