// Package config loads .markdown-doc.toml (spec §6) into a typed Config,
// following the teacher's preference for typed, validated configuration
// over ad-hoc map access. Unlike the teacher (which has no TOML surface),
// this loader is grounded on the TOML+jsonschema-go pairing found alongside
// cobra-based CLIs in the retrieved pack: raw TOML is decoded to a generic
// map and checked against a structural JSON Schema before the strict typed
// decode, so a malformed config produces a path-scoped error instead of an
// opaque decode failure.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"mdtool/pkg/mderr"
)

// SchemaDefinition names a documentation schema (spec §3) used by the
// required-sections lint rule.
type SchemaDefinition struct {
	Patterns         []string `toml:"patterns"`
	RequiredSections []string `toml:"required_sections"`

	// RequiredSectionsFile names a sibling YAML file (resolved relative to
	// the config file's directory) holding a plain list of required
	// section titles, for projects that keep their schemas in YAML
	// alongside the rest of their TOML config. Entries from this file are
	// appended to RequiredSections.
	RequiredSectionsFile string `toml:"required_sections_file"`

	AllowAdditional        bool `toml:"allow_additional"`
	MinSections            int  `toml:"min_sections"`
	MinDepth               int  `toml:"min_depth"`
	MaxDepth               int  `toml:"max_depth"`
	RequireTopLevelHeading bool `toml:"require_top_level_heading"`
	AllowEmpty             bool `toml:"allow_empty"`
}

// LintIgnore is one `[[lint.ignore]]` entry.
type LintIgnore struct {
	Path  string   `toml:"path"`
	Rules []string `toml:"rules"`
}

type projectConfig struct {
	Root    string   `toml:"root"`
	Exclude []string `toml:"exclude"`
}

type catalogConfig struct {
	Output          string   `toml:"output"`
	IncludePatterns []string `toml:"include_patterns"`
	ExcludePatterns []string `toml:"exclude_patterns"`
}

type lintConfig struct {
	Rules           []string          `toml:"rules"`
	MaxHeadingDepth int               `toml:"max_heading_depth"`
	TOCStartMarker  string            `toml:"toc_start_marker"`
	TOCEndMarker    string            `toml:"toc_end_marker"`
	Severity        map[string]string `toml:"severity"`
	Ignore          []LintIgnore      `toml:"ignore"`
}

// Config is the typed form of .markdown-doc.toml.
type Config struct {
	Project projectConfig               `toml:"project"`
	Catalog catalogConfig               `toml:"catalog"`
	Lint    lintConfig                  `toml:"lint"`
	Schemas map[string]SchemaDefinition `toml:"schemas"`
}

// Default rule registry, matching spec §4.10's fixed set.
var defaultRules = []string{
	"broken-links", "broken-anchors", "duplicate-anchors",
	"heading-hierarchy", "toc-sync", "required-sections",
}

// Load reads and validates path, returning a Config with spec defaults
// applied (lint.max_heading_depth=4, toc markers, full rule set).
func Load(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, &mderr.LocatedError{Path: path, Op: "read config", Err: mderr.ErrPathNotFound}
	}
	if err != nil {
		return nil, &mderr.LocatedError{Path: path, Op: "read config", Err: fmt.Errorf("%w: %v", mderr.ErrIO, err)}
	}

	var generic map[string]any
	if _, err := toml.Decode(string(raw), &generic); err != nil {
		return nil, &mderr.LocatedError{Path: path, Op: "parse config toml", Err: fmt.Errorf("%w: %v", mderr.ErrIO, err)}
	}

	if err := validateShape(generic); err != nil {
		return nil, &mderr.LocatedError{Path: path, Op: "validate config shape", Err: err}
	}

	var cfg Config
	if _, err := toml.Decode(string(raw), &cfg); err != nil {
		return nil, &mderr.LocatedError{Path: path, Op: "decode config", Err: fmt.Errorf("%w: %v", mderr.ErrIO, err)}
	}

	applyDefaults(&cfg)

	if err := loadYAMLRequiredSections(filepath.Dir(path), &cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// loadYAMLRequiredSections resolves each schema's RequiredSectionsFile
// (relative to the config file's directory) and appends its entries onto
// RequiredSections, for projects that keep section lists in a sibling YAML
// file instead of inline TOML.
func loadYAMLRequiredSections(dir string, cfg *Config) error {
	for name, def := range cfg.Schemas {
		if def.RequiredSectionsFile == "" {
			continue
		}

		p := def.RequiredSectionsFile
		if !filepath.IsAbs(p) {
			p = filepath.Join(dir, p)
		}

		raw, err := os.ReadFile(p)
		if err != nil {
			return &mderr.LocatedError{Path: p, Op: "read schema required_sections_file", Err: fmt.Errorf("%w: %v", mderr.ErrIO, err)}
		}

		var extra []string
		if err := yaml.Unmarshal(raw, &extra); err != nil {
			return &mderr.LocatedError{Path: p, Op: "parse schema required_sections_file", Err: fmt.Errorf("%w: %v", mderr.ErrIO, err)}
		}

		def.RequiredSections = append(def.RequiredSections, extra...)
		cfg.Schemas[name] = def
	}
	return nil
}

func applyDefaults(cfg *Config) {
	if cfg.Lint.MaxHeadingDepth == 0 {
		cfg.Lint.MaxHeadingDepth = 4
	}
	if cfg.Lint.TOCStartMarker == "" {
		cfg.Lint.TOCStartMarker = "<!-- toc -->"
	}
	if cfg.Lint.TOCEndMarker == "" {
		cfg.Lint.TOCEndMarker = "<!-- tocstop -->"
	}
	if len(cfg.Lint.Rules) == 0 {
		cfg.Lint.Rules = append([]string(nil), defaultRules...)
	}
	if _, ok := cfg.Schemas["default"]; !ok {
		if cfg.Schemas == nil {
			cfg.Schemas = map[string]SchemaDefinition{}
		}
		cfg.Schemas["default"] = SchemaDefinition{AllowAdditional: true}
	}
}
