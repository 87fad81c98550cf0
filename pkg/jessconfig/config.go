// Package jessconfig loads and validates the §6 options record plus the
// ambient logging/cache settings, following the teacher's pkg/config: a
// toml-tagged struct, a DefaultConfig() constructor, and a Validate() that
// rejects unrecognised enum-like strings.
package jessconfig

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// SliceMode selects whether the PreSlicer keeps one method or a whole class.
type SliceMode string

const (
	SliceMethod SliceMode = "method"
	SliceClass  SliceMode = "class"
)

// IsValid reports whether m is one of the two modes §6 defines.
func (m SliceMode) IsValid() bool {
	switch m {
	case SliceMethod, SliceClass:
		return true
	default:
		return false
	}
}

// StubberKind selects between the default and alternate stub-generation
// strategy named in §6's options record.
type StubberKind string

const (
	StubberDefault   StubberKind = "default"
	StubberAlternate StubberKind = "alternate"
)

func (k StubberKind) IsValid() bool {
	switch k {
	case StubberDefault, StubberAlternate:
		return true
	default:
		return false
	}
}

// Options is the §6 options record, unchanged in shape from the spec.
type Options struct {
	WorkDir                 string      `toml:"work_dir"`
	SliceMode               SliceMode   `toml:"slice_mode"`
	DepMode                 string      `toml:"dep_mode"`
	StubberKind             StubberKind `toml:"stubber_kind"`
	KeepAsteriskImports     bool        `toml:"keep_asterisk_imports"`
	FailOnAmbiguity         bool        `toml:"fail_on_ambiguity"`
	LooseSignatureMatching  bool        `toml:"loose_signature_matching"`
	TargetVersion           string      `toml:"target_version"`
}

// LoggingConfig is ambient-stack material: §10.1.
type LoggingConfig struct {
	Level       string `toml:"level"`
	Development bool   `toml:"development"`
}

// CacheConfig describes the process-wide resolution cache's lifetime, per
// §5. pkg/pipeline does not read it: every Run scopes the cache to that one
// invocation, whatever PersistAcrossInvocations says.
type CacheConfig struct {
	PersistAcrossInvocations bool `toml:"persist_across_invocations"`
}

// Config is the complete Jess configuration.
type Config struct {
	Options Options       `toml:"options"`
	Logging LoggingConfig `toml:"logging"`
	Cache   CacheConfig   `toml:"cache"`
}

// DefaultConfig returns the configuration used when no overrides are given.
func DefaultConfig() *Config {
	return &Config{
		Options: Options{
			WorkDir:                "gen",
			SliceMode:              SliceMethod,
			DepMode:                "classpath",
			StubberKind:            StubberDefault,
			KeepAsteriskImports:    false,
			FailOnAmbiguity:        false,
			LooseSignatureMatching: true,
			TargetVersion:          "",
		},
		Logging: LoggingConfig{
			Level:       "info",
			Development: false,
		},
		Cache: CacheConfig{
			PersistAcrossInvocations: false,
		},
	}
}

// Load reads a TOML config file (if it exists) layered over defaults, then
// applies overrides, mirroring the teacher's config.Load precedence chain
// minus the user-home layer (Jess is a library, not an installed CLI tool).
func Load(path string, overrides *Options) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if _, err := toml.DecodeFile(path, cfg); err != nil {
				return nil, fmt.Errorf("jessconfig: parse %s: %w", path, err)
			}
		} else if !os.IsNotExist(err) {
			return nil, fmt.Errorf("jessconfig: stat %s: %w", path, err)
		}
	}

	if overrides != nil {
		applyOverrides(&cfg.Options, overrides)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("jessconfig: invalid configuration: %w", err)
	}

	return cfg, nil
}

func applyOverrides(dst *Options, src *Options) {
	if src.WorkDir != "" {
		dst.WorkDir = src.WorkDir
	}
	if src.SliceMode != "" {
		dst.SliceMode = src.SliceMode
	}
	if src.DepMode != "" {
		dst.DepMode = src.DepMode
	}
	if src.StubberKind != "" {
		dst.StubberKind = src.StubberKind
	}
	if src.TargetVersion != "" {
		dst.TargetVersion = src.TargetVersion
	}
	// Booleans have no "unset" sentinel; overrides always win for them.
	dst.KeepAsteriskImports = src.KeepAsteriskImports
	dst.FailOnAmbiguity = src.FailOnAmbiguity
	dst.LooseSignatureMatching = src.LooseSignatureMatching
}

// Validate checks that every enum-like field holds one of its valid values.
func (c *Config) Validate() error {
	if !c.Options.SliceMode.IsValid() {
		return fmt.Errorf("invalid slice_mode: %q (must be %q or %q)",
			c.Options.SliceMode, SliceMethod, SliceClass)
	}
	if !c.Options.StubberKind.IsValid() {
		return fmt.Errorf("invalid stubber_kind: %q (must be %q or %q)",
			c.Options.StubberKind, StubberDefault, StubberAlternate)
	}
	if c.Options.WorkDir == "" {
		return fmt.Errorf("work_dir must not be empty")
	}
	return nil
}
