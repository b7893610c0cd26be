// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"

	"github.com/arta-lang/arta/lib/inspect"
	"github.com/arta-lang/arta/lib/security"
)

// EnvVar names the environment variable [Load] reads.
const EnvVar = "ARTA_CONFIG"

// Environment selects which override section applies.
type Environment string

const (
	// Development is an interactive workstation.
	Development Environment = "development"
	// Production is a shared or unattended machine.
	Production Environment = "production"
)

// Output formats.
const (
	FormatHuman = "human"
	FormatJSON  = "json"
	FormatCBOR  = "cbor"
)

// Color modes.
const (
	ColorAuto   = "auto"
	ColorAlways = "always"
	ColorNever  = "never"
)

// Production ceilings applied when the file has no production section.
const (
	ProductionMaxFilesPerDelete   = 20
	ProductionMaxProcessesPerKill = 3
)

// Config is the complete Arta configuration.
type Config struct {
	Environment Environment `yaml:"environment" json:"environment"`

	Security SecurityConfig `yaml:"security" json:"security"`
	Life     LifeConfig     `yaml:"life" json:"life"`
	Output   OutputConfig   `yaml:"output" json:"output"`
	Query    QueryConfig    `yaml:"query" json:"query"`
	Paths    PathsConfig    `yaml:"paths" json:"paths"`

	// Per-environment sections, applied after the base values.
	Development *Overrides `yaml:"development,omitempty" json:"development,omitempty"`
	Production  *Overrides `yaml:"production,omitempty" json:"production,omitempty"`
}

// Overrides holds the fields an environment section may replace. Zero
// values leave the base untouched.
type Overrides struct {
	Security *SecurityOverrides `yaml:"security,omitempty" json:"security,omitempty"`
	Life     *LifeConfig        `yaml:"life,omitempty" json:"life,omitempty"`
	Output   *OutputConfig      `yaml:"output,omitempty" json:"output,omitempty"`
	Query    *QueryConfig       `yaml:"query,omitempty" json:"query,omitempty"`
	Paths    *PathsConfig       `yaml:"paths,omitempty" json:"paths,omitempty"`
}

// SecurityConfig sets the action gate and the ceilings enforced by
// DELETE and KILL.
type SecurityConfig struct {
	// AllowActions enables DELETE and KILL without --allow-actions.
	AllowActions bool `yaml:"allow_actions" json:"allow_actions"`

	MaxFilesPerDelete   int `yaml:"max_files_per_delete" json:"max_files_per_delete"`
	MaxProcessesPerKill int `yaml:"max_processes_per_kill" json:"max_processes_per_kill"`
	MaxNestingDepth     int `yaml:"max_nesting_depth" json:"max_nesting_depth"`

	// ProtectedProcesses replaces the built-in list when set.
	ProtectedProcesses []string `yaml:"protected_processes" json:"protected_processes"`
	ProtectedPIDs      []int    `yaml:"protected_pids" json:"protected_pids"`
}

// SecurityOverrides mirrors SecurityConfig with a tri-state gate.
type SecurityOverrides struct {
	AllowActions        *bool    `yaml:"allow_actions,omitempty" json:"allow_actions,omitempty"`
	MaxFilesPerDelete   int      `yaml:"max_files_per_delete,omitempty" json:"max_files_per_delete,omitempty"`
	MaxProcessesPerKill int      `yaml:"max_processes_per_kill,omitempty" json:"max_processes_per_kill,omitempty"`
	MaxNestingDepth     int      `yaml:"max_nesting_depth,omitempty" json:"max_nesting_depth,omitempty"`
	ProtectedProcesses  []string `yaml:"protected_processes,omitempty" json:"protected_processes,omitempty"`
	ProtectedPIDs       []int    `yaml:"protected_pids,omitempty" json:"protected_pids,omitempty"`
}

// LifeConfig configures LIFE monitors.
type LifeConfig struct {
	// Interval between samples, as a Go duration ("1s", "500ms").
	Interval string `yaml:"interval" json:"interval"`

	// OnlyOnChange skips ticks whose snapshot equals the previous one.
	OnlyOnChange bool `yaml:"only_on_change" json:"only_on_change"`
}

// OutputConfig selects the result renderer.
type OutputConfig struct {
	Format string `yaml:"format" json:"format"`
	Color  string `yaml:"color" json:"color"`
}

// QueryConfig tunes system queries.
type QueryConfig struct {
	// ContentLineLimit caps an unfiltered CONTENT query.
	ContentLineLimit int `yaml:"content_line_limit" json:"content_line_limit"`
}

// PathsConfig configures filesystem locations.
type PathsConfig struct {
	// Start is the initial navigation folder. Empty means the working
	// directory.
	Start string `yaml:"start" json:"start"`

	ProcRoot string `yaml:"proc_root" json:"proc_root"`
	SysRoot  string `yaml:"sys_root" json:"sys_root"`

	// History is the REPL history file. Empty disables persistence.
	History string `yaml:"history" json:"history"`
}

// Default returns the development configuration.
func Default() *Config {
	limits := security.DefaultLimits()
	return &Config{
		Environment: Development,
		Security: SecurityConfig{
			MaxFilesPerDelete:   limits.MaxFilesPerDelete,
			MaxProcessesPerKill: limits.MaxProcessesPerKill,
			MaxNestingDepth:     limits.MaxNestingDepth,
		},
		Life: LifeConfig{
			Interval: "1s",
		},
		Output: OutputConfig{
			Format: FormatHuman,
			Color:  ColorAuto,
		},
		Query: QueryConfig{
			ContentLineLimit: inspect.DefaultContentLineLimit,
		},
		Paths: PathsConfig{
			ProcRoot: "/proc",
			SysRoot:  "/sys",
			History:  "${HOME}/.arta_history",
		},
	}
}

// Load reads the file named by ARTA_CONFIG. With the variable unset it
// returns [Default] after expansion and validation.
func Load() (*Config, error) {
	path := os.Getenv(EnvVar)
	if path == "" {
		cfg := Default()
		cfg.expandVariables()
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
		return cfg, nil
	}
	return LoadFile(path)
}

// LoadFile reads a configuration file over the defaults. The extension
// selects the syntax: .yaml and .yml are YAML, .json and .jsonc are
// JSON with comments and trailing commas allowed.
func LoadFile(path string) (*Config, error) {
	cfg := Default()
	if err := cfg.loadFile(path); err != nil {
		return nil, fmt.Errorf("loading config from %s: %w", path, err)
	}

	cfg.applyEnvironmentOverrides()
	cfg.expandVariables()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		return yaml.Unmarshal(data, c)
	case ".json", ".jsonc":
		decoder := json.NewDecoder(strings.NewReader(string(jsonc.ToJSON(data))))
		decoder.DisallowUnknownFields()
		return decoder.Decode(c)
	default:
		return fmt.Errorf("unsupported config extension %q (want .yaml, .yml, .json or .jsonc)", ext)
	}
}

func (c *Config) applyEnvironmentOverrides() {
	var overrides *Overrides

	switch c.Environment {
	case Development:
		overrides = c.Development
	case Production:
		overrides = c.Production
		if overrides == nil {
			overrides = &Overrides{
				Security: &SecurityOverrides{
					MaxFilesPerDelete:   min(c.Security.MaxFilesPerDelete, ProductionMaxFilesPerDelete),
					MaxProcessesPerKill: min(c.Security.MaxProcessesPerKill, ProductionMaxProcessesPerKill),
				},
			}
		}
	}

	if overrides == nil {
		return
	}

	if o := overrides.Security; o != nil {
		if o.AllowActions != nil {
			c.Security.AllowActions = *o.AllowActions
		}
		if o.MaxFilesPerDelete != 0 {
			c.Security.MaxFilesPerDelete = o.MaxFilesPerDelete
		}
		if o.MaxProcessesPerKill != 0 {
			c.Security.MaxProcessesPerKill = o.MaxProcessesPerKill
		}
		if o.MaxNestingDepth != 0 {
			c.Security.MaxNestingDepth = o.MaxNestingDepth
		}
		if o.ProtectedProcesses != nil {
			c.Security.ProtectedProcesses = o.ProtectedProcesses
		}
		if o.ProtectedPIDs != nil {
			c.Security.ProtectedPIDs = o.ProtectedPIDs
		}
	}

	if o := overrides.Life; o != nil {
		if o.Interval != "" {
			c.Life.Interval = o.Interval
		}
		// A bool has no unset state in this section.
		c.Life.OnlyOnChange = o.OnlyOnChange
	}

	if o := overrides.Output; o != nil {
		if o.Format != "" {
			c.Output.Format = o.Format
		}
		if o.Color != "" {
			c.Output.Color = o.Color
		}
	}

	if o := overrides.Query; o != nil && o.ContentLineLimit != 0 {
		c.Query.ContentLineLimit = o.ContentLineLimit
	}

	if o := overrides.Paths; o != nil {
		if o.Start != "" {
			c.Paths.Start = o.Start
		}
		if o.ProcRoot != "" {
			c.Paths.ProcRoot = o.ProcRoot
		}
		if o.SysRoot != "" {
			c.Paths.SysRoot = o.SysRoot
		}
		if o.History != "" {
			c.Paths.History = o.History
		}
	}
}

func (c *Config) expandVariables() {
	home, _ := os.UserHomeDir()
	vars := map[string]string{"HOME": home}

	c.Paths.Start = expandVars(c.Paths.Start, vars)
	c.Paths.ProcRoot = expandVars(c.Paths.ProcRoot, vars)
	c.Paths.SysRoot = expandVars(c.Paths.SysRoot, vars)
	c.Paths.History = expandVars(c.Paths.History, vars)
}

var varPattern = regexp.MustCompile(`\$\{([^}:]+)(?::-([^}]*))?\}`)

// expandVars replaces ${VAR} and ${VAR:-default}. Names in vars win
// over the process environment; an unset name with no default expands
// to the empty string.
func expandVars(s string, vars map[string]string) string {
	return varPattern.ReplaceAllStringFunc(s, func(match string) string {
		parts := varPattern.FindStringSubmatch(match)
		name, fallback := parts[1], parts[2]

		if v, ok := vars[name]; ok && v != "" {
			return v
		}
		if v := os.Getenv(name); v != "" {
			return v
		}
		return fallback
	})
}

// Validate reports every invalid field at once.
func (c *Config) Validate() error {
	var errs []error

	if c.Environment != Development && c.Environment != Production {
		errs = append(errs, fmt.Errorf("invalid environment: %q", c.Environment))
	}

	for _, field := range []struct {
		name  string
		value int
	}{
		{"security.max_files_per_delete", c.Security.MaxFilesPerDelete},
		{"security.max_processes_per_kill", c.Security.MaxProcessesPerKill},
		{"security.max_nesting_depth", c.Security.MaxNestingDepth},
	} {
		if field.value < 1 {
			errs = append(errs, fmt.Errorf("%s must be at least 1, got %d", field.name, field.value))
		}
	}
	for _, pid := range c.Security.ProtectedPIDs {
		if pid < 0 {
			errs = append(errs, fmt.Errorf("security.protected_pids: invalid pid %d", pid))
		}
	}

	if interval, err := time.ParseDuration(c.Life.Interval); err != nil {
		errs = append(errs, fmt.Errorf("life.interval: %w", err))
	} else if interval <= 0 {
		errs = append(errs, fmt.Errorf("life.interval must be positive, got %s", interval))
	}

	formats := []string{FormatHuman, FormatJSON, FormatCBOR}
	if !contains(formats, c.Output.Format) {
		errs = append(errs, fmt.Errorf("output.format must be one of: %v", formats))
	}
	colors := []string{ColorAuto, ColorAlways, ColorNever}
	if !contains(colors, c.Output.Color) {
		errs = append(errs, fmt.Errorf("output.color must be one of: %v", colors))
	}

	if c.Query.ContentLineLimit < 0 {
		errs = append(errs, fmt.Errorf("query.content_line_limit must not be negative"))
	}

	if c.Paths.ProcRoot == "" {
		errs = append(errs, fmt.Errorf("paths.proc_root is required"))
	}
	if c.Paths.SysRoot == "" {
		errs = append(errs, fmt.Errorf("paths.sys_root is required"))
	}

	return errors.Join(errs...)
}

// Limits converts the security section for the validator and engine.
func (c *Config) Limits() security.Limits {
	limits := security.Limits{
		MaxFilesPerDelete:   c.Security.MaxFilesPerDelete,
		MaxProcessesPerKill: c.Security.MaxProcessesPerKill,
		MaxNestingDepth:     c.Security.MaxNestingDepth,
		ProtectedNames:      c.Security.ProtectedProcesses,
		ProtectedPIDs:       c.Security.ProtectedPIDs,
	}
	return limits
}

// LifeInterval returns the parsed sampling interval. Validate has
// already rejected an unparseable value.
func (c *Config) LifeInterval() time.Duration {
	interval, err := time.ParseDuration(c.Life.Interval)
	if err != nil || interval <= 0 {
		return time.Second
	}
	return interval
}

// Linux returns the procfs/sysfs settings for [inspect.NewLinux].
func (c *Config) Linux() inspect.LinuxConfig {
	return inspect.LinuxConfig{
		ProcRoot:         c.Paths.ProcRoot,
		SysRoot:          c.Paths.SysRoot,
		ContentLineLimit: c.Query.ContentLineLimit,
	}
}

func contains(slice []string, s string) bool {
	for _, v := range slice {
		if v == s {
			return true
		}
	}
	return false
}
