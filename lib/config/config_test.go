// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/arta-lang/arta/lib/security"
)

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Environment != Development {
		t.Errorf("expected environment=development, got %s", cfg.Environment)
	}
	if cfg.Security.AllowActions {
		t.Error("expected actions disabled by default")
	}
	if cfg.Security.MaxFilesPerDelete != security.DefaultMaxFilesPerDelete {
		t.Errorf("expected max_files_per_delete=%d, got %d", security.DefaultMaxFilesPerDelete, cfg.Security.MaxFilesPerDelete)
	}
	if cfg.Output.Format != FormatHuman || cfg.Output.Color != ColorAuto {
		t.Errorf("expected human/auto output, got %s/%s", cfg.Output.Format, cfg.Output.Color)
	}
	if cfg.LifeInterval() != time.Second {
		t.Errorf("expected 1s interval, got %s", cfg.LifeInterval())
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config is invalid: %v", err)
	}
}

func TestLoad_WithoutArtaConfig(t *testing.T) {
	t.Setenv(EnvVar, "")
	t.Setenv("HOME", "/home/tester")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Paths.History != "/home/tester/.arta_history" {
		t.Errorf("expected expanded history path, got %s", cfg.Paths.History)
	}
}

func TestLoad_WithArtaConfig(t *testing.T) {
	path := writeConfig(t, "arta.yaml", `
output:
  format: json
`)
	t.Setenv(EnvVar, path)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Output.Format != FormatJSON {
		t.Errorf("expected format=json, got %s", cfg.Output.Format)
	}
}

func TestLoadFile(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
	}{
		{
			name: "yaml",
			file: "arta.yaml",
			content: `
security:
  allow_actions: true
  max_files_per_delete: 7
  protected_processes: [postgres]
life:
  interval: 250ms
query:
  content_line_limit: 40
paths:
  start: /srv
`,
		},
		{
			name: "jsonc",
			file: "arta.jsonc",
			content: `{
  // Allow actions on this box.
  "security": {
    "allow_actions": true,
    "max_files_per_delete": 7,
    "protected_processes": ["postgres"],
  },
  "life": {"interval": "250ms"},
  "query": {"content_line_limit": 40},
  "paths": {"start": "/srv"},
}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := LoadFile(writeConfig(t, tt.file, tt.content))
			if err != nil {
				t.Fatalf("LoadFile failed: %v", err)
			}

			if !cfg.Security.AllowActions {
				t.Error("expected allow_actions=true")
			}
			limits := cfg.Limits()
			if limits.MaxFilesPerDelete != 7 {
				t.Errorf("expected max_files_per_delete=7, got %d", limits.MaxFilesPerDelete)
			}
			if len(limits.ProtectedNames) != 1 || limits.ProtectedNames[0] != "postgres" {
				t.Errorf("expected protected [postgres], got %v", limits.ProtectedNames)
			}
			if cfg.LifeInterval() != 250*time.Millisecond {
				t.Errorf("expected 250ms, got %s", cfg.LifeInterval())
			}
			linux := cfg.Linux()
			if linux.ContentLineLimit != 40 || linux.ProcRoot != "/proc" {
				t.Errorf("unexpected linux config %+v", linux)
			}
			if cfg.Paths.Start != "/srv" {
				t.Errorf("expected start=/srv, got %s", cfg.Paths.Start)
			}
		})
	}
}

func TestLoadFile_UnsupportedExtension(t *testing.T) {
	_, err := LoadFile(writeConfig(t, "arta.toml", "environment = 'production'"))
	if err == nil || !strings.Contains(err.Error(), "unsupported config extension") {
		t.Fatalf("expected extension error, got %v", err)
	}
}

func TestLoadFile_UnknownJSONField(t *testing.T) {
	_, err := LoadFile(writeConfig(t, "arta.json", `{"securty": {}}`))
	if err == nil {
		t.Fatal("expected error for misspelled section")
	}
}

func TestEnvironmentOverrides(t *testing.T) {
	tests := []struct {
		name          string
		content       string
		wantFiles     int
		wantProcesses int
		wantActions   bool
		wantFormat    string
	}{
		{
			name: "development section",
			content: `
environment: development
development:
  security:
    allow_actions: true
  output:
    format: cbor
`,
			wantFiles:     security.DefaultMaxFilesPerDelete,
			wantProcesses: security.DefaultMaxProcessesPerKill,
			wantActions:   true,
			wantFormat:    FormatCBOR,
		},
		{
			name: "production without section tightens ceilings",
			content: `
environment: production
`,
			wantFiles:     ProductionMaxFilesPerDelete,
			wantProcesses: ProductionMaxProcessesPerKill,
			wantFormat:    FormatHuman,
		},
		{
			name: "production keeps a lower base ceiling",
			content: `
environment: production
security:
  max_files_per_delete: 5
`,
			wantFiles:     5,
			wantProcesses: ProductionMaxProcessesPerKill,
			wantFormat:    FormatHuman,
		},
		{
			name: "production section replaces defaults",
			content: `
environment: production
production:
  security:
    max_files_per_delete: 50
`,
			wantFiles:     50,
			wantProcesses: security.DefaultMaxProcessesPerKill,
			wantFormat:    FormatHuman,
		},
		{
			name: "inactive section ignored",
			content: `
environment: development
production:
  security:
    allow_actions: true
`,
			wantFiles:     security.DefaultMaxFilesPerDelete,
			wantProcesses: security.DefaultMaxProcessesPerKill,
			wantFormat:    FormatHuman,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := LoadFile(writeConfig(t, "arta.yaml", tt.content))
			if err != nil {
				t.Fatalf("LoadFile failed: %v", err)
			}
			if cfg.Security.MaxFilesPerDelete != tt.wantFiles {
				t.Errorf("max_files_per_delete = %d, want %d", cfg.Security.MaxFilesPerDelete, tt.wantFiles)
			}
			if cfg.Security.MaxProcessesPerKill != tt.wantProcesses {
				t.Errorf("max_processes_per_kill = %d, want %d", cfg.Security.MaxProcessesPerKill, tt.wantProcesses)
			}
			if cfg.Security.AllowActions != tt.wantActions {
				t.Errorf("allow_actions = %v, want %v", cfg.Security.AllowActions, tt.wantActions)
			}
			if cfg.Output.Format != tt.wantFormat {
				t.Errorf("format = %s, want %s", cfg.Output.Format, tt.wantFormat)
			}
		})
	}
}

func TestEnvVarsDoNotOverride(t *testing.T) {
	t.Setenv("ARTA_OUTPUT_FORMAT", "json")
	t.Setenv("ARTA_SECURITY_ALLOW_ACTIONS", "true")

	cfg, err := LoadFile(writeConfig(t, "arta.yaml", "environment: development\n"))
	if err != nil {
		t.Fatalf("LoadFile failed: %v", err)
	}
	if cfg.Output.Format != FormatHuman {
		t.Errorf("environment variable leaked into output.format: %s", cfg.Output.Format)
	}
	if cfg.Security.AllowActions {
		t.Error("environment variable leaked into security.allow_actions")
	}
}

func TestExpandVars(t *testing.T) {
	tests := []struct {
		input    string
		vars     map[string]string
		expected string
	}{
		{
			input:    "${HOME}/.arta_history",
			vars:     map[string]string{"HOME": "/home/user"},
			expected: "/home/user/.arta_history",
		},
		{
			input:    "${ARTA_TEST_MISSING:-/proc}",
			vars:     map[string]string{},
			expected: "/proc",
		},
		{
			input:    "${PRESENT:-default}",
			vars:     map[string]string{"PRESENT": "value"},
			expected: "value",
		},
		{
			input:    "${A}/${B}",
			vars:     map[string]string{"A": "first", "B": "second"},
			expected: "first/second",
		},
		{
			input:    "no variables here",
			vars:     map[string]string{},
			expected: "no variables here",
		},
	}

	for _, tt := range tests {
		result := expandVars(tt.input, tt.vars)
		if result != tt.expected {
			t.Errorf("expandVars(%q) = %q, want %q", tt.input, result, tt.expected)
		}
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr string
	}{
		{
			name:   "valid default",
			modify: func(c *Config) {},
		},
		{
			name:    "invalid environment",
			modify:  func(c *Config) { c.Environment = "staging" },
			wantErr: "invalid environment",
		},
		{
			name:    "zero delete ceiling",
			modify:  func(c *Config) { c.Security.MaxFilesPerDelete = 0 },
			wantErr: "security.max_files_per_delete",
		},
		{
			name:    "negative pid",
			modify:  func(c *Config) { c.Security.ProtectedPIDs = []int{-3} },
			wantErr: "invalid pid -3",
		},
		{
			name:    "unparseable interval",
			modify:  func(c *Config) { c.Life.Interval = "soon" },
			wantErr: "life.interval",
		},
		{
			name:    "non-positive interval",
			modify:  func(c *Config) { c.Life.Interval = "0s" },
			wantErr: "life.interval must be positive",
		},
		{
			name:    "unknown format",
			modify:  func(c *Config) { c.Output.Format = "xml" },
			wantErr: "output.format",
		},
		{
			name:    "unknown color",
			modify:  func(c *Config) { c.Output.Color = "sometimes" },
			wantErr: "output.color",
		},
		{
			name:    "missing proc root",
			modify:  func(c *Config) { c.Paths.ProcRoot = "" },
			wantErr: "paths.proc_root",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.modify(cfg)
			err := cfg.Validate()

			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("expected error containing %q, got %v", tt.wantErr, err)
			}
		})
	}
}
