// Package config loads server settings from an optional YAML file with
// environment overrides.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"auggie-mcp/pkg/logx"
)

// ConfigEnvVar names the environment variable holding the config file path.
const ConfigEnvVar = "AUGGIE_MCP_CONFIG"

// EnvPrefix is prepended to upper-cased yaml keys for env overrides,
// e.g. AUGGIE_MCP_AGENT_BINARY or AUGGIE_MCP_HTTP_ADDR.
const EnvPrefix = "AUGGIE_MCP_"

// HTTPConfig configures the streamable HTTP transport.
type HTTPConfig struct {
	Addr string `yaml:"addr"`
	Path string `yaml:"path"`
}

// Config is the complete server configuration.
type Config struct {
	HTTP HTTPConfig `yaml:"http"`

	AgentBinary   string `yaml:"agent_binary"`
	RuntimeBinary string `yaml:"runtime_binary"`
	GitBinary     string `yaml:"git_binary"`

	SandboxDir  string `yaml:"sandbox_dir"`
	CacheDirEnv string `yaml:"cache_dir_env"`

	// Journal is the SQLite journal path; empty disables journaling.
	Journal string `yaml:"journal"`

	// SecretsFile is an encrypted secrets file whose entries are passed
	// to agent runs as environment variables.
	SecretsFile string `yaml:"secrets_file"`

	MinRuntimeMajor     int `yaml:"min_runtime_major"`
	AskTimeoutSec       int `yaml:"ask_timeout_sec"`
	ImplementTimeoutSec int `yaml:"implement_timeout_sec"`
	GitTimeoutSec       int `yaml:"git_timeout_sec"`
	PreflightTimeoutSec int `yaml:"preflight_timeout_sec"`
	MaxDiffChars        int `yaml:"max_diff_chars"`

	UnstageOnCommitFailure bool `yaml:"unstage_on_commit_failure"`

	// Debug turns on debug logging; DebugDomains (comma-separated
	// component names) narrows it. DEBUG and DEBUG_DOMAINS still apply.
	Debug        bool   `yaml:"debug"`
	DebugDomains string `yaml:"debug_domains"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		HTTP: HTTPConfig{
			Addr: "127.0.0.1:8000",
			Path: "/mcp",
		},
		AgentBinary:            "auggie",
		RuntimeBinary:          "node",
		GitBinary:              "git",
		SandboxDir:             ".augment/.mcp-temp",
		CacheDirEnv:            "AUGMENT_CACHE_DIR",
		MinRuntimeMajor:        18,
		AskTimeoutSec:          120,
		ImplementTimeoutSec:    300,
		GitTimeoutSec:          60,
		PreflightTimeoutSec:    5,
		MaxDiffChars:           200_000,
		UnstageOnCommitFailure: true,
	}
}

// ApplyLogging pushes the debug settings into logx. It only ever enables
// output, so DEBUG=1 in the environment is not overridden by a file.
func (c *Config) ApplyLogging() {
	if c.Debug {
		logx.SetDebugConfig(true)
	}
	if c.DebugDomains != "" {
		logx.SetDebugDomains(strings.Split(c.DebugDomains, ","))
	}
}

// Validate rejects settings the server cannot run with.
func (c *Config) Validate() error {
	var errs []error

	positive := map[string]int{
		"min_runtime_major":     c.MinRuntimeMajor,
		"ask_timeout_sec":       c.AskTimeoutSec,
		"implement_timeout_sec": c.ImplementTimeoutSec,
		"git_timeout_sec":       c.GitTimeoutSec,
		"preflight_timeout_sec": c.PreflightTimeoutSec,
		"max_diff_chars":        c.MaxDiffChars,
	}
	for _, key := range sortedKeys(positive) {
		if positive[key] <= 0 {
			errs = append(errs, fmt.Errorf("%s must be positive, got %d", key, positive[key]))
		}
	}

	required := map[string]string{
		"agent_binary":   c.AgentBinary,
		"runtime_binary": c.RuntimeBinary,
		"git_binary":     c.GitBinary,
		"sandbox_dir":    c.SandboxDir,
		"cache_dir_env":  c.CacheDirEnv,
		"http.addr":      c.HTTP.Addr,
	}
	for _, key := range sortedKeys(required) {
		if required[key] == "" {
			errs = append(errs, fmt.Errorf("%s is required", key))
		}
	}

	if c.HTTP.Path == "" || c.HTTP.Path[0] != '/' {
		errs = append(errs, fmt.Errorf("http.path must start with '/', got %q", c.HTTP.Path))
	}

	return errors.Join(errs...)
}

// AskTimeout is the default ask_question agent timeout.
func (c *Config) AskTimeout() time.Duration {
	return time.Duration(c.AskTimeoutSec) * time.Second
}

// ImplementTimeout is the default implement agent timeout.
func (c *Config) ImplementTimeout() time.Duration {
	return time.Duration(c.ImplementTimeoutSec) * time.Second
}

// GitTimeout bounds each git subcommand.
func (c *Config) GitTimeout() time.Duration {
	return time.Duration(c.GitTimeoutSec) * time.Second
}

// PreflightTimeout bounds each dependency probe.
func (c *Config) PreflightTimeout() time.Duration {
	return time.Duration(c.PreflightTimeoutSec) * time.Second
}
