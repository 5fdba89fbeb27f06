// Package config defines the configuration schema for toolchat.
//
// Keys are camelCase in both JSON and YAML files.
package config

import (
	"time"

	"github.com/crystaldolphin/toolchat/internal/config/agent"
	"github.com/crystaldolphin/toolchat/internal/config/provider"
	"github.com/crystaldolphin/toolchat/internal/config/tool"
)

// SessionsConfig bounds the in-memory session table.
type SessionsConfig struct {
	Max int `json:"max" yaml:"max" validate:"gt=0"`
}

// RetryConfig controls backend retries.
type RetryConfig struct {
	Attempts    int  `json:"attempts" yaml:"attempts" validate:"gte=0,lte=10"`
	BackoffBase int  `json:"backoffBaseMs" yaml:"backoffBaseMs" validate:"gt=0"`
	BackoffMax  int  `json:"backoffMaxMs" yaml:"backoffMaxMs" validate:"gtefield=BackoffBase"`
	Jitter      bool `json:"jitter" yaml:"jitter"`
}

func (r RetryConfig) BaseDuration() time.Duration {
	return time.Duration(r.BackoffBase) * time.Millisecond
}

func (r RetryConfig) MaxDuration() time.Duration {
	return time.Duration(r.BackoffMax) * time.Millisecond
}

// LogConfig selects the log level and output format.
type LogConfig struct {
	Level  string `json:"level" yaml:"level" validate:"oneof=debug info warn error"`
	Format string `json:"format" yaml:"format" validate:"oneof=text json"`
}

// Config is the root configuration object, loaded from ~/.toolchat/config.json.
type Config struct {
	Backend  provider.BackendConfig `json:"backend" yaml:"backend"`
	Agent    agent.AgentConfig      `json:"agent" yaml:"agent"`
	Tools    tool.ToolsConfig       `json:"tools" yaml:"tools"`
	Sessions SessionsConfig         `json:"sessions" yaml:"sessions"`
	Retry    RetryConfig            `json:"retry" yaml:"retry"`
	Log      LogConfig              `json:"log" yaml:"log"`
}

// DefaultConfig returns a Config populated with all default values.
func DefaultConfig() Config {
	return Config{
		Backend:  provider.DefaultBackendConfig(),
		Agent:    agent.DefaultAgentConfig(),
		Tools:    tool.DefaultToolConfigs(),
		Sessions: SessionsConfig{Max: 256},
		Retry:    RetryConfig{Attempts: 2, BackoffBase: 500, BackoffMax: 10000, Jitter: true},
		Log:      LogConfig{Level: "info", Format: "text"},
	}
}

// BackendTimeout returns the per-turn backend timeout.
func (c *Config) BackendTimeout() time.Duration {
	return time.Duration(c.Backend.Timeout) * time.Second
}

// MCPServer is re-exported for callers that only import config.
type MCPServer = tool.MCPServerConfig
