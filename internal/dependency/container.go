// Package dependency wires core toolchat services using go.uber.org/dig.
package dependency

import (
	"context"

	"go.uber.org/dig"

	"github.com/crystaldolphin/toolchat/internal/agent"
	"github.com/crystaldolphin/toolchat/internal/config"
	"github.com/crystaldolphin/toolchat/internal/mcp"
	"github.com/crystaldolphin/toolchat/internal/providers"
	"github.com/crystaldolphin/toolchat/internal/schema"
	"github.com/crystaldolphin/toolchat/internal/session"
	"github.com/crystaldolphin/toolchat/internal/tools"
)

// Container holds the resolved core service singletons.
// Callers use the typed getter methods; they never need to import dig directly.
type Container struct {
	provider     schema.LLMProvider
	executor     *tools.Executor
	orchestrator *agent.Orchestrator
	bridge       *mcp.Bridge
}

func (c *Container) Provider() schema.LLMProvider      { return c.provider }
func (c *Container) Executor() *tools.Executor         { return c.executor }
func (c *Container) Orchestrator() *agent.Orchestrator { return c.orchestrator }
func (c *Container) Sessions() *session.Manager        { return c.orchestrator.Sessions() }
func (c *Container) Registry() *tools.Registry         { return c.executor.Registry() }

// Close shuts down external MCP sessions.
func (c *Container) Close() {
	if c.bridge != nil {
		c.bridge.Close()
	}
}

// Options select optional wiring.
type Options struct {
	// SkipBackend builds only the tool side; Provider and Orchestrator stay nil.
	SkipBackend bool
}

// New builds and wires all core services from cfg. External MCP servers are
// connected before New returns.
func New(ctx context.Context, cfg *config.Config, opts Options) (*Container, error) {
	d := dig.New()

	provide := []any{
		func() *config.Config { return cfg },
		func() context.Context { return ctx },
		newBridge,
		newToolRegistry,
		newExecutor,
	}
	if !opts.SkipBackend {
		provide = append(provide,
			newProvider,
			newInvoker,
			newSessionManager,
			newAgentSettings,
			agent.NewOrchestrator,
		)
	}
	for _, fn := range provide {
		if err := d.Provide(fn); err != nil {
			return nil, err
		}
	}

	result := &Container{}
	err := d.Invoke(func(executor *tools.Executor, bridge *mcp.Bridge) {
		result.executor = executor
		result.bridge = bridge
	})
	if err != nil {
		return nil, err
	}
	if opts.SkipBackend {
		return result, nil
	}

	err = d.Invoke(func(p schema.LLMProvider, o *agent.Orchestrator) {
		result.provider = p
		result.orchestrator = o
	})
	if err != nil {
		result.Close()
		return nil, err
	}
	return result, nil
}

func newProvider(cfg *config.Config) schema.LLMProvider {
	b := cfg.Backend
	return providers.New(providers.Params{
		ProviderName: b.Provider,
		APIKey:       b.APIKey,
		APIBase:      b.APIBase,
		Deployment:   b.Deployment,
		APIVersion:   b.APIVersion,
		DefaultModel: cfg.Agent.Model,
		Timeout:      cfg.BackendTimeout(),
		ExtraHeaders: b.ExtraHeaders,
	})
}

func newInvoker(cfg *config.Config, p schema.LLMProvider) *agent.Invoker {
	return agent.NewInvoker(p, agent.RetrySettings{
		Attempts:    cfg.Retry.Attempts,
		BackoffBase: cfg.Retry.BaseDuration(),
		BackoffMax:  cfg.Retry.MaxDuration(),
		Jitter:      cfg.Retry.Jitter,
		Timeout:     cfg.BackendTimeout(),
	})
}

func newBridge(cfg *config.Config) *mcp.Bridge {
	return mcp.NewBridge(cfg.Tools.MCPServers)
}

func newToolRegistry(ctx context.Context, cfg *config.Config, bridge *mcp.Bridge) (*tools.Registry, error) {
	registry, err := tools.NewBuiltinRegistry(tools.BuiltinOptions{
		FileBasePath: cfg.Tools.FileBasePath,
		AllowWrite:   cfg.Tools.AllowWrite,
		Extended:     cfg.Tools.Extended,
		MaxSessions:  cfg.Sessions.Max,
	})
	if err != nil {
		return nil, err
	}
	bridge.Connect(ctx, registry)
	return registry, nil
}

func newExecutor(cfg *config.Config, registry *tools.Registry) *tools.Executor {
	return tools.NewExecutor(registry, cfg.Tools.ValidateArguments)
}

func newSessionManager(cfg *config.Config) (*session.Manager, error) {
	preamble := cfg.Agent.SystemPrompt
	if preamble == "" {
		preamble = agent.DefaultSystemPrompt
	}
	return session.NewManager(cfg.Sessions.Max, cfg.Agent.MaxRetainedTurns, preamble)
}

func newAgentSettings(cfg *config.Config) schema.AgentSettings {
	a := cfg.Agent
	return schema.NewAgentSettings(a.Model, a.Temperature, a.MaxTokens, a.MaxRetainedTurns, a.ToolsEnabled)
}
