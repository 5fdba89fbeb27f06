package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/crystaldolphin/toolchat/internal/providers"
	"github.com/crystaldolphin/toolchat/internal/shared/cmdutils"
	"github.com/crystaldolphin/toolchat/internal/shared/llmutils"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show toolchat status",
	RunE:  runStatus,
}

func mark(ok bool) string {
	if ok {
		return "✓"
	}
	return "✗"
}

func runStatus(cmd *cobra.Command, _ []string) error {
	out := cmd.OutOrStdout()
	cfgPath := resolvedConfigPath()

	fmt.Fprintf(out, "%s toolchat Status\n\n", cmdutils.Logo)

	_, statErr := os.Stat(cfgPath)
	fmt.Fprintf(out, "Config:    %s %s\n", cfgPath, mark(statErr == nil))

	cfg, err := loadConfig(false)
	if err != nil {
		fmt.Fprintf(out, "  (could not load config: %v)\n", err)
		return nil
	}

	_, fsErr := os.Stat(cfg.Tools.FileBasePath)
	fmt.Fprintf(out, "Files:     %s %s\n", cfg.Tools.FileBasePath, mark(fsErr == nil))
	fmt.Fprintf(out, "Model:     %s\n", cfg.Agent.Model)
	fmt.Fprintf(out, "History:   last %d turns\n", cfg.Agent.MaxRetainedTurns)
	fmt.Fprintf(out, "Tools:     enabled=%t extended=%t write=%t\n\n",
		cfg.Agent.ToolsEnabled, cfg.Tools.Extended, cfg.Tools.AllowWrite)

	b := cfg.Backend
	spec := providers.Resolve(b.Provider, b.APIKey, b.APIBase, cfg.Agent.Model)
	fmt.Fprintln(out, "Backend:")
	fmt.Fprintf(out, "  %-12s %s\n", "provider", spec.Label())
	switch {
	case spec.IsLocal:
		fmt.Fprintf(out, "  %-12s %s\n", "endpoint", llmutils.StringOrDefault(b.APIBase, notSet))
	case spec.IsAzure:
		fmt.Fprintf(out, "  %-12s %s\n", "endpoint", llmutils.StringOrDefault(b.APIBase, notSet))
		fmt.Fprintf(out, "  %-12s %s\n", "deployment", llmutils.StringOrDefault(b.Deployment, notSet))
		fmt.Fprintf(out, "  %-12s %s\n", "api key", keyStatus(b.APIKey))
	default:
		fmt.Fprintf(out, "  %-12s %s\n", "api key", keyStatus(b.APIKey))
	}

	if len(cfg.Tools.MCPServers) > 0 {
		fmt.Fprintln(out, "\nMCP servers:")
		for name, s := range cfg.Tools.MCPServers {
			target := s.URL
			if !s.IsHTTP() {
				target = s.Command
			}
			fmt.Fprintf(out, "  %-12s %s\n", name, target)
		}
	}

	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(out, "\n%s %v\n", mark(false), err)
	}
	return nil
}

const notSet = "(not set)"

func keyStatus(key string) string {
	if key == "" {
		return notSet
	}
	return "✓"
}
