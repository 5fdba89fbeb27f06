package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/crystaldolphin/toolchat/internal/dependency"
	"github.com/crystaldolphin/toolchat/internal/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Model Context Protocol integration",
}

var mcpServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the built-in tools over MCP on stdin/stdout",
	RunE:  runMCPServe,
}

func init() {
	mcpCmd.AddCommand(mcpServeCmd)
}

func runMCPServe(_ *cobra.Command, _ []string) error {
	cfg, err := loadConfig(false)
	if err != nil {
		return err
	}
	// Bridged tools are not re-exported.
	cfg.Tools.MCPServers = nil

	container, err := dependency.New(context.Background(), cfg, dependency.Options{SkipBackend: true})
	if err != nil {
		return err
	}
	defer container.Close()

	return mcp.ServeStdio(container.Executor(), "toolchat")
}
