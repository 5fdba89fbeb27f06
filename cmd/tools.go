package cmd

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/crystaldolphin/toolchat/internal/dependency"
	"github.com/crystaldolphin/toolchat/internal/tools"
)

var toolsSchema bool

var toolsCmd = &cobra.Command{
	Use:   "tools",
	Short: "List the tools offered to the model",
	RunE:  runTools,
}

func init() {
	toolsCmd.Flags().BoolVar(&toolsSchema, "schema", false, "Print the function schema sent to the backend as JSON")
}

func runTools(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(false)
	if err != nil {
		return err
	}
	container, err := dependency.New(context.Background(), cfg, dependency.Options{SkipBackend: true})
	if err != nil {
		return err
	}
	defer container.Close()

	registry := container.Registry()
	out := cmd.OutOrStdout()
	if !toolsSchema {
		fmt.Fprintln(out, registry.DescribeAll())
		return nil
	}

	data, err := json.MarshalIndent(tools.ToBackendSchema(registry.ListAll()), "", "  ")
	if err != nil {
		return fmt.Errorf("marshal schema: %w", err)
	}
	fmt.Fprintln(out, string(data))
	return nil
}
