package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/crystaldolphin/toolchat/internal/config"
	"github.com/crystaldolphin/toolchat/internal/shared/cmdutils"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create the config file and the file tools directory",
	RunE:  runInit,
}

func runInit(cmd *cobra.Command, _ []string) error {
	out := cmd.OutOrStdout()
	cfgPath := resolvedConfigPath()

	// Environment overrides are not applied so secrets stay out of the file.
	cfg := config.DefaultConfig()
	if _, err := os.Stat(cfgPath); err == nil {
		existing, err := config.LoadFile(cfgPath)
		if err != nil {
			return err
		}
		cfg = *existing
		fmt.Fprintf(out, "Config already exists at %s, refreshing with current defaults\n", cfgPath)
	}
	if err := config.Save(&cfg, cfgPath); err != nil {
		return err
	}
	fmt.Fprintf(out, "✓ Config at %s\n", cfgPath)

	base, err := filepath.Abs(cfg.Tools.FileBasePath)
	if err != nil {
		return fmt.Errorf("resolve file base path: %w", err)
	}
	if err := os.MkdirAll(base, 0o755); err != nil {
		return fmt.Errorf("create file base path: %w", err)
	}
	fmt.Fprintf(out, "✓ File tools directory at %s\n", base)

	fmt.Fprintf(out, "\n%s toolchat is ready!\n\n", cmdutils.Logo)
	fmt.Fprintln(out, "Next steps:")
	fmt.Fprintln(out, "  1. Set OPENAI_API_KEY (or the AZURE_OPENAI_* variables) in your environment or .env")
	fmt.Fprintln(out, "  2. Chat: toolchat chat -m \"What is 15% of 240?\"")
	return nil
}
