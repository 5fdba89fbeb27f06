// Package cmd implements the toolchat CLI using cobra.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/crystaldolphin/toolchat/internal/config"
	"github.com/crystaldolphin/toolchat/internal/shared/cmdutils"
	"github.com/crystaldolphin/toolchat/internal/shared/logging"
)

const version = "0.1.0"

var (
	configPath string
	envFile    string
	logLevel   string
	logJSON    bool
)

// rootCmd is the base command.
var rootCmd = &cobra.Command{
	Use:           "toolchat",
	Short:         cmdutils.Logo + " toolchat: tool-augmented chat assistant",
	Long:          cmdutils.Logo + " toolchat: a chat assistant that lets the model call file, calculator and conversion tools",
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command and exits on error.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.Version = version

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&configPath, "config", "", "Config file (default ~/.toolchat/config.json)")
	pf.StringVar(&envFile, "env-file", ".env", "Dotenv file loaded before the config")
	pf.StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn, error (overrides config)")
	pf.BoolVar(&logJSON, "log-json", false, "Emit logs as JSON")

	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(chatCmd)
	rootCmd.AddCommand(toolsCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(mcpCmd)
}

func resolvedConfigPath() string {
	if configPath != "" {
		return configPath
	}
	return config.ConfigPath()
}

// loadConfig reads .env and the config file, then sets up logging.
// validate is false for commands that never reach the backend.
func loadConfig(validate bool) (*config.Config, error) {
	if err := config.LoadDotEnv(envFile); err != nil {
		return nil, err
	}
	cfg, err := config.Load(resolvedConfigPath())
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if logLevel != "" {
		cfg.Log.Level = logLevel
	}
	logging.Setup(logging.Options{
		Level: cfg.Log.Level,
		JSON:  logJSON || cfg.Log.Format == "json",
	})
	if validate {
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}
