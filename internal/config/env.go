package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"

	"github.com/joho/godotenv"

	"github.com/crystaldolphin/toolchat/internal/config/provider"
)

// LoadDotEnv loads KEY=value pairs from path into the process environment.
// Variables already set win. A missing file is not an error.
func LoadDotEnv(path string) error {
	if path == "" {
		path = ".env"
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("stat env file: %w", err)
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("load env file %s: %w", path, err)
	}
	return nil
}

// ApplyEnv overrides cfg with values from the environment.
// Azure variables take precedence over the OpenAI ones.
func ApplyEnv(cfg *Config) {
	b := &cfg.Backend

	azureKey, hasAzureKey := os.LookupEnv("AZURE_OPENAI_API_KEY")
	azureEndpoint, hasAzureEndpoint := os.LookupEnv("AZURE_OPENAI_ENDPOINT")
	if hasAzureKey || hasAzureEndpoint {
		b.Provider = provider.ProviderAzure
		if hasAzureKey {
			b.APIKey = azureKey
		}
		if hasAzureEndpoint {
			b.APIBase = azureEndpoint
		}
		setString(&b.APIVersion, "AZURE_OPENAI_API_VERSION")
		setString(&b.Deployment, "AZURE_OPENAI_DEPLOYMENT")
	} else {
		setString(&b.APIKey, "OPENAI_API_KEY")
		setString(&b.APIBase, "OPENAI_BASE_URL")
	}

	setString(&cfg.Agent.Model, "TOOLCHAT_MODEL")
	setInt(&cfg.Agent.MaxRetainedTurns, "MAX_HISTORY")
	setString(&cfg.Tools.FileBasePath, "FILE_SERVER_PATH")
	setString(&cfg.Log.Level, "TOOLCHAT_LOG_LEVEL")
}

func setString(dst *string, key string) {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		slog.Warn("Ignoring non-integer environment value", "key", key, "value", v)
		return
	}
	*dst = n
}
