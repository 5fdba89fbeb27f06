package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ConfigurationError reports settings the process cannot start with.
type ConfigurationError struct {
	Problems []string
}

func (e *ConfigurationError) Error() string {
	return "invalid configuration: " + strings.Join(e.Problems, "; ")
}

var validate = validator.New()

// Validate checks field constraints and that the backend is reachable in
// principle (endpoint and credentials present).
func (c *Config) Validate() error {
	var problems []string

	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return fmt.Errorf("validate config: %w", err)
		}
		for _, fe := range verrs {
			problems = append(problems, describeFieldError(fe))
		}
	}

	b := c.Backend
	if b.NeedsKey() && b.APIKey == "" {
		problems = append(problems, fmt.Sprintf("no API key configured for provider %q", b.Provider))
	}
	if b.IsAzure() && b.APIBase == "" {
		problems = append(problems, "azure backend requires an endpoint (AZURE_OPENAI_ENDPOINT)")
	}
	if b.Provider == "vllm" && b.APIBase == "" {
		problems = append(problems, "vllm backend requires apiBase")
	}

	if len(problems) > 0 {
		return &ConfigurationError{Problems: problems}
	}
	return nil
}

func describeFieldError(fe validator.FieldError) string {
	field := strings.TrimPrefix(fe.Namespace(), "Config.")
	if fe.Param() != "" {
		return fmt.Sprintf("%s failed %s=%s (got %v)", field, fe.Tag(), fe.Param(), fe.Value())
	}
	return fmt.Sprintf("%s failed %s (got %v)", field, fe.Tag(), fe.Value())
}
