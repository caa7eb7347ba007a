package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

var envVarPattern = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)\}`)

// Load reads and parses configuration from a file, applying defaults and
// ${ENV_VAR} expansion before validation.
func Load(configPath string) (*Config, error) {
	// Resolve to absolute path for consistent error messages
	absPath, err := filepath.Abs(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve config path %q: %w", configPath, err)
	}

	data, err := os.ReadFile(absPath)
	if err != nil {
		return nil, fmt.Errorf("config file not found: %s\n"+
			"Hint: Check the path or run with --config flag", absPath)
	}

	expanded := expandEnvVars(string(data))

	cfg := Defaults()
	if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", absPath, err)
	}

	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", absPath, err)
	}

	return cfg, nil
}

// expandEnvVars substitutes ${VAR} placeholders with environment values.
// Unset variables keep the placeholder so validation can flag them.
func expandEnvVars(input string) string {
	return envVarPattern.ReplaceAllStringFunc(input, func(match string) string {
		varName := envVarPattern.FindStringSubmatch(match)[1]

		if value, exists := os.LookupEnv(varName); exists {
			return value
		}

		return match
	})
}

// validate performs fail-fast validation on the configuration.
// Secret, API URL and API token are required; the process must not start
// without them.
func validate(cfg *Config) error {
	validLogLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLogLevels[strings.ToLower(cfg.Service.LogLevel)] {
		return fmt.Errorf("service.log_level must be one of: debug, info, warn, error")
	}

	if cfg.Listen == "" {
		return fmt.Errorf("listen address is required")
	}

	if cfg.Webhook.Path == "" || !strings.HasPrefix(cfg.Webhook.Path, "/") {
		return fmt.Errorf("webhook.path must be an absolute URL path")
	}
	if cfg.Webhook.SignatureHeader == "" {
		return fmt.Errorf("webhook.signature_header is required")
	}
	if cfg.Webhook.Secret == "" || isUnresolvedPlaceholder(cfg.Webhook.Secret) {
		return fmt.Errorf("webhook.secret is required (set it or export the referenced variable)")
	}
	if cfg.Webhook.MaxBodySize <= 0 {
		return fmt.Errorf("webhook.max_body_size must be positive")
	}

	if cfg.SnipeIT.URL == "" || isUnresolvedPlaceholder(cfg.SnipeIT.URL) {
		return fmt.Errorf("snipeit.url is required")
	}
	if !strings.HasPrefix(cfg.SnipeIT.URL, "http://") && !strings.HasPrefix(cfg.SnipeIT.URL, "https://") {
		return fmt.Errorf("snipeit.url must start with http:// or https://")
	}
	if cfg.SnipeIT.Token == "" || isUnresolvedPlaceholder(cfg.SnipeIT.Token) {
		return fmt.Errorf("snipeit.token is required (set it or export the referenced variable)")
	}
	if cfg.SnipeIT.Timeout <= 0 {
		return fmt.Errorf("snipeit.timeout must be positive")
	}
	if cfg.SnipeIT.StatusID <= 0 {
		return fmt.Errorf("snipeit.status_id must be positive")
	}

	if cfg.Journal.Enabled && cfg.Journal.Path == "" {
		return fmt.Errorf("journal.path is required when journal.enabled is true")
	}

	return nil
}

// isUnresolvedPlaceholder reports whether a value is still a ${VAR}
// placeholder after env expansion.
func isUnresolvedPlaceholder(v string) bool {
	return envVarPattern.MatchString(v)
}
