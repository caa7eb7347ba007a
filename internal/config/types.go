package config

import "time"

// Config represents the complete assetsync configuration.
type Config struct {
	Service ServiceConfig `yaml:"service"`
	Listen  string        `yaml:"listen"`
	Webhook WebhookConfig `yaml:"webhook"`
	SnipeIT SnipeITConfig `yaml:"snipeit"`
	Journal JournalConfig `yaml:"journal,omitempty"`
	Lock    LockConfig    `yaml:"lock,omitempty"`
}

// ServiceConfig defines core service settings.
type ServiceConfig struct {
	Name     string `yaml:"name"`
	LogLevel string `yaml:"log_level"`
}

// WebhookConfig defines the inbound webhook endpoint.
type WebhookConfig struct {
	// Path is the URL path the webhook listens on.
	Path string `yaml:"path"`

	// SignatureHeader is the HTTP header carrying the HMAC-SHA256 signature.
	SignatureHeader string `yaml:"signature_header"`

	// Secret is the shared secret for signature verification.
	// Supports ${ENV_VAR} expansion so it never has to live in the file.
	Secret string `yaml:"secret"`

	// MaxBodySize is the maximum allowed request body size in bytes.
	MaxBodySize int64 `yaml:"max_body_size,omitempty"`
}

// SnipeITConfig defines the outbound Snipe-IT API client settings.
type SnipeITConfig struct {
	URL   string `yaml:"url"`
	Token string `yaml:"token"`

	// Timeout bounds every outbound API call.
	Timeout time.Duration `yaml:"timeout,omitempty"`

	// StatusID is the status assigned to newly created assets. Its meaning
	// depends on the remote status catalog ("Ready to Deploy" by default in
	// a stock install).
	StatusID int64 `yaml:"status_id,omitempty"`
}

// JournalConfig defines the optional raw-event journal.
type JournalConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path,omitempty"`
}

// LockConfig defines the single-instance PID lock.
type LockConfig struct {
	Path string `yaml:"path,omitempty"`
}

// Default values
const (
	DefaultMaxBodySize = 1048576 // 1 MB
	DefaultStatusID    = 2
	DefaultTimeout     = 10 * time.Second
)

// Defaults returns a Config with sensible defaults.
func Defaults() *Config {
	return &Config{
		Service: ServiceConfig{
			Name:     "assetsync",
			LogLevel: "info",
		},
		Listen: ":5000",
		Webhook: WebhookConfig{
			Path:            "/webhook",
			SignatureHeader: "X-SF-Signature",
			MaxBodySize:     DefaultMaxBodySize,
		},
		SnipeIT: SnipeITConfig{
			Timeout:  DefaultTimeout,
			StatusID: DefaultStatusID,
		},
		Journal: JournalConfig{
			Enabled: false,
			Path:    "./data/events.db",
		},
		Lock: LockConfig{
			Path: "./data/assetsync.pid",
		},
	}
}
