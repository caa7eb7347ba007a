package webhook

import (
	"context"
	"encoding/json"

	"github.com/mattjoyce/assetsync/internal/scalefusion"
)

// DeviceSyncer forwards one device record to the asset-management system.
// A non-nil error marks that device's sync as failed; it never affects the
// HTTP response given to the webhook source.
type DeviceSyncer interface {
	SyncDevice(ctx context.Context, device scalefusion.Device) error
}

// EventJournal records verified raw webhook events for later inspection.
type EventJournal interface {
	Record(ctx context.Context, sourceID, eventType string, payload json.RawMessage, signature string) (string, error)
}

// Config holds webhook server configuration.
type Config struct {
	// Listen is the address the HTTP server binds to.
	Listen string

	// Path is the URL path for the webhook endpoint (e.g. "/webhook").
	Path string

	// SignatureHeader is the HTTP header containing the HMAC signature.
	SignatureHeader string

	// Secret is the HMAC shared secret for signature verification.
	Secret string

	// MaxBodySize is the maximum allowed request body size in bytes.
	MaxBodySize int64
}

// Default values
const DefaultMaxBodySize = 1048576 // 1 MB
