package snipeit

import (
	"encoding/json"
	"time"
)

// Config holds Snipe-IT client settings, resolved from the global config.
type Config struct {
	// URL is the Snipe-IT base URL, without a trailing slash.
	URL string

	// Token is the API bearer token.
	Token string

	// Timeout bounds every outbound call.
	Timeout time.Duration

	// StatusID is assigned to newly created assets. Its meaning depends on
	// the remote status catalog.
	StatusID int64
}

// modelList is the response of GET /api/v1/models.
type modelList struct {
	Rows []modelRow `json:"rows"`
}

type modelRow struct {
	ID           int64            `json:"id"`
	Name         string           `json:"name"`
	Manufacturer *manufacturerRef `json:"manufacturer"`
}

type manufacturerRef struct {
	Name string `json:"name"`
}

// assetLookup is the response of GET /api/v1/hardware/bytag/{tag}.
// A direct hit carries an id; some deployments answer with a rows list
// instead, so both are checked.
type assetLookup struct {
	ID   int64             `json:"id"`
	Rows []json.RawMessage `json:"rows"`
}

// createRequest is the body of POST /api/v1/hardware.
type createRequest struct {
	AssetTag string `json:"asset_tag"`
	Serial   string `json:"serial"`
	ModelID  int64  `json:"model_id"`
	StatusID int64  `json:"status_id"`
	Name     string `json:"name"`
}

// createResponse is the Snipe-IT API envelope for creation calls.
type createResponse struct {
	Status   string          `json:"status"`
	Messages json.RawMessage `json:"messages"`
}

// Default values
const (
	DefaultTimeout  = 10 * time.Second
	DefaultStatusID = 2
)
