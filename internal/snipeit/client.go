// Package snipeit implements the outbound Snipe-IT REST client and the
// per-device sync sequence: check existence by asset tag, resolve the
// catalog model id, create the asset. Existing assets are skipped, never
// updated. No call is ever retried; failures surface in logs only.
package snipeit

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/mattjoyce/assetsync/internal/scalefusion"
)

// Client talks to a single Snipe-IT instance.
type Client struct {
	baseURL  string
	token    string
	statusID int64
	httpc    *http.Client
	logger   *slog.Logger
}

// New creates a Snipe-IT client. The HTTP client carries the configured
// timeout so a hung remote cannot stall the dispatcher indefinitely.
func New(cfg Config, logger *slog.Logger) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	statusID := cfg.StatusID
	if statusID <= 0 {
		statusID = DefaultStatusID
	}

	return &Client{
		baseURL:  strings.TrimRight(cfg.URL, "/"),
		token:    cfg.Token,
		statusID: statusID,
		httpc:    &http.Client{Timeout: timeout},
		logger:   logger,
	}
}

// lookupState is the outcome of an existence check. Explicit states keep the
// ambiguous cases (unexpected status, malformed body) separate from a clean
// miss, because creation must be withheld when existence is uncertain.
type lookupState int

const (
	lookupExists lookupState = iota
	lookupMissing
	lookupFailed
)

// SyncDevice forwards one enrolled device to Snipe-IT. The returned error is
// informational for the caller's log; it never aborts sibling devices.
func (c *Client) SyncDevice(ctx context.Context, device scalefusion.Device) error {
	assetTag := device.Name
	serial := device.SerialNo

	if assetTag == "" || serial == "" {
		c.logger.Warn("device missing asset tag or serial number, skipping",
			"asset_tag", assetTag,
			"serial", serial,
			"model", device.Model,
		)
		return nil
	}

	// Step 1: check whether the asset already exists.
	state, err := c.lookupAssetByTag(ctx, assetTag)
	switch state {
	case lookupExists:
		c.logger.Info("asset already exists, skipping", "asset_tag", assetTag)
		return nil
	case lookupFailed:
		return fmt.Errorf("check asset %q: %w", assetTag, err)
	case lookupMissing:
		c.logger.Debug("asset not found, proceeding to create", "asset_tag", assetTag)
	}

	// Step 2: resolve the catalog model id. The API rejects creation
	// without one.
	modelID, ok := c.ResolveModelID(ctx, device.Model, device.Make)
	if !ok {
		return fmt.Errorf("no model id for model %q manufacturer %q", device.Model, device.Make)
	}

	// Step 3: create the asset.
	if err := c.createAsset(ctx, createRequest{
		AssetTag: assetTag,
		Serial:   serial,
		ModelID:  modelID,
		StatusID: c.statusID,
		Name:     assetTag,
	}); err != nil {
		return fmt.Errorf("create asset %q: %w", assetTag, err)
	}

	c.logger.Info("asset created",
		"asset_tag", assetTag,
		"serial", serial,
		"model_id", modelID,
	)
	return nil
}

// ResolveModelID looks up a catalog model id by name and (optionally)
// manufacturer, both matched case-insensitively. The first match in API
// order wins. A miss or a transport failure both report not-found; many
// devices legitimately have no pre-registered model.
func (c *Client) ResolveModelID(ctx context.Context, modelName, manufacturer string) (int64, bool) {
	resp, err := c.do(ctx, http.MethodGet, "/api/v1/models", nil)
	if err != nil {
		c.logger.Error("fetch models failed", "error", err)
		return 0, false
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.logger.Error("fetch models returned unexpected status", "status", resp.StatusCode)
		return 0, false
	}

	var list modelList
	if err := json.NewDecoder(resp.Body).Decode(&list); err != nil {
		c.logger.Error("decode model list failed", "error", err)
		return 0, false
	}

	for _, row := range list.Rows {
		if !strings.EqualFold(row.Name, modelName) {
			continue
		}
		if manufacturer != "" {
			if row.Manufacturer == nil || !strings.EqualFold(row.Manufacturer.Name, manufacturer) {
				continue
			}
		}
		c.logger.Debug("resolved model id",
			"model", modelName,
			"manufacturer", manufacturer,
			"model_id", row.ID,
		)
		return row.ID, true
	}

	c.logger.Warn("no matching model found",
		"model", modelName,
		"manufacturer", manufacturer,
	)
	return 0, false
}

// lookupAssetByTag queries GET /api/v1/hardware/bytag/{tag}.
// 200 with a nonempty id or rows means the asset exists; 404 means it does
// not. Anything else is a failure: the existence state is uncertain and
// creating under uncertainty risks duplicates.
func (c *Client) lookupAssetByTag(ctx context.Context, tag string) (lookupState, error) {
	resp, err := c.do(ctx, http.MethodGet, "/api/v1/hardware/bytag/"+url.PathEscape(tag), nil)
	if err != nil {
		return lookupFailed, err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		var lookup assetLookup
		if err := json.NewDecoder(resp.Body).Decode(&lookup); err != nil {
			return lookupFailed, fmt.Errorf("decode asset lookup response: %w", err)
		}
		if lookup.ID != 0 || len(lookup.Rows) > 0 {
			return lookupExists, nil
		}
		return lookupMissing, nil
	case http.StatusNotFound:
		return lookupMissing, nil
	default:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return lookupFailed, fmt.Errorf("unexpected status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
}

// createAsset submits POST /api/v1/hardware. Snipe-IT answers 200 even for
// rejected creations, so success is read from the response envelope.
func (c *Client) createAsset(ctx context.Context, req createRequest) error {
	payload, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("marshal create request: %w", err)
	}

	resp, err := c.do(ctx, http.MethodPost, "/api/v1/hardware", bytes.NewReader(payload))
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	var created createResponse
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		return fmt.Errorf("decode create response: %w", err)
	}

	if created.Status != "success" {
		return fmt.Errorf("creation rejected: status=%q messages=%s", created.Status, created.Messages)
	}
	return nil
}

// do issues one API request with the standard auth and content headers.
func (c *Client) do(ctx context.Context, method, path string, body io.Reader) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	return resp, nil
}
