// Package scalefusion defines the payload types Scalefusion posts to
// webhook endpoints, and parsing helpers for them.
package scalefusion

import (
	"encoding/json"
	"fmt"
)

// EventDeviceEnrolled is the only event type that triggers asset forwarding.
// All other event types are acknowledged and ignored.
const EventDeviceEnrolled = "device.enrolled"

// Event is the webhook envelope.
type Event struct {
	ID        string    `json:"id"`
	Event     string    `json:"event"`
	CreatedAt string    `json:"created_at"`
	Data      EventData `json:"data"`
}

// EventData carries the event payload. Devices defaults to empty when the
// field is absent.
type EventData struct {
	Devices []Device `json:"devices"`
}

// Device is a single device record from a Scalefusion event. Fields are
// read-only from this system's perspective; they are forwarded, never
// mutated.
type Device struct {
	// Name doubles as the asset tag in the asset-management system.
	Name      string `json:"name"`
	SerialNo  string `json:"serial_no"`
	Model     string `json:"model"`
	Make      string `json:"make"`
	OSVersion string `json:"os_version"`
}

// Parse decodes a raw webhook body into an Event.
func Parse(body []byte) (*Event, error) {
	var evt Event
	if err := json.Unmarshal(body, &evt); err != nil {
		return nil, fmt.Errorf("decode webhook payload: %w", err)
	}
	return &evt, nil
}
