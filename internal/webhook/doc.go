// Package webhook implements the Scalefusion webhook endpoint with
// HMAC-SHA256 verification and the dispatch loop that forwards enrolled
// devices to the asset syncer.
//
// # Security Model
//
// - HMAC-SHA256 signatures verified using crypto/subtle (constant-time comparison)
// - Body size limits enforced to prevent DoS attacks
// - Request logging excludes payload contents
// - Secrets come from configuration (never hardcoded)
//
// # Request Flow
//
//  1. HTTP POST arrives at the configured path
//  2. Raw body read once, before any JSON decode (size-limited)
//  3. Signature header extracted and verified against the body
//  4. Body decoded as a Scalefusion event envelope
//  5. Verified raw event journaled (best-effort)
//  6. "device.enrolled" events fan out to the syncer, one device at a time,
//     in payload order; other event types are acknowledged and ignored
//  7. 200 "OK" returned once authentication and parsing succeeded,
//     regardless of per-device sync outcomes
//
// # Error Responses
//
// - 400 Bad Request: missing signature or secret, or invalid JSON payload
// - 403 Forbidden: signature mismatch
// - 413 Payload Too Large: body exceeds the configured limit
//
// Per-device sync failures never change the response: the webhook source
// cannot fix them by retrying the delivery, so they are logged and the
// delivery is acknowledged.
package webhook
