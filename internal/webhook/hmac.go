package webhook

import (
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"errors"
)

// Signature verification outcomes. The dispatcher maps them to distinct
// response codes: missing material is a malformed request (400), a mismatch
// is a rejected one (403).
var (
	ErrMissingMaterial   = errors.New("missing signature or secret")
	ErrSignatureMismatch = errors.New("signature mismatch")
)

// verifySignature verifies a lowercase-hex HMAC-SHA256 signature against the
// raw request body.
//
// This function uses constant-time comparison (crypto/subtle) to prevent
// timing attacks. It never panics; absent inputs report ErrMissingMaterial
// and every other failure (undecodable hex included) reports
// ErrSignatureMismatch.
func verifySignature(body []byte, signatureHex, secret string) error {
	if secret == "" || signatureHex == "" {
		return ErrMissingMaterial
	}

	claimedMAC, err := hex.DecodeString(signatureHex)
	if err != nil {
		return ErrSignatureMismatch
	}

	// Compute HMAC-SHA256 of request body
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	expectedMAC := mac.Sum(nil)

	// Constant-time comparison to prevent timing attacks
	if subtle.ConstantTimeCompare(expectedMAC, claimedMAC) != 1 {
		return ErrSignatureMismatch
	}

	return nil
}

// computeSignature computes the lowercase-hex HMAC-SHA256 signature for a
// body. Used by tests to build valid requests.
func computeSignature(body []byte, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}
