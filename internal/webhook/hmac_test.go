package webhook

import (
	"errors"
	"testing"
)

func TestVerifySignature(t *testing.T) {
	secret := "test-secret-key"
	body := []byte(`{"event":"device.enrolled","data":{"devices":[]}}`)

	validSig := computeSignature(body, secret)

	tests := []struct {
		name      string
		body      []byte
		signature string
		secret    string
		wantErr   error
	}{
		{
			name:      "valid signature",
			body:      body,
			signature: validSig,
			secret:    secret,
			wantErr:   nil,
		},
		{
			name:      "tampered body",
			body:      []byte(`{"event":"device.enrolled","data":{"devices":[{}]}}`),
			signature: validSig,
			secret:    secret,
			wantErr:   ErrSignatureMismatch,
		},
		{
			name:      "wrong signature",
			body:      body,
			signature: "0000000000000000000000000000000000000000000000000000000000000000",
			secret:    secret,
			wantErr:   ErrSignatureMismatch,
		},
		{
			name:      "wrong secret",
			body:      body,
			signature: validSig,
			secret:    "wrong-secret",
			wantErr:   ErrSignatureMismatch,
		},
		{
			name:      "malformed hex",
			body:      body,
			signature: "not-valid-hex",
			secret:    secret,
			wantErr:   ErrSignatureMismatch,
		},
		{
			name:      "empty signature",
			body:      body,
			signature: "",
			secret:    secret,
			wantErr:   ErrMissingMaterial,
		},
		{
			name:      "empty secret",
			body:      body,
			signature: validSig,
			secret:    "",
			wantErr:   ErrMissingMaterial,
		},
		{
			name:      "empty body still verifiable",
			body:      nil,
			signature: computeSignature(nil, secret),
			secret:    secret,
			wantErr:   nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := verifySignature(tt.body, tt.signature, tt.secret)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("verifySignature() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestVerifySignatureSingleBitFlips(t *testing.T) {
	secret := "test-secret"
	body := []byte(`{"id":"evt-1","event":"device.enrolled"}`)
	validSig := computeSignature(body, secret)

	// Flip one bit of the body.
	mutated := append([]byte(nil), body...)
	mutated[0] ^= 0x01
	if err := verifySignature(mutated, validSig, secret); !errors.Is(err, ErrSignatureMismatch) {
		t.Errorf("bit-flipped body: error = %v, want %v", err, ErrSignatureMismatch)
	}

	// Flip one hex digit of the signature.
	sigBytes := []byte(validSig)
	if sigBytes[0] == 'a' {
		sigBytes[0] = 'b'
	} else {
		sigBytes[0] = 'a'
	}
	if err := verifySignature(body, string(sigBytes), secret); !errors.Is(err, ErrSignatureMismatch) {
		t.Errorf("bit-flipped signature: error = %v, want %v", err, ErrSignatureMismatch)
	}
}

func TestComputeSignature(t *testing.T) {
	body := []byte("test payload")
	secret := "test-secret"

	sig := computeSignature(body, secret)

	// Should return lowercase hex string
	if len(sig) != 64 { // SHA256 = 32 bytes = 64 hex chars
		t.Errorf("signature length = %d, want 64", len(sig))
	}
	for _, c := range sig {
		if (c < '0' || c > '9') && (c < 'a' || c > 'f') {
			t.Fatalf("signature contains non-lowercase-hex char %q", c)
		}
	}

	// Should be deterministic
	if sig != computeSignature(body, secret) {
		t.Error("signature should be deterministic")
	}

	// Round trip
	if err := verifySignature(body, sig, secret); err != nil {
		t.Errorf("round trip failed: %v", err)
	}
}
