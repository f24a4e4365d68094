// Package signature verifies GitHub webhook payloads signed with HMAC-SHA256.
package signature

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/ilindan-dev/follower-notifier/internal/domain/model"
)

const (
	// Header is the request header carrying the payload signature.
	Header = "X-Hub-Signature-256"
	// Prefix is the scheme tag in front of the hex digest.
	Prefix = "sha256="
)

// Verify checks header against the HMAC-SHA256 of payload keyed by secret.
// payload must be the untouched request body; a re-encoded copy will not match.
// Any failure wraps model.ErrAuthentication.
func Verify(payload []byte, header, secret string) error {
	if secret == "" {
		return fmt.Errorf("%w: webhook secret is not configured", model.ErrAuthentication)
	}
	header = strings.TrimSpace(header)
	if header == "" {
		return fmt.Errorf("%w: missing %s header", model.ErrAuthentication, Header)
	}
	if !strings.HasPrefix(header, Prefix) {
		return fmt.Errorf("%w: unsupported signature scheme", model.ErrAuthentication)
	}
	signature := strings.TrimPrefix(header, Prefix)
	if signature == "" {
		return fmt.Errorf("%w: empty signature", model.ErrAuthentication)
	}

	presented, err := hex.DecodeString(signature)
	if err != nil {
		return fmt.Errorf("%w: malformed signature: %v", model.ErrAuthentication, err)
	}

	// hmac.Equal is constant time and returns false on length mismatch.
	if !hmac.Equal(presented, digest(payload, secret)) {
		return fmt.Errorf("%w: signature mismatch", model.ErrAuthentication)
	}
	return nil
}

// Valid reports whether Verify accepts the payload.
func Valid(payload []byte, header, secret string) bool {
	return Verify(payload, header, secret) == nil
}

// Sign returns the header value GitHub would send for payload.
func Sign(payload []byte, secret string) string {
	return Prefix + hex.EncodeToString(digest(payload, secret))
}

func digest(payload []byte, secret string) []byte {
	mac := hmac.New(sha256.New, []byte(secret))
	_, _ = mac.Write(payload)
	return mac.Sum(nil)
}
