package completion

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"parlor/internal/auth/models"
	"parlor/pkg/platform/sentinel"
)

// segmentDecoder decodes base64url token segments, with or without padding.
var segmentDecoder = jwt.NewParser(jwt.WithPaddingAllowed())

type providerClaims struct {
	Provider   string          `json:"provider"`
	ProviderID json.RawMessage `json:"providerId"`
}

// DecodeProviderToken extracts the pending identity from a header.payload.signature
// token. Only the payload is decoded; the signature is not verified here because
// the backend validates the token before it ever reaches the browser.
// Malformed input returns an error wrapping sentinel.ErrMalformed, never a panic.
func DecodeProviderToken(token string) (models.PendingIdentity, error) {
	parts := strings.Split(strings.TrimSpace(token), ".")
	if len(parts) != 3 {
		return models.PendingIdentity{}, fmt.Errorf("provider token has %d segments: %w", len(parts), sentinel.ErrMalformed)
	}

	payload, err := segmentDecoder.DecodeSegment(parts[1])
	if err != nil {
		return models.PendingIdentity{}, fmt.Errorf("decode provider token payload: %w: %w", sentinel.ErrMalformed, err)
	}

	var claims providerClaims
	if err := json.Unmarshal(payload, &claims); err != nil {
		return models.PendingIdentity{}, fmt.Errorf("parse provider token payload: %w: %w", sentinel.ErrMalformed, err)
	}

	providerID, err := rawID(claims.ProviderID)
	if err != nil {
		return models.PendingIdentity{}, err
	}
	identity := models.PendingIdentity{
		Provider:   strings.TrimSpace(claims.Provider),
		ProviderID: providerID,
	}
	if identity.IsZero() {
		return models.PendingIdentity{}, fmt.Errorf("provider token missing provider or providerId: %w", sentinel.ErrMalformed)
	}
	return identity, nil
}

// rawID accepts providerId as a JSON string or number.
func rawID(raw json.RawMessage) (string, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return "", nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return strings.TrimSpace(s), nil
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil {
		if _, err := strconv.ParseInt(n.String(), 10, 64); err == nil {
			return n.String(), nil
		}
	}
	return "", fmt.Errorf("providerId is neither string nor integer: %w", sentinel.ErrMalformed)
}
