// Package credential stores the access credential of one browser session.
//
// Error Contract:
//   - Get returns ok=false with a nil error when no credential is held
//   - Set rejects empty credentials with ErrEmptyCredential
//   - infrastructure failures are wrapped with sentinel.ErrUnavailable
package credential

import (
	"fmt"

	"parlor/pkg/platform/sentinel"
)

// ErrEmptyCredential is returned when asked to store a blank credential.
var ErrEmptyCredential = fmt.Errorf("empty credential: %w", sentinel.ErrInvalidState)
