package sentinel

import "errors"

// Sentinel errors for infrastructure facts. Stores and the remote API client return
// these (optionally wrapped) so services can translate them into domain errors.
//
//   - ErrNotFound: the record or remote resource does not exist
//   - ErrUnauthorized: the remote API rejected the credential
//   - ErrUnavailable: the remote API or store could not be reached
//   - ErrMalformed: a payload could not be decoded
//   - ErrInvalidState: the operation does not apply to the current state
var (
	ErrNotFound     = errors.New("not found")
	ErrUnauthorized = errors.New("unauthorized")
	ErrUnavailable  = errors.New("unavailable")
	ErrMalformed    = errors.New("malformed")
	ErrInvalidState = errors.New("invalid state")
)
