package models

// Status names the auth session state.
type Status string

const (
	StatusAnonymous     Status = "anonymous"
	StatusPendingSignup Status = "pending_signup"
	StatusAuthenticated Status = "authenticated"
)

// AuthSession is a point-in-time copy of the auth session state.
// Invariants: IsAuthenticated implies User != nil; PendingIdentity != nil implies
// !IsAuthenticated.
type AuthSession struct {
	IsAuthenticated bool             `json:"isAuthenticated"`
	User            *User            `json:"user,omitempty"`
	PendingIdentity *PendingIdentity `json:"pendingIdentity,omitempty"`
	Consent         []string         `json:"consent"`
}

// Status derives the state name from the snapshot.
func (a AuthSession) Status() Status {
	switch {
	case a.IsAuthenticated:
		return StatusAuthenticated
	case a.PendingIdentity != nil:
		return StatusPendingSignup
	default:
		return StatusAnonymous
	}
}

// HasConsent reports whether the consent item was selected.
func (a AuthSession) HasConsent(item string) bool {
	for _, c := range a.Consent {
		if c == item {
			return true
		}
	}
	return false
}
