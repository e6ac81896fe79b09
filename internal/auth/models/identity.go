package models

import "strings"

// Credential is the opaque bearer token proving an authenticated session.
type Credential string

// IsZero reports whether the credential is empty.
func (c Credential) IsZero() bool {
	return strings.TrimSpace(string(c)) == ""
}

func (c Credential) String() string {
	return string(c)
}

// Role labels what a user may do in the client.
type Role string

const (
	RoleMember  Role = "member"
	RoleCurator Role = "curator"
	RoleAdmin   Role = "admin"
)

// User is the authenticated account as reported by the remote API.
type User struct {
	ID          int64  `json:"id"`
	DisplayName string `json:"displayName"`
	Role        Role   `json:"role"`
}

// PendingIdentity is a third-party identity that has signed in with its provider
// but has not completed local registration.
type PendingIdentity struct {
	Provider   string `json:"provider"`
	ProviderID string `json:"providerId"`
}

// IsZero reports whether either half of the identity is missing.
func (p PendingIdentity) IsZero() bool {
	return strings.TrimSpace(p.Provider) == "" || strings.TrimSpace(p.ProviderID) == ""
}

// TokenResult is returned by login and token refresh.
type TokenResult struct {
	AccessToken Credential `json:"accessToken"`
	User        User       `json:"user"`
}
