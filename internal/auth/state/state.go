// Package state holds the auth session state machine for one browser session.
//
// States are Anonymous, PendingSignup(identity) and Authenticated(user). Every
// mutation goes through a transition method; readers get copies via Snapshot.
// Transitions never fail: invoking one from an unexpected source state overwrites
// and proceeds, because redirect handlers may re-run on remount.
package state

import (
	"sync"

	"parlor/internal/auth/models"
	pstrings "parlor/pkg/platform/strings"
)

// State is safe for concurrent use.
type State struct {
	mu              sync.RWMutex
	authenticated   bool
	user            *models.User
	pendingIdentity *models.PendingIdentity
	consent         []string
}

// New returns a State in Anonymous with empty consent.
func New() *State {
	return &State{consent: []string{}}
}

// CompleteOAuthSuccess moves to Authenticated(user) and clears any pending identity.
func (s *State) CompleteOAuthSuccess(user models.User) {
	s.authenticate(user)
}

// CompleteLogin moves to Authenticated(user) after a password login.
func (s *State) CompleteLogin(user models.User) {
	s.authenticate(user)
}

// SignupComplete moves PendingSignup to Authenticated(user).
func (s *State) SignupComplete(user models.User) {
	s.authenticate(user)
}

// CompleteOAuthContinue moves to PendingSignup(identity). Any authenticated user is
// dropped so the pending identity never coexists with a session.
func (s *State) CompleteOAuthContinue(identity models.PendingIdentity) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.authenticated = false
	s.user = nil
	s.pendingIdentity = &identity
}

// RecordConsent replaces the consent selection.
func (s *State) RecordConsent(items ...string) {
	normalized := pstrings.NormalizeSet(items)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.consent = normalized
}

// Logout resets to Anonymous with empty defaults.
func (s *State) Logout() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.authenticated = false
	s.user = nil
	s.pendingIdentity = nil
	s.consent = []string{}
}

// Snapshot returns a copy of the current state.
func (s *State) Snapshot() models.AuthSession {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snap := models.AuthSession{
		IsAuthenticated: s.authenticated,
		Consent:         append([]string(nil), s.consent...),
	}
	if snap.Consent == nil {
		snap.Consent = []string{}
	}
	if s.user != nil {
		u := *s.user
		snap.User = &u
	}
	if s.pendingIdentity != nil {
		p := *s.pendingIdentity
		snap.PendingIdentity = &p
	}
	return snap
}

// Status returns the current state name.
func (s *State) Status() models.Status {
	return s.Snapshot().Status()
}

func (s *State) authenticate(user models.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.authenticated = true
	s.user = &user
	s.pendingIdentity = nil
}
