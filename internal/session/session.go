// Package session holds per-conversation UI state. A session is never a
// source of truth for identity or roles; it may be discarded at any time and
// the user only loses screen continuity.
package session

import (
	"sync"

	"staffbot/internal/roles"
)

// Session is the mutable record for one conversation.
type Session struct {
	// ActingRole is the subordinate role an administrator has chosen to
	// browse as. It is set only for administrative primary roles.
	ActingRole *roles.Role
	// ScanningRole is non-nil exactly while the conversation awaits a QR
	// photo. It names the role whose "back" target the result screen offers.
	ScanningRole *roles.Role
	// Outstanding lists the message ids of the currently displayed screen,
	// in send order, so the next render can retract them first.
	Outstanding []int
}

// EffectiveRole resolves the role whose menu is displayed: the acting role
// when the primary role is administrative and an override is set, else the
// primary.
func (s *Session) EffectiveRole(primary roles.Role) roles.Role {
	if s != nil && s.ActingRole != nil && primary.Administrative() {
		return *s.ActingRole
	}
	return primary
}

// ClearActing drops the acting-role override. Clearing the override always
// also leaves scanning mode.
func (s *Session) ClearActing() {
	s.ActingRole = nil
	s.ScanningRole = nil
}

// Scanning reports whether the conversation awaits a QR photo.
func (s *Session) Scanning() bool {
	return s != nil && s.ScanningRole != nil
}

// Store maps conversation ids to sessions. Distinct conversations may be
// handled concurrently, so access is guarded; a single conversation's
// actions arrive sequentially.
type Store struct {
	mu       sync.RWMutex
	sessions map[int64]*Session
}

// NewStore returns an empty session store.
func NewStore() *Store {
	return &Store{sessions: make(map[int64]*Session)}
}

// Get returns the session for a conversation, creating an empty one on first
// interaction.
func (st *Store) Get(chatID int64) *Session {
	st.mu.RLock()
	s, ok := st.sessions[chatID]
	st.mu.RUnlock()
	if ok {
		return s
	}

	st.mu.Lock()
	defer st.mu.Unlock()
	if s, ok := st.sessions[chatID]; ok {
		return s
	}
	s = &Session{}
	st.sessions[chatID] = s
	return s
}

// Peek returns the session if one exists, without creating it.
func (st *Store) Peek(chatID int64) (*Session, bool) {
	st.mu.RLock()
	defer st.mu.RUnlock()
	s, ok := st.sessions[chatID]
	return s, ok
}

// Clear resets the conversation to a blank session.
func (st *Store) Clear(chatID int64) {
	st.mu.Lock()
	defer st.mu.Unlock()
	delete(st.sessions, chatID)
}
