// Package session manages agent console sessions. Identity is never read
// from ambient storage: a Session is created at login, handed explicitly
// to everything that acts on the agent's behalf, and destroyed at logout.
package session

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Session is one agent's authenticated console session.
type Session struct {
	Token        string    `json:"token"`
	AgentID      string    `json:"agentId"`
	AgentName    string    `json:"agentName,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
	LastActiveAt time.Time `json:"lastActiveAt"`
}

// New creates a session for the given agent with a fresh random token.
func New(agentID, agentName string) *Session {
	now := time.Now()
	return &Session{
		Token:        uuid.New().String(),
		AgentID:      agentID,
		AgentName:    agentName,
		CreatedAt:    now,
		LastActiveAt: now,
	}
}

// Touch updates the last activity timestamp.
func (s *Session) Touch() {
	s.LastActiveAt = time.Now()
}

// IsExpired returns true if the session has exceeded the given max age.
func (s *Session) IsExpired(maxAge time.Duration) bool {
	return time.Since(s.CreatedAt) > maxAge
}

// IsIdle returns true if the session has been idle longer than the timeout.
func (s *Session) IsIdle(timeout time.Duration) bool {
	return time.Since(s.LastActiveAt) > timeout
}

// Manager handles session creation, lookup, and cleanup. Sessions live
// only in memory; a gateway restart logs everyone out.
type Manager struct {
	mu          sync.RWMutex
	sessions    map[string]*Session
	maxAge      time.Duration
	idleTimeout time.Duration
}

// NewManager creates a session manager with the given timeouts.
func NewManager(maxAge, idleTimeout time.Duration) *Manager {
	return &Manager{
		sessions:    make(map[string]*Session),
		maxAge:      maxAge,
		idleTimeout: idleTimeout,
	}
}

// Login creates a session for an agent and returns it.
func (m *Manager) Login(agentID, agentName string) *Session {
	s := New(agentID, agentName)
	m.mu.Lock()
	m.sessions[s.Token] = s
	m.mu.Unlock()
	return s
}

// Get retrieves a live session by token. Expired and idle sessions are
// removed on lookup and reported as absent. The expiry check and the
// activity touch happen under one lock; concurrent lookups with the
// same token are routine (REST calls racing the WebSocket upgrade).
func (m *Manager) Get(token string) *Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[token]
	if !ok {
		return nil
	}
	if s.IsExpired(m.maxAge) || s.IsIdle(m.idleTimeout) {
		delete(m.sessions, token)
		return nil
	}
	s.Touch()
	return s
}

// Logout destroys a session.
func (m *Manager) Logout(token string) {
	m.mu.Lock()
	delete(m.sessions, token)
	m.mu.Unlock()
}

// Cleanup removes all expired and idle sessions and reports how many
// were removed. Called periodically.
func (m *Manager) Cleanup() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	removed := 0
	for token, s := range m.sessions {
		if s.IsExpired(m.maxAge) || s.IsIdle(m.idleTimeout) {
			delete(m.sessions, token)
			removed++
		}
	}
	return removed
}
