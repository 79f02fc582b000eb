package session

import (
	"sync"
	"testing"
	"time"
)

func TestManager_LoginAndGet(t *testing.T) {
	m := NewManager(time.Hour, time.Hour)

	s := m.Login("agent-1", "Priya")
	if s.Token == "" {
		t.Fatal("expected a token")
	}

	got := m.Get(s.Token)
	if got == nil || got.AgentID != "agent-1" {
		t.Fatalf("Get returned %+v, want agent-1", got)
	}
}

func TestManager_Logout(t *testing.T) {
	m := NewManager(time.Hour, time.Hour)
	s := m.Login("agent-1", "")

	m.Logout(s.Token)
	if m.Get(s.Token) != nil {
		t.Error("session should be gone after logout")
	}
}

func TestManager_ExpiredSessionRemovedOnGet(t *testing.T) {
	m := NewManager(time.Nanosecond, time.Hour)
	s := m.Login("agent-1", "")

	time.Sleep(time.Millisecond)
	if m.Get(s.Token) != nil {
		t.Error("expired session should not be returned")
	}
}

func TestManager_IdleSessionRemovedOnGet(t *testing.T) {
	m := NewManager(time.Hour, time.Nanosecond)
	s := m.Login("agent-1", "")

	time.Sleep(time.Millisecond)
	if m.Get(s.Token) != nil {
		t.Error("idle session should not be returned")
	}
}

func TestManager_Cleanup(t *testing.T) {
	m := NewManager(time.Nanosecond, time.Hour)
	m.Login("agent-1", "")
	m.Login("agent-2", "")

	time.Sleep(time.Millisecond)
	m.Cleanup()

	m.mu.RLock()
	n := len(m.sessions)
	m.mu.RUnlock()
	if n != 0 {
		t.Errorf("cleanup left %d sessions, want 0", n)
	}
}

// A browser hits the REST surface and the WebSocket upgrade with the
// same token at once; every lookup touches the activity timestamp, so
// concurrent Gets must be safe under the race detector.
func TestManager_ConcurrentGet(t *testing.T) {
	m := NewManager(time.Hour, time.Hour)
	s := m.Login("agent-1", "")

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				if got := m.Get(s.Token); got == nil {
					t.Error("live session vanished during concurrent lookups")
					return
				}
			}
		}()
	}
	wg.Wait()
}

func TestManager_TokensAreUnique(t *testing.T) {
	m := NewManager(time.Hour, time.Hour)
	a := m.Login("agent-1", "")
	b := m.Login("agent-1", "")
	if a.Token == b.Token {
		t.Error("two logins must not share a token")
	}
}
