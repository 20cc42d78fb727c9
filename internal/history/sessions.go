package history

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

type sessionKey struct {
	userID    string
	sessionID string
}

type session struct {
	ring     *Ring
	lastSeen time.Time
}

// Sessions maps anonymous user/session pairs to their audit history.
// Nothing is persisted; idle sessions are evicted by Sweep.
type Sessions struct {
	mu       sync.Mutex
	sessions map[sessionKey]*session
	limit    int
	now      func() time.Time
}

// NewSessions creates an empty session store whose rings hold limit entries.
func NewSessions(limit int) *Sessions {
	return &Sessions{
		sessions: make(map[sessionKey]*session),
		limit:    limit,
		now:      time.Now,
	}
}

// Get returns the ring for a session, creating it on first use.
func (s *Sessions) Get(userID, sessionID string) *Ring {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := sessionKey{userID: userID, sessionID: sessionID}
	sess, ok := s.sessions[key]
	if !ok {
		sess = &session{ring: NewRing(s.limit)}
		s.sessions[key] = sess
	}
	sess.lastSeen = s.now()
	return sess.ring
}

// Len returns the number of tracked sessions.
func (s *Sessions) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// Sweep drops sessions idle for longer than ttl and returns how many were removed.
func (s *Sessions) Sweep(ttl time.Duration) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := s.now().Add(-ttl)
	removed := 0
	for key, sess := range s.sessions {
		if sess.lastSeen.Before(cutoff) {
			delete(s.sessions, key)
			removed++
		}
	}
	return removed
}

// StartSweeper evicts idle sessions every interval until ctx is cancelled.
func (s *Sessions) StartSweeper(ctx context.Context, ttl, interval time.Duration) {
	if interval <= 0 {
		interval = time.Minute
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				slog.Debug("History sweeper stopped")
				return
			case <-ticker.C:
				if n := s.Sweep(ttl); n > 0 {
					slog.Info("Evicted idle audit sessions", "count", n, "ttl", ttl)
				}
			}
		}
	}()
}
