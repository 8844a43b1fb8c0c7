// Package dashboard exposes a guild's custom commands over HTTP so admins
// can author them from a browser. Access is granted by short-lived session
// tokens minted through the /dashboard slash command.
package dashboard

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

const DefaultSessionTTL = 15 * time.Minute

// Session ties a dashboard token to the guild and user it was minted for.
type Session struct {
	Token     string    `json:"token"`
	GuildID   string    `json:"guild_id"`
	UserID    string    `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// SessionStore holds live dashboard sessions in memory. Tokens are opaque
// UUIDs; an expired token is as good as no token.
type SessionStore struct {
	mu       sync.Mutex
	sessions map[string]Session
	ttl      time.Duration
	now      func() time.Time
}

func NewSessionStore(ttl time.Duration) *SessionStore {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	return &SessionStore{
		sessions: make(map[string]Session),
		ttl:      ttl,
		now:      time.Now,
	}
}

// Create mints a fresh session for the given guild and user.
func (ss *SessionStore) Create(guildID, userID string) Session {
	ss.mu.Lock()
	defer ss.mu.Unlock()

	now := ss.now()
	sess := Session{
		Token:     uuid.NewString(),
		GuildID:   guildID,
		UserID:    userID,
		CreatedAt: now,
		ExpiresAt: now.Add(ss.ttl),
	}
	ss.sessions[sess.Token] = sess
	return sess
}

// Validate resolves a token to its session, rejecting unknown or expired
// tokens.
func (ss *SessionStore) Validate(token string) (Session, bool) {
	ss.mu.Lock()
	defer ss.mu.Unlock()

	sess, ok := ss.sessions[token]
	if !ok {
		return Session{}, false
	}
	if ss.now().After(sess.ExpiresAt) {
		delete(ss.sessions, token)
		return Session{}, false
	}
	return sess, true
}

// Revoke drops a session immediately.
func (ss *SessionStore) Revoke(token string) {
	ss.mu.Lock()
	defer ss.mu.Unlock()
	delete(ss.sessions, token)
}

// StartCleaner sweeps expired sessions until ctx is cancelled; run in a
// goroutine.
func (ss *SessionStore) StartCleaner(ctx context.Context) {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			ss.mu.Lock()
			now := ss.now()
			for token, sess := range ss.sessions {
				if now.After(sess.ExpiresAt) {
					delete(ss.sessions, token)
				}
			}
			ss.mu.Unlock()
		}
	}
}
