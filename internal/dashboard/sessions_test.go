package dashboard

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionCreateAndValidate(t *testing.T) {
	t.Parallel()

	ss := NewSessionStore(time.Minute)
	sess := ss.Create("g1", "u1")
	require.NotEmpty(t, sess.Token)

	got, ok := ss.Validate(sess.Token)
	require.True(t, ok)
	assert.Equal(t, "g1", got.GuildID)
	assert.Equal(t, "u1", got.UserID)
}

func TestSessionTokensAreUnique(t *testing.T) {
	t.Parallel()

	ss := NewSessionStore(time.Minute)
	seen := map[string]bool{}
	for i := 0; i < 100; i++ {
		sess := ss.Create("g1", "u1")
		require.False(t, seen[sess.Token])
		seen[sess.Token] = true
	}
}

func TestSessionExpiry(t *testing.T) {
	t.Parallel()

	ss := NewSessionStore(time.Minute)
	sess := ss.Create("g1", "u1")

	ss.now = func() time.Time { return time.Now().Add(2 * time.Minute) }

	_, ok := ss.Validate(sess.Token)
	assert.False(t, ok)

	// Expired sessions are removed on validation.
	ss.mu.Lock()
	_, stillThere := ss.sessions[sess.Token]
	ss.mu.Unlock()
	assert.False(t, stillThere)
}

func TestSessionRevoke(t *testing.T) {
	t.Parallel()

	ss := NewSessionStore(time.Minute)
	sess := ss.Create("g1", "u1")
	ss.Revoke(sess.Token)

	_, ok := ss.Validate(sess.Token)
	assert.False(t, ok)
}

func TestSessionUnknownToken(t *testing.T) {
	t.Parallel()

	ss := NewSessionStore(time.Minute)
	_, ok := ss.Validate("nope")
	assert.False(t, ok)
}
