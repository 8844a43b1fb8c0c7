package dashboard

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shamash/internal/customcmd"
)

// memStore is an in-memory customcmd.Store for tests.
type memStore struct {
	mu   sync.Mutex
	defs map[string][]customcmd.Definition
}

func newMemStore() *memStore {
	return &memStore{defs: make(map[string][]customcmd.Definition)}
}

func (m *memStore) ListCommands(guildID string) ([]customcmd.Definition, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]customcmd.Definition, len(m.defs[guildID]))
	copy(out, m.defs[guildID])
	return out, nil
}

func (m *memStore) InsertCommand(guildID string, def customcmd.Definition) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, d := range m.defs[guildID] {
		if d.Trigger == def.Trigger {
			return customcmd.ErrConflict
		}
	}
	m.defs[guildID] = append(m.defs[guildID], def)
	return nil
}

func (m *memStore) UpdateCommand(guildID, trigger string, def customcmd.Definition) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, d := range m.defs[guildID] {
		if d.Trigger == trigger {
			m.defs[guildID][i] = def
			return nil
		}
	}
	return customcmd.ErrNotFound
}

func (m *memStore) DeleteCommand(guildID, trigger string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, d := range m.defs[guildID] {
		if d.Trigger == trigger {
			m.defs[guildID] = append(m.defs[guildID][:i], m.defs[guildID][i+1:]...)
			return nil
		}
	}
	return customcmd.ErrNotFound
}

func testSnapshot(guildID string) customcmd.InvocationContext {
	return customcmd.InvocationContext{
		GuildID:     guildID,
		GuildName:   "Test Server",
		MemberCount: 42,
	}
}

func newTestServer(t *testing.T) (http.Handler, *SessionStore) {
	t.Helper()
	eval := customcmd.NewEvaluator(customcmd.NewSandbox(time.Second))
	service := customcmd.NewService(newMemStore(), eval)
	sessions := NewSessionStore(time.Minute)
	srv := NewServer(service, sessions, testSnapshot)
	return srv.Router(), sessions
}

func doRequest(t *testing.T, h http.Handler, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestDashboardRequiresToken(t *testing.T) {
	t.Parallel()

	h, _ := newTestServer(t)

	w := doRequest(t, h, http.MethodGet, "/api/commands", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = doRequest(t, h, http.MethodGet, "/api/commands", "not-a-real-token", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestDashboardExpiredToken(t *testing.T) {
	t.Parallel()

	h, sessions := newTestServer(t)
	sess := sessions.Create("g1", "u1")

	// Shift the clock past expiry.
	sessions.now = func() time.Time { return time.Now().Add(2 * time.Minute) }

	w := doRequest(t, h, http.MethodGet, "/api/commands", sess.Token, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestDashboardSessionInfo(t *testing.T) {
	t.Parallel()

	h, sessions := newTestServer(t)
	sess := sessions.Create("g1", "u1")

	w := doRequest(t, h, http.MethodGet, "/api/session", sess.Token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "g1", resp["guild_id"])
	assert.Equal(t, "u1", resp["user_id"])
}

func TestDashboardCommandCRUD(t *testing.T) {
	t.Parallel()

	h, sessions := newTestServer(t)
	sess := sessions.Create("g1", "u1")

	// Create.
	w := doRequest(t, h, http.MethodPost, "/api/commands", sess.Token, customcmd.Candidate{
		Trigger:  "Hello",
		Kind:     customcmd.KindText,
		Response: "hi {username}",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var created customcmd.Definition
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.Equal(t, "hello", created.Trigger)
	assert.Equal(t, "u1", created.CreatedBy)

	// Duplicate conflicts.
	w = doRequest(t, h, http.MethodPost, "/api/commands", sess.Token, customcmd.Candidate{
		Trigger:  "hello",
		Kind:     customcmd.KindText,
		Response: "again",
	})
	assert.Equal(t, http.StatusConflict, w.Code)

	// List.
	w = doRequest(t, h, http.MethodGet, "/api/commands", sess.Token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var listResp struct {
		Commands []customcmd.Definition `json:"commands"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &listResp))
	require.Len(t, listResp.Commands, 1)

	// Edit re-tags the kind.
	w = doRequest(t, h, http.MethodPut, "/api/commands/hello", sess.Token, map[string]any{
		"code": `return "now a script";`,
	})
	require.Equal(t, http.StatusOK, w.Code)
	var edited customcmd.Definition
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &edited))
	assert.Equal(t, customcmd.KindCode, edited.Kind)
	assert.Empty(t, edited.Response)

	// Delete.
	w = doRequest(t, h, http.MethodDelete, "/api/commands/hello", sess.Token, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = doRequest(t, h, http.MethodDelete, "/api/commands/hello", sess.Token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDashboardBuiltinsList(t *testing.T) {
	t.Parallel()

	h, sessions := newTestServer(t)
	sess := sessions.Create("g1", "u1")

	w := doRequest(t, h, http.MethodGet, "/api/builtins", sess.Token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Builtins []struct {
			Name  string `json:"name"`
			Label string `json:"label"`
		} `json:"builtins"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Builtins)
	for _, b := range resp.Builtins {
		assert.NotEmpty(t, b.Name)
		assert.NotEmpty(t, b.Label)
	}
}

func TestDashboardValidationError(t *testing.T) {
	t.Parallel()

	h, sessions := newTestServer(t)
	sess := sessions.Create("g1", "u1")

	w := doRequest(t, h, http.MethodPost, "/api/commands", sess.Token, customcmd.Candidate{
		Trigger: "",
		Kind:    customcmd.KindText,
	})
	require.Equal(t, http.StatusBadRequest, w.Code)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "trigger", resp["field"])
}

func TestDashboardAmbiguousEditRejected(t *testing.T) {
	t.Parallel()

	h, sessions := newTestServer(t)
	sess := sessions.Create("g1", "u1")

	w := doRequest(t, h, http.MethodPost, "/api/commands", sess.Token, customcmd.Candidate{
		Trigger:  "hello",
		Kind:     customcmd.KindText,
		Response: "hi",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	w = doRequest(t, h, http.MethodPut, "/api/commands/hello", sess.Token, map[string]any{
		"response":      "text",
		"function_name": "getJoke",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDashboardTestEndpoint(t *testing.T) {
	t.Parallel()

	h, sessions := newTestServer(t)
	sess := sessions.Create("g1", "u1")

	w := doRequest(t, h, http.MethodPost, "/api/test", sess.Token, customcmd.Candidate{
		Kind:     customcmd.KindText,
		Response: "welcome to {server}",
	})
	require.Equal(t, http.StatusOK, w.Code)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "welcome to Test Server", resp["output"])
}

func TestDashboardGuildScopedByToken(t *testing.T) {
	t.Parallel()

	h, sessions := newTestServer(t)
	sessA := sessions.Create("guildA", "u1")
	sessB := sessions.Create("guildB", "u2")

	w := doRequest(t, h, http.MethodPost, "/api/commands", sessA.Token, customcmd.Candidate{
		Trigger:  "hello",
		Kind:     customcmd.KindText,
		Response: "hi",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	// guildB's token does not see guildA's command.
	w = doRequest(t, h, http.MethodGet, "/api/commands", sessB.Token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var listResp struct {
		Commands []customcmd.Definition `json:"commands"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &listResp))
	assert.Empty(t, listResp.Commands)
}
