package httpserver

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"mitmail/internal/handler"
	"mitmail/internal/service/identity"
	"mitmail/internal/service/messaging"
	"mitmail/internal/store/filestore"
)

func newTestRouter(t *testing.T) *Router {
	gin.SetMode(gin.TestMode)

	st, err := filestore.Open(t.TempDir(), zap.NewNop())
	require.NoError(t, err)

	identityService := identity.NewService(st, nil, zap.NewNop())
	messagingService := messaging.NewService(st, nil, zap.NewNop())

	return NewRouter(
		handler.NewUserHandler(identityService),
		handler.NewPersonHandler(identityService, messagingService),
		handler.NewMessageHandler(messagingService),
		identityService,
		st,
		nil,
	)
}

func doJSON(t *testing.T, r *Router, method, path string, body any, creds ...string) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if len(creds) == 2 {
		req.Header.Set("email", creds[0])
		req.Header.Set("password", creds[1])
	}
	w := httptest.NewRecorder()
	r.Engine.ServeHTTP(w, req)
	return w
}

func createUser(t *testing.T, r *Router, email, password, handle string) {
	w := doJSON(t, r, http.MethodPost, "/users", gin.H{
		"email":          email,
		"password":       password,
		"account_type":   "personal",
		"email_purpose":  "standard",
		"mitid_username": handle,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
}

func decodeList(t *testing.T, w *httptest.ResponseRecorder) []map[string]any {
	var list []map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	return list
}

func TestHealthEndpoints(t *testing.T) {
	r := newTestRouter(t)

	assert.Equal(t, http.StatusOK, doJSON(t, r, http.MethodGet, "/healthz", nil).Code)
	assert.Equal(t, http.StatusOK, doJSON(t, r, http.MethodGet, "/readyz", nil).Code)
	assert.Equal(t, http.StatusOK, doJSON(t, r, http.MethodGet, "/metrics", nil).Code)
}

func TestUserLifecycle(t *testing.T) {
	r := newTestRouter(t)

	createUser(t, r, "a@x.com", "pw-a", "H1")

	// duplicate registration is a 400, never an overwrite
	w := doJSON(t, r, http.MethodPost, "/users", gin.H{
		"email":          "a@x.com",
		"password":       "other",
		"account_type":   "company",
		"email_purpose":  "marketing",
		"mitid_username": "H2",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// no credentials
	assert.Equal(t, http.StatusUnauthorized, doJSON(t, r, http.MethodGet, "/users", nil).Code)
	// wrong password
	assert.Equal(t, http.StatusUnauthorized, doJSON(t, r, http.MethodGet, "/users", nil, "a@x.com", "wrong").Code)

	w = doJSON(t, r, http.MethodGet, "/users", nil, "a@x.com", "pw-a")
	require.Equal(t, http.StatusOK, w.Code)
	var u map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &u))
	assert.Equal(t, "a@x.com", u["email"])
	assert.Equal(t, "H1", u["mitid_username"])
	assert.NotContains(t, u, "password_hash")
	assert.NotContains(t, u, "password")

	// delete own account, then credentials stop working
	assert.Equal(t, http.StatusOK, doJSON(t, r, http.MethodDelete, "/users", nil, "a@x.com", "pw-a").Code)
	assert.Equal(t, http.StatusUnauthorized, doJSON(t, r, http.MethodGet, "/users", nil, "a@x.com", "pw-a").Code)
}

func TestPersonEndpoints(t *testing.T) {
	r := newTestRouter(t)

	assert.Equal(t, http.StatusNotFound, doJSON(t, r, http.MethodGet, "/people/H1", nil).Code)

	w := doJSON(t, r, http.MethodPost, "/people", gin.H{
		"mitid_username": "H1",
		"user_emails":    []string{"x@y.com"},
	})
	require.Equal(t, http.StatusOK, w.Code)

	createUser(t, r, "a@x.com", "pw-a", "H1")
	createUser(t, r, "b@x.com", "pw-b", "H1")

	w = doJSON(t, r, http.MethodGet, "/people/H1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var p struct {
		MitIDUsername string   `json:"mitid_username"`
		UserEmails    []string `json:"user_emails"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &p))
	assert.Equal(t, "H1", p.MitIDUsername)
	assert.Equal(t, []string{"x@y.com", "a@x.com", "b@x.com"}, p.UserEmails)
}

// The end-to-end scenario: two accounts under one handle, a message sent,
// listed, deleted by its sender, and gone for both sides.
func TestMessagingScenario(t *testing.T) {
	r := newTestRouter(t)

	createUser(t, r, "a@x.com", "pw-a", "H1")
	createUser(t, r, "b@x.com", "pw-b", "H1")

	w := doJSON(t, r, http.MethodGet, "/people/H1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var p struct {
		UserEmails []string `json:"user_emails"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &p))
	assert.Equal(t, []string{"a@x.com", "b@x.com"}, p.UserEmails)

	// sending as someone else is forbidden
	w = doJSON(t, r, http.MethodPost, "/emails", gin.H{
		"text":           "spoof",
		"sender_email":   "b@x.com",
		"receiver_email": "a@x.com",
	}, "a@x.com", "pw-a")
	assert.Equal(t, http.StatusForbidden, w.Code)

	// A sends to B
	w = doJSON(t, r, http.MethodPost, "/emails", gin.H{
		"text":           "hello b",
		"sender_email":   "a@x.com",
		"receiver_email": "b@x.com",
	}, "a@x.com", "pw-a")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	// B sees it with the sender's tag and handle stamped
	w = doJSON(t, r, http.MethodGet, "/emails", nil, "b@x.com", "pw-b")
	require.Equal(t, http.StatusOK, w.Code)
	inbox := decodeList(t, w)
	require.Len(t, inbox, 1)
	assert.Equal(t, "hello b", inbox[0]["text"])
	assert.Equal(t, "standard", inbox[0]["email_tag"])
	assert.Equal(t, "H1", inbox[0]["mitid_username"])
	id := inbox[0]["id"].(string)

	// unauthenticated listing by handle sees it too
	w = doJSON(t, r, http.MethodGet, "/people/H1/emails", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decodeList(t, w), 1)

	// a third party may not delete it
	createUser(t, r, "c@x.com", "pw-c", "H3")
	assert.Equal(t, http.StatusForbidden, doJSON(t, r, http.MethodDelete, "/emails/"+id, nil, "c@x.com", "pw-c").Code)

	// the sender deletes it, both mailboxes are empty
	assert.Equal(t, http.StatusOK, doJSON(t, r, http.MethodDelete, "/emails/"+id, nil, "a@x.com", "pw-a").Code)
	assert.Empty(t, decodeList(t, doJSON(t, r, http.MethodGet, "/emails", nil, "a@x.com", "pw-a")))
	assert.Empty(t, decodeList(t, doJSON(t, r, http.MethodGet, "/emails", nil, "b@x.com", "pw-b")))

	// deleting again is a 404
	assert.Equal(t, http.StatusNotFound, doJSON(t, r, http.MethodDelete, "/emails/"+id, nil, "a@x.com", "pw-a").Code)
}

func TestMessagingRequiresAuth(t *testing.T) {
	r := newTestRouter(t)

	assert.Equal(t, http.StatusUnauthorized, doJSON(t, r, http.MethodGet, "/emails", nil).Code)
	assert.Equal(t, http.StatusUnauthorized, doJSON(t, r, http.MethodPost, "/emails", gin.H{"text": "x"}).Code)
	assert.Equal(t, http.StatusUnauthorized, doJSON(t, r, http.MethodDelete, "/emails/some-id", nil).Code)
}
