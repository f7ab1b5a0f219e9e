package api

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"survilav/entity"
	"survilav/impl/core"
	"survilav/internal/invites"
	"survilav/internal/requests"
	"survilav/internal/storage"
	"survilav/lib/api/response"
)

const testAdminKey = "test-admin-key"

func newTestRouter(t *testing.T) chi.Router {
	t.Helper()
	dir := t.TempDir()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	requestStore := storage.New[entity.Request](filepath.Join(dir, "user_request.json"), log)
	inviteStore := storage.New[entity.Invite](filepath.Join(dir, "invites.json"), log)
	handler := core.New(requests.New(requestStore, log), invites.New(inviteStore, log), testAdminKey, log)

	return Router(log, handler)
}

func doJSON(t *testing.T, router chi.Router, method, target, body string, header map[string]string) (*httptest.ResponseRecorder, response.Response) {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range header {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	var resp response.Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return rec, resp
}

func adminHeader() map[string]string {
	return map[string]string{"X-API-Key": testAdminKey}
}

func TestPing(t *testing.T) {
	router := newTestRouter(t)

	rec, resp := doJSON(t, router, http.MethodGet, "/api/ping", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, resp.Success)
}

func TestSubmitRequest(t *testing.T) {
	router := newTestRouter(t)

	rec, resp := doJSON(t, router, http.MethodPost, "/api/request",
		`{"nickname":"alice","about":"hi"}`, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, resp.Success)
}

func TestSubmitRequestValidation(t *testing.T) {
	router := newTestRouter(t)

	rec, resp := doJSON(t, router, http.MethodPost, "/api/request", `{"about":"no names"}`, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.False(t, resp.Success)
}

func TestSubmitRequestDuplicateIdentity(t *testing.T) {
	router := newTestRouter(t)

	rec, _ := doJSON(t, router, http.MethodPost, "/api/request", `{"nickname":"alice"}`, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	// same RemoteAddr, so same client identity
	rec, resp := doJSON(t, router, http.MethodPost, "/api/request", `{"nickname":"bob"}`, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.False(t, resp.Success)
}

func TestSubmitRequestDifferentIdentities(t *testing.T) {
	router := newTestRouter(t)

	rec, _ := doJSON(t, router, http.MethodPost, "/api/request", `{"nickname":"alice"}`, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec, _ = doJSON(t, router, http.MethodPost, "/api/request", `{"nickname":"bob"}`,
		map[string]string{"X-Forwarded-For": "203.0.113.7"})
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestCancelRequest(t *testing.T) {
	router := newTestRouter(t)

	rec, _ := doJSON(t, router, http.MethodPost, "/api/request", `{"nickname":"alice"}`, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec, resp := doJSON(t, router, http.MethodPost, "/api/cancel?nickname=alice", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, resp.Success)

	rec, _ = doJSON(t, router, http.MethodPost, "/api/cancel?nickname=alice", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestInviteCreateRequiresKey(t *testing.T) {
	router := newTestRouter(t)

	rec, resp := doJSON(t, router, http.MethodPost, "/api/invite/create", `{"code":"ABC123"}`, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.False(t, resp.Success)

	rec, _ = doJSON(t, router, http.MethodPost, "/api/invite/create", `{"code":"ABC123"}`,
		map[string]string{"X-API-Key": "wrong"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestInviteCreateWithHeaderKey(t *testing.T) {
	router := newTestRouter(t)

	rec, resp := doJSON(t, router, http.MethodPost, "/api/invite/create",
		`{"code":"ABC123","max_uses":2}`, adminHeader())
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, resp.Success)

	rec, _ = doJSON(t, router, http.MethodPost, "/api/invite/create", `{"code":"ABC123"}`, adminHeader())
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestInviteCreateWithQueryKey(t *testing.T) {
	router := newTestRouter(t)

	rec, resp := doJSON(t, router, http.MethodPost, "/api/invite/create?api_key="+testAdminKey,
		`{"code":"QUERY1"}`, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, resp.Success)
}

func TestInviteValidate(t *testing.T) {
	router := newTestRouter(t)

	rec, _ := doJSON(t, router, http.MethodGet, "/api/invite/validate?code=NOPE", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec, _ = doJSON(t, router, http.MethodPost, "/api/invite/create", `{"code":"LIVE"}`, adminHeader())
	require.Equal(t, http.StatusOK, rec.Code)

	rec, resp := doJSON(t, router, http.MethodGet, "/api/invite/validate?code=LIVE", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	require.True(t, resp.Success)

	data, ok := resp.Data.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, float64(0), data["uses"])
}

func TestInviteValidateExhausted(t *testing.T) {
	router := newTestRouter(t)

	rec, _ := doJSON(t, router, http.MethodPost, "/api/invite/create", `{"code":"ONCE"}`, adminHeader())
	require.Equal(t, http.StatusOK, rec.Code)

	rec, _ = doJSON(t, router, http.MethodPost, "/api/request",
		`{"nickname":"alice","invite":"ONCE"}`, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec, _ = doJSON(t, router, http.MethodGet, "/api/invite/validate?code=ONCE", "", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestInviteDelete(t *testing.T) {
	router := newTestRouter(t)

	rec, _ := doJSON(t, router, http.MethodPost, "/api/invite/create", `{"code":"TEMP"}`, adminHeader())
	require.Equal(t, http.StatusOK, rec.Code)

	rec, resp := doJSON(t, router, http.MethodPost, "/api/invite/delete?code=TEMP", "", adminHeader())
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, resp.Success)

	rec, _ = doJSON(t, router, http.MethodPost, "/api/invite/delete?code=TEMP", "", adminHeader())
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestInviteList(t *testing.T) {
	router := newTestRouter(t)

	rec, _ := doJSON(t, router, http.MethodGet, "/api/invite/list", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec, _ = doJSON(t, router, http.MethodPost, "/api/invite/create", `{"code":"L1"}`, adminHeader())
	require.Equal(t, http.StatusOK, rec.Code)

	rec, resp := doJSON(t, router, http.MethodGet, "/api/invite/list", "", adminHeader())
	assert.Equal(t, http.StatusOK, rec.Code)
	require.True(t, resp.Success)

	list, ok := resp.Data.([]interface{})
	require.True(t, ok)
	assert.Len(t, list, 1)
}

func TestRequestList(t *testing.T) {
	router := newTestRouter(t)

	rec, _ := doJSON(t, router, http.MethodPost, "/api/request", `{"nickname":"alice"}`, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec, resp := doJSON(t, router, http.MethodGet, "/api/request/list", "", adminHeader())
	assert.Equal(t, http.StatusOK, rec.Code)
	require.True(t, resp.Success)

	list, ok := resp.Data.([]interface{})
	require.True(t, ok)
	require.Len(t, list, 1)

	first, ok := list[0].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "alice", first["nickname"])
}

func TestUnknownRoute(t *testing.T) {
	router := newTestRouter(t)

	rec, resp := doJSON(t, router, http.MethodGet, "/api/nope", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.False(t, resp.Success)
}
