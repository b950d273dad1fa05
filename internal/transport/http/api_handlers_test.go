package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func postJSON(t *testing.T, ts *httptest.Server, path string, body any) *http.Response {
	t.Helper()

	payload, err := json.Marshal(body)
	require.NoError(t, err)

	resp, err := ts.Client().Post(ts.URL+path, "application/json", bytes.NewReader(payload))
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()

	var out T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func TestRegisterLoginAndMe(t *testing.T) {
	ts := startTestServer(t)

	resp := postJSON(t, ts, "/api/register", RegisterRequest{
		Username: "alice",
		Password: "password123",
		Name:     "Alice",
		Email:    "alice@example.com",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	registered := decode[AuthResponse](t, resp)
	assert.NotEmpty(t, registered.Token)

	resp = postJSON(t, ts, "/api/login", LoginRequest{Username: "alice", Password: "password123"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	logged := decode[AuthResponse](t, resp)
	require.NotEmpty(t, logged.Token)

	req, err := http.NewRequest(http.MethodGet, ts.URL+"/api/me", nil)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+logged.Token)
	meResp, err := ts.Client().Do(req)
	require.NoError(t, err)
	defer meResp.Body.Close()
	require.Equal(t, http.StatusOK, meResp.StatusCode)
	me := decode[MeResponse](t, meResp)
	assert.Equal(t, "alice", me.Username)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	ts := startTestServer(t)

	postJSON(t, ts, "/api/register", RegisterRequest{
		Username: "alice",
		Password: "password123",
		Email:    "alice@example.com",
	})

	resp := postJSON(t, ts, "/api/login", LoginRequest{Username: "alice", Password: "nope"})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestRegisterConflicts(t *testing.T) {
	ts := startTestServer(t)

	resp := postJSON(t, ts, "/api/register", RegisterRequest{
		Username: "alice",
		Password: "password123",
		Email:    "alice@example.com",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = postJSON(t, ts, "/api/register", RegisterRequest{
		Username: "alice",
		Password: "password123",
		Email:    "other@example.com",
	})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	resp = postJSON(t, ts, "/api/register", RegisterRequest{
		Username: "alice2",
		Password: "password123",
		Email:    "alice@example.com",
	})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestAvailabilityEndpoints(t *testing.T) {
	ts := startTestServer(t)

	resp, err := ts.Client().Get(ts.URL + "/api/check-username?username=alice")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	avail := decode[AvailabilityResponse](t, resp)
	assert.True(t, avail.Available)

	postJSON(t, ts, "/api/register", RegisterRequest{
		Username: "alice",
		Password: "password123",
		Email:    "alice@example.com",
	})

	resp, err = ts.Client().Get(ts.URL + "/api/check-username?username=alice")
	require.NoError(t, err)
	defer resp.Body.Close()
	avail = decode[AvailabilityResponse](t, resp)
	assert.False(t, avail.Available)

	resp, err = ts.Client().Get(ts.URL + "/api/check-email?email=alice@example.com")
	require.NoError(t, err)
	defer resp.Body.Close()
	avail = decode[AvailabilityResponse](t, resp)
	assert.False(t, avail.Available)

	resp, err = ts.Client().Get(ts.URL + "/api/check-email")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestMeRequiresBearerToken(t *testing.T) {
	ts := startTestServer(t)

	resp, err := ts.Client().Get(ts.URL + "/api/me")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	req, err := http.NewRequest(http.MethodGet, ts.URL+"/api/me", nil)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer garbage")
	resp, err = ts.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}
