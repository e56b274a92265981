package controllers

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterThenLogin(t *testing.T) {
	env := newTestEnv(t)

	resp := env.request(t, "POST", "/api/auth/register", "",
		map[string]interface{}{"name": "alice", "email": "alice@example.com", "password": "secret123"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body := decodeMap(t, resp)
	require.NotEmpty(t, body["token"])
	registeredUser := body["user"].(map[string]interface{})
	assert.Equal(t, "alice", registeredUser["name"])

	// Auto-login: the register token works right away.
	resp = env.request(t, "GET", "/api/user/profile", body["token"].(string), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "alice@example.com", decodeMap(t, resp)["email"])

	resp = env.request(t, "POST", "/api/auth/login", "",
		map[string]interface{}{"email": "alice@example.com", "password": "secret123"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, decodeMap(t, resp)["token"])
}

func TestRegisterRejectsDuplicateEmail(t *testing.T) {
	env := newTestEnv(t)
	env.createUser(t, "alice", "alice@example.com", "secret123")

	resp := env.request(t, "POST", "/api/auth/register", "",
		map[string]interface{}{"name": "other", "email": "alice@example.com", "password": "secret123"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "email_taken", decodeMap(t, resp)["error"])
}

func TestRegisterValidation(t *testing.T) {
	env := newTestEnv(t)

	resp := env.request(t, "POST", "/api/auth/register", "",
		map[string]interface{}{"name": "x", "email": "not-an-email", "password": "secret123"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = env.request(t, "POST", "/api/auth/register", "",
		map[string]interface{}{"name": "x", "email": "x@example.com", "password": "short"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	env := newTestEnv(t)
	env.createUser(t, "alice", "alice@example.com", "secret123")

	resp := env.request(t, "POST", "/api/auth/login", "",
		map[string]interface{}{"email": "alice@example.com", "password": "wrongpass"})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "invalid_credentials", decodeMap(t, resp)["error"])

	// Unknown account looks identical to a wrong password.
	resp = env.request(t, "POST", "/api/auth/login", "",
		map[string]interface{}{"email": "nobody@example.com", "password": "whatever1"})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "invalid_credentials", decodeMap(t, resp)["error"])
}
