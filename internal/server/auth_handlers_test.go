package server

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gloryharbor/internal/models"
)

func registerBody(email string) map[string]string {
	return map[string]string{
		"email":      email,
		"password":   testPassword,
		"first_name": "Ada",
		"last_name":  "Eze",
	}
}

func TestRegister(t *testing.T) {
	_, app, _ := setupTestServer(t)

	t.Run("member needs no code", func(t *testing.T) {
		resp, err := app.Test(jsonRequest(t, http.MethodPost, "/api/auth/register", registerBody("ada@gloryharbor.dev"), ""), -1)
		require.NoError(t, err)
		require.Equal(t, http.StatusCreated, resp.StatusCode)

		var body AuthResponse
		decodeBody(t, resp, &body)
		assert.NotEmpty(t, body.Token)
		assert.Equal(t, models.RoleMember, body.User.Role)
		assert.Equal(t, "ada@gloryharbor.dev", body.User.Email)
	})

	t.Run("leader with valid code", func(t *testing.T) {
		body := registerBody("leader@gloryharbor.dev")
		body["role"] = "leader"
		body["signup_code"] = testLeaderCode

		resp, err := app.Test(jsonRequest(t, http.MethodPost, "/api/auth/register", body, ""), -1)
		require.NoError(t, err)
		require.Equal(t, http.StatusCreated, resp.StatusCode)

		var auth AuthResponse
		decodeBody(t, resp, &auth)
		assert.Equal(t, models.RoleLeader, auth.User.Role)
	})

	t.Run("pastor code on leader role is rejected", func(t *testing.T) {
		body := registerBody("impostor@gloryharbor.dev")
		body["role"] = "leader"
		body["signup_code"] = testPastorCode

		resp, err := app.Test(jsonRequest(t, http.MethodPost, "/api/auth/register", body, ""), -1)
		require.NoError(t, err)
		assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	})

	t.Run("elevated role without code", func(t *testing.T) {
		body := registerBody("nocode@gloryharbor.dev")
		body["role"] = "pastor"

		resp, err := app.Test(jsonRequest(t, http.MethodPost, "/api/auth/register", body, ""), -1)
		require.NoError(t, err)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("duplicate email", func(t *testing.T) {
		first, err := app.Test(jsonRequest(t, http.MethodPost, "/api/auth/register", registerBody("dup@gloryharbor.dev"), ""), -1)
		require.NoError(t, err)
		require.Equal(t, http.StatusCreated, first.StatusCode)

		second, err := app.Test(jsonRequest(t, http.MethodPost, "/api/auth/register", registerBody("dup@gloryharbor.dev"), ""), -1)
		require.NoError(t, err)
		assert.Equal(t, http.StatusConflict, second.StatusCode)
	})

	t.Run("weak password", func(t *testing.T) {
		body := registerBody("weak@gloryharbor.dev")
		body["password"] = "short"

		resp, err := app.Test(jsonRequest(t, http.MethodPost, "/api/auth/register", body, ""), -1)
		require.NoError(t, err)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})
}

func TestLogin(t *testing.T) {
	srv, app, db := setupTestServer(t)
	user, _ := createTestUser(t, srv, db, "member@gloryharbor.dev", models.RoleMember)

	t.Run("happy path", func(t *testing.T) {
		resp, err := app.Test(jsonRequest(t, http.MethodPost, "/api/auth/login", map[string]string{
			"email":    user.Email,
			"password": testPassword,
		}, ""), -1)
		require.NoError(t, err)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var auth AuthResponse
		decodeBody(t, resp, &auth)
		assert.NotEmpty(t, auth.Token)
		assert.Equal(t, user.ID, auth.User.ID)
	})

	t.Run("email is case-insensitive", func(t *testing.T) {
		resp, err := app.Test(jsonRequest(t, http.MethodPost, "/api/auth/login", map[string]string{
			"email":    "MEMBER@gloryharbor.dev",
			"password": testPassword,
		}, ""), -1)
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})

	t.Run("wrong password", func(t *testing.T) {
		resp, err := app.Test(jsonRequest(t, http.MethodPost, "/api/auth/login", map[string]string{
			"email":    user.Email,
			"password": "Wrong!Password99",
		}, ""), -1)
		require.NoError(t, err)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("unknown email", func(t *testing.T) {
		resp, err := app.Test(jsonRequest(t, http.MethodPost, "/api/auth/login", map[string]string{
			"email":    "ghost@gloryharbor.dev",
			"password": testPassword,
		}, ""), -1)
		require.NoError(t, err)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("inactive account", func(t *testing.T) {
		inactive, _ := createTestUser(t, srv, db, "inactive@gloryharbor.dev", models.RoleMember)
		require.NoError(t, db.Model(inactive).Update("status", models.UserStatusInactive).Error)

		resp, err := app.Test(jsonRequest(t, http.MethodPost, "/api/auth/login", map[string]string{
			"email":    inactive.Email,
			"password": testPassword,
		}, ""), -1)
		require.NoError(t, err)
		assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	})
}

func TestGetCurrentUser(t *testing.T) {
	srv, app, db := setupTestServer(t)
	user, token := createTestUser(t, srv, db, "me@gloryharbor.dev", models.RoleLeader)

	resp, err := app.Test(jsonRequest(t, http.MethodGet, "/api/auth/me", nil, token), -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var got models.User
	decodeBody(t, resp, &got)
	assert.Equal(t, user.ID, got.ID)
	assert.Equal(t, models.RoleLeader, got.Role)

	// The password hash never leaves the API.
	assert.Empty(t, got.Password)

	unauthorized, err := app.Test(jsonRequest(t, http.MethodGet, "/api/auth/me", nil, ""), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, unauthorized.StatusCode)
}

func TestLogout(t *testing.T) {
	srv, app, db := setupTestServer(t)
	_, token := createTestUser(t, srv, db, "out@gloryharbor.dev", models.RoleMember)

	resp, err := app.Test(jsonRequest(t, http.MethodPost, "/api/auth/logout", nil, token), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
