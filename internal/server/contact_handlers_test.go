package server

import (
	"net/http"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gloryharbor/internal/models"
	"gloryharbor/internal/service"
)

func submitTestContact(t *testing.T, app *fiber.App, subject string) *models.Contact {
	t.Helper()

	resp, err := app.Test(jsonRequest(t, http.MethodPost, "/api/contact", map[string]string{
		"name":    "Tunde Bakare",
		"email":   "tunde@example.com",
		"subject": subject,
		"message": "Please pray for my family this week.",
	}, ""), -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var contact models.Contact
	decodeBody(t, resp, &contact)
	return &contact
}

func TestSubmitContactEndpoint(t *testing.T) {
	_, app, _ := setupTestServer(t)

	contact := submitTestContact(t, app, "Prayer request")
	assert.Equal(t, models.ContactStatusNew, contact.Status)
	assert.Equal(t, "tunde@example.com", contact.Email)

	invalid, err := app.Test(jsonRequest(t, http.MethodPost, "/api/contact", map[string]string{
		"name": "No Subject",
	}, ""), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, invalid.StatusCode)
}

func TestListContactsStaffOnly(t *testing.T) {
	srv, app, db := setupTestServer(t)
	_, memberToken := createTestUser(t, srv, db, "member@gloryharbor.dev", models.RoleMember)
	_, leaderToken := createTestUser(t, srv, db, "leader@gloryharbor.dev", models.RoleLeader)

	submitTestContact(t, app, "First")
	submitTestContact(t, app, "Second")

	anonymous, err := app.Test(jsonRequest(t, http.MethodGet, "/api/contact/", nil, ""), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, anonymous.StatusCode)

	forbidden, err := app.Test(jsonRequest(t, http.MethodGet, "/api/contact/", nil, memberToken), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusForbidden, forbidden.StatusCode)

	resp, err := app.Test(jsonRequest(t, http.MethodGet, "/api/contact/", nil, leaderToken), -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var result service.ContactListResult
	decodeBody(t, resp, &result)
	require.EqualValues(t, 2, result.Total)
	// Newest first.
	assert.Equal(t, "Second", result.Contacts[0].Subject)
}

func TestContactStatusWorkflow(t *testing.T) {
	srv, app, db := setupTestServer(t)
	leader, leaderToken := createTestUser(t, srv, db, "leader@gloryharbor.dev", models.RoleLeader)

	contact := submitTestContact(t, app, "Visit request")
	id := itoa(contact.ID)

	read, err := app.Test(jsonRequest(t, http.MethodPatch, "/api/contact/"+id+"/status", map[string]string{
		"status": "read",
	}, leaderToken), -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, read.StatusCode)

	var updated models.Contact
	decodeBody(t, read, &updated)
	assert.Equal(t, models.ContactStatusRead, updated.Status)
	assert.Nil(t, updated.RespondedBy)

	responded, err := app.Test(jsonRequest(t, http.MethodPatch, "/api/contact/"+id+"/status", map[string]string{
		"status": "responded",
	}, leaderToken), -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, responded.StatusCode)
	decodeBody(t, responded, &updated)
	assert.Equal(t, models.ContactStatusResponded, updated.Status)
	require.NotNil(t, updated.RespondedBy)
	assert.Equal(t, leader.ID, *updated.RespondedBy)
	assert.NotNil(t, updated.RespondedAt)

	invalid, err := app.Test(jsonRequest(t, http.MethodPatch, "/api/contact/"+id+"/status", map[string]string{
		"status": "spam",
	}, leaderToken), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, invalid.StatusCode)
}

func TestDeleteContactEndpoint(t *testing.T) {
	srv, app, db := setupTestServer(t)
	_, leaderToken := createTestUser(t, srv, db, "leader@gloryharbor.dev", models.RoleLeader)

	contact := submitTestContact(t, app, "To be removed")

	resp, err := app.Test(jsonRequest(t, http.MethodDelete, "/api/contact/"+itoa(contact.ID), nil, leaderToken), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	missing, err := app.Test(jsonRequest(t, http.MethodGet, "/api/contact/"+itoa(contact.ID), nil, leaderToken), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, missing.StatusCode)
}
