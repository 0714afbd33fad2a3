package handlers

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterValidation(t *testing.T) {
	s := newTestServer(t)

	var out msgBody
	status := s.do(t, http.MethodPost, "/api/users", "", map[string]any{
		"email":    "not-an-email",
		"password": "123",
	}, &out)

	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, []string{
		"Name is required",
		"Please include a valid email",
		"Please enter a valid password with min of 6 chars",
	}, out.errorMessages())
	assert.Equal(t, 0, s.users.Count())
}

func TestRegisterDuplicateEmail(t *testing.T) {
	s := newTestServer(t)
	s.register(t, "Ann", "ann@example.com")

	var out msgBody
	status := s.do(t, http.MethodPost, "/api/users", "", map[string]any{
		"name":     "Ann Again",
		"email":    "ann@example.com",
		"password": "secret2",
	}, &out)

	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, []string{"User already exist"}, out.errorMessages())
	assert.Equal(t, 1, s.users.Count())
}

func TestRegisterMalformedBody(t *testing.T) {
	s := newTestServer(t)

	var out msgBody
	status := s.do(t, http.MethodPost, "/api/users", "", "just a string", &out)

	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, []string{"Invalid request body"}, out.errorMessages())
}

func TestLoginAndMe(t *testing.T) {
	s := newTestServer(t)
	_, user := s.register(t, "Ann", "ann@example.com")

	var wrongPassword, unknownEmail msgBody
	status := s.do(t, http.MethodPost, "/api/auth", "", map[string]any{
		"email": "ann@example.com", "password": "nope",
	}, &wrongPassword)
	assert.Equal(t, http.StatusBadRequest, status)

	status = s.do(t, http.MethodPost, "/api/auth", "", map[string]any{
		"email": "bob@example.com", "password": "secret1",
	}, &unknownEmail)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, wrongPassword, unknownEmail)
	assert.Equal(t, []string{"Please check user and password"}, wrongPassword.errorMessages())

	var login map[string]string
	status = s.do(t, http.MethodPost, "/api/auth", "", map[string]any{
		"email": "ann@example.com", "password": "secret1",
	}, &login)
	require.Equal(t, http.StatusOK, status)

	var me map[string]any
	status = s.do(t, http.MethodGet, "/api/auth", login["token"], nil, &me)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, user.ID.Hex(), me["_id"])
	assert.Equal(t, "Ann", me["name"])
	assert.NotContains(t, me, "password")
}

func TestLoginValidation(t *testing.T) {
	s := newTestServer(t)

	var out msgBody
	status := s.do(t, http.MethodPost, "/api/auth", "", map[string]any{}, &out)

	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, []string{"Please include a valid email", "Please enter a password"}, out.errorMessages())
}

func TestMeRequiresToken(t *testing.T) {
	s := newTestServer(t)

	var out msgBody
	status := s.do(t, http.MethodGet, "/api/auth", "", nil, &out)

	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "No token, authorization denied", out.Msg)
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)

	var out map[string]string
	status := s.do(t, http.MethodGet, "/health", "", nil, &out)

	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "healthy", out["status"])
}

func TestRegisterRejectsNonStringName(t *testing.T) {
	s := newTestServer(t)

	var out msgBody
	status := s.do(t, http.MethodPost, "/api/users", "", map[string]any{
		"name":     true,
		"email":    "ann@example.com",
		"password": "secret1",
	}, &out)

	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, []string{"Name is required"}, out.errorMessages())
	assert.Equal(t, 0, s.users.Count())
}
