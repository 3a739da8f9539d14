package handler_test

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sakif/student-records/internal/model"
)

func registerUser(t *testing.T, api http.Handler, username string, role model.Role) {
	t.Helper()
	rr, _ := doRequest(t, api, http.MethodPost, "/api/auth/register", tokenFor(t, model.RoleAdmin), map[string]any{
		"username":  username,
		"email":     username + "@x.edu",
		"password":  "password123",
		"firstName": "Staff",
		"lastName":  "Member",
		"role":      string(role),
	})
	require.Equal(t, http.StatusCreated, rr.Code, "body: %s", rr.Body.String())
}

func TestRegisterAndLogin(t *testing.T) {
	api := newTestAPI(t)
	registerUser(t, api, "prof", model.RoleFaculty)

	rr, env := doRequest(t, api, http.MethodPost, "/api/auth/login", "", map[string]any{
		"username": "prof",
		"password": "password123",
	})
	require.Equal(t, http.StatusOK, rr.Code, "body: %s", rr.Body.String())
	assert.Equal(t, "Login successful", env.Message)

	var data struct {
		Token string     `json:"token"`
		User  model.User `json:"user"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &data))
	require.NotEmpty(t, data.Token)
	assert.Equal(t, model.RoleFaculty, data.User.Role)

	// The hash never appears anywhere in a response.
	assert.NotContains(t, rr.Body.String(), "$2")

	// The issued token actually works against a protected route.
	rr, _ = doRequest(t, api, http.MethodGet, "/api/students", data.Token, nil)
	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestLogin_WrongPassword(t *testing.T) {
	api := newTestAPI(t)
	registerUser(t, api, "prof", model.RoleFaculty)

	rr, env := doRequest(t, api, http.MethodPost, "/api/auth/login", "", map[string]any{
		"username": "prof",
		"password": "wrong",
	})
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.Equal(t, "Invalid credentials", env.Message)
}

func TestRegister_FacultyForbidden(t *testing.T) {
	api := newTestAPI(t)

	rr, _ := doRequest(t, api, http.MethodPost, "/api/auth/register", tokenFor(t, model.RoleFaculty), map[string]any{
		"username": "new", "email": "new@x.edu", "password": "password123",
		"firstName": "New", "lastName": "User",
	})
	assert.Equal(t, http.StatusForbidden, rr.Code)
}

func TestProfile(t *testing.T) {
	api := newTestAPI(t)
	registerUser(t, api, "prof", model.RoleFaculty)

	// Log in to get a token whose subject is a real stored user.
	_, env := doRequest(t, api, http.MethodPost, "/api/auth/login", "", map[string]any{
		"username": "prof", "password": "password123",
	})
	var login struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &login))

	rr, env := doRequest(t, api, http.MethodGet, "/api/auth/profile", login.Token, nil)
	require.Equal(t, http.StatusOK, rr.Code)

	var data struct {
		User model.User `json:"user"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &data))
	assert.Equal(t, "prof", data.User.Username)

	// Update name and email through the same route.
	rr, env = doRequest(t, api, http.MethodPut, "/api/auth/profile", login.Token, map[string]any{
		"firstName": "Updated", "lastName": "Member", "email": "updated@x.edu",
	})
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "Profile updated successfully", env.Message)
	require.NoError(t, json.Unmarshal(env.Data, &data))
	assert.Equal(t, "Updated", data.User.FirstName)
}

func TestUsers_AdminOnlyRoute(t *testing.T) {
	api := newTestAPI(t)
	registerUser(t, api, "prof", model.RoleFaculty)

	rr, _ := doRequest(t, api, http.MethodGet, "/api/auth/users", tokenFor(t, model.RoleFaculty), nil)
	assert.Equal(t, http.StatusForbidden, rr.Code)

	rr, env := doRequest(t, api, http.MethodGet, "/api/auth/users", tokenFor(t, model.RoleAdmin), nil)
	require.Equal(t, http.StatusOK, rr.Code)

	var data struct {
		Users []model.User `json:"users"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &data))
	assert.Len(t, data.Users, 1)
}
