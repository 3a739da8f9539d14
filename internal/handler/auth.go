package handler

import (
	"net/http"

	"github.com/sakif/student-records/internal/apperror"
	"github.com/sakif/student-records/internal/auth"
	"github.com/sakif/student-records/internal/service"
)

// AuthHandler exposes staff-account endpoints: login, registration,
// profile management, and the admin user listing.
type AuthHandler struct {
	auth *service.AuthService
}

// NewAuthHandler creates an AuthHandler.
func NewAuthHandler(authSvc *service.AuthService) *AuthHandler {
	return &AuthHandler{auth: authSvc}
}

// Login handles POST /api/auth/login. Public — it's how tokens are minted.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var in service.LoginInput
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, err)
		return
	}

	result, err := h.auth.Login(r.Context(), in)
	if err != nil {
		writeError(w, err)
		return
	}
	writeMessage(w, http.StatusOK, "Login successful", map[string]any{
		"token": result.Token,
		"user":  result.User,
	})
}

// Register handles POST /api/auth/register. Admin only — there is no open
// signup, accounts are provisioned.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var in service.RegisterInput
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, err)
		return
	}

	user, err := h.auth.Register(r.Context(), auth.RoleFromContext(r.Context()), in)
	if err != nil {
		writeError(w, err)
		return
	}
	writeMessage(w, http.StatusCreated, "User registered successfully", map[string]any{"user": user})
}

// Profile handles GET /api/auth/profile — the caller's own account.
func (h *AuthHandler) Profile(w http.ResponseWriter, r *http.Request) {
	ident, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		writeError(w, apperror.Unauthorized("Not authorized to access this route"))
		return
	}

	user, err := h.auth.Profile(r.Context(), ident.UserID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, map[string]any{"user": user})
}

// UpdateProfile handles PUT /api/auth/profile.
func (h *AuthHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	ident, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		writeError(w, apperror.Unauthorized("Not authorized to access this route"))
		return
	}

	var in service.ProfileInput
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, err)
		return
	}

	user, err := h.auth.UpdateProfile(r.Context(), ident.UserID, in)
	if err != nil {
		writeError(w, err)
		return
	}
	writeMessage(w, http.StatusOK, "Profile updated successfully", map[string]any{"user": user})
}

// Users handles GET /api/auth/users. Admin only.
func (h *AuthHandler) Users(w http.ResponseWriter, r *http.Request) {
	users, err := h.auth.Users(r.Context(), auth.RoleFromContext(r.Context()))
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, map[string]any{"users": users})
}
