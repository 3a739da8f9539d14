package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/sakif/student-records/internal/apperror"
	"github.com/sakif/student-records/internal/auth"
	"github.com/sakif/student-records/internal/model"
	"github.com/sakif/student-records/internal/repository"
	"github.com/sakif/student-records/internal/validate"
)

const (
	MinUsernameLength = 3
	MinPasswordLength = 6
)

// AuthService handles staff accounts: login, registration, profiles.
type AuthService struct {
	repo      repository.UserRepository
	passwords *auth.PasswordService
	tokens    *auth.TokenService
	logger    *slog.Logger
}

// NewAuthService creates a new AuthService.
func NewAuthService(repo repository.UserRepository, passwords *auth.PasswordService, tokens *auth.TokenService, logger *slog.Logger) *AuthService {
	return &AuthService{
		repo:      repo,
		passwords: passwords,
		tokens:    tokens,
		logger:    logger,
	}
}

// LoginInput carries credentials. Username accepts either the username or
// the email address.
type LoginInput struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResult is a signed token plus the account it belongs to.
type LoginResult struct {
	Token string      `json:"token"`
	User  *model.User `json:"user"`
}

// RegisterInput is the payload for creating a staff account.
type RegisterInput struct {
	Username  string `json:"username"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Role      string `json:"role"`
}

// ProfileInput is the self-service profile update payload. Password is
// optional — empty means keep the current one.
type ProfileInput struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Password  string `json:"password"`
}

// Login verifies credentials and issues a JWT.
//
// All three failure modes — unknown account, wrong password, deactivated
// account — return the same "Invalid credentials" error, so a caller can't
// probe which usernames exist.
func (s *AuthService) Login(ctx context.Context, in LoginInput) (*LoginResult, error) {
	v := validate.New()
	login := v.Field("username", in.Username).Required("Username is required").Value()
	v.Field("password", in.Password).Required("Password is required")
	if err := v.Err(); err != nil {
		return nil, err
	}

	user, err := s.repo.GetUserByLogin(ctx, login)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return nil, apperror.Unauthorized("Invalid credentials")
		}
		return nil, err
	}

	if err := s.passwords.Verify(user.PasswordHash, in.Password); err != nil {
		s.logger.Warn("failed login attempt", "username", user.Username)
		return nil, apperror.Unauthorized("Invalid credentials")
	}

	if !user.IsActive {
		return nil, apperror.Unauthorized("Invalid credentials")
	}

	token, err := s.tokens.Generate(user.ID, user.Role)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	user.LastLogin = &now
	if err := s.repo.UpdateUser(ctx, user); err != nil {
		// The login itself succeeded; a stale last-login stamp is not worth
		// failing it over.
		s.logger.Warn("updating last login failed", "userId", user.ID, "error", err)
	}

	s.logger.Info("user logged in", "username", user.Username, "role", user.Role)
	return &LoginResult{Token: token, User: user}, nil
}

// Register creates a new staff account. Admin only.
// Role defaults to faculty when omitted.
func (s *AuthService) Register(ctx context.Context, role model.Role, in RegisterInput) (*model.User, error) {
	if err := requireAdmin(role); err != nil {
		return nil, err
	}

	v := validate.New()
	username := v.Field("username", in.Username).
		Required("Username is required").
		MinLen(MinUsernameLength, "Username must be at least 3 characters long").
		Value()
	email := v.Field("email", in.Email).
		Required("Email is required").
		Email("Please enter a valid email address").
		Value()
	v.Field("password", in.Password).
		Required("Password is required").
		MinLen(MinPasswordLength, "Password must be at least 6 characters long")
	firstName := v.Field("firstName", in.FirstName).
		Required("First name is required").Value()
	lastName := v.Field("lastName", in.LastName).
		Required("Last name is required").Value()
	newRole := v.Field("role", in.Role).
		Optional().
		OneOf([]string{string(model.RoleAdmin), string(model.RoleFaculty)},
			"Role must be either admin or faculty").
		Value()
	if err := v.Err(); err != nil {
		return nil, err
	}

	if newRole == "" {
		newRole = string(model.RoleFaculty)
	}

	hash, err := s.passwords.Hash(in.Password)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		FirstName:    firstName,
		LastName:     lastName,
		Role:         model.Role(newRole),
		IsActive:     true,
	}
	if err := s.repo.CreateUser(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info("user registered", "username", user.Username, "role", user.Role)
	return user, nil
}

// Profile returns the caller's own account.
func (s *AuthService) Profile(ctx context.Context, userID string) (*model.User, error) {
	return s.repo.GetUserByID(ctx, userID)
}

// UpdateProfile lets a user change their own name, email, and password.
// Username and role are fixed; role changes would be self-promotion.
func (s *AuthService) UpdateProfile(ctx context.Context, userID string, in ProfileInput) (*model.User, error) {
	user, err := s.repo.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	v := validate.New()
	firstName := v.Field("firstName", in.FirstName).
		Required("First name is required").Value()
	lastName := v.Field("lastName", in.LastName).
		Required("Last name is required").Value()
	email := v.Field("email", in.Email).
		Required("Email is required").
		Email("Please enter a valid email address").
		Value()
	v.Field("password", in.Password).
		Optional().
		MinLen(MinPasswordLength, "Password must be at least 6 characters long")
	if err := v.Err(); err != nil {
		return nil, err
	}

	user.FirstName = firstName
	user.LastName = lastName
	user.Email = email
	if in.Password != "" {
		hash, err := s.passwords.Hash(in.Password)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = hash
	}

	if err := s.repo.UpdateUser(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info("profile updated", "userId", userID)
	return user, nil
}

// Users lists every staff account. Admin only.
func (s *AuthService) Users(ctx context.Context, role model.Role) ([]model.User, error) {
	if err := requireAdmin(role); err != nil {
		return nil, err
	}
	return s.repo.ListUsers(ctx)
}
