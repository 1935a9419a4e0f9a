// Package service contains the business logic layer of the application.
//
// The layering is the usual three-step chain:
//
//	Handler (HTTP)     → parses requests, writes responses
//	Service (business) → validates, enforces rules, orchestrates
//	Repository (data)  → reads/writes the database
//
// Services accept primitives and return domain errors from apperror — they
// know nothing about HTTP. Each service takes its repository as an
// interface, so tests inject in-memory fakes.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/sakif/marketplace-api/internal/apperror"
	"github.com/sakif/marketplace-api/internal/auth"
	"github.com/sakif/marketplace-api/internal/model"
	"github.com/sakif/marketplace-api/internal/repository"
)

// MinPasswordLength is enforced at registration. Six characters is the
// published API contract, not a security recommendation.
const MinPasswordLength = 6

// AuthService handles registration and login.
type AuthService struct {
	users     repository.UserRepository
	tokens    *auth.TokenService
	passwords *auth.PasswordService
	logger    *slog.Logger
}

// NewAuthService creates an AuthService with all required dependencies.
func NewAuthService(
	users repository.UserRepository,
	tokens *auth.TokenService,
	passwords *auth.PasswordService,
	logger *slog.Logger,
) *AuthService {
	return &AuthService{
		users:     users,
		tokens:    tokens,
		passwords: passwords,
		logger:    logger,
	}
}

// AuthResult bundles the public user record and the issued token so the
// handler can build the response in one step.
type AuthResult struct {
	User  model.PublicUser
	Token string
}

// NormalizeEmail lower-cases and trims an email address. Uniqueness and
// lookups both operate on this form, so "A@X.com" and "a@x.com" are the
// same account.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register creates a new account and issues a token for it.
//
// The duplicate check runs twice, intentionally: GetByEmail here gives a
// clean error for the common case, and the UNIQUE constraint in the store
// catches the race where two registrations for the same email interleave —
// the repository surfaces that as the same ErrConflict.
func (s *AuthService) Register(ctx context.Context, email, password, name string) (*AuthResult, error) {
	email = NormalizeEmail(email)
	name = strings.TrimSpace(name)

	if email == "" {
		return nil, apperror.ValidationFailed("email", "email is required")
	}
	if len(password) < MinPasswordLength {
		return nil, apperror.ValidationFailed("password",
			fmt.Sprintf("password must be at least %d characters", MinPasswordLength))
	}
	if name == "" {
		return nil, apperror.ValidationFailed("name", "name is required")
	}

	_, err := s.users.GetUserByEmail(ctx, email)
	switch {
	case err == nil:
		return nil, apperror.Conflict("user already exists")
	case !errors.Is(err, apperror.ErrNotFound):
		return nil, fmt.Errorf("checking existing user: %w", err)
	}

	hash, err := s.passwords.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("hashing password: %w", err)
	}

	user := &model.User{
		Email:        email,
		PasswordHash: hash,
		Name:         name,
	}
	if err := s.users.CreateUser(ctx, user); err != nil {
		return nil, fmt.Errorf("creating user: %w", err)
	}

	token, err := s.tokens.Generate(user.ID, user.Email)
	if err != nil {
		return nil, fmt.Errorf("generating token for user %d: %w", user.ID, err)
	}

	s.logger.Info("user registered",
		slog.Int64("userID", user.ID),
		slog.String("email", user.Email),
	)

	return &AuthResult{User: user.Public(), Token: token}, nil
}

// Login verifies credentials and issues a fresh token.
//
// An unknown email and a wrong password return the IDENTICAL error — same
// kind, same message. Distinguishing them would let an attacker enumerate
// which emails have accounts.
func (s *AuthService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	email = NormalizeEmail(email)

	user, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return nil, apperror.Unauthorized("invalid credentials")
		}
		return nil, fmt.Errorf("looking up user: %w", err)
	}

	if err := s.passwords.Verify(user.PasswordHash, password); err != nil {
		return nil, apperror.Unauthorized("invalid credentials")
	}

	token, err := s.tokens.Generate(user.ID, user.Email)
	if err != nil {
		return nil, fmt.Errorf("generating token for user %d: %w", user.ID, err)
	}

	s.logger.Info("user logged in", slog.Int64("userID", user.ID))

	return &AuthResult{User: user.Public(), Token: token}, nil
}
