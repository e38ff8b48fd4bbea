package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/mail"
	"strings"
	"time"

	"github.com/sakif/plotpocket/internal/apperror"
	"github.com/sakif/plotpocket/internal/auth"
	"github.com/sakif/plotpocket/internal/model"
	"github.com/sakif/plotpocket/internal/repository"
)

// errInvalidCredentials is returned for both an unknown email and
// a wrong password.
const errInvalidCredentials = "Invalid email or password"

// AuthService handles the authentication business logic.
//
//	AuthHandler (HTTP) → AuthService (business rules) → UserRepository (DB)
//	                   ↘ TokenService (JWT), PasswordService (bcrypt)
//
// It never touches cookies or requests; the handler turns an AuthResult
// into a Set-Cookie header.
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

// AuthResult bundles the user record and the issued JWT so the handler can
// set the cookie and respond in one step.
type AuthResult struct {
	User  *model.User
	Token string
}

// Register creates a password account and signs it in.
//
// Checks run in this order and the first failure is returned as a
// validation error: email format, password policy, email already taken.
func (s *AuthService) Register(ctx context.Context, email, password string) (*AuthResult, error) {
	email = strings.TrimSpace(email)
	if !validEmail(email) {
		return nil, apperror.ValidationFailed("email", fmt.Sprintf("Email '%s' is invalid.", email))
	}
	if err := auth.ValidatePassword(password); err != nil {
		return nil, apperror.ValidationFailed("password", err.Error())
	}

	hash, err := s.passwords.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("service/auth: hashing password: %w", err)
	}

	user := &model.User{
		Email:        email,
		UserName:     email,
		PasswordHash: hash,
	}
	if err := s.users.CreateUser(ctx, user); err != nil {
		if errors.Is(err, apperror.ErrConflict) {
			return nil, apperror.ValidationFailed("email", fmt.Sprintf("Username '%s' is already taken.", email))
		}
		return nil, fmt.Errorf("service/auth: creating user: %w", err)
	}

	s.logger.Info("user registered", slog.String("userID", user.ID))
	return s.issue(user)
}

// Login checks the credentials and issues a new session token.
func (s *AuthService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil, apperror.ValidationFailed("", errInvalidCredentials)
	}

	user, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return nil, apperror.ValidationFailed("", errInvalidCredentials)
		}
		return nil, fmt.Errorf("service/auth: looking up %s: %w", email, err)
	}

	if err := s.passwords.Verify(user.PasswordHash, password); err != nil {
		if errors.Is(err, auth.ErrInvalidPassword) {
			s.logger.Info("login rejected", slog.String("userID", user.ID))
			return nil, apperror.ValidationFailed("", errInvalidCredentials)
		}
		return nil, fmt.Errorf("service/auth: verifying password: %w", err)
	}

	return s.issue(user)
}

// LoginOrRegisterGitHub handles the GitHub OAuth callback: the profile is
// upserted by GitHub id (first login creates the account, later logins
// refresh it) and a session token is issued.
func (s *AuthService) LoginOrRegisterGitHub(ctx context.Context, ghUser *auth.GitHubUser) (*AuthResult, error) {
	if ghUser == nil {
		return nil, fmt.Errorf("service/auth: GitHub user must not be nil")
	}

	ghID := ghUser.ID
	user := &model.User{
		GitHubID:  &ghID,
		Email:     ghUser.Email,
		UserName:  ghUser.Login,
		AvatarURL: ghUser.AvatarURL,
	}
	if err := s.users.UpsertGitHubUser(ctx, user); err != nil {
		return nil, fmt.Errorf("service/auth: upserting user (githubID=%d): %w", ghUser.ID, err)
	}

	s.logger.Info("user authenticated via GitHub",
		slog.String("userID", user.ID),
		slog.String("login", ghUser.Login),
	)
	return s.issue(user)
}

// GetUserByID returns the user a validated session belongs to. A session
// for a user that no longer exists is reported as unauthorized.
func (s *AuthService) GetUserByID(ctx context.Context, id string) (*model.User, error) {
	if id == "" {
		return nil, apperror.Unauthorized("not logged in")
	}

	user, err := s.users.GetUserByID(ctx, id)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return nil, apperror.Unauthorized("not logged in")
		}
		return nil, fmt.Errorf("service/auth: fetching user %s: %w", id, err)
	}
	return user, nil
}

// UserCount backs the connection test endpoint.
func (s *AuthService) UserCount(ctx context.Context) (int, error) {
	n, err := s.users.CountUsers(ctx)
	if err != nil {
		return 0, fmt.Errorf("service/auth: counting users: %w", err)
	}
	return n, nil
}

// SessionTTL is how long issued tokens (and their cookies) live.
func (s *AuthService) SessionTTL() time.Duration {
	return s.tokens.TTL()
}

func (s *AuthService) issue(user *model.User) (*AuthResult, error) {
	token, err := s.tokens.Generate(user.ID)
	if err != nil {
		return nil, fmt.Errorf("service/auth: generating token for user %s: %w", user.ID, err)
	}
	return &AuthResult{User: user, Token: token}, nil
}

// validEmail accepts a bare address only, not "Name <addr>".
func validEmail(email string) bool {
	if email == "" {
		return false
	}
	addr, err := mail.ParseAddress(email)
	return err == nil && addr.Address == email
}
