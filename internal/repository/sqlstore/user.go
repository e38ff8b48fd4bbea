package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/xid"
	"github.com/sakif/plotpocket/internal/apperror"
	"github.com/sakif/plotpocket/internal/model"
	"github.com/sakif/plotpocket/internal/repository"
)

// compile-time check that *DB implements repository.UserRepository
var _ repository.UserRepository = (*DB)(nil)

const userColumns = `id, email, user_name, password_hash, github_id, avatar_url, created_at, updated_at`

func scanUser(row interface{ Scan(...any) error }, u *model.User) error {
	return row.Scan(
		&u.ID,
		&u.Email,
		&u.UserName,
		&u.PasswordHash,
		&u.GitHubID,
		&u.AvatarURL,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
}

// CreateUser inserts a new user, generating the ID and timestamps.
// Emails are stored lower-cased so lookups are case-insensitive.
func (db *DB) CreateUser(ctx context.Context, user *model.User) error {
	now := time.Now().UTC()
	user.ID = xid.New().String()
	user.Email = strings.ToLower(strings.TrimSpace(user.Email))
	user.CreatedAt = now
	user.UpdatedAt = now

	_, err := db.exec(ctx,
		`INSERT INTO users (`+userColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		user.ID,
		user.Email,
		user.UserName,
		user.PasswordHash,
		user.GitHubID,
		user.AvatarURL,
		user.CreatedAt,
		user.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperror.Conflict("user", user.Email)
		}
		return fmt.Errorf("sqlstore: inserting user %s: %w", user.Email, err)
	}
	return nil
}

// GetUserByID retrieves a user by their internal ID.
// Returns apperror.ErrNotFound if no user exists with that ID.
func (db *DB) GetUserByID(ctx context.Context, id string) (*model.User, error) {
	var u model.User
	err := scanUser(db.queryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = ?`, id), &u)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.NotFound("user", id)
		}
		return nil, fmt.Errorf("sqlstore: getting user %s: %w", id, err)
	}
	return &u, nil
}

// GetUserByEmail retrieves a user by email, case-insensitively.
func (db *DB) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	var u model.User
	err := scanUser(db.queryRow(ctx, `SELECT `+userColumns+` FROM users WHERE email = ?`, email), &u)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.NotFound("user", email)
		}
		return nil, fmt.Errorf("sqlstore: getting user by email %s: %w", email, err)
	}
	return &u, nil
}

// UpsertGitHubUser inserts or updates the account linked to user.GitHubID.
//
// An existing row keeps its internal ID; only the profile fields change.
// A GitHub account whose email already belongs to a password user is
// linked to that user rather than creating a second account.
func (db *DB) UpsertGitHubUser(ctx context.Context, user *model.User) error {
	if user.GitHubID == nil {
		return fmt.Errorf("sqlstore: upserting GitHub user: github id is required")
	}
	user.Email = strings.ToLower(strings.TrimSpace(user.Email))

	var existing model.User
	err := scanUser(db.queryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE github_id = ? OR (email = ? AND email <> '')
		 ORDER BY CASE WHEN github_id = ? THEN 0 ELSE 1 END LIMIT 1`,
		*user.GitHubID, user.Email, *user.GitHubID,
	), &existing)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("sqlstore: looking up user by github_id %d: %w", *user.GitHubID, err)
	}

	now := time.Now().UTC()
	if err == nil {
		// Existing user: keep the ID and password, refresh the profile.
		user.ID = existing.ID
		user.PasswordHash = existing.PasswordHash
		user.CreatedAt = existing.CreatedAt
		user.UpdatedAt = now
		if user.Email == "" {
			user.Email = existing.Email
		}
		_, err = db.exec(ctx,
			`UPDATE users SET github_id = ?, email = ?, user_name = ?, avatar_url = ?, updated_at = ?
			 WHERE id = ?`,
			*user.GitHubID, user.Email, user.UserName, user.AvatarURL, user.UpdatedAt, user.ID,
		)
		if err != nil {
			return fmt.Errorf("sqlstore: updating user %s: %w", user.ID, err)
		}
		return nil
	}

	// GitHub may hide the email; the column is unique, so synthesise one.
	if user.Email == "" {
		user.Email = fmt.Sprintf("%d+github@users.noreply.github.com", *user.GitHubID)
	}
	return db.CreateUser(ctx, user)
}

// CountUsers returns the number of registered users.
func (db *DB) CountUsers(ctx context.Context) (int, error) {
	var n int
	if err := db.queryRow(ctx, `SELECT COUNT(*) FROM users`).Scan(&n); err != nil {
		return 0, fmt.Errorf("sqlstore: counting users: %w", err)
	}
	return n, nil
}
