// Package model defines the data structures used throughout the application.
package model

import "time"

// User represents a registered account.
//
// Accounts are created by email/password registration (UserName is set to
// the email) or by GitHub login, in which case GitHubID is set and
// PasswordHash is empty.
//
// PasswordHash is tagged json:"-" so a User can be written straight to the
// response without leaking the hash.
type User struct {
	ID           string    `json:"id"        db:"id"`
	Email        string    `json:"email"     db:"email"`
	UserName     string    `json:"userName"  db:"user_name"`
	PasswordHash string    `json:"-"         db:"password_hash"`
	GitHubID     *int64    `json:"githubId,omitempty"  db:"github_id"`
	AvatarURL    string    `json:"avatarUrl,omitempty" db:"avatar_url"`
	CreatedAt    time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt    time.Time `json:"updatedAt" db:"updated_at"`
}
