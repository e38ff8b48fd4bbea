package sqlstore

import (
	"context"
	"errors"
	"testing"

	"github.com/sakif/plotpocket/internal/apperror"
	"github.com/sakif/plotpocket/internal/model"
)

// =========================================================================
// CREATE TESTS
// =========================================================================

func TestCreateUser(t *testing.T) {
	db := newTestDB(t)

	user := &model.User{
		Email:        "Alice@Example.com",
		UserName:     "Alice@Example.com",
		PasswordHash: "$2a$04$hash",
	}

	if err := db.CreateUser(context.Background(), user); err != nil {
		t.Fatalf("CreateUser() error = %v", err)
	}

	if user.ID == "" {
		t.Error("CreateUser() did not set user.ID")
	}
	if user.CreatedAt.IsZero() || user.UpdatedAt.IsZero() {
		t.Error("CreateUser() did not set timestamps")
	}
	if user.Email != "alice@example.com" {
		t.Errorf("Email = %q, want lower-cased", user.Email)
	}
}

func TestCreateUser_DuplicateEmail(t *testing.T) {
	db := newTestDB(t)
	createTestUser(t, db, "dup@example.com")

	err := db.CreateUser(context.Background(), &model.User{Email: "DUP@example.com", UserName: "x"})
	if !errors.Is(err, apperror.ErrConflict) {
		t.Fatalf("CreateUser() error = %v, want ErrConflict", err)
	}
}

// =========================================================================
// GET TESTS
// =========================================================================

func TestGetUserByID(t *testing.T) {
	db := newTestDB(t)
	created := createTestUser(t, db, "bob@example.com")

	got, err := db.GetUserByID(context.Background(), created.ID)
	if err != nil {
		t.Fatalf("GetUserByID() error = %v", err)
	}
	if got.Email != "bob@example.com" {
		t.Errorf("Email = %q, want %q", got.Email, "bob@example.com")
	}
	if got.PasswordHash != "$2a$04$hash" {
		t.Errorf("PasswordHash not round-tripped: %q", got.PasswordHash)
	}
	if got.GitHubID != nil {
		t.Errorf("GitHubID = %v, want nil", *got.GitHubID)
	}
}

func TestGetUserByID_NotFound(t *testing.T) {
	db := newTestDB(t)

	_, err := db.GetUserByID(context.Background(), "nonexistent")
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("GetUserByID() error = %v, want ErrNotFound", err)
	}
}

func TestGetUserByEmail_CaseInsensitive(t *testing.T) {
	db := newTestDB(t)
	created := createTestUser(t, db, "carol@example.com")

	got, err := db.GetUserByEmail(context.Background(), "  CAROL@example.COM ")
	if err != nil {
		t.Fatalf("GetUserByEmail() error = %v", err)
	}
	if got.ID != created.ID {
		t.Errorf("ID = %q, want %q", got.ID, created.ID)
	}

	_, err = db.GetUserByEmail(context.Background(), "nobody@example.com")
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("GetUserByEmail() error = %v, want ErrNotFound", err)
	}
}

// =========================================================================
// GITHUB UPSERT TESTS
// =========================================================================

func TestUpsertGitHubUser_InsertThenUpdate(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	ghID := int64(42)

	first := &model.User{GitHubID: &ghID, UserName: "octocat", Email: "octo@github.com"}
	if err := db.UpsertGitHubUser(ctx, first); err != nil {
		t.Fatalf("UpsertGitHubUser() insert error = %v", err)
	}

	second := &model.User{GitHubID: &ghID, UserName: "octocat-renamed", AvatarURL: "https://a/b.png"}
	if err := db.UpsertGitHubUser(ctx, second); err != nil {
		t.Fatalf("UpsertGitHubUser() update error = %v", err)
	}

	if second.ID != first.ID {
		t.Errorf("update changed ID: %q → %q", first.ID, second.ID)
	}
	got, err := db.GetUserByID(ctx, first.ID)
	if err != nil {
		t.Fatalf("GetUserByID() error = %v", err)
	}
	if got.UserName != "octocat-renamed" || got.AvatarURL != "https://a/b.png" {
		t.Errorf("profile not refreshed: %+v", got)
	}
	if got.Email != "octo@github.com" {
		t.Errorf("Email = %q, want original kept", got.Email)
	}

	n, err := db.CountUsers(ctx)
	if err != nil {
		t.Fatalf("CountUsers() error = %v", err)
	}
	if n != 1 {
		t.Errorf("CountUsers() = %d, want 1", n)
	}
}

func TestUpsertGitHubUser_LinksExistingEmail(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	existing := createTestUser(t, db, "dev@example.com")

	ghID := int64(7)
	u := &model.User{GitHubID: &ghID, UserName: "dev", Email: "dev@example.com"}
	if err := db.UpsertGitHubUser(ctx, u); err != nil {
		t.Fatalf("UpsertGitHubUser() error = %v", err)
	}
	if u.ID != existing.ID {
		t.Errorf("ID = %q, want linked to %q", u.ID, existing.ID)
	}
	if u.PasswordHash != existing.PasswordHash {
		t.Error("password hash should survive linking")
	}
}

func TestUpsertGitHubUser_HiddenEmail(t *testing.T) {
	db := newTestDB(t)
	ghID := int64(99)

	u := &model.User{GitHubID: &ghID, UserName: "ghost"}
	if err := db.UpsertGitHubUser(context.Background(), u); err != nil {
		t.Fatalf("UpsertGitHubUser() error = %v", err)
	}
	if u.Email == "" {
		t.Error("expected a placeholder email for hidden GitHub emails")
	}
}

func TestUpsertGitHubUser_RequiresGitHubID(t *testing.T) {
	db := newTestDB(t)
	if err := db.UpsertGitHubUser(context.Background(), &model.User{UserName: "x"}); err == nil {
		t.Fatal("UpsertGitHubUser() without GitHubID should fail")
	}
}
