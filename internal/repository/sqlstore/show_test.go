package sqlstore

import (
	"context"
	"errors"
	"testing"

	"github.com/sakif/plotpocket/internal/apperror"
	"github.com/sakif/plotpocket/internal/model"
)

func createTestShow(t *testing.T, db *DB, apiID int, typ model.ShowType) *model.Show {
	t.Helper()
	date := "1999-10-15"
	s := &model.Show{
		ShowAPIID:   apiID,
		Title:       "Show",
		Overview:    "overview",
		PosterPath:  "https://image.tmdb.org/t/p/w500/p.jpg",
		ReleaseDate: &date,
		Type:        typ,
	}
	if err := db.CreateShow(context.Background(), s); err != nil {
		t.Fatalf("failed to create test show: %v", err)
	}
	return s
}

func TestCreateShow_RoundTrip(t *testing.T) {
	db := newTestDB(t)
	created := createTestShow(t, db, 1399, model.ShowTypeTvShow)

	got, err := db.GetShowByAPIID(context.Background(), 1399)
	if err != nil {
		t.Fatalf("GetShowByAPIID() error = %v", err)
	}
	if got.ID != created.ID {
		t.Errorf("ID = %q, want %q", got.ID, created.ID)
	}
	if got.Type != model.ShowTypeTvShow {
		t.Errorf("Type = %v, want TvShow", got.Type)
	}
	if got.ReleaseDate == nil || *got.ReleaseDate != "1999-10-15" {
		t.Errorf("ReleaseDate = %v", got.ReleaseDate)
	}
	if got.Watched {
		t.Error("Watched should default to false")
	}
}

func TestCreateShow_NullReleaseDate(t *testing.T) {
	db := newTestDB(t)
	s := &model.Show{ShowAPIID: 5, Title: "Undated", Type: model.ShowTypeMovie}
	if err := db.CreateShow(context.Background(), s); err != nil {
		t.Fatalf("CreateShow() error = %v", err)
	}
	got, err := db.GetShowByAPIID(context.Background(), 5)
	if err != nil {
		t.Fatalf("GetShowByAPIID() error = %v", err)
	}
	if got.ReleaseDate != nil {
		t.Errorf("ReleaseDate = %q, want nil", *got.ReleaseDate)
	}
}

func TestCreateShow_DuplicateReturnsExisting(t *testing.T) {
	db := newTestDB(t)
	first := createTestShow(t, db, 550, model.ShowTypeMovie)

	dup := &model.Show{ShowAPIID: 550, Title: "Other", Type: model.ShowTypeMovie}
	if err := db.CreateShow(context.Background(), dup); err != nil {
		t.Fatalf("CreateShow() duplicate error = %v", err)
	}
	if dup.ID != first.ID {
		t.Errorf("duplicate got ID %q, want existing %q", dup.ID, first.ID)
	}
}

func TestGetShowByAPIID_NotFound(t *testing.T) {
	db := newTestDB(t)
	_, err := db.GetShowByAPIID(context.Background(), 1)
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("error = %v, want ErrNotFound", err)
	}
}

// =========================================================================
// WATCHLIST JOIN TESTS
// =========================================================================

func TestWatchlist_AddRemove(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	user := createTestUser(t, db, "w@example.com")
	other := createTestUser(t, db, "o@example.com")
	show := createTestShow(t, db, 550, model.ShowTypeMovie)

	if err := db.AddToWatchlist(ctx, user.ID, show.ID); err != nil {
		t.Fatalf("AddToWatchlist() error = %v", err)
	}
	// second add is a no-op, not a constraint error
	if err := db.AddToWatchlist(ctx, user.ID, show.ID); err != nil {
		t.Fatalf("AddToWatchlist() repeat error = %v", err)
	}

	on, err := db.IsOnWatchlist(ctx, user.ID, show.ID)
	if err != nil || !on {
		t.Fatalf("IsOnWatchlist() = %v, %v; want true", on, err)
	}
	on, _ = db.IsOnWatchlist(ctx, other.ID, show.ID)
	if on {
		t.Error("show should not be on the other user's watchlist")
	}

	list, err := db.Watchlist(ctx, user.ID)
	if err != nil {
		t.Fatalf("Watchlist() error = %v", err)
	}
	if len(list) != 1 || list[0].ShowAPIID != 550 {
		t.Errorf("Watchlist() = %+v", list)
	}

	status, err := db.WatchlistStatus(ctx, user.ID)
	if err != nil {
		t.Fatalf("WatchlistStatus() error = %v", err)
	}
	if watched, ok := status[550]; !ok || watched {
		t.Errorf("WatchlistStatus()[550] = %v, %v; want false, true", watched, ok)
	}

	if err := db.RemoveFromWatchlist(ctx, user.ID, show.ID); err != nil {
		t.Fatalf("RemoveFromWatchlist() error = %v", err)
	}
	on, _ = db.IsOnWatchlist(ctx, user.ID, show.ID)
	if on {
		t.Error("show still on watchlist after remove")
	}

	// the cached show row outlives the membership
	if _, err := db.GetShowByAPIID(ctx, 550); err != nil {
		t.Errorf("show row should remain cached: %v", err)
	}
}

func TestWatchlist_EmptyIsNotNil(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, "empty@example.com")

	list, err := db.Watchlist(context.Background(), user.ID)
	if err != nil {
		t.Fatalf("Watchlist() error = %v", err)
	}
	if list == nil {
		t.Error("Watchlist() returned nil, want empty slice (encodes as [])")
	}
}
