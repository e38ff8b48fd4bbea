package sqlstore

import (
	"context"
	"sync"
	"testing"

	"github.com/sakif/plotpocket/internal/model"
)

func TestAddBookmark_Idempotent(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	user := createTestUser(t, db, "b@example.com")

	first := &model.Bookmark{ShowID: 550, UserID: user.ID}
	created, err := db.AddBookmark(ctx, first)
	if err != nil {
		t.Fatalf("AddBookmark() error = %v", err)
	}
	if !created || first.ID == "" || first.CreatedAt.IsZero() {
		t.Fatalf("AddBookmark() = %v, %+v", created, first)
	}

	second := &model.Bookmark{ShowID: 550, UserID: user.ID}
	created, err = db.AddBookmark(ctx, second)
	if err != nil {
		t.Fatalf("AddBookmark() duplicate error = %v", err)
	}
	if created {
		t.Error("duplicate AddBookmark() reported created = true")
	}
	if second.ID != first.ID {
		t.Errorf("duplicate returned ID %q, want existing %q", second.ID, first.ID)
	}

	list, err := db.Bookmarks(ctx, user.ID)
	if err != nil {
		t.Fatalf("Bookmarks() error = %v", err)
	}
	if len(list) != 1 {
		t.Errorf("len(Bookmarks()) = %d, want exactly 1", len(list))
	}
}

func TestAddBookmark_ConcurrentDuplicates(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	user := createTestUser(t, db, "race@example.com")

	var wg sync.WaitGroup
	errs := make(chan error, 8)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := db.AddBookmark(ctx, &model.Bookmark{ShowID: 1399, UserID: user.ID})
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		if err != nil {
			t.Errorf("concurrent AddBookmark() error = %v", err)
		}
	}
	list, _ := db.Bookmarks(ctx, user.ID)
	if len(list) != 1 {
		t.Errorf("len(Bookmarks()) = %d, want 1", len(list))
	}
}

func TestBookmarks_PerUserAndOrder(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	alice := createTestUser(t, db, "alice@example.com")
	bob := createTestUser(t, db, "bob@example.com")

	for _, id := range []int{1, 2, 3} {
		if _, err := db.AddBookmark(ctx, &model.Bookmark{ShowID: id, UserID: alice.ID}); err != nil {
			t.Fatalf("AddBookmark() error = %v", err)
		}
	}
	if _, err := db.AddBookmark(ctx, &model.Bookmark{ShowID: 1, UserID: bob.ID}); err != nil {
		t.Fatalf("AddBookmark() error = %v", err)
	}

	list, err := db.Bookmarks(ctx, alice.ID)
	if err != nil {
		t.Fatalf("Bookmarks() error = %v", err)
	}
	if len(list) != 3 {
		t.Fatalf("len(Bookmarks()) = %d, want 3", len(list))
	}
	if list[0].ShowID != 3 {
		t.Errorf("newest bookmark first: got show %d, want 3", list[0].ShowID)
	}

	ids, err := db.BookmarkedShowIDs(ctx, bob.ID)
	if err != nil {
		t.Fatalf("BookmarkedShowIDs() error = %v", err)
	}
	if _, ok := ids[1]; !ok || len(ids) != 1 {
		t.Errorf("BookmarkedShowIDs(bob) = %v, want {1}", ids)
	}
}

func TestRemoveBookmark(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	user := createTestUser(t, db, "r@example.com")

	removed, err := db.RemoveBookmark(ctx, user.ID, 550)
	if err != nil {
		t.Fatalf("RemoveBookmark() error = %v", err)
	}
	if removed {
		t.Error("RemoveBookmark() of a missing row reported removed = true")
	}

	if _, err := db.AddBookmark(ctx, &model.Bookmark{ShowID: 550, UserID: user.ID}); err != nil {
		t.Fatalf("AddBookmark() error = %v", err)
	}
	removed, err = db.RemoveBookmark(ctx, user.ID, 550)
	if err != nil || !removed {
		t.Fatalf("RemoveBookmark() = %v, %v; want true, nil", removed, err)
	}
	list, _ := db.Bookmarks(ctx, user.ID)
	if len(list) != 0 {
		t.Errorf("len(Bookmarks()) = %d after remove, want 0", len(list))
	}
}
