package sqlstore

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/xid"
	"github.com/sakif/plotpocket/internal/model"
	"github.com/sakif/plotpocket/internal/repository"
)

var _ repository.BookmarkRepository = (*DB)(nil)

// AddBookmark relies on the unique (show_id, user_id) index: ON CONFLICT DO
// NOTHING turns a duplicate, including two racing requests, into a no-op,
// and the follow-up SELECT returns whichever row won.
func (db *DB) AddBookmark(ctx context.Context, b *model.Bookmark) (bool, error) {
	id := xid.New().String()
	now := time.Now().UTC()

	res, err := db.exec(ctx,
		`INSERT INTO bookmarks (id, show_id, user_id, created_at) VALUES (?, ?, ?, ?)
		 ON CONFLICT (show_id, user_id) DO NOTHING`,
		id, b.ShowID, b.UserID, now,
	)
	if err != nil {
		return false, fmt.Errorf("sqlstore: adding bookmark %d for %s: %w", b.ShowID, b.UserID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("sqlstore: adding bookmark %d for %s: %w", b.ShowID, b.UserID, err)
	}

	err = db.queryRow(ctx,
		`SELECT id, show_id, user_id, created_at FROM bookmarks WHERE show_id = ? AND user_id = ?`,
		b.ShowID, b.UserID,
	).Scan(&b.ID, &b.ShowID, &b.UserID, &b.CreatedAt)
	if err != nil {
		return false, fmt.Errorf("sqlstore: reading bookmark %d for %s: %w", b.ShowID, b.UserID, err)
	}
	return n > 0, nil
}

func (db *DB) RemoveBookmark(ctx context.Context, userID string, showID int) (bool, error) {
	res, err := db.exec(ctx,
		`DELETE FROM bookmarks WHERE show_id = ? AND user_id = ?`, showID, userID,
	)
	if err != nil {
		return false, fmt.Errorf("sqlstore: removing bookmark %d for %s: %w", showID, userID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("sqlstore: removing bookmark %d for %s: %w", showID, userID, err)
	}
	return n > 0, nil
}

func (db *DB) Bookmarks(ctx context.Context, userID string) ([]model.Bookmark, error) {
	rows, err := db.query(ctx,
		`SELECT id, show_id, user_id, created_at FROM bookmarks
		 WHERE user_id = ? ORDER BY created_at DESC, id DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlstore: listing bookmarks of %s: %w", userID, err)
	}
	defer rows.Close()

	bookmarks := []model.Bookmark{}
	for rows.Next() {
		var b model.Bookmark
		if err := rows.Scan(&b.ID, &b.ShowID, &b.UserID, &b.CreatedAt); err != nil {
			return nil, fmt.Errorf("sqlstore: scanning bookmark: %w", err)
		}
		bookmarks = append(bookmarks, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlstore: iterating bookmarks: %w", err)
	}
	return bookmarks, nil
}

func (db *DB) BookmarkedShowIDs(ctx context.Context, userID string) (map[int]struct{}, error) {
	rows, err := db.query(ctx, `SELECT show_id FROM bookmarks WHERE user_id = ?`, userID)
	if err != nil {
		return nil, fmt.Errorf("sqlstore: loading bookmark ids of %s: %w", userID, err)
	}
	defer rows.Close()

	ids := make(map[int]struct{})
	for rows.Next() {
		var id int
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("sqlstore: scanning bookmark id: %w", err)
		}
		ids[id] = struct{}{}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlstore: iterating bookmark ids: %w", err)
	}
	return ids, nil
}
