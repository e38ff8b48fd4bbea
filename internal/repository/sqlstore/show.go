package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/rs/xid"
	"github.com/sakif/plotpocket/internal/apperror"
	"github.com/sakif/plotpocket/internal/model"
	"github.com/sakif/plotpocket/internal/repository"
)

var (
	_ repository.ShowRepository      = (*DB)(nil)
	_ repository.WatchlistRepository = (*DB)(nil)
)

const showColumns = `s.id, s.show_api_id, s.title, s.overview, s.poster_path, s.release_date, s.type, s.watched, s.created_at`

func scanShow(row interface{ Scan(...any) error }, s *model.Show) error {
	var typ string
	if err := row.Scan(
		&s.ID,
		&s.ShowAPIID,
		&s.Title,
		&s.Overview,
		&s.PosterPath,
		&s.ReleaseDate,
		&typ,
		&s.Watched,
		&s.CreatedAt,
	); err != nil {
		return err
	}
	t, err := model.ParseShowType(typ)
	if err != nil {
		return err
	}
	s.Type = t
	return nil
}

// GetShowByAPIID finds the cached row for an external id.
func (db *DB) GetShowByAPIID(ctx context.Context, showAPIID int) (*model.Show, error) {
	var s model.Show
	err := scanShow(db.queryRow(ctx,
		`SELECT `+showColumns+` FROM shows s WHERE s.show_api_id = ?`, showAPIID,
	), &s)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.NotFound("show", strconv.Itoa(showAPIID))
		}
		return nil, fmt.Errorf("sqlstore: getting show %d: %w", showAPIID, err)
	}
	return &s, nil
}

// CreateShow caches a show row. If another request cached the same
// external id first, show is filled from that row instead.
func (db *DB) CreateShow(ctx context.Context, show *model.Show) error {
	show.ID = xid.New().String()
	show.CreatedAt = time.Now().UTC()

	_, err := db.exec(ctx,
		`INSERT INTO shows (id, show_api_id, title, overview, poster_path, release_date, type, watched, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		show.ID,
		show.ShowAPIID,
		show.Title,
		show.Overview,
		show.PosterPath,
		show.ReleaseDate,
		show.Type.String(),
		show.Watched,
		show.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			existing, getErr := db.GetShowByAPIID(ctx, show.ShowAPIID)
			if getErr != nil {
				return fmt.Errorf("sqlstore: reloading show %d after conflict: %w", show.ShowAPIID, getErr)
			}
			*show = *existing
			return nil
		}
		return fmt.Errorf("sqlstore: inserting show %d: %w", show.ShowAPIID, err)
	}
	return nil
}

// AddToWatchlist links a user to a cached show. Repeats are no-ops.
func (db *DB) AddToWatchlist(ctx context.Context, userID, showID string) error {
	_, err := db.exec(ctx,
		`INSERT INTO user_shows (user_id, show_id, created_at) VALUES (?, ?, ?)
		 ON CONFLICT (user_id, show_id) DO NOTHING`,
		userID, showID, time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("sqlstore: adding show %s to watchlist of %s: %w", showID, userID, err)
	}
	return nil
}

func (db *DB) RemoveFromWatchlist(ctx context.Context, userID, showID string) error {
	_, err := db.exec(ctx,
		`DELETE FROM user_shows WHERE user_id = ? AND show_id = ?`, userID, showID,
	)
	if err != nil {
		return fmt.Errorf("sqlstore: removing show %s from watchlist of %s: %w", showID, userID, err)
	}
	return nil
}

func (db *DB) IsOnWatchlist(ctx context.Context, userID, showID string) (bool, error) {
	var n int
	err := db.queryRow(ctx,
		`SELECT COUNT(*) FROM user_shows WHERE user_id = ? AND show_id = ?`, userID, showID,
	).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("sqlstore: checking watchlist of %s: %w", userID, err)
	}
	return n > 0, nil
}

func (db *DB) Watchlist(ctx context.Context, userID string) ([]model.Show, error) {
	rows, err := db.query(ctx,
		`SELECT `+showColumns+`
		 FROM shows s JOIN user_shows us ON us.show_id = s.id
		 WHERE us.user_id = ?
		 ORDER BY us.created_at DESC, s.show_api_id`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlstore: listing watchlist of %s: %w", userID, err)
	}
	defer rows.Close()

	shows := []model.Show{}
	for rows.Next() {
		var s model.Show
		if err := scanShow(rows, &s); err != nil {
			return nil, fmt.Errorf("sqlstore: scanning watchlist row: %w", err)
		}
		shows = append(shows, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlstore: iterating watchlist rows: %w", err)
	}
	return shows, nil
}

func (db *DB) WatchlistStatus(ctx context.Context, userID string) (map[int]bool, error) {
	rows, err := db.query(ctx,
		`SELECT s.show_api_id, s.watched
		 FROM shows s JOIN user_shows us ON us.show_id = s.id
		 WHERE us.user_id = ?`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlstore: loading watchlist status of %s: %w", userID, err)
	}
	defer rows.Close()

	status := make(map[int]bool)
	for rows.Next() {
		var (
			id      int
			watched bool
		)
		if err := rows.Scan(&id, &watched); err != nil {
			return nil, fmt.Errorf("sqlstore: scanning watchlist status: %w", err)
		}
		status[id] = watched
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlstore: iterating watchlist status: %w", err)
	}
	return status, nil
}
