package store

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/jmoiron/sqlx"
)

// Bookmark represents a row in the bookmarks table.
type Bookmark struct {
	ID          int64  `db:"id"`
	Title       string `db:"title"`
	URL         string `db:"url"`
	Description string `db:"description"`
	Rating      int    `db:"rating"`
}

// NewBookmark holds the validated fields of a bookmark about to be inserted.
type NewBookmark struct {
	Title       string
	URL         string
	Description string
	Rating      int
}

// BookmarkPatch holds the fields of a partial update. Nil fields are left
// untouched.
type BookmarkPatch struct {
	Title       *string
	URL         *string
	Description *string
	Rating      *int
}

// Empty reports whether the patch would not change any column.
func (p BookmarkPatch) Empty() bool {
	return p.Title == nil && p.URL == nil && p.Description == nil && p.Rating == nil
}

// BookmarkStore is the sqlx-backed implementation of BookmarkStoreIface.
type BookmarkStore struct {
	db *sqlx.DB
}

func NewBookmarkStore(db *sqlx.DB) *BookmarkStore {
	return &BookmarkStore{db: db}
}

// q rebinds ? placeholders to the driver's native format ($1,$2,... for PostgreSQL).
func (s *BookmarkStore) q(query string) string { return s.db.Rebind(query) }

// ListAll returns every bookmark ordered by id.
func (s *BookmarkStore) ListAll(ctx context.Context) ([]*Bookmark, error) {
	bookmarks := []*Bookmark{}
	err := s.db.SelectContext(ctx, &bookmarks,
		`SELECT id, title, url, description, rating FROM bookmarks ORDER BY id ASC`)
	if err != nil {
		return nil, err
	}
	return bookmarks, nil
}

// GetByID returns the bookmark matching id. A missing row is not an error:
// it returns nil, nil.
func (s *BookmarkStore) GetByID(ctx context.Context, id int64) (*Bookmark, error) {
	var b Bookmark
	err := s.db.GetContext(ctx, &b, s.q(
		`SELECT id, title, url, description, rating FROM bookmarks WHERE id = ?`), id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &b, nil
}

// Insert persists a new bookmark and returns it with its assigned id.
func (s *BookmarkStore) Insert(ctx context.Context, nb NewBookmark) (*Bookmark, error) {
	const insert = `INSERT INTO bookmarks (title, url, description, rating) VALUES (?, ?, ?, ?)`
	args := []any{nb.Title, nb.URL, nb.Description, nb.Rating}

	var id int64
	// lib/pq does not implement LastInsertId.
	if sqlx.BindType(s.db.DriverName()) == sqlx.DOLLAR {
		if err := s.db.QueryRowxContext(ctx, s.q(insert+` RETURNING id`), args...).Scan(&id); err != nil {
			return nil, err
		}
	} else {
		res, err := s.db.ExecContext(ctx, s.q(insert), args...)
		if err != nil {
			return nil, err
		}
		if id, err = res.LastInsertId(); err != nil {
			return nil, err
		}
	}

	return &Bookmark{
		ID:          id,
		Title:       nb.Title,
		URL:         nb.URL,
		Description: nb.Description,
		Rating:      nb.Rating,
	}, nil
}

// Update applies the non-nil fields of patch to the bookmark matching id and
// returns the number of rows affected.
func (s *BookmarkStore) Update(ctx context.Context, id int64, patch BookmarkPatch) (int64, error) {
	if patch.Empty() {
		return 0, nil
	}

	var sets []string
	var args []any
	if patch.Title != nil {
		sets = append(sets, "title = ?")
		args = append(args, *patch.Title)
	}
	if patch.URL != nil {
		sets = append(sets, "url = ?")
		args = append(args, *patch.URL)
	}
	if patch.Description != nil {
		sets = append(sets, "description = ?")
		args = append(args, *patch.Description)
	}
	if patch.Rating != nil {
		sets = append(sets, "rating = ?")
		args = append(args, *patch.Rating)
	}
	args = append(args, id)

	res, err := s.db.ExecContext(ctx, s.q(
		`UPDATE bookmarks SET `+strings.Join(sets, ", ")+` WHERE id = ?`), args...)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// Delete removes the bookmark matching id. Deleting a missing id is not an error.
func (s *BookmarkStore) Delete(ctx context.Context, id int64) error {
	_, err := s.db.ExecContext(ctx, s.q(`DELETE FROM bookmarks WHERE id = ?`), id)
	return err
}

// Count returns the number of stored bookmarks.
func (s *BookmarkStore) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.GetContext(ctx, &n, `SELECT COUNT(*) FROM bookmarks`); err != nil {
		return 0, err
	}
	return n, nil
}
