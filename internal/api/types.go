package api

import (
	"github.com/joestump/bookmarks/internal/sanitize"
	"github.com/joestump/bookmarks/internal/store"
)

// BookmarkRequest is the request body for POST /bookmarks and
// PATCH /bookmarks/{id}. Keys not listed here are ignored.
type BookmarkRequest struct {
	Title       *string `json:"title"`
	URL         *string `json:"url"`
	Description *string `json:"description"`
	// Rating is decoded loosely so a wrong type is reported as a rating error.
	Rating any `json:"rating"`
}

// input sanitizes title and description before validation, so markup that
// sanitizes away (a bare comment, say) counts as blank.
func (req BookmarkRequest) input() store.BookmarkInput {
	return store.BookmarkInput{
		Title:       sanitizeOptional(req.Title),
		URL:         req.URL,
		Description: sanitizeOptional(req.Description),
		Rating:      req.Rating,
	}
}

func sanitizeOptional(s *string) *string {
	if s == nil {
		return nil
	}
	clean := sanitize.Text(*s)
	return &clean
}

// BookmarkResponse is the JSON representation of a single bookmark.
type BookmarkResponse struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	URL         string `json:"url"`
	Description string `json:"description"`
	Rating      int    `json:"rating"`
}

// toBookmarkResponse converts a stored bookmark, sanitizing the free-text
// fields again so rows written by other means are still safe to render.
func toBookmarkResponse(b *store.Bookmark) BookmarkResponse {
	return BookmarkResponse{
		ID:          b.ID,
		Title:       sanitize.Text(b.Title),
		URL:         b.URL,
		Description: sanitize.Text(b.Description),
		Rating:      b.Rating,
	}
}
