package api

import (
	"context"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/joestump/bookmarks/internal/store"
)

type contextKey string

const bookmarkContextKey contextKey = "bookmark"

const msgBookmarkNotFound = "Bookmark doesn't exist!"

// bookmarkResolver loads the bookmark named by {id} once per request and
// stores it on the request context. Absent bookmarks, and ids that cannot
// name one, short-circuit with 404.
type bookmarkResolver struct {
	errorReporter
	bookmarks store.BookmarkStoreIface
}

func (res *bookmarkResolver) Resolve(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
		if err != nil {
			writeError(w, http.StatusNotFound, msgBookmarkNotFound)
			return
		}

		b, err := res.bookmarks.GetByID(r.Context(), id)
		if err != nil {
			res.serverError(w, r, err)
			return
		}
		if b == nil {
			writeError(w, http.StatusNotFound, msgBookmarkNotFound)
			return
		}

		ctx := context.WithValue(r.Context(), bookmarkContextKey, b)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// bookmarkFromContext returns the bookmark attached by bookmarkResolver.
func bookmarkFromContext(ctx context.Context) *store.Bookmark {
	b, _ := ctx.Value(bookmarkContextKey).(*store.Bookmark)
	return b
}
