package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/joestump/bookmarks/internal/auth"
	"github.com/joestump/bookmarks/internal/logger"
	"github.com/joestump/bookmarks/internal/store"
)

// Deps holds all dependencies required to build the API router.
type Deps struct {
	BearerAuth    *auth.StaticBearer
	BookmarkStore store.BookmarkStoreIface
	Logger        logger.Logger
	// Production hides storage error details from 500 responses.
	Production bool
}

// NewAPIRouter creates the chi sub-router served under the API prefix.
// All routes require Bearer token authentication and return application/json.
func NewAPIRouter(deps Deps) chi.Router {
	r := chi.NewRouter()

	r.Use(jsonContentType)
	r.Use(deps.BearerAuth.Authenticate)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "Not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
	})

	registerBookmarkRoutes(r, deps.BookmarkStore, deps.Logger, deps.Production)

	return r
}

// jsonContentType is a middleware that sets Content-Type: application/json on all responses.
func jsonContentType(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		next.ServeHTTP(w, r)
	})
}
