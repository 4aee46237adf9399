package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/joestump/bookmarks/internal/api"
	"github.com/joestump/bookmarks/internal/auth"
	"github.com/joestump/bookmarks/internal/logger"
	"github.com/joestump/bookmarks/internal/metrics"
	"github.com/joestump/bookmarks/internal/store"
)

// Deps holds all dependencies required to build the HTTP router.
type Deps struct {
	DB            Pinger
	BookmarkStore store.BookmarkStoreIface
	BearerAuth    *auth.StaticBearer
	Logger        logger.Logger
	// APIPrefix is where the bookmarks API is mounted, e.g. "/api".
	APIPrefix  string
	Production bool
}

// NewRouter assembles the full chi router with all middleware and routes.
func NewRouter(deps Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(AccessLog(deps.Logger))
	r.Use(Instrument)
	r.Use(middleware.Recoverer)

	r.Get("/", Index)
	r.Get("/healthz", NewHealthHandler(deps.DB).Healthz)
	r.Handle("/metrics", metrics.Handler(deps.BookmarkStore))

	apiRouter := api.NewAPIRouter(api.Deps{
		BearerAuth:    deps.BearerAuth,
		BookmarkStore: deps.BookmarkStore,
		Logger:        deps.Logger,
		Production:    deps.Production,
	})
	prefix := deps.APIPrefix
	if prefix == "" {
		prefix = "/"
	}
	r.Mount(prefix, apiRouter)

	return r
}

// Index serves GET /.
func Index(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("Hello, world!"))
}
