package metrics

import (
	"context"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Counter reports how many bookmarks are stored.
type Counter interface {
	Count(ctx context.Context) (int, error)
}

// Handler serves the prometheus exposition, refreshing BookmarksTotal first.
// A failed count leaves the gauge at its previous value.
func Handler(c Counter) http.Handler {
	h := promhttp.Handler()
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if n, err := c.Count(r.Context()); err == nil {
			BookmarksTotal.Set(float64(n))
		}
		h.ServeHTTP(w, r)
	})
}
