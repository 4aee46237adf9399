package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/joestump/bookmarks/internal/api"
	"github.com/joestump/bookmarks/internal/auth"
	"github.com/joestump/bookmarks/internal/logger"
	"github.com/joestump/bookmarks/internal/store"
	"github.com/joestump/bookmarks/internal/testutil"
)

const testToken = "test-api-token"

// testEnv holds the router and store used by API integration tests.
type testEnv struct {
	Router        http.Handler
	BookmarkStore *store.BookmarkStore
}

// newTestEnv creates an in-memory SQLite test database, runs migrations,
// and wires up the full API router with a real store.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db := testutil.NewTestDB(t)
	bs := store.NewBookmarkStore(db)

	router := api.NewAPIRouter(api.Deps{
		BearerAuth:    auth.NewStaticBearer(testToken, logger.NewNop()),
		BookmarkStore: bs,
		Logger:        logger.NewNop(),
	})
	return &testEnv{Router: router, BookmarkStore: bs}
}

// fixtureBookmarks mirrors the rows most tests start from.
func fixtureBookmarks() []store.NewBookmark {
	return []store.NewBookmark{
		{Title: "Website One", URL: "http://www.website-one.com", Description: "This is website one.", Rating: 4},
		{Title: "Website Two", URL: "http://www.website-two.com", Description: "This is website two.", Rating: 4},
		{Title: "Website Three", URL: "http://www.website-three.com", Description: "This is website three.", Rating: 4},
	}
}

// seedBookmarks inserts the fixtures and returns the stored rows.
func seedBookmarks(t *testing.T, env *testEnv) []*store.Bookmark {
	t.Helper()
	var out []*store.Bookmark
	for _, nb := range fixtureBookmarks() {
		b, err := env.BookmarkStore.Insert(context.Background(), nb)
		if err != nil {
			t.Fatalf("seed bookmark: %v", err)
		}
		out = append(out, b)
	}
	return out
}

// do sends an authenticated request with an optional JSON body.
func (env *testEnv) do(t *testing.T, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = bytes.NewBufferString(body)
	}
	req := httptest.NewRequest(method, target, r)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	authRequest(req, testToken)
	rec := httptest.NewRecorder()
	env.Router.ServeHTTP(rec, req)
	return rec
}

// authRequest adds a Bearer token to the request.
func authRequest(r *http.Request, token string) *http.Request {
	r.Header.Set("Authorization", "Bearer "+token)
	return r
}

// errorMessage decodes {"error":{"message":...}} from a response.
func errorMessage(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var resp api.ErrorResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode error body: %v; body: %s", err, rec.Body.String())
	}
	return resp.Error.Message
}
