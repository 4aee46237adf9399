package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"path"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/joestump/bookmarks/internal/logger"
	"github.com/joestump/bookmarks/internal/metrics"
	"github.com/joestump/bookmarks/internal/store"
)

// maxBodyBytes caps create and update request bodies.
const maxBodyBytes = 1 << 20

// bookmarksAPIHandler provides REST handlers for bookmark management.
type bookmarksAPIHandler struct {
	errorReporter
	bookmarks store.BookmarkStoreIface
}

// registerBookmarkRoutes registers the bookmark collection and resource routes on r.
func registerBookmarkRoutes(r chi.Router, bookmarks store.BookmarkStoreIface, log logger.Logger, production bool) {
	reporter := errorReporter{log: log, production: production}
	h := &bookmarksAPIHandler{errorReporter: reporter, bookmarks: bookmarks}
	resolver := &bookmarkResolver{errorReporter: reporter, bookmarks: bookmarks}

	r.Get("/bookmarks", h.List)
	r.Post("/bookmarks", h.Create)

	r.Group(func(r chi.Router) {
		r.Use(resolver.Resolve)
		r.Get("/bookmarks/{id}", h.Get)
		r.Delete("/bookmarks/{id}", h.Delete)
		r.Patch("/bookmarks/{id}", h.Update)
	})
}

// List returns every bookmark.
// GET /bookmarks
//
// @Summary      List bookmarks
// @Tags         Bookmarks
// @Produce      json
// @Success      200  {array}   BookmarkResponse
// @Failure      401  {object}  ErrorResponse
// @Failure      500  {object}  ErrorResponse
// @Security     BearerToken
// @Router       /bookmarks [get]
func (h *bookmarksAPIHandler) List(w http.ResponseWriter, r *http.Request) {
	bookmarks, err := h.bookmarks.ListAll(r.Context())
	if err != nil {
		h.serverError(w, r, err)
		return
	}

	resp := make([]BookmarkResponse, 0, len(bookmarks))
	for _, b := range bookmarks {
		resp = append(resp, toBookmarkResponse(b))
	}
	writeJSON(w, http.StatusOK, resp)
}

// Create sanitizes, validates and stores a new bookmark.
// POST /bookmarks
//
// @Summary      Create a bookmark
// @Tags         Bookmarks
// @Accept       json
// @Produce      json
// @Param        body  body      BookmarkRequest  true  "Bookmark to create"
// @Success      201   {object}  BookmarkResponse
// @Failure      400   {object}  ErrorResponse
// @Failure      401   {object}  ErrorResponse
// @Failure      500   {object}  ErrorResponse
// @Security     BearerToken
// @Router       /bookmarks [post]
func (h *bookmarksAPIHandler) Create(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeBookmarkRequest(w, r)
	if !ok {
		return
	}

	nb, err := store.ValidateNew(req.input())
	if err != nil {
		h.rejectInput(w, "create", err)
		return
	}

	b, err := h.bookmarks.Insert(r.Context(), nb)
	if err != nil {
		h.serverError(w, r, err)
		return
	}

	w.Header().Set("Location", path.Join(r.URL.Path, strconv.FormatInt(b.ID, 10)))
	writeJSON(w, http.StatusCreated, toBookmarkResponse(b))
}

// Get returns the bookmark resolved from the path.
// GET /bookmarks/{id}
//
// @Summary      Get a bookmark
// @Tags         Bookmarks
// @Produce      json
// @Param        id   path      int  true  "Bookmark ID"
// @Success      200  {object}  BookmarkResponse
// @Failure      401  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Failure      500  {object}  ErrorResponse
// @Security     BearerToken
// @Router       /bookmarks/{id} [get]
func (h *bookmarksAPIHandler) Get(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, toBookmarkResponse(bookmarkFromContext(r.Context())))
}

// Delete removes the bookmark resolved from the path.
// DELETE /bookmarks/{id}
//
// @Summary      Delete a bookmark
// @Tags         Bookmarks
// @Param        id   path      int  true  "Bookmark ID"
// @Success      204  "No Content"
// @Failure      401  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Failure      500  {object}  ErrorResponse
// @Security     BearerToken
// @Router       /bookmarks/{id} [delete]
func (h *bookmarksAPIHandler) Delete(w http.ResponseWriter, r *http.Request) {
	b := bookmarkFromContext(r.Context())
	if err := h.bookmarks.Delete(r.Context(), b.ID); err != nil {
		h.serverError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Update applies the supplied subset of title, url, description and rating.
// PATCH /bookmarks/{id}
//
// @Summary      Update a bookmark
// @Description  Only the supplied fields change. Unknown fields are ignored.
// @Tags         Bookmarks
// @Accept       json
// @Param        id    path      int              true  "Bookmark ID"
// @Param        body  body      BookmarkRequest  true  "Fields to update"
// @Success      204   "No Content"
// @Failure      400   {object}  ErrorResponse
// @Failure      401   {object}  ErrorResponse
// @Failure      404   {object}  ErrorResponse
// @Failure      500   {object}  ErrorResponse
// @Security     BearerToken
// @Router       /bookmarks/{id} [patch]
func (h *bookmarksAPIHandler) Update(w http.ResponseWriter, r *http.Request) {
	b := bookmarkFromContext(r.Context())

	req, ok := decodeBookmarkRequest(w, r)
	if !ok {
		return
	}

	patch, err := store.ValidatePatch(req.input())
	if err != nil {
		h.rejectInput(w, "update", err)
		return
	}

	n, err := h.bookmarks.Update(r.Context(), b.ID, patch)
	if err != nil {
		h.serverError(w, r, err)
		return
	}
	if n == 0 {
		// Deleted (or left unchanged on MySQL) between resolve and update.
		h.log.Debug("bookmark update affected no rows", logger.Int64("id", b.ID))
	}
	w.WriteHeader(http.StatusNoContent)
}

// rejectInput answers a validation failure with 400.
func (h *bookmarksAPIHandler) rejectInput(w http.ResponseWriter, operation string, err error) {
	if !store.IsValidationError(err) {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	metrics.ValidationFailuresTotal.WithLabelValues(operation).Inc()
	writeError(w, http.StatusBadRequest, err.Error())
}

// decodeBookmarkRequest reads a body holding a single JSON object. On failure
// it writes a 400 and returns false.
func decodeBookmarkRequest(w http.ResponseWriter, r *http.Request) (BookmarkRequest, bool) {
	var req BookmarkRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.UseNumber()
	if err := dec.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return BookmarkRequest{}, false
	}
	// Exactly one JSON value; anything after it makes the body invalid.
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return BookmarkRequest{}, false
	}
	return req, true
}
