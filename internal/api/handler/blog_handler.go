package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	apimw "github.com/inkpress/blog-engine/internal/api/middleware"
	"github.com/inkpress/blog-engine/internal/domain"
	"github.com/inkpress/blog-engine/internal/service"
)

// BlogHandler handles post CRUD, listings and likes.
type BlogHandler struct {
	svc    *service.BlogService
	logger *zap.Logger
}

func NewBlogHandler(svc *service.BlogService, logger *zap.Logger) *BlogHandler {
	return &BlogHandler{svc: svc, logger: logger}
}

// Create handles POST /api/v1/blogs
//
// @Summary  Create a post (admin only)
// @Tags     blogs
// @Accept   json
// @Produce  json
// @Param    body  body      domain.CreateBlogRequest  true  "Post payload"
// @Success  201   {object}  domain.Blog
// @Failure  403   {object}  map[string]string
// @Failure  422   {object}  map[string]string
// @Router   /api/v1/blogs [post]
func (h *BlogHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateBlogRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	blog, err := h.svc.Create(r.Context(), apimw.GetUserID(r.Context()), req)
	if err != nil {
		h.logger.Warn("create blog failed",
			zap.String("correlation_id", apimw.GetCorrelationID(r.Context())),
			zap.Error(err),
		)
		mapError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, blog)
}

// List handles GET /api/v1/blogs
//
// @Summary  List published posts, optionally narrowed to a content type
// @Tags     blogs
// @Produce  json
// @Param    type  query     string  false  "Content type (Article or Diary); omit for all"
// @Success  200   {array}   domain.BlogSummary
// @Failure  422   {object}  map[string]string
// @Router   /api/v1/blogs [get]
func (h *BlogHandler) List(w http.ResponseWriter, r *http.Request) {
	t := domain.ContentType(r.URL.Query().Get("type"))
	summaries, err := h.svc.ListPublished(r.Context(), t)
	if err != nil {
		mapError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, summaries)
}

// ListByStatus handles GET /api/v1/blogs/status/{status}
//
// @Summary  List posts in a status, e.g. drafts (admin only)
// @Tags     blogs
// @Produce  json
// @Param    status  path      string  true   "Status (Published or Draft)"
// @Param    type    query     string  false  "Content type filter"
// @Success  200     {array}   domain.Blog
// @Failure  403     {object}  map[string]string
// @Failure  422     {object}  map[string]string
// @Router   /api/v1/blogs/status/{status} [get]
func (h *BlogHandler) ListByStatus(w http.ResponseWriter, r *http.Request) {
	status := domain.Status(chi.URLParam(r, "status"))
	t := domain.ContentType(r.URL.Query().Get("type"))

	blogs, err := h.svc.ListByStatus(r.Context(), apimw.GetUserID(r.Context()), status, t)
	if err != nil {
		mapError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, blogs)
}

// GetByID handles GET /api/v1/blogs/{id}
//
// @Summary  Get a full post by ID
// @Tags     blogs
// @Produce  json
// @Param    id   path      string  true  "Post UUID"
// @Success  200  {object}  domain.Blog
// @Failure  404  {object}  map[string]string
// @Router   /api/v1/blogs/{id} [get]
func (h *BlogHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	blog, err := h.svc.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		mapError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, blog)
}

// Update handles PUT /api/v1/blogs/{id}
//
// @Summary  Update a post (admin only)
// @Tags     blogs
// @Accept   json
// @Produce  json
// @Param    id    path      string                    true  "Post UUID"
// @Param    body  body      domain.UpdateBlogRequest  true  "Replacement fields"
// @Success  200   {object}  domain.Blog
// @Failure  403   {object}  map[string]string
// @Failure  404   {object}  map[string]string
// @Router   /api/v1/blogs/{id} [put]
func (h *BlogHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req domain.UpdateBlogRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	blog, err := h.svc.Update(r.Context(), apimw.GetUserID(r.Context()), chi.URLParam(r, "id"), req)
	if err != nil {
		mapError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, blog)
}

// Delete handles DELETE /api/v1/blogs/{id}
//
// @Summary  Delete a post (admin only)
// @Tags     blogs
// @Param    id   path  string  true  "Post UUID"
// @Success  204
// @Failure  403  {object}  map[string]string
// @Failure  404  {object}  map[string]string
// @Router   /api/v1/blogs/{id} [delete]
func (h *BlogHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Delete(r.Context(), apimw.GetUserID(r.Context()), chi.URLParam(r, "id")); err != nil {
		mapError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ToggleLike handles POST /api/v1/blogs/{id}/like
//
// @Summary  Toggle the caller's like on a post
// @Tags     blogs
// @Produce  json
// @Param    id   path      string  true  "Post UUID"
// @Success  200  {object}  map[string]any
// @Failure  404  {object}  map[string]string
// @Router   /api/v1/blogs/{id}/like [post]
func (h *BlogHandler) ToggleLike(w http.ResponseWriter, r *http.Request) {
	likedBy, err := h.svc.ToggleLike(r.Context(), apimw.GetUserID(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		mapError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"liked_by":   likedBy,
		"like_count": len(likedBy),
	})
}
