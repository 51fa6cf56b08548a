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

// CommentHandler handles comments, replies and comment likes.
type CommentHandler struct {
	svc    *service.CommentService
	logger *zap.Logger
}

func NewCommentHandler(svc *service.CommentService, logger *zap.Logger) *CommentHandler {
	return &CommentHandler{svc: svc, logger: logger}
}

// Create handles POST /api/v1/comments
//
// @Summary  Post a top-level comment
// @Tags     comments
// @Accept   json
// @Produce  json
// @Param    body  body      domain.CreateCommentRequest  true  "Comment payload"
// @Success  201   {object}  domain.Comment
// @Failure  404   {object}  map[string]string
// @Failure  422   {object}  map[string]string
// @Router   /api/v1/comments [post]
func (h *CommentHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateCommentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	comment, err := h.svc.Create(r.Context(), apimw.GetUserID(r.Context()), req)
	if err != nil {
		h.logger.Warn("create comment failed",
			zap.String("correlation_id", apimw.GetCorrelationID(r.Context())),
			zap.Error(err),
		)
		mapError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, comment)
}

// Reply handles POST /api/v1/comments/{id}/replies
//
// @Summary  Reply to an existing comment
// @Tags     comments
// @Accept   json
// @Produce  json
// @Param    id    path      string               true  "Parent comment UUID"
// @Param    body  body      domain.ReplyRequest  true  "Reply payload"
// @Success  201   {object}  domain.Comment
// @Failure  404   {object}  map[string]string
// @Router   /api/v1/comments/{id}/replies [post]
func (h *CommentHandler) Reply(w http.ResponseWriter, r *http.Request) {
	var req domain.ReplyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	req.ParentID = chi.URLParam(r, "id")

	reply, err := h.svc.Reply(r.Context(), apimw.GetUserID(r.Context()), req)
	if err != nil {
		mapError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, reply)
}

// Edit handles PUT /api/v1/comments/{id}
//
// @Summary  Edit a comment's content (owner only)
// @Tags     comments
// @Accept   json
// @Produce  json
// @Param    id    path      string                     true  "Comment UUID"
// @Param    body  body      domain.EditCommentRequest  true  "Replacement content"
// @Success  200   {object}  domain.Comment
// @Failure  403   {object}  map[string]string
// @Failure  404   {object}  map[string]string
// @Router   /api/v1/comments/{id} [put]
func (h *CommentHandler) Edit(w http.ResponseWriter, r *http.Request) {
	var req domain.EditCommentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	comment, err := h.svc.Edit(r.Context(), apimw.GetUserID(r.Context()), chi.URLParam(r, "id"), req)
	if err != nil {
		mapError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, comment)
}

// ListByBlog handles GET /api/v1/blogs/{id}/comments
//
// @Summary  List a post's comment threads
// @Tags     comments
// @Produce  json
// @Param    id   path     string  true  "Post UUID"
// @Success  200  {array}  domain.CommentThread
// @Router   /api/v1/blogs/{id}/comments [get]
func (h *CommentHandler) ListByBlog(w http.ResponseWriter, r *http.Request) {
	threads, err := h.svc.ListByBlog(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		mapError(w, err)
		return
	}
	if threads == nil {
		threads = []*domain.CommentThread{}
	}
	respondJSON(w, http.StatusOK, threads)
}

// Delete handles DELETE /api/v1/comments/{id}
//
// @Summary  Delete a comment and its replies (owner or admin)
// @Tags     comments
// @Param    id   path  string  true  "Comment UUID"
// @Success  204
// @Failure  403  {object}  map[string]string
// @Failure  404  {object}  map[string]string
// @Router   /api/v1/comments/{id} [delete]
func (h *CommentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Delete(r.Context(), apimw.GetUserID(r.Context()), chi.URLParam(r, "id")); err != nil {
		mapError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ToggleLike handles POST /api/v1/comments/{id}/like
//
// @Summary  Toggle the caller's like on a comment
// @Tags     comments
// @Produce  json
// @Param    id   path      string  true  "Comment UUID"
// @Success  200  {object}  map[string]any
// @Failure  404  {object}  map[string]string
// @Router   /api/v1/comments/{id}/like [post]
func (h *CommentHandler) ToggleLike(w http.ResponseWriter, r *http.Request) {
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
