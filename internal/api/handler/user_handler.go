package handler

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	apimw "github.com/inkpress/blog-engine/internal/api/middleware"
	"github.com/inkpress/blog-engine/internal/domain"
	"github.com/inkpress/blog-engine/internal/service"
)

// UserHandler handles profile upserts and subscription management.
type UserHandler struct {
	svc    *service.UserService
	logger *zap.Logger
}

func NewUserHandler(svc *service.UserService, logger *zap.Logger) *UserHandler {
	return &UserHandler{svc: svc, logger: logger}
}

// Upsert handles POST /api/v1/users
//
// @Summary  Record a login from the auth gateway
// @Tags     users
// @Accept   json
// @Produce  json
// @Param    body  body      domain.UpsertUserRequest  true  "Profile from the identity provider"
// @Success  201   {object}  domain.User  "First login: account created"
// @Success  200   {object}  domain.User  "Returning login: profile refreshed"
// @Failure  422   {object}  map[string]string
// @Router   /api/v1/users [post]
func (h *UserHandler) Upsert(w http.ResponseWriter, r *http.Request) {
	var req domain.UpsertUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	user, created, err := h.svc.Upsert(r.Context(), req)
	if err != nil {
		h.logger.Warn("upsert user failed",
			zap.String("correlation_id", apimw.GetCorrelationID(r.Context())),
			zap.Error(err),
		)
		mapError(w, err)
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	respondJSON(w, status, user)
}

// Me handles GET /api/v1/users/me
//
// @Summary  Get the caller's profile
// @Tags     users
// @Produce  json
// @Success  200  {object}  domain.User
// @Failure  404  {object}  map[string]string
// @Router   /api/v1/users/me [get]
func (h *UserHandler) Me(w http.ResponseWriter, r *http.Request) {
	user, err := h.svc.GetByID(r.Context(), apimw.GetUserID(r.Context()))
	if err != nil {
		mapError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, user)
}

// Subscribe handles POST /api/v1/users/me/subscriptions
//
// @Summary  Add mail subscription categories for the caller
// @Tags     users
// @Accept   json
// @Produce  json
// @Param    body  body      domain.SubscribeRequest  true  "Categories to add"
// @Success  200   {object}  map[string]any           "Full subscription set after the addition"
// @Failure  422   {object}  map[string]string
// @Router   /api/v1/users/me/subscriptions [post]
func (h *UserHandler) Subscribe(w http.ResponseWriter, r *http.Request) {
	var req domain.SubscribeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	set, err := h.svc.Subscribe(r.Context(), apimw.GetUserID(r.Context()), req)
	if err != nil {
		mapError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"subscriptions": set.Slice()})
}
