package handler

import (
	"net/http"
	"strconv"

	"go.uber.org/zap"

	apimw "github.com/inkpress/blog-engine/internal/api/middleware"
	"github.com/inkpress/blog-engine/internal/service"
)

// NotificationHandler serves the notification feed built by the subscriber
// process.
type NotificationHandler struct {
	svc    *service.NotificationService
	logger *zap.Logger
}

func NewNotificationHandler(svc *service.NotificationService, logger *zap.Logger) *NotificationHandler {
	return &NotificationHandler{svc: svc, logger: logger}
}

// List handles GET /api/v1/notifications
//
// @Summary  List recent notifications, newest first (admin only)
// @Tags     notifications
// @Produce  json
// @Param    page  query     int  false  "Page number (default 1)"
// @Success  200   {object}  domain.NotificationPage
// @Failure  403   {object}  map[string]string
// @Router   /api/v1/notifications [get]
func (h *NotificationHandler) List(w http.ResponseWriter, r *http.Request) {
	page := 1
	if p, err := strconv.Atoi(r.URL.Query().Get("page")); err == nil && p > 0 {
		page = p
	}

	feed, err := h.svc.ListRecent(r.Context(), apimw.GetUserID(r.Context()), page)
	if err != nil {
		h.logger.Warn("list notifications failed", zap.Error(err))
		mapError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, feed)
}
