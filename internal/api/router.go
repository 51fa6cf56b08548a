package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/inkpress/blog-engine/internal/api/handler"
	apimw "github.com/inkpress/blog-engine/internal/api/middleware"
	"github.com/inkpress/blog-engine/internal/service"
)

// Services groups everything the router needs injected.
type Services struct {
	Blogs         *service.BlogService
	Comments      *service.CommentService
	Users         *service.UserService
	Notifications *service.NotificationService
}

// NewRouter wires the chi router, attaches all middleware, and registers
// every route. It is the single source of truth for the HTTP surface area.
func NewRouter(svcs Services, reg prometheus.Gatherer, logger *zap.Logger) http.Handler {
	r := chi.NewRouter()

	// --- global middleware (applied to every route) ---
	r.Use(chimw.Recoverer)          // recover panics, return 500
	r.Use(chimw.RealIP)             // trust X-Forwarded-For / X-Real-IP
	r.Use(chimw.RequestSize(1 << 20)) // 1 MB max request body
	r.Use(apimw.CorrelationID)      // X-Correlation-ID inject / echo
	r.Use(apimw.Identity)           // X-User-ID from the auth gateway
	r.Use(apimw.RequestLogger(logger))

	// --- handler instances ---
	bh := handler.NewBlogHandler(svcs.Blogs, logger)
	ch := handler.NewCommentHandler(svcs.Comments, logger)
	uh := handler.NewUserHandler(svcs.Users, logger)
	nh := handler.NewNotificationHandler(svcs.Notifications, logger)
	hh := handler.NewHealthHandler()

	// --- routes ---
	r.Get("/health", hh.Health)

	// Raw Prometheus scrape endpoint (for Prometheus server / Grafana)
	r.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))

	r.Route("/api/v1", func(r chi.Router) {
		// Public read surface.
		r.Get("/blogs", bh.List)
		r.Get("/blogs/{id}", bh.GetByID)
		r.Get("/blogs/{id}/comments", ch.ListByBlog)

		// Login sync comes straight from the auth gateway, before the
		// user has an X-User-ID of their own.
		r.Post("/users", uh.Upsert)

		// Everything below needs an authenticated caller.
		r.Group(func(r chi.Router) {
			r.Use(apimw.RequireUser)

			r.Post("/blogs", bh.Create)
			r.Get("/blogs/status/{status}", bh.ListByStatus)
			r.Put("/blogs/{id}", bh.Update)
			r.Delete("/blogs/{id}", bh.Delete)
			r.Post("/blogs/{id}/like", bh.ToggleLike)

			r.Post("/comments", ch.Create)
			r.Post("/comments/{id}/replies", ch.Reply)
			r.Put("/comments/{id}", ch.Edit)
			r.Delete("/comments/{id}", ch.Delete)
			r.Post("/comments/{id}/like", ch.ToggleLike)

			r.Get("/users/me", uh.Me)
			r.Post("/users/me/subscriptions", uh.Subscribe)

			r.Get("/notifications", nh.List)
		})
	})

	return r
}
