package projector

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/inkpress/blog-engine/internal/domain"
	"github.com/inkpress/blog-engine/internal/repository"
)

// MetricHooks carries the metric callbacks injected by main.
type MetricHooks struct {
	OnProjected func(kind domain.EventKind)
	OnFailed    func(kind domain.EventKind)
}

// Projector consumes events from the channel and persists notification feed
// entries. It runs in the subscriber process, decoupled from the write path:
// creating a post, comment, or account never waits on notification storage.
//
// Delivery is at-most-once and best-effort. A failed persist is logged, not
// requeued; a malformed payload is logged and dropped. Nothing here may
// crash the subscriber loop.
type Projector struct {
	notifications repository.NotificationRepository
	users         repository.UserRepository
	blogs         repository.BlogRepository
	logger        *zap.Logger
	hooks         MetricHooks

	now func() time.Time
}

func New(
	notifications repository.NotificationRepository,
	users repository.UserRepository,
	blogs repository.BlogRepository,
	logger *zap.Logger,
	hooks MetricHooks,
) *Projector {
	if hooks.OnProjected == nil {
		hooks.OnProjected = func(domain.EventKind) {}
	}
	if hooks.OnFailed == nil {
		hooks.OnFailed = func(domain.EventKind) {}
	}
	return &Projector{
		notifications: notifications,
		users:         users,
		blogs:         blogs,
		logger:        logger,
		hooks:         hooks,
		now:           time.Now,
	}
}

// Handle is the events.Handler for every subscribed topic. One event yields
// at most one notification record.
func (p *Projector) Handle(ctx context.Context, evt domain.Event) {
	log := p.logger.With(
		zap.String("kind", string(evt.Kind)),
		zap.String("actor_id", evt.ActorID),
	)

	if err := evt.Validate(); err != nil {
		log.Warn("dropping invalid event", zap.Error(err))
		p.hooks.OnFailed(evt.Kind)
		return
	}

	n := &domain.Notification{
		ID:        uuid.New().String(),
		Type:      evt.Kind,
		Message:   evt.Message,
		ActorID:   evt.ActorID,
		BlogID:    evt.BlogID,
		CreatedAt: p.now().UTC(),
	}

	// Prefer the actor's current display fields; the embedded snapshot
	// covers the case where the row was deleted between publish and now.
	n.ActorName = evt.ActorSnapshot.Name
	n.ActorPhotoURL = evt.ActorSnapshot.PhotoURL
	actor, err := p.users.GetByID(ctx, evt.ActorID)
	switch {
	case err == nil:
		n.ActorName = actor.Name
		n.ActorPhotoURL = actor.PhotoURL
	case errors.Is(err, domain.ErrNotFound):
		log.Debug("actor no longer resolvable, using snapshot")
	default:
		log.Warn("actor lookup failed, using snapshot", zap.Error(err))
	}

	n.BlogTitle = evt.TitleSnapshot
	if evt.BlogID != nil {
		blog, err := p.blogs.GetByID(ctx, *evt.BlogID)
		switch {
		case err == nil:
			n.BlogTitle = &blog.Title
		case errors.Is(err, domain.ErrNotFound):
			log.Debug("blog no longer resolvable, using title snapshot")
		default:
			log.Warn("blog lookup failed, using title snapshot", zap.Error(err))
		}
	}

	if err := p.notifications.Create(ctx, n); err != nil {
		log.Error("failed to persist notification", zap.Error(err))
		p.hooks.OnFailed(evt.Kind)
		return
	}

	p.hooks.OnProjected(evt.Kind)
	log.Info("notification projected", zap.String("notification_id", n.ID))
}
