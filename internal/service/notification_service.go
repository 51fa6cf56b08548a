package service

import (
	"context"
	"fmt"

	"github.com/inkpress/blog-engine/internal/domain"
	"github.com/inkpress/blog-engine/internal/repository"
)

// NotificationService serves the settings/inbox feed. The feed is written
// only by the projector in the subscriber process; this side is read-only.
type NotificationService struct {
	notifications repository.NotificationRepository
	users         repository.UserRepository
	pageSize      int
}

func NewNotificationService(notifications repository.NotificationRepository, users repository.UserRepository, pageSize int) *NotificationService {
	if pageSize < 1 {
		pageSize = 12
	}
	return &NotificationService{notifications: notifications, users: users, pageSize: pageSize}
}

// ListRecent returns one page of the feed, most recent first. The feed is
// the site owner's inbox, so only admins may read it.
func (s *NotificationService) ListRecent(ctx context.Context, actorID string, page int) (*domain.NotificationPage, error) {
	actor, err := s.users.GetByID(ctx, actorID)
	if err != nil {
		return nil, fmt.Errorf("resolve actor: %w", err)
	}
	if !actor.IsAdmin {
		return nil, domain.ErrForbidden
	}

	if page < 1 {
		page = 1
	}

	notifications, total, err := s.notifications.ListRecent(ctx, page, s.pageSize)
	if err != nil {
		return nil, err
	}
	if notifications == nil {
		notifications = []*domain.Notification{}
	}

	return &domain.NotificationPage{
		Notifications: notifications,
		Total:         total,
		Page:          page,
		Limit:         s.pageSize,
	}, nil
}
