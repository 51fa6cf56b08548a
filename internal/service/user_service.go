package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/inkpress/blog-engine/internal/background"
	"github.com/inkpress/blog-engine/internal/domain"
	"github.com/inkpress/blog-engine/internal/events"
	"github.com/inkpress/blog-engine/internal/mailer"
	"github.com/inkpress/blog-engine/internal/repository"
)

// UserService owns account upserts and subscription growth.
type UserService struct {
	users      repository.UserRepository
	publisher  events.Publisher
	dispatcher *mailer.BulkDispatcher
	tasks      *background.Runner
	logger     *zap.Logger
	hooks      PublishHooks
}

func NewUserService(
	users repository.UserRepository,
	publisher events.Publisher,
	dispatcher *mailer.BulkDispatcher,
	tasks *background.Runner,
	logger *zap.Logger,
	hooks PublishHooks,
) *UserService {
	return &UserService{
		users:      users,
		publisher:  publisher,
		dispatcher: dispatcher,
		tasks:      tasks,
		logger:     logger,
		hooks:      hooks.normalized(),
	}
}

// Upsert records a login from the upstream auth layer. A first-time signup
// publishes user_signed_up; a returning login just refreshes the profile.
func (s *UserService) Upsert(ctx context.Context, req domain.UpsertUserRequest) (*domain.User, bool, error) {
	if err := req.Validate(); err != nil {
		return nil, false, err
	}

	now := time.Now().UTC()
	user := &domain.User{
		ID:        uuid.New().String(),
		UID:       req.UID,
		Name:      req.Name,
		Email:     req.Email,
		PhotoURL:  req.PhotoURL,
		CreatedAt: now,
		UpdatedAt: now,
	}

	created, err := s.users.Upsert(ctx, user)
	if err != nil {
		return nil, false, fmt.Errorf("upsert user: %w", err)
	}

	if created {
		publishEvent(ctx, s.publisher, s.logger, s.hooks, domain.NewUserSignedUpEvent(user))
	}

	return user, created, nil
}

// GetByID returns the user's profile.
func (s *UserService) GetByID(ctx context.Context, id string) (*domain.User, error) {
	return s.users.GetByID(ctx, id)
}

// Subscribe grows the caller's subscription set — it never shrinks — and
// fires a detached welcome mail whose variant depends on the full set
// after the action: both known categories get the combined welcome.
func (s *UserService) Subscribe(ctx context.Context, userID string, req domain.SubscribeRequest) (domain.SubscriptionSet, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if err := s.users.AddSubscriptions(ctx, userID, req.Categories); err != nil {
		return nil, fmt.Errorf("add subscriptions: %w", err)
	}

	set, err := s.users.GetSubscriptions(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("read back subscriptions: %w", err)
	}

	msg, ok := mailer.WelcomeMessage(user.Name, set)
	if ok && user.Email != "" {
		recipient := domain.Subscriber{UserID: user.ID, Name: user.Name, Email: user.Email}
		s.tasks.Go("welcome-mail", func(ctx context.Context) {
			s.dispatcher.SendBulk(ctx, []domain.Subscriber{recipient},
				func(domain.Subscriber) (mailer.Message, error) { return msg, nil })
		})
	}

	return set, nil
}
