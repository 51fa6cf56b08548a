package subscription

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/inkpress/blog-engine/internal/domain"
	"github.com/inkpress/blog-engine/internal/repository"
)

// Resolver decides which readers receive a content notification mail.
//
// Selection rule: a user qualifies when their subscription set contains the
// exact category, or when it holds every known category — the "subscribed
// to everything" shortcut. The two clauses are deliberately separate even
// though they overlap today: holding everything selects the user for every
// category, including any added to the taxonomy later.
type Resolver struct {
	users  repository.UserRepository
	logger *zap.Logger
}

func NewResolver(users repository.UserRepository, logger *zap.Logger) *Resolver {
	return &Resolver{users: users, logger: logger}
}

// FindInterested returns the deduplicated recipients for the category. A
// user appears at most once even when both selection clauses match.
func (r *Resolver) FindInterested(ctx context.Context, category domain.Category) ([]domain.Subscriber, error) {
	if !category.IsValid() {
		return nil, domain.ErrInvalidCategory
	}

	subs, err := r.users.ListSubscriptions(ctx)
	if err != nil {
		return nil, fmt.Errorf("list subscriptions: %w", err)
	}

	seen := make(map[string]struct{}, len(subs))
	var interested []domain.Subscriber
	for _, us := range subs {
		if !us.Set.Has(category) && !us.Set.HasAll() {
			continue
		}
		if _, dup := seen[us.UserID]; dup {
			continue
		}
		seen[us.UserID] = struct{}{}

		if us.Email == "" {
			r.logger.Debug("skipping subscriber without email",
				zap.String("user_id", us.UserID))
			continue
		}
		interested = append(interested, us.Subscriber)
	}

	return interested, nil
}
