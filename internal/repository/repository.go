package repository

import (
	"context"

	"github.com/inkpress/blog-engine/internal/domain"
)

// BlogRepository defines all persistence operations for blog posts.
// The pgx implementation is in pg_blog_repo.go; tests use the hand-written
// mocks in mock_repos.go.
type BlogRepository interface {
	Create(ctx context.Context, b *domain.Blog) error
	GetByID(ctx context.Context, id string) (*domain.Blog, error)
	Update(ctx context.Context, b *domain.Blog) error
	Delete(ctx context.Context, id string) error
	// ListPublished returns published posts of the given type, newest first.
	// This is the cache's source of truth.
	ListPublished(ctx context.Context, t domain.ContentType) ([]*domain.Blog, error)
	// ListByStatus returns posts in the given status, newest first. An empty
	// type matches both types; ListByStatus(StatusPublished, "") is the
	// source of truth for the combined listing.
	ListByStatus(ctx context.Context, s domain.Status, t domain.ContentType) ([]*domain.Blog, error)
	// ToggleLike atomically adds or removes the user from the post's like
	// set and returns the resulting set.
	ToggleLike(ctx context.Context, blogID, userID string) ([]string, error)
}

// UserRepository defines persistence for users and their subscription sets.
type UserRepository interface {
	// Upsert creates the user keyed on the external UID, or refreshes the
	// profile fields of an existing row. It reports whether a new row was
	// created so the caller can publish the signup event exactly once.
	Upsert(ctx context.Context, u *domain.User) (created bool, err error)
	GetByID(ctx context.Context, id string) (*domain.User, error)
	// AddSubscriptions grows the user's subscription set. Categories the
	// user already holds are ignored; the set never shrinks.
	AddSubscriptions(ctx context.Context, userID string, categories []domain.Category) error
	GetSubscriptions(ctx context.Context, userID string) (domain.SubscriptionSet, error)
	// ListSubscriptions returns every user holding at least one category,
	// with their full set. Input to the subscription resolver.
	ListSubscriptions(ctx context.Context) ([]domain.UserSubscriptions, error)
}

// CommentRepository defines persistence for comments and replies.
type CommentRepository interface {
	Create(ctx context.Context, c *domain.Comment) error
	GetByID(ctx context.Context, id string) (*domain.Comment, error)
	// Update persists an edit; only content and updated_at change.
	Update(ctx context.Context, c *domain.Comment) error
	// ListByBlog returns every comment on the blog, top-level and replies,
	// newest first. Thread grouping happens in the service.
	ListByBlog(ctx context.Context, blogID string) ([]*domain.Comment, error)
	// DeleteWithReplies removes the comment and every direct reply to it.
	DeleteWithReplies(ctx context.Context, id string) error
	ToggleLike(ctx context.Context, commentID, userID string) ([]string, error)
}

// NotificationRepository defines persistence for the notification feed.
// Notifications are immutable: the only write is Create.
type NotificationRepository interface {
	Create(ctx context.Context, n *domain.Notification) error
	// ListRecent returns one page of the feed, most recent first, along
	// with the total record count.
	ListRecent(ctx context.Context, page, limit int) ([]*domain.Notification, int, error)
}
