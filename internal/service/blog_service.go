package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/inkpress/blog-engine/internal/background"
	"github.com/inkpress/blog-engine/internal/domain"
	"github.com/inkpress/blog-engine/internal/events"
	"github.com/inkpress/blog-engine/internal/listing"
	"github.com/inkpress/blog-engine/internal/mailer"
	"github.com/inkpress/blog-engine/internal/repository"
	"github.com/inkpress/blog-engine/internal/subscription"
)

// BlogService owns the content write path and the listing read path.
//
// Every mutation that changes which published posts appear in a listing
// invalidates the affected cache key before returning success, so a client
// re-fetching right after a write never sees the pre-write listing. The
// cross-cutting effects — event publish, reader mail fan-out — are
// fire-and-forget and never fail the request.
type BlogService struct {
	blogs      repository.BlogRepository
	users      repository.UserRepository
	cache      *listing.Gateway
	publisher  events.Publisher
	resolver   *subscription.Resolver
	dispatcher *mailer.BulkDispatcher
	tasks      *background.Runner
	clientURL  string
	logger     *zap.Logger
	hooks      PublishHooks
}

func NewBlogService(
	blogs repository.BlogRepository,
	users repository.UserRepository,
	cache *listing.Gateway,
	publisher events.Publisher,
	resolver *subscription.Resolver,
	dispatcher *mailer.BulkDispatcher,
	tasks *background.Runner,
	clientURL string,
	logger *zap.Logger,
	hooks PublishHooks,
) *BlogService {
	return &BlogService{
		blogs:      blogs,
		users:      users,
		cache:      cache,
		publisher:  publisher,
		resolver:   resolver,
		dispatcher: dispatcher,
		tasks:      tasks,
		clientURL:  clientURL,
		logger:     logger,
		hooks:      hooks.normalized(),
	}
}

// Create validates and persists a new post. Only admins author content.
// Creating directly in Published status triggers the full announcement
// flow: cache invalidation, content_published event, reader mail fan-out.
func (s *BlogService) Create(ctx context.Context, authorID string, req domain.CreateBlogRequest) (*domain.Blog, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	author, err := s.users.GetByID(ctx, authorID)
	if err != nil {
		return nil, fmt.Errorf("resolve author: %w", err)
	}
	if !author.IsAdmin {
		return nil, domain.ErrForbidden
	}

	now := time.Now().UTC()
	blog := &domain.Blog{
		ID:         uuid.New().String(),
		Title:      req.Title,
		Content:    req.Content,
		Tags:       req.Tags,
		Type:       req.Type,
		Status:     req.Status,
		AuthorID:   author.ID,
		Thumbnail:  req.Thumbnail,
		TimeToRead: domain.TimeToRead(req.Content),
		LikedBy:    []string{},
		PostedAt:   now,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := s.blogs.Create(ctx, blog); err != nil {
		return nil, fmt.Errorf("persist blog: %w", err)
	}

	if blog.Status == domain.StatusPublished {
		s.announce(ctx, blog, author)
	}

	return blog, nil
}

// GetByID returns the full post, draft or published.
func (s *BlogService) GetByID(ctx context.Context, id string) (*domain.Blog, error) {
	return s.blogs.GetByID(ctx, id)
}

// ListPublished serves the listing projection cache-first. An empty type
// serves the combined listing of both content types under its own cache
// key. On a miss the listing is recomputed from the database and the cache
// repopulated; a failed repopulation is logged and the fresh result still
// returned.
func (s *BlogService) ListPublished(ctx context.Context, t domain.ContentType) ([]domain.BlogSummary, error) {
	if t == "" {
		t = domain.TypeAll
	}
	if t != domain.TypeAll && !t.IsValid() {
		return nil, domain.ErrInvalidContentType
	}

	summaries, err := s.cache.GetListing(ctx, t)
	if err == nil {
		return summaries, nil
	}
	if !errors.Is(err, listing.ErrMiss) {
		return nil, err
	}

	var blogs []*domain.Blog
	if t == domain.TypeAll {
		blogs, err = s.blogs.ListByStatus(ctx, domain.StatusPublished, "")
	} else {
		blogs, err = s.blogs.ListPublished(ctx, t)
	}
	if err != nil {
		return nil, fmt.Errorf("compute listing: %w", err)
	}

	summaries = make([]domain.BlogSummary, 0, len(blogs))
	for _, b := range blogs {
		summaries = append(summaries, b.Summary())
	}

	if err := s.cache.Populate(ctx, t, summaries); err != nil {
		s.logger.Warn("listing cache populate failed",
			zap.String("content_type", string(t)), zap.Error(err))
	}

	return summaries, nil
}

// ListByStatus returns full posts in a status for the editor dashboard,
// optionally narrowed to one type. Drafts are private, so the whole read is
// admin-only. Never cached: it is a low-traffic admin read served straight
// from the database.
func (s *BlogService) ListByStatus(ctx context.Context, actorID string, status domain.Status, t domain.ContentType) ([]*domain.Blog, error) {
	if !status.IsValid() {
		return nil, domain.ErrInvalidStatus
	}
	if t != "" && !t.IsValid() {
		return nil, domain.ErrInvalidContentType
	}

	actor, err := s.users.GetByID(ctx, actorID)
	if err != nil {
		return nil, fmt.Errorf("resolve actor: %w", err)
	}
	if !actor.IsAdmin {
		return nil, domain.ErrForbidden
	}

	blogs, err := s.blogs.ListByStatus(ctx, status, t)
	if err != nil {
		return nil, fmt.Errorf("list blogs by status: %w", err)
	}
	if blogs == nil {
		blogs = []*domain.Blog{}
	}
	return blogs, nil
}

// Update replaces the editable fields of a post. The cache policy covers
// every listing-affecting shape of edit: a type change invalidates both the
// old and new type's keys, a status transition invalidates the affected
// key, and a draft-to-published transition additionally runs the full
// announcement flow.
func (s *BlogService) Update(ctx context.Context, actorID, id string, req domain.UpdateBlogRequest) (*domain.Blog, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	actor, err := s.users.GetByID(ctx, actorID)
	if err != nil {
		return nil, fmt.Errorf("resolve actor: %w", err)
	}
	if !actor.IsAdmin {
		return nil, domain.ErrForbidden
	}

	blog, err := s.blogs.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	prevType := blog.Type
	prevStatus := blog.Status

	blog.Title = req.Title
	blog.Content = req.Content
	blog.Tags = req.Tags
	blog.Type = req.Type
	blog.Status = req.Status
	blog.Thumbnail = req.Thumbnail
	blog.TimeToRead = domain.TimeToRead(req.Content)
	blog.UpdatedAt = time.Now().UTC()

	justPublished := prevStatus == domain.StatusDraft && blog.Status == domain.StatusPublished
	if justPublished {
		blog.PostedAt = blog.UpdatedAt
	}

	if err := s.blogs.Update(ctx, blog); err != nil {
		return nil, fmt.Errorf("persist blog update: %w", err)
	}

	wasListed := prevStatus == domain.StatusPublished
	isListed := blog.Status == domain.StatusPublished
	switch {
	case !wasListed && !isListed:
		// draft staying draft never appears in a listing
	case prevType != blog.Type:
		s.cache.InvalidateAll(ctx, prevType, blog.Type, domain.TypeAll)
	default:
		s.cache.InvalidateAll(ctx, blog.Type, domain.TypeAll)
	}

	if justPublished {
		author := actor
		if actor.ID != blog.AuthorID {
			if a, err := s.users.GetByID(ctx, blog.AuthorID); err == nil {
				author = a
			}
		}
		s.announce(ctx, blog, author)
	}

	return blog, nil
}

// Delete removes a post and, if it was published, invalidates its listing.
func (s *BlogService) Delete(ctx context.Context, actorID, id string) error {
	actor, err := s.users.GetByID(ctx, actorID)
	if err != nil {
		return fmt.Errorf("resolve actor: %w", err)
	}
	if !actor.IsAdmin {
		return domain.ErrForbidden
	}

	blog, err := s.blogs.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.blogs.Delete(ctx, id); err != nil {
		return err
	}

	if blog.Status == domain.StatusPublished {
		s.cache.InvalidateAll(ctx, blog.Type, domain.TypeAll)
	}
	return nil
}

// ToggleLike flips the caller's like on a post and returns the new like
// set. Likes do not change listing membership, but the cached projection
// carries a like count, so the affected entry is invalidated too.
func (s *BlogService) ToggleLike(ctx context.Context, userID, blogID string) ([]string, error) {
	blog, err := s.blogs.GetByID(ctx, blogID)
	if err != nil {
		return nil, err
	}

	likedBy, err := s.blogs.ToggleLike(ctx, blogID, userID)
	if err != nil {
		return nil, err
	}

	if blog.Status == domain.StatusPublished {
		s.cache.InvalidateAll(ctx, blog.Type, domain.TypeAll)
	}
	return likedBy, nil
}

// announce runs the cross-cutting effects of a post going live. The cache
// invalidation is synchronous (invalidate-before-acknowledge); the event
// publish is fire-and-forget; the mail fan-out runs detached so
// reader-facing latency never includes the mail provider's.
func (s *BlogService) announce(ctx context.Context, blog *domain.Blog, author *domain.User) {
	s.cache.InvalidateAll(ctx, blog.Type, domain.TypeAll)

	publishEvent(ctx, s.publisher, s.logger, s.hooks, domain.NewContentPublishedEvent(blog, author))

	b := *blog
	authorName := author.Name
	s.tasks.Go("publish-mail-fanout", func(ctx context.Context) {
		recipients, err := s.resolver.FindInterested(ctx, domain.CategoryFor(b.Type))
		if err != nil {
			s.logger.Error("resolving mail recipients failed",
				zap.String("blog_id", b.ID), zap.Error(err))
			return
		}
		if len(recipients) == 0 {
			return
		}

		msg := mailer.NewPostMessage(&b, authorName, s.clientURL)
		s.dispatcher.SendBulk(ctx, recipients, func(domain.Subscriber) (mailer.Message, error) {
			return msg, nil
		})
	})
}
