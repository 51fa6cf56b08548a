package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/inkpress/blog-engine/internal/domain"
	"github.com/inkpress/blog-engine/internal/events"
	"github.com/inkpress/blog-engine/internal/repository"
)

// CommentService owns comments and replies, and publishes the events that
// feed the admin's notification inbox.
type CommentService struct {
	comments  repository.CommentRepository
	blogs     repository.BlogRepository
	users     repository.UserRepository
	publisher events.Publisher
	logger    *zap.Logger
	hooks     PublishHooks
}

func NewCommentService(
	comments repository.CommentRepository,
	blogs repository.BlogRepository,
	users repository.UserRepository,
	publisher events.Publisher,
	logger *zap.Logger,
	hooks PublishHooks,
) *CommentService {
	return &CommentService{
		comments:  comments,
		blogs:     blogs,
		users:     users,
		publisher: publisher,
		logger:    logger,
		hooks:     hooks.normalized(),
	}
}

// Create posts a top-level comment. A comment from a regular reader
// publishes a comment_created event so the author sees it in their feed;
// the author commenting on their own site stays silent.
func (s *CommentService) Create(ctx context.Context, userID string, req domain.CreateCommentRequest) (*domain.Comment, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("resolve commenter: %w", err)
	}
	blog, err := s.blogs.GetByID(ctx, req.BlogID)
	if err != nil {
		return nil, err
	}

	comment := newComment(req.BlogID, user.ID, nil, req.Content)
	if err := s.comments.Create(ctx, comment); err != nil {
		return nil, fmt.Errorf("persist comment: %w", err)
	}

	if !user.IsAdmin {
		publishEvent(ctx, s.publisher, s.logger, s.hooks, domain.NewCommentCreatedEvent(blog, user))
	}

	return comment, nil
}

// Reply posts a reply under an existing comment. Replying to the admin's
// comment publishes a reply_created event.
func (s *CommentService) Reply(ctx context.Context, userID string, req domain.ReplyRequest) (*domain.Comment, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	parent, err := s.comments.GetByID(ctx, req.ParentID)
	if err != nil {
		return nil, err
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("resolve replier: %w", err)
	}
	blog, err := s.blogs.GetByID(ctx, req.BlogID)
	if err != nil {
		return nil, err
	}

	reply := newComment(req.BlogID, user.ID, &parent.ID, req.Content)
	if err := s.comments.Create(ctx, reply); err != nil {
		return nil, fmt.Errorf("persist reply: %w", err)
	}

	parentAuthor, err := s.users.GetByID(ctx, parent.UserID)
	if err == nil && parentAuthor.IsAdmin {
		publishEvent(ctx, s.publisher, s.logger, s.hooks, domain.NewReplyCreatedEvent(blog, user))
	}

	return reply, nil
}

// Edit replaces a comment's content. Only the comment's owner may edit;
// admins moderate by deleting, never by rewriting someone else's words.
func (s *CommentService) Edit(ctx context.Context, actorID, id string, req domain.EditCommentRequest) (*domain.Comment, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	comment, err := s.comments.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if comment.UserID != actorID {
		return nil, domain.ErrForbidden
	}

	comment.Content = req.Content
	comment.UpdatedAt = time.Now().UTC()
	if err := s.comments.Update(ctx, comment); err != nil {
		return nil, fmt.Errorf("persist comment edit: %w", err)
	}
	return comment, nil
}

// ListByBlog returns the blog's comments as threads: top-level comments
// newest first, each with its replies grouped under it.
func (s *CommentService) ListByBlog(ctx context.Context, blogID string) ([]*domain.CommentThread, error) {
	comments, err := s.comments.ListByBlog(ctx, blogID)
	if err != nil {
		return nil, err
	}

	replies := make(map[string][]*domain.Comment)
	var topLevel []*domain.Comment
	for _, c := range comments {
		if c.ParentID != nil {
			replies[*c.ParentID] = append(replies[*c.ParentID], c)
			continue
		}
		topLevel = append(topLevel, c)
	}

	threads := make([]*domain.CommentThread, 0, len(topLevel))
	for _, c := range topLevel {
		r := replies[c.ID]
		if r == nil {
			r = []*domain.Comment{}
		}
		threads = append(threads, &domain.CommentThread{
			Comment:    *c,
			Replies:    r,
			ReplyCount: len(r),
		})
	}
	return threads, nil
}

// Delete removes a comment and its replies. Allowed for the comment's
// owner and for admins.
func (s *CommentService) Delete(ctx context.Context, actorID, id string) error {
	comment, err := s.comments.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if comment.UserID != actorID {
		actor, err := s.users.GetByID(ctx, actorID)
		if err != nil {
			return fmt.Errorf("resolve actor: %w", err)
		}
		if !actor.IsAdmin {
			return domain.ErrForbidden
		}
	}

	return s.comments.DeleteWithReplies(ctx, id)
}

// ToggleLike flips the caller's like on a comment and returns the new set.
func (s *CommentService) ToggleLike(ctx context.Context, userID, commentID string) ([]string, error) {
	return s.comments.ToggleLike(ctx, commentID, userID)
}

func newComment(blogID, userID string, parentID *string, content string) *domain.Comment {
	now := time.Now().UTC()
	return &domain.Comment{
		ID:        uuid.New().String(),
		BlogID:    blogID,
		UserID:    userID,
		ParentID:  parentID,
		Content:   content,
		LikedBy:   []string{},
		CreatedAt: now,
		UpdatedAt: now,
	}
}
