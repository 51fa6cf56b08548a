package domain

import (
	"strings"
	"time"
)

// Comment is a top-level comment or a reply (ParentID set) on a blog post.
type Comment struct {
	ID        string    `json:"id"`
	BlogID    string    `json:"blog_id"`
	UserID    string    `json:"user_id"`
	ParentID  *string   `json:"parent_id,omitempty"`
	Content   string    `json:"content"`
	LikedBy   []string  `json:"liked_by"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CommentThread is a top-level comment with its replies grouped under it,
// the shape the detail page renders.
type CommentThread struct {
	Comment
	Replies    []*Comment `json:"replies"`
	ReplyCount int        `json:"reply_count"`
}

// CreateCommentRequest posts a top-level comment on a blog.
type CreateCommentRequest struct {
	BlogID  string `json:"blog_id"`
	Content string `json:"content"`
}

func (r *CreateCommentRequest) Validate() error {
	if r.BlogID == "" {
		return ErrMissingReference
	}
	if strings.TrimSpace(r.Content) == "" {
		return ErrCommentEmpty
	}
	return nil
}

// ReplyRequest posts a reply under an existing comment.
type ReplyRequest struct {
	BlogID   string `json:"blog_id"`
	ParentID string `json:"parent_id"`
	Content  string `json:"content"`
}

func (r *ReplyRequest) Validate() error {
	if r.BlogID == "" || r.ParentID == "" {
		return ErrMissingReference
	}
	if strings.TrimSpace(r.Content) == "" {
		return ErrCommentEmpty
	}
	return nil
}

// EditCommentRequest replaces the content of an existing comment.
type EditCommentRequest struct {
	Content string `json:"content"`
}

func (r *EditCommentRequest) Validate() error {
	if strings.TrimSpace(r.Content) == "" {
		return ErrCommentEmpty
	}
	return nil
}
