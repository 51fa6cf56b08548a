package domain

import (
	"regexp"
	"strings"
	"time"
)

// ContentType is the editorial category of a blog post.
type ContentType string

const (
	TypeArticle ContentType = "Article"
	TypeDiary   ContentType = "Diary"
)

func (t ContentType) IsValid() bool {
	switch t {
	case TypeArticle, TypeDiary:
		return true
	}
	return false
}

// TypeAll is the listing dimension spanning both content types, used for
// the combined front-page listing. It is a cache dimension only, never a
// valid value for a post's Type field.
const TypeAll ContentType = "all"

// AllContentTypes is the closed set of listing dimensions the cache layer
// keys on. Mutations whose effect on categorisation is ambiguous invalidate
// every entry in this set.
var AllContentTypes = []ContentType{TypeArticle, TypeDiary, TypeAll}

// Status tracks the publication lifecycle of a blog post.
type Status string

const (
	StatusPublished Status = "Published"
	StatusDraft     Status = "Draft"
)

func (s Status) IsValid() bool {
	switch s {
	case StatusPublished, StatusDraft:
		return true
	}
	return false
}

// Blog is the core content entity.
type Blog struct {
	ID         string      `json:"id"`
	Title      string      `json:"title"`
	Content    string      `json:"content"`
	Tags       []string    `json:"tags"`
	Type       ContentType `json:"type"`
	Status     Status      `json:"status"`
	AuthorID   string      `json:"author_id"`
	Thumbnail  string      `json:"thumbnail"`
	TimeToRead int         `json:"time_to_read"`
	LikedBy    []string    `json:"liked_by"`
	PostedAt   time.Time   `json:"posted_at"`
	CreatedAt  time.Time   `json:"created_at"`
	UpdatedAt  time.Time   `json:"updated_at"`
}

// Summary converts a blog into its listing projection.
func (b *Blog) Summary() BlogSummary {
	return BlogSummary{
		ID:         b.ID,
		Title:      b.Title,
		Type:       b.Type,
		Thumbnail:  b.Thumbnail,
		TimeToRead: b.TimeToRead,
		LikeCount:  len(b.LikedBy),
		PostedAt:   b.PostedAt,
	}
}

// BlogSummary is the trimmed projection served by listing endpoints and
// stored in the listing cache. Full content is never cached.
type BlogSummary struct {
	ID         string      `json:"id"`
	Title      string      `json:"title"`
	Type       ContentType `json:"type"`
	Thumbnail  string      `json:"thumbnail"`
	TimeToRead int         `json:"time_to_read"`
	LikeCount  int         `json:"like_count"`
	PostedAt   time.Time   `json:"posted_at"`
}

// CreateBlogRequest is the inbound payload for creating a post.
// Status defaults to Draft when omitted.
type CreateBlogRequest struct {
	Title     string      `json:"title"`
	Content   string      `json:"content"`
	Tags      []string    `json:"tags"`
	Type      ContentType `json:"type"`
	Status    Status      `json:"status"`
	Thumbnail string      `json:"thumbnail"`
}

func (r *CreateBlogRequest) Validate() error {
	if r.Status == "" {
		r.Status = StatusDraft
	}
	if strings.TrimSpace(r.Title) == "" {
		return ErrInvalidTitle
	}
	if r.Content == "" {
		return ErrInvalidContent
	}
	if !r.Type.IsValid() {
		return ErrInvalidContentType
	}
	if !r.Status.IsValid() {
		return ErrInvalidStatus
	}
	if len(r.Tags) > 5 {
		return ErrTooManyTags
	}
	return nil
}

// UpdateBlogRequest carries a full replacement of the editable fields.
type UpdateBlogRequest struct {
	Title     string      `json:"title"`
	Content   string      `json:"content"`
	Tags      []string    `json:"tags"`
	Type      ContentType `json:"type"`
	Status    Status      `json:"status"`
	Thumbnail string      `json:"thumbnail"`
}

func (r *UpdateBlogRequest) Validate() error {
	c := CreateBlogRequest{
		Title:   r.Title,
		Content: r.Content,
		Tags:    r.Tags,
		Type:    r.Type,
		Status:  r.Status,
	}
	if err := c.Validate(); err != nil {
		return err
	}
	r.Status = c.Status
	return nil
}

var htmlTagRe = regexp.MustCompile(`<[^>]+>`)

// TimeToRead estimates reading time in minutes from rich-text content.
// HTML tags are stripped and the plain text counted at 200 words per minute,
// with a floor of one minute.
func TimeToRead(content string) int {
	plain := htmlTagRe.ReplaceAllString(content, " ")
	words := len(strings.Fields(plain))
	minutes := (words + 199) / 200
	if minutes < 1 {
		minutes = 1
	}
	return minutes
}
