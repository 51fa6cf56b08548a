package domain

import "fmt"

// EventKind discriminates the event payload union. One pub/sub topic exists
// per kind.
type EventKind string

const (
	EventContentPublished EventKind = "content_published"
	EventCommentCreated   EventKind = "comment_created"
	EventReplyCreated     EventKind = "reply_created"
	EventUserSignedUp     EventKind = "user_signed_up"
)

func (k EventKind) IsValid() bool {
	switch k {
	case EventContentPublished, EventCommentCreated, EventReplyCreated, EventUserSignedUp:
		return true
	}
	return false
}

// ActorSnapshot is a denormalized copy of the acting user's display fields,
// embedded at publish time so the projector can still render the event if
// the user row is gone by the time it runs.
type ActorSnapshot struct {
	Name     string `json:"name"`
	PhotoURL string `json:"photo_url"`
}

// Event is the wire payload published on the event channel.
//
// It is a tagged union: Kind selects the variant, and the optional fields
// BlogID/TitleSnapshot are present only for the content-bearing kinds.
// The payload must carry enough denormalized state that the subscriber
// process never needs the publisher's memory — only its durable storage,
// and the snapshots as a fallback.
type Event struct {
	Kind          EventKind     `json:"type"`
	Message       string        `json:"message"`
	ActorID       string        `json:"actor_id"`
	ActorSnapshot ActorSnapshot `json:"actor_snapshot"`
	BlogID        *string       `json:"blog_id,omitempty"`
	TitleSnapshot *string       `json:"title_snapshot,omitempty"`
}

// Validate enforces the per-variant required fields.
func (e *Event) Validate() error {
	if !e.Kind.IsValid() {
		return fmt.Errorf("%w: unknown kind %q", ErrInvalidEvent, e.Kind)
	}
	if e.ActorID == "" {
		return fmt.Errorf("%w: missing actor", ErrInvalidEvent)
	}
	if e.Message == "" {
		return fmt.Errorf("%w: missing message", ErrInvalidEvent)
	}
	switch e.Kind {
	case EventContentPublished, EventCommentCreated, EventReplyCreated:
		if e.BlogID == nil || *e.BlogID == "" {
			return fmt.Errorf("%w: %s requires a blog reference", ErrInvalidEvent, e.Kind)
		}
	}
	return nil
}

func snapshotOf(u *User) ActorSnapshot {
	return ActorSnapshot{Name: u.Name, PhotoURL: u.PhotoURL}
}

// NewContentPublishedEvent announces a post going live.
func NewContentPublishedEvent(blog *Blog, author *User) Event {
	return Event{
		Kind:          EventContentPublished,
		Message:       fmt.Sprintf("%s published %q", author.Name, blog.Title),
		ActorID:       author.ID,
		ActorSnapshot: snapshotOf(author),
		BlogID:        &blog.ID,
		TitleSnapshot: &blog.Title,
	}
}

// NewCommentCreatedEvent announces a reader commenting on a post.
func NewCommentCreatedEvent(blog *Blog, commenter *User) Event {
	return Event{
		Kind:          EventCommentCreated,
		Message:       fmt.Sprintf("%s commented on %q", commenter.Name, blog.Title),
		ActorID:       commenter.ID,
		ActorSnapshot: snapshotOf(commenter),
		BlogID:        &blog.ID,
		TitleSnapshot: &blog.Title,
	}
}

// NewReplyCreatedEvent announces a reply to an author's comment.
func NewReplyCreatedEvent(blog *Blog, replier *User) Event {
	return Event{
		Kind:          EventReplyCreated,
		Message:       fmt.Sprintf("%s replied to your comment on %q", replier.Name, blog.Title),
		ActorID:       replier.ID,
		ActorSnapshot: snapshotOf(replier),
		BlogID:        &blog.ID,
		TitleSnapshot: &blog.Title,
	}
}

// NewUserSignedUpEvent announces a first-time signup. It carries no blog
// reference.
func NewUserSignedUpEvent(u *User) Event {
	return Event{
		Kind:          EventUserSignedUp,
		Message:       fmt.Sprintf("%s joined the blog", u.Name),
		ActorID:       u.ID,
		ActorSnapshot: snapshotOf(u),
	}
}
