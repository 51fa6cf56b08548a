package domain

import "time"

// Notification is the persisted feed entry created by the projector when it
// consumes an event. Records are immutable after creation: the feed is
// create-then-read-only, pruned only by an external retention policy.
//
// ActorName/ActorPhotoURL and BlogTitle hold live-resolved values when the
// referenced rows still existed at projection time, and the payload
// snapshots otherwise.
type Notification struct {
	ID            string    `json:"id"`
	Type          EventKind `json:"type"`
	Message       string    `json:"message"`
	ActorID       string    `json:"actor_id"`
	ActorName     string    `json:"actor_name"`
	ActorPhotoURL string    `json:"actor_photo_url"`
	BlogID        *string   `json:"blog_id,omitempty"`
	BlogTitle     *string   `json:"blog_title,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

// NotificationPage is one page of the feed, most recent first.
type NotificationPage struct {
	Notifications []*Notification `json:"notifications"`
	Total         int             `json:"total"`
	Page          int             `json:"page"`
	Limit         int             `json:"limit"`
}
