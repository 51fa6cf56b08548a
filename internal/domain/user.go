package domain

import "time"

// Category is a notification-mail interest category a reader can subscribe to.
// Diary posts notify "diary" subscribers, Articles notify "social" subscribers.
type Category string

const (
	CategoryDiary  Category = "diary"
	CategorySocial Category = "social"
)

func (c Category) IsValid() bool {
	switch c {
	case CategoryDiary, CategorySocial:
		return true
	}
	return false
}

// AllCategories is the closed set of known interest categories.
var AllCategories = []Category{CategoryDiary, CategorySocial}

// CategoryFor maps a content type to the interest category its publication
// notifies.
func CategoryFor(t ContentType) Category {
	if t == TypeDiary {
		return CategoryDiary
	}
	return CategorySocial
}

// SubscriptionSet is a user's set of interest categories. It only grows:
// subscribing adds categories, and there is no removal path.
type SubscriptionSet map[Category]struct{}

func NewSubscriptionSet(categories ...Category) SubscriptionSet {
	s := make(SubscriptionSet, len(categories))
	for _, c := range categories {
		s[c] = struct{}{}
	}
	return s
}

func (s SubscriptionSet) Has(c Category) bool {
	_, ok := s[c]
	return ok
}

// HasAll reports whether the set holds every known category, the
// "subscribed to everything" shortcut. It is deliberately distinct from
// per-category membership: the welcome-mail variant and the resolver's
// selection rule both depend on the distinction.
func (s SubscriptionSet) HasAll() bool {
	for _, c := range AllCategories {
		if !s.Has(c) {
			return false
		}
	}
	return true
}

func (s SubscriptionSet) Add(c Category) {
	s[c] = struct{}{}
}

// Slice returns the categories in stable (declaration) order.
func (s SubscriptionSet) Slice() []Category {
	out := make([]Category, 0, len(s))
	for _, c := range AllCategories {
		if s.Has(c) {
			out = append(out, c)
		}
	}
	return out
}

// User is a registered reader or author. Auth happens upstream; the gateway
// hands us a verified external UID and profile fields.
type User struct {
	ID        string    `json:"id"`
	UID       string    `json:"uid"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	PhotoURL  string    `json:"photo_url"`
	IsAdmin   bool      `json:"is_admin"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// UpsertUserRequest is the payload posted by the auth layer after a
// successful external login.
type UpsertUserRequest struct {
	UID      string `json:"uid"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	PhotoURL string `json:"photo_url"`
}

func (r *UpsertUserRequest) Validate() error {
	if r.UID == "" {
		return ErrInvalidUID
	}
	if r.Name == "" {
		return ErrInvalidName
	}
	if r.Email == "" {
		return ErrInvalidEmail
	}
	return nil
}

// SubscribeRequest adds categories to the caller's subscription set.
type SubscribeRequest struct {
	Categories []Category `json:"categories"`
}

func (r *SubscribeRequest) Validate() error {
	if len(r.Categories) == 0 {
		return ErrNoCategories
	}
	for _, c := range r.Categories {
		if !c.IsValid() {
			return ErrInvalidCategory
		}
	}
	return nil
}

// Subscriber is a resolved mail recipient: the subset of User the mail
// fan-out needs.
type Subscriber struct {
	UserID string
	Name   string
	Email  string
}

// UserSubscriptions pairs a mail recipient with their full subscription set,
// the shape the resolver evaluates its selection rule over.
type UserSubscriptions struct {
	Subscriber
	Set SubscriptionSet
}
