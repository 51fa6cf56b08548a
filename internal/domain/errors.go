package domain

import "errors"

// Sentinel errors used throughout the application.
// Handlers translate these to HTTP status codes via a single mapError function.
var (
	ErrNotFound           = errors.New("not found")
	ErrForbidden          = errors.New("forbidden")
	ErrInvalidTitle       = errors.New("title must not be empty")
	ErrInvalidContent     = errors.New("content must not be empty")
	ErrInvalidContentType = errors.New("invalid type: must be Article or Diary")
	ErrInvalidStatus      = errors.New("invalid status: must be Published or Draft")
	ErrTooManyTags        = errors.New("maximum 5 tags allowed")
	ErrCommentEmpty       = errors.New("comment cannot be empty")
	ErrMissingReference   = errors.New("blog or parent comment reference is required")
	ErrInvalidUID         = errors.New("uid must not be empty")
	ErrInvalidName        = errors.New("name must not be empty")
	ErrInvalidEmail       = errors.New("email must not be empty")
	ErrNoCategories       = errors.New("at least one category is required")
	ErrInvalidCategory    = errors.New("invalid category: must be diary or social")
	ErrInvalidEvent       = errors.New("invalid event payload")
)
