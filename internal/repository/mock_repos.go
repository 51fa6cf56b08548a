package repository

import (
	"context"
	"sort"
	"sync"

	"github.com/inkpress/blog-engine/internal/domain"
)

// Hand-written, in-memory implementations of the repository interfaces used
// in unit tests. No mock-generation library needed. Error override fields
// simulate failure paths.

// ---- blogs ----

type MockBlogRepository struct {
	mu    sync.RWMutex
	blogs map[string]*domain.Blog

	CreateErr  error
	GetByIDErr error
	ListErr    error
}

func NewMockBlogRepository() *MockBlogRepository {
	return &MockBlogRepository{blogs: make(map[string]*domain.Blog)}
}

func (m *MockBlogRepository) Create(_ context.Context, b *domain.Blog) error {
	if m.CreateErr != nil {
		return m.CreateErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	clone := *b
	m.blogs[b.ID] = &clone
	return nil
}

func (m *MockBlogRepository) GetByID(_ context.Context, id string) (*domain.Blog, error) {
	if m.GetByIDErr != nil {
		return nil, m.GetByIDErr
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	b, ok := m.blogs[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	clone := *b
	return &clone, nil
}

func (m *MockBlogRepository) Update(_ context.Context, b *domain.Blog) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.blogs[b.ID]; !ok {
		return domain.ErrNotFound
	}
	clone := *b
	m.blogs[b.ID] = &clone
	return nil
}

func (m *MockBlogRepository) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.blogs[id]; !ok {
		return domain.ErrNotFound
	}
	delete(m.blogs, id)
	return nil
}

func (m *MockBlogRepository) ListPublished(_ context.Context, t domain.ContentType) ([]*domain.Blog, error) {
	if m.ListErr != nil {
		return nil, m.ListErr
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var result []*domain.Blog
	for _, b := range m.blogs {
		if b.Status == domain.StatusPublished && b.Type == t {
			clone := *b
			result = append(result, &clone)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].PostedAt.After(result[j].PostedAt)
	})
	return result, nil
}

func (m *MockBlogRepository) ListByStatus(_ context.Context, s domain.Status, t domain.ContentType) ([]*domain.Blog, error) {
	if m.ListErr != nil {
		return nil, m.ListErr
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var result []*domain.Blog
	for _, b := range m.blogs {
		if b.Status != s {
			continue
		}
		if t != "" && b.Type != t {
			continue
		}
		clone := *b
		result = append(result, &clone)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].PostedAt.After(result[j].PostedAt)
	})
	return result, nil
}

func (m *MockBlogRepository) ToggleLike(_ context.Context, blogID, userID string) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.blogs[blogID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	b.LikedBy = toggleMember(b.LikedBy, userID)
	return append([]string(nil), b.LikedBy...), nil
}

// ---- users ----

type MockUserRepository struct {
	mu            sync.RWMutex
	users         map[string]*domain.User // by ID
	subscriptions map[string]domain.SubscriptionSet

	UpsertErr error
}

func NewMockUserRepository() *MockUserRepository {
	return &MockUserRepository{
		users:         make(map[string]*domain.User),
		subscriptions: make(map[string]domain.SubscriptionSet),
	}
}

func (m *MockUserRepository) Upsert(_ context.Context, u *domain.User) (bool, error) {
	if m.UpsertErr != nil {
		return false, m.UpsertErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.users {
		if existing.UID == u.UID {
			existing.Name = u.Name
			existing.Email = u.Email
			existing.PhotoURL = u.PhotoURL
			*u = *existing
			return false, nil
		}
	}
	clone := *u
	m.users[u.ID] = &clone
	return true, nil
}

func (m *MockUserRepository) GetByID(_ context.Context, id string) (*domain.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	u, ok := m.users[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	clone := *u
	return &clone, nil
}

func (m *MockUserRepository) AddSubscriptions(_ context.Context, userID string, categories []domain.Category) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	set, ok := m.subscriptions[userID]
	if !ok {
		set = domain.NewSubscriptionSet()
		m.subscriptions[userID] = set
	}
	for _, c := range categories {
		set.Add(c)
	}
	return nil
}

func (m *MockUserRepository) GetSubscriptions(_ context.Context, userID string) (domain.SubscriptionSet, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	set := domain.NewSubscriptionSet()
	for c := range m.subscriptions[userID] {
		set.Add(c)
	}
	return set, nil
}

func (m *MockUserRepository) ListSubscriptions(_ context.Context) ([]domain.UserSubscriptions, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var ids []string
	for id, set := range m.subscriptions {
		if len(set) > 0 {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)

	var result []domain.UserSubscriptions
	for _, id := range ids {
		us := domain.UserSubscriptions{
			Subscriber: domain.Subscriber{UserID: id},
			Set:        domain.NewSubscriptionSet(m.subscriptions[id].Slice()...),
		}
		if u, ok := m.users[id]; ok {
			us.Name = u.Name
			us.Email = u.Email
		}
		result = append(result, us)
	}
	return result, nil
}

// ---- comments ----

type MockCommentRepository struct {
	mu       sync.RWMutex
	comments map[string]*domain.Comment

	CreateErr error
}

func NewMockCommentRepository() *MockCommentRepository {
	return &MockCommentRepository{comments: make(map[string]*domain.Comment)}
}

func (m *MockCommentRepository) Create(_ context.Context, c *domain.Comment) error {
	if m.CreateErr != nil {
		return m.CreateErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	clone := *c
	m.comments[c.ID] = &clone
	return nil
}

func (m *MockCommentRepository) GetByID(_ context.Context, id string) (*domain.Comment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	c, ok := m.comments[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	clone := *c
	return &clone, nil
}

func (m *MockCommentRepository) Update(_ context.Context, c *domain.Comment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	existing, ok := m.comments[c.ID]
	if !ok {
		return domain.ErrNotFound
	}
	existing.Content = c.Content
	existing.UpdatedAt = c.UpdatedAt
	return nil
}

func (m *MockCommentRepository) ListByBlog(_ context.Context, blogID string) ([]*domain.Comment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var result []*domain.Comment
	for _, c := range m.comments {
		if c.BlogID == blogID {
			clone := *c
			result = append(result, &clone)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result, nil
}

func (m *MockCommentRepository) DeleteWithReplies(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.comments[id]; !ok {
		return domain.ErrNotFound
	}
	delete(m.comments, id)
	for cid, c := range m.comments {
		if c.ParentID != nil && *c.ParentID == id {
			delete(m.comments, cid)
		}
	}
	return nil
}

func (m *MockCommentRepository) ToggleLike(_ context.Context, commentID, userID string) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.comments[commentID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	c.LikedBy = toggleMember(c.LikedBy, userID)
	return append([]string(nil), c.LikedBy...), nil
}

// ---- notifications ----

type MockNotificationRepository struct {
	mu            sync.RWMutex
	notifications []*domain.Notification

	CreateErr error
}

func NewMockNotificationRepository() *MockNotificationRepository {
	return &MockNotificationRepository{}
}

func (m *MockNotificationRepository) Create(_ context.Context, n *domain.Notification) error {
	if m.CreateErr != nil {
		return m.CreateErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	clone := *n
	m.notifications = append(m.notifications, &clone)
	return nil
}

func (m *MockNotificationRepository) ListRecent(_ context.Context, page, limit int) ([]*domain.Notification, int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	sorted := append([]*domain.Notification(nil), m.notifications...)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].CreatedAt.After(sorted[j].CreatedAt)
	})

	start := (page - 1) * limit
	if start > len(sorted) {
		start = len(sorted)
	}
	end := start + limit
	if end > len(sorted) {
		end = len(sorted)
	}
	out := make([]*domain.Notification, 0, end-start)
	for _, n := range sorted[start:end] {
		clone := *n
		out = append(out, &clone)
	}
	return out, len(sorted), nil
}

// All returns a copy of every stored notification, newest last.
func (m *MockNotificationRepository) All() []*domain.Notification {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*domain.Notification, 0, len(m.notifications))
	for _, n := range m.notifications {
		clone := *n
		out = append(out, &clone)
	}
	return out
}

func toggleMember(members []string, id string) []string {
	for i, m := range members {
		if m == id {
			return append(members[:i], members[i+1:]...)
		}
	}
	return append(members, id)
}
