package service_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/inkpress/blog-engine/internal/domain"
	"github.com/inkpress/blog-engine/internal/repository"
	"github.com/inkpress/blog-engine/internal/service"
)

func seedNotifications(t *testing.T, repo *repository.MockNotificationRepository, n int) {
	t.Helper()
	base := time.Now().UTC()
	for i := 0; i < n; i++ {
		err := repo.Create(context.Background(), &domain.Notification{
			ID:        fmt.Sprintf("n%d", i),
			Type:      domain.EventUserSignedUp,
			Message:   fmt.Sprintf("message %d", i),
			ActorID:   "u1",
			CreatedAt: base.Add(time.Duration(i) * time.Second),
		})
		if err != nil {
			t.Fatal(err)
		}
	}
}

func seedFeedUsers(t *testing.T) *repository.MockUserRepository {
	t.Helper()
	users := repository.NewMockUserRepository()
	ctx := context.Background()
	for _, u := range []domain.User{
		{ID: "owner", UID: "ext-owner", Name: "Owner", Email: "o@x.com", IsAdmin: true},
		{ID: "reader", UID: "ext-reader", Name: "Reader", Email: "r@x.com"},
	} {
		u := u
		if _, err := users.Upsert(ctx, &u); err != nil {
			t.Fatal(err)
		}
	}
	return users
}

func TestNotificationService_ListRecent(t *testing.T) {
	repo := repository.NewMockNotificationRepository()
	seedNotifications(t, repo, 5)
	svc := service.NewNotificationService(repo, seedFeedUsers(t), 2)

	page, err := svc.ListRecent(context.Background(), "owner", 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if page.Total != 5 || page.Limit != 2 || page.Page != 1 {
		t.Fatalf("unexpected page meta: %+v", page)
	}
	if len(page.Notifications) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(page.Notifications))
	}
	// Newest first.
	if page.Notifications[0].ID != "n4" {
		t.Fatalf("expected n4 first, got %s", page.Notifications[0].ID)
	}
}

func TestNotificationService_ListRecent_AdminOnly(t *testing.T) {
	repo := repository.NewMockNotificationRepository()
	seedNotifications(t, repo, 1)
	svc := service.NewNotificationService(repo, seedFeedUsers(t), 10)

	// The feed is the site owner's inbox.
	if _, err := svc.ListRecent(context.Background(), "reader", 1); err != domain.ErrForbidden {
		t.Fatalf("expected ErrForbidden for a reader, got %v", err)
	}
}

func TestNotificationService_ListRecent_NormalizesPage(t *testing.T) {
	repo := repository.NewMockNotificationRepository()
	seedNotifications(t, repo, 1)
	svc := service.NewNotificationService(repo, seedFeedUsers(t), 10)

	page, err := svc.ListRecent(context.Background(), "owner", 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if page.Page != 1 {
		t.Fatalf("expected page normalized to 1, got %d", page.Page)
	}
}

func TestNotificationService_ListRecent_EmptyFeedIsNotNil(t *testing.T) {
	svc := service.NewNotificationService(repository.NewMockNotificationRepository(), seedFeedUsers(t), 10)

	page, err := svc.ListRecent(context.Background(), "owner", 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if page.Notifications == nil {
		t.Fatal("expected empty slice, got nil")
	}
	if page.Total != 0 {
		t.Fatalf("expected total=0, got %d", page.Total)
	}
}
