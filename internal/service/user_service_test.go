package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/inkpress/blog-engine/internal/background"
	"github.com/inkpress/blog-engine/internal/domain"
	"github.com/inkpress/blog-engine/internal/events"
	"github.com/inkpress/blog-engine/internal/mailer"
	"github.com/inkpress/blog-engine/internal/repository"
	"github.com/inkpress/blog-engine/internal/service"
)

type userFixture struct {
	svc     *service.UserService
	users   *repository.MockUserRepository
	channel *events.MockChannel
	sender  *stubSender
	tasks   *background.Runner
}

func newUserFixture(t *testing.T) *userFixture {
	t.Helper()
	f := &userFixture{
		users:   repository.NewMockUserRepository(),
		channel: events.NewMockChannel(),
		sender:  &stubSender{},
		tasks:   background.NewRunner(zap.NewNop()),
	}
	dispatcher := mailer.NewBulkDispatcher(f.sender, 2, 1000, zap.NewNop(), mailer.MetricHooks{})
	f.svc = service.NewUserService(f.users, f.channel, dispatcher, f.tasks, zap.NewNop(), service.PublishHooks{})
	return f
}

var loginReq = domain.UpsertUserRequest{
	UID:      "ext-1",
	Name:     "Mira",
	Email:    "mira@x.com",
	PhotoURL: "mira.png",
}

func TestUserService_Upsert_FirstLoginPublishesSignup(t *testing.T) {
	f := newUserFixture(t)

	user, created, err := f.svc.Upsert(context.Background(), loginReq)
	require.NoError(t, err)
	require.True(t, created)
	require.NotEmpty(t, user.ID)

	published := f.channel.Published()
	require.Len(t, published, 1)
	require.Equal(t, domain.EventUserSignedUp, published[0].Kind)
	require.Equal(t, user.ID, published[0].ActorID)
}

func TestUserService_Upsert_ReturningLoginStaysQuiet(t *testing.T) {
	f := newUserFixture(t)
	ctx := context.Background()

	first, created, err := f.svc.Upsert(ctx, loginReq)
	require.NoError(t, err)
	require.True(t, created)

	renamed := loginReq
	renamed.Name = "Mira Renamed"
	second, created, err := f.svc.Upsert(ctx, renamed)
	require.NoError(t, err)
	require.False(t, created)
	require.Equal(t, first.ID, second.ID, "same external UID must resolve to the same account")
	require.Equal(t, "Mira Renamed", second.Name)

	require.Len(t, f.channel.Published(), 1, "signup event fires exactly once per account")
}

func TestUserService_Upsert_Invalid(t *testing.T) {
	f := newUserFixture(t)

	bad := loginReq
	bad.UID = ""
	_, _, err := f.svc.Upsert(context.Background(), bad)
	require.ErrorIs(t, err, domain.ErrInvalidUID)
}

func TestUserService_Subscribe_GrowsSetAndSendsWelcome(t *testing.T) {
	f := newUserFixture(t)
	ctx := context.Background()

	user, _, err := f.svc.Upsert(ctx, loginReq)
	require.NoError(t, err)

	set, err := f.svc.Subscribe(ctx, user.ID, domain.SubscribeRequest{
		Categories: []domain.Category{domain.CategoryDiary},
	})
	require.NoError(t, err)
	require.True(t, set.Has(domain.CategoryDiary))
	require.False(t, set.HasAll())

	f.tasks.Wait()
	require.Equal(t, []string{"mira@x.com"}, f.sender.sentTo())
}

func TestUserService_Subscribe_NeverShrinks(t *testing.T) {
	f := newUserFixture(t)
	ctx := context.Background()

	user, _, err := f.svc.Upsert(ctx, loginReq)
	require.NoError(t, err)

	_, err = f.svc.Subscribe(ctx, user.ID, domain.SubscribeRequest{
		Categories: []domain.Category{domain.CategoryDiary},
	})
	require.NoError(t, err)

	// Subscribing to the other category returns the union, not a
	// replacement.
	set, err := f.svc.Subscribe(ctx, user.ID, domain.SubscribeRequest{
		Categories: []domain.Category{domain.CategorySocial},
	})
	require.NoError(t, err)
	require.True(t, set.HasAll())

	f.tasks.Wait()
	require.Len(t, f.sender.sentTo(), 2)
}

func TestUserService_Subscribe_UnknownUser(t *testing.T) {
	f := newUserFixture(t)

	_, err := f.svc.Subscribe(context.Background(), "ghost", domain.SubscribeRequest{
		Categories: []domain.Category{domain.CategoryDiary},
	})
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestUserService_Subscribe_InvalidCategories(t *testing.T) {
	f := newUserFixture(t)

	_, err := f.svc.Subscribe(context.Background(), "any", domain.SubscribeRequest{})
	require.ErrorIs(t, err, domain.ErrNoCategories)

	_, err = f.svc.Subscribe(context.Background(), "any", domain.SubscribeRequest{
		Categories: []domain.Category{"sports"},
	})
	require.ErrorIs(t, err, domain.ErrInvalidCategory)
}
