package service_test

import (
	"context"
	"testing"

	"go.uber.org/zap"

	"github.com/inkpress/blog-engine/internal/domain"
	"github.com/inkpress/blog-engine/internal/events"
	"github.com/inkpress/blog-engine/internal/repository"
	"github.com/inkpress/blog-engine/internal/service"
)

type commentFixture struct {
	svc      *service.CommentService
	comments *repository.MockCommentRepository
	blogs    *repository.MockBlogRepository
	users    *repository.MockUserRepository
	channel  *events.MockChannel
}

func newCommentFixture(t *testing.T) *commentFixture {
	t.Helper()
	f := &commentFixture{
		comments: repository.NewMockCommentRepository(),
		blogs:    repository.NewMockBlogRepository(),
		users:    repository.NewMockUserRepository(),
		channel:  events.NewMockChannel(),
	}
	f.svc = service.NewCommentService(f.comments, f.blogs, f.users, f.channel, zap.NewNop(), service.PublishHooks{})

	ctx := context.Background()
	for _, u := range []domain.User{
		{ID: "admin", UID: "ext-a", Name: "Admin", Email: "a@x.com", IsAdmin: true},
		{ID: "reader", UID: "ext-r", Name: "Reader", Email: "r@x.com"},
		{ID: "other", UID: "ext-o", Name: "Other", Email: "o@x.com"},
	} {
		u := u
		if _, err := f.users.Upsert(ctx, &u); err != nil {
			t.Fatal(err)
		}
	}
	if err := f.blogs.Create(ctx, &domain.Blog{ID: "b1", Title: "Post", Type: domain.TypeArticle, Status: domain.StatusPublished, AuthorID: "admin"}); err != nil {
		t.Fatal(err)
	}
	return f
}

func TestCommentService_Create_ReaderCommentNotifies(t *testing.T) {
	f := newCommentFixture(t)

	c, err := f.svc.Create(context.Background(), "reader", domain.CreateCommentRequest{BlogID: "b1", Content: "nice"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.ID == "" {
		t.Fatal("expected a non-empty ID")
	}

	published := f.channel.Published()
	if len(published) != 1 || published[0].Kind != domain.EventCommentCreated {
		t.Fatalf("expected one comment_created event, got %v", published)
	}
	if published[0].ActorID != "reader" {
		t.Fatalf("expected actor=reader, got %s", published[0].ActorID)
	}
}

func TestCommentService_Create_AdminOwnCommentStaysQuiet(t *testing.T) {
	f := newCommentFixture(t)

	_, err := f.svc.Create(context.Background(), "admin", domain.CreateCommentRequest{BlogID: "b1", Content: "thanks all"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := f.channel.Published(); len(got) != 0 {
		t.Fatalf("expected no events, got %v", got)
	}
}

func TestCommentService_Create_UnknownBlog(t *testing.T) {
	f := newCommentFixture(t)

	_, err := f.svc.Create(context.Background(), "reader", domain.CreateCommentRequest{BlogID: "missing", Content: "hi"})
	if err != domain.ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestCommentService_Reply_ToAdminCommentNotifies(t *testing.T) {
	f := newCommentFixture(t)
	ctx := context.Background()

	parent, err := f.svc.Create(ctx, "admin", domain.CreateCommentRequest{BlogID: "b1", Content: "author's note"})
	if err != nil {
		t.Fatal(err)
	}

	reply, err := f.svc.Reply(ctx, "reader", domain.ReplyRequest{BlogID: "b1", ParentID: parent.ID, Content: "question"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if reply.ParentID == nil || *reply.ParentID != parent.ID {
		t.Fatalf("expected parent link, got %v", reply.ParentID)
	}

	published := f.channel.Published()
	if len(published) != 1 || published[0].Kind != domain.EventReplyCreated {
		t.Fatalf("expected one reply_created event, got %v", published)
	}
}

func TestCommentService_Reply_ToReaderCommentStaysQuiet(t *testing.T) {
	f := newCommentFixture(t)
	ctx := context.Background()

	parent, err := f.svc.Create(ctx, "reader", domain.CreateCommentRequest{BlogID: "b1", Content: "first"})
	if err != nil {
		t.Fatal(err)
	}
	before := len(f.channel.Published()) // the comment_created from above

	_, err = f.svc.Reply(ctx, "other", domain.ReplyRequest{BlogID: "b1", ParentID: parent.ID, Content: "second"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := f.channel.Published(); len(got) != before {
		t.Fatalf("reply to a reader's comment must not publish, got %v", got)
	}
}

func TestCommentService_Edit_OwnerOnly(t *testing.T) {
	f := newCommentFixture(t)
	ctx := context.Background()

	c, err := f.svc.Create(ctx, "reader", domain.CreateCommentRequest{BlogID: "b1", Content: "first draft"})
	if err != nil {
		t.Fatal(err)
	}

	if _, err := f.svc.Edit(ctx, "other", c.ID, domain.EditCommentRequest{Content: "hijacked"}); err != domain.ErrForbidden {
		t.Fatalf("expected ErrForbidden for a stranger, got %v", err)
	}
	// Admins moderate by deleting, not rewriting.
	if _, err := f.svc.Edit(ctx, "admin", c.ID, domain.EditCommentRequest{Content: "cleaned up"}); err != domain.ErrForbidden {
		t.Fatalf("expected ErrForbidden for an admin, got %v", err)
	}

	edited, err := f.svc.Edit(ctx, "reader", c.ID, domain.EditCommentRequest{Content: "second draft"})
	if err != nil {
		t.Fatalf("owner edit failed: %v", err)
	}
	if edited.Content != "second draft" {
		t.Fatalf("unexpected content: %q", edited.Content)
	}
	if !edited.UpdatedAt.After(c.UpdatedAt) {
		t.Fatal("expected updated_at to advance")
	}

	stored, err := f.comments.GetByID(ctx, c.ID)
	if err != nil {
		t.Fatal(err)
	}
	if stored.Content != "second draft" {
		t.Fatalf("edit not persisted, got %q", stored.Content)
	}
}

func TestCommentService_Edit_Validation(t *testing.T) {
	f := newCommentFixture(t)
	ctx := context.Background()

	c, err := f.svc.Create(ctx, "reader", domain.CreateCommentRequest{BlogID: "b1", Content: "keep"})
	if err != nil {
		t.Fatal(err)
	}

	if _, err := f.svc.Edit(ctx, "reader", c.ID, domain.EditCommentRequest{Content: "  "}); err != domain.ErrCommentEmpty {
		t.Fatalf("expected ErrCommentEmpty, got %v", err)
	}
	if _, err := f.svc.Edit(ctx, "reader", "missing", domain.EditCommentRequest{Content: "x"}); err != domain.ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestCommentService_ListByBlog_GroupsThreads(t *testing.T) {
	f := newCommentFixture(t)
	ctx := context.Background()

	top, err := f.svc.Create(ctx, "reader", domain.CreateCommentRequest{BlogID: "b1", Content: "top"})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := f.svc.Reply(ctx, "other", domain.ReplyRequest{BlogID: "b1", ParentID: top.ID, Content: "r1"}); err != nil {
		t.Fatal(err)
	}
	if _, err := f.svc.Reply(ctx, "admin", domain.ReplyRequest{BlogID: "b1", ParentID: top.ID, Content: "r2"}); err != nil {
		t.Fatal(err)
	}

	threads, err := f.svc.ListByBlog(ctx, "b1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(threads) != 1 {
		t.Fatalf("expected one thread, got %d", len(threads))
	}
	if threads[0].ID != top.ID || threads[0].ReplyCount != 2 {
		t.Fatalf("unexpected thread: id=%s replies=%d", threads[0].ID, threads[0].ReplyCount)
	}
}

func TestCommentService_Delete_Permissions(t *testing.T) {
	f := newCommentFixture(t)
	ctx := context.Background()

	c, err := f.svc.Create(ctx, "reader", domain.CreateCommentRequest{BlogID: "b1", Content: "mine"})
	if err != nil {
		t.Fatal(err)
	}

	if err := f.svc.Delete(ctx, "other", c.ID); err != domain.ErrForbidden {
		t.Fatalf("expected ErrForbidden for a stranger, got %v", err)
	}
	if err := f.svc.Delete(ctx, "reader", c.ID); err != nil {
		t.Fatalf("owner delete failed: %v", err)
	}

	c2, err := f.svc.Create(ctx, "reader", domain.CreateCommentRequest{BlogID: "b1", Content: "again"})
	if err != nil {
		t.Fatal(err)
	}
	if err := f.svc.Delete(ctx, "admin", c2.ID); err != nil {
		t.Fatalf("admin delete failed: %v", err)
	}
}

func TestCommentService_Delete_RemovesReplies(t *testing.T) {
	f := newCommentFixture(t)
	ctx := context.Background()

	top, err := f.svc.Create(ctx, "reader", domain.CreateCommentRequest{BlogID: "b1", Content: "top"})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := f.svc.Reply(ctx, "other", domain.ReplyRequest{BlogID: "b1", ParentID: top.ID, Content: "r"}); err != nil {
		t.Fatal(err)
	}

	if err := f.svc.Delete(ctx, "reader", top.ID); err != nil {
		t.Fatal(err)
	}
	threads, err := f.svc.ListByBlog(ctx, "b1")
	if err != nil {
		t.Fatal(err)
	}
	if len(threads) != 0 {
		t.Fatalf("expected empty thread list, got %d", len(threads))
	}
}
