package domain_test

import (
	"errors"
	"testing"

	"github.com/inkpress/blog-engine/internal/domain"
)

func TestCreateCommentRequest_Validate(t *testing.T) {
	tests := []struct {
		name string
		req  domain.CreateCommentRequest
		want error
	}{
		{"valid", domain.CreateCommentRequest{BlogID: "b1", Content: "hi"}, nil},
		{"missing blog is a validation failure, not a lookup miss",
			domain.CreateCommentRequest{Content: "hi"}, domain.ErrMissingReference},
		{"blank content", domain.CreateCommentRequest{BlogID: "b1", Content: "  "}, domain.ErrCommentEmpty},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.req.Validate(); !errors.Is(err, tt.want) {
				t.Fatalf("got %v, want %v", err, tt.want)
			}
		})
	}
}

func TestReplyRequest_Validate(t *testing.T) {
	tests := []struct {
		name string
		req  domain.ReplyRequest
		want error
	}{
		{"valid", domain.ReplyRequest{BlogID: "b1", ParentID: "c1", Content: "hi"}, nil},
		{"missing parent", domain.ReplyRequest{BlogID: "b1", Content: "hi"}, domain.ErrMissingReference},
		{"missing blog", domain.ReplyRequest{ParentID: "c1", Content: "hi"}, domain.ErrMissingReference},
		{"blank content", domain.ReplyRequest{BlogID: "b1", ParentID: "c1", Content: "\t"}, domain.ErrCommentEmpty},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.req.Validate(); !errors.Is(err, tt.want) {
				t.Fatalf("got %v, want %v", err, tt.want)
			}
		})
	}
}

func TestEditCommentRequest_Validate(t *testing.T) {
	req := domain.EditCommentRequest{Content: "updated"}
	if err := req.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	req.Content = "   "
	if err := req.Validate(); !errors.Is(err, domain.ErrCommentEmpty) {
		t.Fatalf("got %v, want ErrCommentEmpty", err)
	}
}
