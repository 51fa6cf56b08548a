package domain_test

import (
	"testing"

	"github.com/inkpress/blog-engine/internal/domain"
)

func TestCategoryFor(t *testing.T) {
	if got := domain.CategoryFor(domain.TypeDiary); got != domain.CategoryDiary {
		t.Fatalf("Diary should map to diary, got %s", got)
	}
	if got := domain.CategoryFor(domain.TypeArticle); got != domain.CategorySocial {
		t.Fatalf("Article should map to social, got %s", got)
	}
}

func TestSubscriptionSet(t *testing.T) {
	t.Run("HasAll only with every known category", func(t *testing.T) {
		s := domain.NewSubscriptionSet(domain.CategoryDiary)
		if s.HasAll() {
			t.Fatal("single category must not report HasAll")
		}
		s.Add(domain.CategorySocial)
		if !s.HasAll() {
			t.Fatal("expected HasAll after adding every category")
		}
	})

	t.Run("Slice returns stable order", func(t *testing.T) {
		s := domain.NewSubscriptionSet(domain.CategorySocial, domain.CategoryDiary)
		got := s.Slice()
		if len(got) != 2 || got[0] != domain.CategoryDiary || got[1] != domain.CategorySocial {
			t.Fatalf("unexpected order: %v", got)
		}
	})

	t.Run("Add is idempotent", func(t *testing.T) {
		s := domain.NewSubscriptionSet(domain.CategoryDiary)
		s.Add(domain.CategoryDiary)
		if len(s.Slice()) != 1 {
			t.Fatalf("expected one category, got %v", s.Slice())
		}
	})
}

func TestSubscribeRequest_Validate(t *testing.T) {
	t.Run("empty categories", func(t *testing.T) {
		r := domain.SubscribeRequest{}
		if err := r.Validate(); err != domain.ErrNoCategories {
			t.Fatalf("expected ErrNoCategories, got %v", err)
		}
	})

	t.Run("unknown category", func(t *testing.T) {
		r := domain.SubscribeRequest{Categories: []domain.Category{"sports"}}
		if err := r.Validate(); err != domain.ErrInvalidCategory {
			t.Fatalf("expected ErrInvalidCategory, got %v", err)
		}
	})

	t.Run("valid categories", func(t *testing.T) {
		r := domain.SubscribeRequest{Categories: []domain.Category{domain.CategoryDiary, domain.CategorySocial}}
		if err := r.Validate(); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
	})
}

func TestUpsertUserRequest_Validate(t *testing.T) {
	valid := domain.UpsertUserRequest{UID: "ext-1", Name: "Mira", Email: "mira@example.com"}

	tests := []struct {
		name   string
		mutate func(*domain.UpsertUserRequest)
		want   error
	}{
		{"valid", func(*domain.UpsertUserRequest) {}, nil},
		{"missing uid", func(r *domain.UpsertUserRequest) { r.UID = "" }, domain.ErrInvalidUID},
		{"missing name", func(r *domain.UpsertUserRequest) { r.Name = "" }, domain.ErrInvalidName},
		{"missing email", func(r *domain.UpsertUserRequest) { r.Email = "" }, domain.ErrInvalidEmail},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := valid
			tt.mutate(&r)
			if err := r.Validate(); err != tt.want {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}
		})
	}
}
