package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/inkpress/blog-engine/internal/domain"
)

type pgBlogRepository struct {
	pool *pgxpool.Pool
}

// NewPgBlogRepository returns a BlogRepository backed by PostgreSQL.
func NewPgBlogRepository(pool *pgxpool.Pool) BlogRepository {
	return &pgBlogRepository{pool: pool}
}

const blogColumns = `id, title, content, tags, type, status, author_id, thumbnail,
	time_to_read, liked_by, posted_at, created_at, updated_at`

func (r *pgBlogRepository) Create(ctx context.Context, b *domain.Blog) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO blogs
			(id, title, content, tags, type, status, author_id, thumbnail,
			 time_to_read, liked_by, posted_at, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)`,
		b.ID, b.Title, b.Content, b.Tags, b.Type, b.Status, b.AuthorID, b.Thumbnail,
		b.TimeToRead, b.LikedBy, b.PostedAt, b.CreatedAt, b.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert blog: %w", err)
	}
	return nil
}

func (r *pgBlogRepository) GetByID(ctx context.Context, id string) (*domain.Blog, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+blogColumns+` FROM blogs WHERE id = $1`, id)

	b, err := scanBlog(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	return b, err
}

func (r *pgBlogRepository) Update(ctx context.Context, b *domain.Blog) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE blogs
		SET title = $1, content = $2, tags = $3, type = $4, status = $5,
		    thumbnail = $6, time_to_read = $7, posted_at = $8, updated_at = $9
		WHERE id = $10`,
		b.Title, b.Content, b.Tags, b.Type, b.Status,
		b.Thumbnail, b.TimeToRead, b.PostedAt, b.UpdatedAt, b.ID,
	)
	if err != nil {
		return fmt.Errorf("update blog: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *pgBlogRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM blogs WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete blog: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *pgBlogRepository) ListPublished(ctx context.Context, t domain.ContentType) ([]*domain.Blog, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+blogColumns+`
		FROM blogs
		WHERE status = 'Published' AND type = $1
		ORDER BY posted_at DESC`, t)
	if err != nil {
		return nil, fmt.Errorf("list published blogs: %w", err)
	}
	defer rows.Close()
	return scanBlogs(rows)
}

func (r *pgBlogRepository) ListByStatus(ctx context.Context, s domain.Status, t domain.ContentType) ([]*domain.Blog, error) {
	query := `SELECT ` + blogColumns + ` FROM blogs WHERE status = $1`
	args := []any{s}
	if t != "" {
		query += ` AND type = $2`
		args = append(args, t)
	}
	query += ` ORDER BY posted_at DESC`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list blogs by status: %w", err)
	}
	defer rows.Close()
	return scanBlogs(rows)
}

func (r *pgBlogRepository) ToggleLike(ctx context.Context, blogID, userID string) ([]string, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE blogs
		SET liked_by = CASE
			WHEN $2 = ANY(liked_by) THEN array_remove(liked_by, $2)
			ELSE array_append(liked_by, $2)
		END,
		updated_at = NOW()
		WHERE id = $1
		RETURNING liked_by`, blogID, userID)

	var likedBy []string
	if err := row.Scan(&likedBy); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("toggle blog like: %w", err)
	}
	return likedBy, nil
}

// ---- helpers ----

func scanBlog(row pgx.Row) (*domain.Blog, error) {
	var b domain.Blog
	err := row.Scan(
		&b.ID, &b.Title, &b.Content, &b.Tags, &b.Type, &b.Status,
		&b.AuthorID, &b.Thumbnail, &b.TimeToRead, &b.LikedBy,
		&b.PostedAt, &b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func scanBlogs(rows pgx.Rows) ([]*domain.Blog, error) {
	var result []*domain.Blog
	for rows.Next() {
		b, err := scanBlog(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, b)
	}
	return result, rows.Err()
}
