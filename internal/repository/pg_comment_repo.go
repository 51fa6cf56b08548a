package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/inkpress/blog-engine/internal/domain"
)

type pgCommentRepository struct {
	pool *pgxpool.Pool
}

// NewPgCommentRepository returns a CommentRepository backed by PostgreSQL.
func NewPgCommentRepository(pool *pgxpool.Pool) CommentRepository {
	return &pgCommentRepository{pool: pool}
}

const commentColumns = `id, blog_id, user_id, parent_id, content, liked_by, created_at, updated_at`

func (r *pgCommentRepository) Create(ctx context.Context, c *domain.Comment) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO comments (id, blog_id, user_id, parent_id, content, liked_by, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`,
		c.ID, c.BlogID, c.UserID, c.ParentID, c.Content, c.LikedBy, c.CreatedAt, c.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert comment: %w", err)
	}
	return nil
}

func (r *pgCommentRepository) GetByID(ctx context.Context, id string) (*domain.Comment, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+commentColumns+` FROM comments WHERE id = $1`, id)

	c, err := scanComment(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	return c, err
}

func (r *pgCommentRepository) Update(ctx context.Context, c *domain.Comment) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE comments SET content = $1, updated_at = $2 WHERE id = $3`,
		c.Content, c.UpdatedAt, c.ID,
	)
	if err != nil {
		return fmt.Errorf("update comment: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *pgCommentRepository) ListByBlog(ctx context.Context, blogID string) ([]*domain.Comment, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+commentColumns+` FROM comments WHERE blog_id = $1 ORDER BY created_at DESC`, blogID)
	if err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}
	defer rows.Close()

	var result []*domain.Comment
	for rows.Next() {
		c, err := scanComment(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, c)
	}
	return result, rows.Err()
}

func (r *pgCommentRepository) DeleteWithReplies(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx,
		`DELETE FROM comments WHERE id = $1 OR parent_id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete comment: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *pgCommentRepository) ToggleLike(ctx context.Context, commentID, userID string) ([]string, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE comments
		SET liked_by = CASE
			WHEN $2 = ANY(liked_by) THEN array_remove(liked_by, $2)
			ELSE array_append(liked_by, $2)
		END,
		updated_at = NOW()
		WHERE id = $1
		RETURNING liked_by`, commentID, userID)

	var likedBy []string
	if err := row.Scan(&likedBy); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("toggle comment like: %w", err)
	}
	return likedBy, nil
}

func scanComment(row pgx.Row) (*domain.Comment, error) {
	var c domain.Comment
	err := row.Scan(
		&c.ID, &c.BlogID, &c.UserID, &c.ParentID, &c.Content,
		&c.LikedBy, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}
