package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/inkpress/blog-engine/internal/domain"
)

type pgUserRepository struct {
	pool *pgxpool.Pool
}

// NewPgUserRepository returns a UserRepository backed by PostgreSQL.
func NewPgUserRepository(pool *pgxpool.Pool) UserRepository {
	return &pgUserRepository{pool: pool}
}

func (r *pgUserRepository) Upsert(ctx context.Context, u *domain.User) (bool, error) {
	// xmax = 0 only holds for freshly inserted rows, which distinguishes a
	// first-time signup from a returning login in a single round trip.
	row := r.pool.QueryRow(ctx, `
		INSERT INTO users (id, uid, name, email, photo_url, is_admin, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
		ON CONFLICT (uid) DO UPDATE
		SET name = EXCLUDED.name, email = EXCLUDED.email,
		    photo_url = EXCLUDED.photo_url, updated_at = EXCLUDED.updated_at
		RETURNING id, is_admin, created_at, (xmax = 0)`,
		u.ID, u.UID, u.Name, u.Email, u.PhotoURL, u.IsAdmin, u.CreatedAt, u.UpdatedAt,
	)

	var created bool
	if err := row.Scan(&u.ID, &u.IsAdmin, &u.CreatedAt, &created); err != nil {
		return false, fmt.Errorf("upsert user: %w", err)
	}
	return created, nil
}

func (r *pgUserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, uid, name, email, photo_url, is_admin, created_at, updated_at
		FROM users WHERE id = $1`, id)

	var u domain.User
	err := row.Scan(&u.ID, &u.UID, &u.Name, &u.Email, &u.PhotoURL, &u.IsAdmin, &u.CreatedAt, &u.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	return &u, nil
}

func (r *pgUserRepository) AddSubscriptions(ctx context.Context, userID string, categories []domain.Category) error {
	for _, c := range categories {
		_, err := r.pool.Exec(ctx, `
			INSERT INTO subscriptions (user_id, category, created_at)
			VALUES ($1, $2, NOW())
			ON CONFLICT (user_id, category) DO NOTHING`, userID, c)
		if err != nil {
			return fmt.Errorf("add subscription %s: %w", c, err)
		}
	}
	return nil
}

func (r *pgUserRepository) GetSubscriptions(ctx context.Context, userID string) (domain.SubscriptionSet, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT category FROM subscriptions WHERE user_id = $1`, userID)
	if err != nil {
		return nil, fmt.Errorf("get subscriptions: %w", err)
	}
	defer rows.Close()

	set := domain.NewSubscriptionSet()
	for rows.Next() {
		var c domain.Category
		if err := rows.Scan(&c); err != nil {
			return nil, err
		}
		set.Add(c)
	}
	return set, rows.Err()
}

func (r *pgUserRepository) ListSubscriptions(ctx context.Context) ([]domain.UserSubscriptions, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT u.id, u.name, u.email, s.category
		FROM users u
		JOIN subscriptions s ON s.user_id = u.id
		ORDER BY u.id`)
	if err != nil {
		return nil, fmt.Errorf("list subscriptions: %w", err)
	}
	defer rows.Close()

	byUser := make(map[string]*domain.UserSubscriptions)
	var order []string
	for rows.Next() {
		var (
			id, name, email string
			category        domain.Category
		)
		if err := rows.Scan(&id, &name, &email, &category); err != nil {
			return nil, err
		}
		us, ok := byUser[id]
		if !ok {
			us = &domain.UserSubscriptions{
				Subscriber: domain.Subscriber{UserID: id, Name: name, Email: email},
				Set:        domain.NewSubscriptionSet(),
			}
			byUser[id] = us
			order = append(order, id)
		}
		us.Set.Add(category)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	result := make([]domain.UserSubscriptions, 0, len(order))
	for _, id := range order {
		result = append(result, *byUser[id])
	}
	return result, nil
}
