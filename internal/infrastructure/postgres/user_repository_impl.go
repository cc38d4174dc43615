package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/printforge/printforge-api/internal/domain/entity"
	"github.com/printforge/printforge-api/internal/domain/repository"
)

const uniqueViolation = "23505"

type UserRepository struct {
	pool *pgxpool.Pool
}

func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

func (r *UserRepository) Create(ctx context.Context, u *entity.User) error {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO users (email, password_hash, name, points)
		VALUES ($1, $2, $3, $4)
		RETURNING id, orders_count, models_count, is_active, created_at, updated_at
	`, u.Email, u.Password, u.Name, u.Points)

	err := row.Scan(&u.ID, &u.OrdersCount, &u.ModelsCount, &u.IsActive, &u.CreatedAt, &u.UpdatedAt)
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return repository.ErrDuplicate
	}
	return err
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*entity.User, error) {
	return r.scanOne(r.pool.QueryRow(ctx, `
		SELECT id, email, password_hash, name, points, orders_count, models_count, is_active, created_at, updated_at
		FROM users
		WHERE id = $1
	`, id))
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	return r.scanOne(r.pool.QueryRow(ctx, `
		SELECT id, email, password_hash, name, points, orders_count, models_count, is_active, created_at, updated_at
		FROM users
		WHERE email = $1
	`, email))
}

// Credit applies counter deltas in a single UPDATE so concurrent credits for
// the same user never lose an increment.
func (r *UserRepository) Credit(ctx context.Context, userID string, delta repository.CounterDelta) error {
	res, err := r.pool.Exec(ctx, `
		UPDATE users
		SET points = points + $2,
		    models_count = models_count + $3,
		    orders_count = orders_count + $4,
		    updated_at = now()
		WHERE id = $1
	`, userID, delta.Points, delta.ModelsCount, delta.OrdersCount)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *UserRepository) scanOne(row pgx.Row) (*entity.User, error) {
	u := &entity.User{}
	if err := row.Scan(&u.ID, &u.Email, &u.Password, &u.Name, &u.Points, &u.OrdersCount,
		&u.ModelsCount, &u.IsActive, &u.CreatedAt, &u.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return u, nil
}

var _ repository.UserRepository = (*UserRepository)(nil)
