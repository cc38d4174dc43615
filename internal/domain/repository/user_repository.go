package repository

import (
	"context"

	"github.com/printforge/printforge-api/internal/domain/entity"
)

// CounterDelta is an atomic increment applied to a user row in a single
// statement. No field is ever read back first; concurrent credits from the
// same user must both land.
type CounterDelta struct {
	Points      int
	ModelsCount int
	OrdersCount int
}

// UserRepository defines user-related database operations.
type UserRepository interface {
	Create(ctx context.Context, u *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	// Credit applies the delta atomically at the storage layer.
	Credit(ctx context.Context, userID string, delta CounterDelta) error
}
