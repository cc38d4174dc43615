package repository

import (
	"context"

	"github.com/printforge/printforge-api/internal/domain/entity"
)

// OrderRepository defines order-related database operations.
type OrderRepository interface {
	Create(ctx context.Context, o *entity.Order) error
	// ListByUser returns all orders of one user, newest first, unpaginated.
	ListByUser(ctx context.Context, userID string) ([]entity.Order, error)
}
