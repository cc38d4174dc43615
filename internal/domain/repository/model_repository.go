package repository

import (
	"context"

	"github.com/printforge/printforge-api/internal/domain/entity"
)

// CatalogFilter narrows a public catalog listing. Category is an exact match
// and skipped when empty.
type CatalogFilter struct {
	Category string
	Skip     int
	Limit    int
}

// ModelRepository defines model-related database operations.
type ModelRepository interface {
	Create(ctx context.Context, m *entity.Model) error
	GetByID(ctx context.Context, id string) (*entity.Model, error)
	// ListPublic returns one page of public models, newest first, along with
	// the total number of rows matching the filter (ignoring skip/limit).
	ListPublic(ctx context.Context, f CatalogFilter) ([]entity.Model, int, error)
}
