package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/printforge/printforge-api/internal/domain/entity"
	"github.com/printforge/printforge-api/internal/domain/repository"
)

const modelColumns = `id, name, description, category, material_type, print_time_minutes,
	price, is_public, status, file_key, file_data, file_format, owner_id, owner_name,
	likes, downloads, created_at`

type ModelRepository struct {
	pool *pgxpool.Pool
}

func NewModelRepository(pool *pgxpool.Pool) *ModelRepository {
	return &ModelRepository{pool: pool}
}

func (r *ModelRepository) Create(ctx context.Context, m *entity.Model) error {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO models (name, description, category, material_type, print_time_minutes,
			price, is_public, status, file_key, file_data, file_format, owner_id, owner_name)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING id, likes, downloads, created_at
	`, m.Name, m.Description, m.Category, m.MaterialType, m.PrintTimeMinutes,
		m.Price, m.IsPublic, m.Status, m.FileKey, m.FileData, m.FileFormat, m.OwnerID, m.OwnerName)

	return row.Scan(&m.ID, &m.Likes, &m.Downloads, &m.CreatedAt)
}

func (r *ModelRepository) GetByID(ctx context.Context, id string) (*entity.Model, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+modelColumns+` FROM models WHERE id = $1`, id)
	m := &entity.Model{}
	if err := scanModel(row, m); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return m, nil
}

// ListPublic pages through public models, newest first. The total count covers
// the whole filtered set regardless of skip/limit, so a skip past the end
// yields an empty page with the true total.
func (r *ModelRepository) ListPublic(ctx context.Context, f repository.CatalogFilter) ([]entity.Model, int, error) {
	where := `WHERE is_public = TRUE`
	args := []any{}
	if f.Category != "" {
		where += ` AND category = $1`
		args = append(args, f.Category)
	}

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT count(*) FROM models `+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf(`SELECT `+modelColumns+` FROM models `+where+
		` ORDER BY created_at DESC OFFSET $%d LIMIT $%d`, len(args)+1, len(args)+2)
	args = append(args, f.Skip, f.Limit)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	models := make([]entity.Model, 0, f.Limit)
	for rows.Next() {
		var m entity.Model
		if err := scanModel(rows, &m); err != nil {
			return nil, 0, err
		}
		models = append(models, m)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return models, total, nil
}

func scanModel(row pgx.Row, m *entity.Model) error {
	return row.Scan(&m.ID, &m.Name, &m.Description, &m.Category, &m.MaterialType,
		&m.PrintTimeMinutes, &m.Price, &m.IsPublic, &m.Status, &m.FileKey, &m.FileData,
		&m.FileFormat, &m.OwnerID, &m.OwnerName, &m.Likes, &m.Downloads, &m.CreatedAt)
}

var _ repository.ModelRepository = (*ModelRepository)(nil)
