package postgres

import (
	"context"
	"encoding/json"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/printforge/printforge-api/internal/domain/entity"
	"github.com/printforge/printforge-api/internal/domain/repository"
)

type OrderRepository struct {
	pool *pgxpool.Pool
}

func NewOrderRepository(pool *pgxpool.Pool) *OrderRepository {
	return &OrderRepository{pool: pool}
}

func (r *OrderRepository) Create(ctx context.Context, o *entity.Order) error {
	spec, err := json.Marshal(o.Spec)
	if err != nil {
		return err
	}
	row := r.pool.QueryRow(ctx, `
		INSERT INTO orders (user_id, user_name, model_id, model_name, print_spec,
			total_price, delivery_address, phone, status, payment_status, estimated_completion)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id, created_at
	`, o.UserID, o.UserName, o.ModelID, o.ModelName, spec,
		o.TotalPrice, o.DeliveryAddress, o.Phone, o.Status, o.PaymentStatus, o.EstimatedCompletion)

	return row.Scan(&o.ID, &o.CreatedAt)
}

func (r *OrderRepository) ListByUser(ctx context.Context, userID string) ([]entity.Order, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, user_id, user_name, model_id, model_name, print_spec,
			total_price, delivery_address, phone, status, payment_status, created_at, estimated_completion
		FROM orders
		WHERE user_id = $1
		ORDER BY created_at DESC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orders []entity.Order
	for rows.Next() {
		var o entity.Order
		var spec []byte
		if err := rows.Scan(&o.ID, &o.UserID, &o.UserName, &o.ModelID, &o.ModelName, &spec,
			&o.TotalPrice, &o.DeliveryAddress, &o.Phone, &o.Status, &o.PaymentStatus,
			&o.CreatedAt, &o.EstimatedCompletion); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(spec, &o.Spec); err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	return orders, rows.Err()
}

var _ repository.OrderRepository = (*OrderRepository)(nil)
