package entity

import (
	"time"
)

// Order status taxonomy. Only "pending" is ever produced by the API; the
// remaining states belong to fulfilment tooling.
const (
	OrderStatusPending   = "pending"
	OrderStatusConfirmed = "confirmed"
	OrderStatusPrinting  = "printing"
	OrderStatusCompleted = "completed"
	OrderStatusCancelled = "cancelled"

	PaymentStatusPending = "pending"
	PaymentStatusPaid    = "paid"
	PaymentStatusFailed  = "failed"
)

// PrintSpec describes a print job for cost estimation. It is embedded into
// orders as a snapshot of what the customer asked for.
type PrintSpec struct {
	MaterialType           string  `json:"material_type"`
	PrintTimeHours         float64 `json:"print_time_hours"`
	ElectricityCostPerHour float64 `json:"electricity_cost_per_hour"`
	ModelComplexity        string  `json:"model_complexity"`
	InfillPercentage       int     `json:"infill_percentage"`
	LayerHeight            float64 `json:"layer_height"`
}

// Order records a print order. UserName and ModelName are denormalized at
// creation time and never re-joined; the model row may disappear later without
// cascading here. TotalPrice is the price the client asserted at checkout.
type Order struct {
	ID                  string
	UserID              string
	UserName            string
	ModelID             string
	ModelName           string
	Spec                PrintSpec
	TotalPrice          float64
	DeliveryAddress     string
	Phone               string
	Status              string
	PaymentStatus       string
	CreatedAt           time.Time
	EstimatedCompletion time.Time
}
