package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/printforge/printforge-api/internal/application"
	"github.com/printforge/printforge-api/pkg/response"
	"github.com/printforge/printforge-api/pkg/validation"
)

type OrderHandler struct {
	Svc    *application.OrderService
	Logger *logrus.Logger
}

func NewOrderHandler(svc *application.OrderService, logger *logrus.Logger) *OrderHandler {
	return &OrderHandler{Svc: svc, Logger: logger}
}

// printSpecRequest mirrors the estimate request: optional fields are
// pointers so an explicit zero is snapshotted as zero, not the default.
type printSpecRequest struct {
	MaterialType           string   `json:"material_type" binding:"required"`
	PrintTimeHours         float64  `json:"print_time_hours" binding:"required,gt=0"`
	ElectricityCostPerHour *float64 `json:"electricity_cost_per_hour" binding:"omitempty,gte=0"`
	ModelComplexity        string   `json:"model_complexity" binding:"omitempty"`
	InfillPercentage       *int     `json:"infill_percentage" binding:"omitempty,gte=0,lte=100"`
	LayerHeight            *float64 `json:"layer_height" binding:"omitempty,gt=0"`
}

type createOrderRequest struct {
	ModelID         string           `json:"model_id" binding:"required,uuid"`
	Calculation     printSpecRequest `json:"calculation" binding:"required"`
	TotalPrice      float64          `json:"total_price" binding:"required,gt=0"`
	DeliveryAddress string           `json:"delivery_address" binding:"required"`
	Phone           string           `json:"phone" binding:"required"`
}

// Create places a print order for the authenticated user.
func (h *OrderHandler) Create(c *gin.Context) {
	uid := c.GetString("userID")

	var req createOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}

	res, err := h.Svc.CreateOrder(c.Request.Context(), uid, application.CreateOrderInput{
		ModelID: req.ModelID,
		Spec: application.SpecInput{
			MaterialType:           req.Calculation.MaterialType,
			PrintTimeHours:         req.Calculation.PrintTimeHours,
			ElectricityCostPerHour: req.Calculation.ElectricityCostPerHour,
			ModelComplexity:        req.Calculation.ModelComplexity,
			InfillPercentage:       req.Calculation.InfillPercentage,
			LayerHeight:            req.Calculation.LayerHeight,
		},
		TotalPrice:      req.TotalPrice,
		DeliveryAddress: req.DeliveryAddress,
		Phone:           req.Phone,
	})
	if err != nil {
		switch {
		case errors.Is(err, application.ErrUserNotFound):
			response.Error[any](c, http.StatusUnauthorized, "user not found", nil)
		case errors.Is(err, application.ErrModelNotFound):
			response.Error[any](c, http.StatusNotFound, "model not found", nil)
		default:
			h.Logger.WithError(err).Error("order creation failed")
			response.Error[any](c, http.StatusInternalServerError, "order creation failed", nil)
		}
		return
	}

	response.Success(c, http.StatusCreated, gin.H{
		"message":       "Order created successfully",
		"order_id":      res.Order.ID,
		"points_earned": res.PointsEarned,
		"status":        res.Order.Status,
	}, "order created", nil)
}

// MyOrders lists the authenticated user's orders, newest first.
func (h *OrderHandler) MyOrders(c *gin.Context) {
	uid := c.GetString("userID")

	orders, err := h.Svc.ListForUser(c.Request.Context(), uid)
	if err != nil {
		h.Logger.WithError(err).Error("order listing failed")
		response.Error[any](c, http.StatusInternalServerError, "orders unavailable", nil)
		return
	}

	out := make([]gin.H, 0, len(orders))
	for i := range orders {
		o := &orders[i]
		out = append(out, gin.H{
			"id":                   o.ID,
			"model_id":             o.ModelID,
			"model_name":           o.ModelName,
			"calculation":          o.Spec,
			"total_price":          o.TotalPrice,
			"delivery_address":     o.DeliveryAddress,
			"phone":                o.Phone,
			"status":               o.Status,
			"payment_status":       o.PaymentStatus,
			"created_at":           o.CreatedAt,
			"estimated_completion": o.EstimatedCompletion,
		})
	}
	response.Success(c, http.StatusOK, gin.H{"orders": out}, "orders", nil)
}
