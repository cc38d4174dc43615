package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/printforge/printforge-api/internal/application"
	"github.com/printforge/printforge-api/pkg/response"
	"github.com/printforge/printforge-api/pkg/validation"
)

type CalculatorHandler struct{}

func NewCalculatorHandler() *CalculatorHandler { return &CalculatorHandler{} }

// estimateRequest keeps the optional fields as pointers: an explicit zero is
// priced as zero, only an absent field takes the default.
type estimateRequest struct {
	MaterialType           string   `json:"material_type" binding:"required"`
	PrintTimeHours         float64  `json:"print_time_hours" binding:"required,gt=0"`
	ElectricityCostPerHour *float64 `json:"electricity_cost_per_hour" binding:"omitempty,gte=0"`
	ModelComplexity        string   `json:"model_complexity" binding:"omitempty"`
	InfillPercentage       *int     `json:"infill_percentage" binding:"omitempty,gte=0,lte=100"`
	LayerHeight            *float64 `json:"layer_height" binding:"omitempty,gt=0"`
}

// Estimate prices a print job without persisting anything. Monetary values
// are rounded to 2 decimals here, at the response boundary only.
func (h *CalculatorHandler) Estimate(c *gin.Context) {
	var req estimateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}

	spec := application.SpecInput{
		MaterialType:           req.MaterialType,
		PrintTimeHours:         req.PrintTimeHours,
		ElectricityCostPerHour: req.ElectricityCostPerHour,
		ModelComplexity:        req.ModelComplexity,
		InfillPercentage:       req.InfillPercentage,
		LayerHeight:            req.LayerHeight,
	}.Resolve()
	q := application.Estimate(spec)

	response.Success(c, http.StatusOK, gin.H{
		"breakdown": gin.H{
			"electricity_cost":      application.Round2(q.Breakdown.ElectricityCost),
			"material_cost":         application.Round2(q.Breakdown.MaterialCost),
			"service_fee":           application.Round2(q.Breakdown.ServiceFee),
			"complexity_multiplier": q.Breakdown.ComplexityMultiplier,
			"material_volume_cm3":   application.Round2(q.Breakdown.MaterialVolumeCm3),
		},
		"total_cost_rub": application.Round2(q.TotalCost),
		"estimated_completion": gin.H{
			"hours": q.CompletionHours,
			"days":  q.CompletionDays,
		},
	}, "estimate", nil)
}
