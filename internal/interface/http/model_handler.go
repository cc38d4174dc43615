package handlers

import (
	"errors"
	"io"
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/printforge/printforge-api/internal/application"
	"github.com/printforge/printforge-api/pkg/response"
	"github.com/printforge/printforge-api/pkg/validation"
)

// MaxUploadBytes caps a single model file (50 MiB).
const MaxUploadBytes = 50 << 20

type ModelHandler struct {
	Svc    *application.ModelService
	Logger *logrus.Logger
}

func NewModelHandler(svc *application.ModelService, logger *logrus.Logger) *ModelHandler {
	return &ModelHandler{Svc: svc, Logger: logger}
}

// jsonUploadRequest is the legacy JSON entry path carrying the payload inline
// as base64. estimated_print_time is in minutes.
type jsonUploadRequest struct {
	Name               string  `json:"name" binding:"required"`
	Description        string  `json:"description" binding:"required"`
	Category           string  `json:"category" binding:"required"`
	MaterialType       string  `json:"material_type" binding:"required"`
	EstimatedPrintTime int     `json:"estimated_print_time" binding:"required,gt=0"`
	FileData           string  `json:"file_data" binding:"required,base64"`
	FileFormat         string  `json:"file_format" binding:"omitempty,oneof=stl obj 3mf"`
	Price              float64 `json:"price" binding:"omitempty,gte=0"`
	IsPublic           *bool   `json:"is_public"`
}

// Upload accepts both historical entry shapes and adapts them into one
// canonical application.UploadRequest: multipart form with a file part, or
// JSON with inline base64 file_data.
func (h *ModelHandler) Upload(c *gin.Context) {
	uid := c.GetString("userID")

	var (
		req *application.UploadRequest
		ok  bool
	)
	if strings.HasPrefix(c.ContentType(), "multipart/form-data") {
		req, ok = h.uploadFromMultipart(c)
	} else {
		req, ok = h.uploadFromJSON(c)
	}
	if !ok {
		return
	}

	res, err := h.Svc.Upload(c.Request.Context(), uid, *req)
	if err != nil {
		switch {
		case errors.Is(err, application.ErrUserNotFound):
			response.Error[any](c, http.StatusUnauthorized, "user not found", nil)
		case errors.Is(err, application.ErrStorage):
			response.Error[any](c, http.StatusBadGateway, "file storage unavailable, try again later", nil)
		default:
			h.Logger.WithError(err).Error("model upload failed")
			response.Error[any](c, http.StatusInternalServerError, "upload failed", nil)
		}
		return
	}

	response.Success(c, http.StatusCreated, gin.H{
		"message":       "Model uploaded successfully",
		"model_id":      res.ModelID,
		"points_earned": res.PointsEarned,
	}, "model uploaded", nil)
}

func (h *ModelHandler) uploadFromJSON(c *gin.Context) (*application.UploadRequest, bool) {
	var req jsonUploadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return nil, false
	}
	isPublic := true
	if req.IsPublic != nil {
		isPublic = *req.IsPublic
	}
	return &application.UploadRequest{
		Name:             req.Name,
		Description:      req.Description,
		Category:         req.Category,
		MaterialType:     req.MaterialType,
		PrintTimeMinutes: req.EstimatedPrintTime,
		Price:            req.Price,
		IsPublic:         isPublic,
		InlineData:       req.FileData,
		FileFormat:       req.FileFormat,
	}, true
}

func (h *ModelHandler) uploadFromMultipart(c *gin.Context) (*application.UploadRequest, bool) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", map[string]string{"file": "is required"})
		return nil, false
	}
	if fileHeader.Size > MaxUploadBytes {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", map[string]string{"file": "too large"})
		return nil, false
	}

	details := map[string]string{}
	name := strings.TrimSpace(c.PostForm("name"))
	description := strings.TrimSpace(c.PostForm("description"))
	category := c.PostForm("category")
	materialType := c.PostForm("material_type")
	for field, v := range map[string]string{
		"name": name, "description": description, "category": category, "material_type": materialType,
	} {
		if v == "" {
			details[field] = "is required"
		}
	}

	// The form path historically sent minutes as a float; round at the
	// boundary so the stored unit is always integer minutes.
	minutes := 0
	if raw := c.PostForm("estimated_print_time"); raw == "" {
		details["estimated_print_time"] = "is required"
	} else if f, perr := strconv.ParseFloat(raw, 64); perr != nil || f <= 0 {
		details["estimated_print_time"] = "must be a positive number of minutes"
	} else {
		minutes = int(math.Round(f))
	}

	price := 0.0
	if raw := c.PostForm("price"); raw != "" {
		if f, perr := strconv.ParseFloat(raw, 64); perr != nil || f < 0 {
			details["price"] = "must be a non-negative number"
		} else {
			price = f
		}
	}

	isPublic := true
	if raw := c.PostForm("is_public"); raw != "" {
		b, perr := strconv.ParseBool(raw)
		if perr != nil {
			details["is_public"] = "must be a boolean value"
		} else {
			isPublic = b
		}
	}

	if len(details) > 0 {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", details)
		return nil, false
	}

	f, err := fileHeader.Open()
	if err != nil {
		h.Logger.WithError(err).Error("open multipart file failed")
		response.Error[any](c, http.StatusInternalServerError, "upload failed", nil)
		return nil, false
	}
	defer func() { _ = f.Close() }()
	data, err := io.ReadAll(io.LimitReader(f, MaxUploadBytes+1))
	if err != nil {
		h.Logger.WithError(err).Error("read multipart file failed")
		response.Error[any](c, http.StatusInternalServerError, "upload failed", nil)
		return nil, false
	}
	if len(data) > MaxUploadBytes {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", map[string]string{"file": "too large"})
		return nil, false
	}

	contentType := fileHeader.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	return &application.UploadRequest{
		Name:             name,
		Description:      description,
		Category:         category,
		MaterialType:     materialType,
		PrintTimeMinutes: minutes,
		Price:            price,
		IsPublic:         isPublic,
		Filename:         fileHeader.Filename,
		ContentType:      contentType,
		FileBytes:        data,
	}, true
}

// Catalog lists public models: GET /models/catalog?skip=&limit=&category=
func (h *ModelHandler) Catalog(c *gin.Context) {
	skip, _ := strconv.Atoi(c.DefaultQuery("skip", "0"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	category := c.Query("category")

	page, err := h.Svc.Catalog(c.Request.Context(), skip, limit, category)
	if err != nil {
		h.Logger.WithError(err).Error("catalog listing failed")
		response.Error[any](c, http.StatusInternalServerError, "catalog unavailable", nil)
		return
	}

	models := make([]gin.H, 0, len(page.Items))
	for _, it := range page.Items {
		models = append(models, catalogItemJSON(it))
	}
	response.Success(c, http.StatusOK, gin.H{
		"models":   models,
		"total":    page.Total,
		"page":     page.Page,
		"per_page": page.PerPage,
	}, "catalog", nil)
}

// GetModel returns full model detail: 400 for a malformed id, 404 when the
// row is absent. Unlike listings, the detail view may carry the inline
// payload.
func (h *ModelHandler) GetModel(c *gin.Context) {
	d, err := h.Svc.GetModel(c.Request.Context(), c.Param("id"))
	if err != nil {
		switch {
		case errors.Is(err, application.ErrInvalidModelID):
			response.Error[any](c, http.StatusBadRequest, "invalid model id", nil)
		case errors.Is(err, application.ErrModelNotFound):
			response.Error[any](c, http.StatusNotFound, "model not found", nil)
		default:
			h.Logger.WithError(err).Error("model detail failed")
			response.Error[any](c, http.StatusInternalServerError, "model unavailable", nil)
		}
		return
	}

	m := d.Model
	body := gin.H{
		"id":                   m.ID,
		"name":                 m.Name,
		"description":          m.Description,
		"category":             m.Category,
		"material_type":        m.MaterialType,
		"estimated_print_time": m.PrintTimeMinutes,
		"price":                m.Price,
		"is_public":            m.IsPublic,
		"status":               m.Status,
		"owner_name":           m.OwnerName,
		"likes":                m.Likes,
		"downloads":            m.Downloads,
		"file_format":          m.FileFormat,
		"created_at":           m.CreatedAt,
	}
	if m.FileKey != "" {
		body["file_url"] = d.FileURL
	} else {
		body["file_data"] = m.FileData
	}
	response.Success(c, http.StatusOK, body, "model", nil)
}

// Search queries the model index: GET /models/search?q=&size=
func (h *ModelHandler) Search(c *gin.Context) {
	q := strings.TrimSpace(c.Query("q"))
	if q == "" {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", map[string]string{"q": "is required"})
		return
	}
	size, _ := strconv.Atoi(c.DefaultQuery("size", "10"))

	hits, err := h.Svc.SearchModels(c.Request.Context(), q, size)
	if err != nil {
		h.Logger.WithError(err).Error("model search failed")
		response.Error[any](c, http.StatusInternalServerError, "search unavailable", nil)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"results": hits, "count": len(hits)}, "search results", nil)
}

// catalogItemJSON renders one listing entry. Inline payloads are never
// embedded in listings; externally stored models get a signed file_url when
// one could be minted.
func catalogItemJSON(it application.CatalogItem) gin.H {
	m := it.Model
	out := gin.H{
		"id":                   m.ID,
		"name":                 m.Name,
		"description":          m.Description,
		"category":             m.Category,
		"material_type":        m.MaterialType,
		"estimated_print_time": m.PrintTimeMinutes,
		"price":                m.Price,
		"owner_name":           m.OwnerName,
		"likes":                m.Likes,
		"downloads":            m.Downloads,
		"file_format":          m.FileFormat,
		"created_at":           m.CreatedAt,
	}
	if it.FileURL != "" {
		out["file_url"] = it.FileURL
	}
	return out
}
