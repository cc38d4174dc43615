package application

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/printforge/printforge-api/internal/domain/entity"
	repo "github.com/printforge/printforge-api/internal/domain/repository"
	"github.com/printforge/printforge-api/pkg/helpers"
)

// UploadReward is what a successful model upload credits to its owner.
const UploadRewardPoints = 50

// DefaultCatalogLimit bounds unset page sizes.
const DefaultCatalogLimit = 20

type ModelService struct {
	Models        repo.ModelRepository
	Users         repo.UserRepository
	Assets        repo.AssetStore
	Redis         *redis.Client
	Logger        *logrus.Logger
	ES            *elasticsearch.Client
	ESModelsIndex string
	AssetURLTTL   time.Duration
}

func NewModelService(models repo.ModelRepository, users repo.UserRepository, assets repo.AssetStore,
	rdb *redis.Client, logger *logrus.Logger, es *elasticsearch.Client, esIndex string, urlTTL time.Duration) *ModelService {
	if urlTTL <= 0 {
		urlTTL = time.Hour
	}
	return &ModelService{
		Models:        models,
		Users:         users,
		Assets:        assets,
		Redis:         rdb,
		Logger:        logger,
		ES:            es,
		ESModelsIndex: esIndex,
		AssetURLTTL:   urlTTL,
	}
}

// UploadRequest is the canonical internal shape both upload entry paths
// (multipart form and JSON base64) are adapted into before validation.
// Exactly one of FileBytes (external storage) and InlineData (kept on the
// row as base64) is set.
type UploadRequest struct {
	Name             string
	Description      string
	Category         string
	MaterialType     string
	PrintTimeMinutes int
	Price            float64
	IsPublic         bool
	Filename         string
	ContentType      string
	FileBytes        []byte
	InlineData       string // base64
	FileFormat       string
}

// UploadResult reports the stored model id and the points credited.
type UploadResult struct {
	ModelID      string
	PointsEarned int
}

// Upload stores the file first and only persists metadata once the bytes are
// safely away: a storage failure must never leave a model row pointing at
// nothing. On success the owner is credited through the ledger.
func (s *ModelService) Upload(ctx context.Context, ownerID string, req UploadRequest) (*UploadResult, error) {
	owner, err := s.Users.GetByID(ctx, ownerID)
	if err != nil {
		return nil, ErrUserNotFound
	}

	m := &entity.Model{
		Name:             strings.TrimSpace(req.Name),
		Description:      strings.TrimSpace(req.Description),
		Category:         req.Category,
		MaterialType:     req.MaterialType,
		PrintTimeMinutes: req.PrintTimeMinutes,
		Price:            req.Price,
		IsPublic:         req.IsPublic,
		Status:           entity.ModelStatusPending,
		FileFormat:       fileFormat(req),
		OwnerID:          owner.ID,
		OwnerName:        owner.Name,
	}

	if len(req.FileBytes) > 0 {
		key, err := s.Assets.Put(ctx, owner.ID, req.Filename, req.ContentType, bytes.NewReader(req.FileBytes))
		if err != nil {
			if s.Logger != nil {
				s.Logger.WithError(err).WithField("owner_id", owner.ID).Error("asset upload failed")
			}
			return nil, fmt.Errorf("%w: %v", ErrStorage, err)
		}
		m.FileKey = key
	} else {
		m.FileData = req.InlineData
	}

	if err := s.Models.Create(ctx, m); err != nil {
		return nil, err
	}

	if err := s.Users.Credit(ctx, owner.ID, repo.CounterDelta{Points: UploadRewardPoints, ModelsCount: 1}); err != nil && s.Logger != nil {
		s.Logger.WithError(err).WithField("user_id", owner.ID).Error("upload reward credit failed")
	}

	s.indexModel(ctx, m)

	return &UploadResult{ModelID: m.ID, PointsEarned: UploadRewardPoints}, nil
}

// CatalogItem is one public listing entry. FileURL is a signed retrieval link
// for externally stored models and empty for inline ones; listings never
// embed payload bytes.
type CatalogItem struct {
	Model   entity.Model
	FileURL string
}

// CatalogPage is an offset-paginated slice of the public catalog.
type CatalogPage struct {
	Items   []CatalogItem
	Total   int
	Page    int
	PerPage int
}

// Catalog lists public models, newest first. Missing retrieval links degrade
// the entry, never the page.
func (s *ModelService) Catalog(ctx context.Context, skip, limit int, category string) (*CatalogPage, error) {
	if limit <= 0 {
		limit = DefaultCatalogLimit
	}
	if skip < 0 {
		skip = 0
	}
	models, total, err := s.Models.ListPublic(ctx, repo.CatalogFilter{Category: category, Skip: skip, Limit: limit})
	if err != nil {
		return nil, err
	}

	items := make([]CatalogItem, 0, len(models))
	for i := range models {
		items = append(items, CatalogItem{
			Model:   models[i],
			FileURL: s.retrievalURL(ctx, models[i].FileKey),
		})
	}
	return &CatalogPage{
		Items:   items,
		Total:   total,
		Page:    skip/limit + 1,
		PerPage: limit,
	}, nil
}

// ModelDetail is the single-item view: unlike listings it may carry the full
// inline payload.
type ModelDetail struct {
	Model   entity.Model
	FileURL string
}

func (s *ModelService) GetModel(ctx context.Context, id string) (*ModelDetail, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, ErrInvalidModelID
	}
	m, err := s.Models.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrModelNotFound
		}
		return nil, err
	}
	return &ModelDetail{Model: *m, FileURL: s.retrievalURL(ctx, m.FileKey)}, nil
}

// retrievalURL resolves a storage key to a signed link, caching it in Redis
// slightly shorter than the link's own lifetime. Empty key or signing failure
// yields an empty URL.
func (s *ModelService) retrievalURL(ctx context.Context, key string) string {
	if key == "" || s.Assets == nil {
		return ""
	}
	cacheKey := "asset:url:" + key
	if s.Redis != nil {
		var cached string
		if ok, _ := helpers.RedisGetJSON(ctx, s.Redis, cacheKey, &cached); ok {
			return cached
		}
	}
	url, err := s.Assets.SignedURL(ctx, key, s.AssetURLTTL)
	if err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("key", key).Warn("signed url generation failed")
		}
		return ""
	}
	if s.Redis != nil && url != "" {
		_ = helpers.RedisSetJSON(ctx, s.Redis, cacheKey, url, s.AssetURLTTL-5*time.Minute)
	}
	return url
}

func (s *ModelService) indexModel(ctx context.Context, m *entity.Model) {
	if s.ES == nil || s.ESModelsIndex == "" {
		return
	}
	doc := map[string]any{
		"id":            m.ID,
		"name":          m.Name,
		"description":   m.Description,
		"category":      m.Category,
		"material_type": m.MaterialType,
		"owner_name":    m.OwnerName,
		"is_public":     m.IsPublic,
		"created_at":    m.CreatedAt.Format(time.RFC3339Nano),
	}
	b, _ := json.Marshal(doc)
	req := esapi.IndexRequest{Index: s.ESModelsIndex, DocumentID: m.ID, Body: bytes.NewReader(b), Refresh: "false"}
	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	res, err := req.Do(c, s.ES)
	if err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("model_id", m.ID).Warn("es index failed")
		}
		return
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() && s.Logger != nil {
		s.Logger.WithField("status", res.Status()).WithField("model_id", m.ID).Warn("es index response error")
	}
}

// SearchModels runs a multi_match query over public model docs.
func (s *ModelService) SearchModels(ctx context.Context, q string, size int) ([]map[string]any, error) {
	if s.ES == nil || s.ESModelsIndex == "" {
		return []map[string]any{}, nil
	}
	if size <= 0 || size > 50 {
		size = 10
	}
	query := map[string]any{
		"query": map[string]any{
			"bool": map[string]any{
				"must": map[string]any{
					"multi_match": map[string]any{
						"query":  q,
						"fields": []string{"name^2", "description", "category"},
					},
				},
				"filter": map[string]any{
					"term": map[string]any{"is_public": true},
				},
			},
		},
		"size": size,
	}
	b, _ := json.Marshal(query)

	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	res, err := s.ES.Search(s.ES.Search.WithContext(c), s.ES.Search.WithIndex(s.ESModelsIndex), s.ES.Search.WithBody(bytes.NewReader(b)))
	if err != nil {
		return nil, err
	}
	defer func() { _ = res.Body.Close() }()

	var parsed struct {
		Hits struct {
			Hits []struct {
				ID     string         `json:"_id"`
				Source map[string]any `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, err
	}

	out := make([]map[string]any, 0, len(parsed.Hits.Hits))
	for _, h := range parsed.Hits.Hits {
		out = append(out, h.Source)
	}
	return out, nil
}

// fileFormat derives the format from an explicit value or the filename
// extension, defaulting to stl.
func fileFormat(req UploadRequest) string {
	if req.FileFormat != "" {
		return strings.ToLower(req.FileFormat)
	}
	if i := strings.LastIndex(req.Filename, "."); i >= 0 && i < len(req.Filename)-1 {
		return strings.ToLower(req.Filename[i+1:])
	}
	return "stl"
}
