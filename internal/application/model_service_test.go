package application

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/printforge/printforge-api/internal/domain/entity"
)

func newModelFixture(t *testing.T) (*ModelService, *memUserRepo, *memModelRepo, *memAssetStore, string) {
	t.Helper()
	users := newMemUserRepo()
	models := newMemModelRepo()
	assets := newMemAssetStore()
	owner := &entity.User{Email: "maker@printforge.dev", Name: "Maker", Points: 100}
	require.NoError(t, users.Create(context.Background(), owner))
	svc := NewModelService(models, users, assets, nil, nil, nil, "", time.Hour)
	return svc, users, models, assets, owner.ID
}

func TestUploadExternalFile(t *testing.T) {
	svc, users, models, assets, ownerID := newModelFixture(t)

	res, err := svc.Upload(context.Background(), ownerID, UploadRequest{
		Name:             "Benchy",
		Description:      "calibration boat",
		Category:         "calibration",
		MaterialType:     "PLA",
		PrintTimeMinutes: 95,
		Price:            150,
		IsPublic:         true,
		Filename:         "benchy.stl",
		ContentType:      "model/stl",
		FileBytes:        []byte("solid benchy"),
	})
	require.NoError(t, err)
	assert.NotEmpty(t, res.ModelID)
	assert.Equal(t, UploadRewardPoints, res.PointsEarned)

	m, err := models.GetByID(context.Background(), res.ModelID)
	require.NoError(t, err)
	assert.NotEmpty(t, m.FileKey)
	assert.Empty(t, m.FileData)
	assert.Equal(t, entity.ModelStatusPending, m.Status)
	assert.Equal(t, "Maker", m.OwnerName)
	assert.Equal(t, "stl", m.FileFormat)
	assert.Equal(t, 1, assets.putCount())

	u := users.mustGet(ownerID)
	assert.Equal(t, 150, u.Points)
	assert.Equal(t, 1, u.ModelsCount)
}

func TestUploadInlineData(t *testing.T) {
	svc, _, models, assets, ownerID := newModelFixture(t)

	res, err := svc.Upload(context.Background(), ownerID, UploadRequest{
		Name:             "Vase",
		Description:      "spiral vase",
		Category:         "home",
		MaterialType:     "PETG",
		PrintTimeMinutes: 200,
		IsPublic:         true,
		InlineData:       "c29saWQgdmFzZQ==",
		FileFormat:       "obj",
	})
	require.NoError(t, err)

	m, err := models.GetByID(context.Background(), res.ModelID)
	require.NoError(t, err)
	assert.Equal(t, "c29saWQgdmFzZQ==", m.FileData)
	assert.Empty(t, m.FileKey)
	assert.Equal(t, "obj", m.FileFormat)
	// Inline payloads never touch object storage.
	assert.Equal(t, 0, assets.putCount())
}

func TestUploadStorageFailureWritesNothing(t *testing.T) {
	svc, users, models, assets, ownerID := newModelFixture(t)
	assets.putErr = errors.New("bucket unreachable")

	_, err := svc.Upload(context.Background(), ownerID, UploadRequest{
		Name:         "Ghost",
		Description:  "never lands",
		MaterialType: "PLA",
		Filename:     "ghost.stl",
		FileBytes:    []byte("solid ghost"),
	})
	require.ErrorIs(t, err, ErrStorage)

	// No metadata row and no reward when the object write failed.
	assert.Empty(t, models.models)
	u := users.mustGet(ownerID)
	assert.Equal(t, 100, u.Points)
	assert.Equal(t, 0, u.ModelsCount)
}

func TestUploadUnknownOwner(t *testing.T) {
	svc, _, _, _, _ := newModelFixture(t)
	_, err := svc.Upload(context.Background(), "2b6f0e8c-9d1a-4f4e-8c53-1c1cf9a6b0aa", UploadRequest{
		Name: "x", FileBytes: []byte("y"),
	})
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestUploadRewardFailureIsNonFatal(t *testing.T) {
	svc, users, _, _, ownerID := newModelFixture(t)
	users.creditErr = errors.New("ledger down")

	res, err := svc.Upload(context.Background(), ownerID, UploadRequest{
		Name: "Stoic", Description: "d", MaterialType: "PLA",
		Filename: "s.stl", FileBytes: []byte("solid"),
	})
	require.NoError(t, err)
	assert.NotEmpty(t, res.ModelID)
}

func TestCatalogPagination(t *testing.T) {
	svc, _, models, _, ownerID := newModelFixture(t)
	ctx := context.Background()

	for i := 0; i < 25; i++ {
		require.NoError(t, models.Create(ctx, &entity.Model{
			Name: fmt.Sprintf("model-%02d", i), IsPublic: true, Category: "gadgets", OwnerID: ownerID,
		}))
	}
	require.NoError(t, models.Create(ctx, &entity.Model{Name: "hidden", IsPublic: false, OwnerID: ownerID}))

	page1, err := svc.Catalog(ctx, 0, 10, "")
	require.NoError(t, err)
	assert.Len(t, page1.Items, 10)
	assert.Equal(t, 25, page1.Total)
	assert.Equal(t, 1, page1.Page)
	assert.Equal(t, 10, page1.PerPage)
	// Newest first.
	assert.Equal(t, "model-24", page1.Items[0].Model.Name)

	page3, err := svc.Catalog(ctx, 20, 10, "")
	require.NoError(t, err)
	assert.Len(t, page3.Items, 5)
	assert.Equal(t, 25, page3.Total)
	assert.Equal(t, 3, page3.Page)

	// Pages partition the set with no overlap.
	seen := map[string]bool{}
	for _, skip := range []int{0, 10, 20} {
		p, err := svc.Catalog(ctx, skip, 10, "")
		require.NoError(t, err)
		for _, it := range p.Items {
			assert.False(t, seen[it.Model.ID], "model repeated across pages")
			seen[it.Model.ID] = true
		}
	}
	assert.Len(t, seen, 25)

	// Skip past the end yields an empty page with the true total.
	empty, err := svc.Catalog(ctx, 100, 10, "")
	require.NoError(t, err)
	assert.Empty(t, empty.Items)
	assert.Equal(t, 25, empty.Total)
}

func TestCatalogDefaultsLimit(t *testing.T) {
	svc, _, _, _, _ := newModelFixture(t)
	page, err := svc.Catalog(context.Background(), 0, 0, "")
	require.NoError(t, err)
	assert.Equal(t, DefaultCatalogLimit, page.PerPage)
	assert.Equal(t, 1, page.Page)
}

func TestCatalogCategoryFilter(t *testing.T) {
	svc, _, models, _, ownerID := newModelFixture(t)
	ctx := context.Background()
	for _, c := range []string{"home", "home", "gadgets"} {
		require.NoError(t, models.Create(ctx, &entity.Model{Name: c, Category: c, IsPublic: true, OwnerID: ownerID}))
	}

	page, err := svc.Catalog(ctx, 0, 10, "home")
	require.NoError(t, err)
	assert.Len(t, page.Items, 2)
	assert.Equal(t, 2, page.Total)
}

func TestCatalogSignFailureDegradesEntry(t *testing.T) {
	svc, _, models, assets, ownerID := newModelFixture(t)
	ctx := context.Background()
	require.NoError(t, models.Create(ctx, &entity.Model{
		Name: "stored", IsPublic: true, FileKey: "models/x/20250101_000000_a.stl", OwnerID: ownerID,
	}))
	assets.signErr = errors.New("signer unavailable")

	page, err := svc.Catalog(ctx, 0, 10, "")
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Empty(t, page.Items[0].FileURL)
}

func TestGetModelErrors(t *testing.T) {
	svc, _, _, _, _ := newModelFixture(t)
	ctx := context.Background()

	_, err := svc.GetModel(ctx, "not-a-uuid")
	assert.ErrorIs(t, err, ErrInvalidModelID)

	_, err = svc.GetModel(ctx, "2b6f0e8c-9d1a-4f4e-8c53-1c1cf9a6b0aa")
	assert.ErrorIs(t, err, ErrModelNotFound)
}

func TestGetModelSignedURL(t *testing.T) {
	svc, _, models, _, ownerID := newModelFixture(t)
	ctx := context.Background()
	m := &entity.Model{Name: "stored", IsPublic: true, FileKey: "models/x/20250101_000000_a.stl", OwnerID: ownerID}
	require.NoError(t, models.Create(ctx, m))

	d, err := svc.GetModel(ctx, m.ID)
	require.NoError(t, err)
	assert.Equal(t, "https://storage.test/signed/"+m.FileKey, d.FileURL)
}

// Concurrent uploads must not lose reward credits; the ledger contract is
// increment-at-storage, never read-modify-write.
func TestConcurrentUploadCredits(t *testing.T) {
	svc, users, _, _, ownerID := newModelFixture(t)
	ctx := context.Background()

	const n = 20
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := svc.Upload(ctx, ownerID, UploadRequest{
				Name: fmt.Sprintf("m-%d", i), Description: "d", MaterialType: "PLA",
				Filename: "m.stl", FileBytes: []byte("solid"),
			})
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	u := users.mustGet(ownerID)
	assert.Equal(t, 100+n*UploadRewardPoints, u.Points)
	assert.Equal(t, n, u.ModelsCount)
}
