package application

import (
	"context"
	"io"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/printforge/printforge-api/internal/domain/entity"
	repo "github.com/printforge/printforge-api/internal/domain/repository"
	"github.com/printforge/printforge-api/pkg/mailer"
)

// In-memory repository fakes backing the service tests. They reproduce the
// storage contracts the Postgres implementations honor: unique email on
// insert, single-statement counter deltas, newest-first listings.

type memUserRepo struct {
	mu        sync.Mutex
	users     map[string]*entity.User
	creditErr error
	credits   []repo.CounterDelta
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{users: map[string]*entity.User{}}
}

func (r *memUserRepo) Create(_ context.Context, u *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.users {
		if existing.Email == u.Email {
			return repo.ErrDuplicate
		}
	}
	u.ID = uuid.NewString()
	u.IsActive = true
	u.CreatedAt = time.Now().UTC()
	u.UpdatedAt = u.CreatedAt
	cp := *u
	r.users[u.ID] = &cp
	return nil
}

func (r *memUserRepo) GetByID(_ context.Context, id string) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, repo.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *memUserRepo) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repo.ErrNotFound
}

func (r *memUserRepo) Credit(_ context.Context, userID string, delta repo.CounterDelta) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.creditErr != nil {
		return r.creditErr
	}
	u, ok := r.users[userID]
	if !ok {
		return repo.ErrNotFound
	}
	u.Points += delta.Points
	u.ModelsCount += delta.ModelsCount
	u.OrdersCount += delta.OrdersCount
	r.credits = append(r.credits, delta)
	return nil
}

func (r *memUserRepo) mustGet(id string) *entity.User {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *r.users[id]
	return &cp
}

type memModelRepo struct {
	mu        sync.Mutex
	models    []entity.Model
	createErr error
	seq       int
}

func newMemModelRepo() *memModelRepo { return &memModelRepo{} }

func (r *memModelRepo) Create(_ context.Context, m *entity.Model) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createErr != nil {
		return r.createErr
	}
	m.ID = uuid.NewString()
	// Monotonic timestamps so newest-first ordering is deterministic.
	r.seq++
	m.CreatedAt = time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC).Add(time.Duration(r.seq) * time.Minute)
	r.models = append(r.models, *m)
	return nil
}

func (r *memModelRepo) GetByID(_ context.Context, id string) (*entity.Model, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.models {
		if r.models[i].ID == id {
			cp := r.models[i]
			return &cp, nil
		}
	}
	return nil, repo.ErrNotFound
}

func (r *memModelRepo) ListPublic(_ context.Context, f repo.CatalogFilter) ([]entity.Model, int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var filtered []entity.Model
	for _, m := range r.models {
		if !m.IsPublic {
			continue
		}
		if f.Category != "" && m.Category != f.Category {
			continue
		}
		filtered = append(filtered, m)
	}
	sort.Slice(filtered, func(i, j int) bool {
		return filtered[i].CreatedAt.After(filtered[j].CreatedAt)
	})
	total := len(filtered)
	if f.Skip >= total {
		return nil, total, nil
	}
	end := f.Skip + f.Limit
	if end > total {
		end = total
	}
	return filtered[f.Skip:end], total, nil
}

type memOrderRepo struct {
	mu        sync.Mutex
	orders    []entity.Order
	createErr error
}

func newMemOrderRepo() *memOrderRepo { return &memOrderRepo{} }

func (r *memOrderRepo) Create(_ context.Context, o *entity.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createErr != nil {
		return r.createErr
	}
	o.ID = uuid.NewString()
	o.CreatedAt = time.Now().UTC()
	r.orders = append(r.orders, *o)
	return nil
}

func (r *memOrderRepo) ListByUser(_ context.Context, userID string) ([]entity.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []entity.Order
	for _, o := range r.orders {
		if o.UserID == userID {
			out = append(out, o)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

type memAssetStore struct {
	mu      sync.Mutex
	putErr  error
	signErr error
	puts    []string
}

func newMemAssetStore() *memAssetStore { return &memAssetStore{} }

func (s *memAssetStore) Put(_ context.Context, ownerID, filename, _ string, r io.Reader) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.putErr != nil {
		return "", s.putErr
	}
	_, _ = io.Copy(io.Discard, r)
	key := "models/" + ownerID + "/20250101_000000_" + filename
	s.puts = append(s.puts, key)
	return key, nil
}

func (s *memAssetStore) SignedURL(_ context.Context, key string, _ time.Duration) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.signErr != nil {
		return "", s.signErr
	}
	return "https://storage.test/signed/" + key, nil
}

func (s *memAssetStore) putCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.puts)
}

type memEmailQueue struct {
	mu         sync.Mutex
	publishErr error
	jobs       []mailer.EmailJob
}

func newMemEmailQueue() *memEmailQueue { return &memEmailQueue{} }

func (q *memEmailQueue) PublishJSON(_ context.Context, body any) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.publishErr != nil {
		return q.publishErr
	}
	if job, ok := body.(mailer.EmailJob); ok {
		q.jobs = append(q.jobs, job)
	}
	return nil
}

func (q *memEmailQueue) sent() []mailer.EmailJob {
	q.mu.Lock()
	defer q.mu.Unlock()
	return append([]mailer.EmailJob(nil), q.jobs...)
}
