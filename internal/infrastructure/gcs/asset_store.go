package gcs

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"path"
	"strings"
	"time"

	"cloud.google.com/go/storage"

	"github.com/printforge/printforge-api/internal/domain/repository"
)

// AssetStore stores model files in a GCS bucket and mints V4 signed URLs for
// retrieval.
type AssetStore struct {
	client *storage.Client
	bucket string
	now    func() time.Time
}

func NewAssetStore(client *storage.Client, bucket string) *AssetStore {
	return &AssetStore{client: client, bucket: bucket, now: time.Now}
}

// Put uploads the file under a timestamped key and returns that key. The write
// happens before any model metadata is persisted, so a failure here leaves no
// dangling records.
func (s *AssetStore) Put(ctx context.Context, ownerID, filename, contentType string, r io.Reader) (string, error) {
	if s.client == nil || s.bucket == "" {
		return "", fmt.Errorf("asset store not configured")
	}
	key := objectKey(ownerID, filename, s.now().UTC())

	ctx, cancel := context.WithTimeout(ctx, 2*time.Minute)
	defer cancel()
	wc := s.client.Bucket(s.bucket).Object(key).NewWriter(ctx)
	wc.ContentType = contentType
	wc.ChunkSize = 0 // disable chunking for small files
	if _, err := io.Copy(wc, r); err != nil {
		_ = wc.Close()
		return "", fmt.Errorf("write object %q: %w", key, err)
	}
	if err := wc.Close(); err != nil {
		return "", fmt.Errorf("close object %q: %w", key, err)
	}
	return key, nil
}

// SignedURL returns a time-bounded GET URL for a stored key.
func (s *AssetStore) SignedURL(ctx context.Context, key string, ttl time.Duration) (string, error) {
	if s.client == nil || s.bucket == "" {
		return "", fmt.Errorf("asset store not configured")
	}
	if ttl <= 0 {
		ttl = time.Hour
	}
	return s.client.Bucket(s.bucket).SignedURL(key, &storage.SignedURLOptions{
		Scheme:  storage.SigningSchemeV4,
		Method:  http.MethodGet,
		Expires: s.now().Add(ttl),
	})
}

// objectKey builds models/{ownerID}/{YYYYMMDD_HHMMSS}_{base}. Only the final
// path segment of the client-supplied filename is used, which neutralizes
// traversal attempts.
func objectKey(ownerID, filename string, now time.Time) string {
	base := path.Base(strings.ReplaceAll(filename, `\`, "/"))
	if base == "." || base == "/" || base == "" {
		base = "model.stl"
	}
	return fmt.Sprintf("models/%s/%s_%s", ownerID, now.Format("20060102_150405"), sanitize(base))
}

// sanitize keeps letters, digits, dot, dash and underscore; spaces fold to
// underscores, everything else is dropped.
func sanitize(name string) string {
	var b strings.Builder
	b.Grow(len(name))
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9',
			r == '.', r == '-', r == '_':
			b.WriteRune(r)
		case r == ' ':
			b.WriteByte('_')
		}
	}
	out := strings.Trim(b.String(), ".")
	if out == "" {
		return "model.stl"
	}
	return out
}

var _ repository.AssetStore = (*AssetStore)(nil)
