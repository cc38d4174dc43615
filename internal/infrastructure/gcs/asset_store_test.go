package gcs

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestObjectKey(t *testing.T) {
	now := time.Date(2025, 3, 14, 9, 26, 53, 0, time.UTC)

	cases := []struct {
		name     string
		filename string
		want     string
	}{
		{
			name:     "plain filename",
			filename: "benchy.stl",
			want:     "models/u1/20250314_092653_benchy.stl",
		},
		{
			name:     "spaces folded",
			filename: "low poly dragon.obj",
			want:     "models/u1/20250314_092653_low_poly_dragon.obj",
		},
		{
			name:     "path traversal stripped",
			filename: "../../etc/passwd",
			want:     "models/u1/20250314_092653_passwd",
		},
		{
			name:     "windows separators stripped",
			filename: `..\..\boot.ini`,
			want:     "models/u1/20250314_092653_boot.ini",
		},
		{
			name:     "empty filename gets default",
			filename: "",
			want:     "models/u1/20250314_092653_model.stl",
		},
		{
			name:     "hostile chars dropped",
			filename: "v☂se?*.3mf",
			want:     "models/u1/20250314_092653_vse.3mf",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, objectKey("u1", tc.filename, now))
		})
	}
}

func TestSanitizeNeverEmpty(t *testing.T) {
	assert.Equal(t, "model.stl", sanitize("☂☃☄"))
	assert.Equal(t, "model.stl", sanitize("..."))
}
