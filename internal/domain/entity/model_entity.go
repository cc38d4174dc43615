package entity

import (
	"time"
)

// Model statuses. Uploads always start out pending; approval is a manual
// moderation step outside the API surface.
const (
	ModelStatusPending  = "pending"
	ModelStatusApproved = "approved"
)

// Model is a printable 3D model listed in the catalog.
//
// Exactly one of FileKey and FileData is expected to be set. FileKey points at
// an object in the asset bucket and is resolved to a signed URL on read;
// FileData carries the payload inline as base64 (the legacy JSON upload path).
// Whichever representation a model was created with is immutable afterwards.
type Model struct {
	ID               string
	Name             string
	Description      string
	Category         string
	MaterialType     string
	PrintTimeMinutes int
	Price            float64
	IsPublic         bool
	Status           string
	FileKey          string
	FileData         string // base64, inline representation
	FileFormat       string // stl, obj, 3mf
	OwnerID          string
	OwnerName        string // denormalized at creation
	Likes            int
	Downloads        int
	CreatedAt        time.Time
}
