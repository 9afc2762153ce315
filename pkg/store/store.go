// Package store keeps conversion records for the HTTP API so clients can
// fetch a finished conversion and its artifacts by ID.
//
// Backends:
//   - memory: process-local, for development and tests
//   - mongo: MongoDB collection, for deployments that run several servers
package store

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Record is one finished conversion.
type Record struct {
	ID        string    `json:"id" bson:"_id"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`

	Image     string `json:"image" bson:"image"` // uploaded file name
	ImageHash string `json:"image_hash" bson:"image_hash"`
	RulesHash string `json:"rules_hash" bson:"rules_hash"`

	Cell      string   `json:"cell" bson:"cell"`
	Macro     string   `json:"macro" bson:"macro"`
	Stack     []string `json:"stack" bson:"stack"`
	PixelSize float64  `json:"pixel_size" bson:"pixel_size"`
	Threshold int      `json:"threshold" bson:"threshold"`
	Width     float64  `json:"width" bson:"width"`   // µm
	Height    float64  `json:"height" bson:"height"` // µm
	Shapes    int      `json:"shapes" bson:"shapes"`
	Vias      int      `json:"vias" bson:"vias"`
	Passes    int      `json:"resolve_passes" bson:"resolve_passes"`
	Filled    int      `json:"resolve_filled" bson:"resolve_filled"`
	Formats   []string `json:"formats" bson:"formats"`

	Artifacts map[string][]byte `json:"-" bson:"artifacts"`
}

// NewRecord returns a record with a fresh ID and creation time.
func NewRecord() *Record {
	return &Record{
		ID:        uuid.NewString(),
		CreatedAt: time.Now().UTC(),
		Artifacts: make(map[string][]byte),
	}
}

// ValidID reports whether id has the form NewRecord produces.
func ValidID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

// Store persists records.
type Store interface {
	// Put inserts or replaces a record.
	Put(ctx context.Context, rec *Record) error

	// Get returns the record with id, or a NOT_FOUND error.
	Get(ctx context.Context, id string) (*Record, error)

	// List returns up to limit records, newest first. limit <= 0 means all.
	List(ctx context.Context, limit int) ([]*Record, error)

	// Delete removes a record. Missing records are not an error.
	Delete(ctx context.Context, id string) error

	Close(ctx context.Context) error
}
