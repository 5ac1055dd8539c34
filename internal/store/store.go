package store

import (
	"context"
	"errors"

	"github.com/nulzo/model-catalog/pkg/catalog"
)

// ErrNotFound is returned when a record does not exist.
var ErrNotFound = errors.New("not found")

// Repository is the main contract for the data layer.
type Repository interface {
	Models() ModelRepository

	// transaction support
	WithTx(ctx context.Context, fn func(repo Repository) error) error

	Close() error
}

// ModelRepository persists decoded model listings.
type ModelRepository interface {
	// Upsert stores the models, replacing any existing record with the same id
	// together with its permissions.
	Upsert(ctx context.Context, models ...catalog.Model) error
	// Get returns a single model with its permissions in listing order.
	Get(ctx context.Context, id string) (*catalog.Model, error)
	// List returns every stored model ordered by id.
	List(ctx context.Context) ([]catalog.Model, error)
	// Delete removes a model and its permissions.
	Delete(ctx context.Context, id string) error
}
