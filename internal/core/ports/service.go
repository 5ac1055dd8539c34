package ports

import (
	"context"

	"github.com/nulzo/model-catalog/internal/tokenizer"
	"github.com/nulzo/model-catalog/pkg/catalog"
)

// ModelService manages imported model records and answers catalog queries.
type ModelService interface {
	// Import decodes a listing and stores its records. It returns how many
	// records were stored.
	Import(ctx context.Context, payload []byte) (int, error)
	List(ctx context.Context) ([]catalog.Model, error)
	Get(ctx context.Context, id string) (*catalog.Model, error)
	Delete(ctx context.Context, id string) error

	// Describe returns the catalog entry for a wire identifier.
	Describe(id string) (catalog.Entry, error)
	// Catalog lists the catalog, restricted to one family unless family is empty.
	Catalog(family catalog.Family) ([]catalog.Entry, error)
	// Budget counts prompt tokens against the model's limit.
	Budget(ctx context.Context, id, prompt string) (tokenizer.Budget, error)
}
