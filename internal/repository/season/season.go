package season

import (
	"context"

	"github.com/mwpearce/scriptorium/internal/model"
)

// Repository defines operations for Season persistence
type Repository interface {
	// Upsert inserts a season by its natural key, returning the existing
	// row's ID when the number is already present
	Upsert(ctx context.Context, number int) (*model.Season, error)

	// GetByID retrieves a season by its ID
	GetByID(ctx context.Context, id int64) (*model.Season, error)

	// GetByNumber retrieves a season by its number
	GetByNumber(ctx context.Context, number int) (*model.Season, error)

	// List retrieves all seasons ordered by number
	List(ctx context.Context) ([]*model.Season, error)

	// Delete deletes a season by ID, cascading to its episodes and lines
	Delete(ctx context.Context, id int64) error
}
