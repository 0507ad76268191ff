package speaker

import (
	"context"

	"github.com/mwpearce/scriptorium/internal/model"
)

// Repository defines operations for Speaker persistence
type Repository interface {
	// Upsert inserts a speaker by name, returning the existing row's ID
	// when the name is already present
	Upsert(ctx context.Context, name string) (*model.Speaker, error)

	// GetByID retrieves a speaker by its ID
	GetByID(ctx context.Context, id int64) (*model.Speaker, error)

	// GetByName retrieves a speaker by name
	GetByName(ctx context.Context, name string) (*model.Speaker, error)

	// List retrieves all speakers ordered by name
	List(ctx context.Context) ([]*model.Speaker, error)

	// Delete deletes a speaker by ID. Lines referencing the speaker keep
	// their row; their speaker reference is set to null.
	Delete(ctx context.Context, id int64) error
}
