package episode

import (
	"context"

	"github.com/mwpearce/scriptorium/internal/model"
)

// Repository defines operations for Episode persistence
type Repository interface {
	// Upsert inserts an episode by its natural key (season_id, number),
	// updating the title and returning the existing row's ID on conflict
	Upsert(ctx context.Context, seasonID int64, number int, title string) (*model.Episode, error)

	// GetByID retrieves an episode by its ID
	GetByID(ctx context.Context, id int64) (*model.Episode, error)

	// GetBySeasonAndNumber retrieves an episode by season ID and episode number
	GetBySeasonAndNumber(ctx context.Context, seasonID int64, number int) (*model.Episode, error)

	// ListBySeason retrieves all episodes of a season ordered by number
	ListBySeason(ctx context.Context, seasonID int64) ([]*model.Episode, error)

	// Delete deletes an episode by ID, cascading to its lines
	Delete(ctx context.Context, id int64) error
}
