package episode

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	apperrors "github.com/mwpearce/scriptorium/internal/errors"
	"github.com/mwpearce/scriptorium/internal/model"
	"github.com/mwpearce/scriptorium/internal/repository/common"
)

// episodeRepository implements Repository using PostgreSQL
type episodeRepository struct {
	pool common.Pool
}

// NewRepository creates a new instance of Repository
func NewRepository(pool common.Pool) Repository {
	return &episodeRepository{
		pool: pool,
	}
}

// Upsert inserts an episode or updates the title of the existing one with
// the same (season_id, number) pair
func (r *episodeRepository) Upsert(ctx context.Context, seasonID int64, number int, title string) (*model.Episode, error) {
	sql := `INSERT INTO episodes (season_id, number, title) VALUES ($1, $2, $3)
		ON CONFLICT (season_id, number) DO UPDATE SET title = EXCLUDED.title
		RETURNING id`

	episode := &model.Episode{
		SeasonID: seasonID,
		Number:   number,
		Title:    title,
	}
	if err := r.pool.QueryRow(ctx, sql, seasonID, number, title).Scan(&episode.ID); err != nil {
		return nil, common.HandlePostgreSQLError(err, "failed to upsert episode")
	}
	return episode, nil
}

// GetByID retrieves an episode by its ID
func (r *episodeRepository) GetByID(ctx context.Context, id int64) (*model.Episode, error) {
	sql := `SELECT id, season_id, number, title FROM episodes WHERE id = $1`

	var episode model.Episode
	err := r.pool.QueryRow(ctx, sql, id).Scan(
		&episode.ID,
		&episode.SeasonID,
		&episode.Number,
		&episode.Title,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.Wrap(err, apperrors.CodeNotFound, "episode not found")
		}
		return nil, common.HandlePostgreSQLError(err, "failed to get episode")
	}
	return &episode, nil
}

// GetBySeasonAndNumber retrieves an episode by season ID and episode number
func (r *episodeRepository) GetBySeasonAndNumber(ctx context.Context, seasonID int64, number int) (*model.Episode, error) {
	sql := `SELECT id, season_id, number, title FROM episodes WHERE season_id = $1 AND number = $2`

	var episode model.Episode
	err := r.pool.QueryRow(ctx, sql, seasonID, number).Scan(
		&episode.ID,
		&episode.SeasonID,
		&episode.Number,
		&episode.Title,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.Wrap(err, apperrors.CodeNotFound, "episode not found")
		}
		return nil, common.HandlePostgreSQLError(err, "failed to get episode by season and number")
	}
	return &episode, nil
}

// ListBySeason retrieves all episodes of a season ordered by number
func (r *episodeRepository) ListBySeason(ctx context.Context, seasonID int64) ([]*model.Episode, error) {
	sql := `SELECT id, season_id, number, title FROM episodes WHERE season_id = $1 ORDER BY number`

	rows, err := r.pool.Query(ctx, sql, seasonID)
	if err != nil {
		return nil, common.HandlePostgreSQLError(err, "failed to list episodes")
	}
	defer rows.Close()

	var episodes []*model.Episode
	for rows.Next() {
		var episode model.Episode
		err := rows.Scan(
			&episode.ID,
			&episode.SeasonID,
			&episode.Number,
			&episode.Title,
		)
		if err != nil {
			return nil, common.HandlePostgreSQLError(err, "failed to scan episode")
		}
		episodes = append(episodes, &episode)
	}

	if err := rows.Err(); err != nil {
		return nil, common.HandlePostgreSQLError(err, "failed to iterate episode rows")
	}

	return episodes, nil
}

// Delete deletes an episode by ID. Its lines and their index entries are
// removed by the schema's cascade.
func (r *episodeRepository) Delete(ctx context.Context, id int64) error {
	sql := `DELETE FROM episodes WHERE id = $1`

	tag, err := r.pool.Exec(ctx, sql, id)
	if err != nil {
		return common.HandlePostgreSQLError(err, "failed to delete episode")
	}
	if tag.RowsAffected() == 0 {
		return apperrors.New(apperrors.CodeNotFound, "episode not found")
	}
	return nil
}
