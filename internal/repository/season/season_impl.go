package season

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	apperrors "github.com/mwpearce/scriptorium/internal/errors"
	"github.com/mwpearce/scriptorium/internal/model"
	"github.com/mwpearce/scriptorium/internal/repository/common"
)

// seasonRepository implements Repository using PostgreSQL
type seasonRepository struct {
	pool common.Pool
}

// NewRepository creates a new instance of Repository
func NewRepository(pool common.Pool) Repository {
	return &seasonRepository{
		pool: pool,
	}
}

// Upsert inserts a season or returns the existing one with the same number.
// The no-op DO UPDATE makes RETURNING yield the existing row's ID on conflict.
func (r *seasonRepository) Upsert(ctx context.Context, number int) (*model.Season, error) {
	sql := `INSERT INTO seasons (number) VALUES ($1)
		ON CONFLICT (number) DO UPDATE SET number = EXCLUDED.number
		RETURNING id`

	season := &model.Season{Number: number}
	if err := r.pool.QueryRow(ctx, sql, number).Scan(&season.ID); err != nil {
		return nil, common.HandlePostgreSQLError(err, "failed to upsert season")
	}
	return season, nil
}

// GetByID retrieves a season by its ID
func (r *seasonRepository) GetByID(ctx context.Context, id int64) (*model.Season, error) {
	sql := `SELECT id, number FROM seasons WHERE id = $1`

	var season model.Season
	err := r.pool.QueryRow(ctx, sql, id).Scan(&season.ID, &season.Number)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.Wrap(err, apperrors.CodeNotFound, "season not found")
		}
		return nil, common.HandlePostgreSQLError(err, "failed to get season")
	}
	return &season, nil
}

// GetByNumber retrieves a season by its number
func (r *seasonRepository) GetByNumber(ctx context.Context, number int) (*model.Season, error) {
	sql := `SELECT id, number FROM seasons WHERE number = $1`

	var season model.Season
	err := r.pool.QueryRow(ctx, sql, number).Scan(&season.ID, &season.Number)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.Wrap(err, apperrors.CodeNotFound, "season not found")
		}
		return nil, common.HandlePostgreSQLError(err, "failed to get season by number")
	}
	return &season, nil
}

// List retrieves all seasons ordered by number
func (r *seasonRepository) List(ctx context.Context) ([]*model.Season, error) {
	sql := `SELECT id, number FROM seasons ORDER BY number`

	rows, err := r.pool.Query(ctx, sql)
	if err != nil {
		return nil, common.HandlePostgreSQLError(err, "failed to list seasons")
	}
	defer rows.Close()

	var seasons []*model.Season
	for rows.Next() {
		var season model.Season
		if err := rows.Scan(&season.ID, &season.Number); err != nil {
			return nil, common.HandlePostgreSQLError(err, "failed to scan season")
		}
		seasons = append(seasons, &season)
	}

	if err := rows.Err(); err != nil {
		return nil, common.HandlePostgreSQLError(err, "failed to iterate season rows")
	}

	return seasons, nil
}

// Delete deletes a season by ID. Episodes and lines belonging to the season
// are removed by the schema's cascade, and the lines' index entries with them.
func (r *seasonRepository) Delete(ctx context.Context, id int64) error {
	sql := `DELETE FROM seasons WHERE id = $1`

	tag, err := r.pool.Exec(ctx, sql, id)
	if err != nil {
		return common.HandlePostgreSQLError(err, "failed to delete season")
	}
	if tag.RowsAffected() == 0 {
		return apperrors.New(apperrors.CodeNotFound, "season not found")
	}
	return nil
}
