package speaker

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	apperrors "github.com/mwpearce/scriptorium/internal/errors"
	"github.com/mwpearce/scriptorium/internal/model"
	"github.com/mwpearce/scriptorium/internal/repository/common"
)

// speakerRepository implements Repository using PostgreSQL
type speakerRepository struct {
	pool common.Pool
}

// NewRepository creates a new instance of Repository
func NewRepository(pool common.Pool) Repository {
	return &speakerRepository{
		pool: pool,
	}
}

// Upsert inserts a speaker or returns the existing one with the same name
func (r *speakerRepository) Upsert(ctx context.Context, name string) (*model.Speaker, error) {
	sql := `INSERT INTO speakers (name) VALUES ($1)
		ON CONFLICT (name) DO UPDATE SET name = EXCLUDED.name
		RETURNING id`

	speaker := &model.Speaker{Name: name}
	if err := r.pool.QueryRow(ctx, sql, name).Scan(&speaker.ID); err != nil {
		return nil, common.HandlePostgreSQLError(err, "failed to upsert speaker")
	}
	return speaker, nil
}

// GetByID retrieves a speaker by its ID
func (r *speakerRepository) GetByID(ctx context.Context, id int64) (*model.Speaker, error) {
	sql := `SELECT id, name FROM speakers WHERE id = $1`

	var speaker model.Speaker
	err := r.pool.QueryRow(ctx, sql, id).Scan(&speaker.ID, &speaker.Name)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.Wrap(err, apperrors.CodeNotFound, "speaker not found")
		}
		return nil, common.HandlePostgreSQLError(err, "failed to get speaker")
	}
	return &speaker, nil
}

// GetByName retrieves a speaker by name
func (r *speakerRepository) GetByName(ctx context.Context, name string) (*model.Speaker, error) {
	sql := `SELECT id, name FROM speakers WHERE name = $1`

	var speaker model.Speaker
	err := r.pool.QueryRow(ctx, sql, name).Scan(&speaker.ID, &speaker.Name)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.Wrap(err, apperrors.CodeNotFound, "speaker not found")
		}
		return nil, common.HandlePostgreSQLError(err, "failed to get speaker by name")
	}
	return &speaker, nil
}

// List retrieves all speakers ordered by name
func (r *speakerRepository) List(ctx context.Context) ([]*model.Speaker, error) {
	sql := `SELECT id, name FROM speakers ORDER BY name`

	rows, err := r.pool.Query(ctx, sql)
	if err != nil {
		return nil, common.HandlePostgreSQLError(err, "failed to list speakers")
	}
	defer rows.Close()

	var speakers []*model.Speaker
	for rows.Next() {
		var speaker model.Speaker
		if err := rows.Scan(&speaker.ID, &speaker.Name); err != nil {
			return nil, common.HandlePostgreSQLError(err, "failed to scan speaker")
		}
		speakers = append(speakers, &speaker)
	}

	if err := rows.Err(); err != nil {
		return nil, common.HandlePostgreSQLError(err, "failed to iterate speaker rows")
	}

	return speakers, nil
}

// Delete deletes a speaker by ID. The schema's ON DELETE SET NULL nulls the
// speaker reference on lines rather than cascading; the lines survive.
func (r *speakerRepository) Delete(ctx context.Context, id int64) error {
	sql := `DELETE FROM speakers WHERE id = $1`

	tag, err := r.pool.Exec(ctx, sql, id)
	if err != nil {
		return common.HandlePostgreSQLError(err, "failed to delete speaker")
	}
	if tag.RowsAffected() == 0 {
		return apperrors.New(apperrors.CodeNotFound, "speaker not found")
	}
	return nil
}
