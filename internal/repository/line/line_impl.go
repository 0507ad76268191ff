package line

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	apperrors "github.com/mwpearce/scriptorium/internal/errors"
	"github.com/mwpearce/scriptorium/internal/model"
	"github.com/mwpearce/scriptorium/internal/repository/common"
)

// tsvector configuration: Porter stemming with Unicode-aware segmentation
const tsConfig = "english"

// lineRepository implements Repository using PostgreSQL. The lines_fts
// shadow table is written exclusively here, in the same transaction as the
// lines mutation it mirrors.
type lineRepository struct {
	pool common.Pool
}

// NewRepository creates a new instance of Repository
func NewRepository(pool common.Pool) Repository {
	return &lineRepository{
		pool: pool,
	}
}

// Insert creates a line and its index entry in one transaction
func (r *lineRepository) Insert(ctx context.Context, line *model.Line) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return common.HandlePostgreSQLError(err, "failed to begin transaction")
	}
	defer func() { _ = tx.Rollback(ctx) }()

	insertSQL := `INSERT INTO lines (season_id, episode_id, speaker_id, line_number, content)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`

	err = tx.QueryRow(ctx, insertSQL,
		line.SeasonID,
		line.EpisodeID,
		line.SpeakerID,
		line.LineNumber,
		line.Content,
	).Scan(&line.ID)
	if err != nil {
		return common.HandlePostgreSQLError(err, "failed to insert line")
	}

	if err := indexInsert(ctx, tx, line.ID, line.Content); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return common.HandlePostgreSQLError(err, "failed to commit line insert")
	}
	return nil
}

// InsertBatch bulk-loads lines via COPY, then backfills index entries for
// the copied rows with one set-based insert before committing
func (r *lineRepository) InsertBatch(ctx context.Context, lines []*model.Line) error {
	if len(lines) == 0 {
		return nil // Nothing to insert
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return common.HandlePostgreSQLError(err, "failed to begin transaction")
	}
	defer func() { _ = tx.Rollback(ctx) }()

	rows := make([][]interface{}, len(lines))
	for i, line := range lines {
		rows[i] = []interface{}{
			line.SeasonID,
			line.EpisodeID,
			line.SpeakerID,
			line.LineNumber,
			line.Content,
		}
	}

	_, err = tx.CopyFrom(
		ctx,
		pgx.Identifier{"lines"},
		[]string{"season_id", "episode_id", "speaker_id", "line_number", "content"},
		pgx.CopyFromRows(rows),
	)
	if err != nil {
		return common.HandlePostgreSQLError(err, "failed to copy lines")
	}

	// Only the rows this COPY added lack index entries; everything older is
	// covered by the shadow invariant.
	backfillSQL := `INSERT INTO lines_fts (line_id, content_tokens)
		SELECT l.id, to_tsvector('` + tsConfig + `', l.content)
		FROM lines l
		LEFT JOIN lines_fts f ON f.line_id = l.id
		WHERE f.line_id IS NULL`

	if _, err := tx.Exec(ctx, backfillSQL); err != nil {
		return common.HandlePostgreSQLError(err, "failed to index copied lines")
	}

	if err := tx.Commit(ctx); err != nil {
		return common.HandlePostgreSQLError(err, "failed to commit line batch")
	}
	return nil
}

// UpdateContent replaces a line's content and reindexes it. The old index
// entry is tombstoned before the new one is inserted so the index never
// holds two entries, or a stale one, for the line.
func (r *lineRepository) UpdateContent(ctx context.Context, id int64, content string) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return common.HandlePostgreSQLError(err, "failed to begin transaction")
	}
	defer func() { _ = tx.Rollback(ctx) }()

	tag, err := tx.Exec(ctx, `UPDATE lines SET content = $2 WHERE id = $1`, id, content)
	if err != nil {
		return common.HandlePostgreSQLError(err, "failed to update line content")
	}
	if tag.RowsAffected() == 0 {
		return apperrors.New(apperrors.CodeNotFound, "line not found")
	}

	if err := indexDelete(ctx, tx, id); err != nil {
		return err
	}
	if err := indexInsert(ctx, tx, id, content); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return common.HandlePostgreSQLError(err, "failed to commit content update")
	}
	return nil
}

// UpdateLineNumber moves a line within its episode. Content is untouched,
// so the index entry stays as it is.
func (r *lineRepository) UpdateLineNumber(ctx context.Context, id int64, lineNumber int) error {
	tag, err := r.pool.Exec(ctx, `UPDATE lines SET line_number = $2 WHERE id = $1`, id, lineNumber)
	if err != nil {
		return common.HandlePostgreSQLError(err, "failed to update line number")
	}
	if tag.RowsAffected() == 0 {
		return apperrors.New(apperrors.CodeNotFound, "line not found")
	}
	return nil
}

// Delete tombstones the line's index entry, then removes the row, in one
// transaction
func (r *lineRepository) Delete(ctx context.Context, id int64) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return common.HandlePostgreSQLError(err, "failed to begin transaction")
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := indexDelete(ctx, tx, id); err != nil {
		return err
	}

	tag, err := tx.Exec(ctx, `DELETE FROM lines WHERE id = $1`, id)
	if err != nil {
		return common.HandlePostgreSQLError(err, "failed to delete line")
	}
	if tag.RowsAffected() == 0 {
		return apperrors.New(apperrors.CodeNotFound, "line not found")
	}

	if err := tx.Commit(ctx); err != nil {
		return common.HandlePostgreSQLError(err, "failed to commit line delete")
	}
	return nil
}

// indexInsert writes the tokenized projection of content under the line's ID
func indexInsert(ctx context.Context, tx pgx.Tx, lineID int64, content string) error {
	sql := `INSERT INTO lines_fts (line_id, content_tokens)
		VALUES ($1, to_tsvector('` + tsConfig + `', $2))`

	if _, err := tx.Exec(ctx, sql, lineID, content); err != nil {
		return common.HandlePostgreSQLError(err, "failed to index line content")
	}
	return nil
}

// indexDelete removes the index entry for the line ID. Zero rows is fine:
// the entry may already be gone when a cascade raced this transaction.
func indexDelete(ctx context.Context, tx pgx.Tx, lineID int64) error {
	if _, err := tx.Exec(ctx, `DELETE FROM lines_fts WHERE line_id = $1`, lineID); err != nil {
		return common.HandlePostgreSQLError(err, "failed to remove line index entry")
	}
	return nil
}

// GetByID retrieves a line with its speaker name
func (r *lineRepository) GetByID(ctx context.Context, id int64) (*model.Line, error) {
	sql := `SELECT l.id, l.season_id, l.episode_id, l.speaker_id, s.name AS speaker_name, l.line_number, l.content
		FROM lines l
		LEFT JOIN speakers s ON l.speaker_id = s.id
		WHERE l.id = $1`

	var line model.Line
	err := r.pool.QueryRow(ctx, sql, id).Scan(
		&line.ID,
		&line.SeasonID,
		&line.EpisodeID,
		&line.SpeakerID,
		&line.SpeakerName,
		&line.LineNumber,
		&line.Content,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.Wrap(err, apperrors.CodeNotFound, "line not found")
		}
		return nil, common.HandlePostgreSQLError(err, "failed to get line")
	}
	return &line, nil
}

// FindByContent retrieves lines of an episode matching content
// case-insensitively. Content is stored verbatim; both sides are normalized
// (lowercased, trimmed) at the comparison site.
func (r *lineRepository) FindByContent(ctx context.Context, episodeID int64, content string) ([]*model.Line, error) {
	sql := `SELECT l.id, l.season_id, l.episode_id, l.speaker_id, s.name AS speaker_name, l.line_number, l.content
		FROM lines l
		LEFT JOIN speakers s ON l.speaker_id = s.id
		WHERE l.episode_id = $1 AND LOWER(TRIM(l.content)) = $2
		ORDER BY l.line_number`

	rows, err := r.pool.Query(ctx, sql, episodeID, model.NormalizeContent(content))
	if err != nil {
		return nil, common.HandlePostgreSQLError(err, "failed to find lines by content")
	}
	defer rows.Close()

	return scanLines(rows)
}
