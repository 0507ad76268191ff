package line

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	apperrors "github.com/mwpearce/scriptorium/internal/errors"
	"github.com/mwpearce/scriptorium/internal/model"
	"github.com/mwpearce/scriptorium/internal/repository/common"
)

// lineColumns is the projection shared by every line read path
const lineColumns = `l.id, l.season_id, l.episode_id, l.speaker_id, s.name AS speaker_name, l.line_number, l.content`

// lineJoins joins lines to speakers (optional reference), episodes and
// seasons, matching the browse ordering and season-number filtering
const lineJoins = `FROM lines l
	LEFT JOIN speakers s ON l.speaker_id = s.id
	JOIN episodes e ON l.episode_id = e.id
	JOIN seasons sn ON e.season_id = sn.id`

// Search retrieves lines whose indexed content matches the query
func (r *lineRepository) Search(ctx context.Context, q SearchQuery) ([]*model.Line, error) {
	sql, args := buildSearchSQL(lineColumns, q)

	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, common.HandlePostgreSQLError(err, "failed to search lines")
	}
	defer rows.Close()

	return scanLines(rows)
}

// SearchIDs retrieves only the IDs of matching lines
func (r *lineRepository) SearchIDs(ctx context.Context, q SearchQuery) ([]int64, error) {
	sql, args := buildSearchSQL(`l.id`, q)

	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, common.HandlePostgreSQLError(err, "failed to search line IDs")
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, common.HandlePostgreSQLError(err, "failed to scan line ID")
		}
		ids = append(ids, id)
	}

	if err := rows.Err(); err != nil {
		return nil, common.HandlePostgreSQLError(err, "failed to iterate line ID rows")
	}

	return ids, nil
}

// Random retrieves one random line matching the filter
func (r *lineRepository) Random(ctx context.Context, f Filter) (*model.Line, error) {
	conditions, args := filterConditions(f, 1)

	sql := fmt.Sprintf("SELECT %s\n\t%s", lineColumns, lineJoins)
	if len(conditions) > 0 {
		sql += "\n\tWHERE " + strings.Join(conditions, " AND ")
	}
	sql += "\n\tORDER BY random() LIMIT 1"

	var line model.Line
	err := r.pool.QueryRow(ctx, sql, args...).Scan(
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
			return nil, apperrors.Wrap(err, apperrors.CodeNotFound, "no line matches the filter")
		}
		return nil, common.HandlePostgreSQLError(err, "failed to get random line")
	}
	return &line, nil
}

// Context retrieves the lines around l within its episode, l included
func (r *lineRepository) Context(ctx context.Context, l *model.Line, radius int) ([]*model.Line, error) {
	from := l.LineNumber - radius
	if from < 1 {
		from = 1
	}
	to := l.LineNumber + radius

	sql := `SELECT l.id, l.season_id, l.episode_id, l.speaker_id, s.name AS speaker_name, l.line_number, l.content
		FROM lines l
		LEFT JOIN speakers s ON l.speaker_id = s.id
		WHERE l.episode_id = $1 AND l.line_number BETWEEN $2 AND $3
		ORDER BY l.line_number`

	rows, err := r.pool.Query(ctx, sql, l.EpisodeID, from, to)
	if err != nil {
		return nil, common.HandlePostgreSQLError(err, "failed to get context lines")
	}
	defer rows.Close()

	return scanLines(rows)
}

// Transcript retrieves an episode's lines by season and episode number
func (r *lineRepository) Transcript(ctx context.Context, seasonNumber, episodeNumber int) ([]*model.Line, error) {
	sql := fmt.Sprintf(`SELECT %s
	%s
	WHERE sn.number = $1 AND e.number = $2
	ORDER BY l.line_number`, lineColumns, lineJoins)

	rows, err := r.pool.Query(ctx, sql, seasonNumber, episodeNumber)
	if err != nil {
		return nil, common.HandlePostgreSQLError(err, "failed to get transcript")
	}
	defer rows.Close()

	return scanLines(rows)
}

// buildSearchSQL assembles the full-text match with optional filters. The
// match condition always binds $1; filters follow.
func buildSearchSQL(selectCols string, q SearchQuery) (string, []any) {
	tsquery := "plainto_tsquery"
	if q.Phrase {
		tsquery = "phraseto_tsquery"
	}

	conditions := []string{fmt.Sprintf("fts.content_tokens @@ %s('%s', $1)", tsquery, tsConfig)}
	args := []any{q.Terms}

	filterConds, filterArgs := filterConditions(q.Filter, 2)
	conditions = append(conditions, filterConds...)
	args = append(args, filterArgs...)

	sql := fmt.Sprintf(`SELECT %s
	%s
	JOIN lines_fts fts ON l.id = fts.line_id
	WHERE %s
	ORDER BY sn.number, e.number, l.line_number`,
		selectCols, lineJoins, strings.Join(conditions, " AND "))

	return sql, args
}

// filterConditions renders the optional filters as SQL conditions starting
// at placeholder $next
func filterConditions(f Filter, next int) ([]string, []any) {
	var conditions []string
	var args []any

	if f.SeasonNumber != nil {
		conditions = append(conditions, fmt.Sprintf("sn.number = $%d", next))
		args = append(args, *f.SeasonNumber)
		next++
	}
	if f.EpisodeID != nil {
		conditions = append(conditions, fmt.Sprintf("e.id = $%d", next))
		args = append(args, *f.EpisodeID)
		next++
	}
	if f.SpeakerID != nil {
		conditions = append(conditions, fmt.Sprintf("l.speaker_id = $%d", next))
		args = append(args, *f.SpeakerID)
	}

	return conditions, args
}

// scanLines drains rows into Line structs using the shared projection
func scanLines(rows pgx.Rows) ([]*model.Line, error) {
	var lines []*model.Line
	for rows.Next() {
		var line model.Line
		err := rows.Scan(
			&line.ID,
			&line.SeasonID,
			&line.EpisodeID,
			&line.SpeakerID,
			&line.SpeakerName,
			&line.LineNumber,
			&line.Content,
		)
		if err != nil {
			return nil, common.HandlePostgreSQLError(err, "failed to scan line")
		}
		lines = append(lines, &line)
	}

	if err := rows.Err(); err != nil {
		return nil, common.HandlePostgreSQLError(err, "failed to iterate line rows")
	}

	return lines, nil
}
