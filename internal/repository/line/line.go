package line

import (
	"context"

	"github.com/mwpearce/scriptorium/internal/model"
)

// Filter narrows search, random and browse queries. Nil fields are ignored.
type Filter struct {
	SeasonNumber *int
	EpisodeID    *int64
	SpeakerID    *int64
}

// SearchQuery describes a full-text search over line content. Terms are
// matched with the index's stemmed tokens; Phrase requires the terms to
// appear adjacent and in order.
type SearchQuery struct {
	Terms  string
	Phrase bool
	Filter
}

// Repository defines operations for Line persistence and the full-text
// index shadowing it. Every mutation keeps the index entry for the line in
// step with the row, inside a single transaction: insert adds an entry,
// update tombstones the old entry and inserts the new one, delete
// tombstones the entry before removing the row. A failed index write rolls
// the whole mutation back.
type Repository interface {
	// Insert creates a line and its index entry, populating line.ID
	Insert(ctx context.Context, line *model.Line) error

	// InsertBatch bulk-loads lines via COPY and backfills their index
	// entries in the same transaction
	InsertBatch(ctx context.Context, lines []*model.Line) error

	// UpdateContent replaces a line's content in place and reindexes it
	UpdateContent(ctx context.Context, id int64, content string) error

	// UpdateLineNumber moves a line within its episode; fails with a
	// conflict if the target number is taken
	UpdateLineNumber(ctx context.Context, id int64, lineNumber int) error

	// Delete removes a line and its index entry
	Delete(ctx context.Context, id int64) error

	// GetByID retrieves a line with its speaker name
	GetByID(ctx context.Context, id int64) (*model.Line, error)

	// FindByContent retrieves lines of an episode whose content equals the
	// given text, compared case-insensitively
	FindByContent(ctx context.Context, episodeID int64, content string) ([]*model.Line, error)

	// Search retrieves lines whose indexed content matches the query,
	// ordered by season number, episode number, line number
	Search(ctx context.Context, q SearchQuery) ([]*model.Line, error)

	// SearchIDs is Search reduced to the matching line IDs
	SearchIDs(ctx context.Context, q SearchQuery) ([]int64, error)

	// Random retrieves one random line matching the filter
	Random(ctx context.Context, f Filter) (*model.Line, error)

	// Context retrieves the lines around the given line within its episode,
	// the line itself included
	Context(ctx context.Context, l *model.Line, radius int) ([]*model.Line, error)

	// Transcript retrieves an episode's lines by season and episode number,
	// ordered by line number
	Transcript(ctx context.Context, seasonNumber, episodeNumber int) ([]*model.Line, error)
}
