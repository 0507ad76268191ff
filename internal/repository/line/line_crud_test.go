package line

import (
	"context"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/mwpearce/scriptorium/internal/errors"
	"github.com/mwpearce/scriptorium/internal/model"
)

func TestLineRepository_Insert(t *testing.T) {
	speakerID := int64(3)

	tests := []struct {
		name    string
		line    *model.Line
		setup   func(mock pgxmock.PgxPoolIface)
		wantErr bool
	}{
		{
			name: "inserts line and index entry in one transaction",
			line: &model.Line{
				SeasonID:   1,
				EpisodeID:  11,
				SpeakerID:  &speakerID,
				LineNumber: 1,
				Content:    "Hello world",
			},
			setup: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectBegin()
				mock.ExpectQuery("INSERT INTO lines").
					WithArgs(int64(1), int64(11), &speakerID, 1, "Hello world").
					WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(int64(1000)))
				mock.ExpectExec("INSERT INTO lines_fts").
					WithArgs(int64(1000), "Hello world").
					WillReturnResult(pgxmock.NewResult("INSERT", 1))
				mock.ExpectCommit()
			},
		},
		{
			name: "row insert failure rolls back",
			line: &model.Line{
				SeasonID:   1,
				EpisodeID:  11,
				LineNumber: 1,
				Content:    "Hello world",
			},
			setup: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectBegin()
				mock.ExpectQuery("INSERT INTO lines").
					WithArgs(int64(1), int64(11), (*int64)(nil), 1, "Hello world").
					WillReturnError(assert.AnError)
				mock.ExpectRollback()
			},
			wantErr: true,
		},
		{
			name: "index insert failure rolls back the row insert",
			line: &model.Line{
				SeasonID:   1,
				EpisodeID:  11,
				LineNumber: 1,
				Content:    "Hello world",
			},
			setup: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectBegin()
				mock.ExpectQuery("INSERT INTO lines").
					WithArgs(int64(1), int64(11), (*int64)(nil), 1, "Hello world").
					WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(int64(1000)))
				mock.ExpectExec("INSERT INTO lines_fts").
					WithArgs(int64(1000), "Hello world").
					WillReturnError(assert.AnError)
				mock.ExpectRollback()
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock, err := pgxmock.NewPool()
			require.NoError(t, err)
			defer mock.Close()

			tt.setup(mock)

			repo := NewRepository(mock)
			err = repo.Insert(context.Background(), tt.line)

			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, int64(1000), tt.line.ID)
			}

			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestLineRepository_UpdateContent(t *testing.T) {
	tests := []struct {
		name     string
		id       int64
		content  string
		setup    func(mock pgxmock.PgxPoolIface)
		wantErr  bool
		wantCode string
	}{
		{
			name:    "tombstones old entry before inserting the new one",
			id:      1000,
			content: "Goodbye world",
			setup: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectBegin()
				mock.ExpectExec("UPDATE lines SET content").
					WithArgs(int64(1000), "Goodbye world").
					WillReturnResult(pgxmock.NewResult("UPDATE", 1))
				mock.ExpectExec("DELETE FROM lines_fts").
					WithArgs(int64(1000)).
					WillReturnResult(pgxmock.NewResult("DELETE", 1))
				mock.ExpectExec("INSERT INTO lines_fts").
					WithArgs(int64(1000), "Goodbye world").
					WillReturnResult(pgxmock.NewResult("INSERT", 1))
				mock.ExpectCommit()
			},
		},
		{
			name:    "line not found",
			id:      42,
			content: "Goodbye world",
			setup: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectBegin()
				mock.ExpectExec("UPDATE lines SET content").
					WithArgs(int64(42), "Goodbye world").
					WillReturnResult(pgxmock.NewResult("UPDATE", 0))
				mock.ExpectRollback()
			},
			wantErr:  true,
			wantCode: apperrors.CodeNotFound,
		},
		{
			name:    "reindex failure rolls back the content update",
			id:      1000,
			content: "Goodbye world",
			setup: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectBegin()
				mock.ExpectExec("UPDATE lines SET content").
					WithArgs(int64(1000), "Goodbye world").
					WillReturnResult(pgxmock.NewResult("UPDATE", 1))
				mock.ExpectExec("DELETE FROM lines_fts").
					WithArgs(int64(1000)).
					WillReturnResult(pgxmock.NewResult("DELETE", 1))
				mock.ExpectExec("INSERT INTO lines_fts").
					WithArgs(int64(1000), "Goodbye world").
					WillReturnError(assert.AnError)
				mock.ExpectRollback()
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock, err := pgxmock.NewPool()
			require.NoError(t, err)
			defer mock.Close()

			tt.setup(mock)

			repo := NewRepository(mock)
			err = repo.UpdateContent(context.Background(), tt.id, tt.content)

			if tt.wantErr {
				require.Error(t, err)
				if tt.wantCode != "" {
					assert.True(t, apperrors.HasCode(err, tt.wantCode))
				}
			} else {
				assert.NoError(t, err)
			}

			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestLineRepository_UpdateLineNumber(t *testing.T) {
	tests := []struct {
		name       string
		id         int64
		lineNumber int
		setup      func(mock pgxmock.PgxPoolIface)
		wantErr    bool
		wantCode   string
	}{
		{
			name:       "successful move",
			id:         1000,
			lineNumber: 5,
			setup: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectExec("UPDATE lines SET line_number").
					WithArgs(int64(1000), 5).
					WillReturnResult(pgxmock.NewResult("UPDATE", 1))
			},
		},
		{
			name:       "line not found",
			id:         42,
			lineNumber: 5,
			setup: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectExec("UPDATE lines SET line_number").
					WithArgs(int64(42), 5).
					WillReturnResult(pgxmock.NewResult("UPDATE", 0))
			},
			wantErr:  true,
			wantCode: apperrors.CodeNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock, err := pgxmock.NewPool()
			require.NoError(t, err)
			defer mock.Close()

			tt.setup(mock)

			repo := NewRepository(mock)
			err = repo.UpdateLineNumber(context.Background(), tt.id, tt.lineNumber)

			if tt.wantErr {
				require.Error(t, err)
				if tt.wantCode != "" {
					assert.True(t, apperrors.HasCode(err, tt.wantCode))
				}
			} else {
				assert.NoError(t, err)
			}

			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestLineRepository_Delete(t *testing.T) {
	tests := []struct {
		name     string
		id       int64
		setup    func(mock pgxmock.PgxPoolIface)
		wantErr  bool
		wantCode string
	}{
		{
			name: "tombstones index entry before deleting the row",
			id:   1000,
			setup: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectBegin()
				mock.ExpectExec("DELETE FROM lines_fts").
					WithArgs(int64(1000)).
					WillReturnResult(pgxmock.NewResult("DELETE", 1))
				mock.ExpectExec("DELETE FROM lines WHERE id").
					WithArgs(int64(1000)).
					WillReturnResult(pgxmock.NewResult("DELETE", 1))
				mock.ExpectCommit()
			},
		},
		{
			name: "line not found",
			id:   42,
			setup: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectBegin()
				mock.ExpectExec("DELETE FROM lines_fts").
					WithArgs(int64(42)).
					WillReturnResult(pgxmock.NewResult("DELETE", 0))
				mock.ExpectExec("DELETE FROM lines WHERE id").
					WithArgs(int64(42)).
					WillReturnResult(pgxmock.NewResult("DELETE", 0))
				mock.ExpectRollback()
			},
			wantErr:  true,
			wantCode: apperrors.CodeNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock, err := pgxmock.NewPool()
			require.NoError(t, err)
			defer mock.Close()

			tt.setup(mock)

			repo := NewRepository(mock)
			err = repo.Delete(context.Background(), tt.id)

			if tt.wantErr {
				require.Error(t, err)
				if tt.wantCode != "" {
					assert.True(t, apperrors.HasCode(err, tt.wantCode))
				}
			} else {
				assert.NoError(t, err)
			}

			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestLineRepository_FindByContent(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	// Both sides are normalized: the query argument is lowercased and
	// trimmed, the column is compared through LOWER(TRIM(...))
	mock.ExpectQuery(`LOWER\(TRIM\(l.content\)\)`).
		WithArgs(int64(11), "hello world").
		WillReturnRows(pgxmock.NewRows([]string{
			"id", "season_id", "episode_id", "speaker_id", "speaker_name", "line_number", "content",
		}).AddRow(int64(1000), int64(1), int64(11), nil, nil, 1, "  Hello World  "))

	repo := NewRepository(mock)
	lines, err := repo.FindByContent(context.Background(), 11, "  HELLO world ")

	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.Equal(t, int64(1000), lines[0].ID)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestLineRepository_InsertBatch(t *testing.T) {
	speakerID := int64(3)
	lines := []*model.Line{
		{SeasonID: 1, EpisodeID: 11, SpeakerID: &speakerID, LineNumber: 1, Content: "Hello world"},
		{SeasonID: 1, EpisodeID: 11, LineNumber: 2, Content: "Goodbye world"},
	}

	t.Run("copies rows and backfills index entries", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		mock.ExpectBegin()
		mock.ExpectCopyFrom(pgx.Identifier{"lines"},
			[]string{"season_id", "episode_id", "speaker_id", "line_number", "content"}).
			WillReturnResult(2)
		mock.ExpectExec("INSERT INTO lines_fts").
			WillReturnResult(pgxmock.NewResult("INSERT", 2))
		mock.ExpectCommit()

		repo := NewRepository(mock)
		require.NoError(t, repo.InsertBatch(context.Background(), lines))

		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("backfill failure rolls back the copy", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		mock.ExpectBegin()
		mock.ExpectCopyFrom(pgx.Identifier{"lines"},
			[]string{"season_id", "episode_id", "speaker_id", "line_number", "content"}).
			WillReturnResult(2)
		mock.ExpectExec("INSERT INTO lines_fts").
			WillReturnError(assert.AnError)
		mock.ExpectRollback()

		repo := NewRepository(mock)
		require.Error(t, repo.InsertBatch(context.Background(), lines))

		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("empty batch is a no-op", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		repo := NewRepository(mock)
		require.NoError(t, repo.InsertBatch(context.Background(), nil))

		require.NoError(t, mock.ExpectationsWereMet())
	})
}
