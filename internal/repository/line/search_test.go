package line

import (
	"context"
	"testing"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/mwpearce/scriptorium/internal/errors"
	"github.com/mwpearce/scriptorium/internal/model"
)

var lineResultColumns = []string{
	"id", "season_id", "episode_id", "speaker_id", "speaker_name", "line_number", "content",
}

// lineAt builds the minimal line a context lookup needs
func lineAt(episodeID int64, lineNumber int) *model.Line {
	return &model.Line{EpisodeID: episodeID, LineNumber: lineNumber}
}

func TestLineRepository_Search(t *testing.T) {
	seasonNumber := 1
	speakerID := int64(3)
	speakerName := "CHANDLER"

	tests := []struct {
		name    string
		query   SearchQuery
		setup   func(mock pgxmock.PgxPoolIface)
		wantIDs []int64
		wantErr bool
	}{
		{
			name:  "plain term search",
			query: SearchQuery{Terms: "hello"},
			setup: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectQuery("plainto_tsquery").
					WithArgs("hello").
					WillReturnRows(pgxmock.NewRows(lineResultColumns).
						AddRow(int64(1000), int64(1), int64(11), &speakerID, &speakerName, 1, "Hello world"))
			},
			wantIDs: []int64{1000},
		},
		{
			name:  "phrase search uses phraseto_tsquery",
			query: SearchQuery{Terms: "hello world", Phrase: true},
			setup: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectQuery("phraseto_tsquery").
					WithArgs("hello world").
					WillReturnRows(pgxmock.NewRows(lineResultColumns).
						AddRow(int64(1000), int64(1), int64(11), nil, nil, 1, "Hello world"))
			},
			wantIDs: []int64{1000},
		},
		{
			name: "season filter binds after the match",
			query: SearchQuery{
				Terms:  "hello",
				Filter: Filter{SeasonNumber: &seasonNumber},
			},
			setup: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectQuery("plainto_tsquery").
					WithArgs("hello", 1).
					WillReturnRows(pgxmock.NewRows(lineResultColumns))
			},
			wantIDs: nil,
		},
		{
			name:  "database error",
			query: SearchQuery{Terms: "hello"},
			setup: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectQuery("plainto_tsquery").
					WithArgs("hello").
					WillReturnError(assert.AnError)
			},
			wantErr: true,
		},
		{
			name:  "connection failure mid-iteration is surfaced",
			query: SearchQuery{Terms: "hello"},
			setup: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectQuery("plainto_tsquery").
					WithArgs("hello").
					WillReturnRows(pgxmock.NewRows(lineResultColumns).
						AddRow(int64(1000), int64(1), int64(11), nil, nil, 1, "Hello world").
						RowError(0, assert.AnError))
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
			lines, err := repo.Search(context.Background(), tt.query)

			if tt.wantErr {
				assert.Error(t, err)
			} else {
				require.NoError(t, err)
				var gotIDs []int64
				for _, l := range lines {
					gotIDs = append(gotIDs, l.ID)
				}
				assert.Equal(t, tt.wantIDs, gotIDs)
			}

			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestLineRepository_SearchIDs(t *testing.T) {
	t.Run("returns matching IDs", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		mock.ExpectQuery("plainto_tsquery").
			WithArgs("goodbye").
			WillReturnRows(pgxmock.NewRows([]string{"id"}).
				AddRow(int64(1000)).
				AddRow(int64(1001)))

		repo := NewRepository(mock)
		ids, err := repo.SearchIDs(context.Background(), SearchQuery{Terms: "goodbye"})

		require.NoError(t, err)
		assert.Equal(t, []int64{1000, 1001}, ids)

		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("connection failure mid-iteration is surfaced", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		mock.ExpectQuery("plainto_tsquery").
			WithArgs("goodbye").
			WillReturnRows(pgxmock.NewRows([]string{"id"}).
				AddRow(int64(1000)).
				RowError(0, assert.AnError))

		repo := NewRepository(mock)
		ids, err := repo.SearchIDs(context.Background(), SearchQuery{Terms: "goodbye"})

		require.Error(t, err)
		assert.Nil(t, ids)

		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestLineRepository_Random(t *testing.T) {
	speakerID := int64(3)

	tests := []struct {
		name     string
		filter   Filter
		setup    func(mock pgxmock.PgxPoolIface)
		wantErr  bool
		wantCode string
	}{
		{
			name:   "unfiltered",
			filter: Filter{},
			setup: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectQuery("ORDER BY random").
					WillReturnRows(pgxmock.NewRows(lineResultColumns).
						AddRow(int64(1000), int64(1), int64(11), nil, nil, 1, "Hello world"))
			},
		},
		{
			name:   "speaker filter",
			filter: Filter{SpeakerID: &speakerID},
			setup: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectQuery("ORDER BY random").
					WithArgs(int64(3)).
					WillReturnRows(pgxmock.NewRows(lineResultColumns).
						AddRow(int64(1001), int64(1), int64(11), &speakerID, nil, 2, "Could I BE any more indexed?"))
			},
		},
		{
			name:   "nothing matches",
			filter: Filter{},
			setup: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectQuery("ORDER BY random").
					WillReturnRows(pgxmock.NewRows(lineResultColumns))
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
			line, err := repo.Random(context.Background(), tt.filter)

			if tt.wantErr {
				require.Error(t, err)
				if tt.wantCode != "" {
					assert.True(t, apperrors.HasCode(err, tt.wantCode))
				}
			} else {
				require.NoError(t, err)
				assert.NotNil(t, line)
			}

			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestLineRepository_Context(t *testing.T) {
	t.Run("window is clamped at line one", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		mock.ExpectQuery("BETWEEN").
			WithArgs(int64(11), 1, 3).
			WillReturnRows(pgxmock.NewRows(lineResultColumns).
				AddRow(int64(1000), int64(1), int64(11), nil, nil, 1, "Hello world").
				AddRow(int64(1001), int64(1), int64(11), nil, nil, 2, "Second line"))

		repo := NewRepository(mock)
		lines, err := repo.Context(context.Background(), lineAt(11, 1), 2)

		require.NoError(t, err)
		require.Len(t, lines, 2)

		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("window spans both sides", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		mock.ExpectQuery("BETWEEN").
			WithArgs(int64(11), 3, 7).
			WillReturnRows(pgxmock.NewRows(lineResultColumns).
				AddRow(int64(1003), int64(1), int64(11), nil, nil, 4, "before").
				AddRow(int64(1004), int64(1), int64(11), nil, nil, 5, "hit").
				AddRow(int64(1005), int64(1), int64(11), nil, nil, 6, "after"))

		repo := NewRepository(mock)
		lines, err := repo.Context(context.Background(), lineAt(11, 5), 2)

		require.NoError(t, err)
		require.Len(t, lines, 3)

		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestLineRepository_Transcript(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectQuery("WHERE sn.number = (.+) AND e.number =").
		WithArgs(1, 1).
		WillReturnRows(pgxmock.NewRows(lineResultColumns).
			AddRow(int64(1000), int64(1), int64(11), nil, nil, 1, "Hello world").
			AddRow(int64(1001), int64(1), int64(11), nil, nil, 2, "Second line"))

	repo := NewRepository(mock)
	lines, err := repo.Transcript(context.Background(), 1, 1)

	require.NoError(t, err)
	require.Len(t, lines, 2)
	assert.Equal(t, 1, lines[0].LineNumber)
	assert.Equal(t, 2, lines[1].LineNumber)

	require.NoError(t, mock.ExpectationsWereMet())
}
