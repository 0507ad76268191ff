package transcript

import (
	"context"

	apperrors "github.com/mwpearce/scriptorium/internal/errors"
	"github.com/mwpearce/scriptorium/internal/model"
	"github.com/mwpearce/scriptorium/internal/repository/episode"
	"github.com/mwpearce/scriptorium/internal/repository/line"
	"github.com/mwpearce/scriptorium/internal/repository/season"
	"github.com/mwpearce/scriptorium/internal/repository/speaker"
)

// defaultContextRadius is how many lines around a hit search results carry
const defaultContextRadius = 2

// LineInput describes one line to ingest into an episode
type LineInput struct {
	SpeakerName *string
	LineNumber  int
	Content     string
}

// SearchOptions narrows a content search; zero value searches everything
type SearchOptions struct {
	SeasonNumber *int
	EpisodeID    *int64
	SpeakerID    *int64
	Phrase       bool
	// ContextRadius overrides the default ±2 context lines; negative
	// disables context retrieval
	ContextRadius *int
}

// SearchResult is one matching line with its surrounding episode context
type SearchResult struct {
	Line    *model.Line   `json:"line"`
	Context []*model.Line `json:"context,omitempty"`
}

// Service is the access layer for transcript storage and search. Callers
// mutate seasons, episodes, speakers and lines through it; the full-text
// index follows line mutations automatically.
type Service interface {
	AddSeason(ctx context.Context, number int) (*model.Season, error)
	ListSeasons(ctx context.Context) ([]*model.Season, error)
	DeleteSeason(ctx context.Context, id int64) error

	AddEpisode(ctx context.Context, seasonNumber, episodeNumber int, title string) (*model.Episode, error)
	ListEpisodes(ctx context.Context, seasonNumber int) ([]*model.Episode, error)
	DeleteEpisode(ctx context.Context, id int64) error

	AddSpeaker(ctx context.Context, name string) (*model.Speaker, error)
	ListSpeakers(ctx context.Context) ([]*model.Speaker, error)
	DeleteSpeaker(ctx context.Context, id int64) error

	AddLine(ctx context.Context, seasonNumber, episodeNumber int, in LineInput) (*model.Line, error)
	AddLines(ctx context.Context, seasonNumber, episodeNumber int, inputs []LineInput) (int, error)
	UpdateLineContent(ctx context.Context, id int64, content string) error
	MoveLine(ctx context.Context, id int64, lineNumber int) error
	DeleteLine(ctx context.Context, id int64) error

	SearchContent(ctx context.Context, phrase string, opts SearchOptions) ([]SearchResult, error)
	SearchContentIDs(ctx context.Context, phrase string, opts SearchOptions) ([]int64, error)
	RandomLine(ctx context.Context, opts SearchOptions) (*model.Line, error)
	Transcript(ctx context.Context, seasonNumber, episodeNumber int) ([]*model.Line, error)
}

// service implements Service over the four repositories
type service struct {
	seasons  season.Repository
	episodes episode.Repository
	speakers speaker.Repository
	lines    line.Repository
}

// NewService creates a new transcript service
func NewService(seasons season.Repository, episodes episode.Repository, speakers speaker.Repository, lines line.Repository) Service {
	return &service{
		seasons:  seasons,
		episodes: episodes,
		speakers: speakers,
		lines:    lines,
	}
}

func (s *service) AddSeason(ctx context.Context, number int) (*model.Season, error) {
	return s.seasons.Upsert(ctx, number)
}

func (s *service) ListSeasons(ctx context.Context) ([]*model.Season, error) {
	return s.seasons.List(ctx)
}

func (s *service) DeleteSeason(ctx context.Context, id int64) error {
	return s.seasons.Delete(ctx, id)
}

// AddEpisode upserts an episode into an existing season, addressed by
// season number
func (s *service) AddEpisode(ctx context.Context, seasonNumber, episodeNumber int, title string) (*model.Episode, error) {
	sn, err := s.seasons.GetByNumber(ctx, seasonNumber)
	if err != nil {
		return nil, err
	}
	return s.episodes.Upsert(ctx, sn.ID, episodeNumber, title)
}

func (s *service) ListEpisodes(ctx context.Context, seasonNumber int) ([]*model.Episode, error) {
	sn, err := s.seasons.GetByNumber(ctx, seasonNumber)
	if err != nil {
		return nil, err
	}
	return s.episodes.ListBySeason(ctx, sn.ID)
}

func (s *service) DeleteEpisode(ctx context.Context, id int64) error {
	return s.episodes.Delete(ctx, id)
}

func (s *service) AddSpeaker(ctx context.Context, name string) (*model.Speaker, error) {
	return s.speakers.Upsert(ctx, name)
}

func (s *service) ListSpeakers(ctx context.Context) ([]*model.Speaker, error) {
	return s.speakers.List(ctx)
}

func (s *service) DeleteSpeaker(ctx context.Context, id int64) error {
	return s.speakers.Delete(ctx, id)
}

// AddLine inserts one line into an episode. The speaker, if named, is
// upserted; season and episode must already exist.
func (s *service) AddLine(ctx context.Context, seasonNumber, episodeNumber int, in LineInput) (*model.Line, error) {
	ep, err := s.resolveEpisode(ctx, seasonNumber, episodeNumber)
	if err != nil {
		return nil, err
	}

	l := &model.Line{
		SeasonID:   ep.SeasonID,
		EpisodeID:  ep.ID,
		LineNumber: in.LineNumber,
		Content:    in.Content,
	}
	if in.SpeakerName != nil {
		sp, err := s.speakers.Upsert(ctx, *in.SpeakerName)
		if err != nil {
			return nil, err
		}
		l.SpeakerID = &sp.ID
		l.SpeakerName = &sp.Name
	}

	if err := s.lines.Insert(ctx, l); err != nil {
		return nil, err
	}
	return l, nil
}

// AddLines bulk-loads lines into an episode and returns how many were
// inserted. Speakers are upserted once per distinct name.
func (s *service) AddLines(ctx context.Context, seasonNumber, episodeNumber int, inputs []LineInput) (int, error) {
	if len(inputs) == 0 {
		return 0, nil
	}

	ep, err := s.resolveEpisode(ctx, seasonNumber, episodeNumber)
	if err != nil {
		return 0, err
	}

	speakerIDs := make(map[string]int64)
	lines := make([]*model.Line, 0, len(inputs))
	for _, in := range inputs {
		l := &model.Line{
			SeasonID:   ep.SeasonID,
			EpisodeID:  ep.ID,
			LineNumber: in.LineNumber,
			Content:    in.Content,
		}
		if in.SpeakerName != nil {
			name := *in.SpeakerName
			id, ok := speakerIDs[name]
			if !ok {
				sp, err := s.speakers.Upsert(ctx, name)
				if err != nil {
					return 0, err
				}
				id = sp.ID
				speakerIDs[name] = id
			}
			speakerID := id
			l.SpeakerID = &speakerID
		}
		lines = append(lines, l)
	}

	if err := s.lines.InsertBatch(ctx, lines); err != nil {
		return 0, err
	}
	return len(lines), nil
}

func (s *service) UpdateLineContent(ctx context.Context, id int64, content string) error {
	return s.lines.UpdateContent(ctx, id, content)
}

func (s *service) MoveLine(ctx context.Context, id int64, lineNumber int) error {
	return s.lines.UpdateLineNumber(ctx, id, lineNumber)
}

func (s *service) DeleteLine(ctx context.Context, id int64) error {
	return s.lines.Delete(ctx, id)
}

// SearchContent runs a full-text search and hydrates each hit with its
// surrounding lines
func (s *service) SearchContent(ctx context.Context, phrase string, opts SearchOptions) ([]SearchResult, error) {
	q, err := buildQuery(phrase, opts)
	if err != nil {
		return nil, err
	}

	hits, err := s.lines.Search(ctx, q)
	if err != nil {
		return nil, err
	}

	radius := defaultContextRadius
	if opts.ContextRadius != nil {
		radius = *opts.ContextRadius
	}

	results := make([]SearchResult, 0, len(hits))
	for _, hit := range hits {
		result := SearchResult{Line: hit}
		if radius >= 0 {
			surrounding, err := s.lines.Context(ctx, hit, radius)
			if err != nil {
				return nil, err
			}
			result.Context = surrounding
		}
		results = append(results, result)
	}
	return results, nil
}

// SearchContentIDs runs a full-text search and returns only line IDs
func (s *service) SearchContentIDs(ctx context.Context, phrase string, opts SearchOptions) ([]int64, error) {
	q, err := buildQuery(phrase, opts)
	if err != nil {
		return nil, err
	}
	return s.lines.SearchIDs(ctx, q)
}

func (s *service) RandomLine(ctx context.Context, opts SearchOptions) (*model.Line, error) {
	return s.lines.Random(ctx, line.Filter{
		SeasonNumber: opts.SeasonNumber,
		EpisodeID:    opts.EpisodeID,
		SpeakerID:    opts.SpeakerID,
	})
}

// Transcript returns an episode's lines in order. A missing season or
// episode is NotFound, distinct from an existing episode with no lines.
func (s *service) Transcript(ctx context.Context, seasonNumber, episodeNumber int) ([]*model.Line, error) {
	if _, err := s.resolveEpisode(ctx, seasonNumber, episodeNumber); err != nil {
		return nil, err
	}
	return s.lines.Transcript(ctx, seasonNumber, episodeNumber)
}

// resolveEpisode looks up an episode by season and episode number
func (s *service) resolveEpisode(ctx context.Context, seasonNumber, episodeNumber int) (*model.Episode, error) {
	sn, err := s.seasons.GetByNumber(ctx, seasonNumber)
	if err != nil {
		return nil, err
	}
	return s.episodes.GetBySeasonAndNumber(ctx, sn.ID, episodeNumber)
}

// buildQuery sanitizes the phrase and folds in the filters
func buildQuery(phrase string, opts SearchOptions) (line.SearchQuery, error) {
	terms := sanitizeQuery(phrase)
	if terms == "" {
		return line.SearchQuery{}, apperrors.New(apperrors.CodeInvalidArg, "search phrase is empty")
	}

	return line.SearchQuery{
		Terms:  terms,
		Phrase: opts.Phrase,
		Filter: line.Filter{
			SeasonNumber: opts.SeasonNumber,
			EpisodeID:    opts.EpisodeID,
			SpeakerID:    opts.SpeakerID,
		},
	}, nil
}
