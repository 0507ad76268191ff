package model

import "strings"

// Season represents one season of a show
type Season struct {
	ID     int64 `json:"id" db:"id"`
	Number int   `json:"number" db:"number"`
}

// Episode represents a single episode, attached to a season
type Episode struct {
	ID       int64  `json:"id" db:"id"`
	SeasonID int64  `json:"season_id" db:"season_id"`
	Number   int    `json:"number" db:"number"` // unique within the season
	Title    string `json:"title" db:"title"`
}

// Speaker represents a named speaker; lines reference speakers optionally
type Speaker struct {
	ID   int64  `json:"id" db:"id"`
	Name string `json:"name" db:"name"`
}

// Line represents a single transcript line attached to a season and episode.
// SeasonID is denormalized from the episode so season-scoped queries need no
// join; the composite foreign key in the schema keeps the two in agreement.
// SpeakerName is populated on reads that join speakers.
type Line struct {
	ID          int64   `json:"id" db:"id"`
	SeasonID    int64   `json:"season_id" db:"season_id"`
	EpisodeID   int64   `json:"episode_id" db:"episode_id"`
	SpeakerID   *int64  `json:"speaker_id" db:"speaker_id"`
	SpeakerName *string `json:"speaker_name" db:"speaker_name"`
	LineNumber  int     `json:"line_number" db:"line_number"` // unique within the episode
	Content     string  `json:"content" db:"content"`
}

// NormalizeContent produces the canonical form of line content used for
// equality comparison. Content is stored verbatim but compared
// case-insensitively; SQL comparison sites use LOWER() for the same effect.
func NormalizeContent(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
