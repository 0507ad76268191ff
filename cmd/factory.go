package cmd

import (
	"context"
	"fmt"

	"github.com/mwpearce/scriptorium/internal/config"
	"github.com/mwpearce/scriptorium/internal/repository/episode"
	"github.com/mwpearce/scriptorium/internal/repository/line"
	"github.com/mwpearce/scriptorium/internal/repository/season"
	"github.com/mwpearce/scriptorium/internal/repository/speaker"
	"github.com/mwpearce/scriptorium/internal/service/transcript"
)

// newTranscriptService wires configuration, the connection pool and the
// repositories into a transcript service. The returned cleanup closes the
// pool.
func newTranscriptService(ctx context.Context) (transcript.Service, func(), error) {
	cfg, err := config.NewConfig()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	dbPool, err := config.NewDatabasePool(ctx, cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	service := transcript.NewService(
		season.NewRepository(dbPool),
		episode.NewRepository(dbPool),
		speaker.NewRepository(dbPool),
		line.NewRepository(dbPool),
	)

	cleanup := func() {
		config.CloseDatabasePool(dbPool)
	}

	return service, cleanup, nil
}
