package common

import (
	"errors"
	"strings"

	apperrors "github.com/mwpearce/scriptorium/internal/errors"
	"github.com/jackc/pgx/v5/pgconn"
)

// HandlePostgreSQLError converts PostgreSQL-specific errors to appropriate AppError codes
func HandlePostgreSQLError(err error, operation string) *apperrors.AppError {
	if err == nil {
		return nil
	}

	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		// Not a PostgreSQL error, return generic internal error
		return apperrors.Wrap(err, apperrors.CodeInternal, operation)
	}

	switch pgErr.Code {
	case "23505": // UNIQUE_VIOLATION
		return handleUniqueViolation(pgErr)

	case "23503": // FOREIGN_KEY_VIOLATION
		return handleForeignKeyViolation(pgErr)

	case "23502": // NOT_NULL_VIOLATION
		return apperrors.Wrap(err, apperrors.CodeInvalidArg, "required field is missing")

	case "23514": // CHECK_VIOLATION
		return apperrors.Wrap(err, apperrors.CodeInvalidArg, "data violates check constraint")

	case "42P01": // UNDEFINED_TABLE
		return apperrors.Wrap(err, apperrors.CodeInternal, "database schema error: table not found")

	case "42703": // UNDEFINED_COLUMN
		return apperrors.Wrap(err, apperrors.CodeInternal, "database schema error: column not found")

	case "08000", "08003", "08006": // CONNECTION_EXCEPTION variants
		return apperrors.Wrap(err, apperrors.CodeInternal, "database connection error")

	case "53300": // TOO_MANY_CONNECTIONS
		return apperrors.Wrap(err, apperrors.CodeInternal, "database connection limit reached")

	default:
		message := "database error (PostgreSQL code: " + pgErr.Code + ")"
		return apperrors.Wrap(err, apperrors.CodeInternal, message)
	}
}

// handleUniqueViolation provides specific error messages for different unique constraints
func handleUniqueViolation(pgErr *pgconn.PgError) *apperrors.AppError {
	constraintName := pgErr.ConstraintName

	switch {
	case strings.Contains(constraintName, "seasons_number"):
		return apperrors.Wrap(pgErr, apperrors.CodeConflict, "season with this number already exists")

	case strings.Contains(constraintName, "episodes_season_id_number"):
		return apperrors.Wrap(pgErr, apperrors.CodeConflict, "episode with this number already exists in the season")

	case strings.Contains(constraintName, "speakers_name"):
		return apperrors.Wrap(pgErr, apperrors.CodeConflict, "speaker with this name already exists")

	case strings.Contains(constraintName, "lines_season_id_episode_id_line_number"):
		return apperrors.Wrap(pgErr, apperrors.CodeConflict, "line with this number already exists in the episode")

	case strings.Contains(constraintName, "lines_fts"):
		return apperrors.Wrap(pgErr, apperrors.CodeConflict, "search index entry already exists for this line")

	case strings.Contains(constraintName, "pkey"):
		return apperrors.Wrap(pgErr, apperrors.CodeConflict, "resource with this ID already exists")

	default:
		return apperrors.Wrap(pgErr, apperrors.CodeConflict, "resource already exists")
	}
}

// handleForeignKeyViolation provides specific error messages for foreign key constraints
func handleForeignKeyViolation(pgErr *pgconn.PgError) *apperrors.AppError {
	constraintName := pgErr.ConstraintName

	switch {
	case strings.Contains(constraintName, "episodes_season_id"):
		return apperrors.Wrap(pgErr, apperrors.CodeDependency, "referenced season does not exist")

	case strings.Contains(constraintName, "lines_episode_id_season_id"):
		return apperrors.Wrap(pgErr, apperrors.CodeDependency, "referenced episode does not exist in the given season")

	case strings.Contains(constraintName, "speaker_id"):
		return apperrors.Wrap(pgErr, apperrors.CodeDependency, "referenced speaker does not exist")

	case strings.Contains(constraintName, "lines_fts_line_id"):
		return apperrors.Wrap(pgErr, apperrors.CodeDependency, "referenced line does not exist")

	default:
		return apperrors.Wrap(pgErr, apperrors.CodeDependency, "referenced resource does not exist")
	}
}
