package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/heartmarshall/wordgraph/internal/domain"
)

// sqlStates maps the SQLSTATE codes the snapshot schema can raise to domain
// errors.
var sqlStates = map[string]error{
	"23505": domain.ErrAlreadyExists, // unique_violation: duplicate node or edge key
	"23503": domain.ErrNotFound,      // foreign_key_violation: run removed mid-save
	"23514": domain.ErrValidation,    // check_violation: negative depth, self-loop edge
	"23502": domain.ErrValidation,    // not_null_violation
}

// MapError annotates err with the entity and id it concerns and translates
// missing rows and constraint violations into domain errors. Context errors
// and unknown database errors are wrapped unchanged.
func MapError(err error, entity string, id uuid.UUID) error {
	if err == nil {
		return nil
	}

	var pgErr *pgconn.PgError
	switch {
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
	case errors.Is(err, pgx.ErrNoRows):
		return fmt.Errorf("%s %s: %w", entity, id, domain.ErrNotFound)
	case errors.As(err, &pgErr):
		mapped, ok := sqlStates[pgErr.Code]
		if !ok {
			break
		}
		if pgErr.ConstraintName != "" {
			return fmt.Errorf("%s %s: constraint %s: %w", entity, id, pgErr.ConstraintName, mapped)
		}
		return fmt.Errorf("%s %s: %w", entity, id, mapped)
	}
	return fmt.Errorf("%s %s: %w", entity, id, err)
}
