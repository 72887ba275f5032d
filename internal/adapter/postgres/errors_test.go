package postgres

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"

	"github.com/heartmarshall/wordgraph/internal/domain"
)

func TestMapError(t *testing.T) {
	t.Parallel()

	unexpected := errors.New("something unexpected")
	tests := []struct {
		name string
		err  error
		want error
	}{
		{name: "no rows", err: pgx.ErrNoRows, want: domain.ErrNotFound},
		{name: "wrapped no rows", err: fmt.Errorf("scan: %w", pgx.ErrNoRows), want: domain.ErrNotFound},
		{name: "unique violation", err: &pgconn.PgError{Code: "23505"}, want: domain.ErrAlreadyExists},
		{name: "foreign key violation", err: &pgconn.PgError{Code: "23503"}, want: domain.ErrNotFound},
		{name: "check violation", err: &pgconn.PgError{Code: "23514"}, want: domain.ErrValidation},
		{name: "not null violation", err: &pgconn.PgError{Code: "23502"}, want: domain.ErrValidation},
		{name: "wrapped pg error", err: fmt.Errorf("batch: %w", &pgconn.PgError{Code: "23505"}), want: domain.ErrAlreadyExists},
		{name: "deadline", err: context.DeadlineExceeded, want: context.DeadlineExceeded},
		{name: "canceled", err: context.Canceled, want: context.Canceled},
		{name: "unknown", err: unexpected, want: unexpected},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.ErrorIs(t, MapError(tt.err, "graph_run", uuid.New()), tt.want)
		})
	}
}

func TestMapError_Nil(t *testing.T) {
	t.Parallel()
	assert.NoError(t, MapError(nil, "graph_run", uuid.New()))
}

func TestMapError_Messages(t *testing.T) {
	t.Parallel()

	id := uuid.New()
	assert.EqualError(t, MapError(pgx.ErrNoRows, "graph_run", id), fmt.Sprintf("graph_run %s: not found", id))
	assert.EqualError(t,
		MapError(&pgconn.PgError{Code: "23505", ConstraintName: "graph_nodes_run_id_lemma_pos_key"}, "graph_run", id),
		fmt.Sprintf("graph_run %s: constraint graph_nodes_run_id_lemma_pos_key: already exists", id))
}

func TestMapError_ContextNotMapped(t *testing.T) {
	t.Parallel()

	got := MapError(context.Canceled, "graph_run", uuid.New())
	assert.NotErrorIs(t, got, domain.ErrNotFound)
	assert.NotErrorIs(t, got, domain.ErrValidation)
}

func TestMapError_UnknownCodeKeepsPgError(t *testing.T) {
	t.Parallel()

	got := MapError(&pgconn.PgError{Code: "42P01", Message: "relation does not exist"}, "graph_run", uuid.New())

	var pgErr *pgconn.PgError
	assert.ErrorAs(t, got, &pgErr)
	assert.Equal(t, "42P01", pgErr.Code)
	assert.NotErrorIs(t, got, domain.ErrAlreadyExists)
	assert.NotErrorIs(t, got, domain.ErrValidation)
}
