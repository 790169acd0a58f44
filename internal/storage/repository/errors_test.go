package repository

import (
	"database/sql"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"

	"github.com/magabrotheeeer/storefront/internal/storage"
)

func TestMapErr(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want error
	}{
		{name: "no rows", err: sql.ErrNoRows, want: storage.ErrNotFound},
		{name: "unique violation", err: &pgconn.PgError{Code: "23505"}, want: storage.ErrAlreadyExists},
		{name: "numeric overflow", err: &pgconn.PgError{Code: "22003"}, want: storage.ErrOutOfRange},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := mapErr("storage.Test", tt.err)
			assert.ErrorIs(t, got, tt.want)
		})
	}

	t.Run("other errors pass through", func(t *testing.T) {
		base := errors.New("boom")
		got := mapErr("storage.Test", base)
		assert.ErrorIs(t, got, base)
		assert.NotErrorIs(t, got, storage.ErrOutOfRange)
	})
}
