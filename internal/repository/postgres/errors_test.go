package postgres

import (
	"errors"
	"fmt"
	"testing"

	legacypgconn "github.com/jackc/pgconn"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/require"
)

func TestIsUniqueViolation(t *testing.T) {
	err := fmt.Errorf("create: %w", &pgconn.PgError{Code: "23505", ConstraintName: "idx_users_email_unique"})
	require.True(t, isUniqueViolation(err))
	require.True(t, isUniqueViolation(err, "IDX_USERS_EMAIL_UNIQUE"))
	require.False(t, isUniqueViolation(err, "idx_users_username_unique"))

	legacy := &legacypgconn.PgError{Code: "23505", ConstraintName: "idx_users_username_unique"}
	require.True(t, isUniqueViolation(legacy, "idx_users_username_unique"))

	require.False(t, isUniqueViolation(nil))
	require.False(t, isUniqueViolation(errors.New("boom")))
}

func TestIsUniqueViolation_TextFallback(t *testing.T) {
	err := errors.New(`ERROR: duplicate key value violates unique constraint "idx_users_email_unique" (SQLSTATE 23505)`)
	require.True(t, isUniqueViolation(err, userEmailIndex))
	require.False(t, isUniqueViolation(err, userUsernameIndex))
}

func TestIsForeignKeyViolation(t *testing.T) {
	require.True(t, isForeignKeyViolation(&pgconn.PgError{Code: "23503"}))
	require.False(t, isForeignKeyViolation(&pgconn.PgError{Code: "23505"}))
}
