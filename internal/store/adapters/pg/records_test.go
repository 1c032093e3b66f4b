package pg

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dropDatabas3/profilegate/internal/domain/repository"
)

func TestIdent(t *testing.T) {
	got, err := ident("profiles")
	require.NoError(t, err)
	assert.Equal(t, `"profiles"`, got)

	got, err = ident("public.profiles")
	require.NoError(t, err)
	assert.Equal(t, `"public"."profiles"`, got)

	got, err = ident(`bad"name`)
	require.NoError(t, err)
	assert.Equal(t, `"bad""name"`, got)

	_, err = ident("  ")
	assert.ErrorIs(t, err, repository.ErrInvalidInput)
}

func TestBuildUpdate(t *testing.T) {
	q, args, err := buildUpdate(`"profiles"`, "u1", map[string]any{"role": "admin", "full_name": "Ana"})
	require.NoError(t, err)
	assert.Equal(t, `UPDATE "profiles" SET "full_name" = $1, "role" = $2 WHERE id = $3`, q)
	assert.Equal(t, []any{"Ana", "admin", "u1"}, args)

	_, _, err = buildUpdate(`"profiles"`, "u1", nil)
	assert.ErrorIs(t, err, repository.ErrInvalidInput)
}

func TestBuildCall(t *testing.T) {
	q, params := buildCall(`"set_user_role"`, map[string]any{"target_id": "u1", "new_role": "admin"})
	assert.Equal(t, `SELECT "set_user_role"("new_role" => $1, "target_id" => $2)`, q)
	assert.Equal(t, []any{"admin", "u1"}, params)
}

func TestDecodeRow(t *testing.T) {
	r, err := decodeRow([]byte(`{"id":"u1","role":null,"avatar_url":"x"}`))
	require.NoError(t, err)
	assert.Equal(t, "u1", r["id"])
	assert.Nil(t, r["role"])
	assert.Equal(t, "x", r["avatar_url"])

	_, err = decodeRow([]byte(`[`))
	assert.Error(t, err)
}

func TestIsCode(t *testing.T) {
	err := fmt.Errorf("wrapped: %w", &pgconn.PgError{Code: sqlstateUndefinedFunction})
	assert.True(t, isCode(err, sqlstateUndefinedFunction))
	assert.False(t, isCode(err, sqlstateInvalidText))
	assert.False(t, isCode(errors.New("plain"), sqlstateInvalidText))
}
