package errors

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dropDatabas3/profilegate/internal/access"
	"github.com/dropDatabas3/profilegate/internal/auth"
)

func TestFromError_DomainMapping(t *testing.T) {
	cases := []struct {
		err    error
		status int
		code   string
	}{
		{auth.ErrMissingCredential, http.StatusUnauthorized, "TOKEN_MISSING"},
		{auth.ErrInvalidCredential, http.StatusUnauthorized, "TOKEN_INVALID"},
		{access.ErrBadRequest, http.StatusBadRequest, "BAD_REQUEST"},
		{access.ErrForbidden, http.StatusForbidden, "FORBIDDEN"},
		{access.ErrNotFound, http.StatusInternalServerError, "PROFILE_NOT_FOUND"},
		{fmt.Errorf("%w: get: timeout", access.ErrStore), http.StatusInternalServerError, "INTERNAL_ERROR"},
		{fmt.Errorf("boom"), http.StatusInternalServerError, "INTERNAL_ERROR"},
		{ErrInvalidJSON, http.StatusBadRequest, "INVALID_JSON"},
	}
	for _, tc := range cases {
		got := FromError(tc.err)
		assert.Equal(t, tc.status, got.HTTPStatus, tc.err.Error())
		assert.Equal(t, tc.code, got.Code, tc.err.Error())
	}
}

func TestWriteError_HidesCause(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteError(rec, fmt.Errorf("%w: get: password authentication failed for user x", access.ErrStore))

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "application/json; charset=utf-8", rec.Header().Get("Content-Type"))

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "Server error", body["error"])
	assert.Equal(t, "INTERNAL_ERROR", body["code"])
	assert.NotContains(t, rec.Body.String(), "password")
	_, hasDetail := body["detail"]
	assert.False(t, hasDetail)
}

func TestWithDetail_DoesNotMutateCatalogue(t *testing.T) {
	e := ErrBadRequest.WithDetail("role must be user or admin")
	assert.Equal(t, "role must be user or admin", e.Detail)
	assert.Empty(t, ErrBadRequest.Detail)
}
