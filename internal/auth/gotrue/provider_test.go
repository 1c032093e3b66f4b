package gotrue

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dropDatabas3/profilegate/internal/domain/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAuthServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != userPath {
			http.NotFound(w, r)
			return
		}
		if r.Header.Get("apikey") != "anon-key" {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		switch r.Header.Get("Authorization") {
		case "Bearer good":
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"id":"0b6f5c3e-1111-4a4a-9c9c-000000000001","email":"ana@example.com","aud":"authenticated"}`))
		case "Bearer broken":
			w.WriteHeader(http.StatusBadGateway)
		case "Bearer noid":
			_, _ = w.Write([]byte(`{"email":"x@example.com"}`))
		default:
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"msg":"invalid JWT"}`))
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestProvider_Resolve(t *testing.T) {
	srv := newAuthServer(t)
	p := New(srv.URL+"/", "anon-key", time.Second)

	id, err := p.Resolve(context.Background(), "good")
	require.NoError(t, err)
	assert.Equal(t, "0b6f5c3e-1111-4a4a-9c9c-000000000001", id.ID)
}

func TestProvider_RejectedToken(t *testing.T) {
	srv := newAuthServer(t)
	p := New(srv.URL, "anon-key", time.Second)

	_, err := p.Resolve(context.Background(), "expired")
	require.ErrorIs(t, err, repository.ErrInvalidToken)

	_, err = p.Resolve(context.Background(), "noid")
	require.ErrorIs(t, err, repository.ErrInvalidToken)
}

func TestProvider_UpstreamFailure(t *testing.T) {
	srv := newAuthServer(t)
	p := New(srv.URL, "anon-key", time.Second)

	_, err := p.Resolve(context.Background(), "broken")
	require.Error(t, err)
	assert.NotErrorIs(t, err, repository.ErrInvalidToken)
}
