package auth

import (
	"context"
	"errors"
	"testing"

	"github.com/dropDatabas3/profilegate/internal/domain/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type providerFunc func(ctx context.Context, token string) (repository.CallerIdentity, error)

func (f providerFunc) Resolve(ctx context.Context, token string) (repository.CallerIdentity, error) {
	return f(ctx, token)
}

func TestResolver_Resolve(t *testing.T) {
	calls := 0
	r := NewResolver(providerFunc(func(_ context.Context, token string) (repository.CallerIdentity, error) {
		calls++
		if token == "good" {
			return repository.CallerIdentity{ID: "u-1"}, nil
		}
		return repository.CallerIdentity{}, repository.ErrInvalidToken
	}), "test")

	id, err := r.Resolve(context.Background(), "good")
	require.NoError(t, err)
	assert.Equal(t, "u-1", id.ID)

	_, err = r.Resolve(context.Background(), "bad")
	require.ErrorIs(t, err, ErrInvalidCredential)

	// sin cache: cada resolución llama al provider
	_, _ = r.Resolve(context.Background(), "good")
	assert.Equal(t, 3, calls)
}

func TestResolver_CollapsesProviderErrors(t *testing.T) {
	r := NewResolver(providerFunc(func(context.Context, string) (repository.CallerIdentity, error) {
		return repository.CallerIdentity{}, errors.New("dial tcp: connection refused")
	}), "test")

	_, err := r.Resolve(context.Background(), "tok")
	require.ErrorIs(t, err, ErrInvalidCredential)
	assert.NotContains(t, err.Error(), "connection refused")
}

func TestResolver_EmptyIdentityIsInvalid(t *testing.T) {
	r := NewResolver(providerFunc(func(context.Context, string) (repository.CallerIdentity, error) {
		return repository.CallerIdentity{}, nil
	}), "test")

	_, err := r.Resolve(context.Background(), "tok")
	require.ErrorIs(t, err, ErrInvalidCredential)
}

func TestResolver_EmptyTokenIsMissing(t *testing.T) {
	r := NewResolver(providerFunc(func(context.Context, string) (repository.CallerIdentity, error) {
		t.Fatal("provider must not be called")
		return repository.CallerIdentity{}, nil
	}), "test")

	_, err := r.Resolve(context.Background(), " ")
	require.ErrorIs(t, err, ErrMissingCredential)
}
