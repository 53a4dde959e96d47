package export

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LongsightGroup/sakai-starfish-export/internal/sakai"
)

type termProviderFunc func(ctx context.Context) ([]string, error)

func (f termProviderFunc) CurrentTerms(ctx context.Context) ([]string, error) {
	return f(ctx)
}

func TestTermResolverExplicitTerms(t *testing.T) {
	// Explicit terms are used verbatim, duplicates included; the provider
	// must not be consulted.
	provider := termProviderFunc(func(context.Context) ([]string, error) {
		t.Fatal("provider must not be called when explicit terms are set")
		return nil, nil
	})

	resolver := NewTermResolver([]string{"FA24", "SP25", "FA24"}, provider, nil)
	terms, err := resolver.Resolve(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"FA24", "SP25", "FA24"}, terms)
}

func TestTermResolverCurrentTerms(t *testing.T) {
	provider := termProviderFunc(func(context.Context) ([]string, error) {
		return []string{"FA24", "SP25", "FA24"}, nil
	})

	resolver := NewTermResolver(nil, provider, nil)
	terms, err := resolver.Resolve(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"FA24", "SP25"}, terms, "current terms are deduplicated in first-seen order")
}

func TestTermResolverNoCurrentTerms(t *testing.T) {
	provider := termProviderFunc(func(context.Context) ([]string, error) {
		return nil, nil
	})

	resolver := NewTermResolver(nil, provider, nil)
	terms, err := resolver.Resolve(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, terms, "resolver must return an empty slice, never nil")
	assert.Empty(t, terms)
}

func TestTermResolverProviderError(t *testing.T) {
	providerErr := errors.New("course management unavailable")
	provider := termProviderFunc(func(context.Context) ([]string, error) {
		return nil, providerErr
	})

	resolver := NewTermResolver(nil, provider, nil)
	_, err := resolver.Resolve(context.Background())
	assert.ErrorIs(t, err, providerErr)
}

func TestTermResolverSnapshotProvider(t *testing.T) {
	var provider sakai.TermProvider = bioSnapshot()
	resolver := NewTermResolver(nil, provider, nil)

	terms, err := resolver.Resolve(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"FA24"}, terms)
}
