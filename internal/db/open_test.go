package db

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"recipeadmin/config"
)

func TestOpenSelectsStore(t *testing.T) {
	ctx := context.Background()

	store, err := Open(ctx, &config.Config{})
	require.NoError(t, err)
	assert.IsType(t, &FixtureStore{}, store)

	store, err = Open(ctx, &config.Config{Supabase: config.SupabaseConfig{URL: "https://example.supabase.co", Key: "k"}})
	require.NoError(t, err)
	assert.IsType(t, &SupabaseStore{}, store)

	store, err = Open(ctx, &config.Config{Supabase: config.SupabaseConfig{URL: "https://example.supabase.co"}})
	require.NoError(t, err)
	assert.IsType(t, &FixtureStore{}, store, "a missing key falls back to fixtures")
}
