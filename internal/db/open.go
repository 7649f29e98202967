package db

import (
	"context"
	"fmt"

	"recipeadmin/config"
)

// Open builds the run store selected by the configuration. The choice is made
// once here; the returned store never re-checks configuration.
func Open(ctx context.Context, cfg *config.Config) (RunStore, error) {
	switch cfg.StoreMode() {
	case config.StoreModePostgres:
		return NewPostgresStore(ctx, cfg.Database.URL)
	case config.StoreModeSupabase:
		client, err := config.NewSupabaseClient(cfg.Supabase)
		if err != nil {
			return nil, err
		}
		return NewSupabaseStore(client), nil
	case config.StoreModeFixture:
		config.Log.Warn("Supabase environment variables not found, using fixture data")
		return NewFixtureStore(), nil
	default:
		return nil, fmt.Errorf("unknown store mode %q", cfg.StoreMode())
	}
}
