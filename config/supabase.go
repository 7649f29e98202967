package config

import (
	"fmt"

	supa "github.com/supabase-community/supabase-go"
)

// NewSupabaseClient builds a Supabase client from the store config. The caller
// decides whether the store is configured at all; see Config.StoreMode.
func NewSupabaseClient(cfg SupabaseConfig) (*supa.Client, error) {
	if !cfg.Configured() {
		return nil, fmt.Errorf("supabase URL and key must both be set")
	}

	client, err := supa.NewClient(cfg.URL, cfg.Key, nil)
	if err != nil {
		return nil, fmt.Errorf("initialize supabase client: %w", err)
	}

	Log.WithField("url", cfg.URL).Info("Supabase client initialized")
	return client, nil
}
