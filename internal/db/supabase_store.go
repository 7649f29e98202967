package db

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	postgrest "github.com/supabase-community/postgrest-go"

	"recipeadmin/models"
)

// runSelect is the PostgREST select list: every run column plus the sender
// resolved through user_id as an embedded {id, name} object (null when absent).
const runSelect = "id,phone_number,content_id,platform,url,status,recipe_id,error_message," +
	"created_at,user_id,run_id,good_recipe,feedback,sender:user_id(id,name)"

// Querier is satisfied by both *supabase.Client and *postgrest.Client.
type Querier interface {
	From(table string) *postgrest.QueryBuilder
}

// SupabaseStore reads runs through the Supabase REST (PostgREST) API.
type SupabaseStore struct {
	client Querier
}

// NewSupabaseStore wraps a Supabase or PostgREST client.
func NewSupabaseStore(client Querier) *SupabaseStore {
	return &SupabaseStore{client: client}
}

// NewPostgrestClient builds a bare PostgREST client for a Supabase project URL and key.
func NewPostgrestClient(supabaseURL, key string) (*postgrest.Client, error) {
	client := postgrest.NewClient(supabaseURL+"/rest/v1", "", map[string]string{
		"apikey":        key,
		"Authorization": fmt.Sprintf("Bearer %s", key),
	})
	if client.ClientError != nil {
		return nil, fmt.Errorf("failed to initialize postgrest client: %w", client.ClientError)
	}
	return client, nil
}

// CountRuns reads the exact total from the Content-Range of a one-row GET.
// A HEAD request would drop PostgREST's error body on failure.
func (s *SupabaseStore) CountRuns(_ context.Context) (int, error) {
	_, count, err := s.client.From(runsTable).
		Select("id", "exact", false).
		Limit(1, "").
		Execute()
	if err != nil {
		return 0, fmt.Errorf("count runs: %w", err)
	}
	return int(count), nil
}

// ListRuns fetches rows newest first (null created_at first, ties by id
// descending), windowed to [offset, offset+limit-1].
func (s *SupabaseStore) ListRuns(_ context.Context, offset, limit int) ([]models.ProcessingRun, error) {
	if limit <= 0 {
		return []models.ProcessingRun{}, nil
	}

	body, _, err := s.client.From(runsTable).
		Select(runSelect, "", false).
		Order("created_at", &postgrest.OrderOpts{Ascending: false, NullsFirst: true}).
		Order("id", &postgrest.OrderOpts{Ascending: false}).
		Range(offset, offset+limit-1, "").
		Execute()
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}

	runs, err := decodeRuns(body)
	if err != nil {
		return nil, err
	}
	return runs, nil
}

// GetRun fetches one run with its sender.
func (s *SupabaseStore) GetRun(_ context.Context, id int64) (*models.ProcessingRun, error) {
	body, _, err := s.client.From(runsTable).
		Select(runSelect, "", false).
		Eq("id", strconv.FormatInt(id, 10)).
		Limit(1, "").
		Execute()
	if err != nil {
		return nil, fmt.Errorf("get run %d: %w", id, err)
	}

	runs, err := decodeRuns(body)
	if err != nil {
		return nil, err
	}
	if len(runs) == 0 {
		return nil, ErrRunNotFound
	}
	return &runs[0], nil
}

// UpdateFeedback patches the feedback column, then re-reads the run so the
// result carries the joined sender.
func (s *SupabaseStore) UpdateFeedback(ctx context.Context, id int64, feedback string) (*models.ProcessingRun, error) {
	body, _, err := s.client.From(runsTable).
		Update(map[string]interface{}{"feedback": feedback}, "representation", "").
		Eq("id", strconv.FormatInt(id, 10)).
		Execute()
	if err != nil {
		return nil, fmt.Errorf("update feedback for run %d: %w", id, err)
	}

	var updated []json.RawMessage
	if err := json.Unmarshal(body, &updated); err != nil {
		return nil, fmt.Errorf("decode feedback update response: %w", err)
	}
	if len(updated) == 0 {
		return nil, ErrRunNotFound
	}

	return s.GetRun(ctx, id)
}

// Close is a no-op; the REST client holds no long-lived connections of its own.
func (s *SupabaseStore) Close() error { return nil }

func decodeRuns(body []byte) ([]models.ProcessingRun, error) {
	var runs []models.ProcessingRun
	if err := json.Unmarshal(body, &runs); err != nil {
		return nil, fmt.Errorf("decode runs: %w", err)
	}
	if runs == nil {
		runs = []models.ProcessingRun{}
	}
	return runs, nil
}
