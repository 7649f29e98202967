package db

import (
	"context"
	"sync"
	"time"

	"recipeadmin/models"
)

// FixtureStore serves a fixed, deterministic set of example runs. It backs the
// listing service when no store is configured.
type FixtureStore struct {
	mu   sync.RWMutex
	runs []models.ProcessingRun
}

// NewFixtureStore returns a store seeded with the built-in example runs.
func NewFixtureStore() *FixtureStore {
	return &FixtureStore{runs: FixtureRuns()}
}

// FixtureRuns returns a fresh copy of the built-in example runs, in their fixed order.
func FixtureRuns() []models.ProcessingRun {
	return []models.ProcessingRun{
		{
			ID:          1,
			PhoneNumber: "+1234567890",
			ContentID:   strPtr("content_123"),
			Platform:    "Instagram",
			URL:         "https://instagram.com/recipe/123",
			Status:      "completed",
			RecipeID:    int64Ptr(456),
			CreatedAt:   timePtr("2024-01-15T10:30:00Z"),
			UserID:      strPtr("user_789"),
			RunID:       strPtr("run_abc123"),
			GoodRecipe:  boolPtr(true),
			Feedback:    strPtr("Great recipe extraction!"),
		},
		{
			ID:           2,
			PhoneNumber:  "+1987654321",
			ContentID:    strPtr("content_456"),
			Platform:     "TikTok",
			URL:          "https://tiktok.com/@chef/video/789",
			Status:       "failed",
			ErrorMessage: strPtr("Unable to parse recipe content"),
			CreatedAt:    timePtr("2024-01-15T09:15:00Z"),
			UserID:       strPtr("user_456"),
			RunID:        strPtr("run_def456"),
			GoodRecipe:   boolPtr(false),
		},
		{
			ID:          3,
			PhoneNumber: "+1555123456",
			ContentID:   strPtr("content_789"),
			Platform:    "YouTube",
			URL:         "https://youtube.com/watch?v=recipe123",
			Status:      "processing",
			CreatedAt:   timePtr("2024-01-15T11:45:00Z"),
			UserID:      strPtr("user_123"),
			RunID:       strPtr("run_ghi789"),
		},
		{
			ID:          4,
			PhoneNumber: "+1444555666",
			ContentID:   strPtr("content_101"),
			Platform:    "Instagram",
			URL:         "https://instagram.com/recipe/456",
			Status:      "completed",
			RecipeID:    int64Ptr(789),
			CreatedAt:   timePtr("2024-01-14T15:20:00Z"),
			UserID:      strPtr("user_101"),
			RunID:       strPtr("run_xyz789"),
			GoodRecipe:  boolPtr(true),
			Feedback:    strPtr("Perfect extraction"),
		},
		{
			ID:          5,
			PhoneNumber: "+1777888999",
			ContentID:   strPtr("content_202"),
			Platform:    "TikTok",
			URL:         "https://tiktok.com/@foodie/video/101",
			Status:      "pending",
			CreatedAt:   timePtr("2024-01-14T12:10:00Z"),
			UserID:      strPtr("user_202"),
			RunID:       strPtr("run_pending1"),
		},
	}
}

// CountRuns returns the fixture set size.
func (s *FixtureStore) CountRuns(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.runs), nil
}

// ListRuns slices the fixture set to [offset, offset+limit). Fixture order is
// kept as is; it is not sorted by created_at.
func (s *FixtureStore) ListRuns(_ context.Context, offset, limit int) ([]models.ProcessingRun, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	start := clamp(offset, 0, len(s.runs))
	end := clamp(offset+limit, start, len(s.runs))

	out := make([]models.ProcessingRun, 0, end-start)
	for _, r := range s.runs[start:end] {
		out = append(out, r.Clone())
	}
	return out, nil
}

// GetRun returns a copy of the run with the given id.
func (s *FixtureStore) GetRun(_ context.Context, id int64) (*models.ProcessingRun, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, r := range s.runs {
		if r.ID == id {
			run := r.Clone()
			return &run, nil
		}
	}
	return nil, ErrRunNotFound
}

// UpdateFeedback replaces the feedback of the run in memory.
func (s *FixtureStore) UpdateFeedback(_ context.Context, id int64, feedback string) (*models.ProcessingRun, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.runs {
		if s.runs[i].ID == id {
			s.runs[i].Feedback = strPtr(feedback)
			run := s.runs[i].Clone()
			return &run, nil
		}
	}
	return nil, ErrRunNotFound
}

// Close is a no-op.
func (s *FixtureStore) Close() error { return nil }

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func strPtr(s string) *string { return &s }

func int64Ptr(n int64) *int64 { return &n }

func boolPtr(b bool) *bool { return &b }

func timePtr(s string) *time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		panic(err)
	}
	return &t
}
