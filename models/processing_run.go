package models

import (
	"time"
)

// Sender is the joined {id, name} projection of the user referenced by a run's user_id.
type Sender struct {
	ID   string  `json:"id"`
	Name *string `json:"name"` // Nullable TEXT
}

// ProcessingRun represents one attempt of the upstream pipeline to turn a piece of
// social content into a recipe. Rows live in the recipe_processing_run table.
type ProcessingRun struct {
	ID           int64      `json:"id"`
	PhoneNumber  string     `json:"phone_number"`
	ContentID    *string    `json:"content_id"` // Nullable TEXT
	Platform     string     `json:"platform"`
	URL          string     `json:"url"`
	Status       string     `json:"status"`
	RecipeID     *int64     `json:"recipe_id"`     // Set once extraction succeeds
	ErrorMessage *string    `json:"error_message"` // Failure-class statuses only
	CreatedAt    *time.Time `json:"created_at"`    // Nullable TIMESTAMPTZ
	UserID       *string    `json:"user_id"`       // Foreign key to sender
	RunID        *string    `json:"run_id"`
	GoodRecipe   *bool      `json:"good_recipe"` // Tri-state quality judgment
	Feedback     *string    `json:"feedback"`
	Sender       *Sender    `json:"sender"` // Left join, null when absent
}

// CanonicalStatus maps the run's raw status onto the canonical vocabulary.
func (r ProcessingRun) CanonicalStatus() RunStatus {
	return ParseRunStatus(r.Status)
}

// SenderName returns the joined sender's name, or "" when there is none.
func (r ProcessingRun) SenderName() string {
	if r.Sender == nil || r.Sender.Name == nil {
		return ""
	}
	return *r.Sender.Name
}

// Clone returns a deep copy so callers can't mutate shared rows through pointers.
func (r ProcessingRun) Clone() ProcessingRun {
	out := r
	out.ContentID = cloneString(r.ContentID)
	out.ErrorMessage = cloneString(r.ErrorMessage)
	out.UserID = cloneString(r.UserID)
	out.RunID = cloneString(r.RunID)
	out.Feedback = cloneString(r.Feedback)
	if r.RecipeID != nil {
		v := *r.RecipeID
		out.RecipeID = &v
	}
	if r.CreatedAt != nil {
		v := *r.CreatedAt
		out.CreatedAt = &v
	}
	if r.GoodRecipe != nil {
		v := *r.GoodRecipe
		out.GoodRecipe = &v
	}
	if r.Sender != nil {
		s := Sender{ID: r.Sender.ID, Name: cloneString(r.Sender.Name)}
		out.Sender = &s
	}
	return out
}

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}
