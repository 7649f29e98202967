package dashboard

import (
	"context"

	"recipeadmin/models"
)

// RunLister is the in-process listing service surface.
type RunLister interface {
	ListRuns(ctx context.Context, page int) (*models.RunsPage, error)
	UpdateFeedback(ctx context.Context, id int64, feedback string) (*models.ProcessingRun, error)
}

// ServiceClient drives the dashboard from an in-process listing service
// instead of over HTTP.
type ServiceClient struct {
	runs RunLister
}

// NewServiceClient wraps a listing service.
func NewServiceClient(runs RunLister) *ServiceClient {
	return &ServiceClient{runs: runs}
}

// FetchRuns lists a page directly from the service.
func (c *ServiceClient) FetchRuns(ctx context.Context, page int) (*models.RunsPage, error) {
	return c.runs.ListRuns(ctx, page)
}

// UpdateFeedback writes feedback directly through the service.
func (c *ServiceClient) UpdateFeedback(ctx context.Context, id int64, feedback string) (*models.ProcessingRun, error) {
	return c.runs.UpdateFeedback(ctx, id, feedback)
}
