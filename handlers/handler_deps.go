package handlers

import (
	"context"

	"github.com/sirupsen/logrus"

	"recipeadmin/models"
)

// RunService defines the operations handlers expect from the listing service.
// The concrete implementation is service.RunService.
type RunService interface {
	ListRuns(ctx context.Context, page int) (*models.RunsPage, error)
	GetRun(ctx context.Context, id int64) (*models.ProcessingRun, error)
	UpdateFeedback(ctx context.Context, id int64, feedback string) (*models.ProcessingRun, error)
}

// ApplicationHandler holds shared dependencies for handlers.
type ApplicationHandler struct {
	Runs      RunService
	Logger    *logrus.Logger
	StoreMode string
}

// NewApplicationHandler creates a new ApplicationHandler with the given dependencies.
func NewApplicationHandler(runs RunService, logger *logrus.Logger, storeMode string) *ApplicationHandler {
	return &ApplicationHandler{
		Runs:      runs,
		Logger:    logger,
		StoreMode: storeMode,
	}
}
