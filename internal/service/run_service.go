// Package service implements the run listing service: page-window arithmetic,
// total-count reporting, run detail and feedback writes over a RunStore.
package service

import (
	"context"
	"errors"
	"strings"

	"github.com/sirupsen/logrus"

	"recipeadmin/internal/cache"
	"recipeadmin/internal/db"
	"recipeadmin/models"
)

// RunService lists runs page by page. The store (fixture or real) is chosen
// before construction; the service itself never inspects configuration.
type RunService struct {
	store db.RunStore
	cache cache.PageCache
	log   *logrus.Logger
	limit int
}

// Option configures a RunService.
type Option func(*RunService)

// WithCache enables the page cache.
func WithCache(c cache.PageCache) Option {
	return func(s *RunService) { s.cache = c }
}

// WithLogger sets the logger.
func WithLogger(l *logrus.Logger) Option {
	return func(s *RunService) { s.log = l }
}

// NewRunService builds a service over the given store.
func NewRunService(store db.RunStore, opts ...Option) *RunService {
	s := &RunService{
		store: store,
		log:   logrus.StandardLogger(),
		limit: models.RunsPageLimit,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ListRuns returns page `page` (1-indexed) of runs and its pagination block.
func (s *RunService) ListRuns(ctx context.Context, page int) (*models.RunsPage, error) {
	if page < 1 {
		return nil, ErrInvalidPage
	}

	total, err := s.store.CountRuns(ctx)
	if err != nil {
		return nil, s.storeError("count runs", err)
	}

	// A cached page is only served while the row count it was built from
	// still holds; otherwise every cached page is dropped.
	if s.cache != nil {
		cached, ok, err := s.cache.Get(ctx, page)
		switch {
		case err != nil:
			s.log.WithError(err).WithField("page", page).Warn("Page cache read failed, querying store")
		case ok && cached.Pagination.Total == total:
			return cached, nil
		case ok:
			s.log.WithFields(logrus.Fields{"page": page, "cached_total": cached.Pagination.Total, "total": total}).
				Debug("Run count changed, flushing page cache")
			if err := s.cache.Flush(ctx); err != nil {
				s.log.WithError(err).Warn("Page cache flush failed")
			}
		}
	}

	offset := models.PageOffset(page, s.limit)

	runs, err := s.store.ListRuns(ctx, offset, s.limit)
	if err != nil {
		return nil, s.storeError("list runs", err)
	}
	if len(runs) > s.limit {
		runs = runs[:s.limit]
	}

	result := &models.RunsPage{
		Data:       runs,
		Pagination: models.NewPaginationInfo(page, s.limit, total),
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, page, result); err != nil {
			s.log.WithError(err).WithField("page", page).Warn("Page cache write failed")
		}
	}

	s.log.WithFields(logrus.Fields{
		"page":  page,
		"rows":  len(runs),
		"total": total,
	}).Debug("Listed runs")

	return result, nil
}

// GetRun returns a single run by id.
func (s *RunService) GetRun(ctx context.Context, id int64) (*models.ProcessingRun, error) {
	run, err := s.store.GetRun(ctx, id)
	if err != nil {
		if errors.Is(err, db.ErrRunNotFound) {
			return nil, ErrRunNotFound
		}
		return nil, s.storeError("get run", err)
	}
	return run, nil
}

// UpdateFeedback persists operator feedback for a run. Only the feedback
// column is written; status stays owned by the upstream pipeline.
func (s *RunService) UpdateFeedback(ctx context.Context, id int64, feedback string) (*models.ProcessingRun, error) {
	feedback = strings.TrimSpace(feedback)
	if feedback == "" {
		return nil, ErrEmptyFeedback
	}

	run, err := s.store.UpdateFeedback(ctx, id, feedback)
	if err != nil {
		if errors.Is(err, db.ErrRunNotFound) {
			return nil, ErrRunNotFound
		}
		return nil, s.storeError("update feedback", err)
	}

	if s.cache != nil {
		if err := s.cache.Flush(ctx); err != nil {
			s.log.WithError(err).Warn("Page cache flush failed after feedback update")
		}
	}

	s.log.WithField("run_id", id).Info("Feedback updated")
	return run, nil
}

func (s *RunService) storeError(op string, err error) error {
	s.log.WithError(err).WithField("op", op).Error("Store query failed")
	return &StoreError{Op: op, Err: err}
}
