package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"recipeadmin/models"
)

const runColumnsSQL = `
	r.id, r.phone_number, r.content_id, r.platform, r.url, r.status,
	r.recipe_id, r.error_message, r.created_at, r.user_id::text, r.run_id,
	r.good_recipe, r.feedback, s.id::text, s.name`

var (
	listRunsSQL = `SELECT` + runColumnsSQL + `
	FROM ` + runsTable + ` r
	LEFT JOIN ` + sendersTable + ` s ON s.id::text = r.user_id::text
	ORDER BY r.created_at DESC NULLS FIRST, r.id DESC
	LIMIT $1 OFFSET $2`

	getRunSQL = `SELECT` + runColumnsSQL + `
	FROM ` + runsTable + ` r
	LEFT JOIN ` + sendersTable + ` s ON s.id::text = r.user_id::text
	WHERE r.id = $1`

	countRunsSQL = `SELECT COUNT(*) FROM ` + runsTable

	updateFeedbackSQL = `UPDATE ` + runsTable + ` SET feedback = $2 WHERE id = $1`
)

// PostgresStore reads runs straight from Postgres through a pgx pool.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore connects a pool to the given DSN and pings it.
func NewPostgresStore(ctx context.Context, dsn string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &PostgresStore{pool: pool}, nil
}

// CountRuns returns the row count of the runs table.
func (s *PostgresStore) CountRuns(ctx context.Context) (int, error) {
	var total int
	if err := s.pool.QueryRow(ctx, countRunsSQL).Scan(&total); err != nil {
		return 0, fmt.Errorf("count runs: %w", err)
	}
	return total, nil
}

// ListRuns returns a window of runs, newest first, with senders left-joined.
func (s *PostgresStore) ListRuns(ctx context.Context, offset, limit int) ([]models.ProcessingRun, error) {
	rows, err := s.pool.Query(ctx, listRunsSQL, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	runs := []models.ProcessingRun{}
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		runs = append(runs, *run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}
	return runs, nil
}

// GetRun returns a single run.
func (s *PostgresStore) GetRun(ctx context.Context, id int64) (*models.ProcessingRun, error) {
	run, err := scanRun(s.pool.QueryRow(ctx, getRunSQL, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrRunNotFound
		}
		return nil, fmt.Errorf("get run %d: %w", id, err)
	}
	return run, nil
}

// UpdateFeedback writes the feedback column and re-reads the joined run.
func (s *PostgresStore) UpdateFeedback(ctx context.Context, id int64, feedback string) (*models.ProcessingRun, error) {
	tag, err := s.pool.Exec(ctx, updateFeedbackSQL, id, feedback)
	if err != nil {
		return nil, fmt.Errorf("update feedback for run %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return nil, ErrRunNotFound
	}
	return s.GetRun(ctx, id)
}

// Close releases the pool.
func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

func scanRun(row pgx.Row) (*models.ProcessingRun, error) {
	var (
		run        models.ProcessingRun
		senderID   *string
		senderName *string
	)
	err := row.Scan(
		&run.ID, &run.PhoneNumber, &run.ContentID, &run.Platform, &run.URL, &run.Status,
		&run.RecipeID, &run.ErrorMessage, &run.CreatedAt, &run.UserID, &run.RunID,
		&run.GoodRecipe, &run.Feedback, &senderID, &senderName,
	)
	if err != nil {
		return nil, err
	}
	if senderID != nil {
		run.Sender = &models.Sender{ID: *senderID, Name: senderName}
	}
	return &run, nil
}
