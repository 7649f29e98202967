package dashboard

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"

	"recipeadmin/models"
)

// APIClient talks to the listing API over HTTP with Fiber's client agent.
type APIClient struct {
	baseURL string
	timeout time.Duration
}

// NewAPIClient returns a client for the API at baseURL (no trailing slash).
// A zero timeout means requests never time out.
func NewAPIClient(baseURL string, timeout time.Duration) *APIClient {
	return &APIClient{baseURL: baseURL, timeout: timeout}
}

type apiError struct {
	Error string `json:"error"`
}

// FetchRuns performs GET /api/runs?page=N.
func (c *APIClient) FetchRuns(ctx context.Context, page int) (*models.RunsPage, error) {
	agent := fiber.Get(c.baseURL + "/api/runs?page=" + strconv.Itoa(page))

	var result models.RunsPage
	if err := c.do(ctx, agent, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// UpdateFeedback performs PATCH /api/runs/:id/feedback.
func (c *APIClient) UpdateFeedback(ctx context.Context, id int64, feedback string) (*models.ProcessingRun, error) {
	agent := fiber.Patch(c.baseURL + "/api/runs/" + strconv.FormatInt(id, 10) + "/feedback").
		JSON(map[string]string{"feedback": feedback})

	var run models.ProcessingRun
	if err := c.do(ctx, agent, &run); err != nil {
		return nil, err
	}
	return &run, nil
}

func (c *APIClient) do(ctx context.Context, agent *fiber.Agent, out interface{}) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	timeout := c.timeout
	if deadline, ok := ctx.Deadline(); ok {
		if remaining := time.Until(deadline); timeout == 0 || remaining < timeout {
			timeout = remaining
		}
	}
	if timeout > 0 {
		agent.Timeout(timeout)
	}

	code, body, errs := agent.Bytes()
	if len(errs) > 0 {
		return fmt.Errorf("request failed: %w", errors.Join(errs...))
	}

	if code < 200 || code > 299 {
		var apiErr apiError
		if json.Unmarshal(body, &apiErr) == nil && apiErr.Error != "" {
			return errors.New(apiErr.Error)
		}
		return fmt.Errorf("HTTP error! status: %d", code)
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
