package main

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"recipeadmin/config"
	"recipeadmin/internal/dashboard"
	"recipeadmin/internal/db"
	"recipeadmin/internal/service"
	"recipeadmin/models"
)

// failingClient fails every call with err.
type failingClient struct {
	err error
}

func (c failingClient) FetchRuns(context.Context, int) (*models.RunsPage, error) {
	return nil, c.err
}

func (c failingClient) UpdateFeedback(context.Context, int64, string) (*models.ProcessingRun, error) {
	return nil, c.err
}

// feedbackFailingClient serves the fixture page but rejects feedback writes.
type feedbackFailingClient struct {
	*dashboard.ServiceClient
}

func (feedbackFailingClient) UpdateFeedback(context.Context, int64, string) (*models.ProcessingRun, error) {
	return nil, errors.New("JWT expired")
}

func quietLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func fixtureDashboard() *dashboard.Dashboard {
	return dashboard.New(dashboard.NewServiceClient(service.NewRunService(db.NewFixtureStore())), quietLogger())
}

func TestParseFlags(t *testing.T) {
	cfg := &config.Config{Dashboard: config.DashboardConfig{APIBaseURL: "http://api:8080"}}

	opts, err := parseFlags(nil, cfg)
	require.NoError(t, err)
	assert.Equal(t, 1, opts.page)
	assert.Equal(t, "http://api:8080", opts.apiBaseURL)

	opts, err = parseFlags([]string{"-page", "3", "-search", "tiktok", "-local"}, cfg)
	require.NoError(t, err)
	assert.Equal(t, 3, opts.page)
	assert.Equal(t, "tiktok", opts.search)
	assert.True(t, opts.local)

	_, err = parseFlags([]string{"-page", "0"}, cfg)
	assert.Error(t, err)

	_, err = parseFlags([]string{"-feedback-id", "2"}, cfg)
	assert.Error(t, err)

	_, err = parseFlags([]string{"-page", "abc"}, cfg)
	assert.Error(t, err)
}

func TestRunRendersTable(t *testing.T) {
	var buf bytes.Buffer
	err := run(context.Background(), fixtureDashboard(), &options{page: 1, search: "tiktok"}, &buf)
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "+1987654321")
	assert.Contains(t, out, "+1777888999")
	assert.NotContains(t, out, "+1234567890")
}

func TestRunSubmitsFeedback(t *testing.T) {
	var buf bytes.Buffer
	opts := &options{page: 1, runID: 3, feedbackID: 3, feedback: "  needs a retry  "}
	require.NoError(t, run(context.Background(), fixtureDashboard(), opts, &buf))

	assert.Contains(t, buf.String(), "Run Details - #3")
	assert.Contains(t, buf.String(), "needs a retry")
}

func TestRunUnknownRun(t *testing.T) {
	err := run(context.Background(), fixtureDashboard(), &options{page: 1, runID: 42}, io.Discard)
	assert.EqualError(t, err, "run 42 is not on page 1")

	err = run(context.Background(), fixtureDashboard(), &options{page: 1, feedbackID: 42, feedback: "x"}, io.Discard)
	assert.EqualError(t, err, "run 42 is not on page 1")
}

func TestNewClientLocalUsesFixtureStore(t *testing.T) {
	logger := quietLogger()

	client, closeClient, err := newClient(context.Background(), &config.Config{}, &options{local: true}, logger)
	require.NoError(t, err)
	defer closeClient()

	page, err := client.FetchRuns(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, 5, page.Pagination.Total)

	remote, _, err := newClient(context.Background(), &config.Config{}, &options{apiBaseURL: "http://x"}, logger)
	require.NoError(t, err)
	assert.IsType(t, &dashboard.APIClient{}, remote)
}

func TestRunRendersErrorBannerOnFetchFailure(t *testing.T) {
	d := dashboard.New(failingClient{err: errors.New("JWT expired")}, quietLogger())

	var buf bytes.Buffer
	err := run(context.Background(), d, &options{page: 1}, &buf)
	require.EqualError(t, err, "JWT expired")
	assert.Contains(t, buf.String(), "Error: JWT expired (retry to try again)")
}

func TestRunRendersErrorBannerOnFeedbackFailure(t *testing.T) {
	client := feedbackFailingClient{dashboard.NewServiceClient(service.NewRunService(db.NewFixtureStore()))}
	d := dashboard.New(client, quietLogger())

	var buf bytes.Buffer
	err := run(context.Background(), d, &options{page: 1, feedbackID: 2, feedback: "recheck"}, &buf)
	require.EqualError(t, err, "JWT expired")

	out := buf.String()
	assert.Contains(t, out, "Error: JWT expired (retry to try again)")
	assert.Contains(t, out, "+1987654321", "last loaded page is still shown")
}
