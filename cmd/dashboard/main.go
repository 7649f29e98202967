package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"

	"recipeadmin/config"
	"recipeadmin/internal/dashboard"
	"recipeadmin/internal/db"
	"recipeadmin/internal/service"
)

type options struct {
	page       int
	search     string
	runID      int64
	feedbackID int64
	feedback   string
	local      bool
	apiBaseURL string
}

func parseFlags(args []string, cfg *config.Config) (*options, error) {
	opts := &options{}
	fs := flag.NewFlagSet("dashboard", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.IntVar(&opts.page, "page", 1, "page to display")
	fs.StringVar(&opts.search, "search", "", "filter the displayed page by phone, platform, URL or status")
	fs.Int64Var(&opts.runID, "run", 0, "show the details of a run on the displayed page")
	fs.Int64Var(&opts.feedbackID, "feedback-id", 0, "run to attach feedback to")
	fs.StringVar(&opts.feedback, "feedback", "", "feedback text for -feedback-id")
	fs.BoolVar(&opts.local, "local", false, "read from the configured store in-process instead of the API")
	fs.StringVar(&opts.apiBaseURL, "api", cfg.Dashboard.APIBaseURL, "API base URL")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if opts.page < 1 {
		return nil, errors.New("-page must be a positive integer")
	}
	if (opts.feedbackID != 0) != (opts.feedback != "") {
		return nil, errors.New("-feedback-id and -feedback must be used together")
	}
	return opts, nil
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		config.Log.Fatalf("Failed to load configuration: %v", err)
	}
	logger := config.InitLogger(cfg.Logging)
	logger.SetOutput(os.Stderr)

	opts, err := parseFlags(os.Args[1:], cfg)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	logger.WithFields(logrus.Fields{
		"page":  opts.page,
		"local": opts.local,
	}).Debug("Loading dashboard")

	client, closeClient, err := newClient(context.Background(), cfg, opts, logger)
	if err != nil {
		logger.Fatalf("Failed to create client: %v", err)
	}
	defer closeClient()

	if err := run(context.Background(), dashboard.New(client, logger), opts, os.Stdout); err != nil {
		logger.WithError(err).Error("Dashboard failed")
		closeClient()
		os.Exit(1)
	}
}

func newClient(ctx context.Context, cfg *config.Config, opts *options, logger *logrus.Logger) (dashboard.RunsClient, func(), error) {
	if !opts.local {
		return dashboard.NewAPIClient(opts.apiBaseURL, cfg.Dashboard.Timeout), func() {}, nil
	}

	if cfg.Dashboard.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.Dashboard.Timeout)
		defer cancel()
	}
	store, err := db.Open(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}
	client := dashboard.NewServiceClient(service.NewRunService(store, service.WithLogger(logger)))
	return client, func() { _ = store.Close() }, nil
}

// run loads the requested page, applies the optional feedback edit and
// writes the table (or a run's details) to w. Fetch and save failures still
// render the dashboard with its error banner before the error is returned.
func run(ctx context.Context, d *dashboard.Dashboard, opts *options, w io.Writer) error {
	if err := d.Load(ctx, opts.page); err != nil {
		return renderFailure(w, d, opts, err)
	}

	if opts.feedbackID != 0 {
		if _, ok := d.SelectRun(opts.feedbackID); !ok {
			return fmt.Errorf("run %d is not on page %d", opts.feedbackID, opts.page)
		}
		if err := d.SubmitFeedback(ctx, opts.feedback); err != nil {
			return renderFailure(w, d, opts, err)
		}
	}

	if opts.runID != 0 {
		for _, r := range d.Snapshot().Runs {
			if r.ID == opts.runID {
				return dashboard.RenderRun(w, r)
			}
		}
		return fmt.Errorf("run %d is not on page %d", opts.runID, opts.page)
	}

	return dashboard.Render(w, d.Snapshot(), opts.search)
}

func renderFailure(w io.Writer, d *dashboard.Dashboard, opts *options, cause error) error {
	if err := dashboard.Render(w, d.Snapshot(), opts.search); err != nil {
		return errors.Join(cause, err)
	}
	return cause
}
