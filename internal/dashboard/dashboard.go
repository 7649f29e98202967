// Package dashboard is the headless dashboard view: it holds the latest fetched
// page of runs as the only source of truth, derives filtered rows, summary
// counters and the page window from it, and submits operator feedback.
package dashboard

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"

	"recipeadmin/models"
)

// State is the fetch-cycle state of the dashboard.
type State int

const (
	StateIdle State = iota
	StateLoading
	StateLoaded
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateLoading:
		return "loading"
	case StateLoaded:
		return "loaded"
	case StateFailed:
		return "failed"
	}
	return "unknown"
}

// ErrStaleResponse is returned by Load when a newer fetch was issued while
// this one was in flight. The stale response is discarded.
var ErrStaleResponse = errors.New("stale response discarded")

// ErrNoRunSelected is returned when submitting feedback with nothing selected.
var ErrNoRunSelected = errors.New("no run selected")

// RunsClient is what the dashboard needs from the listing API.
type RunsClient interface {
	FetchRuns(ctx context.Context, page int) (*models.RunsPage, error)
	UpdateFeedback(ctx context.Context, id int64, feedback string) (*models.ProcessingRun, error)
}

// Dashboard holds one page of runs plus its pagination. Methods are safe for
// concurrent use.
type Dashboard struct {
	client RunsClient
	log    *logrus.Logger

	mu         sync.Mutex
	state      State
	page       int
	runs       []models.ProcessingRun
	pagination models.PaginationInfo
	errMsg     string
	seq        uint64

	selectedID *int64
	draft      string
}

// New returns an idle dashboard positioned on page 1.
func New(client RunsClient, logger *logrus.Logger) *Dashboard {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Dashboard{
		client:     client,
		log:        logger,
		state:      StateIdle,
		page:       1,
		runs:       []models.ProcessingRun{},
		pagination: models.PaginationInfo{Page: 1, Limit: models.RunsPageLimit},
	}
}

// Mount performs the initial load of the current page.
func (d *Dashboard) Mount(ctx context.Context) error {
	return d.Load(ctx, d.CurrentPage())
}

// Load makes page current and fetches it. On success the held runs and
// pagination are replaced wholesale; on failure they are left untouched and
// the error message is kept. Each call takes a new sequence number, and a
// response that is no longer the latest is dropped with ErrStaleResponse.
func (d *Dashboard) Load(ctx context.Context, page int) error {
	d.mu.Lock()
	d.page = page
	d.seq++
	seq := d.seq
	d.state = StateLoading
	d.errMsg = ""
	d.mu.Unlock()

	result, err := d.client.FetchRuns(ctx, page)

	d.mu.Lock()
	defer d.mu.Unlock()

	if seq != d.seq {
		d.log.WithFields(logrus.Fields{"page": page, "seq": seq, "latest": d.seq}).Debug("Discarding stale runs response")
		return ErrStaleResponse
	}

	if err != nil {
		d.state = StateFailed
		d.errMsg = errorMessage(err)
		d.log.WithError(err).WithField("page", page).Error("Failed to fetch runs")
		return err
	}

	runs := result.Data
	if runs == nil {
		runs = []models.ProcessingRun{}
	}
	d.runs = runs
	d.pagination = result.Pagination
	d.state = StateLoaded
	return nil
}

// Refresh reloads the current page.
func (d *Dashboard) Refresh(ctx context.Context) error {
	return d.Load(ctx, d.CurrentPage())
}

// Retry re-enters Loading for the page whose fetch failed. It is the same
// request as Refresh.
func (d *Dashboard) Retry(ctx context.Context) error {
	return d.Refresh(ctx)
}

// ChangePage moves to another page and fetches it. Pages outside
// [1, totalPages] are ignored: ok is false and nothing changes.
func (d *Dashboard) ChangePage(ctx context.Context, page int) (ok bool, err error) {
	d.mu.Lock()
	if page < 1 || page > d.pagination.TotalPages {
		d.mu.Unlock()
		return false, nil
	}
	d.mu.Unlock()

	return true, d.Load(ctx, page)
}

// NextPage is ChangePage(current+1).
func (d *Dashboard) NextPage(ctx context.Context) (bool, error) {
	return d.ChangePage(ctx, d.CurrentPage()+1)
}

// PrevPage is ChangePage(current-1).
func (d *Dashboard) PrevPage(ctx context.Context) (bool, error) {
	return d.ChangePage(ctx, d.CurrentPage()-1)
}

// SelectRun opens the feedback editor for a run on the held page and returns
// the seeded text (the run's feedback, or empty).
func (d *Dashboard) SelectRun(id int64) (string, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()

	for _, r := range d.runs {
		if r.ID == id {
			d.selectedID = &id
			d.draft = ""
			if r.Feedback != nil {
				d.draft = *r.Feedback
			}
			return d.draft, true
		}
	}
	return "", false
}

// CancelFeedback closes the editor without saving.
func (d *Dashboard) CancelFeedback() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.selectedID = nil
	d.draft = ""
}

// SubmitFeedback persists feedback for the selected run and swaps the
// server's copy of the run into the held page. Blank text is a no-op.
func (d *Dashboard) SubmitFeedback(ctx context.Context, text string) error {
	text = strings.TrimSpace(text)

	d.mu.Lock()
	if d.selectedID == nil {
		d.mu.Unlock()
		return ErrNoRunSelected
	}
	id := *d.selectedID
	if text == "" {
		d.mu.Unlock()
		return nil
	}
	d.mu.Unlock()

	updated, err := d.client.UpdateFeedback(ctx, id, text)
	if err != nil {
		d.mu.Lock()
		d.errMsg = errorMessage(err)
		d.mu.Unlock()
		d.log.WithError(err).WithField("run_id", id).Error("Failed to save feedback")
		return err
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	for i := range d.runs {
		if d.runs[i].ID == id {
			d.runs[i] = *updated
		}
	}
	d.selectedID = nil
	d.draft = ""
	return nil
}

// Snapshot is a consistent copy of the dashboard state.
type Snapshot struct {
	State      State
	Page       int
	Runs       []models.ProcessingRun
	Pagination models.PaginationInfo
	Error      string
	SelectedID *int64
}

// Snapshot returns a copy of the current state.
func (d *Dashboard) Snapshot() Snapshot {
	d.mu.Lock()
	defer d.mu.Unlock()

	runs := make([]models.ProcessingRun, len(d.runs))
	for i, r := range d.runs {
		runs[i] = r.Clone()
	}
	var selected *int64
	if d.selectedID != nil {
		id := *d.selectedID
		selected = &id
	}
	return Snapshot{
		State:      d.state,
		Page:       d.page,
		Runs:       runs,
		Pagination: d.pagination,
		Error:      d.errMsg,
		SelectedID: selected,
	}
}

// CurrentPage is the page the dashboard is on (or trying to load).
func (d *Dashboard) CurrentPage() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.page
}

func errorMessage(err error) string {
	if msg := err.Error(); msg != "" {
		return msg
	}
	return "Failed to fetch data"
}
