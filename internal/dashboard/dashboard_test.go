package dashboard

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"recipeadmin/internal/db"
	"recipeadmin/internal/service"
	"recipeadmin/models"
)

// fakeClient serves n generated runs, or an error when fail is set.
type fakeClient struct {
	mu       sync.Mutex
	n        int
	fail     error
	fetches  []int
	feedback map[int64]string
	gates    map[int]chan struct{}
}

func (f *fakeClient) FetchRuns(ctx context.Context, page int) (*models.RunsPage, error) {
	f.mu.Lock()
	f.fetches = append(f.fetches, page)
	gate := f.gates[page]
	fail := f.fail
	f.mu.Unlock()

	if gate != nil {
		<-gate
	}
	if fail != nil {
		return nil, fail
	}

	offset := models.PageOffset(page, models.RunsPageLimit)
	runs := []models.ProcessingRun{}
	for i := offset; i < offset+models.RunsPageLimit && i < f.n; i++ {
		runs = append(runs, models.ProcessingRun{
			ID:          int64(i + 1),
			PhoneNumber: fmt.Sprintf("+1555%06d", i),
			Platform:    "Instagram",
			URL:         fmt.Sprintf("https://instagram.com/p/%d", i),
			Status:      "pending",
		})
	}
	return &models.RunsPage{Data: runs, Pagination: models.NewPaginationInfo(page, models.RunsPageLimit, f.n)}, nil
}

func (f *fakeClient) UpdateFeedback(_ context.Context, id int64, feedback string) (*models.ProcessingRun, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail != nil {
		return nil, f.fail
	}
	if f.feedback == nil {
		f.feedback = map[int64]string{}
	}
	f.feedback[id] = feedback
	return &models.ProcessingRun{ID: id, Status: "pending", Feedback: &feedback}, nil
}

func (f *fakeClient) setFail(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fail = err
}

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func TestDashboardMount(t *testing.T) {
	d := New(&fakeClient{n: 250}, quietLogger())
	assert.Equal(t, StateIdle, d.Snapshot().State)

	require.NoError(t, d.Mount(context.Background()))

	snap := d.Snapshot()
	assert.Equal(t, StateLoaded, snap.State)
	assert.Len(t, snap.Runs, 100)
	assert.Equal(t, models.PaginationInfo{Page: 1, Limit: 100, Total: 250, TotalPages: 3}, snap.Pagination)
	assert.Empty(t, snap.Error)
}

func TestDashboardChangePage(t *testing.T) {
	client := &fakeClient{n: 250}
	d := New(client, quietLogger())
	ctx := context.Background()
	require.NoError(t, d.Mount(ctx))

	ok, err := d.ChangePage(ctx, 3)
	require.NoError(t, err)
	assert.True(t, ok)

	snap := d.Snapshot()
	assert.Equal(t, 3, snap.Page)
	assert.Len(t, snap.Runs, 50)
	assert.Equal(t, 3, snap.Pagination.Page)

	ok, err = d.NextPage(ctx)
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = d.PrevPage(ctx)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 2, d.CurrentPage())
}

func TestDashboardChangePageOutOfRangeIsNoop(t *testing.T) {
	client := &fakeClient{n: 250}
	d := New(client, quietLogger())
	ctx := context.Background()
	require.NoError(t, d.Mount(ctx))
	before := d.Snapshot()

	for _, page := range []int{0, -1, before.Pagination.TotalPages + 1} {
		ok, err := d.ChangePage(ctx, page)
		require.NoError(t, err)
		assert.False(t, ok, "page %d", page)
	}

	assert.Equal(t, before, d.Snapshot())
	assert.Equal(t, []int{1}, client.fetches, "no fetch for rejected pages")
}

func TestDashboardChangePageBeforeLoad(t *testing.T) {
	d := New(&fakeClient{n: 10}, quietLogger())

	ok, err := d.ChangePage(context.Background(), 1)
	require.NoError(t, err)
	assert.False(t, ok, "nothing is reachable until totalPages is known")
}

func TestDashboardFailurePreservesData(t *testing.T) {
	client := &fakeClient{n: 250}
	d := New(client, quietLogger())
	ctx := context.Background()
	require.NoError(t, d.Mount(ctx))
	before := d.Snapshot()

	client.setFail(errors.New(`relation "recipe_processing_run" does not exist`))
	ok, err := d.ChangePage(ctx, 2)
	assert.True(t, ok)
	require.Error(t, err)

	snap := d.Snapshot()
	assert.Equal(t, StateFailed, snap.State)
	assert.Equal(t, `relation "recipe_processing_run" does not exist`, snap.Error)
	assert.Equal(t, before.Runs, snap.Runs)
	assert.Equal(t, before.Pagination, snap.Pagination)
	assert.Equal(t, 2, snap.Page, "retry targets the page that failed")

	client.setFail(nil)
	require.NoError(t, d.Retry(ctx))

	snap = d.Snapshot()
	assert.Equal(t, StateLoaded, snap.State)
	assert.Empty(t, snap.Error)
	assert.Equal(t, 2, snap.Pagination.Page)
	assert.Equal(t, []int{1, 2, 2}, client.fetches)
}

func TestDashboardRefreshIsIdempotent(t *testing.T) {
	d := New(NewServiceClient(service.NewRunService(db.NewFixtureStore())), quietLogger())
	ctx := context.Background()
	require.NoError(t, d.Mount(ctx))
	first := d.Snapshot()

	require.NoError(t, d.Refresh(ctx))
	assert.Equal(t, first, d.Snapshot())
}

func TestDashboardLoadMakesPageCurrent(t *testing.T) {
	client := &fakeClient{n: 250}
	d := New(client, quietLogger())
	ctx := context.Background()

	require.NoError(t, d.Load(ctx, 3))
	assert.Equal(t, 3, d.CurrentPage())

	require.NoError(t, d.Refresh(ctx))
	assert.Equal(t, []int{3, 3}, client.fetches)
	assert.Equal(t, 3, d.Snapshot().Pagination.Page)
}

func TestDashboardDiscardsStaleResponse(t *testing.T) {
	client := &fakeClient{n: 500, gates: map[int]chan struct{}{2: make(chan struct{})}}
	d := New(client, quietLogger())
	ctx := context.Background()
	require.NoError(t, d.Mount(ctx))

	staleErr := make(chan error, 1)
	go func() {
		_, err := d.ChangePage(ctx, 2)
		staleErr <- err
	}()

	require.Eventually(t, func() bool {
		client.mu.Lock()
		defer client.mu.Unlock()
		return len(client.fetches) == 2
	}, time.Second, time.Millisecond)

	ok, err := d.ChangePage(ctx, 4)
	require.NoError(t, err)
	require.True(t, ok)

	close(client.gates[2])
	assert.ErrorIs(t, <-staleErr, ErrStaleResponse)

	snap := d.Snapshot()
	assert.Equal(t, 4, snap.Pagination.Page)
	assert.Equal(t, int64(301), snap.Runs[0].ID)
	assert.Equal(t, StateLoaded, snap.State)
}

func TestDashboardFeedback(t *testing.T) {
	client := &fakeClient{n: 3}
	d := New(client, quietLogger())
	ctx := context.Background()
	require.NoError(t, d.Mount(ctx))

	assert.ErrorIs(t, d.SubmitFeedback(ctx, "x"), ErrNoRunSelected)

	seed, ok := d.SelectRun(2)
	require.True(t, ok)
	assert.Equal(t, "", seed)

	require.NoError(t, d.SubmitFeedback(ctx, "   "), "blank feedback is ignored")
	assert.NotNil(t, d.Snapshot().SelectedID, "editor stays open")
	assert.Empty(t, client.feedback)

	require.NoError(t, d.SubmitFeedback(ctx, "  wrong servings  "))
	assert.Equal(t, map[int64]string{2: "wrong servings"}, client.feedback)

	snap := d.Snapshot()
	assert.Nil(t, snap.SelectedID)
	require.NotNil(t, snap.Runs[1].Feedback)
	assert.Equal(t, "wrong servings", *snap.Runs[1].Feedback)
	assert.Nil(t, snap.Runs[0].Feedback)

	seed, ok = d.SelectRun(2)
	require.True(t, ok)
	assert.Equal(t, "wrong servings", seed)
	d.CancelFeedback()
	assert.Nil(t, d.Snapshot().SelectedID)

	_, ok = d.SelectRun(99)
	assert.False(t, ok)
}

func TestDashboardFeedbackFailure(t *testing.T) {
	client := &fakeClient{n: 3}
	d := New(client, quietLogger())
	ctx := context.Background()
	require.NoError(t, d.Mount(ctx))

	_, ok := d.SelectRun(1)
	require.True(t, ok)
	client.setFail(errors.New("Run not found"))

	require.Error(t, d.SubmitFeedback(ctx, "hello"))
	snap := d.Snapshot()
	assert.Equal(t, "Run not found", snap.Error)
	assert.Nil(t, snap.Runs[0].Feedback)
	assert.NotNil(t, snap.SelectedID)
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "idle", StateIdle.String())
	assert.Equal(t, "loading", StateLoading.String())
	assert.Equal(t, "loaded", StateLoaded.String())
	assert.Equal(t, "failed", StateFailed.String())
	assert.Equal(t, "unknown", State(42).String())
}
