package scheduler

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/erp/reconciler/internal/infrastructure/cache"
	"github.com/erp/reconciler/internal/infrastructure/config"
)

type fakeExecutor struct {
	mu    sync.Mutex
	calls []int64
	fail  map[int64]error
}

func (f *fakeExecutor) RefreshUser(_ context.Context, userID int64) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, userID)
	if err := f.fail[userID]; err != nil {
		return 0, err
	}
	return int(userID) * 10, nil
}

func (f *fakeExecutor) called() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

type staticUsers []int64

func (u staticUsers) FindActiveIDs(context.Context) ([]int64, error) {
	return u, nil
}

func testConfig() config.SchedulerConfig {
	return config.SchedulerConfig{
		Enabled:            true,
		RefreshInterval:    time.Hour,
		MaxConcurrentUsers: 2,
		JobTimeout:         time.Minute,
	}
}

func newTestScheduler(t *testing.T, exec *fakeExecutor, users UserLister) (*RefreshScheduler, *cache.InMemoryStore) {
	store := cache.NewInMemoryStore(0)
	t.Cleanup(func() { _ = store.Close() })
	s, err := NewRefreshScheduler(testConfig(), exec, users, store, zap.NewNop())
	require.NoError(t, err)
	return s, store
}

func byUser(jobs []*RefreshJob) map[int64]*RefreshJob {
	out := make(map[int64]*RefreshJob, len(jobs))
	for _, j := range jobs {
		out[j.UserID] = j
	}
	return out
}

func TestNewRefreshScheduler_InvalidConfig(t *testing.T) {
	cfg := testConfig()
	cfg.MaxConcurrentUsers = 0
	_, err := NewRefreshScheduler(cfg, &fakeExecutor{}, staticUsers{}, cache.NewInMemoryStore(0), zap.NewNop())
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestRefreshScheduler_RefreshesEveryUser(t *testing.T) {
	exec := &fakeExecutor{fail: map[int64]error{3: errors.New("db down")}}
	s, store := newTestScheduler(t, exec, staticUsers{1, 2, 3})

	ctx := context.Background()
	require.NoError(t, s.Start(ctx))
	t.Cleanup(func() { _ = s.Stop(ctx) })

	require.Eventually(t, func() bool { return len(s.History(0)) == 3 }, 5*time.Second, 10*time.Millisecond)

	jobs := byUser(s.History(0))
	assert.Equal(t, JobStatusSuccess, jobs[1].Status)
	assert.Equal(t, 20, jobs[2].Changed)
	assert.Equal(t, JobStatusFailed, jobs[3].Status)
	assert.Equal(t, "db down", jobs[3].Error)

	// leases are released
	assert.Zero(t, store.Len())
}

func TestRefreshScheduler_SkipsLeasedUsers(t *testing.T) {
	exec := &fakeExecutor{}
	s, store := newTestScheduler(t, exec, staticUsers{})
	ctx := context.Background()

	ok, err := store.SetNX(ctx, leaseKeyPrefix+"7", []byte("other instance"), time.Minute)
	require.NoError(t, err)
	require.True(t, ok)

	require.NoError(t, s.Start(ctx))
	t.Cleanup(func() { _ = s.Stop(ctx) })
	require.NoError(t, s.Submit(NewRefreshJob(7)))

	require.Eventually(t, func() bool { return len(s.History(0)) == 1 }, 5*time.Second, 10*time.Millisecond)
	assert.Equal(t, JobStatusSkipped, s.History(1)[0].Status)
	assert.Zero(t, exec.called())
}

func TestRefreshScheduler_SubmitWhenStopped(t *testing.T) {
	s, _ := newTestScheduler(t, &fakeExecutor{}, staticUsers{1})
	assert.ErrorIs(t, s.Submit(NewRefreshJob(1)), ErrSchedulerNotRunning)

	_, err := s.RunOnce(context.Background())
	assert.ErrorIs(t, err, ErrSchedulerNotRunning)
}

func TestRefreshScheduler_StopIsIdempotent(t *testing.T) {
	s, _ := newTestScheduler(t, &fakeExecutor{}, staticUsers{})
	ctx := context.Background()

	require.NoError(t, s.Start(ctx))
	require.NoError(t, s.Start(ctx))
	require.NoError(t, s.Stop(ctx))
	require.NoError(t, s.Stop(ctx))
}
