// Package scheduler periodically refreshes barcode connections of every
// active user on a bounded worker pool.
package scheduler

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/erp/reconciler/internal/infrastructure/cache"
	"github.com/erp/reconciler/internal/infrastructure/config"
)

// RefreshExecutor refreshes one user's connections and reports how many changed
type RefreshExecutor interface {
	RefreshUser(ctx context.Context, userID int64) (int, error)
}

// UserLister lists the users to refresh
type UserLister interface {
	FindActiveIDs(ctx context.Context) ([]int64, error)
}

const (
	leaseKeyPrefix = "scheduler:refresh:"
	queueSize      = 256
	maxHistory     = 100
)

// RefreshScheduler runs connection refreshes on a timer. A per-user lease in
// the shared cache keeps instances from refreshing the same user at once.
type RefreshScheduler struct {
	config   config.SchedulerConfig
	executor RefreshExecutor
	users    UserLister
	leases   cache.Store
	logger   *zap.Logger

	jobs      chan *RefreshJob
	cancel    context.CancelFunc
	wg        sync.WaitGroup
	mu        sync.Mutex
	isRunning bool

	historyMu sync.RWMutex
	history   []*RefreshJob
}

// NewRefreshScheduler creates a new scheduler
func NewRefreshScheduler(
	cfg config.SchedulerConfig,
	executor RefreshExecutor,
	users UserLister,
	leases cache.Store,
	logger *zap.Logger,
) (*RefreshScheduler, error) {
	if cfg.MaxConcurrentUsers <= 0 || cfg.JobTimeout <= 0 || cfg.RefreshInterval <= 0 {
		return nil, ErrInvalidConfig
	}
	return &RefreshScheduler{
		config:   cfg,
		executor: executor,
		users:    users,
		leases:   leases,
		logger:   logger.Named("scheduler"),
		jobs:     make(chan *RefreshJob, queueSize),
		history:  make([]*RefreshJob, 0, maxHistory),
	}, nil
}

// Start starts the worker pool and the timer. It returns immediately.
func (s *RefreshScheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.isRunning {
		s.mu.Unlock()
		return nil
	}
	s.isRunning = true
	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.mu.Unlock()

	for i := 0; i < s.config.MaxConcurrentUsers; i++ {
		s.wg.Add(1)
		go s.worker(ctx, i)
	}
	s.wg.Add(1)
	go s.loop(ctx)

	s.logger.Info("connection refresh scheduler started",
		zap.Int("workers", s.config.MaxConcurrentUsers),
		zap.Duration("interval", s.config.RefreshInterval),
		zap.Duration("job_timeout", s.config.JobTimeout))
	return nil
}

// Stop cancels running jobs and waits for the workers until ctx is done
func (s *RefreshScheduler) Stop(ctx context.Context) error {
	s.mu.Lock()
	if !s.isRunning {
		s.mu.Unlock()
		return nil
	}
	s.isRunning = false
	s.cancel()
	s.mu.Unlock()

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		s.logger.Info("connection refresh scheduler stopped")
		return nil
	case <-ctx.Done():
		s.logger.Warn("connection refresh scheduler stop timed out")
		return ctx.Err()
	}
}

// Submit queues a refresh for one user
func (s *RefreshScheduler) Submit(job *RefreshJob) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.isRunning {
		return ErrSchedulerNotRunning
	}
	select {
	case s.jobs <- job:
		return nil
	default:
		return ErrJobQueueFull
	}
}

// RunOnce queues a refresh for every active user
func (s *RefreshScheduler) RunOnce(ctx context.Context) (int, error) {
	ids, err := s.users.FindActiveIDs(ctx)
	if err != nil {
		return 0, err
	}
	queued := 0
	for _, id := range ids {
		if err := s.Submit(NewRefreshJob(id)); err != nil {
			s.logger.Warn("refresh job not queued", zap.Int64("user_id", id), zap.Error(err))
			if errors.Is(err, ErrSchedulerNotRunning) {
				return queued, err
			}
			continue
		}
		queued++
	}
	s.logger.Debug("refresh round queued", zap.Int("users", len(ids)), zap.Int("queued", queued))
	return queued, nil
}

func (s *RefreshScheduler) loop(ctx context.Context) {
	defer s.wg.Done()

	timer := time.NewTimer(s.config.InitialDelay)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-timer.C:
			if _, err := s.RunOnce(ctx); err != nil && ctx.Err() == nil {
				s.logger.Error("refresh round failed", zap.Error(err))
			}
			timer.Reset(s.config.RefreshInterval)
		}
	}
}

func (s *RefreshScheduler) worker(ctx context.Context, workerID int) {
	defer s.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case job := <-s.jobs:
			s.process(ctx, job, workerID)
		}
	}
}

func (s *RefreshScheduler) process(ctx context.Context, job *RefreshJob, workerID int) {
	defer s.addToHistory(job)

	key := leaseKeyPrefix + strconv.FormatInt(job.UserID, 10)
	acquired, err := s.leases.SetNX(ctx, key, []byte(job.ID.String()), s.config.JobTimeout)
	if err != nil {
		job.Fail(err.Error())
		s.logger.Error("refresh lease failed", zap.Int64("user_id", job.UserID), zap.Error(err))
		return
	}
	if !acquired {
		job.Skip()
		s.logger.Debug("refresh skipped", zap.Int64("user_id", job.UserID), zap.Error(ErrRefreshInProgress))
		return
	}
	defer func() {
		// a fresh context: the lease must go even when ctx was cancelled
		if err := s.leases.Delete(context.Background(), key); err != nil {
			s.logger.Warn("refresh lease not released", zap.Int64("user_id", job.UserID), zap.Error(err))
		}
	}()

	job.Start()
	jobCtx, cancel := context.WithTimeout(ctx, s.config.JobTimeout)
	defer cancel()

	changed, err := s.executor.RefreshUser(jobCtx, job.UserID)
	if err != nil {
		job.Fail(err.Error())
		s.logger.Error("refresh job failed",
			zap.Int("worker_id", workerID),
			zap.String("job_id", job.ID.String()),
			zap.Int64("user_id", job.UserID),
			zap.Error(err))
		return
	}
	job.Complete(changed)
	s.logger.Info("refresh job completed",
		zap.Int("worker_id", workerID),
		zap.String("job_id", job.ID.String()),
		zap.Int64("user_id", job.UserID),
		zap.Int("changed", changed))
}

func (s *RefreshScheduler) addToHistory(job *RefreshJob) {
	s.historyMu.Lock()
	defer s.historyMu.Unlock()

	s.history = append([]*RefreshJob{job}, s.history...)
	if len(s.history) > maxHistory {
		s.history = s.history[:maxHistory]
	}
}

// History returns recent jobs, newest first
func (s *RefreshScheduler) History(limit int) []*RefreshJob {
	s.historyMu.RLock()
	defer s.historyMu.RUnlock()

	if limit <= 0 || limit > len(s.history) {
		limit = len(s.history)
	}
	out := make([]*RefreshJob, limit)
	copy(out, s.history[:limit])
	return out
}
