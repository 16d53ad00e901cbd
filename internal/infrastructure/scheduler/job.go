package scheduler

import (
	"time"

	"github.com/google/uuid"
)

// JobStatus represents the status of a refresh job
type JobStatus string

const (
	JobStatusPending JobStatus = "PENDING"
	JobStatusRunning JobStatus = "RUNNING"
	JobStatusSuccess JobStatus = "SUCCESS"
	JobStatusSkipped JobStatus = "SKIPPED"
	JobStatusFailed  JobStatus = "FAILED"
)

// RefreshJob relinks one user's products by barcode
type RefreshJob struct {
	ID          uuid.UUID
	UserID      int64
	Status      JobStatus
	Error       string
	Changed     int
	StartedAt   *time.Time
	CompletedAt *time.Time
}

// NewRefreshJob creates a pending job
func NewRefreshJob(userID int64) *RefreshJob {
	return &RefreshJob{
		ID:     uuid.New(),
		UserID: userID,
		Status: JobStatusPending,
	}
}

// Start marks the job as running
func (j *RefreshJob) Start() {
	now := time.Now()
	j.Status = JobStatusRunning
	j.StartedAt = &now
	j.Error = ""
}

// Complete marks the job as successful
func (j *RefreshJob) Complete(changed int) {
	now := time.Now()
	j.Status = JobStatusSuccess
	j.Changed = changed
	j.CompletedAt = &now
}

// Skip marks a job another worker already covers
func (j *RefreshJob) Skip() {
	now := time.Now()
	j.Status = JobStatusSkipped
	j.CompletedAt = &now
}

// Fail marks the job as failed
func (j *RefreshJob) Fail(err string) {
	now := time.Now()
	j.Status = JobStatusFailed
	j.CompletedAt = &now
	j.Error = err
}
