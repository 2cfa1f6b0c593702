// Package server hosts the HTTP analysis service: archive upload, background
// analysis jobs, and result retrieval.
package server

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/codearcheology/archeo/pkg/report"
)

// JobStatus is the lifecycle state of an analysis job.
type JobStatus string

// Job lifecycle states. A job moves pending -> processing -> completed or
// failed; there are no other transitions.
const (
	StatusPending    JobStatus = "pending"
	StatusProcessing JobStatus = "processing"
	StatusCompleted  JobStatus = "completed"
	StatusFailed     JobStatus = "failed"
)

// ErrJobNotFound is returned when a job ID is unknown.
var ErrJobNotFound = errors.New("job not found")

// Job is one queued or finished analysis request.
type Job struct {
	ID        string    `json:"id"`
	Status    JobStatus `json:"status"`
	Project   string    `json:"project"`
	Error     string    `json:"error,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// JobStore is an in-memory job registry safe for concurrent use.
type JobStore struct {
	mu      sync.RWMutex
	jobs    map[string]*Job
	results map[string]*report.Report
}

// NewJobStore creates an empty store.
func NewJobStore() *JobStore {
	return &JobStore{
		jobs:    make(map[string]*Job),
		results: make(map[string]*report.Report),
	}
}

// Create registers a new pending job for the named project and returns it.
func (s *JobStore) Create(project string) *Job {
	now := time.Now()
	job := &Job{
		ID:        uuid.NewString(),
		Status:    StatusPending,
		Project:   project,
		CreatedAt: now,
		UpdatedAt: now,
	}

	s.mu.Lock()
	s.jobs[job.ID] = job
	s.mu.Unlock()

	return job
}

// Get returns a copy of the job with the given ID.
func (s *JobStore) Get(id string) (Job, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	job, ok := s.jobs[id]
	if !ok {
		return Job{}, ErrJobNotFound
	}

	return *job, nil
}

// SetStatus transitions the job to status. For StatusFailed, errMsg is
// recorded on the job.
func (s *JobStore) SetStatus(id string, status JobStatus, errMsg string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	job, ok := s.jobs[id]
	if !ok {
		return ErrJobNotFound
	}

	job.Status = status
	job.Error = errMsg
	job.UpdatedAt = time.Now()

	return nil
}

// SetResult stores the finished report and marks the job completed.
func (s *JobStore) SetResult(id string, rep *report.Report) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	job, ok := s.jobs[id]
	if !ok {
		return ErrJobNotFound
	}

	job.Status = StatusCompleted
	job.Error = ""
	job.UpdatedAt = time.Now()
	s.results[id] = rep

	return nil
}

// Result returns the stored report for a completed job.
func (s *JobStore) Result(id string) (*report.Report, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rep, ok := s.results[id]
	if !ok {
		return nil, ErrJobNotFound
	}

	return rep, nil
}
