package scheduler

import (
	"time"

	"github.com/cuemby/pulse-scheduler/pkg/store"
	"github.com/cuemby/pulse-scheduler/pkg/types"
)

// GetJob returns a copy of a job by id. The scheduler keeps mutating its
// own copy under the lock after this call returns, so callers never see a
// pointer into live state.
func (s *Scheduler) GetJob(id string) (*types.Job, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	job, ok := s.store.Job(id)
	if !ok {
		return nil, &NotFoundError{Kind: "job", ID: id}
	}
	cp := *job
	return &cp, nil
}

// ListJobs returns copies of jobs matching the conjunction of the given
// filters, sorted by submit time descending, truncated to limit.
func (s *Scheduler) ListJobs(f store.JobFilter) []*types.Job {
	s.mu.Lock()
	defer s.mu.Unlock()

	jobs := s.store.ListJobs(f)
	out := make([]*types.Job, len(jobs))
	for i, j := range jobs {
		cp := *j
		out[i] = &cp
	}
	return out
}

// Partitions returns a copy of every partition's current state.
func (s *Scheduler) Partitions() []*types.Partition {
	s.mu.Lock()
	defer s.mu.Unlock()

	partitions := s.store.Partitions()
	out := make([]*types.Partition, len(partitions))
	for i, p := range partitions {
		cp := *p
		out[i] = &cp
	}
	return out
}

// Partition returns a copy of a single partition's current state.
func (s *Scheduler) Partition(name string) (*types.Partition, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.store.Partition(name)
	if !ok {
		return nil, &NotFoundError{Kind: "partition", ID: name}
	}
	cp := *p
	return &cp, nil
}

// ClusterSummary aggregates cluster-wide counters plus the rolling
// 24-hour completed/failed counts.
func (s *Scheduler) ClusterSummary() types.ClusterSummary {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC()
	var sum types.ClusterSummary
	for _, p := range s.store.Partitions() {
		sum.TotalNodes += p.TotalNodes
		sum.TotalCPUs += p.TotalCPUs
		sum.AllocatedCPUs += p.AllocatedCPUs
		sum.TotalGPUs += p.TotalGPUs
		sum.AllocatedGPUs += p.AllocatedGPUs
		sum.TotalMemoryGB += p.TotalMemoryGB
		sum.AllocatedMemoryGB += p.AllocatedMemoryGB
		sum.Partitions++
	}

	sum.JobsPending = s.store.CountByState(types.JobPending)
	sum.JobsRunning = s.store.CountByState(types.JobRunning)
	sum.JobsSuspended = s.store.CountByState(types.JobSuspended)
	sum.JobsCompleting = s.store.CountByState(types.JobCompleting)

	sum.JobsCompleted24h = s.store.CompletedSince(now, types.JobCompleted)
	sum.JobsFailed24h = s.store.CompletedSince(now, types.JobFailed, types.JobTimeout, types.JobNodeFail)

	return sum
}
