// Package store holds the scheduler's in-memory job and partition tables.
//
// Store itself performs no locking: the scheduler is the single mutator
// and owns the mutex guarding every call into it (see pkg/scheduler). This
// mirrors the process-local, non-persistent state model the specification
// requires — state is lost on restart by design, so there is no backing
// store beneath these maps.
package store

import (
	"sort"
	"time"

	"github.com/cuemby/pulse-scheduler/pkg/types"
)

// DefaultPartitions returns the partition set the scheduler seeds at
// startup.
func DefaultPartitions() []*types.Partition {
	return []*types.Partition{
		{Name: "gpu", State: types.PartitionUp, TotalNodes: 4, TotalCPUs: 256, TotalGPUs: 32, TotalMemoryGB: 8192, MaxTimeMinutes: 7200, DefaultTimeMinutes: 60},
		{Name: "cpu", State: types.PartitionUp, TotalNodes: 4, TotalCPUs: 768, TotalGPUs: 0, TotalMemoryGB: 4096, MaxTimeMinutes: 10080, DefaultTimeMinutes: 120},
		{Name: "highmem", State: types.PartitionUp, TotalNodes: 2, TotalCPUs: 384, TotalGPUs: 0, TotalMemoryGB: 8192, MaxTimeMinutes: 4320, DefaultTimeMinutes: 240},
		{Name: "debug", State: types.PartitionUp, TotalNodes: 1, TotalCPUs: 16, TotalGPUs: 2, TotalMemoryGB: 128, MaxTimeMinutes: 30, DefaultTimeMinutes: 10},
	}
}

type completedEntry struct {
	at  time.Time
	job *types.Job
}

// Store is the authoritative job/partition table plus secondary indexes.
// Every method assumes the caller already holds whatever lock protects it.
type Store struct {
	jobs       map[string]*types.Job
	partitions map[string]*types.Partition

	byState   map[types.JobState]map[string]struct{}
	byUser    map[string]map[string]struct{}
	byAccount map[string]map[string]struct{}

	completed []completedEntry
}

// New builds a Store seeded with the default partitions.
func New() *Store {
	return NewWithPartitions(DefaultPartitions())
}

// NewWithPartitions builds a Store seeded with the given partition set
// instead of the built-in defaults, for deployments whose configuration
// overrides partition capacity.
func NewWithPartitions(partitions []*types.Partition) *Store {
	s := &Store{
		jobs:       make(map[string]*types.Job),
		partitions: make(map[string]*types.Partition),
		byState:    make(map[types.JobState]map[string]struct{}),
		byUser:     make(map[string]map[string]struct{}),
		byAccount:  make(map[string]map[string]struct{}),
	}
	for _, p := range partitions {
		s.partitions[p.Name] = p
	}
	return s
}

func setAdd[K comparable](m map[K]map[string]struct{}, key K, id string) {
	if m[key] == nil {
		m[key] = make(map[string]struct{})
	}
	m[key][id] = struct{}{}
}

func setRemove[K comparable](m map[K]map[string]struct{}, key K, id string) {
	if s, ok := m[key]; ok {
		delete(s, id)
	}
}

// Partition returns a partition by name.
func (s *Store) Partition(name string) (*types.Partition, bool) {
	p, ok := s.partitions[name]
	return p, ok
}

// Partitions returns every partition, unordered.
func (s *Store) Partitions() []*types.Partition {
	out := make([]*types.Partition, 0, len(s.partitions))
	for _, p := range s.partitions {
		out = append(out, p)
	}
	return out
}

// Job returns a job by id.
func (s *Store) Job(id string) (*types.Job, bool) {
	j, ok := s.jobs[id]
	return j, ok
}

// AddJob inserts a newly-submitted job into the job table and every
// secondary index.
func (s *Store) AddJob(j *types.Job) {
	s.jobs[j.ID] = j
	setAdd(s.byState, j.State, j.ID)
	setAdd(s.byUser, j.User, j.ID)
	if j.Account != "" {
		setAdd(s.byAccount, j.Account, j.ID)
	}
}

// MoveState updates the state-bucket index membership for a job whose
// State field has already been set to newState by the caller.
func (s *Store) MoveState(jobID string, oldState, newState types.JobState) {
	setRemove(s.byState, oldState, jobID)
	setAdd(s.byState, newState, jobID)
}

// JobsByState returns every job currently in the given state.
func (s *Store) JobsByState(state types.JobState) []*types.Job {
	ids := s.byState[state]
	out := make([]*types.Job, 0, len(ids))
	for id := range ids {
		if j, ok := s.jobs[id]; ok {
			out = append(out, j)
		}
	}
	return out
}

// CountByState returns the number of jobs in the given state.
func (s *Store) CountByState(state types.JobState) int {
	return len(s.byState[state])
}

// JobFilter narrows a ListJobs call. Zero-value fields are unfiltered.
type JobFilter struct {
	State     types.JobState
	Partition string
	User      string
	Limit     int
}

// ListJobs returns jobs matching the conjunction of the filter's non-empty
// fields, sorted by submit time descending, truncated to Limit (default
// 100, max 1000).
func (s *Store) ListJobs(f JobFilter) []*types.Job {
	out := make([]*types.Job, 0, len(s.jobs))
	for _, j := range s.jobs {
		if f.State != "" && j.State != f.State {
			continue
		}
		if f.Partition != "" && j.Partition != f.Partition {
			continue
		}
		if f.User != "" && j.User != f.User {
			continue
		}
		out = append(out, j)
	}
	sort.Slice(out, func(i, k int) bool { return out[i].SubmitTime.After(out[k].SubmitTime) })

	limit := f.Limit
	if limit <= 0 {
		limit = 100
	}
	if limit > 1000 {
		limit = 1000
	}
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}

// RecordCompletion appends a terminal job to the 24-hour completed-jobs
// window and prunes entries older than the window.
func (s *Store) RecordCompletion(now time.Time, j *types.Job) {
	s.completed = append(s.completed, completedEntry{at: now, job: j})
	s.pruneCompleted(now)
}

func (s *Store) pruneCompleted(now time.Time) {
	cutoff := now.Add(-24 * time.Hour)
	kept := s.completed[:0]
	for _, e := range s.completed {
		if e.at.After(cutoff) {
			kept = append(kept, e)
		}
	}
	s.completed = kept
}

// CompletedSince counts window entries whose job state is one of states.
func (s *Store) CompletedSince(now time.Time, states ...types.JobState) int {
	cutoff := now.Add(-24 * time.Hour)
	want := make(map[types.JobState]struct{}, len(states))
	for _, st := range states {
		want[st] = struct{}{}
	}
	count := 0
	for _, e := range s.completed {
		if !e.at.After(cutoff) {
			continue
		}
		if _, ok := want[e.job.State]; ok {
			count++
		}
	}
	return count
}

// Users returns every user currently tracked in the user index.
func (s *Store) Users() []string {
	out := make([]string, 0, len(s.byUser))
	for u := range s.byUser {
		out = append(out, u)
	}
	return out
}

// Accounts returns every account currently tracked in the account index.
func (s *Store) Accounts() []string {
	out := make([]string, 0, len(s.byAccount))
	for a := range s.byAccount {
		out = append(out, a)
	}
	return out
}
