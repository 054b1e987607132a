package store

import (
	"testing"
	"time"

	"github.com/cuemby/pulse-scheduler/pkg/types"
	"github.com/stretchr/testify/assert"
)

func TestNewSeedsDefaultPartitions(t *testing.T) {
	s := New()

	names := []string{"gpu", "cpu", "highmem", "debug"}
	for _, name := range names {
		p, ok := s.Partition(name)
		assert.True(t, ok, "expected partition %s", name)
		assert.Equal(t, types.PartitionUp, p.State)
	}

	debug, _ := s.Partition("debug")
	assert.Equal(t, 1, debug.TotalNodes)
	assert.Equal(t, 16, debug.TotalCPUs)
	assert.Equal(t, 2, debug.TotalGPUs)
	assert.Equal(t, 30, debug.MaxTimeMinutes)
}

func newTestJob(id string, state types.JobState, user, account, partition string) *types.Job {
	return &types.Job{
		ID:         id,
		User:       user,
		Account:    account,
		Partition:  partition,
		State:      state,
		SubmitTime: time.Now(),
	}
}

func TestAddJobIndexesEverySecondaryTable(t *testing.T) {
	s := New()
	j := newTestJob("000001", types.JobPending, "alice", "acct-a", "debug")
	s.AddJob(j)

	got, ok := s.Job("000001")
	assert.True(t, ok)
	assert.Equal(t, j, got)

	assert.Equal(t, 1, s.CountByState(types.JobPending))
	assert.ElementsMatch(t, []string{"alice"}, s.Users())
	assert.ElementsMatch(t, []string{"acct-a"}, s.Accounts())
}

func TestAddJobWithoutAccountOmitsAccountIndex(t *testing.T) {
	s := New()
	j := newTestJob("000001", types.JobPending, "alice", "", "debug")
	s.AddJob(j)

	assert.Empty(t, s.Accounts())
}

func TestMoveStateUpdatesBothBuckets(t *testing.T) {
	s := New()
	j := newTestJob("000001", types.JobPending, "alice", "", "debug")
	s.AddJob(j)

	j.State = types.JobRunning
	s.MoveState(j.ID, types.JobPending, types.JobRunning)

	assert.Equal(t, 0, s.CountByState(types.JobPending))
	assert.Equal(t, 1, s.CountByState(types.JobRunning))
}

func TestListJobsFiltersAndSortsDescending(t *testing.T) {
	s := New()
	older := newTestJob("000001", types.JobPending, "alice", "", "debug")
	older.SubmitTime = time.Now().Add(-time.Minute)
	newer := newTestJob("000002", types.JobPending, "bob", "", "debug")
	newer.SubmitTime = time.Now()
	otherPartition := newTestJob("000003", types.JobPending, "alice", "", "cpu")

	s.AddJob(older)
	s.AddJob(newer)
	s.AddJob(otherPartition)

	jobs := s.ListJobs(JobFilter{Partition: "debug"})
	assert.Len(t, jobs, 2)
	assert.Equal(t, "000002", jobs[0].ID)
	assert.Equal(t, "000001", jobs[1].ID)

	byUser := s.ListJobs(JobFilter{User: "alice"})
	assert.Len(t, byUser, 2)
}

func TestListJobsLimitDefaultsAndCaps(t *testing.T) {
	s := New()
	for i := 0; i < 5; i++ {
		s.AddJob(newTestJob(string(rune('a'+i)), types.JobPending, "alice", "", "debug"))
	}

	assert.Len(t, s.ListJobs(JobFilter{Limit: 2}), 2)
	assert.Len(t, s.ListJobs(JobFilter{}), 5)
	assert.Len(t, s.ListJobs(JobFilter{Limit: 5000}), 5)
}

func TestRecordCompletionPrunesOlderThan24Hours(t *testing.T) {
	s := New()
	now := time.Now()

	stale := newTestJob("stale", types.JobCompleted, "alice", "", "debug")
	s.RecordCompletion(now.Add(-25*time.Hour), stale)

	fresh := newTestJob("fresh", types.JobCompleted, "alice", "", "debug")
	s.RecordCompletion(now, fresh)

	assert.Equal(t, 1, s.CompletedSince(now, types.JobCompleted))
}

func TestCompletedSinceFiltersByState(t *testing.T) {
	s := New()
	now := time.Now()

	completed := newTestJob("ok", types.JobCompleted, "alice", "", "debug")
	failed := newTestJob("bad", types.JobFailed, "alice", "", "debug")
	s.RecordCompletion(now, completed)
	s.RecordCompletion(now, failed)

	assert.Equal(t, 1, s.CompletedSince(now, types.JobCompleted))
	assert.Equal(t, 1, s.CompletedSince(now, types.JobFailed, types.JobTimeout, types.JobNodeFail))
}
