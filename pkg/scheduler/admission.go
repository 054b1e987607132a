package scheduler

import (
	"fmt"
	"sort"
	"time"

	"github.com/cuemby/pulse-scheduler/pkg/types"
)

// advanceRunningJobs implements §4.3: for every RUNNING job, time it out
// once its limit is reached, otherwise roll a stochastic completion once
// it has run long enough to be eligible.
func (s *Scheduler) advanceRunningJobs(now time.Time) {
	for _, job := range s.store.JobsByState(types.JobRunning) {
		limit := time.Duration(job.Resources.TimeLimitMinutes) * time.Minute
		runtime := now.Sub(job.StartTime)

		switch {
		case runtime >= limit:
			s.transitionJob(job, types.JobTimeout, nil, now)
			s.metrics.JobsTimeoutTotal.Inc()
		case runtime > 10*time.Second && float64(runtime)/float64(limit) > 0.3:
			if s.rng.Float64() < 0.05 {
				if s.rng.Float64() < 0.95 {
					s.transitionJob(job, types.JobCompleted, nil, now)
					s.metrics.JobsCompletedTotal.Inc()
				} else {
					exitCode := 1
					s.transitionJob(job, types.JobFailed, &exitCode, now)
					s.metrics.JobsFailedTotal.Inc()
				}
			}
		}
	}
}

// admitPendingJobs implements §4.4: priority-FIFO with head-of-line
// bypass. It returns the number of jobs admitted this cycle.
func (s *Scheduler) admitPendingJobs(now time.Time) int {
	pending := s.store.JobsByState(types.JobPending)
	sort.Slice(pending, func(i, k int) bool {
		if pending[i].PriorityValue != pending[k].PriorityValue {
			return pending[i].PriorityValue > pending[k].PriorityValue
		}
		return pending[i].SubmitTime.Before(pending[k].SubmitTime)
	})

	admitted := 0
	for _, job := range pending {
		partition, ok := s.store.Partition(job.Partition)
		if !ok || partition.State != types.PartitionUp {
			continue
		}
		if !partition.Fits(job.Resources) {
			continue
		}
		s.admitJob(job, partition, now)
		admitted++
	}
	return admitted
}

// admitJob implements §4.5: atomically allocate resources, transition the
// job to RUNNING, and assign it a stable node id.
func (s *Scheduler) admitJob(job *types.Job, partition *types.Partition, now time.Time) {
	req := job.Resources
	partition.AllocatedCPUs += req.CPUs
	partition.AllocatedGPUs += req.GPUs
	partition.AllocatedMemoryGB += req.MemoryGB
	partition.JobsPending--
	partition.JobsRunning++

	s.store.MoveState(job.ID, types.JobPending, types.JobRunning)
	job.State = types.JobRunning
	job.StartTime = now
	job.NodeID = nodeID(partition.Name, job.ID, partition.TotalNodes)

	s.metrics.JobWaitTimeSeconds.Observe(now.Sub(job.SubmitTime).Seconds())

	s.logger.Info().
		Str("job_id", job.ID).
		Str("node_id", job.NodeID).
		Msg("job admitted")
}

// nodeID formats the stable node assignment described in §4.5.
func nodeID(partition, jobID string, totalNodes int) string {
	n := int(stableHash(jobID)%uint32(totalNodes)) + 1
	return fmt.Sprintf("%s-node-%02d", partition, n)
}

// transitionJob implements §4.6: release resources when leaving RUNNING,
// update indexes, stamp the terminal fields, and record the completion
// window entry when the new state is terminal.
func (s *Scheduler) transitionJob(job *types.Job, newState types.JobState, exitCode *int, now time.Time) {
	oldState := job.State

	if oldState == types.JobRunning {
		if partition, ok := s.store.Partition(job.Partition); ok {
			req := job.Resources
			partition.AllocatedCPUs -= req.CPUs
			partition.AllocatedGPUs -= req.GPUs
			partition.AllocatedMemoryGB -= req.MemoryGB
			partition.JobsRunning--
		}
		s.metrics.JobRuntimeSeconds.Observe(now.Sub(job.StartTime).Seconds())
	}

	s.store.MoveState(job.ID, oldState, newState)
	job.State = newState
	job.EndTime = now
	if exitCode != nil {
		job.ExitCode = exitCode
	}

	if newState.Terminal() {
		s.store.RecordCompletion(now, job)
	}

	s.logger.Info().
		Str("job_id", job.ID).
		Str("from", string(oldState)).
		Str("to", string(newState)).
		Msg("job transitioned")
}

// CancelJob cancels a job. Already-terminal jobs are a no-op that returns
// the existing record without emitting metrics. Valid from PENDING or
// RUNNING.
func (s *Scheduler) CancelJob(id string) (*types.Job, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	job, ok := s.store.Job(id)
	if !ok {
		return nil, &NotFoundError{Kind: "job", ID: id}
	}
	if job.State.Terminal() {
		return job, nil
	}

	if job.State == types.JobPending {
		if partition, ok := s.store.Partition(job.Partition); ok {
			partition.JobsPending--
		}
	}

	s.transitionJob(job, types.JobCancelled, nil, time.Now().UTC())
	s.metrics.JobsCancelledTotal.Inc()
	return job, nil
}
