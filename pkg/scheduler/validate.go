package scheduler

import (
	"strings"
	"time"

	"github.com/cuemby/pulse-scheduler/pkg/types"
)

// SubmitJob validates and, on success, admits a new job submission into
// PENDING. Validation runs in the order the specification lists: name
// normalization, partition existence, resource envelope, then time
// limit. The first failure is returned and no state is mutated.
func (s *Scheduler) SubmitJob(sub types.JobSubmission) (*types.Job, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return nil, &NotReadyError{}
	}

	name := strings.ReplaceAll(strings.TrimSpace(sub.Name), " ", "_")
	if name == "" {
		return nil, &ValidationError{Reason: "InvalidName", Field: "name", Detail: "job name must not be empty"}
	}

	partition, ok := s.store.Partition(sub.Partition)
	if !ok {
		return nil, &ValidationError{Reason: "UnknownPartition", Field: "partition", Detail: sub.Partition}
	}

	req := sub.Resources
	if req.CPUs > partition.TotalCPUs {
		return nil, &ValidationError{Reason: "OversizedRequest", Field: "cpus", Detail: "requested CPUs exceed partition capacity"}
	}
	if req.GPUs > partition.TotalGPUs {
		return nil, &ValidationError{Reason: "OversizedRequest", Field: "gpus", Detail: "requested GPUs exceed partition capacity"}
	}
	if req.MemoryGB > partition.TotalMemoryGB {
		return nil, &ValidationError{Reason: "OversizedRequest", Field: "memory_gb", Detail: "requested memory exceeds partition capacity"}
	}

	if req.TimeLimitMinutes > partition.MaxTimeMinutes {
		return nil, &ValidationError{Reason: "TimeLimitExceeded", Field: "time_limit_minutes", Detail: "requested time limit exceeds partition maximum"}
	}

	now := time.Now().UTC()
	job := &types.Job{
		ID:            s.nextJobID(),
		Name:          name,
		Partition:     sub.Partition,
		Priority:      sub.Priority,
		PriorityValue: sub.Priority.Value(),
		Resources:     req,
		Command:       sub.Command,
		Account:       sub.Account,
		User:          sub.User,
		State:         types.JobPending,
		SubmitTime:    now,
	}

	s.store.AddJob(job)
	partition.JobsPending++
	s.metrics.JobsSubmittedTotal.Inc()

	s.logger.Info().
		Str("job_id", job.ID).
		Str("partition", job.Partition).
		Str("user", job.User).
		Msg("job submitted")

	return job, nil
}
