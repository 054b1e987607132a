package scheduler

import (
	"github.com/cuemby/pulse-scheduler/pkg/types"
)

const bytesPerGB = 1024 * 1024 * 1024

// publishMetrics implements §4.7. It is called once per cycle, under the
// lock, after running jobs have been advanced and pending jobs admitted.
func (s *Scheduler) publishMetrics() {
	s.publishClusterMetrics()
	s.publishQueueMetrics()
	s.publishPartitionMetrics()
	s.publishTenantMetrics()
}

func (s *Scheduler) publishClusterMetrics() {
	var totalCPUs, allocCPUs, totalGPUs, allocGPUs int
	var totalMem, allocMem float64

	for _, p := range s.store.Partitions() {
		totalCPUs += p.TotalCPUs
		allocCPUs += p.AllocatedCPUs
		totalGPUs += p.TotalGPUs
		allocGPUs += p.AllocatedGPUs
		totalMem += p.TotalMemoryGB
		allocMem += p.AllocatedMemoryGB
	}

	s.metrics.CPUsTotal.Set(float64(totalCPUs))
	s.metrics.CPUsAllocated.Set(float64(allocCPUs))
	s.metrics.CPUsIdle.Set(float64(totalCPUs - allocCPUs))
	s.metrics.GPUsTotal.Set(float64(totalGPUs))
	s.metrics.GPUsAllocated.Set(float64(allocGPUs))
	s.metrics.MemoryTotalBytes.Set(totalMem * bytesPerGB)
	s.metrics.MemoryAllocBytes.Set(allocMem * bytesPerGB)
}

func (s *Scheduler) publishQueueMetrics() {
	s.metrics.QueuePending.Set(float64(s.store.CountByState(types.JobPending)))
	s.metrics.QueueRunning.Set(float64(s.store.CountByState(types.JobRunning)))
	s.metrics.QueueSuspended.Set(float64(s.store.CountByState(types.JobSuspended)))
	s.metrics.QueueCompleting.Set(float64(s.store.CountByState(types.JobCompleting)))
}

func (s *Scheduler) publishPartitionMetrics() {
	for _, p := range s.store.Partitions() {
		s.metrics.PartitionCPUsTotal.WithLabelValues(p.Name).Set(float64(p.TotalCPUs))
		s.metrics.PartitionCPUsAlloc.WithLabelValues(p.Name).Set(float64(p.AllocatedCPUs))
		s.metrics.PartitionGPUsTotal.WithLabelValues(p.Name).Set(float64(p.TotalGPUs))
		s.metrics.PartitionGPUsAlloc.WithLabelValues(p.Name).Set(float64(p.AllocatedGPUs))
		s.metrics.PartitionJobsRunning.WithLabelValues(p.Name).Set(float64(p.JobsRunning))
		s.metrics.PartitionJobsPending.WithLabelValues(p.Name).Set(float64(p.JobsPending))

		state := 0.0
		if p.State == types.PartitionUp {
			state = 1.0
		}
		s.metrics.PartitionState.WithLabelValues(p.Name).Set(state)
	}
}

func (s *Scheduler) publishTenantMetrics() {
	userRunning := make(map[string]int)
	userPending := make(map[string]int)
	accountRunning := make(map[string]int)
	accountPending := make(map[string]int)

	for _, j := range s.store.JobsByState(types.JobRunning) {
		userRunning[j.User]++
		if j.Account != "" {
			accountRunning[j.Account]++
		}
	}
	for _, j := range s.store.JobsByState(types.JobPending) {
		userPending[j.User]++
		if j.Account != "" {
			accountPending[j.Account]++
		}
	}

	for _, u := range s.store.Users() {
		s.metrics.UserJobsRunning.WithLabelValues(u).Set(float64(userRunning[u]))
		s.metrics.UserJobsPending.WithLabelValues(u).Set(float64(userPending[u]))
	}
	for _, a := range s.store.Accounts() {
		s.metrics.AccountJobsRunning.WithLabelValues(a).Set(float64(accountRunning[a]))
		s.metrics.AccountJobsPending.WithLabelValues(a).Set(float64(accountPending[a]))
	}
}
