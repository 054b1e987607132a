package api

import (
	"fmt"
	"math/rand"
	"net/http"
	"strconv"

	"github.com/cuemby/pulse-scheduler/pkg/types"
)

var (
	demoNames = []string{
		"training-bert", "inference-gpt", "data-preprocess", "model-eval",
		"hyperopt-search", "distributed-train", "checkpoint-save", "metric-compute",
		"batch-predict", "feature-extract", "embedding-gen", "fine-tune",
	}
	demoAccounts   = []string{"ml-team", "research", "production", "experiments"}
	demoUsers      = []string{"alice", "bob", "charlie", "diana", "eve"}
	demoPriorities = []types.Priority{types.PriorityLow, types.PriorityNormal, types.PriorityHigh, types.PriorityUrgent}
)

// demoPartitionRange bounds the random resource vector generated for a
// partition so demo jobs plausibly fit.
type demoPartitionRange struct {
	name           string
	cpusMin        int
	cpusMax        int
	gpusMin        int
	gpusMax        int
	memoryMin      int
	memoryMax      int
}

var demoPartitionRanges = []demoPartitionRange{
	{name: "gpu", cpusMin: 4, cpusMax: 32, gpusMin: 1, gpusMax: 8, memoryMin: 32, memoryMax: 256},
	{name: "cpu", cpusMin: 8, cpusMax: 64, gpusMin: 0, gpusMax: 0, memoryMin: 16, memoryMax: 128},
	{name: "highmem", cpusMin: 4, cpusMax: 32, gpusMin: 0, gpusMax: 0, memoryMin: 256, memoryMax: 1024},
	{name: "debug", cpusMin: 1, cpusMax: 4, gpusMin: 0, gpusMax: 1, memoryMin: 4, memoryMax: 32},
}

type demoGenerateResponse struct {
	Message string   `json:"message"`
	JobIDs  []string `json:"job_ids"`
}

func intBetween(lo, hi int) int {
	if hi <= lo {
		return lo
	}
	return lo + rand.Intn(hi-lo+1)
}

// handleGenerateDemoJobs submits a batch of random jobs across all four
// partitions, for demonstrating scheduler behavior without a real workload.
func (s *Server) handleGenerateDemoJobs(w http.ResponseWriter, r *http.Request) {
	count := 10
	if raw := r.URL.Query().Get("count"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n >= 1 && n <= 100 {
			count = n
		}
	}

	ids := make([]string, 0, count)
	for i := 0; i < count; i++ {
		rng := demoPartitionRanges[rand.Intn(len(demoPartitionRanges))]
		maxTime := 120
		if p, err := s.sched.Partition(rng.name); err == nil && p.MaxTimeMinutes < maxTime {
			maxTime = p.MaxTimeMinutes
		}

		sub := types.JobSubmission{
			Name:      fmt.Sprintf("%s-%d", demoNames[rand.Intn(len(demoNames))], 1000+rand.Intn(9000)),
			Partition: rng.name,
			Priority:  demoPriorities[rand.Intn(len(demoPriorities))],
			Resources: types.ResourceRequirements{
				CPUs:             intBetween(rng.cpusMin, rng.cpusMax),
				GPUs:             intBetween(rng.gpusMin, rng.gpusMax),
				MemoryGB:         float64(intBetween(rng.memoryMin, rng.memoryMax)),
				TimeLimitMinutes: intBetween(5, maxTime),
			},
			Command: fmt.Sprintf("/bin/sleep %d", intBetween(30, 300)),
			Account: demoAccounts[rand.Intn(len(demoAccounts))],
			User:    demoUsers[rand.Intn(len(demoUsers))],
		}

		job, err := s.sched.SubmitJob(sub)
		if err != nil {
			s.logger.Warn().Err(err).Msg("demo job creation failed")
			continue
		}
		ids = append(ids, job.ID)
	}

	writeJSON(w, http.StatusOK, demoGenerateResponse{
		Message: fmt.Sprintf("Created %d demo jobs", len(ids)),
		JobIDs:  ids,
	})
}
