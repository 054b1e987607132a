package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/cuemby/pulse-scheduler/pkg/store"
	"github.com/cuemby/pulse-scheduler/pkg/types"
)

func (s *Server) handleSubmitJob(w http.ResponseWriter, r *http.Request) {
	var sub types.JobSubmission
	if err := json.NewDecoder(r.Body).Decode(&sub); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "InvalidBody", Detail: err.Error()})
		return
	}

	job, err := s.sched.SubmitJob(sub)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, job)
}

func (s *Server) handleListJobs(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := store.JobFilter{
		State:     types.JobState(q.Get("state")),
		Partition: q.Get("partition"),
		User:      q.Get("user"),
	}
	if limit := q.Get("limit"); limit != "" {
		if n, err := strconv.Atoi(limit); err == nil {
			filter.Limit = n
		}
	}

	jobs := s.sched.ListJobs(filter)
	writeJSON(w, http.StatusOK, newJobListResponse(jobs))
}

// jobListResponse wraps a page of jobs with the counts the original
// job-scheduler API exposes alongside it, per spec.md's /jobs contract.
type jobListResponse struct {
	Jobs    []*types.Job `json:"jobs"`
	Total   int          `json:"total"`
	Pending int          `json:"pending"`
	Running int          `json:"running"`
}

// newJobListResponse derives total/pending/running from the returned page
// itself, not the full store, matching the original's list_jobs handler.
func newJobListResponse(jobs []*types.Job) jobListResponse {
	resp := jobListResponse{Jobs: jobs, Total: len(jobs)}
	for _, j := range jobs {
		switch j.State {
		case types.JobPending:
			resp.Pending++
		case types.JobRunning:
			resp.Running++
		}
	}
	return resp
}

func (s *Server) handleGetJob(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	job, err := s.sched.GetJob(id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, job)
}

func (s *Server) handleCancelJob(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	job, err := s.sched.CancelJob(id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, job)
}

// partitionListResponse matches spec.md's {partitions,total} /partitions
// contract.
type partitionListResponse struct {
	Partitions []*types.Partition `json:"partitions"`
	Total      int                `json:"total"`
}

func (s *Server) handleListPartitions(w http.ResponseWriter, r *http.Request) {
	partitions := s.sched.Partitions()
	writeJSON(w, http.StatusOK, partitionListResponse{Partitions: partitions, Total: len(partitions)})
}

func (s *Server) handleGetPartition(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	p, err := s.sched.Partition(name)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (s *Server) handleClusterSummary(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.sched.ClusterSummary())
}

type healthResponse struct {
	Status           string    `json:"status"`
	SchedulerRunning bool      `json:"scheduler_running"`
	Timestamp        time.Time `json:"timestamp"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{
		Status:           "healthy",
		SchedulerRunning: s.sched.Running(),
		Timestamp:        time.Now().UTC(),
	})
}
