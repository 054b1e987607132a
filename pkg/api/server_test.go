package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/cuemby/pulse-scheduler/pkg/scheduler"
	"github.com/cuemby/pulse-scheduler/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	sched := scheduler.New("test")
	sched.Start()
	t.Cleanup(sched.Stop)
	return NewServer(sched)
}

func TestSubmitJobReturnsCreated(t *testing.T) {
	s := newTestServer(t)
	body, _ := json.Marshal(types.JobSubmission{
		Name:      "demo",
		Partition: "debug",
		Priority:  types.PriorityNormal,
		Resources: types.ResourceRequirements{CPUs: 1, MemoryGB: 2, TimeLimitMinutes: 5},
		User:      "alice",
	})

	req := httptest.NewRequest(http.MethodPost, "/jobs", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)

	var job types.Job
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&job))
	assert.Equal(t, "demo", job.Name)
	assert.Equal(t, types.JobPending, job.State)
}

func TestSubmitJobValidationErrorReturnsBadRequest(t *testing.T) {
	s := newTestServer(t)
	body, _ := json.Marshal(types.JobSubmission{
		Name:      "too-big",
		Partition: "debug",
		Resources: types.ResourceRequirements{CPUs: 999},
	})

	req := httptest.NewRequest(http.MethodPost, "/jobs", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSubmitJobBeforeStartReturnsServiceUnavailable(t *testing.T) {
	sched := scheduler.New("test")
	s := NewServer(sched)

	body, _ := json.Marshal(types.JobSubmission{
		Name:      "too-early",
		Partition: "debug",
		Resources: types.ResourceRequirements{CPUs: 1, MemoryGB: 1, TimeLimitMinutes: 5},
		User:      "alice",
	})
	req := httptest.NewRequest(http.MethodPost, "/jobs", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestGetUnknownJobReturnsNotFound(t *testing.T) {
	s := newTestServer(t)
	req := httptest.NewRequest(http.MethodGet, "/jobs/does-not-exist", nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestListPartitionsReturnsFour(t *testing.T) {
	s := newTestServer(t)
	req := httptest.NewRequest(http.MethodGet, "/partitions", nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp partitionListResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Len(t, resp.Partitions, 4)
	assert.Equal(t, 4, resp.Total)
}

func TestListJobsReturnsCountsAlongsidePage(t *testing.T) {
	s := newTestServer(t)
	body, _ := json.Marshal(types.JobSubmission{
		Name:      "counted",
		Partition: "debug",
		Resources: types.ResourceRequirements{CPUs: 1, MemoryGB: 1, TimeLimitMinutes: 5},
		User:      "alice",
	})
	req := httptest.NewRequest(http.MethodPost, "/jobs", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code)

	listReq := httptest.NewRequest(http.MethodGet, "/jobs", nil)
	listRec := httptest.NewRecorder()
	s.Handler().ServeHTTP(listRec, listReq)

	require.Equal(t, http.StatusOK, listRec.Code)
	var resp jobListResponse
	require.NoError(t, json.NewDecoder(listRec.Body).Decode(&resp))
	assert.Len(t, resp.Jobs, 1)
	assert.Equal(t, 1, resp.Total)
	assert.Equal(t, 1, resp.Pending)
	assert.Equal(t, 0, resp.Running)
}

func TestHealthEndpointReturnsOK(t *testing.T) {
	s := newTestServer(t)
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var resp healthResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.True(t, resp.SchedulerRunning)
}

func TestMetricsEndpointExposesPrometheusFormat(t *testing.T) {
	s := newTestServer(t)
	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "slurm_scheduler")
}

func TestGenerateDemoJobsCreatesRequestedCount(t *testing.T) {
	s := newTestServer(t)
	req := httptest.NewRequest(http.MethodPost, "/demo/generate-jobs?count=5", nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Message string   `json:"message"`
		JobIDs  []string `json:"job_ids"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Len(t, resp.JobIDs, 5)
}

func TestCancelJobRoundTrip(t *testing.T) {
	s := newTestServer(t)
	body, _ := json.Marshal(types.JobSubmission{
		Name:      "cancel-me",
		Partition: "debug",
		Resources: types.ResourceRequirements{CPUs: 1, MemoryGB: 1, TimeLimitMinutes: 5},
		User:      "alice",
	})
	req := httptest.NewRequest(http.MethodPost, "/jobs", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code)

	var job types.Job
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&job))

	cancelReq := httptest.NewRequest(http.MethodDelete, "/jobs/"+job.ID, nil)
	cancelRec := httptest.NewRecorder()
	s.Handler().ServeHTTP(cancelRec, cancelReq)

	require.Equal(t, http.StatusOK, cancelRec.Code)
	var cancelled types.Job
	require.NoError(t, json.NewDecoder(cancelRec.Body).Decode(&cancelled))
	assert.Equal(t, types.JobCancelled, cancelled.State)
}
