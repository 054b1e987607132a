/*
Package api implements Pulse's HTTP surface: a thin net/http adapter over
pkg/scheduler. It owns no scheduling state itself — every handler decodes
a request, calls one scheduler method, and encodes the result (or maps
the returned error to a status code per §7).

	POST   /jobs              submit a job
	GET    /jobs               list jobs (filterable by state/partition/user)
	GET    /jobs/{id}           fetch one job
	DELETE /jobs/{id}           cancel a job
	GET    /partitions          list partitions
	GET    /partitions/{name}   fetch one partition
	GET    /cluster/summary      cluster-wide counters
	POST   /demo/generate-jobs   submit a batch of random demo jobs
	GET    /health               liveness probe
	GET    /metrics               Prometheus exposition

Every request is wrapped with a logging middleware that stamps a request
id and logs method, path, status, and duration through pkg/log.
*/
package api
