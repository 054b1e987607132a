/*
Package scheduler implements Pulse's batch workload engine: a priority-FIFO
job scheduler over a fixed set of named compute partitions.

# Architecture

A Scheduler owns a job store, a partition table, an injected random
source, and a private Prometheus registry. One background goroutine runs
the scheduling cycle; every other entry point — SubmitJob, CancelJob, the
query methods — takes the same mutex before touching state.

	┌──────────────────────────────────────────────┐
	│              Scheduling Cycle                │
	│              (target: 1/second)               │
	└───────────────┬────────────────────────────────┘
	                │
	                ▼
	1. Advance running jobs   (timeout / stochastic completion)
	2. Admit pending jobs     (priority-FIFO, head-of-line bypass)
	3. Republish metrics

# Admission

Pending jobs are sorted by descending priority weight, then ascending
submit time. The walk does not stop at the first job that doesn't fit —
a smaller, lower-priority job later in the queue may still be admitted
this cycle. This is deliberate: it trades strict FIFO fairness for
utilization, and accepts a (documented) starvation risk for large jobs.

# Stochastic completion

A RUNNING job is never "executed" — its lifecycle is simulated. Once a
job has run long enough (over 10s and past 30% of its time limit), each
cycle rolls a 5% chance of completion; of those, 95% succeed and 5% fail
with exit code 1. All of this draws from Scheduler.rng, injected at
construction, so tests can force or suppress completion deterministically
(see WithRand).

# Node assignment

Admission assigns node_id deterministically from a stable hash of the job
id (FNV-1a), not from a random draw — the same job id always maps to the
same node across restarts, which matters for dashboards built against
historical node_id values.

# See Also

  - pkg/store — the in-memory tables the scheduler mutates under its lock
  - pkg/metrics — the Registry this package publishes into every cycle
  - pkg/api — the thin HTTP adapter that drives this package's public methods
*/
package scheduler
