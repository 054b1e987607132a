/*
Package metrics defines the Prometheus collectors the scheduler publishes.

Each Registry owns a private prometheus.Registry rather than registering
into prometheus.DefaultRegisterer at package init. This lets callers build
more than one scheduler in the same process — useful in tests — without
duplicate-registration panics.

Metric names follow the slurm_* naming scheme required for dashboard
compatibility (see Registry for the full list); an additional http_*
family covers the HTTP adapter itself and is additive, not part of that
contract.
*/
package metrics
