/*
Package log provides structured logging for the scheduler using zerolog:
JSON or console output, a package-level global Logger, and helper
constructors for child loggers scoped to a component, job, node, or
partition.

# Usage

	log.Init(log.Config{Level: log.InfoLevel, JSONOutput: true})

	schedLog := log.WithComponent("scheduler")
	schedLog.Info().Str("job_id", "000042").Msg("job admitted")

	jobLog := log.WithJobID("000042")
	jobLog.Warn().Msg("approaching time limit")

JSONOutput controls the encoding; console output is meant for local
development, JSON for anything shipped to a log aggregator.
*/
package log
