package config

import (
	"fmt"

	"cqlbulk/internal/batch"
	"cqlbulk/internal/executor"
	"cqlbulk/internal/logmgr"
)

// Build translates BatchConfig into batch.Config.
func (b BatchConfig) Build() (batch.Config, error) {
	mode, err := parseBatchMode(b.Mode)
	if err != nil {
		return batch.Config{}, err
	}
	return batch.Config{
		Mode:               mode,
		MaxBatchStatements: b.MaxBatchStatements,
		MaxSizeInBytes:     b.MaxSizeInBytes,
	}, nil
}

func parseBatchMode(s string) (batch.Mode, error) {
	switch s {
	case "", "PARTITION_KEY":
		return batch.PartitionKey, nil
	case "REPLICA_SET":
		return batch.ReplicaSet, nil
	default:
		return 0, fmt.Errorf("config: unknown batch.mode %q", s)
	}
}

// Build translates ExecutorConfig into executor.Config. dryRun carries
// EngineConfig.DryRun through: the executor is the component that actually
// gates driver dispatch, but the knob is scoped at engine level since it
// applies across whichever operation is running, not to the executor alone.
func (e ExecutorConfig) Build(dryRun bool) (executor.Config, error) {
	mode, err := parseExecutorMode(e.Mode)
	if err != nil {
		return executor.Config{}, err
	}
	return executor.Config{
		MaxInFlightRequests:  e.MaxInFlightRequests,
		MaxInFlightQueries:   e.MaxInFlightQueries,
		MaxRequestsPerSecond: e.MaxRequestsPerSecond,
		Mode:                 mode,
		DryRun:               dryRun,
	}, nil
}

func parseExecutorMode(s string) (executor.Mode, error) {
	switch s {
	case "", "FAIL_SAFE":
		return executor.FailSafe, nil
	case "FAIL_FAST":
		return executor.FailFast, nil
	default:
		return 0, fmt.Errorf("config: unknown executor.mode %q", s)
	}
}

// Build translates LogConfig into logmgr.Config. The execution-directory
// template is resolved separately (execid.go), since it depends on the
// operation name and run time, not on LogConfig alone.
func (l LogConfig) Build(dir string) logmgr.Config {
	return logmgr.Config{
		Dir:              dir,
		MaxErrors:        l.MaxErrors,
		MaxErrorRatio:    l.MaxErrorRatio,
		MaxHeldPositions: l.MaxHeldPositions,
		SanitizePrefixes: l.SanitizePrefixes,
		SanitizeDepth:    l.SanitizeDepth,
	}
}
