package config

import (
	"testing"

	"cqlbulk/internal/batch"
	"cqlbulk/internal/executor"
)

func TestBatchConfig_Build(t *testing.T) {
	t.Run("defaults_to_partition_key", func(t *testing.T) {
		got, err := BatchConfig{}.Build()
		if err != nil {
			t.Fatalf("Build: %v", err)
		}
		if got.Mode != batch.PartitionKey {
			t.Fatalf("Mode = %v, want PartitionKey", got.Mode)
		}
	})

	t.Run("replica_set", func(t *testing.T) {
		got, err := BatchConfig{Mode: "REPLICA_SET", MaxBatchStatements: 5, MaxSizeInBytes: 1024}.Build()
		if err != nil {
			t.Fatalf("Build: %v", err)
		}
		if got.Mode != batch.ReplicaSet || got.MaxBatchStatements != 5 || got.MaxSizeInBytes != 1024 {
			t.Fatalf("Build() = %#v", got)
		}
	})

	t.Run("unknown_mode_errors", func(t *testing.T) {
		if _, err := (BatchConfig{Mode: "WEIRD"}).Build(); err == nil {
			t.Fatalf("expected error for unknown mode")
		}
	})
}

func TestExecutorConfig_Build(t *testing.T) {
	t.Run("defaults_to_fail_safe", func(t *testing.T) {
		got, err := ExecutorConfig{}.Build(false)
		if err != nil {
			t.Fatalf("Build: %v", err)
		}
		if got.Mode != executor.FailSafe {
			t.Fatalf("Mode = %v, want FailSafe", got.Mode)
		}
		if got.DryRun {
			t.Fatalf("DryRun = true, want false")
		}
	})

	t.Run("fail_fast", func(t *testing.T) {
		got, err := ExecutorConfig{Mode: "FAIL_FAST", MaxInFlightRequests: 50}.Build(false)
		if err != nil {
			t.Fatalf("Build: %v", err)
		}
		if got.Mode != executor.FailFast || got.MaxInFlightRequests != 50 {
			t.Fatalf("Build() = %#v", got)
		}
	})

	t.Run("unknown_mode_errors", func(t *testing.T) {
		if _, err := (ExecutorConfig{Mode: "WEIRD"}).Build(false); err == nil {
			t.Fatalf("expected error for unknown mode")
		}
	})

	t.Run("threads_dry_run_through", func(t *testing.T) {
		got, err := ExecutorConfig{}.Build(true)
		if err != nil {
			t.Fatalf("Build: %v", err)
		}
		if !got.DryRun {
			t.Fatalf("DryRun = false, want true")
		}
	})
}

func TestLogConfig_Build(t *testing.T) {
	cfg := LogConfig{MaxErrors: 10, MaxErrorRatio: 0.2, MaxHeldPositions: 64}
	got := cfg.Build("/var/log/cqlbulk/run-1")
	if got.Dir != "/var/log/cqlbulk/run-1" || got.MaxErrors != 10 || got.MaxErrorRatio != 0.2 || got.MaxHeldPositions != 64 {
		t.Fatalf("Build() = %#v", got)
	}
}
