package executor

import (
	"context"
	"errors"
	"testing"
	"time"

	"cqlbulk/internal/batch"
	"cqlbulk/internal/driverapi"
	"cqlbulk/internal/driverapi/fakedriver"
	"cqlbulk/internal/mapper"
)

func testStatement(cql string) *mapper.Statement {
	return &mapper.Statement{
		Template: &mapper.Template{CQL: cql},
		Values:   map[string]any{"a": 1},
	}
}

func TestWriteReactiveSuccess(t *testing.T) {
	drv := fakedriver.New()
	e := New(drv, Config{})
	res := <-e.WriteReactive(context.Background(), testStatement("INSERT ok"))
	if !res.IsSuccess() {
		t.Fatalf("expected success, got %v", res.Err)
	}
}

func TestWriteReactiveWrapsDriverFailure(t *testing.T) {
	drv := fakedriver.New()
	drv.PrimeFailure(fakedriver.Failure{CQL: "INSERT bad", Err: errors.New("boom")})
	e := New(drv, Config{})
	res := <-e.WriteReactive(context.Background(), testStatement("INSERT bad"))
	if res.IsSuccess() {
		t.Fatal("expected failure")
	}
	var bee *BulkExecutionError
	if !errors.As(res.Err, &bee) {
		t.Fatalf("expected *BulkExecutionError, got %T", res.Err)
	}
	if bee.Statement.Template.CQL != "INSERT bad" {
		t.Fatal("BulkExecutionError should carry the failed statement")
	}
}

func TestWriteReactiveDryRunNeverDispatches(t *testing.T) {
	drv := fakedriver.New()
	e := New(drv, Config{DryRun: true})
	res := <-e.WriteReactive(context.Background(), testStatement("INSERT ok"))
	if !res.IsSuccess() {
		t.Fatalf("expected dry-run write to report success, got %v", res.Err)
	}
	if len(drv.Executed()) != 0 {
		t.Fatalf("expected zero dispatched statements in dry-run, got %d", len(drv.Executed()))
	}
}

func TestWriteBatchDryRunNeverDispatches(t *testing.T) {
	drv := fakedriver.New()
	e := New(drv, Config{DryRun: true})
	b := &batch.Batch{Statements: []*mapper.Statement{testStatement("INSERT a"), testStatement("INSERT b")}}

	var results []*WriteResult
	for res := range e.WriteBatch(context.Background(), b) {
		results = append(results, res)
	}
	if len(results) != 2 {
		t.Fatalf("expected one result per statement, got %d", len(results))
	}
	for _, res := range results {
		if !res.IsSuccess() {
			t.Fatalf("expected dry-run batch result to report success, got %v", res.Err)
		}
	}
	if len(drv.Batches()) != 0 {
		t.Fatalf("expected zero dispatched batches in dry-run, got %d", len(drv.Batches()))
	}
}

func TestWriteReactiveStreamFailSafeDeliversOneResultPerStatement(t *testing.T) {
	drv := fakedriver.New()
	drv.PrimeFailure(fakedriver.Failure{CQL: "INSERT 1", Err: errors.New("boom")})
	e := New(drv, Config{Mode: FailSafe})

	in := make(chan *mapper.Statement, 3)
	in <- testStatement("INSERT 0")
	in <- testStatement("INSERT 1")
	in <- testStatement("INSERT 2")
	close(in)

	out := e.WriteReactiveStream(context.Background(), in)
	var results []*WriteResult
	for r := range out {
		results = append(results, r)
	}
	if len(results) != 3 {
		t.Fatalf("expected 3 results in fail-safe mode, got %d", len(results))
	}
	failures := 0
	for _, r := range results {
		if !r.IsSuccess() {
			failures++
		}
	}
	if failures != 1 {
		t.Fatalf("expected exactly 1 failure, got %d", failures)
	}
}

func TestWriteReactiveStreamFailFastNeverExceedsInputCount(t *testing.T) {
	drv := fakedriver.New()
	drv.PrimeFailure(fakedriver.Failure{CQL: "INSERT 0", Err: errors.New("boom")})
	e := New(drv, Config{Mode: FailFast})

	in := make(chan *mapper.Statement, 3)
	in <- testStatement("INSERT 0")
	in <- testStatement("INSERT 1")
	in <- testStatement("INSERT 2")
	close(in)

	out := e.WriteReactiveStream(context.Background(), in)
	var results []*WriteResult
	deadline := time.After(2 * time.Second)
	for done := false; !done; {
		select {
		case r, ok := <-out:
			if !ok {
				done = true
				break
			}
			results = append(results, r)
		case <-deadline:
			t.Fatal("timed out waiting for fail-fast stream to terminate")
		}
	}
	if len(results) < 1 || len(results) > 3 {
		t.Fatalf("expected between 1 and 3 results, got %d", len(results))
	}
}

func TestReadReactiveStreamsRows(t *testing.T) {
	drv := fakedriver.New()
	drv.PrimeRows("SELECT ok", []driverapi.Row{
		{"a": 1},
		{"a": 2},
		{"a": 3},
	})
	e := New(drv, Config{})

	out := e.ReadReactive(context.Background(), testStatement("SELECT ok"))
	var rows []driverapi.Row
	for r := range out {
		if !r.IsSuccess() {
			t.Fatalf("unexpected read failure: %v", r.Err)
		}
		rows = append(rows, r.Row)
	}
	if len(rows) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(rows))
	}
	if rows[0]["a"] != 1 || rows[2]["a"] != 3 {
		t.Fatalf("unexpected row contents: %v", rows)
	}
}

func TestReadReactiveEmitsErrorResultOnDriverFailure(t *testing.T) {
	drv := fakedriver.New()
	drv.PrimeFailure(fakedriver.Failure{CQL: "SELECT bad", Err: errors.New("no such table")})
	e := New(drv, Config{})

	out := e.ReadReactive(context.Background(), testStatement("SELECT bad"))
	var results []*ReadResult
	for r := range out {
		results = append(results, r)
	}
	if len(results) != 1 || results[0].IsSuccess() {
		t.Fatalf("expected exactly 1 failed result, got %+v", results)
	}
}

func TestRateLimiterDisabledNeverBlocks(t *testing.T) {
	rl := NewRateLimiter(-1)
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	for i := 0; i < 100; i++ {
		if err := rl.Wait(ctx); err != nil {
			t.Fatalf("disabled limiter should never block: %v", err)
		}
	}
}

func TestRateLimiterAllowsBurst(t *testing.T) {
	rl := NewRateLimiter(1000)
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	for i := 0; i < 10; i++ {
		if err := rl.Wait(ctx); err != nil {
			t.Fatalf("burst call %d should not block: %v", i, err)
		}
	}
}

func TestSemaphoreBoundsConcurrency(t *testing.T) {
	sem := NewSemaphore(1)
	ctx := context.Background()
	if err := sem.Acquire(ctx); err != nil {
		t.Fatal(err)
	}

	acquired := make(chan struct{})
	go func() {
		sem.Acquire(context.Background())
		close(acquired)
	}()

	select {
	case <-acquired:
		t.Fatal("second acquire should block while the first slot is held")
	case <-time.After(50 * time.Millisecond):
	}

	sem.Release()
	select {
	case <-acquired:
	case <-time.After(time.Second):
		t.Fatal("second acquire should succeed after release")
	}
}

func TestSemaphoreUnlimitedNeverBlocks(t *testing.T) {
	sem := NewSemaphore(0)
	ctx := context.Background()
	for i := 0; i < 1000; i++ {
		if err := sem.Acquire(ctx); err != nil {
			t.Fatal(err)
		}
	}
}
