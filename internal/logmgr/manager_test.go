package logmgr

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"cqlbulk/internal/executor"
	"cqlbulk/internal/mapper"
	"cqlbulk/internal/record"
)

func newManager(t *testing.T, cfg Config) *Manager {
	t.Helper()
	if cfg.Dir == "" {
		cfg.Dir = t.TempDir()
	}
	m, err := New(cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(func() { m.Close() })
	return m
}

func readLines(t *testing.T, dir, name string) []string {
	t.Helper()
	f, err := os.Open(filepath.Join(dir, name))
	if err != nil {
		t.Fatalf("open %s: %v", name, err)
	}
	defer f.Close()
	var lines []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		lines = append(lines, sc.Text())
	}
	return lines
}

func TestSuccessAdvancesCheckpoint(t *testing.T) {
	m := newManager(t, Config{})
	res := record.NewResource("file:///a.csv")
	m.Success(res, 1)
	m.Success(res, 2)
	m.Success(res, 3)
	if got := m.Checkpoint(res); got != 3 {
		t.Fatalf("expected checkpoint 3, got %d", got)
	}
}

func TestCheckpointHoldsOutOfOrderCompletions(t *testing.T) {
	m := newManager(t, Config{})
	res := record.NewResource("file:///a.csv")
	m.Success(res, 1)
	m.Success(res, 3)
	if got := m.Checkpoint(res); got != 1 {
		t.Fatalf("expected checkpoint to stay at 1 until 2 completes, got %d", got)
	}
	m.Success(res, 2)
	if got := m.Checkpoint(res); got != 3 {
		t.Fatalf("expected checkpoint to catch up to 3, got %d", got)
	}
}

func TestCheckpointEvictsOldestHoleWhenWindowExceeded(t *testing.T) {
	m := newManager(t, Config{MaxHeldPositions: 2})
	res := record.NewResource("file:///a.csv")
	m.Success(res, 1)
	m.Success(res, 3)
	m.Success(res, 4)
	m.Success(res, 5)
	got := m.Checkpoint(res)
	if got < 3 {
		t.Fatalf("expected eviction to force checkpoint forward, got %d", got)
	}
}

func TestFailWritesBadRecordFileAndAdvancesCheckpoint(t *testing.T) {
	dir := t.TempDir()
	m := newManager(t, Config{Dir: dir})
	res := record.NewResource("file:///a.csv")

	m.Fail(CategoryMapping, res, 1, "raw,line", errors.New("no codec for INT32"))

	if got := m.Checkpoint(res); got != 1 {
		t.Fatalf("expected checkpoint 1 after terminal failure, got %d", got)
	}
	if got := m.ErrorCount(); got != 1 {
		t.Fatalf("expected error count 1, got %d", got)
	}

	lines := readLines(t, dir, "mapping-errors.log")
	joined := strings.Join(lines, "\n")
	if !strings.Contains(joined, "Resource: file:///a.csv") {
		t.Fatalf("missing Resource header: %s", joined)
	}
	if !strings.Contains(joined, "Position: 1") {
		t.Fatalf("missing Position header: %s", joined)
	}
	if !strings.Contains(joined, "no codec for INT32") {
		t.Fatalf("missing sanitized cause: %s", joined)
	}
}

func TestMappingAndConnectorErrorHelpersUseRecordFields(t *testing.T) {
	dir := t.TempDir()
	m := newManager(t, Config{Dir: dir})
	res := record.NewResource("file:///b.csv")

	rec, err := record.NewError("bad,row", res, 7, errors.New("malformed"))
	if err != nil {
		t.Fatal(err)
	}
	m.MappingError(rec)

	lines := readLines(t, dir, "mapping-errors.log")
	if !strings.Contains(strings.Join(lines, "\n"), "Position: 7") {
		t.Fatalf("expected position 7 recorded: %v", lines)
	}

	rec2, err := record.NewError("bad,row2", res, 8, errors.New("connector blew up"))
	if err != nil {
		t.Fatal(err)
	}
	m.ConnectorError(rec2)
	lines = readLines(t, dir, "connector-errors.log")
	if !strings.Contains(strings.Join(lines, "\n"), "Position: 8") {
		t.Fatalf("expected position 8 recorded: %v", lines)
	}
}

func TestLoadErrorAttributesViaOriginalRecord(t *testing.T) {
	dir := t.TempDir()
	m := newManager(t, Config{Dir: dir})

	stmt := &mapper.Statement{Template: &mapper.Template{CQL: "INSERT INTO t"}}
	wr := &executor.WriteResult{Statement: stmt, Err: errors.New("write timeout")}
	m.LoadError(wr)

	lines := readLines(t, dir, "load-errors.log")
	joined := strings.Join(lines, "\n")
	if !strings.Contains(joined, "Resource: unknown") {
		t.Fatalf("expected fallback attribution for statement with no original record: %s", joined)
	}
	if !strings.Contains(joined, "write timeout") {
		t.Fatalf("expected cause in log: %s", joined)
	}
}

func TestErrorCeilingAbsoluteTriggersAbortOnce(t *testing.T) {
	m := newManager(t, Config{MaxErrors: 2})
	res := record.NewResource("file:///a.csv")

	for i := int64(1); i <= 5; i++ {
		m.Fail(CategoryLoad, res, i, fmt.Sprintf("row-%d", i), errors.New("boom"))
	}

	select {
	case abort := <-m.Aborted():
		if abort.Observed < 3 {
			t.Fatalf("expected abort observed count >= threshold+1, got %d", abort.Observed)
		}
	default:
		t.Fatal("expected TooManyErrorsError to have been emitted")
	}

	select {
	case <-m.Aborted():
		t.Fatal("abort channel should only ever deliver once")
	default:
	}
}

func TestErrorCeilingRatioTriggersAbort(t *testing.T) {
	m := newManager(t, Config{MaxErrorRatio: 0.5})
	res := record.NewResource("file:///a.csv")

	m.Success(res, 1)
	m.Fail(CategoryLoad, res, 2, "row-2", errors.New("boom"))
	m.Fail(CategoryLoad, res, 3, "row-3", errors.New("boom"))

	select {
	case abort := <-m.Aborted():
		if abort.Ratio != 0.5 {
			t.Fatalf("expected ratio 0.5 recorded on abort, got %v", abort.Ratio)
		}
	default:
		t.Fatal("expected ratio ceiling breach to abort")
	}
}

func TestSanitizerFullVsDisplay(t *testing.T) {
	inner := errors.New("internal/reactor: frame detail")
	outer := fmt.Errorf("mapping failed: %w", inner)

	s := NewSanitizer([]string{"internal/reactor:"}, 1)
	full := s.Full(outer)
	if !strings.Contains(full, "internal/reactor: frame detail") {
		t.Fatalf("Full should retain every frame, got %q", full)
	}
	display := s.Display(outer)
	if strings.Contains(display, "internal/reactor:") {
		t.Fatalf("Display should filter the configured prefix, got %q", display)
	}
	if !strings.Contains(display, "mapping failed") {
		t.Fatalf("Display should keep the unfiltered frame, got %q", display)
	}
}

func TestSanitizerDepthTruncates(t *testing.T) {
	err3 := errors.New("root cause")
	err2 := fmt.Errorf("layer2: %w", err3)
	err1 := fmt.Errorf("layer1: %w", err2)

	s := NewSanitizer(nil, 1)
	display := s.Display(err1)
	if strings.Contains(display, "root cause") {
		t.Fatalf("depth 1 should truncate before the root cause, got %q", display)
	}
}
