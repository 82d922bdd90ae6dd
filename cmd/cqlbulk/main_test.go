package main

import (
	"testing"

	"cqlbulk/internal/config"
	"cqlbulk/internal/workflow"
)

func TestParseOperation(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name    string
		want    config.Operation
		wantErr bool
	}{
		{"load", config.OperationLoad, false},
		{"unload", config.OperationUnload, false},
		{"count", config.OperationCount, false},
		{"bogus", "", true},
	}
	for _, c := range cases {
		got, err := parseOperation(c.name)
		if c.wantErr {
			if err == nil {
				t.Errorf("parseOperation(%q): expected error, got nil", c.name)
			}
			continue
		}
		if err != nil {
			t.Errorf("parseOperation(%q): unexpected error: %v", c.name, err)
		}
		if got != c.want {
			t.Errorf("parseOperation(%q) = %q, want %q", c.name, got, c.want)
		}
	}
}

func TestToWorkflowOperation(t *testing.T) {
	t.Parallel()

	if got := toWorkflowOperation(config.OperationLoad); got != workflow.OperationLoad {
		t.Errorf("load: got %v", got)
	}
	if got := toWorkflowOperation(config.OperationUnload); got != workflow.OperationUnload {
		t.Errorf("unload: got %v", got)
	}
	if got := toWorkflowOperation(config.OperationCount); got != workflow.OperationCount {
		t.Errorf("count: got %v", got)
	}
}

func TestSplitFlag_EqualsForm(t *testing.T) {
	t.Parallel()

	argv := []string{"--connector.kind=csv"}
	i := 0
	key, value, err := splitFlag(argv, &i)
	if err != nil {
		t.Fatalf("splitFlag: %v", err)
	}
	if key != "connector.kind" || value != "csv" {
		t.Fatalf("got key=%q value=%q", key, value)
	}
	if i != 0 {
		t.Fatalf("index should not advance for = form, got %d", i)
	}
}

func TestSplitFlag_SpaceForm(t *testing.T) {
	t.Parallel()

	argv := []string{"--connector.kind", "csv"}
	i := 0
	key, value, err := splitFlag(argv, &i)
	if err != nil {
		t.Fatalf("splitFlag: %v", err)
	}
	if key != "connector.kind" || value != "csv" {
		t.Fatalf("got key=%q value=%q", key, value)
	}
	if i != 1 {
		t.Fatalf("index should advance to consumed value, got %d", i)
	}
}

func TestSplitFlag_MissingValue(t *testing.T) {
	t.Parallel()

	argv := []string{"--connector.kind"}
	i := 0
	if _, _, err := splitFlag(argv, &i); err == nil {
		t.Fatal("expected error for missing value")
	}
}

func TestSplitFlag_RejectsNonFlagArgument(t *testing.T) {
	t.Parallel()

	argv := []string{"connector.kind=csv"}
	i := 0
	if _, _, err := splitFlag(argv, &i); err == nil {
		t.Fatal("expected error for argument missing -- prefix")
	}
}

func TestParseFlags_BuildsTreeAndDecodes(t *testing.T) {
	t.Parallel()

	tree, err := parseFlags([]string{
		"--connector.kind=csv",
		"--connector.settings.url=file:///in.csv",
		"--schema.table=widgets",
		"--schema.columns=id:text:key,name:text",
		"--schema.mapping=id,name",
		"--codec.nullStrings=NULL, ",
		"--batch.mode=PARTITION_KEY",
	})
	if err != nil {
		t.Fatalf("parseFlags: %v", err)
	}

	cfg, err := tree.Decode()
	if err != nil {
		t.Fatalf("tree.Decode: %v", err)
	}
	if cfg.Connector.Kind != "csv" {
		t.Errorf("connector.kind = %q", cfg.Connector.Kind)
	}
	if cfg.Connector.Settings["url"] != "file:///in.csv" {
		t.Errorf("connector.settings.url = %q", cfg.Connector.Settings["url"])
	}
	if cfg.Schema.Table != "widgets" {
		t.Errorf("schema.table = %q", cfg.Schema.Table)
	}
	if got := cfg.Codec.NullStrings; len(got) != 1 || got[0] != "NULL" {
		t.Errorf("codec.nullStrings = %#v, want [NULL]", got)
	}
	if cfg.Batch.Mode != "PARTITION_KEY" {
		t.Errorf("batch.mode = %q", cfg.Batch.Mode)
	}
}

func TestParseFlags_RejectsUnrecognizedSection(t *testing.T) {
	t.Parallel()

	if _, err := parseFlags([]string{"--bogus.kind=csv"}); err == nil {
		t.Fatal("expected error for unrecognized top-level section")
	}
}

func TestParseFlags_MissingConfigPath(t *testing.T) {
	t.Parallel()

	if _, err := parseFlags([]string{"--config"}); err == nil {
		t.Fatal("expected error for --config missing its path argument")
	}
}
