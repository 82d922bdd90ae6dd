package main

import (
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"
)

const version = "cqlbulk 0.1.0"

var sectionHelp = map[string]string{
	"connector": "connector.kind          connector plugin name (csv, jsonl, url)\n" +
		"connector.settings.*    plugin-specific settings (e.g. connector.settings.url)",
	"driver": "driver.kind             pgx, mysql, sqlserver or sqlite\n" +
		"driver.dsn              connection string for the chosen kind",
	"schema": "schema.keyspace         optional keyspace/schema qualifier\n" +
		"schema.table            target table name\n" +
		"schema.columns          comma-separated name:internalType[:key] declarations\n" +
		"schema.mapping          field<->variable mapping (see internal/mapper.ParseMapping)\n" +
		"schema.indexed          true if schema.mapping addresses fields by position\n" +
		"schema.consistency      consistency level string passed through to statements",
	"batch": "batch.mode                  PARTITION_KEY or REPLICA_SET\n" +
		"batch.maxBatchStatements    statement ceiling per batch\n" +
		"batch.maxSizeInBytes        byte ceiling per batch",
	"executor": "executor.mode                    FAIL_SAFE or FAIL_FAST\n" +
		"executor.maxInFlightRequests     concurrent request ceiling\n" +
		"executor.maxInFlightQueries      concurrent query ceiling (<=0 disables)\n" +
		"executor.maxRequestsPerSecond    rate limit (<=0 disables)",
	"codec": "codec.locale, codec.timeZone, codec.nullStrings, codec.numberPattern,\n" +
		"codec.formatNumbers, codec.overflow, codec.rounding, codec.timestampFormat,\n" +
		"codec.cqlTimestamp, codec.dateFormat, codec.timeFormat, codec.timeUnit,\n" +
		"codec.uuidGenerator, codec.allowExtraFields, codec.allowMissingFields,\n" +
		"codec.external          (see internal/codec.ConversionContext options)",
	"log": "log.dir                     execution log directory root\n" +
		"log.maxErrors               absolute error ceiling (0 disables; negative is rejected)\n" +
		"log.maxErrorRatio           ratio error ceiling (0 disables; negative is rejected)\n" +
		"log.maxHeldPositions        bounded held-position window (<=0 unbounded)\n" +
		"log.sanitizePrefixes        comma-separated frame prefixes to filter from traces\n" +
		"log.sanitizeDepth           max trace depth retained after filtering\n" +
		"log.executionIdTemplate     {operation}/{timestamp}/{hostname} substitutions",
	"monitoring": "monitoring.* free-form options for a pluggable monitoring backend; none wired by default.",
	"engine": "engine.cancellationGraceSeconds   grace period before a cancelled run is reported crashed\n" +
		"engine.dryRun                     true disables every write dispatch to the driver (load only)",
	"stats":      "stats.* free-form options for a pluggable stats sink; none wired by default.",
}

var sectionOrder = []string{"connector", "driver", "schema", "batch", "executor", "codec", "log", "monitoring", "engine", "stats"}

// printGlobalHelp writes the top-level usage summary. It widens its
// separators slightly when stdout is a terminal, the one direct use of
// go-isatty in this codebase: a dsbulk-style CLI affordance for nicer
// interactive help without pulling in a full terminal-formatting library.
func printGlobalHelp(w io.Writer) {
	sep := "--------"
	if isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd()) {
		sep = "------------------------------------------------------------"
	}
	fmt.Fprintf(w, "cqlbulk - bulk load/unload/count against a bound table\n%s\n", sep)
	fmt.Fprintln(w, "usage: cqlbulk <load|unload|count> [options]")
	fmt.Fprintln(w, "       cqlbulk --help [section]")
	fmt.Fprintln(w, "       cqlbulk -v")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "options are hierarchical dotted keys, e.g. --connector.settings.url=file:///in.csv")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "sections:")
	for _, s := range sectionOrder {
		fmt.Fprintf(w, "  %s\n", s)
	}
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "exit codes: 0 ok, 1 completed with errors, 2 aborted (error ceiling),")
	fmt.Fprintln(w, "            3 aborted (fatal), 4 interrupted, 5 crashed")
}

// printSectionHelp writes detail for one recognized section, or an error to
// stderr if section is not recognized.
func printSectionHelp(w io.Writer, section string) {
	body, ok := sectionHelp[section]
	if !ok {
		fmt.Fprintf(os.Stderr, "cqlbulk: unknown help section %q\n", section)
		return
	}
	fmt.Fprintf(w, "%s:\n%s\n", section, body)
}
