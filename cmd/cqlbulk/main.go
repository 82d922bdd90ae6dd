// cqlbulk is the command-line entry point: it parses argv into a
// config.Tree, decodes and validates it, assembles a Workflow via
// container.go, and drives it to completion. Argument parsing is manual
// rather than built on the standard flag package, the way the teacher's
// cmd/etl keeps its own flag.StringVar calls but extended here to support
// arbitrary dotted keys (flag.FlagSet requires each flag pre-registered by
// name, which the hierarchical "connector.csv.url"-style keys don't fit).
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"cqlbulk/internal/config"
	"cqlbulk/internal/workflow"
)

// listValuedPaths names the dotted paths that take a comma-separated list
// rather than a scalar, so the argv loop can route them to Tree.SetList
// instead of Tree.SetString.
var listValuedPaths = map[string]bool{
	"codec.nullStrings":    true,
	"log.sanitizePrefixes": true,
}

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(argv []string) int {
	if len(argv) == 0 {
		printGlobalHelp(os.Stdout)
		return 0
	}

	switch argv[0] {
	case "-v", "--version":
		fmt.Println(version)
		return 0
	case "-h", "--help", "help":
		if len(argv) > 1 {
			printSectionHelp(os.Stdout, argv[1])
			return 0
		}
		printGlobalHelp(os.Stdout)
		return 0
	}

	opName := argv[0]
	op, err := parseOperation(opName)
	if err != nil {
		fmt.Fprintln(os.Stderr, "cqlbulk:", err)
		printGlobalHelp(os.Stderr)
		return 3
	}

	tree, err := parseFlags(argv[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, "cqlbulk:", err)
		return 3
	}

	cfg, err := tree.Decode()
	if err != nil {
		fmt.Fprintln(os.Stderr, "cqlbulk: decoding configuration:", err)
		return 3
	}

	issues := config.Validate(cfg, op)
	for _, iss := range issues {
		fmt.Fprintf(os.Stderr, "cqlbulk: %s at %s: %s\n", iss.Severity, iss.Path, iss.Message)
	}
	if config.HasErrors(issues) {
		return 3
	}

	return execute(cfg, op)
}

// parseFlags walks argv, loading an optional leading "--config <path>"
// settings document as the base Tree and then layering every subsequent
// "--dotted.key=value" or "--dotted.key value" argument on top of it.
func parseFlags(argv []string) (config.Tree, error) {
	tree := config.NewTree()

	for i := 0; i < len(argv); i++ {
		arg := argv[i]
		if arg == "--config" {
			i++
			if i >= len(argv) {
				return nil, fmt.Errorf("--config requires a path argument")
			}
			b, err := os.ReadFile(argv[i])
			if err != nil {
				return nil, fmt.Errorf("reading --config %s: %w", argv[i], err)
			}
			base, err := config.TreeFromJSON(b)
			if err != nil {
				return nil, err
			}
			for k, v := range base {
				tree[k] = v
			}
			continue
		}

		key, value, err := splitFlag(argv, &i)
		if err != nil {
			return nil, err
		}

		if listValuedPaths[key] {
			if err := tree.SetList(key, value); err != nil {
				return nil, err
			}
			continue
		}
		if err := tree.SetString(key, value); err != nil {
			return nil, err
		}
	}

	return tree, nil
}

// splitFlag parses one "--key=value" or "--key value" argument from argv
// at *i, advancing *i past any consumed second token.
func splitFlag(argv []string, i *int) (key, value string, err error) {
	arg := argv[*i]
	if !strings.HasPrefix(arg, "--") {
		return "", "", fmt.Errorf("unrecognized argument %q (expected --dotted.key=value)", arg)
	}
	arg = strings.TrimPrefix(arg, "--")

	if idx := strings.IndexByte(arg, '='); idx >= 0 {
		return arg[:idx], arg[idx+1:], nil
	}

	*i++
	if *i >= len(argv) {
		return "", "", fmt.Errorf("flag %q requires a value", arg)
	}
	return arg, argv[*i], nil
}

func parseOperation(name string) (config.Operation, error) {
	switch name {
	case "load":
		return config.OperationLoad, nil
	case "unload":
		return config.OperationUnload, nil
	case "count":
		return config.OperationCount, nil
	default:
		return "", fmt.Errorf("unknown subcommand %q (expected load, unload or count)", name)
	}
}

func toWorkflowOperation(op config.Operation) workflow.Operation {
	switch op {
	case config.OperationLoad:
		return workflow.OperationLoad
	case config.OperationUnload:
		return workflow.OperationUnload
	default:
		return workflow.OperationCount
	}
}

// execute resolves the execution directory, assembles the Workflow, drives
// it under cooperative cancellation from notifyShutdown, and reports the
// outcome. It returns the process exit code.
func execute(cfg config.Config, op config.Operation) int {
	wfOp := toWorkflowOperation(op)

	executionDir, err := cfg.Log.ExecutionDir(string(op), timeNow())
	if err != nil {
		fmt.Fprintln(os.Stderr, "cqlbulk: resolving execution directory:", err)
		return 3
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sig, stopNotify := notifyShutdown()
	defer stopNotify()
	go func() {
		select {
		case <-sig:
			log.Println("cqlbulk: shutdown signal received; cancelling run")
			cancel()
		case <-ctx.Done():
		}
	}()

	c, err := build(ctx, cfg, wfOp, executionDir)
	if err != nil {
		fmt.Fprintln(os.Stderr, "cqlbulk: assembling workflow:", err)
		return 3
	}
	defer c.close()

	if err := c.workflow.Init(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "cqlbulk: initializing workflow:", err)
		return 3
	}

	start := timeNow()
	outcome := c.workflow.Execute(ctx)
	elapsed := timeNow().Sub(start)

	reportOutcome(outcome, elapsed, wfOp, c.workflow.Count())
	return outcome.ExitCode()
}

func reportOutcome(outcome workflow.Outcome, elapsed time.Duration, op workflow.Operation, count int64) {
	fmt.Fprintf(os.Stdout, "cqlbulk: %s in %s\n", outcome.State, elapsed.Truncate(time.Millisecond))
	if outcome.Err != nil {
		fmt.Fprintf(os.Stdout, "cqlbulk: %s\n", outcome.Err)
	}
	if op == workflow.OperationCount && (outcome.State == workflow.StateCompletedOk || outcome.State == workflow.StateCompletedWithErrors) {
		fmt.Fprintf(os.Stdout, "cqlbulk: %s rows\n", humanize.Comma(count))
	}
}

func timeNow() time.Time { return time.Now() }
