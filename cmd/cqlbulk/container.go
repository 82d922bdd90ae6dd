// This file assembles a Workflow from a decoded Config the way the
// teacher's cmd/etl wiring assembles a Repository and parser chain from its
// own config.Pipeline: an explicit struct of constructor calls, no
// dependency-injection framework.
package main

import (
	"context"
	"fmt"
	"time"

	"cqlbulk/internal/codec"
	"cqlbulk/internal/config"
	"cqlbulk/internal/connector"
	"cqlbulk/internal/connector/csvconn"
	"cqlbulk/internal/connector/jsonlconn"
	"cqlbulk/internal/connector/urlconn"
	driverpkg "cqlbulk/internal/driver"
	"cqlbulk/internal/driverapi"
	"cqlbulk/internal/driverapi/pgxadapter"
	"cqlbulk/internal/driverapi/sqladapter"
	"cqlbulk/internal/executor"
	"cqlbulk/internal/logmgr"
	"cqlbulk/internal/mapper"
	"cqlbulk/internal/schema"
	"cqlbulk/internal/workflow"
)

// container holds every live resource a run acquires, so main can release
// them in one place regardless of how far setup got.
type container struct {
	driverCloser func()
	workflow     *workflow.Workflow
}

// newConnector maps connector.kind onto a concrete reference fixture.
// Concrete connector plugins beyond these three are out of scope (spec §1);
// a production deployment would register its own kind here.
func newConnector(kind string) (connector.Connector, error) {
	switch kind {
	case "csv":
		return csvconn.New(), nil
	case "jsonl":
		return jsonlconn.New(), nil
	case "url":
		return urlconn.New(), nil
	default:
		return nil, fmt.Errorf("cqlbulk: unsupported connector.kind %q", kind)
	}
}

// newDriver maps driver.kind/driver.dsn onto a concrete driverapi.Driver,
// validating the DSN with internal/driver first. It returns the driver, a
// close function, and any error.
func newDriver(ctx context.Context, opts config.Options) (driverapi.Driver, func(), error) {
	kindStr := opts.String("kind", "")
	dsn := opts.String("dsn", "")
	if kindStr == "" {
		return nil, nil, fmt.Errorf("cqlbulk: driver.kind is required")
	}
	if dsn == "" {
		return nil, nil, fmt.Errorf("cqlbulk: driver.dsn is required")
	}

	kind := driverpkg.Kind(kindStr)
	if _, err := driverpkg.Normalize(kind, dsn); err != nil {
		return nil, nil, err
	}

	switch kind {
	case driverpkg.KindPostgres:
		d, err := pgxadapter.New(ctx, dsn)
		if err != nil {
			return nil, nil, err
		}
		return d, d.Close, nil
	case driverpkg.KindMySQL, driverpkg.KindMSSQL, driverpkg.KindSQLite:
		d, err := sqladapter.Open(kind.DriverName(), dsn)
		if err != nil {
			return nil, nil, err
		}
		return d, func() { _ = d.Close() }, nil
	default:
		return nil, nil, fmt.Errorf("cqlbulk: unsupported driver.kind %q", kindStr)
	}
}

// buildMapper parses cfg.Schema.Mapping against tmpl and wires it to a
// freshly built codec registry, the order spec §4.1/§4.2 assumes: the
// registry is immutable once built and shared read-only from then on.
func buildMapper(cfg config.Config, tmpl *mapper.Template) (*mapper.Mapper, error) {
	decl, err := mapper.ParseMapping(cfg.Schema.Mapping, cfg.Schema.Indexed)
	if err != nil {
		return nil, fmt.Errorf("cqlbulk: parsing schema.mapping: %w", err)
	}

	convCtx, err := cfg.Codec.Build()
	if err != nil {
		return nil, err
	}
	external, err := cfg.Codec.ExternalType()
	if err != nil {
		return nil, err
	}
	registry := codec.BuildRegistry(convCtx)

	m, err := mapper.New(tmpl, decl, registry, convCtx, external)
	if err != nil {
		return nil, fmt.Errorf("cqlbulk: building mapper: %w", err)
	}
	return m, nil
}

// build assembles a Workflow for op from cfg. executionDir is the already
// resolved {logRoot}/{executionId}/ directory (spec §6).
func build(ctx context.Context, cfg config.Config, op workflow.Operation, executionDir string) (*container, error) {
	conn, err := newConnector(cfg.Connector.Kind)
	if err != nil {
		return nil, err
	}

	drv, driverCloser, err := newDriver(ctx, cfg.Driver)
	if err != nil {
		return nil, err
	}

	batchCfg, err := cfg.Batch.Build()
	if err != nil {
		driverCloser()
		return nil, err
	}
	executorCfg, err := cfg.Executor.Build(cfg.Engine.DryRun)
	if err != nil {
		driverCloser()
		return nil, err
	}

	logMgr, err := logmgr.New(cfg.Log.Build(executionDir))
	if err != nil {
		driverCloser()
		return nil, err
	}

	engine := &schema.Synthesizer{Consistency: cfg.Schema.Consistency}
	table, err := cfg.Schema.TableDef()
	if err != nil {
		driverCloser()
		logMgr.Close()
		return nil, err
	}

	wfCfg := workflow.Config{
		Operation:         op,
		Connector:         conn,
		ConnectorSettings: cfg.Connector.Settings,
		BatchConfig:       batchCfg,
		Executor:          executor.New(drv, executorCfg),
		LogManager:        logMgr,
		SchemaEngine:      engine,
		Table:             table,
		CancellationGrace: time.Duration(cfg.Engine.CancellationGraceSeconds) * time.Second,
	}

	if op == workflow.OperationLoad || op == workflow.OperationUnload {
		tmpl, err := insertOrSelectTemplate(engine, table, op)
		if err != nil {
			driverCloser()
			logMgr.Close()
			return nil, err
		}
		m, err := buildMapper(cfg, tmpl)
		if err != nil {
			driverCloser()
			logMgr.Close()
			return nil, err
		}
		wfCfg.Mapper = m
	}

	return &container{
		driverCloser: driverCloser,
		workflow:     workflow.New(wfCfg),
	}, nil
}

func insertOrSelectTemplate(engine schema.Engine, table schema.TableDef, op workflow.Operation) (*mapper.Template, error) {
	if op == workflow.OperationLoad {
		return engine.InsertTemplate(table)
	}
	return engine.SelectTemplate(table)
}

func (c *container) close() error {
	err := c.workflow.Close()
	c.driverCloser()
	return err
}
