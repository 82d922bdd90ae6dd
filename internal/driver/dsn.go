// Package driver normalizes and validates the connection strings the
// sqladapter/pgxadapter reference drivers accept, one routine shared across
// the three database/sql backends plus pgx, grounded on the teacher's
// per-backend dial logic in internal/storage/{mssql,mysql,sqlite}/repo.go
// and internal/storage/postgres/repo.go (each validates its own DSN shape
// before dialing; this package gives that validation step one home instead
// of three copies).
package driver

import (
	"fmt"
	"strings"

	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/microsoft/go-mssqldb/msdsn"
)

// Kind names one of the four wire protocols the reference drivers speak.
type Kind string

const (
	KindPostgres Kind = "pgx"
	KindMySQL    Kind = "mysql"
	KindMSSQL    Kind = "sqlserver"
	KindSQLite   Kind = "sqlite"
)

// Normalized is the result of validating a connection string against its
// backend's own parser.
type Normalized struct {
	Kind Kind
	DSN  string

	// TLSEnabled reports whether the DSN requests an encrypted connection,
	// per each backend's own convention. SQLite has no transport to
	// encrypt and always reports false.
	TLSEnabled bool
}

// Normalize validates dsn against kind's connection-string parser and
// reports whether it requests TLS. It does not dial; every parser used here
// (pgxpool.ParseConfig, mysql.ParseDSN, msdsn.Parse) is a pure syntax check.
func Normalize(kind Kind, dsn string) (Normalized, error) {
	switch kind {
	case KindPostgres:
		cfg, err := pgxpool.ParseConfig(dsn)
		if err != nil {
			return Normalized{}, fmt.Errorf("driver: parsing postgres dsn: %w", err)
		}
		tls := cfg.ConnConfig.TLSConfig != nil
		return Normalized{Kind: kind, DSN: dsn, TLSEnabled: tls}, nil

	case KindMySQL:
		cfg, err := mysql.ParseDSN(dsn)
		if err != nil {
			return Normalized{}, fmt.Errorf("driver: parsing mysql dsn: %w", err)
		}
		tls := cfg.TLSConfig != "" && cfg.TLSConfig != "false"
		return Normalized{Kind: kind, DSN: dsn, TLSEnabled: tls}, nil

	case KindMSSQL:
		if _, err := msdsn.Parse(dsn); err != nil {
			return Normalized{}, fmt.Errorf("driver: parsing mssql dsn: %w", err)
		}
		// msdsn normalizes the encrypt parameter into its own enum, but the
		// raw "encrypt=" substring is enough to report the TLS intent here
		// without reaching into an internal field of that parse result.
		tls := strings.Contains(strings.ToLower(dsn), "encrypt=true") ||
			strings.Contains(strings.ToLower(dsn), "encrypt=mandatory") ||
			strings.Contains(strings.ToLower(dsn), "encrypt=strict")
		return Normalized{Kind: kind, DSN: dsn, TLSEnabled: tls}, nil

	case KindSQLite:
		if strings.TrimSpace(dsn) == "" {
			return Normalized{}, fmt.Errorf("driver: sqlite dsn must not be empty")
		}
		return Normalized{Kind: kind, DSN: dsn}, nil

	default:
		return Normalized{}, fmt.Errorf("driver: unknown kind %q", kind)
	}
}

// DriverName returns the database/sql driver name sqladapter.Open expects
// for kind, or "" for KindPostgres (which dials through pgxpool directly,
// not database/sql).
func (k Kind) DriverName() string {
	switch k {
	case KindMySQL, KindMSSQL, KindSQLite:
		return string(k)
	default:
		return ""
	}
}
