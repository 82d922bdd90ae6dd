package sqladapter

import (
	_ "github.com/go-sql-driver/mysql"
	_ "github.com/microsoft/go-mssqldb"
	_ "modernc.org/sqlite"
)

// Driver names accepted by Open, one per blank-imported database/sql
// driver above. Kept as documentation rather than an enforced enum: any
// driver registered under database/sql's global registry works.
const (
	DriverMySQL  = "mysql"
	DriverMSSQL  = "sqlserver"
	DriverSQLite = "sqlite"
)
