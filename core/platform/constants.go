// Package platform names the database dialects schemaroute can render and connect to.
package platform

import (
	"strings"
)

const (
	Postgres  = "postgres"
	MySQL     = "mysql"
	MariaDB   = "mariadb"
	SQLServer = "sqlserver"
)

// NormalizeDialect maps driver names and aliases to one of the dialect constants.
// It returns "" for unknown dialects.
func NormalizeDialect(dialect string) string {
	switch strings.ToLower(strings.TrimSpace(dialect)) {
	case "pgx", "postgresql", "postgres":
		return Postgres
	case "mysql":
		return MySQL
	case "mariadb":
		return MariaDB
	case "sqlserver", "mssql":
		return SQLServer
	default:
		return ""
	}
}
