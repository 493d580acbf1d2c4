// Package postgres renders migration operations for PostgreSQL.
//
// Identifiers and string literals are quoted with lib/pq so reserved words and
// mixed-case names survive unchanged.
package postgres
