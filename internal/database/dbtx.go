package database

import (
	"database/sql"
)

// DBTX defines the database operations needed by repositories.
// Satisfied by *DB; a transaction wrapper can implement it later if needed.
type DBTX interface {
	Exec(query string, args ...interface{}) (sql.Result, error)
	Query(query string, args ...interface{}) (*sql.Rows, error)
	QueryRow(query string, args ...interface{}) *sql.Row
	ExecReturningID(query string, args ...interface{}) (int64, error)
}
