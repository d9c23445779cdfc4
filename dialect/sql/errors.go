package sql

import (
	"errors"
	"strings"
)

// sqliteCoder is implemented by modernc.org/sqlite errors. Code returns the
// extended result code.
type sqliteCoder interface {
	Code() int
}

// sqlStateError is implemented by pq, pgx and some MySQL drivers.
type sqlStateError interface {
	SQLState() string
}

// errorNumberer is implemented by mysql.MySQLError.
type errorNumberer interface {
	Number() uint16
}

// SQLite result codes for constraint violations.
const (
	sqliteConstraint           = 19
	sqliteConstraintForeignKey = 787
	sqliteConstraintPrimaryKey = 1555
	sqliteConstraintUnique     = 2067
)

// PostgreSQL SQLSTATE codes for constraint violations (Class 23).
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

// MySQL error numbers for constraint violations.
const (
	mysqlDuplicateEntry   = 1062
	mysqlForeignKeyParent = 1451
	mysqlForeignKeyChild  = 1452
)

// IsConstraintError reports whether err resulted from a database constraint
// violation, such as an imported row colliding with an existing primary key.
func IsConstraintError(err error) bool {
	if err == nil {
		return false
	}
	if e, ok := asError[sqliteCoder](err); ok && e.Code()&0xff == sqliteConstraint {
		return true
	}
	if e, ok := asError[sqlStateError](err); ok && strings.HasPrefix(e.SQLState(), "23") {
		return true
	}
	return IsUniqueConstraintError(err) || IsForeignKeyConstraintError(err) ||
		containsAny(err.Error(), "constraint failed", "violates")
}

// IsUniqueConstraintError reports whether err resulted from a uniqueness or
// primary key violation.
func IsUniqueConstraintError(err error) bool {
	if err == nil {
		return false
	}
	if e, ok := asError[sqliteCoder](err); ok {
		if c := e.Code(); c == sqliteConstraintUnique || c == sqliteConstraintPrimaryKey {
			return true
		}
	}
	if e, ok := asError[sqlStateError](err); ok && e.SQLState() == pgUniqueViolation {
		return true
	}
	if e, ok := asError[errorNumberer](err); ok && e.Number() == mysqlDuplicateEntry {
		return true
	}
	return containsAny(err.Error(),
		"UNIQUE constraint failed",   // SQLite
		"violates unique constraint", // Postgres
		"Error 1062",                 // MySQL
	)
}

// IsForeignKeyConstraintError reports whether err resulted from a foreign key
// violation. SQLite only reports these with PRAGMA foreign_keys enabled.
func IsForeignKeyConstraintError(err error) bool {
	if err == nil {
		return false
	}
	if e, ok := asError[sqliteCoder](err); ok && e.Code() == sqliteConstraintForeignKey {
		return true
	}
	if e, ok := asError[sqlStateError](err); ok && e.SQLState() == pgForeignKeyViolation {
		return true
	}
	if e, ok := asError[errorNumberer](err); ok {
		if n := e.Number(); n == mysqlForeignKeyParent || n == mysqlForeignKeyChild {
			return true
		}
	}
	return containsAny(err.Error(),
		"FOREIGN KEY constraint failed",   // SQLite
		"violates foreign key constraint", // Postgres
		"Error 1451",                      // MySQL
		"Error 1452",
	)
}

// asError extracts an error implementing T from the chain of err.
func asError[T any](err error) (T, bool) {
	var target T
	return target, errors.As(err, &target)
}

func containsAny(s string, substrings ...string) bool {
	for _, sub := range substrings {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
