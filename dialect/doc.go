// Package dialect defines the database driver interfaces and renders
// serialized commands as SQL text.
//
// # Dialects
//
// A Dialect names tables and columns and renders one INSERT statement per
// command:
//
//   - CoreData: the layout of Core Data SQLite stores. The Worker entity
//     lives in table ZWORKER, its Name attribute in column ZNAME, and every
//     row carries Z_ENT (looked up by name in Z_PRIMARYKEY) and Z_OPT.
//   - Conventional: plural snake_case tables (workers) with snake_case
//     columns (current_department) and double-quoted identifiers.
//
// Values are always rendered as single-quoted literals:
//
//	INSERT INTO `ZWORKER` (`Z_ENT`, `Z_OPT`, `ZNAME`) VALUES ((SELECT `Z_ENT` FROM `Z_PRIMARYKEY` WHERE `Z_NAME` = 'Worker'), '1', 'Arthur');
//
// Script wraps the statements of a serialization in transaction markers and
// appends one resync statement per entity type, which keeps Z_PRIMARYKEY.Z_MAX
// in step with the inserted keys.
//
// # Driver Interface
//
// Driver, Tx and ExecQuerier are implemented by dialect/sql, which applies
// rendered scripts to a database:
//
//	type Driver interface {
//	    Exec(ctx context.Context, query string, args, v any) error
//	    Query(ctx context.Context, query string, args, v any) error
//	    Tx(ctx context.Context) (Tx, error)
//	    Close() error
//	    Dialect() string
//	}
//
// # Sub-packages
//
//   - dialect/sql: database/sql driver wrapper with script execution
//   - dialect/sql/schema: Core Data table definitions for entity types
package dialect
