// Package sql applies rendered insert scripts to database/sql databases.
//
// Driver adapts a *sql.DB to the dialect.Driver interface. ExecScript splits
// a script produced by the serializer into statements and runs them as
// written, markers included, on a single connection:
//
//	drv, err := sql.Open(dialect.SQLite, "file:store.sqlite")
//	if err != nil {
//	    return err
//	}
//	defer drv.Close()
//
//	script, err := s.SQL()
//	if err != nil {
//	    return err
//	}
//	n, err := drv.ExecScript(ctx, script)
//	if sql.IsUniqueConstraintError(err) {
//	    // The store already holds rows with these primary keys.
//	}
//
// # Instrumentation
//
// StatsDriver counts statements and transactions and logs slow statements.
// DebugDriver logs every statement at debug level. Both wrap a *Driver and
// see every statement ExecScript runs.
//
// The schema subpackage creates the Core Data tables a script expects.
package sql
