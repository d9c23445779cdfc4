package sql

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/syssam/coredata/dialect"
)

// QueryStats holds statement execution statistics.
type QueryStats struct {
	// Queries is the number of queries executed.
	Queries atomic.Int64
	// Execs is the number of statements executed.
	Execs atomic.Int64
	// Commits is the number of committed transactions.
	Commits atomic.Int64
	// Rollbacks is the number of rolled back transactions.
	Rollbacks atomic.Int64
	// Errors is the number of failed queries and statements.
	Errors atomic.Int64
	// Slow is the number of queries and statements exceeding the threshold.
	Slow atomic.Int64
	// Duration is the total time spent in queries and statements.
	Duration atomic.Int64 // nanoseconds
}

// Snapshot returns a copy of the current statistics.
func (s *QueryStats) Snapshot() StatsSnapshot {
	return StatsSnapshot{
		Queries:   s.Queries.Load(),
		Execs:     s.Execs.Load(),
		Commits:   s.Commits.Load(),
		Rollbacks: s.Rollbacks.Load(),
		Errors:    s.Errors.Load(),
		Slow:      s.Slow.Load(),
		Duration:  time.Duration(s.Duration.Load()),
	}
}

// StatsSnapshot is a point-in-time copy of QueryStats.
type StatsSnapshot struct {
	Queries   int64
	Execs     int64
	Commits   int64
	Rollbacks int64
	Errors    int64
	Slow      int64
	Duration  time.Duration
}

// String returns a human-readable summary of the statistics.
func (s StatsSnapshot) String() string {
	return fmt.Sprintf(
		"queries=%d execs=%d commits=%d rollbacks=%d errors=%d slow=%d duration=%s",
		s.Queries, s.Execs, s.Commits, s.Rollbacks, s.Errors, s.Slow, s.Duration,
	)
}

// StatsDriver wraps a Driver with statistics collection. Statements slower
// than the threshold are logged at warning level.
type StatsDriver struct {
	*Driver
	stats     *QueryStats
	threshold time.Duration
	logger    *slog.Logger
}

// StatsOption configures the StatsDriver.
type StatsOption func(*StatsDriver)

// WithSlowThreshold sets the duration above which a statement counts as
// slow. Default is 100ms.
func WithSlowThreshold(d time.Duration) StatsOption {
	return func(s *StatsDriver) {
		s.threshold = d
	}
}

// WithStatsLogger sets the logger for slow statements. Default is
// slog.Default().
func WithStatsLogger(l *slog.Logger) StatsOption {
	return func(s *StatsDriver) {
		s.logger = l
	}
}

// NewStatsDriver wraps a Driver with statistics collection.
//
//	drv, _ := sql.Open(dialect.SQLite, "file:store.sqlite")
//	stats := sql.NewStatsDriver(drv, sql.WithSlowThreshold(time.Second))
//	if _, err := stats.ExecScript(ctx, script); err != nil {
//	    return err
//	}
//	slog.Info("import done", "stats", stats.QueryStats().Snapshot())
func NewStatsDriver(drv *Driver, opts ...StatsOption) *StatsDriver {
	s := &StatsDriver{
		Driver:    drv,
		stats:     &QueryStats{},
		threshold: 100 * time.Millisecond,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// QueryStats returns the collected statistics.
func (d *StatsDriver) QueryStats() *QueryStats {
	return d.stats
}

// Query executes a query and records statistics.
func (d *StatsDriver) Query(ctx context.Context, query string, args, v any) error {
	start := time.Now()
	err := d.Driver.Query(ctx, query, args, v)
	d.record(ctx, query, start, err, &d.stats.Queries)
	return err
}

// Exec executes a statement and records statistics.
func (d *StatsDriver) Exec(ctx context.Context, query string, args, v any) error {
	start := time.Now()
	err := d.Driver.Exec(ctx, query, args, v)
	d.record(ctx, query, start, err, &d.stats.Execs)
	return err
}

// Tx starts a transaction that also records statistics.
func (d *StatsDriver) Tx(ctx context.Context) (dialect.Tx, error) {
	tx, err := d.Driver.Tx(ctx)
	if err != nil {
		return nil, err
	}
	return &StatsTx{Tx: tx, driver: d}, nil
}

// ExecScript applies a rendered script on one connection and records each
// statement as an exec.
func (d *StatsDriver) ExecScript(ctx context.Context, script string) (int, error) {
	return execScript(ctx, d.DB(), script, func(ctx context.Context, c Conn, stmt string) error {
		start := time.Now()
		err := c.Exec(ctx, stmt, []any{}, nil)
		d.record(ctx, stmt, start, err, &d.stats.Execs)
		return err
	})
}

func (d *StatsDriver) record(ctx context.Context, query string, start time.Time, err error, counter *atomic.Int64) {
	elapsed := time.Since(start)
	counter.Add(1)
	d.stats.Duration.Add(int64(elapsed))
	if err != nil {
		d.stats.Errors.Add(1)
	}
	if elapsed > d.threshold {
		d.stats.Slow.Add(1)
		d.logger.WarnContext(ctx, "slow statement", slog.Duration("duration", elapsed), slog.String("query", query))
	}
}

// StatsTx wraps a transaction with statistics collection.
type StatsTx struct {
	dialect.Tx
	driver *StatsDriver
}

// Query executes a query within the transaction and records statistics.
func (tx *StatsTx) Query(ctx context.Context, query string, args, v any) error {
	start := time.Now()
	err := tx.Tx.Query(ctx, query, args, v)
	tx.driver.record(ctx, query, start, err, &tx.driver.stats.Queries)
	return err
}

// Exec executes a statement within the transaction and records statistics.
func (tx *StatsTx) Exec(ctx context.Context, query string, args, v any) error {
	start := time.Now()
	err := tx.Tx.Exec(ctx, query, args, v)
	tx.driver.record(ctx, query, start, err, &tx.driver.stats.Execs)
	return err
}

// Commit commits the transaction and records it.
func (tx *StatsTx) Commit() error {
	err := tx.Tx.Commit()
	if err == nil {
		tx.driver.stats.Commits.Add(1)
	}
	return err
}

// Rollback rolls back the transaction and records it.
func (tx *StatsTx) Rollback() error {
	err := tx.Tx.Rollback()
	if err == nil {
		tx.driver.stats.Rollbacks.Add(1)
	}
	return err
}

// DebugDriver wraps a Driver and logs every statement at debug level.
type DebugDriver struct {
	*Driver
	logger *slog.Logger
}

// NewDebugDriver wraps a Driver with debug logging. A nil logger selects
// slog.Default().
func NewDebugDriver(drv *Driver, logger *slog.Logger) *DebugDriver {
	if logger == nil {
		logger = slog.Default()
	}
	return &DebugDriver{Driver: drv, logger: logger}
}

// Query logs and executes a query.
func (d *DebugDriver) Query(ctx context.Context, query string, args, v any) error {
	d.logger.DebugContext(ctx, "query", slog.String("query", query), slog.Any("args", args))
	return d.Driver.Query(ctx, query, args, v)
}

// Exec logs and executes a statement.
func (d *DebugDriver) Exec(ctx context.Context, query string, args, v any) error {
	d.logger.DebugContext(ctx, "exec", slog.String("query", query), slog.Any("args", args))
	return d.Driver.Exec(ctx, query, args, v)
}

// Tx starts a transaction with debug logging.
func (d *DebugDriver) Tx(ctx context.Context) (dialect.Tx, error) {
	d.logger.DebugContext(ctx, "begin transaction")
	tx, err := d.Driver.Tx(ctx)
	if err != nil {
		return nil, err
	}
	return &DebugTx{Tx: tx, logger: d.logger}, nil
}

// ExecScript applies a rendered script on one connection and logs each
// statement.
func (d *DebugDriver) ExecScript(ctx context.Context, script string) (int, error) {
	return execScript(ctx, d.DB(), script, func(ctx context.Context, c Conn, stmt string) error {
		d.logger.DebugContext(ctx, "script exec", slog.String("query", stmt))
		return c.Exec(ctx, stmt, []any{}, nil)
	})
}

// DebugTx wraps a transaction with debug logging.
type DebugTx struct {
	dialect.Tx
	logger *slog.Logger
}

// Query logs and executes a query within the transaction.
func (tx *DebugTx) Query(ctx context.Context, query string, args, v any) error {
	tx.logger.DebugContext(ctx, "tx query", slog.String("query", query), slog.Any("args", args))
	return tx.Tx.Query(ctx, query, args, v)
}

// Exec logs and executes a statement within the transaction.
func (tx *DebugTx) Exec(ctx context.Context, query string, args, v any) error {
	tx.logger.DebugContext(ctx, "tx exec", slog.String("query", query), slog.Any("args", args))
	return tx.Tx.Exec(ctx, query, args, v)
}

// Commit logs and commits the transaction.
func (tx *DebugTx) Commit() error {
	tx.logger.Debug("commit transaction")
	return tx.Tx.Commit()
}

// Rollback logs and rolls back the transaction.
func (tx *DebugTx) Rollback() error {
	tx.logger.Debug("rollback transaction")
	return tx.Tx.Rollback()
}

var (
	_ dialect.Driver = (*StatsDriver)(nil)
	_ dialect.Tx     = (*StatsTx)(nil)
	_ dialect.Driver = (*DebugDriver)(nil)
	_ dialect.Tx     = (*DebugTx)(nil)
)
