package sql

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/coredata/dialect"
)

const script = "BEGIN TRANSACTION;\n" +
	"INSERT INTO `ZDEPARTMENT` (`Z_ENT`, `Z_OPT`, `ZNAME`) VALUES ((SELECT `Z_ENT` FROM `Z_PRIMARYKEY` WHERE `Z_NAME` = 'Department'), '1', 'Sales; East');\n" +
	"INSERT INTO `ZWORKER` (`Z_ENT`, `Z_OPT`, `ZNAME`) VALUES ((SELECT `Z_ENT` FROM `Z_PRIMARYKEY` WHERE `Z_NAME` = 'Worker'), '1', 'O''Brien');\n" +
	"\n\n" +
	"UPDATE Z_PRIMARYKEY SET Z_MAX = (SELECT MAX(Z_PK) FROM ZWORKER) WHERE Z_NAME='Worker';\n" +
	"\nCOMMIT;"

func newMock(t *testing.T) (*Driver, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return OpenDB(dialect.SQLite, db), mock
}

func TestOpenDB(t *testing.T) {
	tests := []struct {
		name    string
		dialect string
		want    string
	}{
		{"Postgres", dialect.Postgres, dialect.Postgres},
		{"MySQL", dialect.MySQL, dialect.MySQL},
		{"SQLite", dialect.SQLite, dialect.SQLite},
		{"SQLite3", "sqlite3", dialect.SQLite},
		{"Unknown", "oracle", "oracle"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, _, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()

			drv := OpenDB(tt.dialect, db)
			assert.NotNil(t, drv)
			assert.Equal(t, tt.want, drv.Dialect())
			assert.Same(t, db, drv.DB())
		})
	}
}

func TestDriverQuery(t *testing.T) {
	drv, mock := newMock(t)

	t.Run("simple_query", func(t *testing.T) {
		mock.ExpectQuery("SELECT Z_ENT, Z_NAME FROM Z_PRIMARYKEY").
			WillReturnRows(sqlmock.NewRows([]string{"Z_ENT", "Z_NAME"}).
				AddRow(1, "Department").
				AddRow(2, "Worker"))

		rows := &Rows{}
		err := drv.Query(context.Background(), "SELECT Z_ENT, Z_NAME FROM Z_PRIMARYKEY", []any{}, rows)
		require.NoError(t, err)
		var names []string
		for rows.Next() {
			var (
				ent  int
				name string
			)
			require.NoError(t, rows.Scan(&ent, &name))
			names = append(names, name)
		}
		require.NoError(t, rows.Close())
		assert.Equal(t, []string{"Department", "Worker"}, names)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("query_error", func(t *testing.T) {
		mock.ExpectQuery("SELECT").WillReturnError(errors.New("database error"))

		err := drv.Query(context.Background(), "SELECT", []any{}, &Rows{})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "dialect/sql: query")
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("invalid_types", func(t *testing.T) {
		err := drv.Query(context.Background(), "SELECT 1", []any{}, nil)
		assert.Error(t, err)
		err = drv.Query(context.Background(), "SELECT 1", "args", &Rows{})
		assert.Error(t, err)
	})
}

func TestDriverExec(t *testing.T) {
	drv, mock := newMock(t)

	t.Run("simple_exec", func(t *testing.T) {
		mock.ExpectExec("DELETE FROM ZWORKER").WillReturnResult(sqlmock.NewResult(0, 3))

		err := drv.Exec(context.Background(), "DELETE FROM ZWORKER", []any{}, nil)
		require.NoError(t, err)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("exec_with_result", func(t *testing.T) {
		mock.ExpectExec("UPDATE ZWORKER SET ZNAME = ? WHERE Z_PK = ?").
			WithArgs("Arthur", 1).
			WillReturnResult(sqlmock.NewResult(0, 1))

		var res Result
		err := drv.Exec(context.Background(), "UPDATE ZWORKER SET ZNAME = ? WHERE Z_PK = ?", []any{"Arthur", 1}, &res)
		require.NoError(t, err)
		n, err := res.RowsAffected()
		require.NoError(t, err)
		assert.EqualValues(t, 1, n)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("exec_error", func(t *testing.T) {
		mock.ExpectExec("DELETE FROM ZWORKER").WillReturnError(errors.New("constraint violation"))

		err := drv.Exec(context.Background(), "DELETE FROM ZWORKER", []any{}, nil)
		require.Error(t, err)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("invalid_types", func(t *testing.T) {
		assert.Error(t, drv.Exec(context.Background(), "DELETE FROM ZWORKER", nil, nil))
		assert.Error(t, drv.Exec(context.Background(), "DELETE FROM ZWORKER", []any{}, new(int)))
	})
}

func TestDriverTransaction(t *testing.T) {
	drv, mock := newMock(t)

	t.Run("successful_commit", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectExec("DELETE FROM ZWORKER").WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		tx, err := drv.Tx(context.Background())
		require.NoError(t, err)
		require.NoError(t, tx.Exec(context.Background(), "DELETE FROM ZWORKER", []any{}, nil))
		require.NoError(t, tx.Commit())
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("rollback", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectExec("DELETE FROM ZWORKER").WillReturnError(errors.New("error"))
		mock.ExpectRollback()

		tx, err := drv.Tx(context.Background())
		require.NoError(t, err)
		require.Error(t, tx.Exec(context.Background(), "DELETE FROM ZWORKER", []any{}, nil))
		require.NoError(t, tx.Rollback())
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("begin_error", func(t *testing.T) {
		mock.ExpectBegin().WillReturnError(errors.New("locked"))

		_, err := drv.Tx(context.Background())
		require.Error(t, err)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestSplitStatements(t *testing.T) {
	tests := []struct {
		name   string
		script string
		want   []string
	}{
		{
			name:   "markers",
			script: "BEGIN TRANSACTION;\n\n\n\nCOMMIT;",
			want:   []string{"BEGIN TRANSACTION", "COMMIT"},
		},
		{
			name:   "empty",
			script: " ;\n; ",
		},
		{
			name:   "no terminator",
			script: "SELECT 1; SELECT 2",
			want:   []string{"SELECT 1", "SELECT 2"},
		},
		{
			name:   "quoted semicolons",
			script: "INSERT INTO t VALUES ('a;b');INSERT INTO \"t;1\" VALUES (1);INSERT INTO `t;2` VALUES (2);",
			want: []string{
				"INSERT INTO t VALUES ('a;b')",
				"INSERT INTO \"t;1\" VALUES (1)",
				"INSERT INTO `t;2` VALUES (2)",
			},
		},
		{
			name:   "doubled quotes",
			script: "INSERT INTO t VALUES ('it''s; fine'); SELECT 1;",
			want:   []string{"INSERT INTO t VALUES ('it''s; fine')", "SELECT 1"},
		},
		{
			name:   "mixed quotes",
			script: `SELECT '"'; SELECT "'";`,
			want:   []string{`SELECT '"'`, `SELECT "'"`},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SplitStatements(tt.script))
		})
	}
}

func expectScript(mock sqlmock.Sqlmock) {
	for _, stmt := range SplitStatements(script) {
		mock.ExpectExec(stmt).WillReturnResult(sqlmock.NewResult(1, 1))
	}
}

func TestExecScript(t *testing.T) {
	t.Run("applied as written", func(t *testing.T) {
		drv, mock := newMock(t)
		expectScript(mock)

		n, err := drv.ExecScript(context.Background(), script)
		require.NoError(t, err)
		assert.Equal(t, 5, n)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("failure discards connection", func(t *testing.T) {
		drv, mock := newMock(t)
		stmts := SplitStatements(script)
		mock.ExpectExec(stmts[0]).WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectExec(stmts[1]).WillReturnResult(sqlmock.NewResult(1, 1))
		mock.ExpectExec(stmts[2]).WillReturnError(errors.New("UNIQUE constraint failed"))
		mock.ExpectClose()

		n, err := drv.ExecScript(context.Background(), script)
		require.Error(t, err)
		assert.Equal(t, 2, n)
		assert.Contains(t, err.Error(), "statement 3")
		assert.Contains(t, err.Error(), "UNIQUE constraint failed")
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("empty", func(t *testing.T) {
		drv, mock := newMock(t)
		n, err := drv.ExecScript(context.Background(), "\n;\n")
		require.NoError(t, err)
		assert.Zero(t, n)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestStatsDriver(t *testing.T) {
	drv, mock := newMock(t)
	var buf bytes.Buffer
	stats := NewStatsDriver(drv,
		WithSlowThreshold(-1),
		WithStatsLogger(slog.New(slog.NewTextHandler(&buf, nil))),
	)

	expectScript(mock)
	n, err := stats.ExecScript(context.Background(), script)
	require.NoError(t, err)
	assert.Equal(t, 5, n)

	mock.ExpectExec("DELETE FROM ZWORKER").WillReturnError(errors.New("locked"))
	require.Error(t, stats.Exec(context.Background(), "DELETE FROM ZWORKER", []any{}, nil))

	mock.ExpectQuery("SELECT 1").WillReturnRows(sqlmock.NewRows([]string{"1"}).AddRow(1))
	rows := &Rows{}
	require.NoError(t, stats.Query(context.Background(), "SELECT 1", []any{}, rows))
	require.NoError(t, rows.Close())

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM ZWORKER").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()
	tx, err := stats.Tx(context.Background())
	require.NoError(t, err)
	require.NoError(t, tx.Exec(context.Background(), "DELETE FROM ZWORKER", []any{}, nil))
	require.NoError(t, tx.Commit())

	mock.ExpectBegin()
	mock.ExpectRollback()
	tx, err = stats.Tx(context.Background())
	require.NoError(t, err)
	require.NoError(t, tx.Rollback())
	require.NoError(t, mock.ExpectationsWereMet())

	snap := stats.QueryStats().Snapshot()
	assert.EqualValues(t, 1, snap.Queries)
	assert.EqualValues(t, 7, snap.Execs)
	assert.EqualValues(t, 1, snap.Commits)
	assert.EqualValues(t, 1, snap.Rollbacks)
	assert.EqualValues(t, 1, snap.Errors)
	assert.EqualValues(t, 8, snap.Slow)
	assert.Contains(t, snap.String(), "queries=1 execs=7 commits=1 rollbacks=1 errors=1 slow=8")
	assert.Contains(t, buf.String(), "slow statement")
}

func TestStatsDriverThreshold(t *testing.T) {
	drv, mock := newMock(t)
	stats := NewStatsDriver(drv, WithSlowThreshold(time.Hour))

	mock.ExpectExec("DELETE FROM ZWORKER").WillReturnResult(sqlmock.NewResult(0, 0))
	require.NoError(t, stats.Exec(context.Background(), "DELETE FROM ZWORKER", []any{}, nil))
	require.NoError(t, mock.ExpectationsWereMet())

	snap := stats.QueryStats().Snapshot()
	assert.EqualValues(t, 1, snap.Execs)
	assert.Zero(t, snap.Slow)
	assert.Zero(t, snap.Errors)
}

func TestDebugDriver(t *testing.T) {
	drv, mock := newMock(t)
	var buf bytes.Buffer
	debug := NewDebugDriver(drv, slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))

	expectScript(mock)
	_, err := debug.ExecScript(context.Background(), script)
	require.NoError(t, err)

	mock.ExpectQuery("SELECT 1").WillReturnRows(sqlmock.NewRows([]string{"1"}).AddRow(1))
	rows := &Rows{}
	require.NoError(t, debug.Query(context.Background(), "SELECT 1", []any{}, rows))
	require.NoError(t, rows.Close())
	require.NoError(t, mock.ExpectationsWereMet())

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM ZWORKER").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()
	tx, err := debug.Tx(context.Background())
	require.NoError(t, err)
	require.NoError(t, tx.Exec(context.Background(), "DELETE FROM ZWORKER", []any{}, nil))
	require.NoError(t, tx.Commit())
	require.NoError(t, mock.ExpectationsWereMet())

	out := buf.String()
	assert.Contains(t, out, "script exec")
	assert.Contains(t, out, "ZDEPARTMENT")
	assert.Contains(t, out, "msg=query")
	assert.Contains(t, out, "begin transaction")
	assert.Contains(t, out, "tx exec")
	assert.Contains(t, out, "commit transaction")
	assert.NotNil(t, NewDebugDriver(drv, nil).logger)
}
