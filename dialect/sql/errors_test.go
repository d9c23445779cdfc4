package sql

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

type codeErr int

func (e codeErr) Error() string { return fmt.Sprintf("sqlite error %d", int(e)) }
func (e codeErr) Code() int     { return int(e) }

type stateErr string

func (e stateErr) Error() string    { return "pq: error" }
func (e stateErr) SQLState() string { return string(e) }

type numberErr uint16

func (e numberErr) Error() string  { return "mysql error" }
func (e numberErr) Number() uint16 { return uint16(e) }

func TestConstraintErrors(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		constraint bool
		unique     bool
		foreignKey bool
	}{
		{name: "nil"},
		{name: "other", err: errors.New("disk I/O error")},
		{name: "sqlite unique code", err: codeErr(sqliteConstraintUnique), constraint: true, unique: true},
		{name: "sqlite primary key code", err: codeErr(sqliteConstraintPrimaryKey), constraint: true, unique: true},
		{name: "sqlite foreign key code", err: codeErr(sqliteConstraintForeignKey), constraint: true, foreignKey: true},
		{name: "sqlite not null code", err: codeErr(1299), constraint: true},
		{name: "sqlite busy code", err: codeErr(5)},
		{name: "sqlite unique text", err: errors.New("UNIQUE constraint failed: ZWORKER.Z_PK"), constraint: true, unique: true},
		{name: "sqlite foreign key text", err: errors.New("FOREIGN KEY constraint failed"), constraint: true, foreignKey: true},
		{name: "postgres unique", err: stateErr(pgUniqueViolation), constraint: true, unique: true},
		{name: "postgres foreign key", err: stateErr(pgForeignKeyViolation), constraint: true, foreignKey: true},
		{name: "postgres not null", err: stateErr("23502"), constraint: true},
		{name: "mysql duplicate", err: numberErr(mysqlDuplicateEntry), constraint: true, unique: true},
		{name: "mysql foreign key", err: numberErr(mysqlForeignKeyChild), constraint: true, foreignKey: true},
		{name: "wrapped", err: fmt.Errorf("dialect/sql: statement 3: %w", codeErr(sqliteConstraintUnique)), constraint: true, unique: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.constraint, IsConstraintError(tt.err))
			assert.Equal(t, tt.unique, IsUniqueConstraintError(tt.err))
			assert.Equal(t, tt.foreignKey, IsForeignKeyConstraintError(tt.err))
		})
	}
}
