package dialect

import (
	"context"
	"database/sql/driver"
	"fmt"
	"strings"

	"github.com/go-openapi/inflect"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/syssam/coredata"
)

// Database dialect names.
const (
	MySQL    = "mysql"
	SQLite   = "sqlite"
	Postgres = "postgres"
)

// ExecQuerier wraps the two database operations.
type ExecQuerier interface {
	// Exec executes a query that does not return records. For example, in SQL, INSERT or UPDATE.
	// It scans the result into the pointer v. For SQL drivers, it is dialect/sql.Result.
	Exec(ctx context.Context, query string, args, v any) error
	// Query executes a query that returns rows, typically a SELECT in SQL.
	// It scans the result into the pointer v. For SQL drivers, it is *dialect/sql.Rows.
	Query(ctx context.Context, query string, args, v any) error
}

// Driver is the interface that wraps all necessary operations for applying
// generated statements.
type Driver interface {
	ExecQuerier
	// Tx starts and returns a new transaction.
	Tx(context.Context) (Tx, error)
	// Close closes the underlying connection.
	Close() error
	// Dialect returns the dialect name of the driver.
	Dialect() string
}

// Tx wraps the Exec and Query operations in transaction.
type Tx interface {
	ExecQuerier
	driver.Tx
}

// Statement markers wrapping a rendered script.
const (
	Begin  = "BEGIN TRANSACTION;"
	Commit = "COMMIT;"
)

// Dialect renders commands as SQL text.
type Dialect interface {
	// Name returns the name used in configuration files.
	Name() string
	// Table returns the unquoted table name of an entity type.
	Table(objectName string) string
	// Column returns the unquoted column name of a parameter.
	Column(param string) string
	// Insert renders one command as a single INSERT statement.
	Insert(cmd coredata.Command) string
	// Resync renders the statement updating the running maximum key of an
	// entity type, or "" if the dialect keeps none.
	Resync(objectName string) string
}

// Dialects available by name.
var (
	CoreData     Dialect = coreData{}
	Conventional Dialect = conventional{}
)

// ByName returns the dialect registered under name. The empty name selects
// CoreData.
func ByName(name string) (Dialect, error) {
	switch strings.ToLower(name) {
	case "", CoreData.Name():
		return CoreData, nil
	case Conventional.Name():
		return Conventional, nil
	default:
		return nil, coredata.NewConfigError("dialect", name, "unknown dialect; use coredata or conventional")
	}
}

// Script renders a complete script: the transaction markers, one insert per
// command and one resync statement per entity type.
func Script(d Dialect, cmds []coredata.Command, objectNames []string) string {
	var b strings.Builder
	b.WriteString(Begin + "\n")
	for _, cmd := range cmds {
		b.WriteString(d.Insert(cmd) + "\n")
	}
	b.WriteString("\n\n")
	for _, name := range objectNames {
		if stmt := d.Resync(name); stmt != "" {
			b.WriteString(stmt + "\n")
		}
	}
	b.WriteString("\n" + Commit)
	return b.String()
}

// QuoteValue quotes s as an SQL string literal.
func QuoteValue(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

func upper(s string) string {
	return cases.Upper(language.Und).String(s)
}

// coreData follows the table layout of Core Data SQLite stores: entity
// tables and columns are prefixed with Z and upper-cased, and every row
// carries its entity id and an optimistic locking counter.
type coreData struct{}

func (coreData) Name() string { return "coredata" }

func (coreData) Table(objectName string) string { return "Z" + upper(objectName) }

func (coreData) Column(param string) string { return "Z" + upper(param) }

func (d coreData) Insert(cmd coredata.Command) string {
	cols := []string{"`Z_ENT`", "`Z_OPT`"}
	vals := []string{
		fmt.Sprintf("(SELECT `Z_ENT` FROM `Z_PRIMARYKEY` WHERE `Z_NAME` = %s)", QuoteValue(cmd.ObjectName)),
		"'1'",
	}
	for _, p := range cmd.Params {
		cols = append(cols, "`"+d.Column(p.Name)+"`")
		vals = append(vals, QuoteValue(p.Value))
	}
	return fmt.Sprintf("INSERT INTO `%s` (%s) VALUES (%s);", d.Table(cmd.ObjectName), strings.Join(cols, ", "), strings.Join(vals, ", "))
}

func (d coreData) Resync(objectName string) string {
	return fmt.Sprintf("UPDATE Z_PRIMARYKEY SET Z_MAX = (SELECT MAX(Z_PK) FROM %s) WHERE Z_NAME=%s;", d.Table(objectName), QuoteValue(objectName))
}

// conventional uses plural snake_case tables and snake_case columns.
type conventional struct{}

func (conventional) Name() string { return "conventional" }

func (conventional) Table(objectName string) string {
	return inflect.Underscore(inflect.Pluralize(objectName))
}

func (conventional) Column(param string) string { return inflect.Underscore(param) }

func (d conventional) Insert(cmd coredata.Command) string {
	table := quoteIdent(d.Table(cmd.ObjectName))
	if len(cmd.Params) == 0 {
		return fmt.Sprintf("INSERT INTO %s DEFAULT VALUES;", table)
	}
	cols := make([]string, len(cmd.Params))
	vals := make([]string, len(cmd.Params))
	for i, p := range cmd.Params {
		cols[i] = quoteIdent(d.Column(p.Name))
		vals[i] = QuoteValue(p.Value)
	}
	return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s);", table, strings.Join(cols, ", "), strings.Join(vals, ", "))
}

func (conventional) Resync(string) string { return "" }

func quoteIdent(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}
