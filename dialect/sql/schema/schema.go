// Package schema creates the tables an insert script is applied to.
//
// For the CoreData dialect this is the layout of a Core Data SQLite store:
// the Z_PRIMARYKEY registry with one row per entity, and one Z table per
// entity with the Z_PK, Z_ENT and Z_OPT bookkeeping columns. Conventional
// tables get an id primary key.
package schema

import (
	"context"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/syssam/coredata/dialect"
	"github.com/syssam/coredata/dialect/sql"
	entity "github.com/syssam/coredata/schema"
)

// Source lists the entity types of an object graph and the fields they
// serialize. *serializer.Serializer implements it.
type Source interface {
	Types() []reflect.Type
	Fields(reflect.Type) ([]*entity.Field, error)
}

// Column types.
const (
	TypeInteger   = "INTEGER"
	TypeFloat     = "FLOAT"
	TypeVarchar   = "VARCHAR"
	TypeTimestamp = "TIMESTAMP"
	TypeBlob      = "BLOB"
)

// PrimaryKeyTable is the Core Data entity registry.
const PrimaryKeyTable = "Z_PRIMARYKEY"

// Table is a table definition.
type Table struct {
	Name    string
	Columns []*Column
}

// Column is a column definition.
type Column struct {
	Name       string
	Type       string
	PrimaryKey bool
}

// Column returns the column with the given name, or nil.
func (t *Table) Column(name string) *Column {
	for _, c := range t.Columns {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// SQL renders the CREATE TABLE statement of t.
func (t *Table) SQL() string {
	defs := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		defs[i] = quote(c.Name) + " " + c.Type
		if c.PrimaryKey {
			defs[i] += " PRIMARY KEY"
		}
	}
	return fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (%s);", quote(t.Name), strings.Join(defs, ", "))
}

// Tables returns the tables the commands of src insert into when rendered
// with d. For dialect.CoreData the primary key registry comes first.
func Tables(d dialect.Dialect, src Source) ([]*Table, error) {
	var tables []*Table
	coreData := d == dialect.CoreData
	if coreData {
		tables = append(tables, &Table{
			Name: PrimaryKeyTable,
			Columns: []*Column{
				{Name: "Z_ENT", Type: TypeInteger, PrimaryKey: true},
				{Name: "Z_NAME", Type: TypeVarchar},
				{Name: "Z_SUPER", Type: TypeInteger},
				{Name: "Z_MAX", Type: TypeInteger},
			},
		})
	}
	for _, typ := range src.Types() {
		fields, err := src.Fields(typ)
		if err != nil {
			return nil, err
		}
		st, err := entity.Inspect(typ)
		if err != nil {
			return nil, err
		}
		t := &Table{Name: d.Table(st.Name)}
		if coreData {
			t.Columns = append(t.Columns,
				&Column{Name: "Z_PK", Type: TypeInteger, PrimaryKey: true},
				&Column{Name: "Z_ENT", Type: TypeInteger},
				&Column{Name: "Z_OPT", Type: TypeInteger},
			)
		} else {
			t.Columns = append(t.Columns, &Column{Name: "id", Type: TypeInteger, PrimaryKey: true})
		}
		for _, f := range fields {
			name := d.Column(f.Param)
			if t.Column(name) != nil {
				return nil, fmt.Errorf("coredata: %s: column %s is declared twice", st.Name, name)
			}
			t.Columns = append(t.Columns, &Column{Name: name, Type: columnType(f)})
		}
		tables = append(tables, t)
	}
	return tables, nil
}

// PrimaryKeyRows returns the registry rows of the entity types of src, with
// entity ids counting from 1 in type order. Only dialect.CoreData keeps a
// registry.
func PrimaryKeyRows(d dialect.Dialect, src Source) ([]string, error) {
	if d != dialect.CoreData {
		return nil, nil
	}
	types := src.Types()
	rows := make([]string, 0, len(types))
	for i, typ := range types {
		st, err := entity.Inspect(typ)
		if err != nil {
			return nil, err
		}
		rows = append(rows, fmt.Sprintf(
			"INSERT OR IGNORE INTO %s (Z_ENT, Z_NAME, Z_SUPER, Z_MAX) VALUES (%d, %s, 0, 0);",
			PrimaryKeyTable, i+1, dialect.QuoteValue(st.Name),
		))
	}
	return rows, nil
}

// Script renders the statements creating the tables and registry rows.
func Script(d dialect.Dialect, src Source) (string, error) {
	tables, err := Tables(d, src)
	if err != nil {
		return "", err
	}
	rows, err := PrimaryKeyRows(d, src)
	if err != nil {
		return "", err
	}
	var b strings.Builder
	for _, t := range tables {
		b.WriteString(t.SQL() + "\n")
	}
	for _, r := range rows {
		b.WriteString(r + "\n")
	}
	return b.String(), nil
}

// ScriptExecer applies a script. *sql.Driver, *sql.StatsDriver and
// *sql.DebugDriver implement it.
type ScriptExecer interface {
	ExecScript(ctx context.Context, script string) (int, error)
}

var (
	_ ScriptExecer = (*sql.Driver)(nil)
	_ ScriptExecer = (*sql.StatsDriver)(nil)
	_ ScriptExecer = (*sql.DebugDriver)(nil)
)

// Create creates the tables of src and the registry rows through drv. The
// statements are idempotent, so Create may run against an existing store.
func Create(ctx context.Context, drv ScriptExecer, d dialect.Dialect, src Source) error {
	script, err := Script(d, src)
	if err != nil {
		return err
	}
	if _, err := drv.ExecScript(ctx, script); err != nil {
		return fmt.Errorf("coredata: create tables: %w", err)
	}
	return nil
}

var timeType = reflect.TypeFor[time.Time]()

func columnType(f *entity.Field) string {
	if f.BackReference {
		return TypeInteger
	}
	t := f.Type
	if entity.Indirect(t) == timeType {
		return TypeTimestamp
	}
	if t.Kind() == reflect.Pointer && entity.Indirect(t).Kind() == reflect.Struct {
		// Relationships hold the key of the referenced row.
		return TypeInteger
	}
	t = entity.Indirect(t)
	switch t.Kind() {
	case reflect.Bool,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return TypeInteger
	case reflect.Float32, reflect.Float64:
		return TypeFloat
	case reflect.Slice:
		if t.Elem().Kind() == reflect.Uint8 {
			return TypeBlob
		}
	}
	return TypeVarchar
}

func quote(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}
