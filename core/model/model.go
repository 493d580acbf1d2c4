// Package model maps Go entity types onto tables in a tenant schema.
//
// A Model is the compiled form of an entity for one schema. Building one walks
// the struct with reflection, so models are meant to be built once per
// (type, schema) pair and cached.
package model

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"unicode"

	"github.com/stokaro/schemaroute/core/renderer"
)

// ErrNotStruct is returned when the entity type is not a struct or pointer to struct.
var ErrNotStruct = errors.New("entity type must be a struct")

// ErrNoColumns is returned for entities without any mapped field.
var ErrNoColumns = errors.New("entity has no mapped columns")

// ErrNilEntity is returned when a nil entity or nil pointer is read or scanned into.
var ErrNilEntity = errors.New("entity is nil")

// Namer lets an entity choose its table name.
type Namer interface {
	TableName() string
}

// Table is a schema-qualified table reference.
type Table struct {
	Schema string
	Name   string
}

// Qualified returns the table name quoted for dialect.
func (t Table) Qualified(dialect string) (string, error) {
	r, err := renderer.New(dialect)
	if err != nil {
		return "", err
	}
	return r.Qualify(t.Schema, t.Name), nil
}

func (t Table) String() string {
	if t.Schema == "" {
		return t.Name
	}
	return t.Schema + "." + t.Name
}

// Column maps one struct field to a column.
type Column struct {
	// Name is the column name
	Name string
	// Field is the Go field name
	Field string
	// Key marks the primary key column
	Key bool
	// Generated marks columns filled by the database on insert
	Generated bool

	index []int
}

// Model is the compiled mapping of an entity type in one schema.
type Model struct {
	Type    reflect.Type
	Table   Table
	Columns []Column
}

// Build compiles the model of entityType in schema.
//
// The table name comes from a TableName method when the entity has one and
// is the snake-cased type name otherwise. Exported fields are mapped through
// their `db` tag:
//
//	type Customer struct {
//		ID        int    `db:"id,key,generated"`
//		FirstName string `db:"first_name"`
//		Internal  string `db:"-"`
//	}
//
// Untagged exported fields map to their snake-cased name.
func Build(entityType reflect.Type, schema string) (*Model, error) {
	if entityType == nil {
		return nil, ErrNotStruct
	}
	t := entityType
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return nil, fmt.Errorf("%w: got %s", ErrNotStruct, entityType)
	}

	m := &Model{
		Type:  t,
		Table: Table{Schema: schema, Name: tableName(t)},
	}
	if err := collectColumns(t, nil, &m.Columns); err != nil {
		return nil, fmt.Errorf("entity %s: %w", t, err)
	}
	if len(m.Columns) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoColumns, t)
	}
	return m, nil
}

// QualifiedTable returns the model's table name quoted for dialect.
func (m *Model) QualifiedTable(dialect string) (string, error) {
	return m.Table.Qualified(dialect)
}

// ColumnNames returns every column name in field order. When insertable is
// true, generated columns are left out.
func (m *Model) ColumnNames(insertable bool) []string {
	names := make([]string, 0, len(m.Columns))
	for _, col := range m.Columns {
		if insertable && col.Generated {
			continue
		}
		names = append(names, col.Name)
	}
	return names
}

// Values returns the field values of entity in ColumnNames order.
func (m *Model) Values(entity any, insertable bool) ([]any, error) {
	v := reflect.ValueOf(entity)
	if !v.IsValid() || (v.Kind() == reflect.Pointer && v.IsNil()) {
		return nil, fmt.Errorf("%w: expected %s", ErrNilEntity, m.Type)
	}
	if v.Kind() == reflect.Pointer {
		v = v.Elem()
	}
	if v.Type() != m.Type {
		return nil, fmt.Errorf("entity of type %s does not match model %s", v.Type(), m.Type)
	}
	values := make([]any, 0, len(m.Columns))
	for _, col := range m.Columns {
		if insertable && col.Generated {
			continue
		}
		values = append(values, v.FieldByIndex(col.index).Interface())
	}
	return values, nil
}

// ScanTargets returns pointers to the fields of entity in column order, for
// use with sql.Rows.Scan after selecting ColumnNames(false).
func (m *Model) ScanTargets(entity any) ([]any, error) {
	v := reflect.ValueOf(entity)
	if v.Kind() == reflect.Pointer && v.IsNil() {
		return nil, fmt.Errorf("%w: expected *%s", ErrNilEntity, m.Type)
	}
	if v.Kind() != reflect.Pointer || v.Elem().Type() != m.Type {
		return nil, fmt.Errorf("scan target must be *%s", m.Type)
	}
	v = v.Elem()
	targets := make([]any, len(m.Columns))
	for i, col := range m.Columns {
		targets[i] = v.FieldByIndex(col.index).Addr().Interface()
	}
	return targets, nil
}

func tableName(t reflect.Type) string {
	if n, ok := reflect.New(t).Interface().(Namer); ok {
		if name := n.TableName(); name != "" {
			return name
		}
	}
	return SnakeCase(t.Name())
}

func collectColumns(t reflect.Type, parent []int, out *[]Column) error {
	for i := range t.NumField() {
		f := t.Field(i)
		index := append(append([]int(nil), parent...), i)

		if f.Anonymous && f.Type.Kind() == reflect.Struct && f.Tag.Get("db") == "" {
			if err := collectColumns(f.Type, index, out); err != nil {
				return err
			}
			continue
		}
		if !f.IsExported() {
			continue
		}

		tag := f.Tag.Get("db")
		if tag == "-" {
			continue
		}
		name, opts, _ := strings.Cut(tag, ",")
		if name == "" {
			name = SnakeCase(f.Name)
		}
		col := Column{Name: name, Field: f.Name, index: index}
		for opt := range strings.SplitSeq(opts, ",") {
			switch strings.TrimSpace(opt) {
			case "":
			case "key":
				col.Key = true
			case "generated":
				col.Generated = true
			default:
				return fmt.Errorf("field %s: unknown db tag option %q", f.Name, opt)
			}
		}
		for _, existing := range *out {
			if existing.Name == col.Name {
				return fmt.Errorf("field %s: duplicate column %q", f.Name, col.Name)
			}
		}
		*out = append(*out, col)
	}
	return nil
}

// SnakeCase converts a Go identifier to snake_case, keeping acronyms together:
// "CustomerID" becomes "customer_id" and "HTTPLog" becomes "http_log".
func SnakeCase(s string) string {
	runes := []rune(s)
	var sb strings.Builder
	for i, r := range runes {
		if unicode.IsUpper(r) {
			if i > 0 {
				prev := runes[i-1]
				nextLower := i+1 < len(runes) && unicode.IsLower(runes[i+1])
				if unicode.IsLower(prev) || unicode.IsDigit(prev) || (unicode.IsUpper(prev) && nextLower) {
					sb.WriteByte('_')
				}
			}
			sb.WriteRune(unicode.ToLower(r))
			continue
		}
		sb.WriteRune(r)
	}
	return sb.String()
}
