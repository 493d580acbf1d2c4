package session

import (
	"context"
	"fmt"
	"reflect"
	"strings"

	"github.com/stokaro/schemaroute/core/ast"
	"github.com/stokaro/schemaroute/core/renderer"
)

// Insert inserts entity into its table in the session schema. Generated
// columns are left to the database.
func (s *Session) Insert(ctx context.Context, entity any) error {
	m, err := s.Model(ctx, entity)
	if err != nil {
		return err
	}
	values, err := m.Values(entity, true)
	if err != nil {
		return err
	}

	r, err := renderer.New(s.Dialect())
	if err != nil {
		return err
	}
	node := ast.NewInsertData(m.Table.Name, m.ColumnNames(true)...).AddRow(values...)
	node.Schema = m.Table.Schema
	statements, err := r.Render(node)
	if err != nil {
		return fmt.Errorf("failed to render insert into %s: %w", m.Table, err)
	}

	for _, stmt := range statements {
		if _, err := s.DB().ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to insert into %s: %w", m.Table, err)
		}
	}
	return nil
}

// Count returns the number of rows in the table of entity.
func (s *Session) Count(ctx context.Context, entity any) (int64, error) {
	m, err := s.Model(ctx, entity)
	if err != nil {
		return 0, err
	}
	table, err := m.QualifiedTable(s.Dialect())
	if err != nil {
		return 0, err
	}

	var n int64
	if err := s.DB().QueryRowContext(ctx, "SELECT COUNT(*) FROM "+table).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count %s: %w", m.Table, err)
	}
	return n, nil
}

// List loads every row of the table mapped by T.
func List[T any](ctx context.Context, s *Session) ([]T, error) {
	m, err := s.Model(ctx, reflect.TypeFor[T]())
	if err != nil {
		return nil, err
	}
	r, err := renderer.New(s.Dialect())
	if err != nil {
		return nil, err
	}

	columns := m.ColumnNames(false)
	quoted := make([]string, len(columns))
	for i, col := range columns {
		quoted[i] = r.Qualify("", col)
	}
	query := fmt.Sprintf("SELECT %s FROM %s", strings.Join(quoted, ", "), r.Qualify(m.Table.Schema, m.Table.Name))

	rows, err := s.DB().QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query %s: %w", m.Table, err)
	}
	defer rows.Close()

	var out []T
	for rows.Next() {
		var item T
		targets, err := m.ScanTargets(&item)
		if err != nil {
			return nil, err
		}
		if err := rows.Scan(targets...); err != nil {
			return nil, fmt.Errorf("failed to scan %s: %w", m.Table, err)
		}
		out = append(out, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating %s rows: %w", m.Table, err)
	}
	return out, nil
}
