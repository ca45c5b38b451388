/*
 * Copyright 2025 tomoncle.
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package record

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/tomoncle/sparrow/query"
	"github.com/tomoncle/sparrow/types"
)

var (
	// ErrInvalidIdent reports a table, column, or sort identifier that does
	// not match the allowlist pattern.
	ErrInvalidIdent = errors.New("record: invalid identifier")

	// ErrNoColumns reports an insert or update without any column values.
	ErrNoColumns = errors.New("record: no column values supplied")
)

var identPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// DBTX is the connection capability the store executes against. Both *sql.DB
// and *sql.Tx satisfy it.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Bind selects the placeholder style of the executed statements.
type Bind int

const (
	// BindDollar keeps the compiler's native `$N` placeholders (postgres).
	BindDollar Bind = iota
	// BindQuestion rewrites placeholders to `?` (mysql, sqlite).
	BindQuestion
)

// Row is a single table row keyed by column name.
type Row map[string]any

// Store issues CRUD statements against one named table.
type Store struct {
	conn  DBTX
	table string
	bind  Bind
}

// Option customizes a Store.
type Option func(*Store)

// WithBind sets the placeholder style used for execution.
func WithBind(bind Bind) Option {
	return func(s *Store) { s.bind = bind }
}

// New returns a Store bound to the given connection and table. The table
// name is validated against the identifier allowlist.
func New(conn DBTX, table string, opts ...Option) (*Store, error) {
	if err := validIdent(table); err != nil {
		return nil, err
	}
	s := &Store{conn: conn, table: table, bind: BindDollar}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// WithTx returns a copy of the store that executes inside the transaction.
func (s *Store) WithTx(tx *sql.Tx) *Store {
	clone := *s
	clone.conn = tx
	return &clone
}

// Table returns the table name the store is bound to.
func (s *Store) Table() string { return s.table }

// Insert adds one row and returns it as stored, including generated columns.
func (s *Store) Insert(ctx context.Context, values Row) (Row, error) {
	columns, args, err := sortedColumns(values)
	if err != nil {
		return nil, err
	}
	placeholders := make([]string, len(columns))
	for i := range columns {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
	}
	stmt := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s) RETURNING *",
		s.table, strings.Join(columns, ", "), strings.Join(placeholders, ", "))
	rows, err := s.queryRows(ctx, stmt, args)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, sql.ErrNoRows
	}
	return rows[0], nil
}

// Find returns the rows matching the condition tree. A nil or empty tree
// means no filtering.
func (s *Store) Find(ctx context.Context, where *query.Group, opts ...SelectOption) ([]Row, error) {
	clause, args, err := s.compileWhere(where, 1)
	if err != nil {
		return nil, err
	}
	return s.selectWhere(ctx, clause, args, newSelectOptions(opts))
}

// List returns the rows matching a raw filter. The filter schema is spliced
// into the statement verbatim with its `$N` placeholders, bypassing the
// identifier allowlist; it is the escape hatch for predicates the condition
// tree cannot express, and its text must never contain caller input. A nil
// filter means no filtering.
func (s *Store) List(ctx context.Context, filter *types.QueryFilter, opts ...SelectOption) ([]Row, error) {
	var clause string
	var args []any
	if filter != nil {
		clause, args = filter.Schema, filter.Args
	}
	return s.selectWhere(ctx, clause, args, newSelectOptions(opts))
}

// FindOne returns the first matching row, or sql.ErrNoRows.
func (s *Store) FindOne(ctx context.Context, where *query.Group, opts ...SelectOption) (Row, error) {
	rows, err := s.Find(ctx, where, append(opts, Limit(1))...)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, sql.ErrNoRows
	}
	return rows[0], nil
}

// Update applies the column changes to every matching row and returns the
// updated rows. The WHERE predicate numbers its placeholders after the SET
// clause parameters.
func (s *Store) Update(ctx context.Context, changes Row, where *query.Group) ([]Row, error) {
	columns, args, err := sortedColumns(changes)
	if err != nil {
		return nil, err
	}
	assignments := make([]string, len(columns))
	for i, column := range columns {
		assignments[i] = fmt.Sprintf("%s = $%d", column, i+1)
	}
	clause, whereArgs, err := s.compileWhere(where, len(columns)+1)
	if err != nil {
		return nil, err
	}
	stmt := fmt.Sprintf("UPDATE %s SET %s", s.table, strings.Join(assignments, ", "))
	if clause != "" {
		stmt += " WHERE " + clause
	}
	stmt += " RETURNING *"
	return s.queryRows(ctx, stmt, append(args, whereArgs...))
}

// Delete removes every matching row and returns the deleted rows.
func (s *Store) Delete(ctx context.Context, where *query.Group) ([]Row, error) {
	clause, args, err := s.compileWhere(where, 1)
	if err != nil {
		return nil, err
	}
	stmt := fmt.Sprintf("DELETE FROM %s", s.table)
	if clause != "" {
		stmt += " WHERE " + clause
	}
	stmt += " RETURNING *"
	return s.queryRows(ctx, stmt, args)
}

// Count returns the number of matching rows.
func (s *Store) Count(ctx context.Context, where *query.Group) (int, error) {
	clause, args, err := s.compileWhere(where, 1)
	if err != nil {
		return 0, err
	}
	return s.countWhere(ctx, clause, args)
}

// Page returns one page of matching rows along with the total match count.
// A zero total short-circuits without issuing the select. The request's
// condition tree takes precedence; its raw filter applies when no tree is
// set.
func (s *Store) Page(ctx context.Context, page *types.PageRequest) (*types.Pagination[Row], error) {
	clause, args, err := s.compileWhere(page.GetWhere(), 1)
	if err != nil {
		return nil, err
	}
	if clause == "" {
		if filter := page.GetFilter(); filter != nil {
			clause, args = filter.Schema, filter.Args
		}
	}
	pagination := types.NewDefaultPagination[Row](page.GetPage(), page.GetPageSize())
	total, err := s.countWhere(ctx, clause, args)
	if err != nil || total == 0 {
		return pagination, err
	}
	items, err := s.selectWhere(ctx, clause, args, newSelectOptions([]SelectOption{
		Order(page.GetOrders()...),
		Limit(page.GetPageSize()),
		Offset(page.GetOffset()),
	}))
	if err != nil {
		return nil, err
	}
	pagination.Total = total
	pagination.Items = items
	return pagination, nil
}

// compileWhere validates the tree's field identifiers, compiles it with the
// given starting placeholder index, and returns the clause and arguments.
func (s *Store) compileWhere(where *query.Group, start int) (string, []any, error) {
	if where == nil || where.IsEmpty() {
		return "", nil, nil
	}
	for _, field := range where.Fields() {
		if err := validIdent(field); err != nil {
			return "", nil, err
		}
	}
	compiled, err := query.Compile(*where, start)
	if err != nil {
		return "", nil, err
	}
	return compiled.Clause, compiled.Args, nil
}

func (s *Store) selectWhere(ctx context.Context, clause string, args []any, sel *selectOptions) ([]Row, error) {
	stmt := fmt.Sprintf("SELECT * FROM %s", s.table)
	if clause != "" {
		stmt += " WHERE " + clause
	}
	suffix, err := sel.suffix()
	if err != nil {
		return nil, err
	}
	return s.queryRows(ctx, stmt+suffix, args)
}

func (s *Store) countWhere(ctx context.Context, clause string, args []any) (int, error) {
	stmt := fmt.Sprintf("SELECT COUNT(*) FROM %s", s.table)
	if clause != "" {
		stmt += " WHERE " + clause
	}
	var count int
	if err := s.conn.QueryRowContext(ctx, s.rebind(stmt), args...).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func (s *Store) queryRows(ctx context.Context, stmt string, args []any) ([]Row, error) {
	rows, err := s.conn.QueryContext(ctx, s.rebind(stmt), args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	return scanRows(rows)
}

func (s *Store) rebind(stmt string) string {
	if s.bind == BindQuestion {
		return query.Rebind(stmt)
	}
	return stmt
}

// sortedColumns validates the column identifiers and returns them in sorted
// order with the matching argument values, keeping statements deterministic.
func sortedColumns(values Row) ([]string, []any, error) {
	if len(values) == 0 {
		return nil, nil, ErrNoColumns
	}
	columns := make([]string, 0, len(values))
	for column := range values {
		if err := validIdent(column); err != nil {
			return nil, nil, err
		}
		columns = append(columns, column)
	}
	sort.Strings(columns)
	args := make([]any, len(columns))
	for i, column := range columns {
		args[i] = values[column]
	}
	return columns, args, nil
}

func validIdent(name string) error {
	if !identPattern.MatchString(name) {
		return fmt.Errorf("%w: %q", ErrInvalidIdent, name)
	}
	return nil
}
