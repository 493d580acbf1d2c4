// Package dbtest provides a scripted database/sql driver for tests.
//
// Every statement executed through the returned *sql.DB is recorded and
// answered by a Handler, so code built on database/sql can be tested without
// a database server.
package dbtest

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"io"
	"strings"
	"sync"
)

// Result is what a Handler returns for one statement. Queries fill Columns
// and Rows; Exec calls may set RowsAffected.
type Result struct {
	Columns      []string
	Rows         [][]driver.Value
	RowsAffected int64
}

// Handler answers a statement. args are the driver-converted arguments.
type Handler func(query string, args []driver.Value) (*Result, error)

// Call is one recorded statement.
type Call struct {
	Query string
	Args  []driver.Value
	// InTx is true when the statement ran inside a transaction
	InTx bool
}

// Fake is a scripted database.
type Fake struct {
	mu        sync.Mutex
	handler   Handler
	calls     []Call
	commits   int
	rollbacks int
	closed    bool
}

// New creates a fake answering every statement with handler. A nil handler
// accepts every statement and returns no rows.
func New(handler Handler) *Fake {
	if handler == nil {
		handler = func(string, []driver.Value) (*Result, error) { return &Result{}, nil }
	}
	return &Fake{handler: handler}
}

// DB returns a pool backed by the fake.
func (f *Fake) DB() *sql.DB {
	return sql.OpenDB(connector{f: f})
}

// Calls returns every recorded statement.
func (f *Fake) Calls() []Call {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]Call, len(f.calls))
	copy(out, f.calls)
	return out
}

// Queries returns the text of every recorded statement.
func (f *Fake) Queries() []string {
	calls := f.Calls()
	out := make([]string, len(calls))
	for i, call := range calls {
		out[i] = call.Query
	}
	return out
}

// QueriesMatching returns the recorded statements containing substr.
func (f *Fake) QueriesMatching(substr string) []string {
	var out []string
	for _, q := range f.Queries() {
		if strings.Contains(q, substr) {
			out = append(out, q)
		}
	}
	return out
}

// Commits returns the number of committed transactions.
func (f *Fake) Commits() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.commits
}

// Rollbacks returns the number of rolled back transactions.
func (f *Fake) Rollbacks() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.rollbacks
}

// Closed reports whether any connection handed out has been closed.
func (f *Fake) Closed() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.closed
}

func (f *Fake) run(query string, args []driver.NamedValue, inTx bool) (*Result, error) {
	values := make([]driver.Value, len(args))
	for i, a := range args {
		values[i] = a.Value
	}

	f.mu.Lock()
	f.calls = append(f.calls, Call{Query: query, Args: values, InTx: inTx})
	handler := f.handler
	f.mu.Unlock()

	res, err := handler(query, values)
	if err != nil {
		return nil, err
	}
	if res == nil {
		res = &Result{}
	}
	return res, nil
}

type connector struct {
	f *Fake
}

func (c connector) Connect(context.Context) (driver.Conn, error) {
	return &conn{f: c.f}, nil
}

func (c connector) Driver() driver.Driver {
	return fakeDriver{f: c.f}
}

type fakeDriver struct {
	f *Fake
}

func (d fakeDriver) Open(string) (driver.Conn, error) {
	return &conn{f: d.f}, nil
}

type conn struct {
	f    *Fake
	inTx bool
}

var (
	_ driver.ExecerContext  = (*conn)(nil)
	_ driver.QueryerContext = (*conn)(nil)
	_ driver.ConnBeginTx    = (*conn)(nil)
)

func (c *conn) Prepare(string) (driver.Stmt, error) {
	return nil, errors.New("dbtest: prepared statements are not supported")
}

func (c *conn) Close() error {
	c.f.mu.Lock()
	c.f.closed = true
	c.f.mu.Unlock()
	return nil
}

func (c *conn) Begin() (driver.Tx, error) {
	return c.BeginTx(context.Background(), driver.TxOptions{})
}

func (c *conn) BeginTx(context.Context, driver.TxOptions) (driver.Tx, error) {
	c.inTx = true
	return &tx{c: c}, nil
}

func (c *conn) ExecContext(_ context.Context, query string, args []driver.NamedValue) (driver.Result, error) {
	res, err := c.f.run(query, args, c.inTx)
	if err != nil {
		return nil, err
	}
	return driver.RowsAffected(res.RowsAffected), nil
}

func (c *conn) QueryContext(_ context.Context, query string, args []driver.NamedValue) (driver.Rows, error) {
	res, err := c.f.run(query, args, c.inTx)
	if err != nil {
		return nil, err
	}
	return &rows{columns: res.Columns, data: res.Rows}, nil
}

type tx struct {
	c *conn
}

func (t *tx) Commit() error {
	t.c.inTx = false
	t.c.f.mu.Lock()
	t.c.f.commits++
	t.c.f.mu.Unlock()
	return nil
}

func (t *tx) Rollback() error {
	t.c.inTx = false
	t.c.f.mu.Lock()
	t.c.f.rollbacks++
	t.c.f.mu.Unlock()
	return nil
}

type rows struct {
	columns []string
	data    [][]driver.Value
	pos     int
}

func (r *rows) Columns() []string {
	return r.columns
}

func (r *rows) Close() error {
	return nil
}

func (r *rows) Next(dest []driver.Value) error {
	if r.pos >= len(r.data) {
		return io.EOF
	}
	copy(dest, r.data[r.pos])
	r.pos++
	return nil
}
