package repository

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/nvminh162/aurora-hotel-system-sub000/internal/bookingedit"
	"github.com/nvminh162/aurora-hotel-system-sub000/internal/model"
)

// scriptedConn is a database/sql driver connection that answers every
// query with rows and every exec with affected, and records statements.
type scriptedConn struct {
	mu       sync.Mutex
	rows     [][]driver.Value
	affected int64
	execs    []string
	commits  int
	rollback int
}

func (c *scriptedConn) Prepare(q string) (driver.Stmt, error) { return &scriptedStmt{c: c, q: q}, nil }
func (c *scriptedConn) Close() error                          { return nil }
func (c *scriptedConn) Begin() (driver.Tx, error)             { return scriptedTx{c}, nil }

func (c *scriptedConn) Connect(context.Context) (driver.Conn, error) { return c, nil }
func (c *scriptedConn) Driver() driver.Driver                        { return c }
func (c *scriptedConn) Open(string) (driver.Conn, error)             { return c, nil }

type scriptedTx struct{ c *scriptedConn }

func (t scriptedTx) Commit() error {
	t.c.mu.Lock()
	t.c.commits++
	t.c.mu.Unlock()
	return nil
}

func (t scriptedTx) Rollback() error {
	t.c.mu.Lock()
	t.c.rollback++
	t.c.mu.Unlock()
	return nil
}

type scriptedStmt struct {
	c *scriptedConn
	q string
}

func (s *scriptedStmt) Close() error  { return nil }
func (s *scriptedStmt) NumInput() int { return -1 }

func (s *scriptedStmt) Exec([]driver.Value) (driver.Result, error) {
	s.c.mu.Lock()
	defer s.c.mu.Unlock()
	s.c.execs = append(s.c.execs, strings.Fields(s.q)[0])
	return driver.RowsAffected(s.c.affected), nil
}

func (s *scriptedStmt) Query([]driver.Value) (driver.Rows, error) {
	s.c.mu.Lock()
	defer s.c.mu.Unlock()
	return &scriptedRows{rows: s.c.rows}, nil
}

type scriptedRows struct {
	rows [][]driver.Value
	i    int
}

func (r *scriptedRows) Columns() []string { return strings.Split(changeSetColumns, ", ") }
func (r *scriptedRows) Close() error      { return nil }

func (r *scriptedRows) Next(dest []driver.Value) error {
	if r.i >= len(r.rows) {
		return io.EOF
	}
	copy(dest, r.rows[r.i])
	r.i++
	return nil
}

func newScriptedRepo(t *testing.T, c *scriptedConn) *ChangeSetRepo {
	t.Helper()
	db := sql.OpenDB(c)
	t.Cleanup(func() { db.Close() })
	return NewChangeSetRepo(db)
}

var stamp = time.Date(2026, 10, 17, 9, 0, 0, 0, time.UTC)

func ledgerRow(key, status string, result []byte, errMsg any) []driver.Value {
	return []driver.Value{key, "b-1", "staff-1", "hash-1", status, result, errMsg, stamp, stamp}
}

func pendingRecord() model.ChangeSetRecord {
	return model.ChangeSetRecord{IdempotencyKey: "s-1:4", BookingID: "b-1", Actor: "staff-1", RequestHash: "hash-1"}
}

func TestBeginInsertsNewKey(t *testing.T) {
	c := &scriptedConn{affected: 1}
	rec, created, err := newScriptedRepo(t, c).Begin(context.Background(), pendingRecord())
	if err != nil || !created || rec.Status != model.ChangeSetPending {
		t.Fatalf("Begin = %+v, %v, %v", rec, created, err)
	}
	if len(c.execs) != 1 || c.execs[0] != "INSERT" || c.commits != 1 {
		t.Fatalf("execs = %v commits = %d", c.execs, c.commits)
	}
}

func TestBeginReturnsExistingRecord(t *testing.T) {
	c := &scriptedConn{rows: [][]driver.Value{ledgerRow("s-1:4", model.ChangeSetCompleted, []byte(`{"replayed":false}`), nil)}}
	rec, created, err := newScriptedRepo(t, c).Begin(context.Background(), pendingRecord())
	if err != nil || created {
		t.Fatalf("Begin = %v, %v", created, err)
	}
	if rec.Status != model.ChangeSetCompleted || string(rec.Result) != `{"replayed":false}` || rec.ErrorMessage != "" || !rec.CreatedAt.Equal(stamp) {
		t.Fatalf("stored = %+v", rec)
	}
	if len(c.execs) != 0 {
		t.Fatalf("execs = %v", c.execs)
	}
}

func TestBeginRestartsFailedRecord(t *testing.T) {
	c := &scriptedConn{affected: 1, rows: [][]driver.Value{ledgerRow("s-1:4", model.ChangeSetFailed, nil, "backend down")}}
	rec, created, err := newScriptedRepo(t, c).Begin(context.Background(), pendingRecord())
	if err != nil || !created || rec.Status != model.ChangeSetPending {
		t.Fatalf("Begin = %+v, %v, %v", rec, created, err)
	}
	if len(c.execs) != 1 || c.execs[0] != "UPDATE" {
		t.Fatalf("execs = %v", c.execs)
	}
}

func TestFindAndFinishUnknownKey(t *testing.T) {
	repo := newScriptedRepo(t, &scriptedConn{})
	ctx := context.Background()
	if _, err := repo.Find(ctx, "nope"); !errors.Is(err, bookingedit.ErrLedgerNotFound) {
		t.Fatalf("Find = %v", err)
	}
	if err := repo.Complete(ctx, "nope", []byte("{}")); !errors.Is(err, bookingedit.ErrLedgerNotFound) {
		t.Fatalf("Complete = %v", err)
	}
	if err := repo.Fail(ctx, "nope", "x"); !errors.Is(err, bookingedit.ErrLedgerNotFound) {
		t.Fatalf("Fail = %v", err)
	}
}

func TestListByBookingScansRows(t *testing.T) {
	c := &scriptedConn{rows: [][]driver.Value{
		ledgerRow("s-2:1", model.ChangeSetFailed, nil, "room taken"),
		ledgerRow("s-1:4", model.ChangeSetCompleted, []byte("{}"), nil),
	}}
	recs, err := newScriptedRepo(t, c).ListByBooking(context.Background(), "b-1", 0)
	if err != nil || len(recs) != 2 {
		t.Fatalf("ListByBooking = %+v, %v", recs, err)
	}
	if recs[0].ErrorMessage != "room taken" || recs[1].Status != model.ChangeSetCompleted {
		t.Fatalf("records = %+v", recs)
	}
}
