package repository

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scriptConn is a database/sql driver connection scripted with the rows a
// budget delete reads, recording every statement it executes.
type scriptConn struct {
	itemRow        []driver.Value // row returned for the item lookup
	parentChildIDs *string        // child_ids of the parent row; nil means parent gone
	execs          []execCall
}

type execCall struct {
	query string
	args  []driver.Value
}

type scriptConnector struct{ conn *scriptConn }

func (s *scriptConnector) Connect(context.Context) (driver.Conn, error) { return s.conn, nil }
func (s *scriptConnector) Driver() driver.Driver                        { return nil }

func (c *scriptConn) Prepare(string) (driver.Stmt, error) { return nil, errors.New("not supported") }
func (c *scriptConn) Close() error                        { return nil }
func (c *scriptConn) Begin() (driver.Tx, error)           { return nopTx{}, nil }

type nopTx struct{}

func (nopTx) Commit() error   { return nil }
func (nopTx) Rollback() error { return nil }

func (c *scriptConn) QueryContext(_ context.Context, query string, _ []driver.NamedValue) (driver.Rows, error) {
	if strings.Contains(query, "SELECT child_ids") {
		rows := &valueRows{cols: []string{"child_ids"}}
		if c.parentChildIDs != nil {
			rows.data = [][]driver.Value{{*c.parentChildIDs}}
		}
		return rows, nil
	}
	rows := &valueRows{cols: strings.Split(budgetColumns, ",")}
	if c.itemRow != nil {
		rows.data = [][]driver.Value{c.itemRow}
	}
	return rows, nil
}

func (c *scriptConn) ExecContext(_ context.Context, query string, nv []driver.NamedValue) (driver.Result, error) {
	args := make([]driver.Value, len(nv))
	for i := range nv {
		args[i] = nv[i].Value
	}
	c.execs = append(c.execs, execCall{query: query, args: args})
	return driver.RowsAffected(1), nil
}

type valueRows struct {
	cols []string
	data [][]driver.Value
}

func (r *valueRows) Columns() []string { return r.cols }
func (r *valueRows) Close() error      { return nil }
func (r *valueRows) Next(dest []driver.Value) error {
	if len(r.data) == 0 {
		return io.EOF
	}
	copy(dest, r.data[0])
	r.data = r.data[1:]
	return nil
}

// budgetRow builds a driver row in budgetColumns order.
func budgetRow(id, productionID uint64, parentID driver.Value, childIDs string) []driver.Value {
	now := time.Date(2026, time.March, 9, 12, 0, 0, 0, time.UTC)
	return []driver.Value{
		int64(id), int64(productionID), "Gaffer", "2100", "personnel", "electric", "Crew",
		int64(1), int64(5), int64(75000), nil, parentID, childIDs, nil, false, now, now,
	}
}

func scriptedRepo(t *testing.T, conn *scriptConn) *BudgetRepo {
	t.Helper()
	db := sql.OpenDB(&scriptConnector{conn: conn})
	t.Cleanup(func() { _ = db.Close() })
	return NewBudgetRepo(db)
}

// findExec returns the first recorded statement containing the fragment.
func findExec(execs []execCall, fragment string) *execCall {
	for i := range execs {
		if strings.Contains(execs[i].query, fragment) {
			return &execs[i]
		}
	}
	return nil
}

func TestDeleteChildRewritesParentChildList(t *testing.T) {
	parentChildIDs := "41,42,43"
	conn := &scriptConn{
		itemRow:        budgetRow(42, 3, int64(10), ""),
		parentChildIDs: &parentChildIDs,
	}
	repo := scriptedRepo(t, conn)

	require.NoError(t, repo.Delete(context.Background(), 42, 3))

	rewrite := findExec(conn.execs, "SET child_ids")
	require.NotNil(t, rewrite, "parent child_ids were not rewritten")
	assert.Equal(t, "41,43", rewrite.args[0])
	assert.Equal(t, int64(10), rewrite.args[1])

	del := findExec(conn.execs, "DELETE FROM budget_items WHERE id = ?")
	require.NotNil(t, del)
	assert.Equal(t, int64(42), del.args[0])
}

func TestDeleteChildParentAlreadyGone(t *testing.T) {
	conn := &scriptConn{itemRow: budgetRow(42, 3, int64(10), "")}
	repo := scriptedRepo(t, conn)

	require.NoError(t, repo.Delete(context.Background(), 42, 3))

	assert.Nil(t, findExec(conn.execs, "SET child_ids"))
	del := findExec(conn.execs, "DELETE FROM budget_items WHERE id = ?")
	require.NotNil(t, del)
	assert.Equal(t, int64(42), del.args[0])
}

func TestDeleteParentRemovesChildren(t *testing.T) {
	conn := &scriptConn{itemRow: budgetRow(10, 3, nil, "41,43")}
	repo := scriptedRepo(t, conn)

	require.NoError(t, repo.Delete(context.Background(), 10, 3))

	children := findExec(conn.execs, "DELETE FROM budget_items WHERE parent_id = ?")
	require.NotNil(t, children, "grouped children were not deleted with their parent")
	assert.Equal(t, int64(10), children.args[0])

	del := findExec(conn.execs, "DELETE FROM budget_items WHERE id = ?")
	require.NotNil(t, del)
	assert.Equal(t, int64(10), del.args[0])
}

func TestDeleteMissingItem(t *testing.T) {
	conn := &scriptConn{}
	repo := scriptedRepo(t, conn)

	err := repo.Delete(context.Background(), 99, 3)
	assert.ErrorIs(t, err, ErrBudgetItemNotFound)
	assert.Empty(t, conn.execs, "nothing should be deleted for an unknown item")
}
