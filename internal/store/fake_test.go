package store

import (
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

/* ---------- 假實作 ---------- */

// fakeRow 依 dest 型別逐一填入 vals
type fakeRow struct {
	vals    []any
	scanErr error
}

func (r *fakeRow) Scan(dest ...any) error {
	if r.scanErr != nil {
		return r.scanErr
	}
	if len(dest) != len(r.vals) {
		panic(fmt.Sprintf("fakeRow.Scan: want %d dest, got %d", len(r.vals), len(dest)))
	}
	for i, d := range dest {
		switch p := d.(type) {
		case *int:
			*p = r.vals[i].(int)
		case *string:
			*p = r.vals[i].(string)
		case *bool:
			*p = r.vals[i].(bool)
		default:
			panic(fmt.Sprintf("fakeRow.Scan: unsupported dest %T", d))
		}
	}
	return nil
}

type fakeRows struct {
	rows    []*fakeRow
	idx     int
	err     error
	closed  bool
	current *fakeRow
}

func (r *fakeRows) Close()                                       { r.closed = true }
func (r *fakeRows) Err() error                                   { return r.err }
func (r *fakeRows) CommandTag() pgconn.CommandTag                { return pgconn.CommandTag{} }
func (r *fakeRows) FieldDescriptions() []pgconn.FieldDescription { return nil }
func (r *fakeRows) Values() ([]any, error)                       { return nil, nil }
func (r *fakeRows) RawValues() [][]byte                          { return nil }
func (r *fakeRows) Conn() *pgx.Conn                              { return nil }

func (r *fakeRows) Next() bool {
	if r.idx >= len(r.rows) {
		return false
	}
	r.current = r.rows[r.idx]
	r.idx++
	return true
}

func (r *fakeRows) Scan(dest ...any) error { return r.current.Scan(dest...) }

func cafeVals(id int, name, cityCode string) []any {
	return []any{id, name, "desc", "https://example.com", "1 Main St", cityCode, "/img.jpg", cityCode, "San Francisco", "CA"}
}

func userVals(id int, username string) []any {
	return []any{id, username, false, "u@example.com", "Test", "User", "bio", "/pic.png", "hash"}
}
