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
	"testing"

	"github.com/tomoncle/sparrow/query"
	"github.com/tomoncle/sparrow/types"
	"github.com/uptrace/bun/driver/sqliteshim"
)

func newTestStore(t *testing.T) (*Store, *sql.DB) {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := sql.Open(sqliteshim.ShimName, dsn)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec(`CREATE TABLE users (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL,
		age INTEGER NOT NULL,
		status TEXT NOT NULL DEFAULT 'active',
		department TEXT,
		deleted_at TEXT
	)`)
	if err != nil {
		t.Fatalf("create table: %v", err)
	}

	store, err := New(db, "users", WithBind(BindQuestion))
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	return store, db
}

func seedUsers(t *testing.T, store *Store, n int) {
	t.Helper()
	ctx := context.Background()
	for i := 1; i <= n; i++ {
		status := "active"
		if i%5 == 0 {
			status = "disabled"
		}
		_, err := store.Insert(ctx, Row{
			"name":   fmt.Sprintf("user-%02d", i),
			"age":    15 + i,
			"status": status,
		})
		if err != nil {
			t.Fatalf("seed insert %d: %v", i, err)
		}
	}
}

func TestInsertReturnsStoredRow(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	row, err := store.Insert(ctx, Row{"name": "alice", "age": 30, "status": "active"})
	if err != nil {
		t.Fatalf("insert: %v", err)
	}
	if row["id"] == nil {
		t.Error("generated id missing from returned row")
	}
	if row["name"] != "alice" {
		t.Errorf("name = %v", row["name"])
	}
	if row["deleted_at"] != nil {
		t.Errorf("deleted_at = %v, want nil", row["deleted_at"])
	}
}

func TestFindWithNestedConditions(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()
	for _, u := range []Row{
		{"name": "ann", "age": 25, "status": "active", "department": "IT"},
		{"name": "bob", "age": 17, "status": "active", "department": "IT"},
		{"name": "cid", "age": 40, "status": "disabled", "department": "HR"},
		{"name": "dee", "age": 31, "status": "active", "department": "HR"},
	} {
		if _, err := store.Insert(ctx, u); err != nil {
			t.Fatalf("insert: %v", err)
		}
	}

	where := query.Or(
		query.And(query.Eq("status", "active"), query.Gte("age", 18)),
		query.Eq("department", "HR"),
	)
	rows, err := store.Find(ctx, &where, Order("name"))
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("got %d rows, want 3", len(rows))
	}
	if rows[0]["name"] != "ann" || rows[1]["name"] != "cid" || rows[2]["name"] != "dee" {
		t.Errorf("unexpected order: %v %v %v", rows[0]["name"], rows[1]["name"], rows[2]["name"])
	}
}

func TestFindNilWhereReturnsEverything(t *testing.T) {
	store, _ := newTestStore(t)
	seedUsers(t, store, 4)

	rows, err := store.Find(context.Background(), nil)
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if len(rows) != 4 {
		t.Errorf("got %d rows, want 4", len(rows))
	}
}

func TestFindLikeAndIn(t *testing.T) {
	store, _ := newTestStore(t)
	seedUsers(t, store, 12)
	ctx := context.Background()

	like := query.And(query.Like("name", "user-0%"))
	rows, err := store.Find(ctx, &like)
	if err != nil {
		t.Fatalf("find like: %v", err)
	}
	if len(rows) != 9 {
		t.Errorf("LIKE matched %d rows, want 9", len(rows))
	}

	in := query.And(query.In("name", "user-01", "user-07", "user-11"))
	rows, err = store.Find(ctx, &in)
	if err != nil {
		t.Fatalf("find in: %v", err)
	}
	if len(rows) != 3 {
		t.Errorf("IN matched %d rows, want 3", len(rows))
	}

	empty := query.And(query.In("name"))
	rows, err = store.Find(ctx, &empty)
	if err != nil {
		t.Fatalf("find empty in: %v", err)
	}
	if len(rows) != 0 {
		t.Errorf("empty IN matched %d rows, want 0", len(rows))
	}
}

func TestListRawFilter(t *testing.T) {
	store, _ := newTestStore(t)
	seedUsers(t, store, 10)
	ctx := context.Background()

	filter := types.NewQueryFilter("age >= $1 AND status = $2", 20, "active")
	rows, err := store.List(ctx, filter, Order("age ASC"))
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(rows) != 4 {
		t.Fatalf("got %d rows, want 4", len(rows))
	}
	if rows[0]["name"] != "user-06" {
		t.Errorf("first row = %v, want user-06", rows[0]["name"])
	}

	rows, err = store.List(ctx, nil)
	if err != nil {
		t.Fatalf("list nil filter: %v", err)
	}
	if len(rows) != 10 {
		t.Errorf("nil filter matched %d rows, want 10", len(rows))
	}
}

func TestFindNullChecks(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()
	if _, err := store.Insert(ctx, Row{"name": "kept", "age": 20}); err != nil {
		t.Fatalf("insert: %v", err)
	}
	if _, err := store.Insert(ctx, Row{"name": "gone", "age": 21, "deleted_at": "2025-06-01"}); err != nil {
		t.Fatalf("insert: %v", err)
	}

	alive := query.And(query.IsNull("deleted_at"))
	rows, err := store.Find(ctx, &alive)
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if len(rows) != 1 || rows[0]["name"] != "kept" {
		t.Errorf("IS NULL rows = %v", rows)
	}

	dead := query.And(query.IsNotNull("deleted_at"))
	if rows, err = store.Find(ctx, &dead); err != nil || len(rows) != 1 {
		t.Errorf("IS NOT NULL rows = %v err = %v", rows, err)
	}
}

func TestFindOneNoRows(t *testing.T) {
	store, _ := newTestStore(t)
	where := query.And(query.Eq("name", "missing"))
	_, err := store.FindOne(context.Background(), &where)
	if !errors.Is(err, sql.ErrNoRows) {
		t.Errorf("err = %v, want sql.ErrNoRows", err)
	}
}

func TestUpdateReturningAfterSetParams(t *testing.T) {
	store, _ := newTestStore(t)
	seedUsers(t, store, 10)
	ctx := context.Background()

	// The WHERE placeholders continue the numbering after two SET values.
	where := query.And(query.Gte("age", 20), query.Eq("status", "active"))
	rows, err := store.Update(ctx, Row{"status": "retired", "department": "none"}, &where)
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if len(rows) == 0 {
		t.Fatal("update matched no rows")
	}
	for _, row := range rows {
		if row["status"] != "retired" || row["department"] != "none" {
			t.Errorf("row not updated: %v", row)
		}
	}

	retired := query.And(query.Eq("status", "retired"))
	count, err := store.Count(ctx, &retired)
	if err != nil || count != len(rows) {
		t.Errorf("count = %d err = %v, want %d", count, err, len(rows))
	}
}

func TestDeleteReturning(t *testing.T) {
	store, _ := newTestStore(t)
	seedUsers(t, store, 10)
	ctx := context.Background()

	where := query.And(query.Eq("status", "disabled"))
	rows, err := store.Delete(ctx, &where)
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("deleted %d rows, want 2", len(rows))
	}

	remaining, err := store.Count(ctx, nil)
	if err != nil || remaining != 8 {
		t.Errorf("remaining = %d err = %v, want 8", remaining, err)
	}
}

func TestPage(t *testing.T) {
	store, _ := newTestStore(t)
	seedUsers(t, store, 25)
	ctx := context.Background()

	page, err := store.Page(ctx, types.NewPageRequest(2, 10, nil, []string{"id ASC"}))
	if err != nil {
		t.Fatalf("page: %v", err)
	}
	if page.Total != 25 {
		t.Errorf("total = %d, want 25", page.Total)
	}
	if len(page.Items) != 10 {
		t.Fatalf("items = %d, want 10", len(page.Items))
	}
	if id, ok := page.Items[0]["id"].(int64); !ok || id != 11 {
		t.Errorf("first item id = %v, want 11", page.Items[0]["id"])
	}
}

func TestPageWithRawFilter(t *testing.T) {
	store, _ := newTestStore(t)
	seedUsers(t, store, 12)

	filter := types.NewQueryFilter("status = $1", "active")
	page, err := store.Page(context.Background(), types.NewPageRequestWithFilter(2, 4, filter))
	if err != nil {
		t.Fatalf("page: %v", err)
	}
	if page.Total != 10 {
		t.Errorf("total = %d, want 10", page.Total)
	}
	if len(page.Items) != 4 {
		t.Fatalf("items = %d, want 4", len(page.Items))
	}
}

func TestPageNoMatches(t *testing.T) {
	store, _ := newTestStore(t)
	seedUsers(t, store, 3)

	where := query.And(query.Eq("status", "archived"))
	page, err := store.Page(context.Background(), types.NewPageRequestWithWhere(1, 10, &where))
	if err != nil {
		t.Fatalf("page: %v", err)
	}
	if page.Total != 0 || len(page.Items) != 0 {
		t.Errorf("page = %+v, want empty", page)
	}
}

func TestIdentifierValidation(t *testing.T) {
	store, db := newTestStore(t)
	ctx := context.Background()

	if _, err := New(db, "users; DROP TABLE users"); !errors.Is(err, ErrInvalidIdent) {
		t.Errorf("table name: err = %v, want ErrInvalidIdent", err)
	}

	bad := query.And(query.Eq("name = '' OR 1=1 --", "x"))
	if _, err := store.Find(ctx, &bad); !errors.Is(err, ErrInvalidIdent) {
		t.Errorf("condition field: err = %v, want ErrInvalidIdent", err)
	}

	if _, err := store.Find(ctx, nil, Order("name; --")); !errors.Is(err, ErrInvalidIdent) {
		t.Errorf("order term: err = %v, want ErrInvalidIdent", err)
	}

	if _, err := store.Insert(ctx, Row{"name) VALUES ('x'); --": "y"}); !errors.Is(err, ErrInvalidIdent) {
		t.Errorf("insert column: err = %v, want ErrInvalidIdent", err)
	}

	if _, err := store.Insert(ctx, Row{}); !errors.Is(err, ErrNoColumns) {
		t.Errorf("empty insert: err = %v, want ErrNoColumns", err)
	}
}

func TestWithTxRollback(t *testing.T) {
	store, db := newTestStore(t)
	ctx := context.Background()

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		t.Fatalf("begin: %v", err)
	}
	if _, err := store.WithTx(tx).Insert(ctx, Row{"name": "ghost", "age": 99}); err != nil {
		t.Fatalf("insert in tx: %v", err)
	}
	if err := tx.Rollback(); err != nil {
		t.Fatalf("rollback: %v", err)
	}

	count, err := store.Count(ctx, nil)
	if err != nil || count != 0 {
		t.Errorf("count after rollback = %d err = %v, want 0", count, err)
	}
}
