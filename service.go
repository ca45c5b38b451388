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

package sparrow

import (
	"context"
	"errors"
	"sync"

	"github.com/tomoncle/sparrow/database"
	"github.com/tomoncle/sparrow/query"
	"github.com/tomoncle/sparrow/record"
	"github.com/tomoncle/sparrow/types"
	"github.com/tomoncle/sparrow/upload"
)

// Init connects the global database using the provided configuration.
func Init(cfg *database.Config) error {
	_, err := database.Init(cfg)
	return err
}

// InitFromFile loads a YAML configuration file and connects the global
// database.
func InitFromFile(path string) error {
	cfg, err := database.LoadConfig(path)
	if err != nil {
		return err
	}
	return Init(cfg)
}

// Close shuts down the global database connection.
func Close() error {
	return database.Close()
}

// ErrNotConnected reports a table access before Init connected the global
// database.
var ErrNotConnected = errors.New("sparrow: database not connected, call Init first")

// Table returns a record store for the named table bound to the global
// database connection, choosing the placeholder style from the configured
// dialect.
func Table(name string) (*record.Store, error) {
	conn := database.GetSQLDB()
	if conn == nil {
		return nil, ErrNotConnected
	}
	opts := []record.Option{}
	if database.DriverType() != "postgres" {
		opts = append(opts, record.WithBind(record.BindQuestion))
	}
	return record.New(conn, name, opts...)
}

// NewUploader builds a file uploader for an S3-compatible object store.
func NewUploader(cfg upload.Config) (*upload.Uploader, error) {
	return upload.New(cfg)
}

// Service is a per-table convenience facade over the global database.
type Service interface {
	// Get returns the row whose id column equals id.
	Get(ctx context.Context, id any) (record.Row, error)

	// All returns every row of the table.
	All(ctx context.Context) ([]record.Row, error)

	// Find returns the rows matching the condition tree.
	Find(ctx context.Context, where *query.Group, opts ...record.SelectOption) ([]record.Row, error)

	// List returns the rows matching a raw filter clause.
	List(ctx context.Context, filter *types.QueryFilter, opts ...record.SelectOption) ([]record.Row, error)

	// FindOne returns the first row matching the condition tree.
	FindOne(ctx context.Context, where *query.Group, opts ...record.SelectOption) (record.Row, error)

	// Page returns a paginated list of matching rows.
	Page(ctx context.Context, page *types.PageRequest) (*types.Pagination[record.Row], error)

	// Create inserts one row and returns it as stored.
	Create(ctx context.Context, values record.Row) (record.Row, error)

	// Update modifies every matching row and returns the updated rows.
	Update(ctx context.Context, changes record.Row, where *query.Group) ([]record.Row, error)

	// Delete removes every matching row and returns the deleted rows.
	Delete(ctx context.Context, where *query.Group) ([]record.Row, error)

	// Count returns the number of matching rows.
	Count(ctx context.Context, where *query.Group) (int, error)

	// Store exposes the underlying record store, e.g. to run inside a
	// transaction via Store().WithTx(tx).
	Store() (*record.Store, error)
}

// NewService returns a Service for the named table, binding lazily to the
// global database connection.
func NewService(table string) Service {
	return &baseServiceImpl{table: table}
}

type baseServiceImpl struct {
	table string
	mu    sync.Mutex
	store *record.Store
}

// Store binds lazily so services can be declared before Init connects the
// database; a failed bind is retried on the next call.
func (s *baseServiceImpl) Store() (*record.Store, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.store == nil {
		store, err := Table(s.table)
		if err != nil {
			return nil, err
		}
		s.store = store
	}
	return s.store, nil
}

func (s *baseServiceImpl) Get(ctx context.Context, id any) (record.Row, error) {
	where := query.And(query.Eq("id", id))
	return s.FindOne(ctx, &where)
}

func (s *baseServiceImpl) All(ctx context.Context) ([]record.Row, error) {
	return s.Find(ctx, nil)
}

func (s *baseServiceImpl) Find(ctx context.Context, where *query.Group, opts ...record.SelectOption) ([]record.Row, error) {
	store, err := s.Store()
	if err != nil {
		return nil, err
	}
	return store.Find(ctx, where, opts...)
}

func (s *baseServiceImpl) List(ctx context.Context, filter *types.QueryFilter, opts ...record.SelectOption) ([]record.Row, error) {
	store, err := s.Store()
	if err != nil {
		return nil, err
	}
	return store.List(ctx, filter, opts...)
}

func (s *baseServiceImpl) FindOne(ctx context.Context, where *query.Group, opts ...record.SelectOption) (record.Row, error) {
	store, err := s.Store()
	if err != nil {
		return nil, err
	}
	return store.FindOne(ctx, where, opts...)
}

func (s *baseServiceImpl) Page(ctx context.Context, page *types.PageRequest) (*types.Pagination[record.Row], error) {
	store, err := s.Store()
	if err != nil {
		return nil, err
	}
	return store.Page(ctx, page)
}

func (s *baseServiceImpl) Create(ctx context.Context, values record.Row) (record.Row, error) {
	store, err := s.Store()
	if err != nil {
		return nil, err
	}
	return store.Insert(ctx, values)
}

func (s *baseServiceImpl) Update(ctx context.Context, changes record.Row, where *query.Group) ([]record.Row, error) {
	store, err := s.Store()
	if err != nil {
		return nil, err
	}
	return store.Update(ctx, changes, where)
}

func (s *baseServiceImpl) Delete(ctx context.Context, where *query.Group) ([]record.Row, error) {
	store, err := s.Store()
	if err != nil {
		return nil, err
	}
	return store.Delete(ctx, where)
}

func (s *baseServiceImpl) Count(ctx context.Context, where *query.Group) (int, error) {
	store, err := s.Store()
	if err != nil {
		return 0, err
	}
	return store.Count(ctx, where)
}
