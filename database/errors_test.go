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

package database

import (
	"database/sql"
	"errors"
	"fmt"
	"testing"

	"github.com/go-sql-driver/mysql"
	"github.com/lib/pq"
)

func TestIsSQLError(t *testing.T) {
	cases := []struct {
		name string
		err  error
		is   bool
		want SQLError
	}{
		{"nil", nil, false, UnknownErr},
		{"no rows", sql.ErrNoRows, true, NoRowsErr},
		{"wrapped no rows", fmt.Errorf("query users: %w", sql.ErrNoRows), true, NoRowsErr},
		{"mysql unknown column", &mysql.MySQLError{Number: 1054, Message: "Unknown column"}, true, NoColumnErr},
		{"mysql missing table", &mysql.MySQLError{Number: 1146, Message: "Table doesn't exist"}, true, NoTableErr},
		{"mysql duplicate key", &mysql.MySQLError{Number: 1062, Message: "Duplicate entry"}, true, DuplicateKeyErr},
		{"mysql foreign key", &mysql.MySQLError{Number: 1452, Message: "Cannot add or update"}, true, ForeignKeyViolationErr},
		{"mysql other", &mysql.MySQLError{Number: 1045, Message: "Access denied"}, true, UnknownErr},
		{"pq unique violation", &pq.Error{Code: "23505"}, true, DuplicateKeyErr},
		{"pq undefined table", &pq.Error{Code: "42P01"}, true, NoTableErr},
		{"pq not null", &pq.Error{Code: "23502"}, true, NotNullViolationErr},
		{"pq cast", &pq.Error{Code: "42804"}, true, InvalidTypeCastErr},
		{"sqlite missing table", errors.New("SQL logic error: no such table: users (1)"), true, NoTableErr},
		{"sqlite unique", errors.New("constraint failed: UNIQUE constraint failed: users.name (2067)"), true, DuplicateKeyErr},
		{"sqlite not null", errors.New("constraint failed: NOT NULL constraint failed: users.name (1299)"), true, NotNullViolationErr},
		{"unrelated", errors.New("dial tcp: connection refused"), false, UnknownErr},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			is, sqlErr := IsSQLError(tc.err)
			if is != tc.is || sqlErr != tc.want {
				t.Fatalf("IsSQLError() = (%v, %v), want (%v, %v)", is, sqlErr, tc.is, tc.want)
			}
		})
	}
}
