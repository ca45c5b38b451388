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

// Package record is a thin CRUD facade over a named table. It compiles
// query condition trees into parameterized statements, executes them on any
// DBTX connection (*sql.DB or *sql.Tx), and returns rows as maps.
//
// The facade owns the identifier boundary the query compiler deliberately
// leaves open: table names, column names, condition fields, and sort fields
// are allowlisted against a strict identifier pattern before any SQL text is
// assembled. Values always travel as bound parameters. The one exception is
// List, which splices a caller-supplied types.QueryFilter schema verbatim;
// that schema must be program text, never user input. Driver errors
// propagate unchanged apart from %w wrapping; use database.IsSQLError to
// classify them.
package record
