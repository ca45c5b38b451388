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

// Package query compiles boolean condition trees into parameterized SQL
// predicate fragments.
//
// A tree is built from Condition leaves and Group nodes combined with AND/OR,
// then compiled depth-first into a clause string with positional `$N`
// placeholders and the matching ordered argument slice:
//
//	g := query.And(
//		query.Gte("age", 18),
//		query.Eq("status", "active"),
//	)
//	c, err := query.Compile(g, 1)
//	// c.Clause == "age >= $1 AND status = $2"
//	// c.Args   == []any{18, "active"}
//	// c.Next   == 3
//
// SECURITY: values are always parameterized, but field names and operators
// are interpolated verbatim into the clause text. The compiler performs no
// identifier sanitization at all; callers MUST validate or allowlist every
// field name (and any caller-supplied operator) before compiling. The record
// package does exactly that before building statements.
package query
