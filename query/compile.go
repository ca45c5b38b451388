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

package query

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
)

var (
	// ErrInvalidInValue reports an IN condition whose value is not a
	// slice or array of scalars.
	ErrInvalidInValue = errors.New("query: IN operator requires a slice or array value")

	// ErrUnsupportedOperator reports an operator outside the supported set.
	ErrUnsupportedOperator = errors.New("query: unsupported operator")

	// ErrInvalidLogic reports a group connector other than AND/OR.
	ErrInvalidLogic = errors.New("query: group logic must be AND or OR")
)

// Compiled is the result of compiling a condition tree: the predicate text,
// the argument values referenced by its `$N` placeholders in order, and the
// first placeholder index not yet consumed.
type Compiled struct {
	Clause string
	Args   []any
	Next   int
}

// Compile flattens the condition tree into a parameterized predicate,
// numbering placeholders from start (1-based). The start index lets the
// predicate compose into a statement whose prefix already consumed
// placeholders, e.g. the SET clause of an UPDATE.
//
// The walk is depth-first and left-to-right, so the Nth placeholder in the
// clause always refers to the Nth element of Args. Nested groups are wrapped
// in a single pair of parentheses. Two degenerate inputs have fixed
// behavior: a group without children compiles to an empty clause (callers
// treat that as "no filtering"), and IN over an empty value list compiles to
// the constant-false clause "1 = 0" so the predicate matches nothing.
func Compile(g Group, start int) (Compiled, error) {
	if start < 1 {
		start = 1
	}
	acc := Compiled{Next: start}
	clause, err := compileGroup(g, &acc)
	if err != nil {
		return Compiled{Next: start}, err
	}
	acc.Clause = clause
	return acc, nil
}

func compileGroup(g Group, acc *Compiled) (string, error) {
	// A childless group means "no filtering"; its connector never renders,
	// so the zero value Group{} is acceptable input.
	if len(g.Nodes) == 0 {
		return "", nil
	}
	if g.Logic != LogicAnd && g.Logic != LogicOr {
		return "", fmt.Errorf("%w: %q", ErrInvalidLogic, string(g.Logic))
	}
	parts := make([]string, 0, len(g.Nodes))
	for _, node := range g.Nodes {
		switch v := node.(type) {
		case Condition:
			fragment, err := compileCondition(v, acc)
			if err != nil {
				return "", err
			}
			parts = append(parts, fragment)
		case Group:
			fragment, err := compileGroup(v, acc)
			if err != nil {
				return "", err
			}
			// Empty nested groups contribute nothing.
			if fragment == "" {
				continue
			}
			parts = append(parts, "("+fragment+")")
		default:
			return "", fmt.Errorf("query: unexpected node type %T", node)
		}
	}
	return strings.Join(parts, " "+string(g.Logic)+" "), nil
}

func compileCondition(c Condition, acc *Compiled) (string, error) {
	switch c.Operator {
	case OpIsNull, OpIsNotNull:
		return fmt.Sprintf("%s %s", c.Field, c.Operator), nil
	case OpIn:
		values, err := sequenceValues(c.Value)
		if err != nil {
			return "", fmt.Errorf("%w: field %q has %T value", err, c.Field, c.Value)
		}
		if len(values) == 0 {
			return "1 = 0", nil
		}
		placeholders := make([]string, len(values))
		for i, v := range values {
			acc.Args = append(acc.Args, v)
			placeholders[i] = fmt.Sprintf("$%d", acc.Next)
			acc.Next++
		}
		return fmt.Sprintf("%s IN (%s)", c.Field, strings.Join(placeholders, ", ")), nil
	case OpEq, OpNe, OpGt, OpLt, OpGte, OpLte, OpLike:
		acc.Args = append(acc.Args, c.Value)
		fragment := fmt.Sprintf("%s %s $%d", c.Field, c.Operator, acc.Next)
		acc.Next++
		return fragment, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedOperator, string(c.Operator))
	}
}

// sequenceValues normalizes the IN operand into []any. Strings and byte
// slices are scalars here, not sequences.
func sequenceValues(value any) ([]any, error) {
	switch v := value.(type) {
	case nil:
		return nil, ErrInvalidInValue
	case []any:
		return v, nil
	case []byte, string:
		return nil, ErrInvalidInValue
	}
	rv := reflect.ValueOf(value)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, ErrInvalidInValue
	}
	values := make([]any, rv.Len())
	for i := range values {
		values[i] = rv.Index(i).Interface()
	}
	return values, nil
}

// Rebind rewrites `$N` placeholders into the `?` form expected by the MySQL
// and SQLite drivers. Compiled clauses number placeholders strictly
// left-to-right, so positional rewriting preserves argument order.
func Rebind(clause string) string {
	var b strings.Builder
	b.Grow(len(clause))
	for i := 0; i < len(clause); i++ {
		if clause[i] != '$' || i+1 >= len(clause) || !isDigit(clause[i+1]) {
			b.WriteByte(clause[i])
			continue
		}
		b.WriteByte('?')
		for i+1 < len(clause) && isDigit(clause[i+1]) {
			i++
		}
	}
	return b.String()
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }
