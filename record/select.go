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
	"fmt"
	"strings"
)

// SelectOption adjusts ordering and windowing of Find queries.
type SelectOption func(*selectOptions)

type selectOptions struct {
	orders []string
	limit  int
	offset int
}

func newSelectOptions(opts []SelectOption) *selectOptions {
	sel := &selectOptions{limit: -1, offset: -1}
	for _, opt := range opts {
		opt(sel)
	}
	return sel
}

// Order adds ORDER BY terms of the form "column" or "column DESC".
func Order(orders ...string) SelectOption {
	return func(s *selectOptions) {
		for _, o := range orders {
			if o != "" {
				s.orders = append(s.orders, o)
			}
		}
	}
}

// Limit caps the number of returned rows. Non-positive values disable it.
func Limit(limit int) SelectOption {
	return func(s *selectOptions) { s.limit = limit }
}

// Offset skips the given number of rows. Non-positive values disable it.
func Offset(offset int) SelectOption {
	return func(s *selectOptions) { s.offset = offset }
}

// suffix renders the validated ORDER BY / LIMIT / OFFSET tail.
func (s *selectOptions) suffix() (string, error) {
	var b strings.Builder
	if len(s.orders) > 0 {
		terms := make([]string, len(s.orders))
		for i, order := range s.orders {
			term, err := orderTerm(order)
			if err != nil {
				return "", err
			}
			terms[i] = term
		}
		b.WriteString(" ORDER BY ")
		b.WriteString(strings.Join(terms, ", "))
	}
	if s.limit > 0 {
		fmt.Fprintf(&b, " LIMIT %d", s.limit)
	}
	if s.offset > 0 {
		fmt.Fprintf(&b, " OFFSET %d", s.offset)
	}
	return b.String(), nil
}

// orderTerm validates a "column [ASC|DESC]" ordering term. Sort columns are
// interpolated into the statement, so they go through the same identifier
// allowlist as everything else.
func orderTerm(order string) (string, error) {
	parts := strings.Fields(order)
	switch len(parts) {
	case 1:
		if err := validIdent(parts[0]); err != nil {
			return "", err
		}
		return parts[0], nil
	case 2:
		if err := validIdent(parts[0]); err != nil {
			return "", err
		}
		direction := strings.ToUpper(parts[1])
		if direction != "ASC" && direction != "DESC" {
			return "", fmt.Errorf("%w: sort direction %q", ErrInvalidIdent, parts[1])
		}
		return parts[0] + " " + direction, nil
	default:
		return "", fmt.Errorf("%w: order term %q", ErrInvalidIdent, order)
	}
}
