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

// Operator is a SQL comparison operator applied to a single field.
type Operator string

const (
	OpEq        Operator = "="
	OpNe        Operator = "!="
	OpGt        Operator = ">"
	OpLt        Operator = "<"
	OpGte       Operator = ">="
	OpLte       Operator = "<="
	OpLike      Operator = "LIKE"
	OpIn        Operator = "IN"
	OpIsNull    Operator = "IS NULL"
	OpIsNotNull Operator = "IS NOT NULL"
)

// Logic joins the children of a Group.
type Logic string

const (
	LogicAnd Logic = "AND"
	LogicOr  Logic = "OR"
)

// Node is either a Condition leaf or a nested Group.
type Node interface {
	node()
}

// Condition is a single field/operator/value predicate. Value is a scalar,
// or a slice of scalars when Operator is OpIn, and is ignored for
// OpIsNull/OpIsNotNull.
type Condition struct {
	Field    string
	Operator Operator
	Value    any
}

func (Condition) node() {}

// Group combines an ordered list of conditions and nested groups with a
// single logical connector. Groups nest to arbitrary depth.
type Group struct {
	Logic Logic
	Nodes []Node
}

func (Group) node() {}

// IsEmpty reports whether the group contains no children at all.
func (g Group) IsEmpty() bool { return len(g.Nodes) == 0 }

// Fields returns every field name referenced by the tree, depth-first.
// Callers use this to validate identifiers before compiling.
func (g Group) Fields() []string {
	var fields []string
	for _, n := range g.Nodes {
		switch v := n.(type) {
		case Condition:
			fields = append(fields, v.Field)
		case Group:
			fields = append(fields, v.Fields()...)
		}
	}
	return fields
}

// And groups the given nodes with the AND connector.
func And(nodes ...Node) Group {
	return Group{Logic: LogicAnd, Nodes: nodes}
}

// Or groups the given nodes with the OR connector.
func Or(nodes ...Node) Group {
	return Group{Logic: LogicOr, Nodes: nodes}
}

// Eq builds a "field = value" condition.
func Eq(field string, value any) Condition {
	return Condition{Field: field, Operator: OpEq, Value: value}
}

// Ne builds a "field != value" condition.
func Ne(field string, value any) Condition {
	return Condition{Field: field, Operator: OpNe, Value: value}
}

// Gt builds a "field > value" condition.
func Gt(field string, value any) Condition {
	return Condition{Field: field, Operator: OpGt, Value: value}
}

// Lt builds a "field < value" condition.
func Lt(field string, value any) Condition {
	return Condition{Field: field, Operator: OpLt, Value: value}
}

// Gte builds a "field >= value" condition.
func Gte(field string, value any) Condition {
	return Condition{Field: field, Operator: OpGte, Value: value}
}

// Lte builds a "field <= value" condition.
func Lte(field string, value any) Condition {
	return Condition{Field: field, Operator: OpLte, Value: value}
}

// Like builds a "field LIKE value" condition.
func Like(field string, value any) Condition {
	return Condition{Field: field, Operator: OpLike, Value: value}
}

// In builds a "field IN (...)" condition over the given values.
func In(field string, values ...any) Condition {
	return Condition{Field: field, Operator: OpIn, Value: values}
}

// IsNull builds a "field IS NULL" condition.
func IsNull(field string) Condition {
	return Condition{Field: field, Operator: OpIsNull}
}

// IsNotNull builds a "field IS NOT NULL" condition.
func IsNotNull(field string) Condition {
	return Condition{Field: field, Operator: OpIsNotNull}
}
