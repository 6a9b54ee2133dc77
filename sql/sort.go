// Copyright 2020-2021 Dolthub, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package sql

import (
	"fmt"
	"strings"
)

// SortOrder represents the order of the sort: ascending or descending.
type SortOrder byte

const (
	// Ascending order.
	Ascending SortOrder = 1
	// Descending order.
	Descending SortOrder = 2
)

func (s SortOrder) String() string {
	switch s {
	case Ascending:
		return "ASC"
	case Descending:
		return "DESC"
	default:
		return "invalid SortOrder"
	}
}

// NullOrdering represents how to order rows with null values.
type NullOrdering byte

const (
	// NullsFirst puts the null values before any other values. A null value
	// sorts as lower than every non-null value, so under a descending order
	// nulls come last.
	NullsFirst NullOrdering = iota
	// NullsLast puts the null values after all other values.
	NullsLast NullOrdering = 2
)

// SortField is a field by which rows will be sorted.
type SortField struct {
	// Column to order by.
	Column Expression
	// Order type of the sort.
	Order SortOrder
	// NullOrdering defines how nulls are ordered.
	NullOrdering NullOrdering
}

func (s SortField) String() string {
	return fmt.Sprintf("%s %s", s.Column, s.Order)
}

func (s SortField) DebugString() string {
	nullOrdering := "nullsFirst"
	if s.NullOrdering == NullsLast {
		nullOrdering = "nullsLast"
	}
	return fmt.Sprintf("%s %s %s", DebugString(s.Column), s.Order, nullOrdering)
}

// SortFields is a slice of SortField.
type SortFields []SortField

// ToExpressions returns the columns of the sort fields, in order.
func (sf SortFields) ToExpressions() []Expression {
	es := make([]Expression, len(sf))
	for i, f := range sf {
		es[i] = f.Column
	}
	return es
}

// FromExpressions returns a new SortFields list with the same orderings as
// this one, but with the expressions given as columns.
func (sf SortFields) FromExpressions(exprs []Expression) SortFields {
	var fields = make(SortFields, len(sf))
	copy(fields, sf)
	for i := range fields {
		fields[i].Column = exprs[i]
	}
	return fields
}

func (sf SortFields) String() string {
	var fields = make([]string, len(sf))
	for i, f := range sf {
		fields[i] = f.String()
	}
	return strings.Join(fields, ", ")
}
