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

package analyzer

import (
	"github.com/dolthub/go-sql-engine/sql"
	"github.com/dolthub/go-sql-engine/sql/plan"
)

// applyNullOrdering rewrites sort fields that use the default null ordering
// to the one the analyzer was configured with.
func applyNullOrdering(ctx *sql.Context, a *Analyzer, n sql.Node, scope *Scope) (sql.Node, error) {
	if a.NullOrdering == sql.NullsFirst {
		return n, nil
	}

	return plan.TransformUp(n, func(n sql.Node) (sql.Node, error) {
		sort, ok := n.(*plan.Sort)
		if !ok {
			return n, nil
		}

		var changed bool
		fields := make(sql.SortFields, len(sort.SortFields))
		copy(fields, sort.SortFields)
		for i := range fields {
			if fields[i].NullOrdering == sql.NullsFirst {
				fields[i].NullOrdering = a.NullOrdering
				changed = true
			}
		}

		if !changed {
			return n, nil
		}

		a.Log("applying null ordering %v to sort node", a.NullOrdering)
		return plan.NewSort(fields, sort.Child), nil
	})
}
