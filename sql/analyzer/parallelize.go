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
	"github.com/dolthub/go-sql-engine/sql/expression"
	"github.com/dolthub/go-sql-engine/sql/plan"
)

// parallelize inserts an Exchange node above purely row-local subtrees, so
// their partitions are processed by a pool of workers instead of serially.
func parallelize(ctx *sql.Context, a *Analyzer, n sql.Node, scope *Scope) (sql.Node, error) {
	if a.Parallelism <= 1 || !n.Resolved() {
		return n, nil
	}

	// Don't parallelize subqueries, it can blow up the execution graph
	// quickly.
	if !scope.IsEmpty() {
		return n, nil
	}

	n, err := plan.TransformUp(n, func(n sql.Node) (sql.Node, error) {
		if !isParallelizable(n) {
			return n, nil
		}

		return plan.NewExchange(a.Parallelism, n), nil
	})
	if err != nil {
		return nil, err
	}

	return plan.TransformUp(n, removeRedundantExchanges)
}

// removeRedundantExchanges removes all the exchanges except for the topmost
// of all.
func removeRedundantExchanges(n sql.Node) (sql.Node, error) {
	exchange, ok := n.(*plan.Exchange)
	if !ok {
		return n, nil
	}

	child, err := plan.TransformUp(exchange.Child, func(n sql.Node) (sql.Node, error) {
		if exchange, ok := n.(*plan.Exchange); ok {
			return exchange.Child, nil
		}
		return n, nil
	})
	if err != nil {
		return nil, err
	}

	return exchange.WithChildren(child)
}

// isParallelizable reports whether the subtree rooted at the node can be
// sharded by partition: a chain of row-local operators over exactly one table
// scan.
func isParallelizable(n sql.Node) bool {
	var parallelizable = true
	var tableSeen bool
	var lastWasTable bool

	plan.Inspect(n, func(n sql.Node) bool {
		if n == nil {
			return true
		}

		lastWasTable = false

		switch n := n.(type) {
		// These are the only unary nodes that can be parallelized. Any
		// other node above the table scan would change the row order or
		// observe rows across partitions.
		case *plan.Exchange, *plan.TrackProgress:
		case *plan.Filter, *plan.Project:
			if hasSubqueryExpression(n) {
				parallelizable = false
				return false
			}
		case *plan.ResolvedTable:
			lastWasTable = true
			tableSeen = true
		case sql.Table:
			lastWasTable = true
			tableSeen = true
		default:
			parallelizable = false
			return false
		}
		return true
	})

	return parallelizable && tableSeen && lastWasTable
}

// hasSubqueryExpression reports whether any expression of the node contains a
// subquery. Subqueries re-drive their own plan and must not run inside
// exchange workers.
func hasSubqueryExpression(n sql.Node) bool {
	expressioner, ok := n.(sql.Expressioner)
	if !ok {
		return false
	}

	for _, e := range expressioner.Expressions() {
		var found bool
		expression.Inspect(e, func(e sql.Expression) bool {
			if _, ok := e.(*plan.Subquery); ok {
				found = true
				return false
			}
			return true
		})
		if found {
			return true
		}
	}

	return false
}
