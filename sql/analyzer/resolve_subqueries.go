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

// resolveSubqueries analyzes the inner plans of subquery expressions. The
// inner plan is analyzed with the scope extended by the node the expression
// is attached to, so inner field indexes line up with the scope row prepended
// at evaluation time.
func resolveSubqueries(ctx *sql.Context, a *Analyzer, n sql.Node, scope *Scope) (sql.Node, error) {
	span, ctx := ctx.Span("resolve_subqueries")
	defer span.Finish()

	return plan.TransformUp(n, func(n sql.Node) (sql.Node, error) {
		if !childrenResolved(n) {
			return n, nil
		}

		return plan.TransformExpressions(n, func(e sql.Expression) (sql.Expression, error) {
			sq, ok := e.(*plan.Subquery)
			if !ok || sq.Resolved() {
				return e, nil
			}

			subScope := scope
			for _, child := range n.Children() {
				subScope = subScope.NewScope(child)
			}

			a.Log("analyzing subquery %s", sq.QueryString)

			analyzed, err := a.Analyze(ctx, sq.Query, subScope)
			if err != nil {
				return nil, err
			}

			// Strip the process tracking wrapper: subqueries run as part of
			// the outer query's process.
			if qp, ok := analyzed.(*plan.QueryProcess); ok {
				analyzed = qp.Child
			}

			return sq.WithQuery(analyzed), nil
		})
	})
}

// cacheSubqueryResults marks the subquery expressions whose results do not
// depend on the outer row as cacheable, so they run at most once per query.
func cacheSubqueryResults(ctx *sql.Context, a *Analyzer, n sql.Node, scope *Scope) (sql.Node, error) {
	return plan.TransformUp(n, func(n sql.Node) (sql.Node, error) {
		if !n.Resolved() {
			return n, nil
		}

		scopeLen := len(scope.Schema())
		for _, child := range n.Children() {
			scopeLen += len(child.Schema())
		}

		return plan.TransformExpressions(n, func(e sql.Expression) (sql.Expression, error) {
			sq, ok := e.(*plan.Subquery)
			if !ok || !sq.Resolved() {
				return e, nil
			}

			if subqueryIsCorrelated(sq, scopeLen) {
				return e, nil
			}

			a.Log("caching results of subquery %s", sq.QueryString)
			return sq.WithCachedResults(), nil
		})
	})
}

// subqueryIsCorrelated reports whether the subquery references any column of
// the scope row, which spans the field indexes below scopeLen.
func subqueryIsCorrelated(sq *plan.Subquery, scopeLen int) bool {
	correlated := false
	plan.InspectExpressions(sq.Query, func(e sql.Expression) bool {
		switch e := e.(type) {
		case *expression.GetField:
			if e.Index() < scopeLen {
				correlated = true
			}
		case *plan.Subquery:
			if subqueryIsCorrelated(e, scopeLen) {
				correlated = true
			}
		}
		return !correlated
	})
	return correlated
}
