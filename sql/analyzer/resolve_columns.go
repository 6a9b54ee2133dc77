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
	"strings"

	"github.com/dolthub/go-sql-engine/sql"
	"github.com/dolthub/go-sql-engine/sql/expression"
	"github.com/dolthub/go-sql-engine/sql/plan"
)

// resolveColumns replaces UnresolvedColumn expressions with GetField
// expressions pointing into the schema visible at the node: the scope
// columns, outermost first, followed by the schemas of the node's children in
// order. Unqualified names present in more than one table are an error.
func resolveColumns(ctx *sql.Context, a *Analyzer, n sql.Node, scope *Scope) (sql.Node, error) {
	span, _ := ctx.Span("resolve_columns")
	defer span.Finish()

	return plan.TransformUp(n, func(n sql.Node) (sql.Node, error) {
		if n.Resolved() {
			return n, nil
		}

		if !childrenResolved(n) {
			return n, nil
		}

		scopeLen := len(scope.Schema())
		columns := columnsInScope(scope, n)

		return plan.TransformExpressions(n, func(e sql.Expression) (sql.Expression, error) {
			uc, ok := e.(*expression.UnresolvedColumn)
			if !ok {
				return e, nil
			}

			field, err := resolveColumn(uc, columns, scopeLen)
			if err != nil {
				return nil, err
			}

			a.Log("column %s resolved to field %d", uc, field.Index())
			return field, nil
		})
	})
}

// scopedColumn is a column together with its position in the row a node
// sees during evaluation.
type scopedColumn struct {
	index int
	col   *sql.Column
}

func columnsInScope(scope *Scope, n sql.Node) []scopedColumn {
	var columns []scopedColumn
	idx := 0
	for _, col := range scope.Schema() {
		columns = append(columns, scopedColumn{idx, col})
		idx++
	}
	for _, child := range n.Children() {
		for _, col := range child.Schema() {
			columns = append(columns, scopedColumn{idx, col})
			idx++
		}
	}
	return columns
}

func resolveColumn(uc *expression.UnresolvedColumn, columns []scopedColumn, scopeLen int) (*expression.GetField, error) {
	name := strings.ToLower(uc.Name())
	table := strings.ToLower(uc.Table())

	var matches []scopedColumn
	for _, c := range columns {
		if strings.ToLower(c.col.Name) != name {
			continue
		}
		if table != "" && strings.ToLower(c.col.Source) != table {
			continue
		}
		matches = append(matches, c)
	}

	// A name visible both in an outer scope and in the node's own children
	// resolves to the innermost occurrence.
	if len(matches) > 1 {
		var inner []scopedColumn
		for _, m := range matches {
			if m.index >= scopeLen {
				inner = append(inner, m)
			}
		}
		if len(inner) == 1 {
			matches = inner
		}
	}

	switch len(matches) {
	case 0:
		if table != "" {
			return nil, sql.ErrTableColumnNotFound.New(uc.Table(), uc.Name())
		}
		return nil, sql.ErrColumnNotFound.New(uc.Name())
	case 1:
		match := matches[0]
		return expression.NewGetFieldWithTable(
			match.index, match.col.Type, match.col.Source, match.col.Name, match.col.Nullable,
		), nil
	default:
		var tables []string
		for _, m := range matches {
			tables = append(tables, m.col.Source)
		}
		return nil, sql.ErrAmbiguousColumnName.New(uc.Name(), strings.Join(tables, ", "))
	}
}

func childrenResolved(n sql.Node) bool {
	for _, c := range n.Children() {
		if !c.Resolved() {
			return false
		}
	}
	return true
}
