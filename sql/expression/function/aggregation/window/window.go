// Copyright 2021 Dolthub, Inc.
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

package window

import (
	"sort"

	"github.com/dolthub/go-sql-engine/sql"
	"github.com/dolthub/go-sql-engine/sql/expression"
)

func windowResolved(window *sql.Window) bool {
	if window == nil {
		return true
	}
	return expression.ExpressionsResolved(append(window.OrderBy.ToExpressions(), window.PartitionBy...)...)
}

func partitionsToSortFields(partitionExprs []sql.Expression) sql.SortFields {
	sfs := make(sql.SortFields, len(partitionExprs))
	for i, expr := range partitionExprs {
		sfs[i] = sql.SortField{
			Column: expr,
			Order:  sql.Ascending,
		}
	}
	return sfs
}

// windowToSortFields returns the full sort order of a window function's
// buffer: partition columns first, then the window's order columns.
func windowToSortFields(window *sql.Window) sql.SortFields {
	if window == nil {
		return nil
	}
	return append(partitionsToSortFields(window.PartitionBy), window.OrderBy...)
}

func evalExprs(ctx *sql.Context, exprs []sql.Expression, row sql.Row) (sql.Row, error) {
	result := make(sql.Row, len(exprs))
	for i, expr := range exprs {
		var err error
		result[i], err = expr.Eval(ctx, row)
		if err != nil {
			return nil, err
		}
	}
	return result, nil
}

// isNewPartition compares the partition by columns between two rows, returning
// true when the last row is empty or when the next row is in a different
// partition than the last. NULL partition values compare equal to NULL.
func isNewPartition(ctx *sql.Context, partitionBy []sql.Expression, last sql.Row, row sql.Row) (bool, error) {
	if len(last) == 0 {
		return true, nil
	}

	if len(partitionBy) == 0 {
		return false, nil
	}

	lastExp, err := evalExprs(ctx, partitionBy, last)
	if err != nil {
		return false, err
	}

	thisExp, err := evalExprs(ctx, partitionBy, row)
	if err != nil {
		return false, err
	}

	for i := range lastExp {
		if lastExp[i] != thisExp[i] {
			return true, nil
		}
	}

	return false, nil
}

// isNewOrderValue compares the order by columns between two rows, returning
// true when the last row is empty or when the next row's order by columns
// differ from the last row's. Two rows with no order by columns are peers.
func isNewOrderValue(ctx *sql.Context, orderByExprs []sql.Expression, last sql.Row, row sql.Row) (bool, error) {
	if len(last) == 0 {
		return true, nil
	}

	lastExp, err := evalExprs(ctx, orderByExprs, last)
	if err != nil {
		return false, err
	}

	thisExp, err := evalExprs(ctx, orderByExprs, row)
	if err != nil {
		return false, err
	}

	for i := range lastExp {
		if lastExp[i] != thisExp[i] {
			return true, nil
		}
	}

	return false, nil
}

// sortBuffered stably sorts the buffered rows by the window's partition and
// order columns. Rows stay in input order when the window has neither.
func sortBuffered(ctx *sql.Context, window *sql.Window, rows []sql.Row) error {
	sortFields := windowToSortFields(window)
	if len(sortFields) == 0 {
		return nil
	}

	sorter := &expression.Sorter{
		SortFields: sortFields,
		Rows:       rows,
		Ctx:        ctx,
	}
	sort.Stable(sorter)
	return sorter.LastError
}

// restoreOriginalOrder sorts the buffered rows back to input order using the
// original position stored in the last slot of every row.
func restoreOriginalOrder(rows []sql.Row) {
	if len(rows) == 0 {
		return
	}
	originalIdx := len(rows[0]) - 1
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i][originalIdx].(int) < rows[j][originalIdx].(int)
	})
}
