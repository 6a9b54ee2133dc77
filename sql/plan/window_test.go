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

package plan

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dolthub/go-sql-engine/memory"
	"github.com/dolthub/go-sql-engine/sql"
	"github.com/dolthub/go-sql-engine/sql/expression"
	"github.com/dolthub/go-sql-engine/sql/expression/function/aggregation/window"
)

func newSalaryTable(t *testing.T) sql.Node {
	t.Helper()
	ctx := sql.NewEmptyContext()

	table := memory.NewTable("employees", sql.Schema{
		{Name: "salary", Type: sql.Int64, Source: "employees"},
	})
	for _, salary := range []int64{200, 200, 100, 100, 70, 60, 50} {
		require.NoError(t, table.Insert(ctx, sql.NewRow(salary)))
	}

	return NewResolvedTable(table, nil)
}

func salaryDescWindow() *sql.Window {
	return sql.NewWindow(nil, sql.SortFields{
		{
			Column: expression.NewGetField(0, sql.Int64, "salary", false),
			Order:  sql.Descending,
		},
	})
}

func windowResults(t *testing.T, fn sql.WindowAggregation) []sql.Row {
	t.Helper()
	ctx := sql.NewEmptyContext()

	w := NewWindow([]sql.Expression{
		expression.NewGetField(0, sql.Int64, "salary", false),
		fn,
	}, newSalaryTable(t))

	rows, err := sql.NodeToRows(ctx, w)
	require.NoError(t, err)
	return rows
}

func TestWindowRank(t *testing.T) {
	require := require.New(t)

	rank, err := window.NewRank().WithWindow(salaryDescWindow())
	require.NoError(err)

	rows := windowResults(t, rank)
	var ranks []int64
	for _, row := range rows {
		ranks = append(ranks, row[1].(int64))
	}
	require.Equal([]int64{1, 1, 3, 3, 5, 6, 7}, ranks)
}

func TestWindowDenseRank(t *testing.T) {
	require := require.New(t)

	denseRank, err := window.NewDenseRank().WithWindow(salaryDescWindow())
	require.NoError(err)

	rows := windowResults(t, denseRank)
	var ranks []int64
	for _, row := range rows {
		ranks = append(ranks, row[1].(int64))
	}
	require.Equal([]int64{1, 1, 2, 2, 3, 4, 5}, ranks)
}

func TestWindowRowNumber(t *testing.T) {
	require := require.New(t)

	rowNumber, err := window.NewRowNumber().WithWindow(salaryDescWindow())
	require.NoError(err)

	rows := windowResults(t, rowNumber)
	var nums []int64
	for _, row := range rows {
		nums = append(nums, row[1].(int64))
	}
	require.Equal([]int64{1, 2, 3, 4, 5, 6, 7}, nums)
}

// Row numbers within a partition are a permutation of 1..n for any input
// order.
func TestWindowRowNumberIsPermutation(t *testing.T) {
	require := require.New(t)
	ctx := sql.NewEmptyContext()

	table := memory.NewTable("t", sql.Schema{
		{Name: "n", Type: sql.Int64, Source: "t"},
	})
	for _, v := range []int64{4, 1, 3, 1, 2} {
		require.NoError(table.Insert(ctx, sql.NewRow(v)))
	}

	rowNumber, err := window.NewRowNumber().WithWindow(sql.NewWindow(nil, sql.SortFields{
		{Column: expression.NewGetField(0, sql.Int64, "n", false), Order: sql.Ascending},
	}))
	require.NoError(err)

	w := NewWindow([]sql.Expression{rowNumber}, NewResolvedTable(table, nil))
	rows, err := sql.NodeToRows(ctx, w)
	require.NoError(err)

	seen := make(map[int64]bool)
	for _, row := range rows {
		seen[row[0].(int64)] = true
	}
	require.Len(seen, 5)
	for i := int64(1); i <= 5; i++ {
		require.True(seen[i], "missing row number %d", i)
	}
}

func TestWindowPartitioned(t *testing.T) {
	require := require.New(t)
	ctx := sql.NewEmptyContext()

	table := memory.NewTable("t", sql.Schema{
		{Name: "dept", Type: sql.Text, Source: "t"},
		{Name: "salary", Type: sql.Int64, Source: "t"},
	})
	for _, row := range []sql.Row{
		sql.NewRow("hr", int64(100)),
		sql.NewRow("it", int64(300)),
		sql.NewRow("hr", int64(200)),
		sql.NewRow("it", int64(300)),
	} {
		require.NoError(table.Insert(ctx, row))
	}

	rank, err := window.NewRank().WithWindow(sql.NewWindow(
		[]sql.Expression{expression.NewGetField(0, sql.Text, "dept", false)},
		sql.SortFields{
			{Column: expression.NewGetField(1, sql.Int64, "salary", false), Order: sql.Descending},
		},
	))
	require.NoError(err)

	w := NewWindow([]sql.Expression{
		expression.NewGetField(0, sql.Text, "dept", false),
		rank,
	}, NewResolvedTable(table, nil))

	rows, err := sql.NodeToRows(ctx, w)
	require.NoError(err)
	require.Equal([]sql.Row{
		{"hr", int64(2)},
		{"it", int64(1)},
		{"hr", int64(1)},
		{"it", int64(1)},
	}, rows)
}

func TestWindowMixedExpressions(t *testing.T) {
	require := require.New(t)

	rowNumber, err := window.NewRowNumber().WithWindow(salaryDescWindow())
	require.NoError(err)

	rows := windowResults(t, rowNumber)
	// The first output column is the plain salary projection, preserved in
	// input order.
	var salaries []int64
	for _, row := range rows {
		salaries = append(salaries, row[0].(int64))
	}
	require.Equal([]int64{200, 200, 100, 100, 70, 60, 50}, salaries)
}
