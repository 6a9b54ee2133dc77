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
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dolthub/go-sql-engine/memory"
	"github.com/dolthub/go-sql-engine/sql"
	"github.com/dolthub/go-sql-engine/sql/expression"
)

func newJoinTables(t *testing.T) (sql.Node, sql.Node) {
	t.Helper()
	ctx := sql.NewEmptyContext()

	t1 := memory.NewTable("t1", sql.Schema{
		{Name: "c1", Type: sql.Int64, Source: "t1"},
		{Name: "c2", Type: sql.Text, Source: "t1"},
	})
	t2 := memory.NewTable("t2", sql.Schema{
		{Name: "c1", Type: sql.Int64, Source: "t2"},
		{Name: "c2", Type: sql.Text, Source: "t2"},
	})

	for _, row := range []sql.Row{
		sql.NewRow(int64(1), "a"),
		sql.NewRow(int64(2), "b"),
		sql.NewRow(int64(3), "c"),
	} {
		require.NoError(t, t1.Insert(ctx, row))
	}

	for _, row := range []sql.Row{
		sql.NewRow(int64(3), "x"),
		sql.NewRow(int64(4), "y"),
		sql.NewRow(int64(5), "z"),
	} {
		require.NoError(t, t2.Insert(ctx, row))
	}

	return NewResolvedTable(t1, nil), NewResolvedTable(t2, nil)
}

func joinCond() sql.Expression {
	return expression.NewEquals(
		expression.NewGetFieldWithTable(0, sql.Int64, "t1", "c1", false),
		expression.NewGetFieldWithTable(2, sql.Int64, "t2", "c1", false),
	)
}

func TestInnerJoin(t *testing.T) {
	require := require.New(t)
	ctx := sql.NewEmptyContext()

	left, right := newJoinTables(t)
	j := NewInnerJoin(left, right, joinCond())

	rows, err := sql.NodeToRows(ctx, j)
	require.NoError(err)
	require.Equal([]sql.Row{
		{int64(3), "c", int64(3), "x"},
	}, rows)
}

func TestInnerJoinInMemorySessionVar(t *testing.T) {
	require := require.New(t)

	sess := sql.NewBaseSession()
	require.NoError(sess.Set(context.Background(), "inmemory_joins", sql.Text, "true"))
	ctx := sql.NewContext(context.Background(), sql.WithSession(sess))

	left, right := newJoinTables(t)
	j := NewInnerJoin(left, right, joinCond())

	rows, err := sql.NodeToRows(ctx, j)
	require.NoError(err)
	require.Equal([]sql.Row{
		{int64(3), "c", int64(3), "x"},
	}, rows)
}

func TestLeftJoin(t *testing.T) {
	require := require.New(t)
	ctx := sql.NewEmptyContext()

	left, right := newJoinTables(t)
	j := NewLeftJoin(left, right, joinCond())

	rows, err := sql.NodeToRows(ctx, j)
	require.NoError(err)
	require.ElementsMatch([]sql.Row{
		{int64(1), "a", nil, nil},
		{int64(2), "b", nil, nil},
		{int64(3), "c", int64(3), "x"},
	}, rows)
}

func TestLeftJoinPreservesAllLeftRows(t *testing.T) {
	require := require.New(t)
	ctx := sql.NewEmptyContext()

	left, right := newJoinTables(t)
	leftRows, err := sql.NodeToRows(ctx, left)
	require.NoError(err)

	j := NewLeftJoin(left, right, joinCond())
	rows, err := sql.NodeToRows(ctx, j)
	require.NoError(err)
	require.True(len(rows) >= len(leftRows))

	for _, lrow := range leftRows {
		var found bool
		for _, row := range rows {
			if row[0] == lrow[0] && row[1] == lrow[1] {
				found = true
				break
			}
		}
		require.True(found, "left row %v missing from left join result", lrow)
	}
}

func TestRightJoin(t *testing.T) {
	require := require.New(t)
	ctx := sql.NewEmptyContext()

	left, right := newJoinTables(t)
	j := NewRightJoin(left, right, joinCond())

	rows, err := sql.NodeToRows(ctx, j)
	require.NoError(err)
	require.ElementsMatch([]sql.Row{
		{int64(3), "c", int64(3), "x"},
		{nil, nil, int64(4), "y"},
		{nil, nil, int64(5), "z"},
	}, rows)
}

func TestFullOuterJoin(t *testing.T) {
	require := require.New(t)
	ctx := sql.NewEmptyContext()

	left, right := newJoinTables(t)
	j := NewFullOuterJoin(left, right, joinCond())

	rows, err := sql.NodeToRows(ctx, j)
	require.NoError(err)
	require.ElementsMatch([]sql.Row{
		{int64(1), "a", nil, nil},
		{int64(2), "b", nil, nil},
		{int64(3), "c", int64(3), "x"},
		{nil, nil, int64(4), "y"},
		{nil, nil, int64(5), "z"},
	}, rows)
}

func TestFullOuterJoinSchemaNullable(t *testing.T) {
	require := require.New(t)

	left, right := newJoinTables(t)
	j := NewFullOuterJoin(left, right, joinCond())

	for _, col := range j.Schema() {
		require.True(col.Nullable)
	}
}

func TestInnerJoinNullConditionDropsRow(t *testing.T) {
	require := require.New(t)
	ctx := sql.NewEmptyContext()

	t1 := memory.NewTable("t1", sql.Schema{
		{Name: "c1", Type: sql.Int64, Source: "t1", Nullable: true},
	})
	require.NoError(t1.Insert(ctx, sql.NewRow(nil)))
	require.NoError(t1.Insert(ctx, sql.NewRow(int64(1))))

	t2 := memory.NewTable("t2", sql.Schema{
		{Name: "c1", Type: sql.Int64, Source: "t2", Nullable: true},
	})
	require.NoError(t2.Insert(ctx, sql.NewRow(nil)))
	require.NoError(t2.Insert(ctx, sql.NewRow(int64(1))))

	// NULL = NULL is unknown, so only the non-null pair joins.
	j := NewInnerJoin(
		NewResolvedTable(t1, nil),
		NewResolvedTable(t2, nil),
		expression.NewEquals(
			expression.NewGetFieldWithTable(0, sql.Int64, "t1", "c1", true),
			expression.NewGetFieldWithTable(1, sql.Int64, "t2", "c1", true),
		),
	)

	rows, err := sql.NodeToRows(ctx, j)
	require.NoError(err)
	require.Equal([]sql.Row{
		{int64(1), int64(1)},
	}, rows)
}

func TestCrossJoin(t *testing.T) {
	require := require.New(t)
	ctx := sql.NewEmptyContext()

	left, right := newJoinTables(t)
	j := NewCrossJoin(left, right)

	rows, err := sql.NodeToRows(ctx, j)
	require.NoError(err)
	require.Len(rows, 9)
}

func TestJoinSchema(t *testing.T) {
	require := require.New(t)

	left, right := newJoinTables(t)
	j := NewInnerJoin(left, right, joinCond())

	require.Equal(sql.Schema{
		{Name: "c1", Type: sql.Int64, Source: "t1"},
		{Name: "c2", Type: sql.Text, Source: "t1"},
		{Name: "c1", Type: sql.Int64, Source: "t2"},
		{Name: "c2", Type: sql.Text, Source: "t2"},
	}, j.Schema())
}

func TestLeftJoinSchemaNullable(t *testing.T) {
	require := require.New(t)

	left, right := newJoinTables(t)
	j := NewLeftJoin(left, right, joinCond())

	require.Equal(sql.Schema{
		{Name: "c1", Type: sql.Int64, Source: "t1"},
		{Name: "c2", Type: sql.Text, Source: "t1"},
		{Name: "c1", Type: sql.Int64, Source: "t2", Nullable: true},
		{Name: "c2", Type: sql.Text, Source: "t2", Nullable: true},
	}, j.Schema())
}

func TestRightJoinSchemaNullable(t *testing.T) {
	require := require.New(t)

	left, right := newJoinTables(t)
	j := NewRightJoin(left, right, joinCond())

	require.Equal(sql.Schema{
		{Name: "c1", Type: sql.Int64, Source: "t1", Nullable: true},
		{Name: "c2", Type: sql.Text, Source: "t1", Nullable: true},
		{Name: "c1", Type: sql.Int64, Source: "t2"},
		{Name: "c2", Type: sql.Text, Source: "t2"},
	}, j.Schema())
}
