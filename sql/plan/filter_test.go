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
)

func newFilterTestTable(t *testing.T) sql.Node {
	t.Helper()
	ctx := sql.NewEmptyContext()

	table := memory.NewTable("t", sql.Schema{
		{Name: "n", Type: sql.Int64, Source: "t", Nullable: true},
	})
	for _, v := range []interface{}{int64(1), int64(2), nil, int64(3)} {
		require.NoError(t, table.Insert(ctx, sql.NewRow(v)))
	}
	return NewResolvedTable(table, nil)
}

func TestFilter(t *testing.T) {
	require := require.New(t)
	ctx := sql.NewEmptyContext()

	f := NewFilter(
		expression.NewGreaterThan(
			expression.NewGetField(0, sql.Int64, "n", true),
			expression.NewLiteral(int64(1), sql.Int64),
		),
		newFilterTestTable(t),
	)

	rows, err := sql.NodeToRows(ctx, f)
	require.NoError(err)
	require.Equal([]sql.Row{{int64(2)}, {int64(3)}}, rows)
}

// A condition that evaluates to NULL drops the row, just like false does.
func TestFilterNullConditionDropsRow(t *testing.T) {
	require := require.New(t)
	ctx := sql.NewEmptyContext()

	// n = NULL is unknown for every row, so nothing passes.
	f := NewFilter(
		expression.NewEquals(
			expression.NewGetField(0, sql.Int64, "n", true),
			expression.NewLiteral(nil, sql.Null),
		),
		newFilterTestTable(t),
	)

	rows, err := sql.NodeToRows(ctx, f)
	require.NoError(err)
	require.Len(rows, 0)
}

// Applying the same filter twice gives the same rows as applying it once.
func TestFilterIsIdempotent(t *testing.T) {
	require := require.New(t)
	ctx := sql.NewEmptyContext()

	cond := func() sql.Expression {
		return expression.NewGreaterThan(
			expression.NewGetField(0, sql.Int64, "n", true),
			expression.NewLiteral(int64(1), sql.Int64),
		)
	}

	once, err := sql.NodeToRows(ctx, NewFilter(cond(), newFilterTestTable(t)))
	require.NoError(err)
	twice, err := sql.NodeToRows(ctx, NewFilter(cond(), NewFilter(cond(), newFilterTestTable(t))))
	require.NoError(err)
	require.Equal(once, twice)
}

func TestFilterPreservesSchema(t *testing.T) {
	require := require.New(t)

	child := newFilterTestTable(t)
	f := NewFilter(
		expression.NewLiteral(true, sql.Boolean),
		child,
	)
	require.Equal(child.Schema(), f.Schema())
}
