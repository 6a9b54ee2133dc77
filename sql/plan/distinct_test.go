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
)

func TestDistinct(t *testing.T) {
	require := require.New(t)
	ctx := sql.NewEmptyContext()

	child := newInt64Table(t, "t", 1, 2, 1, 3, 2, 1)

	rows, err := sql.NodeToRows(ctx, NewDistinct(child))
	require.NoError(err)
	// First occurrence order is preserved.
	require.Equal([]sql.Row{{int64(1)}, {int64(2)}, {int64(3)}}, rows)
}

// For deduplication NULL compares equal to NULL.
func TestDistinctNullEqualsNull(t *testing.T) {
	require := require.New(t)
	ctx := sql.NewEmptyContext()

	table := memory.NewTable("t", sql.Schema{
		{Name: "n", Type: sql.Int64, Source: "t", Nullable: true},
	})
	for _, v := range []interface{}{nil, int64(1), nil} {
		require.NoError(table.Insert(ctx, sql.NewRow(v)))
	}

	rows, err := sql.NodeToRows(ctx, NewDistinct(NewResolvedTable(table, nil)))
	require.NoError(err)
	require.Equal([]sql.Row{{nil}, {int64(1)}}, rows)
}

func TestDistinctIsIdempotent(t *testing.T) {
	require := require.New(t)
	ctx := sql.NewEmptyContext()

	once, err := sql.NodeToRows(ctx, NewDistinct(newInt64Table(t, "t", 1, 1, 2)))
	require.NoError(err)
	twice, err := sql.NodeToRows(ctx, NewDistinct(NewDistinct(newInt64Table(t, "t", 1, 1, 2))))
	require.NoError(err)
	require.Equal(once, twice)
}

func TestOrderedDistinct(t *testing.T) {
	require := require.New(t)
	ctx := sql.NewEmptyContext()

	// OrderedDistinct only collapses adjacent duplicates, which is correct
	// over sorted input.
	child := newInt64Table(t, "t", 1, 1, 2, 2, 2, 3)

	rows, err := sql.NodeToRows(ctx, NewOrderedDistinct(child))
	require.NoError(err)
	require.Equal([]sql.Row{{int64(1)}, {int64(2)}, {int64(3)}}, rows)
}
