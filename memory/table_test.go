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

package memory

import (
	"io"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dolthub/go-sql-engine/sql"
)

func newTestTable() *Table {
	return NewTable("test", sql.Schema{
		{Name: "id", Type: sql.Int64, Source: "test"},
		{Name: "name", Type: sql.Text, Source: "test", Nullable: true},
	})
}

func allRows(t *testing.T, table *Table) []sql.Row {
	t.Helper()

	ctx := sql.NewEmptyContext()
	partitions, err := table.Partitions(ctx)
	require.NoError(t, err)

	var rows []sql.Row
	for {
		p, err := partitions.Next()
		if err == io.EOF {
			break
		}
		require.NoError(t, err)

		iter, err := table.PartitionRows(ctx, p)
		require.NoError(t, err)

		partRows, err := sql.RowIterToRows(ctx, iter)
		require.NoError(t, err)
		rows = append(rows, partRows...)
	}
	require.NoError(t, partitions.Close(ctx))

	return rows
}

func TestTableInsert(t *testing.T) {
	require := require.New(t)
	ctx := sql.NewEmptyContext()

	table := newTestTable()
	require.Equal("test", table.Name())
	require.Len(allRows(t, table), 0)

	require.NoError(table.Insert(ctx, sql.NewRow(int64(1), "a")))
	require.NoError(table.Insert(ctx, sql.NewRow(int64(2), nil)))

	rows := allRows(t, table)
	require.Equal([]sql.Row{{int64(1), "a"}, {int64(2), nil}}, rows)
}

func TestTableInsertWrongArity(t *testing.T) {
	require := require.New(t)
	ctx := sql.NewEmptyContext()

	table := newTestTable()
	err := table.Insert(ctx, sql.NewRow(int64(1)))
	require.Error(err)
}

func TestTableInsertWrongType(t *testing.T) {
	require := require.New(t)
	ctx := sql.NewEmptyContext()

	table := newTestTable()
	err := table.Insert(ctx, sql.NewRow("not an int", "a"))
	require.Error(err)
}

func TestTablePartitionsRoundRobin(t *testing.T) {
	require := require.New(t)
	ctx := sql.NewEmptyContext()

	table := NewPartitionedTable("test", sql.Schema{
		{Name: "n", Type: sql.Int64, Source: "test"},
	}, 3)

	for i := int64(0); i < 7; i++ {
		require.NoError(table.Insert(ctx, sql.NewRow(i)))
	}

	partitions, err := table.Partitions(ctx)
	require.NoError(err)

	var count int
	var seen []int64
	for {
		p, err := partitions.Next()
		if err == io.EOF {
			break
		}
		require.NoError(err)
		count++

		iter, err := table.PartitionRows(ctx, p)
		require.NoError(err)
		rows, err := sql.RowIterToRows(ctx, iter)
		require.NoError(err)
		for _, row := range rows {
			seen = append(seen, row[0].(int64))
		}
	}
	require.NoError(partitions.Close(ctx))

	require.Equal(3, count)
	require.Len(seen, 7)
}

func TestTableEmptyKeepsOnePartition(t *testing.T) {
	require := require.New(t)
	ctx := sql.NewEmptyContext()

	table := newTestTable()
	partitions, err := table.Partitions(ctx)
	require.NoError(err)

	_, err = partitions.Next()
	require.NoError(err)
	_, err = partitions.Next()
	require.Equal(io.EOF, err)
}

func TestTablePartitionNotFound(t *testing.T) {
	require := require.New(t)
	ctx := sql.NewEmptyContext()

	table := newTestTable()
	_, err := table.PartitionRows(ctx, &partition{key: []byte("nope")})
	require.Error(err)
	require.True(sql.ErrPartitionNotFound.Is(err))
}

func TestTableSnapshotIsolation(t *testing.T) {
	require := require.New(t)
	ctx := sql.NewEmptyContext()

	table := newTestTable()
	require.NoError(table.Insert(ctx, sql.NewRow(int64(1), "a")))

	partitions, err := table.Partitions(ctx)
	require.NoError(err)
	p, err := partitions.Next()
	require.NoError(err)

	iter, err := table.PartitionRows(ctx, p)
	require.NoError(err)

	// Rows inserted after the iterator was opened are not visible to it.
	require.NoError(table.Insert(ctx, sql.NewRow(int64(2), "b")))

	rows, err := sql.RowIterToRows(ctx, iter)
	require.NoError(err)
	require.Equal([]sql.Row{{int64(1), "a"}}, rows)
}
