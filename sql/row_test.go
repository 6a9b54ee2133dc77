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

package sql

import (
	"io"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewRow(t *testing.T) {
	require := require.New(t)

	row := NewRow(int64(1), int64(2), int64(3))
	require.Equal(Row{int64(1), int64(2), int64(3)}, row)
}

func TestRowCopy(t *testing.T) {
	require := require.New(t)

	row := NewRow(int64(1), "foo")
	row2 := row.Copy()
	row2[0] = int64(42)

	require.Equal(Row{int64(1), "foo"}, row)
	require.Equal(Row{int64(42), "foo"}, row2)
}

func TestRowAppend(t *testing.T) {
	require := require.New(t)

	row := NewRow(int64(1)).Append(NewRow("a", "b"))
	require.Equal(Row{int64(1), "a", "b"}, row)
}

func TestRowEquals(t *testing.T) {
	schema := Schema{
		{Name: "a", Type: Int64},
		{Name: "b", Type: Text},
	}

	testCases := []struct {
		name     string
		row      Row
		other    Row
		expected bool
	}{
		{"equal", NewRow(int64(1), "a"), NewRow(int64(1), "a"), true},
		{"different value", NewRow(int64(1), "a"), NewRow(int64(2), "a"), false},
		{"null equals null", NewRow(nil, "a"), NewRow(nil, "a"), true},
		{"null not equal to value", NewRow(nil, "a"), NewRow(int64(1), "a"), false},
		{"different length", NewRow(int64(1), "a"), NewRow(int64(1)), false},
	}

	for _, tt := range testCases {
		t.Run(tt.name, func(t *testing.T) {
			require := require.New(t)

			eq, err := tt.row.Equals(tt.other, schema)
			require.NoError(err)
			require.Equal(tt.expected, eq)
		})
	}
}

func TestRowIterToRows(t *testing.T) {
	require := require.New(t)

	expected := []Row{
		NewRow(int64(1), "a"),
		NewRow(int64(2), "b"),
	}

	iter := RowsToRowIter(expected...)
	rows, err := RowIterToRows(NewEmptyContext(), iter)
	require.NoError(err)
	require.Equal(expected, rows)
}

func TestRowsToRowIterCopies(t *testing.T) {
	require := require.New(t)

	source := NewRow(int64(1))
	iter := RowsToRowIter(source)

	row, err := iter.Next()
	require.NoError(err)
	row[0] = int64(99)
	require.Equal(Row{int64(1)}, source)

	_, err = iter.Next()
	require.Equal(io.EOF, err)
	require.NoError(iter.Close(NewEmptyContext()))
}
