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

package expression

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dolthub/go-sql-engine/sql"
)

func TestGetField(t *testing.T) {
	require := require.New(t)

	get := NewGetField(1, sql.Text, "name", true)
	require.Equal(1, get.Index())
	require.Equal("name", get.Name())
	require.Equal(sql.Text, get.Type())
	require.True(get.IsNullable())
	require.True(get.Resolved())

	v, err := get.Eval(sql.NewEmptyContext(), sql.NewRow(int64(1), "foo"))
	require.NoError(err)
	require.Equal("foo", v)
}

func TestGetFieldOutOfBounds(t *testing.T) {
	require := require.New(t)

	get := NewGetField(2, sql.Text, "name", true)
	_, err := get.Eval(sql.NewEmptyContext(), sql.NewRow(int64(1), "foo"))
	require.Error(err)
	require.True(sql.ErrIndexOutOfBounds.Is(err))
}

func TestGetFieldWithTable(t *testing.T) {
	require := require.New(t)

	get := NewGetFieldWithTable(0, sql.Int64, "employees", "id", false)
	require.Equal("employees", get.Table())
	require.Equal("employees.id", get.String())

	moved := get.WithIndex(3).(*GetField)
	require.Equal(3, moved.Index())
	require.Equal("id", moved.Name())
}

func TestSchemaToGetFields(t *testing.T) {
	require := require.New(t)

	schema := sql.Schema{
		{Name: "id", Type: sql.Int64, Source: "t"},
		{Name: "name", Type: sql.Text, Source: "t", Nullable: true},
	}

	fields := SchemaToGetFields(schema)
	require.Len(fields, 2)

	get0, ok := fields[0].(*GetField)
	require.True(ok)
	require.Equal(0, get0.Index())
	require.Equal("id", get0.Name())
	require.Equal("t", get0.Table())

	get1, ok := fields[1].(*GetField)
	require.True(ok)
	require.Equal(1, get1.Index())
	require.True(get1.IsNullable())
}
