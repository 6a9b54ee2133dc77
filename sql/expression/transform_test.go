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

func TestTransformUp(t *testing.T) {
	require := require.New(t)

	e := NewAnd(
		NewEquals(
			NewUnresolvedColumn("foo"),
			NewLiteral(int64(1), sql.Int64),
		),
		NewUnresolvedColumn("bar"),
	)

	result, err := TransformUp(e, func(e sql.Expression) (sql.Expression, error) {
		if uc, ok := e.(*UnresolvedColumn); ok {
			return NewGetField(0, sql.Int64, uc.Name(), true), nil
		}
		return e, nil
	})
	require.NoError(err)

	expected := NewAnd(
		NewEquals(
			NewGetField(0, sql.Int64, "foo", true),
			NewLiteral(int64(1), sql.Int64),
		),
		NewGetField(0, sql.Int64, "bar", true),
	)
	require.Equal(expected, result)
}

func TestExpressionToColumn(t *testing.T) {
	require := require.New(t)

	col := ExpressionToColumn(NewGetFieldWithTable(0, sql.Int64, "t", "id", false))
	require.Equal("id", col.Name)
	require.Equal("t", col.Source)
	require.Equal(sql.Int64, col.Type)
	require.False(col.Nullable)

	col = ExpressionToColumn(NewAlias(
		"n",
		NewGetField(1, sql.Text, "name", true),
	))
	require.Equal("n", col.Name)
	require.Equal(sql.Text, col.Type)
	require.True(col.Nullable)

	col = ExpressionToColumn(NewLiteral(int64(1), sql.Int64))
	require.Equal("1", col.Name)
	require.Equal(sql.Int64, col.Type)
}
