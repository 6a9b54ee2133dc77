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

func TestLiteral(t *testing.T) {
	require := require.New(t)

	lit := NewLiteral(int64(5), sql.Int64)
	require.Equal(sql.Int64, lit.Type())
	require.Equal(int64(5), lit.Value())
	require.False(lit.IsNullable())
	require.True(lit.Resolved())
	require.Equal("5", lit.String())

	v, err := lit.Eval(sql.NewEmptyContext(), nil)
	require.NoError(err)
	require.Equal(int64(5), v)

	str := NewLiteral("foo", sql.Text)
	require.Equal(`"foo"`, str.String())

	null := NewLiteral(nil, sql.Null)
	require.True(null.IsNullable())
	require.Equal("NULL", null.String())

	v, err = null.Eval(sql.NewEmptyContext(), nil)
	require.NoError(err)
	require.Nil(v)
}

func TestAlias(t *testing.T) {
	require := require.New(t)

	alias := NewAlias("total", NewLiteral(int64(1), sql.Int64))
	require.Equal("total", alias.Name())
	require.Equal(sql.Int64, alias.Type())
	require.Equal("1 as total", alias.String())

	v, err := alias.Eval(sql.NewEmptyContext(), nil)
	require.NoError(err)
	require.Equal(int64(1), v)
}

func TestStar(t *testing.T) {
	require := require.New(t)

	star := NewStar()
	require.False(star.Resolved())
	require.Equal("*", star.String())

	qualified := NewQualifiedStar("employees")
	require.False(qualified.Resolved())
	require.Equal("employees.*", qualified.String())
}

func TestUnresolvedColumn(t *testing.T) {
	require := require.New(t)

	col := NewUnresolvedColumn("test_col")
	require.False(col.Resolved())
	require.Equal("test_col", col.Name())

	qualified := NewUnresolvedQualifiedColumn("t", "test_col")
	require.False(qualified.Resolved())
	require.Equal("t", qualified.Table())
	require.Equal("t.test_col", qualified.String())
}
