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

package aggregation

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dolthub/go-sql-engine/sql"
	"github.com/dolthub/go-sql-engine/sql/expression"
)

func TestCount_String(t *testing.T) {
	require := require.New(t)

	c := NewCount(expression.NewGetField(0, sql.Int64, "col1", true))
	require.Equal("COUNT(col1)", c.String())

	c = NewCount(expression.NewStar())
	require.Equal("COUNT(*)", c.String())
}

func TestCount_Eval_1(t *testing.T) {
	require := require.New(t)
	ctx := sql.NewEmptyContext()

	c := NewCount(expression.NewLiteral(int64(1), sql.Int64))
	b, err := c.NewBuffer()
	require.NoError(err)
	require.Equal(int64(0), evalBuffer(t, b))

	require.NoError(b.Update(ctx, nil))
	require.NoError(b.Update(ctx, sql.NewRow("foo")))
	require.NoError(b.Update(ctx, sql.NewRow(int64(1))))
	require.NoError(b.Update(ctx, sql.NewRow(nil)))
	require.NoError(b.Update(ctx, sql.NewRow(int64(1), int64(2), int64(3))))
	require.Equal(int64(5), evalBuffer(t, b))
}

func TestCount_Eval_Star(t *testing.T) {
	require := require.New(t)
	ctx := sql.NewEmptyContext()

	c := NewCount(expression.NewStar())
	b, err := c.NewBuffer()
	require.NoError(err)
	require.Equal(int64(0), evalBuffer(t, b))

	require.NoError(b.Update(ctx, nil))
	require.NoError(b.Update(ctx, sql.NewRow("foo")))
	require.NoError(b.Update(ctx, sql.NewRow(int64(1))))
	require.NoError(b.Update(ctx, sql.NewRow(nil)))
	require.NoError(b.Update(ctx, sql.NewRow(int64(1), int64(2), int64(3))))
	require.Equal(int64(5), evalBuffer(t, b))
}

func TestCount_Eval_String(t *testing.T) {
	require := require.New(t)
	ctx := sql.NewEmptyContext()

	c := NewCount(expression.NewGetField(0, sql.Text, "", true))
	b, err := c.NewBuffer()
	require.NoError(err)
	require.Equal(int64(0), evalBuffer(t, b))

	require.NoError(b.Update(ctx, sql.NewRow("foo")))
	require.Equal(int64(1), evalBuffer(t, b))

	require.NoError(b.Update(ctx, sql.NewRow(nil)))
	require.Equal(int64(1), evalBuffer(t, b))
}

func TestCountDistinct_String(t *testing.T) {
	require := require.New(t)

	c := NewCountDistinct(expression.NewGetField(0, sql.Int64, "col1", true))
	require.Equal("COUNT(DISTINCT col1)", c.String())
}

func TestCountDistinct_Eval(t *testing.T) {
	require := require.New(t)

	c := NewCountDistinct(expression.NewGetField(0, sql.Int64, "col1", true))

	result := aggregate(t, c,
		sql.NewRow(int64(1)),
		sql.NewRow(int64(1)),
		sql.NewRow(int64(2)),
		sql.NewRow(nil),
		sql.NewRow(int64(2)),
		sql.NewRow(int64(3)),
	)
	require.Equal(int64(3), result)
}

func TestCountDistinct_Eval_Strings(t *testing.T) {
	require := require.New(t)

	c := NewCountDistinct(expression.NewGetField(0, sql.Text, "name", true))

	result := aggregate(t, c,
		sql.NewRow("alice"),
		sql.NewRow("bob"),
		sql.NewRow("alice"),
		sql.NewRow(nil),
		sql.NewRow("carol"),
	)
	require.Equal(int64(3), result)
}

func TestCountDistinct_Eval_Star(t *testing.T) {
	require := require.New(t)

	c := NewCountDistinct(expression.NewStar())

	result := aggregate(t, c,
		sql.NewRow(int64(1)),
		sql.NewRow(int64(1)),
		sql.NewRow(int64(1), int64(2)),
		sql.NewRow(int64(1), int64(2)),
		sql.NewRow(int64(2)),
	)
	require.Equal(int64(3), result)
}

func TestCountDistinct_Eval_Empty(t *testing.T) {
	require := require.New(t)

	c := NewCountDistinct(expression.NewGetField(0, sql.Int64, "col1", true))
	require.Equal(int64(0), aggregate(t, c))
}
