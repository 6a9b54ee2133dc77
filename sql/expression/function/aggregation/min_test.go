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
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dolthub/go-sql-engine/sql"
	"github.com/dolthub/go-sql-engine/sql/expression"
)

func TestMin_String(t *testing.T) {
	require := require.New(t)

	m := NewMin(expression.NewGetField(0, sql.Int64, "field", true))
	require.Equal("MIN(field)", m.String())
}

func TestMin_Eval_Int64(t *testing.T) {
	require := require.New(t)

	m := NewMin(expression.NewGetField(0, sql.Int64, "field", true))

	result := aggregate(t, m,
		sql.NewRow(int64(7)),
		sql.NewRow(nil),
		sql.NewRow(int64(6)),
	)
	require.Equal(int64(6), result)
}

func TestMin_Eval_Text(t *testing.T) {
	require := require.New(t)

	m := NewMin(expression.NewGetField(0, sql.Text, "field", true))

	result := aggregate(t, m,
		sql.NewRow("b"),
		sql.NewRow("a"),
		sql.NewRow("c"),
	)
	require.Equal("a", result)
}

func TestMin_Eval_Datetime(t *testing.T) {
	require := require.New(t)

	m := NewMin(expression.NewGetField(0, sql.Datetime, "field", true))

	expected, _ := time.Parse(sql.DatetimeLayout, "2006-01-02 15:04:05")
	someTime, _ := time.Parse(sql.DatetimeLayout, "2007-01-02 15:04:05")
	otherTime, _ := time.Parse(sql.DatetimeLayout, "2008-01-02 15:04:05")

	result := aggregate(t, m,
		sql.NewRow(someTime),
		sql.NewRow(expected),
		sql.NewRow(otherTime),
	)
	require.Equal(expected, result)
}

func TestMin_Eval_NULL(t *testing.T) {
	require := require.New(t)

	m := NewMin(expression.NewGetField(0, sql.Int64, "field", true))

	result := aggregate(t, m,
		sql.NewRow(nil),
		sql.NewRow(nil),
		sql.NewRow(nil),
	)
	require.Equal(nil, result)
}

func TestMin_Eval_Empty(t *testing.T) {
	require := require.New(t)

	m := NewMin(expression.NewGetField(0, sql.Int64, "field", true))
	require.Equal(nil, aggregate(t, m))
}
