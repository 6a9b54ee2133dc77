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

func TestSum_String(t *testing.T) {
	require := require.New(t)

	sum := NewSum(expression.NewGetField(0, sql.Int64, "n", false))
	require.Equal("SUM(n)", sum.String())
}

func TestSum_Type(t *testing.T) {
	require := require.New(t)

	sum := NewSum(expression.NewGetField(0, sql.Int64, "n", false))
	require.Equal(sql.Decimal, sum.Type())
}

func TestSum_Eval(t *testing.T) {
	testCases := []struct {
		name     string
		rows     []sql.Row
		expected string
	}{
		{
			"ints",
			[]sql.Row{{int64(1)}, {int64(2)}, {int64(3)}},
			"6",
		},
		{
			"floats",
			[]sql.Row{{float64(1.5)}, {float64(2.5)}},
			"4",
		},
		{
			"ints and floats",
			[]sql.Row{{int64(1)}, {float64(2.5)}},
			"3.5",
		},
		{
			"numeric strings",
			[]sql.Row{{"1"}, {"2.5"}},
			"3.5",
		},
		{
			"non-numeric strings count as zero",
			[]sql.Row{{"foo"}, {int64(3)}},
			"3",
		},
		{
			"nulls are ignored",
			[]sql.Row{{nil}, {int64(5)}, {nil}},
			"5",
		},
	}

	agg := NewSum(expression.NewGetField(0, sql.Int64, "n", true))
	for _, tt := range testCases {
		t.Run(tt.name, func(t *testing.T) {
			requireDecimal(t, tt.expected, aggregate(t, agg, tt.rows...))
		})
	}
}

func TestSum_Eval_NoRows(t *testing.T) {
	require := require.New(t)

	agg := NewSum(expression.NewGetField(0, sql.Int64, "n", true))
	require.Equal(nil, aggregate(t, agg))
}

func TestSum_Eval_OnlyNulls(t *testing.T) {
	require := require.New(t)

	agg := NewSum(expression.NewGetField(0, sql.Int64, "n", true))
	require.Equal(nil, aggregate(t, agg, sql.NewRow(nil), sql.NewRow(nil)))
}
