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

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/dolthub/go-sql-engine/sql"
)

func TestPlus(t *testing.T) {
	var testCases = []struct {
		name        string
		left, right interface{}
		typ         sql.Type
		expected    interface{}
	}{
		{"1 + 1", int64(1), int64(1), sql.Int64, int64(2)},
		{"-1 + 1", int64(-1), int64(1), sql.Int64, int64(0)},
		{"0 + 0", int64(0), int64(0), sql.Int64, int64(0)},
		{"0.14159 + 3.0", float64(0.14159), float64(3.0), sql.Float64, float64(3.14159)},
	}

	for _, tt := range testCases {
		t.Run(tt.name, func(t *testing.T) {
			require := require.New(t)
			result, err := NewPlus(
				NewLiteral(tt.left, tt.typ),
				NewLiteral(tt.right, tt.typ),
			).Eval(sql.NewEmptyContext(), sql.NewRow())
			require.NoError(err)
			require.Equal(tt.expected, result)
		})
	}
}

func TestMinus(t *testing.T) {
	require := require.New(t)

	result, err := NewMinus(
		NewLiteral(int64(1), sql.Int64),
		NewLiteral(int64(1), sql.Int64),
	).Eval(sql.NewEmptyContext(), sql.NewRow())
	require.NoError(err)
	require.Equal(int64(0), result)

	result, err = NewMinus(
		NewLiteral(int64(1), sql.Int64),
		NewLiteral(float64(0.5), sql.Float64),
	).Eval(sql.NewEmptyContext(), sql.NewRow())
	require.NoError(err)
	require.Equal(float64(0.5), result)
}

func TestMult(t *testing.T) {
	require := require.New(t)

	result, err := NewMult(
		NewLiteral(int64(3), sql.Int64),
		NewLiteral(int64(4), sql.Int64),
	).Eval(sql.NewEmptyContext(), sql.NewRow())
	require.NoError(err)
	require.Equal(int64(12), result)

	result, err = NewMult(
		NewLiteral(float64(2.5), sql.Float64),
		NewLiteral(int64(4), sql.Int64),
	).Eval(sql.NewEmptyContext(), sql.NewRow())
	require.NoError(err)
	require.Equal(float64(10), result)
}

func TestDiv(t *testing.T) {
	var testCases = []struct {
		name        string
		left, right interface{}
		typ         sql.Type
		expected    string
	}{
		{"1 / 1", int64(1), int64(1), sql.Int64, "1"},
		{"1 / 2", int64(1), int64(2), sql.Int64, "0.5"},
		{"7 / 2", int64(7), int64(2), sql.Int64, "3.5"},
		{"-1 / 2", int64(-1), int64(2), sql.Int64, "-0.5"},
	}

	for _, tt := range testCases {
		t.Run(tt.name, func(t *testing.T) {
			require := require.New(t)
			div := NewDiv(
				NewLiteral(tt.left, tt.typ),
				NewLiteral(tt.right, tt.typ),
			)
			require.Equal(sql.Decimal, div.Type())

			result, err := div.Eval(sql.NewEmptyContext(), sql.NewRow())
			require.NoError(err)
			d, ok := result.(decimal.Decimal)
			require.True(ok)
			require.True(d.Equal(decimal.RequireFromString(tt.expected)), "%s != %s", d, tt.expected)
		})
	}
}

func TestDivByZero(t *testing.T) {
	require := require.New(t)

	result, err := NewDiv(
		NewLiteral(int64(1), sql.Int64),
		NewLiteral(int64(0), sql.Int64),
	).Eval(sql.NewEmptyContext(), sql.NewRow())
	require.NoError(err)
	require.Nil(result)
}

func TestMod(t *testing.T) {
	var testCases = []struct {
		name        string
		left, right int64
		expected    interface{}
	}{
		{"7 % 2", 7, 2, int64(1)},
		{"-7 % 2", -7, 2, int64(-1)},
		{"8 % 2", 8, 2, int64(0)},
		{"7 % 0", 7, 0, nil},
	}

	for _, tt := range testCases {
		t.Run(tt.name, func(t *testing.T) {
			require := require.New(t)
			mod := NewMod(
				NewLiteral(tt.left, sql.Int64),
				NewLiteral(tt.right, sql.Int64),
			)
			require.Equal(sql.Int64, mod.Type())

			result, err := mod.Eval(sql.NewEmptyContext(), sql.NewRow())
			require.NoError(err)
			require.Equal(tt.expected, result)
		})
	}
}

func TestArithmeticNull(t *testing.T) {
	require := require.New(t)

	ops := []sql.Expression{
		NewPlus(NewLiteral(nil, sql.Null), NewLiteral(int64(1), sql.Int64)),
		NewMinus(NewLiteral(int64(1), sql.Int64), NewLiteral(nil, sql.Null)),
		NewMult(NewLiteral(nil, sql.Null), NewLiteral(nil, sql.Null)),
		NewDiv(NewLiteral(nil, sql.Null), NewLiteral(int64(2), sql.Int64)),
	}

	for _, op := range ops {
		result, err := op.Eval(sql.NewEmptyContext(), sql.NewRow())
		require.NoError(err)
		require.Nil(result)
	}
}

func TestArithmeticType(t *testing.T) {
	require := require.New(t)

	require.Equal(sql.Int64, NewPlus(
		NewLiteral(int64(1), sql.Int64),
		NewLiteral(int64(1), sql.Int64),
	).Type())

	require.Equal(sql.Float64, NewPlus(
		NewLiteral(int64(1), sql.Int64),
		NewLiteral(float64(1), sql.Float64),
	).Type())

	require.Equal(sql.Decimal, NewPlus(
		NewLiteral(int64(1), sql.Int64),
		NewLiteral(decimal.New(1, 0), sql.Decimal),
	).Type())

	require.Equal(sql.Decimal, NewDiv(
		NewLiteral(int64(1), sql.Int64),
		NewLiteral(int64(1), sql.Int64),
	).Type())

	require.Equal(sql.Int64, NewMod(
		NewLiteral(int64(7), sql.Int64),
		NewLiteral(int64(2), sql.Int64),
	).Type())
}
