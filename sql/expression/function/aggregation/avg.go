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
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/dolthub/go-sql-engine/sql"
	"github.com/dolthub/go-sql-engine/sql/expression"
)

// Avg node to calculate the average from numeric column
type Avg struct {
	expression.UnaryExpression
}

var _ sql.FunctionExpression = (*Avg)(nil)
var _ sql.Aggregation = (*Avg)(nil)

// NewAvg creates a new Avg node.
func NewAvg(e sql.Expression) *Avg {
	return &Avg{expression.UnaryExpression{Child: e}}
}

// FunctionName implements sql.FunctionExpression
func (a *Avg) FunctionName() string {
	return "avg"
}

func (a *Avg) String() string {
	return fmt.Sprintf("AVG(%s)", a.Child)
}

// Type implements Expression interface.
func (a *Avg) Type() sql.Type {
	return sql.Decimal
}

// IsNullable implements Expression interface.
func (a *Avg) IsNullable() bool {
	return true
}

// WithChildren implements the Expression interface.
func (a *Avg) WithChildren(children ...sql.Expression) (sql.Expression, error) {
	if len(children) != 1 {
		return nil, sql.ErrInvalidChildrenNumber.New(a, len(children), 1)
	}
	return NewAvg(children[0]), nil
}

// NewBuffer creates a new buffer to compute the result.
func (a *Avg) NewBuffer() (sql.AggregationBuffer, error) {
	bufferChild, err := expression.Clone(a.UnaryExpression.Child)
	if err != nil {
		return nil, err
	}
	return &avgBuffer{decimal.Zero, 0, bufferChild}, nil
}

// Eval implements the Expression interface.
func (a *Avg) Eval(ctx *sql.Context, row sql.Row) (interface{}, error) {
	return nil, ErrEvalUnsupportedOnAggregation.New("Avg")
}

type avgBuffer struct {
	sum  decimal.Decimal
	rows int64
	expr sql.Expression
}

// Update implements the AggregationBuffer interface. NULL values are not
// part of the average; values with no numeric interpretation count as zero.
func (a *avgBuffer) Update(ctx *sql.Context, row sql.Row) error {
	v, err := a.expr.Eval(ctx, row)
	if err != nil {
		return err
	}

	if v == nil {
		return nil
	}

	val, err := sql.Decimal.Convert(v)
	if err != nil {
		val = decimal.Zero
	}

	a.sum = a.sum.Add(val.(decimal.Decimal))
	a.rows += 1

	return nil
}

// Eval implements the AggregationBuffer interface.
func (a *avgBuffer) Eval(ctx *sql.Context) (interface{}, error) {
	if a.rows == 0 {
		return nil, nil
	}
	return a.sum.Div(decimal.NewFromInt(a.rows)), nil
}

// Dispose implements the Disposable interface.
func (a *avgBuffer) Dispose() {
	expression.Dispose(a.expr)
}
