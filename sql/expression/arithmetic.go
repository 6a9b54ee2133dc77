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
	"fmt"

	"github.com/shopspring/decimal"
	errors "gopkg.in/src-d/go-errors.v1"

	"github.com/dolthub/go-sql-engine/sql"
)

const (
	plusStr  = "+"
	minusStr = "-"
	multStr  = "*"
	divStr   = "/"
	modStr   = "%"
)

// errUnableToEval means that we could not evaluate an expression.
var errUnableToEval = errors.NewKind("unable to evaluate an expression: %v %s %v")

// Arithmetic expressions (+, -, *, /, %).
type Arithmetic struct {
	BinaryExpression
	Op string
}

var _ sql.Expression = (*Arithmetic)(nil)

// NewArithmetic creates a new Arithmetic sql.Expression.
func NewArithmetic(left, right sql.Expression, op string) *Arithmetic {
	return &Arithmetic{BinaryExpression{Left: left, Right: right}, op}
}

// NewPlus creates a new Arithmetic + sql.Expression.
func NewPlus(left, right sql.Expression) *Arithmetic {
	return NewArithmetic(left, right, plusStr)
}

// NewMinus creates a new Arithmetic - sql.Expression.
func NewMinus(left, right sql.Expression) *Arithmetic {
	return NewArithmetic(left, right, minusStr)
}

// NewMult creates a new Arithmetic * sql.Expression.
func NewMult(left, right sql.Expression) *Arithmetic {
	return NewArithmetic(left, right, multStr)
}

// NewDiv creates a new Arithmetic / sql.Expression.
func NewDiv(left, right sql.Expression) *Arithmetic {
	return NewArithmetic(left, right, divStr)
}

// NewMod creates a new Arithmetic % sql.Expression.
func NewMod(left, right sql.Expression) *Arithmetic {
	return NewArithmetic(left, right, modStr)
}

func (a *Arithmetic) String() string {
	return fmt.Sprintf("(%s %s %s)", a.Left, a.Op, a.Right)
}

func (a *Arithmetic) DebugString() string {
	return fmt.Sprintf("(%s %s %s)", sql.DebugString(a.Left), a.Op, sql.DebugString(a.Right))
}

// IsNullable implements the Expression interface. Divisions are always
// nullable because a zero divisor yields NULL.
func (a *Arithmetic) IsNullable() bool {
	if a.Op == divStr || a.Op == modStr {
		return true
	}

	return a.BinaryExpression.IsNullable()
}

// Type returns the type the operation evaluates to. Division always
// evaluates to an exact decimal, modulo to an integer. The remaining
// operators return the largest of the operand types.
func (a *Arithmetic) Type() sql.Type {
	switch a.Op {
	case divStr:
		return sql.Decimal
	case modStr:
		return sql.Int64
	}

	return arithmeticResultType(a.Left.Type(), a.Right.Type())
}

func arithmeticResultType(left, right sql.Type) sql.Type {
	if sql.IsNull(left) {
		left = right
	}
	if sql.IsNull(right) {
		right = left
	}

	switch {
	case sql.IsNull(left):
		return sql.Null
	case sql.IsDecimal(left) || sql.IsDecimal(right):
		return sql.Decimal
	case sql.IsFloat(left) || sql.IsFloat(right):
		return sql.Float64
	case sql.IsInteger(left) && sql.IsInteger(right):
		return sql.Int64
	default:
		// non numeric operands are coerced through the exact type
		return sql.Decimal
	}
}

// WithChildren implements the Expression interface.
func (a *Arithmetic) WithChildren(children ...sql.Expression) (sql.Expression, error) {
	if len(children) != 2 {
		return nil, sql.ErrInvalidChildrenNumber.New(a, len(children), 2)
	}
	return NewArithmetic(children[0], children[1], a.Op), nil
}

// Eval implements the Expression interface.
func (a *Arithmetic) Eval(ctx *sql.Context, row sql.Row) (interface{}, error) {
	lval, err := a.Left.Eval(ctx, row)
	if err != nil {
		return nil, err
	}

	rval, err := a.Right.Eval(ctx, row)
	if err != nil {
		return nil, err
	}

	if lval == nil || rval == nil {
		return nil, nil
	}

	typ := a.Type()
	if sql.IsNull(typ) {
		return nil, nil
	}

	switch typ {
	case sql.Int64:
		return a.evalInt64(lval, rval)
	case sql.Float64:
		return a.evalFloat64(lval, rval)
	default:
		return a.evalDecimal(lval, rval)
	}
}

func (a *Arithmetic) evalInt64(lval, rval interface{}) (interface{}, error) {
	l, err := sql.Int64.Convert(lval)
	if err != nil {
		return nil, err
	}

	r, err := sql.Int64.Convert(rval)
	if err != nil {
		return nil, err
	}

	left, right := l.(int64), r.(int64)
	switch a.Op {
	case plusStr:
		return left + right, nil
	case minusStr:
		return left - right, nil
	case multStr:
		return left * right, nil
	case modStr:
		if right == 0 {
			return nil, nil
		}
		return left % right, nil
	}

	return nil, errUnableToEval.New(lval, a.Op, rval)
}

func (a *Arithmetic) evalFloat64(lval, rval interface{}) (interface{}, error) {
	l, err := sql.Float64.Convert(lval)
	if err != nil {
		return nil, err
	}

	r, err := sql.Float64.Convert(rval)
	if err != nil {
		return nil, err
	}

	left, right := l.(float64), r.(float64)
	switch a.Op {
	case plusStr:
		return left + right, nil
	case minusStr:
		return left - right, nil
	case multStr:
		return left * right, nil
	}

	return nil, errUnableToEval.New(lval, a.Op, rval)
}

func (a *Arithmetic) evalDecimal(lval, rval interface{}) (interface{}, error) {
	l, err := sql.Decimal.Convert(lval)
	if err != nil {
		return nil, err
	}

	r, err := sql.Decimal.Convert(rval)
	if err != nil {
		return nil, err
	}

	left, right := l.(decimal.Decimal), r.(decimal.Decimal)
	switch a.Op {
	case plusStr:
		return left.Add(right), nil
	case minusStr:
		return left.Sub(right), nil
	case multStr:
		return left.Mul(right), nil
	case divStr:
		if right.IsZero() {
			return nil, nil
		}
		return left.Div(right), nil
	case modStr:
		if right.IsZero() {
			return nil, nil
		}
		return left.Mod(right), nil
	}

	return nil, errUnableToEval.New(lval, a.Op, rval)
}
