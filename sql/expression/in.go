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

	errors "gopkg.in/src-d/go-errors.v1"

	"github.com/dolthub/go-sql-engine/sql"
)

// ErrUnsupportedInOperand is returned when there is an invalid righthand
// operand in an IN operation.
var ErrUnsupportedInOperand = errors.NewKind("right operand in IN operation must be tuple, but is %T")

// InTuple is an expression that checks an expression is inside a list of
// expressions.
type InTuple struct {
	comparison
}

var _ sql.Expression = (*InTuple)(nil)

// NewInTuple creates an InTuple expression.
func NewInTuple(left sql.Expression, right sql.Expression) *InTuple {
	return &InTuple{newComparison(left, right)}
}

// Eval implements the Expression interface. A NULL left operand gives NULL.
// A NULL member of the tuple does not match, but turns a would-be FALSE
// result into NULL.
func (in *InTuple) Eval(ctx *sql.Context, row sql.Row) (interface{}, error) {
	typ := in.Left().Type().Promote()
	leftElems := sql.NumColumns(typ)

	left, err := in.Left().Eval(ctx, row)
	if err != nil {
		return nil, err
	}

	if left == nil {
		return nil, nil
	}

	left, err = typ.Convert(left)
	if err != nil {
		return nil, err
	}

	right, ok := in.Right().(Tuple)
	if !ok {
		return nil, ErrUnsupportedInOperand.New(in.Right())
	}

	for _, el := range right {
		if sql.NumColumns(el.Type()) != leftElems {
			return nil, sql.ErrInvalidOperandColumns.New(leftElems, sql.NumColumns(el.Type()))
		}
	}

	sawNull := false
	for _, el := range right {
		value, err := el.Eval(ctx, row)
		if err != nil {
			return nil, err
		}

		if value == nil {
			sawNull = true
			continue
		}

		value, err = typ.Convert(value)
		if err != nil {
			return nil, err
		}

		cmp, err := typ.Compare(left, value)
		if err != nil {
			return nil, err
		}

		if cmp == 0 {
			return true, nil
		}
	}

	if sawNull {
		return nil, nil
	}

	return false, nil
}

// WithChildren implements the Expression interface.
func (in *InTuple) WithChildren(children ...sql.Expression) (sql.Expression, error) {
	if len(children) != 2 {
		return nil, sql.ErrInvalidChildrenNumber.New(in, len(children), 2)
	}
	return NewInTuple(children[0], children[1]), nil
}

func (in *InTuple) String() string {
	return fmt.Sprintf("(%s IN %s)", in.Left(), in.Right())
}

func (in *InTuple) DebugString() string {
	return fmt.Sprintf("(%s IN %s)", sql.DebugString(in.Left()), sql.DebugString(in.Right()))
}

// NotInTuple is an expression that checks an expression is not inside a list
// of expressions.
type NotInTuple struct {
	InTuple
}

var _ sql.Expression = (*NotInTuple)(nil)

// NewNotInTuple creates a new NotInTuple expression.
func NewNotInTuple(left sql.Expression, right sql.Expression) *NotInTuple {
	return &NotInTuple{InTuple{newComparison(left, right)}}
}

// Eval implements the Expression interface.
func (in *NotInTuple) Eval(ctx *sql.Context, row sql.Row) (interface{}, error) {
	result, err := in.InTuple.Eval(ctx, row)
	if err != nil {
		return nil, err
	}

	if result == nil {
		return nil, nil
	}

	return !result.(bool), nil
}

// WithChildren implements the Expression interface.
func (in *NotInTuple) WithChildren(children ...sql.Expression) (sql.Expression, error) {
	if len(children) != 2 {
		return nil, sql.ErrInvalidChildrenNumber.New(in, len(children), 2)
	}
	return NewNotInTuple(children[0], children[1]), nil
}

func (in *NotInTuple) String() string {
	return fmt.Sprintf("(%s NOT IN %s)", in.Left(), in.Right())
}

func (in *NotInTuple) DebugString() string {
	return fmt.Sprintf("(%s NOT IN %s)", sql.DebugString(in.Left()), sql.DebugString(in.Right()))
}
