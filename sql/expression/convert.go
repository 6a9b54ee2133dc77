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

// ErrConvertExpression is returned when a conversion is not possible.
var ErrConvertExpression = errors.NewKind("expression '%v': couldn't convert to %v")

// Convert represents a cast of an expression into another type.
type Convert struct {
	UnaryExpression
	castToType sql.Type
}

var _ sql.Expression = (*Convert)(nil)

// NewConvert creates a new Convert expression.
func NewConvert(expr sql.Expression, castToType sql.Type) *Convert {
	return &Convert{
		UnaryExpression: UnaryExpression{Child: expr},
		castToType:      castToType,
	}
}

// IsNullable implements the Expression interface.
func (c *Convert) IsNullable() bool {
	return c.Child.IsNullable()
}

// Type implements the Expression interface.
func (c *Convert) Type() sql.Type {
	return c.castToType
}

func (c *Convert) String() string {
	return fmt.Sprintf("convert(%v, %v)", c.Child, c.castToType)
}

func (c *Convert) DebugString() string {
	return fmt.Sprintf("convert(%v, %v)", sql.DebugString(c.Child), c.castToType)
}

// WithChildren implements the Expression interface.
func (c *Convert) WithChildren(children ...sql.Expression) (sql.Expression, error) {
	if len(children) != 1 {
		return nil, sql.ErrInvalidChildrenNumber.New(c, len(children), 1)
	}
	return NewConvert(children[0], c.castToType), nil
}

// Eval implements the Expression interface.
func (c *Convert) Eval(ctx *sql.Context, row sql.Row) (interface{}, error) {
	val, err := c.Child.Eval(ctx, row)
	if err != nil {
		return nil, err
	}

	if val == nil {
		return nil, nil
	}

	casted, err := c.castToType.Convert(val)
	if err != nil {
		return nil, ErrConvertExpression.Wrap(err, c.Child.String(), c.castToType.String())
	}

	return casted, nil
}
