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

package sql

import (
	"fmt"
	"strings"
)

// Type represents a SQL value type. Types are comparable with themselves
// and, where a documented coercion exists, with other types of the same
// family.
type Type interface {
	fmt.Stringer
	// Compare returns an integer comparing two values. The result will be
	// 0 if a == b, -1 if a < b, and +1 if a > b. Both values are converted
	// to this type before comparing.
	Compare(a interface{}, b interface{}) (int, error)
	// Convert a value of a compatible type to the most accurate
	// representation for this type, or return ErrInvalidType if the value
	// cannot represent this type.
	Convert(v interface{}) (interface{}, error)
	// Promote returns the largest type of this type's family.
	Promote() Type
	// Zero returns the zero value of this type.
	Zero() interface{}
}

type nullT struct{}

// Null represents the NULL type, the type of expressions that can only
// produce NULL values.
var Null Type = nullT{}

func (t nullT) String() string { return "NULL" }

// Compare implements Type interface. Note that while this returns 0 (equals)
// for ordering purposes, in SQL NULL = NULL evaluates to UNKNOWN.
func (t nullT) Compare(a interface{}, b interface{}) (int, error) {
	return 0, nil
}

// Convert implements Type interface.
func (t nullT) Convert(v interface{}) (interface{}, error) {
	if v != nil {
		return nil, ErrInvalidType.New("non-null value in NULL type")
	}

	return nil, nil
}

// Promote implements the Type interface.
func (t nullT) Promote() Type { return t }

// Zero implements the Type interface.
func (t nullT) Zero() interface{} { return nil }

// IsNull returns true if the given type is the NULL type.
func IsNull(t Type) bool {
	return t == Null
}

// IsNumber checks if t is a number type.
func IsNumber(t Type) bool {
	return IsInteger(t) || IsFloat(t) || IsDecimal(t)
}

// IsInteger checks if t is an integer type.
func IsInteger(t Type) bool {
	return t == Int64
}

// IsFloat checks if t is a float type.
func IsFloat(t Type) bool {
	return t == Float64
}

// IsDecimal checks if t is a decimal type.
func IsDecimal(t Type) bool {
	return t == Decimal
}

// IsText checks if t is a text type.
func IsText(t Type) bool {
	return t == Text
}

// IsBoolean checks if t is a boolean type.
func IsBoolean(t Type) bool {
	return t == Boolean
}

// IsDatetime checks if t is a date or timestamp type.
func IsDatetime(t Type) bool {
	return t == Datetime
}

// IsTuple checks if t is a tuple type.
// Note that columns can not be of type tuple.
func IsTuple(t Type) bool {
	_, ok := t.(TupleType)
	return ok
}

// NumColumns returns the number of columns in a type. This is one for all
// types except tuples.
func NumColumns(t Type) int {
	v, ok := t.(TupleType)
	if !ok {
		return 1
	}
	return len(v)
}

// ComparisonType returns the type that the values of both given types must
// be converted to before comparing them, or an error if the types have no
// documented coercion between them. NULL is coercible with everything
// because NULL values short-circuit every comparison.
func ComparisonType(left, right Type) (Type, error) {
	switch {
	case IsNull(left):
		return right, nil
	case IsNull(right):
		return left, nil
	case left == right:
		return left, nil
	case IsNumber(left) && IsNumber(right):
		if IsDecimal(left) || IsDecimal(right) {
			return Decimal, nil
		}
		if IsFloat(left) || IsFloat(right) {
			return Float64, nil
		}
		return Int64, nil
	case IsDatetime(left) && IsText(right), IsText(left) && IsDatetime(right):
		// date literals commonly arrive as text
		return Datetime, nil
	default:
		return nil, ErrTypeMismatch.New(left.String(), right.String())
	}
}

// MustConvert calls the Convert function from a given Type, it err panics.
func MustConvert(t Type, v interface{}) interface{} {
	c, err := t.Convert(v)
	if err != nil {
		panic(err)
	}

	return c
}

// TupleType is the type of a set of expressions, as in an IN list. It is
// not a valid column type.
type TupleType []Type

// CreateTuple returns a new tuple type with the given element types.
func CreateTuple(types ...Type) Type {
	return TupleType(types)
}

func (t TupleType) String() string {
	var elems = make([]string, len(t))
	for i, el := range t {
		elems[i] = el.String()
	}
	return fmt.Sprintf("TUPLE(%s)", strings.Join(elems, ", "))
}

// Compare implements Type interface.
func (t TupleType) Compare(a, b interface{}) (int, error) {
	a, err := t.Convert(a)
	if err != nil {
		return 0, err
	}

	b, err = t.Convert(b)
	if err != nil {
		return 0, err
	}

	left := a.([]interface{})
	right := b.([]interface{})
	for i := range left {
		cmp, err := t[i].Compare(left[i], right[i])
		if err != nil {
			return 0, err
		}

		if cmp != 0 {
			return cmp, nil
		}
	}

	return 0, nil
}

// Convert implements Type interface.
func (t TupleType) Convert(v interface{}) (interface{}, error) {
	if vals, ok := v.([]interface{}); ok {
		if len(vals) != len(t) {
			return nil, ErrInvalidColumnNumber.New(len(t), len(vals))
		}

		var result = make([]interface{}, len(vals))
		for i, typ := range t {
			var err error
			result[i], err = typ.Convert(vals[i])
			if err != nil {
				return nil, err
			}
		}

		return result, nil
	}
	return nil, ErrNotTuple.New(v)
}

// Promote implements the Type interface.
func (t TupleType) Promote() Type { return t }

// Zero implements the Type interface.
func (t TupleType) Zero() interface{} { return nil }
