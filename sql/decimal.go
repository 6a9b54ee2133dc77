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
	"math/big"

	"github.com/shopspring/decimal"
)

// Decimal is an exact fixed-point numeric type. Values are
// decimal.Decimal.
var Decimal Type = decimalType{}

type decimalType struct{}

func (t decimalType) String() string { return "DECIMAL" }

// Convert implements the Type interface.
func (t decimalType) Convert(v interface{}) (interface{}, error) {
	if v == nil {
		return nil, nil
	}

	switch value := v.(type) {
	case decimal.Decimal:
		return value, nil
	case int:
		return decimal.NewFromInt(int64(value)), nil
	case int64:
		return decimal.NewFromInt(value), nil
	case int32:
		return decimal.NewFromInt32(value), nil
	case uint64:
		return decimal.NewFromBigInt(new(big.Int).SetUint64(value), 0), nil
	case float32:
		return decimal.NewFromFloat32(value), nil
	case float64:
		return decimal.NewFromFloat(value), nil
	case string:
		d, err := decimal.NewFromString(value)
		if err != nil {
			return nil, ErrInvalidType.Wrap(err, t.String())
		}
		return d, nil
	case bool:
		if value {
			return decimal.NewFromInt(1), nil
		}
		return decimal.NewFromInt(0), nil
	default:
		return nil, ErrInvalidType.New(t.String())
	}
}

// Compare implements the Type interface.
func (t decimalType) Compare(a interface{}, b interface{}) (int, error) {
	av, err := t.Convert(a)
	if err != nil {
		return 0, err
	}
	bv, err := t.Convert(b)
	if err != nil {
		return 0, err
	}

	return av.(decimal.Decimal).Cmp(bv.(decimal.Decimal)), nil
}

// Promote implements the Type interface.
func (t decimalType) Promote() Type { return t }

// Zero implements the Type interface.
func (t decimalType) Zero() interface{} {
	return decimal.NewFromInt(0)
}
