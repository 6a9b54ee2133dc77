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
	"time"

	"github.com/spf13/cast"
)

var (
	// Int64 is a 64-bit signed integer, the INTEGER type.
	Int64 Type = numberType{integer: true}
	// Float64 is a 64-bit floating point number.
	Float64 Type = numberType{integer: false}
)

type numberType struct {
	integer bool
}

func (t numberType) String() string {
	if t.integer {
		return "INTEGER"
	}
	return "FLOAT"
}

// Convert implements the Type interface.
func (t numberType) Convert(v interface{}) (interface{}, error) {
	if v == nil {
		return nil, nil
	}

	if ti, ok := v.(time.Time); ok {
		v = ti.Unix()
	}

	if t.integer {
		i, err := cast.ToInt64E(v)
		if err != nil {
			return nil, ErrInvalidType.Wrap(err, t.String())
		}
		return i, nil
	}

	f, err := cast.ToFloat64E(v)
	if err != nil {
		return nil, ErrInvalidType.Wrap(err, t.String())
	}
	return f, nil
}

// Compare implements the Type interface.
func (t numberType) Compare(a interface{}, b interface{}) (int, error) {
	if t.integer {
		return compareSignedInts(a, b)
	}
	return compareFloats(a, b)
}

// Promote implements the Type interface.
func (t numberType) Promote() Type {
	if t.integer {
		return Int64
	}
	return Float64
}

// Zero implements the Type interface.
func (t numberType) Zero() interface{} {
	if t.integer {
		return int64(0)
	}
	return float64(0)
}

func compareSignedInts(a interface{}, b interface{}) (int, error) {
	ca, err := cast.ToInt64E(a)
	if err != nil {
		return 0, err
	}
	cb, err := cast.ToInt64E(b)
	if err != nil {
		return 0, err
	}

	if ca == cb {
		return 0, nil
	}
	if ca < cb {
		return -1, nil
	}
	return 1, nil
}

func compareFloats(a interface{}, b interface{}) (int, error) {
	ca, err := cast.ToFloat64E(a)
	if err != nil {
		return 0, err
	}
	cb, err := cast.ToFloat64E(b)
	if err != nil {
		return 0, err
	}

	if ca == cb {
		return 0, nil
	}
	if ca < cb {
		return -1, nil
	}
	return 1, nil
}
