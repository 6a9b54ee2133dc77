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

// Boolean is a true/false type. Values are Go bools; a nil value is the
// UNKNOWN truth value of three-valued logic.
var Boolean Type = booleanType{}

type booleanType struct{}

func (t booleanType) String() string { return "BOOLEAN" }

// Convert implements the Type interface.
func (t booleanType) Convert(v interface{}) (interface{}, error) {
	if v == nil {
		return nil, nil
	}

	switch value := v.(type) {
	case bool:
		return value, nil
	case int:
		return value != 0, nil
	case int64:
		return value != 0, nil
	default:
		return nil, ErrInvalidType.New(t.String())
	}
}

// Compare implements the Type interface. false sorts before true.
func (t booleanType) Compare(a interface{}, b interface{}) (int, error) {
	av, err := t.Convert(a)
	if err != nil {
		return 0, err
	}
	bv, err := t.Convert(b)
	if err != nil {
		return 0, err
	}

	ab, bb := av.(bool), bv.(bool)
	if ab == bb {
		return 0, nil
	}
	if !ab {
		return -1, nil
	}
	return 1, nil
}

// Promote implements the Type interface.
func (t booleanType) Promote() Type { return t }

// Zero implements the Type interface.
func (t booleanType) Zero() interface{} { return false }
