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
	"strings"
	"time"

	"github.com/spf13/cast"
)

// Text is a variable-length string type. Values are Go strings.
var Text Type = textType{}

type textType struct{}

func (t textType) String() string { return "TEXT" }

// Convert implements the Type interface.
func (t textType) Convert(v interface{}) (interface{}, error) {
	if v == nil {
		return nil, nil
	}

	if ti, ok := v.(time.Time); ok {
		return ti.Format(DatetimeLayout), nil
	}

	s, err := cast.ToStringE(v)
	if err != nil {
		return nil, ErrInvalidType.Wrap(err, t.String())
	}
	return s, nil
}

// Compare implements the Type interface.
func (t textType) Compare(a interface{}, b interface{}) (int, error) {
	av, err := t.Convert(a)
	if err != nil {
		return 0, err
	}
	bv, err := t.Convert(b)
	if err != nil {
		return 0, err
	}

	return strings.Compare(av.(string), bv.(string)), nil
}

// Promote implements the Type interface.
func (t textType) Promote() Type { return t }

// Zero implements the Type interface.
func (t textType) Zero() interface{} { return "" }
