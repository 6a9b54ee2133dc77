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
)

// DatetimeLayout is the layout of the datetime format for the engine.
const DatetimeLayout = "2006-01-02 15:04:05"

// DateLayout is the layout of the date format for the engine.
const DateLayout = "2006-01-02"

// Datetime is a date and time type. Values are time.Time in UTC.
var Datetime Type = datetimeType{}

type datetimeType struct{}

func (t datetimeType) String() string { return "DATETIME" }

// datetimeLayouts are the accepted text representations of a datetime
// value, tried in order.
var datetimeLayouts = []string{
	DatetimeLayout,
	DateLayout,
	time.RFC3339,
}

// Convert implements the Type interface.
func (t datetimeType) Convert(v interface{}) (interface{}, error) {
	if v == nil {
		return nil, nil
	}

	switch value := v.(type) {
	case time.Time:
		return value.UTC(), nil
	case string:
		for _, layout := range datetimeLayouts {
			if ti, err := time.Parse(layout, value); err == nil {
				return ti.UTC(), nil
			}
		}
		return nil, ErrInvalidType.New(t.String())
	case int64:
		return time.Unix(value, 0).UTC(), nil
	default:
		return nil, ErrInvalidType.New(t.String())
	}
}

// Compare implements the Type interface.
func (t datetimeType) Compare(a interface{}, b interface{}) (int, error) {
	av, err := t.Convert(a)
	if err != nil {
		return 0, err
	}
	bv, err := t.Convert(b)
	if err != nil {
		return 0, err
	}

	at, bt := av.(time.Time), bv.(time.Time)
	if at.Before(bt) {
		return -1, nil
	}
	if at.After(bt) {
		return 1, nil
	}
	return 0, nil
}

// Promote implements the Type interface.
func (t datetimeType) Promote() Type { return t }

// Zero implements the Type interface.
func (t datetimeType) Zero() interface{} { return time.Time{} }
